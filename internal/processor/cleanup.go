package processor

import (
	"context"
	"os"
)

// cleanupRemote removes the uploaded media, the job output document and
// the job record. It runs whether or not the job succeeded, so missing
// objects and jobs are expected; failures are only logged.
func (p *implProcessor) cleanupRemote(ctx context.Context, jobName string, keys ...string) {
	for _, key := range keys {
		if err := p.storage.Delete(ctx, key); err != nil {
			p.logger.Warn(ctx, "Failed to delete %s: %v", p.storage.URI(key), err)
		}
	}
	if err := p.transcriber.Delete(ctx, jobName); err != nil {
		p.logger.Warn(ctx, "Failed to delete transcription job %s: %v", jobName, err)
	}
}

// cleanupTempFile removes a temporary file, logs warning if fails
func (p *implProcessor) cleanupTempFile(ctx context.Context, filePath string) {
	if err := os.Remove(filePath); err != nil {
		p.logger.Warn(ctx, "Failed to cleanup temp file %s: %v", filePath, err)
	} else {
		p.logger.Debug(ctx, "Cleaned up temp file: %s", filePath)
	}
}
