package processor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nguyentantai21042004/dialog-digest/internal/summarizer"
	"github.com/nguyentantai21042004/dialog-digest/internal/transcript"
)

// writeText writes content under the output folder and returns its path.
func (p *implProcessor) writeText(ctx context.Context, name, content string) (string, error) {
	path := filepath.Join(p.cfg.Paths.Output, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	p.logger.Info(ctx, "Wrote %s", path)
	return path, nil
}

// writeTranscriptExtras writes the optional subtitle and docx forms of the
// transcript. They are best effort: failures are logged and skipped.
func (p *implProcessor) writeTranscriptExtras(ctx context.Context, jobName, text string, tokens []transcript.Token) []string {
	var written []string

	if p.cfg.Output.Subtitles {
		path := filepath.Join(p.cfg.Paths.Output, jobName+".srt")
		if err := writeSubtitles(path, tokens); err != nil {
			p.logger.Warn(ctx, "Failed to write subtitles: %v", err)
		} else {
			written = append(written, path)
		}
	}

	if p.cfg.Output.Docx {
		path := filepath.Join(p.cfg.Paths.Output, jobName+".docx")
		if err := summarizer.WriteTranscriptDocx(jobName, text, path); err != nil {
			p.logger.Warn(ctx, "Failed to write transcript docx: %v", err)
		} else {
			written = append(written, path)
		}
	}

	return written
}

func (p *implProcessor) writeSummaryExtras(ctx context.Context, jobName, summary string) []string {
	if !p.cfg.Output.Docx {
		return nil
	}
	path := filepath.Join(p.cfg.Paths.Output, "result-"+jobName+".docx")
	if err := summarizer.WriteDocx(jobName, summary, path); err != nil {
		p.logger.Warn(ctx, "Failed to write summary docx: %v", err)
		return nil
	}
	return []string{path}
}

func writeSubtitles(path string, tokens []transcript.Token) error {
	cues, err := transcript.Subtitles(tokens, transcript.DefaultCueChars)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := transcript.WriteSRT(f, cues); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
