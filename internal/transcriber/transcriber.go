package transcriber

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awstranscribe "github.com/aws/aws-sdk-go-v2/service/transcribe"
	"github.com/aws/aws-sdk-go-v2/service/transcribe/types"
)

// supportedFormats are the containers Amazon Transcribe accepts directly.
var supportedFormats = map[string]bool{
	"mp3": true, "mp4": true, "wav": true, "flac": true,
	"ogg": true, "amr": true, "webm": true, "m4a": true,
}

// MediaFormat derives the service media format from a file extension.
// It returns "" for containers the service cannot read.
func MediaFormat(path string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if supportedFormats[ext] {
		return ext
	}
	return ""
}

// Start submits job. The media must already be in the bucket.
func (t *implTranscriber) Start(ctx context.Context, job Job) error {
	format := job.MediaFormat
	if format == "" {
		format = MediaFormat(job.MediaURI)
	}
	if format == "" {
		return fmt.Errorf("unsupported media format: %s", job.MediaURI)
	}

	in := &awstranscribe.StartTranscriptionJobInput{
		TranscriptionJobName: aws.String(job.Name),
		Media:                &types.Media{MediaFileUri: aws.String(job.MediaURI)},
		MediaFormat:          types.MediaFormat(format),
		LanguageCode:         types.LanguageCode(job.LanguageCode),
	}
	if job.OutputBucket != "" {
		in.OutputBucketName = aws.String(job.OutputBucket)
	}
	if job.SpeakerLabels {
		in.Settings = &types.Settings{
			ShowSpeakerLabels: aws.Bool(true),
			MaxSpeakerLabels:  aws.Int32(int32(job.MaxSpeakers)),
		}
	}

	t.logger.Info(ctx, "Starting transcription job %s (%s, %s, speakers: %d)",
		job.Name, format, job.LanguageCode, job.MaxSpeakers)

	if _, err := t.client.StartTranscriptionJob(ctx, in); err != nil {
		return fmt.Errorf("start transcription job: %w", err)
	}
	return nil
}

// Wait polls the job at a fixed interval until it reaches a terminal state.
func (t *implTranscriber) Wait(ctx context.Context, name string) (Status, error) {
	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	ticker := time.NewTicker(t.pollInterval)
	defer ticker.Stop()

	start := time.Now()
	for {
		status, err := t.status(ctx, name)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				return status, fmt.Errorf("%w after %s: %s", ErrJobTimeout, time.Since(start).Round(time.Second), name)
			}
			return status, err
		}

		switch types.TranscriptionJobStatus(status.State) {
		case types.TranscriptionJobStatusCompleted:
			t.logger.Info(ctx, "Transcription job %s completed in %s", name, time.Since(start).Round(time.Second))
			return status, nil
		case types.TranscriptionJobStatusFailed:
			return status, fmt.Errorf("%w: %s: %s", ErrJobFailed, name, status.FailureReason)
		}

		t.logger.Debug(ctx, "Transcription job %s is %s", name, status.State)

		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return status, fmt.Errorf("%w after %s: %s", ErrJobTimeout, time.Since(start).Round(time.Second), name)
			}
			return status, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (t *implTranscriber) status(ctx context.Context, name string) (Status, error) {
	out, err := t.client.GetTranscriptionJob(ctx, &awstranscribe.GetTranscriptionJobInput{
		TranscriptionJobName: aws.String(name),
	})
	if err != nil {
		return Status{Name: name}, fmt.Errorf("get transcription job: %w", err)
	}
	if out.TranscriptionJob == nil {
		return Status{Name: name}, fmt.Errorf("get transcription job: empty response for %s", name)
	}

	job := out.TranscriptionJob
	status := Status{
		Name:          name,
		State:         string(job.TranscriptionJobStatus),
		FailureReason: aws.ToString(job.FailureReason),
	}
	if job.Transcript != nil {
		status.TranscriptURI = aws.ToString(job.Transcript.TranscriptFileUri)
	}
	return status, nil
}

// Delete removes the job record from the service.
func (t *implTranscriber) Delete(ctx context.Context, name string) error {
	_, err := t.client.DeleteTranscriptionJob(ctx, &awstranscribe.DeleteTranscriptionJobInput{
		TranscriptionJobName: aws.String(name),
	})
	if err != nil {
		return fmt.Errorf("delete transcription job: %w", err)
	}
	return nil
}

var _ Transcriber = (*implTranscriber)(nil)
