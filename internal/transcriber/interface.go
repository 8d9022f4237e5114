package transcriber

import (
	"context"
	"errors"
)

var (
	ErrJobFailed  = errors.New("transcription job failed")
	ErrJobTimeout = errors.New("transcription job timed out")
)

// Job describes a batch transcription request.
type Job struct {
	Name          string
	MediaURI      string
	MediaFormat   string
	LanguageCode  string
	SpeakerLabels bool
	MaxSpeakers   int

	// OutputBucket receives "<Name>.json" when the job completes.
	OutputBucket string
}

// Status is a snapshot of a job as reported by the service.
type Status struct {
	Name          string
	State         string
	FailureReason string
	TranscriptURI string
}

// Transcriber runs jobs on a managed speech-to-text service.
type Transcriber interface {
	Start(ctx context.Context, job Job) error
	// Wait blocks until the job completes, fails, times out or ctx ends.
	Wait(ctx context.Context, name string) (Status, error)
	Delete(ctx context.Context, name string) error
}
