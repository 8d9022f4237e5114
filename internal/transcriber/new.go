package transcriber

import (
	"context"
	"time"

	awstranscribe "github.com/aws/aws-sdk-go-v2/service/transcribe"

	"github.com/nguyentantai21042004/dialog-digest/internal/config"
	"github.com/nguyentantai21042004/dialog-digest/internal/logger"
)

// transcribeAPI is the subset of the Amazon Transcribe client in use.
type transcribeAPI interface {
	StartTranscriptionJob(ctx context.Context, in *awstranscribe.StartTranscriptionJobInput, optFns ...func(*awstranscribe.Options)) (*awstranscribe.StartTranscriptionJobOutput, error)
	GetTranscriptionJob(ctx context.Context, in *awstranscribe.GetTranscriptionJobInput, optFns ...func(*awstranscribe.Options)) (*awstranscribe.GetTranscriptionJobOutput, error)
	DeleteTranscriptionJob(ctx context.Context, in *awstranscribe.DeleteTranscriptionJobInput, optFns ...func(*awstranscribe.Options)) (*awstranscribe.DeleteTranscriptionJobOutput, error)
}

type implTranscriber struct {
	client       transcribeAPI
	pollInterval time.Duration
	timeout      time.Duration
	logger       logger.Logger
}

// New creates a Transcriber backed by Amazon Transcribe.
func New(ctx context.Context, awsCfg config.AWSConfig, cfg config.TranscribeConfig, log logger.Logger) (Transcriber, error) {
	sdkCfg, err := awsCfg.SDKConfig(ctx)
	if err != nil {
		return nil, err
	}
	return newWithClient(awstranscribe.NewFromConfig(sdkCfg), cfg.PollInterval, cfg.Timeout, log), nil
}

func newWithClient(client transcribeAPI, pollInterval, timeout time.Duration, log logger.Logger) *implTranscriber {
	if pollInterval <= 0 {
		pollInterval = 2 * time.Second
	}
	return &implTranscriber{
		client:       client,
		pollInterval: pollInterval,
		timeout:      timeout,
		logger:       log,
	}
}
