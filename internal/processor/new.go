package processor

import (
	"github.com/google/uuid"

	"github.com/nguyentantai21042004/dialog-digest/internal/config"
	"github.com/nguyentantai21042004/dialog-digest/internal/logger"
	"github.com/nguyentantai21042004/dialog-digest/internal/storage"
	"github.com/nguyentantai21042004/dialog-digest/internal/summarizer"
	"github.com/nguyentantai21042004/dialog-digest/internal/transcriber"
	"github.com/nguyentantai21042004/dialog-digest/pkg/executor"
)

type implProcessor struct {
	cfg         *config.Config
	storage     storage.Storage
	transcriber transcriber.Transcriber
	summarizer  summarizer.Summarizer
	executor    executor.Executor
	logger      logger.Logger
	newJobName  func() string
}

// New creates a new Processor instance
func New(
	cfg *config.Config,
	store storage.Storage,
	tr transcriber.Transcriber,
	sum summarizer.Summarizer,
	exec executor.Executor,
	log logger.Logger,
) Processor {
	return &implProcessor{
		cfg:         cfg,
		storage:     store,
		transcriber: tr,
		summarizer:  sum,
		executor:    exec,
		logger:      log,
		newJobName:  newJobName,
	}
}

func newJobName() string {
	return "transcription-job-" + uuid.NewString()
}
