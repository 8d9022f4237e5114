package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/dialog-digest/internal/config"
	"github.com/nguyentantai21042004/dialog-digest/internal/logger"
	"github.com/nguyentantai21042004/dialog-digest/internal/processor"
	"github.com/nguyentantai21042004/dialog-digest/internal/storage"
	"github.com/nguyentantai21042004/dialog-digest/internal/summarizer"
	"github.com/nguyentantai21042004/dialog-digest/internal/transcriber"
	"github.com/nguyentantai21042004/dialog-digest/pkg/executor"
)

func newRootCommand() *cobra.Command {
	var configFlag string

	rootCmd := &cobra.Command{
		Use:           "dialog-digest",
		Short:         "Transcribe a conversation and summarize it with an LLM",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "config.yaml", "Configuration file path")

	rootCmd.AddCommand(newRunCommand(&configFlag))
	rootCmd.AddCommand(newWatchCommand(&configFlag))

	return rootCmd
}

// pipeline bundles what a command needs after startup.
type pipeline struct {
	cfg  *config.Config
	log  logger.Logger
	proc processor.Processor
}

// newPipeline loads configuration and wires every component explicitly.
func newPipeline(ctx context.Context, configPath string) (*pipeline, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	// Logs go to stderr so stdout carries only the summary.
	log := logger.NewWithFormat(cfg.Logging.Level, cfg.Logging.Format, os.Stderr)

	store, err := storage.New(ctx, cfg.AWS, log)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	tr, err := transcriber.New(ctx, cfg.AWS, cfg.Transcribe, log)
	if err != nil {
		return nil, fmt.Errorf("init transcriber: %w", err)
	}
	sum, err := summarizer.New(ctx, cfg.Summarizer, cfg.AWS, log)
	if err != nil {
		return nil, fmt.Errorf("init summarizer: %w", err)
	}

	return &pipeline{
		cfg:  cfg,
		log:  log,
		proc: processor.New(cfg, store, tr, sum, executor.New(), log),
	}, nil
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}
