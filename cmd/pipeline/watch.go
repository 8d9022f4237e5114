package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/dialog-digest/internal/processor"
	"github.com/nguyentantai21042004/dialog-digest/internal/watcher"
)

func newWatchCommand(configFlag *string) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Process every media file dropped into the input folder",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			p, err := newPipeline(ctx, *configFlag)
			if err != nil {
				return err
			}
			cfg, log := p.cfg, p.log

			for _, dir := range []string{cfg.Paths.Input, cfg.Paths.Output, cfg.Paths.Temp} {
				if err := os.MkdirAll(dir, 0755); err != nil {
					return fmt.Errorf("create directory %s: %w", dir, err)
				}
			}

			handler := func(ctx context.Context, path string) error {
				_, err := p.proc.Process(ctx, path)
				return err
			}
			w, err := watcher.New(cfg.Paths.Input, handler, processor.IsSupported, log, cfg.Performance.MaxConcurrent)
			if err != nil {
				return err
			}
			defer w.Stop()

			log.Info(ctx, "========================================")
			log.Info(ctx, "Dialog digest is ready!")
			log.Info(ctx, "System: %s/%s", runtime.GOOS, runtime.GOARCH)
			log.Info(ctx, "Monitoring: %s", cfg.Paths.Input)
			log.Info(ctx, "Output: %s", cfg.Paths.Output)
			log.Info(ctx, "Bucket: %s (%s)", cfg.AWS.Bucket, cfg.AWS.Region)
			log.Info(ctx, "Summarizer: %s %s", cfg.Summarizer.Provider, cfg.Summarizer.Model)
			log.Info(ctx, "Press Ctrl+C to stop")
			log.Info(ctx, "========================================")

			err = w.Start(ctx)
			log.Info(ctx, "Dialog digest stopped")
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
}
