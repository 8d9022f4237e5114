package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRunCommand(configFlag *string) *cobra.Command {
	return &cobra.Command{
		Use:   "run <media>",
		Short: "Transcribe and summarize one audio or video file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			p, err := newPipeline(ctx, *configFlag)
			if err != nil {
				return err
			}

			res, err := p.proc.Process(ctx, args[0])
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), res.Summary)
			return nil
		},
	}
}
