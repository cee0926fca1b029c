package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"reelsmith/internal/config"
	"reelsmith/internal/deps"
	"reelsmith/internal/reel"
)

func newPrescaleCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prescale [video...]",
		Short: "Pre-render canvas-sized variants of source footage",
		Long: "Encodes each video to the configured canvas size into the prescale cache\n" +
			"so later renders can skip the scale and pad stages. With no arguments the\n" +
			"configured source video is processed.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			if missing := deps.FirstMissing(deps.CheckSystemDeps(cfg)); missing != nil {
				return fmt.Errorf("missing dependency %s: %s", missing.Name, missing.Detail)
			}

			sources := make([]string, 0, len(args))
			for _, arg := range args {
				expanded, err := config.ExpandPath(arg)
				if err != nil {
					return fmt.Errorf("resolve path %q: %w", arg, err)
				}
				sources = append(sources, expanded)
			}
			if len(sources) == 0 {
				if strings.TrimSpace(cfg.Paths.SourceVideo) == "" {
					return errors.New("no videos given and paths.source_video is not configured")
				}
				sources = append(sources, cfg.Paths.SourceVideo)
			}

			assembler := reel.NewAssembler(cfg, logger)
			if err := assembler.PreScale(cmd.Context(), sources); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			for _, source := range sources {
				fmt.Fprintln(out, renderStatusLine("Processed", statusOK, source, colorize))
			}
			return nil
		},
	}
	return cmd
}
