package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"reelsmith/internal/deps"
)

func newDepsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deps",
		Short: "Check external tools and directory access",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			statuses := deps.CheckSystemDeps(cfg)
			statuses = append(statuses,
				deps.CheckDirectoryAccess("output directory", cfg.Paths.OutputDir),
				deps.CheckDirectoryAccess("prescale cache", cfg.Paths.PrescaleDir),
			)

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			failed := false
			for _, status := range statuses {
				kind := statusOK
				message := status.Detail
				if !status.Available {
					kind = statusError
					failed = true
				}
				fmt.Fprintln(out, renderStatusLine(status.Name, kind, message, colorize))
			}

			if strings.TrimSpace(cfg.TTS.APIKey) == "" {
				fmt.Fprintln(out, renderStatusLine("speech API key", statusWarn,
					"not configured; only --audio renders will work", colorize))
			} else {
				fmt.Fprintln(out, renderStatusLine("speech API key", statusOK, "", colorize))
			}

			if failed {
				return errors.New("missing dependencies")
			}
			return nil
		},
	}
}
