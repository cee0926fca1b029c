package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"reelsmith/internal/reelstore"
)

func newReelsCommand(ctx *commandContext) *cobra.Command {
	reelsCmd := &cobra.Command{
		Use:   "reels",
		Short: "Inspect the reel index",
	}

	reelsCmd.AddCommand(newReelsListCommand(ctx))
	reelsCmd.AddCommand(newReelsShowCommand(ctx))

	return reelsCmd
}

func newReelsListCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recently rendered reels",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := reelstore.Open(cfg.Paths.StorePath)
			if err != nil {
				return fmt.Errorf("open reel store: %w", err)
			}
			defer store.Close()

			reels, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(reels) == 0 {
				fmt.Fprintln(out, "No reels rendered yet")
				return nil
			}

			rows := make([][]string, 0, len(reels))
			for _, r := range reels {
				rows = append(rows, []string{
					strconv.FormatInt(r.ID, 10),
					r.Concept,
					fmt.Sprintf("%.1fs", r.DurationSeconds),
					yesNo(r.Degraded),
					r.CreatedAt.Local().Format("2006-01-02 15:04"),
					r.OutputPath,
				})
			}
			table := renderTable(
				[]string{"ID", "Concept", "Length", "Degraded", "Created", "Output"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignRight, alignLeft, alignLeft, alignLeft},
			)
			fmt.Fprintln(out, table)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of reels to show")
	return cmd
}

func newReelsShowCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <cache-key>",
		Short: "Show one reel by cache key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := reelstore.Open(cfg.Paths.StorePath)
			if err != nil {
				return fmt.Errorf("open reel store: %w", err)
			}
			defer store.Close()

			reel, err := store.Lookup(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if reel == nil {
				return fmt.Errorf("no reel with cache key %s", args[0])
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			fmt.Fprintln(out, renderStatusLine("Cache key", statusInfo, reel.CacheKey, colorize))
			fmt.Fprintln(out, renderStatusLine("Topic", statusInfo, reel.Topic, colorize))
			fmt.Fprintln(out, renderStatusLine("Subtopic", statusInfo, reel.Subtopic, colorize))
			fmt.Fprintln(out, renderStatusLine("Concept", statusInfo, reel.Concept, colorize))
			fmt.Fprintln(out, renderStatusLine("Length", statusInfo, fmt.Sprintf("%.1fs", reel.DurationSeconds), colorize))
			if reel.Degraded {
				fmt.Fprintln(out, renderStatusLine("Encode", statusWarn, "placeholder output", colorize))
			} else {
				fmt.Fprintln(out, renderStatusLine("Encode", statusOK, "", colorize))
			}
			fmt.Fprintln(out, renderStatusLine("Output", statusInfo, reel.OutputPath, colorize))
			fmt.Fprintln(out, renderStatusLine("Created", statusInfo, reel.CreatedAt.Local().Format("2006-01-02 15:04:05"), colorize))
			return nil
		},
	}
	return cmd
}
