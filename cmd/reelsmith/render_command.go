package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"reelsmith/internal/config"
	"reelsmith/internal/deps"
	"reelsmith/internal/reel"
	"reelsmith/internal/reelstore"
	"reelsmith/internal/tts"
)

func newRenderCommand(ctx *commandContext) *cobra.Command {
	var (
		scriptText    string
		scriptFile    string
		audioPath     string
		alignmentPath string
		topic         string
		subtopic      string
		concept       string
		outputPath    string
		forceUnique   bool
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a narrated, captioned clip from a script",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			script, err := resolveScript(scriptText, scriptFile)
			if err != nil {
				return err
			}
			if err := checkRenderDeps(cfg, strings.TrimSpace(audioPath) != ""); err != nil {
				return err
			}

			store, err := reelstore.Open(cfg.Paths.StorePath)
			if err != nil {
				return fmt.Errorf("open reel store: %w", err)
			}
			defer store.Close()

			provider := tts.NewElevenLabs(cfg.TTS, logger)
			service := reel.New(cfg, provider, store, logger)

			result, err := service.Render(cmd.Context(), reel.Request{
				Topic:       topic,
				Subtopic:    subtopic,
				Concept:     concept,
				Script:      script,
				OutputPath:  outputPath,
				AudioPath:   audioPath,
				TracePath:   alignmentPath,
				ForceUnique: forceUnique,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			fmt.Fprintln(out, renderStatusLine("Output", statusOK, result.OutputPath, colorize))
			fmt.Fprintln(out, renderStatusLine("Clip length", statusInfo, fmt.Sprintf("%.1fs", result.Duration), colorize))
			if result.Degraded {
				fmt.Fprintln(out, renderStatusLine("Encode", statusWarn, "failed; placeholder written", colorize))
			} else {
				fmt.Fprintln(out, renderStatusLine("Encode", statusOK, "", colorize))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&scriptText, "script", "", "Narration script text")
	cmd.Flags().StringVar(&scriptFile, "script-file", "", "Read the narration script from a file")
	cmd.Flags().StringVar(&audioPath, "audio", "", "Use pre-rendered narration audio instead of synthesizing")
	cmd.Flags().StringVar(&alignmentPath, "alignment-json", "", "Character timing payload for --audio")
	cmd.Flags().StringVar(&topic, "topic", "", "Topic the script belongs to")
	cmd.Flags().StringVar(&subtopic, "subtopic", "", "Subtopic the script belongs to")
	cmd.Flags().StringVar(&concept, "concept", "", "Concept the script explains")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Destination for the rendered clip")
	cmd.Flags().BoolVar(&forceUnique, "force", false, "Render even when a reel with the same key exists")

	return cmd
}

func resolveScript(scriptText, scriptFile string) (string, error) {
	text := strings.TrimSpace(scriptText)
	file := strings.TrimSpace(scriptFile)
	switch {
	case text != "" && file != "":
		return "", errors.New("--script and --script-file are mutually exclusive")
	case text != "":
		return scriptText, nil
	case file != "":
		expanded, err := config.ExpandPath(file)
		if err != nil {
			return "", fmt.Errorf("resolve script path: %w", err)
		}
		data, err := os.ReadFile(expanded)
		if err != nil {
			return "", fmt.Errorf("read script: %w", err)
		}
		return string(data), nil
	default:
		return "", errors.New("a script is required (--script or --script-file)")
	}
}

// checkRenderDeps fails fast when required external tools are missing. The
// speech API key is only needed when narration has to be synthesized.
func checkRenderDeps(cfg *config.Config, audioSupplied bool) error {
	if missing := deps.FirstMissing(deps.CheckSystemDeps(cfg)); missing != nil {
		return fmt.Errorf("missing dependency %s: %s", missing.Name, missing.Detail)
	}
	if !audioSupplied && strings.TrimSpace(cfg.TTS.APIKey) == "" {
		return errors.New("tts.api_key is not configured (or export ELEVENLABS_API_KEY); supply --audio to skip synthesis")
	}
	return nil
}
