package reel

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"reelsmith/internal/config"
	"reelsmith/internal/fileutil"
	"reelsmith/internal/logging"
	"reelsmith/internal/media/ffprobe"
	"reelsmith/internal/services"
)

// Assembler drives ffmpeg to cut, caption, and encode the final clip.
type Assembler struct {
	cfg    *config.Config
	logger *slog.Logger

	// runCommand and probeDims are swapped in tests to avoid invoking
	// ffmpeg and ffprobe.
	runCommand func(ctx context.Context, name string, args ...string) ([]byte, error)
	probeDims  func(ctx context.Context, path string) (int, int, bool)
}

// NewAssembler builds an assembler for the given configuration.
func NewAssembler(cfg *config.Config, logger *slog.Logger) *Assembler {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Assembler{
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "assembler"),
		runCommand: func(ctx context.Context, name string, args ...string) ([]byte, error) {
			return exec.CommandContext(ctx, name, args...).CombinedOutput()
		},
		probeDims: func(ctx context.Context, path string) (int, int, bool) {
			probed, err := ffprobe.Inspect(ctx, cfg.Video.FFprobeBinary, path)
			if err != nil {
				return 0, 0, false
			}
			return probed.Dimensions()
		},
	}
}

// PreScaledPath returns where the pre-scaled variant of source lives in the
// cache directory.
func (a *Assembler) PreScaledPath(source string) string {
	stem := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	return filepath.Join(a.cfg.Paths.PrescaleDir, stem+"_pre_scaled.mp4")
}

// ResolveSource picks the footage file to cut from and reports whether the
// filter graph still needs scale and pad stages. A pre-scaled variant that
// matches the target canvas exactly wins; failing that, a source already at
// canvas size skips scaling too.
func (a *Assembler) ResolveSource(ctx context.Context) (string, bool, error) {
	source := a.cfg.Paths.SourceVideo
	if strings.TrimSpace(source) == "" {
		return "", false, services.Wrap(services.ErrConfiguration, "assembler", "resolve source",
			"paths.source_video not configured", nil)
	}
	if _, err := os.Stat(source); err != nil {
		return "", false, services.Wrap(services.ErrIO, "assembler", "resolve source",
			fmt.Sprintf("source video %s", source), err)
	}

	for _, candidate := range []string{
		a.PreScaledPath(source),
		strings.TrimSuffix(source, filepath.Ext(source)) + "_pre_scaled.mp4",
	} {
		if a.matchesCanvas(ctx, candidate) {
			a.logger.Debug("using pre-scaled source", logging.Args(logging.String("path", candidate))...)
			return candidate, false, nil
		}
	}

	if a.matchesCanvas(ctx, source) {
		return source, false, nil
	}
	return source, true, nil
}

func (a *Assembler) matchesCanvas(ctx context.Context, path string) bool {
	if _, err := os.Stat(path); err != nil {
		return false
	}
	width, height, ok := a.probeDims(ctx, path)
	return ok && width == a.cfg.Video.Width && height == a.cfg.Video.Height
}

// buildFilter composes the video filter graph: optional scale-to-fit and
// pad-to-canvas stages ahead of the subtitle overlay.
func (a *Assembler) buildFilter(subtitlePath string, scalePad bool) string {
	if !scalePad {
		return fmt.Sprintf("ass=%s", subtitlePath)
	}
	width, height := a.cfg.Video.Width, a.cfg.Video.Height
	return fmt.Sprintf(
		"scale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2,ass=%s",
		width, height, width, height, subtitlePath)
}

// Assemble encodes the final clip. Encoding failures are soft: an empty
// placeholder is written at outputPath and the returned error carries the
// encoding marker so callers can flag degraded output instead of aborting.
func (a *Assembler) Assemble(ctx context.Context, plan ClipPlan, subtitlePath, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return services.Wrap(services.ErrIO, "assembler", "encode",
			fmt.Sprintf("create output directory for %s", outputPath), err)
	}

	args := []string{
		"-y",
		"-ss", fmt.Sprintf("%.3f", plan.StartOffset),
		"-i", plan.SourcePath,
		"-i", plan.AudioPath,
		"-t", fmt.Sprintf("%.3f", plan.ClipDuration),
		"-vf", a.buildFilter(subtitlePath, plan.ScalePad),
		"-map", "0:v:0",
		"-map", "1:a:0",
		"-c:v", a.cfg.Video.Codec,
		"-c:a", "aac",
		"-b:a", "192k",
		"-pix_fmt", "yuv420p",
		"-shortest",
		outputPath,
	}

	a.logger.Info("assembling clip",
		logging.Args(
			logging.String("source", plan.SourcePath),
			logging.Float64("offset", plan.StartOffset),
			logging.Float64("duration", plan.ClipDuration),
			logging.String("output", outputPath),
		)...)

	output, err := a.runCommand(ctx, a.cfg.Video.FFmpegBinary, args...)
	if err != nil {
		return a.placeholderFailure(outputPath,
			fmt.Sprintf("ffmpeg failed: %s", tail(string(output), 512)), err)
	}

	info, statErr := os.Stat(outputPath)
	if statErr != nil {
		return a.placeholderFailure(outputPath, "output missing after encode", statErr)
	}
	if info.Size() == 0 {
		return a.placeholderFailure(outputPath, "output empty after encode", nil)
	}
	return nil
}

// placeholderFailure substitutes an empty file for the failed output and
// reports the soft encoding error.
func (a *Assembler) placeholderFailure(outputPath, message string, cause error) error {
	if touchErr := fileutil.Touch(outputPath); touchErr != nil {
		return services.Wrap(services.ErrIO, "assembler", "encode",
			fmt.Sprintf("write placeholder %s", outputPath), touchErr)
	}
	a.logger.Warn("encoding failed, placeholder written",
		logging.Args(logging.String("output", outputPath), logging.String("reason", message))...)
	return services.Wrap(services.ErrEncoding, "assembler", "encode", message, cause)
}

func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
