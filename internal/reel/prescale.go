package reel

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"golang.org/x/sync/errgroup"

	"reelsmith/internal/logging"
	"reelsmith/internal/services"
)

// prescaleConcurrency bounds parallel ffmpeg runs during cache preparation.
const prescaleConcurrency = 2

// PreScale renders canvas-sized variants of the given source videos into the
// prescale cache so render-time assembly can skip scale and pad stages. The
// cache directory is guarded by a file lock; a second concurrent run fails
// fast instead of double-encoding.
func (a *Assembler) PreScale(ctx context.Context, sources []string) error {
	if err := os.MkdirAll(a.cfg.Paths.PrescaleDir, 0o755); err != nil {
		return services.Wrap(services.ErrIO, "prescale", "prepare",
			fmt.Sprintf("create cache directory %s", a.cfg.Paths.PrescaleDir), err)
	}

	lock := flock.New(filepath.Join(a.cfg.Paths.PrescaleDir, ".prescale.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return services.Wrap(services.ErrIO, "prescale", "prepare", "acquire cache lock", err)
	}
	if !locked {
		return services.Wrap(services.ErrValidation, "prescale", "prepare",
			"another prescale run holds the cache lock", nil)
	}
	defer func() { _ = lock.Unlock() }()

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(prescaleConcurrency)
	for _, source := range sources {
		group.Go(func() error {
			return a.prescaleOne(groupCtx, source)
		})
	}
	return group.Wait()
}

func (a *Assembler) prescaleOne(ctx context.Context, source string) error {
	if _, err := os.Stat(source); err != nil {
		return services.Wrap(services.ErrIO, "prescale", "encode",
			fmt.Sprintf("source video %s", source), err)
	}

	output := a.PreScaledPath(source)
	if a.matchesCanvas(ctx, output) {
		a.logger.Debug("pre-scaled variant up to date", logging.Args(logging.String("path", output))...)
		return nil
	}

	// A source already at canvas size needs no cached variant.
	if a.matchesCanvas(ctx, source) {
		a.logger.Debug("source already matches canvas", logging.Args(logging.String("path", source))...)
		return nil
	}

	width, height := a.cfg.Video.Width, a.cfg.Video.Height
	filter := fmt.Sprintf(
		"scale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2",
		width, height, width, height)
	args := []string{
		"-y",
		"-i", source,
		"-vf", filter,
		"-c:v", a.cfg.Video.Codec,
		"-preset", "medium",
		"-crf", "23",
		"-pix_fmt", "yuv420p",
		"-an",
		output,
	}

	a.logger.Info("pre-scaling source",
		logging.Args(logging.String("source", source), logging.String("output", output))...)

	out, err := a.runCommand(ctx, a.cfg.Video.FFmpegBinary, args...)
	if err != nil {
		_ = os.Remove(output)
		return services.Wrap(services.ErrEncoding, "prescale", "encode",
			fmt.Sprintf("ffmpeg failed for %s: %s", source, tail(string(out), 512)), err)
	}

	if gotWidth, gotHeight, ok := a.probeDims(ctx, output); !ok || gotWidth != width || gotHeight != height {
		_ = os.Remove(output)
		return services.Wrap(services.ErrEncoding, "prescale", "verify",
			fmt.Sprintf("output %s is %dx%d, want %dx%d", output, gotWidth, gotHeight, width, height), nil)
	}
	return nil
}
