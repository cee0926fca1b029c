package reel

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"reelsmith/internal/services"
)

func TestPreScaleEncodesAndVerifies(t *testing.T) {
	cfg := testConfig(t)
	dir := t.TempDir()
	source := filepath.Join(dir, "footage.mp4")
	writeTestFile(t, source, "raw")

	assembler := NewAssembler(cfg, nil)
	output := assembler.PreScaledPath(source)

	var calls int
	assembler.runCommand = func(_ context.Context, _ string, args ...string) ([]byte, error) {
		calls++
		if args[len(args)-1] != output {
			t.Errorf("output arg = %q, want %q", args[len(args)-1], output)
		}
		writeTestFile(t, output, "scaled")
		return nil, nil
	}
	assembler.probeDims = dimsAt(cfg.Video.Width, cfg.Video.Height, output)

	if err := assembler.PreScale(context.Background(), []string{source}); err != nil {
		t.Fatalf("PreScale: %v", err)
	}
	if calls != 1 {
		t.Errorf("ffmpeg runs = %d, want 1", calls)
	}
	if _, err := os.Stat(output); err != nil {
		t.Errorf("cached variant missing: %v", err)
	}
}

func TestPreScaleSkipsCachedVariant(t *testing.T) {
	cfg := testConfig(t)
	dir := t.TempDir()
	source := filepath.Join(dir, "footage.mp4")
	writeTestFile(t, source, "raw")

	assembler := NewAssembler(cfg, nil)
	output := assembler.PreScaledPath(source)
	writeTestFile(t, output, "scaled")
	assembler.probeDims = dimsAt(cfg.Video.Width, cfg.Video.Height, output)
	assembler.runCommand = func(context.Context, string, ...string) ([]byte, error) {
		t.Error("ffmpeg invoked for cached variant")
		return nil, nil
	}

	if err := assembler.PreScale(context.Background(), []string{source}); err != nil {
		t.Fatalf("PreScale: %v", err)
	}
}

func TestPreScaleSkipsCanvasSizedSource(t *testing.T) {
	cfg := testConfig(t)
	dir := t.TempDir()
	source := filepath.Join(dir, "footage.mp4")
	writeTestFile(t, source, "raw")

	assembler := NewAssembler(cfg, nil)
	assembler.probeDims = dimsAt(cfg.Video.Width, cfg.Video.Height, source)
	assembler.runCommand = func(context.Context, string, ...string) ([]byte, error) {
		t.Error("ffmpeg invoked for canvas-sized source")
		return nil, nil
	}

	if err := assembler.PreScale(context.Background(), []string{source}); err != nil {
		t.Fatalf("PreScale: %v", err)
	}
}

func TestPreScaleRemovesBadOutput(t *testing.T) {
	cfg := testConfig(t)
	dir := t.TempDir()
	source := filepath.Join(dir, "footage.mp4")
	writeTestFile(t, source, "raw")

	assembler := NewAssembler(cfg, nil)
	output := assembler.PreScaledPath(source)
	assembler.runCommand = func(context.Context, string, ...string) ([]byte, error) {
		writeTestFile(t, output, "scaled")
		return nil, nil
	}
	// Wrong dimensions after encode.
	var verified bool
	assembler.probeDims = func(_ context.Context, path string) (int, int, bool) {
		if path == output {
			verified = true
			return 640, 480, true
		}
		return 0, 0, false
	}

	err := assembler.PreScale(context.Background(), []string{source})
	if !errors.Is(err, services.ErrEncoding) {
		t.Fatalf("PreScale error = %v, want ErrEncoding", err)
	}
	if !verified {
		t.Error("output dimensions never probed")
	}
	if _, statErr := os.Stat(output); !os.IsNotExist(statErr) {
		t.Errorf("bad output not removed: %v", statErr)
	}
}

func TestPreScaleMissingSource(t *testing.T) {
	cfg := testConfig(t)
	assembler := NewAssembler(cfg, nil)
	assembler.runCommand = func(context.Context, string, ...string) ([]byte, error) {
		t.Error("ffmpeg invoked for missing source")
		return nil, nil
	}

	err := assembler.PreScale(context.Background(), []string{filepath.Join(t.TempDir(), "missing.mp4")})
	if !errors.Is(err, services.ErrIO) {
		t.Fatalf("PreScale error = %v, want ErrIO", err)
	}
}
