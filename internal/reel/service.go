// Package reel turns a narration script and stock footage into a captioned,
// narrated clip. It plans the cut, synthesizes speech, builds subtitles, and
// drives the encoder, degrading gracefully when timing data or the encoder
// are unavailable.
package reel

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"reelsmith/internal/alignment"
	"reelsmith/internal/config"
	"reelsmith/internal/deps"
	"reelsmith/internal/fileutil"
	"reelsmith/internal/logging"
	"reelsmith/internal/media/ffprobe"
	"reelsmith/internal/reelstore"
	"reelsmith/internal/services"
	"reelsmith/internal/subtitles"
	"reelsmith/internal/textutil"
	"reelsmith/internal/tts"
)

// Service renders reels. Each Render call is self-contained; the only state
// shared between calls is the read-only prescale cache and the reel store.
type Service struct {
	cfg       *config.Config
	provider  tts.Provider
	store     *reelstore.Store
	assembler *Assembler
	logger    *slog.Logger

	randFloat     func() float64
	probeDuration func(ctx context.Context, path string) (float64, error)
}

// Request describes one reel to render. AudioPath short-circuits speech
// synthesis with pre-rendered narration; TracePath optionally supplies its
// alignment payload.
type Request struct {
	Topic       string
	Subtopic    string
	Concept     string
	Script      string
	OutputPath  string
	AudioPath   string
	TracePath   string
	ForceUnique bool
}

// Result reports what was rendered. Degraded is set when the encoder failed
// and an empty placeholder stands in for the clip.
type Result struct {
	OutputPath string
	AudioPath  string
	Script     string
	Duration   float64
	Degraded   bool
	CacheKey   string
}

// New builds a render service. store may be nil when no reel index is
// configured.
func New(cfg *config.Config, provider tts.Provider, store *reelstore.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = logging.NewNop()
	}
	svc := &Service{
		cfg:       cfg,
		provider:  provider,
		store:     store,
		assembler: NewAssembler(cfg, logger),
		logger:    logging.NewComponentLogger(logger, "reel"),
		randFloat: rand.Float64,
	}
	svc.probeDuration = func(ctx context.Context, path string) (float64, error) {
		probed, err := ffprobe.Inspect(ctx, cfg.Video.FFprobeBinary, path)
		if err != nil {
			return 0, err
		}
		return probed.DurationSeconds(), nil
	}
	return svc
}

// EstimateDuration predicts the narration length of a script in seconds at
// the configured speaking rate, before any audio exists.
func (s *Service) EstimateDuration(script string) float64 {
	sanitized := textutil.Sanitize(script)
	return textutil.EstimateDuration(sanitized, s.cfg.Narration.WordsPerMinute).Seconds()
}

// Render produces one reel. Alignment problems degrade silently to
// heuristic subtitle timing; an encoder failure yields a placeholder output
// and Result.Degraded instead of an error. Duration and I/O problems are
// returned as errors.
func (s *Service) Render(ctx context.Context, req Request) (Result, error) {
	sanitized := textutil.Sanitize(req.Script)
	cacheKey := reelstore.CacheKey(req.Topic, req.Subtopic, req.Concept, req.ForceUnique)

	outputPath := strings.TrimSpace(req.OutputPath)
	if outputPath == "" {
		outputPath = filepath.Join(s.cfg.Paths.OutputDir, "reel-"+cacheKey+".mp4")
	}
	outputDir := filepath.Dir(outputPath)
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return Result{}, services.Wrap(services.ErrIO, "reel", "render",
			fmt.Sprintf("create output directory %s", outputDir), err)
	}
	if status := deps.CheckDirectoryAccess("output", outputDir); !status.Available {
		return Result{}, services.Wrap(services.ErrIO, "reel", "render", status.Detail, nil)
	}

	if !req.ForceUnique {
		if cached, ok, err := s.reuseCached(ctx, cacheKey, outputPath); err != nil {
			return Result{}, err
		} else if ok {
			return cached, nil
		}
	}

	// Per-request workspace; the uuid name keeps concurrent renders apart.
	workDir := filepath.Join(os.TempDir(), "reelsmith-"+uuid.NewString())
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return Result{}, services.Wrap(services.ErrIO, "reel", "render", "create workspace", err)
	}
	defer func() { _ = os.RemoveAll(workDir) }()

	audioPath, trace, err := s.narration(ctx, req, sanitized, workDir)
	if err != nil {
		return Result{}, err
	}

	audioDuration, err := s.probeDuration(ctx, audioPath)
	if err != nil {
		s.logger.Warn("audio probe failed, falling back to estimated timing",
			logging.Args(logging.String("audio", audioPath), logging.Error(err))...)
		audioDuration = 0
	}

	sourcePath, scalePad, err := s.assembler.ResolveSource(ctx)
	if err != nil {
		return Result{}, err
	}
	sourceDuration, err := s.probeDuration(ctx, sourcePath)
	if err != nil {
		return Result{}, services.Wrap(services.ErrDurationSource, "reel", "render",
			fmt.Sprintf("probe source %s", sourcePath), err)
	}

	estimate := textutil.EstimateDuration(sanitized, s.cfg.Narration.WordsPerMinute).Seconds()
	plan, err := PlanClip(estimate, audioDuration, sourceDuration,
		s.cfg.Video.MinClipSeconds, s.cfg.Video.MaxClipSeconds, s.randFloat)
	if err != nil {
		return Result{}, err
	}
	plan.SourcePath = sourcePath
	plan.AudioPath = audioPath
	plan.ScalePad = scalePad

	var timings []alignment.SentenceTiming
	if trace != nil {
		timings = alignment.Words(*trace, sanitized)
	}

	cues := subtitles.BuildCues(sanitized, plan.SubtitleDuration, timings, subtitles.Options{
		WrapChars: s.cfg.Subtitles.WrapChars,
		MaxLines:  s.cfg.Subtitles.MaxLines,
	})
	assScript := subtitles.Render(cues, subtitles.Style{
		PlayResX: s.cfg.Video.Width,
		PlayResY: s.cfg.Video.Height,
		Font:     s.cfg.Subtitles.Font,
		FontSize: s.cfg.Subtitles.FontSize,
		MarginV:  s.cfg.Subtitles.MarginV,
	})
	subtitlePath := filepath.Join(workDir, "subtitles.ass")
	if err := fileutil.WriteFileAtomic(subtitlePath, []byte(assScript), 0o644); err != nil {
		return Result{}, services.Wrap(services.ErrIO, "reel", "render",
			fmt.Sprintf("write subtitles %s", subtitlePath), err)
	}

	s.logger.Info("rendering reel",
		logging.Args(
			logging.String("concept", req.Concept),
			logging.Float64("clip_seconds", plan.ClipDuration),
			logging.Float64("subtitle_seconds", plan.SubtitleDuration),
			logging.Bool("karaoke", len(timings) > 0),
		)...)

	result := Result{
		OutputPath: outputPath,
		AudioPath:  audioPath,
		Script:     sanitized,
		Duration:   plan.ClipDuration,
		CacheKey:   cacheKey,
	}
	if err := s.assembler.Assemble(ctx, plan, subtitlePath, outputPath); err != nil {
		if !services.Soft(err) {
			return Result{}, err
		}
		result.Degraded = true
	}

	if s.store != nil {
		record := reelstore.Reel{
			CacheKey:        cacheKey,
			Topic:           req.Topic,
			Subtopic:        req.Subtopic,
			Concept:         req.Concept,
			Script:          sanitized,
			DurationSeconds: result.Duration,
			OutputPath:      outputPath,
			Degraded:        result.Degraded,
		}
		if err := s.store.Record(ctx, record); err != nil {
			s.logger.Warn("failed to record reel", logging.Args(logging.Error(err))...)
		}
	}
	return result, nil
}

// reuseCached serves a previously rendered reel for the same cache key,
// skipping synthesis and encoding entirely. Only intact, non-degraded
// recordings qualify; a placeholder or a deleted output file falls through
// to a fresh render. When the caller asked for a different output path the
// cached clip is copied there.
func (s *Service) reuseCached(ctx context.Context, cacheKey, outputPath string) (Result, bool, error) {
	if s.store == nil {
		return Result{}, false, nil
	}
	prior, err := s.store.Lookup(ctx, cacheKey)
	if err != nil {
		s.logger.Warn("reel lookup failed", logging.Args(logging.Error(err))...)
		return Result{}, false, nil
	}
	if prior == nil || prior.Degraded {
		return Result{}, false, nil
	}
	info, err := os.Stat(prior.OutputPath)
	if err != nil || info.Size() == 0 {
		return Result{}, false, nil
	}

	if prior.OutputPath != outputPath {
		if err := fileutil.CopyFile(prior.OutputPath, outputPath); err != nil {
			return Result{}, false, services.Wrap(services.ErrIO, "reel", "render",
				fmt.Sprintf("copy cached reel to %s", outputPath), err)
		}
	}

	s.logger.Info("reusing cached reel",
		logging.Args(logging.String("cache_key", cacheKey), logging.String("output", outputPath))...)
	return Result{
		OutputPath: outputPath,
		Script:     prior.Script,
		Duration:   prior.DurationSeconds,
		CacheKey:   cacheKey,
	}, true, nil
}

// narration resolves the audio file and optional alignment trace, either
// from the request or by synthesizing the script.
func (s *Service) narration(ctx context.Context, req Request, sanitized, workDir string) (string, *alignment.Trace, error) {
	if strings.TrimSpace(req.AudioPath) != "" {
		var trace *alignment.Trace
		if strings.TrimSpace(req.TracePath) != "" {
			payload, err := os.ReadFile(req.TracePath)
			if err != nil {
				return "", nil, services.Wrap(services.ErrIO, "reel", "render",
					fmt.Sprintf("read alignment %s", req.TracePath), err)
			}
			if parsed, ok := alignment.ParseTrace(payload); ok {
				trace = &parsed
			} else {
				// Unusable trace degrades to heuristic timing.
				s.logger.Warn("alignment payload unusable",
					logging.Args(logging.String("path", req.TracePath))...)
			}
		}
		return req.AudioPath, trace, nil
	}

	audioPath := filepath.Join(workDir, "narration.mp3")
	speech, err := s.provider.Synthesize(ctx, sanitized, audioPath)
	if err != nil {
		return "", nil, err
	}
	return speech.AudioPath, speech.Trace, nil
}
