package tts

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"reelsmith/internal/alignment"
	"reelsmith/internal/config"
	"reelsmith/internal/fileutil"
	"reelsmith/internal/logging"
	"reelsmith/internal/services"
	"reelsmith/internal/textutil"
)

// ElevenLabs synthesizes speech through the ElevenLabs HTTP API.
type ElevenLabs struct {
	cfg        config.TTS
	capability Capability
	client     *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// NewElevenLabs builds a provider from the TTS config section. The timestamp
// capability is fixed here; callers dispatch on Capability() rather than
// probing the API per request.
func NewElevenLabs(cfg config.TTS, logger *slog.Logger) *ElevenLabs {
	capability := PlainAudio
	if cfg.Timestamps {
		capability = WithTimestamps
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	rpm := cfg.RequestsPerMinute
	if rpm <= 0 {
		// Same fallback the config normalizer applies, so a hand-built
		// TTS section cannot zero the limiter interval.
		rpm = 20
	}
	interval := time.Minute / time.Duration(rpm)
	return &ElevenLabs{
		cfg:        cfg,
		capability: capability,
		client:     &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		limiter:    rate.NewLimiter(rate.Every(interval), 1),
		logger:     logging.NewComponentLogger(logger, "tts"),
	}
}

// Capability reports whether this provider returns timing traces.
func (e *ElevenLabs) Capability() Capability {
	return e.capability
}

type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style"`
	UseSpeakerBoost bool    `json:"use_speaker_boost"`
}

type synthesisRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings voiceSettings `json:"voice_settings"`
}

type timestampResponse struct {
	AudioBase64 string `json:"audio_base64"`
}

// Synthesize speaks text into outputPath. Text is sanitized before the
// request so the provider's character timings line up with the script the
// subtitle builder sees.
func (e *ElevenLabs) Synthesize(ctx context.Context, text, outputPath string) (SpeechResult, error) {
	if strings.TrimSpace(e.cfg.APIKey) == "" {
		return SpeechResult{}, services.Wrap(services.ErrConfiguration, "tts", "synthesize", "api key not configured", nil)
	}
	if err := e.limiter.Wait(ctx); err != nil {
		return SpeechResult{}, services.Wrap(services.ErrExternalTool, "tts", "synthesize", "rate limit wait", err)
	}

	sanitized := textutil.Sanitize(text)
	body, err := json.Marshal(synthesisRequest{
		Text:    sanitized,
		ModelID: e.cfg.ModelID,
		VoiceSettings: voiceSettings{
			Stability:       0.5,
			SimilarityBoost: 0.75,
			UseSpeakerBoost: true,
		},
	})
	if err != nil {
		return SpeechResult{}, services.Wrap(services.ErrExternalTool, "tts", "synthesize", "encode request", err)
	}

	endpoint := fmt.Sprintf("%s/v1/text-to-speech/%s", e.cfg.BaseURL, e.cfg.VoiceID)
	if e.capability == WithTimestamps {
		endpoint += "/with-timestamps"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return SpeechResult{}, services.Wrap(services.ErrExternalTool, "tts", "synthesize", "build request", err)
	}
	req.Header.Set("xi-api-key", e.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")
	if e.capability == PlainAudio {
		req.Header.Set("Accept", "audio/mpeg")
	}

	e.logger.Debug("synthesizing narration",
		logging.Args(
			logging.Int("chars", len(sanitized)),
			logging.String("capability", e.capability.String()),
		)...)

	resp, err := e.client.Do(req)
	if err != nil {
		return SpeechResult{}, services.Wrap(services.ErrExternalTool, "tts", "synthesize", "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		message := fmt.Sprintf("provider returned %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
		return SpeechResult{}, services.Wrap(services.ErrExternalTool, "tts", "synthesize", message, nil)
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return SpeechResult{}, services.Wrap(services.ErrExternalTool, "tts", "synthesize", "read response", err)
	}

	if e.capability == PlainAudio {
		if err := e.writeAudio(outputPath, payload); err != nil {
			return SpeechResult{}, err
		}
		return SpeechResult{AudioPath: outputPath}, nil
	}

	var decoded timestampResponse
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return SpeechResult{}, services.Wrap(services.ErrExternalTool, "tts", "synthesize", "decode response", err)
	}
	audio, err := base64.StdEncoding.DecodeString(decoded.AudioBase64)
	if err != nil {
		return SpeechResult{}, services.Wrap(services.ErrExternalTool, "tts", "synthesize", "decode audio", err)
	}
	if err := e.writeAudio(outputPath, audio); err != nil {
		return SpeechResult{}, err
	}

	result := SpeechResult{AudioPath: outputPath}
	if trace, ok := alignment.ParseTrace(payload); ok {
		result.Trace = &trace
	} else {
		// Missing trace degrades to heuristic timing; not an error.
		e.logger.Warn("provider response carried no usable alignment trace")
	}
	return result, nil
}

func (e *ElevenLabs) writeAudio(path string, audio []byte) error {
	if len(audio) == 0 {
		return services.Wrap(services.ErrExternalTool, "tts", "synthesize", "provider returned empty audio", nil)
	}
	if err := fileutil.WriteFileAtomic(path, audio, 0o644); err != nil {
		return services.Wrap(services.ErrIO, "tts", "synthesize", fmt.Sprintf("write audio %s", path), err)
	}
	return nil
}
