// Package tts synthesizes narration audio, optionally with the
// character-level timing trace used for karaoke subtitles.
package tts

import (
	"context"

	"reelsmith/internal/alignment"
)

// Capability identifies what a speech provider can return. It is negotiated
// once at construction and never probed per call.
type Capability int

const (
	// PlainAudio providers return only an audio file.
	PlainAudio Capability = iota
	// WithTimestamps providers also return a character timing trace.
	WithTimestamps
)

// String returns a readable capability name for logs.
func (c Capability) String() string {
	switch c {
	case WithTimestamps:
		return "with-timestamps"
	default:
		return "plain-audio"
	}
}

// SpeechResult is the outcome of one synthesis call. Trace is nil when the
// provider only produced audio.
type SpeechResult struct {
	AudioPath string
	Trace     *alignment.Trace
}

// Provider converts narration text into speech.
type Provider interface {
	Capability() Capability
	Synthesize(ctx context.Context, text, outputPath string) (SpeechResult, error)
}
