package reel

import (
	"fmt"
	"math"

	"reelsmith/internal/services"
)

// ClipPlan describes which slice of source footage to cut and how the
// narration maps onto it. ClipDuration bounds the encoded clip;
// SubtitleDuration bounds cue timing and tracks the actual audio, which can
// be shorter than the clip when the narration undershoots the minimum
// length.
type ClipPlan struct {
	SourcePath       string
	AudioPath        string
	ScalePad         bool
	StartOffset      float64
	ClipDuration     float64
	SubtitleDuration float64
}

// PlanClip reconciles the script estimate, measured audio length, and
// available footage into a ClipPlan. randFloat supplies the [0, 1) draw for
// the start offset so callers can pin it in tests.
//
// A non-positive sourceDuration is fatal: there is no footage to cut.
// A non-positive audioDuration falls back to the clip duration for
// subtitle timing.
func PlanClip(scriptEstimate, audioDuration, sourceDuration, minBound, maxBound float64, randFloat func() float64) (ClipPlan, error) {
	if sourceDuration <= 0 {
		return ClipPlan{}, services.Wrap(services.ErrDurationSource, "planner", "plan clip",
			fmt.Sprintf("source duration %.3f", sourceDuration), nil)
	}

	estimated := scriptEstimate
	if estimated <= 0 {
		estimated = audioDuration
	}

	target := math.Min(math.Max(estimated, minBound), maxBound)
	// Never cut the clip shorter than the narration itself, up to the cap.
	target = math.Max(target, math.Min(audioDuration, maxBound))
	// A clip cannot exceed the available footage.
	target = math.Min(target, sourceDuration)

	final := math.Min(math.Min(audioDuration, sourceDuration), maxBound)
	if audioDuration <= 0 {
		final = target
	}

	offset := 0.0
	if slack := sourceDuration - target; slack > 0 {
		offset = randFloat() * slack
	}

	return ClipPlan{
		StartOffset:      offset,
		ClipDuration:     target,
		SubtitleDuration: final,
	}, nil
}
