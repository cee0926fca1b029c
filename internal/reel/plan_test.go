package reel

import (
	"errors"
	"math"
	"testing"

	"reelsmith/internal/services"
)

func fixedRand(v float64) func() float64 {
	return func() float64 { return v }
}

func TestPlanClipShortFootage(t *testing.T) {
	// Footage shorter than the minimum clip bound: the clip covers all of it
	// from the start, and subtitle timing follows the shorter audio.
	plan, err := PlanClip(9.0, 8.0, 10.0, 15.0, 60.0, fixedRand(0.9))
	if err != nil {
		t.Fatalf("PlanClip: %v", err)
	}
	if plan.ClipDuration != 10.0 {
		t.Errorf("ClipDuration = %v, want 10", plan.ClipDuration)
	}
	if plan.StartOffset != 0 {
		t.Errorf("StartOffset = %v, want 0", plan.StartOffset)
	}
	if plan.SubtitleDuration != 8.0 {
		t.Errorf("SubtitleDuration = %v, want 8", plan.SubtitleDuration)
	}
}

func TestPlanClipMissingSourceDuration(t *testing.T) {
	for _, duration := range []float64{0, -1} {
		if _, err := PlanClip(20.0, 18.0, duration, 15.0, 60.0, fixedRand(0)); !errors.Is(err, services.ErrDurationSource) {
			t.Errorf("PlanClip(source=%v) error = %v, want ErrDurationSource", duration, err)
		}
	}
}

func TestPlanClipUnknownAudioDuration(t *testing.T) {
	plan, err := PlanClip(20.0, 0, 300.0, 15.0, 60.0, fixedRand(0))
	if err != nil {
		t.Fatalf("PlanClip: %v", err)
	}
	if plan.ClipDuration != 20.0 {
		t.Errorf("ClipDuration = %v, want 20", plan.ClipDuration)
	}
	if plan.SubtitleDuration != plan.ClipDuration {
		t.Errorf("SubtitleDuration = %v, want clip duration %v", plan.SubtitleDuration, plan.ClipDuration)
	}
}

func TestPlanClipBounds(t *testing.T) {
	tests := []struct {
		name         string
		estimate     float64
		audio        float64
		source       float64
		wantClip     float64
		wantSubtitle float64
	}{
		{"estimate below minimum", 5.0, 6.0, 300.0, 15.0, 6.0},
		{"estimate above maximum", 90.0, 85.0, 300.0, 60.0, 60.0},
		{"audio longer than estimate", 18.0, 25.0, 300.0, 25.0, 25.0},
		{"audio capped at maximum", 30.0, 90.0, 120.0, 60.0, 60.0},
		{"within bounds", 20.0, 19.5, 300.0, 20.0, 19.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := PlanClip(tt.estimate, tt.audio, tt.source, 15.0, 60.0, fixedRand(0))
			if err != nil {
				t.Fatalf("PlanClip: %v", err)
			}
			if plan.ClipDuration != tt.wantClip {
				t.Errorf("ClipDuration = %v, want %v", plan.ClipDuration, tt.wantClip)
			}
			if plan.SubtitleDuration != tt.wantSubtitle {
				t.Errorf("SubtitleDuration = %v, want %v", plan.SubtitleDuration, tt.wantSubtitle)
			}
		})
	}
}

func TestPlanClipZeroEstimateFallsBackToAudio(t *testing.T) {
	plan, err := PlanClip(0, 22.0, 300.0, 15.0, 60.0, fixedRand(0))
	if err != nil {
		t.Fatalf("PlanClip: %v", err)
	}
	if plan.ClipDuration != 22.0 {
		t.Errorf("ClipDuration = %v, want 22", plan.ClipDuration)
	}
}

func TestPlanClipOffsetStaysInFootage(t *testing.T) {
	// Even at the top of the random range, offset plus clip length must fit
	// within the footage.
	draw := math.Nextafter(1.0, 0)
	for _, source := range []float64{30.0, 60.5, 300.0} {
		plan, err := PlanClip(20.0, 19.0, source, 15.0, 60.0, fixedRand(draw))
		if err != nil {
			t.Fatalf("PlanClip(source=%v): %v", source, err)
		}
		if plan.StartOffset < 0 {
			t.Errorf("StartOffset = %v, want >= 0", plan.StartOffset)
		}
		if plan.StartOffset+plan.ClipDuration > source {
			t.Errorf("offset %v + clip %v exceeds source %v",
				plan.StartOffset, plan.ClipDuration, source)
		}
	}
}

func TestPlanClipOffsetScalesWithDraw(t *testing.T) {
	plan, err := PlanClip(20.0, 19.0, 120.0, 15.0, 60.0, fixedRand(0.5))
	if err != nil {
		t.Fatalf("PlanClip: %v", err)
	}
	// Slack is 120 - 20 = 100, so a 0.5 draw lands at 50.
	if math.Abs(plan.StartOffset-50.0) > 1e-9 {
		t.Errorf("StartOffset = %v, want 50", plan.StartOffset)
	}
}
