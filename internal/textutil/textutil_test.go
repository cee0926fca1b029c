package textutil

import (
	"testing"
	"time"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name   string
		script string
		want   string
	}{
		{
			name:   "asterisks removed without gap",
			script: "**Gravity** is *weird*",
			want:   "Gravity is weird",
		},
		{
			name:   "slashes become separators",
			script: "either/or and back\\slash",
			want:   "either or and back slash",
		},
		{
			name:   "underscores tildes equals",
			script: "snake_case ~approx~ a=b",
			want:   "snake case approx a b",
		},
		{
			name:   "whitespace collapsed",
			script: "  too\t many\n\nspaces  ",
			want:   "too many spaces",
		},
		{
			name:   "formatting only falls back",
			script: "*** // __ ~~",
			want:   FallbackScript,
		},
		{
			name:   "empty falls back",
			script: "",
			want:   FallbackScript,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sanitize(tt.script)
			if got != tt.want {
				t.Fatalf("Sanitize(%q) = %q, want %q", tt.script, got, tt.want)
			}
			if again := Sanitize(got); again != got {
				t.Fatalf("Sanitize not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name   string
		script string
		want   []string
	}{
		{
			name:   "basic split",
			script: "Gravity bends light. Time slows down! Really?",
			want:   []string{"Gravity bends light.", "Time slows down!", "Really?"},
		},
		{
			name:   "no boundary",
			script: "a single thought without punctuation",
			want:   []string{"a single thought without punctuation"},
		},
		{
			name:   "ellipsis stays attached",
			script: "Wait for it... here it comes.",
			want:   []string{"Wait for it...", "here it comes."},
		},
		{
			name:   "trailing punctuation no split",
			script: "Done.",
			want:   []string{"Done."},
		},
		{
			name:   "empty",
			script: "",
			want:   nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitSentences(tt.script)
			if len(got) != len(tt.want) {
				t.Fatalf("SplitSentences(%q) = %v, want %v", tt.script, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("sentence %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestEstimateDuration(t *testing.T) {
	// 150 words per minute is 2.5 words per second.
	got := EstimateDuration("one two three four five", 150)
	want := 2 * time.Second
	if got != want {
		t.Fatalf("EstimateDuration = %v, want %v", got, want)
	}
}

func TestEstimateDurationEmptyFloor(t *testing.T) {
	if got := EstimateDuration("", 150); got != 500*time.Millisecond {
		t.Fatalf("EstimateDuration empty = %v, want 500ms", got)
	}
}
