package subtitles

import (
	"math"
	"strings"
	"testing"

	"reelsmith/internal/alignment"
)

func TestBuildCuesHeuristicTwoSentences(t *testing.T) {
	cues := BuildCues("Hello world. This is a test.", 4.0, nil, Options{WrapChars: 40, MaxLines: 5})
	if len(cues) != 2 {
		t.Fatalf("got %d cues, want 2", len(cues))
	}
	if cues[0].Start != 0 {
		t.Fatalf("first cue starts at %v, want 0", cues[0].Start)
	}
	// Six words over 90% of 4s, two then four words per sentence.
	perWord := 4.0 * 0.90 / 6
	if math.Abs(cues[0].End-2*perWord) > 1e-9 {
		t.Fatalf("first cue ends at %v, want %v", cues[0].End, 2*perWord)
	}
	if cues[1].Start != cues[0].End {
		t.Fatalf("cues not contiguous: %v then %v", cues[0].End, cues[1].Start)
	}
	if cues[1].End != 4.0 {
		t.Fatalf("last cue ends at %v, want exactly 4.0", cues[1].End)
	}
}

func TestBuildCuesKaraoke(t *testing.T) {
	timings := []alignment.SentenceTiming{
		{Sentence: "Hello world.", Words: []alignment.WordTimestamp{
			{Start: 0.0, End: 0.5, Word: "Hello"},
			{Start: 0.6, End: 1.1, Word: "world."},
		}},
	}
	cues := BuildCues("Hello world.", 4.0, timings, Options{WrapChars: 40, MaxLines: 5})
	if len(cues) != 1 {
		t.Fatalf("got %d cues, want 1", len(cues))
	}
	cue := cues[0]
	if !cue.IsKaraoke() {
		t.Fatal("expected karaoke cue")
	}
	if cue.Start != 0.0 {
		t.Fatalf("cue starts at %v", cue.Start)
	}
	if cue.End != 4.0 {
		t.Fatalf("last cue end = %v, want clamped to 4.0", cue.End)
	}
	tokens := cue.Karaoke[0]
	if len(tokens) != 2 {
		t.Fatalf("got %d tokens, want 2", len(tokens))
	}
	if tokens[0] != (KaraokeToken{DurationCS: 50, Word: "Hello"}) {
		t.Fatalf("first token = %+v", tokens[0])
	}
	if tokens[1] != (KaraokeToken{DurationCS: 50, Word: "world."}) {
		t.Fatalf("second token = %+v", tokens[1])
	}
}

func TestBuildCuesKaraokeTokenDurationFloor(t *testing.T) {
	timings := []alignment.SentenceTiming{
		{Sentence: "Hi.", Words: []alignment.WordTimestamp{{Start: 1.0, End: 1.0, Word: "Hi."}}},
	}
	cues := BuildCues("Hi.", 4.0, timings, Options{WrapChars: 40, MaxLines: 5})
	token := cues[0].Karaoke[0][0]
	if token.DurationCS < 1 {
		t.Fatalf("token duration %d, want >= 1 centisecond", token.DurationCS)
	}
}

func TestBuildCuesKaraokeSkipsLateSentences(t *testing.T) {
	timings := []alignment.SentenceTiming{
		{Sentence: "Early one.", Words: []alignment.WordTimestamp{
			{Start: 0.0, End: 1.0, Word: "Early"}, {Start: 1.1, End: 2.0, Word: "one."},
		}},
		{Sentence: "Late one.", Words: []alignment.WordTimestamp{
			{Start: 9.0, End: 9.5, Word: "Late"}, {Start: 9.6, End: 10.0, Word: "one."},
		}},
	}
	cues := BuildCues("Early one. Late one.", 5.0, timings, Options{WrapChars: 40, MaxLines: 5})
	if len(cues) != 1 {
		t.Fatalf("got %d cues, want 1 (late sentence starts past the clip)", len(cues))
	}
	if cues[0].End != 5.0 {
		t.Fatalf("last cue end = %v, want 5.0", cues[0].End)
	}
}

func TestBuildCuesNonOverlapping(t *testing.T) {
	timings := []alignment.SentenceTiming{
		{Sentence: "First bit.", Words: []alignment.WordTimestamp{
			{Start: 0.0, End: 2.0, Word: "First"}, {Start: 2.0, End: 2.4, Word: "bit."},
		}},
		{Sentence: "Second bit.", Words: []alignment.WordTimestamp{
			{Start: 2.5, End: 3.0, Word: "Second"}, {Start: 3.1, End: 3.6, Word: "bit."},
		}},
	}
	// First cue would pad to 2.65, past the second cue's 2.5 start.
	cues := BuildCues("First bit. Second bit.", 6.0, timings, Options{WrapChars: 40, MaxLines: 5})
	if len(cues) != 2 {
		t.Fatalf("got %d cues, want 2", len(cues))
	}
	if cues[0].End > cues[1].Start {
		t.Fatalf("cues overlap: first ends %v, second starts %v", cues[0].End, cues[1].Start)
	}
}

func TestBuildCuesRepeatedSentencesKeepOwnCues(t *testing.T) {
	// Two textually identical sentences must yield two distinct cues, each
	// over its own audio span, with strictly increasing starts.
	timings := []alignment.SentenceTiming{
		{Sentence: "Okay.", Words: []alignment.WordTimestamp{{Start: 0.0, End: 0.5, Word: "Okay."}}},
		{Sentence: "Okay.", Words: []alignment.WordTimestamp{{Start: 0.6, End: 1.1, Word: "Okay."}}},
	}
	cues := BuildCues("Okay. Okay.", 4.0, timings, Options{WrapChars: 40, MaxLines: 5})
	if len(cues) != 2 {
		t.Fatalf("got %d cues, want 2", len(cues))
	}
	if cues[0].Start != 0.0 {
		t.Fatalf("first cue starts at %v, want 0", cues[0].Start)
	}
	if cues[1].Start <= cues[0].Start {
		t.Fatalf("cue starts not strictly increasing: %v then %v", cues[0].Start, cues[1].Start)
	}
	if cues[0].End > cues[1].Start {
		t.Fatalf("cues overlap: first ends %v, second starts %v", cues[0].End, cues[1].Start)
	}
	if cues[0].End <= cues[0].Start {
		t.Fatalf("first cue collapsed to zero length: %+v", cues[0])
	}
	if cues[1].End != 4.0 {
		t.Fatalf("last cue end = %v, want 4.0", cues[1].End)
	}
}

func TestBuildCuesEmptyTimingsFallsBackToHeuristic(t *testing.T) {
	cues := BuildCues("Hello there.", 3.0, []alignment.SentenceTiming{}, Options{WrapChars: 40, MaxLines: 5})
	if len(cues) == 0 {
		t.Fatal("expected cues")
	}
	if cues[0].IsKaraoke() {
		t.Fatal("empty timings should use heuristic cues")
	}
}

func TestBuildCuesDegenerateInput(t *testing.T) {
	cues := BuildCues("", 2.0, nil, Options{WrapChars: 40, MaxLines: 5})
	if len(cues) != 1 {
		t.Fatalf("got %d cues, want single fallback cue", len(cues))
	}
	if cues[0].Start != 0 || cues[0].End != 2.0 {
		t.Fatalf("fallback cue = %+v, want [0, 2.0]", cues[0])
	}
}

func TestBuildCuesSortedAndCovering(t *testing.T) {
	script := "One two three. Four five six seven. Eight nine."
	cues := BuildCues(script, 10.0, nil, Options{WrapChars: 40, MaxLines: 5})
	prevEnd := 0.0
	for i, cue := range cues {
		if cue.Start != prevEnd {
			t.Fatalf("cue %d starts at %v, want %v (no gaps)", i, cue.Start, prevEnd)
		}
		if cue.End < cue.Start {
			t.Fatalf("cue %d inverted: %+v", i, cue)
		}
		if cue.Start >= 10.0 {
			t.Fatalf("cue %d starts at or after clip end", i)
		}
		prevEnd = cue.End
	}
	if prevEnd != 10.0 {
		t.Fatalf("last cue ends at %v, want 10.0", prevEnd)
	}
}

func TestWrapSentenceOverflowAppends(t *testing.T) {
	sentence := strings.Repeat("word ", 20) + "tail"
	lines := wrapSentence(sentence, 10, 3)
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}
	joined := strings.Join(lines, " ")
	if !strings.HasSuffix(joined, "tail") {
		t.Fatal("overflow words were dropped instead of appended")
	}
}

func TestWrapTokensOverlongWordOwnLine(t *testing.T) {
	tokens := []KaraokeToken{
		{DurationCS: 10, Word: "hi"},
		{DurationCS: 10, Word: "incomprehensibilities"},
		{DurationCS: 10, Word: "ok"},
	}
	lines := wrapTokens(tokens, 10)
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3: %v", len(lines), lines)
	}
	if len(lines[1]) != 1 || lines[1][0].Word != "incomprehensibilities" {
		t.Fatalf("overlong word should sit alone: %v", lines[1])
	}
}
