// Package subtitles builds timed caption cues and renders them as an ASS
// subtitle script for the encoder's subtitle filter.
package subtitles

import (
	"math"
	"strings"

	"reelsmith/internal/alignment"
	"reelsmith/internal/textutil"
)

// KaraokeToken is one highlighted word and how long the highlight holds,
// in centiseconds.
type KaraokeToken struct {
	DurationCS int
	Word       string
}

// Cue is a single timed caption. Karaoke cues carry per-word highlight
// tokens grouped into display lines; plain cues carry pre-wrapped text lines.
type Cue struct {
	Start   float64
	End     float64
	Lines   []string
	Karaoke [][]KaraokeToken
}

// IsKaraoke reports whether the cue uses per-word highlighting.
func (c Cue) IsKaraoke() bool {
	return len(c.Karaoke) > 0
}

// Options controls cue text layout.
type Options struct {
	WrapChars int
	MaxLines  int
}

// cuePadSeconds gives each karaoke sentence a little breathing room after
// its last word before the cue disappears.
const cuePadSeconds = 0.25

// minWordSeconds floors degenerate provider timings so every highlight is
// visible for at least one frame's worth of time.
const minWordSeconds = 0.05

// BuildCues converts a sanitized script into caption cues over
// [0, finalDuration]. When word timings are available the cues follow the
// narration exactly (karaoke mode); otherwise timing is spread across
// sentences by word count (heuristic mode). The result is never empty, cues
// never start at or after finalDuration, cues do not overlap, and the last
// cue ends at finalDuration exactly.
func BuildCues(sanitized string, finalDuration float64, timings []alignment.SentenceTiming, opts Options) []Cue {
	if opts.WrapChars <= 0 {
		opts.WrapChars = 40
	}
	if opts.MaxLines <= 0 {
		opts.MaxLines = 5
	}
	if finalDuration <= 0 {
		finalDuration = minWordSeconds
	}

	var cues []Cue
	if len(timings) > 0 {
		cues = karaokeCues(finalDuration, timings, opts)
	}
	if len(cues) == 0 {
		cues = heuristicCues(sanitized, finalDuration, opts)
	}
	return finishCues(cues, finalDuration)
}

func karaokeCues(finalDuration float64, timings []alignment.SentenceTiming, opts Options) []Cue {
	var cues []Cue
	for _, timing := range timings {
		stamps := timing.Words
		start := stamps[0].Start
		if start >= finalDuration {
			break
		}
		end := math.Min(stamps[len(stamps)-1].End+cuePadSeconds, finalDuration)

		tokens := make([]KaraokeToken, 0, len(stamps))
		for _, stamp := range stamps {
			span := math.Max(stamp.End-stamp.Start, minWordSeconds)
			cs := int(math.Round(span * 100))
			if cs < 1 {
				cs = 1
			}
			tokens = append(tokens, KaraokeToken{DurationCS: cs, Word: stamp.Word})
		}

		cues = append(cues, Cue{
			Start:   start,
			End:     end,
			Karaoke: wrapTokens(tokens, opts.WrapChars),
		})
	}
	return cues
}

func heuristicCues(sanitized string, finalDuration float64, opts Options) []Cue {
	sentences := textutil.SplitSentences(sanitized)
	if len(sentences) == 0 {
		sentences = []string{textutil.FallbackScript}
	}

	totalWords := 0
	for _, sentence := range sentences {
		totalWords += len(strings.Fields(sentence))
	}
	if totalWords == 0 {
		totalWords = 1
	}

	// Spread speech over 90% of the clip, reserving a trailing pause.
	perWord := finalDuration * 0.90 / float64(totalWords)

	var cues []Cue
	start := 0.0
	for _, sentence := range sentences {
		wordCount := len(strings.Fields(sentence))
		if wordCount == 0 {
			continue
		}
		if start >= finalDuration {
			break
		}
		end := math.Min(start+float64(wordCount)*perWord, finalDuration)
		cues = append(cues, Cue{
			Start: start,
			End:   end,
			Lines: wrapSentence(sentence, opts.WrapChars, opts.MaxLines),
		})
		start = end
	}
	if len(cues) == 0 {
		cues = []Cue{{
			Start: 0,
			End:   finalDuration,
			Lines: wrapSentence(textutil.FallbackScript, opts.WrapChars, opts.MaxLines),
		}}
	}
	return cues
}

// finishCues enforces the shared layout invariants: no overlapping cues and
// the final cue ending exactly at finalDuration.
func finishCues(cues []Cue, finalDuration float64) []Cue {
	for i := 0; i < len(cues)-1; i++ {
		if cues[i].End > cues[i+1].Start {
			cues[i].End = cues[i+1].Start
		}
	}
	cues[len(cues)-1].End = finalDuration
	return cues
}

// wrapSentence wraps words to the character budget, then folds any lines
// beyond the cap into the last visible line so no words are dropped.
func wrapSentence(sentence string, width, maxLines int) []string {
	words := strings.Fields(sentence)
	if len(words) == 0 {
		return []string{sentence}
	}

	var lines []string
	current := words[0]
	for _, word := range words[1:] {
		if len(current)+1+len(word) > width {
			lines = append(lines, current)
			current = word
			continue
		}
		current += " " + word
	}
	lines = append(lines, current)

	if len(lines) > maxLines {
		overflow := strings.Join(lines[maxLines:], " ")
		lines = lines[:maxLines]
		lines[maxLines-1] += " " + overflow
	}
	return lines
}

// wrapTokens packs karaoke tokens into display lines by visible character
// length. A single word longer than the budget gets its own line.
func wrapTokens(tokens []KaraokeToken, width int) [][]KaraokeToken {
	var lines [][]KaraokeToken
	var current []KaraokeToken
	currentLen := 0
	for _, token := range tokens {
		wordLen := len([]rune(token.Word))
		extra := wordLen
		if len(current) > 0 {
			extra++
		}
		if len(current) > 0 && currentLen+extra > width {
			lines = append(lines, current)
			current = []KaraokeToken{token}
			currentLen = wordLen
			continue
		}
		current = append(current, token)
		currentLen += extra
	}
	if len(current) > 0 {
		lines = append(lines, current)
	}
	return lines
}
