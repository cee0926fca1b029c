package alignment

import (
	"strings"
	"unicode"

	"reelsmith/internal/textutil"
)

// WordTimestamp marks when a single narrated word starts and ends.
type WordTimestamp struct {
	Start float64
	End   float64
	Word  string
}

// matchLookahead bounds how far past the cursor a word anchor may be found.
// Provider substitutions rarely displace text by more than a phrase, so a
// miss inside this window means the word was synthesized differently and is
// safer to skip than to guess.
const matchLookahead = 240

// SentenceTiming holds the matched word timings for one sentence occurrence.
// Occurrences are kept separate so a script that repeats a sentence keeps
// each repetition's own timings.
type SentenceTiming struct {
	Sentence string
	Words    []WordTimestamp
}

// Words recovers per-word timings by re-matching the sanitized script
// against the trace's character sequence. The result lists sentence
// occurrences in reading order; an occurrence with no matched words is
// omitted. The result is nil when nothing matches, which callers treat as
// "use heuristic timing".
//
// The cursor into the trace only ever advances, so repeated words and
// repeated sentences resolve to their next occurrence rather than the first.
func Words(trace Trace, sanitized string) []SentenceTiming {
	if trace.Len() == 0 {
		return nil
	}
	sentences := textutil.SplitSentences(sanitized)
	if len(sentences) == 0 {
		return nil
	}

	result := make([]SentenceTiming, 0, len(sentences))
	cursor := 0
	for _, sentence := range sentences {
		var stamps []WordTimestamp
		for _, word := range strings.Fields(sentence) {
			stamp, next, ok := matchWord(trace, cursor, word)
			if !ok {
				continue
			}
			stamps = append(stamps, stamp)
			cursor = next
		}
		if len(stamps) > 0 {
			result = append(result, SentenceTiming{Sentence: sentence, Words: stamps})
		}
	}
	if len(result) == 0 {
		return nil
	}
	return result
}

// matchWord scans forward from cursor for a case-insensitive occurrence of
// word. Mid-match, residual whitespace and formatting glyphs in the trace
// are skipped without consuming match state. On success it returns the
// timestamp and the cursor position past the match and trailing separators;
// on failure the cursor is unchanged.
func matchWord(trace Trace, cursor int, word string) (WordTimestamp, int, bool) {
	target := []rune(strings.ToLower(word))
	if len(target) == 0 {
		return WordTimestamp{}, cursor, false
	}

	limit := cursor + matchLookahead
	if limit > trace.Len() {
		limit = trace.Len()
	}
	for anchor := cursor; anchor < limit; anchor++ {
		wi := 0
		first, last := -1, -1
		for pos := anchor; pos < trace.Len() && wi < len(target); pos++ {
			if unicode.ToLower(trace.Chars[pos]) == target[wi] {
				if first < 0 {
					first = pos
				}
				last = pos
				wi++
				continue
			}
			if wi > 0 && isSeparator(trace.Chars[pos]) {
				continue
			}
			break
		}
		if wi != len(target) {
			continue
		}
		next := last + 1
		for next < trace.Len() && isSeparator(trace.Chars[next]) {
			next++
		}
		return WordTimestamp{
			Start: trace.Starts[first],
			End:   trace.Ends[last],
			Word:  word,
		}, next, true
	}
	return WordTimestamp{}, cursor, false
}

func isSeparator(r rune) bool {
	switch r {
	case '*', '/', '\\', '_', '~', '=':
		return true
	}
	return unicode.IsSpace(r)
}
