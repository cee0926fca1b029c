// Package textutil prepares narration scripts for synthesis and captioning.
package textutil

import (
	"strings"
	"time"
)

// FallbackScript replaces scripts that sanitize down to nothing so the
// pipeline always has something to speak and caption.
const FallbackScript = "AI generated explanation"

var formattingReplacer = strings.NewReplacer(
	"*", "",
	"/", " ",
	"\\", " ",
	"_", " ",
	"~", " ",
	"=", " ",
)

// Sanitize strips markdown-style formatting characters that speech synthesis
// reads aloud and subtitle renderers mangle, then collapses whitespace.
// Sanitizing an already-sanitized script returns it unchanged.
func Sanitize(script string) string {
	cleaned := formattingReplacer.Replace(script)
	cleaned = strings.Join(strings.Fields(cleaned), " ")
	if cleaned == "" {
		return FallbackScript
	}
	return cleaned
}

// SplitSentences splits a script after terminal punctuation followed by
// whitespace. A script with no boundary comes back as a single sentence;
// blank input yields nothing.
func SplitSentences(script string) []string {
	var sentences []string
	runes := []rune(script)
	start := 0
	for i := 0; i < len(runes); i++ {
		switch runes[i] {
		case '.', '!', '?':
			// Consume a run of terminal punctuation before checking for a break.
			j := i
			for j+1 < len(runes) && (runes[j+1] == '.' || runes[j+1] == '!' || runes[j+1] == '?') {
				j++
			}
			if j+1 < len(runes) && isSpace(runes[j+1]) {
				sentence := strings.TrimSpace(string(runes[start : j+1]))
				if sentence != "" {
					sentences = append(sentences, sentence)
				}
				start = j + 1
			}
			i = j
		}
	}
	if tail := strings.TrimSpace(string(runes[start:])); tail != "" {
		sentences = append(sentences, tail)
	}
	return sentences
}

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r':
		return true
	}
	return false
}

// EstimateDuration predicts how long a script takes to narrate at the given
// speaking rate. Empty scripts get a half-second floor.
func EstimateDuration(script string, wordsPerMinute int) time.Duration {
	words := len(strings.Fields(script))
	if words == 0 || wordsPerMinute <= 0 {
		return 500 * time.Millisecond
	}
	seconds := float64(words) / (float64(wordsPerMinute) / 60.0)
	return time.Duration(seconds * float64(time.Second))
}
