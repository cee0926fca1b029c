// Package alignment recovers word-level timings from the character-level
// trace a speech synthesis provider returns alongside audio.
package alignment

import "encoding/json"

// Trace holds per-character timing aligned positionally, so Chars[i] was
// spoken between Starts[i] and Ends[i] seconds.
type Trace struct {
	Chars  []rune
	Starts []float64
	Ends   []float64
}

// Len returns the number of timed characters.
func (t Trace) Len() int {
	return len(t.Chars)
}

type tracePayload struct {
	Characters []string  `json:"characters"`
	Starts     []float64 `json:"character_start_times_seconds"`
	Ends       []float64 `json:"character_end_times_seconds"`
}

type traceEnvelope struct {
	tracePayload
	Alignment  *tracePayload `json:"alignment"`
	Normalized *tracePayload `json:"normalized_alignment"`
}

// ParseTrace normalizes the provider's alignment payload into a Trace. It
// accepts the bare alignment object as well as a full synthesis response
// carrying `alignment` or `normalized_alignment` keys. The second return is
// false when no usable trace is present; callers then fall back to heuristic
// timing.
func ParseTrace(data []byte) (Trace, bool) {
	var envelope traceEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return Trace{}, false
	}

	candidates := []*tracePayload{envelope.Alignment, envelope.Normalized, &envelope.tracePayload}
	for _, payload := range candidates {
		if payload == nil {
			continue
		}
		if trace, ok := payload.toTrace(); ok {
			return trace, true
		}
	}
	return Trace{}, false
}

func (p *tracePayload) toTrace() (Trace, bool) {
	n := len(p.Characters)
	if n == 0 || len(p.Starts) != n || len(p.Ends) != n {
		return Trace{}, false
	}
	trace := Trace{
		Chars:  make([]rune, n),
		Starts: p.Starts,
		Ends:   p.Ends,
	}
	for i, s := range p.Characters {
		runes := []rune(s)
		if len(runes) == 0 {
			trace.Chars[i] = ' '
			continue
		}
		trace.Chars[i] = runes[0]
	}
	return trace, true
}
