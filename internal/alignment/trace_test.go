package alignment

import "testing"

func TestParseTraceBarePayload(t *testing.T) {
	data := []byte(`{
		"characters": ["H", "i"],
		"character_start_times_seconds": [0.0, 0.1],
		"character_end_times_seconds": [0.1, 0.2]
	}`)
	trace, ok := ParseTrace(data)
	if !ok {
		t.Fatal("expected trace")
	}
	if trace.Len() != 2 || trace.Chars[0] != 'H' || trace.Ends[1] != 0.2 {
		t.Fatalf("unexpected trace: %+v", trace)
	}
}

func TestParseTracePrefersAlignmentKey(t *testing.T) {
	data := []byte(`{
		"audio_base64": "AAAA",
		"alignment": {
			"characters": ["a"],
			"character_start_times_seconds": [0],
			"character_end_times_seconds": [0.5]
		},
		"normalized_alignment": {
			"characters": ["b"],
			"character_start_times_seconds": [0],
			"character_end_times_seconds": [1.0]
		}
	}`)
	trace, ok := ParseTrace(data)
	if !ok {
		t.Fatal("expected trace")
	}
	if trace.Chars[0] != 'a' {
		t.Fatalf("want alignment key preferred, got %q", trace.Chars[0])
	}
}

func TestParseTraceFallsBackToNormalized(t *testing.T) {
	data := []byte(`{
		"alignment": null,
		"normalized_alignment": {
			"characters": ["b"],
			"character_start_times_seconds": [0],
			"character_end_times_seconds": [1.0]
		}
	}`)
	trace, ok := ParseTrace(data)
	if !ok {
		t.Fatal("expected trace")
	}
	if trace.Chars[0] != 'b' {
		t.Fatalf("want normalized fallback, got %q", trace.Chars[0])
	}
}

func TestParseTraceRejectsMismatchedLengths(t *testing.T) {
	data := []byte(`{
		"characters": ["a", "b"],
		"character_start_times_seconds": [0],
		"character_end_times_seconds": [0.1, 0.2]
	}`)
	if _, ok := ParseTrace(data); ok {
		t.Fatal("mismatched lengths should be rejected")
	}
}

func TestParseTraceRejectsGarbage(t *testing.T) {
	if _, ok := ParseTrace([]byte("not json")); ok {
		t.Fatal("garbage should be rejected")
	}
	if _, ok := ParseTrace([]byte(`{}`)); ok {
		t.Fatal("empty object should be rejected")
	}
}

func TestParseTraceEmptyCharacterString(t *testing.T) {
	data := []byte(`{
		"characters": [""],
		"character_start_times_seconds": [0],
		"character_end_times_seconds": [0.1]
	}`)
	trace, ok := ParseTrace(data)
	if !ok {
		t.Fatal("expected trace")
	}
	if trace.Chars[0] != ' ' {
		t.Fatalf("empty character should map to space, got %q", trace.Chars[0])
	}
}
