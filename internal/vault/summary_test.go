package vault

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSplitSummary_AllMarkers(t *testing.T) {
	raw := "[SIGNAL] tax growth [THREAT] backlash [ACTION] hold line"
	s := SplitSummary(raw)
	if s == nil {
		t.Fatal("expected a summary")
	}
	if s.Signal != "tax growth" {
		t.Errorf("Signal = %q, want %q", s.Signal, "tax growth")
	}
	if s.Threat != "backlash" {
		t.Errorf("Threat = %q, want %q", s.Threat, "backlash")
	}
	if s.Action != "hold line" {
		t.Errorf("Action = %q, want %q", s.Action, "hold line")
	}
}

func TestSplitSummary_CaseInsensitiveMarkers(t *testing.T) {
	raw := "Signal: growth is up\nThreat: rival attacks\nAction: stay on message"
	s := SplitSummary(raw)
	if s.Signal != "growth is up" {
		t.Errorf("Signal = %q", s.Signal)
	}
	if s.Threat != "rival attacks" {
		t.Errorf("Threat = %q", s.Threat)
	}
	if s.Action != "stay on message" {
		t.Errorf("Action = %q", s.Action)
	}
}

func TestSplitSummary_NoMarkersFallsBack(t *testing.T) {
	raw := strings.Repeat("district economy word ", 30) // well over 200 chars
	s := SplitSummary(raw)
	if s == nil {
		t.Fatal("expected a summary")
	}
	if len(s.Signal) > signalFallbackLen {
		t.Errorf("fallback signal is %d chars, want <= %d", len(s.Signal), signalFallbackLen)
	}
	if !strings.HasPrefix(raw, s.Signal) {
		t.Error("fallback signal should be a prefix of the raw text")
	}
	if s.Threat != fillerThreat || s.Action != fillerAction {
		t.Error("missing markers should produce filler threat/action")
	}
}

func TestSplitSummary_FallbackKeepsRunesIntact(t *testing.T) {
	// No spaces near the cutoff, and the leading ASCII byte ensures the
	// 200-byte mark lands mid-rune, so the fallback must back off to a
	// rune boundary on its own.
	raw := "x" + strings.Repeat("ж", 300)
	s := SplitSummary(raw)
	if !utf8.ValidString(s.Signal) {
		t.Errorf("fallback signal is not valid UTF-8: %q", s.Signal)
	}
	if len(s.Signal) > signalFallbackLen {
		t.Errorf("fallback signal is %d bytes, want <= %d", len(s.Signal), signalFallbackLen)
	}
	if !strings.HasPrefix(raw, s.Signal) {
		t.Error("fallback signal should be a prefix of the raw text")
	}
}

func TestSplitSummary_ShortTextKeptWhole(t *testing.T) {
	s := SplitSummary("quiet week in the district")
	if s.Signal != "quiet week in the district" {
		t.Errorf("Signal = %q", s.Signal)
	}
}

func TestSplitSummary_PartialMarkers(t *testing.T) {
	raw := "SIGNAL: turnout trending up. ACTION: book more canvassers."
	s := SplitSummary(raw)
	if !strings.Contains(s.Signal, "turnout trending up") {
		t.Errorf("Signal = %q", s.Signal)
	}
	if s.Threat != fillerThreat {
		t.Errorf("Threat = %q, want filler", s.Threat)
	}
	if !strings.Contains(s.Action, "book more canvassers") {
		t.Errorf("Action = %q", s.Action)
	}
}

func TestSplitSummary_EmptyInput(t *testing.T) {
	if s := SplitSummary("   "); s != nil {
		t.Errorf("expected nil summary, got %+v", s)
	}
}

func TestMarkerCoverage(t *testing.T) {
	cases := []struct {
		raw  string
		want float64
	}{
		{"SIGNAL THREAT ACTION", 1.0},
		{"signal only here", 1.0 / 3.0},
		{"nothing to see", 0},
	}
	for _, tc := range cases {
		if got := MarkerCoverage(tc.raw); got != tc.want {
			t.Errorf("MarkerCoverage(%q) = %v, want %v", tc.raw, got, tc.want)
		}
	}
}
