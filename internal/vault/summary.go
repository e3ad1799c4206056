package vault

import (
	"strings"
	"unicode/utf8"

	"warroom/internal/types"
)

// Marker keywords the splitter looks for in a research brief. The upstream
// text is inherently unstructured; this split is best-effort and never a
// hard schema requirement.
const (
	markerSignal = "SIGNAL"
	markerThreat = "THREAT"
	markerAction = "ACTION"
)

const (
	signalFallbackLen = 200
	fillerThreat      = "No specific threat was identified in this brief."
	fillerAction      = "Review the full brief and decide on next steps."
)

// SplitSummary derives a {signal, threat, action} triple from raw brief text
// by locating marker keywords. Missing markers fall back to the first ~200
// characters as signal plus generic filler. Empty input yields nil.
func SplitSummary(raw string) *types.ParsedSummary {
	text := strings.TrimSpace(raw)
	if text == "" {
		return nil
	}

	upper := strings.ToUpper(text)
	idxSignal := strings.Index(upper, markerSignal)
	idxThreat := strings.Index(upper, markerThreat)
	idxAction := strings.Index(upper, markerAction)

	summary := &types.ParsedSummary{
		Signal: fallbackSignal(text),
		Threat: fillerThreat,
		Action: fillerAction,
	}

	if s := segment(text, idxSignal, len(markerSignal), idxThreat, idxAction); s != "" {
		summary.Signal = s
	}
	if s := segment(text, idxThreat, len(markerThreat), idxSignal, idxAction); s != "" {
		summary.Threat = s
	}
	if s := segment(text, idxAction, len(markerAction), idxSignal, idxThreat); s != "" {
		summary.Action = s
	}

	return summary
}

// MarkerCoverage returns the fraction of the three markers present in the
// text. Display-only quality indicator; never used in logic.
func MarkerCoverage(raw string) float64 {
	upper := strings.ToUpper(raw)
	found := 0
	for _, m := range []string{markerSignal, markerThreat, markerAction} {
		if strings.Contains(upper, m) {
			found++
		}
	}
	return float64(found) / 3.0
}

// segment extracts the text between a marker and the nearest following
// marker (or end of text). Returns "" when the marker is absent.
func segment(text string, start, markerLen int, others ...int) string {
	if start < 0 {
		return ""
	}
	from := start + markerLen
	to := len(text)
	for _, o := range others {
		if o > start && o < to {
			to = o
		}
	}
	if from >= to {
		return ""
	}
	return cleanSegment(text[from:to])
}

// cleanSegment strips marker decoration and surrounding whitespace.
func cleanSegment(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimLeft(s, "]:*#-— \t\n")
	s = strings.TrimSpace(s)
	// Cut trailing decoration left behind by the next marker's bracket.
	s = strings.TrimRight(s, "[*# \t\n")
	return strings.TrimSpace(s)
}

func fallbackSignal(text string) string {
	if len(text) <= signalFallbackLen {
		return text
	}
	end := signalFallbackLen
	// Never cut through a multi-byte rune.
	for end > 0 && !utf8.RuneStart(text[end]) {
		end--
	}
	cut := text[:end]
	// Break on a word boundary when one is close.
	if i := strings.LastIndex(cut, " "); i > signalFallbackLen-40 {
		cut = cut[:i]
	}
	return cut
}
