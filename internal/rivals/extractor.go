// Package rivals implements the second-pass extraction of rival candidates
// from opposition research text. The model is asked for a strict JSON array;
// everything after that is defensive: candidates are scanned out of whatever
// prose surrounds them, coerced field by field, and deduplicated by
// normalized name before anything reaches the profile.
package rivals

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"warroom/internal/gateway"
	"warroom/internal/logging"
	"warroom/internal/types"
)

// ErrUnparsableResponse is reported when no JSON candidate list can be
// recovered from the model output. The caller receives zero candidates,
// never a panic.
var ErrUnparsableResponse = errors.New("no parsable opponent list in model response")

// extractionPrompt asks for a bare JSON array so the structured-output mode
// has the best chance of returning something machine-readable.
const extractionPrompt = `You are an opposition research analyst for the %s campaign (%s, %s).

Below is a raw research brief. Identify every rival candidate mentioned.

Respond with ONLY a JSON array. Each element must be an object with these fields:
  "name" (string, required): the candidate's full name
  "party" (string): party affiliation, empty if unknown
  "incumbent" (boolean): whether they currently hold the contested office
  "strengths" (array of strings): their campaign strengths
  "weaknesses" (array of strings): their exploitable weaknesses

Do not include the candidate %s themselves. If no rivals are mentioned, respond with [].

RESEARCH BRIEF:
%s`

// Extractor turns opposition research text into validated Opponent records.
type Extractor struct {
	gw gateway.Inferencer
}

// NewExtractor returns an Extractor backed by the given inference client.
func NewExtractor(gw gateway.Inferencer) *Extractor {
	return &Extractor{gw: gw}
}

// Extract runs the structured second pass over a snapshot's raw text and
// returns the surviving candidates. Candidates whose normalized name matches
// an existing opponent on the profile are dropped here, so the returned list
// is safe to merge as-is. Running twice over the same text is idempotent.
func (e *Extractor) Extract(ctx context.Context, snapshot types.ResearchSnapshot, profile types.CampaignProfile) ([]types.Opponent, error) {
	timer := logging.StartTimer(logging.CategoryExtractor, "Extract")
	defer timer.Stop()

	if strings.TrimSpace(snapshot.RawText) == "" {
		return nil, fmt.Errorf("snapshot %s has no text to extract from", snapshot.ID)
	}

	prompt := fmt.Sprintf(extractionPrompt,
		orUnknown(profile.CandidateName),
		orUnknown(profile.Office),
		orUnknown(profile.District),
		orUnknown(profile.CandidateName),
		snapshot.RawText)

	raw, err := e.gw.Infer(ctx, prompt, gateway.InferOptions{StructuredOutput: true})
	if err != nil {
		logging.ExtractorError("Extraction call failed: %v", err)
		return nil, err
	}

	records, err := parseCandidates(raw)
	if err != nil {
		logging.ExtractorWarn("Response unparsable (%d bytes), returning no candidates", len(raw))
		return nil, err
	}

	candidates := validateCandidates(records, profile)
	logging.Extractor("Extracted %d candidate(s) from %d record(s)", len(candidates), len(records))
	return candidates, nil
}

// parseCandidates recovers a list of raw opponent records from model output.
// It tries a direct parse first, then falls back to scanning JSON regions out
// of surrounding prose.
func parseCandidates(raw string) ([]map[string]interface{}, error) {
	trimmed := strings.TrimSpace(raw)

	// Models frequently wrap JSON in markdown fences even when told not to.
	trimmed = stripCodeFences(trimmed)

	if records, ok := decodeRecords(trimmed); ok {
		return records, nil
	}

	for _, region := range findJSONRegions(trimmed) {
		if records, ok := decodeRecords(region); ok {
			return records, nil
		}
	}

	return nil, ErrUnparsableResponse
}

// decodeRecords parses s as either an array of objects, a bare object (a
// single candidate, or a wrapper carrying the list under a known key).
func decodeRecords(s string) ([]map[string]interface{}, bool) {
	var list []map[string]interface{}
	if err := json.Unmarshal([]byte(s), &list); err == nil {
		return list, true
	}

	var obj map[string]interface{}
	if err := json.Unmarshal([]byte(s), &obj); err != nil {
		return nil, false
	}

	for _, key := range []string{"opponents", "rivals", "candidates"} {
		if v, ok := obj[key]; ok {
			if items, ok := v.([]interface{}); ok {
				var records []map[string]interface{}
				for _, item := range items {
					if rec, ok := item.(map[string]interface{}); ok {
						records = append(records, rec)
					}
				}
				return records, true
			}
		}
	}

	// A bare object with a name is a single candidate.
	if _, ok := obj["name"]; ok {
		return []map[string]interface{}{obj}, true
	}
	return nil, false
}

// validateCandidates applies field coercion and the dedup rules. A record
// without a usable name is dropped; so is anything matching an existing
// opponent or an earlier candidate in the same batch.
func validateCandidates(records []map[string]interface{}, profile types.CampaignProfile) []types.Opponent {
	var out []types.Opponent
	seen := make(map[string]bool)
	self := types.NormalizeName(profile.CandidateName)

	for _, rec := range records {
		name := strings.TrimSpace(firstString(rec, "name", "candidate_name", "full_name"))
		if name == "" {
			logging.ExtractorDebug("Dropping candidate record without a name")
			continue
		}

		key := types.NormalizeName(name)
		if key == self {
			continue
		}
		if seen[key] || profile.HasOpponent(name) {
			logging.ExtractorDebug("Dropping duplicate candidate %q", name)
			continue
		}
		seen[key] = true

		out = append(out, types.Opponent{
			Name:       name,
			Party:      types.CoerceString(rec["party"]),
			Incumbent:  types.CoerceBool(rec["incumbent"]),
			Strengths:  types.CoerceStringList(rec["strengths"]),
			Weaknesses: types.CoerceStringList(rec["weaknesses"]),
		})
	}
	return out
}

func firstString(rec map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		if s := types.CoerceString(rec[key]); s != "" {
			return s
		}
	}
	return ""
}

// stripCodeFences removes a surrounding markdown code fence if present.
func stripCodeFences(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "(unknown)"
	}
	return s
}
