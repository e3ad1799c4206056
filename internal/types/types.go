// Package types defines the shared domain model for the warroom pipeline:
// the campaign profile, opponents, research snapshots, and creative assets.
package types

import (
	"strings"
	"time"
)

// ProbeTopic identifies one research brief category. The set is closed;
// the probe catalog rejects anything else.
type ProbeTopic string

const (
	TopicEconomic    ProbeTopic = "ECONOMIC"
	TopicOpposition  ProbeTopic = "OPPOSITION"
	TopicFundraising ProbeTopic = "FUNDRAISING"
	TopicDemographic ProbeTopic = "DEMOGRAPHIC"
	TopicMedia       ProbeTopic = "MEDIA"
	TopicPolicy      ProbeTopic = "POLICY"
)

// AllTopics returns the closed topic enumeration in display order.
func AllTopics() []ProbeTopic {
	return []ProbeTopic{
		TopicEconomic,
		TopicOpposition,
		TopicFundraising,
		TopicDemographic,
		TopicMedia,
		TopicPolicy,
	}
}

// ValidTopic reports whether t is a member of the closed enumeration.
func ValidTopic(t ProbeTopic) bool {
	switch t {
	case TopicEconomic, TopicOpposition, TopicFundraising,
		TopicDemographic, TopicMedia, TopicPolicy:
		return true
	}
	return false
}

// CampaignProfile is the root aggregate: candidate and district facts entered
// by the user plus everything derived from them. The vault only ever appends
// to Opponents; all other fields are edited in place by UI actions.
type CampaignProfile struct {
	CandidateName string `json:"candidate_name"`
	Office        string `json:"office"`
	District      string `json:"district"`
	Party         string `json:"party"`

	// Budget / vote-goal figures
	BudgetTotal     float64 `json:"budget_total"`
	ExpectedTurnout int     `json:"expected_turnout"`
	VoteGoal        int     `json:"vote_goal"`

	// Nested sub-records
	DNA      CandidateDNA  `json:"dna"`
	Legal    LegalProfile  `json:"legal"`
	Creative CreativeBrief `json:"creative"`

	// Exclusively owned; appended to by the rival extractor, never aliased.
	Opponents []Opponent `json:"opponents"`
}

// CandidateDNA captures the message identity inputs.
type CandidateDNA struct {
	Biography   string   `json:"biography"`
	CoreIssues  []string `json:"core_issues"`
	ToneWords   []string `json:"tone_words"`
	KeyContrast string   `json:"key_contrast"`
}

// LegalProfile holds compliance inputs for disclaimer generation.
type LegalProfile struct {
	CommitteeName string `json:"committee_name"`
	Jurisdiction  string `json:"jurisdiction"`
	FilingID      string `json:"filing_id"`
}

// CreativeBrief holds the standing inputs for creative generation.
type CreativeBrief struct {
	Audience string `json:"audience"`
	Medium   string `json:"medium"`
	Notes    string `json:"notes"`
}

// Opponent is one rival candidate record. Name is the identity key,
// compared case-insensitively after trimming.
type Opponent struct {
	Name       string   `json:"name"`
	Party      string   `json:"party"`
	Incumbent  bool     `json:"incumbent"`
	Strengths  []string `json:"strengths"`
	Weaknesses []string `json:"weaknesses"`
}

// NormalizeName returns the dedup key form of an opponent name.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// HasOpponent reports whether the profile already holds an opponent whose
// name matches under the dedup rule.
func (p *CampaignProfile) HasOpponent(name string) bool {
	key := NormalizeName(name)
	for _, o := range p.Opponents {
		if NormalizeName(o.Name) == key {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the profile so reducers can return fresh
// state without aliasing the opponent list.
func (p CampaignProfile) Clone() CampaignProfile {
	out := p
	out.Opponents = cloneOpponents(p.Opponents)
	out.DNA.CoreIssues = cloneStrings(p.DNA.CoreIssues)
	out.DNA.ToneWords = cloneStrings(p.DNA.ToneWords)
	return out
}

func cloneOpponents(in []Opponent) []Opponent {
	if in == nil {
		return nil
	}
	out := make([]Opponent, len(in))
	for i, o := range in {
		out[i] = o
		out[i].Strengths = cloneStrings(o.Strengths)
		out[i].Weaknesses = cloneStrings(o.Weaknesses)
	}
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

// ParsedSummary is the best-effort keyword split of a research brief.
// It is derived by text heuristics, never by a second model call.
type ParsedSummary struct {
	Signal string `json:"signal"`
	Threat string `json:"threat"`
	Action string `json:"action"`
}

// ResearchSnapshot is the durable record of one probe attempt, successful or
// not. Snapshots are immutable once constructed; an edit replaces the vault
// entry wholesale.
type ResearchSnapshot struct {
	ID             string         `json:"id"`
	Topic          ProbeTopic     `json:"topic"`
	CreatedAt      time.Time      `json:"created_at"`
	RawText        string         `json:"raw_text"`
	ParsedSummary  *ParsedSummary `json:"parsed_summary,omitempty"`
	SignalStrength float64        `json:"signal_strength,omitempty"`
	Error          string         `json:"error,omitempty"`
}

// Failed reports whether the snapshot records a failed probe.
func (s ResearchSnapshot) Failed() bool {
	return s.Error != ""
}

// AssetKind identifies one creative asset category.
type AssetKind string

const (
	AssetAdCopy AssetKind = "adcopy"
	AssetSlogan AssetKind = "slogan"
	AssetAudit  AssetKind = "audit"
	AssetImage  AssetKind = "image"
)

// CreativeAsset is one generated creative artifact. Text assets carry the
// generated text in Content; image assets carry the file path.
type CreativeAsset struct {
	ID        string    `json:"id"`
	Kind      AssetKind `json:"kind"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// ActivityEntry is one line of the user-visible activity feed. It is the
// only notification channel the pipeline has.
type ActivityEntry struct {
	At      time.Time `json:"at"`
	Message string    `json:"message"`
}
