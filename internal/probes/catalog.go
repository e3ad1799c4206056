// Package probes holds the fixed catalog mapping research topics to prompt
// templates. The catalog is pure: it materializes templates against the
// current campaign profile and keeps no state.
package probes

import (
	"fmt"
	"strings"

	"warroom/internal/types"
)

// topicSpec holds the static catalog entry for one topic.
type topicSpec struct {
	label    string
	template string
}

// The instruction footer asks the model to structure its brief around the
// markers the snapshot splitter looks for. The split stays best-effort:
// a brief that ignores the markers is still stored verbatim.
const markerFooter = "Structure the brief as three sections labeled SIGNAL, THREAT, and ACTION."

var catalog = map[types.ProbeTopic]topicSpec{
	types.TopicEconomic: {
		label: "Economic Landscape",
		template: "You are an opposition research analyst. Produce a concise research brief " +
			"on the economic landscape of %s, where %s is running for %s. " +
			"Cover employment trends, dominant industries, and pocketbook issues likely to decide votes. ",
	},
	types.TopicOpposition: {
		label: "Opposition Field",
		template: "You are an opposition research analyst. Produce a research brief on the " +
			"declared and likely opponents facing %s in the race for %s in %s. " +
			"Name each opponent, their party, incumbency, funding posture, strengths, and vulnerabilities. ",
	},
	types.TopicFundraising: {
		label: "Fundraising Outlook",
		template: "You are a campaign finance analyst. Produce a brief on the fundraising " +
			"outlook for %s's campaign for %s in %s: likely donor pools, small-dollar potential, " +
			"and comparable race benchmarks. ",
	},
	types.TopicDemographic: {
		label: "District Demographics",
		template: "You are a political data analyst. Produce a brief on the demographics and " +
			"voting history of %s for the %s race involving %s: turnout patterns, swing segments, " +
			"and registration trends. ",
	},
	types.TopicMedia: {
		label: "Media Environment",
		template: "You are a communications strategist. Produce a brief on the media environment " +
			"of %s relevant to %s's run for %s: outlets that matter, earned-media opportunities, " +
			"and narrative risks. ",
	},
	types.TopicPolicy: {
		label: "Policy Terrain",
		template: "You are a policy analyst. Produce a brief on the policy terrain for the %s race " +
			"in %s as it affects %s: the three issues most likely to dominate, and where public " +
			"opinion sits on each. ",
	},
}

// Label returns the display name for a topic, or the raw topic string when
// the topic is unknown.
func Label(topic types.ProbeTopic) string {
	if spec, ok := catalog[topic]; ok {
		return spec.label
	}
	return string(topic)
}

// Prompt materializes the topic's template against the profile.
// Unknown topics are an error; the enumeration is closed.
func Prompt(topic types.ProbeTopic, profile types.CampaignProfile) (string, error) {
	spec, ok := catalog[topic]
	if !ok {
		return "", fmt.Errorf("unknown probe topic: %q", topic)
	}

	candidate := orUnknown(profile.CandidateName, "the candidate")
	office := orUnknown(profile.Office, "local office")
	district := orUnknown(profile.District, "the district")

	var prompt string
	switch topic {
	case types.TopicEconomic:
		prompt = fmt.Sprintf(spec.template, district, candidate, office)
	case types.TopicOpposition:
		prompt = fmt.Sprintf(spec.template, candidate, office, district)
	case types.TopicFundraising:
		prompt = fmt.Sprintf(spec.template, candidate, office, district)
	case types.TopicDemographic:
		prompt = fmt.Sprintf(spec.template, district, office, candidate)
	case types.TopicMedia:
		prompt = fmt.Sprintf(spec.template, district, candidate, office)
	case types.TopicPolicy:
		prompt = fmt.Sprintf(spec.template, office, district, candidate)
	}

	if issues := strings.Join(profile.DNA.CoreIssues, ", "); issues != "" {
		prompt += fmt.Sprintf("The campaign's core issues are: %s. ", issues)
	}

	return prompt + markerFooter, nil
}

func orUnknown(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
