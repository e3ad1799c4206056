package probes

import (
	"strings"
	"testing"

	"warroom/internal/types"
)

func testProfile() types.CampaignProfile {
	return types.CampaignProfile{
		CandidateName: "Maria Reyes",
		Office:        "City Council",
		District:      "District 4",
		DNA: types.CandidateDNA{
			CoreIssues: []string{"housing", "transit"},
		},
	}
}

func TestPrompt_MaterializesProfile(t *testing.T) {
	for _, topic := range types.AllTopics() {
		prompt, err := Prompt(topic, testProfile())
		if err != nil {
			t.Fatalf("Prompt(%s): %v", topic, err)
		}
		for _, want := range []string{"Maria Reyes", "City Council", "District 4"} {
			if !strings.Contains(prompt, want) {
				t.Errorf("%s prompt missing %q", topic, want)
			}
		}
		if !strings.Contains(prompt, "SIGNAL") || !strings.Contains(prompt, "THREAT") || !strings.Contains(prompt, "ACTION") {
			t.Errorf("%s prompt missing the marker footer", topic)
		}
		if !strings.Contains(prompt, "housing, transit") {
			t.Errorf("%s prompt missing core issues", topic)
		}
	}
}

func TestPrompt_UnknownTopic(t *testing.T) {
	if _, err := Prompt("ASTROLOGY", testProfile()); err == nil {
		t.Error("expected an error for an unknown topic")
	}
}

func TestPrompt_EmptyProfileUsesFallbacks(t *testing.T) {
	prompt, err := Prompt(types.TopicEconomic, types.CampaignProfile{})
	if err != nil {
		t.Fatalf("Prompt: %v", err)
	}
	if !strings.Contains(prompt, "the candidate") || !strings.Contains(prompt, "the district") {
		t.Error("empty profile fields should fall back to generic phrasing")
	}
}

func TestLabel(t *testing.T) {
	if got := Label(types.TopicEconomic); got != "Economic Landscape" {
		t.Errorf("Label = %q", got)
	}
	if got := Label("MYSTERY"); got != "MYSTERY" {
		t.Errorf("unknown label = %q", got)
	}
}
