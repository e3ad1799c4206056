package state

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"warroom/internal/types"
)

func TestWithOpponent_FirstWriteWins(t *testing.T) {
	original := types.Opponent{Name: "Sarah Jenkins", Party: "Independent"}
	duplicate := types.Opponent{Name: "sarah jenkins ", Party: "Reform"}

	app := Empty().WithOpponent(original).WithOpponent(duplicate)

	if len(app.Profile.Opponents) != 1 {
		t.Fatalf("got %d opponents, want 1", len(app.Profile.Opponents))
	}
	if diff := cmp.Diff(original, app.Profile.Opponents[0]); diff != "" {
		t.Errorf("stored opponent mismatch (-want +got):\n%s", diff)
	}
}

func TestWithOpponent_AbbreviatedNameIsDistinct(t *testing.T) {
	// "J. Park" and "John Park" are different identity keys; no fuzzy
	// matching is attempted.
	app := Empty().
		WithOpponent(types.Opponent{Name: "John Park"}).
		WithOpponent(types.Opponent{Name: "J. Park"})

	if len(app.Profile.Opponents) != 2 {
		t.Fatalf("got %d opponents, want 2", len(app.Profile.Opponents))
	}
}

func TestWithOpponent_DoesNotMutateReceiver(t *testing.T) {
	base := Empty().WithOpponent(types.Opponent{Name: "Sarah Jenkins"})
	_ = base.WithOpponent(types.Opponent{Name: "Dale Ruiz"})

	if len(base.Profile.Opponents) != 1 {
		t.Error("reducer mutated the receiver")
	}
}

func TestWithoutOpponent(t *testing.T) {
	app := Empty().
		WithOpponent(types.Opponent{Name: "Sarah Jenkins"}).
		WithOpponent(types.Opponent{Name: "Dale Ruiz"}).
		WithoutOpponent("SARAH JENKINS ")

	if len(app.Profile.Opponents) != 1 || app.Profile.Opponents[0].Name != "Dale Ruiz" {
		t.Errorf("unexpected opponents after removal: %+v", app.Profile.Opponents)
	}
}

func TestWithSnapshot_PrependsAndActivates(t *testing.T) {
	first := types.ResearchSnapshot{ID: "a", Topic: types.TopicEconomic, RawText: "x"}
	second := types.ResearchSnapshot{ID: "b", Topic: types.TopicMedia, RawText: "y"}

	app := Empty().WithSnapshot(first).WithSnapshot(second)

	if app.Vault.Len() != 2 {
		t.Fatalf("Vault.Len() = %d, want 2", app.Vault.Len())
	}
	newest, _ := app.Vault.Newest()
	if newest.ID != "b" {
		t.Errorf("newest = %q, want b", newest.ID)
	}
	active, ok := app.Vault.Active()
	if !ok || active.ID != "b" {
		t.Errorf("active = %v, %v, want b", active.ID, ok)
	}
}

func TestWithActiveSnapshot_UnknownIDIsNoOp(t *testing.T) {
	app := Empty().WithSnapshot(types.ResearchSnapshot{ID: "a", RawText: "x"})
	next := app.WithActiveSnapshot("missing")

	if diff := cmp.Diff(app.Vault, next.Vault); diff != "" {
		t.Errorf("unknown id should not change the vault (-want +got):\n%s", diff)
	}
}

func TestWithActivity_Appends(t *testing.T) {
	app := Empty().WithActivity("first").WithActivity("second")
	if len(app.Activity) != 2 {
		t.Fatalf("got %d entries, want 2", len(app.Activity))
	}
	if app.Activity[1].Message != "second" {
		t.Errorf("Activity[1] = %q", app.Activity[1].Message)
	}
	if app.Activity[0].At.IsZero() {
		t.Error("activity timestamp not set")
	}
}

func TestWithAsset_Appends(t *testing.T) {
	app := Empty().WithAsset(types.CreativeAsset{ID: "a1", Kind: types.AssetSlogan})
	if len(app.Assets) != 1 || app.Assets[0].ID != "a1" {
		t.Errorf("unexpected assets: %+v", app.Assets)
	}
}

func TestNormalize_RepairsRestoredState(t *testing.T) {
	app := Empty()
	app.Vault.ActiveID = "dangling"
	app = app.Normalize()
	if app.Vault.ActiveID != "" {
		t.Error("dangling pointer survived Normalize")
	}
}
