package vault

import (
	"testing"

	"warroom/internal/types"
)

func snap(id string) types.ResearchSnapshot {
	return types.ResearchSnapshot{ID: id, Topic: types.TopicEconomic, RawText: "text"}
}

func failedSnap(id string) types.ResearchSnapshot {
	s := snap(id)
	s.Error = "quota exceeded"
	return s
}

func TestPrepend_NewestFirst(t *testing.T) {
	v := Vault{}
	v = v.Prepend(snap("a"))
	v = v.Prepend(snap("b"))
	v = v.Prepend(snap("c"))

	if v.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", v.Len())
	}
	for i, want := range []string{"c", "b", "a"} {
		if v.Snapshots[i].ID != want {
			t.Errorf("Snapshots[%d].ID = %q, want %q", i, v.Snapshots[i].ID, want)
		}
	}
	newest, ok := v.Newest()
	if !ok || newest.ID != "c" {
		t.Errorf("Newest() = %v, %v", newest.ID, ok)
	}
}

func TestPrepend_DoesNotMutateReceiver(t *testing.T) {
	v := Vault{}.Prepend(snap("a"))
	_ = v.Prepend(snap("b"))
	if v.Len() != 1 || v.Snapshots[0].ID != "a" {
		t.Error("Prepend mutated the receiver")
	}
}

func TestPrepend_SuccessBecomesActive(t *testing.T) {
	v := Vault{}.Prepend(snap("a"))
	if v.ActiveID != "a" {
		t.Errorf("ActiveID = %q, want %q", v.ActiveID, "a")
	}
}

func TestPrepend_FailureIsRecordedButNotActive(t *testing.T) {
	v := Vault{}.Prepend(snap("a")).Prepend(failedSnap("b"))

	if v.Len() != 2 {
		t.Fatalf("failed attempt was lost: Len() = %d", v.Len())
	}
	if v.ActiveID != "a" {
		t.Errorf("ActiveID = %q, want to stay on %q", v.ActiveID, "a")
	}
	got, ok := v.Get("b")
	if !ok || !got.Failed() {
		t.Error("failed snapshot not retrievable from the vault")
	}
}

func TestWithActive(t *testing.T) {
	v := Vault{}.Prepend(snap("a")).Prepend(snap("b"))

	v2, err := v.WithActive("a")
	if err != nil {
		t.Fatalf("WithActive: %v", err)
	}
	if v2.ActiveID != "a" {
		t.Errorf("ActiveID = %q", v2.ActiveID)
	}

	if _, err := v.WithActive("nope"); err == nil {
		t.Error("expected error for unknown id")
	}
}

func TestNormalize_ClearsDanglingPointer(t *testing.T) {
	v := Vault{
		Snapshots: []types.ResearchSnapshot{snap("a")},
		ActiveID:  "gone",
	}
	v = v.Normalize()
	if v.ActiveID != "" {
		t.Errorf("ActiveID = %q, want cleared", v.ActiveID)
	}

	v, _ = v.WithActive("a")
	if got := v.Normalize(); got.ActiveID != "a" {
		t.Error("Normalize cleared a valid pointer")
	}
}

func TestActive_EmptyPointer(t *testing.T) {
	if _, ok := (Vault{}).Active(); ok {
		t.Error("empty vault reported an active snapshot")
	}
}
