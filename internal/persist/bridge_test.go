package persist

import (
	"path/filepath"
	"testing"
	"time"

	"warroom/internal/state"
	"warroom/internal/types"
)

func newTestBridge(t *testing.T) *Bridge {
	t.Helper()
	b, err := NewBridge(filepath.Join(t.TempDir(), "warroom.db"))
	if err != nil {
		t.Fatalf("NewBridge: %v", err)
	}
	t.Cleanup(func() { _ = b.Close() })
	return b
}

func TestLoad_FreshStore(t *testing.T) {
	b := newTestBridge(t)

	app, restored, err := b.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if restored {
		t.Error("fresh store reported restored state")
	}
	if app.Vault.Len() != 0 || len(app.Profile.Opponents) != 0 {
		t.Error("fresh store should yield empty state")
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	b := newTestBridge(t)

	app := state.Empty().
		WithProfile(types.CampaignProfile{CandidateName: "Maria Reyes", BudgetTotal: 50000}).
		WithSnapshot(types.ResearchSnapshot{ID: "s1", Topic: types.TopicEconomic, RawText: "brief"}).
		WithOpponent(types.Opponent{Name: "Sarah Jenkins", Incumbent: true})

	if err := b.Save(app); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, restored, err := b.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !restored {
		t.Fatal("expected restored = true")
	}
	if got.Profile.CandidateName != "Maria Reyes" {
		t.Errorf("CandidateName = %q", got.Profile.CandidateName)
	}
	if got.Vault.Len() != 1 {
		t.Errorf("Vault.Len() = %d", got.Vault.Len())
	}
	if active, ok := got.Vault.Active(); !ok || active.ID != "s1" {
		t.Errorf("active = %v, %v", active.ID, ok)
	}
	if len(got.Profile.Opponents) != 1 || !got.Profile.Opponents[0].Incumbent {
		t.Errorf("opponents = %+v", got.Profile.Opponents)
	}
}

func TestSave_OverwritesPreviousBundle(t *testing.T) {
	b := newTestBridge(t)

	if err := b.Save(state.Empty().WithActivity("one")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := b.Save(state.Empty().WithActivity("one").WithActivity("two")); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, _, err := b.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got.Activity) != 2 {
		t.Errorf("got %d activity entries, want 2 (single-row bundle)", len(got.Activity))
	}
}

func TestLoad_CorruptPayloadStartsFresh(t *testing.T) {
	b := newTestBridge(t)

	if _, err := b.db.Exec(
		"INSERT INTO app_state (key, schema_version, payload) VALUES (?, ?, ?)",
		stateKey, SchemaVersion, "{not json"); err != nil {
		t.Fatalf("seed corrupt row: %v", err)
	}

	app, restored, err := b.Load()
	if err != nil {
		t.Errorf("corrupt payload must not surface an error, got %v", err)
	}
	if restored {
		t.Error("corrupt payload reported restored")
	}
	if app.Vault.Len() != 0 {
		t.Error("corrupt payload should yield empty state")
	}
}

func TestLoad_VersionMismatchStartsFresh(t *testing.T) {
	b := newTestBridge(t)

	if err := b.Save(state.Empty().WithActivity("old")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := b.db.Exec("UPDATE app_state SET schema_version = '0' WHERE key = ?", stateKey); err != nil {
		t.Fatalf("downgrade version: %v", err)
	}

	_, restored, err := b.Load()
	if err != nil {
		t.Errorf("version mismatch must not surface an error, got %v", err)
	}
	if restored {
		t.Error("version mismatch reported restored")
	}
}

func TestClear(t *testing.T) {
	b := newTestBridge(t)

	if err := b.Save(state.Empty().WithActivity("x")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := b.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	_, restored, _ := b.Load()
	if restored {
		t.Error("state survived Clear")
	}
}

func TestSyncing_FlagRaisesAndClears(t *testing.T) {
	b := newTestBridge(t)

	if err := b.Save(state.Empty()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !b.Syncing() {
		t.Error("syncing flag not raised after Save")
	}

	deadline := time.After(3 * time.Second)
	for b.Syncing() {
		select {
		case <-deadline:
			t.Fatal("syncing flag never cleared")
		case <-time.After(50 * time.Millisecond):
		}
	}
}
