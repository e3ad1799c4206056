// Package persist implements the persistence bridge: the whole application
// state is serialized as one JSON bundle under a fixed, schema-versioned key
// in a local SQLite store. Saves are synchronous and unconditional; the
// visible "syncing" indicator is cosmetic.
package persist

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"warroom/internal/logging"
	"warroom/internal/state"
)

// SchemaVersion scopes the stored payload. A mismatched or absent version is
// treated identically to an absent payload; there is no migration logic.
const SchemaVersion = "1"

// stateKey is the single fixed key the bundle lives under.
const stateKey = "campaign_state"

// syncWindow is how long the cosmetic "syncing" indicator stays raised.
const syncWindow = 800 * time.Millisecond

// Bridge persists and restores the application state bundle.
type Bridge struct {
	db     *sql.DB
	mu     sync.Mutex
	dbPath string

	syncMu    sync.Mutex
	syncing   bool
	syncTimer *time.Timer
}

// NewBridge opens (or creates) the SQLite store at path.
func NewBridge(path string) (*Bridge, error) {
	timer := logging.StartTimer(logging.CategoryPersist, "NewBridge")
	defer timer.Stop()

	logging.Persist("Opening state store at %s", path)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		logging.PersistDebug("Failed to set sqlite busy_timeout: %v", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		logging.PersistDebug("Failed to set sqlite journal_mode=WAL: %v", err)
	}
	if _, err := db.Exec("PRAGMA synchronous = NORMAL"); err != nil {
		logging.PersistDebug("Failed to set sqlite synchronous=NORMAL: %v", err)
	}

	b := &Bridge{db: db, dbPath: path}
	if err := b.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return b, nil
}

func (b *Bridge) initialize() error {
	table := `
	CREATE TABLE IF NOT EXISTS app_state (
		key TEXT PRIMARY KEY,
		schema_version TEXT NOT NULL,
		payload TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	if _, err := b.db.Exec(table); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}
	return nil
}

// Close closes the store.
func (b *Bridge) Close() error {
	logging.Persist("Closing state store")
	return b.db.Close()
}

// Save writes the bundle synchronously. A capacity failure is non-fatal:
// it is logged and the stale row is cleared best-effort rather than leaving
// the store wedged on every subsequent write.
func (b *Bridge) Save(app state.App) error {
	timer := logging.StartTimer(logging.CategoryPersist, "Save")
	defer timer.Stop()

	b.raiseSyncFlag()

	payload, err := json.Marshal(app)
	if err != nil {
		logging.PersistError("Save: marshal failed: %v", err)
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	_, err = b.db.Exec(`
		INSERT INTO app_state (key, schema_version, payload, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET
			schema_version = excluded.schema_version,
			payload = excluded.payload,
			updated_at = CURRENT_TIMESTAMP
	`, stateKey, SchemaVersion, string(payload))
	if err != nil {
		if isCapacityError(err) {
			logging.PersistError("Save: store capacity exceeded, clearing stale state: %v", err)
			b.clearLocked()
			return fmt.Errorf("state store full: %w", err)
		}
		logging.PersistError("Save: write failed: %v", err)
		return fmt.Errorf("failed to write state: %w", err)
	}

	logging.PersistDebug("Save: wrote %d bytes", len(payload))
	return nil
}

// Load restores the bundle. Absent row, version mismatch, and parse failure
// all yield (empty, false, nil): a corrupt store must never crash startup.
func (b *Bridge) Load() (state.App, bool, error) {
	timer := logging.StartTimer(logging.CategoryPersist, "Load")
	defer timer.Stop()

	b.mu.Lock()
	defer b.mu.Unlock()

	var version, payload string
	err := b.db.QueryRow(
		"SELECT schema_version, payload FROM app_state WHERE key = ?", stateKey,
	).Scan(&version, &payload)
	switch {
	case err == sql.ErrNoRows:
		logging.Persist("Load: no stored state, starting fresh")
		return state.Empty(), false, nil
	case err != nil:
		logging.PersistError("Load: query failed, starting fresh: %v", err)
		return state.Empty(), false, nil
	}

	if version != SchemaVersion {
		logging.PersistWarn("Load: schema version %q != %q, ignoring stored state", version, SchemaVersion)
		return state.Empty(), false, nil
	}

	var app state.App
	if err := json.Unmarshal([]byte(payload), &app); err != nil {
		logging.PersistWarn("Load: stored payload unparsable, starting fresh: %v", err)
		return state.Empty(), false, nil
	}

	logging.Persist("Load: restored state (%d snapshots, %d opponents, %d assets)",
		app.Vault.Len(), len(app.Profile.Opponents), len(app.Assets))
	return app.Normalize(), true, nil
}

// Clear removes the stored bundle.
func (b *Bridge) Clear() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.clearLocked()
}

func (b *Bridge) clearLocked() error {
	if _, err := b.db.Exec("DELETE FROM app_state WHERE key = ?", stateKey); err != nil {
		logging.PersistWarn("Clear: %v", err)
		return err
	}
	return nil
}

// Syncing reports whether the cosmetic sync indicator is currently raised.
func (b *Bridge) Syncing() bool {
	b.syncMu.Lock()
	defer b.syncMu.Unlock()
	return b.syncing
}

func (b *Bridge) raiseSyncFlag() {
	b.syncMu.Lock()
	defer b.syncMu.Unlock()
	b.syncing = true
	if b.syncTimer != nil {
		b.syncTimer.Stop()
	}
	b.syncTimer = time.AfterFunc(syncWindow, func() {
		b.syncMu.Lock()
		b.syncing = false
		b.syncMu.Unlock()
	})
}

// isCapacityError matches SQLite's full-store failures.
func isCapacityError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "database or disk is full") ||
		strings.Contains(msg, "sqlite_full")
}
