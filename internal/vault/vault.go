// Package vault implements the ordered, append-only collection of research
// snapshots. The vault is newest-first: a new snapshot is always prepended,
// never inserted elsewhere, and entries are never mutated in place.
package vault

import (
	"fmt"

	"warroom/internal/types"
)

// Vault holds the session's research snapshots plus the "currently selected"
// pointer. Operations are pure: each returns a fresh Vault value so the
// state container can hold the single authoritative copy.
type Vault struct {
	Snapshots []types.ResearchSnapshot `json:"snapshots"`
	ActiveID  string                   `json:"active_id"`
}

// Len returns the number of snapshots.
func (v Vault) Len() int {
	return len(v.Snapshots)
}

// Newest returns the most recently completed snapshot.
func (v Vault) Newest() (types.ResearchSnapshot, bool) {
	if len(v.Snapshots) == 0 {
		return types.ResearchSnapshot{}, false
	}
	return v.Snapshots[0], true
}

// Get returns the snapshot with the given id.
func (v Vault) Get(id string) (types.ResearchSnapshot, bool) {
	for _, s := range v.Snapshots {
		if s.ID == id {
			return s, true
		}
	}
	return types.ResearchSnapshot{}, false
}

// Active resolves the active pointer. A cleared or dangling pointer reports
// false; Prepend keeps the pointer consistent so dangling only happens on a
// corrupt restore, which Normalize clears.
func (v Vault) Active() (types.ResearchSnapshot, bool) {
	if v.ActiveID == "" {
		return types.ResearchSnapshot{}, false
	}
	return v.Get(v.ActiveID)
}

// Prepend returns a new vault with the snapshot at index 0. A successful
// snapshot becomes the active one; a failed snapshot is recorded without
// moving the pointer.
func (v Vault) Prepend(s types.ResearchSnapshot) Vault {
	out := Vault{
		Snapshots: make([]types.ResearchSnapshot, 0, len(v.Snapshots)+1),
		ActiveID:  v.ActiveID,
	}
	out.Snapshots = append(out.Snapshots, s)
	out.Snapshots = append(out.Snapshots, v.Snapshots...)
	if !s.Failed() {
		out.ActiveID = s.ID
	}
	return out
}

// WithActive returns a new vault with the pointer set to id.
func (v Vault) WithActive(id string) (Vault, error) {
	if _, ok := v.Get(id); !ok {
		return v, fmt.Errorf("snapshot %q not found", id)
	}
	out := v
	out.ActiveID = id
	return out, nil
}

// Normalize clears a dangling active pointer. Used after restoring a
// persisted vault whose payload may predate the current session.
func (v Vault) Normalize() Vault {
	if v.ActiveID == "" {
		return v
	}
	if _, ok := v.Get(v.ActiveID); ok {
		return v
	}
	out := v
	out.ActiveID = ""
	return out
}
