// Package state defines the application-state container for warroom. All
// mutation goes through pure reducers returning a fresh App value; the
// orchestrator owns the single authoritative copy behind a mutex. This keeps
// the pipeline's invariants checkable in isolation.
package state

import (
	"time"

	"warroom/internal/types"
	"warroom/internal/vault"
)

// App is the whole persisted application state: the campaign profile, the
// snapshot vault (a sibling collection, not nested in the profile, because
// its lifecycle differs), derived creative assets, and the activity feed.
type App struct {
	Profile  types.CampaignProfile `json:"profile"`
	Vault    vault.Vault           `json:"vault"`
	Assets   []types.CreativeAsset `json:"assets"`
	Activity []types.ActivityEntry `json:"activity"`
}

// Empty returns the default starting state.
func Empty() App {
	return App{}
}

// WithProfile replaces the campaign profile.
func (a App) WithProfile(p types.CampaignProfile) App {
	out := a
	out.Profile = p.Clone()
	return out
}

// WithSnapshot prepends a snapshot to the vault.
func (a App) WithSnapshot(s types.ResearchSnapshot) App {
	out := a
	out.Vault = a.Vault.Prepend(s)
	return out
}

// WithActiveSnapshot moves the vault's active pointer.
// No-op when the id does not resolve.
func (a App) WithActiveSnapshot(id string) App {
	v, err := a.Vault.WithActive(id)
	if err != nil {
		return a
	}
	out := a
	out.Vault = v
	return out
}

// WithOpponent appends an opponent unless its name is already taken under
// the case-insensitive dedup rule. First write wins.
func (a App) WithOpponent(o types.Opponent) App {
	if a.Profile.HasOpponent(o.Name) {
		return a
	}
	out := a
	out.Profile = a.Profile.Clone()
	out.Profile.Opponents = append(out.Profile.Opponents, o)
	return out
}

// WithoutOpponent removes an opponent by dedup key (user-initiated delete).
func (a App) WithoutOpponent(name string) App {
	key := types.NormalizeName(name)
	out := a
	out.Profile = a.Profile.Clone()
	kept := out.Profile.Opponents[:0]
	for _, o := range out.Profile.Opponents {
		if types.NormalizeName(o.Name) != key {
			kept = append(kept, o)
		}
	}
	out.Profile.Opponents = kept
	return out
}

// WithAsset appends a creative asset.
func (a App) WithAsset(asset types.CreativeAsset) App {
	out := a
	out.Assets = append(append([]types.CreativeAsset{}, a.Assets...), asset)
	return out
}

// WithActivity appends one line to the activity feed.
func (a App) WithActivity(message string) App {
	out := a
	out.Activity = append(append([]types.ActivityEntry{}, a.Activity...), types.ActivityEntry{
		At:      time.Now(),
		Message: message,
	})
	return out
}

// Normalize repairs internal consistency after a restore: a dangling vault
// pointer is cleared rather than allowed to crash a later resolve.
func (a App) Normalize() App {
	out := a
	out.Vault = a.Vault.Normalize()
	return out
}
