// Package orchestrator drives the intelligence pipeline: it dispatches
// research probes through the inference gateway, files every attempt into the
// snapshot vault, runs rival extraction, and owns the single authoritative
// copy of the application state.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"warroom/internal/gateway"
	"warroom/internal/logging"
	"warroom/internal/probes"
	"warroom/internal/rivals"
	"warroom/internal/state"
	"warroom/internal/types"
	"warroom/internal/vault"
)

// CategoryResearch is the exclusivity category shared by all research probes.
// Only one probe may be in flight regardless of topic.
const CategoryResearch = "research"

// ErrProbeInFlight is returned when a probe is requested while another is
// still running. The request is a no-op; nothing is queued.
var ErrProbeInFlight = errors.New("a research probe is already in flight")

// Store is the slice of the persistence bridge the orchestrator needs.
type Store interface {
	Save(app state.App) error
	Load() (state.App, bool, error)
}

// Orchestrator coordinates probes, extraction, and state mutation.
type Orchestrator struct {
	mu   sync.Mutex
	app  state.App
	gw   gateway.Inferencer
	ext  *rivals.Extractor
	st   Store
	gate *Gate
}

// New builds an Orchestrator over the given gateway and store, restoring any
// previously persisted state. A corrupt or absent store yields empty state.
func New(gw gateway.Inferencer, st Store) *Orchestrator {
	o := &Orchestrator{
		gw:   gw,
		ext:  rivals.NewExtractor(gw),
		st:   st,
		gate: NewGate(),
		app:  state.Empty(),
	}
	if st != nil {
		app, restored, _ := st.Load()
		o.app = app
		if restored {
			logging.Orchestrator("Restored persisted state")
		}
	}
	return o
}

// Gate exposes the shared exclusivity gate so sibling operation classes
// (creative panels) can claim their own categories on it.
func (o *Orchestrator) Gate() *Gate {
	return o.gate
}

// App returns a copy of the current application state.
func (o *Orchestrator) App() state.App {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.app
}

// SetProfile replaces the campaign profile and persists.
func (o *Orchestrator) SetProfile(p types.CampaignProfile) {
	o.mutate(func(app state.App) state.App {
		return app.WithProfile(p)
	})
}

// RunProbe dispatches one research probe for the topic. At most one probe is
// in flight at a time; a concurrent call returns ErrProbeInFlight without
// side effects. Every dispatched probe produces a snapshot, success or
// failure, so the vault never loses an attempt.
func (o *Orchestrator) RunProbe(ctx context.Context, topic types.ProbeTopic) (types.ResearchSnapshot, error) {
	if !types.ValidTopic(topic) {
		return types.ResearchSnapshot{}, fmt.Errorf("unknown probe topic %q", topic)
	}
	if !o.gate.TryAcquire(CategoryResearch) {
		logging.OrchestratorWarn("Probe %s requested while another probe is in flight, ignoring", topic)
		return types.ResearchSnapshot{}, ErrProbeInFlight
	}
	defer o.gate.Release(CategoryResearch)

	timer := logging.StartTimer(logging.CategoryOrchestrator, "RunProbe")
	defer timer.Stop()

	profile := o.App().Profile
	prompt, err := probes.Prompt(topic, profile)
	if err != nil {
		return types.ResearchSnapshot{}, err
	}

	logging.Orchestrator("Dispatching %s probe", topic)
	raw, err := o.gw.Infer(ctx, prompt, gateway.InferOptions{})

	snapshot := types.ResearchSnapshot{
		ID:        uuid.New().String(),
		Topic:     topic,
		CreatedAt: time.Now(),
	}
	if err != nil {
		kind := gateway.KindOf(err)
		snapshot.Error = err.Error()
		snapshot.RawText = gateway.UserMessage(kind)
		logging.OrchestratorError("Probe %s failed (%s): %v", topic, kind, err)
	} else {
		snapshot.RawText = raw
		snapshot.ParsedSummary = vault.SplitSummary(raw)
		snapshot.SignalStrength = vault.MarkerCoverage(raw)
	}

	line := probeActivityLine(topic, snapshot)
	o.mutate(func(app state.App) state.App {
		return app.WithSnapshot(snapshot).WithActivity(line)
	})
	logging.Vault("Snapshot %s filed (%s, failed=%t)", snapshot.ID, topic, snapshot.Failed())
	logging.Activity("%s", line)

	if err != nil {
		return snapshot, err
	}
	logging.Orchestrator("Probe %s completed, snapshot %s", topic, snapshot.ID)
	return snapshot, nil
}

// ExtractRivals runs the structured second pass over a stored snapshot. With
// autoMerge false the surviving candidates are returned for review; with
// autoMerge true they are merged into the profile immediately. Either way the
// dedup rules make repeat runs idempotent.
func (o *Orchestrator) ExtractRivals(ctx context.Context, snapshotID string, autoMerge bool) ([]types.Opponent, error) {
	app := o.App()
	snapshot, ok := app.Vault.Get(snapshotID)
	if !ok {
		return nil, fmt.Errorf("no snapshot with id %s", snapshotID)
	}

	candidates, err := o.ext.Extract(ctx, snapshot, app.Profile)
	if err != nil {
		// The attempt completed; the feed reports it either way.
		line := "Rival extraction produced no readable candidates"
		if !errors.Is(err, rivals.ErrUnparsableResponse) {
			line = fmt.Sprintf("Rival extraction failed: %s", gateway.UserMessage(gateway.KindOf(err)))
		}
		o.mutate(func(app state.App) state.App {
			return app.WithActivity(line)
		})
		logging.Activity("%s", line)
		return nil, err
	}

	if autoMerge {
		merged := 0
		o.mutate(func(app state.App) state.App {
			for _, c := range candidates {
				before := len(app.Profile.Opponents)
				app = app.WithOpponent(c)
				if len(app.Profile.Opponents) > before {
					merged++
				}
			}
			return app.WithActivity(fmt.Sprintf("Rival extraction merged %d of %d candidate(s)", merged, len(candidates)))
		})
		return candidates, nil
	}

	o.mutate(func(app state.App) state.App {
		return app.WithActivity(fmt.Sprintf("Rival extraction found %d candidate(s) for review", len(candidates)))
	})
	return candidates, nil
}

// MergeOpponent registers one reviewed candidate. The first record for a name
// wins; a duplicate is silently dropped.
func (o *Orchestrator) MergeOpponent(op types.Opponent) {
	o.mutate(func(app state.App) state.App {
		before := len(app.Profile.Opponents)
		app = app.WithOpponent(op)
		if len(app.Profile.Opponents) > before {
			app = app.WithActivity(fmt.Sprintf("Registered rival %s", op.Name))
		}
		return app
	})
}

// SetActiveSnapshot points the vault at a specific snapshot for display.
func (o *Orchestrator) SetActiveSnapshot(id string) error {
	app := o.App()
	if _, ok := app.Vault.Get(id); !ok {
		logging.VaultWarn("Active pointer rejected, no snapshot %s", id)
		return fmt.Errorf("no snapshot with id %s", id)
	}
	o.mutate(func(app state.App) state.App {
		return app.WithActiveSnapshot(id)
	})
	logging.VaultDebug("Active pointer -> %s", id)
	return nil
}

// RecordAsset files a creative result into the state.
func (o *Orchestrator) RecordAsset(asset types.CreativeAsset, activity string) {
	o.mutate(func(app state.App) state.App {
		return app.WithAsset(asset).WithActivity(activity)
	})
}

// mutate applies a reducer under the state mutex and persists the result.
// Persistence failure is logged, never propagated; the in-memory state is
// already authoritative.
func (o *Orchestrator) mutate(fn func(state.App) state.App) {
	o.mu.Lock()
	o.app = fn(o.app)
	app := o.app
	o.mu.Unlock()

	if o.st == nil {
		return
	}
	if err := o.st.Save(app); err != nil {
		logging.OrchestratorWarn("State save failed: %v", err)
	}
}

func probeActivityLine(topic types.ProbeTopic, s types.ResearchSnapshot) string {
	if s.Failed() {
		return fmt.Sprintf("%s probe failed: %s", probes.Label(topic), s.RawText)
	}
	return fmt.Sprintf("%s probe completed", probes.Label(topic))
}
