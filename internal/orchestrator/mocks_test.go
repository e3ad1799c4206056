package orchestrator

import (
	"context"
	"sync"

	"warroom/internal/gateway"
	"warroom/internal/state"
)

// --- MockInferencer ---

type MockInferencer struct {
	InferFunc func(ctx context.Context, prompt string, opts gateway.InferOptions) (string, error)

	mu    sync.Mutex
	calls int
}

func (m *MockInferencer) Infer(ctx context.Context, prompt string, opts gateway.InferOptions) (string, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.InferFunc != nil {
		return m.InferFunc(ctx, prompt, opts)
	}
	return "SIGNAL: calm. THREAT: none. ACTION: proceed.", nil
}

func (m *MockInferencer) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// --- MockStore ---

type MockStore struct {
	LoadFunc func() (state.App, bool, error)

	mu    sync.Mutex
	saved []state.App
}

func (m *MockStore) Save(app state.App) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = append(m.saved, app)
	return nil
}

func (m *MockStore) Load() (state.App, bool, error) {
	if m.LoadFunc != nil {
		return m.LoadFunc()
	}
	return state.Empty(), false, nil
}

func (m *MockStore) SaveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.saved)
}

func (m *MockStore) LastSaved() (state.App, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.saved) == 0 {
		return state.App{}, false
	}
	return m.saved[len(m.saved)-1], true
}
