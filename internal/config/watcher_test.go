package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	ws := t.TempDir()
	path := filepath.Join(ws, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"llm":{"api_key":"old"}}`), 0644))

	reloaded := make(chan *Config, 1)
	w, err := NewWatcher(ws, path, func(cfg *Config) {
		select {
		case reloaded <- cfg:
		default:
		}
	})
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer w.Stop()

	// Give the watch a moment to attach before writing.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte(`{"llm":{"api_key":"new"}}`), 0644))

	select {
	case cfg := <-reloaded:
		require.Equal(t, "new", cfg.LLM.APIKey)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher never fired")
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	ws := t.TempDir()
	path := filepath.Join(ws, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0644))

	fired := make(chan struct{}, 1)
	w, err := NewWatcher(ws, path, func(*Config) {
		select {
		case fired <- struct{}{}:
		default:
		}
	})
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer w.Stop()

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(ws, "notes.txt"), []byte("x"), 0644))

	select {
	case <-fired:
		t.Fatal("watcher fired for an unrelated file")
	case <-time.After(700 * time.Millisecond):
	}
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	ws := t.TempDir()
	w, err := NewWatcher(ws, filepath.Join(ws, "config.json"), nil)
	require.NoError(t, err)
	require.NoError(t, w.Start())
	w.Stop()
	w.Stop()
}
