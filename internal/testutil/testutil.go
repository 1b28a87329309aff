// Package testutil provides shared fixtures for council tests.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/council-ai/council/internal/agent"
	"github.com/council-ai/council/internal/debate"
	"github.com/council-ai/council/internal/learning"
)

// Campaign returns a small brand brief suitable for exercising the
// debate pipeline end to end.
func Campaign() debate.CampaignContext {
	return debate.CampaignContext{
		Brand:    "Acme Labs",
		Industry: "Tech",
		Product:  "Acme Notes",
		Audience: "Founders",
	}
}

// NewRegistry builds a registry from the default roster with every
// weight reset to 1.0.
func NewRegistry(t *testing.T) *agent.Registry {
	t.Helper()

	reg, err := agent.NewRegistry(agent.DefaultRoster(), agent.DefaultMinWeight)
	if err != nil {
		t.Fatalf("failed to build registry: %v", err)
	}
	return reg
}

// StateDir creates a temporary state directory and returns it along
// with the conventional weights and history paths inside it. The
// directory is cleaned up when the test completes.
func StateDir(t *testing.T) (dir, weightsPath, historyPath string) {
	t.Helper()

	dir = t.TempDir()
	return dir, filepath.Join(dir, "weights.json"), filepath.Join(dir, "history.jsonl")
}

// OpenHistory opens a history store at the given path, failing the
// test on error.
func OpenHistory(t *testing.T, path string) *learning.HistoryStore {
	t.Helper()

	history, err := learning.OpenHistory(path)
	if err != nil {
		t.Fatalf("failed to open history at %s: %v", path, err)
	}
	return history
}

// NewLoop builds a learning loop with default parameters over a fresh
// history store in dir.
func NewLoop(t *testing.T, dir string) (*learning.Loop, *learning.HistoryStore) {
	t.Helper()

	history := OpenHistory(t, filepath.Join(dir, "history.jsonl"))
	loop, err := learning.NewLoop(learning.DefaultParams(), history, filepath.Join(dir, "weights.json"), nil)
	if err != nil {
		t.Fatalf("failed to build learning loop: %v", err)
	}
	return loop, history
}
