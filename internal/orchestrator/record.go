package orchestrator

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/council-ai/council/internal/content"
	"github.com/council-ai/council/internal/debate"
	"github.com/council-ai/council/internal/errors"
	"github.com/council-ai/council/internal/learning"
)

// pendingFile holds the record of an iteration that has a decision but no
// recorded outcome yet.
const pendingFile = "pending.json"

// IterationRecord is the full account of one iteration. Everything up to
// Decision is fixed at commit time; Outcome, Weights, and CompletedAt are
// filled in when learning finishes.
type IterationRecord struct {
	Iteration   int                         `json:"iteration"`
	StartedAt   time.Time                   `json:"started_at"`
	CompletedAt time.Time                   `json:"completed_at,omitempty"`
	Campaign    debate.CampaignContext      `json:"campaign"`
	Proposals   []debate.Proposal           `json:"proposals"`
	Fallbacks   int                         `json:"fallbacks,omitempty"`
	Critiques   []debate.Critique           `json:"critiques"`
	Decision    debate.Decision             `json:"decision"`
	Post        *content.Post               `json:"post,omitempty"`
	Outcome     *learning.EngagementOutcome `json:"outcome,omitempty"`
	// Weights is the post-learning snapshot.
	Weights map[string]float64 `json:"weights,omitempty"`
}

func pendingPath(stateDir string) string {
	return filepath.Join(stateDir, pendingFile)
}

// commitPending writes the record atomically so a crash never leaves a
// torn pending file.
func commitPending(stateDir string, rec *IterationRecord) error {
	path := pendingPath(stateDir)
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return errors.NewPersistenceError("marshal pending record", path, err)
	}

	tmp, err := os.CreateTemp(stateDir, pendingFile+".tmp-*")
	if err != nil {
		return errors.NewPersistenceError("create temp file", path, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.NewPersistenceError("write pending record", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.NewPersistenceError("close temp file", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return errors.NewPersistenceError("rename pending record", path, err)
	}
	return nil
}

// loadPending reads a committed pending record. ErrNoPendingIteration means
// there is nothing to resume.
func loadPending(stateDir string) (*IterationRecord, error) {
	path := pendingPath(stateDir)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.ErrNoPendingIteration
	}
	if err != nil {
		return nil, errors.NewPersistenceError("read pending record", path, err)
	}
	var rec IterationRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, errors.NewPersistenceError("decode pending record", path, err)
	}
	return &rec, nil
}

// clearPending removes the pending file once the iteration is fully done.
func clearPending(stateDir string) error {
	err := os.Remove(pendingPath(stateDir))
	if err != nil && !os.IsNotExist(err) {
		return errors.NewPersistenceError("remove pending record", pendingPath(stateDir), err)
	}
	return nil
}

// HasPending reports whether an unfinished iteration is waiting in stateDir.
func HasPending(stateDir string) bool {
	_, err := os.Stat(pendingPath(stateDir))
	return err == nil
}
