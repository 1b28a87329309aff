package learning

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/council-ai/council/internal/errors"
)

// HistoryEntry is one row of the strategy-drift audit trail: the weight
// state after one completed iteration. Entries are append-only and never
// rewritten.
type HistoryEntry struct {
	Iteration    int                `json:"iteration"`
	Timestamp    time.Time          `json:"timestamp"`
	Weights      map[string]float64 `json:"weights"` // value-copy snapshot
	WinnerID     string             `json:"winner_id"`
	OutcomeScore float64            `json:"outcome_score"`
}

// HistoryStore persists HistoryEntry records as one JSON document per line.
// It enforces the append-only contract: iteration indexes are strictly
// increasing and an attempt to append a duplicate or out-of-order index
// fails with ErrDuplicateIteration. Safe for concurrent use.
type HistoryStore struct {
	mu            sync.Mutex
	path          string
	lastIteration int
	count         int
	size          int64
}

// OpenHistory opens (or creates) the history log at path and scans any
// existing entries to recover the last iteration index.
func OpenHistory(path string) (*HistoryStore, error) {
	h := &HistoryStore{path: path}

	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return h, nil
	}
	if err != nil {
		return nil, errors.NewPersistenceError("open history", path, err)
	}
	defer f.Close() //nolint:errcheck // read-only file

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var e HistoryEntry
		if err := json.Unmarshal(line, &e); err != nil {
			return nil, errors.NewPersistenceError("decode history entry", path, err)
		}
		if e.Iteration <= h.lastIteration {
			return nil, fmt.Errorf("history log corrupt at iteration %d: %w", e.Iteration, errors.ErrDuplicateIteration)
		}
		h.lastIteration = e.Iteration
		h.count++
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.NewPersistenceError("scan history", path, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.NewPersistenceError("stat history", path, err)
	}
	h.size = info.Size()
	return h, nil
}

// LastIteration returns the highest iteration index written, or 0 when the
// log is empty. Iteration indexes start at 1.
func (h *HistoryStore) LastIteration() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.lastIteration
}

// Len returns the number of entries in the log.
func (h *HistoryStore) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.count
}

// Append writes one entry to the log. It fails with ErrDuplicateIteration
// if the entry's iteration index is not strictly greater than the last
// written index; such an attempt indicates an orchestrator sequencing bug.
func (h *HistoryStore) Append(e HistoryEntry) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if e.Iteration <= h.lastIteration {
		return fmt.Errorf("iteration %d already recorded (last is %d): %w",
			e.Iteration, h.lastIteration, errors.ErrDuplicateIteration)
	}

	data, err := json.Marshal(e)
	if err != nil {
		return errors.NewPersistenceError("marshal history entry", h.path, err)
	}
	data = append(data, '\n')

	f, err := os.OpenFile(h.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return errors.NewPersistenceError("open history", h.path, err)
	}
	defer f.Close() //nolint:errcheck // sync below catches write errors

	if _, err := f.Write(data); err != nil {
		return errors.NewPersistenceError("append history", h.path, err)
	}
	if err := f.Sync(); err != nil {
		return errors.NewPersistenceError("sync history", h.path, err)
	}

	h.lastIteration = e.Iteration
	h.count++
	h.size += int64(len(data))
	return nil
}

// rollbackLast truncates the most recent entry. It exists solely so an
// update can back out its history append when the companion weight write
// fails; it is not part of the public append-only contract.
func (h *HistoryStore) rollbackLast(prevIteration int, entryLen int) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	newSize := h.size - int64(entryLen)
	if newSize < 0 {
		newSize = 0
	}
	if err := os.Truncate(h.path, newSize); err != nil {
		return errors.NewPersistenceError("truncate history", h.path, err)
	}
	h.size = newSize
	h.lastIteration = prevIteration
	h.count--
	return nil
}

// entryLen returns the on-disk length of an entry, for rollback accounting.
func entryLen(e HistoryEntry) (int, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return 0, err
	}
	return len(data) + 1, nil
}

// Entries reads back the full log in write order.
func (h *HistoryStore) Entries() ([]HistoryEntry, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	f, err := os.Open(h.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.NewPersistenceError("open history", h.path, err)
	}
	defer f.Close() //nolint:errcheck // read-only file

	var out []HistoryEntry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var e HistoryEntry
		if err := json.Unmarshal(line, &e); err != nil {
			return nil, errors.NewPersistenceError("decode history entry", h.path, err)
		}
		out = append(out, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.NewPersistenceError("scan history", h.path, err)
	}
	return out, nil
}
