package agent

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/council-ai/council/internal/errors"
)

// rosterFile is the serializable representation of an agent roster or a
// persisted registry state. The same format serves both: a roster written by
// hand simply omits the counters.
type rosterFile struct {
	Agents []rosterEntry `json:"agents"`
}

// rosterEntry mirrors Agent but keeps Weight as a pointer so a missing
// voting_weight key can be told apart from an explicit zero.
type rosterEntry struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Role        string   `json:"role,omitempty"`
	Personality string   `json:"personality,omitempty"`
	Goals       []string `json:"goals,omitempty"`
	Weight      *float64 `json:"voting_weight"`
	Wins        int      `json:"wins,omitempty"`
	Losses      int      `json:"losses,omitempty"`
	Color       string   `json:"color,omitempty"`
}

// LoadRoster reads a roster file from disk and builds a Registry.
func LoadRoster(path string, minWeight float64) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewConfigError("open roster", err)
	}
	defer f.Close() //nolint:errcheck // read-only file

	return ParseRoster(f, minWeight)
}

// ParseRoster decodes a roster document and builds a Registry. It fails with
// a ConfigError if an entry is missing an id or a weight, or if two entries
// share an id.
func ParseRoster(r io.Reader, minWeight float64) (*Registry, error) {
	var file rosterFile
	if err := json.NewDecoder(r).Decode(&file); err != nil {
		return nil, errors.NewConfigError("decode roster", err)
	}

	roster := make([]Agent, 0, len(file.Agents))
	for _, e := range file.Agents {
		if e.ID == "" {
			return nil, errors.NewConfigError("parse roster", errors.ErrAgentMissingID)
		}
		if e.Weight == nil {
			return nil, errors.NewConfigError("parse roster", errors.ErrAgentMissingWeight).WithAgent(e.ID)
		}
		roster = append(roster, Agent{
			ID:          e.ID,
			Name:        e.Name,
			Role:        e.Role,
			Personality: e.Personality,
			Goals:       e.Goals,
			Weight:      *e.Weight,
			Wins:        e.Wins,
			Losses:      e.Losses,
			Color:       e.Color,
		})
	}

	return NewRegistry(roster, minWeight)
}

// Persist writes the full agent set, weights included, to path atomically:
// data goes to a temporary file first, then is renamed into place. Either
// the previous state remains readable or the new state is fully readable;
// no partially-written state is ever observable.
func (r *Registry) Persist(path string) error {
	r.mu.RLock()
	file := rosterFile{Agents: make([]rosterEntry, 0, len(r.ids))}
	for _, id := range r.ids {
		a := r.agents[id]
		w := a.Weight
		file.Agents = append(file.Agents, rosterEntry{
			ID:          a.ID,
			Name:        a.Name,
			Role:        a.Role,
			Personality: a.Personality,
			Goals:       append([]string(nil), a.Goals...),
			Weight:      &w,
			Wins:        a.Wins,
			Losses:      a.Losses,
			Color:       a.Color,
		})
	}
	r.mu.RUnlock()

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return errors.NewPersistenceError("marshal registry", path, err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return errors.NewPersistenceError("write temp file", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp) // best-effort cleanup
		return errors.NewPersistenceError("rename temp file", path, err)
	}
	return nil
}

// Load restores a previously persisted Registry. Loading then persisting
// yields identical agent ids and weights.
func Load(path string, minWeight float64) (*Registry, error) {
	reg, err := LoadRoster(path, minWeight)
	if err != nil {
		return nil, fmt.Errorf("load registry: %w", err)
	}
	return reg, nil
}
