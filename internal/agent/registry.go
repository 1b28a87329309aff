package agent

import (
	"fmt"
	"sort"
	"sync"

	"github.com/council-ai/council/internal/errors"
)

// DefaultMinWeight is the weight floor applied when none is configured.
// It must stay above zero so a losing streak can never silence an agent.
const DefaultMinWeight = 0.1

// Registry holds the fixed roster of agents and their mutable voting
// weights. The set of agent ids never changes for the lifetime of a
// Registry instance. It is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	agents    map[string]*Agent
	ids       []string // sorted, fixed at construction
	minWeight float64
}

// NewRegistry validates a roster and builds a Registry from it.
// It fails with a ConfigError if the roster is empty, an entry is missing an
// id or a positive weight, or two entries share an id. minWeight values at
// or below zero fall back to DefaultMinWeight.
func NewRegistry(roster []Agent, minWeight float64) (*Registry, error) {
	if minWeight <= 0 {
		minWeight = DefaultMinWeight
	}
	if len(roster) == 0 {
		return nil, errors.NewConfigError("build registry", errors.ErrRosterEmpty)
	}

	agents := make(map[string]*Agent, len(roster))
	ids := make([]string, 0, len(roster))
	for _, a := range roster {
		if a.ID == "" {
			return nil, errors.NewConfigError("build registry", errors.ErrAgentMissingID)
		}
		if a.Weight <= 0 {
			return nil, errors.NewConfigError("build registry", errors.ErrAgentMissingWeight).WithAgent(a.ID)
		}
		if _, dup := agents[a.ID]; dup {
			return nil, errors.NewConfigError("build registry", errors.ErrDuplicateAgentID).WithAgent(a.ID)
		}
		c := a.clone()
		if c.Weight < minWeight {
			c.Weight = minWeight
		}
		agents[a.ID] = &c
		ids = append(ids, a.ID)
	}
	sort.Strings(ids)

	return &Registry{
		agents:    agents,
		ids:       ids,
		minWeight: minWeight,
	}, nil
}

// IDs returns the sorted agent ids. The returned slice is a copy.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.ids...)
}

// Len returns the number of registered agents.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.ids)
}

// MinWeight returns the configured weight floor.
func (r *Registry) MinWeight() float64 {
	return r.minWeight
}

// Get returns a value copy of the agent with the given id.
func (r *Registry) Get(id string) (Agent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.agents[id]
	if !ok {
		return Agent{}, fmt.Errorf("%w: %q", errors.ErrUnknownAgent, id)
	}
	return a.clone(), nil
}

// Agents returns value copies of all agents in id order.
func (r *Registry) Agents() []Agent {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Agent, 0, len(r.ids))
	for _, id := range r.ids {
		out = append(out, r.agents[id].clone())
	}
	return out
}

// Weight returns the current voting weight for an agent.
func (r *Registry) Weight(id string) (float64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.agents[id]
	if !ok {
		return 0, errors.ErrUnknownAgent
	}
	return a.Weight, nil
}

// SetWeight assigns a new voting weight, clamped to the configured minimum.
func (r *Registry) SetWeight(id string, value float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.agents[id]
	if !ok {
		return errors.ErrUnknownAgent
	}
	if value < r.minWeight {
		value = r.minWeight
	}
	a.Weight = value
	return nil
}

// Snapshot returns a value copy of the id to weight mapping. History entries
// are built from snapshots so later mutation cannot corrupt them.
func (r *Registry) Snapshot() map[string]float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]float64, len(r.ids))
	for id, a := range r.agents {
		out[id] = a.Weight
	}
	return out
}

// RecordResult increments the winner's win counter and every other agent's
// loss counter.
func (r *Registry) RecordResult(winnerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.agents[winnerID]; !ok {
		return errors.ErrUnknownAgent
	}
	for id, a := range r.agents {
		if id == winnerID {
			a.Wins++
		} else {
			a.Losses++
		}
	}
	return nil
}

// Restore replaces weights and win/loss counters from a prior value-copy
// snapshot (as returned by Agents). It exists so the learning loop can roll
// back an uncommitted update after a failed persistence write; ids not in
// the registry are ignored.
func (r *Registry) Restore(snapshot []Agent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, prev := range snapshot {
		if a, ok := r.agents[prev.ID]; ok {
			a.Weight = prev.Weight
			a.Wins = prev.Wins
			a.Losses = prev.Losses
		}
	}
}
