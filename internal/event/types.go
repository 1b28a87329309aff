package event

import "time"

// Event is the interface that all events must implement.
type Event interface {
	// EventType returns a string identifier for this event type.
	// Convention: "category.action" (e.g., "iteration.started", "decision.made")
	EventType() string

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// baseEvent provides common fields for all events.
// Embed this in concrete event types to satisfy the Event interface.
type baseEvent struct {
	eventType string
	timestamp time.Time
}

func (e baseEvent) EventType() string    { return e.eventType }
func (e baseEvent) Timestamp() time.Time { return e.timestamp }

func newBaseEvent(eventType string) baseEvent {
	return baseEvent{
		eventType: eventType,
		timestamp: time.Now(),
	}
}

// -----------------------------------------------------------------------------
// Iteration Lifecycle Events
// -----------------------------------------------------------------------------

// IterationStartedEvent is emitted when an iteration enters the proposing state.
type IterationStartedEvent struct {
	baseEvent
	Iteration int    // Iteration index
	Brand     string // Campaign brand name
}

// NewIterationStartedEvent creates an IterationStartedEvent.
func NewIterationStartedEvent(iteration int, brand string) IterationStartedEvent {
	return IterationStartedEvent{
		baseEvent: newBaseEvent("iteration.started"),
		Iteration: iteration,
		Brand:     brand,
	}
}

// ProposalsCollectedEvent is emitted when all proposals for an iteration are in.
type ProposalsCollectedEvent struct {
	baseEvent
	Iteration int
	Count     int // Total proposals collected, fallbacks included
	Fallbacks int // Proposals substituted after a generation failure
}

// NewProposalsCollectedEvent creates a ProposalsCollectedEvent.
func NewProposalsCollectedEvent(iteration, count, fallbacks int) ProposalsCollectedEvent {
	return ProposalsCollectedEvent{
		baseEvent: newBaseEvent("proposals.collected"),
		Iteration: iteration,
		Count:     count,
		Fallbacks: fallbacks,
	}
}

// CritiquesCollectedEvent is emitted when the critique stage completes.
type CritiquesCollectedEvent struct {
	baseEvent
	Iteration int
	Count     int
}

// NewCritiquesCollectedEvent creates a CritiquesCollectedEvent.
func NewCritiquesCollectedEvent(iteration, count int) CritiquesCollectedEvent {
	return CritiquesCollectedEvent{
		baseEvent: newBaseEvent("critiques.collected"),
		Iteration: iteration,
		Count:     count,
	}
}

// DecisionMadeEvent is emitted when arbitration ranks the proposals.
type DecisionMadeEvent struct {
	baseEvent
	Iteration  int
	WinnerID   string  // Agent that owns the chosen proposal
	ProposalID string  // Chosen proposal
	Score      float64 // Winning adjusted score
}

// NewDecisionMadeEvent creates a DecisionMadeEvent.
func NewDecisionMadeEvent(iteration int, winnerID, proposalID string, score float64) DecisionMadeEvent {
	return DecisionMadeEvent{
		baseEvent:  newBaseEvent("decision.made"),
		Iteration:  iteration,
		WinnerID:   winnerID,
		ProposalID: proposalID,
		Score:      score,
	}
}

// OutcomeRecordedEvent is emitted when an engagement outcome arrives for a
// decided iteration.
type OutcomeRecordedEvent struct {
	baseEvent
	Iteration int
	Score     float64 // Overall engagement score in [0,10]
}

// NewOutcomeRecordedEvent creates an OutcomeRecordedEvent.
func NewOutcomeRecordedEvent(iteration int, score float64) OutcomeRecordedEvent {
	return OutcomeRecordedEvent{
		baseEvent: newBaseEvent("outcome.recorded"),
		Iteration: iteration,
		Score:     score,
	}
}

// WeightsUpdatedEvent is emitted after the learning loop commits new weights.
type WeightsUpdatedEvent struct {
	baseEvent
	Iteration int
	WinnerID  string
	Weights   map[string]float64 // Post-update snapshot, value copy
}

// NewWeightsUpdatedEvent creates a WeightsUpdatedEvent. The weights map is
// copied so later registry mutation cannot alter the event.
func NewWeightsUpdatedEvent(iteration int, winnerID string, weights map[string]float64) WeightsUpdatedEvent {
	snapshot := make(map[string]float64, len(weights))
	for id, w := range weights {
		snapshot[id] = w
	}
	return WeightsUpdatedEvent{
		baseEvent: newBaseEvent("weights.updated"),
		Iteration: iteration,
		WinnerID:  winnerID,
		Weights:   snapshot,
	}
}

// IterationCompletedEvent is emitted when an iteration returns to idle.
type IterationCompletedEvent struct {
	baseEvent
	Iteration int
	WinnerID  string
	Resumed   bool // True if the iteration was completed via crash recovery
}

// NewIterationCompletedEvent creates an IterationCompletedEvent.
func NewIterationCompletedEvent(iteration int, winnerID string, resumed bool) IterationCompletedEvent {
	return IterationCompletedEvent{
		baseEvent: newBaseEvent("iteration.completed"),
		Iteration: iteration,
		WinnerID:  winnerID,
		Resumed:   resumed,
	}
}

// GenerationFallbackEvent is emitted when a single generation attempt fails
// and a fallback is substituted. Diagnostics only; the iteration proceeds.
type GenerationFallbackEvent struct {
	baseEvent
	Iteration int
	AgentID   string
	Kind      string // "proposal" or "critique"
	Reason    string
}

// NewGenerationFallbackEvent creates a GenerationFallbackEvent.
func NewGenerationFallbackEvent(iteration int, agentID, kind, reason string) GenerationFallbackEvent {
	return GenerationFallbackEvent{
		baseEvent: newBaseEvent("generation.fallback"),
		Iteration: iteration,
		AgentID:   agentID,
		Kind:      kind,
		Reason:    reason,
	}
}
