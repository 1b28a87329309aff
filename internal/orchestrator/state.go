package orchestrator

// State is the orchestrator's position in the iteration lifecycle.
type State string

const (
	StateIdle            State = "idle"
	StateProposing       State = "proposing"
	StateCritiquing      State = "critiquing"
	StateArbitrating     State = "arbitrating"
	StateAwaitingOutcome State = "awaiting-outcome"
	StateLearning        State = "learning"
)

// transitions encodes the legal lifecycle edges. Every non-idle state may
// also abort back to idle.
var transitions = map[State][]State{
	StateIdle:            {StateProposing, StateAwaitingOutcome},
	StateProposing:       {StateCritiquing},
	StateCritiquing:      {StateArbitrating},
	StateArbitrating:     {StateAwaitingOutcome},
	StateAwaitingOutcome: {StateLearning},
	StateLearning:        {StateIdle},
}

// canTransition reports whether from -> to is a legal move.
func canTransition(from, to State) bool {
	if to == StateIdle {
		return true
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
