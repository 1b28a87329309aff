package learning

import (
	"fmt"
	"time"

	"github.com/council-ai/council/internal/agent"
	"github.com/council-ai/council/internal/errors"
	"github.com/council-ai/council/internal/logging"
)

// Default learning parameters. Winners gain more than losers pay so the
// roster's total influence trends upward with success rather than decaying.
const (
	DefaultSuccessThreshold = 7.0
	DefaultWinnerDelta      = 0.2
	DefaultLoserDelta       = 0.1
	DefaultLearningRate     = 1.0
)

// Params control how far weights move per iteration. They are plain knobs,
// not a schedule: nothing here decays over time.
type Params struct {
	// SuccessThreshold is the minimum outcome score for the winner to be
	// rewarded. Below it the winner's weight is left untouched.
	SuccessThreshold float64

	// WinnerDelta is added to a successful winner's weight, scaled by
	// LearningRate.
	WinnerDelta float64

	// LoserDelta is subtracted from every non-winning agent's weight,
	// scaled by LearningRate, regardless of the outcome score.
	LoserDelta float64

	// LearningRate scales both deltas. Zero freezes all weights.
	LearningRate float64
}

// DefaultParams returns the standard update rule.
func DefaultParams() Params {
	return Params{
		SuccessThreshold: DefaultSuccessThreshold,
		WinnerDelta:      DefaultWinnerDelta,
		LoserDelta:       DefaultLoserDelta,
		LearningRate:     DefaultLearningRate,
	}
}

// Validate rejects parameter sets that would move weights in the wrong
// direction.
func (p Params) Validate() error {
	if p.WinnerDelta < 0 {
		return fmt.Errorf("%w: winner delta %v is negative", errors.ErrInvalidInput, p.WinnerDelta)
	}
	if p.LoserDelta < 0 {
		return fmt.Errorf("%w: loser delta %v is negative", errors.ErrInvalidInput, p.LoserDelta)
	}
	if p.LearningRate < 0 {
		return fmt.Errorf("%w: learning rate %v is negative", errors.ErrInvalidInput, p.LearningRate)
	}
	return nil
}

// Loop applies outcome feedback to a registry and records each applied
// update in the history log. One Loop serves one state directory.
type Loop struct {
	params      Params
	history     *HistoryStore
	weightsPath string
	log         *logging.Logger
	now         func() time.Time
}

// NewLoop wires a Loop to its history log and weight file.
func NewLoop(params Params, history *HistoryStore, weightsPath string, log *logging.Logger) (*Loop, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if history == nil {
		return nil, fmt.Errorf("%w: nil history store", errors.ErrInvalidInput)
	}
	if log == nil {
		log = logging.NopLogger()
	}
	return &Loop{
		params:      params,
		history:     history,
		weightsPath: weightsPath,
		log:         log,
		now:         time.Now,
	}, nil
}

// NextIteration returns the index the next update must carry.
func (l *Loop) NextIteration() int {
	return l.history.LastIteration() + 1
}

// Update applies the outcome of one iteration: the winner gains weight when
// the outcome clears the success threshold, every other agent loses a
// little, and the win/loss tallies move. The history entry is the commit
// point; if the weight file cannot be written afterwards, the entry is
// truncated back out and the in-memory registry is restored, so state on
// disk and in memory both read as "iteration not yet recorded" and the
// caller can retry.
func (l *Loop) Update(reg *agent.Registry, iteration int, winnerID string, outcome EngagementOutcome) error {
	if err := outcome.Validate(); err != nil {
		return err
	}
	if iteration <= l.history.LastIteration() {
		return fmt.Errorf("iteration %d already recorded: %w", iteration, errors.ErrDuplicateIteration)
	}
	if _, err := reg.Get(winnerID); err != nil {
		return err
	}

	prior := reg.Agents()

	rewarded := outcome.Score > l.params.SuccessThreshold
	if rewarded {
		w, _ := reg.Weight(winnerID)
		if err := reg.SetWeight(winnerID, w+l.params.WinnerDelta*l.params.LearningRate); err != nil {
			reg.Restore(prior)
			return err
		}
	}
	for _, id := range reg.IDs() {
		if id == winnerID {
			continue
		}
		w, _ := reg.Weight(id)
		if err := reg.SetWeight(id, w-l.params.LoserDelta*l.params.LearningRate); err != nil {
			reg.Restore(prior)
			return err
		}
	}
	if err := reg.RecordResult(winnerID); err != nil {
		reg.Restore(prior)
		return err
	}

	entry := HistoryEntry{
		Iteration:    iteration,
		Timestamp:    l.now().UTC(),
		Weights:      reg.Snapshot(),
		WinnerID:     winnerID,
		OutcomeScore: outcome.Score,
	}
	prevIteration := l.history.LastIteration()
	if err := l.history.Append(entry); err != nil {
		reg.Restore(prior)
		return err
	}

	if err := reg.Persist(l.weightsPath); err != nil {
		length, lenErr := entryLen(entry)
		if lenErr == nil {
			if rbErr := l.history.rollbackLast(prevIteration, length); rbErr != nil {
				l.log.Error("history rollback failed", "error", rbErr)
			}
		}
		reg.Restore(prior)
		return err
	}

	l.log.WithIteration(iteration).Info("weights updated",
		"winner", winnerID,
		"outcome_score", outcome.Score,
		"rewarded", rewarded)
	return nil
}
