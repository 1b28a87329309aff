package orchestrator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/council-ai/council/internal/agent"
	"github.com/council-ai/council/internal/content"
	"github.com/council-ai/council/internal/debate"
	"github.com/council-ai/council/internal/errors"
	"github.com/council-ai/council/internal/event"
	"github.com/council-ai/council/internal/learning"
	"github.com/council-ai/council/internal/logging"
	"github.com/council-ai/council/internal/trends"
)

// OutcomeProvider supplies the engagement outcome for a decided iteration.
// Implementations range from a seeded simulator to a human typing a score;
// the orchestrator treats them all the same.
type OutcomeProvider interface {
	Outcome(ctx context.Context, rec *IterationRecord) (learning.EngagementOutcome, error)
}

// SimulatedOutcomes adapts the engagement simulator to OutcomeProvider.
type SimulatedOutcomes struct {
	Sim *learning.Simulator
}

// Outcome rolls a simulated engagement result for the winning platform.
func (s SimulatedOutcomes) Outcome(_ context.Context, rec *IterationRecord) (learning.EngagementOutcome, error) {
	return s.Sim.Simulate(string(rec.Decision.Winner.Platform)), nil
}

// FixedOutcome is an OutcomeProvider returning one supplied score.
type FixedOutcome float64

// Outcome returns the fixed score.
func (f FixedOutcome) Outcome(_ context.Context, rec *IterationRecord) (learning.EngagementOutcome, error) {
	out := learning.EngagementOutcome{
		Score:    float64(f),
		Platform: string(rec.Decision.Winner.Platform),
	}
	return out, out.Validate()
}

// Options wires an Orchestrator. Registry, the three debate stages, Loop,
// and StateDir are required; the rest default to inert implementations.
type Options struct {
	Registry  *agent.Registry
	Proposals *debate.ProposalStage
	Critiques *debate.CritiqueStage
	Arbiter   *debate.ArbitrationStage
	Loop      *learning.Loop

	// StateDir holds the pending-record file.
	StateDir string

	// Trends is optional; a fetch failure degrades to trend-free proposals.
	Trends     trends.Provider
	TrendLimit int

	// Composer is optional; without it no post is rendered.
	Composer *content.Composer

	Bus *event.Bus
	Log *logging.Logger
}

// Orchestrator runs debate iterations. Safe for concurrent observation via
// State; RunIteration and Resume are serialized by the lifecycle itself.
type Orchestrator struct {
	mu    sync.Mutex
	state State

	reg       *agent.Registry
	proposals *debate.ProposalStage
	critiques *debate.CritiqueStage
	arbiter   *debate.ArbitrationStage
	loop      *learning.Loop

	stateDir   string
	trends     trends.Provider
	trendLimit int
	composer   *content.Composer

	bus *event.Bus
	log *logging.Logger
}

// New validates the wiring and returns an idle Orchestrator.
func New(opts Options) (*Orchestrator, error) {
	switch {
	case opts.Registry == nil:
		return nil, fmt.Errorf("%w: nil registry", errors.ErrInvalidInput)
	case opts.Proposals == nil || opts.Critiques == nil || opts.Arbiter == nil:
		return nil, fmt.Errorf("%w: all debate stages are required", errors.ErrInvalidInput)
	case opts.Loop == nil:
		return nil, fmt.Errorf("%w: nil learning loop", errors.ErrInvalidInput)
	case opts.StateDir == "":
		return nil, fmt.Errorf("%w: empty state dir", errors.ErrInvalidInput)
	}
	if opts.Log == nil {
		opts.Log = logging.NopLogger()
	}
	if opts.Bus == nil {
		opts.Bus = event.NewBus()
	}
	if opts.TrendLimit <= 0 {
		opts.TrendLimit = 5
	}
	return &Orchestrator{
		state:      StateIdle,
		reg:        opts.Registry,
		proposals:  opts.Proposals,
		critiques:  opts.Critiques,
		arbiter:    opts.Arbiter,
		loop:       opts.Loop,
		stateDir:   opts.StateDir,
		trends:     opts.Trends,
		trendLimit: opts.TrendLimit,
		composer:   opts.Composer,
		bus:        opts.Bus,
		log:        opts.Log,
	}, nil
}

// State returns the current lifecycle state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

func (o *Orchestrator) setState(to State) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !canTransition(o.state, to) {
		return fmt.Errorf("%w: illegal transition %s -> %s", errors.ErrInvalidInput, o.state, to)
	}
	o.state = to
	return nil
}

// abort drops back to idle from any state.
func (o *Orchestrator) abort() {
	o.mu.Lock()
	o.state = StateIdle
	o.mu.Unlock()
}

// RunIteration executes one full iteration and returns its record. The
// registry is read for weights at arbitration time and mutated only by the
// learning update at the end. Cancelling ctx before arbitration aborts with
// no side effects; after the decision commits, the pending record survives
// a failure and Resume can finish the iteration.
func (o *Orchestrator) RunIteration(ctx context.Context, campaign debate.CampaignContext, outcomes OutcomeProvider) (*IterationRecord, error) {
	if outcomes == nil {
		return nil, fmt.Errorf("%w: nil outcome provider", errors.ErrInvalidInput)
	}
	if o.State() != StateIdle {
		return nil, fmt.Errorf("%w: orchestrator is %s, not idle", errors.ErrInvalidInput, o.State())
	}
	if HasPending(o.stateDir) {
		return nil, fmt.Errorf("%w: unfinished iteration pending, resume it first", errors.ErrInvalidInput)
	}

	iteration := o.loop.NextIteration()
	log := o.log.WithIteration(iteration)

	if err := o.setState(StateProposing); err != nil {
		return nil, err
	}
	o.bus.Publish(event.NewIterationStartedEvent(iteration, campaign.Brand))
	log.Info("iteration started", "brand", campaign.Brand)

	campaign.Trends = o.collectTrends(ctx, log, campaign.Trends)

	proposals, fallbacks := o.proposals.Propose(ctx, o.reg.Agents(), campaign)
	o.bus.Publish(event.NewProposalsCollectedEvent(iteration, len(proposals), fallbacks))
	for _, p := range proposals {
		if p.Fallback {
			o.bus.Publish(event.NewGenerationFallbackEvent(iteration, p.AgentID, "proposal", "generation failed"))
		}
	}

	if err := o.setState(StateCritiquing); err != nil {
		o.abort()
		return nil, err
	}
	critiques := o.critiques.Critique(ctx, o.reg.Agents(), proposals, campaign)
	o.bus.Publish(event.NewCritiquesCollectedEvent(iteration, len(critiques)))

	// Last moment an abort is free of side effects.
	if err := ctx.Err(); err != nil {
		o.abort()
		log.Warn("iteration cancelled before arbitration")
		return nil, err
	}

	if err := o.setState(StateArbitrating); err != nil {
		o.abort()
		return nil, err
	}
	decision, err := o.arbiter.Decide(proposals, critiques, o.reg.Snapshot())
	if err != nil {
		o.abort()
		return nil, err
	}
	o.bus.Publish(event.NewDecisionMadeEvent(iteration, decision.WinnerAgentID, decision.Winner.ID, winningScore(decision)))
	log.WithAgent(decision.WinnerAgentID).Info("decision made",
		"proposal", decision.Winner.ID,
		"confidence", decision.Confidence)

	rec := &IterationRecord{
		Iteration: iteration,
		StartedAt: time.Now().UTC(),
		Campaign:  campaign,
		Proposals: proposals,
		Fallbacks: fallbacks,
		Critiques: critiques,
		Decision:  decision,
	}
	if o.composer != nil {
		post := o.composer.Compose(ctx, decision, campaign)
		rec.Post = &post
	}

	if err := o.setState(StateAwaitingOutcome); err != nil {
		o.abort()
		return nil, err
	}
	if err := commitPending(o.stateDir, rec); err != nil {
		o.abort()
		return nil, err
	}

	if err := o.finish(ctx, rec, outcomes, false); err != nil {
		return rec, err
	}
	return rec, nil
}

// Resume completes the pending iteration left behind by a crash or an
// interrupted run. Generation never re-runs; only outcome collection and
// learning happen.
func (o *Orchestrator) Resume(ctx context.Context, outcomes OutcomeProvider) (*IterationRecord, error) {
	if outcomes == nil {
		return nil, fmt.Errorf("%w: nil outcome provider", errors.ErrInvalidInput)
	}
	if o.State() != StateIdle {
		return nil, fmt.Errorf("%w: orchestrator is %s, not idle", errors.ErrInvalidInput, o.State())
	}

	rec, err := loadPending(o.stateDir)
	if err != nil {
		return nil, err
	}
	// A pending record whose iteration the history already holds means the
	// learning commit landed but the cleanup write did not. Only the
	// cleanup is owed; re-running learning would hit the duplicate guard.
	if rec.Iteration < o.loop.NextIteration() {
		if err := clearPending(o.stateDir); err != nil {
			return nil, err
		}
		o.log.WithIteration(rec.Iteration).Info("pending iteration was already committed, cleared stale record")
		return rec, nil
	}
	if err := o.setState(StateAwaitingOutcome); err != nil {
		return nil, err
	}
	o.log.WithIteration(rec.Iteration).Info("resuming pending iteration",
		"winner", rec.Decision.WinnerAgentID)

	if err := o.finish(ctx, rec, outcomes, true); err != nil {
		return rec, err
	}
	return rec, nil
}

// finish runs the shared outcome + learning tail. On failure the pending
// record stays on disk and the orchestrator returns to idle so the caller
// can retry via Resume.
func (o *Orchestrator) finish(ctx context.Context, rec *IterationRecord, outcomes OutcomeProvider, resumed bool) error {
	log := o.log.WithIteration(rec.Iteration)

	outcome, err := outcomes.Outcome(ctx, rec)
	if err != nil {
		o.abort()
		log.Warn("outcome collection failed, iteration stays pending", "error", err.Error())
		return err
	}
	o.bus.Publish(event.NewOutcomeRecordedEvent(rec.Iteration, outcome.Score))

	if err := o.setState(StateLearning); err != nil {
		o.abort()
		return err
	}
	if err := o.loop.Update(o.reg, rec.Iteration, rec.Decision.WinnerAgentID, outcome); err != nil {
		o.abort()
		log.Error("learning update failed, iteration stays pending", "error", err.Error())
		return err
	}
	o.bus.Publish(event.NewWeightsUpdatedEvent(rec.Iteration, rec.Decision.WinnerAgentID, o.reg.Snapshot()))

	rec.Outcome = &outcome
	rec.Weights = o.reg.Snapshot()
	rec.CompletedAt = time.Now().UTC()

	if err := clearPending(o.stateDir); err != nil {
		// The learning commit already happened; a stale pending file is
		// caught by the duplicate-iteration guard on the next resume.
		log.Warn("could not clear pending record", "error", err.Error())
	}

	o.abort()
	o.bus.Publish(event.NewIterationCompletedEvent(rec.Iteration, rec.Decision.WinnerAgentID, resumed))
	log.Info("iteration completed", "winner", rec.Decision.WinnerAgentID, "outcome", outcome.Score)
	return nil
}

func (o *Orchestrator) collectTrends(ctx context.Context, log *logging.Logger, existing []string) []string {
	if o.trends == nil {
		return existing
	}
	fetched, err := o.trends.Fetch(ctx, o.trendLimit)
	if err != nil {
		log.Warn("trend fetch failed, proposing without trends", "error", err.Error())
		return existing
	}
	merged := append(existing, trends.Format(fetched)...)
	if len(merged) > o.trendLimit {
		merged = merged[:o.trendLimit]
	}
	return merged
}

func winningScore(d debate.Decision) float64 {
	if len(d.Ranking) > 0 {
		return d.Ranking[0].Adjusted
	}
	return 0
}
