package orchestrator

import (
	"context"
	"path/filepath"
	"reflect"
	"sync"
	"testing"

	"github.com/council-ai/council/internal/agent"
	"github.com/council-ai/council/internal/content"
	"github.com/council-ai/council/internal/debate"
	"github.com/council-ai/council/internal/errors"
	"github.com/council-ai/council/internal/event"
	"github.com/council-ai/council/internal/learning"
	"github.com/council-ai/council/internal/trends"
)

var testCampaign = debate.CampaignContext{
	Brand:    "Acme Labs",
	Industry: "Tech",
	Product:  "Acme Notes",
	Audience: "Founders",
}

type fixture struct {
	orch    *Orchestrator
	reg     *agent.Registry
	history *learning.HistoryStore
	bus     *event.Bus
	dir     string
}

func newFixture(t *testing.T, mutate func(*Options)) *fixture {
	t.Helper()
	dir := t.TempDir()

	reg, err := agent.NewRegistry([]agent.Agent{
		{ID: "viral_hunter", Name: "Viral Hunter", Goals: []string{"Maximize reach"}, Weight: 1.0},
		{ID: "brand_guardian", Name: "Brand Guardian", Goals: []string{"Protect reputation"}, Weight: 1.0},
		{ID: "twitter_specialist", Name: "Twitter Specialist", Role: "Twitter strategy", Weight: 1.0},
	}, agent.DefaultMinWeight)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}

	history, err := learning.OpenHistory(filepath.Join(dir, "history.jsonl"))
	if err != nil {
		t.Fatalf("OpenHistory: %v", err)
	}
	loop, err := learning.NewLoop(learning.DefaultParams(), history, filepath.Join(dir, "weights.json"), nil)
	if err != nil {
		t.Fatalf("NewLoop: %v", err)
	}

	gen := &debate.HeuristicGenerator{}
	bus := event.NewBus()
	opts := Options{
		Registry:  reg,
		Proposals: debate.NewProposalStage(gen, 2, nil),
		Critiques: debate.NewCritiqueStage(gen, nil),
		Arbiter:   debate.NewArbitrationStage(debate.DefaultPenalties()),
		Loop:      loop,
		StateDir:  dir,
		Bus:       bus,
	}
	if mutate != nil {
		mutate(&opts)
	}

	orch, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return &fixture{orch: orch, reg: reg, history: history, bus: bus, dir: dir}
}

// eventLog records event types in publish order.
type eventLog struct {
	mu    sync.Mutex
	types []string
}

func (l *eventLog) record(e event.Event) {
	l.mu.Lock()
	l.types = append(l.types, e.EventType())
	l.mu.Unlock()
}

func (l *eventLog) has(eventType string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, et := range l.types {
		if et == eventType {
			return true
		}
	}
	return false
}

func TestRunIterationCompletes(t *testing.T) {
	f := newFixture(t, nil)
	log := &eventLog{}
	f.bus.SubscribeAll(log.record)

	rec, err := f.orch.RunIteration(context.Background(), testCampaign, SimulatedOutcomes{Sim: learning.NewSimulator(42)})
	if err != nil {
		t.Fatalf("RunIteration: %v", err)
	}

	if f.orch.State() != StateIdle {
		t.Errorf("state = %s, want idle", f.orch.State())
	}
	if rec.Iteration != 1 {
		t.Errorf("iteration = %d, want 1", rec.Iteration)
	}
	if len(rec.Proposals) != 6 {
		t.Errorf("got %d proposals, want 6 (3 agents x 2)", len(rec.Proposals))
	}
	// N agents, (N-1) targets each, 2 proposals per target.
	if len(rec.Critiques) != 12 {
		t.Errorf("got %d critiques, want 12", len(rec.Critiques))
	}
	if rec.Decision.WinnerAgentID == "" || rec.Outcome == nil || rec.Weights == nil {
		t.Errorf("record incomplete: %+v", rec)
	}
	if rec.CompletedAt.IsZero() {
		t.Error("CompletedAt not set")
	}
	if HasPending(f.dir) {
		t.Error("pending record not cleared after completion")
	}
	if f.history.Len() != 1 {
		t.Errorf("history has %d entries, want 1", f.history.Len())
	}

	for _, want := range []string{
		"iteration.started", "proposals.collected", "critiques.collected",
		"decision.made", "outcome.recorded", "weights.updated", "iteration.completed",
	} {
		if !log.has(want) {
			t.Errorf("event %q never published", want)
		}
	}
}

func TestRunIterationAdvancesIndex(t *testing.T) {
	f := newFixture(t, nil)
	outcomes := SimulatedOutcomes{Sim: learning.NewSimulator(1)}

	for want := 1; want <= 3; want++ {
		rec, err := f.orch.RunIteration(context.Background(), testCampaign, outcomes)
		if err != nil {
			t.Fatalf("RunIteration %d: %v", want, err)
		}
		if rec.Iteration != want {
			t.Errorf("iteration = %d, want %d", rec.Iteration, want)
		}
	}
	if f.history.Len() != 3 {
		t.Errorf("history has %d entries, want 3", f.history.Len())
	}
}

// cancellingGenerator cancels the run's context when critiquing starts, so
// the iteration reaches the pre-arbitration checkpoint already cancelled.
type cancellingGenerator struct {
	inner  debate.Generator
	cancel context.CancelFunc
	once   sync.Once
}

func (g *cancellingGenerator) Proposals(ctx context.Context, ag agent.Agent, c debate.CampaignContext) ([]debate.Proposal, error) {
	return g.inner.Proposals(ctx, ag, c)
}

func (g *cancellingGenerator) Critique(ctx context.Context, critic agent.Agent, target debate.Proposal, c debate.CampaignContext) (debate.Critique, error) {
	g.once.Do(g.cancel)
	return g.inner.Critique(ctx, critic, target, c)
}

func TestCancellationBeforeArbitrationHasNoSideEffects(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	gen := &cancellingGenerator{inner: &debate.HeuristicGenerator{}, cancel: cancel}
	f := newFixture(t, func(o *Options) {
		o.Proposals = debate.NewProposalStage(gen, 2, nil)
		o.Critiques = debate.NewCritiqueStage(gen, nil)
	})
	before := f.reg.Snapshot()

	_, err := f.orch.RunIteration(ctx, testCampaign, SimulatedOutcomes{Sim: learning.NewSimulator(1)})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}

	if f.orch.State() != StateIdle {
		t.Errorf("state = %s, want idle", f.orch.State())
	}
	if HasPending(f.dir) {
		t.Error("cancelled iteration must not commit a pending record")
	}
	if f.history.Len() != 0 {
		t.Error("cancelled iteration must not touch the history log")
	}
	for id, w := range f.reg.Snapshot() {
		if before[id] != w {
			t.Errorf("weight of %s moved on cancelled iteration", id)
		}
	}
}

type failingOutcomes struct{}

func (failingOutcomes) Outcome(context.Context, *IterationRecord) (learning.EngagementOutcome, error) {
	return learning.EngagementOutcome{}, context.DeadlineExceeded
}

func TestOutcomeFailureLeavesPendingAndResumeFinishes(t *testing.T) {
	f := newFixture(t, nil)
	log := &eventLog{}
	f.bus.SubscribeAll(log.record)

	rec, err := f.orch.RunIteration(context.Background(), testCampaign, failingOutcomes{})
	if err == nil {
		t.Fatal("RunIteration should surface the outcome failure")
	}
	if rec == nil || rec.Decision.WinnerAgentID == "" {
		t.Fatal("partial record with decision expected")
	}
	if !HasPending(f.dir) {
		t.Fatal("pending record should survive an outcome failure")
	}
	if f.orch.State() != StateIdle {
		t.Errorf("state = %s, want idle", f.orch.State())
	}
	if f.history.Len() != 0 {
		t.Error("no learning commit should have happened")
	}

	// A new run is blocked while the iteration is pending.
	if _, err := f.orch.RunIteration(context.Background(), testCampaign, failingOutcomes{}); err == nil {
		t.Error("RunIteration should refuse while a pending record exists")
	}

	resumed, err := f.orch.Resume(context.Background(), FixedOutcome(8))
	if err != nil {
		t.Fatalf("Resume: %v", err)
	}
	if resumed.Iteration != rec.Iteration {
		t.Errorf("resumed iteration %d, want %d", resumed.Iteration, rec.Iteration)
	}
	if resumed.Decision.Winner.ID != rec.Decision.Winner.ID {
		t.Error("resume must not re-run generation")
	}
	if resumed.Outcome == nil || resumed.Outcome.Score != 8 {
		t.Errorf("outcome = %+v, want score 8", resumed.Outcome)
	}
	if HasPending(f.dir) {
		t.Error("pending record not cleared after resume")
	}
	if f.history.Len() != 1 {
		t.Errorf("history has %d entries, want 1", f.history.Len())
	}

	w, _ := f.reg.Weight(resumed.Decision.WinnerAgentID)
	if w != 1.2 {
		t.Errorf("winner weight = %v, want 1.2", w)
	}
}

// A crash between the learning commit and the pending-file cleanup leaves
// a record on disk for an iteration the history already holds. Resume must
// clear it and move on instead of tripping the duplicate guard forever.
func TestResumeClearsAlreadyCommittedPending(t *testing.T) {
	f := newFixture(t, nil)

	rec, err := f.orch.RunIteration(context.Background(), testCampaign, FixedOutcome(8))
	if err != nil {
		t.Fatalf("RunIteration: %v", err)
	}
	weights := f.reg.Snapshot()

	// Put the completed record back, as if the cleanup write never landed.
	if err := commitPending(f.dir, rec); err != nil {
		t.Fatalf("commitPending: %v", err)
	}

	resumed, err := f.orch.Resume(context.Background(), FixedOutcome(8))
	if err != nil {
		t.Fatalf("Resume on a stale record: %v", err)
	}
	if resumed.Iteration != rec.Iteration {
		t.Errorf("resumed iteration %d, want %d", resumed.Iteration, rec.Iteration)
	}
	if HasPending(f.dir) {
		t.Error("stale pending record not cleared")
	}
	if f.history.Len() != 1 {
		t.Errorf("history has %d entries, want 1", f.history.Len())
	}
	if got := f.reg.Snapshot(); !reflect.DeepEqual(got, weights) {
		t.Errorf("weights changed by stale resume: %v != %v", got, weights)
	}

	// The orchestrator is unwedged: a fresh iteration runs normally.
	next, err := f.orch.RunIteration(context.Background(), testCampaign, FixedOutcome(5))
	if err != nil {
		t.Fatalf("RunIteration after stale resume: %v", err)
	}
	if next.Iteration != rec.Iteration+1 {
		t.Errorf("next iteration = %d, want %d", next.Iteration, rec.Iteration+1)
	}
}

func TestResumeWithoutPending(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.orch.Resume(context.Background(), FixedOutcome(8))
	if !errors.Is(err, errors.ErrNoPendingIteration) {
		t.Errorf("error = %v, want ErrNoPendingIteration", err)
	}
}

func TestRunIterationWithComposerAndTrends(t *testing.T) {
	f := newFixture(t, func(o *Options) {
		o.Composer = content.NewComposer(nil, nil)
		o.Trends = trends.NewStatic(3)
		o.TrendLimit = 3
	})

	rec, err := f.orch.RunIteration(context.Background(), testCampaign, FixedOutcome(6))
	if err != nil {
		t.Fatalf("RunIteration: %v", err)
	}
	if rec.Post == nil || rec.Post.Caption == "" {
		t.Error("composer wired but no post rendered")
	}
	if len(rec.Campaign.Trends) != 3 {
		t.Errorf("got %d trends in campaign, want 3", len(rec.Campaign.Trends))
	}
}

func TestFixedOutcomeValidates(t *testing.T) {
	rec := &IterationRecord{Decision: debate.Decision{Winner: debate.Proposal{Platform: debate.PlatformTwitter}}}
	if _, err := FixedOutcome(11).Outcome(context.Background(), rec); err == nil {
		t.Error("out-of-range fixed outcome should fail validation")
	}
	out, err := FixedOutcome(7).Outcome(context.Background(), rec)
	if err != nil || out.Platform != "twitter" {
		t.Errorf("outcome = %+v, err = %v", out, err)
	}
}

func TestNewValidatesWiring(t *testing.T) {
	if _, err := New(Options{}); !errors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("New with empty options = %v, want ErrInvalidInput", err)
	}
}
