package internal

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/council-ai/council/internal/debate"
	"github.com/council-ai/council/internal/event"
	"github.com/council-ai/council/internal/orchestrator"
	"github.com/council-ai/council/internal/testutil"
)

// TestEventBusIntegration verifies that typed subscriptions only see
// their own event type while wildcard subscriptions see everything.
func TestEventBusIntegration(t *testing.T) {
	bus := event.NewBus()

	var mu sync.Mutex
	var decisions []string
	var all []string

	bus.Subscribe("decision.made", func(e event.Event) {
		mu.Lock()
		defer mu.Unlock()
		decisions = append(decisions, e.EventType())
	})
	id := bus.SubscribeAll(func(e event.Event) {
		mu.Lock()
		defer mu.Unlock()
		all = append(all, e.EventType())
	})

	bus.Publish(event.NewIterationStartedEvent(1, "Acme Labs"))
	bus.Publish(event.NewDecisionMadeEvent(1, "viral_hunter", "viral_hunter-p1", 6.5))
	bus.Publish(event.NewIterationCompletedEvent(1, "viral_hunter", false))

	mu.Lock()
	defer mu.Unlock()
	if len(decisions) != 1 || decisions[0] != "decision.made" {
		t.Errorf("typed subscription saw %v, want exactly one decision.made", decisions)
	}
	if len(all) != 3 {
		t.Errorf("wildcard subscription saw %d events, want 3", len(all))
	}

	if !bus.Unsubscribe(id) {
		t.Error("Unsubscribe returned false for a live subscription")
	}
	bus.Publish(event.NewIterationStartedEvent(2, "Acme Labs"))
	if len(all) != 3 {
		t.Errorf("unsubscribed handler still received events: %d", len(all))
	}
}

func TestEventBusConcurrentPublish(t *testing.T) {
	bus := event.NewBus()

	var mu sync.Mutex
	count := 0
	bus.SubscribeAll(func(event.Event) {
		mu.Lock()
		defer mu.Unlock()
		count++
	})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				bus.Publish(event.NewIterationStartedEvent(n, "Acme Labs"))
			}
		}(i)
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	if count != 200 {
		t.Errorf("received %d events, want 200", count)
	}
}

// TestPipelineIntegration runs one full iteration through the real
// registry, debate stages, learning loop, and event bus.
func TestPipelineIntegration(t *testing.T) {
	dir, weightsPath, historyPath := testutil.StateDir(t)
	reg := testutil.NewRegistry(t)
	loop, history := testutil.NewLoop(t, dir)

	gen := &debate.HeuristicGenerator{}
	bus := event.NewBus()

	var mu sync.Mutex
	var seen []string
	bus.SubscribeAll(func(e event.Event) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, e.EventType())
	})

	orch, err := orchestrator.New(orchestrator.Options{
		Registry:  reg,
		Proposals: debate.NewProposalStage(gen, 2, nil),
		Critiques: debate.NewCritiqueStage(gen, nil),
		Arbiter:   debate.NewArbitrationStage(debate.DefaultPenalties()),
		Loop:      loop,
		StateDir:  dir,
		Bus:       bus,
	})
	if err != nil {
		t.Fatalf("orchestrator.New: %v", err)
	}

	rec, err := orch.RunIteration(context.Background(), testutil.Campaign(), orchestrator.FixedOutcome(8))
	if err != nil {
		t.Fatalf("RunIteration: %v", err)
	}

	if rec.Decision.WinnerAgentID == "" {
		t.Error("decision has no winner")
	}
	if got := reg.Len() * 2; len(rec.Proposals) != got {
		t.Errorf("proposals = %d, want %d", len(rec.Proposals), got)
	}
	if history.Len() != 1 {
		t.Errorf("history length = %d, want 1", history.Len())
	}
	if _, err := os.Stat(weightsPath); err != nil {
		t.Errorf("weights file not persisted: %v", err)
	}
	if _, err := os.Stat(historyPath); err != nil {
		t.Errorf("history file not persisted: %v", err)
	}

	w, err := reg.Weight(rec.Decision.WinnerAgentID)
	if err != nil {
		t.Fatalf("Weight: %v", err)
	}
	if w <= 1.0 {
		t.Errorf("winner weight = %v, want > 1.0 after a successful outcome", w)
	}

	mu.Lock()
	defer mu.Unlock()
	for _, want := range []string{"iteration.started", "proposals.collected", "critiques.collected", "decision.made", "outcome.recorded", "weights.updated", "iteration.completed"} {
		found := false
		for _, got := range seen {
			if got == want {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("missing %s event, saw %v", want, seen)
		}
	}
}

// TestPipelineAcrossIterations verifies that consecutive runs advance
// the iteration index and accumulate history.
func TestPipelineAcrossIterations(t *testing.T) {
	dir, _, _ := testutil.StateDir(t)
	reg := testutil.NewRegistry(t)
	loop, history := testutil.NewLoop(t, dir)

	gen := &debate.HeuristicGenerator{}
	orch, err := orchestrator.New(orchestrator.Options{
		Registry:  reg,
		Proposals: debate.NewProposalStage(gen, 1, nil),
		Critiques: debate.NewCritiqueStage(gen, nil),
		Arbiter:   debate.NewArbitrationStage(debate.DefaultPenalties()),
		Loop:      loop,
		StateDir:  dir,
	})
	if err != nil {
		t.Fatalf("orchestrator.New: %v", err)
	}

	for i := 1; i <= 3; i++ {
		rec, err := orch.RunIteration(context.Background(), testutil.Campaign(), orchestrator.FixedOutcome(5))
		if err != nil {
			t.Fatalf("iteration %d: %v", i, err)
		}
		if rec.Iteration != i {
			t.Errorf("iteration index = %d, want %d", rec.Iteration, i)
		}
	}
	if history.Len() != 3 {
		t.Errorf("history length = %d, want 3", history.Len())
	}
	if orch.State() != orchestrator.StateIdle {
		t.Errorf("state = %s, want idle", orch.State())
	}
}
