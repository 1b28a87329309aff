package debate

import (
	"context"
	"sync"

	"github.com/council-ai/council/internal/agent"
	"github.com/council-ai/council/internal/errors"
	"github.com/council-ai/council/internal/logging"
)

// CritiqueStage has every agent review every proposal it does not own and
// emit exactly one structured objection per reviewed proposal. For N agents
// each producing k proposals the stage yields N*(N*k-k) critiques.
type CritiqueStage struct {
	gen Generator
	log *logging.Logger
}

// NewCritiqueStage creates a CritiqueStage.
func NewCritiqueStage(gen Generator, log *logging.Logger) *CritiqueStage {
	if log == nil {
		log = logging.NopLogger()
	}
	return &CritiqueStage{gen: gen, log: log}
}

// Critique generates all (critic, non-own proposal) pairs. Pair generation
// runs concurrently; each goroutine writes only its own output slot. The
// result is ordered by critic position, then proposal position, so output
// is deterministic.
//
// A failed pair generation degrades to a critique with the category
// preserved and empty detail; the stage itself never fails.
func (s *CritiqueStage) Critique(ctx context.Context, agents []agent.Agent, proposals []Proposal, campaign CampaignContext) []Critique {
	log := s.log.WithStage("critiquing")

	type pair struct {
		critic agent.Agent
		target Proposal
	}
	var pairs []pair
	for _, critic := range agents {
		for _, p := range proposals {
			if p.AgentID == critic.ID {
				continue
			}
			pairs = append(pairs, pair{critic: critic, target: p})
		}
	}

	out := make([]Critique, len(pairs))
	var wg sync.WaitGroup
	for i, pr := range pairs {
		wg.Add(1)
		go func(i int, pr pair) {
			defer wg.Done()
			out[i] = s.critiqueOne(ctx, pr.critic, pr.target, campaign)
		}(i, pr)
	}
	wg.Wait()

	log.Info("critiques collected", "count", len(out))
	return out
}

// critiqueOne performs a single pair generation. On failure the critique is
// degraded, not dropped: the category the critic would have raised is kept
// and the detail text is left empty.
func (s *CritiqueStage) critiqueOne(ctx context.Context, critic agent.Agent, target Proposal, campaign CampaignContext) Critique {
	c, err := s.gen.Critique(ctx, critic, target, campaign)
	if err != nil || !c.Category.valid() {
		if err != nil {
			gerr := errors.NewGenerationError(critic.ID, "critique", err)
			s.log.WithStage("critiquing").WithAgent(critic.ID).
				Warn("generation failed, degrading to empty detail", "proposal", target.ID, "error", gerr.Error())
		}
		c = Critique{Category: CategorizeConcern(critic, target)}
	}

	c.AgentID = critic.ID
	c.ProposalID = target.ID
	c.TargetAgentID = target.AgentID
	return c
}
