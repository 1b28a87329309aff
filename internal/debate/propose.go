package debate

import (
	"context"
	"fmt"
	"sync"

	"github.com/council-ai/council/internal/agent"
	"github.com/council-ai/council/internal/errors"
	"github.com/council-ai/council/internal/logging"
)

// DefaultProposalsPerAgent bounds how many ideas one agent may put forward
// in a single iteration.
const DefaultProposalsPerAgent = 2

// FallbackProposal returns the deterministic substitute used when an agent's
// generation attempt fails: generic platform, generic approach, score 5.
func FallbackProposal(agentID string, campaign CampaignContext) Proposal {
	return Proposal{
		AgentID:   agentID,
		Platform:  PlatformTwitter,
		Approach:  fmt.Sprintf("Straightforward announcement of %s for %s", campaign.Product, campaign.Brand),
		Reasoning: "Safe default pitch submitted in place of a generated idea.",
		SelfScore: 5,
		Fallback:  true,
	}
}

// ProposalStage collects one generation attempt per agent and validates the
// results. A per-agent failure substitutes a fallback proposal rather than
// aborting the stage, so a debate always proceeds.
type ProposalStage struct {
	gen      Generator
	perAgent int
	log      *logging.Logger
}

// NewProposalStage creates a ProposalStage. perAgent values below 1 fall
// back to DefaultProposalsPerAgent.
func NewProposalStage(gen Generator, perAgent int, log *logging.Logger) *ProposalStage {
	if perAgent < 1 {
		perAgent = DefaultProposalsPerAgent
	}
	if log == nil {
		log = logging.NopLogger()
	}
	return &ProposalStage{gen: gen, perAgent: perAgent, log: log}
}

// Propose runs one generation call per agent, concurrently. Each goroutine
// writes only its own output slot; results are assembled in sorted agent id
// order so output is deterministic given deterministic generation.
//
// The returned count is how many agents fell back after a failed or invalid
// generation attempt.
func (s *ProposalStage) Propose(ctx context.Context, agents []agent.Agent, campaign CampaignContext) ([]Proposal, int) {
	log := s.log.WithStage("proposing")

	slots := make([][]Proposal, len(agents))
	fell := make([]bool, len(agents))

	var wg sync.WaitGroup
	for i, ag := range agents {
		wg.Add(1)
		go func(i int, ag agent.Agent) {
			defer wg.Done()
			slots[i], fell[i] = s.proposeOne(ctx, ag, campaign)
		}(i, ag)
	}
	wg.Wait()

	var out []Proposal
	fallbacks := 0
	for i := range agents {
		out = append(out, slots[i]...)
		if fell[i] {
			fallbacks++
		}
	}
	// Assign stable ids after assembly so numbering follows final order.
	counts := make(map[string]int, len(agents))
	for i := range out {
		counts[out[i].AgentID]++
		out[i].ID = fmt.Sprintf("%s-%d", out[i].AgentID, counts[out[i].AgentID])
	}

	log.Info("proposals collected", "count", len(out), "fallbacks", fallbacks)
	return out, fallbacks
}

// proposeOne performs a single agent's generation attempt and validates the
// result. Any failure degrades to the fallback proposal.
func (s *ProposalStage) proposeOne(ctx context.Context, ag agent.Agent, campaign CampaignContext) ([]Proposal, bool) {
	log := s.log.WithStage("proposing").WithAgent(ag.ID)

	proposals, err := s.gen.Proposals(ctx, ag, campaign)
	if err == nil {
		err = validateProposals(proposals)
	}
	if err != nil {
		gerr := errors.NewGenerationError(ag.ID, "proposal", err)
		log.Warn("generation failed, substituting fallback", "error", gerr.Error())
		return []Proposal{FallbackProposal(ag.ID, campaign)}, true
	}

	if len(proposals) > s.perAgent {
		proposals = proposals[:s.perAgent]
	}
	for i := range proposals {
		proposals[i].AgentID = ag.ID
		proposals[i].Fallback = false
	}
	log.Debug("proposals accepted", "count", len(proposals))
	return proposals, false
}

// validateProposals checks the proposal schema: at least one result, a
// platform tag on each, and a self score in [1,10].
func validateProposals(proposals []Proposal) error {
	if len(proposals) == 0 {
		return fmt.Errorf("%w: empty result", errors.ErrInvalidProposal)
	}
	for _, p := range proposals {
		if p.Platform == "" {
			return fmt.Errorf("%w: missing platform tag", errors.ErrInvalidProposal)
		}
		if p.SelfScore < 1 || p.SelfScore > 10 {
			return fmt.Errorf("%w: self score %v out of range [1,10]", errors.ErrInvalidProposal, p.SelfScore)
		}
	}
	return nil
}
