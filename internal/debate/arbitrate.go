package debate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/council-ai/council/internal/errors"
)

// Penalties are the per-category score discounts arbitration applies for
// each critique a proposal received. Risk must outweigh missed opportunity.
type Penalties struct {
	GoalConflict      float64 `json:"goal_conflict"`
	Risk              float64 `json:"risk"`
	MissedOpportunity float64 `json:"missed_opportunity"`
}

// DefaultPenalties returns the standard discounts.
func DefaultPenalties() Penalties {
	return Penalties{
		GoalConflict:      2,
		Risk:              3,
		MissedOpportunity: 1,
	}
}

// For returns the discount for a category. Unknown categories cost nothing.
func (p Penalties) For(c Category) float64 {
	switch c {
	case CategoryGoalConflict:
		return p.GoalConflict
	case CategoryRisk:
		return p.Risk
	case CategoryMissedOpportunity:
		return p.MissedOpportunity
	default:
		return 0
	}
}

// ArbitrationStage aggregates proposals, critiques, and current voting
// weights into a single ranked decision. It is pure and deterministic:
// identical inputs always yield the identical Decision, including tie-break
// order, and it performs no external calls.
type ArbitrationStage struct {
	penalties Penalties
}

// NewArbitrationStage creates an ArbitrationStage with the given penalties.
func NewArbitrationStage(penalties Penalties) *ArbitrationStage {
	return &ArbitrationStage{penalties: penalties}
}

// Decide ranks all proposals and picks a winner.
//
// Each proposal scores (selfScore minus the summed penalties of its
// critiques) times the owner's voting weight. Ties break on higher raw
// self-rating, then lowest owning
// agent id, then lowest proposal id, so the result is reproducible.
//
// Errors are precondition violations only: no proposals, a critique
// referencing a proposal outside this set, or a proposal whose owner has no
// weight entry. Validated inputs never fail mid-computation.
func (s *ArbitrationStage) Decide(proposals []Proposal, critiques []Critique, weights map[string]float64) (Decision, error) {
	if len(proposals) == 0 {
		return Decision{}, fmt.Errorf("%w: no proposals to decide on", errors.ErrInvalidInput)
	}

	byID := make(map[string]int, len(proposals))
	for i, p := range proposals {
		if _, ok := weights[p.AgentID]; !ok {
			return Decision{}, fmt.Errorf("%w: no weight for agent %q", errors.ErrUnknownAgent, p.AgentID)
		}
		byID[p.ID] = i
	}

	penalty := make([]float64, len(proposals))
	critiquesFor := make([][]Critique, len(proposals))
	for _, c := range critiques {
		i, ok := byID[c.ProposalID]
		if !ok {
			return Decision{}, fmt.Errorf("%w: critique references unknown proposal %q", errors.ErrInvalidInput, c.ProposalID)
		}
		penalty[i] += s.penalties.For(c.Category)
		critiquesFor[i] = append(critiquesFor[i], c)
	}

	ranking := make([]ScoredProposal, len(proposals))
	for i, p := range proposals {
		w := weights[p.AgentID]
		ranking[i] = ScoredProposal{
			Proposal: p,
			Raw:      p.SelfScore,
			Penalty:  penalty[i],
			Weight:   w,
			Adjusted: (p.SelfScore - penalty[i]) * w,
		}
	}

	sort.SliceStable(ranking, func(a, b int) bool {
		ra, rb := ranking[a], ranking[b]
		if ra.Adjusted != rb.Adjusted {
			return ra.Adjusted > rb.Adjusted
		}
		if ra.Raw != rb.Raw {
			return ra.Raw > rb.Raw
		}
		if ra.Proposal.AgentID != rb.Proposal.AgentID {
			return ra.Proposal.AgentID < rb.Proposal.AgentID
		}
		return ra.Proposal.ID < rb.Proposal.ID
	})

	winner := ranking[0]
	winnerCritiques := critiquesFor[byID[winner.Proposal.ID]]

	return Decision{
		Winner:        winner.Proposal,
		WinnerAgentID: winner.Proposal.AgentID,
		Ranking:       ranking,
		Justification: justify(winner, ranking, winnerCritiques),
		Confidence:    confidence(ranking),
	}, nil
}

// justify writes the human-readable trace: the winning math, the critiques
// that discounted the winner, and the runner-up it beat.
func justify(winner ScoredProposal, ranking []ScoredProposal, winnerCritiques []Critique) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%q by %s wins with adjusted score %.2f ((%.1f - %.1f) x %.2f).",
		winner.Proposal.Approach, winner.Proposal.AgentID, winner.Adjusted, winner.Raw, winner.Penalty, winner.Weight)

	if len(winnerCritiques) > 0 {
		fmt.Fprintf(&b, " It survived %d critique(s):", len(winnerCritiques))
		for _, c := range winnerCritiques {
			if c.Detail != "" {
				fmt.Fprintf(&b, " [%s from %s: %s]", c.Category, c.AgentID, c.Detail)
			} else {
				fmt.Fprintf(&b, " [%s from %s]", c.Category, c.AgentID)
			}
		}
	} else {
		b.WriteString(" It drew no critiques.")
	}

	if len(ranking) > 1 {
		ru := ranking[1]
		fmt.Fprintf(&b, " Runner-up was %q by %s at %.2f.", ru.Proposal.Approach, ru.Proposal.AgentID, ru.Adjusted)
		if ru.Adjusted == winner.Adjusted {
			if ru.Raw == winner.Raw {
				b.WriteString(" Tie broken by agent id ordering.")
			} else {
				b.WriteString(" Tie broken by higher raw self-rating.")
			}
		}
	}
	return b.String()
}

// confidence maps the winning margin onto [1,10]: a dead heat is a 5, each
// point of margin adds one, clamped at 10.
func confidence(ranking []ScoredProposal) float64 {
	if len(ranking) < 2 {
		return 10
	}
	c := 5 + ranking[0].Adjusted - ranking[1].Adjusted
	if c > 10 {
		c = 10
	}
	if c < 1 {
		c = 1
	}
	return c
}
