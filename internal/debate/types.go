package debate

// Platform identifies the social network a proposal targets.
type Platform string

const (
	PlatformTwitter   Platform = "twitter"
	PlatformInstagram Platform = "instagram"
	PlatformLinkedIn  Platform = "linkedin"
)

// Platforms returns all supported platforms in a fixed order.
func Platforms() []Platform {
	return []Platform{PlatformTwitter, PlatformInstagram, PlatformLinkedIn}
}

// CampaignContext is the shared brief all agents propose against.
// It is immutable for the duration of one iteration.
type CampaignContext struct {
	Brand    string   `json:"brand"`
	Industry string   `json:"industry"`
	Product  string   `json:"product"`
	Audience string   `json:"audience"`
	Trends   []string `json:"trends,omitempty"`
}

// Proposal is one agent's candidate campaign idea for the current iteration.
// Proposals are created by the proposal stage and never mutated afterward.
type Proposal struct {
	// ID is assigned by the stage: "<agent id>-<n>".
	ID string `json:"id"`
	// AgentID is the proposing agent.
	AgentID string `json:"agent_id"`
	// Platform is the targeted social network.
	Platform Platform `json:"platform"`
	// Approach is a short content approach description.
	Approach string `json:"approach"`
	// Reasoning is the agent's free-text case for the idea.
	Reasoning string `json:"reasoning,omitempty"`
	// SelfScore is the agent's own rating of the idea, in [1,10].
	SelfScore float64 `json:"self_score"`
	// Fallback marks a proposal substituted after a generation failure.
	Fallback bool `json:"fallback,omitempty"`
}

// Category classifies the concern a critique raises.
type Category string

const (
	// CategoryGoalConflict flags a proposal that works against the critic's goals.
	CategoryGoalConflict Category = "goal-conflict"
	// CategoryRisk flags reputational, legal, or platform risk.
	CategoryRisk Category = "risk"
	// CategoryMissedOpportunity flags an angle the proposal leaves on the table.
	CategoryMissedOpportunity Category = "missed-opportunity"
)

// valid reports whether c is a known category.
func (c Category) valid() bool {
	switch c {
	case CategoryGoalConflict, CategoryRisk, CategoryMissedOpportunity:
		return true
	}
	return false
}

// Critique is one agent's objection to another agent's proposal.
// Created by the critique stage; read-only afterward.
type Critique struct {
	// AgentID is the critiquing agent.
	AgentID string `json:"agent_id"`
	// ProposalID references the target proposal within the same iteration.
	ProposalID string `json:"proposal_id"`
	// TargetAgentID is the owner of the target proposal.
	TargetAgentID string `json:"target_agent_id"`
	// Category is always set, even when generation failed.
	Category Category `json:"category"`
	// Detail is free text; empty when the generation attempt degraded.
	Detail string `json:"detail,omitempty"`
}

// ScoredProposal is one row of an arbitration ranking.
type ScoredProposal struct {
	Proposal Proposal `json:"proposal"`
	// Raw is the proposal's self-rated score.
	Raw float64 `json:"raw"`
	// Penalty is the summed critique discount applied to Raw.
	Penalty float64 `json:"penalty"`
	// Weight is the proposing agent's voting weight at decision time.
	Weight float64 `json:"weight"`
	// Adjusted = (Raw - Penalty) * Weight. The ranking is sorted on it.
	Adjusted float64 `json:"adjusted"`
}

// Decision is the arbitration stage's single chosen proposal plus the full
// ranking and a human-readable justification. Produced once per iteration;
// immutable.
type Decision struct {
	Winner        Proposal         `json:"winner"`
	WinnerAgentID string           `json:"winner_agent_id"`
	Ranking       []ScoredProposal `json:"ranking"`
	Justification string           `json:"justification"`
	// Confidence in [1,10], derived from the winning margin.
	Confidence float64 `json:"confidence"`
}
