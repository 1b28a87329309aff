package agent

// Agent is a named decision-making variant with goals and a mutable
// influence weight. Identity fields are fixed at registry load; Weight and
// the win/loss counters are mutated only by the learning loop, through the
// registry.
type Agent struct {
	// ID is the stable identifier used throughout the debate core.
	ID string `json:"id"`
	// Name is the display name (e.g. "Viral Hunter").
	Name string `json:"name"`
	// Role is a one-line description of the agent's function on the council.
	Role string `json:"role,omitempty"`
	// Personality is free text passed to the generation collaborator.
	// It is informational only and never parsed by the core.
	Personality string `json:"personality,omitempty"`
	// Goals is the ordered list of goal statements the agent argues from.
	Goals []string `json:"goals,omitempty"`
	// Weight is the current voting weight. Positive, unbounded above,
	// floored by the registry's configured minimum.
	Weight float64 `json:"voting_weight"`
	// Wins and Losses count arbitration results, for diagnostics.
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
	// Color is a hex color used by renderers.
	Color string `json:"color,omitempty"`
}

// clone returns a value copy with its own goals slice.
func (a *Agent) clone() Agent {
	c := *a
	c.Goals = append([]string(nil), a.Goals...)
	return c
}

// DefaultRoster returns the built-in four-agent marketing council.
func DefaultRoster() []Agent {
	return []Agent{
		{
			ID:          "viral_hunter",
			Name:        "Viral Hunter",
			Role:        "Maximize reach and engagement",
			Personality: "Bold, trend-obsessed, always chasing the next viral moment. Believes attention is the only currency that matters.",
			Goals: []string{
				"Maximize shares and impressions",
				"Ride trending topics aggressively",
				"Favor provocative hooks over safe messaging",
			},
			Weight: 1.0,
			Color:  "#ef4444",
		},
		{
			ID:          "brand_guardian",
			Name:        "Brand Guardian",
			Role:        "Protect brand reputation and consistency",
			Personality: "Cautious, meticulous, allergic to anything that could read as off-brand or risky. Thinks in decades, not news cycles.",
			Goals: []string{
				"Protect brand reputation above all",
				"Keep messaging consistent with brand voice",
				"Avoid controversy and legal exposure",
			},
			Weight: 1.0,
			Color:  "#3b82f6",
		},
		{
			ID:          "twitter_specialist",
			Name:        "Twitter Specialist",
			Role:        "Optimize for short-form conversation",
			Personality: "Punchy, quotable, fluent in the platform's rhythm. Measures success in replies and quote posts.",
			Goals: []string{
				"Win the conversation on short-form platforms",
				"Craft quotable, reply-bait copy",
				"Time posts to the platform's peak hours",
			},
			Weight: 1.0,
			Color:  "#0ea5e9",
		},
		{
			ID:          "instagram_specialist",
			Name:        "Instagram Specialist",
			Role:        "Optimize for visual storytelling",
			Personality: "Visual-first, aesthetic-driven, believes a campaign lives or dies on its imagery and story arc.",
			Goals: []string{
				"Lead with strong visual concepts",
				"Build narrative across a carousel or reel",
				"Grow saves and profile visits, not just likes",
			},
			Weight: 1.0,
			Color:  "#ec4899",
		},
	}
}
