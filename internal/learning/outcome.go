package learning

import (
	"fmt"
	"math/rand"

	"github.com/council-ai/council/internal/errors"
)

// EngagementOutcome is the observed (or simulated) performance of a posted
// campaign. Score is the overall engagement in [0,10]; the sub-metrics are
// informational.
type EngagementOutcome struct {
	Score     float64 `json:"score"`
	Likes     int     `json:"likes"`
	Shares    int     `json:"shares"`
	Comments  int     `json:"comments"`
	Sentiment float64 `json:"sentiment"` // fraction positive in [0,1]
	Platform  string  `json:"platform,omitempty"`
}

// Validate checks the outcome is usable as learning input.
func (o EngagementOutcome) Validate() error {
	if o.Score < 0 || o.Score > 10 {
		return fmt.Errorf("%w: outcome score %v out of range [0,10]", errors.ErrInvalidInput, o.Score)
	}
	return nil
}

// Simulator produces plausible engagement numbers when no real measurement
// is available. It is seedable so tests and reruns are reproducible.
type Simulator struct {
	rng *rand.Rand
}

// NewSimulator creates a Simulator from a seed.
func NewSimulator(seed int64) *Simulator {
	return &Simulator{rng: rand.New(rand.NewSource(seed))}
}

// Simulate rolls engagement numbers and folds them into an overall score:
// likes weigh 40%, shares 30%, comments 20%, sentiment 10%, capped at 10.
func (s *Simulator) Simulate(platform string) EngagementOutcome {
	// Ranges: likes [2000, 8000], shares [100, 500], comments [50, 200].
	likes := 2000 + s.rng.Intn(6001)
	shares := 100 + s.rng.Intn(401)
	comments := 50 + s.rng.Intn(151)
	sentiment := 0.6 + s.rng.Float64()*0.3

	score := float64(likes)/1000*0.4 +
		float64(shares)/100*0.3 +
		float64(comments)/50*0.2 +
		sentiment*10*0.1
	if score > 10 {
		score = 10
	}

	return EngagementOutcome{
		Score:     score,
		Likes:     likes,
		Shares:    shares,
		Comments:  comments,
		Sentiment: sentiment,
		Platform:  platform,
	}
}
