package trends

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
)

// Volume buckets, coarsest signal first.
const (
	VolumeHigh   = "high"
	VolumeMedium = "medium"
	VolumeLow    = "low"
)

// Trend is one trending topic with its provenance.
type Trend struct {
	Topic     string  `json:"topic"`
	Source    string  `json:"source"`
	Volume    string  `json:"volume"`
	Relevance float64 `json:"relevance"` // [0,1]
}

// Provider fetches up to limit trending topics. Implementations should
// honor ctx cancellation; returning an empty slice is not an error.
type Provider interface {
	Fetch(ctx context.Context, limit int) ([]Trend, error)
}

// sampleTrends is the offline topic pool.
var sampleTrends = []Trend{
	{Topic: "AI Innovation", Source: "sample", Volume: VolumeHigh, Relevance: 0.9},
	{Topic: "Tech Startups", Source: "sample", Volume: VolumeMedium, Relevance: 0.8},
	{Topic: "Digital Marketing", Source: "sample", Volume: VolumeHigh, Relevance: 0.85},
	{Topic: "Productivity Tools", Source: "sample", Volume: VolumeMedium, Relevance: 0.75},
	{Topic: "Remote Work", Source: "sample", Volume: VolumeHigh, Relevance: 0.8},
	{Topic: "Sustainable Tech", Source: "sample", Volume: VolumeMedium, Relevance: 0.7},
	{Topic: "Creator Economy", Source: "sample", Volume: VolumeHigh, Relevance: 0.8},
	{Topic: "Data Privacy", Source: "sample", Volume: VolumeMedium, Relevance: 0.65},
}

// Static serves a shuffled slice of the sample pool. Seeded so runs are
// reproducible.
type Static struct {
	rng *rand.Rand
}

// NewStatic creates a Static provider from a seed.
func NewStatic(seed int64) *Static {
	return &Static{rng: rand.New(rand.NewSource(seed))}
}

// Fetch returns up to limit sample topics in a seed-determined order.
func (s *Static) Fetch(ctx context.Context, limit int) ([]Trend, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	pool := make([]Trend, len(sampleTrends))
	copy(pool, sampleTrends)
	s.rng.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})
	if limit > 0 && limit < len(pool) {
		pool = pool[:limit]
	}
	return pool, nil
}

// Multi queries several providers in order and merges their results. A
// provider failure is skipped, not propagated; when every provider comes
// back empty the optional fallback is consulted.
type Multi struct {
	providers []Provider
	fallback  Provider
}

// NewMulti builds a Multi over the given providers. Fallback may be nil.
func NewMulti(fallback Provider, providers ...Provider) *Multi {
	return &Multi{providers: providers, fallback: fallback}
}

// Fetch gathers from all providers, dedupes, and limits.
func (m *Multi) Fetch(ctx context.Context, limit int) ([]Trend, error) {
	var all []Trend
	for _, p := range m.providers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		got, err := p.Fetch(ctx, limit)
		if err != nil {
			continue
		}
		all = append(all, got...)
	}
	if len(all) == 0 && m.fallback != nil {
		got, err := m.fallback.Fetch(ctx, limit)
		if err != nil {
			return nil, err
		}
		all = got
	}
	return Merge(limit, all), nil
}

// Merge concatenates trend lists, drops duplicate topics (case-insensitive,
// first occurrence wins), and truncates to limit. A non-positive limit
// means unlimited.
func Merge(limit int, lists ...[]Trend) []Trend {
	seen := make(map[string]struct{})
	var out []Trend
	for _, list := range lists {
		for _, tr := range list {
			key := strings.ToLower(strings.TrimSpace(tr.Topic))
			if key == "" {
				continue
			}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, tr)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Format renders trends as the plain strings agents see in their campaign
// context.
func Format(trends []Trend) []string {
	out := make([]string, 0, len(trends))
	for _, tr := range trends {
		out = append(out, fmt.Sprintf("%s (Source: %s, Volume: %s)", tr.Topic, tr.Source, tr.Volume))
	}
	return out
}
