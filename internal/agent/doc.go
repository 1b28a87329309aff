// Package agent holds the council roster: agent identities, personalities,
// goal lists, and the mutable voting weights that arbitration multiplies
// proposal scores by.
//
// A Registry is created once from a roster file and its set of agent ids is
// fixed for its lifetime. Only weights and win/loss counters mutate, and all
// weight writes funnel through SetWeight, which clamps to a configured
// minimum so no agent can be silenced permanently.
//
// Persistence is atomic whole-file replacement: state is written to a
// temporary file and renamed into place, so a reader observes either the
// previous state or the new one, never a torn write.
package agent
