// Package learning adjusts agent voting weights after each decided
// iteration and maintains the append-only history log that records strategy
// drift across runs.
//
// The rule is deliberately simple: a winner whose engagement outcome clears
// the success threshold gains a fixed delta, everyone who lost that round
// pays a smaller fixed delta, both scaled by a configurable learning rate
// and floored so no agent's influence can reach zero. The deltas are
// configuration values, not a tuned learning schedule.
//
// An update commits atomically: the history entry is appended first, the
// weight state is persisted second, and a failure of either rolls the other
// back, so observers never see a half-applied update. The history log
// refuses a second entry for the same iteration index, which catches
// orchestrator replay bugs.
package learning
