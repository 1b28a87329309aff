// Package orchestrator drives one debate iteration end to end: trend
// collection, proposals, critiques, arbitration, outcome collection, and
// the learning update, publishing an event at each transition.
//
// The decision is the durability boundary. Once arbitration picks a winner
// the full record is committed to a pending file before any outcome is
// sought, so a crash between decision and learning loses nothing: Resume
// finishes outcome and learning from the pending record without re-running
// generation. Cancellation before arbitration leaves no side effects at
// all.
package orchestrator
