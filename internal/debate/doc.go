// Package debate implements the round-based proposal/critique/arbitration
// machinery at the heart of a council iteration.
//
// # Stages
//
// An iteration moves through three stages in strict sequence:
//
//   - ProposalStage: every agent independently pitches a small set of
//     campaign ideas with self-rated scores. Generation calls run
//     concurrently; a failed call is replaced by a deterministic fallback
//     proposal so a debate always proceeds.
//   - CritiqueStage: every agent reviews every proposal it does not own and
//     raises exactly one structured objection per proposal, tied to its own
//     goals. A failed critique generation degrades to a category-only
//     critique with empty detail.
//   - ArbitrationStage: pure and deterministic. Proposals are ranked by
//     self-rating, discounted per critique category, and multiplied by the
//     proposing agent's voting weight. Ties break on raw self-rating, then
//     lowest agent id.
//
// # Generation
//
// Proposal and critique text comes from a Generator collaborator. The
// HeuristicGenerator in this package is fully deterministic and needs no
// network; the llm package provides a model-backed implementation.
package debate
