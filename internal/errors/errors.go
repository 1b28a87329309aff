// Package errors provides centralized error definitions and error handling
// utilities for the council codebase. It defines domain-specific errors,
// error constructors with context wrapping, and classification helpers.
//
// # Error Taxonomy
//
// Fatal configuration errors (abort before any iteration starts):
//   - ConfigError: malformed agent roster or invalid settings
//
// Caller bugs (fatal within the failing call):
//   - ErrUnknownAgent: a reference to an agent id outside the registry
//   - ErrDuplicateIteration: a replayed or out-of-order iteration index
//
// Recoverable conditions:
//   - GenerationError: a single proposal/critique generation attempt failed;
//     stages substitute a fallback instead of surfacing this to callers
//   - PersistenceError: a state write failed; in-memory weights remain at the
//     last committed version so retrying is safe
//
// # Usage
//
//	err := errors.NewConfigError("load roster", errors.ErrAgentMissingID).WithAgent("viral_hunter")
//
//	if errors.Is(err, errors.ErrAgentMissingID) { ... }
//
//	var perr *errors.PersistenceError
//	if errors.As(err, &perr) { ... }
//
//	if errors.IsRetryable(err) { ... }
package errors

import (
	"errors"
	"fmt"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

// Roster-related sentinel errors
var (
	// ErrRosterEmpty indicates the roster contains no agents.
	ErrRosterEmpty = New("agent roster is empty")
	// ErrAgentMissingID indicates a roster entry has no agent id.
	ErrAgentMissingID = New("agent entry missing id")
	// ErrAgentMissingWeight indicates a roster entry has no voting weight.
	ErrAgentMissingWeight = New("agent entry missing voting weight")
	// ErrDuplicateAgentID indicates two roster entries share an id.
	ErrDuplicateAgentID = New("duplicate agent id")
)

// Registry and iteration sentinel errors
var (
	// ErrUnknownAgent indicates a reference to an id outside the registry.
	ErrUnknownAgent = New("unknown agent")
	// ErrDuplicateIteration indicates the history log already holds an entry
	// for this iteration index. This signals an orchestrator sequencing bug
	// and must never occur under correct operation.
	ErrDuplicateIteration = New("duplicate iteration index")
	// ErrNoPendingIteration indicates there is no committed iteration
	// awaiting an outcome.
	ErrNoPendingIteration = New("no pending iteration")
)

// Generation sentinel errors
var (
	// ErrGenerationFailed indicates a single generation attempt failed.
	ErrGenerationFailed = New("generation failed")
	// ErrInvalidProposal indicates a generated proposal failed schema validation.
	ErrInvalidProposal = New("invalid proposal")
)

// General sentinel errors
var (
	// ErrInvalidInput indicates that input validation failed.
	ErrInvalidInput = New("invalid input")
)

// -----------------------------------------------------------------------------
// ConfigError
// -----------------------------------------------------------------------------

// ConfigError represents a malformed agent roster or invalid configuration.
// It is always fatal: no iteration may start while one is outstanding.
type ConfigError struct {
	message string
	cause   error
	agentID string
}

// NewConfigError creates a ConfigError wrapping an optional cause.
func NewConfigError(message string, cause error) *ConfigError {
	return &ConfigError{message: message, cause: cause}
}

// WithAgent attaches the offending agent id for context.
func (e *ConfigError) WithAgent(id string) *ConfigError {
	e.agentID = id
	return e
}

// AgentID returns the offending agent id, if known.
func (e *ConfigError) AgentID() string { return e.agentID }

func (e *ConfigError) Error() string {
	msg := e.message
	if e.agentID != "" {
		msg = fmt.Sprintf("%s (agent %q)", msg, e.agentID)
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.cause)
	}
	return msg
}

func (e *ConfigError) Unwrap() error { return e.cause }

// -----------------------------------------------------------------------------
// GenerationError
// -----------------------------------------------------------------------------

// GenerationError represents a single failed proposal or critique generation
// attempt. Stages recover from it locally via fallback substitution; it is
// logged but never surfaced as a run failure.
type GenerationError struct {
	AgentID string
	Kind    string // "proposal" or "critique"
	cause   error
}

// NewGenerationError creates a GenerationError for the given agent and kind.
func NewGenerationError(agentID, kind string, cause error) *GenerationError {
	return &GenerationError{AgentID: agentID, Kind: kind, cause: cause}
}

func (e *GenerationError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s generation failed for agent %q: %v", e.Kind, e.AgentID, e.cause)
	}
	return fmt.Sprintf("%s generation failed for agent %q", e.Kind, e.AgentID)
}

func (e *GenerationError) Unwrap() error { return e.cause }

// Is reports a match against ErrGenerationFailed in addition to the cause
// chain, so callers can classify without knowing the concrete type.
func (e *GenerationError) Is(target error) bool {
	if target == ErrGenerationFailed {
		return true
	}
	return errors.Is(e.cause, target)
}

// -----------------------------------------------------------------------------
// PersistenceError
// -----------------------------------------------------------------------------

// PersistenceError represents a failed state write. The in-memory weight
// state remains the last successfully committed version, so retrying the
// operation is always safe.
type PersistenceError struct {
	Op    string // e.g. "persist registry", "append history"
	Path  string
	cause error
}

// NewPersistenceError creates a PersistenceError for the given operation.
func NewPersistenceError(op, path string, cause error) *PersistenceError {
	return &PersistenceError{Op: op, Path: path, cause: cause}
}

func (e *PersistenceError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s (%s): %v", e.Op, e.Path, e.cause)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.cause)
}

func (e *PersistenceError) Unwrap() error { return e.cause }

// -----------------------------------------------------------------------------
// Classification Helpers
// -----------------------------------------------------------------------------

// IsRetryable returns true if the error is transient and the operation may
// succeed on retry. Persistence failures are retryable; configuration and
// sequencing errors are not.
func IsRetryable(err error) bool {
	var perr *PersistenceError
	return errors.As(err, &perr)
}

// IsFatal returns true for errors that should abort the run rather than be
// recovered locally.
func IsFatal(err error) bool {
	var cerr *ConfigError
	if errors.As(err, &cerr) {
		return true
	}
	return errors.Is(err, ErrUnknownAgent) || errors.Is(err, ErrDuplicateIteration)
}

// IsRecovered returns true for errors that stages absorb via fallback
// substitution instead of failing the iteration.
func IsRecovered(err error) bool {
	return errors.Is(err, ErrGenerationFailed)
}
