package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestConfigError(t *testing.T) {
	tests := []struct {
		name     string
		err      *ConfigError
		wantText string
		wantIs   error
	}{
		{
			name:     "missing id",
			err:      NewConfigError("load roster", ErrAgentMissingID),
			wantText: "load roster: agent entry missing id",
			wantIs:   ErrAgentMissingID,
		},
		{
			name:     "duplicate id with agent context",
			err:      NewConfigError("parse roster", ErrDuplicateAgentID).WithAgent("viral_hunter"),
			wantText: `parse roster (agent "viral_hunter"): duplicate agent id`,
			wantIs:   ErrDuplicateAgentID,
		},
		{
			name:     "no cause",
			err:      NewConfigError("bad settings", nil),
			wantText: "bad settings",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantText {
				t.Errorf("Error() = %q, want %q", got, tt.wantText)
			}
			if tt.wantIs != nil && !Is(tt.err, tt.wantIs) {
				t.Errorf("Is(%v) = false, want true", tt.wantIs)
			}
		})
	}
}

func TestConfigErrorAs(t *testing.T) {
	err := fmt.Errorf("startup: %w", NewConfigError("load roster", ErrRosterEmpty).WithAgent("x"))

	var cerr *ConfigError
	if !As(err, &cerr) {
		t.Fatal("As(*ConfigError) = false, want true")
	}
	if cerr.AgentID() != "x" {
		t.Errorf("AgentID() = %q, want %q", cerr.AgentID(), "x")
	}
}

func TestGenerationError(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := NewGenerationError("brand_guardian", "proposal", cause)

	if !Is(err, ErrGenerationFailed) {
		t.Error("Is(ErrGenerationFailed) = false, want true")
	}
	if !Is(err, cause) {
		t.Error("Is(cause) = false, want true")
	}
	if !strings.Contains(err.Error(), "brand_guardian") {
		t.Errorf("Error() = %q, want agent id included", err.Error())
	}

	// Nil cause still matches the sentinel.
	bare := NewGenerationError("a1", "critique", nil)
	if !Is(bare, ErrGenerationFailed) {
		t.Error("Is(ErrGenerationFailed) on nil cause = false, want true")
	}
}

func TestPersistenceError(t *testing.T) {
	cause := stderrors.New("disk full")
	err := NewPersistenceError("persist registry", "/state/weights.json", cause)

	if !Is(err, cause) {
		t.Error("Is(cause) = false, want true")
	}
	if !strings.Contains(err.Error(), "/state/weights.json") {
		t.Errorf("Error() = %q, want path included", err.Error())
	}

	var perr *PersistenceError
	if !As(err, &perr) {
		t.Fatal("As(*PersistenceError) = false, want true")
	}
	if perr.Op != "persist registry" {
		t.Errorf("Op = %q, want %q", perr.Op, "persist registry")
	}
}

func TestClassification(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		wantRetryable bool
		wantFatal     bool
		wantRecovered bool
	}{
		{
			name:          "persistence error is retryable",
			err:           NewPersistenceError("append history", "", stderrors.New("io")),
			wantRetryable: true,
		},
		{
			name:      "config error is fatal",
			err:       NewConfigError("load roster", ErrRosterEmpty),
			wantFatal: true,
		},
		{
			name:      "unknown agent is fatal",
			err:       fmt.Errorf("lookup: %w", ErrUnknownAgent),
			wantFatal: true,
		},
		{
			name:      "duplicate iteration is fatal",
			err:       ErrDuplicateIteration,
			wantFatal: true,
		},
		{
			name:          "generation error is recovered",
			err:           NewGenerationError("a1", "proposal", nil),
			wantRecovered: true,
		},
		{
			name: "plain error is none of the above",
			err:  stderrors.New("whatever"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.wantRetryable {
				t.Errorf("IsRetryable() = %v, want %v", got, tt.wantRetryable)
			}
			if got := IsFatal(tt.err); got != tt.wantFatal {
				t.Errorf("IsFatal() = %v, want %v", got, tt.wantFatal)
			}
			if got := IsRecovered(tt.err); got != tt.wantRecovered {
				t.Errorf("IsRecovered() = %v, want %v", got, tt.wantRecovered)
			}
		})
	}
}

func TestWrappingThroughLayers(t *testing.T) {
	inner := NewGenerationError("viral_hunter", "critique", stderrors.New("timeout"))
	outer := fmt.Errorf("critique stage: %w", inner)

	if !Is(outer, ErrGenerationFailed) {
		t.Error("sentinel not visible through wrapping")
	}

	var gerr *GenerationError
	if !As(outer, &gerr) {
		t.Fatal("As(*GenerationError) = false, want true")
	}
	if gerr.Kind != "critique" {
		t.Errorf("Kind = %q, want %q", gerr.Kind, "critique")
	}
}
