package config

import (
	"fmt"
	"slices"
	"strings"
)

// ValidationError represents a single validation failure.
type ValidationError struct {
	Field   string // The config field path (e.g., "learning.winner_delta")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError.
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d validation errors:\n", len(e))
	for i, err := range e {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}
	return sb.String()
}

// ValidLogLevels returns the list of valid log levels.
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// Validate checks the Config for invalid values and returns all validation
// errors found.
func (c *Config) Validate() []ValidationError {
	var errs []ValidationError

	if c.Debate.ProposalsPerAgent < 1 {
		errs = append(errs, ValidationError{
			Field: "debate.proposals_per_agent", Value: c.Debate.ProposalsPerAgent,
			Message: "must be at least 1",
		})
	}
	penalties := []struct {
		field string
		value float64
	}{
		{"debate.penalty_goal_conflict", c.Debate.PenaltyGoalConflict},
		{"debate.penalty_risk", c.Debate.PenaltyRisk},
		{"debate.penalty_missed_opportunity", c.Debate.PenaltyMissedOpportunity},
	}
	for _, p := range penalties {
		if p.value < 0 {
			errs = append(errs, ValidationError{Field: p.field, Value: p.value, Message: "must not be negative"})
		}
	}

	if c.Learning.SuccessThreshold < 0 || c.Learning.SuccessThreshold > 10 {
		errs = append(errs, ValidationError{
			Field: "learning.success_threshold", Value: c.Learning.SuccessThreshold,
			Message: "must be between 0 and 10",
		})
	}
	if c.Learning.WinnerDelta < 0 {
		errs = append(errs, ValidationError{
			Field: "learning.winner_delta", Value: c.Learning.WinnerDelta,
			Message: "must not be negative",
		})
	}
	if c.Learning.LoserDelta < 0 {
		errs = append(errs, ValidationError{
			Field: "learning.loser_delta", Value: c.Learning.LoserDelta,
			Message: "must not be negative",
		})
	}
	if c.Learning.LearningRate < 0 {
		errs = append(errs, ValidationError{
			Field: "learning.learning_rate", Value: c.Learning.LearningRate,
			Message: "must not be negative",
		})
	}
	if c.Learning.MinWeight <= 0 {
		errs = append(errs, ValidationError{
			Field: "learning.min_weight", Value: c.Learning.MinWeight,
			Message: "must be positive",
		})
	}

	if c.Trends.Limit < 1 {
		errs = append(errs, ValidationError{
			Field: "trends.limit", Value: c.Trends.Limit,
			Message: "must be at least 1",
		})
	}
	if url := c.Trends.FeedURL; url != "" &&
		!strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		errs = append(errs, ValidationError{
			Field: "trends.feed_url", Value: url,
			Message: "must be an http(s) URL",
		})
	}

	if c.LLM.BaseURL == "" {
		errs = append(errs, ValidationError{
			Field: "llm.base_url", Value: c.LLM.BaseURL,
			Message: "must not be empty",
		})
	}
	if c.LLM.Model == "" {
		errs = append(errs, ValidationError{
			Field: "llm.model", Value: c.LLM.Model,
			Message: "must not be empty",
		})
	}

	if !slices.Contains(ValidLogLevels(), c.Logging.Level) {
		errs = append(errs, ValidationError{
			Field: "logging.level", Value: c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	return errs
}
