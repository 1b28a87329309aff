package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/council-ai/council/internal/learning"
	"github.com/council-ai/council/internal/llm"
)

// Config represents the complete council configuration.
type Config struct {
	Debate   DebateConfig   `mapstructure:"debate"`
	Learning LearningConfig `mapstructure:"learning"`
	Trends   TrendsConfig   `mapstructure:"trends"`
	LLM      LLMConfig      `mapstructure:"llm"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Paths    PathsConfig    `mapstructure:"paths"`
}

// DebateConfig controls the debate stages.
type DebateConfig struct {
	// ProposalsPerAgent is how many ideas each agent pitches per iteration (default: 2)
	ProposalsPerAgent int `mapstructure:"proposals_per_agent"`
	// PenaltyGoalConflict is the score discount per goal-conflict critique (default: 2)
	PenaltyGoalConflict float64 `mapstructure:"penalty_goal_conflict"`
	// PenaltyRisk is the score discount per risk critique (default: 3)
	PenaltyRisk float64 `mapstructure:"penalty_risk"`
	// PenaltyMissedOpportunity is the score discount per missed-opportunity critique (default: 1)
	PenaltyMissedOpportunity float64 `mapstructure:"penalty_missed_opportunity"`
}

// LearningConfig controls the weight update rule.
type LearningConfig struct {
	// SuccessThreshold is the minimum outcome score for the winner to be rewarded (default: 7)
	SuccessThreshold float64 `mapstructure:"success_threshold"`
	// WinnerDelta is added to a successful winner's weight (default: 0.2)
	WinnerDelta float64 `mapstructure:"winner_delta"`
	// LoserDelta is subtracted from every losing agent's weight (default: 0.1)
	LoserDelta float64 `mapstructure:"loser_delta"`
	// LearningRate scales both deltas; 0 freezes weights (default: 1.0)
	LearningRate float64 `mapstructure:"learning_rate"`
	// MinWeight is the floor no agent's weight can sink below (default: 0.1)
	MinWeight float64 `mapstructure:"min_weight"`
}

// TrendsConfig controls trend collection.
type TrendsConfig struct {
	// Enabled turns trend fetching on (default: true)
	Enabled bool `mapstructure:"enabled"`
	// Limit caps how many trends reach the agents (default: 5)
	Limit int `mapstructure:"limit"`
	// FeedURL is an optional remote JSON or RSS endpoint; empty uses the
	// built-in sample topics only
	FeedURL string `mapstructure:"feed_url"`
}

// LLMConfig controls the chat completion backend.
type LLMConfig struct {
	// APIKey authenticates against the endpoint; usually supplied via
	// COUNCIL_LLM_API_KEY. Empty forces offline generation.
	APIKey string `mapstructure:"api_key"`
	// BaseURL is the OpenAI-compatible endpoint root
	BaseURL string `mapstructure:"base_url"`
	// Model is the chat model identifier
	Model string `mapstructure:"model"`
}

// LoggingConfig controls debug logging behavior.
type LoggingConfig struct {
	// Enabled controls whether file logging is on (default: true)
	Enabled bool `mapstructure:"enabled"`
	// Level is the log level: "debug", "info", "warn", "error" (default: "info")
	Level string `mapstructure:"level"`
}

// PathsConfig controls where the council stores state.
type PathsConfig struct {
	// StateDir holds weights, history, logs, and pending iteration records.
	// Empty defaults to the config directory. Supports ~ expansion.
	StateDir string `mapstructure:"state_dir"`
}

// ResolveStateDir returns the resolved state directory path.
func (p *PathsConfig) ResolveStateDir() string {
	path := p.StateDir
	if path == "" {
		return ConfigDir()
	}
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}
	return path
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Debate: DebateConfig{
			ProposalsPerAgent:        2,
			PenaltyGoalConflict:      2,
			PenaltyRisk:              3,
			PenaltyMissedOpportunity: 1,
		},
		Learning: LearningConfig{
			SuccessThreshold: learning.DefaultSuccessThreshold,
			WinnerDelta:      learning.DefaultWinnerDelta,
			LoserDelta:       learning.DefaultLoserDelta,
			LearningRate:     learning.DefaultLearningRate,
			MinWeight:        0.1,
		},
		Trends: TrendsConfig{
			Enabled: true,
			Limit:   5,
			FeedURL: "",
		},
		LLM: LLMConfig{
			APIKey:  "",
			BaseURL: llm.DefaultBaseURL,
			Model:   llm.DefaultModel,
		},
		Logging: LoggingConfig{
			Enabled: true,
			Level:   "info",
		},
		Paths: PathsConfig{
			StateDir: "",
		},
	}
}

// LearningParams converts the learning section to loop parameters.
func (c *Config) LearningParams() learning.Params {
	return learning.Params{
		SuccessThreshold: c.Learning.SuccessThreshold,
		WinnerDelta:      c.Learning.WinnerDelta,
		LoserDelta:       c.Learning.LoserDelta,
		LearningRate:     c.Learning.LearningRate,
	}
}

// SetDefaults registers default values with viper.
func SetDefaults() {
	defaults := Default()

	viper.SetDefault("debate.proposals_per_agent", defaults.Debate.ProposalsPerAgent)
	viper.SetDefault("debate.penalty_goal_conflict", defaults.Debate.PenaltyGoalConflict)
	viper.SetDefault("debate.penalty_risk", defaults.Debate.PenaltyRisk)
	viper.SetDefault("debate.penalty_missed_opportunity", defaults.Debate.PenaltyMissedOpportunity)

	viper.SetDefault("learning.success_threshold", defaults.Learning.SuccessThreshold)
	viper.SetDefault("learning.winner_delta", defaults.Learning.WinnerDelta)
	viper.SetDefault("learning.loser_delta", defaults.Learning.LoserDelta)
	viper.SetDefault("learning.learning_rate", defaults.Learning.LearningRate)
	viper.SetDefault("learning.min_weight", defaults.Learning.MinWeight)

	viper.SetDefault("trends.enabled", defaults.Trends.Enabled)
	viper.SetDefault("trends.limit", defaults.Trends.Limit)
	viper.SetDefault("trends.feed_url", defaults.Trends.FeedURL)

	viper.SetDefault("llm.api_key", defaults.LLM.APIKey)
	viper.SetDefault("llm.base_url", defaults.LLM.BaseURL)
	viper.SetDefault("llm.model", defaults.LLM.Model)

	viper.SetDefault("logging.enabled", defaults.Logging.Enabled)
	viper.SetDefault("logging.level", defaults.Logging.Level)

	viper.SetDefault("paths.state_dir", defaults.Paths.StateDir)
}

// Load reads the configuration from viper into a Config struct and
// validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}
	return &cfg, nil
}

// ConfigDir returns the path to the user's config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "council")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".council"
	}
	return filepath.Join(home, ".config", "council")
}

// ConfigFile returns the path to the config file.
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// RosterFile returns the path to the persisted agent roster within a state
// directory.
func RosterFile(stateDir string) string {
	return filepath.Join(stateDir, "weights.json")
}

// HistoryFile returns the path to the iteration history log within a state
// directory.
func HistoryFile(stateDir string) string {
	return filepath.Join(stateDir, "history.jsonl")
}
