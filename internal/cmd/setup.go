package cmd

import (
	"os"

	"github.com/council-ai/council/internal/agent"
	"github.com/council-ai/council/internal/config"
	"github.com/council-ai/council/internal/content"
	"github.com/council-ai/council/internal/debate"
	"github.com/council-ai/council/internal/learning"
	"github.com/council-ai/council/internal/llm"
	"github.com/council-ai/council/internal/logging"
	"github.com/council-ai/council/internal/orchestrator"
	"github.com/council-ai/council/internal/trends"
)

// app bundles the wired components one command invocation needs.
type app struct {
	cfg      *config.Config
	log      *logging.Logger
	reg      *agent.Registry
	history  *learning.HistoryStore
	orch     *orchestrator.Orchestrator
	stateDir string
	offline  bool
}

// buildApp loads config and state and wires the full iteration pipeline.
// Offline mode (explicit flag or missing API key) swaps the model-backed
// generator for the deterministic one and skips remote trend fetching.
func buildApp(offline bool, seed int64) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	stateDir := cfg.Paths.ResolveStateDir()
	if err := os.MkdirAll(stateDir, 0755); err != nil {
		return nil, err
	}

	log := logging.NopLogger()
	if cfg.Logging.Enabled {
		log, err = logging.NewLogger(stateDir, cfg.Logging.Level)
		if err != nil {
			return nil, err
		}
	}

	reg, err := loadRegistry(cfg, stateDir)
	if err != nil {
		return nil, err
	}

	history, err := learning.OpenHistory(config.HistoryFile(stateDir))
	if err != nil {
		return nil, err
	}
	loop, err := learning.NewLoop(cfg.LearningParams(), history, config.RosterFile(stateDir), log)
	if err != nil {
		return nil, err
	}

	if cfg.LLM.APIKey == "" {
		offline = true
	}

	var gen debate.Generator = &debate.HeuristicGenerator{PerAgent: cfg.Debate.ProposalsPerAgent}
	var composerGen content.TextGenerator
	if !offline {
		client := llm.NewClient(cfg.LLM.APIKey,
			llm.WithBaseURL(cfg.LLM.BaseURL),
			llm.WithModel(cfg.LLM.Model))
		gen = llm.NewGenerator(client)
		composerGen = client
	}

	orch, err := orchestrator.New(orchestrator.Options{
		Registry:  reg,
		Proposals: debate.NewProposalStage(gen, cfg.Debate.ProposalsPerAgent, log),
		Critiques: debate.NewCritiqueStage(gen, log),
		Arbiter: debate.NewArbitrationStage(debate.Penalties{
			GoalConflict:      cfg.Debate.PenaltyGoalConflict,
			Risk:              cfg.Debate.PenaltyRisk,
			MissedOpportunity: cfg.Debate.PenaltyMissedOpportunity,
		}),
		Loop:       loop,
		StateDir:   stateDir,
		Trends:     trendProvider(cfg, offline, seed),
		TrendLimit: cfg.Trends.Limit,
		Composer:   content.NewComposer(composerGen, log),
		Log:        log,
	})
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:      cfg,
		log:      log,
		reg:      reg,
		history:  history,
		orch:     orch,
		stateDir: stateDir,
		offline:  offline,
	}, nil
}

// loadRegistry restores persisted weights, falling back to the default
// roster on first run.
func loadRegistry(cfg *config.Config, stateDir string) (*agent.Registry, error) {
	path := config.RosterFile(stateDir)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return agent.NewRegistry(agent.DefaultRoster(), cfg.Learning.MinWeight)
	}
	return agent.Load(path, cfg.Learning.MinWeight)
}

// trendProvider picks the trend source: sample topics always, plus the
// configured remote feed when online.
func trendProvider(cfg *config.Config, offline bool, seed int64) trends.Provider {
	if !cfg.Trends.Enabled {
		return nil
	}
	static := trends.NewStatic(seed)
	if offline || cfg.Trends.FeedURL == "" {
		return static
	}
	return trends.NewMulti(static, trends.NewHTTPProvider(cfg.Trends.FeedURL, "feed"))
}

// close flushes the app's resources.
func (a *app) close() {
	_ = a.log.Close()
}
