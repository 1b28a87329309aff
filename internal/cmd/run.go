package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/council-ai/council/internal/debate"
	"github.com/council-ai/council/internal/learning"
	"github.com/council-ai/council/internal/orchestrator"
	"github.com/council-ai/council/internal/output"
)

var runFlags struct {
	brand      string
	industry   string
	product    string
	audience   string
	iterations int
	offline    bool
	seed       int64
	score      float64
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run debate iterations for a campaign",
	Long: `Run one or more debate iterations: agents propose campaign ideas,
critique each other, and the arbiter picks a winner by weighted score.
Each iteration's engagement outcome (simulated, or fixed via --score)
updates the agents' voting weights.`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVar(&runFlags.brand, "brand", "", "brand name (required)")
	runCmd.Flags().StringVar(&runFlags.industry, "industry", "Tech", "brand industry")
	runCmd.Flags().StringVar(&runFlags.product, "product", "", "product or campaign description (required)")
	runCmd.Flags().StringVar(&runFlags.audience, "audience", "General", "target audience")
	runCmd.Flags().IntVarP(&runFlags.iterations, "iterations", "n", 1, "number of iterations to run")
	runCmd.Flags().BoolVar(&runFlags.offline, "offline", false, "use the deterministic generator instead of the model backend")
	runCmd.Flags().Int64Var(&runFlags.seed, "seed", 0, "seed for simulated outcomes and sample trends (0 = current time)")
	runCmd.Flags().Float64Var(&runFlags.score, "score", -1, "fixed engagement score in [0,10] instead of simulation")
	_ = runCmd.MarkFlagRequired("brand")
	_ = runCmd.MarkFlagRequired("product")

	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	if runFlags.iterations < 1 {
		return fmt.Errorf("iterations must be at least 1, got %d", runFlags.iterations)
	}

	seed := runFlags.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	a, err := buildApp(runFlags.offline, seed)
	if err != nil {
		return err
	}
	defer a.close()

	campaign := debate.CampaignContext{
		Brand:    runFlags.brand,
		Industry: runFlags.industry,
		Product:  runFlags.product,
		Audience: runFlags.audience,
	}

	var outcomes orchestrator.OutcomeProvider = orchestrator.SimulatedOutcomes{Sim: learning.NewSimulator(seed)}
	if runFlags.score >= 0 {
		outcomes = orchestrator.FixedOutcome(runFlags.score)
	}

	for i := 0; i < runFlags.iterations; i++ {
		rec, err := a.orch.RunIteration(cmd.Context(), campaign, outcomes)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), output.RenderRecord(rec))
	}

	fmt.Fprintln(cmd.OutOrStdout(), output.RenderRoster(a.reg.Agents()))
	return nil
}
