package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/council-ai/council/internal/learning"
	"github.com/council-ai/council/internal/orchestrator"
	"github.com/council-ai/council/internal/output"
)

var resumeFlags struct {
	seed  int64
	score float64
}

var resumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Complete a pending iteration",
	Long: `Complete an iteration that decided a winner but never recorded its
engagement outcome, typically after a crash or an interrupted run.
Generation does not re-run; only the outcome and the weight update
happen.`,
	RunE: runResume,
}

func init() {
	resumeCmd.Flags().Int64Var(&resumeFlags.seed, "seed", 0, "seed for the simulated outcome (0 = current time)")
	resumeCmd.Flags().Float64Var(&resumeFlags.score, "score", -1, "fixed engagement score in [0,10] instead of simulation")

	rootCmd.AddCommand(resumeCmd)
}

func runResume(cmd *cobra.Command, args []string) error {
	seed := resumeFlags.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	a, err := buildApp(true, seed)
	if err != nil {
		return err
	}
	defer a.close()

	var outcomes orchestrator.OutcomeProvider = orchestrator.SimulatedOutcomes{Sim: learning.NewSimulator(seed)}
	if resumeFlags.score >= 0 {
		outcomes = orchestrator.FixedOutcome(resumeFlags.score)
	}

	rec, err := a.orch.Resume(cmd.Context(), outcomes)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), output.RenderRecord(rec))
	fmt.Fprintln(cmd.OutOrStdout(), output.RenderRoster(a.reg.Agents()))
	return nil
}
