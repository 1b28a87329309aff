package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/council-ai/council/internal/output"
)

var agentsCmd = &cobra.Command{
	Use:   "agents",
	Short: "Show the council roster with weights and win/loss tallies",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp(true, 1)
		if err != nil {
			return err
		}
		defer a.close()

		fmt.Fprint(cmd.OutOrStdout(), output.RenderRoster(a.reg.Agents()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(agentsCmd)
}
