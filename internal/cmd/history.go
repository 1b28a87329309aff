package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/council-ai/council/internal/output"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show weight drift across recorded iterations",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp(true, 1)
		if err != nil {
			return err
		}
		defer a.close()

		entries, err := a.history.Entries()
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), output.RenderHistory(entries))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
}
