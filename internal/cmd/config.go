package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/council-ai/council/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Show the effective configuration after merging defaults, the config
file, environment variables, and flags.`,
	RunE: runConfigShow,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	if _, err := config.Load(); err != nil {
		return err
	}

	settings := viper.AllSettings()
	redactAPIKey(settings)

	data, err := yaml.Marshal(settings)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "# config file: %s\n%s", config.ConfigFile(), data)
	return nil
}

// redactAPIKey masks the llm key so config output is safe to paste.
func redactAPIKey(settings map[string]any) {
	llmSection, ok := settings["llm"].(map[string]any)
	if !ok {
		return
	}
	if key, ok := llmSection["api_key"].(string); ok && key != "" {
		llmSection["api_key"] = "****"
	}
}
