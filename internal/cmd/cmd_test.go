package cmd

import "testing"

func TestSubcommandsRegistered(t *testing.T) {
	want := map[string]bool{
		"run":     false,
		"resume":  false,
		"agents":  false,
		"history": false,
		"config":  false,
	}
	for _, c := range rootCmd.Commands() {
		if _, ok := want[c.Name()]; ok {
			want[c.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestRunCommandFlags(t *testing.T) {
	for _, name := range []string{"brand", "industry", "product", "audience", "iterations", "offline", "seed", "score"} {
		if runCmd.Flags().Lookup(name) == nil {
			t.Errorf("run command missing --%s", name)
		}
	}
}

func TestRunRejectsZeroIterations(t *testing.T) {
	runFlags.iterations = 0
	t.Cleanup(func() { runFlags.iterations = 1 })
	if err := runRun(runCmd, nil); err == nil {
		t.Error("zero iterations should be rejected")
	}
}

func TestRedactAPIKey(t *testing.T) {
	settings := map[string]any{
		"llm": map[string]any{"api_key": "secret", "model": "m"},
	}
	redactAPIKey(settings)
	if settings["llm"].(map[string]any)["api_key"] != "****" {
		t.Error("api key not redacted")
	}

	// Missing section is a no-op.
	redactAPIKey(map[string]any{})
}
