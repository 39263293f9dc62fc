package main

import (
	"github.com/spf13/cobra"
	"github.com/tenexhq/sourcer/internal/store"
)

var (
	storeBackend string
	dbPath       string
	convexURL    string
	targetsPath  string
	verbose      bool
)

var rootCmd = &cobra.Command{
	Use:   "sourcer",
	Short: "AI-powered lead sourcing pipeline",
	Long: `Sourcer discovers developer leads for a set of seed repositories.

It fans out AI researchers across GitHub, Hacker News, and Twitter/X,
merges duplicate findings, validates each candidate with a second model,
and persists the survivors to Convex (or a local SQLite database).

Configuration:
  ANTHROPIC_API_KEY        API key for the research and validation models
  CONVEX_URL               Convex deployment URL (required for --store=convex)
  SOURCER_MODEL_RESEARCH   Override the research model
  SOURCER_MODEL_VALIDATE   Override the validation model`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&storeBackend, "store", "convex", "Persistence backend: convex or sqlite")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database path (default .sourcer/leads.db)")
	rootCmd.PersistentFlags().StringVar(&convexURL, "convex-url", "", "Convex deployment URL (default $CONVEX_URL)")
	rootCmd.PersistentFlags().StringVar(&targetsPath, "targets", "", "YAML file of seed targets (default: built-in list)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print per-lead progress during runs")
}

// storeConfig builds the persistence configuration from the global flags.
func storeConfig() *store.Config {
	cfg := store.DefaultConfig()
	cfg.Backend = store.Backend(storeBackend)
	if dbPath != "" {
		cfg.Path = dbPath
	}
	if convexURL != "" {
		cfg.Endpoint = convexURL
	}
	return cfg
}
