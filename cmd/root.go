package cmd

import (
	"github.com/abhisek/coursecheck/internal/config"
	"github.com/abhisek/coursecheck/internal/store"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "coursecheck",
	Short: "Quality auditor for course content",
	Long: "Coursecheck — static quality analysis for course content trees.\n" +
		"Runs nine rule-based checks against a course document, scores the result,\n" +
		"and reports issues graded against a pluggable cognitive taxonomy.",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides COURSECHECK_DB env var)")

	rootCmd.AddCommand(auditCmd)
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(taxonomyCmd)
	rootCmd.AddCommand(courseCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(updateCmd)
}

// resolveDBPath returns the database path using the --db flag (highest
// priority), then the project config, then COURSECHECK_DB, then the default
// XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	cfg, err := config.Load("")
	if err != nil {
		return "", err
	}
	if cfg.DB != "" {
		return cfg.DB, store.EnsureDir(cfg.DB)
	}
	return store.DefaultDBPath()
}

// openStore opens the database at the resolved path.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, err
	}
	return store.Open(dbPath)
}
