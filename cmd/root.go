package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/recall/internal/config"
	"github.com/abhisek/recall/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "recall",
	Short: "Spaced-repetition flashcards for the terminal",
	Long: `recall schedules flashcard reviews with the SM-2 algorithm and composes
adaptive study sessions that bring missed items back before the session ends.`,
	SilenceUsage: true,
}

// Execute runs the root command. ctx is cancelled on interrupt.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides RECALL_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file (overrides RECALL_CONFIG env var)")

	rootCmd.AddCommand(collectionCmd)
	rootCmd.AddCommand(itemCmd)
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(studyCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the config file named by --config, RECALL_CONFIG or the
// default XDG location. A missing file yields defaults.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	return config.Load(path)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then RECALL_DB env var, then the config file, then the default XDG path.
func resolveDBPath(cmd *cobra.Command, cfg *config.Config) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if p := os.Getenv("RECALL_DB"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg != nil && cfg.Database.Path != "" {
		return cfg.Database.Path, store.EnsureDir(cfg.Database.Path)
	}
	return store.DefaultDBPath()
}
