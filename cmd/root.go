package cmd

import (
	"github.com/spf13/cobra"

	"github.com/sranjan/examforge/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "examforge",
	Short: "Turn a textbook into a 400-question assessment",
	Long: "ExamForge analyzes an uploaded textbook (PDF or page images), splits it into\n" +
		"four curriculum parts, and generates 100 multiple-choice questions per part.",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to the SQLite request log (overrides config)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the request log path: --db flag first, then the
// configured path. An empty configured path disables persistence and
// yields an empty string.
func resolveDBPath(cmd *cobra.Command, configured string) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if configured == "" {
		return "", nil
	}
	return configured, store.EnsureDir(configured)
}
