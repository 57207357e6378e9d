package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/promptbench/promptbench/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "promptbench",
	Short: "Batched LLM evaluation harness",
	Long: `promptbench builds reusable test suites of prompt/reference pairs, scores
candidate model outputs against them in batches using pluggable scoring
methods, and persists suites and runs to disk.

Suites are identified by name: creating a suite whose name already exists
reuses the persisted suite as-is.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		verbose, _ := cmd.Flags().GetBool("verbose")
		if verbose {
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			})))
		}
	},
}

var (
	buildCommit = "unknown"
	buildDate   = "unknown"
)

// SetVersion sets the version for the root command.
func SetVersion(v string) {
	rootCmd.Version = v
}

// SetBuildInfo sets the commit and build date for the version command.
func SetBuildInfo(commit, date string) {
	buildCommit = commit
	buildDate = date
}

// Execute is the main entry point for the CLI application.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "promptbench version %s\n" .Version}}`)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCreateCmd())
	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newMethodsCmd())
	rootCmd.AddCommand(newServeCmd())

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().String("store-dir", "", "Suite/run storage directory (default $PROMPTBENCH_DIR or ./bench_runs)")
}

// storeFromFlags builds the store from the persistent --store-dir flag.
func storeFromFlags(cmd *cobra.Command) *store.Store {
	dir, _ := cmd.Flags().GetString("store-dir")
	return store.New(dir)
}
