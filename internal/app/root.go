package app

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/basketmine/internal/config"
	"github.com/blackwell-systems/basketmine/internal/logging"
)

var (
	dbPath    string
	logLevel  string
	logFormat string

	// cfg is loaded before every subcommand runs.
	cfg *config.Config

	// RootCmd is the root command for basketmine
	RootCmd = &cobra.Command{
		Use:   "basketmine",
		Short: "Frequent itemset mining for market-basket transactions",
		Long: `basketmine finds the frequent itemsets of a transaction file with a
level-wise (Apriori-style) search and prints every rule they support.

Transactions are CSV rows: the first field is an id and the rest are items.
An itemset is frequent when at least --min-sup transactions contain it.

Features:
  • Level-wise mining with subset pruning
  • Table, JSON and YAML output with a per-round trace
  • Named datasets kept in a local SQLite store
  • Re-mining on file change
  • A web form and JSON API with Prometheus metrics

Examples:
  # Mine the built-in nine-transaction sample
  basketmine mine

  # Mine a file with minimum support 3
  basketmine mine -f baskets.csv -s 3

  # Store every CSV under data/ as a named dataset
  basketmine import 'data/**/*.csv'

  # Serve the web form
  basketmine serve --datasets-dir ./datasets`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: loadSettings,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "basketmine: frequent itemset mining for transaction files")
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Run 'basketmine mine' to mine the built-in sample.")
			fmt.Fprintln(out, "Run 'basketmine --help' for the full reference.")
			return nil
		},
	}
)

func init() {
	// Global flags
	RootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "dataset store path (default: ~/.basketmine/basketmine.db)")
	RootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (default: warn)")
	RootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: text or json (default: text)")

	// Enable cobra's built-in suggestion feature for unknown subcommands
	RootCmd.SuggestionsMinimumDistance = 2

	RootCmd.AddCommand(mineCmd)
	RootCmd.AddCommand(importCmd)
	RootCmd.AddCommand(datasetsCmd)
	RootCmd.AddCommand(watchCmd)
	RootCmd.AddCommand(serveCmd)
}

// Execute runs the root command
func Execute() error {
	return RootCmd.Execute()
}

// loadSettings reads .env, the config file and the environment, then sets
// up logging on stderr. Flags are applied on top by each command.
func loadSettings(cmd *cobra.Command, args []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	dir, err := config.Dir()
	if err != nil {
		return fmt.Errorf("failed to locate config directory: %w", err)
	}

	loaded, err := config.Load(dir)
	if err != nil {
		return err
	}
	cfg = loaded

	level := cfg.LogLevel
	if logLevel != "" {
		level = logLevel
	}
	format := cfg.LogFormat
	if logFormat != "" {
		format = logFormat
	}
	logging.Setup(level, format, cmd.ErrOrStderr())

	slog.Debug("configuration loaded", "config_dir", dir, "min_support", cfg.MinSupport, "prune_reference", cfg.PruneReference)
	return nil
}

// settings returns the loaded configuration, or the defaults when a command
// runs without the root pre-run (as in tests).
func settings() *config.Config {
	if cfg == nil {
		return config.Default()
	}
	return cfg
}

// getDBPath returns the database path from the flag, the config, or the
// default under ~/.basketmine.
func getDBPath() (string, error) {
	if dbPath != "" {
		return dbPath, nil
	}
	if p := settings().DBPath; p != "" {
		return p, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	dir := filepath.Join(home, ".basketmine")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create basketmine directory: %w", err)
	}

	return filepath.Join(dir, "basketmine.db"), nil
}
