package app

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/basketmine/internal/dataset"
	"github.com/blackwell-systems/basketmine/internal/output"
)

var (
	importName      string
	importDelimiter string

	importCmd = &cobra.Command{
		Use:   "import <pattern>...",
		Short: "Store CSV transaction files as named datasets",
		Long: `Read CSV transaction files and store them as named datasets in the local
SQLite store, so they can be mined with 'basketmine mine --dataset' or
served by 'basketmine serve'.

Patterns may use * and ** wildcards; only .csv files are imported. The
dataset name is the file name without its extension (a trailing -out1.csv
is removed as a whole). Importing a name that already exists replaces it.`,
		Example: `  # Import one file
  basketmine import groceries.csv

  # Import a file under a different name
  basketmine import exports/2024-q1.csv --name q1

  # Import every CSV below data/
  basketmine import 'data/**/*.csv'`,
		Args: cobra.MinimumNArgs(1),
		RunE: runImport,
	}
)

func init() {
	importCmd.Flags().StringVar(&importName, "name", "", "dataset name (only with a single file)")
	importCmd.Flags().StringVar(&importDelimiter, "delimiter", "", "field delimiter (default: ,)")
}

func runImport(cmd *cobra.Command, args []string) error {
	opts, err := readOptions(importDelimiter)
	if err != nil {
		return err
	}

	var files []string
	seen := make(map[string]bool)
	for _, pattern := range args {
		matches, err := dataset.Discover(pattern)
		if err != nil {
			return fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
	}
	if len(files) == 0 {
		return fmt.Errorf("no CSV files match %v", args)
	}
	if importName != "" && len(files) != 1 {
		return fmt.Errorf("--name requires exactly one file, got %d", len(files))
	}

	// Names are checked before anything is written so a clash leaves the
	// store untouched.
	names := make([]string, len(files))
	sources := make(map[string]string, len(files))
	for i, f := range files {
		name := dataset.Name(f)
		if importName != "" {
			name = importName
		}
		if prev, dup := sources[name]; dup {
			return fmt.Errorf("files %s and %s would both be imported as dataset %q; import them separately with --name", prev, f, name)
		}
		sources[name] = f
		names[i] = name
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	out := cmd.OutOrStdout()
	progress := output.NewProgress(out, len(files))

	total := 0
	for i, f := range files {
		txs, err := dataset.Load(f, opts...)
		if err != nil {
			progress.Finish()
			return fmt.Errorf("failed to load transactions: %w", err)
		}

		name := names[i]

		if err := st.SaveDataset(name, f, txs); err != nil {
			progress.Finish()
			return fmt.Errorf("failed to save dataset %s: %w", name, err)
		}

		slog.Info("dataset imported", "name", name, "source", f, "transactions", len(txs))
		total += len(txs)
		progress.Step(name)
	}
	progress.Finish()

	fmt.Fprintf(out, "\nImported %d dataset(s), %d transactions\n", len(files), total)
	return nil
}
