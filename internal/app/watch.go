package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/basketmine/internal/miner"
	"github.com/blackwell-systems/basketmine/internal/output"
	"github.com/blackwell-systems/basketmine/internal/watcher"
)

var (
	watchInfile    string
	watchDelimiter string
	watchMinSup    int
	watchPruneRef  string
	watchFormat    string
	watchDebounce  time.Duration

	watchCmd = &cobra.Command{
		Use:   "watch",
		Short: "Re-mine a transaction file whenever it changes",
		Long: `Mine a transaction file once, then keep watching it and mine it again
every time its content changes. Bursts of writes are collapsed into one run
and saves that leave the content unchanged are ignored.

Press Ctrl+C to stop.`,
		Example: `  # Re-mine baskets.csv on every save
  basketmine watch -f baskets.csv -s 3

  # Emit one JSON report per change
  basketmine watch -f baskets.csv --format json`,
		RunE: runWatch,
	}
)

func init() {
	watchCmd.Flags().StringVarP(&watchInfile, "infile", "f", "", "CSV transaction file to watch (required)")
	watchCmd.Flags().StringVar(&watchDelimiter, "delimiter", "", "field delimiter (default: ,)")
	watchCmd.Flags().IntVarP(&watchMinSup, "min-sup", "s", 2, "minimum support (transaction count)")
	watchCmd.Flags().StringVar(&watchPruneRef, "prune-ref", "", "prune reference: level or transactions")
	watchCmd.Flags().StringVar(&watchFormat, "format", output.FormatTable, "output format: table, json or yaml")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watcher.DefaultDebounce, "settle time before re-mining")

	watchCmd.MarkFlagRequired("infile")
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w, err := newFileWatcher(cmd)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Watching %s (Ctrl+C to stop)\n", w.Path())
	return watchUntil(ctx, w)
}

// newFileWatcher builds a watcher that mines and prints the watched file on
// every content change.
func newFileWatcher(cmd *cobra.Command) (*watcher.Watcher, error) {
	switch watchFormat {
	case output.FormatTable, output.FormatJSON, output.FormatYAML:
	default:
		return nil, fmt.Errorf("invalid format: %s (must be table, json or yaml)", watchFormat)
	}

	prune, err := resolvePrune(watchPruneRef)
	if err != nil {
		return nil, err
	}
	minSup := resolveMinSupport(cmd, watchMinSup)
	out := cmd.OutOrStdout()

	onChange := func(path string) error {
		txs, _, err := loadTransactions(path, "", watchDelimiter)
		if err != nil {
			return err
		}

		report := miner.New(minSup,
			miner.WithPruneReference(prune),
			miner.WithLogger(slog.Default().With("source", path)),
		).Rules(txs)

		if watchFormat == output.FormatTable {
			fmt.Fprintf(out, "\n== %s: %s ==\n", time.Now().Format(time.TimeOnly), path)
		}
		return output.Encode(out, watchFormat, report, false)
	}

	return watcher.New(watchInfile, onChange,
		watcher.WithDebounce(watchDebounce),
		watcher.WithLogger(slog.Default()),
	)
}

// watchUntil runs w until ctx is done.
func watchUntil(ctx context.Context, w *watcher.Watcher) error {
	if err := w.Start(); err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	<-ctx.Done()
	return w.Stop()
}
