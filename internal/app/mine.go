package app

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/basketmine/internal/miner"
	"github.com/blackwell-systems/basketmine/internal/output"
)

var (
	mineInfile    string
	mineDataset   string
	mineDelimiter string
	mineMinSup    int
	minePruneRef  string
	mineFormat    string
	mineTrace     bool

	mineCmd = &cobra.Command{
		Use:   "mine",
		Short: "Mine frequent itemsets and print the supported rules",
		Long: `Mine the frequent itemsets of a transaction store and print the rules
they support: every proper subset of each frequent itemset, smallest first,
followed by the frequent itemsets themselves.

Input is one of:
  • --infile: a CSV file (first field is the transaction id)
  • --dataset: a dataset stored with 'basketmine import'
  • neither: the built-in nine-transaction sample

--min-sup is an absolute transaction count. Values of zero or less make
every itemset frequent.

--prune-ref chooses what candidate subsets are counted against:
  • level: the previous round's frequent itemsets (default)
  • transactions: the full transaction store`,
		Example: `  # Mine the built-in sample with the default support of 2
  basketmine mine

  # Mine a file with support 3 and show the per-round trace
  basketmine mine -f baskets.csv -s 3 --trace

  # Mine a stored dataset and emit JSON
  basketmine mine -d groceries --format json`,
		RunE: runMine,
	}
)

func init() {
	mineCmd.Flags().StringVarP(&mineInfile, "infile", "f", "", "CSV transaction file")
	mineCmd.Flags().StringVarP(&mineDataset, "dataset", "d", "", "stored dataset name")
	mineCmd.Flags().StringVar(&mineDelimiter, "delimiter", "", "field delimiter for --infile (default: ,)")
	mineCmd.Flags().IntVarP(&mineMinSup, "min-sup", "s", 2, "minimum support (transaction count)")
	mineCmd.Flags().StringVar(&minePruneRef, "prune-ref", "", "prune reference: level or transactions")
	mineCmd.Flags().StringVar(&mineFormat, "format", output.FormatTable, "output format: table, json or yaml")
	mineCmd.Flags().BoolVar(&mineTrace, "trace", false, "include the per-round trace")

	mineCmd.MarkFlagsMutuallyExclusive("infile", "dataset")
}

func runMine(cmd *cobra.Command, args []string) error {
	switch mineFormat {
	case output.FormatTable, output.FormatJSON, output.FormatYAML:
	default:
		return fmt.Errorf("invalid format: %s (must be table, json or yaml)", mineFormat)
	}

	prune, err := resolvePrune(minePruneRef)
	if err != nil {
		return err
	}
	minSup := resolveMinSupport(cmd, mineMinSup)

	txs, source, err := loadTransactions(mineInfile, mineDataset, mineDelimiter)
	if err != nil {
		return err
	}

	var spinner *output.Spinner
	if mineFormat == output.FormatTable {
		spinner = output.NewSpinner(cmd.ErrOrStderr(), fmt.Sprintf("Mining %s", source))
		spinner.Start()
	}

	logger := slog.Default().With("source", source)
	report := miner.New(minSup,
		miner.WithPruneReference(prune),
		miner.WithLogger(logger),
	).Rules(txs)

	if spinner != nil {
		spinner.Stop()
	}

	return output.Encode(cmd.OutOrStdout(), mineFormat, report, mineTrace)
}
