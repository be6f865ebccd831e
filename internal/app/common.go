package app

import (
	"fmt"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/basketmine/internal/dataset"
	"github.com/blackwell-systems/basketmine/internal/itemset"
	"github.com/blackwell-systems/basketmine/internal/miner"
	"github.com/blackwell-systems/basketmine/internal/store"
)

// openStore opens the dataset store and makes sure its schema exists.
func openStore() (*store.Store, error) {
	path, err := getDBPath()
	if err != nil {
		return nil, err
	}

	st, err := store.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := st.CreateSchema(); err != nil {
		st.Close()
		return nil, fmt.Errorf("failed to create database schema: %w", err)
	}
	return st, nil
}

// loadTransactions reads transactions from a file, a stored dataset, or the
// built-in sample, in that order of preference. It also returns a short
// description of the source for messages and logs.
func loadTransactions(infile, datasetName, delimiter string) ([]itemset.Transaction, string, error) {
	switch {
	case infile != "":
		opts, err := readOptions(delimiter)
		if err != nil {
			return nil, "", err
		}
		txs, err := dataset.Load(infile, opts...)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load transactions: %w", err)
		}
		return txs, infile, nil

	case datasetName != "":
		st, err := openStore()
		if err != nil {
			return nil, "", err
		}
		defer st.Close()

		txs, err := st.LoadTransactions(datasetName)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load transactions: %w", err)
		}
		return txs, "dataset " + datasetName, nil

	default:
		return dataset.Sample(), "built-in sample", nil
	}
}

// readOptions converts the --delimiter flag into loader options.
func readOptions(delimiter string) ([]dataset.Option, error) {
	if delimiter == "" {
		return nil, nil
	}
	if utf8.RuneCountInString(delimiter) != 1 {
		return nil, fmt.Errorf("invalid delimiter %q (must be a single character)", delimiter)
	}
	r, _ := utf8.DecodeRuneInString(delimiter)
	return []dataset.Option{dataset.WithComma(r)}, nil
}

// resolveMinSupport returns the --min-sup flag when it was given and the
// configured default otherwise.
func resolveMinSupport(cmd *cobra.Command, flagValue int) int {
	if cmd.Flags().Changed("min-sup") {
		return flagValue
	}
	return settings().MinSupport
}

// resolvePrune returns the --prune-ref flag when set and the configured
// default otherwise.
func resolvePrune(flagValue string) (miner.PruneReference, error) {
	if flagValue == "" {
		flagValue = settings().PruneReference
	}
	return miner.ParsePruneReference(flagValue)
}
