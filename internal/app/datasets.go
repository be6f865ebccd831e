package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/basketmine/internal/output"
)

var (
	datasetsCmd = &cobra.Command{
		Use:   "datasets",
		Short: "List stored datasets",
		Long: `List the datasets kept in the local store, with their transaction counts,
import times and source files.`,
		Example: `  # List datasets
  basketmine datasets

  # Remove one
  basketmine datasets delete groceries`,
		Args: cobra.NoArgs,
		RunE: runDatasets,
	}

	datasetsDeleteCmd = &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a stored dataset",
		Args:  cobra.ExactArgs(1),
		RunE:  runDatasetsDelete,
	}
)

func init() {
	datasetsCmd.AddCommand(datasetsDeleteCmd)
}

func runDatasets(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	datasets, err := st.ListDatasets()
	if err != nil {
		return fmt.Errorf("failed to list datasets: %w", err)
	}

	fmt.Fprint(cmd.OutOrStdout(), output.RenderDatasetTable(datasets))
	return nil
}

func runDatasetsDelete(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.DeleteDataset(args[0]); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Deleted dataset %s\n", args[0])
	return nil
}
