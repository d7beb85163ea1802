// Command quakectl works with earthquake catalogs offline: it prints the
// dashboard statistics for a magnitude range, validates catalog integrity,
// and generates deterministic mock catalogs.
//
// Usage:
//
//	quakectl summary  --data earthquake_data.csv --min 4 --max 7
//	quakectl validate --data earthquake_data.csv
//	quakectl genmock  --out earthquake_data.csv --rows 500 --seed 42
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "quakectl",
		Short:        "Inspect, validate, and generate earthquake catalogs",
		SilenceUsage: true,
	}
	root.AddCommand(
		newSummaryCmd(),
		newValidateCmd(),
		newGenmockCmd(),
	)
	return root
}
