package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/quake-dashboard/internal/domain"
	"github.com/couchcryptid/quake-dashboard/internal/loader"
	"github.com/couchcryptid/quake-dashboard/internal/pipeline"
)

func newSummaryCmd() *cobra.Command {
	var (
		dataPath string
		minMag   float64
		maxMag   float64
	)
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print catalog statistics and region counts for a magnitude range",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rng := domain.Range{Min: minMag, Max: maxMag}.Snap()
			if err := rng.Validate(); err != nil {
				return err
			}
			tbl, err := loader.LoadFile(cmd.Context(), dataPath)
			if errors.Is(err, loader.ErrNotFound) {
				return fmt.Errorf("'%s' file not found", dataPath)
			}
			if err != nil {
				return err
			}
			return printSummary(cmd.OutOrStdout(), tbl, rng)
		},
	}
	cmd.Flags().StringVar(&dataPath, "data", "earthquake_data.csv", "path to the earthquake catalog CSV")
	cmd.Flags().Float64Var(&minMag, "min", domain.DefaultRange.Min, "lower magnitude bound (inclusive)")
	cmd.Flags().Float64Var(&maxMag, "max", domain.DefaultRange.Max, "upper magnitude bound (inclusive)")
	return cmd
}

func printSummary(out io.Writer, tbl *domain.Table, rng domain.Range) error {
	fmt.Fprintf(out, "=== %s ===\n\n", pipeline.Title)
	fmt.Fprintf(out, "Rows: %d   Columns: %s\n\n", tbl.Len(), strings.Join(tbl.Columns(), ", "))

	if tbl.Empty() {
		fmt.Fprintln(out, "Catalog has no rows.")
		return nil
	}

	fmt.Fprintln(out, "Statistics:")
	if err := printGrid(out, domain.Describe(tbl).Grid()); err != nil {
		return err
	}

	filtered := tbl.Filter(rng)
	fmt.Fprintf(out, "\n%s: %d rows\n", pipeline.RangeCaption(rng), filtered.Len())
	if filtered.Empty() {
		fmt.Fprintln(out, pipeline.EmptyRangeMessage)
		return nil
	}

	fmt.Fprintln(out, "\nEarthquakes by region:")
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, rc := range domain.RegionCounts(filtered) {
		fmt.Fprintf(w, "  %s\t%d\n", rc.Region, rc.Count)
	}
	return w.Flush()
}

func printGrid(out io.Writer, g domain.Grid) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, strings.Join(g.Columns, "\t")+"\t")
	for _, row := range g.Rows {
		fmt.Fprintln(w, strings.Join(row, "\t")+"\t")
	}
	return w.Flush()
}
