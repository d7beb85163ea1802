// Package export writes catalog tables as CSV or XLSX downloads.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/couchcryptid/quake-dashboard/internal/domain"
)

// SheetName is the worksheet holding exported rows.
const SheetName = "Earthquakes"

// Content types for the supported formats.
const (
	ContentTypeCSV  = "text/csv; charset=utf-8"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Filename names a download of rows within r, e.g. earthquakes_4.0-7.0.csv.
func Filename(r domain.Range, ext string) string {
	return fmt.Sprintf("earthquakes_%.1f-%.1f.%s", r.Min, r.Max, ext)
}

// WriteCSV writes the header and every row of t, formatted as the dashboard shows them.
func WriteCSV(w io.Writer, t *domain.Table) error {
	g := t.Grid(-1)
	cw := csv.NewWriter(w)
	if err := cw.Write(g.Columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	if err := cw.WriteAll(g.Rows); err != nil {
		return fmt.Errorf("write csv rows: %w", err)
	}
	return nil
}

// WriteXLSX writes t to a single-sheet workbook. Date and numeric columns are
// stored as typed cells; extra columns stay text.
func WriteXLSX(w io.Writer, t *domain.Table) error {
	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck // in-memory workbook

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("name xlsx sheet: %w", err)
	}

	cols := t.Columns()
	header := make([]any, len(cols))
	for i, c := range cols {
		header[i] = c
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("write xlsx header: %w", err)
	}

	for i := 0; i < t.Len(); i++ {
		row := rowValues(t, cols, i)
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("write xlsx row %d: %w", i+1, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

func rowValues(t *domain.Table, cols []string, i int) []any {
	rec := t.Row(i)
	row := make([]any, len(cols))
	extra := 0
	for j, c := range cols {
		switch c {
		case domain.ColDate:
			row[j] = rec.Date
		case domain.ColLatitude:
			row[j] = rec.Latitude
		case domain.ColLongitude:
			row[j] = rec.Longitude
		case domain.ColMagnitude:
			row[j] = rec.Magnitude
		case domain.ColRegion:
			row[j] = rec.Region
		default:
			row[j] = t.Extra[extra].Values[i]
			extra++
		}
	}
	return row
}
