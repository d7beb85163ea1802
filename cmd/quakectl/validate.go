package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/quake-dashboard/internal/domain"
	"github.com/couchcryptid/quake-dashboard/internal/loader"
)

// maxReportedErrors caps the detail printed per failing phase.
const maxReportedErrors = 20

var errValidationFailed = errors.New("validation failed")

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

// csvRow is a raw CSV row with field values keyed by header name.
type csvRow struct {
	lineNum int
	fields  map[string]string
}

func newValidateCmd() *cobra.Command {
	var dataPath string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check catalog schema, row parsing, and value domains",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runValidate(cmd.OutOrStdout(), dataPath)
		},
	}
	cmd.Flags().StringVar(&dataPath, "data", "earthquake_data.csv", "path to the earthquake catalog CSV")
	return cmd
}

func runValidate(out io.Writer, path string) error {
	fmt.Fprintln(out, "=== Earthquake Catalog Integrity Validation ===")
	fmt.Fprintln(out)

	header, rows, err := loadCSV(path)
	if err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}

	phases := []*phase{
		validateSchema(header),
		validateParse(path, len(rows)),
		validateMagnitudes(rows),
		validateCoordinates(rows),
		validateDates(rows),
		validateRegions(rows),
	}

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(out, "  %-42s %s\n", p.name, status)
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Records: %d data rows, %d columns\n", len(rows), len(header))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(out, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			if i == maxReportedErrors {
				fmt.Fprintf(out, "  ... %d more\n", len(p.errors)-maxReportedErrors)
				break
			}
			fmt.Fprintf(out, "  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Fprintln(out, "\nAll validations passed.")
		return nil
	}
	fmt.Fprintln(out, "\nValidation FAILED.")
	return errValidationFailed
}

// ── Data loading ──

func loadCSV(path string) ([]string, []csvRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	all, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(all) == 0 {
		return nil, nil, errors.New("no header row")
	}

	header := make([]string, len(all[0]))
	for i, h := range all[0] {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}

	rows := make([]csvRow, 0, len(all)-1)
	for i, row := range all[1:] {
		fields := make(map[string]string, len(header))
		for j, h := range header {
			if j < len(row) {
				fields[h] = strings.TrimSpace(row[j])
			}
		}
		rows = append(rows, csvRow{lineNum: i + 2, fields: fields})
	}
	return header, rows, nil
}

// ── Phase 1: Schema ──

func validateSchema(header []string) *phase {
	p := &phase{name: "Phase 1: Schema (required columns)"}
	seen := make(map[string]bool, len(header))
	for _, h := range header {
		if seen[h] {
			p.errorf("duplicate column %q", h)
		}
		seen[h] = true
	}
	for _, col := range domain.RequiredColumns {
		if !seen[col] {
			p.errorf("missing required column %q", col)
		}
	}
	return p
}

// ── Phase 2: Parse ──
// The dashboard loader must accept the file and keep every data row.

func validateParse(path string, csvRows int) *phase {
	p := &phase{name: "Phase 2: Parse (dashboard loader)"}
	f, err := os.Open(path)
	if err != nil {
		p.errorf("open: %v", err)
		return p
	}
	defer f.Close()

	tbl, err := loader.ReadCSV(f)
	if err != nil {
		p.errorf("%v", err)
		return p
	}
	if tbl.Len() != csvRows {
		p.errorf("loader kept %d rows, file has %d", tbl.Len(), csvRows)
	}
	return p
}

// ── Phase 3: Magnitude domain ──

func validateMagnitudes(rows []csvRow) *phase {
	p := &phase{name: "Phase 3: Magnitude domain [0, 10]"}
	for _, r := range rows {
		v, ok := number(p, r, domain.ColMagnitude)
		if ok && (v < domain.MinMagnitude || v > domain.MaxMagnitude) {
			p.errorf("line %d: magnitude %v outside slider range", r.lineNum, v)
		}
	}
	return p
}

// ── Phase 4: Coordinate domain ──

func validateCoordinates(rows []csvRow) *phase {
	p := &phase{name: "Phase 4: Coordinate domain"}
	for _, r := range rows {
		if lat, ok := number(p, r, domain.ColLatitude); ok && math.Abs(lat) > 90 {
			p.errorf("line %d: latitude %v outside [-90, 90]", r.lineNum, lat)
		}
		if lon, ok := number(p, r, domain.ColLongitude); ok && math.Abs(lon) > 180 {
			p.errorf("line %d: longitude %v outside [-180, 180]", r.lineNum, lon)
		}
	}
	return p
}

// ── Phase 5: Dates ──

func validateDates(rows []csvRow) *phase {
	p := &phase{name: "Phase 5: Dates (parseable, not in future)"}
	now := domain.Now()
	for _, r := range rows {
		d, err := loader.ParseDate(r.fields[domain.ColDate])
		if err != nil {
			p.errorf("line %d: %v", r.lineNum, err)
			continue
		}
		if d.After(now) {
			p.errorf("line %d: date %s is in the future", r.lineNum, d.Format(domain.DateLayout))
		}
	}
	return p
}

// ── Phase 6: Region labels ──

func validateRegions(rows []csvRow) *phase {
	p := &phase{name: "Phase 6: Region labels (non-blank)"}
	for _, r := range rows {
		if r.fields[domain.ColRegion] == "" {
			p.errorf("line %d: blank region", r.lineNum)
		}
	}
	return p
}

// number parses a numeric field, recording an error if it is not a number.
func number(p *phase, r csvRow, col string) (float64, bool) {
	s, ok := r.fields[col]
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) {
		p.errorf("line %d: %s %q is not a number", r.lineNum, col, s)
		return 0, false
	}
	return v, true
}
