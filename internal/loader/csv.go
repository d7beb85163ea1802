// Package loader reads the earthquake catalog from CSV into a domain.Table and
// memoizes the result per file path.
package loader

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/quake-dashboard/internal/domain"
)

var (
	// ErrNotFound is returned when the catalog file does not exist.
	ErrNotFound = errors.New("data file not found")
	// ErrMissingColumn is returned when the header lacks a required column.
	ErrMissingColumn = errors.New("missing required column")
)

// dateLayouts are tried in order when parsing the Date column.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"01/02/2006 15:04:05",
	"01/02/2006",
}

// LoadFile reads the catalog at path. A missing file yields an empty table
// together with an error wrapping ErrNotFound.
func LoadFile(ctx context.Context, path string) (*domain.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.EmptyTable(), fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	return ReadCSV(f)
}

// ReadCSV parses a catalog stream. The header row is required and must name
// every column in domain.RequiredColumns; other columns are kept as strings.
func ReadCSV(r io.Reader) (*domain.Table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("read csv: no header row")
		}
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	for i, h := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}

	idx, err := indexColumns(header)
	if err != nil {
		return nil, err
	}

	b := domain.NewTableBuilder(header)
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		line, _ := reader.FieldPos(0)

		rec, err := parseRecord(row, idx)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		b.Append(rec, extraValues(row, idx.extra))
	}
	return b.Build(), nil
}

type columnIndex struct {
	date, lat, lon, mag, region int
	extra                       []int
}

func indexColumns(header []string) (columnIndex, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		if _, dup := pos[h]; dup {
			return columnIndex{}, fmt.Errorf("duplicate column %q", h)
		}
		pos[h] = i
	}

	var missing []string
	get := func(name string) int {
		i, ok := pos[name]
		if !ok {
			missing = append(missing, name)
			return -1
		}
		return i
	}
	idx := columnIndex{
		date:   get(domain.ColDate),
		lat:    get(domain.ColLatitude),
		lon:    get(domain.ColLongitude),
		mag:    get(domain.ColMagnitude),
		region: get(domain.ColRegion),
	}
	if len(missing) > 0 {
		return columnIndex{}, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}

	required := map[int]bool{idx.date: true, idx.lat: true, idx.lon: true, idx.mag: true, idx.region: true}
	for i := range header {
		if !required[i] {
			idx.extra = append(idx.extra, i)
		}
	}
	return idx, nil
}

func parseRecord(row []string, idx columnIndex) (domain.Record, error) {
	date, err := ParseDate(row[idx.date])
	if err != nil {
		return domain.Record{}, err
	}
	lat, err := parseNumber(domain.ColLatitude, row[idx.lat])
	if err != nil {
		return domain.Record{}, err
	}
	lon, err := parseNumber(domain.ColLongitude, row[idx.lon])
	if err != nil {
		return domain.Record{}, err
	}
	mag, err := parseNumber(domain.ColMagnitude, row[idx.mag])
	if err != nil {
		return domain.Record{}, err
	}
	return domain.Record{
		Date:      date,
		Latitude:  lat,
		Longitude: lon,
		Magnitude: mag,
		Region:    strings.TrimSpace(row[idx.region]),
	}, nil
}

// ParseDate tries each supported layout and normalizes the result to UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("column %s: cannot parse %q as a date", domain.ColDate, s)
}

func parseNumber(col, s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("column %s: %q is not a number", col, s)
	}
	return v, nil
}

func extraValues(row []string, cols []int) []string {
	if len(cols) == 0 {
		return nil
	}
	vals := make([]string, len(cols))
	for j, i := range cols {
		vals[j] = row[i]
	}
	return vals
}
