package domain

import (
	"strconv"
	"time"
)

// Required column names in the source CSV.
const (
	ColDate      = "Date"
	ColLatitude  = "Latitude"
	ColLongitude = "Longitude"
	ColMagnitude = "Magnitude"
	ColRegion    = "Region"
)

// RequiredColumns lists the columns every catalog must provide.
var RequiredColumns = []string{ColDate, ColLatitude, ColLongitude, ColMagnitude, ColRegion}

// DateLayout is the display format for Date values.
const DateLayout = "2006-01-02 15:04:05"

// Record is a single earthquake row.
type Record struct {
	Date      time.Time `json:"date"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Magnitude float64   `json:"magnitude"`
	Region    string    `json:"region"`
}

// ExtraColumn holds a non-required CSV column verbatim.
type ExtraColumn struct {
	Name   string
	Values []string
}

// Table holds the catalog in struct-of-arrays form.
type Table struct {
	Dates      []time.Time
	Latitudes  []float64
	Longitudes []float64
	Magnitudes []float64

	// Dictionary encoded regions (ID -> label).
	RegionIDs  []int32
	RegionDict []string

	Extra []ExtraColumn

	// header preserves the source column order; nil means no defined columns.
	header []string
}

// EmptyTable returns a table with zero rows and no defined columns.
func EmptyTable() *Table {
	return &Table{}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Magnitudes)
}

// Empty reports whether the table has no rows.
func (t *Table) Empty() bool {
	return t.Len() == 0
}

// Columns returns the column names in source order, or nil if none are defined.
func (t *Table) Columns() []string {
	if t == nil || t.header == nil {
		return nil
	}
	return append([]string(nil), t.header...)
}

// Region returns the region label of row i.
func (t *Table) Region(i int) string {
	return t.RegionDict[t.RegionIDs[i]]
}

// Row returns row i as a Record.
func (t *Table) Row(i int) Record {
	return Record{
		Date:      t.Dates[i],
		Latitude:  t.Latitudes[i],
		Longitude: t.Longitudes[i],
		Magnitude: t.Magnitudes[i],
		Region:    t.Region(i),
	}
}

// Head returns up to the first n rows.
func (t *Table) Head(n int) []Record {
	n = min(n, t.Len())
	out := make([]Record, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, t.Row(i))
	}
	return out
}

// Records returns every row.
func (t *Table) Records() []Record {
	return t.Head(t.Len())
}

func (t *Table) extraRow(i int) []string {
	if len(t.Extra) == 0 {
		return nil
	}
	vals := make([]string, len(t.Extra))
	for j := range t.Extra {
		vals[j] = t.Extra[j].Values[i]
	}
	return vals
}

// Grid is a display-ready rendering of a table: formatted cells in column order.
type Grid struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// Grid formats up to limit rows for display. A negative limit means all rows.
func (t *Table) Grid(limit int) Grid {
	cols := t.Columns()
	n := t.Len()
	if limit >= 0 {
		n = min(n, limit)
	}
	g := Grid{Columns: cols, Rows: make([][]string, 0, n)}
	for i := 0; i < n; i++ {
		row := make([]string, len(cols))
		extra := 0
		for j, c := range cols {
			switch c {
			case ColDate:
				row[j] = t.Dates[i].Format(DateLayout)
			case ColLatitude:
				row[j] = formatFloat(t.Latitudes[i])
			case ColLongitude:
				row[j] = formatFloat(t.Longitudes[i])
			case ColMagnitude:
				row[j] = formatFloat(t.Magnitudes[i])
			case ColRegion:
				row[j] = t.Region(i)
			default:
				row[j] = t.Extra[extra].Values[i]
				extra++
			}
		}
		g.Rows = append(g.Rows, row)
	}
	return g
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// TableBuilder accumulates rows into a new Table.
type TableBuilder struct {
	t         *Table
	regionIdx map[string]int32
}

// NewTableBuilder starts a table with the given column order. Columns other
// than RequiredColumns become extra string columns, in header order.
func NewTableBuilder(header []string) *TableBuilder {
	t := &Table{}
	if header != nil {
		t.header = append([]string{}, header...)
	}
	for _, h := range header {
		if !isRequired(h) {
			t.Extra = append(t.Extra, ExtraColumn{Name: h})
		}
	}
	return &TableBuilder{t: t, regionIdx: make(map[string]int32)}
}

// Append adds a row. extra must hold one value per extra column, in order.
func (b *TableBuilder) Append(rec Record, extra []string) {
	t := b.t
	t.Dates = append(t.Dates, rec.Date)
	t.Latitudes = append(t.Latitudes, rec.Latitude)
	t.Longitudes = append(t.Longitudes, rec.Longitude)
	t.Magnitudes = append(t.Magnitudes, rec.Magnitude)

	id, ok := b.regionIdx[rec.Region]
	if !ok {
		id = int32(len(t.RegionDict))
		t.RegionDict = append(t.RegionDict, rec.Region)
		b.regionIdx[rec.Region] = id
	}
	t.RegionIDs = append(t.RegionIDs, id)

	for j := range t.Extra {
		v := ""
		if j < len(extra) {
			v = extra[j]
		}
		t.Extra[j].Values = append(t.Extra[j].Values, v)
	}
}

// Build returns the accumulated table. The builder must not be reused.
func (b *TableBuilder) Build() *Table {
	t := b.t
	b.t = nil
	return t
}

func isRequired(name string) bool {
	for _, c := range RequiredColumns {
		if c == name {
			return true
		}
	}
	return false
}
