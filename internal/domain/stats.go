package domain

import (
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"gonum.org/v1/gonum/stat"
)

// ColumnSummary holds descriptive statistics for one numeric column.
// Std is nil when fewer than two values are present.
type ColumnSummary struct {
	Column string   `json:"column"`
	Count  int      `json:"count"`
	Mean   float64  `json:"mean"`
	Std    *float64 `json:"std"`
	Min    float64  `json:"min"`
	Q1     float64  `json:"q1"`
	Median float64  `json:"median"`
	Q3     float64  `json:"q3"`
	Max    float64  `json:"max"`
}

// DateSummary holds descriptive statistics for the Date column.
type DateSummary struct {
	Count  int       `json:"count"`
	Mean   time.Time `json:"mean"`
	Min    time.Time `json:"min"`
	Q1     time.Time `json:"q1"`
	Median time.Time `json:"median"`
	Q3     time.Time `json:"q3"`
	Max    time.Time `json:"max"`
}

// Summary is the describe() output for a table.
type Summary struct {
	Columns []ColumnSummary `json:"columns"`
	Date    *DateSummary    `json:"date,omitempty"`
}

// Empty reports whether the summary has nothing to show.
func (s Summary) Empty() bool {
	return len(s.Columns) == 0 && s.Date == nil
}

// Describe computes count, mean, std, min, quartiles and max for the
// Latitude, Longitude and Magnitude columns, any all-numeric extra column,
// and the Date column. An empty table yields an empty Summary.
func Describe(t *Table) Summary {
	var s Summary
	if t.Empty() {
		return s
	}

	s.Columns = append(s.Columns,
		summarize(ColLatitude, t.Latitudes),
		summarize(ColLongitude, t.Longitudes),
		summarize(ColMagnitude, t.Magnitudes),
	)
	for _, c := range t.Extra {
		if vals, ok := numericValues(c.Values); ok {
			s.Columns = append(s.Columns, summarize(c.Name, vals))
		}
	}
	s.Date = summarizeDates(t.Dates)
	return s
}

func summarize(name string, values []float64) ColumnSummary {
	sorted := slices.Clone(values)
	slices.Sort(sorted)

	cs := ColumnSummary{
		Column: name,
		Count:  len(sorted),
		Mean:   stat.Mean(sorted, nil),
		Min:    sorted[0],
		Q1:     quantile(sorted, 0.25),
		Median: quantile(sorted, 0.5),
		Q3:     quantile(sorted, 0.75),
		Max:    sorted[len(sorted)-1],
	}
	if len(sorted) > 1 {
		std := stat.StdDev(sorted, nil)
		cs.Std = &std
	}
	return cs
}

// quantile interpolates linearly between the order statistics at (n-1)*p.
// sorted must be ascending and non-empty.
func quantile(sorted []float64, p float64) float64 {
	h := float64(len(sorted)-1) * p
	lo := int(math.Floor(h))
	if lo >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	return sorted[lo] + (h-float64(lo))*(sorted[lo+1]-sorted[lo])
}

// numericValues parses a string column. Blank cells count as missing; any
// other non-numeric cell disqualifies the column.
func numericValues(raw []string) ([]float64, bool) {
	vals := make([]float64, 0, len(raw))
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(v) {
			return nil, false
		}
		vals = append(vals, v)
	}
	return vals, len(vals) > 0
}

func summarizeDates(dates []time.Time) *DateSummary {
	if len(dates) == 0 {
		return nil
	}
	sorted := slices.Clone(dates)
	slices.SortFunc(sorted, func(a, b time.Time) int { return a.Compare(b) })

	// Work in seconds relative to the earliest date to stay clear of int64 overflow.
	base := sorted[0]
	offsets := make([]float64, len(sorted))
	for i, d := range sorted {
		offsets[i] = d.Sub(base).Seconds()
	}
	at := func(sec float64) time.Time {
		return base.Add(time.Duration(sec * float64(time.Second)))
	}

	return &DateSummary{
		Count:  len(sorted),
		Mean:   at(stat.Mean(offsets, nil)),
		Min:    base,
		Q1:     at(quantile(offsets, 0.25)),
		Median: at(quantile(offsets, 0.5)),
		Q3:     at(quantile(offsets, 0.75)),
		Max:    sorted[len(sorted)-1],
	}
}

// summaryStats lists the describe() rows. With a Date column present the std
// row moves to the end, matching describe() output for mixed frames.
var (
	summaryStats      = []string{"count", "mean", "std", "min", "25%", "50%", "75%", "max"}
	summaryStatsDated = []string{"count", "mean", "min", "25%", "50%", "75%", "max", "std"}
)

// Grid lays the summary out as a table with one row per statistic and one
// column per summarized column, Date first.
func (s Summary) Grid() Grid {
	if s.Empty() {
		return Grid{}
	}

	stats := summaryStats
	cols := []string{""}
	if s.Date != nil {
		stats = summaryStatsDated
		cols = append(cols, ColDate)
	}
	for _, c := range s.Columns {
		cols = append(cols, c.Column)
	}

	g := Grid{Columns: cols, Rows: make([][]string, 0, len(stats))}
	for _, name := range stats {
		row := []string{name}
		if s.Date != nil {
			row = append(row, s.Date.cell(name))
		}
		for _, c := range s.Columns {
			row = append(row, c.cell(name))
		}
		g.Rows = append(g.Rows, row)
	}
	return g
}

func (c ColumnSummary) cell(name string) string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', 6, 64) }
	switch name {
	case "count":
		return strconv.Itoa(c.Count)
	case "mean":
		return f(c.Mean)
	case "std":
		if c.Std == nil {
			return "NaN"
		}
		return f(*c.Std)
	case "min":
		return f(c.Min)
	case "25%":
		return f(c.Q1)
	case "50%":
		return f(c.Median)
	case "75%":
		return f(c.Q3)
	case "max":
		return f(c.Max)
	}
	return ""
}

func (d *DateSummary) cell(name string) string {
	switch name {
	case "count":
		return strconv.Itoa(d.Count)
	case "mean":
		return d.Mean.Format(DateLayout)
	case "min":
		return d.Min.Format(DateLayout)
	case "25%":
		return d.Q1.Format(DateLayout)
	case "50%":
		return d.Median.Format(DateLayout)
	case "75%":
		return d.Q3.Format(DateLayout)
	case "max":
		return d.Max.Format(DateLayout)
	}
	return "NaN"
}
