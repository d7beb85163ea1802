package domain

import (
	"cmp"
	"slices"
	"time"
)

// HistogramBins is the number of magnitude bins the dashboard draws.
const HistogramBins = 20

// GeoPoint is one marker on the earthquake map. Color and size both encode magnitude.
type GeoPoint struct {
	Lat       float64   `json:"lat"`
	Lon       float64   `json:"lon"`
	Magnitude float64   `json:"magnitude"`
	Region    string    `json:"region"`
	Date      time.Time `json:"date"`
}

// GeoPoints returns one marker per row.
func GeoPoints(t *Table) []GeoPoint {
	pts := make([]GeoPoint, t.Len())
	for i := range pts {
		pts[i] = GeoPoint{
			Lat:       t.Latitudes[i],
			Lon:       t.Longitudes[i],
			Magnitude: t.Magnitudes[i],
			Region:    t.Region(i),
			Date:      t.Dates[i],
		}
	}
	return pts
}

// RegionCount is the number of rows carrying a region label.
type RegionCount struct {
	Region string `json:"region"`
	Count  int    `json:"count"`
}

// RegionCounts tallies rows per region, most frequent first and ties by name.
func RegionCounts(t *Table) []RegionCount {
	counts := make([]int, len(t.RegionDict))
	for _, id := range t.RegionIDs {
		counts[id]++
	}

	out := make([]RegionCount, 0, len(counts))
	for id, n := range counts {
		if n > 0 {
			out = append(out, RegionCount{Region: t.RegionDict[id], Count: n})
		}
	}
	slices.SortFunc(out, func(a, b RegionCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Region, b.Region)
	})
	return out
}

// HistogramSeries holds per-bin counts for one region.
type HistogramSeries struct {
	Region string `json:"region"`
	Counts []int  `json:"counts"`
}

// Histogram is a magnitude distribution stacked by region.
// Edges has len(bins)+1 entries; bin i covers [Edges[i], Edges[i+1]) and the
// last bin also includes its upper edge.
type Histogram struct {
	Edges  []float64         `json:"edges"`
	Series []HistogramSeries `json:"series"`
}

// Total returns the number of rows counted across all bins and series.
func (h Histogram) Total() int {
	n := 0
	for _, s := range h.Series {
		for _, c := range s.Counts {
			n += c
		}
	}
	return n
}

// NewHistogram bins magnitudes into equal-width bins spanning the observed
// range. When every magnitude is equal the span is widened to one unit
// centered on that value. An empty table or non-positive bins yields an
// empty Histogram.
func NewHistogram(t *Table, bins int) Histogram {
	if t.Empty() || bins <= 0 {
		return Histogram{}
	}

	lo, hi := slices.Min(t.Magnitudes), slices.Max(t.Magnitudes)
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}
	width := (hi - lo) / float64(bins)

	edges := make([]float64, bins+1)
	for i := range edges {
		edges[i] = lo + float64(i)*width
	}
	edges[bins] = hi

	perRegion := make([][]int, len(t.RegionDict))
	for i, m := range t.Magnitudes {
		idx := binIndex(edges, m)
		id := t.RegionIDs[i]
		if perRegion[id] == nil {
			perRegion[id] = make([]int, bins)
		}
		perRegion[id][idx]++
	}

	h := Histogram{Edges: edges}
	for id, counts := range perRegion {
		if counts != nil {
			h.Series = append(h.Series, HistogramSeries{Region: t.RegionDict[id], Counts: counts})
		}
	}
	slices.SortFunc(h.Series, func(a, b HistogramSeries) int { return cmp.Compare(a.Region, b.Region) })
	return h
}

// binIndex locates m among the published edges: bin i holds
// edges[i] <= m < edges[i+1], and the last bin also holds its upper edge.
func binIndex(edges []float64, m float64) int {
	pos, found := slices.BinarySearch(edges, m)
	idx := pos
	if !found {
		idx = pos - 1
	}
	return max(0, min(idx, len(edges)-2))
}
