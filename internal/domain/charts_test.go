package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegionCounts(t *testing.T) {
	b := NewTableBuilder(RequiredColumns)
	for _, r := range []string{"A", "A", "B"} {
		b.Append(Record{Magnitude: 5, Region: r}, nil)
	}
	counts := RegionCounts(b.Build())

	assert.ElementsMatch(t, []RegionCount{{Region: "A", Count: 2}, {Region: "B", Count: 1}}, counts)
}

func TestRegionCounts_OrderedByCountThenName(t *testing.T) {
	tbl := sampleTable(t)
	counts := RegionCounts(tbl)

	assert.Equal(t, []RegionCount{
		{Region: "Alaska", Count: 2},
		{Region: "Turkey", Count: 2},
		{Region: "Japan", Count: 1},
		{Region: "Taiwan", Count: 1},
	}, counts)
}

func TestRegionCounts_Empty(t *testing.T) {
	assert.Empty(t, RegionCounts(EmptyTable()))
}

func TestGeoPoints(t *testing.T) {
	tbl := sampleTable(t)
	pts := GeoPoints(tbl)

	require.Len(t, pts, tbl.Len())
	assert.Equal(t, 37.17, pts[0].Lat)
	assert.Equal(t, 37.03, pts[0].Lon)
	assert.Equal(t, 7.8, pts[0].Magnitude)
	assert.Equal(t, "Turkey", pts[0].Region)
	assert.Empty(t, GeoPoints(EmptyTable()))
}

func TestNewHistogram(t *testing.T) {
	tbl := tableWithMagnitudes(t, 4.0, 4.1, 5.0, 6.0, 7.0)
	h := NewHistogram(tbl, HistogramBins)

	require.Len(t, h.Edges, HistogramBins+1)
	assert.Equal(t, 4.0, h.Edges[0])
	assert.Equal(t, 7.0, h.Edges[HistogramBins])
	assert.Equal(t, tbl.Len(), h.Total(), "every row lands in exactly one bin")

	require.Len(t, h.Series, 3)
	assert.Equal(t, "A", h.Series[0].Region)
	for _, s := range h.Series {
		assert.Len(t, s.Counts, HistogramBins)
	}

	// the maximum falls in the closed last bin
	last := 0
	for _, s := range h.Series {
		last += s.Counts[HistogramBins-1]
	}
	assert.Equal(t, 1, last)
}

func TestNewHistogram_BinsAgreeWithEdges(t *testing.T) {
	mags := make([]float64, 0, 21)
	for k := 0; k <= 20; k++ {
		mags = append(mags, float64(k)/10)
	}
	h := NewHistogram(tableWithMagnitudes(t, mags...), HistogramBins)
	require.Len(t, h.Edges, HistogramBins+1)

	for i := 0; i < HistogramBins; i++ {
		want := 0
		for _, m := range mags {
			lo, hi := h.Edges[i], h.Edges[i+1]
			if m >= lo && (m < hi || (i == HistogramBins-1 && m == hi)) {
				want++
			}
		}
		got := 0
		for _, s := range h.Series {
			got += s.Counts[i]
		}
		assert.Equal(t, want, got, "bin %d [%v, %v)", i, h.Edges[i], h.Edges[i+1])
	}
	assert.Equal(t, len(mags), h.Total())
}

func TestNewHistogram_SingleValue(t *testing.T) {
	h := NewHistogram(tableWithMagnitudes(t, 5.0, 5.0), 4)
	assert.Equal(t, []float64{4.5, 4.75, 5.0, 5.25, 5.5}, h.Edges)
	assert.Equal(t, 2, h.Total())
	assert.Equal(t, 2, h.Series[0].Counts[2]+h.Series[1].Counts[2])
}

func TestNewHistogram_Empty(t *testing.T) {
	h := NewHistogram(EmptyTable(), HistogramBins)
	assert.Empty(t, h.Edges)
	assert.Empty(t, h.Series)
	assert.Equal(t, 0, h.Total())

	assert.Empty(t, NewHistogram(tableWithMagnitudes(t, 1), 0).Edges)
}
