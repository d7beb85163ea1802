package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testHeader = []string{ColDate, ColLatitude, ColLongitude, ColMagnitude, ColRegion, "Depth"}

// sampleTable builds a small catalog with one extra Depth column.
func sampleTable(t *testing.T) *Table {
	t.Helper()
	rows := []struct {
		rec   Record
		depth string
	}{
		{Record{time.Date(2023, 2, 6, 1, 17, 0, 0, time.UTC), 37.17, 37.03, 7.8, "Turkey"}, "17.9"},
		{Record{time.Date(2023, 2, 6, 10, 24, 0, 0, time.UTC), 38.02, 37.2, 7.5, "Turkey"}, "10"},
		{Record{time.Date(2024, 1, 1, 7, 10, 0, 0, time.UTC), 37.49, 137.27, 7.5, "Japan"}, "10"},
		{Record{time.Date(2024, 4, 2, 23, 58, 0, 0, time.UTC), 23.82, 121.56, 7.4, "Taiwan"}, "34.8"},
		{Record{time.Date(2024, 5, 10, 3, 0, 0, 0, time.UTC), 61.2, -149.9, 4.1, "Alaska"}, "35"},
		{Record{time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC), 60.1, -152.6, 3.2, "Alaska"}, "80"},
	}
	b := NewTableBuilder(testHeader)
	for _, r := range rows {
		b.Append(r.rec, []string{r.depth})
	}
	tbl := b.Build()
	require.Equal(t, len(rows), tbl.Len())
	return tbl
}

func TestTable_ColumnsHaveEqualLength(t *testing.T) {
	tbl := sampleTable(t)
	n := tbl.Len()
	assert.Len(t, tbl.Dates, n)
	assert.Len(t, tbl.Latitudes, n)
	assert.Len(t, tbl.Longitudes, n)
	assert.Len(t, tbl.RegionIDs, n)
	require.Len(t, tbl.Extra, 1)
	assert.Len(t, tbl.Extra[0].Values, n)
}

func TestTable_DictionaryEncodesRegions(t *testing.T) {
	tbl := sampleTable(t)
	assert.Equal(t, []string{"Turkey", "Japan", "Taiwan", "Alaska"}, tbl.RegionDict)
	assert.Equal(t, []int32{0, 0, 1, 2, 3, 3}, tbl.RegionIDs)
	assert.Equal(t, "Alaska", tbl.Region(5))
}

func TestEmptyTable(t *testing.T) {
	tbl := EmptyTable()
	assert.True(t, tbl.Empty())
	assert.Equal(t, 0, tbl.Len())
	assert.Nil(t, tbl.Columns())
	assert.Empty(t, tbl.Head(5))
	assert.Empty(t, tbl.Grid(-1).Rows)

	var nilTable *Table
	assert.Equal(t, 0, nilTable.Len())
	assert.Nil(t, nilTable.Columns())
}

func TestTable_Head(t *testing.T) {
	tbl := sampleTable(t)

	head := tbl.Head(5)
	require.Len(t, head, 5)
	assert.Equal(t, "Turkey", head[0].Region)
	assert.Equal(t, 7.8, head[0].Magnitude)

	assert.Len(t, tbl.Head(100), tbl.Len())
	assert.Empty(t, tbl.Head(0))
}

func TestTable_Grid(t *testing.T) {
	tbl := sampleTable(t)
	g := tbl.Grid(2)

	assert.Equal(t, testHeader, g.Columns)
	require.Len(t, g.Rows, 2)
	assert.Equal(t, []string{"2023-02-06 01:17:00", "37.17", "37.03", "7.8", "Turkey", "17.9"}, g.Rows[0])

	assert.Len(t, tbl.Grid(-1).Rows, tbl.Len())
}

func TestTable_ColumnsIsACopy(t *testing.T) {
	tbl := sampleTable(t)
	cols := tbl.Columns()
	cols[0] = "mutated"
	assert.Equal(t, ColDate, tbl.Columns()[0])
}
