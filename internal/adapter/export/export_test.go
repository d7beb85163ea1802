package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/couchcryptid/quake-dashboard/internal/domain"
)

func sampleTable() *domain.Table {
	b := domain.NewTableBuilder([]string{"Date", "Latitude", "Longitude", "Depth", "Magnitude", "Region"})
	b.Append(domain.Record{
		Date:      time.Date(2023, 2, 6, 1, 17, 34, 0, time.UTC),
		Latitude:  37.226,
		Longitude: 37.014,
		Magnitude: 7.8,
		Region:    "Turkey",
	}, []string{"10.0"})
	b.Append(domain.Record{
		Date:      time.Date(2024, 1, 1, 7, 10, 9, 0, time.UTC),
		Latitude:  37.498,
		Longitude: 137.242,
		Magnitude: 7.5,
		Region:    "Noto Peninsula, Japan",
	}, []string{"10.0"})
	return b.Build()
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleTable()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"Date", "Latitude", "Longitude", "Depth", "Magnitude", "Region"}, records[0])
	assert.Equal(t, []string{"2024-01-01 07:10:09", "37.498", "137.242", "10.0", "7.5", "Noto Peninsula, Japan"}, records[2])
}

func TestWriteCSV_HeaderOnlyWhenNoRows(t *testing.T) {
	empty := sampleTable().Filter(domain.Range{Min: 0, Max: 1})

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, empty))
	assert.Equal(t, "Date,Latitude,Longitude,Depth,Magnitude,Region\n", buf.String())
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, sampleTable()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Date", "Latitude", "Longitude", "Depth", "Magnitude", "Region"}, rows[0])
	assert.Equal(t, "Turkey", rows[1][5])
	assert.Equal(t, "7.8", rows[1][4])
	assert.Equal(t, "10.0", rows[1][3])
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "earthquakes_4.0-7.0.csv", Filename(domain.DefaultRange, "csv"))
	assert.Equal(t, "earthquakes_0.5-9.9.xlsx", Filename(domain.Range{Min: 0.5, Max: 9.9}, "xlsx"))
}
