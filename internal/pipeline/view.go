package pipeline

import (
	"fmt"
	"time"

	"github.com/couchcryptid/quake-dashboard/internal/domain"
)

const (
	// Title is the dashboard heading.
	Title = "Global Earthquake Data Analysis"
	// SourceCaption credits the catalog provider.
	SourceCaption = "Data Source: USGS Earthquake Catalog"
	// EmptyRangeMessage replaces the charts when the filter leaves no rows.
	EmptyRangeMessage = "No earthquakes in the selected magnitude range."
	// PreviewRows is how many rows the raw preview shows.
	PreviewRows = 5
)

// View is everything one dashboard pass displays. When HasData is false only
// Error, Range, LoadedAt and Source are set.
type View struct {
	Error   string `json:"error,omitempty"`
	HasData bool   `json:"has_data"`

	Raw     domain.Grid    `json:"raw"`
	Summary domain.Summary `json:"summary"`

	Range         domain.Range `json:"range"`
	Caption       string       `json:"caption,omitempty"`
	Filtered      domain.Grid  `json:"filtered"`
	FilteredCount int          `json:"filtered_count"`
	FilteredEmpty bool         `json:"filtered_empty"`

	Map          []domain.GeoPoint    `json:"map,omitempty"`
	Histogram    domain.Histogram     `json:"histogram"`
	RegionCounts []domain.RegionCount `json:"region_counts,omitempty"`

	LoadedAt time.Time `json:"loaded_at"`
	Source   string    `json:"source"`
}

// RangeCaption describes the active magnitude window.
func RangeCaption(r domain.Range) string {
	return fmt.Sprintf("Showing earthquakes with magnitude between %.1f and %.1f", r.Min, r.Max)
}

// present fills the raw and derived displays. The raw preview and statistics
// always reflect the full catalog; the charts only the filtered rows.
func present(v *View, full, filtered *domain.Table) {
	v.Raw = full.Grid(PreviewRows)
	v.Summary = domain.Describe(full)

	v.Caption = RangeCaption(v.Range)
	v.Filtered = filtered.Grid(-1)
	v.FilteredCount = filtered.Len()
	v.FilteredEmpty = filtered.Empty()
	if v.FilteredEmpty {
		return
	}

	v.Map = domain.GeoPoints(filtered)
	v.Histogram = domain.NewHistogram(filtered, domain.HistogramBins)
	v.RegionCounts = domain.RegionCounts(filtered)
}
