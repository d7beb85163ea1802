// Package domain models earthquake catalog data and the read-only views the
// dashboard derives from it.
//
// # Data Source
//
// The catalog is a static CSV export (typically from the USGS Earthquake
// Catalog) with one row per event. Required columns:
//
//	Date       parsed as a timestamp (see loader for accepted layouts)
//	Latitude   decimal degrees, WGS-84
//	Longitude  decimal degrees, WGS-84
//	Magnitude  decimal, expected in [0, 10]
//	Region     free-text geographic label, e.g. "Alaska" or "Honshu, Japan"
//
// Any other columns are carried along as strings and shown in the raw and
// filtered tables. Extra columns whose values are all numeric also appear in
// the summary statistics.
//
// # Table Layout
//
// [Table] stores the catalog column-wise: one typed slice per column, all of
// equal length. Region labels are dictionary encoded ([Table.RegionIDs] index
// into [Table.RegionDict]), which keeps region grouping to integer arithmetic.
// Tables are immutable once built; [Table.Filter] returns an independent copy.
//
// # Magnitude Range
//
// The dashboard slider covers [0.0, 10.0] in 0.1 steps and defaults to
// [4.0, 7.0]. [Range] bounds are inclusive on both ends.
//
// # Derived Views
//
//	Describe       count, mean, std, min, quartiles, max per numeric column
//	NewHistogram   equal-width magnitude bins, one series per region
//	RegionCounts   rows per region, most frequent first
//	GeoPoints      map markers sized and colored by magnitude
package domain
