package domain

import (
	"context"
	"log/slog"
	"strings"
)

// UnknownRegion labels rows whose region could not be resolved.
const UnknownRegion = "Unknown"

// EnrichRegions fills blank region labels by reverse geocoding each row's
// coordinates. Rows that already carry a label are left alone. If resolver is
// nil or no label is blank, t is returned unchanged; otherwise a new table is
// built. Failed or empty lookups fall back to UnknownRegion (graceful degradation).
func EnrichRegions(ctx context.Context, t *Table, resolver RegionResolver, logger *slog.Logger) *Table {
	if resolver == nil || !hasBlankRegion(t) {
		return t
	}

	b := NewTableBuilder(t.Columns())
	resolved, failed := 0, 0
	for i := 0; i < t.Len(); i++ {
		rec := t.Row(i)
		if strings.TrimSpace(rec.Region) == "" {
			rec.Region = resolveRegion(ctx, resolver, rec, logger)
			if rec.Region == UnknownRegion {
				failed++
			} else {
				resolved++
			}
		}
		b.Append(rec, t.extraRow(i))
	}

	logger.Info("region enrichment complete", "resolved", resolved, "unresolved", failed)
	return b.Build()
}

func resolveRegion(ctx context.Context, resolver RegionResolver, rec Record, logger *slog.Logger) string {
	result, err := resolver.ReverseGeocode(ctx, rec.Latitude, rec.Longitude)
	if err != nil {
		logger.Warn("reverse geocoding failed",
			"lat", rec.Latitude,
			"lon", rec.Longitude,
			"error", err,
		)
		return UnknownRegion
	}
	if result.PlaceName != "" {
		return result.PlaceName
	}
	if result.FormattedAddress != "" {
		return result.FormattedAddress
	}
	return UnknownRegion
}

func hasBlankRegion(t *Table) bool {
	for _, r := range t.RegionDict {
		if strings.TrimSpace(r) == "" {
			return true
		}
	}
	return false
}
