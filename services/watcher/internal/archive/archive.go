// Package archive turns history points into database-ready observation rows
// for the long-term ice cover archive.
package archive

import (
	"fmt"
	"time"

	"github.com/icewatch/great-lakes-ice-watch/internal/noaa"
)

// ObservationRow is one normalized observation keyed by its time stamp.
type ObservationRow struct {
	ObsTime  time.Time
	Superior *float64
	Michigan *float64
	Huron    *float64
	Erie     *float64
	Ontario  *float64
	GLTotal  *float64
}

// BuildRows converts history points into observation rows. Points whose
// time stamp does not parse are skipped; lake values pass through as-is,
// nulls included.
func BuildRows(points []noaa.HistoryPoint) []ObservationRow {
	rows := make([]ObservationRow, 0, len(points))
	for _, p := range points {
		stamp, err := time.Parse(time.RFC3339, p.Time)
		if err != nil {
			continue
		}
		rows = append(rows, ObservationRow{
			ObsTime:  stamp.UTC(),
			Superior: p.Superior,
			Michigan: p.Michigan,
			Huron:    p.Huron,
			Erie:     p.Erie,
			Ontario:  p.Ontario,
			GLTotal:  p.GLTotal,
		})
	}
	return rows
}

// FilterNew keeps rows at or after the newest archived observation. The
// boundary row is kept on purpose: upstream revises recent values, and the
// re-upsert picks the revision up.
func FilterNew(rows []ObservationRow, lastArchived time.Time) []ObservationRow {
	out := make([]ObservationRow, 0, len(rows))
	for _, row := range rows {
		if row.ObsTime.Before(lastArchived) {
			continue
		}
		out = append(out, row)
	}
	return out
}

// ValueString prints optional lake values for logging.
func ValueString(v *float64) string {
	if v == nil {
		return "null"
	}
	return fmt.Sprintf("%.1f", *v)
}
