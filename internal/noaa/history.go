package noaa

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// HistoryPoint is one observation projected onto the fixed lake schema.
// Readings that are absent or not numeric come out as null, never zero,
// so charts can show gaps instead of fake melt.
type HistoryPoint struct {
	Time     string   `json:"time"`
	Superior *float64 `json:"Superior"`
	Michigan *float64 `json:"Michigan"`
	Huron    *float64 `json:"Huron"`
	Erie     *float64 `json:"Erie"`
	Ontario  *float64 `json:"Ontario"`
	GLTotal  *float64 `json:"GL_Total"`
}

// TrimHistory keeps the records whose observation time falls at or after
// now minus the day window and projects them onto the lake schema. Records
// whose time column is missing or does not parse are dropped. Input order
// is preserved and records itself is never mutated.
func TrimHistory(records []Record, days int, now time.Time) []HistoryPoint {
	if len(records) == 0 {
		return nil
	}

	cutoff := now.Add(-time.Duration(days) * 24 * time.Hour)

	points := make([]HistoryPoint, 0, len(records))
	for _, record := range records {
		timeText := record["time"].String()
		stamp, err := time.Parse(time.RFC3339, timeText)
		if err != nil {
			continue
		}
		if stamp.Before(cutoff) {
			continue
		}

		points = append(points, HistoryPoint{
			Time:     timeText,
			Superior: toFloat(record["Superior"]),
			Michigan: toFloat(record["Michigan"]),
			Huron:    toFloat(record["Huron"]),
			Erie:     toFloat(record["Erie"]),
			Ontario:  toFloat(record["Ontario"]),
			GLTotal:  toFloat(record["GL_Total"]),
		})
	}

	if len(points) == 0 {
		return nil
	}
	return points
}

// toFloat coerces a decoded JSON value to a float pointer. Numbers pass
// through, strings are parsed after trimming whitespace, and everything
// else (null, booleans, nested structures, non-numeric text) is nil.
// Non-finite results are nil as well so the value stays encodable.
func toFloat(value gjson.Result) *float64 {
	var f float64
	switch value.Type {
	case gjson.Number:
		f = value.Num
	case gjson.String:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(value.Str), 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}
