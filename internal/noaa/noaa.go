// Package noaa retrieves Great Lakes ice cover observations from the NOAA
// GLERL ERDDAP service and shapes them for the Ice Watch API: a hardened
// HTTP fetcher, a decoder for the tabular JSON envelope, a history window
// filter and a fallback orchestrator that tries endpoint variants in order.
package noaa

import "time"

const (
	// DefaultBaseEndpoint selects the observation time plus the lake-wide
	// ice concentration columns from the GLERL ice dataset.
	DefaultBaseEndpoint = "https://apps.glerl.noaa.gov/erddap/tabledap/glerlIce.json" +
		"?time,Superior,Michigan,Huron,Erie,Ontario,GL_Total"

	// DefaultTimeout bounds a single upstream attempt end to end,
	// including the response body read.
	DefaultTimeout = 14 * time.Second

	userAgent = "GreatLakesIceWatch/1.0"
)

// History window bounds in days. Requests outside the range are clamped,
// not rejected.
const (
	MinDays     = 14
	MaxDays     = 365
	DefaultDays = 90
)
