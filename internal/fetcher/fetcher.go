package fetcher

import (
	"context"
	"time"
)

// Observation is one raw data point as reported by an upstream provider.
// Date keeps whatever precision the provider sent (at least a year);
// Value keeps the provider's string form, "" when the provider sent null.
// Missing-value sentinels (e.g. ".") pass through untouched — filtering
// them is the normalizer's job, not the fetcher's.
type Observation struct {
	Date  string
	Value string
}

// Window is the closed date range requested from a provider.
type Window struct {
	Start time.Time
	End   time.Time
}

// WindowEnding returns a window covering the `months` calendar months up to
// and including `end`.
func WindowEnding(end time.Time, months int) Window {
	return Window{
		Start: end.AddDate(0, -months, 0),
		End:   end,
	}
}

// SeriesRequest identifies one time series to fetch from a provider.
type SeriesRequest struct {
	// SeriesID is the provider-recognized series identifier.
	SeriesID string

	// CountryCode is the ISO country code. Single-country providers may
	// ignore it.
	CountryCode string

	Window Window
}

// SeriesSource is the contract every upstream provider implements.
// Each implementation maps its native response envelope into the shared
// Observation shape so downstream stages stay provider-agnostic.
//
// Implementations issue exactly one outbound request per FetchSeries call
// and never retry: a failed call is a terminal failure for that call.
type SeriesSource interface {
	// FetchSeries retrieves raw observations for one series, or a
	// *FetchError describing why no data is available.
	FetchSeries(ctx context.Context, req SeriesRequest) ([]Observation, error)

	// Name returns the provider's short name, used as a registry key and
	// in log lines. Examples: "fred", "worldbank".
	Name() string
}
