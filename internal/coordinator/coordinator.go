// Package coordinator fans indicator fetches out across countries and
// assembles per-country results, tolerating individual failures.
package coordinator

import (
	"context"
	"log/slog"
	"time"

	"github.com/sourcegraph/conc/pool"

	"econfetcher/internal/fetcher"
	"econfetcher/internal/series"
)

// Indicator identifies one tracked economic quantity
type Indicator string

const (
	// IndicatorInterestRate is the policy/benchmark interest rate
	IndicatorInterestRate Indicator = "interest_rate"
	// IndicatorInflation is consumer price inflation
	IndicatorInflation Indicator = "inflation"
	// IndicatorUnemployment is the unemployment rate
	IndicatorUnemployment Indicator = "unemployment"
)

// Indicators lists every tracked indicator
var Indicators = []Indicator{IndicatorInterestRate, IndicatorInflation, IndicatorUnemployment}

// Kind says how a fetched series becomes the published series
type Kind int

const (
	// KindRate series are already percentages and publish as fetched
	KindRate Kind = iota
	// KindIndex series are raw price indexes: the published series is
	// the derived year-over-year change
	KindIndex
)

// SeriesSpec names one provider series and how to interpret it
type SeriesSpec struct {
	ID   string
	Kind Kind
}

// CountryConfig is the static per-country fetch plan, immutable at run time
type CountryConfig struct {
	Code     string
	Name     string
	Currency string
	Provider string
	Series   map[Indicator]SeriesSpec
}

// CountryResult holds one run's canonical series for one country.
// Indicators that failed to fetch are present as empty series, never as
// missing fields: a run that got nothing still produces a result.
type CountryResult struct {
	Code         string         `json:"-"`
	Name         string         `json:"name"`
	Currency     string         `json:"currency"`
	InterestRate []series.Point `json:"interestRate"`
	Inflation    []series.Point `json:"inflation"`
	Unemployment []series.Point `json:"unemployment"`
	FetchedAt    time.Time      `json:"fetchedAt"`
}

// Points returns the series for one indicator
func (r CountryResult) Points(indicator Indicator) []series.Point {
	switch indicator {
	case IndicatorInterestRate:
		return r.InterestRate
	case IndicatorInflation:
		return r.Inflation
	case IndicatorUnemployment:
		return r.Unemployment
	}
	return nil
}

// TotalPoints counts every fetched point across all results. Zero means
// the run got no data from any source.
func TotalPoints(results map[string]CountryResult) int {
	total := 0
	for _, r := range results {
		total += len(r.InterestRate) + len(r.Inflation) + len(r.Unemployment)
	}
	return total
}

// Coordinator dispatches fetch+normalize(+derive) pipelines concurrently
// across indicators and countries.
type Coordinator struct {
	sources map[string]fetcher.SeriesSource
	window  int
	now     func() time.Time
}

// New creates a coordinator over the given provider registry, retaining
// the most recent `window` months per series.
func New(sources map[string]fetcher.SeriesSource, window int) *Coordinator {
	return &Coordinator{
		sources: sources,
		window:  window,
		now:     time.Now,
	}
}

// indicatorResult tags one indicator fan-out task's outcome; a failed
// fetch carries nil points
type indicatorResult struct {
	indicator Indicator
	points    []series.Point
}

// FetchCountry fetches all configured indicators for one country
// concurrently and assembles the result. Each indicator's failure is
// absorbed as an empty series: one indicator failing never aborts the
// other two, and FetchCountry itself never fails.
func (c *Coordinator) FetchCountry(ctx context.Context, cfg CountryConfig, window fetcher.Window) CountryResult {
	result := CountryResult{
		Code:         cfg.Code,
		Name:         cfg.Name,
		Currency:     cfg.Currency,
		InterestRate: []series.Point{},
		Inflation:    []series.Point{},
		Unemployment: []series.Point{},
		FetchedAt:    c.now().UTC(),
	}

	source, ok := c.sources[cfg.Provider]
	if !ok {
		slog.Error("no source registered for provider",
			"provider", cfg.Provider, "country", cfg.Code)
		return result
	}

	p := pool.NewWithResults[indicatorResult]()
	for indicator, spec := range cfg.Series {
		p.Go(func() indicatorResult {
			points, err := c.fetchIndicator(ctx, source, cfg.Code, spec, window)
			if err != nil {
				slog.Warn("indicator fetch failed, continuing with empty series",
					"country", cfg.Code,
					"indicator", string(indicator),
					"series_id", spec.ID,
					"provider", source.Name(),
					"error", err)
				return indicatorResult{indicator: indicator}
			}
			return indicatorResult{indicator: indicator, points: points}
		})
	}

	for _, ir := range p.Wait() {
		if ir.points == nil {
			continue
		}
		switch ir.indicator {
		case IndicatorInterestRate:
			result.InterestRate = ir.points
		case IndicatorInflation:
			result.Inflation = ir.points
		case IndicatorUnemployment:
			result.Unemployment = ir.points
		}
	}

	return result
}

// fetchIndicator runs the fetch → normalize → derive pipeline for one
// indicator. Index-kind series are converted to their year-over-year
// change and re-trimmed to the retention window.
func (c *Coordinator) fetchIndicator(ctx context.Context, source fetcher.SeriesSource, country string, spec SeriesSpec, window fetcher.Window) ([]series.Point, error) {
	raw, err := source.FetchSeries(ctx, fetcher.SeriesRequest{
		SeriesID:    spec.ID,
		CountryCode: country,
		Window:      window,
	})
	if err != nil {
		return nil, err
	}

	if spec.Kind == KindIndex {
		// Derivation consumes the first YoYLag months, so keep that much
		// extra history here; the post-derivation trim enforces the
		// retention window.
		points := series.Normalize(raw, c.now(), c.window+series.YoYLag)
		return series.Window(series.YearOverYear(points), c.window), nil
	}
	return series.Normalize(raw, c.now(), c.window), nil
}

// FetchAll fetches every requested country concurrently. Every requested
// country's code keys an entry in the result map even when all of its
// indicators failed, so consumers can tell "attempted, got nothing" from
// "not requested".
func (c *Coordinator) FetchAll(ctx context.Context, cfgs []CountryConfig, window fetcher.Window) map[string]CountryResult {
	p := pool.NewWithResults[CountryResult]()
	for _, cfg := range cfgs {
		p.Go(func() CountryResult {
			return c.FetchCountry(ctx, cfg, window)
		})
	}

	results := make(map[string]CountryResult, len(cfgs))
	for _, r := range p.Wait() {
		results[r.Code] = r
	}
	return results
}
