package series

import (
	"log/slog"
	"sort"
	"strconv"
	"time"

	"econfetcher/internal/fetcher"
)

// missingSentinel is the value some providers report for a date with no data
const missingSentinel = "."

// monthLayout is the canonical month format
const monthLayout = "2006-01"

// Normalize converts raw provider observations into a canonical monthly
// series:
//
//  1. observations whose value is null ("") or the missing sentinel are
//     dropped, as are values that do not parse as a number;
//  2. observations dated after now's calendar month are dropped — future
//     data is never valid;
//  3. surviving dates are truncated to their YYYY-MM prefix;
//  4. months with several observations collapse to the one that appears
//     last in fetch order, matching provider behavior where
//     higher-frequency data within a month supersedes earlier entries;
//  5. the result is sorted ascending by month and trimmed to the most
//     recent `window` months.
//
// Normalizing an already-canonical series returns it unchanged.
func Normalize(raw []fetcher.Observation, now time.Time, window int) []Point {
	cutoff := now.Format(monthLayout)

	byMonth := make(map[string]float64, len(raw))
	for _, obs := range raw {
		if obs.Value == "" || obs.Value == missingSentinel {
			continue
		}
		value, err := strconv.ParseFloat(obs.Value, 64)
		if err != nil {
			slog.Debug("dropping unparseable observation", "date", obs.Date, "value", obs.Value)
			continue
		}
		month := monthOf(obs.Date)
		if month == "" || month > cutoff {
			continue
		}
		// last write wins within a month
		byMonth[month] = value
	}

	months := make([]string, 0, len(byMonth))
	for month := range byMonth {
		months = append(months, month)
	}
	sort.Strings(months)

	points := make([]Point, len(months))
	for i, month := range months {
		points[i] = Point{Month: month, Value: byMonth[month]}
	}
	return Window(points, window)
}

// monthOf truncates a provider date to its YYYY-MM prefix. Bare-year dates
// from annual series are attributed to December of that year so they land
// on the monthly grid. Returns "" for dates too short to carry a year.
func monthOf(date string) string {
	switch {
	case len(date) >= 7:
		return date[:7]
	case len(date) == 4:
		return date + "-12"
	default:
		return ""
	}
}
