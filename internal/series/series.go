// Package series turns raw provider observations into canonical monthly
// time series and derives year-over-year change from price indexes.
//
// A canonical series holds at most one point per calendar month, months
// strictly ascending, none later than the month of the "now" used to
// normalize it.
package series

// Point is one canonical monthly observation.
// Month is zero-padded "YYYY-MM", so lexicographic comparison is
// chronological comparison.
type Point struct {
	Month string  `json:"month"`
	Value float64 `json:"value"`
}

// Window keeps only the most recent n points of a canonical series.
// Older points are evicted, never the newest. n <= 0 disables trimming.
func Window(points []Point, n int) []Point {
	if n <= 0 || len(points) <= n {
		return points
	}
	return points[len(points)-n:]
}
