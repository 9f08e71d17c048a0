package series

import "math"

// YoYLag is the number of months between a value and its comparison base.
// Callers fetching index series should request at least this much extra
// history so the derived series still fills the retention window.
const YoYLag = 12

// YearOverYear derives the 12-month percentage change from a canonical
// price-index series. The input must already be normalized (monthly,
// deduplicated, ascending).
//
// Fewer than YoYLag+1 points yields an empty series: "not enough history
// yet" is a valid state, not an error. Points whose comparison base is
// zero are skipped rather than producing a non-finite value.
func YearOverYear(points []Point) []Point {
	if len(points) <= YoYLag {
		return nil
	}

	out := make([]Point, 0, len(points)-YoYLag)
	for i := YoYLag; i < len(points); i++ {
		base := points[i-YoYLag].Value
		if base == 0 {
			continue
		}
		change := (points[i].Value - base) / base * 100
		out = append(out, Point{Month: points[i].Month, Value: round2(change)})
	}
	return out
}

// round2 rounds to two decimal places, half away from zero
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
