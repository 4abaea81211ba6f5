package metrics

import "math"

// round2 rounds to 2 decimal places, matching the original's
// `(x * 100.0).round() / 100.0` convention used throughout metrics/*.rs.
func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// round4 rounds to 4 decimal places, used for edge_density in output
// metadata.
func round4(x float64) float64 {
	return math.Round(x*10000) / 10000
}

// Round2Exported rounds to 2 decimal places; exported for packages
// outside metrics (e.g. output) that need the same rounding convention
// applied to values metrics didn't already round.
func Round2Exported(x float64) float64 {
	return round2(x)
}

// Round4Exported rounds to 4 decimal places; exported for output's
// edge_density calculation.
func Round4Exported(x float64) float64 {
	return round4(x)
}
