package exporter

import (
	"math"
	"strconv"
)

// formatFloat formats a value for CSV output with exactly 2 decimal places.
// Missing values are written empty.
func formatFloat(f float64) string {
	if math.IsNaN(f) {
		return ""
	}
	return strconv.FormatFloat(f, 'f', 2, 64)
}

// formatStat keeps full precision for descriptive statistics
func formatStat(f float64) string {
	if math.IsNaN(f) {
		return ""
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
