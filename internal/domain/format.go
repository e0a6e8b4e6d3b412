package domain

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// Prompt formatting helpers. These render demographic figures the way the
// downstream consumers display them, so the model sees the same shapes.

// FormatCurrency renders a whole-dollar amount with thousands separators,
// e.g. 45000 → "$45,000".
func FormatCurrency(v int) string {
	return "$" + humanize.Comma(int64(v))
}

// FormatCount renders a count with thousands separators, e.g. 1234567 → "1,234,567".
func FormatCount(v int) string {
	return humanize.Comma(int64(v))
}

// FormatPercent renders a percentage with one decimal place, e.g. 45.333 → "45.3%".
func FormatPercent(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

// PercentOf returns n/d as a percentage, or 0 when the denominator is not
// positive. ACS denominators are legitimately zero for sparsely populated
// ZCTAs, so this must never divide by zero.
func PercentOf(n, d int) float64 {
	if d <= 0 {
		return 0
	}
	return float64(n) / float64(d) * 100
}
