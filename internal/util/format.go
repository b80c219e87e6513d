package util

import (
	"fmt"
	"math"
	"strconv"

	"github.com/dustin/go-humanize"
)

// Missing is shown in place of absent values.
const Missing = "—"

// FormatPrice formats a price as "$12,345", or "—" if nil.
// Fractional prices keep up to two decimals.
func FormatPrice(price *float64) string {
	if price == nil || math.IsNaN(*price) || math.IsInf(*price, 0) {
		return Missing
	}
	v := *price
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return "$" + humanize.Comma(int64(v))
	}
	return "$" + humanize.CommafWithDigits(v, 2)
}

// FormatYear formats a year without grouping, or "—" for zero.
func FormatYear(year float64) string {
	if year == 0 || math.IsNaN(year) || math.IsInf(year, 0) {
		return Missing
	}
	return strconv.FormatFloat(year, 'f', -1, 64)
}

// FormatCoord formats one coordinate with three decimals.
func FormatCoord(v *float64) string {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return Missing
	}
	return strconv.FormatFloat(*v, 'f', 3, 64)
}

// FormatCoords formats a latitude/longitude pair as "59.930, 30.310".
func FormatCoords(lat, lng *float64) string {
	if lat == nil && lng == nil {
		return Missing
	}
	return fmt.Sprintf("%s, %s", FormatCoord(lat), FormatCoord(lng))
}

// FormatText returns s, or "—" if it is empty.
func FormatText(s string) string {
	if s == "" {
		return Missing
	}
	return s
}

// FormatNumberInput renders a number for an input field without trailing zeros.
// Nil becomes the empty string.
func FormatNumberInput(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// TruncateString truncates a string to maxLen and adds "..." if needed.
func TruncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen < 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
