package util

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func f(v float64) *float64 { return &v }

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "—", FormatPrice(nil))
	assert.Equal(t, "$0", FormatPrice(f(0)))
	assert.Equal(t, "$12,345", FormatPrice(f(12345)))
	assert.Equal(t, "$1,234,567", FormatPrice(f(1234567)))
	assert.Equal(t, "$999.5", FormatPrice(f(999.5)))
	assert.Equal(t, "—", FormatPrice(f(math.NaN())))
}

func TestFormatYear(t *testing.T) {
	assert.Equal(t, "—", FormatYear(0))
	assert.Equal(t, "2019", FormatYear(2019))
	assert.Equal(t, "2020.5", FormatYear(2020.5))
}

func TestFormatCoords(t *testing.T) {
	assert.Equal(t, "—", FormatCoords(nil, nil))
	assert.Equal(t, "59.930, 30.310", FormatCoords(f(59.93), f(30.31)))
	assert.Equal(t, "59.930, —", FormatCoords(f(59.93), nil))
}

func TestFormatText(t *testing.T) {
	assert.Equal(t, "—", FormatText(""))
	assert.Equal(t, "red", FormatText("red"))
}

func TestFormatNumberInput(t *testing.T) {
	assert.Equal(t, "", FormatNumberInput(nil))
	assert.Equal(t, "25000", FormatNumberInput(f(25000)))
	assert.Equal(t, "59.93", FormatNumberInput(f(59.93)))
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "short", TruncateString("short", 10))
	assert.Equal(t, "abcd...", TruncateString("abcdefghij", 7))
	assert.Equal(t, "ab", TruncateString("abcdef", 2))
}
