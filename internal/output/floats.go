package output

import (
	"math"
	"strconv"
	"strings"
)

// Precision is the number of decimals reported for metres and square metres.
const Precision = 3

// RoundTo rounds f to the given number of decimal places, half away from zero.
func RoundTo(f float64, places int) float64 {
	if places < 0 {
		places = 0
	}
	multiplier := math.Pow(10, float64(places))
	r := math.Round(f*multiplier) / multiplier
	if r == 0 {
		// Avoid printing -0.
		return 0
	}
	return r
}

// Round rounds to the report precision.
func Round(f float64) float64 {
	return RoundTo(f, Precision)
}

// RoundPtr rounds a present value and keeps an absent one absent.
func RoundPtr(f *float64) *float64 {
	if f == nil {
		return nil
	}
	r := Round(*f)
	return &r
}

// FormatFloat formats a float at the given precision with no trailing zeros
func FormatFloat(f float64, places int) string {
	rounded := RoundTo(f, places)

	str := strconv.FormatFloat(rounded, 'f', places, 64)
	if !strings.Contains(str, ".") {
		return str
	}

	str = strings.TrimRight(str, "0")
	str = strings.TrimRight(str, ".")

	return str
}

// FormatFixed formats a float with exactly the given number of decimals.
func FormatFixed(f float64, places int) string {
	return strconv.FormatFloat(RoundTo(f, places), 'f', places, 64)
}
