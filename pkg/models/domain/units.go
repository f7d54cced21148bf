package domain

import "math"

// BytesPerGB is the conversion factor used throughout sizing math.
const BytesPerGB = 1024 * 1024 * 1024

// GBFromBytes converts a byte count to gigabytes without rounding.
func GBFromBytes(b int64) float64 {
	return float64(b) / BytesPerGB
}

// RoundTo rounds v to the given number of decimal places, halves away
// from zero.
func RoundTo(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(v*p) / p
}
