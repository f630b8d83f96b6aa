// Package utils contains small numeric and concurrency helpers shared across goalnav.
package utils

import (
	"math"

	"github.com/samber/lo"
)

// RadToDeg converts radians to degrees.
func RadToDeg(radians float64) float64 {
	return radians * 180 / math.Pi
}

// Clamp keeps value inside [low, high]. NaN is mapped to low so an actuator
// never receives it.
func Clamp(value, low, high float64) float64 {
	if math.IsNaN(value) {
		return low
	}
	return lo.Clamp(value, low, high)
}

// IsFinite reports whether none of the values is NaN or infinite.
func IsFinite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
