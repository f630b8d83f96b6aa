package spatialmath

import "math"

// maxLoopWrap bounds the add/subtract loop in WrapToPi; larger magnitudes are
// first reduced with math.Remainder.
const maxLoopWrap = 64 * math.Pi

// WrapToPi returns the angle equivalent to the input (mod 2π) inside (-π, π].
// Non-finite input is returned unchanged.
func WrapToPi(angle float64) float64 {
	if math.IsNaN(angle) || math.IsInf(angle, 0) {
		return angle
	}
	if math.Abs(angle) > maxLoopWrap {
		angle = math.Remainder(angle, 2*math.Pi)
	}
	for angle > math.Pi {
		angle -= 2 * math.Pi
	}
	for angle <= -math.Pi {
		angle += 2 * math.Pi
	}
	return angle
}

// AngleDiff returns the signed smallest rotation taking from to to, in (-π, π].
func AngleDiff(from, to float64) float64 {
	return WrapToPi(to - from)
}
