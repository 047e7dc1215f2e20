package common

import (
	"math"

	"golang.org/x/exp/constraints"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Numeric helpers shared by the theory packages. Pitch arithmetic works on
// a cyclic space, so most of these deal with modular wrap-around.

// Epsilon is the tolerance used when comparing fractional pitch values
const Epsilon = 1e-9

// Mean calculates the arithmetic mean of a slice using gonum
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}
	return stat.Mean(data, nil)
}

// Sum adds up a slice using gonum
func Sum(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}
	return floats.Sum(data)
}

// Correlation calculates Pearson correlation coefficient between two series
func Correlation(x, y []float64) float64 {
	if len(x) != len(y) || len(x) < 2 {
		return 0.0
	}

	r := stat.Correlation(x, y, nil)
	if math.IsNaN(r) {
		// constant series
		return 0.0
	}
	return r
}

// PosMod returns x mod m in the range [0, m)
func PosMod(x, m float64) float64 {
	r := math.Mod(x, m)
	if r < 0 {
		r += m
	}
	// collapse -0 and values that round to m
	if math.Abs(r-m) < Epsilon {
		return 0
	}
	return r
}

// PosModInt returns x mod m in the range [0, m)
func PosModInt[T constraints.Integer](x, m T) T {
	r := x % m
	if r < 0 {
		r += m
	}
	return r
}

// FloorDiv divides rounding toward negative infinity
func FloorDiv[T constraints.Signed](x, d T) T {
	q := x / d
	if (x%d != 0) && ((x < 0) != (d < 0)) {
		q--
	}
	return q
}

// Abs returns the absolute value of any signed number
func Abs[T constraints.Signed | constraints.Float](x T) T {
	if x < 0 {
		return -x
	}
	return x
}

// Min returns the smaller of two ordered values
func Min[T constraints.Ordered](a, b T) T {
	if a < b {
		return a
	}
	return b
}

// Max returns the larger of two ordered values
func Max[T constraints.Ordered](a, b T) T {
	if a > b {
		return a
	}
	return b
}

// NearlyEqual compares two floats using Epsilon
func NearlyEqual(a, b float64) bool {
	return math.Abs(a-b) < Epsilon
}

// IsMultiple reports whether x is an integer multiple of step
func IsMultiple(x, step float64) bool {
	if step <= 0 {
		return false
	}
	n := x / step
	return math.Abs(n-math.Round(n)) < 1e-7
}

// CircularDistance is the shortest distance between two points on a circle
// of the given circumference, e.g. two pitch classes mod 12
func CircularDistance(a, b, circumference float64) float64 {
	d := PosMod(a-b, circumference)
	return math.Min(d, circumference-d)
}

// Clamp constrains a value to a range
func Clamp[T constraints.Ordered](value, min, max T) T {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
