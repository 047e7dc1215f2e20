package chroma

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// TonalCentroid is a pitch-class profile projected onto the Tonnetz as
// three circles, in the manner of Harte, Sandler and Gasser:
//
//	[0,1] circle of fifths, radius 1
//	[2,3] circle of minor thirds, radius 1
//	[4,5] circle of major thirds, radius 0.5
//
// Chords sharing tones or a fifth land close together, so the distance
// between centroids measures how far a progression moves harmonically.
type TonalCentroid [6]float64

var tonnetzCircles = []struct {
	angle  float64 // radians per semitone
	radius float64
}{
	{7 * math.Pi / 6, 1},
	{3 * math.Pi / 2, 1},
	{2 * math.Pi / 3, 0.5},
}

// tonnetzBasis[pc] is the centroid of a lone pitch class
var tonnetzBasis = func() [Bins]TonalCentroid {
	var basis [Bins]TonalCentroid
	for pc := range Bins {
		for i, c := range tonnetzCircles {
			basis[pc][2*i] = c.radius * math.Sin(float64(pc)*c.angle)
			basis[pc][2*i+1] = c.radius * math.Cos(float64(pc)*c.angle)
		}
	}
	return basis
}()

// NewTonalCentroid projects a profile; an empty profile maps to the origin
func NewTonalCentroid(p *PitchClassProfile) TonalCentroid {
	var c TonalCentroid
	total := floats.Sum(p.Profile)
	if total <= 0 {
		return c
	}
	for pc, w := range p.Profile {
		if w == 0 {
			continue
		}
		for d := range c {
			c[d] += w * tonnetzBasis[pc][d] / total
		}
	}
	return c
}

// CentroidOf projects a pitch-class set with equal weights
func CentroidOf(classes []int) TonalCentroid {
	return NewTonalCentroid(FromVector(Indicator(classes)))
}

// Distance is the Euclidean distance between two centroids
func (c TonalCentroid) Distance(other TonalCentroid) float64 {
	return floats.Distance(c[:], other[:], 2)
}

// Strength is the distance from the origin. Sets spread evenly round a
// circle (the augmented triad on the major-thirds circle, the chromatic
// aggregate everywhere) cancel out and score low.
func (c TonalCentroid) Strength() float64 {
	return floats.Norm(c[:], 2)
}
