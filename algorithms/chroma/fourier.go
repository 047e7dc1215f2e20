package chroma

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// FourierProfile holds the magnitudes of the discrete Fourier transform of
// a pitch-class set. Each coefficient measures resemblance to an even
// division of the octave:
//
//	f1 chromatic, f2 quartal, f3 triadic (hexatonic), f4 octatonic,
//	f5 diatonic, f6 whole-tone
type FourierProfile struct {
	Magnitudes []float64 `json:"magnitudes"` // |f1| .. |f6|
	Cardinal   int       `json:"cardinal"`   // |f0|, the set size
}

// NewFourierProfile transforms the indicator vector of the given classes
func NewFourierProfile(classes []int) FourierProfile {
	return fourierOf(Indicator(classes))
}

// FourierOf transforms an arbitrary 12-bin profile, e.g. a weighted histogram
func FourierOf(p *PitchClassProfile) FourierProfile {
	return fourierOf(p.Profile)
}

func fourierOf(v []float64) FourierProfile {
	spectrum := fft.FFTReal(v)
	mags := make([]float64, 6)
	for k := 1; k <= 6; k++ {
		mags[k-1] = cmplx.Abs(spectrum[k])
	}
	return FourierProfile{
		Magnitudes: mags,
		Cardinal:   int(cmplx.Abs(spectrum[0]) + 0.5),
	}
}

// Component returns |fk| for k in 1..6
func (fp FourierProfile) Component(k int) float64 {
	if k < 1 || k > len(fp.Magnitudes) {
		return 0
	}
	return fp.Magnitudes[k-1]
}

// Strongest returns the index k of the largest coefficient
func (fp FourierProfile) Strongest() int {
	best := 0
	for i, m := range fp.Magnitudes {
		if m > fp.Magnitudes[best]+1e-9 {
			best = i
		}
	}
	return best + 1
}
