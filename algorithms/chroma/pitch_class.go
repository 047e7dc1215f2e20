package chroma

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/RyanBlaney/sonido-theory/algorithms/common"
	"github.com/RyanBlaney/sonido-theory/algorithms/stats"
)

// Bins is the number of pitch classes in a profile
const Bins = 12

var pitchClassNames = []string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// PitchClass represents a pitch class (0-11) with associated data
type PitchClass struct {
	Class  int     `json:"class"`  // Pitch class number (0=C, 1=C#, ..., 11=B)
	Name   string  `json:"name"`   // Pitch class name
	Weight float64 `json:"weight"` // Share of the profile's total weight
}

// PitchClassProfile represents a pitch class distribution
type PitchClassProfile struct {
	Profile    []float64 `json:"profile"`    // 12-element distribution, sums to 1 when non-empty
	Entropy    float64   `json:"entropy"`    // Shannon entropy in bits
	Uniformity float64   `json:"uniformity"` // Entropy relative to the uniform distribution
}

// NewProfile accumulates a pitch-class histogram from note values
// (semitones, any octave). Weights are optional, e.g. note durations; a
// nil weights slice counts every note once. Fractional values are split
// between the two neighbouring bins.
func NewProfile(values, weights []float64) *PitchClassProfile {
	profile := make([]float64, Bins)
	for i, v := range values {
		w := 1.0
		if weights != nil && i < len(weights) {
			w = weights[i]
		}
		c := common.PosMod(v, Bins)
		lo := math.Floor(c)
		frac := c - lo
		profile[int(lo)%Bins] += w * (1 - frac)
		if frac > common.Epsilon {
			profile[(int(lo)+1)%Bins] += w * frac
		}
	}
	return FromVector(profile)
}

// FromVector wraps an existing 12-bin vector
func FromVector(vector []float64) *PitchClassProfile {
	profile := make([]float64, Bins)
	copy(profile, vector)

	if total := floats.Sum(profile); total > 0 {
		floats.Scale(1/total, profile)
	}

	p := &PitchClassProfile{Profile: profile}
	p.Entropy = entropyBits(profile)
	p.Uniformity = p.Entropy / math.Log2(Bins)
	return p
}

func entropyBits(p []float64) float64 {
	if floats.Sum(p) == 0 {
		return 0
	}
	return stat.Entropy(p) / math.Ln2
}

// Indicator returns the 0/1 membership vector of a pitch-class set
func Indicator(classes []int) []float64 {
	v := make([]float64, Bins)
	for _, c := range classes {
		v[common.PosModInt(c, Bins)] = 1
	}
	return v
}

// Dominant returns the strongest classes, strongest first; ties go to the
// lower class number
func (p *PitchClassProfile) Dominant(n int) []PitchClass {
	out := make([]PitchClass, 0, Bins)
	for c, w := range p.Profile {
		if w > 0 {
			out = append(out, PitchClass{Class: c, Name: pitchClassNames[c], Weight: w})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Weight > out[j].Weight
	})
	if n >= 0 && n < len(out) {
		out = out[:n]
	}
	return out
}

// Rotate shifts the profile so that class k becomes class 0
func (p *PitchClassProfile) Rotate(k int) []float64 {
	out := make([]float64, Bins)
	for i := range out {
		out[i] = p.Profile[(i+common.PosModInt(k, Bins))%Bins]
	}
	return out
}

// Similarity compares two profiles, 1 meaning identical shape
func (p *PitchClassProfile) Similarity(other *PitchClassProfile) float64 {
	return 1 - stats.CosineDistanceFunc(p.Profile, other.Profile)
}
