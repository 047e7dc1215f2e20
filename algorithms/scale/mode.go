package scale

import (
	"fmt"
	"strings"

	"github.com/RyanBlaney/sonido-theory/algorithms/pitch"
)

// Mode identifies the interval pattern of a Key
type Mode int

// The diatonic modes are ordered from the fewest flats to the most
const (
	Custom Mode = iota
	Lydian
	Ionian
	Mixolydian
	Dorian
	Aeolian
	Phrygian
	Locrian

	// Minor is the unqualified minor; it expands to the three variants
	Minor
	NaturalMinor
	HarmonicMinor
	MelodicMinor

	Yo
	In
)

// Major is an alias for Ionian
const Major = Ionian

// DiatonicModes in Lydian-to-Locrian order
var DiatonicModes = []Mode{Lydian, Ionian, Mixolydian, Dorian, Aeolian, Phrygian, Locrian}

// MinorVariants is what an unqualified minor expands to
var MinorVariants = []Mode{NaturalMinor, HarmonicMinor, MelodicMinor}

var modeNames = map[Mode]string{
	Custom:        "Custom",
	Lydian:        "Lydian",
	Ionian:        "Ionian",
	Mixolydian:    "Mixolydian",
	Dorian:        "Dorian",
	Aeolian:       "Aeolian",
	Phrygian:      "Phrygian",
	Locrian:       "Locrian",
	Minor:         "minor",
	NaturalMinor:  "natural minor",
	HarmonicMinor: "harmonic minor",
	MelodicMinor:  "melodic minor",
	Yo:            "Yo",
	In:            "In",
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode accepts mode names case-insensitively, plus "major", "minor",
// "natural", "harmonic", "melodic", "yo", "in" and "insen"
func ParseMode(name string) (Mode, error) {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.TrimSuffix(s, " scale")
	switch s {
	case "major", "ionian", "maj":
		return Ionian, nil
	case "minor", "min", "m":
		return Minor, nil
	case "natural", "natural minor", "aeolian minor":
		return NaturalMinor, nil
	case "harmonic", "harmonic minor":
		return HarmonicMinor, nil
	case "melodic", "melodic minor", "jazz minor":
		return MelodicMinor, nil
	case "yo", "yo scale", "yonanuki":
		return Yo, nil
	case "in", "insen", "in-sen", "miyako-bushi":
		return In, nil
	}
	for m, n := range modeNames {
		if strings.ToLower(n) == s {
			return m, nil
		}
	}
	return Custom, &pitch.ParseError{Input: name, Substring: name, Reason: "unknown mode"}
}

// IsDiatonic reports whether m is one of the seven church modes
func (m Mode) IsDiatonic() bool {
	return m >= Lydian && m <= Locrian
}

// IsMinor reports whether the mode has a minor third above the tonic
func (m Mode) IsMinor() bool {
	switch m {
	case Dorian, Aeolian, Phrygian, Locrian, Minor, NaturalMinor, HarmonicMinor, MelodicMinor, In:
		return true
	}
	return false
}

func deg(number, alteration int) pitch.Interval {
	return pitch.FromDegree(number, alteration)
}

// ascending patterns as spelled intervals from the tonic
var modePatterns = map[Mode][]pitch.Interval{
	Lydian:        {deg(1, 0), deg(2, 0), deg(3, 0), deg(4, 1), deg(5, 0), deg(6, 0), deg(7, 0)},
	Ionian:        {deg(1, 0), deg(2, 0), deg(3, 0), deg(4, 0), deg(5, 0), deg(6, 0), deg(7, 0)},
	Mixolydian:    {deg(1, 0), deg(2, 0), deg(3, 0), deg(4, 0), deg(5, 0), deg(6, 0), deg(7, -1)},
	Dorian:        {deg(1, 0), deg(2, 0), deg(3, -1), deg(4, 0), deg(5, 0), deg(6, 0), deg(7, -1)},
	Aeolian:       {deg(1, 0), deg(2, 0), deg(3, -1), deg(4, 0), deg(5, 0), deg(6, -1), deg(7, -1)},
	Phrygian:      {deg(1, 0), deg(2, -1), deg(3, -1), deg(4, 0), deg(5, 0), deg(6, -1), deg(7, -1)},
	Locrian:       {deg(1, 0), deg(2, -1), deg(3, -1), deg(4, 0), deg(5, -1), deg(6, -1), deg(7, -1)},
	HarmonicMinor: {deg(1, 0), deg(2, 0), deg(3, -1), deg(4, 0), deg(5, 0), deg(6, -1), deg(7, 0)},
	MelodicMinor:  {deg(1, 0), deg(2, 0), deg(3, -1), deg(4, 0), deg(5, 0), deg(6, 0), deg(7, 0)},
	Yo:            {deg(1, 0), deg(2, 0), deg(4, 0), deg(5, 0), deg(6, 0)},
	In:            {deg(1, 0), deg(2, -1), deg(4, 0), deg(5, 0), deg(7, -1)},
}

// falling forms, listed from the tonic downwards, for modes whose descent
// differs from their ascent
var descendingPatterns = map[Mode][]pitch.Interval{
	MelodicMinor: {deg(1, 0), deg(7, -1), deg(6, -1), deg(5, 0), deg(4, 0), deg(3, -1), deg(2, 0)},
	In:           {deg(1, 0), deg(6, -1), deg(5, 0), deg(4, 0), deg(2, -1)},
}

// Pattern returns the ascending interval pattern of a mode
func Pattern(m Mode) ([]pitch.Interval, bool) {
	if m == NaturalMinor {
		m = Aeolian
	}
	p, ok := modePatterns[m]
	if !ok {
		return nil, false
	}
	out := make([]pitch.Interval, len(p))
	copy(out, p)
	return out, true
}

// signature offsets relative to the tonic's line-of-fifths position
var modeSignatureOffset = map[Mode]int{
	Lydian:        1,
	Ionian:        0,
	Mixolydian:    -1,
	Dorian:        -2,
	Aeolian:       -3,
	NaturalMinor:  -3,
	HarmonicMinor: -3,
	MelodicMinor:  -3,
	Phrygian:      -4,
	Locrian:       -5,
}
