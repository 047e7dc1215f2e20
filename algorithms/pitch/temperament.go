package pitch

import (
	"fmt"

	"github.com/RyanBlaney/sonido-theory/algorithms/common"
)

// Temperament is the number of equal divisions of the octave
type Temperament int

const (
	TwelveTET     Temperament = 12
	TwentyFourTET Temperament = 24
)

// CustomLabel is printed for pitches between temperament steps
const CustomLabel = "Custom"

const defaultTuning = TwelveTET

// ParseTemperament accepts 12 or 24
func ParseTemperament(divisions int) (Temperament, error) {
	switch Temperament(divisions) {
	case TwelveTET, TwentyFourTET:
		return Temperament(divisions), nil
	}
	return 0, fmt.Errorf("%d divisions: %w", divisions, ErrTemperament)
}

// Step returns the size of one step in semitones
func (t Temperament) Step() float64 {
	if t <= 0 {
		t = defaultTuning
	}
	return 12.0 / float64(t)
}

// Contains reports whether the value (in semitones) lands on a step
func (t Temperament) Contains(value float64) bool {
	return common.IsMultiple(value, t.Step())
}

// Format spells a pitch, or returns "Custom" when it falls between the
// temperament's steps
func (t Temperament) Format(p Pitch) string {
	if !t.Contains(p.Value()) {
		return CustomLabel
	}
	return p.String()
}

func (t Temperament) String() string {
	return fmt.Sprintf("%d-TET", int(t))
}

// Format spells a raw value in semitones from middle C. Values that are not
// steps of t come back as "Custom".
func Format(value float64, t Temperament, preferFlats bool) string {
	if !t.Contains(value) {
		return CustomLabel
	}
	return FromValue(value, preferFlats).String()
}
