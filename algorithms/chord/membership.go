package chord

import (
	"strconv"
	"strings"

	"github.com/RyanBlaney/sonido-theory/algorithms/pitch"
	"github.com/RyanBlaney/sonido-theory/algorithms/scale"
)

// Membership describes how a chord sits in a key
type Membership struct {
	Diatonic bool          `json:"diatonic"`          // every tone belongs to the key
	Degree   int           `json:"degree"`            // 1-based degree of the root, 0 when the root is foreign
	Numeral  string        `json:"numeral,omitempty"` // roman numeral of the root, e.g. "ii7", "bVII"
	Altered  []pitch.Pitch `json:"altered,omitempty"` // tones outside the key
}

// InScale checks every chord tone against the key by pitch class, so an
// enharmonic respelling still counts as in the key
func InScale(c Chord, k scale.Key) Membership {
	var m Membership
	for _, t := range c.Tones() {
		if !k.Contains(t) {
			m.Altered = append(m.Altered, t)
		}
	}
	m.Diatonic = len(m.Altered) == 0
	if d, ok := k.Degree(c.Root()); ok {
		m.Degree = d
	}
	m.Numeral = Numeral(c, k)
	return m
}

// Contains reports whether the chord is diatonic to k and the degree of
// its root
func Contains(c Chord, k scale.Key) (bool, int) {
	m := InScale(c, k)
	return m.Diatonic, m.Degree
}

var romans = []string{"I", "II", "III", "IV", "V", "VI", "VII"}

// Numeral labels the chord root relative to the key. Seven-note keys get
// roman numerals cased by quality ("ii7", "V7", "viiø7", "bVII"); other
// keys get the degree number.
func Numeral(c Chord, k scale.Key) string {
	if c.IsZero() || k.Len() == 0 {
		return ""
	}
	var prefix string
	degree, ok := k.Degree(c.Root())
	if !ok {
		// name foreign roots against the tonic's major scale
		iv := pitch.ClassInterval(k.Tonic, c.Root())
		n := iv.Number
		maj := pitch.FromDegree(n, 0)
		prefix = pitch.AccidentalString(int(iv.Semitones() - maj.Semitones()))
		degree = n
	}
	if k.Len() != 7 || degree < 1 || degree > 7 {
		return prefix + strconv.Itoa(degree) + numeralSuffix(c, false)
	}

	body := ""
	if c.system == SystemTertian && len(c.members) > 1 {
		body = renderTertian(c.members).body
	}
	roman := romans[degree-1]
	lower := c.system == SystemTertian &&
		((strings.HasPrefix(body, "m") && !strings.HasPrefix(body, "maj")) || strings.HasPrefix(body, "dim"))
	if lower {
		roman = strings.ToLower(roman)
	}
	return prefix + roman + numeralSuffix(c, true)
}

func numeralSuffix(c Chord, roman bool) string {
	switch c.system {
	case SystemQuartal:
		return "q"
	case SystemWholeTone:
		return "wt"
	case SystemHybrid:
		return "h"
	case SystemJapanese:
		return strings.ToLower(c.kind.String())
	}
	if len(c.members) < 2 {
		return ""
	}
	body := renderTertian(c.members).body
	switch {
	case strings.HasPrefix(body, "dim7"):
		return "°7"
	case strings.HasPrefix(body, "dim"):
		return "°"
	case strings.HasPrefix(body, "m7b5"):
		return "ø7"
	case strings.HasPrefix(body, "aug"):
		return "+"
	case strings.Contains(body, "aj7"):
		return "maj7"
	case strings.Contains(body, "7"):
		return "7"
	}
	if !roman && strings.HasPrefix(body, "m") && !strings.HasPrefix(body, "maj") {
		return "m"
	}
	return ""
}
