package chord

import (
	"fmt"
	"sort"
	"strings"

	"github.com/RyanBlaney/sonido-theory/algorithms/pitch"
	"github.com/RyanBlaney/sonido-theory/algorithms/scale"
)

// Numerals are read against the tonic's major scale, so "bVII" is a whole
// step below the tonic in every mode.
var majorStyles = map[string][]string{
	"pop":        {"I", "V", "vi", "IV"},
	"doo-wop":    {"I", "vi", "IV", "V"},
	"classical":  {"I", "IV", "V", "I"},
	"jazz":       {"ii7", "V7", "Imaj7"},
	"turnaround": {"Imaj7", "vi7", "ii7", "V7"},
	"blues":      {"I7", "IV7", "I7", "V7", "IV7", "I7"},
	"canon":      {"I", "V", "vi", "iii", "IV", "I", "IV", "V"},
}

var minorStyles = map[string][]string{
	"pop":        {"i", "bVI", "bIII", "bVII"},
	"andalusian": {"i", "bVII", "bVI", "V"},
	"jazz":       {"iiø7", "V7", "i7"},
	"epic":       {"i", "bVI", "bVII", "i"},
	"classical":  {"i", "iv", "V", "i"},
}

var modalStyles = map[scale.Mode]map[string][]string{
	scale.Lydian:     {"vamp": {"I", "II", "I", "II"}},
	scale.Mixolydian: {"vamp": {"I", "bVII", "IV", "I"}},
	scale.Dorian:     {"vamp": {"i7", "IV7", "i7", "IV7"}},
	scale.Phrygian:   {"vamp": {"i", "bII", "i", "bII"}},
	scale.Locrian:    {"vamp": {"i°", "bII", "biii", "i°"}},
}

// stacks for the "drone" style of Yo and In keys
var droneSizes = []int{3, 4, 5, 3}

// quartal style: fourth stacks on these scale degrees
var quartalDegrees = []int{1, 4, 5, 1}

func styleTable(m scale.Mode) map[string][]string {
	if t, ok := modalStyles[m]; ok {
		return t
	}
	switch m {
	case scale.Ionian:
		return majorStyles
	case scale.Aeolian, scale.Minor, scale.NaturalMinor, scale.HarmonicMinor, scale.MelodicMinor:
		return minorStyles
	}
	return nil
}

// Styles lists the progression styles available for a key
func Styles(k scale.Key) []string {
	var out []string
	for name := range styleTable(k.Mode) {
		out = append(out, name)
	}
	if k.Mode == scale.Yo || k.Mode == scale.In {
		out = append(out, "drone")
	}
	if k.Len() == 7 {
		out = append(out, "quartal")
	}
	sort.Strings(out)
	return out
}

// DefaultStyle is the style used when none is named
func DefaultStyle(k scale.Key) string {
	switch {
	case k.Mode == scale.Yo, k.Mode == scale.In:
		return "drone"
	case modalStyles[k.Mode] != nil:
		return "vamp"
	case styleTable(k.Mode) != nil:
		return "pop"
	}
	return "quartal"
}

// SuggestProgression returns the chords of a named progression style in k.
// An empty style picks DefaultStyle.
func SuggestProgression(k scale.Key, style string) ([]Chord, error) {
	style = strings.ToLower(strings.TrimSpace(style))
	if style == "" {
		style = DefaultStyle(k)
	}

	switch {
	case style == "drone" && (k.Mode == scale.Yo || k.Mode == scale.In):
		out := make([]Chord, 0, len(droneSizes))
		for _, n := range droneSizes {
			c, err := JapaneseChord(k.Tonic, k.Mode, n)
			if err != nil {
				return nil, err
			}
			out = append(out, c)
		}
		return out, nil
	case style == "quartal" && k.Len() == 7:
		out := make([]Chord, 0, len(quartalDegrees))
		for _, d := range quartalDegrees {
			c, err := QuartalFromScale(k, d, 3)
			if err != nil {
				return nil, err
			}
			out = append(out, c)
		}
		return out, nil
	}

	numerals, ok := styleTable(k.Mode)[style]
	if !ok {
		return nil, fmt.Errorf("%q in %s (have %s): %w", style, k.Title(), strings.Join(Styles(k), ", "), ErrUnknownStyle)
	}
	out := make([]Chord, 0, len(numerals))
	for _, n := range numerals {
		c, err := FromNumeral(k.Tonic, n)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

var numeralRoots = []struct {
	text   string
	degree int
}{
	{"VII", 7}, {"VI", 6}, {"IV", 4}, {"V", 5}, {"III", 3}, {"II", 2}, {"I", 1},
}

// FromNumeral builds the chord a roman numeral names over tonic. Case sets
// the third; accidentals are relative to the major scale; suffixes are
// "7", "maj7", "°", "°7", "ø7" and "+".
func FromNumeral(tonic pitch.Pitch, numeral string) (Chord, error) {
	s := strings.TrimSpace(numeral)
	acc := 0
	i := 0
	for i < len(s) && (s[i] == 'b' || s[i] == '#') {
		if s[i] == 'b' {
			acc--
		} else {
			acc++
		}
		i++
	}

	degree := 0
	lower := false
	for _, r := range numeralRoots {
		if strings.HasPrefix(strings.ToUpper(s[i:]), r.text) {
			lower = s[i:i+len(r.text)] == strings.ToLower(r.text)
			degree = r.degree
			i += len(r.text)
			break
		}
	}
	if degree == 0 {
		return Chord{}, pitch.NewParseError(numeral, i, "expected a roman numeral")
	}

	var body string
	switch suffix := s[i:]; suffix {
	case "":
		if lower {
			body = "m"
		}
	case "7":
		body = "7"
		if lower {
			body = "m7"
		}
	case "maj7":
		body = "maj7"
		if lower {
			body = "mMaj7"
		}
	case "°", "o":
		body = "dim"
	case "°7", "o7":
		body = "dim7"
	case "ø7", "ø":
		body = "m7b5"
	case "+":
		body = "aug"
	default:
		return Chord{}, pitch.NewParseError(numeral, i, "unknown numeral suffix")
	}

	root := pitch.Transpose(tonic.WithoutOctave(), pitch.FromDegree(degree, acc), pitch.Ascending)
	return Parse(root.Name() + body)
}
