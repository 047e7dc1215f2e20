package scale

import (
	"math"
	"strings"

	"github.com/RyanBlaney/sonido-theory/algorithms/common"
	"github.com/RyanBlaney/sonido-theory/algorithms/pitch"
)

// movable-do syllables per letter degree, keyed by alteration against the
// major scale
var solfegeTable = [7]map[int]string{
	{0: "do", 1: "di", -1: "de"},
	{0: "re", -1: "ra", 1: "ri"},
	{0: "mi", -1: "me"},
	{0: "fa", 1: "fi", -1: "fe"},
	{0: "sol", 1: "si", -1: "se"},
	{0: "la", -1: "le", 1: "li"},
	{0: "ti", -1: "te"},
}

var majorSemitones = [7]int{0, 2, 4, 5, 7, 9, 11}

// Syllable returns the movable-do syllable of p relative to tonic. The
// syllable follows the spelling: in C, D# is "ri" and Eb is "me".
func Syllable(tonic, p pitch.Pitch) string {
	degree := common.PosModInt(int(p.Letter)-int(tonic.Letter), 7)
	diff := p.Class() - tonic.Class()
	whole := math.Round(diff - p.Microtone + tonic.Microtone)
	alteration := common.PosModInt(int(whole)-majorSemitones[degree]+6, 12) - 6

	base := solfegeTable[degree][0]
	name, ok := solfegeTable[degree][alteration]
	if !ok {
		name = base + pitch.AccidentalString(alteration)
	}

	micro := p.Microtone - tonic.Microtone
	switch {
	case common.NearlyEqual(micro, 0):
	case micro > 0:
		name += "+"
	default:
		name += "d"
	}
	return name
}

func syllables(tonic pitch.Pitch, notes []pitch.Pitch) []string {
	out := make([]string, len(notes))
	for i, n := range notes {
		out[i] = Syllable(tonic, n)
	}
	return out
}

// Solfege names p within the key. Custom-solfège keys look the pitch up in
// their own syllable table; the bool is false when p is not a scale member.
func Solfege(k Key, p pitch.Pitch) (string, bool) {
	for i, n := range k.Notes {
		if n.PitchEqual(p.WithoutOctave()) && i < len(k.Solfege) {
			return k.Solfege[i], true
		}
	}
	for i, n := range k.Descending {
		if n.PitchEqual(p.WithoutOctave()) && i < len(k.DescendingSolfege) {
			return k.DescendingSolfege[i], true
		}
	}
	if k.CustomSolfege {
		return "", false
	}
	return Syllable(k.Tonic, p), false
}

// SolfegeLine renders a key's syllables with the octave "do" appended
func SolfegeLine(k Key) string {
	if len(k.Solfege) == 0 {
		return ""
	}
	return strings.Join(append(append([]string(nil), k.Solfege...), k.Solfege[k.Center]), " ")
}
