package pitch

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/RyanBlaney/sonido-theory/algorithms/common"
)

// Letter is a natural note name
type Letter int

const (
	C Letter = iota
	D
	E
	F
	G
	A
	B
)

// MiddleOctave is the octave number of middle C, whose value is 0
const MiddleOctave = 4

var letterNames = [...]string{"C", "D", "E", "F", "G", "A", "B"}

// semitones above C for each natural
var letterSemitones = [...]int{0, 2, 4, 5, 7, 9, 11}

func (l Letter) String() string {
	if l < C || l > B {
		return "?"
	}
	return letterNames[l]
}

// Semitones returns the semitone offset of the natural above C
func (l Letter) Semitones() int {
	return letterSemitones[common.PosModInt(int(l), 7)]
}

// Pitch is a spelled note. The spelling (Letter + Accidental) is kept
// through every operation so that e.g. Fb never silently becomes E.
type Pitch struct {
	Letter     Letter  `json:"letter"`
	Accidental int     `json:"accidental"`          // -1 flat, +1 sharp, -2 double flat, ...
	Microtone  float64 `json:"microtone,omitempty"` // fractional semitone adjustment, ±0.5 for quarter tones
	Octave     int     `json:"octave"`              // scientific octave number, only meaningful with HasOctave
	HasOctave  bool    `json:"has_octave"`
}

// New creates a pitch class without octave
func New(letter Letter, accidental int) Pitch {
	return Pitch{Letter: letter, Accidental: accidental, Octave: MiddleOctave}
}

// NewWithOctave creates an octave-qualified pitch
func NewWithOctave(letter Letter, accidental, octave int) Pitch {
	return Pitch{Letter: letter, Accidental: accidental, Octave: octave, HasOctave: true}
}

// MustParse is Parse for literals known to be valid
func MustParse(name string) Pitch {
	p, err := Parse(name)
	if err != nil {
		panic(err)
	}
	return p
}

// Parse reads a note name such as "C", "F#3", "Bbb", "Ex", "Ed4" (quarter
// flat) or "G+5" (quarter sharp). The octave is optional; C4 is middle C.
func Parse(name string) (Pitch, error) {
	s := strings.TrimSpace(name)
	if s == "" {
		return Pitch{}, &ParseError{Input: name, Reason: "empty note name"}
	}
	lead := len(name) - len(strings.TrimLeft(name, " \t"))

	runes := []rune(s)
	letter, ok := letterFromRune(runes[0])
	if !ok {
		return Pitch{}, NewParseError(name, lead, "note must start with a letter A-G")
	}

	p := Pitch{Letter: letter, Octave: MiddleOctave}
	i := 1
scan:
	for i < len(runes) {
		switch runes[i] {
		case '#', '♯':
			p.Accidental++
		case 'x', '𝄪':
			p.Accidental += 2
		case 'b', '♭':
			p.Accidental--
		case '𝄫':
			p.Accidental -= 2
		default:
			break scan
		}
		i++
	}
	if common.Abs(p.Accidental) > 3 {
		return Pitch{}, NewParseError(name, lead+1, "too many accidentals")
	}

	if i < len(runes) {
		switch runes[i] {
		case '+':
			p.Microtone = 0.5
			i++
		case 'd':
			p.Microtone = -0.5
			i++
		}
	}

	rest := string(runes[i:])
	if rest == "" {
		return p, nil
	}
	octave, err := strconv.Atoi(rest)
	if err != nil {
		offset := lead + len(string(runes[:i]))
		return Pitch{}, NewParseError(name, offset, "invalid octave")
	}
	p.Octave = octave
	p.HasOctave = true
	return p, nil
}

func letterFromRune(r rune) (Letter, bool) {
	switch r {
	case 'C', 'c':
		return C, true
	case 'D', 'd':
		return D, true
	case 'E', 'e':
		return E, true
	case 'F', 'f':
		return F, true
	case 'G', 'g':
		return G, true
	case 'A', 'a':
		return A, true
	case 'B', 'b':
		return B, true
	}
	return 0, false
}

// octave returns the octave to use for arithmetic; pitch classes are
// treated as lying in the middle octave
func (p Pitch) octave() int {
	if p.HasOctave {
		return p.Octave
	}
	return MiddleOctave
}

// Value returns semitones relative to middle C (C4 = 0). Pitches without an
// octave are placed in the middle octave.
func (p Pitch) Value() float64 {
	return float64((p.octave()-MiddleOctave)*12+p.Letter.Semitones()+p.Accidental) + p.Microtone
}

// Class returns the pitch class in [0, 12)
func (p Pitch) Class() float64 {
	return common.PosMod(p.Value(), 12)
}

// ClassInt returns the pitch class rounded to the nearest semitone
func (p Pitch) ClassInt() int {
	return common.PosModInt(int(math.Round(p.Value())), 12)
}

// diatonicIndex counts letter steps from C0
func (p Pitch) diatonicIndex() int {
	return p.octave()*7 + int(p.Letter)
}

// WithOctave returns a copy placed in the given octave
func (p Pitch) WithOctave(octave int) Pitch {
	p.Octave = octave
	p.HasOctave = true
	return p
}

// WithoutOctave returns the pitch class of p, keeping the spelling
func (p Pitch) WithoutOctave() Pitch {
	p.Octave = MiddleOctave
	p.HasOctave = false
	return p
}

// Name returns the spelled name without octave, e.g. "C#", "Gbb", "Ed"
func (p Pitch) Name() string {
	var sb strings.Builder
	sb.WriteString(p.Letter.String())
	sb.WriteString(AccidentalString(p.Accidental))
	switch {
	case p.Microtone == 0:
	case common.NearlyEqual(p.Microtone, 0.5):
		sb.WriteByte('+')
	case common.NearlyEqual(p.Microtone, -0.5):
		sb.WriteByte('d')
	default:
		sb.WriteString(fmt.Sprintf("%+.2f", p.Microtone))
	}
	return sb.String()
}

// String returns the name with octave when one is set
func (p Pitch) String() string {
	if !p.HasOctave {
		return p.Name()
	}
	return p.Name() + strconv.Itoa(p.Octave)
}

// AccidentalString renders a signed accidental count as "#"/"b" runs
func AccidentalString(accidental int) string {
	if accidental > 0 {
		return strings.Repeat("#", accidental)
	}
	if accidental < 0 {
		return strings.Repeat("b", -accidental)
	}
	return ""
}

// PitchEqual reports whether two pitches sound the same. Octave-less
// pitches compare by class.
func (p Pitch) PitchEqual(q Pitch) bool {
	if p.HasOctave && q.HasOctave {
		return common.NearlyEqual(p.Value(), q.Value())
	}
	return common.NearlyEqual(p.Class(), q.Class())
}

// SpellingEqual reports whether two pitches are written identically
func (p Pitch) SpellingEqual(q Pitch) bool {
	if p.HasOctave != q.HasOctave {
		return p.Name() == q.Name()
	}
	return p.String() == q.String()
}

var sharpSpellings = [12]Pitch{
	{Letter: C}, {Letter: C, Accidental: 1}, {Letter: D}, {Letter: D, Accidental: 1},
	{Letter: E}, {Letter: F}, {Letter: F, Accidental: 1}, {Letter: G},
	{Letter: G, Accidental: 1}, {Letter: A}, {Letter: A, Accidental: 1}, {Letter: B},
}

var flatSpellings = [12]Pitch{
	{Letter: C}, {Letter: D, Accidental: -1}, {Letter: D}, {Letter: E, Accidental: -1},
	{Letter: E}, {Letter: F}, {Letter: G, Accidental: -1}, {Letter: G},
	{Letter: A, Accidental: -1}, {Letter: A}, {Letter: B, Accidental: -1}, {Letter: B},
}

// FromClass spells an integer pitch class with the default sharp or flat
// spelling. The result has no octave.
func FromClass(class int, preferFlats bool) Pitch {
	class = common.PosModInt(class, 12)
	p := sharpSpellings[class]
	if preferFlats {
		p = flatSpellings[class]
	}
	p.Octave = MiddleOctave
	return p
}

// FromValue spells a raw value (semitones from middle C) as an
// octave-qualified pitch. Fractional parts are carried as Microtone.
func FromValue(value float64, preferFlats bool) Pitch {
	whole := math.Floor(value + common.Epsilon)
	micro := value - whole
	if common.NearlyEqual(micro, 0) {
		micro = 0
	}
	n := int(whole)
	class := common.PosModInt(n, 12)
	octave := common.FloorDiv(n, 12) + MiddleOctave

	p := FromClass(class, preferFlats)
	p.Microtone = micro
	p.Octave = octave
	p.HasOctave = true
	return p
}

// Respell returns the default spelling of p's sounding pitch. This is the
// only operation that changes a spelling.
func Respell(p Pitch, preferFlats bool) Pitch {
	value := p.Value()
	r := FromValue(value, preferFlats)
	if !p.HasOctave {
		return r.WithoutOctave()
	}
	return r
}
