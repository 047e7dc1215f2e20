package pitch

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/RyanBlaney/sonido-theory/algorithms/common"
)

// Quality of an interval
type Quality int

const (
	Perfect Quality = iota
	Major
	Minor
	Augmented
	Diminished
	DoublyAugmented
	DoublyDiminished
)

func (q Quality) String() string {
	switch q {
	case Perfect:
		return "P"
	case Major:
		return "M"
	case Minor:
		return "m"
	case Augmented:
		return "A"
	case Diminished:
		return "d"
	case DoublyAugmented:
		return "AA"
	case DoublyDiminished:
		return "dd"
	default:
		return "?"
	}
}

// Direction of an interval
type Direction int

const (
	Ascending Direction = iota
	Descending
)

func (d Direction) String() string {
	if d == Descending {
		return "descending"
	}
	return "ascending"
}

// ParseDirection accepts "up"/"ascending" and "down"/"descending"
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "up", "ascending", "asc", "+":
		return Ascending, nil
	case "down", "descending", "desc", "-":
		return Descending, nil
	}
	return Ascending, fmt.Errorf("unknown direction %q", s)
}

// sign returns +1 for ascending, -1 for descending
func (d Direction) sign() int {
	if d == Descending {
		return -1
	}
	return 1
}

// major/perfect sizes for simple interval numbers 1..7
var simpleSemitones = [...]int{0, 2, 4, 5, 7, 9, 11}

// Interval is a spelled distance between two pitches. Number counts letter
// names inclusively (1 = unison, 3 = third, 10 = tenth).
type Interval struct {
	Number    int       `json:"number"`
	Quality   Quality   `json:"quality"`
	Microtone float64   `json:"microtone,omitempty"`
	Direction Direction `json:"direction"`
}

// Common intervals
var (
	Unison        = Interval{Number: 1, Quality: Perfect}
	MinorSecond   = Interval{Number: 2, Quality: Minor}
	MajorSecond   = Interval{Number: 2, Quality: Major}
	MinorThird    = Interval{Number: 3, Quality: Minor}
	MajorThird    = Interval{Number: 3, Quality: Major}
	PerfectFourth = Interval{Number: 4, Quality: Perfect}
	Tritone       = Interval{Number: 4, Quality: Augmented}
	PerfectFifth  = Interval{Number: 5, Quality: Perfect}
	Octave        = Interval{Number: 8, Quality: Perfect}
)

// IsPerfectClass reports whether unison/4th/5th rules apply to the number
func IsPerfectClass(number int) bool {
	switch simpleIndex(number) {
	case 0, 3, 4:
		return true
	}
	return false
}

func simpleIndex(number int) int {
	return common.PosModInt(number-1, 7)
}

// qualityOffset returns the semitone adjustment relative to the
// major/perfect size
func qualityOffset(q Quality, perfect bool) (int, bool) {
	if perfect {
		switch q {
		case Perfect:
			return 0, true
		case Augmented:
			return 1, true
		case Diminished:
			return -1, true
		case DoublyAugmented:
			return 2, true
		case DoublyDiminished:
			return -2, true
		}
		return 0, false
	}
	switch q {
	case Major:
		return 0, true
	case Minor:
		return -1, true
	case Augmented:
		return 1, true
	case Diminished:
		return -2, true
	case DoublyAugmented:
		return 2, true
	case DoublyDiminished:
		return -3, true
	}
	return 0, false
}

func qualityForOffset(offset int, perfect bool) (Quality, bool) {
	if perfect {
		switch offset {
		case 0:
			return Perfect, true
		case 1:
			return Augmented, true
		case -1:
			return Diminished, true
		case 2:
			return DoublyAugmented, true
		case -2:
			return DoublyDiminished, true
		}
		return 0, false
	}
	switch offset {
	case 0:
		return Major, true
	case -1:
		return Minor, true
	case 1:
		return Augmented, true
	case -2:
		return Diminished, true
	case 2:
		return DoublyAugmented, true
	case -3:
		return DoublyDiminished, true
	}
	return 0, false
}

// Valid reports whether the quality can be applied to the number
func (iv Interval) Valid() bool {
	if iv.Number < 1 {
		return false
	}
	_, ok := qualityOffset(iv.Quality, IsPerfectClass(iv.Number))
	return ok
}

// Semitones returns the unsigned size of the interval
func (iv Interval) Semitones() float64 {
	offset, _ := qualityOffset(iv.Quality, IsPerfectClass(iv.Number))
	octaves := (iv.Number - 1) / 7
	return float64(simpleSemitones[simpleIndex(iv.Number)]+12*octaves+offset) + iv.Microtone
}

// Simple reduces a compound interval to within an octave
func (iv Interval) Simple() Interval {
	if iv.Number > 8 {
		iv.Number = simpleIndex(iv.Number) + 1
	}
	return iv
}

// String renders quality+number, e.g. "M3", "P5", "dd7"
func (iv Interval) String() string {
	s := iv.Quality.String() + strconv.Itoa(iv.Number)
	switch {
	case iv.Microtone > 0:
		s += "+"
	case iv.Microtone < 0:
		s += "d"
	}
	return s
}

// DegreeName renders the interval as a chord degree: "9", "b13", "#11",
// "bb7"
func (iv Interval) DegreeName() string {
	offset, _ := qualityOffset(iv.Quality, IsPerfectClass(iv.Number))
	return AccidentalString(offset) + strconv.Itoa(iv.Number)
}

// ParseInterval reads either quality notation ("M3", "P5", "dd7", "AA4")
// or degree notation ("9", "b13", "#11", "bb7"). A trailing "+" or "d"
// adds a quarter tone up or down.
func ParseInterval(text string) (Interval, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return Interval{}, &ParseError{Input: text, Reason: "empty interval"}
	}

	var iv Interval
	switch {
	case strings.HasPrefix(s, "AA"):
		iv.Quality, s = DoublyAugmented, s[2:]
	case strings.HasPrefix(s, "dd"):
		iv.Quality, s = DoublyDiminished, s[2:]
	case s[0] == 'P':
		iv.Quality, s = Perfect, s[1:]
	case s[0] == 'M':
		iv.Quality, s = Major, s[1:]
	case s[0] == 'm':
		iv.Quality, s = Minor, s[1:]
	case s[0] == 'A':
		iv.Quality, s = Augmented, s[1:]
	case s[0] == 'd':
		iv.Quality, s = Diminished, s[1:]
	default:
		return parseDegree(text, s)
	}

	s, micro := trimMicrotone(s)
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return Interval{}, NewParseError(text, len(text)-len(s)-microLen(micro), "invalid interval number")
	}
	iv.Number = n
	iv.Microtone = micro
	if !iv.Valid() {
		return Interval{}, NewParseError(text, 0, fmt.Sprintf("quality %s cannot qualify a %d", iv.Quality, n))
	}
	return iv, nil
}

func parseDegree(text, s string) (Interval, error) {
	alteration := 0
	i := 0
	for i < len(s) && (s[i] == 'b' || s[i] == '#') {
		if s[i] == 'b' {
			alteration--
		} else {
			alteration++
		}
		i++
	}
	rest, micro := trimMicrotone(s[i:])
	n, err := strconv.Atoi(rest)
	if err != nil || n < 1 {
		return Interval{}, NewParseError(text, strings.Index(text, s)+i, "invalid interval")
	}
	q, ok := qualityForOffset(alteration, IsPerfectClass(n))
	if !ok {
		return Interval{}, NewParseError(text, 0, "too many alterations")
	}
	return Interval{Number: n, Quality: q, Microtone: micro}, nil
}

func trimMicrotone(s string) (string, float64) {
	if strings.HasSuffix(s, "+") {
		return s[:len(s)-1], 0.5
	}
	if strings.HasSuffix(s, "d") {
		return s[:len(s)-1], -0.5
	}
	return s, 0
}

func microLen(m float64) int {
	if m != 0 {
		return 1
	}
	return 0
}

// FromDegree builds the interval a chord degree names, e.g. (13, -1) is a
// minor thirteenth ("b13"). Alterations beyond a double accidental are
// clamped.
func FromDegree(number, alteration int) Interval {
	perfect := IsPerfectClass(number)
	lo, hi := -2, 2
	if !perfect {
		lo = -3
	}
	q, _ := qualityForOffset(common.Clamp(alteration, lo, hi), perfect)
	return Interval{Number: number, Quality: q}
}

// Between computes the spelled interval from one octave-qualified pitch to
// another. The direction must agree with how the pitches are placed; unisons
// satisfy either direction.
func Between(from, to Pitch, dir Direction) (Interval, error) {
	if !from.HasOctave {
		return Interval{}, &AmbiguousOctaveError{Pitch: from}
	}
	if !to.HasOctave {
		return Interval{}, &AmbiguousOctaveError{Pitch: to}
	}

	steps := to.diatonicIndex() - from.diatonicIndex()
	semis := to.Value() - from.Value()

	actual := Ascending
	if steps < 0 || (steps == 0 && semis < 0) {
		actual = Descending
	}
	if (steps != 0 || semis != 0) && actual != dir {
		return Interval{}, fmt.Errorf("%s to %s is not %s: %w", from, to, dir, ErrDirectionMismatch)
	}

	// the quarter tone comes from the spellings, the rest is diatonic
	micro := float64(dir.sign()) * (to.Microtone - from.Microtone)
	switch {
	case micro > 0.5+common.Epsilon:
		micro--
	case micro < -0.5-common.Epsilon:
		micro++
	}
	if math.Abs(micro) < common.Epsilon {
		micro = 0
	}
	steps = common.Abs(steps)
	whole := math.Round(float64(dir.sign())*semis - micro)

	number := steps + 1
	base := simpleSemitones[simpleIndex(number)] + 12*(steps/7)
	offset := int(whole) - base
	q, ok := qualityForOffset(offset, IsPerfectClass(number))
	if !ok {
		return Interval{}, fmt.Errorf("interval from %s to %s is altered beyond doubly augmented/diminished", from, to)
	}
	return Interval{Number: number, Quality: q, Microtone: micro, Direction: dir}, nil
}

// Transpose moves p by the interval in the given direction, keeping the
// letter arithmetic so the spelling follows the interval (Fb up a d2 is
// Gbbb, never E). Pitches without an octave stay octave-less.
func Transpose(p Pitch, iv Interval, dir Direction) Pitch {
	sign := dir.sign()
	index := p.diatonicIndex() + sign*(iv.Number-1)
	letter := Letter(common.PosModInt(index, 7))
	octave := common.FloorDiv(index, 7)

	micro := p.Microtone + float64(sign)*iv.Microtone
	if math.Abs(micro) < common.Epsilon {
		micro = 0
	}
	target := p.Value() + float64(sign)*iv.Semitones() - micro
	natural := float64((octave-MiddleOctave)*12 + letter.Semitones())
	acc := math.Round(target - natural)

	out := Pitch{Letter: letter, Accidental: int(acc), Microtone: micro, Octave: octave, HasOctave: true}
	if !p.HasOctave {
		return out.WithoutOctave()
	}
	return out
}

// TransposeUp is Transpose in the ascending direction
func TransposeUp(p Pitch, iv Interval) Pitch {
	return Transpose(p, iv, Ascending)
}

// ClassInterval returns the ascending interval between two pitch classes,
// placing to above from within one octave
func ClassInterval(from, to Pitch) Interval {
	a := from.WithOctave(MiddleOctave)
	b := to.WithOctave(MiddleOctave)
	if b.diatonicIndex() < a.diatonicIndex() || (b.diatonicIndex() == a.diatonicIndex() && b.Value() < a.Value()) {
		b = b.WithOctave(MiddleOctave + 1)
	}
	iv, err := Between(a, b, Ascending)
	if err != nil {
		// spelled beyond doubly altered; fall back to semitone size
		return Interval{Number: b.diatonicIndex() - a.diatonicIndex() + 1, Quality: Perfect}
	}
	return iv
}
