package chord

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/RyanBlaney/sonido-theory/algorithms/pitch"
	"github.com/RyanBlaney/sonido-theory/algorithms/scale"
)

var (
	inversionPattern  = regexp.MustCompile(`(?i)[\s,]*(?:in\s+)?(root\s+position|(first|second|third|fourth|fifth|sixth|1st|2nd|3rd|4th|5th|6th)\s+inversion)\s*$`)
	singleNotePattern = regexp.MustCompile(`(?i)\s*\(?\s*single\s+note\s*\)?\s*$`)

	quartalShort  = regexp.MustCompile(`^q(\d+)?(?:\(([PpAa]+)\))?$`)
	quartalLong   = regexp.MustCompile(`(?i)^\s*quartal\s*(\d+)?$`)
	wholeToneRe   = regexp.MustCompile(`(?i)^\s*(?:wt|whole[- ]?tone)\s*(\d+)?$`)
	hybridRe      = regexp.MustCompile(`(?i)^\s*(?:h|hybrid)\s*(\d+)?$`)
	japaneseRe    = regexp.MustCompile(`(?i)^\s*(yo|in)\s*(\d+)?$`)
	addPattern    = regexp.MustCompile(`^add\s*([b#♭♯]*)(\d+)`)
	alterPattern  = regexp.MustCompile(`^([b#♭♯])(5|9|11|13)`)
	numberPattern = regexp.MustCompile(`^(6/9|69|13|11|9|7|6|5)`)
)

var inversionWords = map[string]int{
	"first": 1, "1st": 1,
	"second": 2, "2nd": 2,
	"third": 3, "3rd": 3,
	"fourth": 4, "4th": 4,
	"fifth": 5, "5th": 5,
	"sixth": 6, "6th": 6,
}

// Parse reads a chord symbol. Besides tertian symbols ("Cmaj7#11",
// "F#m7b5/E", "C6/9", "Cm(maj7)", "Bbø7") it accepts the symbols the other
// systems render ("Cq4", "Fq(AP)", "Dwt", "Eh5", "Ayo3") and their long
// forms ("C quartal", "D whole-tone", "E hybrid"). A trailing "first
// inversion" or similar phrase puts that member in the bass.
func Parse(symbol string) (Chord, error) {
	s := strings.TrimSpace(symbol)
	if s == "" {
		return Chord{}, pitch.NewParseError(symbol, 0, "empty chord symbol")
	}

	inversion := 0
	if m := inversionPattern.FindStringSubmatchIndex(s); m != nil {
		if m[4] >= 0 {
			inversion = inversionWords[strings.ToLower(s[m[4]:m[5]])]
		}
		s = strings.TrimSpace(s[:m[0]])
	}

	var bass *pitch.Pitch
	if idx := strings.LastIndex(s, "/"); idx > 0 {
		if p, err := pitch.Parse(strings.TrimSpace(s[idx+1:])); err == nil && !p.HasOctave {
			bass = &p
			s = strings.TrimSpace(s[:idx])
		}
	}
	if bass != nil && inversion > 0 {
		return Chord{}, pitch.NewParseError(symbol, 0, "both a slash bass and an inversion")
	}

	root, n, err := parseRoot(s)
	if err != nil {
		return Chord{}, pitch.NewParseError(symbol, 0, err.Error())
	}
	rest := s[n:]

	c, err := parseBody(symbol, root, rest, n)
	if err != nil {
		return Chord{}, err
	}

	switch {
	case bass != nil:
		c = c.WithBass(*bass)
	case inversion > 0:
		if c, err = c.Invert(inversion); err != nil {
			return Chord{}, pitch.NewParseError(symbol, 0, err.Error())
		}
	}
	return c, nil
}

// MustParse is Parse for symbols known to be valid
func MustParse(symbol string) Chord {
	c, err := Parse(symbol)
	if err != nil {
		panic(err)
	}
	return c
}

// parseRoot reads a letter and its accidentals, returning the byte length
// consumed
func parseRoot(s string) (pitch.Pitch, int, error) {
	if s == "" {
		return pitch.Pitch{}, 0, errors.New("missing root")
	}
	n := 1
	for n < len(s) {
		r, size := utf8.DecodeRuneInString(s[n:])
		if r != '#' && r != 'b' && r != '♯' && r != '♭' {
			break
		}
		n += size
	}
	p, err := pitch.Parse(s[:n])
	if err != nil {
		return pitch.Pitch{}, 0, fmt.Errorf("invalid root %q", s[:n])
	}
	return p, n, nil
}

func stackSize(text string, def int) int {
	if text == "" {
		return def
	}
	k, _ := strconv.Atoi(text)
	return k
}

func parseBody(input string, root pitch.Pitch, rest string, offset int) (Chord, error) {
	wrap := func(err error) error {
		return pitch.NewParseError(input, offset, err.Error())
	}

	if singleNotePattern.MatchString(rest) {
		return New(root, SystemTertian, nil), nil
	}
	if m := quartalShort.FindStringSubmatch(rest); m != nil {
		if m[2] != "" {
			steps := make([]pitch.Interval, 0, len(m[2]))
			for _, r := range strings.ToUpper(m[2]) {
				if r == 'A' {
					steps = append(steps, pitch.Tritone)
				} else {
					steps = append(steps, pitch.PerfectFourth)
				}
			}
			if m[1] != "" && stackSize(m[1], 0) != len(steps)+1 {
				return Chord{}, pitch.NewParseError(input, offset, "step pattern does not match the stack size")
			}
			c, err := QuartalPattern(root, steps)
			if err != nil {
				return Chord{}, wrap(err)
			}
			return c, nil
		}
		c, err := Quartal(root, stackSize(m[1], 3), 0)
		if err != nil {
			return Chord{}, wrap(err)
		}
		return c, nil
	}
	if m := quartalLong.FindStringSubmatch(rest); m != nil {
		c, err := Quartal(root, stackSize(m[1], 3), 0)
		if err != nil {
			return Chord{}, wrap(err)
		}
		return c, nil
	}
	if m := wholeToneRe.FindStringSubmatch(rest); m != nil {
		c, err := WholeTone(root, stackSize(m[1], 3))
		if err != nil {
			return Chord{}, wrap(err)
		}
		return c, nil
	}
	if m := hybridRe.FindStringSubmatch(rest); m != nil {
		c, err := Hybrid(root, stackSize(m[1], 5)-2)
		if err != nil {
			return Chord{}, wrap(err)
		}
		return c, nil
	}
	if m := japaneseRe.FindStringSubmatch(rest); m != nil {
		kind := scale.Yo
		if strings.EqualFold(m[1], "in") {
			kind = scale.In
		}
		c, err := JapaneseChord(root, kind, stackSize(m[2], 3))
		if err != nil {
			return Chord{}, wrap(err)
		}
		return c, nil
	}

	spec, err := parseTertian(input, rest, offset)
	if err != nil {
		return Chord{}, err
	}
	return New(root, SystemTertian, spec.intervals()), nil
}

// tertianSpec collects what a tertian symbol asks for before it is spelled
type tertianSpec struct {
	minor    bool
	noThird  bool
	sus      int // 0, 2 or 4
	fifth    int // -1 diminished, 0 perfect, +1 augmented
	noFifth  bool
	seventh  int // 0 none, 9 diminished, 10 minor, 11 major
	sixth    bool
	ext      int // 0, 9, 11 or 13
	nine     bool
	power    bool
	dim      bool
	halfDim  bool
	majorTag bool
	alts     []pitch.Interval
	adds     []pitch.Interval
}

type token struct {
	text  string
	apply func(*tertianSpec)
}

// tokens are tried in order at each position, so longer spellings come
// before their prefixes
var tokens = []token{
	{"major", func(t *tertianSpec) { t.majorTag = true }},
	{"minor", func(t *tertianSpec) { t.minor = true }},
	{"maj", func(t *tertianSpec) { t.majorTag = true }},
	{"Maj", func(t *tertianSpec) { t.majorTag = true }},
	{"M", func(t *tertianSpec) { t.majorTag = true }},
	{"Δ", func(t *tertianSpec) { t.majorTag = true }},
	{"∆", func(t *tertianSpec) { t.majorTag = true }},
	{"min", func(t *tertianSpec) { t.minor = true }},
	{"mi", func(t *tertianSpec) { t.minor = true }},
	{"dim", setDim},
	{"dom", func(t *tertianSpec) {}},
	{"aug", setAug},
	{"alt", func(t *tertianSpec) {
		if t.seventh == 0 {
			t.seventh = 10
		}
		t.noFifth = true
		t.alts = append(t.alts, pitch.FromDegree(9, -1), pitch.FromDegree(9, 1), pitch.FromDegree(11, 1), pitch.FromDegree(13, -1))
	}},
	{"sus4", func(t *tertianSpec) { t.sus = 4 }},
	{"sus2", func(t *tertianSpec) { t.sus = 2 }},
	{"sus", func(t *tertianSpec) { t.sus = 4 }},
	{"no3", func(t *tertianSpec) { t.noThird = true }},
	{"no5", func(t *tertianSpec) { t.noFifth = true }},
	{"omit3", func(t *tertianSpec) { t.noThird = true }},
	{"omit5", func(t *tertianSpec) { t.noFifth = true }},
	{"m", func(t *tertianSpec) { t.minor = true }},
	{"-", func(t *tertianSpec) { t.minor = true }},
	{"°", setDim},
	{"o", setDim},
	{"ø", setHalfDim},
	{"Ø", setHalfDim},
	{"+", setAug},
}

func setDim(t *tertianSpec) {
	t.minor = true
	t.fifth = -1
	t.dim = true
}

func setHalfDim(t *tertianSpec) {
	t.minor = true
	t.fifth = -1
	t.halfDim = true
	t.seventh = 10
}

func setAug(t *tertianSpec) {
	t.fifth = 1
}

// parseTertian tokenizes the text after the root
func parseTertian(input, rest string, offset int) (tertianSpec, error) {
	var t tertianSpec
	i := 0
	for i < len(rest) {
		r, size := utf8.DecodeRuneInString(rest[i:])
		if r == ' ' || r == '(' || r == ')' || r == ',' {
			i += size
			continue
		}
		tail := rest[i:]

		if m := addPattern.FindStringSubmatch(tail); m != nil {
			if err := t.add(m[1], m[2]); err != nil {
				return t, pitch.NewParseError(input, offset+i, err.Error())
			}
			i += len(m[0])
			continue
		}
		if m := alterPattern.FindStringSubmatch(tail); m != nil {
			t.alter(accidentalValue(m[1]), m[2])
			i += len(m[0])
			continue
		}
		if m := numberPattern.FindStringSubmatch(tail); m != nil {
			t.number(m[1])
			i += len(m[0])
			continue
		}

		matched := false
		for _, tok := range tokens {
			if strings.HasPrefix(tail, tok.text) {
				tok.apply(&t)
				i += len(tok.text)
				matched = true
				break
			}
		}
		if !matched {
			return t, pitch.NewParseError(input, offset+i, "unknown chord token")
		}
	}
	return t, nil
}

func accidentalValue(s string) int {
	v := 0
	for _, r := range s {
		switch r {
		case '#', '♯':
			v++
		case 'b', '♭':
			v--
		}
	}
	return v
}

func (t *tertianSpec) seventhFromTags() int {
	switch {
	case t.halfDim:
		return 10
	case t.majorTag:
		return 11
	case t.dim:
		return 9
	}
	return 10
}

func (t *tertianSpec) number(text string) {
	switch text {
	case "5":
		if !t.minor && t.fifth == 0 && !t.dim {
			t.power = true
		}
	case "6":
		t.sixth = true
	case "69", "6/9":
		t.sixth = true
		t.nine = true
	case "7":
		t.seventh = t.seventhFromTags()
	case "9", "11", "13":
		t.seventh = t.seventhFromTags()
		t.ext, _ = strconv.Atoi(text)
	}
}

func (t *tertianSpec) alter(acc int, number string) {
	n, _ := strconv.Atoi(number)
	if n == 5 {
		t.fifth = acc
		return
	}
	t.alts = append(t.alts, pitch.FromDegree(n, acc))
}

func (t *tertianSpec) add(accidentals, number string) error {
	n, err := strconv.Atoi(number)
	if err != nil || n < 2 || n > 13 || n == 8 {
		return fmt.Errorf("cannot add degree %s%s", accidentals, number)
	}
	acc := accidentalValue(accidentals)
	if n == 6 && acc == 0 {
		t.sixth = true
		return nil
	}
	iv := pitch.FromDegree(n, acc)
	if !isNatural(iv) && n > 7 {
		t.alts = append(t.alts, iv)
		return nil
	}
	t.adds = append(t.adds, iv)
	return nil
}

func (t *tertianSpec) altered(number int) bool {
	for _, iv := range t.alts {
		if iv.Number == number {
			return true
		}
	}
	return false
}

// intervals spells the collected request as members above the root
func (t *tertianSpec) intervals() []pitch.Interval {
	var ivs []pitch.Interval
	switch {
	case t.sus == 4:
		ivs = append(ivs, pitch.PerfectFourth)
	case t.sus == 2:
		ivs = append(ivs, pitch.MajorSecond)
	case t.noThird || t.power:
	case t.minor:
		ivs = append(ivs, pitch.MinorThird)
	default:
		ivs = append(ivs, pitch.MajorThird)
	}
	if !t.noFifth {
		ivs = append(ivs, pitch.FromDegree(5, t.fifth))
	}
	if t.sixth {
		ivs = append(ivs, pitch.FromDegree(6, 0))
	}
	switch t.seventh {
	case 9:
		ivs = append(ivs, pitch.FromDegree(7, -2))
	case 10:
		ivs = append(ivs, pitch.FromDegree(7, -1))
	case 11:
		ivs = append(ivs, pitch.FromDegree(7, 0))
	}
	if (t.ext >= 9 || t.nine) && !t.altered(9) {
		ivs = append(ivs, pitch.FromDegree(9, 0))
	}
	if t.ext == 11 && !t.altered(11) {
		ivs = append(ivs, pitch.FromDegree(11, 0))
	}
	if t.ext == 13 && !t.altered(13) {
		ivs = append(ivs, pitch.FromDegree(13, 0))
	}
	ivs = append(ivs, t.alts...)
	ivs = append(ivs, t.adds...)
	return ivs
}
