package chord

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/RyanBlaney/sonido-theory/algorithms/common"
	"github.com/RyanBlaney/sonido-theory/algorithms/pitch"
	"github.com/RyanBlaney/sonido-theory/algorithms/scale"
)

// System is the harmonic system a chord is built in. The order is the
// preference order used when two readings of a pitch set score the same.
type System int

const (
	SystemTertian System = iota
	SystemQuartal
	SystemWholeTone
	SystemJapanese
	SystemHybrid
)

func (s System) String() string {
	switch s {
	case SystemTertian:
		return "tertian"
	case SystemQuartal:
		return "quartal"
	case SystemWholeTone:
		return "whole-tone"
	case SystemJapanese:
		return "japanese-pentatonic"
	case SystemHybrid:
		return "hybrid"
	default:
		return "unknown"
	}
}

// Chord is a root, the intervals stacked above it and a bass. Spelling,
// display order and registers are derived on demand from those three, so
// a Chord never stores the same information twice. Chords are values;
// every operation returns a new one.
type Chord struct {
	root    pitch.Pitch
	bass    pitch.Pitch
	system  System
	members []pitch.Interval // stacking order, members[0] is the unison
	kind    scale.Mode       // Yo or In for Japanese pentatonic chords
}

// New builds a chord from a root and the intervals above it. The unison is
// added when missing. Tertian intervals are put in stacking order
// (third, fifth, seventh, ...); other systems keep the order given.
func New(root pitch.Pitch, system System, intervals []pitch.Interval) Chord {
	members := make([]pitch.Interval, 0, len(intervals)+1)
	members = append(members, pitch.Unison)
	seen := map[string]bool{pitch.Unison.String(): true}
	for _, iv := range intervals {
		iv.Direction = pitch.Ascending
		if seen[iv.String()] {
			continue
		}
		seen[iv.String()] = true
		members = append(members, iv)
	}
	if system == SystemTertian {
		sort.SliceStable(members, func(i, j int) bool {
			if members[i].Number != members[j].Number {
				return members[i].Number < members[j].Number
			}
			return members[i].Semitones() < members[j].Semitones()
		})
	}
	r := root.WithoutOctave()
	return Chord{root: r, bass: r, system: system, members: members}
}

// Root returns the chord root as a pitch class
func (c Chord) Root() pitch.Pitch { return c.root }

// Bass returns the lowest note as a pitch class
func (c Chord) Bass() pitch.Pitch { return c.bass }

// System returns the harmonic system
func (c Chord) System() System { return c.system }

// Kind returns Yo or In for Japanese pentatonic chords
func (c Chord) Kind() scale.Mode { return c.kind }

// IsZero reports whether c is the zero Chord
func (c Chord) IsZero() bool { return len(c.members) == 0 }

// Size is the number of chord members, not counting a foreign bass
func (c Chord) Size() int { return len(c.members) }

// Intervals returns the members as intervals above the root
func (c Chord) Intervals() []pitch.Interval {
	out := make([]pitch.Interval, len(c.members))
	copy(out, c.members)
	return out
}

// Members returns the spelled members in stacking order, root first
func (c Chord) Members() []pitch.Pitch {
	out := make([]pitch.Pitch, len(c.members))
	for i, iv := range c.members {
		out[i] = pitch.Transpose(c.root, iv, pitch.Ascending)
	}
	return out
}

// WithBass returns the chord over a different bass. A bass outside the
// chord makes a slash chord whose pitch set includes the bass.
func (c Chord) WithBass(bass pitch.Pitch) Chord {
	c.bass = bass.WithoutOctave()
	return c
}

// Invert puts the n-th member (in stacking order) in the bass; 0 is root
// position
func (c Chord) Invert(n int) (Chord, error) {
	if n < 0 || n >= len(c.members) {
		return Chord{}, fmt.Errorf("inversion %d of a %d-note chord", n, len(c.members))
	}
	return c.WithBass(c.Members()[n]), nil
}

// Inversion returns the index of the bass among the members, or -1 when
// the bass is not a chord member
func (c Chord) Inversion() int {
	for i, m := range c.Members() {
		if m.PitchEqual(c.bass) {
			return i
		}
	}
	return -1
}

// IsSlash reports whether the bass differs from the root
func (c Chord) IsSlash() bool {
	return !c.bass.PitchEqual(c.root)
}

// Tones returns the pitch classes from the bass upwards: the bass first,
// then the remaining members continuing in stacking order
func (c Chord) Tones() []pitch.Pitch {
	members := c.Members()
	idx := c.Inversion()
	if idx < 0 {
		return append([]pitch.Pitch{c.bass}, members...)
	}
	out := make([]pitch.Pitch, 0, len(members))
	out = append(out, c.bass)
	for i := 1; i < len(members); i++ {
		out = append(out, members[(idx+i)%len(members)])
	}
	return out
}

// Ascending places Tones in register: the bass in the given octave and
// each following tone just above the previous one
func (c Chord) Ascending(octave int) []pitch.Pitch {
	tones := c.Tones()
	out := make([]pitch.Pitch, len(tones))
	for i, t := range tones {
		if i == 0 {
			out[i] = t.WithOctave(octave)
			continue
		}
		out[i] = placeAbove(out[i-1], t)
	}
	return out
}

// placeAbove returns p in the lowest octave strictly above prev
func placeAbove(prev, p pitch.Pitch) pitch.Pitch {
	cand := p.WithOctave(prev.Octave - 1)
	for cand.Value() <= prev.Value()+common.Epsilon {
		cand.Octave++
	}
	return cand
}

// PitchClasses returns the sorted integer pitch classes, bass included
func (c Chord) PitchClasses() []int {
	seen := make(map[int]bool)
	for _, t := range c.Tones() {
		seen[t.ClassInt()] = true
	}
	out := make([]int, 0, len(seen))
	for pc := range seen {
		out = append(out, pc)
	}
	sort.Ints(out)
	return out
}

// classValues returns the pitch classes as float64 for distance metrics
func (c Chord) classValues() []float64 {
	pcs := c.PitchClasses()
	out := make([]float64, len(pcs))
	for i, pc := range pcs {
		out[i] = float64(pc)
	}
	return out
}

// SamePitchClasses reports whether two chords sound the same set of classes
// over the same bass
func (c Chord) SamePitchClasses(other Chord) bool {
	a, b := c.PitchClasses(), other.PitchClasses()
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return c.bass.PitchEqual(other.bass)
}

// Transpose moves root and bass by the interval, keeping the structure
func (c Chord) Transpose(iv pitch.Interval, dir pitch.Direction) Chord {
	c.root = pitch.Transpose(c.root, iv, dir)
	c.bass = pitch.Transpose(c.bass, iv, dir)
	c.members = c.Intervals()
	return c
}

// TransposeTo moves the chord so that its root becomes root, spelled as given
func (c Chord) TransposeTo(root pitch.Pitch) Chord {
	iv := pitch.ClassInterval(c.root, root)
	out := c.Transpose(iv, pitch.Ascending)
	out.root = root.WithoutOctave()
	if !c.IsSlash() {
		out.bass = out.root
	}
	return out
}

// Extensions lists the degrees above the seventh and any altered fifth,
// e.g. ["b9", "#11"] for C7b9#11
func (c Chord) Extensions() []string {
	var out []string
	for _, iv := range c.members {
		switch {
		case iv.Number > 7:
			out = append(out, iv.DegreeName())
		case iv.Number == 5 && iv.Quality != pitch.Perfect && c.system == SystemTertian:
			out = append(out, iv.DegreeName())
		}
	}
	return out
}

// Symbol returns the chord symbol, e.g. "Cmaj7#11/E", "Cq4", "Eh5"
func (c Chord) Symbol() string {
	if c.IsZero() {
		return ""
	}
	s := c.root.Name() + c.body()
	if c.IsSlash() {
		s += "/" + c.bass.Name()
	}
	return s
}

func (c Chord) String() string {
	return c.Symbol()
}

// body is the symbol without root and bass
func (c Chord) body() string {
	k := len(c.members)
	switch c.system {
	case SystemTertian:
		if k == 1 {
			return singleNoteSuffix
		}
		return renderTertian(c.members).body
	case SystemQuartal:
		s := "q"
		if k != 3 {
			s += fmt.Sprint(k)
		}
		if p := c.stepPattern(); strings.Contains(p, "A") {
			s += "(" + p + ")"
		}
		return s
	case SystemWholeTone:
		if k == 3 {
			return "wt"
		}
		return fmt.Sprintf("wt%d", k)
	case SystemHybrid:
		return fmt.Sprintf("h%d", k)
	case SystemJapanese:
		return fmt.Sprintf("%s%d", strings.ToLower(c.kind.String()), k)
	}
	return "?"
}

const singleNoteSuffix = " (single note)"

// stepPattern renders the steps of a fourth stack as P/A letters
func (c Chord) stepPattern() string {
	var sb strings.Builder
	for i := 1; i < len(c.members); i++ {
		step := c.members[i].Semitones() - c.members[i-1].Semitones()
		if common.NearlyEqual(step, 6) {
			sb.WriteByte('A')
		} else {
			sb.WriteByte('P')
		}
	}
	return sb.String()
}

var inversionNames = []string{"root position", "first inversion", "second inversion", "third inversion", "fourth inversion", "fifth inversion", "sixth inversion"}

// Name returns a descriptive name, e.g. "C dominant seventh, first
// inversion" or "C quartal"
func (c Chord) Name() string {
	if c.IsZero() {
		return ""
	}
	root := c.root.Name()
	k := len(c.members)
	var name string
	switch c.system {
	case SystemTertian:
		if k == 1 {
			return root + " single note"
		}
		body := renderTertian(c.members).body
		if desc, ok := qualityNames[body]; ok {
			name = root + " " + desc
		} else {
			name = root + body
		}
	case SystemQuartal:
		name = root + " quartal"
		if k != 3 {
			name += fmt.Sprintf(" (%d notes)", k)
		}
		if p := c.stepPattern(); strings.Contains(p, "A") {
			name += " [" + p + "]"
		}
	case SystemWholeTone:
		name = fmt.Sprintf("%s whole-tone (%d notes)", root, k)
	case SystemHybrid:
		name = fmt.Sprintf("%s hybrid (%d fourths + major third)", root, k-2)
	case SystemJapanese:
		name = fmt.Sprintf("%s %s pentatonic (%d notes)", root, c.kind, k)
	}

	switch inv := c.Inversion(); {
	case inv < 0:
		name += " over " + c.bass.Name()
	case inv > 0 && inv < len(inversionNames):
		name += ", " + inversionNames[inv]
	}
	return name
}

var qualityNames = map[string]string{
	"":       "major",
	"m":      "minor",
	"dim":    "diminished",
	"aug":    "augmented",
	"5":      "power chord",
	"sus2":   "suspended second",
	"sus4":   "suspended fourth",
	"6":      "major sixth",
	"m6":     "minor sixth",
	"69":     "six-nine",
	"7":      "dominant seventh",
	"maj7":   "major seventh",
	"m7":     "minor seventh",
	"mMaj7":  "minor major seventh",
	"m7b5":   "half-diminished seventh",
	"dim7":   "diminished seventh",
	"7sus4":  "dominant seventh suspended fourth",
	"9":      "dominant ninth",
	"maj9":   "major ninth",
	"m9":     "minor ninth",
	"11":     "dominant eleventh",
	"m11":    "minor eleventh",
	"13":     "dominant thirteenth",
	"maj13":  "major thirteenth",
	"m13":    "minor thirteenth",
	"add9":   "added ninth",
	"7#9":    "dominant seventh sharp nine",
	"7b9":    "dominant seventh flat nine",
}

// Role is the function of a chord member
type Role int

const (
	RoleRoot Role = iota
	RoleThird
	RoleFifth
	RoleSeventh
	RoleNinth
	RoleEleventh
	RoleThirteenth
	RoleAdded
	RoleAltered
	RoleStacked
)

// Degree is one chord member with its function
type Degree struct {
	Pitch    pitch.Pitch    `json:"pitch"`
	Interval pitch.Interval `json:"interval"`
	Role     Role           `json:"role"`
	DropRank int            `json:"drop_rank"` // lower ranks are dropped first when voices run out
}

// Degrees returns the members with their roles, in stacking order
func (c Chord) Degrees() []Degree {
	members := c.Members()
	out := make([]Degree, len(members))
	var roles []Role
	if c.system == SystemTertian {
		roles = renderTertian(c.members).roles
	}
	for i, iv := range c.members {
		role := RoleStacked
		rank := len(c.members) - i
		if i == 0 {
			role = RoleRoot
		} else if roles != nil {
			role = roles[i]
		}
		if role != RoleStacked {
			rank = dropRank(role, iv)
		}
		out[i] = Degree{Pitch: members[i], Interval: iv, Role: role, DropRank: rank}
	}
	return out
}

// dropRank orders tertian members for dropping: fifth, 11, 9, 13, added
// tones, b13, #11, #9, b9, seventh, third, root
func dropRank(role Role, iv pitch.Interval) int {
	switch role {
	case RoleFifth:
		return 0
	case RoleEleventh:
		return 1
	case RoleNinth:
		return 2
	case RoleThirteenth:
		return 3
	case RoleAdded:
		return 4
	case RoleAltered:
		switch iv.Number {
		case 13:
			return 5
		case 11:
			return 6
		case 9:
			if iv.Quality == pitch.Augmented {
				return 7
			}
			return 8
		case 5:
			if iv.Quality == pitch.Augmented {
				return 5
			}
			return 6
		}
		return 5
	case RoleSeventh:
		return 9
	case RoleThird:
		return 10
	}
	return 100
}

// complexity is the analysis cost of the chord's structure, before any
// bass penalty
func (c Chord) complexity() float64 {
	switch c.system {
	case SystemTertian:
		if len(c.members) == 1 {
			return 0
		}
		return renderTertian(c.members).cost
	case SystemQuartal:
		return costStacked + float64(c.stackedBeyondThree())*costStackTone +
			float64(strings.Count(c.stepPattern(), "A"))*costAugmentedFourth
	case SystemWholeTone, SystemHybrid:
		return costStacked + float64(c.stackedBeyondThree())*costStackTone
	case SystemJapanese:
		return costStacked + float64(c.stackedBeyondThree())*costJapaneseTone
	}
	return 0
}

// stackedBeyondThree counts the tones a stack has above its first three
func (c Chord) stackedBeyondThree() int {
	if len(c.members) <= 3 {
		return 0
	}
	return len(c.members) - 3
}

type chordJSON struct {
	Symbol     string   `json:"symbol"`
	Name       string   `json:"name"`
	Root       string   `json:"root"`
	Bass       string   `json:"bass"`
	System     string   `json:"system"`
	Tones      []string `json:"tones"`
	Extensions []string `json:"extensions,omitempty"`
}

// MarshalJSON renders the derived view of the chord
func (c Chord) MarshalJSON() ([]byte, error) {
	tones := c.Tones()
	names := make([]string, len(tones))
	for i, t := range tones {
		names[i] = t.Name()
	}
	return json.Marshal(chordJSON{
		Symbol:     c.Symbol(),
		Name:       c.Name(),
		Root:       c.root.Name(),
		Bass:       c.bass.Name(),
		System:     c.system.String(),
		Tones:      names,
		Extensions: c.Extensions(),
	})
}
