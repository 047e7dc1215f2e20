package scale

import (
	"errors"
	"fmt"
	"strings"

	"github.com/RyanBlaney/sonido-theory/algorithms/common"
	"github.com/RyanBlaney/sonido-theory/algorithms/pitch"
)

// ErrUnqualifiedMinor is returned by Build for Minor; use Expand
var ErrUnqualifiedMinor = errors.New("minor scale is unqualified: expand to natural, harmonic and melodic")

// ErrCustomMode is returned when a custom scale is requested outside a session
var ErrCustomMode = errors.New("custom scales are defined through a session")

// Key is an ordered scale with its solfège. Notes are octave-less and
// ascend from the tonic.
type Key struct {
	Tonic   pitch.Pitch   `json:"tonic"`
	Mode    Mode          `json:"mode"`
	Name    string        `json:"name,omitempty"` // custom scale name
	Notes   []pitch.Pitch `json:"notes"`
	Solfege []string      `json:"solfege"`

	// Falling form, from the tonic downwards. Empty when the scale falls
	// the way it rises.
	Descending        []pitch.Pitch `json:"descending,omitempty"`
	DescendingSolfege []string      `json:"descending_solfege,omitempty"`

	CustomSolfege bool `json:"custom_solfege"`
	Center        int  `json:"center"` // index of the key centre in Notes
}

// Build generates the key for a root and mode. Minor must be qualified
// (see Expand) and custom scales come from a Session.
func Build(root pitch.Pitch, mode Mode) (Key, error) {
	switch mode {
	case Minor:
		return Key{}, ErrUnqualifiedMinor
	case Custom:
		return Key{}, ErrCustomMode
	}
	pattern, ok := Pattern(mode)
	if !ok {
		return Key{}, fmt.Errorf("no pattern for mode %s", mode)
	}

	tonic := root.WithoutOctave()
	k := Key{
		Tonic: tonic,
		Mode:  mode,
		Notes: stack(tonic, pattern, pitch.Ascending),
	}
	k.Solfege = syllables(tonic, k.Notes)

	if down, ok := descendingPatterns[mode]; ok {
		k.Descending = stack(tonic, down, pitch.Ascending)
		k.DescendingSolfege = syllables(tonic, k.Descending)
	}
	return k, nil
}

// MustBuild is Build for literals known to be valid
func MustBuild(root string, mode Mode) Key {
	k, err := Build(pitch.MustParse(root), mode)
	if err != nil {
		panic(err)
	}
	return k
}

// Expand returns every key a root/mode pair denotes. An unqualified minor
// is reported as natural, harmonic and melodic minor.
func Expand(root pitch.Pitch, mode Mode) ([]Key, error) {
	modes := []Mode{mode}
	if mode == Minor {
		modes = MinorVariants
	}
	keys := make([]Key, 0, len(modes))
	for _, m := range modes {
		k, err := Build(root, m)
		if err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, nil
}

func stack(tonic pitch.Pitch, pattern []pitch.Interval, dir pitch.Direction) []pitch.Pitch {
	notes := make([]pitch.Pitch, len(pattern))
	for i, iv := range pattern {
		notes[i] = pitch.Transpose(tonic, iv, dir)
	}
	return notes
}

// Transpose moves the key to a new tonic, preserving its pattern, its
// falling form and its custom solfège
func Transpose(k Key, tonic pitch.Pitch) (Key, error) {
	if len(k.Notes) == 0 {
		return Key{}, errors.New("cannot transpose an empty key")
	}
	delta := tonic.Fifths() - k.Tonic.Fifths()
	shift := tonic.Microtone - k.Tonic.Microtone
	move := func(ps []pitch.Pitch) []pitch.Pitch {
		if ps == nil {
			return nil
		}
		out := make([]pitch.Pitch, len(ps))
		for i, p := range ps {
			q := pitch.FromFifths(p.Fifths() + delta)
			q.Microtone = p.Microtone + shift
			out[i] = q
		}
		return out
	}

	out := k
	out.Tonic = tonic.WithoutOctave()
	out.Notes = move(k.Notes)
	out.Descending = move(k.Descending)
	if k.CustomSolfege {
		out.Solfege = append([]string(nil), k.Solfege...)
		out.DescendingSolfege = append([]string(nil), k.DescendingSolfege...)
	} else {
		out.Solfege = syllables(out.Tonic, out.Notes)
		if out.Descending != nil {
			out.DescendingSolfege = syllables(out.Tonic, out.Descending)
		}
	}
	return out, nil
}

// Len is the number of distinct scale notes
func (k Key) Len() int {
	return len(k.Notes)
}

// Degree returns the 1-based scale degree of p's pitch class in the rising
// form
func (k Key) Degree(p pitch.Pitch) (int, bool) {
	for i, n := range k.Notes {
		if n.PitchEqual(p.WithoutOctave()) {
			return i + 1, true
		}
	}
	return 0, false
}

// Contains reports whether p's pitch class is in the rising or falling form
func (k Key) Contains(p pitch.Pitch) bool {
	if _, ok := k.Degree(p); ok {
		return true
	}
	for _, n := range k.Descending {
		if n.PitchEqual(p.WithoutOctave()) {
			return true
		}
	}
	return false
}

// Note returns the note at a 1-based degree, wrapping past the octave
func (k Key) Note(degree int) pitch.Pitch {
	return k.Notes[common.PosModInt(degree-1, len(k.Notes))]
}

// PitchClasses returns the integer pitch classes of the rising form
func (k Key) PitchClasses() []int {
	out := make([]int, len(k.Notes))
	for i, n := range k.Notes {
		out[i] = n.ClassInt()
	}
	return out
}

// Title is the human name, e.g. "C Ionian", "A harmonic minor"
func (k Key) Title() string {
	if k.Mode == Custom && k.Name != "" {
		return k.Name
	}
	return k.Tonic.Name() + " " + k.Mode.String()
}

func (k Key) String() string {
	names := make([]string, len(k.Notes))
	for i, n := range k.Notes {
		names[i] = n.Name()
	}
	s := k.Title() + ": " + strings.Join(names, " ")
	if len(k.Descending) > 0 {
		down := make([]string, len(k.Descending))
		for i, n := range k.Descending {
			down[i] = n.Name()
		}
		s += " / " + strings.Join(down, " ")
	}
	return s
}
