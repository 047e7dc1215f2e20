package chord

import (
	"fmt"
	"strings"

	"github.com/RyanBlaney/sonido-theory/algorithms/pitch"
	"github.com/RyanBlaney/sonido-theory/algorithms/scale"
)

// Modulation is a chord carried to a new tonal centre
type Modulation struct {
	From      Chord          `json:"from"`
	Chord     Chord          `json:"chord"`    // the chord rebuilt on the new root
	Interval  pitch.Interval `json:"interval"` // ascending motion of the root
	TargetKey scale.Key      `json:"target_key"`
	Pivot     Membership     `json:"pivot"` // the original chord read in the target key
}

// ModeFor picks the key mode a chord implies: Aeolian for minor chords,
// Locrian for diminished ones, the chord's own scale for Yo and In chords
// and Ionian otherwise
func ModeFor(c Chord) scale.Mode {
	switch c.system {
	case SystemJapanese:
		return c.kind
	case SystemTertian:
		if len(c.members) < 2 {
			return scale.Ionian
		}
		body := renderTertian(c.members).body
		switch {
		case strings.HasPrefix(body, "dim"), strings.HasPrefix(body, "m7b5"), strings.HasPrefix(body, "m9b5"):
			return scale.Locrian
		case strings.HasPrefix(body, "m") && !strings.HasPrefix(body, "maj"):
			return scale.Aeolian
		}
	}
	return scale.Ionian
}

// Modulate moves the chord to a new tonic, keeping its structure, and
// builds the key the chord implies there. Pivot tells whether the original
// chord already belongs to that key.
func Modulate(c Chord, tonic pitch.Pitch) (Modulation, error) {
	if c.IsZero() {
		return Modulation{}, fmt.Errorf("modulate: empty chord")
	}
	target, err := scale.Build(tonic, ModeFor(c))
	if err != nil {
		return Modulation{}, fmt.Errorf("modulate %s to %s: %w", c.Symbol(), tonic.Name(), err)
	}
	return Modulation{
		From:      c,
		Chord:     c.TransposeTo(tonic),
		Interval:  pitch.ClassInterval(c.Root(), tonic),
		TargetKey: target,
		Pivot:     InScale(c, target),
	}, nil
}

// ModulateToDegree moves the chord onto a degree of k
func ModulateToDegree(c Chord, k scale.Key, degree int) (Modulation, error) {
	if c.IsZero() {
		return Modulation{}, fmt.Errorf("modulate: empty chord")
	}
	if degree < 1 || degree > k.Len() {
		return Modulation{}, fmt.Errorf("degree %d outside 1-%d of %s", degree, k.Len(), k.Title())
	}
	root := k.Note(degree)
	return Modulation{
		From:      c,
		Chord:     c.TransposeTo(root),
		Interval:  pitch.ClassInterval(c.Root(), root),
		TargetKey: k,
		Pivot:     InScale(c, k),
	}, nil
}
