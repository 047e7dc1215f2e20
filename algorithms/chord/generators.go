package chord

import (
	"errors"
	"fmt"

	"github.com/RyanBlaney/sonido-theory/algorithms/pitch"
	"github.com/RyanBlaney/sonido-theory/algorithms/scale"
)

// japaneseStackOrder picks scale indices so that consecutive chord tones
// are a scale-step fourth apart
var japaneseStackOrder = []int{0, 2, 4, 1, 3}

// stackSteps places each step above the previous note and returns the
// members as intervals above the root
func stackSteps(root pitch.Pitch, steps []pitch.Interval) ([]pitch.Interval, error) {
	base := root.WithOctave(pitch.MiddleOctave)
	cur := base
	ivs := make([]pitch.Interval, 0, len(steps))
	for _, step := range steps {
		cur = pitch.Transpose(cur, step, pitch.Ascending)
		iv, err := pitch.Between(base, cur, pitch.Ascending)
		if err != nil {
			return nil, err
		}
		ivs = append(ivs, iv)
	}
	return ivs, nil
}

// stackNotes places pitch classes in ascending order above root and returns
// them as intervals above the root
func stackNotes(root pitch.Pitch, notes []pitch.Pitch) ([]pitch.Interval, error) {
	base := root.WithOctave(pitch.MiddleOctave)
	cur := base
	ivs := make([]pitch.Interval, 0, len(notes))
	for _, n := range notes {
		cur = placeAbove(cur, n)
		iv, err := pitch.Between(base, cur, pitch.Ascending)
		if err != nil {
			return nil, err
		}
		ivs = append(ivs, iv)
	}
	return ivs, nil
}

func repeatStep(step pitch.Interval, n int) []pitch.Interval {
	steps := make([]pitch.Interval, n)
	for i := range steps {
		steps[i] = step
	}
	return steps
}

func checkSize(what string, k, lo, hi int) error {
	if k < lo || k > hi {
		return fmt.Errorf("%s of %d notes (want %d-%d): %w", what, k, lo, hi, ErrStackSize)
	}
	return nil
}

// Quartal stacks perfect fourths on root. The inversion selects which
// member sounds in the bass.
func Quartal(root pitch.Pitch, stackSize, inversion int) (Chord, error) {
	if err := checkSize("quartal stack", stackSize, 3, 7); err != nil {
		return Chord{}, err
	}
	c, err := QuartalPattern(root, repeatStep(pitch.PerfectFourth, stackSize-1))
	if err != nil {
		return Chord{}, err
	}
	if inversion == 0 {
		return c, nil
	}
	return c.Invert(inversion)
}

// QuartalPattern stacks the given fourths on root. Each step must be a
// perfect or augmented fourth.
func QuartalPattern(root pitch.Pitch, steps []pitch.Interval) (Chord, error) {
	if err := checkSize("quartal stack", len(steps)+1, 3, 7); err != nil {
		return Chord{}, err
	}
	for _, s := range steps {
		if s.Number != 4 || (s.Quality != pitch.Perfect && s.Quality != pitch.Augmented) {
			return Chord{}, fmt.Errorf("quartal step %s is not a perfect or augmented fourth", s)
		}
	}
	ivs, err := stackSteps(root, steps)
	if err != nil {
		return Chord{}, err
	}
	return New(root, SystemQuartal, ivs), nil
}

// QuartalFromScale stacks scale-step fourths from a degree of a seven-note
// key, so the stack only uses notes of the key. Substituting the key of
// another mode on the same tonic borrows its fourths.
func QuartalFromScale(k scale.Key, degree, stackSize int) (Chord, error) {
	if k.Len() != 7 {
		return Chord{}, fmt.Errorf("quartal harmony from %s: need a seven-note scale", k.Title())
	}
	if degree < 1 || degree > 7 {
		return Chord{}, fmt.Errorf("degree %d outside 1-7", degree)
	}
	if err := checkSize("quartal stack", stackSize, 3, 7); err != nil {
		return Chord{}, err
	}

	root := k.Note(degree)
	cur := root.WithOctave(pitch.MiddleOctave)
	steps := make([]pitch.Interval, 0, stackSize-1)
	for i := 1; i < stackSize; i++ {
		next := placeAbove(cur, k.Note(degree+3*i))
		step, err := pitch.Between(cur, next, pitch.Ascending)
		if err != nil {
			return Chord{}, err
		}
		if step.Number != 4 || (step.Quality != pitch.Perfect && step.Quality != pitch.Augmented) {
			return Chord{}, fmt.Errorf("%s to %s in %s is a %s, not a fourth", cur.Name(), next.Name(), k.Title(), step)
		}
		steps = append(steps, step)
		cur = next
	}
	return QuartalPattern(root, steps)
}

// DiatonicQuartalChords builds a fourth stack on every degree of a
// seven-note key. Degrees whose stack meets a diminished fourth are
// skipped.
func DiatonicQuartalChords(k scale.Key, stackSize int) ([]Chord, error) {
	if k.Len() != 7 {
		return nil, fmt.Errorf("quartal harmony from %s: need a seven-note scale", k.Title())
	}
	var out []Chord
	for d := 1; d <= 7; d++ {
		c, err := QuartalFromScale(k, d, stackSize)
		if err != nil {
			if errors.Is(err, ErrStackSize) {
				return nil, err
			}
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

// WholeTone stacks major seconds on root
func WholeTone(root pitch.Pitch, stackSize int) (Chord, error) {
	if err := checkSize("whole-tone stack", stackSize, 3, 6); err != nil {
		return Chord{}, err
	}
	ivs, err := stackSteps(root, repeatStep(pitch.MajorSecond, stackSize-1))
	if err != nil {
		return Chord{}, err
	}
	return New(root, SystemWholeTone, ivs), nil
}

// DiatonicWholeToneChords returns the whole-tone stacks on degrees of k
// whose notes all belong to k
func DiatonicWholeToneChords(k scale.Key, stackSize int) ([]Chord, error) {
	if err := checkSize("whole-tone stack", stackSize, 3, 6); err != nil {
		return nil, err
	}
	var out []Chord
	for _, n := range k.Notes {
		c, err := WholeTone(n, stackSize)
		if err != nil {
			return nil, err
		}
		if InScale(c, k).Diatonic {
			out = append(out, c)
		}
	}
	return out, nil
}

// Hybrid stacks the given number of perfect fourths on root and tops them
// with a major third
func Hybrid(root pitch.Pitch, fourths int) (Chord, error) {
	if err := checkSize("hybrid stack", fourths+2, 4, 7); err != nil {
		return Chord{}, err
	}
	steps := append(repeatStep(pitch.PerfectFourth, fourths), pitch.MajorThird)
	ivs, err := stackSteps(root, steps)
	if err != nil {
		return Chord{}, err
	}
	return New(root, SystemHybrid, ivs), nil
}

// JapaneseChord stacks the first stackSize notes of the Yo or In scale on
// root in fourth order (1 4 6 2 5 for Yo)
func JapaneseChord(root pitch.Pitch, kind scale.Mode, stackSize int) (Chord, error) {
	if err := checkSize(kind.String()+" chord", stackSize, 3, 5); err != nil {
		return Chord{}, err
	}
	k, err := scale.Japanese(root, kind)
	if err != nil {
		return Chord{}, err
	}
	notes := make([]pitch.Pitch, 0, stackSize-1)
	for _, idx := range japaneseStackOrder[1:stackSize] {
		notes = append(notes, k.Notes[idx])
	}
	ivs, err := stackNotes(root, notes)
	if err != nil {
		return Chord{}, err
	}
	c := New(root, SystemJapanese, ivs)
	c.kind = kind
	return c, nil
}

// DiatonicChord builds the triad (or seventh chord) on a degree of a
// seven-note key by stacking scale thirds
func DiatonicChord(k scale.Key, degree int, seventh bool) (Chord, error) {
	if k.Len() != 7 {
		return Chord{}, fmt.Errorf("tertian harmony from %s: need a seven-note scale", k.Title())
	}
	if degree < 1 || degree > 7 {
		return Chord{}, fmt.Errorf("degree %d outside 1-7", degree)
	}
	size := 3
	if seventh {
		size = 4
	}
	notes := make([]pitch.Pitch, 0, size-1)
	for i := 1; i < size; i++ {
		notes = append(notes, k.Note(degree+2*i))
	}
	root := k.Note(degree)
	ivs, err := stackNotes(root, notes)
	if err != nil {
		return Chord{}, err
	}
	return New(root, SystemTertian, ivs), nil
}

// DiatonicChords returns the chord on every degree of a seven-note key
func DiatonicChords(k scale.Key, seventh bool) ([]Chord, error) {
	out := make([]Chord, 0, 7)
	for d := 1; d <= 7; d++ {
		c, err := DiatonicChord(k, d, seventh)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}
