package scale

import (
	"fmt"
	"sort"

	"github.com/RyanBlaney/sonido-theory/algorithms/pitch"
)

type jingleStep struct {
	Interval  pitch.Interval
	Direction pitch.Direction
}

// jingles are written as motions from the tonic
var jingles = map[string][]jingleStep{
	// D E F G E C D
	"lick": {
		{pitch.Unison, pitch.Ascending},
		{pitch.MajorSecond, pitch.Ascending},
		{pitch.MinorThird, pitch.Ascending},
		{pitch.PerfectFourth, pitch.Ascending},
		{pitch.MajorSecond, pitch.Ascending},
		{pitch.MajorSecond, pitch.Descending},
		{pitch.Unison, pitch.Ascending},
	},
}

// Jingles lists the available jingle names
func Jingles() []string {
	names := make([]string, 0, len(jingles))
	for name := range jingles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Jingle transposes a named jingle to start on the key's tonic. The tonic
// is placed in the middle octave.
func Jingle(name string, k Key) ([]pitch.Pitch, error) {
	steps, ok := jingles[name]
	if !ok {
		return nil, fmt.Errorf("unknown jingle %q", name)
	}
	tonic := k.Tonic.WithOctave(pitch.MiddleOctave)
	out := make([]pitch.Pitch, len(steps))
	for i, s := range steps {
		out[i] = pitch.Transpose(tonic, s.Interval, s.Direction)
	}
	return out, nil
}
