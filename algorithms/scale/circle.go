package scale

import (
	"fmt"
	"strings"

	"github.com/RyanBlaney/sonido-theory/algorithms/pitch"
)

// CircleDirection selects the traversal of the circle
type CircleDirection int

const (
	Fifths CircleDirection = iota
	Fourths
)

func (d CircleDirection) String() string {
	if d == Fourths {
		return "fourths"
	}
	return "fifths"
}

// ParseCircleDirection accepts "fifths"/"5ths"/"5" and "fourths"/"4ths"/"4"
func ParseCircleDirection(s string) (CircleDirection, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fifths", "5ths", "5", "fifth":
		return Fifths, nil
	case "fourths", "4ths", "4", "fourth":
		return Fourths, nil
	}
	return Fifths, fmt.Errorf("unknown circle direction %q", s)
}

// Line-of-fifths windows the circle folds into, so that each spelling keeps
// at most six accidentals: Db..F# going up by fifths, Gb..B going by fourths.
const (
	fifthsWindowLow  = -5
	fourthsWindowLow = -6
)

// Circle walks the circle of fifths or fourths from start and returns
// steps+1 pitch classes beginning with start. After twelve steps the walk
// is back at start's pitch class.
func Circle(start pitch.Pitch, dir CircleDirection, steps int) []pitch.Pitch {
	if steps < 0 {
		steps = 0
	}
	step, low := 1, fifthsWindowLow
	if dir == Fourths {
		step, low = -1, fourthsWindowLow
	}

	origin := start.WithoutOctave()
	out := make([]pitch.Pitch, 0, steps+1)
	out = append(out, origin)

	f := origin.Fifths()
	for i := 1; i <= steps; i++ {
		f += step
		if f < low || f > low+11 {
			f = pitch.SimplestSpelling(f, low)
		}
		p := pitch.FromFifths(f)
		p.Microtone = origin.Microtone
		out = append(out, p)
	}
	return out
}
