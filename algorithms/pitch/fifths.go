package pitch

import "github.com/RyanBlaney/sonido-theory/algorithms/common"

// Position of each natural on the line of fifths, C = 0
var letterFifths = [...]int{0, 2, 4, -1, 1, 3, 5}

// F C G D A E B
var fifthsOrder = [...]Letter{F, C, G, D, A, E, B}

// Fifths returns the pitch's position on the line of fifths (C = 0, G = 1,
// F = -1, F# = 6, Bb = -2). Octave and microtone are ignored.
func (p Pitch) Fifths() int {
	return letterFifths[p.Letter] + 7*p.Accidental
}

// FromFifths returns the octave-less pitch at the given line-of-fifths
// position
func FromFifths(fifths int) Pitch {
	letter := fifthsOrder[common.PosModInt(fifths+1, 7)]
	acc := common.FloorDiv(fifths+1, 7)
	return New(letter, acc)
}

// SimplestSpelling folds a line-of-fifths position into the window
// [low, low+11], which keeps the spelling to at most six accidentals
func SimplestSpelling(fifths, low int) int {
	return low + common.PosModInt(fifths-low, 12)
}
