package chord

import (
	"fmt"

	"github.com/RyanBlaney/sonido-theory/algorithms/scale"
)

// Borrowed is a chord taken from a parallel mode
type Borrowed struct {
	Chord   Chord      `json:"chord"`
	Degree  int        `json:"degree"`
	Numeral string     `json:"numeral"` // read in the home key
	From    scale.Mode `json:"from"`
}

// BorrowedChords returns the diatonic triads of the parallel mode that are
// not diatonic to k, e.g. iv, bVI and bVII in C major borrowed from C minor.
// An unqualified minor mode lends from all three minor scales.
func BorrowedChords(k scale.Key, mode scale.Mode) ([]Borrowed, error) {
	if k.Len() != 7 {
		return nil, fmt.Errorf("borrowing into %s: need a seven-note scale", k.Title())
	}
	lenders, err := scale.Expand(k.Tonic, mode)
	if err != nil {
		return nil, fmt.Errorf("borrowing from %s %s: %w", k.Tonic.Name(), mode, err)
	}

	var out []Borrowed
	seen := make(map[string]bool)
	for _, lender := range lenders {
		if lender.Len() != 7 {
			return nil, fmt.Errorf("borrowing from %s: need a seven-note scale", lender.Title())
		}
		for d := 1; d <= 7; d++ {
			c, err := DiatonicChord(lender, d, false)
			if err != nil {
				return nil, err
			}
			if seen[c.Symbol()] || InScale(c, k).Diatonic {
				continue
			}
			seen[c.Symbol()] = true
			out = append(out, Borrowed{
				Chord:   c,
				Degree:  d,
				Numeral: Numeral(c, k),
				From:    lender.Mode,
			})
		}
	}
	return out, nil
}
