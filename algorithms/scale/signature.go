package scale

import (
	"fmt"

	"github.com/RyanBlaney/sonido-theory/algorithms/common"
	"github.com/RyanBlaney/sonido-theory/algorithms/pitch"
)

// Signature returns the key signature as a signed count: positive for
// sharps, negative for flats. Harmonic and melodic minor use the natural
// minor signature. The bool is false for keys without a conventional
// signature (Japanese and custom scales).
func Signature(k Key) (int, bool) {
	offset, ok := modeSignatureOffset[k.Mode]
	if !ok {
		return 0, false
	}
	return k.Tonic.Fifths() + offset, true
}

// SignatureAccidentals lists the sharps (F# C# G# ...) or flats (Bb Eb Ab
// ...) of a signature in the order they are written
func SignatureAccidentals(count int) []pitch.Pitch {
	n := common.Abs(count)
	out := make([]pitch.Pitch, 0, n)
	for i := 0; i < n; i++ {
		if count > 0 {
			// F# sits at 6 on the line of fifths
			out = append(out, pitch.FromFifths(6+i))
		} else {
			// Bb at -2
			out = append(out, pitch.FromFifths(-2-i))
		}
	}
	return out
}

// SignatureString renders a signature count, e.g. "2#", "3b", "0"
func SignatureString(count int) string {
	switch {
	case count > 0:
		return fmt.Sprintf("%d#", count)
	case count < 0:
		return fmt.Sprintf("%db", -count)
	}
	return "0"
}
