package scale

import (
	"fmt"

	"github.com/RyanBlaney/sonido-theory/algorithms/common"
	"github.com/RyanBlaney/sonido-theory/algorithms/pitch"
)

// Japanese builds a Yo or In pentatonic scale on root
func Japanese(root pitch.Pitch, kind Mode) (Key, error) {
	if kind != Yo && kind != In {
		return Key{}, fmt.Errorf("%s is not a Japanese pentatonic scale", kind)
	}
	return Build(root, kind)
}

// DegreeMapping pairs a degree of one pentatonic scale with the nearest
// degree of another
type DegreeMapping struct {
	From      int         `json:"from"` // 1-based degree in the source scale
	To        int         `json:"to"`   // 1-based degree in the target scale
	FromPitch pitch.Pitch `json:"from_pitch"`
	ToPitch   pitch.Pitch `json:"to_pitch"`
	Shift     float64     `json:"shift"` // signed semitone motion, nearest way round
}

// ModulateBetween converts a Yo scale to In (or back) on the same tonic and
// maps every source degree to the nearest-pitch target degree. Ties go to
// the lower target degree.
func ModulateBetween(k Key, kind Mode) (Key, []DegreeMapping, error) {
	if k.Mode != Yo && k.Mode != In {
		return Key{}, nil, fmt.Errorf("cannot map %s: source must be Yo or In", k.Title())
	}
	target, err := Japanese(k.Tonic, kind)
	if err != nil {
		return Key{}, nil, err
	}

	mapping := make([]DegreeMapping, len(k.Notes))
	for i, from := range k.Notes {
		best, bestDist := 0, 13.0
		for j, to := range target.Notes {
			d := common.CircularDistance(from.Class(), to.Class(), 12)
			if d < bestDist-common.Epsilon {
				best, bestDist = j, d
			}
		}
		to := target.Notes[best]
		shift := common.PosMod(to.Class()-from.Class()+6, 12) - 6
		mapping[i] = DegreeMapping{
			From:      i + 1,
			To:        best + 1,
			FromPitch: from,
			ToPitch:   to,
			Shift:     shift,
		}
	}
	return target, mapping, nil
}
