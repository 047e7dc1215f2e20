package voicing

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/RyanBlaney/sonido-theory/algorithms/chord"
	"github.com/RyanBlaney/sonido-theory/algorithms/chroma"
	"github.com/RyanBlaney/sonido-theory/algorithms/common"
	"github.com/RyanBlaney/sonido-theory/algorithms/pitch"
	"github.com/RyanBlaney/sonido-theory/algorithms/stats"
	"github.com/RyanBlaney/sonido-theory/logging"
)

// Voicing is one chord of a progression placed in register
type Voicing struct {
	Chord       chord.Chord   `json:"chord"`
	Notes       []pitch.Pitch `json:"notes"`        // ascending, bass first
	Motion      float64       `json:"motion"`       // semitone motion from the previous voicing
	CommonTones int           `json:"common_tones"` // notes held at the same pitch
	NetMotion   float64       `json:"net_motion"`   // shift of the voicing's mean pitch
	TonalShift  float64       `json:"tonal_shift"`  // tonal centroid distance from the previous chord
}

// Values returns the notes as semitones from middle C
func (v Voicing) Values() []float64 {
	out := make([]float64, len(v.Notes))
	for i, n := range v.Notes {
		out[i] = n.Value()
	}
	return out
}

// VoicingOverflowWarning reports chord tones dropped because the chord has
// more tones than voices
type VoicingOverflowWarning struct {
	Index   int           `json:"index"` // position in the progression
	Chord   string        `json:"chord"`
	Dropped []pitch.Pitch `json:"dropped"` // in the order they were dropped
	Voices  int           `json:"voices"`
}

func (w VoicingOverflowWarning) String() string {
	dropped := make([]string, len(w.Dropped))
	for i, p := range w.Dropped {
		dropped[i] = p.Name()
	}
	return fmt.Sprintf("chord %d (%s) needs more than %d voices: dropped %s",
		w.Index+1, w.Chord, w.Voices, strings.Join(dropped, ", "))
}

// Result is a voiced progression
type Result struct {
	Voicings    []Voicing                `json:"voicings"`
	Warnings    []VoicingOverflowWarning `json:"warnings,omitempty"`
	TotalMotion float64                  `json:"total_motion"`
}

// VoiceLeaderParams contains parameters for voice leading
type VoiceLeaderParams struct {
	MaxVoices     int `json:"max_voices"`     // 0 keeps every chord tone
	DefaultOctave int `json:"default_octave"` // octave of the first chord's bass
}

// DefaultVoiceLeaderParams returns four voices starting in octave 4
func DefaultVoiceLeaderParams() VoiceLeaderParams {
	return VoiceLeaderParams{
		MaxVoices:     4,
		DefaultOctave: pitch.MiddleOctave,
	}
}

// VoiceLeader places each chord of a progression in the register closest
// to the chord before it
type VoiceLeader struct {
	params VoiceLeaderParams
	logger logging.Logger
}

// NewVoiceLeader creates a voice leader with default parameters
func NewVoiceLeader() *VoiceLeader {
	return NewVoiceLeaderWithParams(DefaultVoiceLeaderParams())
}

// NewVoiceLeaderWithParams creates a voice leader with custom parameters
func NewVoiceLeaderWithParams(params VoiceLeaderParams) *VoiceLeader {
	return &VoiceLeader{
		params: params,
		logger: logging.WithFields(logging.Fields{
			"component": "voice_leader",
		}),
	}
}

// Lead voices a progression. The first chord is stacked upwards from its
// bass in the default octave. Every later chord keeps its bass lowest and
// takes the octave placement with the least total motion from the previous
// voicing, counted per voice as in stats.VoiceLeadingDistance; ties go to the placement holding more common tones, then to the
// smaller net motion, then to the lower placement.
func (vl *VoiceLeader) Lead(progression []chord.Chord) (Result, error) {
	logger := vl.logger.WithFields(logging.Fields{
		"function": "Lead",
		"chords":   len(progression),
	})

	var res Result
	var prev []float64
	var prevCentroid chroma.TonalCentroid
	for i, c := range progression {
		if c.IsZero() {
			return Result{}, fmt.Errorf("chord %d of the progression is empty", i+1)
		}

		tones, dropped := vl.reduce(c)
		if len(dropped) > 0 {
			w := VoicingOverflowWarning{
				Index:   i,
				Chord:   c.Symbol(),
				Dropped: dropped,
				Voices:  vl.params.MaxVoices,
			}
			res.Warnings = append(res.Warnings, w)
			logger.Warn("Voicing overflow", logging.Fields{
				"index":   i,
				"chord":   w.Chord,
				"dropped": len(dropped),
			})
		}

		var notes []pitch.Pitch
		if prev == nil {
			notes = stackFrom(tones, vl.params.DefaultOctave)
		} else {
			notes = closest(prev, tones)
		}

		v := Voicing{Chord: c, Notes: notes}
		values := v.Values()
		centroid := chroma.NewTonalCentroid(chroma.NewProfile(values, nil))
		if prev != nil {
			v.Motion = stats.VoiceLeadingDistance(prev, values)
			v.CommonTones = stats.CommonTones(prev, values)
			v.NetMotion = stats.NetMotion(prev, values)
			v.TonalShift = centroid.Distance(prevCentroid)
			res.TotalMotion += v.Motion
		}
		res.Voicings = append(res.Voicings, v)
		prev, prevCentroid = values, centroid
	}

	logger.Debug("Progression voiced", logging.Fields{
		"total_motion": res.TotalMotion,
		"warnings":     len(res.Warnings),
	})
	return res, nil
}

// reduce returns the tones to voice, bass first, and the tones dropped to
// fit MaxVoices. The bass is never dropped.
func (vl *VoiceLeader) reduce(c chord.Chord) ([]pitch.Pitch, []pitch.Pitch) {
	tones := c.Tones()
	limit := vl.params.MaxVoices
	if limit <= 0 || len(tones) <= limit {
		return tones, nil
	}

	type candidate struct {
		index int // position in tones
		rank  int
		order int // stacking position, higher goes first on equal rank
	}
	degrees := c.Degrees()
	cands := make([]candidate, 0, len(tones)-1)
	for i := 1; i < len(tones); i++ {
		cand := candidate{index: i, rank: math.MaxInt32}
		for j, d := range degrees {
			if d.Pitch.PitchEqual(tones[i]) {
				cand.rank = d.DropRank
				cand.order = j
				break
			}
		}
		cands = append(cands, cand)
	}
	sort.SliceStable(cands, func(a, b int) bool {
		if cands[a].rank != cands[b].rank {
			return cands[a].rank < cands[b].rank
		}
		return cands[a].order > cands[b].order
	})

	drop := make(map[int]bool)
	dropped := make([]pitch.Pitch, 0, len(tones)-limit)
	for _, cand := range cands[:len(tones)-limit] {
		drop[cand.index] = true
		dropped = append(dropped, tones[cand.index])
	}
	kept := make([]pitch.Pitch, 0, limit)
	for i, t := range tones {
		if !drop[i] {
			kept = append(kept, t)
		}
	}
	return kept, dropped
}

// stackFrom places the bass in octave and each following tone just above
// the previous one
func stackFrom(tones []pitch.Pitch, octave int) []pitch.Pitch {
	out := make([]pitch.Pitch, len(tones))
	for i, t := range tones {
		if i == 0 {
			out[i] = t.WithOctave(octave)
			continue
		}
		cand := t.WithOctave(out[i-1].Octave - 1)
		for cand.Value() <= out[i-1].Value()+common.Epsilon {
			cand.Octave++
		}
		out[i] = cand
	}
	return out
}

type placement struct {
	values  []float64
	octaves []int
	cost    float64
	held    int
	net     float64
}

// better orders placements by motion, common tones, net motion and
// finally the sorted pitch values
func (p placement) better(q placement) bool {
	if !common.NearlyEqual(p.cost, q.cost) {
		return p.cost < q.cost
	}
	if p.held != q.held {
		return p.held > q.held
	}
	if !common.NearlyEqual(math.Abs(p.net), math.Abs(q.net)) {
		return math.Abs(p.net) < math.Abs(q.net)
	}
	a, b := sortedCopy(p.values), sortedCopy(q.values)
	for i := range a {
		if !common.NearlyEqual(a[i], b[i]) {
			return a[i] < b[i]
		}
	}
	return false
}

func sortedCopy(v []float64) []float64 {
	out := make([]float64, len(v))
	copy(out, v)
	sort.Float64s(out)
	return out
}

// closest searches every octave placement within an octave of the
// previous voicing's range, with the bass below every other tone
func closest(prev []float64, tones []pitch.Pitch) []pitch.Pitch {
	lo := floats.Min(prev) - 12
	hi := floats.Max(prev) + 12

	type option struct {
		value  float64
		octave int
	}
	options := make([][]option, len(tones))
	for i, t := range tones {
		base := t.WithOctave(pitch.MiddleOctave).Value()
		for k := -9; k <= 9; k++ {
			v := base + float64(12*k)
			if v >= lo-common.Epsilon && v <= hi+common.Epsilon {
				options[i] = append(options[i], option{v, pitch.MiddleOctave + k})
			}
		}
	}

	var best placement
	found := false
	values := make([]float64, len(tones))
	octaves := make([]int, len(tones))
	var search func(i int)
	search = func(i int) {
		if i == len(tones) {
			p := placement{
				values:  append([]float64(nil), values...),
				octaves: append([]int(nil), octaves...),
				cost:    stats.VoiceLeadingDistance(prev, values),
				held:    stats.CommonTones(prev, values),
				net:     stats.NetMotion(prev, values),
			}
			if !found || p.better(best) {
				best, found = p, true
			}
			return
		}
		for _, opt := range options[i] {
			if i > 0 && opt.value <= values[0]+common.Epsilon {
				continue
			}
			values[i], octaves[i] = opt.value, opt.octave
			search(i + 1)
		}
	}
	search(0)

	if !found {
		// no placement keeps the bass lowest inside the window
		return stackFrom(tones, pitch.MiddleOctave+common.FloorDiv(int(math.Round(common.Mean(prev))), 12))
	}

	out := make([]pitch.Pitch, len(tones))
	for i, t := range tones {
		out[i] = t.WithOctave(best.octaves[i])
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Value() < out[b].Value()
	})
	return out
}
