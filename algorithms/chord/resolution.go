package chord

import (
	"sort"

	"github.com/RyanBlaney/sonido-theory/algorithms/pitch"
	"github.com/RyanBlaney/sonido-theory/algorithms/stats"
)

// Resolution is a chord the input tends to move to
type Resolution struct {
	Chord    Chord   `json:"chord"`
	Rule     string  `json:"rule"`
	Distance float64 `json:"distance"` // pitch-class voice-leading distance from the input
	Score    float64 `json:"score"`    // rule weight plus scaled distance, lower is stronger
}

// shape is the harmonic function a chord's intervals suggest
type shape struct {
	major, minor, dim, halfDim, aug, sus bool
	dominant, majorSeventh, seventh      bool
}

func shapeOf(c Chord) shape {
	if c.system != SystemTertian {
		return shape{}
	}
	has := make(map[string]bool, len(c.members))
	for _, iv := range c.members {
		has[iv.String()] = true
	}
	var s shape
	s.major = has["M3"]
	s.minor = has["m3"] && !s.major
	s.sus = !has["M3"] && !has["m3"] && (has["P4"] || has["M2"])
	s.seventh = has["m7"] || has["M7"] || has["d7"]
	s.dim = s.minor && has["d5"] && !has["m7"]
	s.halfDim = s.minor && has["d5"] && has["m7"]
	s.aug = s.major && has["A5"] && !s.seventh
	s.dominant = s.major && has["m7"]
	s.majorSeventh = s.major && has["M7"]
	return s
}

type resolutionRule struct {
	name   string
	when   func(shape) bool
	motion pitch.Interval
	dir    pitch.Direction
	body   func(shape) string
	weight float64
}

func fixed(body string) func(shape) string {
	return func(shape) string { return body }
}

var resolutionRules = []resolutionRule{
	{"dominant to tonic", func(s shape) bool { return s.dominant }, pitch.PerfectFifth, pitch.Descending, fixed(""), 0},
	{"dominant to minor tonic", func(s shape) bool { return s.dominant }, pitch.PerfectFifth, pitch.Descending, fixed("m"), 0.5},
	{"deceptive", func(s shape) bool { return s.dominant }, pitch.MajorSecond, pitch.Ascending, fixed("m"), 1.0},
	{"tritone substitution", func(s shape) bool { return s.dominant }, pitch.MinorSecond, pitch.Descending, fixed(""), 1.5},
	{"leading tone", func(s shape) bool { return s.dim }, pitch.MinorSecond, pitch.Ascending, fixed(""), 0.5},
	{"leading tone to minor", func(s shape) bool { return s.dim }, pitch.MinorSecond, pitch.Ascending, fixed("m"), 0.75},
	{"half-diminished to dominant", func(s shape) bool { return s.halfDim }, pitch.PerfectFourth, pitch.Ascending, fixed("7"), 0.5},
	{"suspension", func(s shape) bool { return s.sus }, pitch.Unison, pitch.Ascending, func(s shape) string {
		if s.seventh {
			return "7"
		}
		return ""
	}, 0},
	{"authentic", func(s shape) bool { return s.major && !s.seventh && !s.aug }, pitch.PerfectFifth, pitch.Descending, fixed(""), 1.0},
	{"plagal", func(s shape) bool { return s.major && !s.seventh && !s.aug }, pitch.PerfectFifth, pitch.Ascending, fixed(""), 1.0},
	{"deceptive", func(s shape) bool { return s.major && !s.seventh && !s.aug }, pitch.MajorSecond, pitch.Ascending, fixed("m"), 1.5},
	{"predominant to dominant", func(s shape) bool { return s.minor && !s.dim && !s.halfDim }, pitch.PerfectFourth, pitch.Ascending, fixed("7"), 0.75},
	{"minor plagal", func(s shape) bool { return s.minor && !s.dim && !s.halfDim && !s.seventh }, pitch.PerfectFifth, pitch.Ascending, fixed(""), 1.25},
	{"augmented fifth rising", func(s shape) bool { return s.aug }, pitch.PerfectFourth, pitch.Ascending, fixed(""), 0.5},
	{"major seventh to subdominant", func(s shape) bool { return s.majorSeventh }, pitch.PerfectFourth, pitch.Ascending, fixed("maj7"), 1.0},
}

// fallback when no rule fits, e.g. for quartal or whole-tone chords
var fifthBelow = resolutionRule{"fifth below", nil, pitch.PerfectFifth, pitch.Descending, fixed(""), 1.5}

// SuggestResolution lists the chords c tends to resolve to, strongest
// first. Rules follow common-practice motion (V7 to I, vii° to I, ii to V,
// suspensions to their resolution); the distance between the pitch-class
// sets breaks ties between equally weighted rules.
func SuggestResolution(c Chord) []Resolution {
	if c.IsZero() {
		return nil
	}
	s := shapeOf(c)
	var matched []resolutionRule
	for _, r := range resolutionRules {
		if r.when(s) {
			matched = append(matched, r)
		}
	}
	if len(matched) == 0 {
		matched = append(matched, fifthBelow)
	}

	from := c.classValues()
	out := make([]Resolution, 0, len(matched))
	for _, r := range matched {
		root := pitch.Transpose(c.Root(), r.motion, r.dir)
		target, err := Parse(root.Name() + r.body(s))
		if err != nil {
			continue
		}
		dist := stats.PitchClassDistance(from, target.classValues())
		out = append(out, Resolution{
			Chord:    target,
			Rule:     r.name,
			Distance: dist,
			Score:    r.weight + dist/4,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score < out[j].Score
	})
	return out
}
