package chord

import (
	"sort"

	"github.com/RyanBlaney/sonido-theory/algorithms/chroma"
	"github.com/RyanBlaney/sonido-theory/algorithms/common"
	"github.com/RyanBlaney/sonido-theory/algorithms/pitch"
	"github.com/RyanBlaney/sonido-theory/algorithms/scale"
	"github.com/RyanBlaney/sonido-theory/logging"
)

// Candidate is one reading of a pitch set
type Candidate struct {
	Chord      Chord   `json:"chord"`
	Symbol     string  `json:"symbol"`
	System     System  `json:"system"`
	Cost       float64 `json:"cost"`       // lower is simpler
	Extensions int     `json:"extensions"` // tones above the seventh plus altered fifths
}

// Analysis holds every reading of a pitch set, simplest first
type Analysis struct {
	Input        []pitch.Pitch         `json:"input"`
	PitchClasses []int                 `json:"pitch_classes"`
	Candidates   []Candidate           `json:"candidates"`
	Profile      chroma.FourierProfile `json:"profile"` // DFT magnitudes of the pitch-class set
	Centroid     chroma.TonalCentroid  `json:"centroid"`
}

// Best returns the top candidate
func (a Analysis) Best() (Candidate, bool) {
	if len(a.Candidates) == 0 {
		return Candidate{}, false
	}
	return a.Candidates[0], true
}

// AnalyzerParams contains parameters for chord inference
type AnalyzerParams struct {
	MaxCandidates int `json:"max_candidates"` // 0 keeps every candidate
}

// DefaultAnalyzerParams returns the defaults used by NewAnalyzer
func DefaultAnalyzerParams() AnalyzerParams {
	return AnalyzerParams{MaxCandidates: 5}
}

// Analyzer infers chord symbols from pitch sets. It tries every pitch
// class as a root in every harmonic system and ranks the readings that
// explain all the notes.
type Analyzer struct {
	params AnalyzerParams
	logger logging.Logger
}

// NewAnalyzer creates an analyzer with default parameters
func NewAnalyzer() *Analyzer {
	return NewAnalyzerWithParams(DefaultAnalyzerParams())
}

// NewAnalyzerWithParams creates an analyzer with custom parameters
func NewAnalyzerWithParams(params AnalyzerParams) *Analyzer {
	return &Analyzer{
		params: params,
		logger: logging.WithFields(logging.Fields{
			"component": "chord_analyzer",
		}),
	}
}

// InferNames parses note names ("C4", "Eb", "G#3") and infers from them
func (a *Analyzer) InferNames(names ...string) (Analysis, error) {
	pitches := make([]pitch.Pitch, 0, len(names))
	for _, n := range names {
		p, err := pitch.Parse(n)
		if err != nil {
			return Analysis{}, err
		}
		pitches = append(pitches, p)
	}
	return a.Infer(pitches)
}

// Infer ranks the chord readings of a pitch set. When every pitch carries
// an octave the lowest one is the bass and readings over another root
// become slash chords; otherwise every reading is in root position. Equal
// costs go to the reading rooted on the bass, or on the first note listed
// when octaves are missing. A set no system explains yields a
// *NoMatchError.
func (a *Analyzer) Infer(pitches []pitch.Pitch) (Analysis, error) {
	logger := a.logger.WithFields(logging.Fields{
		"function": "Infer",
		"notes":    len(pitches),
	})

	if len(pitches) == 0 {
		return Analysis{}, &NoMatchError{Reason: "empty pitch set"}
	}
	for _, p := range pitches {
		if !pitch.TwelveTET.Contains(p.Value()) {
			return Analysis{}, &NoMatchError{
				PitchClasses: classesOf(pitches),
				Reason:       "microtonal pitch " + p.Name() + " has no chord reading",
			}
		}
	}

	classes := classesOf(pitches)
	spelled := make(map[int]pitch.Pitch, len(classes))
	allOctaves := true
	lowest := pitches[0]
	for _, p := range pitches {
		if _, ok := spelled[p.ClassInt()]; !ok {
			spelled[p.ClassInt()] = p.WithoutOctave()
		}
		if !p.HasOctave {
			allOctaves = false
		}
		if p.Value() < lowest.Value() {
			lowest = p
		}
	}
	bassClass := -1
	preferred := pitches[0].ClassInt()
	if allOctaves {
		bassClass = lowest.ClassInt()
		preferred = bassClass
	}

	result := Analysis{
		Input:        pitches,
		PitchClasses: classes,
		Profile:      chroma.NewFourierProfile(classes),
		Centroid:     chroma.CentroidOf(classes),
	}

	var candidates []Candidate
	for _, rc := range classes {
		root := spelled[rc]
		offsets := make([]int, 0, len(classes)-1)
		for _, c := range classes {
			if c != rc {
				offsets = append(offsets, common.PosModInt(c-rc, 12))
			}
		}
		for _, c := range readings(root, offsets) {
			if cand, ok := a.candidate(c, bassClass); ok {
				candidates = append(candidates, cand)
			}
		}
	}

	if len(candidates) == 0 {
		logger.Debug("No reading found", logging.Fields{"pitch_classes": classes})
		return result, &NoMatchError{PitchClasses: classes}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		x, y := candidates[i], candidates[j]
		if !common.NearlyEqual(x.Cost, y.Cost) {
			return x.Cost < y.Cost
		}
		if px, py := x.Chord.Root().ClassInt() == preferred, y.Chord.Root().ClassInt() == preferred; px != py {
			return px
		}
		if x.System != y.System {
			return x.System < y.System
		}
		if x.Extensions != y.Extensions {
			return x.Extensions < y.Extensions
		}
		if rx, ry := x.Chord.Root().ClassInt(), y.Chord.Root().ClassInt(); rx != ry {
			return rx < ry
		}
		return x.Symbol < y.Symbol
	})

	seen := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		if seen[c.Symbol] {
			continue
		}
		seen[c.Symbol] = true
		result.Candidates = append(result.Candidates, c)
	}
	if a.params.MaxCandidates > 0 && len(result.Candidates) > a.params.MaxCandidates {
		result.Candidates = result.Candidates[:a.params.MaxCandidates]
	}

	logger.Debug("Chord inference completed", logging.Fields{
		"candidates": len(result.Candidates),
		"best":       result.Candidates[0].Symbol,
	})
	return result, nil
}

// candidate puts the bass under c and scores it. A bass outside the chord
// rejects the reading.
func (a *Analyzer) candidate(c Chord, bassClass int) (Candidate, bool) {
	cost := c.complexity()
	if bassClass >= 0 && bassClass != c.Root().ClassInt() {
		found := false
		for _, m := range c.Members() {
			if m.ClassInt() == bassClass {
				c = c.WithBass(m)
				found = true
				break
			}
		}
		if !found {
			return Candidate{}, false
		}
		cost += costSlash
	}
	return Candidate{
		Chord:      c,
		Symbol:     c.Symbol(),
		System:     c.System(),
		Cost:       cost,
		Extensions: c.extensionCount(),
	}, true
}

// extensionCount counts tones above the seventh and altered fifths, or
// for the other systems the stack tones beyond three
func (c Chord) extensionCount() int {
	if c.system != SystemTertian {
		return c.stackedBeyondThree()
	}
	if len(c.members) < 2 {
		return 0
	}
	return renderTertian(c.members).exts
}

// readings returns every chord on root whose tones are exactly the root
// plus the offsets
func readings(root pitch.Pitch, offsets []int) []Chord {
	k := len(offsets) + 1
	if k == 1 {
		return []Chord{New(root, SystemTertian, nil)}
	}

	want := append([]int{0}, offsets...)
	sort.Ints(want)

	var out []Chord
	if ivs, ok := tertianIntervals(offsets); ok {
		out = append(out, New(root, SystemTertian, ivs))
	}
	if steps, ok := quartalSteps(want); ok {
		if c, err := QuartalPattern(root, steps); err == nil {
			out = append(out, c)
		}
	}
	matches := func(c Chord, err error) {
		if err == nil && sameClasses(c, root, want) {
			out = append(out, c)
		}
	}
	if k >= 3 && k <= 6 {
		matches(WholeTone(root, k))
	}
	if k >= 3 && k <= 5 {
		matches(JapaneseChord(root, scale.Yo, k))
		matches(JapaneseChord(root, scale.In, k))
	}
	if k >= 4 && k <= 7 {
		matches(Hybrid(root, k-2))
	}
	return out
}

func sameClasses(c Chord, root pitch.Pitch, want []int) bool {
	pcs := c.PitchClasses()
	if len(pcs) != len(want) {
		return false
	}
	rel := make([]int, len(pcs))
	for i, pc := range pcs {
		rel[i] = common.PosModInt(pc-root.ClassInt(), 12)
	}
	sort.Ints(rel)
	for i := range rel {
		if rel[i] != want[i] {
			return false
		}
	}
	return true
}

// quartalSteps orders the offsets as a chain of fourths from the root,
// trying perfect fourths first and allowing one augmented fourth
func quartalSteps(want []int) ([]pitch.Interval, bool) {
	k := len(want)
	if k < 3 || k > 7 {
		return nil, false
	}
	member := make(map[int]bool, k)
	for _, o := range want {
		member[o] = true
	}
	visited := map[int]bool{0: true}
	steps := make([]pitch.Interval, 0, k-1)

	var dfs func(cur int, augUsed bool) bool
	dfs = func(cur int, augUsed bool) bool {
		if len(steps) == k-1 {
			return true
		}
		options := []struct {
			semis int
			iv    pitch.Interval
		}{{5, pitch.PerfectFourth}, {6, pitch.Tritone}}
		for _, opt := range options {
			if opt.semis == 6 && augUsed {
				continue
			}
			next := (cur + opt.semis) % 12
			if !member[next] || visited[next] {
				continue
			}
			visited[next] = true
			steps = append(steps, opt.iv)
			if dfs(next, augUsed || opt.semis == 6) {
				return true
			}
			steps = steps[:len(steps)-1]
			visited[next] = false
		}
		return false
	}
	if !dfs(0, false) {
		return nil, false
	}
	return steps, true
}

func classesOf(pitches []pitch.Pitch) []int {
	seen := make(map[int]bool, len(pitches))
	for _, p := range pitches {
		seen[p.ClassInt()] = true
	}
	out := make([]int, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Ints(out)
	return out
}
