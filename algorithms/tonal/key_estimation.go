package tonal

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/RyanBlaney/sonido-theory/algorithms/chroma"
	"github.com/RyanBlaney/sonido-theory/algorithms/common"
	"github.com/RyanBlaney/sonido-theory/algorithms/pitch"
	"github.com/RyanBlaney/sonido-theory/algorithms/scale"
	"github.com/RyanBlaney/sonido-theory/logging"
)

// ErrEmptyExcerpt is returned when there are no notes to estimate from
var ErrEmptyExcerpt = errors.New("no notes to estimate a key from")

// KeyProfile represents different key detection profiles
type KeyProfile int

const (
	KeyProfileKrumhansl KeyProfile = iota
	KeyProfileTemperley
	KeyProfileDiatonic
	KeyProfileTonicTriad
)

var profileNames = map[KeyProfile]string{
	KeyProfileKrumhansl:  "krumhansl",
	KeyProfileTemperley:  "temperley",
	KeyProfileDiatonic:   "diatonic",
	KeyProfileTonicTriad: "tonic-triad",
}

func (p KeyProfile) String() string {
	if name, ok := profileNames[p]; ok {
		return name
	}
	return fmt.Sprintf("KeyProfile(%d)", int(p))
}

// ParseKeyProfile reads a profile name as used in configuration
func ParseKeyProfile(name string) (KeyProfile, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "krumhansl", "krumhansl-schmuckler", "kk":
		return KeyProfileKrumhansl, nil
	case "temperley":
		return KeyProfileTemperley, nil
	case "diatonic":
		return KeyProfileDiatonic, nil
	case "tonic-triad", "triad":
		return KeyProfileTonicTriad, nil
	}
	return 0, fmt.Errorf("unknown key profile %q", name)
}

// KeyProfileTemplate contains template for key profile. Index 0 is the
// tonic.
type KeyProfileTemplate struct {
	MajorProfile []float64 `json:"major_profile"`
	MinorProfile []float64 `json:"minor_profile"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
}

var keyProfiles = map[KeyProfile]KeyProfileTemplate{
	// Krumhansl-Kessler probe-tone ratings
	KeyProfileKrumhansl: {
		MajorProfile: []float64{6.35, 2.23, 3.48, 2.33, 4.38, 4.09, 2.52, 5.19, 2.39, 3.66, 2.29, 2.88},
		MinorProfile: []float64{6.33, 2.68, 3.52, 5.38, 2.60, 3.53, 2.54, 4.75, 3.98, 2.69, 3.34, 3.17},
		Name:         "Krumhansl-Schmuckler",
		Description:  "Empirical profiles based on listener ratings",
	},
	KeyProfileTemperley: {
		MajorProfile: []float64{5.0, 2.0, 3.5, 2.0, 4.5, 4.0, 2.0, 4.5, 2.0, 3.5, 1.5, 4.0},
		MinorProfile: []float64{5.0, 2.0, 3.5, 4.5, 2.0, 4.0, 2.0, 4.5, 3.5, 2.0, 1.5, 4.0},
		Name:         "Temperley",
		Description:  "Statistical profiles from musical corpora",
	},
	KeyProfileDiatonic: {
		MajorProfile: []float64{5.0, 0.0, 3.0, 0.0, 4.0, 3.5, 0.0, 4.5, 0.0, 3.0, 0.0, 2.0},
		MinorProfile: []float64{5.0, 0.0, 3.0, 3.5, 0.0, 3.5, 0.0, 4.5, 3.0, 0.0, 2.0, 0.0},
		Name:         "Diatonic",
		Description:  "Simple diatonic scale weights",
	},
	KeyProfileTonicTriad: {
		MajorProfile: []float64{5.0, 0.0, 0.0, 0.0, 3.0, 0.0, 0.0, 4.0, 0.0, 0.0, 0.0, 0.0},
		MinorProfile: []float64{5.0, 0.0, 0.0, 3.0, 0.0, 0.0, 0.0, 4.0, 0.0, 0.0, 0.0, 0.0},
		Name:         "Tonic Triad",
		Description:  "Emphasizes tonic triad notes only",
	},
}

// Template returns the profile's major and minor weights
func (p KeyProfile) Template() (KeyProfileTemplate, bool) {
	t, ok := keyProfiles[p]
	return t, ok
}

// KeyCandidate represents a potential key with confidence
type KeyCandidate struct {
	Key         scale.Key `json:"key"`
	Minor       bool      `json:"minor"`
	Correlation float64   `json:"correlation"` // Pearson correlation with the rotated profile
	Confidence  float64   `json:"confidence"`  // correlation mapped to 0-1
}

// Name returns e.g. "C major" or "F# minor"
func (kc KeyCandidate) Name() string {
	if kc.Minor {
		return kc.Key.Tonic.Name() + " minor"
	}
	return kc.Key.Tonic.Name() + " major"
}

// KeyEstimationResult contains key estimation results
type KeyEstimationResult struct {
	Best       KeyCandidate              `json:"best"`
	Candidates []KeyCandidate            `json:"candidates"`
	Histogram  *chroma.PitchClassProfile `json:"histogram"`
	Profile    string                    `json:"profile"`

	// Correlation with each key, 0-11 major then 0-11 minor by tonic class
	CorrelationScores []float64 `json:"correlation_scores"`

	Clarity   float64 `json:"clarity"`   // (best - second) / best
	Ambiguity float64 `json:"ambiguity"` // normalized entropy of the positive scores
	Stability float64 `json:"stability"` // share of segments agreeing with the best key
}

// KeyEstimationParams contains parameters for key estimation
type KeyEstimationParams struct {
	Profile       KeyProfile `json:"profile"`
	MaxCandidates int        `json:"max_candidates"` // Maximum candidates to return
	PreferFlats   bool       `json:"prefer_flats"`   // spelling of tonics with no note in the excerpt and equal signatures
}

// DefaultKeyEstimationParams returns Krumhansl profiles with five candidates
func DefaultKeyEstimationParams() KeyEstimationParams {
	return KeyEstimationParams{
		Profile:       KeyProfileKrumhansl,
		MaxCandidates: 5,
	}
}

// KeyEstimator ranks major and minor keys for an excerpt by correlating
// its pitch-class histogram with a key profile
type KeyEstimator struct {
	params KeyEstimationParams
	logger logging.Logger
}

// NewKeyEstimator creates a new key estimator with default parameters
func NewKeyEstimator() *KeyEstimator {
	return NewKeyEstimatorWithParams(DefaultKeyEstimationParams())
}

// NewKeyEstimatorWithParams creates a key estimator with custom parameters
func NewKeyEstimatorWithParams(params KeyEstimationParams) *KeyEstimator {
	return &KeyEstimator{
		params: params,
		logger: logging.WithFields(logging.Fields{
			"component": "key_estimator",
		}),
	}
}

// Estimate ranks keys for the notes. Weights are optional (e.g. note
// durations) and nil counts every note once. Tonics are spelled the way
// the excerpt spells them when it contains the tonic.
func (ke *KeyEstimator) Estimate(notes []pitch.Pitch, weights []float64) (KeyEstimationResult, error) {
	if len(notes) == 0 {
		return KeyEstimationResult{}, ErrEmptyExcerpt
	}
	if weights != nil && len(weights) != len(notes) {
		return KeyEstimationResult{}, fmt.Errorf("%d weights for %d notes", len(weights), len(notes))
	}

	values := make([]float64, len(notes))
	for i, n := range notes {
		values[i] = n.Value()
	}
	return ke.estimate(chroma.NewProfile(values, weights), spellings(notes))
}

// EstimateProfile ranks keys for an existing pitch-class histogram
func (ke *KeyEstimator) EstimateProfile(hist *chroma.PitchClassProfile) (KeyEstimationResult, error) {
	if hist == nil {
		return KeyEstimationResult{}, ErrEmptyExcerpt
	}
	return ke.estimate(hist, nil)
}

// EstimateSequence estimates the key of a phrase from all of its segments
// together and reports how many segments agree on their own
func (ke *KeyEstimator) EstimateSequence(segments [][]pitch.Pitch) (KeyEstimationResult, error) {
	var all []pitch.Pitch
	for _, s := range segments {
		all = append(all, s...)
	}
	result, err := ke.Estimate(all, nil)
	if err != nil {
		return KeyEstimationResult{}, err
	}

	agree, counted := 0, 0
	for _, s := range segments {
		if len(s) == 0 {
			continue
		}
		r, err := ke.Estimate(s, nil)
		if err != nil {
			continue
		}
		counted++
		if sameKey(r.Best, result.Best) {
			agree++
		}
	}
	if counted > 0 {
		result.Stability = float64(agree) / float64(counted)
	}
	return result, nil
}

func sameKey(a, b KeyCandidate) bool {
	return a.Minor == b.Minor && a.Key.Tonic.ClassInt() == b.Key.Tonic.ClassInt()
}

func (ke *KeyEstimator) estimate(hist *chroma.PitchClassProfile, spelled map[int]pitch.Pitch) (KeyEstimationResult, error) {
	logger := ke.logger.WithFields(logging.Fields{
		"function": "estimate",
		"profile":  ke.params.Profile.String(),
	})

	template, ok := keyProfiles[ke.params.Profile]
	if !ok {
		return KeyEstimationResult{}, fmt.Errorf("unknown key profile %d", int(ke.params.Profile))
	}
	if common.Sum(hist.Profile) == 0 {
		return KeyEstimationResult{}, ErrEmptyExcerpt
	}

	scores := make([]float64, 2*chroma.Bins)
	candidates := make([]KeyCandidate, 0, 2*chroma.Bins)
	for tonic := 0; tonic < chroma.Bins; tonic++ {
		rotated := hist.Rotate(tonic)
		for _, minor := range []bool{false, true} {
			weights := template.MajorProfile
			idx := tonic
			if minor {
				weights = template.MinorProfile
				idx += chroma.Bins
			}
			r := common.Correlation(rotated, weights)
			scores[idx] = r

			k, err := ke.buildKey(tonic, minor, spelled)
			if err != nil {
				return KeyEstimationResult{}, err
			}
			candidates = append(candidates, KeyCandidate{
				Key:         k,
				Minor:       minor,
				Correlation: r,
				Confidence:  (r + 1) / 2,
			})
		}
	}

	// major before minor, then lower tonic, on equal correlation
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Correlation > candidates[j].Correlation
	})

	result := KeyEstimationResult{
		Best:              candidates[0],
		Histogram:         hist,
		Profile:           template.Name,
		CorrelationScores: scores,
		Clarity:           clarity(candidates),
		Ambiguity:         ambiguity(scores),
	}
	if n := ke.params.MaxCandidates; n > 0 && n < len(candidates) {
		candidates = candidates[:n]
	}
	result.Candidates = candidates

	logger.Debug("Key estimated", logging.Fields{
		"key":         result.Best.Name(),
		"correlation": result.Best.Correlation,
		"clarity":     result.Clarity,
	})
	return result, nil
}

// buildKey spells the tonic from the excerpt when possible, otherwise
// with the smaller key signature
func (ke *KeyEstimator) buildKey(class int, minor bool, spelled map[int]pitch.Pitch) (scale.Key, error) {
	mode := scale.Ionian
	if minor {
		mode = scale.NaturalMinor
	}
	if p, ok := spelled[class]; ok {
		return scale.Build(p, mode)
	}

	sharp, err := scale.Build(pitch.FromClass(class, false), mode)
	if err != nil {
		return scale.Key{}, err
	}
	flat, err := scale.Build(pitch.FromClass(class, true), mode)
	if err != nil {
		return scale.Key{}, err
	}
	s, _ := scale.Signature(sharp)
	f, _ := scale.Signature(flat)
	switch {
	case common.Abs(s) < common.Abs(f):
		return sharp, nil
	case common.Abs(f) < common.Abs(s):
		return flat, nil
	case ke.params.PreferFlats:
		return flat, nil
	}
	return sharp, nil
}

// spellings keeps the first spelling the excerpt uses for each class
func spellings(notes []pitch.Pitch) map[int]pitch.Pitch {
	out := make(map[int]pitch.Pitch)
	for _, n := range notes {
		if n.Microtone != 0 {
			continue
		}
		c := n.ClassInt()
		if _, ok := out[c]; !ok {
			out[c] = n.WithoutOctave()
		}
	}
	return out
}

func clarity(sorted []KeyCandidate) float64 {
	if len(sorted) < 2 || sorted[0].Correlation <= 0 {
		return 0.0
	}
	return (sorted[0].Correlation - sorted[1].Correlation) / sorted[0].Correlation
}

func ambiguity(scores []float64) float64 {
	sum := 0.0
	for _, score := range scores {
		if score > 0 {
			sum += score
		}
	}
	if sum == 0 {
		return 0.0
	}

	entropy := 0.0
	for _, score := range scores {
		if score > 0 {
			prob := score / sum
			entropy -= prob * math.Log2(prob)
		}
	}
	return entropy / math.Log2(float64(len(scores)))
}
