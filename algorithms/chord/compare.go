package chord

import (
	"fmt"

	"github.com/RyanBlaney/sonido-theory/algorithms/chroma"
	"github.com/RyanBlaney/sonido-theory/algorithms/stats"
)

// ChordPair is one step of an aligned pair of progressions
type ChordPair struct {
	Query     string  `json:"query"`
	Reference string  `json:"reference"`
	Distance  float64 `json:"distance"` // tonal centroid distance
}

// ProgressionComparison aligns two progressions chord by chord. Chords
// are compared by their tonal centroids, so a substitution sharing most
// tones costs little and a held chord costs nothing.
type ProgressionComparison struct {
	Distance   float64     `json:"distance"`   // mean centroid distance along the path
	Similarity float64     `json:"similarity"` // 1 / (1 + Distance)
	Path       []ChordPair `json:"path"`
}

// CompareProgressions aligns query against reference with dynamic time
// warping over tonal centroids
func CompareProgressions(query, reference []Chord) (ProgressionComparison, error) {
	q, err := centroids(query)
	if err != nil {
		return ProgressionComparison{}, fmt.Errorf("query: %w", err)
	}
	r, err := centroids(reference)
	if err != nil {
		return ProgressionComparison{}, fmt.Errorf("reference: %w", err)
	}

	res, err := stats.NewDTWAlignment().Align(q, r)
	if err != nil {
		return ProgressionComparison{}, err
	}

	out := ProgressionComparison{
		Distance:   res.Distance,
		Similarity: 1 / (1 + res.Distance),
		Path:       make([]ChordPair, len(res.Path)),
	}
	for i, p := range res.Path {
		out.Path[i] = ChordPair{
			Query:     query[p.QueryIndex].Symbol(),
			Reference: reference[p.RefIndex].Symbol(),
			Distance:  p.Cost,
		}
	}
	return out, nil
}

func centroids(progression []Chord) ([][]float64, error) {
	if len(progression) == 0 {
		return nil, fmt.Errorf("empty progression")
	}
	out := make([][]float64, len(progression))
	for i, c := range progression {
		if c.IsZero() {
			return nil, fmt.Errorf("chord %d is empty", i+1)
		}
		tc := chroma.CentroidOf(c.PitchClasses())
		out[i] = tc[:]
	}
	return out, nil
}
