package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/RyanBlaney/sonido-theory/algorithms/common"
)

// DistanceMetric selects a vector distance
type DistanceMetric int

const (
	EuclideanDistance DistanceMetric = iota
	ManhattanDistance
	CosineDistance
)

// DistanceFunction is a function type for computing distance between two vectors
type DistanceFunction func(a, b []float64) float64

// GetDistanceFunction returns the appropriate distance function for the given metric
func GetDistanceFunction(metric DistanceMetric) DistanceFunction {
	switch metric {
	case ManhattanDistance:
		return ManhattanDistanceFunc
	case CosineDistance:
		return CosineDistanceFunc
	default:
		return EuclideanDistanceFunc
	}
}

// EuclideanDistanceFunc calculates Euclidean distance between two points
func EuclideanDistanceFunc(a, b []float64) float64 {
	if len(a) != len(b) {
		return math.Inf(1)
	}
	return floats.Distance(a, b, 2)
}

// ManhattanDistanceFunc calculates Manhattan (L1) distance between two points
func ManhattanDistanceFunc(a, b []float64) float64 {
	if len(a) != len(b) {
		return math.Inf(1)
	}
	return floats.Distance(a, b, 1)
}

// CosineDistanceFunc calculates cosine distance (1 - cosine similarity)
func CosineDistanceFunc(a, b []float64) float64 {
	if len(a) != len(b) {
		return 1.0
	}
	normA := floats.Norm(a, 2)
	normB := floats.Norm(b, 2)
	if normA == 0 || normB == 0 {
		return 1.0
	}
	return 1.0 - floats.Dot(a, b)/(normA*normB)
}

// Voice-leading metrics. Notes are absolute pitch values in semitones.
// Each note of the larger chord is one voice. Voices keep their register
// order: the lowest old note moves to the lowest new note and so on. When
// the chords differ in size notes of the smaller chord are doubled, each at
// least once. On a line an order-preserving assignment is always among the
// cheapest, so only those are searched.

func absDiff(a, b float64) float64 { return math.Abs(a - b) }

func classDiff(a, b float64) float64 { return common.CircularDistance(a, b, 12) }

// cover returns the cheapest order-preserving assignment of voices
// between two sorted chords. Only notes of the smaller chord are shared.
func cover(from, to []float64, dist func(a, b float64) float64) float64 {
	n, m := len(from), len(to)
	cost := make([][]float64, n+1)
	for i := range cost {
		cost[i] = make([]float64, m+1)
		for j := range cost[i] {
			cost[i][j] = math.Inf(1)
		}
	}
	cost[0][0] = 0
	for i := 1; i <= n; i++ {
		for j := 1; j <= m; j++ {
			best := cost[i-1][j-1]
			if n > m {
				best = math.Min(best, cost[i-1][j])
			}
			if m > n {
				best = math.Min(best, cost[i][j-1])
			}
			cost[i][j] = dist(from[i-1], to[j-1]) + best
		}
	}
	return cost[n][m]
}

func sortedCopy(v []float64) []float64 {
	out := make([]float64, len(v))
	copy(out, v)
	sort.Float64s(out)
	return out
}

// VoiceLeadingDistance is the least total semitone motion taking one
// voicing to the other, e.g. 1 from C4 E4 G4 to C4 E4 G#4
func VoiceLeadingDistance(from, to []float64) float64 {
	if len(from) == 0 || len(to) == 0 {
		return 0
	}
	return cover(sortedCopy(from), sortedCopy(to), absDiff)
}

// PitchClassDistance is VoiceLeadingDistance on the pitch-class circle,
// for chords that have no register yet. Register order becomes cyclic
// order, so every rotation of both chords is tried.
func PitchClassDistance(from, to []float64) float64 {
	if len(from) == 0 || len(to) == 0 {
		return 0
	}
	a, b := classes(from), classes(to)
	best := math.Inf(1)
	for i := range a {
		for j := range b {
			best = math.Min(best, cover(rotate(a, i), rotate(b, j), classDiff))
		}
	}
	return best
}

func classes(values []float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = common.PosMod(v, 12)
	}
	sort.Float64s(out)
	return out
}

func rotate(v []float64, k int) []float64 {
	return append(append([]float64(nil), v[k:]...), v[:k]...)
}

// NetMotion is the shift of the voicing's centre of gravity, positive when
// the chord moves up
func NetMotion(from, to []float64) float64 {
	if len(from) == 0 || len(to) == 0 {
		return 0
	}
	return common.Mean(to) - common.Mean(from)
}

// CommonTones counts notes held at exactly the same pitch
func CommonTones(from, to []float64) int {
	count := 0
	for _, n := range to {
		for _, p := range from {
			if common.NearlyEqual(n, p) {
				count++
				break
			}
		}
	}
	return count
}
