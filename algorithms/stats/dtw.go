package stats

import (
	"fmt"
	"math"
)

// DTWAlignment aligns two sequences of different lengths with dynamic
// time warping, e.g. a progression against a variant that repeats or
// holds some of its chords
type DTWAlignment struct {
	constraintBand int // Sakoe-Chiba band, -1 for none
	distanceMetric DistanceMetric
}

// DTWResult contains DTW alignment results
type DTWResult struct {
	Distance    float64      `json:"distance"`     // accumulated cost divided by path length
	Total       float64      `json:"total"`        // accumulated cost
	Path        []AlignPoint `json:"path"`         // optimal alignment path, start to end
	QueryLength int          `json:"query_length"` // Length of query sequence
	RefLength   int          `json:"ref_length"`   // Length of reference sequence
	Constraint  int          `json:"constraint"`   // Band constraint used
}

// AlignPoint represents a point in the alignment path
type AlignPoint struct {
	QueryIndex int     `json:"query_index"` // Index in query sequence
	RefIndex   int     `json:"ref_index"`   // Index in reference sequence
	Cost       float64 `json:"cost"`        // Local cost at this point
}

// NewDTWAlignment creates an unconstrained Euclidean DTW
func NewDTWAlignment() *DTWAlignment {
	return &DTWAlignment{
		constraintBand: -1,
		distanceMetric: EuclideanDistance,
	}
}

// NewDTWAlignmentWithParams creates DTW with custom parameters
func NewDTWAlignmentWithParams(constraintBand int, metric DistanceMetric) *DTWAlignment {
	return &DTWAlignment{
		constraintBand: constraintBand,
		distanceMetric: metric,
	}
}

// Align performs DTW alignment between two sequences using the symmetric
// step pattern: (i-1,j), (i,j-1), (i-1,j-1)
func (dtw *DTWAlignment) Align(query, reference [][]float64) (*DTWResult, error) {
	if len(query) == 0 || len(reference) == 0 {
		return nil, fmt.Errorf("empty sequences provided")
	}

	n, m := len(query), len(reference)
	if dtw.constraintBand >= 0 && dtw.constraintBand < abs(n-m) {
		return nil, fmt.Errorf("band %d cannot reach the end of sequences of length %d and %d",
			dtw.constraintBand, n, m)
	}

	distanceFunc := GetDistanceFunction(dtw.distanceMetric)

	// cost[i][j] covers query[:i] and reference[:j]
	cost := make([][]float64, n+1)
	local := make([][]float64, n+1)
	for i := range cost {
		cost[i] = make([]float64, m+1)
		local[i] = make([]float64, m+1)
		for j := range cost[i] {
			cost[i][j] = math.Inf(1)
		}
	}
	cost[0][0] = 0

	for i := 1; i <= n; i++ {
		for j := 1; j <= m; j++ {
			if dtw.constraintBand >= 0 && abs(i-j) > dtw.constraintBand {
				continue
			}
			local[i][j] = distanceFunc(query[i-1], reference[j-1])
			best := math.Min(cost[i-1][j-1], math.Min(cost[i-1][j], cost[i][j-1]))
			cost[i][j] = local[i][j] + best
		}
	}

	path := backtrack(cost, local, n, m)
	return &DTWResult{
		Distance:    cost[n][m] / float64(len(path)),
		Total:       cost[n][m],
		Path:        path,
		QueryLength: n,
		RefLength:   m,
		Constraint:  dtw.constraintBand,
	}, nil
}

// backtrack walks from (n,m) to (1,1), preferring the diagonal on ties
func backtrack(cost, local [][]float64, n, m int) []AlignPoint {
	var path []AlignPoint
	i, j := n, m
	for {
		path = append(path, AlignPoint{QueryIndex: i - 1, RefIndex: j - 1, Cost: local[i][j]})
		if i == 1 && j == 1 {
			break
		}
		switch {
		case i == 1:
			j--
		case j == 1:
			i--
		default:
			diag, up, left := cost[i-1][j-1], cost[i-1][j], cost[i][j-1]
			switch {
			case diag <= up && diag <= left:
				i, j = i-1, j-1
			case up <= left:
				i--
			default:
				j--
			}
		}
	}
	for l, r := 0, len(path)-1; l < r; l, r = l+1, r-1 {
		path[l], path[r] = path[r], path[l]
	}
	return path
}

// AlignVectors aligns two 1D sequences
func (dtw *DTWAlignment) AlignVectors(query, reference []float64) (*DTWResult, error) {
	wrap := func(v []float64) [][]float64 {
		out := make([][]float64, len(v))
		for i, x := range v {
			out[i] = []float64{x}
		}
		return out
	}
	return dtw.Align(wrap(query), wrap(reference))
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
