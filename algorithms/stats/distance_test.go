package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVoiceLeadingDistance(t *testing.T) {
	// C major (C4 E4 G4) to F major second inversion (C4 F4 A4)
	c := []float64{0, 4, 7}
	f := []float64{0, 5, 9}

	// C stays, E to F, G to A
	assert.InDelta(t, 3.0, VoiceLeadingDistance(c, f), 1e-9)
	assert.InDelta(t, 0.0, VoiceLeadingDistance(c, c), 1e-9)
	assert.Equal(t, 1, CommonTones(c, f))
	assert.InDelta(t, 1.0, NetMotion(c, f), 1e-9)

	// only the fifth moves to C augmented
	assert.InDelta(t, 1.0, VoiceLeadingDistance(c, []float64{0, 4, 8}), 1e-9)
	// input order does not matter
	assert.InDelta(t, 3.0, VoiceLeadingDistance([]float64{7, 0, 4}, []float64{9, 5, 0}), 1e-9)

	assert.Zero(t, VoiceLeadingDistance(nil, f))
}

func TestVoiceLeadingDistanceDoubling(t *testing.T) {
	c := []float64{0, 4, 7}
	c7 := []float64{0, 4, 7, 10}

	// G is doubled and one copy moves up to Bb
	assert.InDelta(t, 3.0, VoiceLeadingDistance(c, c7), 1e-9)
	assert.InDelta(t, 3.0, VoiceLeadingDistance(c7, c), 1e-9)
	// a single voice spreads to a whole chord
	assert.InDelta(t, 11.0, VoiceLeadingDistance([]float64{0}, c), 1e-9)
}

func TestVoiceLeadingDistanceMatchesExhaustiveSearch(t *testing.T) {
	// every assignment of three old voices to three new ones
	perms := [][3]int{{0, 1, 2}, {0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0}}
	chords := [][]float64{
		{0, 4, 7}, {-3, 0, 4}, {-7, 0, 9}, {2, 5, 11}, {-5, 7, 16}, {0, 4, 8}, {1, 6, 13},
	}
	for _, from := range chords {
		for _, to := range chords {
			best := 1e9
			for _, p := range perms {
				sum := 0.0
				for i := range from {
					d := from[i] - to[p[i]]
					if d < 0 {
						d = -d
					}
					sum += d
				}
				if sum < best {
					best = sum
				}
			}
			assert.InDelta(t, best, VoiceLeadingDistance(from, to), 1e-9, "%v -> %v", from, to)
		}
	}
}

func TestPitchClassDistance(t *testing.T) {
	// B to C wraps around the octave
	assert.InDelta(t, 1.0, PitchClassDistance([]float64{11}, []float64{0}), 1e-9)
	assert.InDelta(t, 11.0, VoiceLeadingDistance([]float64{11}, []float64{0}), 1e-9)

	// G7 (G B D F) to C (C E G): B up, F down, D doubled to C
	assert.InDelta(t, 4.0, PitchClassDistance([]float64{7, 11, 2, 5}, []float64{0, 4, 7}), 1e-9)
	assert.Zero(t, PitchClassDistance([]float64{0, 4, 7}, []float64{12, 16, 19}))
}

func TestDistanceFunctions(t *testing.T) {
	a := []float64{1, 0, 0}
	b := []float64{0, 1, 0}

	assert.InDelta(t, 1.4142135, GetDistanceFunction(EuclideanDistance)(a, b), 1e-6)
	assert.InDelta(t, 2.0, GetDistanceFunction(ManhattanDistance)(a, b), 1e-9)
	assert.InDelta(t, 1.0, GetDistanceFunction(CosineDistance)(a, b), 1e-9)
	assert.InDelta(t, 0.0, CosineDistanceFunc(a, a), 1e-9)
	assert.InDelta(t, 1.0, CosineDistanceFunc(a, []float64{0, 0, 0}), 1e-9)
}
