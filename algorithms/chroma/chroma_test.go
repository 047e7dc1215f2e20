package chroma

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProfile(t *testing.T) {
	// C E G C' with the top C held twice as long
	p := NewProfile([]float64{0, 4, 7, 12}, []float64{1, 1, 1, 2})

	assert.InDelta(t, 0.6, p.Profile[0], 1e-9)
	assert.InDelta(t, 0.2, p.Profile[4], 1e-9)
	assert.InDelta(t, 1.0, sum(p.Profile), 1e-9)

	dom := p.Dominant(1)
	require.Len(t, dom, 1)
	assert.Equal(t, "C", dom[0].Name)

	// a quarter tone splits between neighbours
	q := NewProfile([]float64{0.5}, nil)
	assert.InDelta(t, 0.5, q.Profile[0], 1e-9)
	assert.InDelta(t, 0.5, q.Profile[1], 1e-9)
}

func TestProfileEntropy(t *testing.T) {
	single := NewProfile([]float64{3}, nil)
	assert.InDelta(t, 0, single.Entropy, 1e-9)

	all := make([]float64, 12)
	for i := range all {
		all[i] = float64(i)
	}
	uniform := NewProfile(all, nil)
	assert.InDelta(t, 1.0, uniform.Uniformity, 1e-9)

	empty := NewProfile(nil, nil)
	assert.Zero(t, empty.Entropy)
}

func TestRotateAndSimilarity(t *testing.T) {
	c := NewProfile([]float64{0, 4, 7}, nil)
	d := NewProfile([]float64{2, 6, 9}, nil)

	assert.InDelta(t, 1.0, FromVector(d.Rotate(2)).Similarity(c), 1e-9)
	assert.Less(t, c.Similarity(d), 1.0)
}

func TestFourierProfile(t *testing.T) {
	wholeTone := NewFourierProfile([]int{0, 2, 4, 6, 8, 10})
	assert.Equal(t, 6, wholeTone.Cardinal)
	assert.InDelta(t, 6.0, wholeTone.Component(6), 1e-9)
	assert.InDelta(t, 0.0, wholeTone.Component(1), 1e-9)
	assert.Equal(t, 6, wholeTone.Strongest())

	single := NewFourierProfile([]int{0})
	for k := 1; k <= 6; k++ {
		assert.InDelta(t, 1.0, single.Component(k), 1e-9)
	}

	// the diatonic collection peaks at f5
	diatonic := NewFourierProfile([]int{0, 2, 4, 5, 7, 9, 11})
	assert.Equal(t, 5, diatonic.Strongest())

	augmented := NewFourierProfile([]int{0, 4, 8})
	assert.InDelta(t, 3.0, augmented.Component(3), 1e-9)

	assert.Zero(t, single.Component(7))
}

func sum(v []float64) float64 {
	total := 0.0
	for _, x := range v {
		total += x
	}
	return total
}

func TestTonalCentroid(t *testing.T) {
	c := CentroidOf([]int{0, 4, 7})
	am := CentroidOf([]int{9, 0, 4})
	fs := CentroidOf([]int{6, 10, 1})

	assert.InDelta(t, 0, c.Distance(CentroidOf([]int{7, 0, 4})), 1e-12)
	assert.Less(t, c.Distance(am), c.Distance(fs))

	// a lone class sits on all three circles
	single := CentroidOf([]int{0})
	assert.InDelta(t, math.Sqrt(1+1+0.25), single.Strength(), 1e-9)

	// the chromatic aggregate cancels out
	all := make([]int, 12)
	for i := range all {
		all[i] = i
	}
	assert.InDelta(t, 0, CentroidOf(all).Strength(), 1e-9)
	assert.Equal(t, TonalCentroid{}, NewTonalCentroid(FromVector(nil)))
}
