package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlignVectors(t *testing.T) {
	dtw := NewDTWAlignment()

	same, err := dtw.AlignVectors([]float64{1, 2, 3}, []float64{1, 2, 3})
	require.NoError(t, err)
	assert.Zero(t, same.Distance)
	require.Len(t, same.Path, 3)
	for i, p := range same.Path {
		assert.Equal(t, i, p.QueryIndex)
		assert.Equal(t, i, p.RefIndex)
	}

	// a held value warps onto the repeat at no cost
	held, err := dtw.AlignVectors([]float64{1, 2, 3}, []float64{1, 2, 2, 3})
	require.NoError(t, err)
	assert.Zero(t, held.Total)
	assert.Len(t, held.Path, 4)
	assert.Equal(t, AlignPoint{QueryIndex: 2, RefIndex: 3}, held.Path[3])

	shifted, err := dtw.AlignVectors([]float64{0, 0}, []float64{1, 1})
	require.NoError(t, err)
	assert.InDelta(t, 2.0, shifted.Total, 1e-12)
	assert.InDelta(t, 1.0, shifted.Distance, 1e-12)
}

func TestAlignConstraints(t *testing.T) {
	_, err := NewDTWAlignment().Align(nil, [][]float64{{1}})
	assert.Error(t, err)

	banded := NewDTWAlignmentWithParams(1, ManhattanDistance)
	_, err = banded.AlignVectors([]float64{1}, []float64{1, 1, 1})
	assert.Error(t, err)

	res, err := banded.AlignVectors([]float64{1, 5}, []float64{1, 4, 5})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, res.Total, 1e-12)
	assert.Equal(t, 1, res.Constraint)
}
