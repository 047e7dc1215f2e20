package chord

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseAll(symbols ...string) []Chord {
	out := make([]Chord, len(symbols))
	for i, s := range symbols {
		out[i] = MustParse(s)
	}
	return out
}

func TestCompareProgressions(t *testing.T) {
	cadence := parseAll("C", "F", "G", "C")

	same, err := CompareProgressions(cadence, cadence)
	require.NoError(t, err)
	assert.InDelta(t, 0, same.Distance, 1e-12)
	assert.InDelta(t, 1, same.Similarity, 1e-12)
	assert.Len(t, same.Path, 4)

	// holding the subdominant for two bars still aligns perfectly
	held, err := CompareProgressions(cadence, parseAll("C", "F", "F", "G", "C"))
	require.NoError(t, err)
	assert.InDelta(t, 0, held.Distance, 1e-12)
	require.Len(t, held.Path, 5)
	assert.Equal(t, ChordPair{Query: "F", Reference: "F"}, held.Path[2])

	// a relative-minor substitution is closer than a tritone substitution
	relative, err := CompareProgressions(cadence, parseAll("C", "Dm", "G", "C"))
	require.NoError(t, err)
	tritone, err := CompareProgressions(cadence, parseAll("C", "B", "G", "C"))
	require.NoError(t, err)
	assert.Greater(t, relative.Distance, 0.0)
	assert.Less(t, relative.Distance, tritone.Distance)

	_, err = CompareProgressions(nil, cadence)
	assert.Error(t, err)
	_, err = CompareProgressions(cadence, []Chord{{}})
	assert.Error(t, err)
}
