package voicing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/sonido-theory/algorithms/chord"
	"github.com/RyanBlaney/sonido-theory/algorithms/pitch"
)

func notes(ps []pitch.Pitch) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.String()
	}
	return out
}

func progression(symbols ...string) []chord.Chord {
	out := make([]chord.Chord, len(symbols))
	for i, s := range symbols {
		out[i] = chord.MustParse(s)
	}
	return out
}

func TestLeadNearestPlacement(t *testing.T) {
	vl := NewVoiceLeader()

	tests := []struct {
		name    string
		chords  []string
		second  []string
		motion  float64
		holding int
	}{
		{"relative minor", []string{"C", "Am"}, []string{"A3", "E4", "C5"}, 8, 1},
		{"subdominant", []string{"C", "F"}, []string{"F3", "C4", "A4"}, 13, 1},
		{"augmented", []string{"C", "Caug"}, []string{"C4", "E4", "G#4"}, 1, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := vl.Lead(progression(tt.chords...))
			require.NoError(t, err)
			require.Len(t, res.Voicings, 2)

			assert.Equal(t, []string{"C4", "E4", "G4"}, notes(res.Voicings[0].Notes))
			assert.Zero(t, res.Voicings[0].Motion)

			second := res.Voicings[1]
			assert.Equal(t, tt.second, notes(second.Notes))
			assert.InDelta(t, tt.motion, second.Motion, 1e-9)
			assert.Equal(t, tt.holding, second.CommonTones)
			assert.InDelta(t, tt.motion, res.TotalMotion, 1e-9)
			assert.Empty(t, res.Warnings)
		})
	}
}

func TestLeadKeepsBassLowest(t *testing.T) {
	vl := NewVoiceLeader()
	res, err := vl.Lead(progression("C", "G/B", "Am", "F/A", "G7", "C"))
	require.NoError(t, err)
	require.Len(t, res.Voicings, 6)

	for _, v := range res.Voicings {
		bass := v.Chord.Bass()
		require.NotEmpty(t, v.Notes)
		assert.Equal(t, bass.Name(), v.Notes[0].Name(), v.Chord.Symbol())
		for i := 1; i < len(v.Notes); i++ {
			assert.Greater(t, v.Notes[i].Value(), v.Notes[i-1].Value(), v.Chord.Symbol())
		}
	}
}

func TestLeadOverflow(t *testing.T) {
	tests := []struct {
		name    string
		voices  int
		symbol  string
		kept    []string
		dropped []string
	}{
		{"seventh drops the fifth", 3, "C7", []string{"C4", "E4", "Bb4"}, []string{"G"}},
		{"thirteenth drops fifth then ninth", 4, "C13", []string{"C4", "E4", "Bb4", "A5"}, []string{"G", "D"}},
		{"slash bass is kept", 3, "C/D", []string{"D4", "C5", "E5"}, []string{"G"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := DefaultVoiceLeaderParams()
			params.MaxVoices = tt.voices
			vl := NewVoiceLeaderWithParams(params)

			res, err := vl.Lead(progression(tt.symbol))
			require.NoError(t, err)
			require.Len(t, res.Voicings, 1)
			assert.Equal(t, tt.kept, notes(res.Voicings[0].Notes))

			require.Len(t, res.Warnings, 1)
			w := res.Warnings[0]
			assert.Equal(t, 0, w.Index)
			assert.Equal(t, tt.symbol, w.Chord)
			assert.Equal(t, tt.voices, w.Voices)
			assert.Equal(t, tt.dropped, notes(w.Dropped))
			assert.Contains(t, w.String(), "dropped")
		})
	}
}

func TestLeadUnlimitedVoices(t *testing.T) {
	params := DefaultVoiceLeaderParams()
	params.MaxVoices = 0
	vl := NewVoiceLeaderWithParams(params)

	res, err := vl.Lead(progression("C13"))
	require.NoError(t, err)
	assert.Len(t, res.Voicings[0].Notes, 6)
	assert.Empty(t, res.Warnings)
}

func TestLeadDefaultOctave(t *testing.T) {
	params := DefaultVoiceLeaderParams()
	params.DefaultOctave = 3
	vl := NewVoiceLeaderWithParams(params)

	res, err := vl.Lead(progression("Am"))
	require.NoError(t, err)
	assert.Equal(t, []string{"A3", "C4", "E4"}, notes(res.Voicings[0].Notes))
}

func TestLeadEdgeCases(t *testing.T) {
	vl := NewVoiceLeader()

	res, err := vl.Lead(nil)
	require.NoError(t, err)
	assert.Empty(t, res.Voicings)
	assert.Zero(t, res.TotalMotion)

	_, err = vl.Lead([]chord.Chord{chord.MustParse("C"), {}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chord 2")

	// repeating a chord holds every note
	res, err = vl.Lead(progression("Cmaj7", "Cmaj7"))
	require.NoError(t, err)
	assert.Equal(t, notes(res.Voicings[0].Notes), notes(res.Voicings[1].Notes))
	assert.Zero(t, res.Voicings[1].Motion)
	assert.Equal(t, 4, res.Voicings[1].CommonTones)
}

func TestLeadTonalShift(t *testing.T) {
	res, err := NewVoiceLeader().Lead(progression("C", "Am", "F#", "C"))
	require.NoError(t, err)
	require.Len(t, res.Voicings, 4)

	assert.Zero(t, res.Voicings[0].TonalShift)
	assert.Greater(t, res.Voicings[1].TonalShift, 0.0)
	// a tritone away moves further round the Tonnetz than the relative minor
	assert.Greater(t, res.Voicings[2].TonalShift, res.Voicings[1].TonalShift)
}

func TestLeadStaysInRegister(t *testing.T) {
	res, err := NewVoiceLeader().Lead(progression("Cmaj7", "Dm7", "G7", "Cmaj7"))
	require.NoError(t, err)
	require.Len(t, res.Voicings, 4)

	want := [][]string{
		{"C4", "E4", "G4", "B4"},
		{"D4", "F4", "A4", "C5"},
		{"G3", "F4", "B4", "D5"},
		{"C4", "G4", "B4", "E5"},
	}
	for i, v := range res.Voicings {
		assert.Equal(t, want[i], notes(v.Notes), v.Chord.Symbol())
	}
	assert.InDelta(t, 26.0, res.TotalMotion, 1e-9)
}

// permutations returns every ordering of 0..n-1
func permutations(n int) [][]int {
	if n == 1 {
		return [][]int{{0}}
	}
	var out [][]int
	for _, p := range permutations(n - 1) {
		for at := 0; at <= len(p); at++ {
			q := append(append(append([]int(nil), p[:at]...), n-1), p[at:]...)
			out = append(out, q)
		}
	}
	return out
}

// pairedMotion is the least motion over every pairing of old voices with
// new ones of the same count
func pairedMotion(prev, next []float64) float64 {
	best := math.Inf(1)
	for _, p := range permutations(len(next)) {
		sum := 0.0
		for v := range prev {
			sum += math.Abs(prev[v] - next[p[v]])
		}
		best = math.Min(best, sum)
	}
	return best
}

// exhaustiveMotion tries every octave for every tone of c with the bass
// lowest
func exhaustiveMotion(prev []float64, c chord.Chord) float64 {
	tones := c.Tones()
	best := math.Inf(1)
	values := make([]float64, len(tones))
	var place func(i int)
	place = func(i int) {
		if i == len(tones) {
			best = math.Min(best, pairedMotion(prev, values))
			return
		}
		for octave := 1; octave <= 7; octave++ {
			values[i] = tones[i].WithOctave(octave).Value()
			if i > 0 && values[i] <= values[0] {
				continue
			}
			place(i + 1)
		}
	}
	place(0)
	return best
}

func TestLeadMotionIsMinimal(t *testing.T) {
	for _, symbols := range [][]string{
		{"C", "Am", "F", "G", "C"},
		{"C", "Caug", "F", "Fm", "C"},
		{"Cmaj7", "Dm7", "G7", "Cmaj7"},
		{"Am7", "D7", "Gmaj7", "Cmaj7", "F#m7b5", "B7", "Em7"},
	} {
		res, err := NewVoiceLeader().Lead(progression(symbols...))
		require.NoError(t, err)
		for i := 1; i < len(res.Voicings); i++ {
			prev := res.Voicings[i-1].Values()
			v := res.Voicings[i]
			require.Len(t, v.Notes, len(prev))

			// the reported motion pairs the chosen notes optimally
			assert.InDelta(t, pairedMotion(prev, v.Values()), v.Motion, 1e-9, "%v chord %d", symbols, i+1)
			// and no other placement moves less
			assert.InDelta(t, exhaustiveMotion(prev, v.Chord), v.Motion, 1e-9, "%v chord %d", symbols, i+1)
		}
	}
}
