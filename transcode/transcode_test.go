package transcode

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/RyanBlaney/sonido-theory/algorithms/chord"
	"github.com/RyanBlaney/sonido-theory/algorithms/pitch"
	"github.com/RyanBlaney/sonido-theory/algorithms/voicing"
)

func voiced(t *testing.T, symbols ...string) voicing.Result {
	t.Helper()
	progression := make([]chord.Chord, len(symbols))
	for i, s := range symbols {
		progression[i] = chord.MustParse(s)
	}
	res, err := voicing.NewVoiceLeader().Lead(progression)
	require.NoError(t, err)
	return res
}

func TestEncodeRoundTrip(t *testing.T) {
	res := voiced(t, "C", "Am", "F", "G7")

	var buf bytes.Buffer
	require.NoError(t, NewEncoder(nil).Encode(&buf, res))

	// the raw file through gomidi's own reader
	raw, err := smf.ReadFrom(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Len(t, raw.Tracks, 2)
	assert.Equal(t, smf.MetricTicks(960), raw.TimeFormat)

	score, err := NewDecoder(nil).DecodeBytes(buf.Bytes())
	require.NoError(t, err)
	assert.InDelta(t, 120.0, score.Tempo, 1e-3)
	assert.Equal(t, uint16(960), score.Resolution)
	assert.Equal(t, 2, score.Tracks)
	assert.Equal(t, []string{"C", "Am", "F", "G7"}, score.Symbols())

	require.Len(t, score.Chords, 4)
	assert.Equal(t, []uint8{60, 64, 67}, score.Chords[0].Keys)
	assert.Equal(t, []uint8{57, 64, 72}, score.Chords[1].Keys)

	bar := int64(960 * 4)
	for i, c := range score.Chords {
		assert.Equal(t, int64(i)*bar, c.Tick)
		require.Len(t, c.Notes, len(res.Voicings[i].Notes))
		for j, n := range c.Notes {
			assert.True(t, n.PitchEqual(res.Voicings[i].Notes[j]), "chord %d note %d", i, j)
		}
	}
}

func TestEncodeConfig(t *testing.T) {
	cfg := DefaultEncoderConfig()
	cfg.Tempo = 90
	cfg.BeatsPerBar = 3
	cfg.Resolution = 480

	var buf bytes.Buffer
	require.NoError(t, NewEncoder(cfg).Encode(&buf, voiced(t, "Dm", "G7", "C")))

	score, err := NewDecoder(nil).DecodeReader(&buf)
	require.NoError(t, err)
	assert.InDelta(t, 90.0, score.Tempo, 1e-3)
	assert.Equal(t, uint16(480), score.Resolution)
	require.Len(t, score.Chords, 3)
	assert.Equal(t, int64(2*480*3), score.Chords[2].Tick)
}

func TestEncodeQuarterTones(t *testing.T) {
	res := voicing.Result{Voicings: []voicing.Voicing{{
		Chord: chord.MustParse("C"),
		Notes: []pitch.Pitch{pitch.MustParse("C4"), pitch.MustParse("E+4"), pitch.MustParse("G4")},
	}}}

	var buf bytes.Buffer
	require.NoError(t, NewEncoder(nil).Encode(&buf, res))

	score, err := NewDecoder(nil).DecodeBytes(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, score.Chords, 1)

	values := make([]float64, 0, 3)
	for _, n := range score.Chords[0].Notes {
		values = append(values, n.Value())
	}
	assert.InDeltaSlice(t, []float64{0, 4.5, 7}, values, 1e-3)
}

func TestEncodeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progression.mid")
	require.NoError(t, NewEncoder(nil).EncodeFile(path, voiced(t, "Cq", "Fq")))

	score, err := NewDecoder(nil).DecodeFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Cq", "Fq"}, score.Symbols())
}

func TestEncodeErrors(t *testing.T) {
	enc := NewEncoder(nil)

	_, err := enc.Build(voicing.Result{})
	assert.ErrorIs(t, err, ErrEmptyProgression)

	high := voicing.Result{Voicings: []voicing.Voicing{{
		Chord: chord.MustParse("C"),
		Notes: []pitch.Pitch{pitch.MustParse("C10")},
	}}}
	_, err = enc.Build(high)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MIDI key range")

	cfg := DefaultEncoderConfig()
	cfg.Velocity = 0
	_, err = NewEncoder(cfg).Build(voiced(t, "C"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "velocity")
}

func TestDecodeErrors(t *testing.T) {
	dec := NewDecoder(nil)

	_, err := dec.DecodeBytes(nil)
	assert.Error(t, err)

	_, err = dec.DecodeBytes([]byte("not a midi file"))
	assert.Error(t, err)

	_, err = dec.DecodeFile(filepath.Join(t.TempDir(), "missing.mid"))
	assert.Error(t, err)
}
