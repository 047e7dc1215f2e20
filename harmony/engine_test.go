package harmony

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/sonido-theory/algorithms/chord"
	"github.com/RyanBlaney/sonido-theory/algorithms/pitch"
	"github.com/RyanBlaney/sonido-theory/algorithms/scale"
	"github.com/RyanBlaney/sonido-theory/harmony/config"
	"github.com/RyanBlaney/sonido-theory/transcode"
)

func newEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine(nil)
	require.NoError(t, err)
	t.Cleanup(e.Close)
	return e
}

func TestNewEngine(t *testing.T) {
	e := newEngine(t)
	assert.Equal(t, *config.DefaultEngineConfig(), e.Config())
	assert.NotEqual(t, e.SessionID(), newEngine(t).SessionID())

	bad := config.DefaultEngineConfig()
	bad.Temperament = 19
	_, err := NewEngine(bad)
	assert.Error(t, err)

	bad = config.DefaultEngineConfig()
	bad.Profile = "edma"
	_, err = NewEngine(bad)
	assert.Error(t, err)
}

func TestEngineScales(t *testing.T) {
	e := newEngine(t)

	keys, err := e.Scale("A", "minor")
	require.NoError(t, err)
	require.Len(t, keys, 3)
	assert.Equal(t, scale.NaturalMinor, keys[0].Mode)

	k, err := e.Key("A", "minor")
	require.NoError(t, err)
	assert.Equal(t, "A natural minor", k.Title())

	k, err = e.Key("C", "major")
	require.NoError(t, err)
	assert.Equal(t, "C Ionian", k.Title())

	_, err = e.Key("C", "bebop")
	assert.Error(t, err)

	circle, err := e.Circle("C", "fifths", 2)
	require.NoError(t, err)
	assert.Equal(t, "C G D", joinNames(circle))

	lick, err := e.Jingle("lick", "A", "minor")
	require.NoError(t, err)
	assert.Equal(t, "A B C D B G A", joinNames(lick))
	_, err = e.Jingle("lick", "H", "major")
	assert.Error(t, err)
}

func joinNames(ps []pitch.Pitch) string {
	s := ""
	for i, p := range ps {
		if i > 0 {
			s += " "
		}
		s += p.Name()
	}
	return s
}

func TestEngineIntervals(t *testing.T) {
	e := newEngine(t)

	iv, err := e.Interval("C4", "E4", "up")
	require.NoError(t, err)
	assert.Equal(t, "M3", iv.String())

	_, err = e.Interval("C4", "E4", "down")
	assert.ErrorIs(t, err, pitch.ErrDirectionMismatch)

	p, err := e.Transpose("C", "P5", "down")
	require.NoError(t, err)
	assert.Equal(t, "F", p.Name())

	_, err = e.Transpose("C", "P5", "sideways")
	assert.Error(t, err)
}

func TestEngineFormatValue(t *testing.T) {
	e := newEngine(t)
	assert.Equal(t, "C4", e.FormatValue(0))
	assert.Equal(t, pitch.CustomLabel, e.FormatValue(0.5))

	cfg := config.DefaultEngineConfig()
	cfg.Temperament = 24
	cfg.PreferFlats = true
	quarter, err := NewEngine(cfg)
	require.NoError(t, err)
	assert.Equal(t, "C+4", quarter.FormatValue(0.5))
	assert.Equal(t, "Db4", quarter.FormatValue(1))
}

func TestEngineChords(t *testing.T) {
	e := newEngine(t)

	a, err := e.Infer("C4", "E4", "G4")
	require.NoError(t, err)
	best, ok := a.Best()
	require.True(t, ok)
	assert.Equal(t, "C", best.Symbol)

	_, err = e.Infer("C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B")
	var noMatch *chord.NoMatchError
	assert.ErrorAs(t, err, &noMatch)

	m, err := e.InScale("Dm", "C", "major")
	require.NoError(t, err)
	assert.True(t, m.Diatonic)
	assert.Equal(t, "ii", m.Numeral)

	prog, err := e.Progression("C", "major", "")
	require.NoError(t, err)
	assert.NotEmpty(t, prog)

	_, err = e.Progression("C", "major", "polka")
	assert.ErrorIs(t, err, chord.ErrUnknownStyle)

	res, err := e.Resolve("G7")
	require.NoError(t, err)
	require.NotEmpty(t, res)
	assert.Equal(t, "C", res[0].Chord.Symbol())

	borrowed, err := e.Borrow("C", "major", "aeolian")
	require.NoError(t, err)
	var names []string
	for _, b := range borrowed {
		names = append(names, b.Chord.Symbol())
	}
	assert.Contains(t, names, "Fm")
	assert.Contains(t, names, "Bb")

	mod, err := e.Modulate("Am", "E")
	require.NoError(t, err)
	assert.Equal(t, "Em", mod.Chord.Symbol())
	assert.Equal(t, "E Aeolian", mod.TargetKey.Title())
}

func TestEngineGenerators(t *testing.T) {
	e := newEngine(t)

	q, err := e.Quartal("C", 3, 0)
	require.NoError(t, err)
	assert.Equal(t, "Cq", q.Symbol())

	_, err = e.Quartal("C", 9, 0)
	assert.ErrorIs(t, err, chord.ErrStackSize)

	wt, err := e.WholeTone("C", 3)
	require.NoError(t, err)
	assert.Equal(t, chord.SystemWholeTone, wt.System())

	jp, err := e.Japanese("D", "in", 3)
	require.NoError(t, err)
	assert.Equal(t, chord.SystemJapanese, jp.System())
	assert.Equal(t, scale.In, jp.Kind())

	h, err := e.Hybrid("E", 3)
	require.NoError(t, err)
	assert.Equal(t, chord.SystemHybrid, h.System())

	diatonic, err := e.DiatonicQuartal("C", "major", 3)
	require.NoError(t, err)
	assert.NotEmpty(t, diatonic)
}

func TestEngineVoiceLead(t *testing.T) {
	e := newEngine(t)

	res, err := e.VoiceLead("C", "Am")
	require.NoError(t, err)
	require.Len(t, res.Voicings, 2)
	assert.Equal(t, "A3 E4 C5", stringsOf(res.Voicings[1].Notes))

	_, err = e.VoiceLead("C", "Hxyz")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chord 2")
}

func TestEngineCompareProgressions(t *testing.T) {
	e := newEngine(t)

	cmp, err := e.CompareProgressions([]string{"Dm7", "G7", "Cmaj7"}, []string{"Dm7", "G7", "G7", "Cmaj7"})
	require.NoError(t, err)
	assert.InDelta(t, 0, cmp.Distance, 1e-12)
	assert.Len(t, cmp.Path, 4)

	_, err = e.CompareProgressions([]string{"Dm7"}, []string{"Xq"})
	assert.Error(t, err)
}

func stringsOf(ps []pitch.Pitch) string {
	s := ""
	for i, p := range ps {
		if i > 0 {
			s += " "
		}
		s += p.String()
	}
	return s
}

func TestEngineEstimateKey(t *testing.T) {
	e := newEngine(t)
	res, err := e.EstimateKey("C4", "D4", "E4", "F4", "G4", "A4", "B4")
	require.NoError(t, err)
	assert.Equal(t, "C major", res.Best.Name())

	_, err = e.EstimateKey()
	assert.Error(t, err)
}

func TestEngineCustomScale(t *testing.T) {
	e, err := NewEngine(nil)
	require.NoError(t, err)

	_, err = e.Scale("", "custom")
	assert.ErrorIs(t, err, ErrNoCustomScale)

	spec := scale.CustomScaleSpec{
		Name: "hirajoshi",
		Ascending: []pitch.Pitch{
			pitch.MustParse("A"), pitch.MustParse("B"), pitch.MustParse("C"),
			pitch.MustParse("E"), pitch.MustParse("F"),
		},
	}
	k, err := e.DefineCustomScale(spec)
	require.NoError(t, err)
	assert.Equal(t, "hirajoshi", k.Title())

	keys, err := e.Scale("", "custom")
	require.NoError(t, err)
	require.Len(t, keys, 1)
	assert.Equal(t, 5, keys[0].Len())

	m, err := e.InScale("Am", "", "custom")
	require.NoError(t, err)
	assert.True(t, m.Diatonic)

	_, err = e.DefineCustomScale(spec)
	assert.ErrorIs(t, err, scale.ErrCustomScaleDefined)

	e.Close()
	_, err = e.Key("", "custom")
	assert.ErrorIs(t, err, scale.ErrSessionClosed)
}

func TestEngineExportMIDI(t *testing.T) {
	e := newEngine(t)

	var buf bytes.Buffer
	res, err := e.ExportMIDI(&buf, "Dm7", "G7", "Cmaj7")
	require.NoError(t, err)
	assert.Len(t, res.Voicings, 3)

	score, err := transcode.NewDecoder(nil).DecodeBytes(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, []string{"Dm7", "G7", "Cmaj7"}, score.Symbols())
	assert.InDelta(t, 120.0, score.Tempo, 1e-3)
}

func TestEngineImportMIDI(t *testing.T) {
	e := newEngine(t)

	var buf bytes.Buffer
	_, err := e.ExportMIDI(&buf, "C", "F", "G7", "C")
	require.NoError(t, err)

	score, err := e.ImportMIDI(&buf)
	require.NoError(t, err)
	require.Len(t, score.Chords, 4)

	analyses, err := e.AnalyzeScore(score)
	require.NoError(t, err)
	require.Len(t, analyses, 4)
	for i, want := range []string{"C", "F", "G7", "C"} {
		best, ok := analyses[i].Best()
		require.True(t, ok, "chord %d", i)
		assert.Equal(t, want, best.Symbol)
	}

	key, err := e.EstimateScoreKey(score)
	require.NoError(t, err)
	assert.Equal(t, "C major", key.Best.Name())

	_, err = e.AnalyzeScore(&transcode.Score{})
	assert.ErrorIs(t, err, transcode.ErrEmptyProgression)
}
