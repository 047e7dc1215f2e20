package chord

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/sonido-theory/algorithms/pitch"
	"github.com/RyanBlaney/sonido-theory/algorithms/scale"
)

func names(ps []pitch.Pitch) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.String()
	}
	return out
}

func symbols(cs []Chord) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Symbol()
	}
	return out
}

func TestParse(t *testing.T) {
	tests := []struct {
		input   string
		symbol  string
		members []string
	}{
		{"C", "C", []string{"C", "E", "G"}},
		{"Cm7", "Cm7", []string{"C", "Eb", "G", "Bb"}},
		{"Cmaj7", "Cmaj7", []string{"C", "E", "G", "B"}},
		{"CΔ7", "Cmaj7", []string{"C", "E", "G", "B"}},
		{"Cdim7", "Cdim7", []string{"C", "Eb", "Gb", "Bbb"}},
		{"Cm7b5", "Cm7b5", []string{"C", "Eb", "Gb", "Bb"}},
		{"Bbø7", "Bbm7b5", []string{"Bb", "Db", "Fb", "Ab"}},
		{"C7#9", "C7#9", []string{"C", "E", "G", "Bb", "D#"}},
		{"C13", "C13", []string{"C", "E", "G", "Bb", "D", "A"}},
		{"C6/9", "C69", []string{"C", "E", "G", "A", "D"}},
		{"Cm(maj7)", "CmMaj7", []string{"C", "Eb", "G", "B"}},
		{"Csus4", "Csus4", []string{"C", "F", "G"}},
		{"C5", "C5", []string{"C", "G"}},
		{"Caug", "Caug", []string{"C", "E", "G#"}},
		{"C+", "Caug", []string{"C", "E", "G#"}},
		{"C(b5)", "C(b5)", []string{"C", "E", "Gb"}},
		{"Cadd9", "Cadd9", []string{"C", "E", "G", "D"}},
		{"C7alt", "C7b9#9#11b13(no5)", []string{"C", "E", "Bb", "Db", "D#", "F#", "Ab"}},
		{"F#m7", "F#m7", []string{"F#", "A", "C#", "E"}},
		{"Cq4", "Cq4", []string{"C", "F", "Bb", "Eb"}},
		{"C quartal", "Cq", []string{"C", "F", "Bb"}},
		{"D whole-tone", "Dwt", []string{"D", "E", "F#"}},
		{"Eh5", "Eh5", []string{"E", "A", "D", "G", "B"}},
		{"Cin4", "Cin4", []string{"C", "F", "Bb", "Db"}},
		{"Ayo3", "Ayo3", []string{"A", "D", "F#"}},
		{"D (single note)", "D (single note)", []string{"D"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			c, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.symbol, c.Symbol())
			assert.Equal(t, tt.members, names(c.Members()))

			again, err := Parse(c.Symbol())
			require.NoError(t, err)
			assert.Equal(t, c.Symbol(), again.Symbol())
		})
	}
}

func TestParseBass(t *testing.T) {
	c := MustParse("C/E")
	assert.Equal(t, "E", c.Bass().Name())
	assert.Equal(t, []string{"E", "G", "C"}, names(c.Tones()))
	assert.Equal(t, 1, c.Inversion())

	inv := MustParse("C first inversion")
	assert.Equal(t, "C/E", inv.Symbol())

	foreign := MustParse("C/D")
	assert.Equal(t, -1, foreign.Inversion())
	assert.Equal(t, []string{"D", "C", "E", "G"}, names(foreign.Tones()))
	assert.Equal(t, []int{0, 2, 4, 7}, foreign.PitchClasses())
}

func TestParseErrors(t *testing.T) {
	_, err := Parse("Cxyz")
	var pe *pitch.ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, 1, pe.Offset)
	assert.Equal(t, "xyz", pe.Substring)

	for _, bad := range []string{"", "H7", "Cq9", "C/E first inversion"} {
		_, err := Parse(bad)
		assert.Error(t, err, bad)
	}
}

func TestChordAccessors(t *testing.T) {
	c, err := MustParse("Cmaj7").Invert(2)
	require.NoError(t, err)

	assert.Equal(t, "G", c.Bass().Name())
	assert.Equal(t, []string{"G", "B", "C", "E"}, names(c.Tones()))
	assert.Equal(t, []string{"G3", "B3", "C4", "E4"}, names(c.Ascending(3)))
	assert.Equal(t, "Cmaj7/G", c.Symbol())
	assert.Equal(t, "C major seventh, second inversion", c.Name())

	_, err = c.Invert(4)
	assert.Error(t, err)

	assert.Equal(t, []string{"#9", "#11"}, MustParse("C7#9#11").Extensions())
	assert.Empty(t, MustParse("C7").Extensions())

	up := MustParse("F#m7b5").Transpose(pitch.MajorSecond, pitch.Ascending)
	assert.Equal(t, "G#m7b5", up.Symbol())
}

func TestDegrees(t *testing.T) {
	roles := func(symbol string) []Role {
		var out []Role
		for _, d := range MustParse(symbol).Degrees() {
			out = append(out, d.Role)
		}
		return out
	}

	assert.Equal(t, []Role{RoleRoot, RoleThird, RoleFifth, RoleSeventh, RoleNinth, RoleThirteenth}, roles("C13"))
	assert.Equal(t, []Role{RoleRoot, RoleThird, RoleFifth, RoleSeventh, RoleAltered}, roles("C7#9"))
	assert.Equal(t, []Role{RoleRoot, RoleStacked, RoleStacked, RoleStacked}, roles("Cq4"))

	degrees := MustParse("C7#9").Degrees()
	assert.Less(t, degrees[2].DropRank, degrees[4].DropRank) // fifth before #9
	assert.Less(t, degrees[4].DropRank, degrees[3].DropRank) // #9 before seventh
	assert.Less(t, degrees[3].DropRank, degrees[1].DropRank) // seventh before third
}

func TestGenerators(t *testing.T) {
	c := pitch.MustParse("C")

	q4, err := Quartal(c, 4, 0)
	require.NoError(t, err)
	assert.Equal(t, "Cq4", q4.Symbol())

	q3, err := Quartal(c, 3, 1)
	require.NoError(t, err)
	assert.Equal(t, "Cq/F", q3.Symbol())

	_, err = Quartal(c, 8, 0)
	assert.ErrorIs(t, err, ErrStackSize)

	cMajor := scale.MustBuild("C", scale.Ionian)
	fq, err := QuartalFromScale(cMajor, 4, 3)
	require.NoError(t, err)
	assert.Equal(t, "Fq(AP)", fq.Symbol())
	assert.Equal(t, []string{"F", "B", "E"}, names(fq.Members()))

	all, err := DiatonicQuartalChords(cMajor, 3)
	require.NoError(t, err)
	assert.Len(t, all, 7)
	assert.Equal(t, "Bq", all[6].Symbol())

	wt, err := WholeTone(c, 4)
	require.NoError(t, err)
	assert.Equal(t, "Cwt4", wt.Symbol())
	assert.Equal(t, []string{"C", "D", "E", "F#"}, names(wt.Members()))

	wts, err := DiatonicWholeToneChords(cMajor, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"Cwt", "Fwt", "Gwt"}, symbols(wts))

	h, err := Hybrid(pitch.MustParse("E"), 3)
	require.NoError(t, err)
	assert.Equal(t, "Eh5", h.Symbol())
	assert.Equal(t, []int{2, 4, 7, 9, 11}, h.PitchClasses())

	_, err = Hybrid(c, 1)
	assert.ErrorIs(t, err, ErrStackSize)

	yo, err := JapaneseChord(c, scale.Yo, 3)
	require.NoError(t, err)
	assert.Equal(t, "Cyo3", yo.Symbol())
	assert.Equal(t, []string{"C", "F", "A"}, names(yo.Members()))

	in, err := JapaneseChord(c, scale.In, 4)
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "F", "Bb", "Db"}, names(in.Members()))

	sevenths, err := DiatonicChords(cMajor, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"Cmaj7", "Dm7", "Em7", "Fmaj7", "G7", "Am7", "Bm7b5"}, symbols(sevenths))
}

func TestAnalyzerInfer(t *testing.T) {
	a := NewAnalyzer()

	tests := []struct {
		notes []string
		best  string
	}{
		{[]string{"C", "E", "G"}, "C"},
		{[]string{"C4", "E4", "G4", "Bb4"}, "C7"},
		{[]string{"E3", "G3", "C4"}, "C/E"},
		{[]string{"C4", "F4", "Bb4"}, "Cq"},
		{[]string{"G3", "C4", "F4"}, "Gq"},
		{[]string{"C4", "F4", "G4"}, "Csus4"},
		// without octaves an equal cost goes to the first note
		{[]string{"C", "F", "G"}, "Csus4"},
		{[]string{"C", "E", "G", "A"}, "C6"},
		{[]string{"A", "C", "E", "G"}, "Am7"},
		{[]string{"D"}, "D (single note)"},
	}
	for _, tt := range tests {
		res, err := a.InferNames(tt.notes...)
		require.NoError(t, err, tt.notes)
		best, ok := res.Best()
		require.True(t, ok)
		assert.Equal(t, tt.best, best.Symbol, tt.notes)
	}
}

func TestAnalyzerRoundTrip(t *testing.T) {
	a := NewAnalyzer()
	for _, symbol := range []string{
		"C", "Cm", "C7", "Cmaj7", "Cm7", "Cdim", "Caug", "Csus4", "C7#9",
		"C/E", "C/G", "Cm7/Bb", "Cadd9", "C6", "C69", "C11", "C13", "C7sus4", "Cmaj7#11",
		"Cq", "Cq4", "Cwt", "Eh5", "Cin4",
	} {
		t.Run(symbol, func(t *testing.T) {
			c := MustParse(symbol)
			res, err := a.Infer(c.Ascending(4))
			require.NoError(t, err)
			best, ok := res.Best()
			require.True(t, ok)
			assert.Equal(t, symbol, best.Symbol)
			assert.Equal(t, c.PitchClasses(), best.Chord.PitchClasses())
			assert.Equal(t, c.Bass().ClassInt(), best.Chord.Bass().ClassInt())
		})
	}
}

func TestAnalyzerPrefersTertianReadings(t *testing.T) {
	a := NewAnalyzer()
	tests := []struct {
		notes  []string
		best   string
		exotic string
	}{
		{[]string{"G4", "C5", "E5"}, "C/G", "Gyo3"},
		{[]string{"C4", "F4", "G4", "Bb4"}, "C7sus4", "Gq4/C"},
		{[]string{"C4", "E4", "G4", "A4", "D5"}, "C69", "Eq5/C"},
		{[]string{"Bb3", "C4", "Eb4", "G4"}, "Cm7/Bb", "Bbyo4"},
	}
	for _, tt := range tests {
		res, err := a.InferNames(tt.notes...)
		require.NoError(t, err, tt.notes)
		best, _ := res.Best()
		assert.Equal(t, tt.best, best.Symbol, tt.notes)

		// the stacked reading is still offered, just ranked lower
		var exotic *Candidate
		for i := range res.Candidates {
			if res.Candidates[i].Symbol == tt.exotic {
				exotic = &res.Candidates[i]
			}
		}
		if exotic != nil {
			assert.Greater(t, exotic.Cost, best.Cost, tt.exotic)
		}
	}
}

func TestAnalyzerEdgeCases(t *testing.T) {
	a := NewAnalyzer()

	_, err := a.Infer(nil)
	var nm *NoMatchError
	require.True(t, errors.As(err, &nm))

	_, err = a.Infer([]pitch.Pitch{{Letter: pitch.C, Microtone: 0.5}})
	assert.True(t, errors.As(err, &nm))

	chromatic := make([]pitch.Pitch, 12)
	for i := range chromatic {
		chromatic[i] = pitch.FromClass(i, false)
	}
	_, err = a.Infer(chromatic)
	require.True(t, errors.As(err, &nm))
	assert.Len(t, nm.PitchClasses, 12)

	limited := NewAnalyzerWithParams(AnalyzerParams{MaxCandidates: 2})
	res, err := limited.InferNames("C", "E", "G", "B", "D")
	require.NoError(t, err)
	assert.LessOrEqual(t, len(res.Candidates), 2)
	for i := 1; i < len(res.Candidates); i++ {
		assert.LessOrEqual(t, res.Candidates[i-1].Cost, res.Candidates[i].Cost)
	}
}

func TestInScale(t *testing.T) {
	cMajor := scale.MustBuild("C", scale.Ionian)

	m := InScale(MustParse("Dm7"), cMajor)
	assert.True(t, m.Diatonic)
	assert.Equal(t, 2, m.Degree)
	assert.Equal(t, "ii7", m.Numeral)

	bb := InScale(MustParse("Bb"), cMajor)
	assert.False(t, bb.Diatonic)
	assert.Equal(t, "bVII", bb.Numeral)
	assert.Equal(t, []string{"Bb"}, names(bb.Altered))

	assert.Equal(t, "vii°", Numeral(MustParse("Bdim"), cMajor))
	assert.Equal(t, "V7", Numeral(MustParse("G7"), cMajor))

	ok, degree := Contains(MustParse("Fmaj7"), cMajor)
	assert.True(t, ok)
	assert.Equal(t, 4, degree)
}

func TestSuggestProgression(t *testing.T) {
	cMajor := scale.MustBuild("C", scale.Ionian)

	pop, err := SuggestProgression(cMajor, "pop")
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "G", "Am", "F"}, symbols(pop))

	jazz, err := SuggestProgression(cMajor, "jazz")
	require.NoError(t, err)
	assert.Equal(t, []string{"Dm7", "G7", "Cmaj7"}, symbols(jazz))

	aMinor := scale.MustBuild("A", scale.NaturalMinor)
	anda, err := SuggestProgression(aMinor, "andalusian")
	require.NoError(t, err)
	assert.Equal(t, []string{"Am", "G", "F", "E"}, symbols(anda))

	drone, err := SuggestProgression(scale.MustBuild("C", scale.Yo), "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Cyo3", "Cyo4", "Cyo5", "Cyo3"}, symbols(drone))

	vamp, err := SuggestProgression(scale.MustBuild("D", scale.Dorian), "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Dm7", "G7", "Dm7", "G7"}, symbols(vamp))

	_, err = SuggestProgression(cMajor, "polka")
	assert.ErrorIs(t, err, ErrUnknownStyle)

	assert.Contains(t, Styles(cMajor), "quartal")
	assert.Contains(t, Styles(cMajor), "canon")
}

func TestModulate(t *testing.T) {
	mod, err := Modulate(MustParse("G7"), pitch.MustParse("C"))
	require.NoError(t, err)
	assert.Equal(t, "C7", mod.Chord.Symbol())
	assert.Equal(t, "C Ionian", mod.TargetKey.Title())
	assert.Equal(t, "P4", mod.Interval.String())
	assert.True(t, mod.Pivot.Diatonic)

	minor, err := Modulate(MustParse("Am"), pitch.MustParse("E"))
	require.NoError(t, err)
	assert.Equal(t, "Em", minor.Chord.Symbol())
	assert.Equal(t, scale.Aeolian, minor.TargetKey.Mode)
	assert.Equal(t, 4, minor.Pivot.Degree)
	assert.Equal(t, "iv", minor.Pivot.Numeral)

	deg, err := ModulateToDegree(MustParse("Cmaj7"), scale.MustBuild("C", scale.Ionian), 4)
	require.NoError(t, err)
	assert.Equal(t, "Fmaj7", deg.Chord.Symbol())

	_, err = ModulateToDegree(MustParse("C"), scale.MustBuild("C", scale.Ionian), 9)
	assert.Error(t, err)
}

func TestSuggestResolution(t *testing.T) {
	best := func(symbol string) Resolution {
		res := SuggestResolution(MustParse(symbol))
		require.NotEmpty(t, res, symbol)
		return res[0]
	}

	g7 := best("G7")
	assert.Equal(t, "C", g7.Chord.Symbol())
	assert.Equal(t, "dominant to tonic", g7.Rule)

	assert.Equal(t, "C", best("Bdim").Chord.Symbol())
	assert.Equal(t, "C", best("Csus4").Chord.Symbol())
	assert.Equal(t, "G7", best("Dm7b5").Chord.Symbol())

	q := best("Cq")
	assert.Equal(t, "fifth below", q.Rule)
	assert.Equal(t, "F", q.Chord.Symbol())
}

func TestBorrowedChords(t *testing.T) {
	cMajor := scale.MustBuild("C", scale.Ionian)

	aeolian, err := BorrowedChords(cMajor, scale.Aeolian)
	require.NoError(t, err)
	var got []string
	for _, b := range aeolian {
		got = append(got, b.Chord.Symbol())
	}
	assert.Equal(t, []string{"Cm", "Ddim", "Eb", "Fm", "Gm", "Ab", "Bb"}, got)
	assert.Equal(t, "bVI", aeolian[5].Numeral)
	assert.Equal(t, "iv", aeolian[3].Numeral)

	minor, err := BorrowedChords(cMajor, scale.Minor)
	require.NoError(t, err)
	got = got[:0]
	for _, b := range minor {
		got = append(got, b.Chord.Symbol())
	}
	assert.Len(t, got, 9)
	assert.Contains(t, got, "Ebaug")
	assert.Contains(t, got, "Adim")
}

func TestMarshalJSON(t *testing.T) {
	data, err := json.Marshal(MustParse("Am7/G"))
	require.NoError(t, err)

	var view map[string]any
	require.NoError(t, json.Unmarshal(data, &view))
	assert.Equal(t, "Am7/G", view["symbol"])
	assert.Equal(t, "tertian", view["system"])
	assert.Equal(t, []any{"G", "A", "C", "E"}, view["tones"])
}
