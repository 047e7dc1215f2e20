package pitch

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input      string
		name       string
		value      float64
		hasOctave  bool
		accidental int
	}{
		{"C", "C", 0, false, 0},
		{"c4", "C", 0, true, 0},
		{"F#3", "F#", -6, true, 1},
		{"Bbb", "Bbb", 9, false, -2},
		{"Ex", "E##", 6, false, 2},
		{"F𝄪4", "F##", 7, true, 2},
		{"Ed4", "Ed", 3.5, true, 0},
		{"G+5", "G+", 19.5, true, 0},
		{"A♭", "Ab", 8, false, -1},
		{"B-1", "B", -49, true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			p, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.name, p.Name())
			assert.InDelta(t, tt.value, p.Value(), 1e-9)
			assert.Equal(t, tt.hasOctave, p.HasOctave)
			assert.Equal(t, tt.accidental, p.Accidental)
		})
	}
}

func TestAccidentalString(t *testing.T) {
	assert.Equal(t, "", AccidentalString(0))
	assert.Equal(t, "##", AccidentalString(2))
	assert.Equal(t, "bbb", AccidentalString(-3))
	// x is accepted on input but written as sharps
	assert.Equal(t, MustParse("C##").Name(), MustParse("Cx").Name())
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		input     string
		substring string
	}{
		{"H", "H"},
		{"C####", "####"},
		{"C4z", "4z"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := Parse(tt.input)
			var perr *ParseError
			require.True(t, errors.As(err, &perr), "expected ParseError, got %v", err)
			assert.Equal(t, tt.input, perr.Input)
			assert.Equal(t, tt.substring, perr.Substring)
		})
	}

	_, err := Parse("")
	var perr *ParseError
	assert.True(t, errors.As(err, &perr))
}

func TestEnharmonicPreservation(t *testing.T) {
	fb := MustParse("Fb")
	got := Transpose(fb, Interval{Number: 2, Quality: Diminished}, Ascending)

	assert.Equal(t, "Gbbb", got.Name())
	assert.NotEqual(t, "E", got.Name())
	assert.True(t, got.PitchEqual(MustParse("E")))
	assert.False(t, got.SpellingEqual(MustParse("E")))
	assert.False(t, got.HasOctave)

	assert.Equal(t, "E", Respell(got, false).Name())
	assert.Equal(t, "Ab", TransposeUp(fb, MajorThird).Name())
}

func TestTranspose(t *testing.T) {
	tests := []struct {
		from string
		iv   Interval
		dir  Direction
		want string
	}{
		{"C4", MajorThird, Ascending, "E4"},
		{"C4", PerfectFifth, Descending, "F3"},
		{"B3", MinorSecond, Ascending, "C4"},
		{"E4", Tritone, Ascending, "A#4"},
		{"D", Interval{Number: 7, Quality: Minor}, Ascending, "C"},
		{"C4", Interval{Number: 3, Quality: Major, Microtone: 0.5}, Ascending, "E+4"},
	}

	for _, tt := range tests {
		t.Run(tt.from+"+"+tt.iv.String(), func(t *testing.T) {
			got := Transpose(MustParse(tt.from), tt.iv, tt.dir)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestBetween(t *testing.T) {
	tests := []struct {
		from, to string
		dir      Direction
		want     string
	}{
		{"C4", "E4", Ascending, "M3"},
		{"C4", "G3", Descending, "P4"},
		{"C4", "E5", Ascending, "M10"},
		{"B#3", "C4", Ascending, "d2"},
		{"C4", "C4", Descending, "P1"},
		{"F4", "B4", Ascending, "A4"},
		{"B#3", "Cb4", Ascending, "dd2"},
		{"C4", "C+4", Ascending, "P1+"},
		{"C4", "Ed4", Ascending, "M3d"},
		{"C+4", "E4", Ascending, "M3d"},
		{"E+4", "C4", Descending, "M3+"},
		{"Cd4", "C+4", Ascending, "A1"},
	}

	for _, tt := range tests {
		t.Run(tt.from+"-"+tt.to, func(t *testing.T) {
			iv, err := Between(MustParse(tt.from), MustParse(tt.to), tt.dir)
			require.NoError(t, err)
			assert.Equal(t, tt.want, iv.String())
		})
	}
}

func TestBetweenErrors(t *testing.T) {
	_, err := Between(MustParse("C"), MustParse("E4"), Ascending)
	var oerr *AmbiguousOctaveError
	require.True(t, errors.As(err, &oerr))
	assert.Equal(t, "C", oerr.Pitch.Name())

	_, err = Between(MustParse("C4"), MustParse("E4"), Descending)
	assert.ErrorIs(t, err, ErrDirectionMismatch)
}

func TestParseInterval(t *testing.T) {
	tests := []struct {
		input     string
		semitones float64
		degree    string
	}{
		{"M3", 4, "3"},
		{"P5", 7, "5"},
		{"b13", 20, "b13"},
		{"#11", 18, "#11"},
		{"bb7", 9, "bb7"},
		{"9", 14, "9"},
		{"AA4", 7, "##4"},
		{"m3+", 3.5, "b3"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			iv, err := ParseInterval(tt.input)
			require.NoError(t, err)
			assert.InDelta(t, tt.semitones, iv.Semitones(), 1e-9)
			assert.Equal(t, tt.degree, iv.DegreeName())
		})
	}

	for _, bad := range []string{"", "P3", "M4", "x", "b"} {
		_, err := ParseInterval(bad)
		assert.Error(t, err, bad)
	}
}

func TestFormatTemperament(t *testing.T) {
	assert.Equal(t, "Custom", Format(0.5, TwelveTET, false))
	assert.Equal(t, "C+4", Format(0.5, TwentyFourTET, false))
	assert.Equal(t, "Custom", Format(0.25, TwentyFourTET, false))
	assert.Equal(t, "C#4", Format(1, TwelveTET, false))
	assert.Equal(t, "Db4", Format(1, TwelveTET, true))
	assert.Equal(t, "B3", Format(-1, TwelveTET, false))

	assert.Equal(t, "Custom", TwelveTET.Format(MustParse("Ed4")))
	assert.Equal(t, "Ed4", TwentyFourTET.Format(MustParse("Ed4")))

	_, err := ParseTemperament(19)
	assert.ErrorIs(t, err, ErrTemperament)
}

func TestFifths(t *testing.T) {
	for _, name := range []string{"C", "G", "F", "F#", "Bb", "Cb", "B#", "Ebb"} {
		p := MustParse(name)
		assert.Equal(t, name, FromFifths(p.Fifths()).Name())
	}
	assert.Equal(t, 6, MustParse("F#").Fifths())
	assert.Equal(t, -2, MustParse("Bb").Fifths())
	assert.Equal(t, -7, MustParse("Cb").Fifths())

	// Gb folds to F# inside the sharp-leaning window
	assert.Equal(t, 6, SimplestSpelling(MustParse("Gb").Fifths(), -5))
}
