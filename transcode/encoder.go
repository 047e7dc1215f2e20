package transcode

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/RyanBlaney/sonido-theory/algorithms/voicing"
	"github.com/RyanBlaney/sonido-theory/logging"
)

// MiddleCKey is the MIDI key number of C4
const MiddleCKey = 60

const (
	drumChannel = 9  // the tenth channel is reserved for drums
	maxVoices   = 15 // every other channel
)

// ErrEmptyProgression is returned when there is nothing to encode
var ErrEmptyProgression = errors.New("no voicings to encode")

// EncoderConfig holds Standard MIDI File settings
type EncoderConfig struct {
	Tempo       float64 `json:"tempo"`         // quarter notes per minute
	Velocity    uint8   `json:"velocity"`      // note-on velocity, 1-127
	Resolution  uint16  `json:"resolution"`    // ticks per quarter note
	BeatsPerBar uint8   `json:"beats_per_bar"` // one chord per bar
	BendRange   float64 `json:"bend_range"`    // semitones covered by a full pitch bend
	TrackName   string  `json:"track_name"`
}

// DefaultEncoderConfig returns 4/4 at 120 bpm with 960 ticks per quarter
func DefaultEncoderConfig() *EncoderConfig {
	return &EncoderConfig{
		Tempo:       120,
		Velocity:    80,
		Resolution:  960,
		BeatsPerBar: 4,
		BendRange:   2, // General MIDI default
		TrackName:   "Harmony",
	}
}

// Encoder writes voiced progressions as type-1 Standard MIDI Files: a
// conductor track with tempo and meter, and one harmony track holding a
// chord per bar. Each voice gets its own channel so quarter tones can be
// played with pitch bend.
type Encoder struct {
	config *EncoderConfig
	logger logging.Logger
}

// NewEncoder creates a new MIDI encoder
func NewEncoder(config *EncoderConfig) *Encoder {
	if config == nil {
		config = DefaultEncoderConfig()
	}
	return &Encoder{
		config: config,
		logger: logging.WithFields(logging.Fields{
			"component": "midi_encoder",
		}),
	}
}

// Build assembles the SMF for a voiced progression
func (e *Encoder) Build(res voicing.Result) (*smf.SMF, error) {
	logger := e.logger.WithFields(logging.Fields{
		"function": "Build",
		"chords":   len(res.Voicings),
	})

	if len(res.Voicings) == 0 {
		return nil, ErrEmptyProgression
	}
	if err := e.validate(); err != nil {
		return nil, err
	}

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(e.config.Resolution)

	var conductor smf.Track
	conductor.Add(0, smf.MetaTrackSequenceName("Conductor"))
	conductor.Add(0, smf.MetaMeter(e.config.BeatsPerBar, 4))
	conductor.Add(0, smf.MetaTempo(e.config.Tempo))
	conductor.Close(0)

	barTicks := uint32(e.config.Resolution) * uint32(e.config.BeatsPerBar)
	bends := make(map[uint8]int16)

	var harmony smf.Track
	harmony.Add(0, smf.MetaTrackSequenceName(e.config.TrackName))
	for i, v := range res.Voicings {
		if len(v.Notes) > maxVoices {
			return nil, fmt.Errorf("chord %d (%s): %d voices exceed %d MIDI channels",
				i+1, v.Chord.Symbol(), len(v.Notes), maxVoices)
		}

		harmony.Add(0, smf.MetaMarker(v.Chord.Symbol()))

		keys := make([]uint8, len(v.Notes))
		for j, n := range v.Notes {
			key, bend, err := e.keyFor(n.Value())
			if err != nil {
				return nil, fmt.Errorf("chord %d (%s), note %s: %w", i+1, v.Chord.Symbol(), n, err)
			}
			ch := voiceChannel(j)
			if bends[ch] != bend {
				harmony.Add(0, midi.Pitchbend(ch, bend))
				bends[ch] = bend
			}
			harmony.Add(0, midi.NoteOn(ch, key, e.config.Velocity))
			keys[j] = key
		}

		for j, key := range keys {
			d := uint32(0)
			if j == 0 {
				d = barTicks
			}
			harmony.Add(d, midi.NoteOff(voiceChannel(j), key))
		}
	}
	harmony.Close(0)

	if err := s.Add(conductor); err != nil {
		return nil, fmt.Errorf("adding conductor track: %w", err)
	}
	if err := s.Add(harmony); err != nil {
		return nil, fmt.Errorf("adding harmony track: %w", err)
	}

	logger.Debug("MIDI file assembled", logging.Fields{
		"tracks":    len(s.Tracks),
		"bar_ticks": barTicks,
	})
	return s, nil
}

// Encode writes the progression as an SMF
func (e *Encoder) Encode(w io.Writer, res voicing.Result) error {
	s, err := e.Build(res)
	if err != nil {
		return err
	}
	if _, err := s.WriteTo(w); err != nil {
		return fmt.Errorf("writing MIDI: %w", err)
	}
	return nil
}

// EncodeFile writes the progression to a .mid file
func (e *Encoder) EncodeFile(filename string, res voicing.Result) error {
	logger := e.logger.WithFields(logging.Fields{
		"function": "EncodeFile",
		"filename": filename,
	})

	f, err := os.Create(filename)
	if err != nil {
		logger.Error(err, "Failed to create MIDI file")
		return err
	}
	if err := e.Encode(f, res); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (e *Encoder) validate() error {
	switch {
	case e.config.Tempo <= 0:
		return fmt.Errorf("tempo %g must be positive", e.config.Tempo)
	case e.config.Velocity == 0 || e.config.Velocity > 127:
		return fmt.Errorf("velocity %d outside 1..127", e.config.Velocity)
	case e.config.Resolution == 0:
		return fmt.Errorf("resolution must be positive")
	case e.config.BeatsPerBar == 0:
		return fmt.Errorf("beats per bar must be positive")
	case e.config.BendRange <= 0:
		return fmt.Errorf("bend range %g must be positive", e.config.BendRange)
	}
	return nil
}

// keyFor splits a pitch value into the nearest key and the bend reaching
// the fractional rest
func (e *Encoder) keyFor(value float64) (uint8, int16, error) {
	nearest := math.Round(value)
	k := MiddleCKey + int(nearest)
	if k < 0 || k > 127 {
		return 0, 0, fmt.Errorf("outside the MIDI key range")
	}
	rest := value - nearest
	if rest == 0 {
		return uint8(k), 0, nil
	}
	if math.Abs(rest) > e.config.BendRange {
		return 0, 0, fmt.Errorf("bend of %g semitones exceeds the bend range", rest)
	}
	bend := math.Round(rest / e.config.BendRange * 8192)
	return uint8(k), int16(math.Max(-8192, math.Min(8191, bend))), nil
}

// voiceChannel assigns voices to channels, skipping the drum channel
func voiceChannel(voice int) uint8 {
	if voice >= drumChannel {
		return uint8(voice + 1)
	}
	return uint8(voice)
}
