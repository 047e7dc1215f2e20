package transcode

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"

	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/RyanBlaney/sonido-theory/algorithms/pitch"
	"github.com/RyanBlaney/sonido-theory/logging"
)

// Score is the harmony read back from a Standard MIDI File
type Score struct {
	Tempo      float64      `json:"tempo"`      // first tempo in the file, 120 when absent
	Resolution uint16       `json:"resolution"` // ticks per quarter note
	Tracks     int          `json:"tracks"`
	Chords     []ScoreChord `json:"chords"`
}

// ScoreChord is a group of notes sounding together
type ScoreChord struct {
	Tick   int64         `json:"tick"`
	Symbol string        `json:"symbol,omitempty"` // marker text at the same tick
	Keys   []uint8       `json:"keys"`             // ascending MIDI keys
	Notes  []pitch.Pitch `json:"notes"`            // keys plus channel bend, respelled
}

// DecoderConfig holds decoder configuration
type DecoderConfig struct {
	BendRange   float64 `json:"bend_range"` // semitones covered by a full pitch bend
	PreferFlats bool    `json:"prefer_flats"`
}

// DefaultDecoderConfig returns the General MIDI bend range
func DefaultDecoderConfig() *DecoderConfig {
	return &DecoderConfig{BendRange: 2}
}

// Decoder reads chords back out of Standard MIDI Files
type Decoder struct {
	config *DecoderConfig
	logger logging.Logger
}

// NewDecoder creates a new MIDI decoder
func NewDecoder(config *DecoderConfig) *Decoder {
	if config == nil {
		config = DefaultDecoderConfig()
	}
	return &Decoder{
		config: config,
		logger: logging.WithFields(logging.Fields{
			"component": "midi_decoder",
		}),
	}
}

// DecodeFile reads a .mid file
func (d *Decoder) DecodeFile(filename string) (*Score, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading midi file: %w", err)
	}
	return d.DecodeBytes(data)
}

// DecodeReader reads an SMF from r
func (d *Decoder) DecodeReader(reader io.Reader) (*Score, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("reading midi data: %w", err)
	}
	return d.DecodeBytes(data)
}

// DecodeBytes parses an SMF and groups its note-ons by start tick
func (d *Decoder) DecodeBytes(data []byte) (score *Score, err error) {
	logger := d.logger.WithFields(logging.Fields{
		"function":  "DecodeBytes",
		"data_size": len(data),
	})

	if len(data) == 0 {
		return nil, fmt.Errorf("empty midi data")
	}

	// the smf reader can panic on malformed input
	defer func() {
		if r := recover(); r != nil {
			score = nil
			err = fmt.Errorf("parsing midi file: %v", r)
		}
	}()

	s, err := smf.ReadFrom(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing midi file: %w", err)
	}

	score = &Score{Tempo: 120, Tracks: len(s.Tracks)}
	if ticks, ok := s.TimeFormat.(smf.MetricTicks); ok {
		score.Resolution = uint16(ticks)
	}

	type onset struct {
		key  uint8
		bend int16
	}
	onsets := make(map[int64][]onset)
	markers := make(map[int64]string)
	tempoSeen := false

	for _, track := range s.Tracks {
		var abs int64
		bends := make(map[uint8]int16)
		for _, ev := range track {
			abs += int64(ev.Delta)
			var ch, key, vel uint8
			var rel int16
			var absBend uint16
			var bpm float64
			var text string
			switch {
			case ev.Message.GetMetaTempo(&bpm):
				if !tempoSeen {
					score.Tempo = bpm
					tempoSeen = true
				}
			case ev.Message.GetMetaMarker(&text):
				markers[abs] = text
			case ev.Message.GetPitchBend(&ch, &rel, &absBend):
				bends[ch] = rel
			case ev.Message.GetNoteOn(&ch, &key, &vel):
				if vel == 0 {
					continue // running-status note off
				}
				onsets[abs] = append(onsets[abs], onset{key, bends[ch]})
			}
		}
	}

	ticks := make([]int64, 0, len(onsets))
	for t := range onsets {
		ticks = append(ticks, t)
	}
	sort.Slice(ticks, func(i, j int) bool { return ticks[i] < ticks[j] })

	for _, t := range ticks {
		group := onsets[t]
		sort.SliceStable(group, func(i, j int) bool { return group[i].key < group[j].key })

		c := ScoreChord{Tick: t, Symbol: markers[t]}
		for _, o := range group {
			value := float64(int(o.key)-MiddleCKey) + float64(o.bend)/8192*d.config.BendRange
			c.Keys = append(c.Keys, o.key)
			c.Notes = append(c.Notes, pitch.FromValue(value, d.config.PreferFlats))
		}
		score.Chords = append(score.Chords, c)
	}

	logger.Debug("MIDI file decoded", logging.Fields{
		"tracks": score.Tracks,
		"chords": len(score.Chords),
	})
	return score, nil
}

// Symbols returns the marker text of every chord
func (s *Score) Symbols() []string {
	out := make([]string, len(s.Chords))
	for i, c := range s.Chords {
		out[i] = c.Symbol
	}
	return out
}
