package harmony

import (
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/RyanBlaney/sonido-theory/algorithms/chord"
	"github.com/RyanBlaney/sonido-theory/algorithms/pitch"
	"github.com/RyanBlaney/sonido-theory/algorithms/scale"
	"github.com/RyanBlaney/sonido-theory/algorithms/tonal"
	"github.com/RyanBlaney/sonido-theory/algorithms/voicing"
	"github.com/RyanBlaney/sonido-theory/harmony/config"
	"github.com/RyanBlaney/sonido-theory/logging"
	"github.com/RyanBlaney/sonido-theory/transcode"
)

// ErrNoCustomScale is returned when "custom" is requested before the
// session defines one
var ErrNoCustomScale = errors.New("no custom scale defined in this session")

// Engine is the entry point for a front end: it parses user text, runs the
// theory packages with one configuration and keeps the session's custom
// scale
type Engine struct {
	config      *config.EngineConfig
	temperament pitch.Temperament
	session     *scale.Session

	analyzer    *chord.Analyzer
	voiceLeader *voicing.VoiceLeader
	keys        *tonal.KeyEstimator
	encoder     *transcode.Encoder
	decoder     *transcode.Decoder

	logger logging.Logger
}

// NewEngine creates an engine. A nil config uses DefaultEngineConfig.
func NewEngine(cfg *config.EngineConfig) (*Engine, error) {
	if cfg == nil {
		cfg = config.DefaultEngineConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid engine configuration: %w", err)
	}
	temperament, err := pitch.ParseTemperament(cfg.Temperament)
	if err != nil {
		return nil, err
	}
	profile, err := tonal.ParseKeyProfile(cfg.Profile)
	if err != nil {
		return nil, err
	}

	encoderConfig := transcode.DefaultEncoderConfig()
	encoderConfig.Tempo = cfg.Tempo
	encoderConfig.Velocity = cfg.Velocity

	session := scale.NewSession()
	e := &Engine{
		config:      cfg,
		temperament: temperament,
		session:     session,
		analyzer: chord.NewAnalyzerWithParams(chord.AnalyzerParams{
			MaxCandidates: cfg.MaxCandidates,
		}),
		voiceLeader: voicing.NewVoiceLeaderWithParams(voicing.VoiceLeaderParams{
			MaxVoices:     cfg.MaxVoices,
			DefaultOctave: cfg.DefaultOctave,
		}),
		keys: tonal.NewKeyEstimatorWithParams(tonal.KeyEstimationParams{
			Profile:       profile,
			MaxCandidates: cfg.MaxCandidates,
			PreferFlats:   cfg.PreferFlats,
		}),
		encoder: transcode.NewEncoder(encoderConfig),
		decoder: transcode.NewDecoder(&transcode.DecoderConfig{
			BendRange:   encoderConfig.BendRange,
			PreferFlats: cfg.PreferFlats,
		}),
		logger: logging.WithFields(logging.Fields{
			"component": "harmony_engine",
			"session":   session.ID.String(),
		}),
	}

	e.logger.Debug("Engine created", logging.Fields{
		"temperament": temperament.String(),
		"ensemble":    cfg.Ensemble,
		"max_voices":  cfg.MaxVoices,
	})
	return e, nil
}

// Config returns the engine's configuration
func (e *Engine) Config() config.EngineConfig { return *e.config }

// SessionID identifies the engine's session
func (e *Engine) SessionID() uuid.UUID { return e.session.ID }

// Close ends the session and discards its custom scale
func (e *Engine) Close() {
	e.session.Close()
	e.logger.Debug("Session closed")
}

// Note parses a note name
func (e *Engine) Note(name string) (pitch.Pitch, error) {
	return pitch.Parse(name)
}

// FormatValue spells a raw value in the engine's temperament, "Custom" when
// it falls between steps
func (e *Engine) FormatValue(value float64) string {
	return pitch.Format(value, e.temperament, e.config.PreferFlats)
}

// Scale builds the keys for a root and mode name. An unqualified minor
// yields its natural, harmonic and melodic forms; "custom" yields the
// session's scale.
func (e *Engine) Scale(root, mode string) ([]scale.Key, error) {
	m, err := scale.ParseMode(mode)
	if err != nil {
		return nil, err
	}
	if m == scale.Custom {
		k, err := e.customScale()
		if err != nil {
			return nil, err
		}
		return []scale.Key{k}, nil
	}
	r, err := pitch.Parse(root)
	if err != nil {
		return nil, err
	}
	return scale.Expand(r, m)
}

// Key builds exactly one key; an unqualified minor is read as natural minor
func (e *Engine) Key(root, mode string) (scale.Key, error) {
	m, err := scale.ParseMode(mode)
	if err != nil {
		return scale.Key{}, err
	}
	switch m {
	case scale.Custom:
		return e.customScale()
	case scale.Minor:
		m = scale.NaturalMinor
	}
	r, err := pitch.Parse(root)
	if err != nil {
		return scale.Key{}, err
	}
	return scale.Build(r, m)
}

// Jingle plays a named jingle from the tonic of a key
func (e *Engine) Jingle(name, root, mode string) ([]pitch.Pitch, error) {
	k, err := e.Key(root, mode)
	if err != nil {
		return nil, err
	}
	return scale.Jingle(name, k)
}

func (e *Engine) customScale() (scale.Key, error) {
	if e.session.Closed() {
		return scale.Key{}, scale.ErrSessionClosed
	}
	k, ok := e.session.CustomScale()
	if !ok {
		return scale.Key{}, ErrNoCustomScale
	}
	return k, nil
}

// DefineCustomScale stores the session's custom scale
func (e *Engine) DefineCustomScale(spec scale.CustomScaleSpec) (scale.Key, error) {
	k, err := e.session.DefineCustomScale(spec)
	if err != nil {
		e.logger.Warn("Custom scale rejected", logging.Fields{
			"name":  spec.Name,
			"error": err.Error(),
		})
		return scale.Key{}, err
	}
	e.logger.Info("Custom scale defined", logging.Fields{
		"name":  spec.Name,
		"notes": k.Len(),
	})
	return k, nil
}

// Circle walks the circle of fifths or fourths
func (e *Engine) Circle(start, direction string, steps int) ([]pitch.Pitch, error) {
	p, err := pitch.Parse(start)
	if err != nil {
		return nil, err
	}
	dir, err := scale.ParseCircleDirection(direction)
	if err != nil {
		return nil, err
	}
	return scale.Circle(p, dir, steps), nil
}

// Interval names the interval between two octave-qualified notes
func (e *Engine) Interval(from, to, direction string) (pitch.Interval, error) {
	a, err := pitch.Parse(from)
	if err != nil {
		return pitch.Interval{}, err
	}
	b, err := pitch.Parse(to)
	if err != nil {
		return pitch.Interval{}, err
	}
	dir, err := pitch.ParseDirection(direction)
	if err != nil {
		return pitch.Interval{}, err
	}
	return pitch.Between(a, b, dir)
}

// Transpose moves a note by an interval name such as "M3" or "P5"
func (e *Engine) Transpose(note, interval, direction string) (pitch.Pitch, error) {
	p, err := pitch.Parse(note)
	if err != nil {
		return pitch.Pitch{}, err
	}
	iv, err := pitch.ParseInterval(interval)
	if err != nil {
		return pitch.Pitch{}, err
	}
	dir, err := pitch.ParseDirection(direction)
	if err != nil {
		return pitch.Pitch{}, err
	}
	return pitch.Transpose(p, iv, dir), nil
}

// Chord parses a chord symbol
func (e *Engine) Chord(symbol string) (chord.Chord, error) {
	return chord.Parse(symbol)
}

func (e *Engine) chords(symbols []string) ([]chord.Chord, error) {
	out := make([]chord.Chord, len(symbols))
	for i, s := range symbols {
		c, err := chord.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("chord %d: %w", i+1, err)
		}
		out[i] = c
	}
	return out, nil
}

// Infer names the chord formed by the notes
func (e *Engine) Infer(notes ...string) (chord.Analysis, error) {
	a, err := e.analyzer.InferNames(notes...)
	var noMatch *chord.NoMatchError
	if errors.As(err, &noMatch) {
		e.logger.Debug("No chord reading", logging.Fields{
			"notes": notes,
		})
	}
	return a, err
}

// InScale reports whether a chord is diatonic to a key
func (e *Engine) InScale(symbol, root, mode string) (chord.Membership, error) {
	c, err := chord.Parse(symbol)
	if err != nil {
		return chord.Membership{}, err
	}
	k, err := e.Key(root, mode)
	if err != nil {
		return chord.Membership{}, err
	}
	return chord.InScale(c, k), nil
}

// Progression suggests a progression in a key; an empty style picks the
// key's default
func (e *Engine) Progression(root, mode, style string) ([]chord.Chord, error) {
	k, err := e.Key(root, mode)
	if err != nil {
		return nil, err
	}
	if style == "" {
		style = chord.DefaultStyle(k)
	}
	return chord.SuggestProgression(k, style)
}

// VoiceLead voices a progression of chord symbols
func (e *Engine) VoiceLead(symbols ...string) (voicing.Result, error) {
	progression, err := e.chords(symbols)
	if err != nil {
		return voicing.Result{}, err
	}
	return e.voiceLeader.Lead(progression)
}

// CompareProgressions aligns two progressions of chord symbols
func (e *Engine) CompareProgressions(query, reference []string) (chord.ProgressionComparison, error) {
	q, err := e.chords(query)
	if err != nil {
		return chord.ProgressionComparison{}, err
	}
	r, err := e.chords(reference)
	if err != nil {
		return chord.ProgressionComparison{}, err
	}
	return chord.CompareProgressions(q, r)
}

// Resolve suggests where a chord wants to go
func (e *Engine) Resolve(symbol string) ([]chord.Resolution, error) {
	c, err := chord.Parse(symbol)
	if err != nil {
		return nil, err
	}
	return chord.SuggestResolution(c), nil
}

// Borrow lists chords a key can borrow from a parallel mode
func (e *Engine) Borrow(root, mode, from string) ([]chord.Borrowed, error) {
	k, err := e.Key(root, mode)
	if err != nil {
		return nil, err
	}
	lender, err := scale.ParseMode(from)
	if err != nil {
		return nil, err
	}
	return chord.BorrowedChords(k, lender)
}

// Modulate carries a chord to a new tonic
func (e *Engine) Modulate(symbol, tonic string) (chord.Modulation, error) {
	c, err := chord.Parse(symbol)
	if err != nil {
		return chord.Modulation{}, err
	}
	t, err := pitch.Parse(tonic)
	if err != nil {
		return chord.Modulation{}, err
	}
	return chord.Modulate(c, t)
}

// Quartal stacks fourths on root
func (e *Engine) Quartal(root string, size, inversion int) (chord.Chord, error) {
	r, err := pitch.Parse(root)
	if err != nil {
		return chord.Chord{}, err
	}
	return chord.Quartal(r, size, inversion)
}

// DiatonicQuartal lists the quartal chords built from a key's notes
func (e *Engine) DiatonicQuartal(root, mode string, size int) ([]chord.Chord, error) {
	k, err := e.Key(root, mode)
	if err != nil {
		return nil, err
	}
	return chord.DiatonicQuartalChords(k, size)
}

// WholeTone stacks major seconds on root
func (e *Engine) WholeTone(root string, size int) (chord.Chord, error) {
	r, err := pitch.Parse(root)
	if err != nil {
		return chord.Chord{}, err
	}
	return chord.WholeTone(r, size)
}

// Japanese stacks alternate notes of the Yo or In scale on root
func (e *Engine) Japanese(root, kind string, size int) (chord.Chord, error) {
	r, err := pitch.Parse(root)
	if err != nil {
		return chord.Chord{}, err
	}
	m, err := scale.ParseMode(kind)
	if err != nil {
		return chord.Chord{}, err
	}
	return chord.JapaneseChord(r, m, size)
}

// Hybrid stacks fourths topped by a major third
func (e *Engine) Hybrid(root string, fourths int) (chord.Chord, error) {
	r, err := pitch.Parse(root)
	if err != nil {
		return chord.Chord{}, err
	}
	return chord.Hybrid(r, fourths)
}

// EstimateKey ranks keys for an excerpt of note names
func (e *Engine) EstimateKey(notes ...string) (tonal.KeyEstimationResult, error) {
	pitches := make([]pitch.Pitch, len(notes))
	for i, n := range notes {
		p, err := pitch.Parse(n)
		if err != nil {
			return tonal.KeyEstimationResult{}, err
		}
		pitches[i] = p
	}
	return e.keys.Estimate(pitches, nil)
}

// ExportMIDI voices a progression and writes it as a Standard MIDI File
func (e *Engine) ExportMIDI(w io.Writer, symbols ...string) (voicing.Result, error) {
	res, err := e.VoiceLead(symbols...)
	if err != nil {
		return voicing.Result{}, err
	}
	if err := e.encoder.Encode(w, res); err != nil {
		return voicing.Result{}, err
	}
	return res, nil
}

// ImportMIDI reads the chords of a Standard MIDI File
func (e *Engine) ImportMIDI(r io.Reader) (*transcode.Score, error) {
	return e.decoder.DecodeReader(r)
}

// AnalyzeScore infers a reading for every chord of a decoded file. Chords
// with no reading get an empty Analysis rather than failing the file.
func (e *Engine) AnalyzeScore(score *transcode.Score) ([]chord.Analysis, error) {
	if score == nil || len(score.Chords) == 0 {
		return nil, transcode.ErrEmptyProgression
	}
	out := make([]chord.Analysis, len(score.Chords))
	unmatched := 0
	for i, c := range score.Chords {
		a, err := e.analyzer.Infer(c.Notes)
		if err != nil {
			var noMatch *chord.NoMatchError
			if !errors.As(err, &noMatch) {
				return nil, fmt.Errorf("chord at tick %d: %w", c.Tick, err)
			}
			unmatched++
			a = chord.Analysis{Input: c.Notes}
		}
		out[i] = a
	}
	e.logger.Debug("Score analyzed", logging.Fields{
		"chords":    len(out),
		"unmatched": unmatched,
	})
	return out, nil
}

// EstimateScoreKey ranks keys for a decoded file, one segment per chord
func (e *Engine) EstimateScoreKey(score *transcode.Score) (tonal.KeyEstimationResult, error) {
	if score == nil {
		return tonal.KeyEstimationResult{}, transcode.ErrEmptyProgression
	}
	segments := make([][]pitch.Pitch, len(score.Chords))
	for i, c := range score.Chords {
		segments[i] = c.Notes
	}
	return e.keys.EstimateSequence(segments)
}
