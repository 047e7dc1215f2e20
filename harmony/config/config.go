package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Ensemble tunes voicing and ranking for a kind of writing
type Ensemble string

const (
	EnsembleDefault  Ensemble = "default"
	EnsembleChoir    Ensemble = "choir"
	EnsembleJazz     Ensemble = "jazz"
	EnsembleKeyboard Ensemble = "keyboard"
)

// ToEnsemble converts a free-form name, falling back to EnsembleDefault
func ToEnsemble(name string) Ensemble {
	switch Ensemble(strings.ToLower(strings.TrimSpace(name))) {
	case EnsembleChoir, "satb", "choral":
		return EnsembleChoir
	case EnsembleJazz:
		return EnsembleJazz
	case EnsembleKeyboard, "piano":
		return EnsembleKeyboard
	}
	return EnsembleDefault
}

// EngineConfig holds configuration for the harmony engine
type EngineConfig struct {
	Ensemble Ensemble `json:"ensemble"`

	// Pitch
	Temperament int  `json:"temperament"`  // divisions of the octave, 12 or 24
	PreferFlats bool `json:"prefer_flats"` // spelling for raw pitch classes

	// Voice leading
	MaxVoices     int `json:"max_voices"`     // 0 keeps every chord tone
	DefaultOctave int `json:"default_octave"` // octave of the first chord's bass

	// Analysis
	MaxCandidates int    `json:"max_candidates"` // chord readings and key candidates to keep
	Profile       string `json:"profile"`        // key-estimation profile: "krumhansl", "temperley", ...

	// MIDI export
	Tempo    float64 `json:"tempo"`    // quarter notes per minute
	Velocity uint8   `json:"velocity"` // 1-127
}

// DefaultEngineConfig returns four voices from middle C in 12-TET
func DefaultEngineConfig() *EngineConfig {
	return &EngineConfig{
		Ensemble:      EnsembleDefault,
		Temperament:   12,
		PreferFlats:   false,
		MaxVoices:     4,
		DefaultOctave: 4,
		MaxCandidates: 5,
		Profile:       "krumhansl",
		Tempo:         120,
		Velocity:      80,
	}
}

// ConfigForEnsemble returns the default configuration adjusted for an
// ensemble
func ConfigForEnsemble(ensemble Ensemble) *EngineConfig {
	cfg := DefaultEngineConfig()
	cfg.Ensemble = ensemble

	switch ensemble {
	case EnsembleChoir:
		cfg.MaxVoices = 4
		cfg.DefaultOctave = 3 // bass around C3

	case EnsembleJazz:
		cfg.MaxVoices = 5
		cfg.DefaultOctave = 3
		cfg.MaxCandidates = 8 // extended readings are common
		cfg.PreferFlats = true

	case EnsembleKeyboard:
		cfg.MaxVoices = 0
		cfg.Velocity = 96

	default:
		cfg.Ensemble = EnsembleDefault
	}

	return cfg
}

// Validate reports the first field out of range
func (c *EngineConfig) Validate() error {
	switch {
	case c.Temperament != 12 && c.Temperament != 24:
		return fmt.Errorf("temperament %d: only 12 and 24 divisions are supported", c.Temperament)
	case c.MaxVoices < 0:
		return fmt.Errorf("max voices %d is negative", c.MaxVoices)
	case c.DefaultOctave < -1 || c.DefaultOctave > 9:
		return fmt.Errorf("default octave %d outside -1..9", c.DefaultOctave)
	case c.MaxCandidates < 1:
		return fmt.Errorf("max candidates %d must be at least 1", c.MaxCandidates)
	case c.Tempo <= 0:
		return fmt.Errorf("tempo %g must be positive", c.Tempo)
	case c.Velocity == 0 || c.Velocity > 127:
		return fmt.Errorf("velocity %d outside 1..127", c.Velocity)
	}
	return nil
}

// Environment variables read by FromEnv
const (
	EnvEnsemble      = "SONIDO_ENSEMBLE"
	EnvTemperament   = "SONIDO_TEMPERAMENT"
	EnvPreferFlats   = "SONIDO_PREFER_FLATS"
	EnvMaxVoices     = "SONIDO_MAX_VOICES"
	EnvDefaultOctave = "SONIDO_DEFAULT_OCTAVE"
	EnvMaxCandidates = "SONIDO_MAX_CANDIDATES"
	EnvKeyProfile    = "SONIDO_KEY_PROFILE"
	EnvTempo         = "SONIDO_TEMPO"
	EnvVelocity      = "SONIDO_VELOCITY"
)

// LookupFunc returns the value of a configuration variable, "" when unset
type LookupFunc func(key string) string

// FromEnv builds a configuration from SONIDO_* variables. SONIDO_ENSEMBLE
// picks the base configuration and the other variables override it.
func FromEnv() (*EngineConfig, error) {
	return FromLookup(os.Getenv)
}

// FromLookup is FromEnv reading variables through lookup
func FromLookup(lookup LookupFunc) (*EngineConfig, error) {
	env := envReader(lookup)
	cfg := ConfigForEnsemble(ToEnsemble(env.get(EnvEnsemble, string(EnsembleDefault))))

	var err error
	if cfg.Temperament, err = env.getInt(EnvTemperament, cfg.Temperament); err != nil {
		return nil, err
	}
	if cfg.PreferFlats, err = env.getBool(EnvPreferFlats, cfg.PreferFlats); err != nil {
		return nil, err
	}
	if cfg.MaxVoices, err = env.getInt(EnvMaxVoices, cfg.MaxVoices); err != nil {
		return nil, err
	}
	if cfg.DefaultOctave, err = env.getInt(EnvDefaultOctave, cfg.DefaultOctave); err != nil {
		return nil, err
	}
	if cfg.MaxCandidates, err = env.getInt(EnvMaxCandidates, cfg.MaxCandidates); err != nil {
		return nil, err
	}
	cfg.Profile = env.get(EnvKeyProfile, cfg.Profile)
	if cfg.Tempo, err = env.getFloat(EnvTempo, cfg.Tempo); err != nil {
		return nil, err
	}
	velocity, err := env.getInt(EnvVelocity, int(cfg.Velocity))
	if err != nil {
		return nil, err
	}
	if velocity < 0 || velocity > 127 {
		return nil, fmt.Errorf("%s=%d outside 1..127", EnvVelocity, velocity)
	}
	cfg.Velocity = uint8(velocity)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid environment configuration: %w", err)
	}
	return cfg, nil
}

type envReader LookupFunc

func (env envReader) get(key, defaultValue string) string {
	value := env(key)
	if value != "" {
		return value
	}
	return defaultValue
}

func (env envReader) getInt(key string, defaultValue int) (int, error) {
	value := env(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("%s=%q: %w", key, value, err)
	}
	return n, nil
}

func (env envReader) getFloat(key string, defaultValue float64) (float64, error) {
	value := env(key)
	if value == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, fmt.Errorf("%s=%q: %w", key, value, err)
	}
	return f, nil
}

func (env envReader) getBool(key string, defaultValue bool) (bool, error) {
	value := env(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return false, fmt.Errorf("%s=%q: %w", key, value, err)
	}
	return b, nil
}
