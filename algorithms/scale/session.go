package scale

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/RyanBlaney/sonido-theory/algorithms/pitch"
)

var (
	// ErrCustomScaleDefined is returned when a session already holds a
	// custom scale
	ErrCustomScaleDefined = errors.New("custom scale already defined for this session")

	// ErrSessionClosed is returned after Close
	ErrSessionClosed = errors.New("session closed")
)

// CustomScaleSpec describes a user-defined scale. Descending is optional
// and, when given, lists the falling form from the key centre downwards.
// A nil Solfege falls back to movable-do syllables.
type CustomScaleSpec struct {
	Name              string        `json:"name"`
	Ascending         []pitch.Pitch `json:"ascending"`
	Descending        []pitch.Pitch `json:"descending,omitempty"`
	Solfege           []string      `json:"solfege,omitempty"`
	DescendingSolfege []string      `json:"descending_solfege,omitempty"`
	Center            int           `json:"center"` // index into Ascending of the key centre
}

// Session holds the custom scale of one analysis session. The scale can be
// written once and lives until Close; nothing is persisted.
type Session struct {
	ID uuid.UUID `json:"id"`

	mu     sync.RWMutex
	custom *Key
	closed bool
}

// NewSession starts an empty session
func NewSession() *Session {
	return &Session{ID: uuid.New()}
}

// DefineCustomScale validates and stores the session's custom scale
func (s *Session) DefineCustomScale(spec CustomScaleSpec) (Key, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return Key{}, ErrSessionClosed
	}
	if s.custom != nil {
		return Key{}, ErrCustomScaleDefined
	}

	k, err := buildCustom(spec)
	if err != nil {
		return Key{}, fmt.Errorf("invalid custom scale %q: %w", spec.Name, err)
	}
	s.custom = &k
	return k, nil
}

// CustomScale returns the session's custom scale, if any
func (s *Session) CustomScale() (Key, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.custom == nil {
		return Key{}, false
	}
	return *s.custom, true
}

// Close clears the custom scale; later definitions fail
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.custom = nil
	s.closed = true
}

// Closed reports whether Close has been called
func (s *Session) Closed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}

func buildCustom(spec CustomScaleSpec) (Key, error) {
	if len(spec.Ascending) == 0 {
		return Key{}, errors.New("no notes")
	}
	if spec.Center < 0 || spec.Center >= len(spec.Ascending) {
		return Key{}, fmt.Errorf("key centre %d out of range", spec.Center)
	}
	if spec.Solfege != nil && len(spec.Solfege) != len(spec.Ascending) {
		return Key{}, fmt.Errorf("%d syllables for %d notes", len(spec.Solfege), len(spec.Ascending))
	}
	if spec.DescendingSolfege != nil && len(spec.DescendingSolfege) != len(spec.Descending) {
		return Key{}, fmt.Errorf("%d falling syllables for %d notes", len(spec.DescendingSolfege), len(spec.Descending))
	}

	clean := func(ps []pitch.Pitch) []pitch.Pitch {
		if ps == nil {
			return nil
		}
		out := make([]pitch.Pitch, len(ps))
		for i, p := range ps {
			out[i] = p.WithoutOctave()
		}
		return out
	}

	tonic := spec.Ascending[spec.Center].WithoutOctave()
	k := Key{
		Tonic:         tonic,
		Mode:          Custom,
		Name:          spec.Name,
		Notes:         clean(spec.Ascending),
		Descending:    clean(spec.Descending),
		CustomSolfege: true,
		Center:        spec.Center,
	}
	if spec.Solfege != nil {
		k.Solfege = append([]string(nil), spec.Solfege...)
	} else {
		k.Solfege = syllables(tonic, k.Notes)
	}
	if k.Descending != nil {
		if spec.DescendingSolfege != nil {
			k.DescendingSolfege = append([]string(nil), spec.DescendingSolfege...)
		} else {
			k.DescendingSolfege = syllables(tonic, k.Descending)
		}
	}
	return k, nil
}
