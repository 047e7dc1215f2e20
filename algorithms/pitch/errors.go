package pitch

import (
	"errors"
	"fmt"
)

// ErrDirectionMismatch is returned when an interval is requested in one
// direction but the two pitches are placed the other way round
var ErrDirectionMismatch = errors.New("pitches contradict the requested direction")

// ErrTemperament is returned for unsupported temperaments
var ErrTemperament = errors.New("unsupported temperament")

// ParseError reports malformed note, interval, chord or scale text. It is
// shared by every symbol parser in the module so callers can re-prompt with
// the offending substring.
type ParseError struct {
	Input     string `json:"input"`     // Full text that was being parsed
	Offset    int    `json:"offset"`    // Byte offset of the offending substring
	Substring string `json:"substring"` // The part of Input that could not be parsed
	Reason    string `json:"reason"`    // Human-readable explanation
}

func (e *ParseError) Error() string {
	if e.Substring != "" {
		return fmt.Sprintf("cannot parse %q: %s at %q (offset %d)", e.Input, e.Reason, e.Substring, e.Offset)
	}
	return fmt.Sprintf("cannot parse %q: %s", e.Input, e.Reason)
}

// NewParseError builds a ParseError pointing at input[offset:]
func NewParseError(input string, offset int, reason string) *ParseError {
	if offset < 0 {
		offset = 0
	}
	if offset > len(input) {
		offset = len(input)
	}
	return &ParseError{
		Input:     input,
		Offset:    offset,
		Substring: input[offset:],
		Reason:    reason,
	}
}

// AmbiguousOctaveError is returned when an octave-aware calculation is
// given a pitch without an octave
type AmbiguousOctaveError struct {
	Pitch Pitch `json:"pitch"`
}

func (e *AmbiguousOctaveError) Error() string {
	return fmt.Sprintf("pitch %s has no octave; specify one (e.g. %s4)", e.Pitch.Name(), e.Pitch.Name())
}
