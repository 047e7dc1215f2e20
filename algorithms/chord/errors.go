package chord

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnknownStyle is returned for progression styles the mode has no table for
var ErrUnknownStyle = errors.New("unknown progression style")

// ErrStackSize is returned when a generator is asked for an impossible stack
var ErrStackSize = errors.New("stack size out of range")

// NoMatchError reports a pitch set that no harmonic system explains. It is
// a normal analysis result, not a failure of the analyzer.
type NoMatchError struct {
	PitchClasses []int  `json:"pitch_classes"`
	Reason       string `json:"reason,omitempty"`
}

func (e *NoMatchError) Error() string {
	if len(e.PitchClasses) == 0 {
		if e.Reason != "" {
			return "no match found: " + e.Reason
		}
		return "no match found: empty pitch set"
	}
	classes := make([]string, len(e.PitchClasses))
	for i, c := range e.PitchClasses {
		classes[i] = strconv.Itoa(c)
	}
	msg := fmt.Sprintf("no match found for pitch classes {%s}", strings.Join(classes, " "))
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}
