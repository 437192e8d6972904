// Package playback owns the live audio boundary: an explicit Device handle
// over the host audio context and a Session state machine per played gap
// program. The signal path itself lives in sonify; playback only streams
// rendered blocks to the output device.
package playback

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// State is a Session lifecycle stage.
type State int

const (
	// StateIdle is the initial state of a new session.
	StateIdle State = iota
	// StatePriming covers audio resource acquisition and graph construction.
	StatePriming
	// StatePlaying means the signal graph is live on the device.
	StatePlaying
	// StateStopped is terminal, reached on natural drain or explicit stop.
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePriming:
		return "priming"
	case StatePlaying:
		return "playing"
	case StateStopped:
		return "stopped"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Transition is one session state change, delivered to the device's
// transition callback for UI feedback.
type Transition struct {
	Session uuid.UUID
	From    State
	To      State
	At      time.Time
}
