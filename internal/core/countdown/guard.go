package countdown

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
)

// Operation names passed to Guard.Do. Each maps to the message a user sees
// when the operation fails unexpectedly.
const (
	OpSave       = "save snapshot"
	OpClear      = "clear snapshot"
	OpLoad       = "load snapshot"
	OpTickCue    = "tick cue"
	OpFinishCue  = "completion cue"
	OpWakeOn     = "keep screen awake"
	OpWakeOff    = "release screen"
	OpHaptic     = "haptic pulse"
	OpTick       = "tick"
	OpComplete   = "complete"
	OpFullscreen = "fullscreen"
)

var faultMessages = map[string]string{
	OpSave:       "Could not save timer state",
	OpClear:      "Could not clear timer state",
	OpLoad:       "Could not load saved timer",
	OpTickCue:    "Could not play sound",
	OpFinishCue:  "Could not play sound",
	OpWakeOn:     "Screen may sleep during the countdown",
	OpWakeOff:    "Could not release screen",
	OpHaptic:     "Vibration failed",
	OpTick:       "Timer hiccup, still counting",
	OpComplete:   "Timer finished but had an error",
	OpFullscreen: "Fullscreen not available",
}

// FaultMessage returns the user-facing text for a failed operation.
func FaultMessage(op string) string {
	if message, ok := faultMessages[op]; ok {
		return message
	}
	return "Something went wrong"
}

// Guard applies the best-effort policy to collaborator calls: panics are
// recovered, missing capabilities are logged quietly, and unexpected
// failures are logged and reported through onFault. Guard never lets an
// error escape to the control flow that called it other than as a return
// value.
type Guard struct {
	onFault func(op string, err error)
}

// NewGuard creates a Guard reporting unexpected failures to onFault.
func NewGuard(onFault func(op string, err error)) Guard {
	return Guard{onFault: onFault}
}

// Do runs fn under the best-effort policy.
func (guard Guard) Do(op string, fn func() error) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("%s: panic: %v", op, recovered)
			log.Error().Str("op", op).Interface("panic", recovered).Msg("recovered from panic")
			guard.fault(op, err)
		}
	}()

	err = fn()
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrUnavailable) || errors.Is(err, ErrNoSnapshot) {
		log.Debug().Err(err).Str("op", op).Msg("capability unavailable, skipping")
		return err
	}
	log.Warn().Err(err).Str("op", op).Msg("best-effort operation failed")
	guard.fault(op, err)
	return err
}

func (guard Guard) fault(op string, err error) {
	if guard.onFault != nil {
		guard.onFault(op, err)
	}
}
