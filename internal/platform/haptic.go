package platform

import (
	"fmt"
	"io"
	"sync"
	"time"

	"revealtimer/internal/core/countdown"

	"github.com/jonboulle/clockwork"
)

// NewHaptic returns the vibration provider for desktop sessions, which have
// none.
func NewHaptic() countdown.Haptic {
	return unsupportedHaptic{}
}

type unsupportedHaptic struct{}

func (unsupportedHaptic) Pulse([]time.Duration) error {
	return fmt.Errorf("vibration: %w", countdown.ErrUnavailable)
}

// BellHaptic approximates a vibration pattern with terminal bells: one bell
// per "on" segment, spaced by the pattern's durations.
type BellHaptic struct {
	mu     sync.Mutex
	out    io.Writer
	clock  clockwork.Clock
	done   chan struct{}
	closed bool
}

// NewBellHaptic writes bells to out. A nil clock uses real time.
func NewBellHaptic(out io.Writer, clock clockwork.Clock) *BellHaptic {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &BellHaptic{out: out, clock: clock}
}

// Pulse plays pattern in the background. Even indexes are "on" segments.
func (haptic *BellHaptic) Pulse(pattern []time.Duration) error {
	if len(pattern) == 0 {
		return nil
	}
	haptic.mu.Lock()
	done := make(chan struct{})
	haptic.done = done
	haptic.mu.Unlock()

	segments := append([]time.Duration(nil), pattern...)
	go func() {
		defer close(done)
		for index, segment := range segments {
			if index%2 == 0 {
				haptic.mu.Lock()
				_, _ = io.WriteString(haptic.out, "\a")
				haptic.mu.Unlock()
			}
			if index < len(segments)-1 {
				haptic.clock.Sleep(segment)
			}
		}
	}()
	return nil
}

// Wait blocks until the most recent pulse finished.
func (haptic *BellHaptic) Wait() {
	haptic.mu.Lock()
	done := haptic.done
	haptic.mu.Unlock()
	if done != nil {
		<-done
	}
}
