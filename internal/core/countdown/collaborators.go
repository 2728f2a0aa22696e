package countdown

import (
	"errors"
	"time"

	"revealtimer/internal/core/model"
)

// ErrUnavailable indicates that an environment capability (storage, wake
// lock, audio output, vibration, fullscreen) is absent on this system.
var ErrUnavailable = errors.New("capability unavailable")

// ErrNoSnapshot indicates the store holds no saved countdown.
var ErrNoSnapshot = errors.New("no saved snapshot")

// Store persists the countdown snapshot between launches.
type Store interface {
	Load() (model.PersistedState, error)
	Save(state model.PersistedState) error
	Clear() error
}

// CuePlayer plays audio cues. Calls return immediately; playback happens
// in the background.
type CuePlayer interface {
	PlayTick() error
	PlayCompletion() error
}

// KeepAlive prevents the display from sleeping while a countdown runs.
type KeepAlive interface {
	Activate() error
	Deactivate() error
}

// Haptic produces a vibration pattern of alternating on/off durations.
type Haptic interface {
	Pulse(pattern []time.Duration) error
}

// HapticPattern is played once on completion.
var HapticPattern = []time.Duration{300 * time.Millisecond, 100 * time.Millisecond, 300 * time.Millisecond}

type nopStore struct{}

func (nopStore) Load() (model.PersistedState, error) { return model.PersistedState{}, ErrNoSnapshot }
func (nopStore) Save(model.PersistedState) error { return ErrUnavailable }
func (nopStore) Clear() error { return ErrUnavailable }

type nopCues struct{}

func (nopCues) PlayTick() error { return ErrUnavailable }
func (nopCues) PlayCompletion() error { return ErrUnavailable }

type nopKeepAlive struct{}

func (nopKeepAlive) Activate() error { return ErrUnavailable }
func (nopKeepAlive) Deactivate() error { return nil }

type nopHaptic struct{}

func (nopHaptic) Pulse([]time.Duration) error { return ErrUnavailable }
