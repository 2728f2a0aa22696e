package countdown

import (
	"time"

	"revealtimer/internal/core/model"
	"revealtimer/internal/core/reveal"

	"github.com/google/uuid"
)

// EventType defines the type of Engine event.
type EventType string

const (
	EventConfigured   EventType = "configured"
	EventStateChange  EventType = "state_change"
	EventTick         EventType = "tick"
	EventCompleted    EventType = "completed"
	EventReset        EventType = "reset"
	EventFault        EventType = "fault"
	EventPresentation EventType = "presentation"
)

// Snapshot is the read-only view of the countdown exposed to displays.
type Snapshot struct {
	RemainingSeconds int          `json:"remainingSeconds"`
	InitialSeconds   int          `json:"initialSeconds"`
	Status           model.Status `json:"status"`
	Scale            float64      `json:"scaleFactor"`
	Band             reveal.Band  `json:"colorBand"`
	Label            string       `json:"label"`
	Message          string       `json:"message"`
	FinalCountdown   bool         `json:"finalCountdown"`
	SoundEnabled     bool         `json:"soundEnabled"`
	Fullscreen       bool         `json:"fullscreen"`
}

// Minutes returns the configured duration in whole minutes.
func (snapshot Snapshot) Minutes() int {
	return model.TimerConfig{DurationSeconds: snapshot.InitialSeconds}.Minutes()
}

// Event represents an Engine update for observers.
type Event struct {
	Type     EventType         `json:"type"`
	Snapshot Snapshot          `json:"snapshot"`
	Message  string            `json:"message,omitempty"`
	Confetti []reveal.Particle `json:"-"`
	Run      uuid.UUID         `json:"run"`
	At       time.Time         `json:"at"`
}
