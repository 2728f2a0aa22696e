package model

import "time"

const (
	// MinMinutes is the shortest countdown a user can configure.
	MinMinutes = 1
	// MaxMinutes is the longest countdown a user can configure.
	MaxMinutes = 60
	// DefaultMinutes is used when neither settings nor a snapshot provide a duration.
	DefaultMinutes = 2

	// FinalCountdownSeconds is the window in which tick cues play and the
	// display switches to a bare number.
	FinalCountdownSeconds = 10
)

// Status represents the countdown lifecycle state.
type Status string

const (
	StatusIdle      Status = "Idle"
	StatusRunning   Status = "Running"
	StatusPaused    Status = "Paused"
	StatusCompleted Status = "Completed"
)

// Valid reports whether the status is one of the known lifecycle states.
func (status Status) Valid() bool {
	switch status {
	case StatusIdle, StatusRunning, StatusPaused, StatusCompleted:
		return true
	default:
		return false
	}
}

// TimerConfig contains the user-selected countdown length.
type TimerConfig struct {
	DurationSeconds int
}

// NewTimerConfig builds a TimerConfig from minutes, clamping to the supported range.
func NewTimerConfig(minutes int) TimerConfig {
	return TimerConfig{DurationSeconds: ClampMinutes(minutes) * 60}
}

// Minutes returns the configured length in whole minutes.
func (config TimerConfig) Minutes() int {
	return config.DurationSeconds / 60
}

// Duration returns the configured length as a time.Duration.
func (config TimerConfig) Duration() time.Duration {
	return time.Duration(config.DurationSeconds) * time.Second
}

// ClampMinutes restricts minutes to [MinMinutes, MaxMinutes].
func ClampMinutes(minutes int) int {
	if minutes < MinMinutes {
		return MinMinutes
	}
	if minutes > MaxMinutes {
		return MaxMinutes
	}
	return minutes
}

// QuickSetMinutes lists the preset durations offered by the front ends.
func QuickSetMinutes() []int {
	return []int{1, 2, 5, 10, 15, 30, 60}
}

// PersistedState is the subset of the countdown written to the snapshot store.
type PersistedState struct {
	RemainingSeconds int    `json:"remainingSeconds"`
	InitialSeconds   int    `json:"initialSeconds"`
	Status           Status `json:"status"`
}

// Resumable reports whether the state describes an interrupted run that can
// be restored: an initial length of whole minutes within [MinMinutes,
// MaxMinutes], remaining within range and a Running or Paused status.
func (state PersistedState) Resumable() bool {
	if state.InitialSeconds%60 != 0 || ClampMinutes(state.InitialSeconds/60)*60 != state.InitialSeconds {
		return false
	}
	if state.RemainingSeconds < 0 || state.RemainingSeconds > state.InitialSeconds {
		return false
	}
	return state.Status == StatusRunning || state.Status == StatusPaused
}
