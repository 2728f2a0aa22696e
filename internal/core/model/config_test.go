package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewTimerConfigInRange(t *testing.T) {
	for minutes := MinMinutes; minutes <= MaxMinutes; minutes++ {
		config := NewTimerConfig(minutes)
		assert.Equal(t, minutes*60, config.DurationSeconds)
		assert.Equal(t, minutes, config.Minutes())
	}
}

func TestNewTimerConfigClamps(t *testing.T) {
	cases := map[int]int{
		-5:  MinMinutes,
		0:   MinMinutes,
		61:  MaxMinutes,
		999: MaxMinutes,
	}
	for input, want := range cases {
		assert.Equal(t, want*60, NewTimerConfig(input).DurationSeconds, "minutes=%d", input)
	}
}

func TestTimerConfigDuration(t *testing.T) {
	assert.Equal(t, 5*time.Minute, NewTimerConfig(5).Duration())
}

func TestStatusValid(t *testing.T) {
	assert.True(t, StatusPaused.Valid())
	assert.False(t, Status("Sleeping").Valid())
	assert.False(t, Status("").Valid())
}

func TestPersistedStateResumable(t *testing.T) {
	assert.True(t, PersistedState{RemainingSeconds: 30, InitialSeconds: 60, Status: StatusRunning}.Resumable())
	assert.True(t, PersistedState{RemainingSeconds: 0, InitialSeconds: 60, Status: StatusPaused}.Resumable())
	assert.False(t, PersistedState{RemainingSeconds: 30, InitialSeconds: 0, Status: StatusRunning}.Resumable())
	assert.True(t, PersistedState{RemainingSeconds: 3600, InitialSeconds: 3600, Status: StatusPaused}.Resumable())
	assert.False(t, PersistedState{RemainingSeconds: 5000, InitialSeconds: 86400, Status: StatusPaused}.Resumable())
	assert.False(t, PersistedState{RemainingSeconds: 30, InitialSeconds: 3660, Status: StatusRunning}.Resumable())
	assert.False(t, PersistedState{RemainingSeconds: 30, InitialSeconds: 90, Status: StatusRunning}.Resumable())
	assert.False(t, PersistedState{RemainingSeconds: 10, InitialSeconds: 30, Status: StatusRunning}.Resumable())
	assert.False(t, PersistedState{RemainingSeconds: 61, InitialSeconds: 60, Status: StatusRunning}.Resumable())
	assert.False(t, PersistedState{RemainingSeconds: -1, InitialSeconds: 60, Status: StatusPaused}.Resumable())
	assert.False(t, PersistedState{RemainingSeconds: 30, InitialSeconds: 60, Status: StatusIdle}.Resumable())
	assert.False(t, PersistedState{RemainingSeconds: 30, InitialSeconds: 60, Status: StatusCompleted}.Resumable())
}
