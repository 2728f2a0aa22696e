package tray

import (
	"testing"

	"revealtimer/internal/core/countdown"
	"revealtimer/internal/core/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrayReflectsSnapshot(t *testing.T) {
	manager := New(nil, Callbacks{})

	manager.Update(countdown.Snapshot{Status: model.StatusRunning, Label: "01:30", InitialSeconds: 120, SoundEnabled: true})
	assert.Equal(t, "Status: 01:30 left", manager.statusItem.Label)
	assert.Equal(t, "Pause", manager.toggleItem.Label)
	assert.False(t, manager.resetItem.Disabled)
	assert.True(t, manager.soundItem.Checked)

	manager.Update(countdown.Snapshot{Status: model.StatusPaused, Label: "01:30", InitialSeconds: 120})
	assert.Equal(t, "Resume", manager.toggleItem.Label)
	assert.Equal(t, "Status: 01:30 (paused)", manager.statusItem.Label)
	assert.False(t, manager.soundItem.Checked)

	manager.Update(countdown.Snapshot{Status: model.StatusCompleted, InitialSeconds: 120})
	assert.True(t, manager.toggleItem.Disabled)
	assert.Equal(t, "Status: done", manager.statusItem.Label)

	manager.Update(countdown.Snapshot{Status: model.StatusIdle, InitialSeconds: 300})
	assert.Equal(t, "Status: idle, 5 min", manager.statusItem.Label)
	assert.True(t, manager.resetItem.Disabled)
}

func TestTrayCallbacks(t *testing.T) {
	var calls []string
	manager := New(nil, Callbacks{
		OnToggle: func() { calls = append(calls, "toggle") },
		OnReset:  func() { calls = append(calls, "reset") },
		OnQuit:   func() { calls = append(calls, "quit") },
	})

	menu := manager.Menu()
	require.Len(t, menu.Items, 9)
	for _, item := range menu.Items {
		if item.Action != nil {
			item.Action()
		}
	}
	assert.Equal(t, []string{"toggle", "reset", "quit"}, calls)
}
