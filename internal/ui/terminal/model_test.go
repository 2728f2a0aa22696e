package terminal

import (
	"math/rand"
	"strings"
	"testing"

	"revealtimer/internal/core/countdown"
	"revealtimer/internal/core/model"
	"revealtimer/internal/core/reveal"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingController struct {
	snapshot countdown.Snapshot
	calls    []string
	minutes  []int
}

func (controller *recordingController) Snapshot() countdown.Snapshot { return controller.snapshot }
func (controller *recordingController) Configure(minutes int) {
	controller.calls = append(controller.calls, "configure")
	controller.minutes = append(controller.minutes, minutes)
}
func (controller *recordingController) AdjustMinutes(delta int) {
	controller.calls = append(controller.calls, "adjust")
	controller.minutes = append(controller.minutes, delta)
}
func (controller *recordingController) Toggle()           { controller.calls = append(controller.calls, "toggle") }
func (controller *recordingController) Reset()            { controller.calls = append(controller.calls, "reset") }
func (controller *recordingController) ToggleSound()      { controller.calls = append(controller.calls, "sound") }
func (controller *recordingController) ToggleFullscreen() { controller.calls = append(controller.calls, "fullscreen") }

func snapshotFor(status model.Status, remaining, initial int) countdown.Snapshot {
	visual := reveal.Map(remaining, initial)
	return countdown.Snapshot{
		RemainingSeconds: remaining,
		InitialSeconds:   initial,
		Status:           status,
		Scale:            visual.Scale,
		Band:             visual.Band,
		Label:            reveal.Label(remaining, model.FinalCountdownSeconds),
		Message:          reveal.MessageIdle,
		SoundEnabled:     true,
	}
}

func runes(value string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(value)}
}

func TestModelKeysDriveController(t *testing.T) {
	controller := &recordingController{snapshot: snapshotFor(model.StatusIdle, 120, 120)}
	m := New(controller, nil)

	var updated tea.Model = m
	for _, msg := range []tea.KeyMsg{
		{Type: tea.KeySpace},
		runes("r"),
		runes("f"),
		runes("m"),
		runes("+"),
		runes("-"),
		runes("3"),
		runes("x"),
	} {
		updated, _ = updated.Update(msg)
	}

	assert.Equal(t, []string{"toggle", "reset", "fullscreen", "sound", "adjust", "adjust", "configure"}, controller.calls)
	assert.Equal(t, []int{1, -1, 5}, controller.minutes)
}

func TestModelQuitKey(t *testing.T) {
	m := New(&recordingController{}, nil)
	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestModelFollowsEvents(t *testing.T) {
	events := make(chan countdown.Event, 1)
	controller := &recordingController{snapshot: snapshotFor(model.StatusIdle, 120, 120)}
	m := New(controller, events)
	assert.Contains(t, m.View(), "02:00")

	running := snapshotFor(model.StatusRunning, 7, 120)
	running.FinalCountdown = true
	updated, cmd := m.Update(eventMsg(countdown.Event{Type: countdown.EventTick, Snapshot: running}))
	assert.NotNil(t, cmd)
	view := updated.View()
	assert.Contains(t, view, "7")
	assert.NotContains(t, view, "00:07")
}

func TestModelFaultExpires(t *testing.T) {
	m := New(&recordingController{snapshot: snapshotFor(model.StatusRunning, 60, 120)}, make(chan countdown.Event))

	updated, _ := m.Update(eventMsg(countdown.Event{
		Type:     countdown.EventFault,
		Message:  "Could not save timer state",
		Snapshot: snapshotFor(model.StatusRunning, 60, 120),
	}))
	assert.Contains(t, updated.View(), "Could not save timer state")

	updated, _ = updated.Update(faultExpiredMsg{sequence: 0})
	assert.Contains(t, updated.View(), "Could not save timer state")

	updated, _ = updated.Update(faultExpiredMsg{sequence: 1})
	assert.NotContains(t, updated.View(), "Could not save timer state")
}

func TestModelCompletionShowsConfettiUntilReset(t *testing.T) {
	m := New(&recordingController{snapshot: snapshotFor(model.StatusRunning, 1, 60)}, make(chan countdown.Event))
	particles := reveal.Confetti(rand.New(rand.NewSource(1)), reveal.ConfettiCount)

	updated, _ := m.Update(eventMsg(countdown.Event{
		Type:     countdown.EventCompleted,
		Snapshot: snapshotFor(model.StatusCompleted, 0, 60),
		Confetti: particles,
	}))
	terminal := updated.(Model)
	assert.Len(t, terminal.confetti, reveal.ConfettiCount)
	assert.Contains(t, terminal.View(), "Done!")

	updated, _ = terminal.Update(eventMsg(countdown.Event{Type: countdown.EventReset, Snapshot: snapshotFor(model.StatusIdle, 60, 60)}))
	assert.Empty(t, updated.(Model).confetti)
}

func TestModelEventsClosedQuits(t *testing.T) {
	events := make(chan countdown.Event)
	close(events)
	m := New(&recordingController{}, events)

	msg := m.Init()()
	_, cmd := m.Update(msg)
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestDiscShrinks(t *testing.T) {
	full := disc(snapshotFor(model.StatusRunning, 120, 120), 4)
	half := disc(snapshotFor(model.StatusRunning, 30, 120), 4)
	none := disc(snapshotFor(model.StatusCompleted, 0, 120), 4)

	assert.Greater(t, strings.Count(full, "█"), strings.Count(half, "█"))
	assert.Zero(t, strings.Count(none, "█"))
	assert.Equal(t, 9, strings.Count(none, "\n")+1)
}

func TestStatusLine(t *testing.T) {
	assert.Equal(t, "Reveal Timer: 01:00 running", statusLine(snapshotFor(model.StatusRunning, 60, 120)))
	assert.Equal(t, "Reveal Timer: done", statusLine(snapshotFor(model.StatusCompleted, 0, 120)))
}
