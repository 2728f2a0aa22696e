// Package terminal renders the countdown in a terminal with Bubble Tea.
package terminal

import (
	"fmt"
	"strings"
	"time"

	"revealtimer/internal/core/countdown"
	"revealtimer/internal/core/model"
	"revealtimer/internal/core/reveal"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	faultDisplayDuration = 3 * time.Second
	normalRadius         = 6
	bigRadius            = 10
)

// Controller is the set of countdown operations the terminal drives.
type Controller interface {
	Snapshot() countdown.Snapshot
	Configure(minutes int)
	AdjustMinutes(delta int)
	Toggle()
	Reset()
	ToggleSound()
	ToggleFullscreen()
}

type eventMsg countdown.Event

type eventsClosedMsg struct{}

type faultExpiredMsg struct {
	sequence int
}

// Model is the Bubble Tea model of the countdown screen.
type Model struct {
	controller    Controller
	events        <-chan countdown.Event
	snapshot      countdown.Snapshot
	keys          keyMap
	help          help.Model
	progress      progress.Model
	fault         string
	faultSequence int
	confetti      []reveal.Particle
	width         int
}

// New creates a model showing controller's current state and following
// events.
func New(controller Controller, events <-chan countdown.Event) Model {
	bar := progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())
	bar.Width = 40
	return Model{
		controller: controller,
		events:     events,
		snapshot:   controller.Snapshot(),
		keys:       defaultKeyMap(),
		help:       help.New(),
		progress:   bar,
	}
}

// Run starts the terminal program and blocks until the user quits.
func Run(controller Controller, events <-chan countdown.Event, options ...tea.ProgramOption) error {
	options = append([]tea.ProgramOption{tea.WithAltScreen()}, options...)
	if _, err := tea.NewProgram(New(controller, events), options...).Run(); err != nil {
		return fmt.Errorf("run terminal ui: %w", err)
	}
	return nil
}

func waitForEvent(events <-chan countdown.Event) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return eventsClosedMsg{}
		}
		return eventMsg(event)
	}
}

func (m Model) Init() tea.Cmd {
	if m.events == nil {
		return nil
	}
	return waitForEvent(m.events)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		target := msg.Width - 8
		if target > 60 {
			target = 60
		}
		if target < 10 {
			target = 10
		}
		m.progress.Width = target
		return m, nil

	case eventMsg:
		return m.handleEvent(countdown.Event(msg))

	case eventsClosedMsg:
		return m, tea.Quit

	case faultExpiredMsg:
		if msg.sequence == m.faultSequence {
			m.fault = ""
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleEvent(event countdown.Event) (tea.Model, tea.Cmd) {
	m.snapshot = event.Snapshot
	commands := []tea.Cmd{waitForEvent(m.events), tea.SetWindowTitle(statusLine(event.Snapshot))}

	switch event.Type {
	case countdown.EventFault:
		m.fault = event.Message
		m.faultSequence++
		sequence := m.faultSequence
		commands = append(commands, tea.Tick(faultDisplayDuration, func(time.Time) tea.Msg {
			return faultExpiredMsg{sequence: sequence}
		}))
	case countdown.EventCompleted:
		m.confetti = event.Confetti
	case countdown.EventReset:
		m.confetti = nil
	}
	return m, tea.Batch(commands...)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Toggle):
		m.controller.Toggle()
	case key.Matches(msg, m.keys.Reset):
		m.controller.Reset()
	case key.Matches(msg, m.keys.Fullscreen):
		m.controller.ToggleFullscreen()
	case key.Matches(msg, m.keys.Sound):
		m.controller.ToggleSound()
	case key.Matches(msg, m.keys.More):
		m.controller.AdjustMinutes(1)
	case key.Matches(msg, m.keys.Less):
		m.controller.AdjustMinutes(-1)
	case key.Matches(msg, m.keys.Quick):
		presets := model.QuickSetMinutes()
		index := int(msg.Runes[0] - '1')
		if index >= 0 && index < len(presets) {
			m.controller.Configure(presets[index])
		}
	}
	return m, nil
}

func (m Model) View() string {
	snapshot := m.snapshot
	radius := normalRadius
	if snapshot.Fullscreen {
		radius = bigRadius
	}

	sound := "on"
	if !snapshot.SoundEnabled {
		sound = "off"
	}
	header := fmt.Sprintf("%s  %d min  sound %s", titleStyle.Render("Reveal Timer"), snapshot.Minutes(), sound)

	lines := []string{
		header,
		"",
		disc(snapshot, radius),
		"",
		timerText(snapshot),
		messageStyle.Render(snapshot.Message),
		m.progress.ViewAs(reveal.Ratio(snapshot.RemainingSeconds, snapshot.InitialSeconds)),
	}
	if len(m.confetti) > 0 {
		width := m.width
		if width <= 0 || width > 60 {
			width = 60
		}
		lines = append(lines, confettiRow(m.confetti, width))
	}
	if m.fault != "" {
		lines = append(lines, faultStyle.Render(m.fault))
	}
	lines = append(lines, "", m.help.View(m.keys))

	body := lipgloss.JoinVertical(lipgloss.Center, lines...)
	if snapshot.Status == model.StatusRunning || snapshot.Status == model.StatusPaused {
		return frameStyle.Render(body)
	}
	return frameStyle.BorderForeground(lipgloss.Color("240")).Render(body)
}

// statusLine is the terminal window title.
func statusLine(snapshot countdown.Snapshot) string {
	if snapshot.Status == model.StatusCompleted {
		return "Reveal Timer: done"
	}
	return strings.TrimSpace(fmt.Sprintf("Reveal Timer: %s %s", snapshot.Label, strings.ToLower(string(snapshot.Status))))
}
