package tray

import (
	"fmt"

	"revealtimer/internal/core/countdown"
	"revealtimer/internal/core/model"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
)

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnShow        func()
	OnPreferences func()
	OnToggle      func()
	OnReset       func()
	OnToggleSound func()
	OnQuit        func()
}

// Manager handles system tray state.
type Manager struct {
	app        desktop.App
	callbacks  Callbacks
	statusItem *fyne.MenuItem
	toggleItem *fyne.MenuItem
	resetItem  *fyne.MenuItem
	soundItem  *fyne.MenuItem
}

// New creates a tray manager with the provided callbacks. A nil app builds
// the menu without installing it.
func New(app desktop.App, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:       app,
		callbacks: callbacks,
	}

	manager.statusItem = fyne.NewMenuItem("Status: idle", nil)
	manager.statusItem.Disabled = true
	manager.toggleItem = fyne.NewMenuItem("Start", invoke(&manager.callbacks.OnToggle))
	manager.resetItem = fyne.NewMenuItem("Reset", invoke(&manager.callbacks.OnReset))
	manager.soundItem = fyne.NewMenuItem("Sound", invoke(&manager.callbacks.OnToggleSound))

	manager.refreshMenu()
	return manager
}

// Update reflects snapshot in the menu labels.
func (manager *Manager) Update(snapshot countdown.Snapshot) {
	manager.statusItem.Label = fmt.Sprintf("Status: %s", statusText(snapshot))

	switch snapshot.Status {
	case model.StatusRunning:
		manager.toggleItem.Label = "Pause"
	case model.StatusPaused:
		manager.toggleItem.Label = "Resume"
	default:
		manager.toggleItem.Label = "Start"
	}
	manager.toggleItem.Disabled = snapshot.Status == model.StatusCompleted
	manager.resetItem.Disabled = snapshot.Status == model.StatusIdle
	manager.soundItem.Checked = snapshot.SoundEnabled

	manager.refreshMenu()
}

// Menu returns the current tray menu.
func (manager *Manager) Menu() *fyne.Menu {
	return fyne.NewMenu("Reveal Timer",
		manager.statusItem,
		fyne.NewMenuItem("Show timer", invoke(&manager.callbacks.OnShow)),
		fyne.NewMenuItem("Preferences", invoke(&manager.callbacks.OnPreferences)),
		fyne.NewMenuItemSeparator(),
		manager.toggleItem,
		manager.resetItem,
		manager.soundItem,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", invoke(&manager.callbacks.OnQuit)),
	)
}

func (manager *Manager) refreshMenu() {
	if manager.app != nil {
		manager.app.SetSystemTrayMenu(manager.Menu())
	}
}

// invoke resolves the callback at click time so handlers can be set late.
func invoke(handler *func()) func() {
	return func() {
		if *handler != nil {
			(*handler)()
		}
	}
}

func statusText(snapshot countdown.Snapshot) string {
	switch snapshot.Status {
	case model.StatusRunning:
		return snapshot.Label + " left"
	case model.StatusPaused:
		return snapshot.Label + " (paused)"
	case model.StatusCompleted:
		return "done"
	default:
		return fmt.Sprintf("idle, %d min", snapshot.Minutes())
	}
}
