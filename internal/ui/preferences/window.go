package preferences

import (
	"fmt"
	"strconv"
	"strings"

	"revealtimer/internal/core/model"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// Window handles the preferences UI.
type Window struct {
	window          fyne.Window
	settings        Settings
	onSave          func(Settings)
	onCancel        func()
	minutes         *widget.Entry
	sound           *widget.Check
	fullscreen      *widget.Check
	volume          *widget.Slider
	tickSound       *widget.Entry
	completionSound *widget.Entry
}

// New creates a preferences window.
func New(app fyne.App, settings Settings, onSave func(Settings)) *Window {
	window := app.NewWindow("Reveal Timer Settings")

	minutes := widget.NewEntry()
	sound := widget.NewCheck("Play sounds", nil)
	fullscreen := widget.NewCheck("Start in fullscreen", nil)

	volume := widget.NewSlider(0, 1)
	volume.Step = 0.05

	tickSound := widget.NewEntry()
	tickSound.SetPlaceHolder("built-in beep")
	completionSound := widget.NewEntry()
	completionSound.SetPlaceHolder("built-in fanfare")

	form := container.NewVBox(
		widget.NewLabelWithStyle("Countdown", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(widget.NewLabel("Default length"), minutes, widget.NewLabel("min")),
		fullscreen,
		widget.NewLabelWithStyle("Sound", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		sound,
		widget.NewLabel("Volume"),
		volume,
		widget.NewLabel("Final-seconds sound file (.wav, .ogg)"),
		tickSound,
		widget.NewLabel("Completion sound file (.wav, .ogg)"),
		completionSound,
	)

	saveButton := widget.NewButton("Save", nil)
	cancelButton := widget.NewButton("Cancel", nil)
	buttons := container.NewHBox(saveButton, layout.NewSpacer(), cancelButton)

	content := container.NewBorder(nil, buttons, nil, nil, form)
	window.SetContent(content)
	window.Resize(fyne.NewSize(420, 460))

	prefs := &Window{
		window:          window,
		onSave:          onSave,
		minutes:         minutes,
		sound:           sound,
		fullscreen:      fullscreen,
		volume:          volume,
		tickSound:       tickSound,
		completionSound: completionSound,
	}
	prefs.UpdateSettings(settings)

	saveButton.OnTapped = prefs.handleSave
	cancelButton.OnTapped = func() {
		window.Hide()
		if prefs.onCancel != nil {
			prefs.onCancel()
		}
	}

	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// SetOnCancel sets the handler run when editing is abandoned.
func (prefs *Window) SetOnCancel(handler func()) {
	prefs.onCancel = handler
}

// UpdateSettings replaces window values.
func (prefs *Window) UpdateSettings(settings Settings) {
	prefs.settings = settings
	prefs.minutes.SetText(fmt.Sprintf("%d", settings.DefaultMinutes))
	prefs.sound.SetChecked(settings.SoundEnabled)
	prefs.fullscreen.SetChecked(settings.Fullscreen)
	prefs.volume.Value = settings.Volume
	prefs.volume.Refresh()
	prefs.tickSound.SetText(settings.TickSound)
	prefs.completionSound.SetText(settings.CompletionSound)
}

// Settings returns the last saved values.
func (prefs *Window) Settings() Settings {
	return prefs.settings
}

func (prefs *Window) handleSave() {
	settings := prefs.settings

	if minutes, ok := parsePositiveInt(prefs.minutes.Text); ok {
		settings.DefaultMinutes = model.ClampMinutes(minutes)
	}
	prefs.minutes.SetText(fmt.Sprintf("%d", settings.DefaultMinutes))

	settings.SoundEnabled = prefs.sound.Checked
	settings.Fullscreen = prefs.fullscreen.Checked
	settings.Volume = prefs.volume.Value
	settings.TickSound = strings.TrimSpace(prefs.tickSound.Text)
	settings.CompletionSound = strings.TrimSpace(prefs.completionSound.Text)

	prefs.settings = settings
	if prefs.onSave != nil {
		prefs.onSave(settings)
	}
	prefs.window.Hide()
}

func parsePositiveInt(value string) (int, bool) {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || parsed <= 0 {
		return 0, false
	}
	return parsed, true
}
