// Package display is the desktop window for the countdown: the shrinking
// reveal circle over a hidden picture, the time label and the controls.
package display

import (
	"context"
	"fmt"
	"image/color"
	"time"

	"revealtimer/internal/core/countdown"
	"revealtimer/internal/core/model"
	"revealtimer/internal/ui/animation"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/jonboulle/clockwork"
)

// FaultDisplayDuration is how long a fault message stays visible.
const FaultDisplayDuration = 3 * time.Second

// Controller is the set of countdown operations the window drives.
type Controller interface {
	Snapshot() countdown.Snapshot
	Configure(minutes int)
	AdjustMinutes(delta int)
	Toggle()
	Reset()
	ToggleSound()
	ToggleFullscreen()
	Foreground()
	ReportFault(op string, err error)
}

// Config defines window visuals. A nil Clock uses real time.
type Config struct {
	Title   string
	Picture fyne.Resource
	Clock   clockwork.Clock
}

// Window manages the countdown UI.
type Window struct {
	app        fyne.App
	window     fyne.Window
	controller Controller
	config     Config

	background   *canvas.Rectangle
	picture      *canvas.Image
	circle       *canvas.Circle
	layout       *revealLayout
	stage        *fyne.Container
	timerLabel   *canvas.Text
	messageLabel *canvas.Text
	faultLabel   *canvas.Text
	minutesLabel *widget.Label

	startButton      *widget.Button
	resetButton      *widget.Button
	soundButton      *widget.Button
	fullscreenButton *widget.Button
	minusButton      *widget.Button
	plusButton       *widget.Button
	quickButtons     []*widget.Button

	confetti      *confettiLayer
	engine        *animation.Engine
	snapshot      countdown.Snapshot
	faultSequence uint64
	fullscreen    bool
	cancelWatch   context.CancelFunc
	onQuit        func()

	// fullscreenRequest is the last requested mode, applied once per change.
	fullscreenRequest bool
}

// New creates the countdown window. The window is not shown.
func New(app fyne.App, controller Controller, config Config) *Window {
	if config.Title == "" {
		config.Title = "Reveal Timer"
	}
	if config.Clock == nil {
		config.Clock = clockwork.NewRealClock()
	}
	window := app.NewWindow(config.Title)
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}

	display := &Window{
		app:        app,
		window:     window,
		controller: controller,
		config:     config,
		layout:     &revealLayout{scale: 1},
		confetti:   newConfettiLayer(),
	}
	display.engine = animation.New(animation.DefaultConfig(), config.Clock, func(frame animation.Frame) {
		fyne.Do(func() { display.confetti.draw(frame) })
	})

	display.build()
	display.bindKeys()
	app.Lifecycle().SetOnEnteredForeground(controller.Foreground)

	display.apply(controller.Snapshot())
	return display
}

// Window returns the underlying Fyne window.
func (display *Window) Window() fyne.Window {
	return display.window
}

// SetOnQuit sets the handler for the quit shortcut.
func (display *Window) SetOnQuit(handler func()) {
	display.onQuit = handler
}

// Show displays the window and focuses it.
func (display *Window) Show() {
	display.window.Show()
	display.window.RequestFocus()
}

// Watch applies engine events to the window until ctx ends or events
// closes.
func (display *Window) Watch(ctx context.Context, events <-chan countdown.Event) {
	watchCtx, cancel := context.WithCancel(ctx)
	display.cancelWatch = cancel
	go func() {
		for {
			select {
			case <-watchCtx.Done():
				return
			case event, ok := <-events:
				if !ok {
					return
				}
				fyne.Do(func() { display.Apply(event) })
			}
		}
	}()
}

// Close stops watching events and any confetti.
func (display *Window) Close() {
	if display.cancelWatch != nil {
		display.cancelWatch()
		display.cancelWatch = nil
	}
	display.engine.Stop()
}

// Apply renders event. It must run on the Fyne goroutine.
func (display *Window) Apply(event countdown.Event) {
	switch event.Type {
	case countdown.EventFault:
		display.showFault(event.Message)
	case countdown.EventCompleted:
		display.engine.Burst(context.Background(), event.Confetti)
	case countdown.EventReset:
		display.engine.Stop()
		display.confetti.draw(animation.Frame{})
	}
	display.apply(event.Snapshot)
}

// HandleRune maps keyboard shortcuts to countdown operations.
func (display *Window) HandleRune(r rune) {
	switch r {
	case ' ':
		display.controller.Toggle()
	case 'r', 'R':
		display.controller.Reset()
	case 'f', 'F':
		display.controller.ToggleFullscreen()
	case 'm', 'M':
		display.controller.ToggleSound()
	case '+', '=':
		display.controller.AdjustMinutes(1)
	case '-', '_':
		display.controller.AdjustMinutes(-1)
	case 'q', 'Q':
		if display.onQuit != nil {
			display.onQuit()
		}
	}
}

func (display *Window) build() {
	display.background = canvas.NewRectangle(color.NRGBA{R: 0x1e, G: 0x1e, B: 0x2e, A: 0xff})

	display.picture = canvas.NewImageFromResource(display.config.Picture)
	display.picture.FillMode = canvas.ImageFillContain

	display.circle = canvas.NewCircle(color.NRGBA{A: 0xff})

	display.timerLabel = canvas.NewText("--:--", color.White)
	display.timerLabel.Alignment = fyne.TextAlignCenter
	display.timerLabel.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}
	display.timerLabel.TextSize = 56

	display.messageLabel = canvas.NewText("", color.White)
	display.messageLabel.Alignment = fyne.TextAlignCenter
	display.messageLabel.TextSize = 18

	display.faultLabel = canvas.NewText("", color.NRGBA{R: 0xff, G: 0x8a, B: 0x80, A: 0xff})
	display.faultLabel.Alignment = fyne.TextAlignCenter
	display.faultLabel.TextSize = 14
	display.faultLabel.Hide()

	display.stage = container.New(display.layout,
		display.picture,
		display.circle,
		container.NewCenter(display.timerLabel),
		display.confetti.root,
	)

	display.startButton = widget.NewButton("Start", display.controller.Toggle)
	display.startButton.Importance = widget.HighImportance
	display.resetButton = widget.NewButton("Reset", display.controller.Reset)
	display.soundButton = widget.NewButton("", display.controller.ToggleSound)
	display.fullscreenButton = widget.NewButton("Fullscreen", display.controller.ToggleFullscreen)

	display.minusButton = widget.NewButton("-", func() { display.controller.AdjustMinutes(-1) })
	display.plusButton = widget.NewButton("+", func() { display.controller.AdjustMinutes(1) })
	display.minutesLabel = widget.NewLabel("")
	display.minutesLabel.Alignment = fyne.TextAlignCenter

	quick := container.NewHBox()
	for _, minutes := range model.QuickSetMinutes() {
		value := minutes
		button := widget.NewButton(fmt.Sprintf("%dm", value), func() { display.controller.Configure(value) })
		display.quickButtons = append(display.quickButtons, button)
		quick.Add(button)
	}

	duration := container.NewHBox(display.minusButton, display.minutesLabel, display.plusButton)
	controls := container.NewHBox(display.startButton, display.resetButton, display.soundButton, display.fullscreenButton)
	footer := container.NewVBox(
		container.NewCenter(display.messageLabel),
		container.NewCenter(display.faultLabel),
		container.NewCenter(duration),
		container.NewCenter(quick),
		container.NewCenter(controls),
	)

	content := container.NewBorder(nil, footer, nil, nil, display.stage)
	display.window.SetContent(container.NewStack(display.background, container.NewPadded(content)))
	display.window.Resize(fyne.NewSize(520, 680))
}

func (display *Window) bindKeys() {
	windowCanvas := display.window.Canvas()
	windowCanvas.SetOnTypedRune(display.HandleRune)
	windowCanvas.SetOnTypedKey(func(event *fyne.KeyEvent) {
		if event.Name == fyne.KeyEscape && display.fullscreen {
			display.controller.ToggleFullscreen()
		}
	})
}

func (display *Window) apply(snapshot countdown.Snapshot) {
	display.snapshot = snapshot

	display.layout.scale = float32(snapshot.Scale)
	display.circle.FillColor = snapshot.Band.Color()
	display.circle.Refresh()
	display.stage.Refresh()

	display.timerLabel.Text = timerText(snapshot)
	display.timerLabel.TextSize = 56
	if snapshot.FinalCountdown {
		display.timerLabel.TextSize = 96
	}
	display.timerLabel.Refresh()

	display.messageLabel.Text = snapshot.Message
	display.messageLabel.Refresh()
	display.minutesLabel.SetText(fmt.Sprintf("%d min", snapshot.Minutes()))

	display.applyControls(snapshot)
	display.applyFullscreen(snapshot.Fullscreen)
}

func (display *Window) applyControls(snapshot countdown.Snapshot) {
	switch snapshot.Status {
	case model.StatusRunning:
		display.startButton.SetText("Stop")
		display.startButton.Enable()
	case model.StatusPaused:
		display.startButton.SetText("Resume")
		display.startButton.Enable()
	case model.StatusCompleted:
		display.startButton.SetText("Start")
		display.startButton.Disable()
	default:
		display.startButton.SetText("Start")
		display.startButton.Enable()
	}

	editable := snapshot.Status == model.StatusIdle
	for _, button := range append([]*widget.Button{display.minusButton, display.plusButton}, display.quickButtons...) {
		if editable {
			button.Enable()
		} else {
			button.Disable()
		}
	}

	if snapshot.SoundEnabled {
		display.soundButton.SetText("Sound: on")
	} else {
		display.soundButton.SetText("Sound: off")
	}
}

func (display *Window) applyFullscreen(requested bool) {
	if requested == display.fullscreenRequest {
		return
	}
	display.fullscreenRequest = requested
	display.window.SetFullScreen(requested)
	display.fullscreen = display.window.FullScreen()
	if display.fullscreen != requested {
		display.controller.ReportFault(countdown.OpFullscreen, fmt.Errorf("set fullscreen: %w", countdown.ErrUnavailable))
	}
	if display.fullscreen {
		display.fullscreenButton.SetText("Exit fullscreen")
	} else {
		display.fullscreenButton.SetText("Fullscreen")
	}
}

func (display *Window) showFault(message string) {
	display.faultSequence++
	sequence := display.faultSequence
	display.faultLabel.Text = message
	display.faultLabel.Show()
	display.faultLabel.Refresh()

	display.config.Clock.AfterFunc(FaultDisplayDuration, func() {
		fyne.Do(func() {
			if display.faultSequence != sequence {
				return
			}
			display.faultLabel.Hide()
		})
	})
}

func timerText(snapshot countdown.Snapshot) string {
	if snapshot.Status == model.StatusCompleted {
		return "Done!"
	}
	return snapshot.Label
}
