package main

import (
	"context"

	"revealtimer/internal/audio"
	"revealtimer/internal/core/countdown"
	"revealtimer/internal/platform"
	"revealtimer/internal/storage"
	"revealtimer/internal/ui/display"
	"revealtimer/internal/ui/preferences"
	"revealtimer/internal/ui/tray"
	"revealtimer/resources"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"github.com/rs/zerolog/log"
)

type desktopDeps struct {
	engine    *countdown.Engine
	settings  preferences.Settings
	scheduler *audio.Scheduler
	instance  *platform.InstanceGuard
}

func runDesktop(ctx context.Context, deps desktopDeps) {
	engine := deps.engine
	settings := deps.settings

	fyneApp := app.NewWithID("com.revealtimer.app")
	fyneApp.SetIcon(resources.MustLogo(resources.AppLogo))

	window := display.New(fyneApp, engine, display.Config{
		Title:   "Reveal Timer",
		Picture: resources.MustPicture(resources.RevealPicture),
	})
	window.Window().SetMaster()
	window.SetOnQuit(fyneApp.Quit)
	window.Watch(ctx, engine.Subscribe(16))

	prefsWindow := preferences.New(fyneApp, settings, func(updated preferences.Settings) {
		settings = updated
		if err := storage.SaveSettings(appName, settings); err != nil {
			log.Warn().Err(err).Msg("failed to save settings")
		}
		deps.scheduler.UpdateConfig(audioConfig(settings))
		engine.Configure(settings.DefaultMinutes)
	})

	if desktopApp, ok := fyneApp.(desktop.App); ok {
		trayManager := tray.New(desktopApp, tray.Callbacks{
			OnShow:        window.Show,
			OnPreferences: prefsWindow.Show,
			OnToggle:      engine.Toggle,
			OnReset:       engine.Reset,
			OnToggleSound: engine.ToggleSound,
			OnQuit:        fyneApp.Quit,
		})
		desktopApp.SetSystemTrayIcon(resources.MustLogo(resources.AppLogo))
		trayManager.Update(engine.Snapshot())

		trayEvents := engine.Subscribe(16)
		go func() {
			for event := range trayEvents {
				snapshot := event.Snapshot
				fyne.Do(func() { trayManager.Update(snapshot) })
			}
		}()
	} else {
		log.Debug().Msg("system tray unsupported on this platform")
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				fyne.Do(fyneApp.Quit)
				return
			case _, ok := <-deps.instance.Activations():
				if !ok {
					return
				}
				fyne.Do(func() {
					window.Show()
					engine.Foreground()
				})
			}
		}
	}()

	engine.Restore()
	window.Show()
	fyneApp.Run()
	window.Close()
}
