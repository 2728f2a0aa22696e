package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"revealtimer/internal/audio"
	"revealtimer/internal/core/countdown"
	"revealtimer/internal/platform"
	"revealtimer/internal/remote"
	"revealtimer/internal/storage"
	"revealtimer/internal/ui/preferences"
	"revealtimer/internal/ui/terminal"

	"github.com/rs/zerolog/log"
)

const appName = "RevealTimer"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		return err
	}

	if opts.envFile != "" {
		storage.LoadDotEnv(opts.envFile)
	} else {
		storage.LoadDotEnv()
	}

	settings, settingsErr := storage.LoadSettings(appName)
	settings = applyFlags(storage.ApplyEnvironment(settings), opts)

	terminalMode := wantsTerminal(opts, os.Getenv, stdinIsTerminal())
	if terminalMode && !stdinIsTerminal() {
		return errors.New("terminal mode needs an interactive terminal")
	}
	closeLog := setupLogging(settings.LogLevel, terminalMode)
	defer closeLog()
	if settingsErr != nil {
		log.Warn().Err(settingsErr).Msg("using default settings")
	}

	var instance *platform.InstanceGuard
	if !terminalMode {
		instance, err = platform.AcquireSingleInstance(appName)
		if errors.Is(err, platform.ErrAlreadyRunning) {
			if signalErr := platform.SignalRunningInstance(appName); signalErr != nil {
				log.Warn().Err(signalErr).Msg("could not reach running instance")
			}
			log.Info().Msg("already running, activated existing window")
			return nil
		}
		defer func() {
			_ = instance.Release()
		}()
	}

	scheduler := audio.NewScheduler(audioConfig(settings), audio.NewSpeakerOutput())
	keepAlive := platform.NewKeepAlive(platform.NewWakeLock(appName), nil)

	var haptic countdown.Haptic = platform.NewHaptic()
	if terminalMode {
		haptic = platform.NewBellHaptic(os.Stdout, nil)
	}

	engine := countdown.New(settings.TimerConfig(), countdown.Options{
		Store:        snapshotStore(),
		Cues:         scheduler,
		KeepAlive:    keepAlive,
		Haptic:       haptic,
		SoundEnabled: settings.SoundEnabled,
		Fullscreen:   settings.Fullscreen,
	})
	defer engine.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if settings.RemoteAddr != "" {
		startRemote(ctx, engine, settings.RemoteAddr)
	}

	if terminalMode {
		events := engine.Subscribe(16)
		engine.Restore()
		go func() {
			<-ctx.Done()
			engine.Close()
		}()
		return terminal.Run(engine, events)
	}

	runDesktop(ctx, desktopDeps{
		engine:    engine,
		settings:  settings,
		scheduler: scheduler,
		instance:  instance,
	})
	return nil
}

func audioConfig(settings preferences.Settings) audio.Config {
	return audio.Config{
		TickSound:       settings.TickSound,
		CompletionSound: settings.CompletionSound,
		Volume:          settings.Volume,
	}
}

// snapshotStore falls back to memory when no config directory exists.
func snapshotStore() countdown.Store {
	path, err := storage.SnapshotPath(appName)
	if err != nil {
		log.Debug().Err(err).Msg("snapshot path unavailable, keeping state in memory")
		return storage.NewMemoryStore()
	}
	return storage.NewSnapshotStore(path)
}

func startRemote(ctx context.Context, engine *countdown.Engine, addr string) {
	hub := remote.NewHub(remote.DefaultHubConfig(), engine)
	server := remote.NewServer(engine, hub)
	go hub.Run(ctx, engine.Subscribe(32))
	go func() {
		if err := server.ListenAndServe(ctx, addr); err != nil {
			log.Warn().Err(err).Str("addr", addr).Msg("remote control disabled")
		}
	}()
}
