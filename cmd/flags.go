package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"revealtimer/internal/core/model"
	"revealtimer/internal/platform"
	"revealtimer/internal/ui/preferences"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"
)

type options struct {
	terminal   bool
	remoteAddr string
	minutes    int
	envFile    string
}

func parseFlags(args []string, output io.Writer) (options, error) {
	var opts options
	flags := flag.NewFlagSet(appName, flag.ContinueOnError)
	flags.SetOutput(output)
	flags.BoolVar(&opts.terminal, "terminal", false, "run in the terminal instead of a window")
	flags.StringVar(&opts.remoteAddr, "remote", "", "serve the remote control API on this address, e.g. :8089")
	flags.IntVar(&opts.minutes, "minutes", 0, fmt.Sprintf("countdown length in minutes (%d-%d)", model.MinMinutes, model.MaxMinutes))
	flags.StringVar(&opts.envFile, "env", "", "load environment overrides from this file instead of .env")
	if err := flags.Parse(args); err != nil {
		return options{}, fmt.Errorf("parse flags: %w", err)
	}
	if flags.NArg() > 0 {
		return options{}, fmt.Errorf("parse flags: unexpected argument %q", flags.Arg(0))
	}
	return opts, nil
}

// applyFlags lets command-line values win over settings and environment.
func applyFlags(settings preferences.Settings, opts options) preferences.Settings {
	if opts.minutes > 0 {
		settings.DefaultMinutes = model.ClampMinutes(opts.minutes)
	}
	if opts.remoteAddr != "" {
		settings.RemoteAddr = opts.remoteAddr
	}
	return settings
}

// wantsTerminal picks the terminal front end when asked to, or when there
// is no graphical session but stdin is a terminal.
func wantsTerminal(opts options, getenv func(string) string, interactive bool) bool {
	if opts.terminal {
		return true
	}
	if runtime.GOOS != "linux" {
		return false
	}
	headless := getenv("DISPLAY") == "" && getenv("WAYLAND_DISPLAY") == ""
	return headless && interactive
}

func stdinIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// setupLogging configures the global logger. The terminal front end owns
// the screen, so its logs go to a file next to the settings.
func setupLogging(level string, terminalMode bool) func() {
	parsed, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		parsed = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(parsed)

	if !terminalMode {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		return func() {}
	}

	configDir, err := platform.ConfigDir()
	if err == nil {
		path := filepath.Join(configDir, appName, "revealtimer.log")
		if mkErr := os.MkdirAll(filepath.Dir(path), 0o755); mkErr == nil {
			file, openErr := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if openErr == nil {
				log.Logger = log.Output(zerolog.ConsoleWriter{Out: file, NoColor: true})
				return func() { _ = file.Close() }
			}
		}
	}
	log.Logger = zerolog.Nop()
	return func() {}
}
