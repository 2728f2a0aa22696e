// Package audio plays the countdown's tick and completion cues. Each cue
// walks a chain of playback methods: the configured sound file, then a
// synthesized tone, then silence.
package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/rs/zerolog/log"
)

// Cue identifies a sound played by the Scheduler.
type Cue string

const (
	CueTick       Cue = "tick"
	CueCompletion Cue = "completion"
)

const (
	tickFileVolume       = 0.3
	completionFileVolume = 0.7
	defaultRetryDelay    = 100 * time.Millisecond
)

// Config contains the sound sources and master volume.
type Config struct {
	TickSound       string
	CompletionSound string
	Volume          float64
	RetryDelay      time.Duration
}

type method struct {
	name  string
	build func() (beep.Streamer, error)
	delay time.Duration
}

// Scheduler plays cues in the background. Calls never block and never
// fail; an unplayable cue is skipped.
type Scheduler struct {
	mu       sync.Mutex
	config   Config
	output   Output
	rate     beep.SampleRate
	files    *fileCache
	inFlight sync.WaitGroup
	played   map[Cue]string
}

// NewScheduler creates a Scheduler rendering to output.
func NewScheduler(config Config, output Output) *Scheduler {
	if config.RetryDelay <= 0 {
		config.RetryDelay = defaultRetryDelay
	}
	if config.Volume < 0 || config.Volume > 1 {
		config.Volume = 1
	}
	return &Scheduler{
		config: config,
		output: output,
		rate:   SampleRate,
		files:  newFileCache(),
		played: make(map[Cue]string),
	}
}

// UpdateConfig replaces the sound sources and volume.
func (scheduler *Scheduler) UpdateConfig(config Config) {
	if config.RetryDelay <= 0 {
		config.RetryDelay = defaultRetryDelay
	}
	scheduler.mu.Lock()
	scheduler.config = config
	scheduler.mu.Unlock()
}

// PlayTick plays the short final-countdown cue.
func (scheduler *Scheduler) PlayTick() error {
	scheduler.dispatch(CueTick)
	return nil
}

// PlayCompletion plays the completion fanfare.
func (scheduler *Scheduler) PlayCompletion() error {
	scheduler.dispatch(CueCompletion)
	return nil
}

// Wait blocks until every dispatched cue has finished its attempts.
func (scheduler *Scheduler) Wait() {
	scheduler.inFlight.Wait()
}

// LastMethod reports which playback method last succeeded for cue.
func (scheduler *Scheduler) LastMethod(cue Cue) string {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	return scheduler.played[cue]
}

func (scheduler *Scheduler) dispatch(cue Cue) {
	scheduler.mu.Lock()
	chain := scheduler.chainLocked(cue)
	scheduler.mu.Unlock()

	scheduler.inFlight.Add(1)
	go scheduler.play(cue, chain)
}

func (scheduler *Scheduler) play(cue Cue, chain []method) {
	defer scheduler.inFlight.Done()
	defer func() {
		if recovered := recover(); recovered != nil {
			log.Error().Str("cue", string(cue)).Interface("panic", recovered).Msg("cue playback panicked")
		}
	}()

	for _, step := range chain {
		if step.delay > 0 {
			time.Sleep(step.delay)
		}
		streamer, err := step.build()
		if err == nil {
			err = scheduler.output.Play(streamer)
		}
		if err == nil {
			scheduler.mu.Lock()
			scheduler.played[cue] = step.name
			scheduler.mu.Unlock()
			return
		}
		log.Debug().Err(err).Str("cue", string(cue)).Str("method", step.name).Msg("cue attempt failed")
	}
	log.Debug().Str("cue", string(cue)).Msg("no playback method available, cue skipped")
}

func (scheduler *Scheduler) chainLocked(cue Cue) []method {
	config := scheduler.config
	rate := scheduler.rate

	fileMethod := func(path string, gain float64) func() (beep.Streamer, error) {
		return func() (beep.Streamer, error) {
			streamer, err := scheduler.files.load(path, rate)
			if err != nil {
				return nil, err
			}
			return withVolume(streamer, gain*config.Volume), nil
		}
	}
	synthMethod := func(build func(beep.SampleRate) (beep.Streamer, error)) func() (beep.Streamer, error) {
		return func() (beep.Streamer, error) {
			streamer, err := build(rate)
			if err != nil {
				return nil, err
			}
			return withVolume(streamer, config.Volume), nil
		}
	}

	if cue == CueTick {
		return []method{
			{name: "file", build: fileMethod(config.TickSound, tickFileVolume)},
			{name: "synth", build: synthMethod(synthTick)},
		}
	}

	chain := []method{{name: "file", build: fileMethod(config.CompletionSound, completionFileVolume)}}
	if config.CompletionSound != "" {
		chain = append(chain, method{
			name:  "file-retry",
			build: fileMethod(config.CompletionSound, completionFileVolume),
			delay: config.RetryDelay,
		})
	}
	return append(chain, method{name: "synth", build: synthMethod(synthCompletion)})
}
