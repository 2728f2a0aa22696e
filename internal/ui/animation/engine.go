package animation

import (
	"context"
	"sync"
	"time"

	"revealtimer/internal/core/reveal"

	"github.com/jonboulle/clockwork"
)

// Config contains confetti timing values. Y values are fractions of the
// display height.
type Config struct {
	FrameInterval time.Duration
	StartY        float64
	EndY          float64
	// FadeFrom is the fall progress after which a piece fades out.
	FadeFrom float64
}

// Piece is one particle's placement in a frame.
type Piece struct {
	Particle reveal.Particle
	X        float64
	Y        float64
	Offset   float64
	Angle    float64
	Alpha    float64
}

// Frame is everything that should be on screen at one instant. An empty
// frame clears the overlay.
type Frame struct {
	Elapsed time.Duration
	Pieces  []Piece
}

// Engine plays confetti bursts frame by frame.
type Engine struct {
	mu     sync.Mutex
	config Config
	clock  clockwork.Clock
	render func(Frame)
	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a new animation engine. A nil clock uses real time.
func New(config Config, clock clockwork.Clock, render func(Frame)) *Engine {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if config.FrameInterval <= 0 {
		config.FrameInterval = DefaultConfig().FrameInterval
	}
	return &Engine{config: config, clock: clock, render: render}
}

// Burst starts a burst, replacing any burst still playing. The overlay is
// cleared when the last particle has landed or the burst is stopped.
func (engine *Engine) Burst(ctx context.Context, particles []reveal.Particle) {
	engine.start(ctx, func(runCtx context.Context) {
		defer engine.render(Frame{})
		if len(particles) == 0 {
			return
		}

		total := Lifetime(particles)
		started := engine.clock.Now()
		for {
			elapsed := engine.clock.Since(started)
			engine.render(engine.FrameAt(particles, elapsed))
			if elapsed >= total {
				return
			}
			if !sleepWithContext(runCtx, engine.clock, engine.config.FrameInterval) {
				return
			}
		}
	})
}

// Stop terminates any active burst and waits for the overlay to clear.
func (engine *Engine) Stop() {
	engine.mu.Lock()
	cancel := engine.cancel
	done := engine.done
	engine.cancel = nil
	engine.done = nil
	engine.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

// Wait blocks until the current burst has finished.
func (engine *Engine) Wait() {
	engine.mu.Lock()
	done := engine.done
	engine.mu.Unlock()
	if done != nil {
		<-done
	}
}

// FrameAt positions every particle that is airborne at elapsed.
func (engine *Engine) FrameAt(particles []reveal.Particle, elapsed time.Duration) Frame {
	frame := Frame{Elapsed: elapsed}
	for _, particle := range particles {
		if elapsed < particle.Delay || particle.Fall <= 0 {
			continue
		}
		progress := float64(elapsed-particle.Delay) / float64(particle.Fall)
		if progress > 1 {
			continue
		}
		alpha := 1.0
		if fade := engine.config.FadeFrom; fade < 1 && progress > fade {
			alpha = 1 - (progress-fade)/(1-fade)
		}
		frame.Pieces = append(frame.Pieces, Piece{
			Particle: particle,
			X:        particle.X,
			Y:        engine.config.StartY + (engine.config.EndY-engine.config.StartY)*progress,
			Offset:   particle.Drift * progress,
			Angle:    particle.Rotation * progress,
			Alpha:    alpha,
		})
	}
	return frame
}

// Lifetime is how long the slowest particle takes to land.
func Lifetime(particles []reveal.Particle) time.Duration {
	var longest time.Duration
	for _, particle := range particles {
		if end := particle.Delay + particle.Fall; end > longest {
			longest = end
		}
	}
	return longest
}

func (engine *Engine) start(parent context.Context, run func(context.Context)) {
	engine.Stop()

	engine.mu.Lock()
	runCtx, cancel := context.WithCancel(parent)
	done := make(chan struct{})
	engine.cancel = cancel
	engine.done = done
	engine.mu.Unlock()

	go func() {
		defer close(done)
		run(runCtx)
	}()
}

func sleepWithContext(ctx context.Context, clock clockwork.Clock, duration time.Duration) bool {
	timer := clock.NewTimer(duration)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.Chan():
		return true
	}
}
