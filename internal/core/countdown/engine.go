// Package countdown owns the authoritative countdown state and keeps the
// reveal visuals, audio cues, screen keep-alive and the saved snapshot in
// step with it.
package countdown

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"revealtimer/internal/core/model"
	"revealtimer/internal/core/reveal"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// Options contains the collaborators and runtime settings of an Engine.
// Nil collaborators degrade to no-ops.
type Options struct {
	Clock        clockwork.Clock
	TickInterval time.Duration
	Store        Store
	Cues         CuePlayer
	KeepAlive    KeepAlive
	Haptic       Haptic
	Rand         *rand.Rand
	SoundEnabled bool
	Fullscreen   bool
}

// Engine is the countdown state machine: Idle, Running, Paused, Completed.
// Every control method is safe to call in any state; calls that do not
// apply to the current state are ignored.
type Engine struct {
	mu           sync.Mutex
	options      Options
	clock        clockwork.Clock
	config       model.TimerConfig
	status       model.Status
	remaining    int
	initial      int
	message      string
	soundEnabled bool
	fullscreen   bool
	generation   uint64
	runID        uuid.UUID
	ticker       clockwork.Ticker
	stopCh       chan struct{}
	events       []chan Event
	guard        Guard
	completion   *Completion
	closed       bool
}

// New creates an Engine in the Idle state configured with config.
func New(config model.TimerConfig, options Options) *Engine {
	if options.Clock == nil {
		options.Clock = clockwork.NewRealClock()
	}
	if options.TickInterval <= 0 {
		options.TickInterval = time.Second
	}
	if options.Store == nil {
		options.Store = nopStore{}
	}
	if options.Cues == nil {
		options.Cues = nopCues{}
	}
	if options.KeepAlive == nil {
		options.KeepAlive = nopKeepAlive{}
	}
	if options.Haptic == nil {
		options.Haptic = nopHaptic{}
	}
	if options.Rand == nil {
		options.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	engine := &Engine{
		options:      options,
		clock:        options.Clock,
		status:       model.StatusIdle,
		message:      reveal.MessageIdle,
		soundEnabled: options.SoundEnabled,
		fullscreen:   options.Fullscreen,
	}
	engine.guard = NewGuard(engine.faultLocked)
	engine.completion = &Completion{
		keepAlive: options.KeepAlive,
		cues:      options.Cues,
		haptic:    options.Haptic,
		store:     options.Store,
		rng:       options.Rand,
		guard:     engine.guard,
	}
	engine.applyConfigLocked(model.NewTimerConfig(config.Minutes()))
	return engine
}

// Subscribe registers a new observer channel. Slow observers miss events
// rather than stall the countdown.
func (engine *Engine) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	engine.mu.Lock()
	if engine.closed {
		close(ch)
	} else {
		engine.events = append(engine.events, ch)
	}
	engine.mu.Unlock()
	return ch
}

// Snapshot returns the current observable state.
func (engine *Engine) Snapshot() Snapshot {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return engine.snapshotLocked()
}

// Configure sets the countdown length. Only applies while Idle.
func (engine *Engine) Configure(minutes int) {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	engine.configureLocked(minutes)
}

// AdjustMinutes changes the configured length by delta minutes. Only
// applies while Idle.
func (engine *Engine) AdjustMinutes(delta int) {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	engine.configureLocked(engine.config.Minutes() + delta)
}

// Start begins counting down from Idle.
func (engine *Engine) Start() {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.status != model.StatusIdle || engine.closed {
		return
	}
	engine.status = model.StatusRunning
	engine.message = reveal.MessageStarted
	engine.runLocked()
	log.Info().Str("run", engine.runID.String()).Int("initial", engine.initial).Msg("countdown started")
	engine.emitLocked(EventStateChange, "")
}

// Pause freezes a running countdown and saves it.
func (engine *Engine) Pause() {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.status != model.StatusRunning {
		return
	}
	engine.stopLocked()
	engine.status = model.StatusPaused
	engine.message = reveal.MessagePaused
	engine.guard.Do(OpWakeOff, engine.options.KeepAlive.Deactivate)
	engine.saveLocked()
	log.Info().Int("remaining", engine.remaining).Msg("countdown paused")
	engine.emitLocked(EventStateChange, "")
}

// Resume continues a paused countdown without touching the remaining time.
func (engine *Engine) Resume() {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	engine.resumeLocked(reveal.MessageResumed)
}

// Toggle starts, pauses or resumes depending on the current state.
func (engine *Engine) Toggle() {
	engine.mu.Lock()
	status := engine.status
	engine.mu.Unlock()

	switch status {
	case model.StatusIdle:
		engine.Start()
	case model.StatusRunning:
		engine.Pause()
	case model.StatusPaused:
		engine.Resume()
	}
}

// Reset returns to Idle from any state and forgets the saved snapshot.
func (engine *Engine) Reset() {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	engine.stopLocked()
	engine.status = model.StatusIdle
	engine.applyConfigLocked(engine.config)
	engine.message = reveal.MessageIdle
	engine.runID = uuid.Nil
	engine.guard.Do(OpWakeOff, engine.options.KeepAlive.Deactivate)
	engine.guard.Do(OpClear, engine.options.Store.Clear)
	log.Info().Int("initial", engine.initial).Msg("countdown reset")
	engine.emitLocked(EventReset, "")
}

// ToggleSound switches audio cues on or off.
func (engine *Engine) ToggleSound() {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	engine.soundEnabled = !engine.soundEnabled
	engine.emitLocked(EventPresentation, "")
}

// ToggleFullscreen flips the requested presentation mode. Displays decide
// whether they can honour it.
func (engine *Engine) ToggleFullscreen() {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	engine.fullscreen = !engine.fullscreen
	engine.emitLocked(EventPresentation, "")
}

// Foreground re-arms the keep-alive after the display becomes visible
// again, since platforms drop wake locks for hidden windows.
func (engine *Engine) Foreground() {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.status != model.StatusRunning {
		return
	}
	engine.guard.Do(OpWakeOn, engine.options.KeepAlive.Activate)
}

// ReportFault surfaces a display-side failure as a transient message.
func (engine *Engine) ReportFault(op string, err error) {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	log.Warn().Err(err).Str("op", op).Msg("display fault")
	engine.faultLocked(op, err)
}

// Restore loads the saved snapshot, if any, while Idle. A snapshot saved
// while Running resumes ticking immediately. It reports whether a snapshot
// was applied.
func (engine *Engine) Restore() bool {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.status != model.StatusIdle {
		return false
	}

	var state model.PersistedState
	err := engine.guard.Do(OpLoad, func() error {
		var loadErr error
		state, loadErr = engine.options.Store.Load()
		return loadErr
	})
	if err != nil {
		return false
	}
	if !state.Resumable() {
		log.Warn().
			Int("remaining", state.RemainingSeconds).
			Int("initial", state.InitialSeconds).
			Str("status", string(state.Status)).
			Msg("ignoring unusable snapshot")
		return false
	}

	engine.applyConfigLocked(model.NewTimerConfig(state.InitialSeconds / 60))
	engine.remaining = state.RemainingSeconds
	engine.status = model.StatusPaused
	engine.message = reveal.MessagePaused
	log.Info().
		Int("remaining", state.RemainingSeconds).
		Int("initial", state.InitialSeconds).
		Str("status", string(state.Status)).
		Msg("restored snapshot")

	if state.Status == model.StatusRunning {
		engine.resumeLocked(reveal.MessageStarted)
		return true
	}
	engine.emitLocked(EventStateChange, "")
	return true
}

// Close stops ticking, releases the keep-alive and closes observers.
func (engine *Engine) Close() {
	engine.mu.Lock()
	if engine.closed {
		engine.mu.Unlock()
		return
	}
	engine.closed = true
	engine.stopLocked()
	engine.guard.Do(OpWakeOff, engine.options.KeepAlive.Deactivate)
	events := engine.events
	engine.events = nil
	engine.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}

func (engine *Engine) configureLocked(minutes int) {
	if engine.status != model.StatusIdle {
		return
	}
	engine.applyConfigLocked(model.NewTimerConfig(minutes))
	engine.message = reveal.MessageIdle
	engine.emitLocked(EventConfigured, "")
}

func (engine *Engine) applyConfigLocked(config model.TimerConfig) {
	engine.config = config
	engine.initial = config.DurationSeconds
	engine.remaining = engine.initial
}

func (engine *Engine) resumeLocked(message string) {
	if engine.status != model.StatusPaused || engine.closed {
		return
	}
	engine.status = model.StatusRunning
	engine.message = message
	engine.runLocked()
	log.Info().Str("run", engine.runID.String()).Int("remaining", engine.remaining).Msg("countdown resumed")
	engine.emitLocked(EventStateChange, "")
}

// runLocked arms the keep-alive and starts a fresh tick loop bound to a new
// generation, so ticks from an earlier loop are recognisable as stale.
func (engine *Engine) runLocked() {
	engine.stopLocked()
	engine.guard.Do(OpWakeOn, engine.options.KeepAlive.Activate)

	engine.generation++
	engine.runID = uuid.New()
	stopCh := make(chan struct{})
	ticker := engine.clock.NewTicker(engine.options.TickInterval)
	engine.stopCh = stopCh
	engine.ticker = ticker

	go engine.loop(engine.generation, ticker, stopCh)
}

func (engine *Engine) stopLocked() {
	if engine.stopCh == nil {
		return
	}
	close(engine.stopCh)
	engine.ticker.Stop()
	engine.stopCh = nil
	engine.ticker = nil
	engine.generation++
}

func (engine *Engine) loop(generation uint64, ticker clockwork.Ticker, stopCh <-chan struct{}) {
	for {
		select {
		case <-stopCh:
			return
		case <-ticker.Chan():
			select {
			case <-stopCh:
				return
			default:
			}
			engine.tick(generation)
		}
	}
}

func (engine *Engine) tick(generation uint64) {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if generation != engine.generation || engine.status != model.StatusRunning {
		log.Debug().Uint64("generation", generation).Msg("discarding stale tick")
		return
	}

	defer func() {
		if recovered := recover(); recovered != nil {
			log.Error().Interface("panic", recovered).Int("remaining", engine.remaining).Msg("tick failed")
			engine.faultLocked(OpTick, fmt.Errorf("tick: panic: %v", recovered))
		}
	}()
	engine.tickLocked()
}

func (engine *Engine) tickLocked() {
	if engine.remaining <= 0 {
		engine.completeLocked()
		return
	}

	engine.remaining--
	if engine.remaining == 0 {
		engine.completeLocked()
		return
	}

	if engine.remaining <= model.FinalCountdownSeconds && engine.soundEnabled {
		engine.guard.Do(OpTickCue, engine.options.Cues.PlayTick)
	}

	visual := reveal.Map(engine.remaining, engine.initial)
	engine.message = reveal.ProgressMessage(visual.Ratio,
		reveal.FinalCountdown(engine.remaining, model.FinalCountdownSeconds), engine.message)
	engine.emitLocked(EventTick, "")
	engine.saveLocked()
}

func (engine *Engine) completeLocked() {
	engine.stopLocked()
	engine.remaining = 0
	engine.status = model.StatusCompleted
	engine.message = reveal.MessageCompleted
	log.Info().Str("run", engine.runID.String()).Int("initial", engine.initial).Msg("countdown completed")

	burst := engine.completion.Complete(engine.soundEnabled)
	engine.emitEventLocked(Event{
		Type:     EventCompleted,
		Snapshot: engine.snapshotLocked(),
		Confetti: burst,
		Run:      engine.runID,
		At:       engine.clock.Now(),
	})
}

func (engine *Engine) saveLocked() {
	state := model.PersistedState{
		RemainingSeconds: engine.remaining,
		InitialSeconds:   engine.initial,
		Status:           engine.status,
	}
	engine.guard.Do(OpSave, func() error {
		return engine.options.Store.Save(state)
	})
}

// faultLocked is the Guard's report hook; callers already hold mu.
func (engine *Engine) faultLocked(op string, err error) {
	if errors.Is(err, ErrUnavailable) && op != OpFullscreen {
		return
	}
	engine.emitLocked(EventFault, FaultMessage(op))
}

func (engine *Engine) snapshotLocked() Snapshot {
	visual := reveal.Map(engine.remaining, engine.initial)
	return Snapshot{
		RemainingSeconds: engine.remaining,
		InitialSeconds:   engine.initial,
		Status:           engine.status,
		Scale:            visual.Scale,
		Band:             visual.Band,
		Label:            reveal.Label(engine.remaining, model.FinalCountdownSeconds),
		Message:          engine.message,
		FinalCountdown:   engine.status == model.StatusRunning && reveal.FinalCountdown(engine.remaining, model.FinalCountdownSeconds),
		SoundEnabled:     engine.soundEnabled,
		Fullscreen:       engine.fullscreen,
	}
}

func (engine *Engine) emitLocked(eventType EventType, message string) {
	engine.emitEventLocked(Event{
		Type:     eventType,
		Snapshot: engine.snapshotLocked(),
		Message:  message,
		Run:      engine.runID,
		At:       engine.clock.Now(),
	})
}

func (engine *Engine) emitEventLocked(event Event) {
	for _, ch := range engine.events {
		select {
		case ch <- event:
		default:
		}
	}
}
