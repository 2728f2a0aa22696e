package platform

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// HeartbeatInterval is how often the idle timer is nudged while active.
const HeartbeatInterval = 10 * time.Second

// KeepAlive keeps the display awake while a countdown runs: it holds a wake
// lock when the platform has one and touches the idle timer periodically.
// Acquisition runs in the background and its failure only leaves the
// heartbeat in place.
type KeepAlive struct {
	mu         sync.Mutex
	lock       WakeLock
	clock      clockwork.Clock
	interval   time.Duration
	active     bool
	held       bool
	acquiring  bool
	stopCh     chan struct{}
	ticker     clockwork.Ticker
	heartbeats int
	pending    sync.WaitGroup
}

// NewKeepAlive creates a manager around lock. A nil clock uses real time.
func NewKeepAlive(lock WakeLock, clock clockwork.Clock) *KeepAlive {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &KeepAlive{lock: lock, clock: clock, interval: HeartbeatInterval}
}

// Activate starts the heartbeat and requests the wake lock. Calling it
// again restarts the heartbeat; the lock is requested only when it is
// neither held nor already being requested.
func (keepAlive *KeepAlive) Activate() error {
	keepAlive.mu.Lock()
	defer keepAlive.mu.Unlock()

	keepAlive.stopHeartbeatLocked()
	keepAlive.active = true

	keepAlive.stopCh = make(chan struct{})
	keepAlive.ticker = keepAlive.clock.NewTicker(keepAlive.interval)
	go keepAlive.heartbeat(keepAlive.ticker, keepAlive.stopCh)

	if keepAlive.lock != nil && !keepAlive.held && !keepAlive.acquiring {
		keepAlive.acquiring = true
		keepAlive.pending.Add(1)
		go keepAlive.acquire()
	}
	return nil
}

// Deactivate stops the heartbeat and releases the wake lock.
func (keepAlive *KeepAlive) Deactivate() error {
	keepAlive.mu.Lock()
	defer keepAlive.mu.Unlock()

	keepAlive.stopHeartbeatLocked()
	keepAlive.active = false
	return keepAlive.releaseLocked()
}

// Active reports whether the manager is between Activate and Deactivate.
func (keepAlive *KeepAlive) Active() bool {
	keepAlive.mu.Lock()
	defer keepAlive.mu.Unlock()
	return keepAlive.active
}

// Held reports whether the wake lock is currently held.
func (keepAlive *KeepAlive) Held() bool {
	keepAlive.mu.Lock()
	defer keepAlive.mu.Unlock()
	return keepAlive.held
}

// Heartbeats returns how many idle-timer touches have been sent.
func (keepAlive *KeepAlive) Heartbeats() int {
	keepAlive.mu.Lock()
	defer keepAlive.mu.Unlock()
	return keepAlive.heartbeats
}

// acquire is the only request in flight, so held is false until it
// returns. A lock that arrives after Deactivate is released here and
// never recorded as held.
func (keepAlive *KeepAlive) acquire() {
	defer keepAlive.pending.Done()

	err := keepAlive.lock.Acquire()

	keepAlive.mu.Lock()
	defer keepAlive.mu.Unlock()
	keepAlive.acquiring = false
	if err != nil {
		log.Debug().Err(err).Msg("wake lock unavailable, heartbeat only")
		return
	}
	if !keepAlive.active {
		if releaseErr := keepAlive.lock.Release(); releaseErr != nil {
			log.Debug().Err(releaseErr).Msg("release late wake lock")
		}
		return
	}
	keepAlive.held = true
}

func (keepAlive *KeepAlive) releaseLocked() error {
	if !keepAlive.held {
		return nil
	}
	keepAlive.held = false
	return keepAlive.lock.Release()
}

func (keepAlive *KeepAlive) heartbeat(ticker clockwork.Ticker, stopCh <-chan struct{}) {
	for {
		select {
		case <-stopCh:
			return
		case <-ticker.Chan():
			keepAlive.touch(stopCh)
		}
	}
}

func (keepAlive *KeepAlive) touch(stopCh <-chan struct{}) {
	keepAlive.mu.Lock()
	select {
	case <-stopCh:
		keepAlive.mu.Unlock()
		return
	default:
	}
	keepAlive.heartbeats++
	lock := keepAlive.lock
	keepAlive.mu.Unlock()

	if lock == nil {
		return
	}
	if err := lock.Touch(); err != nil {
		log.Debug().Err(err).Msg("heartbeat touch failed")
	}
}

func (keepAlive *KeepAlive) stopHeartbeatLocked() {
	if keepAlive.stopCh != nil {
		close(keepAlive.stopCh)
		keepAlive.stopCh = nil
	}
	if keepAlive.ticker != nil {
		keepAlive.ticker.Stop()
		keepAlive.ticker = nil
	}
}
