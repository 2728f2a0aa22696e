package countdown

import (
	"errors"
	"sync"
	"time"

	"revealtimer/internal/core/model"
)

type memoryStore struct {
	mu      sync.Mutex
	state   *model.PersistedState
	saves   int
	clears  int
	saveErr error
}

func (store *memoryStore) Load() (model.PersistedState, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	if store.state == nil {
		return model.PersistedState{}, ErrNoSnapshot
	}
	return *store.state, nil
}

func (store *memoryStore) Save(state model.PersistedState) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.saves++
	if store.saveErr != nil {
		return store.saveErr
	}
	store.state = &state
	return nil
}

func (store *memoryStore) Clear() error {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.clears++
	store.state = nil
	return nil
}

type countingCues struct {
	mu          sync.Mutex
	ticks       int
	completions int
	panicOnTick bool
}

func (cues *countingCues) PlayTick() error {
	cues.mu.Lock()
	defer cues.mu.Unlock()
	cues.ticks++
	if cues.panicOnTick {
		panic("speaker exploded")
	}
	return nil
}

func (cues *countingCues) PlayCompletion() error {
	cues.mu.Lock()
	defer cues.mu.Unlock()
	cues.completions++
	return nil
}

type countingKeepAlive struct {
	mu          sync.Mutex
	activates   int
	deactivates int
	active      bool
}

func (keepAlive *countingKeepAlive) Activate() error {
	keepAlive.mu.Lock()
	defer keepAlive.mu.Unlock()
	keepAlive.activates++
	keepAlive.active = true
	return nil
}

func (keepAlive *countingKeepAlive) Deactivate() error {
	keepAlive.mu.Lock()
	defer keepAlive.mu.Unlock()
	keepAlive.deactivates++
	keepAlive.active = false
	return nil
}

func (keepAlive *countingKeepAlive) isActive() bool {
	keepAlive.mu.Lock()
	defer keepAlive.mu.Unlock()
	return keepAlive.active
}

type recordingHaptic struct {
	patterns [][]time.Duration
}

func (haptic *recordingHaptic) Pulse(pattern []time.Duration) error {
	haptic.patterns = append(haptic.patterns, pattern)
	return nil
}

var errDiskFull = errors.New("disk full")
