package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"revealtimer/internal/core/countdown"
	"revealtimer/internal/core/model"

	"github.com/rs/zerolog/log"
)

const (
	snapshotFileName = "timerState.json"
	probeFileName    = ".storage_probe"
)

// SnapshotStore keeps the countdown snapshot in a single JSON file. When the
// directory is not writable the store reports countdown.ErrUnavailable for
// every call instead of failing each tick.
type SnapshotStore struct {
	mu        sync.Mutex
	path      string
	available bool
}

// SnapshotPath returns the default snapshot location for appName.
func SnapshotPath(appName string) (string, error) {
	return resolveConfigPath(appName, snapshotFileName)
}

// NewSnapshotStore creates a store at path and probes whether it can write there.
func NewSnapshotStore(path string) *SnapshotStore {
	store := &SnapshotStore{path: path}
	store.available = store.probe() == nil
	if !store.available {
		log.Debug().Str("path", path).Msg("snapshot storage unavailable")
	}
	return store
}

// Available reports whether the store can persist snapshots.
func (store *SnapshotStore) Available() bool {
	return store.available
}

// Load returns the saved state. A missing or unreadable record yields
// countdown.ErrNoSnapshot.
func (store *SnapshotStore) Load() (model.PersistedState, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	if !store.available {
		return model.PersistedState{}, fmt.Errorf("load snapshot: %w", countdown.ErrUnavailable)
	}

	rawData, err := os.ReadFile(store.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.PersistedState{}, countdown.ErrNoSnapshot
		}
		return model.PersistedState{}, fmt.Errorf("read snapshot: %w", err)
	}

	var state model.PersistedState
	if err := json.Unmarshal(rawData, &state); err != nil {
		log.Warn().Err(err).Str("path", store.path).Msg("discarding corrupt snapshot")
		return model.PersistedState{}, fmt.Errorf("parse snapshot: %w", countdown.ErrNoSnapshot)
	}
	return state, nil
}

// Save writes the state, replacing any earlier record atomically.
func (store *SnapshotStore) Save(state model.PersistedState) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	if !store.available {
		return fmt.Errorf("save snapshot: %w", countdown.ErrUnavailable)
	}

	serialized, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	tempPath := store.path + ".tmp"
	if err := os.WriteFile(tempPath, serialized, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tempPath, store.path); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}

// Clear removes the saved record. Clearing an empty store succeeds.
func (store *SnapshotStore) Clear() error {
	store.mu.Lock()
	defer store.mu.Unlock()
	if !store.available {
		return fmt.Errorf("clear snapshot: %w", countdown.ErrUnavailable)
	}
	if err := os.Remove(store.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove snapshot: %w", err)
	}
	return nil
}

func (store *SnapshotStore) probe() error {
	if store.path == "" {
		return errors.New("empty snapshot path")
	}
	dir := filepath.Dir(store.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create snapshot directory: %w", err)
	}
	probePath := filepath.Join(dir, probeFileName)
	if err := os.WriteFile(probePath, []byte("probe"), 0o644); err != nil {
		return fmt.Errorf("write probe: %w", err)
	}
	return os.Remove(probePath)
}

// MemoryStore keeps the snapshot in memory; it serves front ends that run
// without a writable config directory and tests.
type MemoryStore struct {
	mu    sync.Mutex
	state *model.PersistedState
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (store *MemoryStore) Load() (model.PersistedState, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	if store.state == nil {
		return model.PersistedState{}, countdown.ErrNoSnapshot
	}
	return *store.state, nil
}

func (store *MemoryStore) Save(state model.PersistedState) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.state = &state
	return nil
}

func (store *MemoryStore) Clear() error {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.state = nil
	return nil
}
