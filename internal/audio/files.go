package audio

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/vorbis"
	"github.com/gopxl/beep/wav"
)

// ErrNoCueFile indicates no sound file is configured for a cue.
var ErrNoCueFile = errors.New("no cue file configured")

// fileCache decodes sound files once and replays them from memory.
type fileCache struct {
	mu      sync.Mutex
	buffers map[string]*beep.Buffer
}

func newFileCache() *fileCache {
	return &fileCache{buffers: make(map[string]*beep.Buffer)}
}

// load returns a fresh streamer over the decoded file, resampled to rate.
func (cache *fileCache) load(path string, rate beep.SampleRate) (beep.Streamer, error) {
	if path == "" {
		return nil, ErrNoCueFile
	}

	cache.mu.Lock()
	buffer, ok := cache.buffers[path]
	cache.mu.Unlock()

	if !ok {
		decoded, err := decodeFile(path)
		if err != nil {
			return nil, err
		}
		buffer = decoded
		cache.mu.Lock()
		cache.buffers[path] = buffer
		cache.mu.Unlock()
	}

	streamer := buffer.Streamer(0, buffer.Len())
	if buffer.Format().SampleRate == rate {
		return streamer, nil
	}
	return beep.Resample(4, buffer.Format().SampleRate, rate, streamer), nil
}

func decodeFile(path string) (*beep.Buffer, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open cue file: %w", err)
	}
	defer file.Close()

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		streamer, format, err = wav.Decode(file)
	case ".ogg":
		streamer, format, err = vorbis.Decode(file)
	default:
		return nil, fmt.Errorf("unsupported cue file %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("decode cue file: %w", err)
	}
	defer streamer.Close()

	buffer := beep.NewBuffer(format)
	buffer.Append(streamer)
	if err := streamer.Err(); err != nil {
		return nil, fmt.Errorf("read cue file: %w", err)
	}
	if buffer.Len() == 0 {
		return nil, fmt.Errorf("cue file %s is empty", path)
	}
	return buffer, nil
}
