package audio

import (
	"fmt"
	"sync"
	"time"

	"revealtimer/internal/core/countdown"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

// SampleRate is the rate every cue is rendered at.
const SampleRate = beep.SampleRate(44100)

// Output plays a finite stream without blocking.
type Output interface {
	Play(streamer beep.Streamer) error
}

// SpeakerOutput plays through the system audio device, initialising it on
// first use. A device that fails to open stays unavailable.
type SpeakerOutput struct {
	once sync.Once
	err  error
	rate beep.SampleRate
}

// NewSpeakerOutput creates an output on the default audio device.
func NewSpeakerOutput() *SpeakerOutput {
	return &SpeakerOutput{rate: SampleRate}
}

// Play mixes streamer into the speaker output.
func (output *SpeakerOutput) Play(streamer beep.Streamer) error {
	output.once.Do(func() {
		if err := speaker.Init(output.rate, output.rate.N(100*time.Millisecond)); err != nil {
			output.err = fmt.Errorf("init speaker: %v: %w", err, countdown.ErrUnavailable)
		}
	})
	if output.err != nil {
		return output.err
	}
	speaker.Play(streamer)
	return nil
}
