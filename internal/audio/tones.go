package audio

import (
	"fmt"
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
)

// Note frequencies used by the synthesized cues.
const (
	noteC5 = 523.25
	noteE5 = 659.25
	noteG5 = 783.99
	noteC6 = 1046.50

	tickFrequency = 800.0
)

const (
	tickDuration   = 200 * time.Millisecond
	tickGain       = 0.2
	arpeggioNote   = 150 * time.Millisecond
	chordDuration  = 900 * time.Millisecond
	completionGain = 0.35
	toneAttack     = 5 * time.Millisecond
	toneRelease    = 40 * time.Millisecond
)

// envelope fades a finite stream in and out to avoid clicks.
type envelope struct {
	streamer beep.Streamer
	position int
	attack   int
	release  int
	total    int
}

func newEnvelope(streamer beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	return &envelope{
		streamer: beep.Take(rate.N(duration), streamer),
		attack:   rate.N(attack),
		release:  rate.N(release),
		total:    rate.N(duration),
	}
}

func (env *envelope) Stream(samples [][2]float64) (int, bool) {
	n, ok := env.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		gain := 1.0
		if env.attack > 0 && env.position < env.attack {
			gain = float64(env.position) / float64(env.attack)
		}
		if left := env.total - env.position; env.release > 0 && left < env.release {
			gain = math.Max(float64(left)/float64(env.release), 0)
		}
		samples[i][0] *= gain
		samples[i][1] *= gain
		env.position++
	}
	return n, ok
}

func (env *envelope) Err() error { return env.streamer.Err() }

// withVolume scales a stream by a linear gain; zero gain is silent.
func withVolume(streamer beep.Streamer, gain float64) beep.Streamer {
	if gain <= 0 {
		return &effects.Volume{Streamer: streamer, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: streamer, Base: 2, Volume: math.Log2(gain)}
}

func tone(rate beep.SampleRate, frequency float64, duration time.Duration, gain float64) (beep.Streamer, error) {
	sine, err := generators.SineTone(rate, frequency)
	if err != nil {
		return nil, fmt.Errorf("sine tone %.2f Hz: %w", frequency, err)
	}
	return withVolume(newEnvelope(sine, duration, toneAttack, toneRelease, rate), gain), nil
}

// synthTick is a short single beep.
func synthTick(rate beep.SampleRate) (beep.Streamer, error) {
	return tone(rate, tickFrequency, tickDuration, tickGain)
}

// synthCompletion is an ascending C-major arpeggio followed by the full
// chord, about 1.5 seconds long.
func synthCompletion(rate beep.SampleRate) (beep.Streamer, error) {
	notes := []float64{noteC5, noteE5, noteG5, noteC6}

	sequence := make([]beep.Streamer, 0, len(notes)+1)
	for _, frequency := range notes {
		note, err := tone(rate, frequency, arpeggioNote, completionGain)
		if err != nil {
			return nil, err
		}
		sequence = append(sequence, note)
	}

	voices := make([]beep.Streamer, 0, len(notes))
	for _, frequency := range notes {
		voice, err := tone(rate, frequency, chordDuration, completionGain/float64(len(notes)))
		if err != nil {
			return nil, err
		}
		voices = append(voices, voice)
	}
	sequence = append(sequence, beep.Take(rate.N(chordDuration), beep.Mix(voices...)))
	return beep.Seq(sequence...), nil
}
