package countdown

import (
	"math/rand"

	"revealtimer/internal/core/reveal"
)

// Completion runs the terminal side effects of a finished countdown.
type Completion struct {
	keepAlive KeepAlive
	cues      CuePlayer
	haptic    Haptic
	store     Store
	rng       *rand.Rand
	guard     Guard
}

// Complete stops the keep-alive, prepares the confetti burst, plays the
// completion cue, pulses haptics and clears the saved snapshot. Every step
// is best-effort; the returned burst is handed to displays with the
// completed event.
func (completion *Completion) Complete(soundEnabled bool) []reveal.Particle {
	completion.guard.Do(OpWakeOff, completion.keepAlive.Deactivate)

	burst := reveal.Confetti(completion.rng, reveal.ConfettiCount)

	if soundEnabled {
		completion.guard.Do(OpFinishCue, completion.cues.PlayCompletion)
	}
	completion.guard.Do(OpHaptic, func() error {
		return completion.haptic.Pulse(HapticPattern)
	})
	completion.guard.Do(OpClear, completion.store.Clear)
	return burst
}
