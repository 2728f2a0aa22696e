package animation

import "time"

// DefaultConfig returns the frame pacing used by the display.
func DefaultConfig() Config {
	return Config{
		FrameInterval: 33 * time.Millisecond,
		StartY:        -0.05,
		EndY:          1.05,
		FadeFrom:      0.8,
	}
}
