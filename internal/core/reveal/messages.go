package reveal

const (
	MessageIdle      = "Set timer and press Start"
	MessageStarted   = "Timer started!"
	MessagePaused    = "Timer paused. Press Resume to continue"
	MessageResumed   = "Watch the circle disappear!"
	MessageHalfway   = "Halfway there!"
	MessageAlmost    = "Almost done!"
	MessageCompleted = "Time is up!"
)

// ProgressMessage returns the threshold message for a running countdown, or
// current when no threshold applies.
func ProgressMessage(ratio float64, finalCountdown bool, current string) string {
	switch {
	case finalCountdown || ratio < 0.2:
		return MessageAlmost
	case ratio < 0.5:
		return MessageHalfway
	default:
		return current
	}
}
