package platform

// WakeLock is a platform resource that keeps the display awake while held.
type WakeLock interface {
	Acquire() error
	Release() error
	// Touch nudges the platform idle timer once.
	Touch() error
}

// NewWakeLock returns the platform-specific wake lock.
func NewWakeLock(appName string) WakeLock {
	return newWakeLock(appName)
}
