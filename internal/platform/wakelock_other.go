//go:build !linux && !windows && !darwin

package platform

import "revealtimer/internal/core/countdown"

type unsupportedWakeLock struct{}

func newWakeLock(string) WakeLock {
	return unsupportedWakeLock{}
}

func (unsupportedWakeLock) Acquire() error { return countdown.ErrUnavailable }
func (unsupportedWakeLock) Release() error { return nil }
func (unsupportedWakeLock) Touch() error   { return countdown.ErrUnavailable }
