//go:build windows

package platform

import (
	"fmt"
	"sync"
	"syscall"
)

const (
	esSystemRequired  = 0x00000001
	esDisplayRequired = 0x00000002
	esContinuous      = 0x80000000
)

type executionStateLock struct {
	mu   sync.Mutex
	held bool
}

func newWakeLock(string) WakeLock {
	return &executionStateLock{}
}

func (lock *executionStateLock) Acquire() error {
	lock.mu.Lock()
	defer lock.mu.Unlock()
	if err := setThreadExecutionState(esContinuous | esSystemRequired | esDisplayRequired); err != nil {
		return fmt.Errorf("acquire wake lock: %w", err)
	}
	lock.held = true
	return nil
}

func (lock *executionStateLock) Release() error {
	lock.mu.Lock()
	defer lock.mu.Unlock()
	if !lock.held {
		return nil
	}
	lock.held = false
	if err := setThreadExecutionState(esContinuous); err != nil {
		return fmt.Errorf("release wake lock: %w", err)
	}
	return nil
}

func (lock *executionStateLock) Touch() error {
	if err := setThreadExecutionState(esSystemRequired | esDisplayRequired); err != nil {
		return fmt.Errorf("reset idle timer: %w", err)
	}
	return nil
}

func setThreadExecutionState(flags uint32) error {
	kernel32 := syscall.NewLazyDLL("kernel32.dll")
	procedure := kernel32.NewProc("SetThreadExecutionState")
	result, _, err := procedure.Call(uintptr(flags))
	if result == 0 {
		if err != nil {
			return err
		}
		return fmt.Errorf("SetThreadExecutionState: unknown error")
	}
	return nil
}
