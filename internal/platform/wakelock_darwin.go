//go:build darwin

package platform

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"sync"

	"revealtimer/internal/core/countdown"
)

// caffeinateLock holds a caffeinate process bound to this process's lifetime.
type caffeinateLock struct {
	mu      sync.Mutex
	path    string
	command *exec.Cmd
}

func newWakeLock(string) WakeLock {
	path, _ := exec.LookPath("caffeinate")
	return &caffeinateLock{path: path}
}

func (lock *caffeinateLock) Acquire() error {
	lock.mu.Lock()
	defer lock.mu.Unlock()

	if lock.path == "" {
		return fmt.Errorf("caffeinate not found: %w", countdown.ErrUnavailable)
	}
	if lock.command != nil {
		return nil
	}
	command := exec.Command(lock.path, "-d", "-i", "-w", strconv.Itoa(os.Getpid()))
	if err := command.Start(); err != nil {
		return fmt.Errorf("start caffeinate: %w", err)
	}
	lock.command = command
	return nil
}

func (lock *caffeinateLock) Release() error {
	lock.mu.Lock()
	defer lock.mu.Unlock()

	if lock.command == nil {
		return nil
	}
	command := lock.command
	lock.command = nil
	if err := command.Process.Kill(); err != nil {
		return fmt.Errorf("stop caffeinate: %w", err)
	}
	_ = command.Wait()
	return nil
}

func (lock *caffeinateLock) Touch() error {
	return nil
}
