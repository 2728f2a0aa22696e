//go:build linux

package platform

import (
	"errors"
	"fmt"
	"sync"

	"revealtimer/internal/core/countdown"

	"github.com/godbus/dbus/v5"
)

const (
	screenSaverService   = "org.freedesktop.ScreenSaver"
	screenSaverPath      = dbus.ObjectPath("/org/freedesktop/ScreenSaver")
	screenSaverInterface = "org.freedesktop.ScreenSaver"
	inhibitReason        = "Countdown running"
)

// dbusWakeLock inhibits the session screensaver over D-Bus.
type dbusWakeLock struct {
	mu      sync.Mutex
	appName string
	conn    *dbus.Conn
	cookie  uint32
	held    bool
}

func newWakeLock(appName string) WakeLock {
	return &dbusWakeLock{appName: appName}
}

func (lock *dbusWakeLock) Acquire() error {
	lock.mu.Lock()
	defer lock.mu.Unlock()

	if lock.held {
		return nil
	}
	object, err := lock.screenSaverLocked()
	if err != nil {
		return err
	}

	var cookie uint32
	call := object.Call(screenSaverInterface+".Inhibit", 0, lock.appName, inhibitReason)
	if err := call.Store(&cookie); err != nil {
		return classifyDBusError("inhibit screensaver", err)
	}
	lock.cookie = cookie
	lock.held = true
	return nil
}

func (lock *dbusWakeLock) Release() error {
	lock.mu.Lock()
	defer lock.mu.Unlock()

	if !lock.held {
		return nil
	}
	lock.held = false
	object, err := lock.screenSaverLocked()
	if err != nil {
		return err
	}
	if err := object.Call(screenSaverInterface+".UnInhibit", 0, lock.cookie).Err; err != nil {
		return classifyDBusError("uninhibit screensaver", err)
	}
	return nil
}

func (lock *dbusWakeLock) Touch() error {
	lock.mu.Lock()
	defer lock.mu.Unlock()

	object, err := lock.screenSaverLocked()
	if err != nil {
		return err
	}
	if err := object.Call(screenSaverInterface+".SimulateUserActivity", 0).Err; err != nil {
		return classifyDBusError("simulate user activity", err)
	}
	return nil
}

func (lock *dbusWakeLock) screenSaverLocked() (dbus.BusObject, error) {
	if lock.conn == nil {
		conn, err := dbus.ConnectSessionBus()
		if err != nil {
			return nil, fmt.Errorf("connect session bus: %v: %w", err, countdown.ErrUnavailable)
		}
		lock.conn = conn
	}
	return lock.conn.Object(screenSaverService, screenSaverPath), nil
}

func classifyDBusError(action string, err error) error {
	if name := dbusErrorName(err); name != "" {
		switch name {
		case "org.freedesktop.DBus.Error.ServiceUnknown",
			"org.freedesktop.DBus.Error.UnknownMethod",
			"org.freedesktop.DBus.Error.NotSupported":
			return fmt.Errorf("%s: %v: %w", action, err, countdown.ErrUnavailable)
		}
	}
	return fmt.Errorf("%s: %w", action, err)
}

func dbusErrorName(err error) string {
	var value dbus.Error
	if errors.As(err, &value) {
		return value.Name
	}
	var pointer *dbus.Error
	if errors.As(err, &pointer) && pointer != nil {
		return pointer.Name
	}
	return ""
}
