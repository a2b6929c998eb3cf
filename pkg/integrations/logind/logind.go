// Package logind talks to systemd-logind over the system bus. The scheduler
// uses it to hold timer actions while the session is already locked, and to
// suspend the machine without shelling out.
package logind

import (
	"fmt"

	"github.com/godbus/dbus/v5"
)

const (
	busName     = "org.freedesktop.login1"
	managerPath = "/org/freedesktop/login1"
	// The "auto" session object resolves to the caller's own session.
	sessionPath = "/org/freedesktop/login1/session/auto"
)

// Manager wraps a system-bus connection to logind.
type Manager struct {
	conn *dbus.Conn
}

// Connect opens a system-bus connection. Fails on systems without a system
// bus or without logind; callers should treat that as "feature unavailable"
// rather than fatal.
func Connect() (*Manager, error) {
	conn, err := dbus.ConnectSystemBus()
	if err != nil {
		return nil, fmt.Errorf("connect to system bus: %w", err)
	}
	return &Manager{conn: conn}, nil
}

// SessionLocked reports the LockedHint of the calling process's session.
func (m *Manager) SessionLocked() (bool, error) {
	obj := m.conn.Object(busName, sessionPath)
	variant, err := obj.GetProperty(busName + ".Session.LockedHint")
	if err != nil {
		return false, fmt.Errorf("read LockedHint: %w", err)
	}
	locked, ok := variant.Value().(bool)
	if !ok {
		return false, fmt.Errorf("unexpected LockedHint type %T", variant.Value())
	}
	return locked, nil
}

// LockSession asks logind to lock the calling process's session.
func (m *Manager) LockSession() error {
	obj := m.conn.Object(busName, sessionPath)
	if call := obj.Call(busName+".Session.Lock", 0); call.Err != nil {
		return fmt.Errorf("lock session: %w", call.Err)
	}
	return nil
}

// Suspend asks logind to suspend the machine. The interactive flag is off so
// no polkit prompt is raised.
func (m *Manager) Suspend() error {
	obj := m.conn.Object(busName, managerPath)
	if call := obj.Call(busName+".Manager.Suspend", 0, false); call.Err != nil {
		return fmt.Errorf("suspend: %w", call.Err)
	}
	return nil
}

// Close releases the bus connection.
func (m *Manager) Close() error {
	return m.conn.Close()
}
