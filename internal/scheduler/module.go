package scheduler

import (
	"time"

	"idlewatch/pkg/sensor"
)

// TimerInfo describes the timer a pre-timer check is being consulted for.
type TimerInfo struct {
	Name    string
	After   time.Duration
	Command string
}

// Module is consulted before a due timer fires. Abort suppresses the whole
// timer cycle; an error skips the cycle and is recorded, never treated as
// "continue".
type Module interface {
	Name() string
	PreTimer(timer TimerInfo) (sensor.Progress, error)
}

// ModuleNotWhenFullscreen is the registered name of the fullscreen gate.
const ModuleNotWhenFullscreen = "not-when-fullscreen"

// NotWhenFullscreen suppresses timers while a window on the active desktop
// is genuinely fullscreen, honoring the configured exception lists.
type NotWhenFullscreen struct {
	sensor     sensor.Sensor
	exceptions sensor.Exceptions
}

func NewNotWhenFullscreen(s sensor.Sensor, exc sensor.Exceptions) *NotWhenFullscreen {
	return &NotWhenFullscreen{sensor: s, exceptions: exc}
}

func (m *NotWhenFullscreen) Name() string {
	return ModuleNotWhenFullscreen
}

func (m *NotWhenFullscreen) PreTimer(_ TimerInfo) (sensor.Progress, error) {
	fullscreen, err := m.sensor.AnyFullscreen(m.exceptions)
	if err != nil {
		return sensor.Continue, err
	}
	if fullscreen {
		return sensor.Abort, nil
	}
	return sensor.Continue, nil
}

// LockChecker reports whether the session is currently locked.
type LockChecker interface {
	SessionLocked() (bool, error)
}

// NotWhenLocked holds timers while the session is already locked: firing a
// lock or suspend action on top of an existing lock is never useful.
type NotWhenLocked struct {
	locker LockChecker
}

func NewNotWhenLocked(locker LockChecker) *NotWhenLocked {
	return &NotWhenLocked{locker: locker}
}

func (m *NotWhenLocked) Name() string {
	return "not-when-locked"
}

func (m *NotWhenLocked) PreTimer(_ TimerInfo) (sensor.Progress, error) {
	locked, err := m.locker.SessionLocked()
	if err != nil {
		return sensor.Continue, err
	}
	if locked {
		return sensor.Abort, nil
	}
	return sensor.Continue, nil
}
