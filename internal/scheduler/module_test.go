package scheduler

import (
	"errors"
	"testing"
	"time"

	"idlewatch/pkg/sensor"
)

type stubSensor struct {
	idle       time.Duration
	idleErr    error
	fullscreen bool
	fsErr      error
	lastExc    sensor.Exceptions
}

func (s *stubSensor) IdleDuration() (time.Duration, error) {
	return s.idle, s.idleErr
}

func (s *stubSensor) AnyFullscreen(exc sensor.Exceptions) (bool, error) {
	s.lastExc = exc
	return s.fullscreen, s.fsErr
}

func (s *stubSensor) DisplayServer() string { return "x11" }
func (s *stubSensor) Close() error          { return nil }

type stubLocker struct {
	locked bool
	err    error
}

func (s *stubLocker) SessionLocked() (bool, error) {
	return s.locked, s.err
}

var (
	errTest   = errors.New("boom")
	someTimer = TimerInfo{Name: "lock", After: 5 * time.Minute, Command: "lock"}
)

func TestNotWhenFullscreen(t *testing.T) {
	stub := &stubSensor{fullscreen: true}
	exc := sensor.Exceptions{Instances: []string{"mpv"}}
	module := NewNotWhenFullscreen(stub, exc)

	progress, err := module.PreTimer(someTimer)
	if err != nil {
		t.Fatalf("PreTimer() error: %v", err)
	}
	if progress != sensor.Abort {
		t.Errorf("PreTimer() = %v, want abort while fullscreen", progress)
	}
	if len(stub.lastExc.Instances) != 1 || stub.lastExc.Instances[0] != "mpv" {
		t.Errorf("exception lists not forwarded: %+v", stub.lastExc)
	}

	stub.fullscreen = false
	progress, err = module.PreTimer(someTimer)
	if err != nil {
		t.Fatalf("PreTimer() error: %v", err)
	}
	if progress != sensor.Continue {
		t.Errorf("PreTimer() = %v, want continue without fullscreen", progress)
	}
}

func TestNotWhenFullscreenPropagatesError(t *testing.T) {
	stub := &stubSensor{fsErr: errors.New("connection reset")}
	module := NewNotWhenFullscreen(stub, sensor.Exceptions{})

	if _, err := module.PreTimer(someTimer); err == nil {
		t.Error("PreTimer() must propagate sensor errors, got nil")
	}
}

func TestNotWhenLocked(t *testing.T) {
	locker := &stubLocker{locked: true}
	module := NewNotWhenLocked(locker)

	progress, err := module.PreTimer(someTimer)
	if err != nil {
		t.Fatalf("PreTimer() error: %v", err)
	}
	if progress != sensor.Abort {
		t.Errorf("PreTimer() = %v, want abort while locked", progress)
	}

	locker.locked = false
	if progress, _ = module.PreTimer(someTimer); progress != sensor.Continue {
		t.Errorf("PreTimer() = %v, want continue when unlocked", progress)
	}

	locker.err = errors.New("no system bus")
	if _, err := module.PreTimer(someTimer); err == nil {
		t.Error("PreTimer() must propagate locker errors, got nil")
	}
}
