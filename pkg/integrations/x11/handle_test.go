package x11

import (
	"os"
	"testing"

	"idlewatch/pkg/sensor"
)

func TestDialLive(t *testing.T) {
	if os.Getenv("DISPLAY") == "" {
		t.Skip("no X display available")
	}

	handle, err := Dial()
	if err != nil {
		t.Skipf("Dial() failed, server likely unreachable: %v", err)
	}
	defer handle.Close()

	var _ sensor.Sensor = handle

	idle, err := handle.IdleDuration()
	if err != nil {
		t.Errorf("IdleDuration() error: %v", err)
	}
	if idle < 0 {
		t.Errorf("IdleDuration() = %v, want non-negative", idle)
	}
	t.Logf("idle for %v", idle)

	fullscreen, err := handle.AnyFullscreen(sensor.Exceptions{})
	if err != nil {
		t.Errorf("AnyFullscreen() error: %v", err)
	}
	t.Logf("fullscreen window present: %v", fullscreen)
}
