package sensor

import (
	"testing"
	"time"
)

type MockSensor struct {
	idle       time.Duration
	fullscreen bool
	lastExc    Exceptions
	closeError error
}

func (m *MockSensor) IdleDuration() (time.Duration, error) {
	return m.idle, nil
}

func (m *MockSensor) AnyFullscreen(exc Exceptions) (bool, error) {
	m.lastExc = exc
	return m.fullscreen, nil
}

func (m *MockSensor) DisplayServer() string {
	return "x11"
}

func (m *MockSensor) Close() error {
	return m.closeError
}

func TestMockSensor(t *testing.T) {
	var _ Sensor = (*MockSensor)(nil)

	mock := &MockSensor{
		idle:       90 * time.Second,
		fullscreen: true,
	}

	idle, err := mock.IdleDuration()
	if err != nil {
		t.Errorf("IdleDuration() error: %v", err)
	}
	if idle != 90*time.Second {
		t.Errorf("IdleDuration() = %v, want 90s", idle)
	}

	exc := Exceptions{Titles: []string{"video.mkv"}}
	fullscreen, err := mock.AnyFullscreen(exc)
	if err != nil {
		t.Errorf("AnyFullscreen() error: %v", err)
	}
	if !fullscreen {
		t.Error("AnyFullscreen() = false, want true")
	}
	if len(mock.lastExc.Titles) != 1 || mock.lastExc.Titles[0] != "video.mkv" {
		t.Errorf("exceptions not passed through: %+v", mock.lastExc)
	}

	if mock.DisplayServer() != "x11" {
		t.Errorf("DisplayServer() = %s, want x11", mock.DisplayServer())
	}

	if err := mock.Close(); err != nil {
		t.Errorf("Close() error: %v", err)
	}
}

func TestProgressString(t *testing.T) {
	tests := []struct {
		progress Progress
		want     string
	}{
		{Continue, "continue"},
		{Abort, "abort"},
	}

	for _, tt := range tests {
		if got := tt.progress.String(); got != tt.want {
			t.Errorf("Progress(%d).String() = %s, want %s", tt.progress, got, tt.want)
		}
	}
}

func TestExceptionsZeroValue(t *testing.T) {
	var exc Exceptions
	if exc.Instances != nil || exc.Classes != nil || exc.Titles != nil {
		t.Error("zero-value Exceptions must carry nil lists")
	}
}
