package sensor

import "time"

// Exceptions holds the user-configured disallow-lists for fullscreen
// detection. A window whose attribute appears in the matching list is never
// treated as blocking-fullscreen, even when every other condition holds.
// A nil slice means "no list supplied": every window stays eligible.
type Exceptions struct {
	Instances []string // WM_CLASS instance component (first, e.g. "firefox")
	Classes   []string // WM_CLASS class component (second, e.g. "Firefox")
	Titles    []string // WM_NAME window title
}

// Progress is the decision a pre-timer check reports back to the scheduler.
type Progress int

const (
	// Continue lets the current timer cycle proceed.
	Continue Progress = iota
	// Abort suppresses the current timer cycle.
	Abort
)

func (p Progress) String() string {
	if p == Abort {
		return "abort"
	}
	return "continue"
}

// Sensor is the interface every idle/fullscreen sensing backend must satisfy
type Sensor interface {
	// IdleDuration returns the time elapsed since the last user input
	IdleDuration() (time.Duration, error)

	// AnyFullscreen reports whether any window on the active desktop of
	// any screen is genuinely fullscreen, honoring the exception lists
	AnyFullscreen(exc Exceptions) (bool, error)

	// DisplayServer returns the backend's display server type
	DisplayServer() string

	// Close releases the backend's resources
	Close() error
}
