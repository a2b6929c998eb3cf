package detector

import (
	"fmt"
	"os"

	"idlewatch/pkg/integrations/x11"
	"idlewatch/pkg/sensor"
)

// New returns the sensing backend for the current session. Only X11 is
// supported: idle time and fullscreen state both come from X server
// properties that Wayland compositors do not expose.
func New() (sensor.Sensor, error) {
	switch server := DetectDisplayServer(); server {
	case "x11":
		return x11.Dial()
	case "wayland":
		return nil, fmt.Errorf("wayland session detected: idle and fullscreen sensing requires X11")
	default:
		return nil, fmt.Errorf("no display server detected (DISPLAY is unset)")
	}
}

// DetectDisplayServer sniffs the session environment.
func DetectDisplayServer() string {
	sessionType := os.Getenv("XDG_SESSION_TYPE")
	waylandDisplay := os.Getenv("WAYLAND_DISPLAY")
	x11Display := os.Getenv("DISPLAY")

	if sessionType == "wayland" || waylandDisplay != "" {
		return "wayland"
	}

	if sessionType == "x11" || x11Display != "" {
		return "x11"
	}

	return "unknown"
}
