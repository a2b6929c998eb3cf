// Package x11 implements idle and fullscreen sensing against an X display
// server. Idle time comes from the MIT-SCREEN-SAVER extension; fullscreen
// detection walks the window tree of every screen and interprets the EWMH
// state, desktop and class properties of each window.
package x11

import (
	"math"
	"time"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/screensaver"
	"github.com/jezek/xgb/xproto"
	"github.com/pkg/errors"

	"idlewatch/pkg/sensor"
)

// Handle owns the X server connection, the root window of every screen and
// the interned atom table. It is read-only after Dial; sharing the pointer
// between consumers is fine but calls must be serialized, the underlying
// connection is not safe for concurrent round trips from one logical flow.
type Handle struct {
	conn  *xgb.Conn
	roots []xproto.Window
	atoms atomTable
}

// Dial connects to the display server named by the DISPLAY environment
// variable, initializes the screensaver extension and resolves every atom
// the detector needs. Any failure here is fatal to the whole subsystem:
// detection never runs on a partially constructed handle.
func Dial() (*Handle, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, errors.Wrap(err, "connect to X server")
	}

	if err := screensaver.Init(conn); err != nil {
		conn.Close()
		return nil, errors.Wrap(err, "initialize MIT-SCREEN-SAVER extension")
	}

	setup := xproto.Setup(conn)
	if len(setup.Roots) == 0 {
		conn.Close()
		return nil, errors.New("no screen root advertised by server")
	}

	roots := make([]xproto.Window, 0, len(setup.Roots))
	for _, screen := range setup.Roots {
		roots = append(roots, screen.Root)
	}

	atoms, err := internAtoms(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}

	return &Handle{
		conn:  conn,
		roots: roots,
		atoms: atoms,
	}, nil
}

// IdleDuration returns the time since the last user input, as reported in
// milliseconds by the screensaver extension.
func (h *Handle) IdleDuration() (time.Duration, error) {
	info, err := screensaver.QueryInfo(h.conn, xproto.Drawable(h.roots[0])).Reply()
	if err != nil {
		return 0, errors.Wrap(err, "query idle info")
	}
	return time.Duration(info.MsSinceUserInput) * time.Millisecond, nil
}

// AnyFullscreen reports whether any window, on any screen, is genuinely
// fullscreen on the currently active desktop. The first match wins; false
// means no screen's tree contains one. Each call is a fresh traversal,
// nothing is cached between invocations.
func (h *Handle) AnyFullscreen(exc sensor.Exceptions) (bool, error) {
	for _, root := range h.roots {
		match, err := queryFullscreen(h, h.atoms, root, exc)
		if err != nil {
			return false, err
		}
		if match {
			return true, nil
		}
	}
	return false, nil
}

// DisplayServer returns "x11".
func (h *Handle) DisplayServer() string {
	return "x11"
}

// Close disconnects from the server. The handle must not be used afterwards.
func (h *Handle) Close() error {
	h.conn.Close()
	return nil
}

// propertySource is the slice of the wire protocol the detector walks over,
// split out so the traversal and predicate are testable without a live
// server. Handle is the production implementation.
type propertySource interface {
	children(w xproto.Window) ([]xproto.Window, error)
	property(w xproto.Window, prop, typ xproto.Atom) ([]byte, error)
}

func (h *Handle) children(w xproto.Window) ([]xproto.Window, error) {
	reply, err := xproto.QueryTree(h.conn, w).Reply()
	if err != nil {
		return nil, errors.Wrapf(err, "query tree of window 0x%x", w)
	}
	return reply.Children, nil
}

// property fetches a whole property value: delete=false, offset 0 and an
// unbounded length, so the reply is never truncated.
func (h *Handle) property(w xproto.Window, prop, typ xproto.Atom) ([]byte, error) {
	reply, err := xproto.GetProperty(h.conn, false, w, prop, typ, 0, math.MaxUint32).Reply()
	if err != nil {
		return nil, errors.Wrapf(err, "get property %d of window 0x%x", prop, w)
	}
	return reply.Value, nil
}
