package x11

import (
	"github.com/jezek/xgb/xproto"

	"idlewatch/pkg/sensor"
)

// withdrawnState is the WM_STATE code of a window that is not mapped.
const withdrawnState = 0

// windowState is the decoded view of one window's properties. It is rebuilt
// on every visit and discarded right after the predicate test; nothing here
// survives a detection call.
type windowState struct {
	state    []xproto.Atom // _NET_WM_STATE atom list
	wmState  []uint32      // WM_STATE words, first is the state code
	desktop  []uint32      // _NET_WM_DESKTOP
	title    string        // WM_NAME
	instance string        // WM_CLASS, first component
	class    string        // WM_CLASS, second component
}

func fetchWindowState(src propertySource, atoms atomTable, w xproto.Window) (windowState, error) {
	var ws windowState

	raw, err := src.property(w, atoms.netWMState, xproto.AtomAtom)
	if err != nil {
		return ws, err
	}
	ws.state = decodeAtoms(raw)

	raw, err = src.property(w, atoms.wmState, xproto.GetPropertyTypeAny)
	if err != nil {
		return ws, err
	}
	ws.wmState = decodeWords(raw)

	raw, err = src.property(w, atoms.netWMDesktop, xproto.GetPropertyTypeAny)
	if err != nil {
		return ws, err
	}
	ws.desktop = decodeWords(raw)

	raw, err = src.property(w, atoms.wmName, xproto.GetPropertyTypeAny)
	if err != nil {
		return ws, err
	}
	ws.title = string(raw)

	raw, err = src.property(w, atoms.wmClass, xproto.GetPropertyTypeAny)
	if err != nil {
		return ws, err
	}
	ws.instance, ws.class = decodeClass(raw)

	return ws, nil
}

// blocking reports whether this window should suppress idle actions: it
// advertises the EWMH fullscreen hint, is mapped in a visible state, sits on
// the desktop the user is actually viewing and is not exempted by any
// exception list. A fullscreen hint on a withdrawn or other-desktop window
// must not block idling.
//
// Only the first value of _NET_WM_DESKTOP and of the active-desktop
// property is consulted, matching common EWMH usage for these properties.
func (ws windowState) blocking(fullscreen xproto.Atom, active []uint32, exc sensor.Exceptions) bool {
	hasFullscreen := false
	for _, atom := range ws.state {
		if atom == fullscreen {
			hasFullscreen = true
			break
		}
	}
	if !hasFullscreen {
		return false
	}
	if len(ws.wmState) == 0 || ws.wmState[0] == withdrawnState {
		return false
	}
	// A window without a desktop assignment (override-redirect, non-EWMH
	// clients) is never considered active; same for a root without an
	// active desktop. Policy defaults, not failures.
	if len(ws.desktop) == 0 || len(active) == 0 {
		return false
	}
	if ws.desktop[0] != active[0] {
		return false
	}
	if listed(exc.Titles, ws.title) {
		return false
	}
	if listed(exc.Instances, ws.instance) {
		return false
	}
	return !listed(exc.Classes, ws.class)
}

// listed reports whether v appears in the exception list. A nil list was
// never supplied and exempts nothing.
func listed(list []string, v string) bool {
	for _, entry := range list {
		if entry == v {
			return true
		}
	}
	return false
}

// queryFullscreen walks the window tree under root and reports whether it
// contains a blocking-fullscreen window. The active desktop is read once
// from the root itself and carried through the whole walk.
func queryFullscreen(src propertySource, atoms atomTable, root xproto.Window, exc sensor.Exceptions) (bool, error) {
	children, err := src.children(root)
	if err != nil {
		return false, err
	}

	raw, err := src.property(root, atoms.netCurrentDesktop, xproto.GetPropertyTypeAny)
	if err != nil {
		return false, err
	}
	active := decodeWords(raw)

	return walk(src, atoms, children, active, exc)
}

// walk visits windows depth-first in listing order. The first match wins
// and aborts the traversal all the way up; a non-matching window's subtree
// is still visited. Any round-trip failure aborts the whole walk, a single
// bad window is never silently treated as "not fullscreen".
func walk(src propertySource, atoms atomTable, windows []xproto.Window, active []uint32, exc sensor.Exceptions) (bool, error) {
	for _, w := range windows {
		ws, err := fetchWindowState(src, atoms, w)
		if err != nil {
			return false, err
		}
		if ws.blocking(atoms.netWMStateFullscreen, active, exc) {
			return true, nil
		}

		children, err := src.children(w)
		if err != nil {
			return false, err
		}
		match, err := walk(src, atoms, children, active, exc)
		if err != nil {
			return false, err
		}
		if match {
			return true, nil
		}
	}
	return false, nil
}
