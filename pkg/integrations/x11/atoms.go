package x11

import (
	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
	"github.com/pkg/errors"
)

const (
	nameWMState              = "WM_STATE"
	nameNetWMState           = "_NET_WM_STATE"
	nameNetWMStateFullscreen = "_NET_WM_STATE_FULLSCREEN"
	nameNetWMDesktop         = "_NET_WM_DESKTOP"
	nameNetCurrentDesktop    = "_NET_CURRENT_DESKTOP"
	nameWMName               = "WM_NAME"
	nameWMClass              = "WM_CLASS"
)

// atomTable holds the server-interned identifiers for every property the
// detector consults. They are resolved once at connect time; no query runs
// without a fully populated table. WM_STATE doubles as a property type: it
// is both the name of the property and the type its payload is tagged with.
type atomTable struct {
	wmState              xproto.Atom
	netWMState           xproto.Atom
	netWMStateFullscreen xproto.Atom
	netWMDesktop         xproto.Atom
	netCurrentDesktop    xproto.Atom
	wmName               xproto.Atom
	wmClass              xproto.Atom
}

func internAtoms(conn *xgb.Conn) (atomTable, error) {
	var table atomTable

	for _, entry := range []struct {
		name string
		dst  *xproto.Atom
	}{
		{nameWMState, &table.wmState},
		{nameNetWMState, &table.netWMState},
		{nameNetWMStateFullscreen, &table.netWMStateFullscreen},
		{nameNetWMDesktop, &table.netWMDesktop},
		{nameNetCurrentDesktop, &table.netCurrentDesktop},
		{nameWMName, &table.wmName},
		{nameWMClass, &table.wmClass},
	} {
		reply, err := xproto.InternAtom(conn, false, uint16(len(entry.name)), entry.name).Reply()
		if err != nil {
			return atomTable{}, errors.Wrapf(err, "intern atom %s", entry.name)
		}
		*entry.dst = reply.Atom
	}

	return table, nil
}
