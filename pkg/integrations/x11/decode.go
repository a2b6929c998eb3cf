package x11

import (
	"strings"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

// Property replies arrive as untyped byte buffers; the element type is
// declared out of band by the request. Each decoder below validates the
// buffer shape before reinterpreting it and falls back to an empty value on
// malformed payloads, so a broken property never aborts detection, the
// predicate simply fails to match on that attribute.

// decodeWords reinterprets a payload as a sequence of 32-bit values.
func decodeWords(raw []byte) []uint32 {
	if len(raw) == 0 || len(raw)%4 != 0 {
		return nil
	}
	words := make([]uint32, 0, len(raw)/4)
	for i := 0; i < len(raw); i += 4 {
		words = append(words, xgb.Get32(raw[i:]))
	}
	return words
}

// decodeAtoms reinterprets a payload as a sequence of atom identifiers.
func decodeAtoms(raw []byte) []xproto.Atom {
	words := decodeWords(raw)
	if words == nil {
		return nil
	}
	atoms := make([]xproto.Atom, len(words))
	for i, word := range words {
		atoms[i] = xproto.Atom(word)
	}
	return atoms
}

// decodeClass splits a WM_CLASS payload into its instance and class
// components. The two strings sit back to back, each NUL-terminated; the
// split happens at the first NUL and one trailing NUL is stripped from the
// class component. A payload without a separator decodes to two empty
// strings.
func decodeClass(raw []byte) (instance, class string) {
	s := string(raw)
	i := strings.IndexByte(s, 0)
	if i < 0 {
		return "", ""
	}
	return s[:i], strings.TrimSuffix(s[i+1:], "\x00")
}
