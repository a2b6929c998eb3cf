package x11

import (
	"reflect"
	"testing"

	"github.com/jezek/xgb/xproto"
)

func TestDecodeWords(t *testing.T) {
	tests := []struct {
		name string
		raw  []byte
		want []uint32
	}{
		{
			name: "empty payload",
			raw:  nil,
			want: nil,
		},
		{
			name: "single word",
			raw:  []byte{1, 0, 0, 0},
			want: []uint32{1},
		},
		{
			name: "two words little endian",
			raw:  []byte{2, 0, 0, 0, 0, 1, 0, 0},
			want: []uint32{2, 256},
		},
		{
			name: "truncated payload",
			raw:  []byte{1, 0, 0},
			want: nil,
		},
		{
			name: "length not a multiple of four",
			raw:  []byte{1, 0, 0, 0, 9},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := decodeWords(tt.raw)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("decodeWords(%v) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestDecodeAtoms(t *testing.T) {
	raw := []byte{42, 0, 0, 0, 7, 0, 0, 0}
	want := []xproto.Atom{42, 7}

	got := decodeAtoms(raw)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("decodeAtoms(%v) = %v, want %v", raw, got, want)
	}

	if got := decodeAtoms([]byte{1, 2}); got != nil {
		t.Errorf("decodeAtoms on malformed payload = %v, want nil", got)
	}
}

func TestDecodeClass(t *testing.T) {
	tests := []struct {
		name         string
		raw          []byte
		wantInstance string
		wantClass    string
	}{
		{
			name:         "typical pair",
			raw:          []byte("firefox\x00Firefox\x00"),
			wantInstance: "firefox",
			wantClass:    "Firefox",
		},
		{
			name:         "no internal null",
			raw:          []byte("mpv"),
			wantInstance: "",
			wantClass:    "",
		},
		{
			name:         "missing trailing null",
			raw:          []byte("mpv\x00mpv"),
			wantInstance: "mpv",
			wantClass:    "mpv",
		},
		{
			name:         "empty payload",
			raw:          nil,
			wantInstance: "",
			wantClass:    "",
		},
		{
			name:         "empty components",
			raw:          []byte("\x00\x00"),
			wantInstance: "",
			wantClass:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			instance, class := decodeClass(tt.raw)
			if instance != tt.wantInstance || class != tt.wantClass {
				t.Errorf("decodeClass(%q) = (%q, %q), want (%q, %q)",
					tt.raw, instance, class, tt.wantInstance, tt.wantClass)
			}
		})
	}
}
