package sas7bdat

import (
	"errors"
	"testing"
)

func TestLookupEncoding(t *testing.T) {
	known := []struct {
		id   uint8
		name string
	}{
		{0, "unspecified"},
		{20, "UTF-8"},
		{28, "US-ASCII"},
		{29, "ISO-8859-1"},
		{62, "windows-1252"},
		{33, "ISO-8859-2"},
		{60, "windows-1250"},
		{125, "GB18030"},
		{138, "Shift_JIS"},
	}
	for _, tt := range known {
		enc, err := lookupEncoding(tt.id)
		if err != nil {
			t.Errorf("lookupEncoding(%d): %v", tt.id, err)
			continue
		}
		if enc.Name != tt.name {
			t.Errorf("lookupEncoding(%d): got %q, want %q", tt.id, enc.Name, tt.name)
		}
	}

	var ue *UnsupportedEncodingError
	if _, err := lookupEncoding(99); !errors.As(err, &ue) {
		t.Errorf("lookupEncoding(99): got %v, want UnsupportedEncodingError", err)
	}
}

func TestDecodeLatin1(t *testing.T) {
	for _, id := range []uint8{encodingUnspecified, encodingLatin1, encodingWindows1252} {
		enc, err := lookupEncoding(id)
		if err != nil {
			t.Fatalf("lookupEncoding(%d): %v", id, err)
		}
		if got := enc.decode([]byte{'c', 'a', 'f', 0xE9}); got != "café" {
			t.Errorf("id %d: got %q", id, got)
		}
	}
}

// Windows-1252 ids decode through the Latin-1 table, so 0x80-0x9F come
// out as C1 control characters rather than the 1252 glyphs.
func TestWindows1252Latin1Fallback(t *testing.T) {
	enc, err := lookupEncoding(encodingWindows1252)
	if err != nil {
		t.Fatalf("lookupEncoding: %v", err)
	}
	if got := enc.decode([]byte{0x80}); got != "" {
		t.Errorf("got %q, want %q", got, "")
	}
}

func TestDecodeUTF8Lossy(t *testing.T) {
	enc, err := lookupEncoding(encodingUTF8)
	if err != nil {
		t.Fatalf("lookupEncoding: %v", err)
	}
	if got := enc.decode([]byte("ok")); got != "ok" {
		t.Errorf("valid utf-8: got %q", got)
	}
	got := enc.decode([]byte{'a', 0xFF, 'b'})
	if got != "a�b" {
		t.Errorf("invalid utf-8: got %q", got)
	}
}

func TestDecodeTrimmed(t *testing.T) {
	enc, _ := lookupEncoding(encodingUTF8)
	if got := enc.decodeTrimmed([]byte("name\x00\x00  ")); got != "name" {
		t.Errorf("got %q", got)
	}
}
