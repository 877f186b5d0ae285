package sas7bdat

import (
	"strings"
	"unicode/utf8"

	xencoding "golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
)

// Encoding identifies the character encoding of all text in a file, as
// recorded by the encoding id byte in the header.
type Encoding struct {
	ID   uint8
	Name string

	enc xencoding.Encoding
}

// Encoding ids observed in the wild. The ids not listed here but present
// in the ianaName table are decoded through x/text by IANA name.
const (
	encodingUnspecified = 0
	encodingUTF8        = 20
	encodingASCII       = 28
	encodingLatin1      = 29
	encodingWindows1252 = 62
)

var ianaNames = map[uint8]string{
	33:  "ISO-8859-2",
	34:  "ISO-8859-3",
	35:  "ISO-8859-4",
	36:  "ISO-8859-5",
	37:  "ISO-8859-6",
	38:  "ISO-8859-7",
	39:  "ISO-8859-8",
	40:  "ISO-8859-9",
	60:  "windows-1250",
	61:  "windows-1251",
	63:  "windows-1253",
	64:  "windows-1254",
	65:  "windows-1255",
	66:  "windows-1256",
	67:  "windows-1257",
	68:  "windows-1258",
	123: "Big5",
	125: "GB18030",
	134: "EUC-JP",
	138: "Shift_JIS",
	140: "EUC-KR",
}

// lookupEncoding resolves an encoding id byte to a decoder. Windows-1252
// is deliberately decoded with the Latin-1 table, matching the reference
// decoder's byte-for-byte fallback for the 0x80-0x9f range.
func lookupEncoding(id uint8) (Encoding, error) {
	switch id {
	case encodingUnspecified:
		return Encoding{ID: id, Name: "unspecified"}, nil
	case encodingUTF8:
		return Encoding{ID: id, Name: "UTF-8"}, nil
	case encodingASCII:
		return Encoding{ID: id, Name: "US-ASCII"}, nil
	case encodingLatin1:
		return Encoding{ID: id, Name: "ISO-8859-1"}, nil
	case encodingWindows1252:
		return Encoding{ID: id, Name: "windows-1252"}, nil
	}
	name, ok := ianaNames[id]
	if !ok {
		return Encoding{}, &UnsupportedEncodingError{ID: id}
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		return Encoding{}, &UnsupportedEncodingError{ID: id}
	}
	return Encoding{ID: id, Name: name, enc: enc}, nil
}

// decode converts raw bytes from the file into a UTF-8 string. Invalid
// sequences are replaced rather than failing, since vendor tools write
// mildly malformed text more often than not.
func (e Encoding) decode(raw []byte) string {
	switch e.ID {
	case encodingUTF8:
		if utf8.Valid(raw) {
			return string(raw)
		}
		return strings.ToValidUTF8(string(raw), string(utf8.RuneError))
	case encodingUnspecified, encodingASCII, encodingLatin1, encodingWindows1252:
		out, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
		if err != nil {
			return string(raw)
		}
		return string(out)
	}
	out, err := e.enc.NewDecoder().Bytes(raw)
	if err != nil {
		return strings.ToValidUTF8(string(raw), string(utf8.RuneError))
	}
	return string(out)
}

// decodeTrimmed decodes and strips trailing spaces and NULs, the padding
// SAS uses inside fixed-width text fields.
func (e Encoding) decodeTrimmed(raw []byte) string {
	return strings.TrimRight(e.decode(raw), " \x00")
}
