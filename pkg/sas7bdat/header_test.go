package sas7bdat

import (
	"encoding/binary"
	"math"
	"testing"
)

// 64-bit big-endian header: both alignment pads apply, so fields before
// the page count shift by 4 and fields after it by 8.
func TestParseHeader64BitBigEndian(t *testing.T) {
	h := make([]byte, headerMin)
	copy(h, sas7bdatMagic)
	h[offsetAlign1] = alignValue
	h[offsetAlign2] = alignValue
	h[offsetEndian] = 0x00
	h[offsetEncoding] = encodingLatin1
	copy(h[offsetName:], "WIDE")
	binary.BigEndian.PutUint64(h[offsetCreated+4:], math.Float64bits(315619200)) // 1970-01-01
	binary.BigEndian.PutUint32(h[offsetHeaderLen+4:], headerMin)
	binary.BigEndian.PutUint32(h[offsetPageSize+4:], 4096)
	binary.BigEndian.PutUint64(h[offsetPageCount+4:], 7)
	copy(h[offsetRelease+8:], "9.0401M5")
	copy(h[offsetServer+8:], "W32_10PRO")

	parsed, err := parseHeader(h, headerMin)
	if err != nil {
		t.Fatalf("parseHeader: %v", err)
	}
	if !parsed.u64 || parsed.pad1 != 4 {
		t.Errorf("alignment: u64=%v pad1=%d", parsed.u64, parsed.pad1)
	}
	if !parsed.bo.bigEndian {
		t.Error("endianness: want big endian")
	}
	if parsed.DatasetName != "WIDE" {
		t.Errorf("dataset name: got %q", parsed.DatasetName)
	}
	if parsed.PageSize != 4096 || parsed.PageCount != 7 {
		t.Errorf("geometry: %d x %d", parsed.PageSize, parsed.PageCount)
	}
	if parsed.SASRelease != "9.0401M5" {
		t.Errorf("release: got %q", parsed.SASRelease)
	}
	if parsed.OS != OSWindows {
		t.Errorf("os: got %v, want windows", parsed.OS)
	}
	if parsed.Created.Unix() != 0 {
		t.Errorf("created: got %v, want the Unix epoch", parsed.Created)
	}
	if parsed.bitOffset() != 32 || parsed.pointerSize() != 24 {
		t.Errorf("page layout: bit offset %d, pointer size %d", parsed.bitOffset(), parsed.pointerSize())
	}
}

func TestDetectOS(t *testing.T) {
	tests := []struct {
		server, osName string
		want           OSKind
	}{
		{"W32_10PRO", "", OSWindows},
		{"Linux", "", OSUnix},
		{"SunOS", "", OSUnix},
		{"AIX 7", "", OSUnix},
		{"", "WIN_NT", OSWindows},
		{"", "HP-UX B.11", OSUnix},
		{"", "", OSUnknown},
		{"mystery", "mystery", OSUnknown},
	}
	for _, tt := range tests {
		if got := detectOS(tt.server, tt.osName); got != tt.want {
			t.Errorf("detectOS(%q, %q) = %v, want %v", tt.server, tt.osName, got, tt.want)
		}
	}
}
