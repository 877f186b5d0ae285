package sas7bdat

import (
	"strings"
	"time"
)

// sas7bdatMagic is the 32 byte prefix shared by every SAS7BDAT file.
var sas7bdatMagic = []byte{
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0xc2, 0xea, 0x81, 0x60,
	0xb3, 0x14, 0x11, 0xcf, 0xbd, 0x92, 0x08, 0x00,
	0x09, 0xc7, 0x31, 0x8c, 0x18, 0x1f, 0x10, 0x11,
}

// Header field offsets. Offsets at and beyond the page count shift by the
// extra 64-bit alignment on u64 files; earlier offsets shift only by the
// header alignment flag.
const (
	offsetAlign1    = 32 // 0x33 here marks a 64-bit file
	offsetAlign2    = 35 // 0x33 here adds 4 bytes of header alignment
	offsetEndian    = 37 // 0x01 = little endian
	offsetEncoding  = 70
	offsetName      = 92
	offsetFileType  = 156
	offsetCreated   = 164
	offsetModified  = 172
	offsetHeaderLen = 196
	offsetPageSize  = 200
	offsetPageCount = 204
	offsetRelease   = 216
	offsetServer    = 224
	offsetOSVersion = 240
	offsetOSName    = 256

	alignValue  = 0x33
	headerMin   = 1024
	datasetName = 64

	// Seconds between the SAS epoch (1960-01-01) and the Unix epoch.
	sasEpochOffsetSeconds = 315619200
)

// OSKind is the operating system family that wrote the file.
type OSKind int

const (
	OSUnknown OSKind = iota
	OSUnix
	OSWindows
)

func (o OSKind) String() string {
	switch o {
	case OSUnix:
		return "unix"
	case OSWindows:
		return "windows"
	}
	return "unknown"
}

// Header holds the file-level metadata parsed from the first pages of a
// SAS7BDAT file.
type Header struct {
	DatasetName string
	FileType    string
	Created     time.Time
	Modified    time.Time
	SASRelease  string
	ServerType  string
	OSVersion   string
	OSName      string
	OS          OSKind
	Encoding    Encoding

	HeaderLength uint64
	PageSize     uint64
	PageCount    uint64

	u64  bool
	pad1 int
	bo   byteOrder
}

// bitOffset is the distance from the start of a page to its type word.
func (h *Header) bitOffset() int {
	if h.u64 {
		return 32
	}
	return 16
}

// pointerSize is the on-disk size of one subheader pointer entry.
func (h *Header) pointerSize() int {
	if h.u64 {
		return 24
	}
	return 12
}

func (h *Header) intWidth() int {
	if h.u64 {
		return 8
	}
	return 4
}

// parseHeader decodes the fixed header region. buf must hold at least the
// first headerMin bytes of the file; fileSize is used only for the
// truncation check against the declared header length.
func parseHeader(buf []byte, fileSize uint64) (*Header, error) {
	if len(buf) < headerMin {
		return nil, &TruncatedFileError{Expected: headerMin, Actual: uint64(len(buf))}
	}
	for i, m := range sas7bdatMagic {
		if buf[i] != m {
			return nil, &InvalidMagicError{}
		}
	}

	h := &Header{}
	h.u64 = buf[offsetAlign1] == alignValue
	if buf[offsetAlign2] == alignValue {
		h.pad1 = 4
	}
	u64Pad := 0
	if h.u64 {
		u64Pad = 4
	}
	total := h.pad1 + u64Pad

	h.bo = bigEndian
	if buf[offsetEndian] == 0x01 {
		h.bo = littleEndian
	}

	enc, err := lookupEncoding(buf[offsetEncoding])
	if err != nil {
		return nil, err
	}
	h.Encoding = enc

	h.DatasetName = enc.decodeTrimmed(buf[offsetName : offsetName+datasetName])
	h.FileType = enc.decodeTrimmed(buf[offsetFileType : offsetFileType+8])

	h.Created = sasDatetime(h.bo.float64At(buf, offsetCreated+h.pad1))
	h.Modified = sasDatetime(h.bo.float64At(buf, offsetModified+h.pad1))

	h.HeaderLength = uint64(h.bo.uint32At(buf, offsetHeaderLen+h.pad1))
	h.PageSize = uint64(h.bo.uint32At(buf, offsetPageSize+h.pad1))
	h.PageCount = h.bo.wordAt(buf, offsetPageCount+h.pad1, h.u64)

	h.SASRelease = enc.decodeTrimmed(buf[offsetRelease+total : offsetRelease+total+8])
	h.ServerType = enc.decodeTrimmed(buf[offsetServer+total : offsetServer+total+16])
	h.OSVersion = enc.decodeTrimmed(buf[offsetOSVersion+total : offsetOSVersion+total+16])
	h.OSName = enc.decodeTrimmed(buf[offsetOSName+total : offsetOSName+total+16])
	h.OS = detectOS(h.ServerType, h.OSName)

	if fileSize < h.HeaderLength {
		return nil, &TruncatedFileError{Expected: h.HeaderLength, Actual: fileSize}
	}
	return h, nil
}

// detectOS classifies the writing platform from the server type string,
// falling back to the OS name when the server type is inconclusive.
func detectOS(serverType, osName string) OSKind {
	if os := classifyPlatform(serverType); os != OSUnknown {
		return os
	}
	return classifyPlatform(osName)
}

var unixMarkers = []string{"UNIX", "LINUX", "AIX", "SUN", "HP-UX"}

func classifyPlatform(s string) OSKind {
	u := strings.ToUpper(s)
	if strings.Contains(u, "WIN") || strings.Contains(u, "W32") {
		return OSWindows
	}
	for _, m := range unixMarkers {
		if strings.Contains(u, m) {
			return OSUnix
		}
	}
	return OSUnknown
}

// sasDatetime converts a SAS datetime value (seconds since 1960-01-01)
// into a UTC time.Time.
func sasDatetime(v float64) time.Time {
	sec := int64(v) - sasEpochOffsetSeconds
	frac := v - float64(int64(v))
	return time.Unix(sec, int64(frac*1e9)).UTC()
}
