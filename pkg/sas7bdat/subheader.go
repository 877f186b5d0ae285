package sas7bdat

import "bytes"

// Subheader signatures, read as a u32 in the file's endianness.
const (
	sigRowSize    uint32 = 0xF7F7F7F7
	sigColumnSize uint32 = 0xF6F6F6F6
	sigColumnText uint32 = 0xFFFFFFFD
	sigColumnName uint32 = 0xFFFFFFFF
	sigColumnAttr uint32 = 0xFFFFFFFC
	sigFormat     uint32 = 0xFFFFFBFE
)

// Compression schemes a file can declare in its first column text block.
type Compression int

const (
	CompressionNone Compression = iota
	CompressionRLE
	CompressionRDC
)

func (c Compression) String() string {
	switch c {
	case CompressionRLE:
		return "rle"
	case CompressionRDC:
		return "rdc"
	}
	return "none"
}

var (
	compressRLELiteral = []byte("SASYZCRL")
	compressRDCLiteral = []byte("SASYZCR2")
)

// Subheader pointer compression flags and types.
const (
	ptrCompressionTruncated = 1
	ptrCompressionRow       = 4
	ptrTypeRow              = 1
)

type subheaderPointer struct {
	offset      uint64
	length      uint64
	compression uint8
	ptrType     uint8
}

// metadata accumulates the subheader contents of the first pass. Every
// processor folds into it; the column list is assembled from it once the
// whole file has been scanned.
type metadata struct {
	rowLength      uint64
	rowCount       uint64
	columnCount    uint64
	maxMixPageRows uint64
	compression    Compression

	textBlocks [][]byte
	names      []textRef
	attrs      []columnAttr
	formats    []formatEntry
}

// textRef points into one of the accumulated column text blocks.
type textRef struct {
	textIndex uint16
	offset    uint16
	length    uint16
}

type columnAttr struct {
	offset  uint64
	length  uint32
	numeric bool
}

type formatEntry struct {
	format textRef
	label  textRef
}

// resolve reads the referenced slice out of the text blocks, returning ""
// for out-of-range references.
func (m *metadata) resolve(ref textRef, enc Encoding) string {
	if ref.length == 0 || int(ref.textIndex) >= len(m.textBlocks) {
		return ""
	}
	block := m.textBlocks[ref.textIndex]
	start, end := int(ref.offset), int(ref.offset)+int(ref.length)
	if end > len(block) {
		return ""
	}
	return enc.decodeTrimmed(block[start:end])
}

// parseSubheaderPointers reads the pointer table following the page header.
// Pointers must lie inside the page; a pointer past the boundary is a
// structural error, not a recoverable one.
func parseSubheaderPointers(h *Header, page []byte, ph pageHeader, pageIndex uint64) ([]subheaderPointer, error) {
	start := h.bitOffset() + 8
	size := h.pointerSize()
	ptrs := make([]subheaderPointer, 0, ph.subheaderCount)
	for i := 0; i < int(ph.subheaderCount); i++ {
		base := start + i*size
		if base+size > len(page) {
			return nil, &PageFormatError{Page: pageIndex, Message: "subheader pointer past page boundary"}
		}
		var p subheaderPointer
		if h.u64 {
			p.offset = h.bo.uint64At(page, base)
			p.length = h.bo.uint64At(page, base+8)
			p.compression = page[base+16]
			p.ptrType = page[base+17]
		} else {
			p.offset = uint64(h.bo.uint32At(page, base))
			p.length = uint64(h.bo.uint32At(page, base+4))
			p.compression = page[base+8]
			p.ptrType = page[base+9]
		}
		if p.length > 0 && (p.offset > uint64(len(page)) || p.length > uint64(len(page))-p.offset) {
			return nil, &PageFormatError{Page: pageIndex, Message: "subheader data past page boundary"}
		}
		ptrs = append(ptrs, p)
	}
	return ptrs, nil
}

// subheaderSignature extracts the signature u32. On 64-bit big-endian
// files a leading 0xFFFFFFFF is a marker and the real signature follows.
func subheaderSignature(h *Header, data []byte) (uint32, bool) {
	if len(data) < 4 {
		return 0, false
	}
	sig := h.bo.uint32At(data, 0)
	if h.u64 && h.bo.bigEndian && sig == 0xFFFFFFFF && len(data) >= 8 {
		sig = h.bo.uint32At(data, 4)
	}
	return sig, true
}

// processSubheader dispatches one metadata subheader into the accumulator.
// Unknown signatures are skipped without error.
func (m *metadata) processSubheader(h *Header, data []byte) {
	sig, ok := subheaderSignature(h, data)
	if !ok {
		return
	}
	switch sig {
	case sigRowSize:
		m.processRowSize(h, data)
	case sigColumnSize:
		m.processColumnSize(h, data)
	case sigColumnText:
		m.processColumnText(h, data)
	case sigColumnName:
		m.processColumnName(h, data)
	case sigColumnAttr:
		m.processColumnAttrs(h, data)
	case sigFormat:
		m.processFormat(h, data)
	}
}

func (m *metadata) processRowSize(h *Header, data []byte) {
	if h.u64 {
		if len(data) >= 56 {
			m.rowLength = h.bo.uint64At(data, 40)
			m.rowCount = h.bo.uint64At(data, 48)
		}
		if len(data) >= 128 {
			m.maxMixPageRows = h.bo.uint64At(data, 120)
		}
		return
	}
	if len(data) >= 28 {
		m.rowLength = uint64(h.bo.uint32At(data, 20))
		m.rowCount = uint64(h.bo.uint32At(data, 24))
	}
	if len(data) >= 64 {
		m.maxMixPageRows = uint64(h.bo.uint32At(data, 60))
	}
}

func (m *metadata) processColumnSize(h *Header, data []byte) {
	if h.u64 {
		if len(data) >= 16 {
			m.columnCount = h.bo.uint64At(data, 8)
		}
		return
	}
	if len(data) >= 8 {
		m.columnCount = uint64(h.bo.uint32At(data, 4))
	}
}

// processColumnText appends the block after the signature. Only the first
// block is probed for the compression literal, which sits at offset 12
// inside the block when present.
func (m *metadata) processColumnText(h *Header, data []byte) {
	sigLen := h.intWidth()
	if sigLen >= len(data) {
		return
	}
	block := data[sigLen:]
	if len(m.textBlocks) == 0 && len(block) >= 20 {
		probe := block[12:20]
		switch {
		case bytes.Equal(probe, compressRLELiteral):
			m.compression = CompressionRLE
		case bytes.Equal(probe, compressRDCLiteral):
			m.compression = CompressionRDC
		}
	}
	m.textBlocks = append(m.textBlocks, append([]byte(nil), block...))
}

func (m *metadata) processColumnName(h *Header, data []byte) {
	start := 12
	if h.u64 {
		start = 16
	}
	if len(data) < start {
		return
	}
	entries := data[start:]
	for i := 0; i+8 <= len(entries); i += 8 {
		m.names = append(m.names, textRef{
			textIndex: h.bo.uint16At(entries, i),
			offset:    h.bo.uint16At(entries, i+2),
			length:    h.bo.uint16At(entries, i+4),
		})
	}
}

func (m *metadata) processColumnAttrs(h *Header, data []byte) {
	entrySize, start := 12, 12
	if h.u64 {
		entrySize, start = 16, 16
	}
	if len(data) < start {
		return
	}
	entries := data[start:]
	for i := 0; i+entrySize <= len(entries); i += entrySize {
		var a columnAttr
		if h.u64 {
			a.offset = h.bo.uint64At(entries, i)
			a.length = h.bo.uint32At(entries, i+8)
			a.numeric = entries[i+14] == 1
		} else {
			a.offset = uint64(h.bo.uint32At(entries, i))
			a.length = h.bo.uint32At(entries, i+4)
			a.numeric = entries[i+10] == 1
		}
		m.attrs = append(m.attrs, a)
	}
}

func (m *metadata) processFormat(h *Header, data []byte) {
	entrySize, start := 46, 12
	if h.u64 {
		entrySize, start = 52, 16
	}
	if len(data) < start {
		return
	}
	entries := data[start:]
	for i := 0; i+entrySize <= len(entries); i += entrySize {
		m.formats = append(m.formats, formatEntry{
			format: textRef{
				textIndex: h.bo.uint16At(entries, i),
				offset:    h.bo.uint16At(entries, i+2),
				length:    h.bo.uint16At(entries, i+4),
			},
			label: textRef{
				textIndex: h.bo.uint16At(entries, i+6),
				offset:    h.bo.uint16At(entries, i+8),
				length:    h.bo.uint16At(entries, i+10),
			},
		})
	}
}
