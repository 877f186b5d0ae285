package sas7bdat

import (
	"encoding/binary"
	"math"
)

// byteOrder abstracts the file's endianness for fixed-width reads out of
// page buffers. All offsets are caller-checked against the slice length.
type byteOrder struct {
	order binary.ByteOrder
	// bigEndian mirrors order for the places that need a flag rather
	// than a decoder, such as truncated double assembly.
	bigEndian bool
}

var (
	littleEndian = byteOrder{order: binary.LittleEndian}
	bigEndian    = byteOrder{order: binary.BigEndian, bigEndian: true}
)

func (b byteOrder) uint16At(buf []byte, off int) uint16 {
	return b.order.Uint16(buf[off : off+2])
}

func (b byteOrder) uint32At(buf []byte, off int) uint32 {
	return b.order.Uint32(buf[off : off+4])
}

func (b byteOrder) uint64At(buf []byte, off int) uint64 {
	return b.order.Uint64(buf[off : off+8])
}

func (b byteOrder) float64At(buf []byte, off int) float64 {
	return math.Float64frombits(b.uint64At(buf, off))
}

// wordAt reads a u32 or u64 depending on the file's bit width, widening
// to uint64. The header and 64-bit subheaders use this for counts and
// offsets whose width follows the file format.
func (b byteOrder) wordAt(buf []byte, off int, u64 bool) uint64 {
	if u64 {
		return b.uint64At(buf, off)
	}
	return uint64(b.uint32At(buf, off))
}
