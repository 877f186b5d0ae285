package sas7bdat

import "fmt"

// decompressRLE expands a SASYZCRL stream. Control bytes carry a command
// in the high nibble and a length argument in the low nibble. The stream
// must expand to exactly outputLength bytes.
func decompressRLE(input []byte, outputLength int) ([]byte, error) {
	out := make([]byte, 0, outputLength)
	pos := 0

	for len(out) < outputLength {
		if pos >= len(input) {
			return nil, fmt.Errorf("rle: input exhausted at %d with %d of %d bytes written", pos, len(out), outputLength)
		}
		control := input[pos]
		pos++
		cmd := control >> 4
		length := int(control & 0x0F)

		switch cmd {
		case 0x0, 0x1:
			if pos >= len(input) {
				return nil, fmt.Errorf("rle: copy command missing count byte at %d", pos)
			}
			count := int(input[pos]) + 64 + length*256
			pos++
			if cmd == 0x1 {
				count += 4096
			}
			var err error
			out, pos, err = rleCopy(input, pos, out, count, outputLength)
			if err != nil {
				return nil, err
			}
		case 0x2:
			var err error
			out, pos, err = rleCopy(input, pos, out, length+96, outputLength)
			if err != nil {
				return nil, err
			}
		case 0x3:
			return nil, fmt.Errorf("rle: unknown command 0x3 at %d", pos-1)
		case 0x4:
			if pos+1 >= len(input) {
				return nil, fmt.Errorf("rle: fill command missing bytes at %d", pos)
			}
			count := int(input[pos]) + 18 + length*256
			fill := input[pos+1]
			pos += 2
			var err error
			out, err = rleFill(out, fill, count, outputLength)
			if err != nil {
				return nil, err
			}
		case 0x5, 0x6, 0x7:
			if pos >= len(input) {
				return nil, fmt.Errorf("rle: fill command missing count byte at %d", pos)
			}
			count := int(input[pos]) + 17 + length*256
			pos++
			var err error
			out, err = rleFill(out, rleFillByte(cmd), count, outputLength)
			if err != nil {
				return nil, err
			}
		case 0x8, 0x9, 0xA, 0xB:
			count := length + 1 + 16*int(cmd-0x8)
			var err error
			out, pos, err = rleCopy(input, pos, out, count, outputLength)
			if err != nil {
				return nil, err
			}
		case 0xC:
			if pos >= len(input) {
				return nil, fmt.Errorf("rle: fill command missing fill byte at %d", pos)
			}
			fill := input[pos]
			pos++
			var err error
			out, err = rleFill(out, fill, length+3, outputLength)
			if err != nil {
				return nil, err
			}
		case 0xD, 0xE, 0xF:
			var err error
			out, err = rleFill(out, rleFillByte(cmd), length+2, outputLength)
			if err != nil {
				return nil, err
			}
		}
	}

	if len(out) != outputLength {
		return nil, fmt.Errorf("rle: expanded to %d bytes, expected %d", len(out), outputLength)
	}
	return out, nil
}

// rleFillByte maps the implicit-fill commands to their byte: '@' for
// 0x5/0xD, space for 0x6/0xE, NUL for 0x7/0xF.
func rleFillByte(cmd byte) byte {
	switch cmd & 0x3 {
	case 0x1:
		return 0x40
	case 0x2:
		return 0x20
	}
	return 0x00
}

func rleCopy(input []byte, pos int, out []byte, count, outputLength int) ([]byte, int, error) {
	if len(out)+count > outputLength {
		return nil, 0, fmt.Errorf("rle: copy of %d bytes overruns output (%d of %d)", count, len(out), outputLength)
	}
	if pos+count > len(input) {
		return nil, 0, fmt.Errorf("rle: copy of %d bytes underruns input at %d", count, pos)
	}
	return append(out, input[pos:pos+count]...), pos + count, nil
}

func rleFill(out []byte, fill byte, count, outputLength int) ([]byte, error) {
	if len(out)+count > outputLength {
		return nil, fmt.Errorf("rle: fill of %d bytes overruns output (%d of %d)", count, len(out), outputLength)
	}
	for i := 0; i < count; i++ {
		out = append(out, fill)
	}
	return out, nil
}

// decompressRDC expands a SASYZCR2 stream. The format interleaves 16-bit
// big-endian control words with data; each control bit, MSB first, marks
// the next item as a literal byte (0) or a command byte (1).
func decompressRDC(input []byte, outputLength int) ([]byte, error) {
	out := make([]byte, 0, outputLength)
	pos := 0

	for len(out) < outputLength {
		if pos+1 >= len(input) {
			return nil, fmt.Errorf("rdc: input exhausted reading control word at %d", pos)
		}
		control := uint16(input[pos])<<8 | uint16(input[pos+1])
		pos += 2

		for bit := 15; bit >= 0 && len(out) < outputLength; bit-- {
			if control>>uint(bit)&1 == 0 {
				if pos >= len(input) {
					return nil, fmt.Errorf("rdc: input exhausted reading literal at %d", pos)
				}
				out = append(out, input[pos])
				pos++
				continue
			}

			if pos >= len(input) {
				return nil, fmt.Errorf("rdc: input exhausted reading command at %d", pos)
			}
			command := input[pos]
			pos++
			cmd := int(command >> 4)
			cnt := int(command & 0x0F)

			switch cmd {
			case 0: // short fill
				if pos >= len(input) {
					return nil, fmt.Errorf("rdc: short fill missing fill byte at %d", pos)
				}
				fill := input[pos]
				pos++
				var err error
				out, err = rdcFill(out, fill, cnt+3, outputLength)
				if err != nil {
					return nil, err
				}
			case 1: // long fill
				if pos+1 >= len(input) {
					return nil, fmt.Errorf("rdc: long fill missing bytes at %d", pos)
				}
				count := cnt + int(input[pos])<<4 + 19
				fill := input[pos+1]
				pos += 2
				var err error
				out, err = rdcFill(out, fill, count, outputLength)
				if err != nil {
					return nil, err
				}
			case 2: // long back-reference
				if pos+1 >= len(input) {
					return nil, fmt.Errorf("rdc: long pattern missing bytes at %d", pos)
				}
				offset := cnt*256 + int(input[pos])
				count := int(input[pos+1]) + 16
				pos += 2
				var err error
				out, err = rdcCopyBack(out, offset, count, outputLength)
				if err != nil {
					return nil, err
				}
			default: // short back-reference, count is the command nibble
				if pos >= len(input) {
					return nil, fmt.Errorf("rdc: short pattern missing offset byte at %d", pos)
				}
				offset := cnt*256 + int(input[pos])
				pos++
				var err error
				out, err = rdcCopyBack(out, offset, cmd, outputLength)
				if err != nil {
					return nil, err
				}
			}
		}
	}

	if len(out) != outputLength {
		return nil, fmt.Errorf("rdc: expanded to %d bytes, expected %d", len(out), outputLength)
	}
	return out, nil
}

func rdcFill(out []byte, fill byte, count, outputLength int) ([]byte, error) {
	if len(out)+count > outputLength {
		return nil, fmt.Errorf("rdc: fill of %d bytes overruns output (%d of %d)", count, len(out), outputLength)
	}
	for i := 0; i < count; i++ {
		out = append(out, fill)
	}
	return out, nil
}

// rdcCopyBack copies count bytes starting offset bytes behind the write
// position. The copy is byte by byte so a back-reference may overlap the
// bytes it is producing.
func rdcCopyBack(out []byte, offset, count, outputLength int) ([]byte, error) {
	if offset == 0 || offset > len(out) {
		return nil, fmt.Errorf("rdc: back-reference offset %d outside %d produced bytes", offset, len(out))
	}
	if len(out)+count > outputLength {
		return nil, fmt.Errorf("rdc: back-reference of %d bytes overruns output (%d of %d)", count, len(out), outputLength)
	}
	src := len(out) - offset
	for i := 0; i < count; i++ {
		out = append(out, out[src+i])
	}
	return out, nil
}
