package sas7bdat

import (
	"encoding/binary"
	"math"

	"lophi/pkg/frame"
)

// Epoch offsets between SAS time values (anchored at 1960-01-01) and the
// Unix epoch.
const (
	sasEpochOffsetDays = 3653
)

// isMissingSentinel reports whether an assembled 8-byte double carries a
// SAS missing-value marker. The marker byte sits next to the sign bit:
// the first byte on little-endian files, the last on big-endian. 0x2E is
// the standard missing '.'; 'A'-'Z' and '_' are the lettered variants.
func isMissingSentinel(buf *[8]byte, bigEndian bool) bool {
	b := buf[0]
	if bigEndian {
		b = buf[7]
	}
	return b == 0x2E || (b >= 0x41 && b <= 0x5A) || b == 0x5F
}

// appendNumericCell reconstructs a possibly truncated double and appends
// it to the series in the column's output representation. SAS stores the
// most significant bytes of the double, so short values pad toward the
// least significant end.
func appendNumericCell(s *frame.Series, col *Column, raw []byte, row uint64, bo byteOrder) error {
	if len(raw) == 0 {
		s.AppendNull()
		return nil
	}

	var buf [8]byte
	if len(raw) >= 8 {
		copy(buf[:], raw[:8])
	} else if bo.bigEndian {
		copy(buf[:len(raw)], raw)
	} else {
		copy(buf[8-len(raw):], raw)
	}

	if isMissingSentinel(&buf, bo.bigEndian) {
		s.AppendNull()
		return nil
	}

	var bits uint64
	if bo.bigEndian {
		bits = binary.BigEndian.Uint64(buf[:])
	} else {
		bits = binary.LittleEndian.Uint64(buf[:])
	}
	v := math.Float64frombits(bits)
	if math.IsNaN(v) {
		s.AppendNull()
		return nil
	}

	switch col.Type {
	case TypeFloat64:
		s.AppendFloat(v)
	case TypeDate:
		days := int64(v) - sasEpochOffsetDays
		if days < math.MinInt32 || days > math.MaxInt32 {
			return &NumericError{Column: col.Name, Row: row, Message: "date value out of range"}
		}
		s.AppendDays(int32(days))
	case TypeDatetime:
		s.AppendInt64(int64((v - sasEpochOffsetSeconds) * 1000))
	case TypeTime:
		s.AppendInt64(int64(v * 1e9))
	default:
		return &NumericError{Column: col.Name, Row: row, Message: "numeric column mapped to string output"}
	}
	return nil
}

// appendCharacterCell decodes a fixed-width text field. An empty string
// after trimming is a null.
func appendCharacterCell(s *frame.Series, raw []byte, enc Encoding) {
	v := enc.decodeTrimmed(raw)
	if v == "" {
		s.AppendNull()
		return
	}
	s.AppendString(v)
}

// appendRow decodes one raw row into the per-column series. A column
// slot past the end of the row yields a null.
func appendRow(series []*frame.Series, cols []Column, row []byte, rowIndex uint64, enc Encoding, bo byteOrder) error {
	for i := range cols {
		col := &cols[i]
		start := int(col.offset)
		end := start + int(col.length)
		if end > len(row) {
			series[i].AppendNull()
			continue
		}
		raw := row[start:end]
		if col.Numeric {
			if err := appendNumericCell(series[i], col, raw, rowIndex, bo); err != nil {
				return err
			}
			continue
		}
		appendCharacterCell(series[i], raw, enc)
	}
	return nil
}
