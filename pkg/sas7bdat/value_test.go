package sas7bdat

import (
	"encoding/binary"
	"math"
	"testing"

	"lophi/pkg/frame"
)

func floatCell(t *testing.T, raw []byte, bo byteOrder) (float64, bool) {
	t.Helper()
	s := frame.NewSeries("v", frame.Float64)
	col := &Column{Name: "v", Numeric: true, Type: TypeFloat64}
	if err := appendNumericCell(s, col, raw, 0, bo); err != nil {
		t.Fatalf("appendNumericCell(%v): %v", raw, err)
	}
	vals, _, _ := s.Floats()
	return vals[0], s.Valid(0)
}

// Truncated numerics store the most significant bytes of the double, so
// any value whose low-order bytes are zero must round-trip through the
// shortened representation.
func TestTruncatedDoubleRoundTrip(t *testing.T) {
	values := []float64{1.0, -2.5, 1024.0, 42.0, 3.14159, -1e300, 0.5}
	for _, v := range values {
		var full [8]byte
		binary.LittleEndian.PutUint64(full[:], math.Float64bits(v))
		leading := 0
		for leading < 5 && full[leading] == 0 {
			leading++
		}
		for k := 0; k <= leading; k++ {
			raw := full[k:]
			got, valid := floatCell(t, raw, littleEndian)
			if !valid || got != v {
				t.Errorf("LE %v truncated to %d bytes: got %v (valid=%v)", v, len(raw), got, valid)
			}
		}

		binary.BigEndian.PutUint64(full[:], math.Float64bits(v))
		trailing := 8
		for trailing > 3 && full[trailing-1] == 0 {
			trailing--
		}
		for l := trailing; l <= 8; l++ {
			raw := full[:l]
			got, valid := floatCell(t, raw, bigEndian)
			if !valid || got != v {
				t.Errorf("BE %v truncated to %d bytes: got %v (valid=%v)", v, len(raw), got, valid)
			}
		}
	}
}

func TestMissingSentinels(t *testing.T) {
	sentinels := []byte{0x2E, 0x5F}
	for b := byte(0x41); b <= 0x5A; b++ {
		sentinels = append(sentinels, b)
	}
	for _, b := range sentinels {
		le := make([]byte, 8)
		le[0] = b
		if _, valid := floatCell(t, le, littleEndian); valid {
			t.Errorf("LE sentinel 0x%02X decoded as a value", b)
		}

		be := make([]byte, 8)
		be[7] = b
		if _, valid := floatCell(t, be, bigEndian); valid {
			t.Errorf("BE sentinel 0x%02X decoded as a value", b)
		}
	}
}

func TestNumericNulls(t *testing.T) {
	if _, valid := floatCell(t, nil, littleEndian); valid {
		t.Error("zero-length numeric decoded as a value")
	}

	var nan [8]byte
	binary.LittleEndian.PutUint64(nan[:], math.Float64bits(math.NaN()))
	if _, valid := floatCell(t, nan[:], littleEndian); valid {
		t.Error("NaN decoded as a value")
	}
}

func TestEpochConversions(t *testing.T) {
	encode := func(v float64) []byte {
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], math.Float64bits(v))
		return b[:]
	}

	dates := frame.NewSeries("d", frame.Date)
	dcol := &Column{Name: "d", Numeric: true, Type: TypeDate}
	for _, v := range []float64{3653, 0, 3653 + 19724} {
		if err := appendNumericCell(dates, dcol, encode(v), 0, littleEndian); err != nil {
			t.Fatalf("date cell: %v", err)
		}
	}
	days, _, _ := dates.Days()
	for i, want := range []int32{0, -3653, 19724} {
		if days[i] != want {
			t.Errorf("date %d: got %d days, want %d", i, days[i], want)
		}
	}

	dts := frame.NewSeries("dt", frame.Datetime)
	dtcol := &Column{Name: "dt", Numeric: true, Type: TypeDatetime}
	for _, v := range []float64{315619200, 315619201.5} {
		if err := appendNumericCell(dts, dtcol, encode(v), 0, littleEndian); err != nil {
			t.Fatalf("datetime cell: %v", err)
		}
	}
	ms, _, _ := dts.Int64s()
	for i, want := range []int64{0, 1500} {
		if ms[i] != want {
			t.Errorf("datetime %d: got %d ms, want %d", i, ms[i], want)
		}
	}

	times := frame.NewSeries("t", frame.Time)
	tcol := &Column{Name: "t", Numeric: true, Type: TypeTime}
	if err := appendNumericCell(times, tcol, encode(1.5), 0, littleEndian); err != nil {
		t.Fatalf("time cell: %v", err)
	}
	ns, _, _ := times.Int64s()
	if ns[0] != 1500000000 {
		t.Errorf("time: got %d ns, want 1500000000", ns[0])
	}
}

func TestCharacterCells(t *testing.T) {
	enc, err := lookupEncoding(encodingLatin1)
	if err != nil {
		t.Fatalf("lookupEncoding: %v", err)
	}

	s := frame.NewSeries("c", frame.String)
	appendCharacterCell(s, []byte("abc   "), enc)
	appendCharacterCell(s, []byte("      "), enc)
	appendCharacterCell(s, []byte{0xE9, ' ', ' '}, enc)

	strs, _, _ := s.Strings()
	if strs[0] != "abc" || !s.Valid(0) {
		t.Errorf("trimmed cell: got %q", strs[0])
	}
	if s.Valid(1) {
		t.Error("all-space cell decoded as a value")
	}
	if strs[2] != "é" {
		t.Errorf("latin-1 cell: got %q, want %q", strs[2], "é")
	}
}
