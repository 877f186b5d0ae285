// Package frame holds typed column containers for decoded datasets. A
// Series is one column: a typed value slice plus a validity mask, built
// incrementally by the decoder and read by the analysis and export code.
package frame

import "fmt"

// Type enumerates the value representations a Series can hold.
type Type int

const (
	Float64 Type = iota
	Date         // days since the Unix epoch, int32
	Datetime     // milliseconds since the Unix epoch, int64
	Time         // nanoseconds since midnight, int64
	String
)

func (t Type) String() string {
	switch t {
	case Float64:
		return "float64"
	case Date:
		return "date"
	case Datetime:
		return "datetime"
	case Time:
		return "time"
	case String:
		return "string"
	}
	return "unknown"
}

// Series is a named, typed column with a per-row validity mask. Exactly
// one of the value slices is populated, chosen by the type.
type Series struct {
	name string
	typ  Type

	floats  []float64
	days    []int32
	int64s  []int64 // millis for Datetime, nanos for Time
	strings []string
	valid   []bool
}

// NewSeries creates an empty column of the given type.
func NewSeries(name string, typ Type) *Series {
	return &Series{name: name, typ: typ}
}

func (s *Series) Name() string { return s.name }
func (s *Series) Type() Type   { return s.typ }
func (s *Series) Len() int     { return len(s.valid) }

// Valid reports whether row i holds a value.
func (s *Series) Valid(i int) bool { return s.valid[i] }

// NullCount returns the number of null rows.
func (s *Series) NullCount() int {
	n := 0
	for _, v := range s.valid {
		if !v {
			n++
		}
	}
	return n
}

// AppendNull adds a null row.
func (s *Series) AppendNull() {
	switch s.typ {
	case Float64:
		s.floats = append(s.floats, 0)
	case Date:
		s.days = append(s.days, 0)
	case Datetime, Time:
		s.int64s = append(s.int64s, 0)
	case String:
		s.strings = append(s.strings, "")
	}
	s.valid = append(s.valid, false)
}

// AppendFloat adds a float row. The series must be Float64 typed.
func (s *Series) AppendFloat(v float64) {
	if s.typ != Float64 {
		panic(fmt.Sprintf("frame: AppendFloat on %s series %q", s.typ, s.name))
	}
	s.floats = append(s.floats, v)
	s.valid = append(s.valid, true)
}

// AppendDays adds a date row as days since the Unix epoch.
func (s *Series) AppendDays(v int32) {
	if s.typ != Date {
		panic(fmt.Sprintf("frame: AppendDays on %s series %q", s.typ, s.name))
	}
	s.days = append(s.days, v)
	s.valid = append(s.valid, true)
}

// AppendInt64 adds a datetime (milliseconds) or time (nanoseconds) row.
func (s *Series) AppendInt64(v int64) {
	if s.typ != Datetime && s.typ != Time {
		panic(fmt.Sprintf("frame: AppendInt64 on %s series %q", s.typ, s.name))
	}
	s.int64s = append(s.int64s, v)
	s.valid = append(s.valid, true)
}

// AppendString adds a string row.
func (s *Series) AppendString(v string) {
	if s.typ != String {
		panic(fmt.Sprintf("frame: AppendString on %s series %q", s.typ, s.name))
	}
	s.strings = append(s.strings, v)
	s.valid = append(s.valid, true)
}

// Floats returns the backing float slice and validity mask. The second
// return is false for non-float series.
func (s *Series) Floats() ([]float64, []bool, bool) {
	if s.typ != Float64 {
		return nil, nil, false
	}
	return s.floats, s.valid, true
}

// Days returns the backing day slice for a Date series.
func (s *Series) Days() ([]int32, []bool, bool) {
	if s.typ != Date {
		return nil, nil, false
	}
	return s.days, s.valid, true
}

// Int64s returns the backing int64 slice for Datetime or Time series.
func (s *Series) Int64s() ([]int64, []bool, bool) {
	if s.typ != Datetime && s.typ != Time {
		return nil, nil, false
	}
	return s.int64s, s.valid, true
}

// Strings returns the backing string slice for a String series.
func (s *Series) Strings() ([]string, []bool, bool) {
	if s.typ != String {
		return nil, nil, false
	}
	return s.strings, s.valid, true
}
