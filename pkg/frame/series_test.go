package frame

import "testing"

func TestSeriesAppendAndMask(t *testing.T) {
	s := NewSeries("x", Float64)
	s.AppendFloat(1.5)
	s.AppendNull()
	s.AppendFloat(-2)

	if s.Name() != "x" || s.Type() != Float64 {
		t.Errorf("identity: %q %v", s.Name(), s.Type())
	}
	if s.Len() != 3 || s.NullCount() != 1 {
		t.Errorf("shape: len=%d nulls=%d", s.Len(), s.NullCount())
	}
	vals, valid, ok := s.Floats()
	if !ok || vals[0] != 1.5 || vals[2] != -2 {
		t.Errorf("values: %v", vals)
	}
	if valid[1] || !valid[0] {
		t.Errorf("mask: %v", valid)
	}
	if _, _, ok := s.Strings(); ok {
		t.Error("Strings on a float series must fail")
	}
}

func TestSeriesTypedAccessors(t *testing.T) {
	d := NewSeries("d", Date)
	d.AppendDays(42)
	if days, _, ok := d.Days(); !ok || days[0] != 42 {
		t.Errorf("days: %v", days)
	}

	dt := NewSeries("dt", Datetime)
	dt.AppendInt64(1500)
	if ms, _, ok := dt.Int64s(); !ok || ms[0] != 1500 {
		t.Errorf("millis: %v", ms)
	}

	str := NewSeries("s", String)
	str.AppendString("v")
	str.AppendNull()
	if strs, valid, ok := str.Strings(); !ok || strs[0] != "v" || valid[1] {
		t.Errorf("strings: %v %v", strs, valid)
	}
}

func TestSeriesTypeMismatchPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("AppendFloat on a string series must panic")
		}
	}()
	NewSeries("s", String).AppendFloat(1)
}
