package sas7bdat

import "testing"

func TestInferOutputType(t *testing.T) {
	tests := []struct {
		format  string
		numeric bool
		want    OutputType
	}{
		{"", true, TypeFloat64},
		{"BEST12", true, TypeFloat64},
		{"DATE9", true, TypeDate},
		{"date9", true, TypeDate},
		{"MMDDYY10.", true, TypeDate},
		{"DDMMYY8", true, TypeDate},
		{"YYMMDD10", true, TypeDate},
		{"YYMMDDD10", true, TypeDate},
		{"JULIAN7", true, TypeDate},
		{"DATETIME20.3", true, TypeDatetime},
		{"TIME8", true, TypeTime},
		{"DOLLAR12.2", true, TypeFloat64},
		{"DATE9", false, TypeString},
		{"", false, TypeString},
	}
	for _, tt := range tests {
		if got := inferOutputType(tt.format, tt.numeric); got != tt.want {
			t.Errorf("inferOutputType(%q, %v) = %v, want %v", tt.format, tt.numeric, got, tt.want)
		}
	}
}

func TestBuildColumnsMinRule(t *testing.T) {
	enc, _ := lookupEncoding(encodingUTF8)
	m := &metadata{
		textBlocks: [][]byte{[]byte("abcdefDATE9label")},
		names: []textRef{
			{0, 0, 1},
			{0, 1, 1},
			{0, 2, 1}, // no matching attribute entry
		},
		attrs: []columnAttr{
			{offset: 0, length: 8, numeric: true},
			{offset: 8, length: 4, numeric: false},
		},
		formats: []formatEntry{
			{format: textRef{0, 6, 5}, label: textRef{0, 11, 5}},
		},
	}

	cols := buildColumns(m, enc)
	if len(cols) != 2 {
		t.Fatalf("column count: got %d, want min(names, attrs) = 2", len(cols))
	}
	if cols[0].Name != "a" || cols[1].Name != "b" {
		t.Errorf("names: got %q, %q", cols[0].Name, cols[1].Name)
	}
	if cols[0].Format != "DATE9" || cols[0].Label != "label" {
		t.Errorf("format/label: got %q/%q", cols[0].Format, cols[0].Label)
	}
	if cols[0].Type != TypeDate {
		t.Errorf("typed from format: got %v", cols[0].Type)
	}
	// Second column has no format entry.
	if cols[1].Format != "" || cols[1].Label != "" {
		t.Errorf("missing format entry: got %q/%q", cols[1].Format, cols[1].Label)
	}
	if cols[1].Type != TypeString {
		t.Errorf("character column type: got %v", cols[1].Type)
	}
}

func TestResolveOutOfRange(t *testing.T) {
	enc, _ := lookupEncoding(encodingUTF8)
	m := &metadata{textBlocks: [][]byte{[]byte("abc")}}
	if got := m.resolve(textRef{5, 0, 3}, enc); got != "" {
		t.Errorf("bad text index: got %q", got)
	}
	if got := m.resolve(textRef{0, 2, 10}, enc); got != "" {
		t.Errorf("overlong reference: got %q", got)
	}
	if got := m.resolve(textRef{0, 0, 0}, enc); got != "" {
		t.Errorf("empty reference: got %q", got)
	}
}
