package sas7bdat

import "strings"

// OutputType is the decoded representation of a column.
type OutputType int

const (
	TypeFloat64 OutputType = iota
	TypeDate
	TypeDatetime
	TypeTime
	TypeString
)

func (t OutputType) String() string {
	switch t {
	case TypeFloat64:
		return "float64"
	case TypeDate:
		return "date"
	case TypeDatetime:
		return "datetime"
	case TypeTime:
		return "time"
	case TypeString:
		return "string"
	}
	return "unknown"
}

// Column describes one decoded column: its identity, its slot inside a
// raw row, and the output type inferred from its SAS format.
type Column struct {
	Index   int
	Name    string
	Format  string
	Label   string
	Numeric bool
	Type    OutputType

	offset uint64
	length uint32
}

// dateFormats are the SAS formats decoded as calendar dates. The format
// name is compared after stripping any trailing width/precision digits.
var dateFormats = map[string]bool{
	"DATE":    true,
	"DDMMYY":  true,
	"MMDDYY":  true,
	"YYMMDD":  true,
	"YYMMDDD": true,
	"JULIAN":  true,
}

// inferOutputType maps a column's SAS format to its decoded type.
// Character columns always decode to strings regardless of format.
func inferOutputType(format string, numeric bool) OutputType {
	if !numeric {
		return TypeString
	}
	stripped := strings.ToUpper(strings.TrimRight(format, "0123456789."))
	switch {
	case dateFormats[stripped]:
		return TypeDate
	case stripped == "DATETIME":
		return TypeDatetime
	case stripped == "TIME":
		return TypeTime
	}
	return TypeFloat64
}

// buildColumns assembles the final column list from the accumulated
// subheader entries. The column count is the smaller of the name and
// attribute entry counts; a column without a format entry gets an empty
// format and label.
func buildColumns(m *metadata, enc Encoding) []Column {
	n := len(m.names)
	if len(m.attrs) < n {
		n = len(m.attrs)
	}
	cols := make([]Column, n)
	for i := 0; i < n; i++ {
		c := Column{
			Index:   i,
			Name:    m.resolve(m.names[i], enc),
			Numeric: m.attrs[i].numeric,
			offset:  m.attrs[i].offset,
			length:  m.attrs[i].length,
		}
		if i < len(m.formats) {
			c.Format = m.resolve(m.formats[i].format, enc)
			c.Label = m.resolve(m.formats[i].label, enc)
		}
		c.Type = inferOutputType(c.Format, c.Numeric)
		cols[i] = c
	}
	return cols
}
