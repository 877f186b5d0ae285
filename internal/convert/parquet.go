package convert

import (
	"fmt"
	"io"

	"github.com/parquet-go/parquet-go"

	"lophi/pkg/frame"
)

// WriteParquet writes the series as a Parquet file with one optional
// leaf per column. The schema is derived from the column types: DOUBLE,
// DATE, TIMESTAMP(ms), TIME(ns) and UTF-8 byte arrays.
func WriteParquet(w io.Writer, series []*frame.Series) error {
	group := parquet.Group{}
	for _, s := range series {
		group[s.Name()] = parquet.Optional(parquetNode(s.Type()))
	}
	schema := parquet.NewSchema("dataset", group)

	pw := parquet.NewGenericWriter[map[string]any](w, schema)

	rows := 0
	if len(series) > 0 {
		rows = series[0].Len()
	}
	batch := make([]map[string]any, 0, 1024)
	for r := 0; r < rows; r++ {
		row := make(map[string]any, len(series))
		for _, s := range series {
			row[s.Name()] = parquetValue(s, r)
		}
		batch = append(batch, row)
		if len(batch) == cap(batch) {
			if _, err := pw.Write(batch); err != nil {
				return fmt.Errorf("writing parquet rows: %w", err)
			}
			batch = batch[:0]
		}
	}
	if len(batch) > 0 {
		if _, err := pw.Write(batch); err != nil {
			return fmt.Errorf("writing parquet rows: %w", err)
		}
	}
	if err := pw.Close(); err != nil {
		return fmt.Errorf("closing parquet writer: %w", err)
	}
	return nil
}

func parquetNode(t frame.Type) parquet.Node {
	switch t {
	case frame.Date:
		return parquet.Date()
	case frame.Datetime:
		return parquet.Timestamp(parquet.Millisecond)
	case frame.Time:
		return parquet.Time(parquet.Nanosecond)
	case frame.String:
		return parquet.String()
	}
	return parquet.Leaf(parquet.DoubleType)
}

func parquetValue(s *frame.Series, row int) any {
	if !s.Valid(row) {
		return nil
	}
	switch s.Type() {
	case frame.Float64:
		vals, _, _ := s.Floats()
		return vals[row]
	case frame.Date:
		days, _, _ := s.Days()
		return days[row]
	case frame.Datetime, frame.Time:
		vals, _, _ := s.Int64s()
		return vals[row]
	case frame.String:
		strs, _, _ := s.Strings()
		return strs[row]
	}
	return nil
}
