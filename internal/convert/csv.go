// Package convert writes decoded datasets to CSV and Parquet files.
package convert

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"lophi/pkg/frame"
)

// WriteCSV writes the series as CSV with a header row. Null cells are
// written as empty fields.
func WriteCSV(w io.Writer, series []*frame.Series) error {
	cw := csv.NewWriter(w)

	header := make([]string, len(series))
	for i, s := range series {
		header[i] = s.Name()
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}

	rows := 0
	if len(series) > 0 {
		rows = series[0].Len()
	}
	record := make([]string, len(series))
	for r := 0; r < rows; r++ {
		for i, s := range series {
			record[i] = formatCell(s, r)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing csv row %d: %w", r, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatCell(s *frame.Series, row int) string {
	if !s.Valid(row) {
		return ""
	}
	switch s.Type() {
	case frame.Float64:
		vals, _, _ := s.Floats()
		return strconv.FormatFloat(vals[row], 'g', -1, 64)
	case frame.Date:
		days, _, _ := s.Days()
		return time.Unix(int64(days[row])*86400, 0).UTC().Format("2006-01-02")
	case frame.Datetime:
		ms, _, _ := s.Int64s()
		return time.UnixMilli(ms[row]).UTC().Format("2006-01-02T15:04:05.000Z")
	case frame.Time:
		ns, _, _ := s.Int64s()
		return strconv.FormatFloat(float64(ns[row])/1e9, 'f', -1, 64)
	case frame.String:
		strs, _, _ := s.Strings()
		return strs[row]
	}
	return ""
}
