package sas7bdat

import "fmt"

// InvalidMagicError indicates that the file does not begin with the
// SAS7BDAT magic prefix.
type InvalidMagicError struct{}

func (e *InvalidMagicError) Error() string {
	return "not a SAS7BDAT file: invalid magic number"
}

// TruncatedFileError indicates that the file is shorter than the length
// recorded in its own header.
type TruncatedFileError struct {
	Expected uint64
	Actual   uint64
}

func (e *TruncatedFileError) Error() string {
	return fmt.Sprintf("truncated file: header declares %d bytes, file has %d", e.Expected, e.Actual)
}

// ZeroRowsError indicates that the metadata pass found no rows or no columns.
type ZeroRowsError struct{}

func (e *ZeroRowsError) Error() string {
	return "dataset contains no rows or no columns"
}

// UnsupportedEncodingError indicates a character encoding id with no known
// decoder.
type UnsupportedEncodingError struct {
	ID uint8
}

func (e *UnsupportedEncodingError) Error() string {
	return fmt.Sprintf("unsupported character encoding id %d", e.ID)
}

// InvalidPageTypeError indicates a page whose type field matches no known
// page kind.
type InvalidPageTypeError struct {
	Page uint64
	Type uint16
}

func (e *InvalidPageTypeError) Error() string {
	return fmt.Sprintf("page %d: invalid page type 0x%04x", e.Page, e.Type)
}

// PageFormatError indicates a structurally malformed page, such as a
// subheader pointer reaching past the page boundary.
type PageFormatError struct {
	Page    uint64
	Message string
}

func (e *PageFormatError) Error() string {
	return fmt.Sprintf("page %d: %s", e.Page, e.Message)
}

// DecompressionError indicates that an RLE or RDC stream could not be
// expanded to the expected length.
type DecompressionError struct {
	Page    uint64
	Message string
}

func (e *DecompressionError) Error() string {
	return fmt.Sprintf("page %d: decompression failed: %s", e.Page, e.Message)
}

// NumericError indicates a numeric cell that could not be converted to its
// output type.
type NumericError struct {
	Column  string
	Row     uint64
	Message string
}

func (e *NumericError) Error() string {
	return fmt.Sprintf("column %q row %d: %s", e.Column, e.Row, e.Message)
}
