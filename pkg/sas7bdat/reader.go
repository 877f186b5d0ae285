// Package sas7bdat decodes the SAS7BDAT binary table format into typed
// columns. The decoder makes two sequential passes over the page stream:
// the first collects metadata subheaders into column definitions, the
// second extracts rows, honoring the row count declared by the metadata.
// Both 32- and 64-bit files are handled in either endianness, including
// RLE and RDC compressed data.
package sas7bdat

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"lophi/pkg/frame"
)

// Reader decodes one SAS7BDAT stream. NewReader parses the header and
// runs the metadata pass; Read then extracts the rows.
type Reader struct {
	src      io.ReadSeeker
	header   *Header
	meta     metadata
	columns  []Column
	fileSize uint64
}

// NewReader parses the file header and scans every page for metadata
// subheaders. The returned reader exposes the column definitions and can
// extract the data rows with Read.
func NewReader(src io.ReadSeeker) (*Reader, error) {
	size, err := src.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, fmt.Errorf("sas7bdat: determining file size: %w", err)
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("sas7bdat: seeking to header: %w", err)
	}

	buf := make([]byte, headerMin)
	n, err := io.ReadFull(src, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, fmt.Errorf("sas7bdat: reading header: %w", err)
	}
	header, err := parseHeader(buf[:n], uint64(size))
	if err != nil {
		return nil, err
	}

	r := &Reader{src: src, header: header, fileSize: uint64(size)}
	if err := r.scanMetadata(); err != nil {
		return nil, err
	}
	r.columns = buildColumns(&r.meta, header.Encoding)
	return r, nil
}

// Header returns the parsed file header.
func (r *Reader) Header() *Header { return r.header }

// Columns returns the column definitions collected by the metadata pass.
func (r *Reader) Columns() []Column { return r.columns }

// ColumnNames returns the column names in file order. This needs only
// the metadata pass, so callers that just inspect a file never pay for
// row extraction.
func (r *Reader) ColumnNames() []string {
	names := make([]string, len(r.columns))
	for i, c := range r.columns {
		names[i] = c.Name
	}
	return names
}

// RowCount returns the number of rows declared by the metadata.
func (r *Reader) RowCount() uint64 { return r.meta.rowCount }

// Compression returns the compression scheme declared by the metadata.
func (r *Reader) Compression() Compression { return r.meta.compression }

// eachPage walks the page stream from the end of the header, handing
// each fully read page to fn. A short read at the end of the file ends
// the walk; fn returning false stops it early.
func (r *Reader) eachPage(fn func(idx uint64, page []byte) (bool, error)) error {
	if _, err := r.src.Seek(int64(r.header.HeaderLength), io.SeekStart); err != nil {
		return fmt.Errorf("sas7bdat: seeking to first page: %w", err)
	}
	page := make([]byte, r.header.PageSize)
	for idx := uint64(0); idx < r.header.PageCount; idx++ {
		if _, err := io.ReadFull(r.src, page); err != nil {
			if err == io.ErrUnexpectedEOF || err == io.EOF {
				return nil
			}
			return fmt.Errorf("sas7bdat: reading page %d: %w", idx, err)
		}
		cont, err := fn(idx, page)
		if err != nil {
			return err
		}
		if !cont {
			return nil
		}
	}
	return nil
}

// scanMetadata is the first pass: fold every metadata subheader on every
// page into the accumulator. Compressed row entries (compression flag
// set, type 1) carry data, not metadata, and are skipped here.
func (r *Reader) scanMetadata() error {
	h := r.header
	return r.eachPage(func(idx uint64, page []byte) (bool, error) {
		ph, err := parsePageHeader(h, page, idx)
		if err != nil {
			return false, err
		}
		if !ph.hasSubheaders() {
			return true, nil
		}
		ptrs, err := parseSubheaderPointers(h, page, ph, idx)
		if err != nil {
			return false, err
		}
		for _, p := range ptrs {
			if p.compression != 0 && p.ptrType == ptrTypeRow {
				continue
			}
			if p.length == 0 {
				continue
			}
			r.meta.processSubheader(h, page[p.offset:p.offset+p.length])
		}
		return true, nil
	})
}

// Read is the second pass: it walks the pages again and decodes every
// row into one series per column, stopping once the declared row count
// is reached. A file whose metadata declares zero rows or no columns is
// rejected.
func (r *Reader) Read(ctx context.Context) ([]*frame.Series, error) {
	if r.meta.rowCount == 0 || len(r.columns) == 0 {
		return nil, &ZeroRowsError{}
	}
	log := zerolog.Ctx(ctx)

	series := make([]*frame.Series, len(r.columns))
	for i, c := range r.columns {
		series[i] = frame.NewSeries(c.Name, frameType(c.Type))
	}

	h := r.header
	var collected uint64
	err := r.eachPage(func(idx uint64, page []byte) (bool, error) {
		if collected >= r.meta.rowCount {
			return false, nil
		}
		if err := ctx.Err(); err != nil {
			return false, err
		}
		ph, err := parsePageHeader(h, page, idx)
		if err != nil {
			return false, err
		}

		if (ph.isMeta() || ph.isMix()) && r.meta.compression != CompressionNone {
			n, err := r.extractCompressedRows(series, page, ph, idx, collected)
			if err != nil {
				return false, err
			}
			collected += n
			if ph.isMix() {
				n, err := r.extractPackedRows(series, page, ph, idx, collected)
				if err != nil {
					return false, err
				}
				collected += n
			}
			return true, nil
		}

		if ph.isData() || ph.isMix() || ph.isComp() {
			n, err := r.extractPackedRows(series, page, ph, idx, collected)
			if err != nil {
				return false, err
			}
			collected += n
		}
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	log.Debug().
		Uint64("rows", collected).
		Int("columns", len(series)).
		Str("compression", r.meta.compression.String()).
		Msg("decoded sas7bdat pages")
	return series, nil
}

// extractCompressedRows decodes individually compressed row subheaders
// on a metadata or mix page. Each qualifying pointer expands to exactly
// one row; truncated-row markers (compression flag 1) hold nothing.
func (r *Reader) extractCompressedRows(series []*frame.Series, page []byte, ph pageHeader, idx, collected uint64) (uint64, error) {
	h := r.header
	ptrs, err := parseSubheaderPointers(h, page, ph, idx)
	if err != nil {
		return 0, err
	}
	var n uint64
	for _, p := range ptrs {
		if collected+n >= r.meta.rowCount {
			break
		}
		if p.compression == 0 || p.ptrType != ptrTypeRow {
			continue
		}
		if p.compression == ptrCompressionTruncated || p.length == 0 {
			continue
		}
		raw := page[p.offset : p.offset+p.length]
		row, err := r.decompress(raw, int(r.meta.rowLength), idx)
		if err != nil {
			return 0, err
		}
		if err := appendRow(series, r.columns, row, collected+n, h.Encoding, h.bo); err != nil {
			return 0, err
		}
		n++
	}
	return n, nil
}

// extractPackedRows decodes the rows packed into a data, mix, or whole-
// page-compressed page. Extraction stops at the page boundary when the
// remaining bytes cannot hold a full row.
func (r *Reader) extractPackedRows(series []*frame.Series, page []byte, ph pageHeader, idx, collected uint64) (uint64, error) {
	h := r.header
	data := page
	start := h.bitOffset() + 8
	var rows uint64

	switch {
	case ph.isComp():
		var err error
		data, err = r.decompress(page, int(h.PageSize), idx)
		if err != nil {
			return 0, err
		}
		rows = uint64(ph.blockCount)
	case ph.isData():
		rows = uint64(ph.blockCount)
	case ph.isMix():
		raw := start + int(ph.subheaderCount)*h.pointerSize()
		start = (raw + 7) &^ 7
		rows = uint64(ph.blockCount) - uint64(ph.subheaderCount)
		if ph.subheaderCount > ph.blockCount {
			rows = 0
		}
		if rows > r.meta.maxMixPageRows {
			rows = r.meta.maxMixPageRows
		}
	default:
		return 0, nil
	}

	if remaining := r.meta.rowCount - collected; rows > remaining {
		rows = remaining
	}

	rowLength := int(r.meta.rowLength)
	var n uint64
	for i := uint64(0); i < rows; i++ {
		off := start + int(i)*rowLength
		if off+rowLength > len(data) {
			break
		}
		if err := appendRow(series, r.columns, data[off:off+rowLength], collected+n, h.Encoding, h.bo); err != nil {
			return 0, err
		}
		n++
	}
	return n, nil
}

// decompress expands a compressed region with the scheme detected in the
// metadata pass. Compressed content without a declared scheme means the
// file is lying about itself.
func (r *Reader) decompress(raw []byte, outputLength int, pageIndex uint64) ([]byte, error) {
	switch r.meta.compression {
	case CompressionRLE:
		out, err := decompressRLE(raw, outputLength)
		if err != nil {
			return nil, &DecompressionError{Page: pageIndex, Message: err.Error()}
		}
		return out, nil
	case CompressionRDC:
		out, err := decompressRDC(raw, outputLength)
		if err != nil {
			return nil, &DecompressionError{Page: pageIndex, Message: err.Error()}
		}
		return out, nil
	}
	return nil, &DecompressionError{Page: pageIndex, Message: "compressed content in a file with no declared compression"}
}

func frameType(t OutputType) frame.Type {
	switch t {
	case TypeDate:
		return frame.Date
	case TypeDatetime:
		return frame.Datetime
	case TypeTime:
		return frame.Time
	case TypeString:
		return frame.String
	}
	return frame.Float64
}

// File is a Reader over an opened file.
type File struct {
	*Reader
	f *os.File
}

// Open opens path and runs the header and metadata passes.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("sas7bdat: %w", err)
	}
	r, err := NewReader(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &File{Reader: r, f: f}, nil
}

// Close closes the underlying file.
func (f *File) Close() error { return f.f.Close() }
