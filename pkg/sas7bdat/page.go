package sas7bdat

// Page type words. Comp pages hold a whole compressed data page; Amd and
// Meta2 pages carry additional metadata subheaders.
const (
	pageTypeMeta  uint16 = 0x0000
	pageTypeData  uint16 = 0x0100
	pageTypeMix   uint16 = 0x0200
	pageTypeAmd   uint16 = 0x0400
	pageTypeMeta2 uint16 = 0x4000
	pageTypeComp  uint16 = 0x9000
)

// pageHeader is the fixed trio at a page's bit offset.
type pageHeader struct {
	pageType       uint16
	blockCount     uint16
	subheaderCount uint16
}

func parsePageHeader(h *Header, page []byte, pageIndex uint64) (pageHeader, error) {
	o := h.bitOffset()
	if len(page) < o+6 {
		return pageHeader{}, &PageFormatError{Page: pageIndex, Message: "page too short for page header"}
	}
	ph := pageHeader{
		pageType:       h.bo.uint16At(page, o),
		blockCount:     h.bo.uint16At(page, o+2),
		subheaderCount: h.bo.uint16At(page, o+4),
	}
	switch ph.pageType {
	case pageTypeMeta, pageTypeData, pageTypeMix, pageTypeAmd, pageTypeMeta2, pageTypeComp:
		return ph, nil
	}
	return pageHeader{}, &InvalidPageTypeError{Page: pageIndex, Type: ph.pageType}
}

func (p pageHeader) hasSubheaders() bool {
	switch p.pageType {
	case pageTypeMeta, pageTypeMix, pageTypeAmd, pageTypeMeta2:
		return true
	}
	return false
}

func (p pageHeader) isMeta() bool { return p.pageType == pageTypeMeta }
func (p pageHeader) isData() bool { return p.pageType == pageTypeData }
func (p pageHeader) isMix() bool  { return p.pageType == pageTypeMix }
func (p pageHeader) isComp() bool { return p.pageType == pageTypeComp }
