package storage

import (
	"encoding/binary"
	"fmt"
)

// PageHeader is the 8 or 12-byte header at the start of every B-tree
// page (spec.md §3 "Page"). Generalizes the teacher's PageHeader
// (app/types.go), which omitted the interior-only right-most-child
// field entirely.
type PageHeader struct {
	Type             PageType
	FreeBlockStart   uint16
	CellCount        uint16
	ContentAreaStart int // 0 on disk means 65536, already resolved here
	FragmentedBytes  uint8
	RightmostChild   uint32 // only set on interior pages
}

// Page is a fully decoded page: its header and every cell reachable from
// its cell-pointer array, in cell-pointer order (spec.md §4.6).
type Page struct {
	Number int
	Header PageHeader
	Cells  []Cell
}

// decodePage parses a raw page buffer into header + cells. For page 1,
// headerOffset must be 100 (the page header follows the database
// header); every other page uses 0 (spec.md §4.6 step 1).
func decodePage(pager *Pager, number int, buf []byte, headerOffset int, usable int) (*Page, error) {
	if len(buf) < headerOffset+8 {
		return nil, newErr(KindShortRead, "decode page", number, headerOffset, "page_header", nil)
	}

	pt, err := newPageType(buf[headerOffset])
	if err != nil {
		if e, ok := err.(*Error); ok {
			e.Page = number
			e.Offset = headerOffset
		}
		return nil, err
	}

	contentArea := int(binary.BigEndian.Uint16(buf[headerOffset+5 : headerOffset+7]))
	if contentArea == 0 {
		contentArea = 65536
	}

	h := PageHeader{
		Type:             pt,
		FreeBlockStart:   binary.BigEndian.Uint16(buf[headerOffset+1 : headerOffset+3]),
		CellCount:        binary.BigEndian.Uint16(buf[headerOffset+3 : headerOffset+5]),
		ContentAreaStart: contentArea,
		FragmentedBytes:  buf[headerOffset+7],
	}

	cellPtrStart := headerOffset + 8
	if !pt.IsLeaf() {
		if len(buf) < headerOffset+12 {
			return nil, newErr(KindShortRead, "decode page", number, headerOffset, "rightmost_child", nil)
		}
		h.RightmostChild = binary.BigEndian.Uint32(buf[headerOffset+8 : headerOffset+12])
		cellPtrStart = headerOffset + 12
	}

	if cellPtrStart+int(h.CellCount)*2 > len(buf) {
		return nil, newErr(KindShortRead, "decode page", number, cellPtrStart, "cell_pointer_array", nil)
	}

	cells := make([]Cell, h.CellCount)
	for i := 0; i < int(h.CellCount); i++ {
		ptrOffset := cellPtrStart + i*2
		cellOffset := int(binary.BigEndian.Uint16(buf[ptrOffset : ptrOffset+2]))
		if cellOffset == 0 {
			continue
		}
		if cellOffset >= len(buf) {
			return nil, newErr(KindShortCell, "decode page", number, cellOffset,
				fmt.Sprintf("cell[%d]", i), nil)
		}

		cell, err := decodeCell(pager, number, pt, buf, cellOffset, usable)
		if err != nil {
			return nil, err
		}
		cells[i] = cell
	}

	return &Page{Number: number, Header: h, Cells: cells}, nil
}
