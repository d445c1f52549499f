package storage

import (
	"encoding/binary"
	"fmt"
)

// Cell is one decoded B-tree cell (spec.md §3 "Cell"). Which fields are
// populated depends on the page type it came from: interior cells carry
// LeftChild, leaf/index-interior cells carry a reassembled Record.
// Generalizes the teacher's Cell (app/types.go), which never modeled
// overflow at all.
type Cell struct {
	LeftChild uint32 // table/index interior cells
	RowID     int64  // table leaf/interior cells; zero for index cells
	Record    Record // leaf cells and index-interior cells
}

// decodeCell parses one cell from page[offset:] according to pt, using
// pager to walk any overflow chain. page is the page number the cell
// lives on, used only for error context.
func decodeCell(pager *Pager, page int, pt PageType, pageBuf []byte, offset int, usable int) (Cell, error) {
	var c Cell
	pos := offset

	if pt == PageTypeTableInterior || pt == PageTypeIndexInterior {
		if pos+4 > len(pageBuf) {
			return c, newErr(KindShortCell, "decode cell", page, offset, "left_child", nil)
		}
		c.LeftChild = binary.BigEndian.Uint32(pageBuf[pos : pos+4])
		pos += 4
	}

	if pt == PageTypeTableInterior {
		rowID, n, err := readVarintSigned(pageBuf, pos)
		if err != nil {
			return c, wrapAt(err, "decode cell", page, offset, "row_id")
		}
		c.RowID = rowID
		_ = n
		return c, nil
	}

	// Remaining cases (table leaf, index leaf, index interior) all carry
	// a payload-size varint followed by inline bytes and an optional
	// overflow page pointer (spec.md §4.4).
	payloadSize, n, err := readUvarint(pageBuf, pos)
	if err != nil {
		return c, wrapAt(err, "decode cell", page, offset, "payload_size")
	}
	pos += n

	if pt == PageTypeTableLeaf {
		rowID, n, err := readVarintSigned(pageBuf, pos)
		if err != nil {
			return c, wrapAt(err, "decode cell", page, offset, "row_id")
		}
		c.RowID = rowID
		pos += n
	}

	inline, overflow := splitPayload(pt, payloadSize, usable)

	if pos+int(inline) > len(pageBuf) {
		return c, newErr(KindShortCell, "decode cell", page, offset, "inline_payload",
			fmt.Errorf("need %d bytes at %d, page has %d", inline, pos, len(pageBuf)))
	}
	inlineBytes := pageBuf[pos : pos+int(inline)]
	pos += int(inline)

	var payload []byte
	if overflow == 0 {
		payload = inlineBytes
	} else {
		if pos+4 > len(pageBuf) {
			return c, newErr(KindShortCell, "decode cell", page, offset, "overflow_page", nil)
		}
		firstOverflow := binary.BigEndian.Uint32(pageBuf[pos : pos+4])
		tail, err := readOverflowChain(pager, firstOverflow, overflow, usable)
		if err != nil {
			return c, err
		}
		payload = append(append([]byte{}, inlineBytes...), tail...)
	}

	rec, err := decodeRecord(payload, page, offset)
	if err != nil {
		return c, err
	}
	c.Record = rec
	return c, nil
}

// splitPayload computes the inline/overflow byte split for a cell whose
// declared payload size is P, per spec.md §4.4 step 4.
func splitPayload(pt PageType, payloadSize uint64, usable int) (inline, overflow uint64) {
	var x int
	if pt == PageTypeTableLeaf {
		x = usable - 35
	} else {
		x = (usable-12)*64/255 - 23
	}
	m := (usable-12)*32/255 - 23

	p := payloadSize
	if int(p) <= x {
		return p, 0
	}

	k := uint64(m) + (p-uint64(m))%uint64(usable-4)
	var in uint64
	if int(k) > m && int(k) <= x {
		in = k
	} else {
		in = uint64(m)
	}
	return in, p - in
}

// readOverflowChain reassembles the tail of an overflowing payload by
// walking overflow pages: each overflow page is a big-endian u32 "next
// page" pointer (0 = terminator) followed by (usable-4) bytes of payload
// (spec.md §4.5 "Overflow reassembly"). Each page visited is logged at
// Debug level through pager's logger, same as a regular page read
// (SPEC_FULL.md §2 "Logging": "... log page reads, overflow-chain
// walks, and B-tree descent at Debug level").
func readOverflowChain(pager *Pager, firstPage uint32, remaining uint64, usable int) ([]byte, error) {
	var out []byte
	visited := map[uint32]bool{}
	page := firstPage
	perPage := usable - 4

	for remaining > 0 {
		if page == 0 {
			return nil, newErr(KindOverflowChainBroken, "reassemble overflow", int(page), 0, "", nil)
		}
		if visited[page] {
			return nil, newErr(KindOverflowChainBroken, "reassemble overflow", int(page), 0, "cycle", nil)
		}
		visited[page] = true

		if pager.log != nil {
			pager.log.WithField("page", page).Debug("read overflow page")
		}

		buf, err := pager.ReadPage(int(page))
		if err != nil {
			return nil, err
		}
		if len(buf) < 4 {
			return nil, newErr(KindOverflowChainBroken, "reassemble overflow", int(page), 0, "", nil)
		}

		next := binary.BigEndian.Uint32(buf[0:4])
		take := uint64(perPage)
		if take > remaining {
			take = remaining
		}
		if int(take)+4 > len(buf) {
			return nil, newErr(KindOverflowChainBroken, "reassemble overflow", int(page), 4, "", nil)
		}
		out = append(out, buf[4:4+take]...)
		remaining -= take
		page = next
	}

	return out, nil
}
