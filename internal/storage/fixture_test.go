package storage

import "encoding/binary"

// Test-only byte-level fixture builders. The core has no write path
// (spec.md §1 Non-goals), so these encoders live in _test.go files and
// are never linked into the production binary; they let tests exercise
// the decoder against byte-exact synthetic pages instead of requiring a
// checked-in binary sample.db (see SPEC_FULL.md "Test tooling").

func encodeVarintForTest(v uint64) []byte {
	if v < 1<<7 {
		return []byte{byte(v)}
	}
	for n := 2; n <= 8; n++ {
		if v < uint64(1)<<(7*n) {
			out := make([]byte, n)
			rem := v
			for i := n - 1; i >= 0; i-- {
				out[i] = byte(rem & 0x7F)
				if i != n-1 {
					out[i] |= 0x80
				}
				rem >>= 7
			}
			return out
		}
	}
	out := make([]byte, 9)
	out[8] = byte(v)
	rem := v >> 8
	for i := 7; i >= 0; i-- {
		out[i] = byte(rem&0x7F) | 0x80
		rem >>= 7
	}
	return out
}

func encodeVarintSignedForTest(v int64) []byte {
	return encodeVarintForTest(uint64(v))
}

// fixtureValue is one column value used to build a record fixture.
type fixtureValue struct {
	serial uint64
	data   []byte
}

func fvNull() fixtureValue { return fixtureValue{serial: 0} }
func fvZero() fixtureValue { return fixtureValue{serial: 8} }
func fvOne() fixtureValue  { return fixtureValue{serial: 9} }

func fvInt(n int64) fixtureValue {
	switch {
	case n >= -(1<<7) && n < 1<<7:
		return fixtureValue{serial: 1, data: []byte{byte(n)}}
	case n >= -(1<<15) && n < 1<<15:
		b := make([]byte, 2)
		binary.BigEndian.PutUint16(b, uint16(n))
		return fixtureValue{serial: 2, data: b}
	case n >= -(1<<31) && n < 1<<31:
		b := make([]byte, 4)
		binary.BigEndian.PutUint32(b, uint32(n))
		return fixtureValue{serial: 4, data: b}
	default:
		b := make([]byte, 8)
		binary.BigEndian.PutUint64(b, uint64(n))
		return fixtureValue{serial: 6, data: b}
	}
}

func fvText(s string) fixtureValue {
	return fixtureValue{serial: uint64(len(s))*2 + 13, data: []byte(s)}
}

func fvBlob(b []byte) fixtureValue {
	return fixtureValue{serial: uint64(len(b))*2 + 12, data: b}
}

// buildRecord assembles a record payload: varint header length, one
// varint serial type per column, then the concatenated column bytes
// (spec.md §3 "Payload (record)").
func buildRecord(values ...fixtureValue) []byte {
	var serials []byte
	var body []byte
	for _, v := range values {
		serials = append(serials, encodeVarintForTest(v.serial)...)
		body = append(body, v.data...)
	}

	// header length must include its own varint encoding, so probe with
	// growing width until the encoded length is self-consistent.
	for width := 1; width <= 9; width++ {
		headerLen := width + len(serials)
		enc := encodeVarintForTest(uint64(headerLen))
		if len(enc) == width {
			out := append(append([]byte{}, enc...), serials...)
			return append(out, body...)
		}
	}
	panic("unreachable: header length varint did not converge")
}

// buildTableLeafCell builds a table-leaf cell with no overflow: varint
// payload size, signed varint row id, inline payload (spec.md §3 "Cell").
func buildTableLeafCell(rowID int64, payload []byte) []byte {
	out := encodeVarintForTest(uint64(len(payload)))
	out = append(out, encodeVarintSignedForTest(rowID)...)
	return append(out, payload...)
}

// buildTableInteriorCell builds a table-interior cell: left child page
// number (u32) followed by a signed varint row id.
func buildTableInteriorCell(leftChild uint32, rowID int64) []byte {
	out := make([]byte, 4)
	binary.BigEndian.PutUint32(out, leftChild)
	return append(out, encodeVarintSignedForTest(rowID)...)
}

// pageBuilder lays out a page buffer the way decodePage expects to read
// it: an 8 (leaf) or 12 (interior) byte header, a cell-pointer array,
// and the cells themselves placed back-to-back starting right after the
// pointer array. Real SQLite packs cells from the end of the page
// backward and tracks free space; this decoder has no reason to care
// about that layout choice, only about the pointer array being correct,
// so fixtures use the simpler forward layout.
func buildPage(pageSize int, isPage1 bool, pageType PageType, rightmostChild uint32, cells [][]byte) []byte {
	buf := make([]byte, pageSize)
	headerOffset := 0
	if isPage1 {
		headerOffset = 100
	}

	buf[headerOffset] = byte(pageType)
	binary.BigEndian.PutUint16(buf[headerOffset+3:headerOffset+5], uint16(len(cells)))

	ptrStart := headerOffset + 8
	if !pageType.IsLeaf() {
		binary.BigEndian.PutUint32(buf[headerOffset+8:headerOffset+12], rightmostChild)
		ptrStart = headerOffset + 12
	}

	cellStart := ptrStart + len(cells)*2
	pos := cellStart
	for i, c := range cells {
		binary.BigEndian.PutUint16(buf[ptrStart+i*2:ptrStart+i*2+2], uint16(pos))
		copy(buf[pos:], c)
		pos += len(c)
	}

	// content-area-start: approximate as the start of the first cell, or
	// pageSize if there are no cells. Not load-bearing for this decoder.
	contentStart := pageSize
	if len(cells) > 0 {
		contentStart = cellStart
	}
	binary.BigEndian.PutUint16(buf[headerOffset+5:headerOffset+7], uint16(contentStart%65536))

	return buf
}

// buildHeaderBytes assembles the 100-byte database header (spec.md §3).
func buildHeaderBytes(pageSize uint16, reservedPerPage byte, textEncoding uint32) []byte {
	buf := make([]byte, 100)
	copy(buf[0:16], magic[:])
	binary.BigEndian.PutUint16(buf[16:18], pageSize)
	buf[18], buf[19] = 1, 1
	buf[20] = reservedPerPage
	buf[21], buf[22], buf[23] = 64, 32, 32
	binary.BigEndian.PutUint32(buf[24:28], 1) // file change counter
	binary.BigEndian.PutUint32(buf[28:32], 1) // database size in pages
	binary.BigEndian.PutUint32(buf[44:48], 4) // schema format
	binary.BigEndian.PutUint32(buf[48:52], 0)
	binary.BigEndian.PutUint32(buf[56:60], textEncoding)
	binary.BigEndian.PutUint32(buf[92:96], 1) // version-valid-for
	binary.BigEndian.PutUint32(buf[96:100], 3045000)
	return buf
}

// buildDatabaseFile assembles a complete file buffer: 100-byte header
// merged into page 1, followed by the remaining pages in order.
func buildDatabaseFile(pageSize int, reservedPerPage byte, page1Rest []byte, otherPages ...[]byte) []byte {
	header := buildHeaderBytes(uint16(pageSize), reservedPerPage, uint32(EncodingUTF8))
	page1 := make([]byte, pageSize)
	copy(page1, header)
	copy(page1[100:], page1Rest[100:])

	out := append([]byte{}, page1...)
	for _, p := range otherPages {
		out = append(out, p...)
	}
	return out
}
