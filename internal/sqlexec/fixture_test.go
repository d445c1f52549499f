package sqlexec

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/codecrafters-io/sqlite-go/internal/storage"
)

// Test-only byte-level fixture builders, mirroring
// internal/storage's own _test.go fixtures (unexported there, so
// duplicated here at the package boundary this layer actually tests
// across: a real storage.Database built from synthetic page bytes).

func encodeVarint(v uint64) []byte {
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

func encodeVarintSigned(v int64) []byte { return encodeVarint(uint64(v)) }

type fv struct {
	serial uint64
	data   []byte
}

func fvNull() fv { return fv{serial: 0} }

func fvInt(n int64) fv {
	switch {
	case n >= -(1 << 7) && n < 1<<7:
		return fv{serial: 1, data: []byte{byte(n)}}
	case n >= -(1 << 15) && n < 1<<15:
		b := make([]byte, 2)
		binary.BigEndian.PutUint16(b, uint16(n))
		return fv{serial: 2, data: b}
	default:
		b := make([]byte, 4)
		binary.BigEndian.PutUint32(b, uint32(n))
		return fv{serial: 4, data: b}
	}
}

func fvText(s string) fv { return fv{serial: uint64(len(s))*2 + 13, data: []byte(s)} }

func buildRecord(values ...fv) []byte {
	var serials, body []byte
	for _, v := range values {
		serials = append(serials, encodeVarint(v.serial)...)
		body = append(body, v.data...)
	}
	for width := 1; width <= 9; width++ {
		headerLen := width + len(serials)
		enc := encodeVarint(uint64(headerLen))
		if len(enc) == width {
			out := append(append([]byte{}, enc...), serials...)
			return append(out, body...)
		}
	}
	panic("unreachable")
}

func buildLeafCell(rowID int64, payload []byte) []byte {
	out := encodeVarint(uint64(len(payload)))
	out = append(out, encodeVarintSigned(rowID)...)
	return append(out, payload...)
}

// buildIndexLeafCell builds an index-leaf cell: payload size varint
// followed by the inline record bytes, with no separate row id field
// (spec.md §3 "Cell": an index record's own last column conventionally
// carries the indexed table's row id instead).
func buildIndexLeafCell(payload []byte) []byte {
	return append(encodeVarint(uint64(len(payload))), payload...)
}

// buildIndexInteriorCell builds an index-interior cell: left-child page
// number (u32) followed by a payload size varint and the inline record
// bytes (spec.md §3 "Cell").
func buildIndexInteriorCell(leftChild uint32, payload []byte) []byte {
	out := make([]byte, 4)
	binary.BigEndian.PutUint32(out, leftChild)
	out = append(out, encodeVarint(uint64(len(payload)))...)
	return append(out, payload...)
}

func buildPage(pageSize int, isPage1 bool, pageType storage.PageType, rightmostChild uint32, cells [][]byte) []byte {
	buf := make([]byte, pageSize)
	headerOffset := 0
	if isPage1 {
		headerOffset = 100
	}

	buf[headerOffset] = byte(pageType)
	binary.BigEndian.PutUint16(buf[headerOffset+3:headerOffset+5], uint16(len(cells)))

	ptrStart := headerOffset + 8
	isLeaf := pageType == storage.PageTypeTableLeaf || pageType == storage.PageTypeIndexLeaf
	if !isLeaf {
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

	contentStart := pageSize
	if len(cells) > 0 {
		contentStart = cellStart
	}
	binary.BigEndian.PutUint16(buf[headerOffset+5:headerOffset+7], uint16(contentStart%65536))

	return buf
}

var magic = [16]byte{'S', 'Q', 'L', 'i', 't', 'e', ' ', 'f', 'o', 'r', 'm', 'a', 't', ' ', '3', 0}

func buildHeaderBytes(pageSize uint16) []byte {
	buf := make([]byte, 100)
	copy(buf[0:16], magic[:])
	binary.BigEndian.PutUint16(buf[16:18], pageSize)
	buf[18], buf[19] = 1, 1
	buf[21], buf[22], buf[23] = 64, 32, 32
	binary.BigEndian.PutUint32(buf[24:28], 1)
	binary.BigEndian.PutUint32(buf[28:32], 1)
	binary.BigEndian.PutUint32(buf[44:48], 4)
	binary.BigEndian.PutUint32(buf[56:60], uint32(storage.EncodingUTF8))
	binary.BigEndian.PutUint32(buf[92:96], 1)
	binary.BigEndian.PutUint32(buf[96:100], 3045000)
	return buf
}

// writeAppleDB builds a two-page database: page 1 is the schema table
// (one "apples" table with an INTEGER PRIMARY KEY id column), page 2 is
// the apples table's data, and returns an opened *storage.Database.
func writeAppleDB(t *testing.T) *storage.Database {
	t.Helper()
	pageSize := 512

	schemaCell := buildLeafCell(1, buildRecord(
		fvText("table"), fvText("apples"), fvText("apples"), fvInt(2),
		fvText("CREATE TABLE apples (id integer primary key, name text, color text)"),
	))
	page1Rest := buildPage(pageSize, true, storage.PageTypeTableLeaf, 0, [][]byte{schemaCell})

	row1 := buildLeafCell(1, buildRecord(fvNull(), fvText("Granny Smith"), fvText("Light Green")))
	row2 := buildLeafCell(2, buildRecord(fvNull(), fvText("Fuji"), fvText("Red")))
	row3 := buildLeafCell(3, buildRecord(fvNull(), fvText("Golden Delicious"), fvText("Yellow")))
	page2 := buildPage(pageSize, false, storage.PageTypeTableLeaf, 0, [][]byte{row1, row2, row3})

	header := buildHeaderBytes(uint16(pageSize))
	p1 := make([]byte, pageSize)
	copy(p1, header)
	copy(p1[100:], page1Rest[100:])

	buf := append([]byte{}, p1...)
	buf = append(buf, page2...)

	path := filepath.Join(t.TempDir(), "fixture.db")
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		t.Fatalf("write fixture db: %v", err)
	}

	db, err := storage.Open(path)
	if err != nil {
		t.Fatalf("open fixture db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// writeAppleDBWithIndex builds the same apples table as writeAppleDB,
// plus a single-column index over its color column backed by a real
// two-level index B-tree (an interior page over two leaf pages), so
// tests can drive an equality WHERE through the covering-index path
// instead of only the linear scan (internal/sqlexec/index.go).
func writeAppleDBWithIndex(t *testing.T) *storage.Database {
	t.Helper()
	pageSize := 512

	tableSchemaCell := buildLeafCell(1, buildRecord(
		fvText("table"), fvText("apples"), fvText("apples"), fvInt(2),
		fvText("CREATE TABLE apples (id integer primary key, name text, color text)"),
	))
	indexSchemaCell := buildLeafCell(2, buildRecord(
		fvText("index"), fvText("idx_color"), fvText("apples"), fvInt(3),
		fvText("CREATE INDEX idx_color ON apples (color)"),
	))
	page1Rest := buildPage(pageSize, true, storage.PageTypeTableLeaf, 0,
		[][]byte{tableSchemaCell, indexSchemaCell})

	row1 := buildLeafCell(1, buildRecord(fvNull(), fvText("Granny Smith"), fvText("Light Green")))
	row2 := buildLeafCell(2, buildRecord(fvNull(), fvText("Fuji"), fvText("Red")))
	row3 := buildLeafCell(3, buildRecord(fvNull(), fvText("Golden Delicious"), fvText("Yellow")))
	page2 := buildPage(pageSize, false, storage.PageTypeTableLeaf, 0, [][]byte{row1, row2, row3})

	// Index leaves carry (color, rowid) pairs in key order; the root
	// interior cell's own record is the separator key between its left
	// child and the rest of the tree (spec.md §3 "Cell": "For an index
	// interior: left-child (u32) · payload size (varint) · inline payload").
	leafACell1 := buildIndexLeafCell(buildRecord(fvText("Light Green"), fvInt(1)))
	leafACell2 := buildIndexLeafCell(buildRecord(fvText("Red"), fvInt(2)))
	page4 := buildPage(pageSize, false, storage.PageTypeIndexLeaf, 0, [][]byte{leafACell1, leafACell2})

	leafBCell := buildIndexLeafCell(buildRecord(fvText("Yellow"), fvInt(3)))
	page5 := buildPage(pageSize, false, storage.PageTypeIndexLeaf, 0, [][]byte{leafBCell})

	separator := buildRecord(fvText("Red"), fvInt(2))
	rootCell := buildIndexInteriorCell(4, separator)
	page3 := buildPage(pageSize, false, storage.PageTypeIndexInterior, 5, [][]byte{rootCell})

	header := buildHeaderBytes(uint16(pageSize))
	p1 := make([]byte, pageSize)
	copy(p1, header)
	copy(p1[100:], page1Rest[100:])

	buf := append([]byte{}, p1...)
	buf = append(buf, page2...)
	buf = append(buf, page3...)
	buf = append(buf, page4...)
	buf = append(buf, page5...)

	path := filepath.Join(t.TempDir(), "fixture-index.db")
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		t.Fatalf("write fixture db: %v", err)
	}

	db, err := storage.Open(path)
	if err != nil {
		t.Fatalf("open fixture db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}
