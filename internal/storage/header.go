package storage

import (
	"encoding/binary"
	"fmt"
)

// magic is the 16-byte signature every SQLite format 3 file begins with
// (spec.md §3, §6). Byte 15 is a NUL terminator, preserved for an exact
// byte-for-byte comparison against the on-disk prefix.
var magic = [16]byte{'S', 'Q', 'L', 'i', 't', 'e', ' ', 'f', 'o', 'r', 'm', 'a', 't', ' ', '3', 0}

// TextEncoding is the closed set of encodings the header can declare.
type TextEncoding uint32

const (
	EncodingUTF8    TextEncoding = 1
	EncodingUTF16LE TextEncoding = 2
	EncodingUTF16BE TextEncoding = 3
)

func (e TextEncoding) String() string {
	switch e {
	case EncodingUTF8:
		return "utf-8"
	case EncodingUTF16LE:
		return "utf-16le"
	case EncodingUTF16BE:
		return "utf-16be"
	default:
		return fmt.Sprintf("unknown(%d)", uint32(e))
	}
}

// Header is the parsed 100-byte database header (spec.md §3). Field names
// follow the teacher's DatabaseHeader (app/types.go) generalized to the
// spec's complete field list and to typed, big-endian-correct decoding
// (the teacher's version relied on binary.Read against a mismatched
// struct layout, which silently misreads several fields).
type Header struct {
	PageSize             int // already resolved: on-disk 1 means 65536
	FileFormatWriteVer   uint8
	FileFormatReadVer    uint8
	ReservedPerPage      uint8
	MaxEmbeddedFraction  uint8
	MinEmbeddedFraction  uint8
	LeafPayloadFraction  uint8
	FileChangeCounter    uint32
	DatabaseSizePages    uint32
	FirstFreelistPage    uint32
	FreelistPageCount    uint32
	SchemaCookie         uint32
	SchemaFormat         uint32
	SuggestedCacheSize   uint32
	AutoVacuumRootPage   uint32
	TextEncoding         TextEncoding
	UserVersion          uint32
	IncrementalVacuum    uint32
	ApplicationID        uint32
	VersionValidFor      uint32
	LibraryVersionNumber uint32
}

// UsablePageSize is page size minus the reserved-per-page bytes (spec.md
// "Usable page size" in the GLOSSARY).
func (h *Header) UsablePageSize() int {
	return h.PageSize - int(h.ReservedPerPage)
}

// ParseHeader validates and decodes the first 100 bytes of a database
// file. buf must be at least 100 bytes.
func ParseHeader(buf []byte) (*Header, error) {
	if len(buf) < 100 {
		return nil, newErr(KindIO, "parse header", 1, 0, "header", fmt.Errorf("short buffer: %d bytes", len(buf)))
	}

	var gotMagic [16]byte
	copy(gotMagic[:], buf[0:16])
	if gotMagic != magic {
		return nil, newErr(KindBadMagic, "parse header", 1, 0, "magic", nil)
	}

	rawPageSize := binary.BigEndian.Uint16(buf[16:18])
	pageSize := int(rawPageSize)
	if rawPageSize == 1 {
		pageSize = 65536
	}
	if !isValidPageSize(pageSize) {
		return nil, newErr(KindBadPageSize, "parse header", 1, 16, "page_size", fmt.Errorf("got %d", pageSize))
	}

	h := &Header{
		PageSize:             pageSize,
		FileFormatWriteVer:   buf[18],
		FileFormatReadVer:    buf[19],
		ReservedPerPage:      buf[20],
		MaxEmbeddedFraction:  buf[21],
		MinEmbeddedFraction:  buf[22],
		LeafPayloadFraction:  buf[23],
		FileChangeCounter:    binary.BigEndian.Uint32(buf[24:28]),
		DatabaseSizePages:    binary.BigEndian.Uint32(buf[28:32]),
		FirstFreelistPage:    binary.BigEndian.Uint32(buf[32:36]),
		FreelistPageCount:    binary.BigEndian.Uint32(buf[36:40]),
		SchemaCookie:         binary.BigEndian.Uint32(buf[40:44]),
		SchemaFormat:         binary.BigEndian.Uint32(buf[44:48]),
		SuggestedCacheSize:   binary.BigEndian.Uint32(buf[48:52]),
		AutoVacuumRootPage:   binary.BigEndian.Uint32(buf[52:56]),
		TextEncoding:         TextEncoding(binary.BigEndian.Uint32(buf[56:60])),
		UserVersion:          binary.BigEndian.Uint32(buf[60:64]),
		IncrementalVacuum:    binary.BigEndian.Uint32(buf[64:68]),
		ApplicationID:        binary.BigEndian.Uint32(buf[68:72]),
		VersionValidFor:      binary.BigEndian.Uint32(buf[92:96]),
		LibraryVersionNumber: binary.BigEndian.Uint32(buf[96:100]),
	}

	return h, nil
}

func isValidPageSize(n int) bool {
	if n < 512 || n > 65536 {
		return false
	}
	return n&(n-1) == 0
}
