package storage

import "fmt"

// PageType is the closed set of B-tree page categories (spec.md §3). The
// teacher's types.go left this as a bare uint8 on PageHeader; generalized
// here to a typed enum with a constructor that rejects unknown bytes, per
// spec.md §4.3.
type PageType uint8

const (
	PageTypeIndexInterior PageType = 2
	PageTypeTableInterior PageType = 5
	PageTypeIndexLeaf     PageType = 10
	PageTypeTableLeaf     PageType = 13
)

func newPageType(b byte) (PageType, error) {
	switch PageType(b) {
	case PageTypeIndexInterior, PageTypeTableInterior, PageTypeIndexLeaf, PageTypeTableLeaf:
		return PageType(b), nil
	default:
		return 0, newErr(KindBadPageType, "decode page type", 0, 0, "page_type", fmt.Errorf("got 0x%02x", b))
	}
}

// IsLeaf reports whether the page type is one of the two leaf kinds.
func (pt PageType) IsLeaf() bool {
	return pt == PageTypeTableLeaf || pt == PageTypeIndexLeaf
}

// IsTable reports whether the page type belongs to a table B-tree.
func (pt PageType) IsTable() bool {
	return pt == PageTypeTableLeaf || pt == PageTypeTableInterior
}

// IsIndex reports whether the page type belongs to an index B-tree.
func (pt PageType) IsIndex() bool {
	return pt == PageTypeIndexLeaf || pt == PageTypeIndexInterior
}

func (pt PageType) String() string {
	switch pt {
	case PageTypeIndexInterior:
		return "index-interior"
	case PageTypeTableInterior:
		return "table-interior"
	case PageTypeIndexLeaf:
		return "index-leaf"
	case PageTypeTableLeaf:
		return "table-leaf"
	default:
		return fmt.Sprintf("unknown(0x%02x)", uint8(pt))
	}
}
