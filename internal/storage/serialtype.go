package storage

// SerialKind is the closed set of value kinds a serial-type code can map
// to (spec.md §3, §4.3). Generalizes the teacher's ValueType (app/values.go)
// which was a close match but omitted BLOB/TEXT as distinct constants from
// their backing integer widths.
type SerialKind uint8

const (
	KindNull SerialKind = iota
	KindInt8
	KindInt16
	KindInt24
	KindInt32
	KindInt48
	KindInt64
	KindFloat64
	KindZero
	KindOne
	KindBlob
	KindText
)

// SerialType wraps the raw on-disk code and exposes its kind and byte
// length without re-deriving the (kind, length) mapping at every call
// site (spec.md §3 table).
type SerialType uint64

// Kind classifies the serial type. Reserved codes 10 and 11 never appear
// in well-formed files; newSerialType below is the only constructor, so
// a SerialType value in the wild is always one of the closed set here.
func (st SerialType) Kind() SerialKind {
	switch {
	case st == 0:
		return KindNull
	case st >= 1 && st <= 6:
		return [7]SerialKind{0, KindInt8, KindInt16, KindInt24, KindInt32, KindInt48, KindInt64}[st]
	case st == 7:
		return KindFloat64
	case st == 8:
		return KindZero
	case st == 9:
		return KindOne
	case st >= 12 && st%2 == 0:
		return KindBlob
	default:
		return KindText
	}
}

// Len returns the number of payload bytes this serial type occupies
// (spec.md §3 table).
func (st SerialType) Len() int {
	switch st.Kind() {
	case KindNull, KindZero, KindOne:
		return 0
	case KindInt8:
		return 1
	case KindInt16:
		return 2
	case KindInt24:
		return 3
	case KindInt32:
		return 4
	case KindInt48:
		return 6
	case KindInt64, KindFloat64:
		return 8
	case KindBlob:
		return int((uint64(st) - 12) / 2)
	case KindText:
		return int((uint64(st) - 13) / 2)
	}
	return 0
}

// newSerialType validates a raw code read from a record header, rejecting
// the two reserved codes (10, 11) that never occur in well-formed files.
func newSerialType(raw uint64) (SerialType, error) {
	if raw == 10 || raw == 11 {
		return 0, newErr(KindBadSerialType, "decode serial type", 0, -1, "serial_type", nil)
	}
	return SerialType(raw), nil
}
