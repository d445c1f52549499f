package storage

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"unicode/utf16"
)

// Value is one decoded column value from a record body. It borrows the
// underlying byte slice rather than copying it (spec.md §3 "Ownership":
// cell payloads are shared, read-mostly). Generalizes the teacher's
// SQLiteValue (app/values.go), which hand-rolled a placeholder
// float64FromBits instead of using math.Float64frombits.
type Value struct {
	Type SerialType
	raw  []byte
}

// IsNull reports whether the value is a SQL NULL.
func (v Value) IsNull() bool { return v.Type.Kind() == KindNull }

// Raw returns the underlying body bytes of the value: the content of a
// BLOB or TEXT value, the big-endian encoding of a numeric value, and an
// empty slice for NULL and the constant 0/1 types.
func (v Value) Raw() []byte { return v.raw }

// Int64 decodes big-endian signed integer serial types (spec.md §3). It
// returns (0, false) for non-integer kinds, except KindZero/KindOne which
// are represented directly as the constants 0 and 1.
func (v Value) Int64() (int64, bool) {
	switch v.Type.Kind() {
	case KindZero:
		return 0, true
	case KindOne:
		return 1, true
	case KindInt8:
		return int64(int8(v.raw[0])), true
	case KindInt16:
		return int64(int16(binary.BigEndian.Uint16(v.raw))), true
	case KindInt24:
		return signExtend(uint32(v.raw[0])<<16|uint32(v.raw[1])<<8|uint32(v.raw[2]), 24), true
	case KindInt32:
		return int64(int32(binary.BigEndian.Uint32(v.raw))), true
	case KindInt48:
		hi := binary.BigEndian.Uint32(v.raw[0:4])
		lo := binary.BigEndian.Uint16(v.raw[4:6])
		return signExtend64(uint64(hi)<<16|uint64(lo), 48), true
	case KindInt64:
		return int64(binary.BigEndian.Uint64(v.raw)), true
	default:
		return 0, false
	}
}

// Float64 decodes the IEEE-754 double serial type.
func (v Value) Float64() (float64, bool) {
	if v.Type.Kind() != KindFloat64 {
		return 0, false
	}
	return math.Float64frombits(binary.BigEndian.Uint64(v.raw)), true
}

// Text decodes a TEXT value as a Go string, interpreting the bytes per
// the database's declared text encoding (spec.md §9 "Text encoding").
// UTF-8 is returned as-is; the UTF-16 variants are decoded to UTF-8 so
// callers never need to special-case encoding downstream.
func (v Value) Text(enc TextEncoding) (string, bool) {
	if v.Type.Kind() != KindText {
		return "", false
	}
	return decodeText(v.raw, enc), true
}

// String renders a value the way the executor prints it: empty for NULL,
// Go's default formatting for numbers, the decoded text for TEXT, and a
// lowercase hex dump for BLOB (spec.md never specifies BLOB
// rendering since the accepted SELECT shape has no BLOB-producing test
// scenario, so this only needs to not crash on one).
func (v Value) String(enc TextEncoding) string {
	switch v.Type.Kind() {
	case KindNull:
		return ""
	case KindFloat64:
		f, _ := v.Float64()
		return strconv.FormatFloat(f, 'g', -1, 64)
	case KindText:
		s, _ := v.Text(enc)
		return s
	case KindBlob:
		return fmt.Sprintf("%x", v.raw)
	default:
		n, _ := v.Int64()
		return strconv.FormatInt(n, 10)
	}
}

func signExtend(v uint32, bits uint) int64 {
	shift := 32 - bits
	return int64(int32(v<<shift) >> shift)
}

func signExtend64(v uint64, bits uint) int64 {
	shift := 64 - bits
	return int64(v<<shift) >> shift
}

func decodeText(raw []byte, enc TextEncoding) string {
	switch enc {
	case EncodingUTF16LE, EncodingUTF16BE:
		return decodeUTF16(raw, enc == EncodingUTF16BE)
	default:
		return string(raw)
	}
}

func decodeUTF16(raw []byte, bigEndian bool) string {
	n := len(raw) / 2
	units := make([]uint16, n)
	for i := 0; i < n; i++ {
		if bigEndian {
			units[i] = binary.BigEndian.Uint16(raw[i*2 : i*2+2])
		} else {
			units[i] = binary.LittleEndian.Uint16(raw[i*2 : i*2+2])
		}
	}
	return string(utf16.Decode(units))
}
