package storage

// Varint decoding for the file format's base-128 variable-length integer,
// 1-9 bytes (spec.md §4.1). Mirrors the byte-at-a-time shape of the
// teacher's readVarint (app/types.go) but returns a typed *Error instead
// of a silent (0, 0) on truncation, and adds the signed reinterpretation
// the spec requires for row ids.

// readUvarint decodes an unsigned varint starting at data[offset]. It
// returns the decoded value and the number of bytes consumed (1..9).
func readUvarint(data []byte, offset int) (uint64, int, error) {
	var result uint64

	for i := 0; i < 9; i++ {
		if offset+i >= len(data) {
			return 0, 0, newErr(KindMalformedVarint, "read varint", 0, offset, "", nil)
		}

		b := data[offset+i]

		if i == 8 {
			// The ninth byte contributes all eight bits.
			result = (result << 8) | uint64(b)
			return result, i + 1, nil
		}

		result = (result << 7) | uint64(b&0x7F)
		if b&0x80 == 0 {
			return result, i + 1, nil
		}
	}

	// unreachable: the loop above always returns by i == 8
	return result, 9, nil
}

// readVarintSigned decodes an unsigned varint and reinterprets the
// resulting 64-bit pattern as two's-complement, per spec.md §4.1's rule
// for row ids.
func readVarintSigned(data []byte, offset int) (int64, int, error) {
	v, n, err := readUvarint(data, offset)
	if err != nil {
		return 0, 0, err
	}
	return int64(v), n, nil
}
