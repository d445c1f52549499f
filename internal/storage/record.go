package storage

import "fmt"

// Record is a decoded payload: a header-length-delimited list of serial
// types paired with the column values they describe (spec.md §3
// "Payload (record)"). Generalizes the teacher's Record/RecordHeader/
// RecordBody (app/types.go), which stored raw []byte per value and left
// every numeric interpretation to ad hoc call sites; Values here are
// already typed via Value.Int64/Float64/Text.
type Record struct {
	Values []Value
}

// decodeRecord parses the record header (varint header length, then one
// serial-type varint per column) followed by the body, per spec.md §4.5.
func decodeRecord(payload []byte, page, cellOffset int) (Record, error) {
	headerLen, n, err := readUvarint(payload, 0)
	if err != nil {
		return Record{}, wrapAt(err, "decode record header", page, cellOffset, "header_length")
	}

	var types []SerialType
	offset := n
	for offset < int(headerLen) {
		raw, consumed, err := readUvarint(payload, offset)
		if err != nil {
			return Record{}, wrapAt(err, "decode record header", page, cellOffset, "serial_type")
		}
		st, err := newSerialType(raw)
		if err != nil {
			return Record{}, wrapAt(err, "decode record header", page, cellOffset, "serial_type")
		}
		types = append(types, st)
		offset += consumed
	}

	body := payload[headerLen:]
	values := make([]Value, len(types))
	bodyOffset := 0
	for i, st := range types {
		length := st.Len()
		if bodyOffset+length > len(body) {
			return Record{}, newErr(KindTruncatedRecord, "decode record body", page, cellOffset,
				fmt.Sprintf("column[%d]", i),
				fmt.Errorf("need %d bytes at offset %d, body has %d", length, bodyOffset, len(body)))
		}
		values[i] = Value{Type: st, raw: body[bodyOffset : bodyOffset+length]}
		bodyOffset += length
	}

	if bodyOffset != len(body) {
		return Record{}, newErr(KindTruncatedRecord, "decode record body", page, cellOffset, "",
			fmt.Errorf("column lengths sum to %d, body is %d bytes", bodyOffset, len(body)))
	}

	return Record{Values: values}, nil
}

func wrapAt(err error, op string, page, offset int, field string) error {
	if se, ok := err.(*Error); ok {
		se.Op = op
		se.Page = page
		se.Offset = offset
		if se.Field == "" {
			se.Field = field
		}
		return se
	}
	return newErr(KindIO, op, page, offset, field, err)
}
