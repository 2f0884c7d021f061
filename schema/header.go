package schema

import (
	"fmt"

	"github.com/Adloeth/FuziotDB/endian"
	"github.com/Adloeth/FuziotDB/ferr"
)

// EncodeHeader produces the on-disk header bytes for an ordered field list
// (spec §4.2):
//
//	[2B LE field_count-1] [field_header_0] [field_header_1] ...
//	field_header := [1B name_len-1] [name_len bytes ASCII name] [2B LE payload_len-1]
func EncodeHeader(fields []HeaderField) []byte {
	size := 2
	for _, f := range fields {
		size += 1 + len(f.Name) + 2
	}

	buf := make([]byte, size)
	endian.PutUint16(buf[0:2], uint16(len(fields)-1))

	off := 2
	for _, f := range fields {
		buf[off] = byte(len(f.Name) - 1)
		off++
		off += copy(buf[off:], f.Name)
		endian.PutUint16(buf[off:off+2], uint16(f.Length-1))
		off += 2
	}
	return buf
}

// HeaderSize returns the number of bytes EncodeHeader(fields) would
// produce, without allocating.
func HeaderSize(fields []HeaderField) int {
	size := 2
	for _, f := range fields {
		size += 1 + len(f.Name) + 2
	}
	return size
}

// DecodeHeader parses the header at the start of buf, returning the
// ordered field list it describes and the number of bytes consumed. The
// on-disk order is authoritative (spec §4.3 step 4): callers that need to
// compare against a declared schema do so by set-equality, then adopt this
// order.
func DecodeHeader(buf []byte) (fields []HeaderField, headerSize int, err error) {
	const op = "schema.DecodeHeader"

	if len(buf) < 2 {
		return nil, 0, ferr.New(ferr.Corruption, op, "buffer shorter than the 2-byte field count")
	}

	count := int(endian.Uint16(buf[0:2])) + 1
	off := 2

	out := make([]HeaderField, 0, count)
	for i := 0; i < count; i++ {
		if off >= len(buf) {
			return nil, 0, ferr.New(ferr.Corruption, op, fmt.Sprintf("truncated header at field %d", i))
		}
		nameLen := int(buf[off]) + 1
		off++

		if off+nameLen+2 > len(buf) {
			return nil, 0, ferr.New(ferr.Corruption, op, fmt.Sprintf("truncated header at field %d", i))
		}
		name := string(buf[off : off+nameLen])
		off += nameLen

		length := int(endian.Uint16(buf[off:off+2])) + 1
		off += 2

		out = append(out, HeaderField{Name: name, Length: length})
	}

	return out, off, nil
}
