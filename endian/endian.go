// Package endian normalizes byte buffers to and from the little-endian
// wire format FuziotDB uses for every multi-byte integer in a header or a
// fixed-width numeric payload (spec §3 invariant 7).
//
// The engine never assumes the host's native byte order: values are
// produced in whatever order the host CPU happens to use, then normalized
// on the way to disk, and normalized back on the way out. On a
// little-endian host (the overwhelming majority) normalization is a
// no-op; on a big-endian host the bytes are reversed in place.
package endian

import "encoding/binary"

// ByteOrder mirrors the subset of encoding/binary's ByteOrder interface
// FuziotDB codecs need to read and write fixed-width integers.
type ByteOrder = binary.ByteOrder

// Wire is the byte order used for every on-disk multi-byte integer.
var Wire ByteOrder = binary.LittleEndian

// nativeIsLittle reports whether the running process's CPU is little-endian.
// Computed once; used only to decide whether ToWire/FromWire must actually
// swap bytes.
var nativeIsLittle = func() bool {
	var x uint16 = 1
	b := []byte{0, 0}
	binary.NativeEndian.PutUint16(b, x)
	return b[0] == 1
}()

// ToWire normalizes a buffer produced in the host's native byte order into
// Wire (little-endian) order, in place. It is a no-op on little-endian
// hosts. buf's length must be a multiple of elemSize (1, 2, 4, or 8); a
// shorter tail is left untouched.
func ToWire(buf []byte, elemSize int) {
	normalize(buf, elemSize)
}

// FromWire normalizes a buffer read off disk (Wire/little-endian order)
// back into the host's native byte order, in place. Symmetric with ToWire:
// applying it twice is a no-op, and on little-endian hosts it never
// touches the buffer.
func FromWire(buf []byte, elemSize int) {
	normalize(buf, elemSize)
}

// normalize reverses each elemSize-wide element of buf when the host is
// big-endian. Because swapping the same bytes twice is the identity, the
// same function implements both directions.
func normalize(buf []byte, elemSize int) {
	if nativeIsLittle || elemSize <= 1 {
		return
	}

	for off := 0; off+elemSize <= len(buf); off += elemSize {
		chunk := buf[off : off+elemSize]
		for i, j := 0, len(chunk)-1; i < j; i, j = i+1, j-1 {
			chunk[i], chunk[j] = chunk[j], chunk[i]
		}
	}
}

// PutUint16/PutUint32/PutUint64 and the matching Uint16/Uint32/Uint64
// readers give codecs a direct, allocation-free path to the wire format
// without constructing intermediate slices.

func PutUint16(buf []byte, v uint16) { Wire.PutUint16(buf, v) }
func PutUint32(buf []byte, v uint32) { Wire.PutUint32(buf, v) }
func PutUint64(buf []byte, v uint64) { Wire.PutUint64(buf, v) }

func Uint16(buf []byte) uint16 { return Wire.Uint16(buf) }
func Uint32(buf []byte) uint32 { return Wire.Uint32(buf) }
func Uint64(buf []byte) uint64 { return Wire.Uint64(buf) }
