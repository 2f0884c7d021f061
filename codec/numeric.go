package codec

import (
	"fmt"
	"math/bits"

	"github.com/Adloeth/FuziotDB/endian"
)

// BoolCodec stores a host bool as a single byte: 0x00 for false, 0xFF for
// true on write. On read it tolerates single-bit flips by majority vote —
// five or more set bits decode to true (spec §4.1, §9 "Boolean decoder
// majority rule"). Preserve this rule exactly; it is load-bearing for
// files written by older code that may have flipped a bit in transit.
type BoolCodec struct{}

func (BoolCodec) Name() string          { return "bool" }
func (BoolCodec) Kind() Kind            { return Fixed }
func (BoolCodec) EndianSensitive() bool { return false }
func (BoolCodec) ByteCount() int        { return 1 }
func (BoolCodec) BytesPerElement() int  { panic("bool is a Fixed codec") }

func (c BoolCodec) SerializeFixed(v any) ([]byte, error) {
	b, ok := v.(bool)
	if !ok {
		return nil, typeMismatch(c.Name(), "bool", v)
	}
	if b {
		return []byte{0xFF}, nil
	}
	return []byte{0x00}, nil
}

func (c BoolCodec) DeserializeFixed(b []byte) (any, error) {
	if len(b) != 1 {
		return nil, shortBuffer(c.Name(), 1, len(b))
	}
	return bits.OnesCount8(b[0]) >= 5, nil
}

func (c BoolCodec) SerializeFlex(v any, length int) ([]byte, error) {
	return nil, usageMismatch(c.Name(), Fixed)
}
func (c BoolCodec) DeserializeFlex(b []byte, length int) (any, error) {
	return nil, usageMismatch(c.Name(), Fixed)
}

// -- unsigned integers --------------------------------------------------

type Uint8Codec struct{}

func (Uint8Codec) Name() string          { return "uint8" }
func (Uint8Codec) Kind() Kind            { return Fixed }
func (Uint8Codec) EndianSensitive() bool { return false }
func (Uint8Codec) ByteCount() int        { return 1 }
func (Uint8Codec) BytesPerElement() int  { panic("uint8 is a Fixed codec") }

func (c Uint8Codec) SerializeFixed(v any) ([]byte, error) {
	n, ok := v.(uint8)
	if !ok {
		return nil, typeMismatch(c.Name(), "uint8", v)
	}
	return []byte{n}, nil
}
func (c Uint8Codec) DeserializeFixed(b []byte) (any, error) {
	if len(b) != 1 {
		return nil, shortBuffer(c.Name(), 1, len(b))
	}
	return b[0], nil
}
func (c Uint8Codec) SerializeFlex(v any, length int) ([]byte, error) {
	return nil, usageMismatch(c.Name(), Fixed)
}
func (c Uint8Codec) DeserializeFlex(b []byte, length int) (any, error) {
	return nil, usageMismatch(c.Name(), Fixed)
}

type Uint16Codec struct{}

func (Uint16Codec) Name() string          { return "uint16" }
func (Uint16Codec) Kind() Kind            { return Fixed }
func (Uint16Codec) EndianSensitive() bool { return true }
func (Uint16Codec) ByteCount() int        { return 2 }
func (Uint16Codec) BytesPerElement() int  { panic("uint16 is a Fixed codec") }

func (c Uint16Codec) SerializeFixed(v any) ([]byte, error) {
	n, ok := v.(uint16)
	if !ok {
		return nil, typeMismatch(c.Name(), "uint16", v)
	}
	buf := make([]byte, 2)
	endian.PutUint16(buf, n)
	return buf, nil
}
func (c Uint16Codec) DeserializeFixed(b []byte) (any, error) {
	if len(b) != 2 {
		return nil, shortBuffer(c.Name(), 2, len(b))
	}
	return endian.Uint16(b), nil
}
func (c Uint16Codec) SerializeFlex(v any, length int) ([]byte, error) {
	return nil, usageMismatch(c.Name(), Fixed)
}
func (c Uint16Codec) DeserializeFlex(b []byte, length int) (any, error) {
	return nil, usageMismatch(c.Name(), Fixed)
}

type Uint32Codec struct{}

func (Uint32Codec) Name() string          { return "uint32" }
func (Uint32Codec) Kind() Kind            { return Fixed }
func (Uint32Codec) EndianSensitive() bool { return true }
func (Uint32Codec) ByteCount() int        { return 4 }
func (Uint32Codec) BytesPerElement() int  { panic("uint32 is a Fixed codec") }

func (c Uint32Codec) SerializeFixed(v any) ([]byte, error) {
	n, ok := v.(uint32)
	if !ok {
		return nil, typeMismatch(c.Name(), "uint32", v)
	}
	buf := make([]byte, 4)
	endian.PutUint32(buf, n)
	return buf, nil
}
func (c Uint32Codec) DeserializeFixed(b []byte) (any, error) {
	if len(b) != 4 {
		return nil, shortBuffer(c.Name(), 4, len(b))
	}
	return endian.Uint32(b), nil
}
func (c Uint32Codec) SerializeFlex(v any, length int) ([]byte, error) {
	return nil, usageMismatch(c.Name(), Fixed)
}
func (c Uint32Codec) DeserializeFlex(b []byte, length int) (any, error) {
	return nil, usageMismatch(c.Name(), Fixed)
}

type Uint64Codec struct{}

func (Uint64Codec) Name() string          { return "uint64" }
func (Uint64Codec) Kind() Kind            { return Fixed }
func (Uint64Codec) EndianSensitive() bool { return true }
func (Uint64Codec) ByteCount() int        { return 8 }
func (Uint64Codec) BytesPerElement() int  { panic("uint64 is a Fixed codec") }

func (c Uint64Codec) SerializeFixed(v any) ([]byte, error) {
	n, ok := v.(uint64)
	if !ok {
		return nil, typeMismatch(c.Name(), "uint64", v)
	}
	buf := make([]byte, 8)
	endian.PutUint64(buf, n)
	return buf, nil
}
func (c Uint64Codec) DeserializeFixed(b []byte) (any, error) {
	if len(b) != 8 {
		return nil, shortBuffer(c.Name(), 8, len(b))
	}
	return endian.Uint64(b), nil
}
func (c Uint64Codec) SerializeFlex(v any, length int) ([]byte, error) {
	return nil, usageMismatch(c.Name(), Fixed)
}
func (c Uint64Codec) DeserializeFlex(b []byte, length int) (any, error) {
	return nil, usageMismatch(c.Name(), Fixed)
}

// -- signed integers (two's complement over the unsigned wire encoding) --

type Int8Codec struct{}

func (Int8Codec) Name() string          { return "int8" }
func (Int8Codec) Kind() Kind            { return Fixed }
func (Int8Codec) EndianSensitive() bool { return false }
func (Int8Codec) ByteCount() int        { return 1 }
func (Int8Codec) BytesPerElement() int  { panic("int8 is a Fixed codec") }

func (c Int8Codec) SerializeFixed(v any) ([]byte, error) {
	n, ok := v.(int8)
	if !ok {
		return nil, typeMismatch(c.Name(), "int8", v)
	}
	return []byte{byte(n)}, nil
}
func (c Int8Codec) DeserializeFixed(b []byte) (any, error) {
	if len(b) != 1 {
		return nil, shortBuffer(c.Name(), 1, len(b))
	}
	return int8(b[0]), nil
}
func (c Int8Codec) SerializeFlex(v any, length int) ([]byte, error) {
	return nil, usageMismatch(c.Name(), Fixed)
}
func (c Int8Codec) DeserializeFlex(b []byte, length int) (any, error) {
	return nil, usageMismatch(c.Name(), Fixed)
}

type Int16Codec struct{}

func (Int16Codec) Name() string          { return "int16" }
func (Int16Codec) Kind() Kind            { return Fixed }
func (Int16Codec) EndianSensitive() bool { return true }
func (Int16Codec) ByteCount() int        { return 2 }
func (Int16Codec) BytesPerElement() int  { panic("int16 is a Fixed codec") }

func (c Int16Codec) SerializeFixed(v any) ([]byte, error) {
	n, ok := v.(int16)
	if !ok {
		return nil, typeMismatch(c.Name(), "int16", v)
	}
	buf := make([]byte, 2)
	endian.PutUint16(buf, uint16(n))
	return buf, nil
}
func (c Int16Codec) DeserializeFixed(b []byte) (any, error) {
	if len(b) != 2 {
		return nil, shortBuffer(c.Name(), 2, len(b))
	}
	return int16(endian.Uint16(b)), nil
}
func (c Int16Codec) SerializeFlex(v any, length int) ([]byte, error) {
	return nil, usageMismatch(c.Name(), Fixed)
}
func (c Int16Codec) DeserializeFlex(b []byte, length int) (any, error) {
	return nil, usageMismatch(c.Name(), Fixed)
}

type Int32Codec struct{}

func (Int32Codec) Name() string          { return "int32" }
func (Int32Codec) Kind() Kind            { return Fixed }
func (Int32Codec) EndianSensitive() bool { return true }
func (Int32Codec) ByteCount() int        { return 4 }
func (Int32Codec) BytesPerElement() int  { panic("int32 is a Fixed codec") }

func (c Int32Codec) SerializeFixed(v any) ([]byte, error) {
	n, ok := v.(int32)
	if !ok {
		return nil, typeMismatch(c.Name(), "int32", v)
	}
	buf := make([]byte, 4)
	endian.PutUint32(buf, uint32(n))
	return buf, nil
}
func (c Int32Codec) DeserializeFixed(b []byte) (any, error) {
	if len(b) != 4 {
		return nil, shortBuffer(c.Name(), 4, len(b))
	}
	return int32(endian.Uint32(b)), nil
}
func (c Int32Codec) SerializeFlex(v any, length int) ([]byte, error) {
	return nil, usageMismatch(c.Name(), Fixed)
}
func (c Int32Codec) DeserializeFlex(b []byte, length int) (any, error) {
	return nil, usageMismatch(c.Name(), Fixed)
}

type Int64Codec struct{}

func (Int64Codec) Name() string          { return "int64" }
func (Int64Codec) Kind() Kind            { return Fixed }
func (Int64Codec) EndianSensitive() bool { return true }
func (Int64Codec) ByteCount() int        { return 8 }
func (Int64Codec) BytesPerElement() int  { panic("int64 is a Fixed codec") }

func (c Int64Codec) SerializeFixed(v any) ([]byte, error) {
	n, ok := v.(int64)
	if !ok {
		return nil, typeMismatch(c.Name(), "int64", v)
	}
	buf := make([]byte, 8)
	endian.PutUint64(buf, uint64(n))
	return buf, nil
}
func (c Int64Codec) DeserializeFixed(b []byte) (any, error) {
	if len(b) != 8 {
		return nil, shortBuffer(c.Name(), 8, len(b))
	}
	return int64(endian.Uint64(b)), nil
}
func (c Int64Codec) SerializeFlex(v any, length int) ([]byte, error) {
	return nil, usageMismatch(c.Name(), Fixed)
}
func (c Int64Codec) DeserializeFlex(b []byte, length int) (any, error) {
	return nil, usageMismatch(c.Name(), Fixed)
}

func typeMismatch(codecName, want string, got any) error {
	return fmt.Errorf("codec %q: expected %s, got %T", codecName, want, got)
}

func shortBuffer(codecName string, want, got int) error {
	return fmt.Errorf("codec %q: expected %d bytes, got %d", codecName, want, got)
}
