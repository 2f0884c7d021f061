package codec

import (
	"math"

	"github.com/Adloeth/FuziotDB/endian"
)

// Float16 is an IEEE 754 binary16 value stored as its raw bit pattern. Go
// has no native half-precision type, so FuziotDB callers work with
// Float16 directly and convert to/from float32 with ToFloat32/Float16Of
// when they need to compute with the value.
type Float16 uint16

// Float16Of rounds a float32 to the nearest representable Float16.
func Float16Of(f float32) Float16 {
	bits := math.Float32bits(f)
	sign := uint16((bits >> 16) & 0x8000)
	exp := int32((bits>>23)&0xFF) - 127 + 15
	mant := bits & 0x7FFFFF

	switch {
	case exp <= 0:
		// Too small to represent (including zero/subnormals): flush to
		// signed zero.
		return Float16(sign)
	case exp >= 0x1F:
		// Overflow: saturate to signed infinity.
		return Float16(sign | 0x7C00)
	default:
		// Round to nearest on the 13 dropped mantissa bits; a carry out of
		// the mantissa bumps the exponent, up to infinity (0x7C00).
		h := uint32(exp)<<10 | mant>>13
		if mant&0x1000 != 0 {
			h++
		}
		return Float16(uint32(sign) | h)
	}
}

// ToFloat32 expands a Float16 back to float32.
func (f Float16) ToFloat32() float32 {
	bits := uint16(f)
	sign := uint32(bits&0x8000) << 16
	exp := uint32(bits>>10) & 0x1F
	mant := uint32(bits & 0x3FF)

	switch exp {
	case 0:
		if mant == 0 {
			return math.Float32frombits(sign)
		}
		// Subnormal half: normalize by hand.
		for mant&0x400 == 0 {
			mant <<= 1
			exp--
		}
		exp++
		mant &^= 0x400
	case 0x1F:
		return math.Float32frombits(sign | 0x7F800000 | mant<<13)
	}

	return math.Float32frombits(sign | (exp+(127-15))<<23 | mant<<13)
}

// Float16Codec stores a Float16's 2-byte bit pattern, wire-normalized like
// any other fixed-width integer.
type Float16Codec struct{}

func (Float16Codec) Name() string          { return "float16" }
func (Float16Codec) Kind() Kind            { return Fixed }
func (Float16Codec) EndianSensitive() bool { return true }
func (Float16Codec) ByteCount() int        { return 2 }
func (Float16Codec) BytesPerElement() int  { panic("float16 is a Fixed codec") }

func (c Float16Codec) SerializeFixed(v any) ([]byte, error) {
	f, ok := v.(Float16)
	if !ok {
		return nil, typeMismatch(c.Name(), "codec.Float16", v)
	}
	buf := make([]byte, 2)
	endian.PutUint16(buf, uint16(f))
	return buf, nil
}
func (c Float16Codec) DeserializeFixed(b []byte) (any, error) {
	if len(b) != 2 {
		return nil, shortBuffer(c.Name(), 2, len(b))
	}
	return Float16(endian.Uint16(b)), nil
}
func (c Float16Codec) SerializeFlex(v any, length int) ([]byte, error) {
	return nil, usageMismatch(c.Name(), Fixed)
}
func (c Float16Codec) DeserializeFlex(b []byte, length int) (any, error) {
	return nil, usageMismatch(c.Name(), Fixed)
}

// Float32Codec stores an IEEE 754 binary32 value.
type Float32Codec struct{}

func (Float32Codec) Name() string          { return "float32" }
func (Float32Codec) Kind() Kind            { return Fixed }
func (Float32Codec) EndianSensitive() bool { return true }
func (Float32Codec) ByteCount() int        { return 4 }
func (Float32Codec) BytesPerElement() int  { panic("float32 is a Fixed codec") }

func (c Float32Codec) SerializeFixed(v any) ([]byte, error) {
	f, ok := v.(float32)
	if !ok {
		return nil, typeMismatch(c.Name(), "float32", v)
	}
	buf := make([]byte, 4)
	endian.PutUint32(buf, math.Float32bits(f))
	return buf, nil
}
func (c Float32Codec) DeserializeFixed(b []byte) (any, error) {
	if len(b) != 4 {
		return nil, shortBuffer(c.Name(), 4, len(b))
	}
	return math.Float32frombits(endian.Uint32(b)), nil
}
func (c Float32Codec) SerializeFlex(v any, length int) ([]byte, error) {
	return nil, usageMismatch(c.Name(), Fixed)
}
func (c Float32Codec) DeserializeFlex(b []byte, length int) (any, error) {
	return nil, usageMismatch(c.Name(), Fixed)
}

// Float64Codec stores an IEEE 754 binary64 value.
type Float64Codec struct{}

func (Float64Codec) Name() string          { return "float64" }
func (Float64Codec) Kind() Kind            { return Fixed }
func (Float64Codec) EndianSensitive() bool { return true }
func (Float64Codec) ByteCount() int        { return 8 }
func (Float64Codec) BytesPerElement() int  { panic("float64 is a Fixed codec") }

func (c Float64Codec) SerializeFixed(v any) ([]byte, error) {
	f, ok := v.(float64)
	if !ok {
		return nil, typeMismatch(c.Name(), "float64", v)
	}
	buf := make([]byte, 8)
	endian.PutUint64(buf, math.Float64bits(f))
	return buf, nil
}
func (c Float64Codec) DeserializeFixed(b []byte) (any, error) {
	if len(b) != 8 {
		return nil, shortBuffer(c.Name(), 8, len(b))
	}
	return math.Float64frombits(endian.Uint64(b)), nil
}
func (c Float64Codec) SerializeFlex(v any, length int) ([]byte, error) {
	return nil, usageMismatch(c.Name(), Fixed)
}
func (c Float64Codec) DeserializeFlex(b []byte, length int) (any, error) {
	return nil, usageMismatch(c.Name(), Fixed)
}
