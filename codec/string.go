package codec

import (
	"unicode/utf16"

	"github.com/Adloeth/FuziotDB/endian"
)

// ASCIICodec stores a string as raw ASCII bytes, truncating or zero-padding
// to the schema-declared length (spec §4.1: "returns exactly L bytes,
// truncating or zero-padding the natural encoding as needed"). One
// declared element is one byte.
type ASCIICodec struct{}

func (ASCIICodec) Name() string          { return "ascii" }
func (ASCIICodec) Kind() Kind            { return Flexible }
func (ASCIICodec) EndianSensitive() bool { return false }
func (ASCIICodec) ByteCount() int        { panic("ascii is a Flexible codec") }
func (ASCIICodec) BytesPerElement() int  { return 1 }

func (c ASCIICodec) SerializeFixed(v any) ([]byte, error) {
	return nil, usageMismatch(c.Name(), Flexible)
}
func (c ASCIICodec) DeserializeFixed(b []byte) (any, error) {
	return nil, usageMismatch(c.Name(), Flexible)
}

func (c ASCIICodec) SerializeFlex(v any, length int) ([]byte, error) {
	s, ok := v.(string)
	if !ok {
		return nil, typeMismatch(c.Name(), "string", v)
	}
	out := make([]byte, length)
	copy(out, s)
	return out, nil
}

func (c ASCIICodec) DeserializeFlex(b []byte, length int) (any, error) {
	if len(b) != length {
		return nil, shortBuffer(c.Name(), length, len(b))
	}
	end := len(b)
	for end > 0 && b[end-1] == 0 {
		end--
	}
	return string(b[:end]), nil
}

// UTF16Codec stores a string as UTF-16 code units, two bytes per declared
// element, truncating or zero-padding to the declared length (spec §4.1).
// Wire normalization applies per 2-byte code unit like any other
// multi-byte integer.
type UTF16Codec struct{}

func (UTF16Codec) Name() string          { return "utf16" }
func (UTF16Codec) Kind() Kind            { return Flexible }
func (UTF16Codec) EndianSensitive() bool { return true }
func (UTF16Codec) ByteCount() int        { panic("utf16 is a Flexible codec") }
func (UTF16Codec) BytesPerElement() int  { return 2 }

func (c UTF16Codec) SerializeFixed(v any) ([]byte, error) {
	return nil, usageMismatch(c.Name(), Flexible)
}
func (c UTF16Codec) DeserializeFixed(b []byte) (any, error) {
	return nil, usageMismatch(c.Name(), Flexible)
}

func (c UTF16Codec) SerializeFlex(v any, length int) ([]byte, error) {
	s, ok := v.(string)
	if !ok {
		return nil, typeMismatch(c.Name(), "string", v)
	}

	units := utf16.Encode([]rune(s))
	out := make([]byte, length)
	for i, u := range units {
		off := i * 2
		if off+2 > length {
			break
		}
		endian.PutUint16(out[off:off+2], u)
	}
	return out, nil
}

func (c UTF16Codec) DeserializeFlex(b []byte, length int) (any, error) {
	if len(b) != length {
		return nil, shortBuffer(c.Name(), length, len(b))
	}

	units := make([]uint16, 0, length/2)
	for off := 0; off+2 <= length; off += 2 {
		u := endian.Uint16(b[off : off+2])
		if u == 0 {
			break
		}
		units = append(units, u)
	}
	return string(utf16.Decode(units)), nil
}

// BytesCodec stores a raw byte buffer verbatim, truncated or zero-padded to
// the declared length. It is not endian-sensitive: the payload is opaque
// bytes, not a sequence of multi-byte integers.
type BytesCodec struct{}

func (BytesCodec) Name() string          { return "bytes" }
func (BytesCodec) Kind() Kind            { return Flexible }
func (BytesCodec) EndianSensitive() bool { return false }
func (BytesCodec) ByteCount() int        { panic("bytes is a Flexible codec") }
func (BytesCodec) BytesPerElement() int  { return 1 }

func (c BytesCodec) SerializeFixed(v any) ([]byte, error) {
	return nil, usageMismatch(c.Name(), Flexible)
}
func (c BytesCodec) DeserializeFixed(b []byte) (any, error) {
	return nil, usageMismatch(c.Name(), Flexible)
}

func (c BytesCodec) SerializeFlex(v any, length int) ([]byte, error) {
	raw, ok := v.([]byte)
	if !ok {
		return nil, typeMismatch(c.Name(), "[]byte", v)
	}
	out := make([]byte, length)
	copy(out, raw)
	return out, nil
}

func (c BytesCodec) DeserializeFlex(b []byte, length int) (any, error) {
	if len(b) != length {
		return nil, shortBuffer(c.Name(), length, len(b))
	}
	out := make([]byte, length)
	copy(out, b)
	return out, nil
}
