package codec

// BigInt is a 16-byte big-integer payload stored verbatim in the host's
// native byte order. Unlike the fixed-width integer codecs, this codec is
// deliberately not endian-normalized (spec §9: "Big-integer payload is not
// endian-normalized by the engine; the codec stores the host's native byte
// order verbatim"). Cross-architecture portability of a BigInt field is
// therefore the caller's responsibility.
type BigInt [16]byte

// BigIntCodec stores a BigInt's 16 bytes exactly as given, with no wire
// normalization.
type BigIntCodec struct{}

func (BigIntCodec) Name() string          { return "bigint" }
func (BigIntCodec) Kind() Kind            { return Fixed }
func (BigIntCodec) EndianSensitive() bool { return false }
func (BigIntCodec) ByteCount() int        { return 16 }
func (BigIntCodec) BytesPerElement() int  { panic("bigint is a Fixed codec") }

func (c BigIntCodec) SerializeFixed(v any) ([]byte, error) {
	n, ok := v.(BigInt)
	if !ok {
		return nil, typeMismatch(c.Name(), "codec.BigInt", v)
	}
	out := make([]byte, 16)
	copy(out, n[:])
	return out, nil
}

func (c BigIntCodec) DeserializeFixed(b []byte) (any, error) {
	if len(b) != 16 {
		return nil, shortBuffer(c.Name(), 16, len(b))
	}
	var n BigInt
	copy(n[:], b)
	return n, nil
}

func (c BigIntCodec) SerializeFlex(v any, length int) ([]byte, error) {
	return nil, usageMismatch(c.Name(), Fixed)
}
func (c BigIntCodec) DeserializeFlex(b []byte, length int) (any, error) {
	return nil, usageMismatch(c.Name(), Fixed)
}
