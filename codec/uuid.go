package codec

import "github.com/google/uuid"

// UUIDCodec stores a google/uuid.UUID verbatim as its 16 raw bytes. A UUID
// is conventionally serialized byte-for-byte rather than word-at-a-time, so
// it is not endian-sensitive: the wire normalization step in the codec
// pipeline (spec §4.1) is a no-op for this codec regardless of host byte
// order.
type UUIDCodec struct{}

func (UUIDCodec) Name() string          { return "uuid" }
func (UUIDCodec) Kind() Kind            { return Fixed }
func (UUIDCodec) EndianSensitive() bool { return false }
func (UUIDCodec) ByteCount() int        { return 16 }
func (UUIDCodec) BytesPerElement() int  { panic("uuid is a Fixed codec") }

func (c UUIDCodec) SerializeFixed(v any) ([]byte, error) {
	id, ok := v.(uuid.UUID)
	if !ok {
		return nil, typeMismatch(c.Name(), "uuid.UUID", v)
	}
	out := make([]byte, 16)
	copy(out, id[:])
	return out, nil
}

func (c UUIDCodec) DeserializeFixed(b []byte) (any, error) {
	if len(b) != 16 {
		return nil, shortBuffer(c.Name(), 16, len(b))
	}
	var id uuid.UUID
	copy(id[:], b)
	return id, nil
}

func (c UUIDCodec) SerializeFlex(v any, length int) ([]byte, error) {
	return nil, usageMismatch(c.Name(), Fixed)
}
func (c UUIDCodec) DeserializeFlex(b []byte, length int) (any, error) {
	return nil, usageMismatch(c.Name(), Fixed)
}
