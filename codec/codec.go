// Package codec translates host values to and from the fixed-length byte
// payloads FuziotDB stores in a slot. A codec is either fixed — its payload
// length is a constant of the codec itself — or flexible — its payload
// length is declared per-field at schema registration time (spec §4.1).
//
// Every codec in this package is immutable and safe to share by reference
// across every field that selects it (spec §3 Ownership).
package codec

import (
	"fmt"

	"github.com/Adloeth/FuziotDB/ferr"
)

// Kind distinguishes fixed codecs (serialize_fixed/deserialize_fixed) from
// flexible codecs (serialize_flex/deserialize_flex, spec §4.1).
type Kind uint8

const (
	Fixed Kind = iota
	Flexible
)

func (k Kind) String() string {
	if k == Fixed {
		return "Fixed"
	}
	return "Flexible"
}

// MaxByteCount is the largest payload length a single field may declare
// (spec §3 invariant 5/6: length is stored as length-1 across two bytes).
const MaxByteCount = 65536

// Codec is the read/write pair for one logical field type. A given Codec
// implements only the fixed or the flexible half of the interface; calling
// the other half returns ferr.UsageMismatch (spec §4.1 Error conditions).
type Codec interface {
	// Name identifies the codec for diagnostics and registry lookup.
	Name() string
	// Kind reports whether this codec is Fixed or Flexible.
	Kind() Kind
	// EndianSensitive reports whether the codec's natural output must be
	// normalized to the wire byte order before writing, and back after
	// reading (spec §4.1 write/read pipeline).
	EndianSensitive() bool
	// ByteCount returns the constant payload length of a Fixed codec. It
	// panics if called on a Flexible codec; callers should check Kind
	// first.
	ByteCount() int
	// BytesPerElement returns the payload bytes contributed by one
	// declared element of a Flexible codec (spec §9 Open Question: the
	// schema-declared number is an element count for flexible codecs,
	// multiplied here to get the stored payload length). It panics if
	// called on a Fixed codec.
	BytesPerElement() int

	// SerializeFixed returns exactly ByteCount() bytes for v. Valid only
	// on Fixed codecs.
	SerializeFixed(v any) ([]byte, error)
	// DeserializeFixed decodes exactly ByteCount() bytes of b into a
	// value. Valid only on Fixed codecs.
	DeserializeFixed(b []byte) (any, error)
	// SerializeFlex returns exactly length bytes for v, truncating or
	// zero-padding the natural encoding as needed. Valid only on
	// Flexible codecs.
	SerializeFlex(v any, length int) ([]byte, error)
	// DeserializeFlex decodes exactly length bytes of b into a value.
	// Valid only on Flexible codecs.
	DeserializeFlex(b []byte, length int) (any, error)
}

// usageMismatch builds the ferr.UsageMismatch error a codec returns when
// invoked through the wrong half of the interface.
func usageMismatch(codecName string, wantKind Kind) error {
	return ferr.New(ferr.UsageMismatch, "codec."+codecName,
		fmt.Sprintf("codec %q is %s; invoked via the %s path", codecName, oppositeOf(wantKind), wantKind))
}

func oppositeOf(k Kind) Kind {
	if k == Fixed {
		return Flexible
	}
	return Fixed
}

// Registry maps a logical field type name to its Codec. Registries are
// built once (typically via Default()) and shared by reference; they are
// not safe to mutate concurrently with lookups.
type Registry struct {
	byName map[string]Codec
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Codec)}
}

// Register adds (or replaces) a codec under its own Name(). ByteCount() of
// a Fixed codec must not exceed MaxByteCount (spec §4.1 Error conditions:
// "byte_count > 65536 fails at codec construction").
func (r *Registry) Register(c Codec) error {
	if c.Kind() == Fixed && c.ByteCount() > MaxByteCount {
		return ferr.New(ferr.InvalidSchema, "codec.Register",
			fmt.Sprintf("codec %q byte count %d exceeds %d", c.Name(), c.ByteCount(), MaxByteCount))
	}
	r.byName[c.Name()] = c
	return nil
}

// Lookup returns the codec registered under name.
func (r *Registry) Lookup(name string) (Codec, bool) {
	c, ok := r.byName[name]
	return c, ok
}

// Default returns a registry pre-populated with every codec spec §4.1
// requires: booleans, signed/unsigned 8/16/32/64-bit integers, UUID,
// 16-byte big-integer, 16/32/64-bit floats, UTF-16 and ASCII strings, and a
// raw byte buffer.
func Default() *Registry {
	r := NewRegistry()
	for _, c := range []Codec{
		BoolCodec{},
		Uint8Codec{}, Uint16Codec{}, Uint32Codec{}, Uint64Codec{},
		Int8Codec{}, Int16Codec{}, Int32Codec{}, Int64Codec{},
		UUIDCodec{},
		BigIntCodec{},
		Float16Codec{}, Float32Codec{}, Float64Codec{},
		UTF16Codec{}, ASCIICodec{},
		BytesCodec{},
	} {
		// Default codecs are all well-formed by construction; the error
		// path only triggers for a hand-built Fixed codec whose
		// ByteCount() exceeds MaxByteCount, which none of these do.
		_ = r.Register(c)
	}
	return r
}
