// Package schema builds and validates the ordered field list bound to one
// record type, and encodes/parses the on-disk header that describes it
// (spec §3 "Type descriptor", §4.2 "Field & Header Encoding").
package schema

import (
	"fmt"

	"github.com/Adloeth/FuziotDB/codec"
	"github.com/Adloeth/FuziotDB/ferr"
)

// MaxFieldCount is the largest number of fields one schema may declare
// (spec §3 invariant 6: field count is stored as count-1 across two
// bytes).
const MaxFieldCount = 65536

// MaxNameLength is the largest ASCII field name FuziotDB accepts (spec §3
// invariant 5: name length is stored as length-1 in one byte).
const MaxNameLength = 256

// MaxFieldLength is the largest payload byte length a single field may
// declare (spec §3 invariant 5).
const MaxFieldLength = 65536

// HeaderField is the on-disk representation of one field: just a name and
// a payload byte length. The codec used to interpret that payload is not
// part of the wire format — spec §4.2: "type/codec is not compared,
// enabling codec swaps without header rewrites provided the wire length is
// unchanged."
type HeaderField struct {
	Name   string
	Length int
}

// Equal compares (Name, Length) only, per spec §4.2.
func (h HeaderField) Equal(o HeaderField) bool {
	return h.Name == o.Name && h.Length == o.Length
}

// Field is the in-memory field descriptor: a HeaderField plus the codec
// reference used to interpret its payload (spec §3 "Field descriptor").
// Field equality, like HeaderField's, ignores the codec (spec §3:
// "Equality ignores the codec identity and compares (name, length)").
type Field struct {
	Name   string
	Length int
	Codec  codec.Codec
}

// Equal compares (Name, Length) only.
func (f Field) Equal(o Field) bool {
	return f.Name == o.Name && f.Length == o.Length
}

// Header strips the codec reference, yielding the on-disk representation.
func (f Field) Header() HeaderField {
	return HeaderField{Name: f.Name, Length: f.Length}
}

// FieldSpec is what a registration driver supplies per field: a name, a
// codec, and a declared length. For a Flexible codec, DeclaredLength is an
// *element count*, multiplied by the codec's BytesPerElement() to obtain
// the stored payload length (spec §9 Open Question). For a Fixed codec,
// DeclaredLength is ignored — the payload length is the codec's
// ByteCount().
type FieldSpec struct {
	Name           string
	Codec          codec.Codec
	DeclaredLength int
}

// isASCII reports whether s contains only bytes in the ASCII range.
func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > 0x7F {
			return false
		}
	}
	return true
}

// BuildFields validates a list of FieldSpec and turns it into the ordered
// Field list a new type descriptor is registered with (spec §4.3
// Registration steps 1). The returned order matches the caller's
// declaration order; Reconcile reorders it to match the on-disk
// header during registration (spec §4.3 step 4).
func BuildFields(specs []FieldSpec) ([]Field, error) {
	const op = "schema.BuildFields"

	if len(specs) == 0 {
		return nil, ferr.New(ferr.InvalidSchema, op, "schema must declare at least one field")
	}
	if len(specs) > MaxFieldCount {
		return nil, ferr.New(ferr.InvalidSchema, op,
			fmt.Sprintf("schema declares %d fields, exceeds maximum of %d", len(specs), MaxFieldCount))
	}

	fields := make([]Field, 0, len(specs))
	seen := make(map[string]struct{}, len(specs))

	for _, spec := range specs {
		if spec.Name == "" {
			return nil, ferr.New(ferr.InvalidSchema, op, "field name must not be empty")
		}
		if !isASCII(spec.Name) {
			return nil, ferr.New(ferr.InvalidSchema, op, fmt.Sprintf("field name %q is not ASCII", spec.Name))
		}
		if len(spec.Name) > MaxNameLength {
			return nil, ferr.New(ferr.InvalidSchema, op,
				fmt.Sprintf("field name %q is %d bytes, exceeds maximum of %d", spec.Name, len(spec.Name), MaxNameLength))
		}
		if _, dup := seen[spec.Name]; dup {
			return nil, ferr.New(ferr.InvalidSchema, op, fmt.Sprintf("duplicate field name %q", spec.Name))
		}
		seen[spec.Name] = struct{}{}

		if spec.Codec == nil {
			return nil, ferr.New(ferr.InvalidSchema, op, fmt.Sprintf("field %q has no codec", spec.Name))
		}

		var length int
		switch spec.Codec.Kind() {
		case codec.Fixed:
			length = spec.Codec.ByteCount()
		case codec.Flexible:
			if spec.DeclaredLength <= 0 {
				return nil, ferr.New(ferr.InvalidSchema, op,
					fmt.Sprintf("field %q: flexible codec requires a positive declared element count", spec.Name))
			}
			length = spec.DeclaredLength * spec.Codec.BytesPerElement()
		default:
			return nil, ferr.New(ferr.InvalidSchema, op, fmt.Sprintf("field %q: codec has unknown kind", spec.Name))
		}

		if length < 1 || length > MaxFieldLength {
			return nil, ferr.New(ferr.InvalidSchema, op,
				fmt.Sprintf("field %q: payload length %d out of range 1..%d", spec.Name, length, MaxFieldLength))
		}

		fields = append(fields, Field{Name: spec.Name, Length: length, Codec: spec.Codec})
	}

	return fields, nil
}
