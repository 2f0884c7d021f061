package record

import (
	"fmt"

	"github.com/Adloeth/FuziotDB/codec"
	"github.com/Adloeth/FuziotDB/endian"
	"github.com/Adloeth/FuziotDB/ferr"
	"github.com/Adloeth/FuziotDB/schema"
)

// EncodeFieldValue runs one field's codec write pipeline (spec §4.1):
// the codec produces its natural bytes, which are then wire-normalized if
// the codec is endian-sensitive.
func EncodeFieldValue(f schema.Field, v any) ([]byte, error) {
	var (
		raw []byte
		err error
	)
	switch f.Codec.Kind() {
	case codec.Fixed:
		raw, err = f.Codec.SerializeFixed(v)
	case codec.Flexible:
		raw, err = f.Codec.SerializeFlex(v, f.Length)
	default:
		return nil, fmt.Errorf("field %q: codec has unknown kind", f.Name)
	}
	if err != nil {
		return nil, ferr.Wrap(ferr.InvalidSchema, "record.EncodeFieldValue", err)
	}
	if len(raw) != f.Length {
		return nil, ferr.New(ferr.Corruption, "record.EncodeFieldValue",
			fmt.Sprintf("field %q: codec produced %d bytes, expected %d", f.Name, len(raw), f.Length))
	}

	if f.Codec.EndianSensitive() {
		elemSize := elementSize(f)
		endian.ToWire(raw, elemSize)
	}
	return raw, nil
}

// DecodeFieldValue runs one field's codec read pipeline (spec §4.1): the
// raw payload is wire-denormalized if the codec is endian-sensitive, then
// decoded.
func DecodeFieldValue(f schema.Field, raw []byte) (any, error) {
	buf := append([]byte(nil), raw...)
	if f.Codec.EndianSensitive() {
		endian.FromWire(buf, elementSize(f))
	}

	switch f.Codec.Kind() {
	case codec.Fixed:
		return f.Codec.DeserializeFixed(buf)
	case codec.Flexible:
		return f.Codec.DeserializeFlex(buf, f.Length)
	default:
		return nil, fmt.Errorf("field %q: codec has unknown kind", f.Name)
	}
}

// elementSize returns the width, in bytes, of one wire-normalization unit
// for f: the codec's fixed byte count, or its flexible bytes-per-element.
func elementSize(f schema.Field) int {
	if f.Codec.Kind() == codec.Fixed {
		return f.Codec.ByteCount()
	}
	return f.Codec.BytesPerElement()
}

// encodeSlotPayload encodes every field of values (in d.Type.Fields order)
// into the slot body that follows the options byte.
func (d *Descriptor) encodeSlotPayload(values []any) ([]byte, error) {
	if len(values) != len(d.Type.Fields) {
		return nil, ferr.New(ferr.InvalidSchema, "record.encodeSlotPayload",
			fmt.Sprintf("expected %d values, got %d", len(d.Type.Fields), len(values)))
	}

	payload := make([]byte, d.Type.SlotSize-1)
	off := 0
	for i, f := range d.Type.Fields {
		raw, err := EncodeFieldValue(f, values[i])
		if err != nil {
			return nil, err
		}
		copy(payload[off:], raw)
		off += f.Length
	}
	return payload, nil
}

// writeSlot writes options followed by the encoded payload at id's offset.
func (d *Descriptor) writeSlot(id uint64, options byte, values []any) error {
	payload, err := d.encodeSlotPayload(values)
	if err != nil {
		return err
	}

	buf := make([]byte, d.Type.SlotSize)
	buf[0] = options
	copy(buf[1:], payload)

	if _, err := d.f.WriteAt(buf, d.slotOffset(id)); err != nil {
		return ferr.Wrap(ferr.Io, "record.writeSlot", err)
	}
	return nil
}

// writeSlotPayload writes only the payload bytes of slot id, leaving its
// options byte untouched — used by Set, which must preserve tombstone
// status (spec §4.3 "Set"; "the options byte is not rewritten").
func (d *Descriptor) writeSlotPayload(id uint64, values []any) error {
	payload, err := d.encodeSlotPayload(values)
	if err != nil {
		return err
	}
	if _, err := d.f.WriteAt(payload, d.slotOffset(id)+1); err != nil {
		return ferr.Wrap(ferr.Io, "record.writeSlotPayload", err)
	}
	return nil
}

// readOptions reads just the 1-byte options field of slot id.
func (d *Descriptor) readOptions(id uint64) (byte, error) {
	buf := make([]byte, 1)
	if _, err := d.f.ReadAt(buf, d.slotOffset(id)); err != nil {
		return 0, ferr.Wrap(ferr.Io, "record.readOptions", err)
	}
	return buf[0], nil
}
