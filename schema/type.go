package schema

import "github.com/Adloeth/FuziotDB/ferr"

// Type is the finalized schema for one record type: its ordered field
// list (in on-disk order, the single source of truth for slot layout —
// spec §4.3 step 4), and the header/slot sizes derived from it.
type Type struct {
	Name       string
	Fields     []Field
	HeaderSize int
	SlotSize int // 1 (options byte) + sum of field lengths
}

// NewType computes HeaderSize and SlotSize from an ordered field list.
func NewType(name string, fields []Field) *Type {
	slot := 1
	for _, f := range fields {
		slot += f.Length
	}
	return &Type{
		Name:       name,
		Fields:     fields,
		HeaderSize: HeaderSize(headersOf(fields)),
		SlotSize:   slot,
	}
}

func headersOf(fields []Field) []HeaderField {
	out := make([]HeaderField, len(fields))
	for i, f := range fields {
		out[i] = f.Header()
	}
	return out
}

// Headers returns the on-disk representation of t's field list, in t's
// current order.
func (t *Type) Headers() []HeaderField {
	return headersOf(t.Fields)
}

// sameFieldSet reports whether a and b contain the same (name, length)
// pairs, irrespective of order (spec §4.3 step 3: "set-equality of
// (name, L)").
func sameFieldSet(a, b []HeaderField) bool {
	if len(a) != len(b) {
		return false
	}
	count := make(map[HeaderField]int, len(a))
	for _, f := range a {
		count[f]++
	}
	for _, f := range b {
		count[f]--
	}
	for _, n := range count {
		if n != 0 {
			return false
		}
	}
	return true
}

// Reconcile matches a newly declared field list against the field list
// found in an existing file's on-disk header. On a set-equality match it
// returns the declared fields reordered to the on-disk order (spec §4.3
// step 4: disk order is authoritative). On a mismatch it returns
// ferr.HeaderMismatch whatever upgrade is; upgrade only changes the
// message. A caller that passed upgrade=true treats that error as the cue
// to run the header migration procedure (spec §4.6).
func Reconcile(op string, declared []Field, onDisk []HeaderField, upgrade bool) ([]Field, error) {
	declaredHeaders := headersOf(declared)
	if !sameFieldSet(declaredHeaders, onDisk) {
		if upgrade {
			return nil, ferr.New(ferr.HeaderMismatch, op, "schema differs from on-disk header; caller must invoke Upgrade")
		}
		return nil, ferr.New(ferr.HeaderMismatch, op, "declared schema does not match on-disk header and upgrade=false")
	}

	byName := make(map[string]Field, len(declared))
	for _, f := range declared {
		byName[f.Name] = f
	}

	reordered := make([]Field, len(onDisk))
	for i, h := range onDisk {
		reordered[i] = byName[h.Name]
	}
	return reordered, nil
}
