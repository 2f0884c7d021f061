// Package scan implements FuziotDB's synchronous and parallel-partitioned
// Fetch/FetchFull/Count scans (spec §4.4): for each non-tombstoned slot,
// decode the requested fields (or the full record), evaluate the caller's
// predicate, and collect or count the matches.
package scan

import (
	"fmt"
	"sync/atomic"

	"github.com/Adloeth/FuziotDB/ferr"
	"github.com/Adloeth/FuziotDB/record"
	"github.com/Adloeth/FuziotDB/schema"
)

// Row is one Fetch match: the slot id followed by the requested field
// values, in the order they were requested (spec §4.4 "Fetch").
type Row struct {
	SlotID uint64
	Values []any
}

// Record is one FetchFull match: the slot id and every field's decoded
// value, in schema order (spec §4.4 "FetchFull"). It stands in for the
// host-language instance the spec describes — full host-type
// materialization is an external collaborator (spec §1 Out of scope).
type Record struct {
	SlotID uint64
	Values []any
}

// Predicate evaluates a Fetch projection in a non-cancellable scan.
type Predicate func(values []any) bool

// CancellablePredicate evaluates a Fetch projection and may request early
// termination by storing true into cancel (spec §4.4 "Cancellable
// predicate signatures"). The scan stops after the slot currently being
// processed; in a parallel scan other workers observe the flag
// best-effort and may each process a few more slots before stopping.
type CancellablePredicate func(values []any, cancel *atomic.Bool) bool

// FullPredicate evaluates a FetchFull record.
type FullPredicate func(rec *Record) bool

// FullCancellablePredicate evaluates a FetchFull record and may cancel the
// scan the same way CancellablePredicate does.
type FullCancellablePredicate func(rec *Record, cancel *atomic.Bool) bool

// fieldProjection is one resolved (offset, field) pair: offset is the
// field's byte offset within the slot, starting at 1 to skip the options
// byte (spec §4.4 "Projection setup").
type fieldProjection struct {
	field  schema.Field
	offset int
}

// resolveFields maps requested field names to (offset, field) pairs. An
// unrecognized name fails with ferr.UnknownField.
func resolveFields(ty *schema.Type, names []string) ([]fieldProjection, error) {
	type located struct {
		field  schema.Field
		offset int
	}
	byName := make(map[string]located, len(ty.Fields))
	off := 1
	for _, f := range ty.Fields {
		byName[f.Name] = located{field: f, offset: off}
		off += f.Length
	}

	out := make([]fieldProjection, len(names))
	for i, name := range names {
		loc, ok := byName[name]
		if !ok {
			return nil, ferr.New(ferr.UnknownField, "scan.resolveFields", fmt.Sprintf("field %q not in schema", name))
		}
		out[i] = fieldProjection{field: loc.field, offset: loc.offset}
	}
	return out, nil
}

// allFields returns every field of ty as a fieldProjection in schema
// order, used by FetchFull.
func allFields(ty *schema.Type) []fieldProjection {
	out := make([]fieldProjection, len(ty.Fields))
	off := 1
	for i, f := range ty.Fields {
		out[i] = fieldProjection{field: f, offset: off}
		off += f.Length
	}
	return out
}

// readerAt is the minimal file interface a scan partition needs; satisfied
// by both a record.Descriptor's own file handle and a pooled reader.
type readerAt interface {
	ReadAt(p []byte, off int64) (int, error)
}

// readSlot reads slot id's options byte and (if not tombstoned) its full
// remaining body in one call each (spec §4.4 per-slot read steps 1-2),
// then extracts and decodes each requested projection. deleted reports
// whether the slot was tombstoned, in which case values is nil.
func readSlot(r readerAt, ty *schema.Type, id uint64, projections []fieldProjection) (deleted bool, values []any, err error) {
	const op = "scan.readSlot"
	slotOff := int64(ty.HeaderSize) + int64(id)*int64(ty.SlotSize)

	optBuf := make([]byte, 1)
	if _, err := r.ReadAt(optBuf, slotOff); err != nil {
		return false, nil, ferr.Wrap(ferr.Io, op, err)
	}
	if optBuf[0]&0x01 != 0 {
		return true, nil, nil
	}

	body := make([]byte, ty.SlotSize-1)
	if _, err := r.ReadAt(body, slotOff+1); err != nil {
		return false, nil, ferr.Wrap(ferr.Io, op, err)
	}

	values = make([]any, len(projections))
	for i, p := range projections {
		start := p.offset - 1
		raw := body[start : start+p.field.Length]
		v, err := record.DecodeFieldValue(p.field, raw)
		if err != nil {
			return false, nil, err
		}
		values[i] = v
	}
	return false, values, nil
}
