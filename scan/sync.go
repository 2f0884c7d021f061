package scan

import (
	"sync/atomic"

	"github.com/Adloeth/FuziotDB/record"
)

// Fetch evaluates pred against the requested projection of every live slot
// in d, in ascending id order, and collects the matches (spec §4.4
// "Fetch", single-threaded form). The read is taken under a shared
// (reader) Gate lock for the duration of the scan.
func Fetch(d *record.Descriptor, fields []string, pred Predicate) ([]Row, error) {
	projections, err := resolveFields(d.Type, fields)
	if err != nil {
		return nil, err
	}

	d.Gate.RLock()
	defer d.Gate.RUnlock()

	var out []Row
	count := d.InstanceCount()
	for id := uint64(0); id < count; id++ {
		deleted, values, err := readSlot(d.Reader(), d.Type, id, projections)
		if err != nil {
			return nil, err
		}
		if deleted {
			continue
		}
		if pred(values) {
			out = append(out, Row{SlotID: id, Values: values})
		}
	}
	return out, nil
}

// FetchCancellable is Fetch with a predicate that may request early
// termination by setting *cancel to true (spec §4.4 "Cancellable
// predicate signatures"). The scan stops as soon as cancel is observed
// true, after finishing the slot that set it.
func FetchCancellable(d *record.Descriptor, fields []string, pred CancellablePredicate) ([]Row, error) {
	projections, err := resolveFields(d.Type, fields)
	if err != nil {
		return nil, err
	}

	d.Gate.RLock()
	defer d.Gate.RUnlock()

	var cancel atomic.Bool
	var out []Row
	count := d.InstanceCount()
	for id := uint64(0); id < count; id++ {
		if cancel.Load() {
			break
		}
		deleted, values, err := readSlot(d.Reader(), d.Type, id, projections)
		if err != nil {
			return nil, err
		}
		if deleted {
			continue
		}
		if pred(values, &cancel) {
			out = append(out, Row{SlotID: id, Values: values})
		}
	}
	return out, nil
}

// FetchFull is Fetch over the complete record (every field, in schema
// order) rather than a name-selected projection (spec §4.4 "FetchFull").
func FetchFull(d *record.Descriptor, pred FullPredicate) ([]Record, error) {
	projections := allFields(d.Type)

	d.Gate.RLock()
	defer d.Gate.RUnlock()

	var out []Record
	count := d.InstanceCount()
	for id := uint64(0); id < count; id++ {
		deleted, values, err := readSlot(d.Reader(), d.Type, id, projections)
		if err != nil {
			return nil, err
		}
		if deleted {
			continue
		}
		rec := &Record{SlotID: id, Values: values}
		if pred(rec) {
			out = append(out, *rec)
		}
	}
	return out, nil
}

// FetchFullCancellable is FetchFull with an early-terminating predicate.
func FetchFullCancellable(d *record.Descriptor, pred FullCancellablePredicate) ([]Record, error) {
	projections := allFields(d.Type)

	d.Gate.RLock()
	defer d.Gate.RUnlock()

	var cancel atomic.Bool
	var out []Record
	count := d.InstanceCount()
	for id := uint64(0); id < count; id++ {
		if cancel.Load() {
			break
		}
		deleted, values, err := readSlot(d.Reader(), d.Type, id, projections)
		if err != nil {
			return nil, err
		}
		if deleted {
			continue
		}
		rec := &Record{SlotID: id, Values: values}
		if pred(rec, &cancel) {
			out = append(out, *rec)
		}
	}
	return out, nil
}

// Count evaluates pred against the requested projection of every live slot
// and returns how many matched, without materializing rows (spec §4.4
// "Count").
func Count(d *record.Descriptor, fields []string, pred Predicate) (uint64, error) {
	projections, err := resolveFields(d.Type, fields)
	if err != nil {
		return 0, err
	}

	d.Gate.RLock()
	defer d.Gate.RUnlock()

	var n uint64
	count := d.InstanceCount()
	for id := uint64(0); id < count; id++ {
		deleted, values, err := readSlot(d.Reader(), d.Type, id, projections)
		if err != nil {
			return 0, err
		}
		if deleted {
			continue
		}
		if pred(values) {
			n++
		}
	}
	return n, nil
}
