package record

import (
	"fmt"

	"github.com/Adloeth/FuziotDB/ferr"
)

// Push allocates a slot — recycling a tombstoned one if the free queue is
// non-empty, otherwise appending — and writes values into it in header
// order (spec §4.3 "Push"). It returns the new slot's id.
func (d *Descriptor) Push(values []any) (uint64, error) {
	d.Gate.Lock()
	defer d.Gate.Unlock()

	id, recycled := d.free.pop()
	// A double Free queues the same id twice; skip any queued id whose slot
	// has since been recycled and is no longer tombstoned.
	for recycled {
		opts, err := d.readOptions(id)
		if err != nil {
			return 0, err
		}
		if opts&optionsDeleted != 0 {
			break
		}
		id, recycled = d.free.pop()
	}
	if !recycled {
		id = d.InstanceCount()
	}

	if err := d.writeSlot(id, 0, values); err != nil {
		return 0, err
	}

	if !recycled {
		d.fileLen += int64(d.Type.SlotSize)
	}
	return id, nil
}

// Set overwrites an existing slot's payload in place, preserving its
// tombstone status (spec §4.3 "Set"). It fails with ferr.NotFound if id is
// at or beyond the end of the file.
func (d *Descriptor) Set(id uint64, values []any) error {
	d.Gate.Lock()
	defer d.Gate.Unlock()

	if err := d.checkBounds("record.Set", id); err != nil {
		return err
	}
	return d.writeSlotPayload(id, values)
}

// Free tombstones each id: sets its Deleted bit and enqueues it on the
// free-slot queue (spec §4.3 "Free"). Freeing an already-tombstoned id is
// idempotent: the bit is simply OR'd in again and the id may appear twice
// in the queue (spec §8).
func (d *Descriptor) Free(ids ...uint64) error {
	d.Gate.Lock()
	defer d.Gate.Unlock()

	for _, id := range ids {
		if err := d.checkBounds("record.Free", id); err != nil {
			return err
		}
		opts, err := d.readOptions(id)
		if err != nil {
			return err
		}
		opts |= optionsDeleted
		if _, err := d.f.WriteAt([]byte{opts}, d.slotOffset(id)); err != nil {
			return ferr.Wrap(ferr.Io, "record.Free", err)
		}
		d.free.push(id)
	}
	return nil
}

// PurgeKeep zeroes the payload bytes of every currently-queued free slot,
// leaving the file's size and the options byte (still tombstoned)
// unchanged (spec §4.3 "PurgeKeep").
func (d *Descriptor) PurgeKeep() error {
	d.Gate.Lock()
	defer d.Gate.Unlock()

	zero := make([]byte, d.Type.SlotSize-1)
	for _, id := range d.free.ids {
		if _, err := d.f.WriteAt(zero, d.slotOffset(id)+1); err != nil {
			return ferr.Wrap(ferr.Io, "record.PurgeKeep", err)
		}
	}
	return nil
}

func (d *Descriptor) checkBounds(op string, id uint64) error {
	if d.slotOffset(id)+int64(d.Type.SlotSize) > d.fileLen {
		return ferr.New(ferr.NotFound, op, fmt.Sprintf("slot id %d beyond end of file", id))
	}
	return nil
}
