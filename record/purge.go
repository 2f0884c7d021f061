package record

import (
	"os"

	"github.com/Adloeth/FuziotDB/ferr"
	"github.com/Adloeth/FuziotDB/schema"
)

// Purge compacts the file: every non-tombstoned slot is copied, in order,
// into a fresh temp file, which is then atomically swapped in for the
// source (spec §4.3 "Purge"). Surviving slots are renumbered 0..k-1 in
// their original relative order; the free-slot queue is emptied.
func (d *Descriptor) Purge() error {
	const op = "record.Purge"
	d.Gate.Lock()
	defer d.Gate.Unlock()

	tempPath := d.Path + ".purge.tmp"
	temp, err := os.OpenFile(tempPath, os.O_CREATE|os.O_TRUNC|os.O_RDWR, 0o644)
	if err != nil {
		return ferr.Wrap(ferr.Io, op, err)
	}
	defer os.Remove(tempPath) // no-op once the rename below succeeds

	header := schemaHeader(d)
	if _, err := temp.Write(header); err != nil {
		temp.Close()
		return ferr.Wrap(ferr.Io, op, err)
	}

	slotBuf := make([]byte, d.Type.SlotSize)
	count := d.InstanceCount()
	var survivors int64

	for id := uint64(0); id < count; id++ {
		if _, err := d.f.ReadAt(slotBuf, d.slotOffset(id)); err != nil {
			temp.Close()
			return ferr.Wrap(ferr.Io, op, err)
		}
		if slotBuf[0]&optionsDeleted != 0 {
			continue
		}
		if _, err := temp.Write(slotBuf); err != nil {
			temp.Close()
			return ferr.Wrap(ferr.Io, op, err)
		}
		survivors++
	}

	if err := temp.Close(); err != nil {
		return ferr.Wrap(ferr.Io, op, err)
	}
	if err := d.f.Close(); err != nil {
		return ferr.Wrap(ferr.Io, op, err)
	}
	if err := replaceFile(op, tempPath, d.Path); err != nil {
		return err
	}

	f, err := os.OpenFile(d.Path, os.O_RDWR, 0o644)
	if err != nil {
		return ferr.Wrap(ferr.Io, op, err)
	}
	d.f = f
	d.fileLen = int64(d.Type.HeaderSize) + survivors*int64(d.Type.SlotSize)
	d.free.clear()
	return nil
}

func schemaHeader(d *Descriptor) []byte {
	return schema.EncodeHeader(d.Type.Headers())
}
