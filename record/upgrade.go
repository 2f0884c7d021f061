package record

import (
	"os"

	"github.com/Adloeth/FuziotDB/ferr"
	"github.com/Adloeth/FuziotDB/schema"
)

// upgradeFile rewrites the file at path so its header matches declared,
// copying verbatim the payload bytes of fields present (by (name, length))
// in both the old and new headers, and zero-filling fields the new schema
// adds (spec §4.6). Tombstoned slots are dropped entirely — upgrade does
// not preserve deletions, and the free-slot queue is empty afterward. This
// runs against the file on disk, before any Descriptor exists for the new
// schema; callers reopen the file once this returns.
func upgradeFile(op, path string, declared []schema.Field) error {
	src, err := os.OpenFile(path, os.O_RDONLY, 0o644)
	if err != nil {
		return ferr.Wrap(ferr.Io, op, err)
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return ferr.Wrap(ferr.Io, op, err)
	}
	oldHeaderBuf := make([]byte, info.Size())
	if _, err := src.ReadAt(oldHeaderBuf, 0); err != nil {
		return ferr.Wrap(ferr.Io, op, err)
	}
	oldFields, oldHeaderSize, err := schema.DecodeHeader(oldHeaderBuf)
	if err != nil {
		return err
	}

	oldSlotSize := 1
	for _, f := range oldFields {
		oldSlotSize += f.Length
	}

	newType := schema.NewType("", declared)
	newHeader := schema.EncodeHeader(newType.Headers())

	tempPath := path + ".upgrade.tmp"
	temp, err := os.OpenFile(tempPath, os.O_CREATE|os.O_TRUNC|os.O_RDWR, 0o644)
	if err != nil {
		return ferr.Wrap(ferr.Io, op, err)
	}
	defer os.Remove(tempPath)

	if _, err := temp.Write(newHeader); err != nil {
		temp.Close()
		return ferr.Wrap(ferr.Io, op, err)
	}

	oldByKey := make(map[schema.HeaderField]struct{ offset, length int }, len(oldFields))
	off := 1
	for _, f := range oldFields {
		oldByKey[f] = struct{ offset, length int }{off, f.Length}
		off += f.Length
	}

	remaining := info.Size() - int64(oldHeaderSize)
	oldSlotCount := remaining / int64(oldSlotSize)

	slotBuf := make([]byte, oldSlotSize)
	for id := int64(0); id < oldSlotCount; id++ {
		if _, err := src.ReadAt(slotBuf, int64(oldHeaderSize)+id*int64(oldSlotSize)); err != nil {
			temp.Close()
			return ferr.Wrap(ferr.Io, op, err)
		}

		if slotBuf[0]&optionsDeleted != 0 {
			continue // deleted slots are not preserved across an upgrade
		}

		out := make([]byte, newType.SlotSize)
		wOff := 1
		for _, nf := range newType.Fields {
			key := schema.HeaderField{Name: nf.Name, Length: nf.Length}
			if loc, ok := oldByKey[key]; ok {
				copy(out[wOff:wOff+nf.Length], slotBuf[loc.offset:loc.offset+loc.length])
			}
			// else: field absent from the old schema, left zero-filled.
			wOff += nf.Length
		}

		if _, err := temp.Write(out); err != nil {
			temp.Close()
			return ferr.Wrap(ferr.Io, op, err)
		}
	}

	if err := temp.Close(); err != nil {
		return ferr.Wrap(ferr.Io, op, err)
	}
	if err := src.Close(); err != nil {
		return ferr.Wrap(ferr.Io, op, err)
	}
	return replaceFile(op, tempPath, path)
}
