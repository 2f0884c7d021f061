// Package record implements the binary record file format FuziotDB binds
// to each registered type: the header + fixed-size slot array (spec §4.2),
// the append/tombstone/recycle/purge lifecycle (spec §4.3), and the header
// migration procedure (spec §4.6). Grounded on the teacher's
// storage/binary writer/reader pair, generalized from EntityDB's
// variable-length entity records to FuziotDB's fixed-size slots.
package record

import (
	"errors"
	"fmt"
	"os"

	natomic "github.com/natefinch/atomic"

	"github.com/Adloeth/FuziotDB/ferr"
	"github.com/Adloeth/FuziotDB/internal/rwgate"
	"github.com/Adloeth/FuziotDB/schema"
)

// optionsDeleted is bit 0 of a slot's options byte (spec §4.2).
const optionsDeleted = 0x01

// Descriptor is the runtime state of one record type's file: its finalized
// schema, the open file handle, the free-slot queue, and the per-type
// reader/writer gate (spec §3 "Type descriptor"). A Descriptor is safe for
// concurrent use; callers other than the scan package should not need to
// reach past its exported methods.
type Descriptor struct {
	Type *schema.Type
	Path string

	f        *os.File
	free     *freeQueue
	fileLen  int64
	Gate     *rwgate.Gate
}

// Open registers a record type against a file under dir, implementing the
// registration contract of spec §4.3: validate the schema, create the
// file if absent, otherwise compare the on-disk header against the
// declared schema (migrating it in place if upgrade is true and they
// differ), reorder the in-memory fields to on-disk order, rebuild the
// free-slot queue, and finalize.
func Open(dir, name string, specs []schema.FieldSpec, upgrade bool) (*Descriptor, error) {
	const op = "record.Open"

	fields, err := schema.BuildFields(specs)
	if err != nil {
		return nil, err
	}

	path := PathFor(dir, name)

	_, statErr := os.Stat(path)
	switch {
	case errors.Is(statErr, os.ErrNotExist):
		return createNew(op, path, name, fields)
	case statErr == nil:
		return openExisting(op, path, name, fields, upgrade)
	default:
		return nil, ferr.Wrap(ferr.Io, op, statErr)
	}
}

func createNew(op, path, name string, fields []schema.Field) (*Descriptor, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, ferr.Wrap(ferr.Io, op, err)
	}

	ty := schema.NewType(name, fields)
	header := schema.EncodeHeader(ty.Headers())
	if _, err := f.WriteAt(header, 0); err != nil {
		f.Close()
		return nil, ferr.Wrap(ferr.Io, op, err)
	}

	return &Descriptor{
		Type:    ty,
		Path:    path,
		f:       f,
		free:    newFreeQueue(),
		fileLen: int64(ty.HeaderSize),
		Gate:    rwgate.New(),
	}, nil
}

func openExisting(op, path, name string, fields []schema.Field, upgrade bool) (*Descriptor, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0o644)
	if err != nil {
		return nil, ferr.Wrap(ferr.Io, op, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, ferr.Wrap(ferr.Io, op, err)
	}

	headerBuf := make([]byte, info.Size())
	if _, err := f.ReadAt(headerBuf, 0); err != nil {
		f.Close()
		return nil, ferr.Wrap(ferr.Io, op, err)
	}

	onDisk, headerSize, err := schema.DecodeHeader(headerBuf)
	if err != nil {
		f.Close()
		return nil, err
	}

	reordered, reconcileErr := schema.Reconcile(op, fields, onDisk, upgrade)
	if reconcileErr != nil {
		kind, _ := ferr.KindOf(reconcileErr)
		if kind != ferr.HeaderMismatch || !upgrade {
			f.Close()
			return nil, reconcileErr
		}

		// Schema differs and the caller opted into migration: rewrite the
		// file in place (spec §4.6), then reopen against the new layout.
		if err := f.Close(); err != nil {
			return nil, ferr.Wrap(ferr.Io, op, err)
		}
		if err := upgradeFile(op, path, fields); err != nil {
			return nil, err
		}
		return createDescriptorFromFreshlyMigratedFile(op, path, name, fields)
	}

	ty := schema.NewType(name, reordered)
	if rem := info.Size() - int64(headerSize); rem%int64(ty.SlotSize) != 0 {
		f.Close()
		return nil, ferr.New(ferr.Corruption, op,
			fmt.Sprintf("file length %d inconsistent with header size %d and slot size %d", info.Size(), headerSize, ty.SlotSize))
	}

	d := &Descriptor{
		Type:    ty,
		Path:    path,
		f:       f,
		free:    newFreeQueue(),
		fileLen: info.Size(),
		Gate:    rwgate.New(),
	}
	if err := d.rebuildFreeQueue(); err != nil {
		f.Close()
		return nil, err
	}
	return d, nil
}

// createDescriptorFromFreshlyMigratedFile reopens a file immediately after
// upgradeFile has rewritten it to the declared schema; the new header is
// guaranteed to match, so no further reconciliation is needed.
func createDescriptorFromFreshlyMigratedFile(op, path, name string, fields []schema.Field) (*Descriptor, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0o644)
	if err != nil {
		return nil, ferr.Wrap(ferr.Io, op, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, ferr.Wrap(ferr.Io, op, err)
	}

	ty := schema.NewType(name, fields)
	return &Descriptor{
		Type:    ty,
		Path:    path,
		f:       f,
		free:    newFreeQueue(), // upgrade empties the free queue (spec §4.6)
		fileLen: info.Size(),
		Gate:    rwgate.New(),
	}, nil
}

// rebuildFreeQueue scans every slot's options byte and enqueues the
// tombstoned ones (spec §4.3 step 5, §4.5).
func (d *Descriptor) rebuildFreeQueue() error {
	const op = "record.rebuildFreeQueue"

	count := d.InstanceCount()
	buf := make([]byte, 1)
	for id := uint64(0); id < count; id++ {
		if _, err := d.f.ReadAt(buf, d.slotOffset(id)); err != nil {
			return ferr.Wrap(ferr.Io, op, err)
		}
		if buf[0]&optionsDeleted != 0 {
			d.free.push(id)
		}
	}
	return nil
}

// InstanceCount returns the number of slots currently in the file
// (including tombstoned ones).
func (d *Descriptor) InstanceCount() uint64 {
	return uint64((d.fileLen - int64(d.Type.HeaderSize)) / int64(d.Type.SlotSize))
}

// FreeCount returns the number of slot ids currently queued for reuse.
func (d *Descriptor) FreeCount() uint64 {
	return uint64(d.free.len())
}

// FileSize returns the file's current length in bytes, header included.
func (d *Descriptor) FileSize() int64 {
	return d.fileLen
}

func (d *Descriptor) slotOffset(id uint64) int64 {
	return int64(d.Type.HeaderSize) + int64(id)*int64(d.Type.SlotSize)
}

// Reader exposes the descriptor's own file handle for reads taken under a
// held Gate.RLock — the synchronous scan path (spec §4.4 "Fetch") reads
// through it directly, the way the teacher's query path reads through its
// writer handle for small scans. Parallel scan partitions instead borrow
// their own handle from an internal/readerpool.Pool opened against Path,
// so they don't serialize on this one handle's file offset.
func (d *Descriptor) Reader() *os.File {
	return d.f
}

// Close releases the underlying file handle. It does not wait for
// in-flight scans; callers coordinate that through Gate.
func (d *Descriptor) Close() error {
	if err := d.f.Close(); err != nil {
		return ferr.Wrap(ferr.Io, "record.Close", err)
	}
	return nil
}

// replaceFile atomically swaps tempPath in for path, via natefinch/atomic
// (spec §4.3 Purge / §4.6 Upgrade: "atomically replace the source file").
func replaceFile(op, tempPath, path string) error {
	if err := natomic.ReplaceFile(tempPath, path); err != nil {
		return ferr.Wrap(ferr.Io, op, err)
	}
	return nil
}
