// Package fuziot is FuziotDB's public façade: a registry of record types
// bound to a shared worker pool and reader-handle pools, exposing
// register/push/set/free/fetch/fetch_full/count and their async and
// parallel forms (spec.md §4.7 "Database Façade"). Grounded on the
// teacher's repository-factory wiring and its parallel_query.go pool
// lifecycle, expressed with golang.org/x/sync instead of a hand-rolled
// channel pool.
package fuziot

import (
	"fmt"
	"os"
	"sync"

	"github.com/Adloeth/FuziotDB/codec"
	"github.com/Adloeth/FuziotDB/internal/config"
	"github.com/Adloeth/FuziotDB/internal/logger"
	"github.com/Adloeth/FuziotDB/internal/readerpool"
	"github.com/Adloeth/FuziotDB/internal/schemadef"
	"github.com/Adloeth/FuziotDB/record"
	"github.com/Adloeth/FuziotDB/schema"
)

// typeEntry is everything the façade keeps for one registered record type.
type typeEntry struct {
	descriptor *record.Descriptor
	readers    *readerpool.Pool
}

// Database is the root handle a host opens once and shares across its
// lifetime. It owns every registered type's Descriptor, a reader-handle
// pool per type, and the gate that serializes parallel actions against the
// shared worker pool (spec.md §5 "The façade submits exactly one action at
// a time").
type Database struct {
	cfg      config.Config
	registry *codec.Registry
	log      *logger.Logger

	mu    sync.RWMutex
	types map[string]*typeEntry

	actionGate sync.Mutex
}

// Open creates a Database rooted at cfg.DataDir. RegisterFromYAML resolves
// codec names against codec.Default(); Register takes codecs directly from
// its specs. cfg.DataDir is created if it does not already
// exist, so a host can point at a fresh directory on first run.
func Open(cfg config.Config) *Database {
	os.MkdirAll(cfg.DataDir, 0o755)
	return &Database{
		cfg:      cfg,
		registry: codec.Default(),
		log:      logger.Default(),
		types:    make(map[string]*typeEntry),
	}
}

// Register binds name to a file under cfg.DataDir built from specs (spec.md
// §4.3's registration contract, via record.Open). upgrade selects
// strict-header-match versus in-place migration on mismatch.
func (db *Database) Register(name string, specs []schema.FieldSpec, upgrade bool) error {
	d, err := record.Open(db.cfg.DataDir, name, specs, upgrade)
	if err != nil {
		return err
	}

	db.mu.Lock()
	db.types[name] = &typeEntry{
		descriptor: d,
		readers:    readerpool.New(d.Path, db.cfg.ReaderPoolSize),
	}
	db.mu.Unlock()

	db.log.Info("registered type %q at %s", name, d.Path)
	return nil
}

// RegisterFromYAML reads a schema.Def from a YAML file via
// internal/schemadef and registers it, letting callers (notably
// cmd/fuziotctl) declare schemas declaratively instead of building
// []schema.FieldSpec literals by hand.
func (db *Database) RegisterFromYAML(path string, upgrade bool) error {
	def, err := schemadef.Load(path)
	if err != nil {
		return err
	}
	specs, err := def.FieldSpecs(db.registry)
	if err != nil {
		return err
	}
	return db.Register(def.Name, specs, upgrade || def.Upgrade)
}

// lookup returns the typeEntry for name, or an error if name was never
// registered.
func (db *Database) lookup(op, name string) (*typeEntry, error) {
	db.mu.RLock()
	entry, ok := db.types[name]
	db.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%s: type %q is not registered", op, name)
	}
	return entry, nil
}

// Push appends a new row to name's file (spec.md §4.3 "Push").
func (db *Database) Push(name string, values []any) (uint64, error) {
	entry, err := db.lookup("fuziot.Push", name)
	if err != nil {
		return 0, err
	}
	return entry.descriptor.Push(values)
}

// Set overwrites an existing row in place (spec.md §4.3 "Set").
func (db *Database) Set(name string, id uint64, values []any) error {
	entry, err := db.lookup("fuziot.Set", name)
	if err != nil {
		return err
	}
	return entry.descriptor.Set(id, values)
}

// Free tombstones one or more rows (spec.md §4.3 "Free").
func (db *Database) Free(name string, ids ...uint64) error {
	entry, err := db.lookup("fuziot.Free", name)
	if err != nil {
		return err
	}
	return entry.descriptor.Free(ids...)
}

// Purge compacts name's file, dropping tombstoned rows (spec.md §4.3
// "Purge").
func (db *Database) Purge(name string) error {
	entry, err := db.lookup("fuziot.Purge", name)
	if err != nil {
		return err
	}
	db.log.Info("purging type %q", name)
	return entry.descriptor.Purge()
}

// PurgeKeep zeroes the payload of queued free slots without compacting the
// file (spec.md §4.3 "PurgeKeep").
func (db *Database) PurgeKeep(name string) error {
	entry, err := db.lookup("fuziot.PurgeKeep", name)
	if err != nil {
		return err
	}
	return entry.descriptor.PurgeKeep()
}

// Shutdown closes every registered type's file and reader pool, joining
// the worker pool (spec.md §6 "a shutdown() that joins the worker pool").
// It waits for any in-flight parallel action to finish first.
func (db *Database) Shutdown() error {
	db.actionGate.Lock()
	defer db.actionGate.Unlock()

	db.mu.Lock()
	defer db.mu.Unlock()

	var firstErr error
	for name, entry := range db.types {
		if err := entry.readers.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		if err := entry.descriptor.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(db.types, name)
	}
	db.log.Info("database shut down")
	return firstErr
}

// Stats is one registered type's operational counters: live slot count,
// total slot count, and file size.
type Stats struct {
	Name          string
	LiveSlotCount uint64
	TotalSlots    uint64
	FileSize      int64
}

// Stats returns per-type counters for every registered type, for
// operational visibility.
func (db *Database) Stats() []Stats {
	db.mu.RLock()
	defer db.mu.RUnlock()

	out := make([]Stats, 0, len(db.types))
	for name, entry := range db.types {
		total := entry.descriptor.InstanceCount()
		out = append(out, Stats{
			Name:          name,
			TotalSlots:    total,
			LiveSlotCount: total - entry.descriptor.FreeCount(),
			FileSize:      entry.descriptor.FileSize(),
		})
	}
	return out
}
