package fuziot

import (
	"context"

	"github.com/Adloeth/FuziotDB/scan"
)

// Fetch evaluates pred against the requested projection of every live row
// of name, single-threaded (spec.md §4.7 "fetch").
func (db *Database) Fetch(name string, fields []string, pred scan.Predicate) ([]scan.Row, error) {
	entry, err := db.lookup("fuziot.Fetch", name)
	if err != nil {
		return nil, err
	}
	return scan.Fetch(entry.descriptor, fields, pred)
}

// FetchCancellable is Fetch with a predicate that can stop the scan early
// by setting its cancel flag (spec.md §6 "Predicate interface exposed to
// host": `FetchPredCancellable(values, &cancel)`).
func (db *Database) FetchCancellable(name string, fields []string, pred scan.CancellablePredicate) ([]scan.Row, error) {
	entry, err := db.lookup("fuziot.FetchCancellable", name)
	if err != nil {
		return nil, err
	}
	return scan.FetchCancellable(entry.descriptor, fields, pred)
}

// FetchFull is Fetch over every field of name's schema (spec.md §4.7
// "fetch_full").
func (db *Database) FetchFull(name string, pred scan.FullPredicate) ([]scan.Record, error) {
	entry, err := db.lookup("fuziot.FetchFull", name)
	if err != nil {
		return nil, err
	}
	return scan.FetchFull(entry.descriptor, pred)
}

// FetchFullCancellable is FetchFull with a predicate that can stop the
// scan early (spec.md §6 "Predicate interface exposed to host":
// `FetchFullPredCancellable(record, &cancel)`).
func (db *Database) FetchFullCancellable(name string, pred scan.FullCancellablePredicate) ([]scan.Record, error) {
	entry, err := db.lookup("fuziot.FetchFullCancellable", name)
	if err != nil {
		return nil, err
	}
	return scan.FetchFullCancellable(entry.descriptor, pred)
}

// Count is Fetch without row materialization (spec.md §4.7 "count").
func (db *Database) Count(name string, fields []string, pred scan.Predicate) (uint64, error) {
	entry, err := db.lookup("fuziot.Count", name)
	if err != nil {
		return 0, err
	}
	return scan.Count(entry.descriptor, fields, pred)
}

// ParallelFetch is Fetch split across the Database's configured worker
// count (spec.md §5 "Scheduling model"). It waits for any in-flight
// parallel action before dispatching, and holds the gate until its own
// workers finish (spec.md §4.7 "Before any new action, the façade waits
// for any in-flight parallel action to complete").
func (db *Database) ParallelFetch(ctx context.Context, name string, fields []string, pred scan.Predicate) ([]scan.Row, error) {
	entry, err := db.lookup("fuziot.ParallelFetch", name)
	if err != nil {
		return nil, err
	}

	db.actionGate.Lock()
	defer db.actionGate.Unlock()
	return scan.ParallelFetch(ctx, entry.descriptor, entry.readers, db.cfg.Workers, fields, pred)
}

// ParallelFetchCancellable is ParallelFetch with a predicate that can
// cancel the scan early; every worker shares one cancel flag (spec.md §6).
func (db *Database) ParallelFetchCancellable(ctx context.Context, name string, fields []string, pred scan.CancellablePredicate) ([]scan.Row, error) {
	entry, err := db.lookup("fuziot.ParallelFetchCancellable", name)
	if err != nil {
		return nil, err
	}

	db.actionGate.Lock()
	defer db.actionGate.Unlock()
	return scan.ParallelFetchCancellable(ctx, entry.descriptor, entry.readers, db.cfg.Workers, fields, pred)
}

// ParallelFetchFull is FetchFull split across partitions.
func (db *Database) ParallelFetchFull(ctx context.Context, name string, pred scan.FullPredicate) ([]scan.Record, error) {
	entry, err := db.lookup("fuziot.ParallelFetchFull", name)
	if err != nil {
		return nil, err
	}

	db.actionGate.Lock()
	defer db.actionGate.Unlock()
	return scan.ParallelFetchFull(ctx, entry.descriptor, entry.readers, db.cfg.Workers, pred)
}

// ParallelFetchFullCancellable is ParallelFetchFull with a predicate that
// can cancel the scan early (spec.md §6).
func (db *Database) ParallelFetchFullCancellable(ctx context.Context, name string, pred scan.FullCancellablePredicate) ([]scan.Record, error) {
	entry, err := db.lookup("fuziot.ParallelFetchFullCancellable", name)
	if err != nil {
		return nil, err
	}

	db.actionGate.Lock()
	defer db.actionGate.Unlock()
	return scan.ParallelFetchFullCancellable(ctx, entry.descriptor, entry.readers, db.cfg.Workers, pred)
}

// ParallelCount is Count split across partitions.
func (db *Database) ParallelCount(ctx context.Context, name string, fields []string, pred scan.Predicate) (uint64, error) {
	entry, err := db.lookup("fuziot.ParallelCount", name)
	if err != nil {
		return 0, err
	}

	db.actionGate.Lock()
	defer db.actionGate.Unlock()
	return scan.ParallelCount(ctx, entry.descriptor, entry.readers, db.cfg.Workers, fields, pred)
}
