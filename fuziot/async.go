package fuziot

import (
	"context"

	"github.com/Adloeth/FuziotDB/scan"
)

// Handle is the deferred result of a dispatched async action (spec.md
// §4.7/§6: "async variants returning a handle that exposes
// wait_for_result()"). A Handle is created per call and discarded after
// WaitForResult returns.
type Handle[T any] struct {
	done   chan struct{}
	result T
	err    error
}

func newHandle[T any]() *Handle[T] {
	return &Handle[T]{done: make(chan struct{})}
}

func (h *Handle[T]) fulfil(result T, err error) {
	h.result = result
	h.err = err
	close(h.done)
}

// WaitForResult blocks until the dispatched action completes and returns
// its result and error.
func (h *Handle[T]) WaitForResult() (T, error) {
	<-h.done
	return h.result, h.err
}

// dispatch runs fn on its own goroutine under the action gate (spec.md §5
// "the façade submits exactly one action at a time"), fulfilling h once fn
// returns.
func dispatch[T any](db *Database, fn func() (T, error)) *Handle[T] {
	h := newHandle[T]()
	go func() {
		db.actionGate.Lock()
		defer db.actionGate.Unlock()
		result, err := fn()
		h.fulfil(result, err)
	}()
	return h
}

// PushAsync is the async form of Push.
func (db *Database) PushAsync(name string, values []any) *Handle[uint64] {
	return dispatch(db, func() (uint64, error) { return db.Push(name, values) })
}

// SetAsync is the async form of Set.
func (db *Database) SetAsync(name string, id uint64, values []any) *Handle[struct{}] {
	return dispatch(db, func() (struct{}, error) { return struct{}{}, db.Set(name, id, values) })
}

// FreeAsync is the async form of Free.
func (db *Database) FreeAsync(name string, ids ...uint64) *Handle[struct{}] {
	return dispatch(db, func() (struct{}, error) { return struct{}{}, db.Free(name, ids...) })
}

// FetchAsync dispatches a parallel Fetch and returns immediately with a
// handle.
func (db *Database) FetchAsync(ctx context.Context, name string, fields []string, pred scan.Predicate) *Handle[[]scan.Row] {
	h := newHandle[[]scan.Row]()
	go func() {
		entry, err := db.lookup("fuziot.FetchAsync", name)
		if err != nil {
			h.fulfil(nil, err)
			return
		}
		db.actionGate.Lock()
		defer db.actionGate.Unlock()
		rows, err := scan.ParallelFetch(ctx, entry.descriptor, entry.readers, db.cfg.Workers, fields, pred)
		h.fulfil(rows, err)
	}()
	return h
}

// FetchCancellableAsync dispatches a parallel cancellable Fetch and
// returns immediately with a handle.
func (db *Database) FetchCancellableAsync(ctx context.Context, name string, fields []string, pred scan.CancellablePredicate) *Handle[[]scan.Row] {
	h := newHandle[[]scan.Row]()
	go func() {
		entry, err := db.lookup("fuziot.FetchCancellableAsync", name)
		if err != nil {
			h.fulfil(nil, err)
			return
		}
		db.actionGate.Lock()
		defer db.actionGate.Unlock()
		rows, err := scan.ParallelFetchCancellable(ctx, entry.descriptor, entry.readers, db.cfg.Workers, fields, pred)
		h.fulfil(rows, err)
	}()
	return h
}

// FetchFullAsync dispatches a parallel FetchFull and returns immediately
// with a handle.
func (db *Database) FetchFullAsync(ctx context.Context, name string, pred scan.FullPredicate) *Handle[[]scan.Record] {
	h := newHandle[[]scan.Record]()
	go func() {
		entry, err := db.lookup("fuziot.FetchFullAsync", name)
		if err != nil {
			h.fulfil(nil, err)
			return
		}
		db.actionGate.Lock()
		defer db.actionGate.Unlock()
		recs, err := scan.ParallelFetchFull(ctx, entry.descriptor, entry.readers, db.cfg.Workers, pred)
		h.fulfil(recs, err)
	}()
	return h
}

// FetchFullCancellableAsync dispatches a parallel cancellable FetchFull
// and returns immediately with a handle.
func (db *Database) FetchFullCancellableAsync(ctx context.Context, name string, pred scan.FullCancellablePredicate) *Handle[[]scan.Record] {
	h := newHandle[[]scan.Record]()
	go func() {
		entry, err := db.lookup("fuziot.FetchFullCancellableAsync", name)
		if err != nil {
			h.fulfil(nil, err)
			return
		}
		db.actionGate.Lock()
		defer db.actionGate.Unlock()
		recs, err := scan.ParallelFetchFullCancellable(ctx, entry.descriptor, entry.readers, db.cfg.Workers, pred)
		h.fulfil(recs, err)
	}()
	return h
}

// CountAsync dispatches a parallel Count and returns immediately with a
// handle.
func (db *Database) CountAsync(ctx context.Context, name string, fields []string, pred scan.Predicate) *Handle[uint64] {
	h := newHandle[uint64]()
	go func() {
		entry, err := db.lookup("fuziot.CountAsync", name)
		if err != nil {
			h.fulfil(0, err)
			return
		}
		db.actionGate.Lock()
		defer db.actionGate.Unlock()
		n, err := scan.ParallelCount(ctx, entry.descriptor, entry.readers, db.cfg.Workers, fields, pred)
		h.fulfil(n, err)
	}()
	return h
}
