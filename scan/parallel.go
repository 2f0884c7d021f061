package scan

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/Adloeth/FuziotDB/internal/readerpool"
	"github.com/Adloeth/FuziotDB/record"
)

// partition is one worker's contiguous id range (spec §4.4 "Parallel
// scans"): base = floor(instance_count / workers) slots per worker, with
// the last worker absorbing the remainder.
type partition struct {
	start, count uint64
}

func computePartitions(instanceCount uint64, workers int) []partition {
	if workers < 1 {
		workers = 1
	}
	base := instanceCount / uint64(workers)
	out := make([]partition, workers)
	for i := 0; i < workers; i++ {
		start := base * uint64(i)
		cnt := base
		if i == workers-1 {
			cnt = instanceCount - start
		}
		out[i] = partition{start: start, count: cnt}
	}
	return out
}

// ParallelFetch is Fetch split across workers goroutines, one per
// partition, coordinated by an errgroup.Group and bounded by a
// semaphore.Weighted sized to workers (spec §4.4 "Parallel scans"). Each
// worker borrows its own file handle from pool rather than sharing d's
// writer handle. Results are concatenated in worker-index (id) order, not
// completion order.
func ParallelFetch(ctx context.Context, d *record.Descriptor, pool *readerpool.Pool, workers int, fields []string, pred Predicate) ([]Row, error) {
	projections, err := resolveFields(d.Type, fields)
	if err != nil {
		return nil, err
	}

	d.Gate.RLock()
	defer d.Gate.RUnlock()

	parts := computePartitions(d.InstanceCount(), workers)
	results := make([][]Row, len(parts))

	sem := semaphore.NewWeighted(int64(workers))
	g, gctx := errgroup.WithContext(ctx)

	for i, part := range parts {
		i, part := i, part
		g.Go(func() error {
			if err := sem.Acquire(gctx, 1); err != nil {
				return err
			}
			defer sem.Release(1)

			f, err := pool.Get()
			if err != nil {
				return err
			}
			defer pool.Put(f)

			var rows []Row
			for id := part.start; id < part.start+part.count; id++ {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}
				deleted, values, err := readSlot(f, d.Type, id, projections)
				if err != nil {
					return err
				}
				if deleted {
					continue
				}
				if pred(values) {
					rows = append(rows, Row{SlotID: id, Values: values})
				}
			}
			results[i] = rows
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []Row
	for _, rows := range results {
		out = append(out, rows...)
	}
	return out, nil
}

// ParallelFetchCancellable is ParallelFetch with an early-terminating
// predicate. Workers share one atomic.Bool; once any worker sets it, every
// worker stops after its current slot (spec §4.4: cancellation in a
// parallel scan is best-effort, not an instantaneous stop).
func ParallelFetchCancellable(ctx context.Context, d *record.Descriptor, pool *readerpool.Pool, workers int, fields []string, pred CancellablePredicate) ([]Row, error) {
	projections, err := resolveFields(d.Type, fields)
	if err != nil {
		return nil, err
	}

	d.Gate.RLock()
	defer d.Gate.RUnlock()

	parts := computePartitions(d.InstanceCount(), workers)
	results := make([][]Row, len(parts))

	var cancel atomic.Bool
	sem := semaphore.NewWeighted(int64(workers))
	g, gctx := errgroup.WithContext(ctx)

	for i, part := range parts {
		i, part := i, part
		g.Go(func() error {
			if err := sem.Acquire(gctx, 1); err != nil {
				return err
			}
			defer sem.Release(1)

			f, err := pool.Get()
			if err != nil {
				return err
			}
			defer pool.Put(f)

			var rows []Row
			for id := part.start; id < part.start+part.count; id++ {
				if cancel.Load() {
					break
				}
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}
				deleted, values, err := readSlot(f, d.Type, id, projections)
				if err != nil {
					return err
				}
				if deleted {
					continue
				}
				if pred(values, &cancel) {
					rows = append(rows, Row{SlotID: id, Values: values})
				}
			}
			results[i] = rows
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []Row
	for _, rows := range results {
		out = append(out, rows...)
	}
	return out, nil
}

// ParallelFetchFull is FetchFull split across partitions the same way
// ParallelFetch is.
func ParallelFetchFull(ctx context.Context, d *record.Descriptor, pool *readerpool.Pool, workers int, pred FullPredicate) ([]Record, error) {
	projections := allFields(d.Type)

	d.Gate.RLock()
	defer d.Gate.RUnlock()

	parts := computePartitions(d.InstanceCount(), workers)
	results := make([][]Record, len(parts))

	sem := semaphore.NewWeighted(int64(workers))
	g, gctx := errgroup.WithContext(ctx)

	for i, part := range parts {
		i, part := i, part
		g.Go(func() error {
			if err := sem.Acquire(gctx, 1); err != nil {
				return err
			}
			defer sem.Release(1)

			f, err := pool.Get()
			if err != nil {
				return err
			}
			defer pool.Put(f)

			var recs []Record
			for id := part.start; id < part.start+part.count; id++ {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}
				deleted, values, err := readSlot(f, d.Type, id, projections)
				if err != nil {
					return err
				}
				if deleted {
					continue
				}
				rec := &Record{SlotID: id, Values: values}
				if pred(rec) {
					recs = append(recs, *rec)
				}
			}
			results[i] = recs
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []Record
	for _, recs := range results {
		out = append(out, recs...)
	}
	return out, nil
}

// ParallelFetchFullCancellable is ParallelFetchFull with an
// early-terminating predicate.
func ParallelFetchFullCancellable(ctx context.Context, d *record.Descriptor, pool *readerpool.Pool, workers int, pred FullCancellablePredicate) ([]Record, error) {
	projections := allFields(d.Type)

	d.Gate.RLock()
	defer d.Gate.RUnlock()

	parts := computePartitions(d.InstanceCount(), workers)
	results := make([][]Record, len(parts))

	var cancel atomic.Bool
	sem := semaphore.NewWeighted(int64(workers))
	g, gctx := errgroup.WithContext(ctx)

	for i, part := range parts {
		i, part := i, part
		g.Go(func() error {
			if err := sem.Acquire(gctx, 1); err != nil {
				return err
			}
			defer sem.Release(1)

			f, err := pool.Get()
			if err != nil {
				return err
			}
			defer pool.Put(f)

			var recs []Record
			for id := part.start; id < part.start+part.count; id++ {
				if cancel.Load() {
					break
				}
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}
				deleted, values, err := readSlot(f, d.Type, id, projections)
				if err != nil {
					return err
				}
				if deleted {
					continue
				}
				rec := &Record{SlotID: id, Values: values}
				if pred(rec, &cancel) {
					recs = append(recs, *rec)
				}
			}
			results[i] = recs
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []Record
	for _, recs := range results {
		out = append(out, recs...)
	}
	return out, nil
}

// ParallelCount is Count split across partitions; each worker's match
// count is summed once every partition finishes.
func ParallelCount(ctx context.Context, d *record.Descriptor, pool *readerpool.Pool, workers int, fields []string, pred Predicate) (uint64, error) {
	projections, err := resolveFields(d.Type, fields)
	if err != nil {
		return 0, err
	}

	d.Gate.RLock()
	defer d.Gate.RUnlock()

	parts := computePartitions(d.InstanceCount(), workers)
	counts := make([]uint64, len(parts))

	sem := semaphore.NewWeighted(int64(workers))
	g, gctx := errgroup.WithContext(ctx)

	for i, part := range parts {
		i, part := i, part
		g.Go(func() error {
			if err := sem.Acquire(gctx, 1); err != nil {
				return err
			}
			defer sem.Release(1)

			f, err := pool.Get()
			if err != nil {
				return err
			}
			defer pool.Put(f)

			var n uint64
			for id := part.start; id < part.start+part.count; id++ {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}
				deleted, values, err := readSlot(f, d.Type, id, projections)
				if err != nil {
					return err
				}
				if deleted {
					continue
				}
				if pred(values) {
					n++
				}
			}
			counts[i] = n
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return 0, err
	}

	var total uint64
	for _, n := range counts {
		total += n
	}
	return total, nil
}
