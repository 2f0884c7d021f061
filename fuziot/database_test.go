package fuziot

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/Adloeth/FuziotDB/codec"
	"github.com/Adloeth/FuziotDB/internal/config"
	"github.com/Adloeth/FuziotDB/schema"
)

func newTestDatabase(t *testing.T) *Database {
	t.Helper()
	cfg := config.Default()
	cfg.DataDir = t.TempDir()
	cfg.Workers = 3
	db := Open(cfg)
	t.Cleanup(func() { db.Shutdown() })
	return db
}

func registerWidget(t *testing.T, db *Database) {
	t.Helper()
	err := db.Register("Widget", []schema.FieldSpec{
		{Name: "name", Codec: codec.ASCIICodec{}, DeclaredLength: 8},
		{Name: "age", Codec: codec.Uint32Codec{}},
	}, false)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
}

func TestRegisterPushFetchRoundTrip(t *testing.T) {
	db := newTestDatabase(t)
	registerWidget(t, db)

	id, err := db.Push("Widget", []any{"alice", uint32(30)})
	if err != nil {
		t.Fatalf("Push: %v", err)
	}

	rows, err := db.Fetch("Widget", []string{"name", "age"}, func(values []any) bool { return true })
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(rows) != 1 || rows[0].SlotID != id {
		t.Fatalf("got %+v, want one row with id %d", rows, id)
	}
}

func TestUnregisteredTypeFails(t *testing.T) {
	db := newTestDatabase(t)
	if _, err := db.Push("Nope", []any{}); err == nil {
		t.Fatal("expected error for unregistered type")
	}
}

func TestFreeThenFetchExcludesRow(t *testing.T) {
	db := newTestDatabase(t)
	registerWidget(t, db)

	id, _ := db.Push("Widget", []any{"alice", uint32(30)})
	if err := db.Free("Widget", id); err != nil {
		t.Fatalf("Free: %v", err)
	}

	rows, err := db.Fetch("Widget", []string{"name"}, func(values []any) bool { return true })
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("got %d rows, want 0 after Free", len(rows))
	}
}

func TestPushAsyncWaitForResult(t *testing.T) {
	db := newTestDatabase(t)
	registerWidget(t, db)

	h := db.PushAsync("Widget", []any{"bob", uint32(40)})
	id, err := h.WaitForResult()
	if err != nil {
		t.Fatalf("WaitForResult: %v", err)
	}

	rows, err := db.Fetch("Widget", []string{"name"}, func(values []any) bool { return true })
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(rows) != 1 || rows[0].SlotID != id {
		t.Fatalf("got %+v, want row with id %d", rows, id)
	}
}

func TestParallelFetchAsyncMatchesSynchronous(t *testing.T) {
	db := newTestDatabase(t)
	registerWidget(t, db)

	for i := 0; i < 25; i++ {
		if _, err := db.Push("Widget", []any{"x", uint32(i)}); err != nil {
			t.Fatalf("Push: %v", err)
		}
	}

	pred := func(values []any) bool { return values[0].(uint32)%2 == 0 }
	want, err := db.Fetch("Widget", []string{"age"}, pred)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	h := db.FetchAsync(context.Background(), "Widget", []string{"age"}, pred)
	got, err := h.WaitForResult()
	if err != nil {
		t.Fatalf("WaitForResult: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("ParallelFetch returned %d rows, want %d", len(got), len(want))
	}
}

func TestFetchCancellableStopsEarly(t *testing.T) {
	db := newTestDatabase(t)
	registerWidget(t, db)

	for i := 0; i < 10; i++ {
		if _, err := db.Push("Widget", []any{"x", uint32(i)}); err != nil {
			t.Fatalf("Push: %v", err)
		}
	}

	seen := 0
	rows, err := db.FetchCancellable("Widget", []string{"age"}, func(values []any, cancel *atomic.Bool) bool {
		seen++
		if values[0].(uint32) == 2 {
			cancel.Store(true)
		}
		return true
	})
	if err != nil {
		t.Fatalf("FetchCancellable: %v", err)
	}
	if seen > 4 {
		t.Fatalf("scan kept going well past cancellation, visited %d slots", seen)
	}
	if len(rows) == 0 {
		t.Fatal("expected at least one row before cancellation")
	}
}

func TestParallelFetchCancellableAsyncMatchesFetchCancellable(t *testing.T) {
	db := newTestDatabase(t)
	registerWidget(t, db)

	for i := 0; i < 25; i++ {
		if _, err := db.Push("Widget", []any{"x", uint32(i)}); err != nil {
			t.Fatalf("Push: %v", err)
		}
	}

	h := db.FetchCancellableAsync(context.Background(), "Widget", []string{"age"}, func(values []any, cancel *atomic.Bool) bool {
		return true
	})
	got, err := h.WaitForResult()
	if err != nil {
		t.Fatalf("WaitForResult: %v", err)
	}
	if len(got) != 25 {
		t.Fatalf("got %d rows, want 25 (no cancellation requested)", len(got))
	}
}

func TestStatsReportsLiveAndTotalSlots(t *testing.T) {
	db := newTestDatabase(t)
	registerWidget(t, db)

	db.Push("Widget", []any{"a", uint32(1)})
	id2, _ := db.Push("Widget", []any{"b", uint32(2)})
	db.Free("Widget", id2)

	stats := db.Stats()
	if len(stats) != 1 {
		t.Fatalf("got %d stats entries, want 1", len(stats))
	}
	s := stats[0]
	if s.TotalSlots != 2 || s.LiveSlotCount != 1 {
		t.Fatalf("got %+v, want TotalSlots=2 LiveSlotCount=1", s)
	}
}

func TestRegisterFromYAML(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "widget.yaml")
	contents := `
name: Widget
fields:
  - name: name
    codec: ascii
    length: 8
  - name: age
    codec: uint32
`
	if err := os.WriteFile(yamlPath, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg := config.Default()
	cfg.DataDir = t.TempDir()
	db := Open(cfg)
	t.Cleanup(func() { db.Shutdown() })

	if err := db.RegisterFromYAML(yamlPath, false); err != nil {
		t.Fatalf("RegisterFromYAML: %v", err)
	}
	if _, err := db.Push("Widget", []any{"alice", uint32(30)}); err != nil {
		t.Fatalf("Push after RegisterFromYAML: %v", err)
	}
}
