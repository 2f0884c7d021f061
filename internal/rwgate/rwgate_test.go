package rwgate

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestMultipleReadersConcurrent(t *testing.T) {
	g := New()
	var active int32
	var maxActive int32
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			g.RLock()
			n := atomic.AddInt32(&active, 1)
			for {
				m := atomic.LoadInt32(&maxActive)
				if n <= m || atomic.CompareAndSwapInt32(&maxActive, m, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt32(&active, -1)
			g.RUnlock()
		}()
	}
	wg.Wait()

	if maxActive < 2 {
		t.Fatalf("expected multiple readers to overlap, max concurrent = %d", maxActive)
	}
}

func TestWriterExcludesReaders(t *testing.T) {
	g := New()
	var writing int32

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		g.Lock()
		atomic.StoreInt32(&writing, 1)
		time.Sleep(20 * time.Millisecond)
		atomic.StoreInt32(&writing, 0)
		g.Unlock()
	}()

	time.Sleep(5 * time.Millisecond) // let the writer acquire first
	g.RLock()
	if atomic.LoadInt32(&writing) != 0 {
		t.Fatal("reader admitted while writer held the gate")
	}
	g.RUnlock()
	wg.Wait()
}

func TestWriteLockIsExclusive(t *testing.T) {
	g := New()
	var count int32
	var wg sync.WaitGroup

	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			g.Lock()
			n := atomic.AddInt32(&count, 1)
			if n != 1 {
				t.Errorf("writer overlap detected, count=%d", n)
			}
			time.Sleep(2 * time.Millisecond)
			atomic.AddInt32(&count, -1)
			g.Unlock()
		}()
	}
	wg.Wait()
}
