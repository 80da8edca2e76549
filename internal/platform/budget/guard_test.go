package budget

import (
	"sync"
	"testing"
	"time"
)

func TestGuardRefusesAtLimit(t *testing.T) {
	t.Parallel()

	g := NewGuard(3, 24*time.Hour)
	base := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	g.now = func() time.Time { return base }

	for i := 0; i < 3; i++ {
		if !g.TryAcquire() {
			t.Fatalf("acquire %d refused below limit", i)
		}
	}
	if g.TryAcquire() {
		t.Fatal("acquire admitted over limit")
	}
	if got := g.Remaining(); got != 0 {
		t.Fatalf("remaining = %d, want 0", got)
	}
}

func TestGuardWindowSlides(t *testing.T) {
	t.Parallel()

	g := NewGuard(2, 24*time.Hour)
	current := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	g.now = func() time.Time { return current }

	if !g.TryAcquire() || !g.TryAcquire() {
		t.Fatal("initial acquires refused")
	}
	if g.TryAcquire() {
		t.Fatal("acquire admitted over limit")
	}

	// 23h later the window still covers both calls.
	current = current.Add(23 * time.Hour)
	if g.TryAcquire() {
		t.Fatal("acquire admitted inside window")
	}

	// Past 24h the oldest call ages out and one slot frees up.
	current = current.Add(90 * time.Minute)
	if !g.TryAcquire() {
		t.Fatal("acquire refused after window slid")
	}
	if g.TryAcquire() {
		t.Fatal("second acquire admitted, only one slot should be free")
	}
}

func TestGuardConcurrentAcquires(t *testing.T) {
	t.Parallel()

	const limit = 50
	g := NewGuard(limit, 24*time.Hour)

	var wg sync.WaitGroup
	var mu sync.Mutex
	admitted := 0
	for i := 0; i < limit*4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if g.TryAcquire() {
				mu.Lock()
				admitted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if admitted != limit {
		t.Fatalf("admitted = %d, want %d", admitted, limit)
	}
}

func TestGuardConfigNormalization(t *testing.T) {
	t.Parallel()

	g := NewGuard(0, 0)
	if g.Limit() != 1 {
		t.Fatalf("limit = %d, want 1", g.Limit())
	}
	if g.Window() != 24*time.Hour {
		t.Fatalf("window = %s, want 24h", g.Window())
	}
}
