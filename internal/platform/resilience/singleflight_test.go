package resilience

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestSingleFlightCollapsesConcurrentCalls(t *testing.T) {
	t.Parallel()

	var g SingleFlight
	var executions atomic.Int32

	const workers = 16
	start := make(chan struct{})
	var wg sync.WaitGroup
	results := make([]any, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			v, err := g.Do("page:1", func() (any, error) {
				executions.Add(1)
				time.Sleep(10 * time.Millisecond)
				return "body", nil
			})
			if err != nil {
				t.Errorf("do: %v", err)
				return
			}
			results[i] = v
		}(i)
	}

	close(start)
	wg.Wait()

	if got := executions.Load(); got != 1 {
		t.Fatalf("fn executed %d times, want 1", got)
	}
	for i, v := range results {
		if v != "body" {
			t.Fatalf("result %d = %v, want body", i, v)
		}
	}
}

func TestSingleFlightDistinctKeysRunIndependently(t *testing.T) {
	t.Parallel()

	var g SingleFlight
	v1, err1 := g.Do("a", func() (any, error) { return 1, nil })
	v2, err2 := g.Do("b", func() (any, error) { return 2, nil })

	if err1 != nil || err2 != nil {
		t.Fatalf("do errors: %v, %v", err1, err2)
	}
	if v1 != 1 || v2 != 2 {
		t.Fatalf("values = %v, %v; want 1, 2", v1, v2)
	}
}
