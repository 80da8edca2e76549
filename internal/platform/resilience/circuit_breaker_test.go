package resilience

import (
	"testing"
	"time"
)

func TestCircuitBreakerOpensAfterThreshold(t *testing.T) {
	t.Parallel()

	b := NewCircuitBreaker(3, 30*time.Second)
	for i := 0; i < 3; i++ {
		if err := b.Allow(); err != nil {
			t.Fatalf("allow %d: %v", i, err)
		}
		b.RecordFailure()
	}

	if err := b.Allow(); err != ErrCircuitOpen {
		t.Fatalf("allow after threshold = %v, want ErrCircuitOpen", err)
	}
	if got := b.State(); got != CircuitStateOpen {
		t.Fatalf("state = %s, want open", got)
	}
}

func TestCircuitBreakerProbeAfterTimeout(t *testing.T) {
	t.Parallel()

	current := time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC)
	b := NewCircuitBreaker(1, 30*time.Second)
	b.now = func() time.Time { return current }

	b.RecordFailure()
	if err := b.Allow(); err != ErrCircuitOpen {
		t.Fatalf("allow while open = %v, want ErrCircuitOpen", err)
	}

	current = current.Add(31 * time.Second)
	if err := b.Allow(); err != nil {
		t.Fatalf("probe allow: %v", err)
	}
	// Only one probe may be in flight.
	if err := b.Allow(); err != ErrCircuitOpen {
		t.Fatalf("second probe = %v, want ErrCircuitOpen", err)
	}

	b.RecordSuccess()
	if got := b.State(); got != CircuitStateClosed {
		t.Fatalf("state after probe success = %s, want closed", got)
	}
	if err := b.Allow(); err != nil {
		t.Fatalf("allow after close: %v", err)
	}
}

func TestCircuitBreakerProbeFailureReopens(t *testing.T) {
	t.Parallel()

	current := time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC)
	b := NewCircuitBreaker(1, 30*time.Second)
	b.now = func() time.Time { return current }

	b.RecordFailure()
	current = current.Add(time.Minute)
	if err := b.Allow(); err != nil {
		t.Fatalf("probe allow: %v", err)
	}
	b.RecordFailure()

	if err := b.Allow(); err != ErrCircuitOpen {
		t.Fatalf("allow after probe failure = %v, want ErrCircuitOpen", err)
	}
}
