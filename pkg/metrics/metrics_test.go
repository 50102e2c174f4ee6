package metrics_test

import (
	"sync"
	"testing"

	"github.com/hoastyle/logger/pkg/metrics"
)

func TestCountersAndSnapshot(t *testing.T) {
	var c metrics.Counters
	c.IncEnqueued()
	c.IncEnqueued()
	c.IncProcessed()
	c.IncDropped()
	c.IncOverflow()

	snap := c.Load()
	if snap.Enqueued != 2 || snap.Processed != 1 || snap.Dropped != 1 || snap.Overflow != 1 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
}

func TestStatsLineFormat(t *testing.T) {
	snap := metrics.Snapshot{Enqueued: 1, Processed: 1, Dropped: 0, Overflow: 0}
	want := "Logger stats - Enqueued: 1, Processed: 1, Dropped: 0, Overflow: 0"
	if got := snap.StatsLine(); got != want {
		t.Errorf("StatsLine() = %q, want %q", got, want)
	}
}

func TestResetIsIdempotentAcrossSetups(t *testing.T) {
	var c metrics.Counters
	c.IncEnqueued()
	c.Reset()
	snap := c.Load()
	if snap != (metrics.Snapshot{}) {
		t.Errorf("expected zero snapshot after Reset, got %+v", snap)
	}
}

func TestUtilizationClampedToOne(t *testing.T) {
	if u := metrics.Utilization(1000, 10); u != 1 {
		t.Errorf("Utilization = %v, want 1 (clamped)", u)
	}
	if u := metrics.Utilization(0, 10); u != 0 {
		t.Errorf("Utilization = %v, want 0", u)
	}
	if u := metrics.Utilization(10, 0); u != 0 {
		t.Errorf("Utilization with zero capacity = %v, want 0", u)
	}
}

func TestCountersConcurrentIncrement(t *testing.T) {
	var c metrics.Counters
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.IncEnqueued()
			}
		}()
	}
	wg.Wait()
	if got := c.Load().Enqueued; got != 10000 {
		t.Errorf("Enqueued = %d, want 10000", got)
	}
}
