package ratelimit_test

import (
	"sync"
	"testing"
	"time"

	"github.com/hoastyle/logger/pkg/levels"
	"github.com/hoastyle/logger/pkg/ratelimit"
)

type countingEmitter struct {
	mu sync.Mutex
	n  int
}

func (c *countingEmitter) Emit(_ levels.Level, _ []byte) {
	c.mu.Lock()
	c.n++
	c.mu.Unlock()
}

func (c *countingEmitter) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n
}

// TestGateAdmitsExactlyOnceInBurst mirrors scenario S7: a 100ms gate fed 20
// calls within a much shorter window admits exactly one.
func TestGateAdmitsExactlyOnceInBurst(t *testing.T) {
	ce := &countingEmitter{}
	g := ratelimit.NewGate(100*time.Millisecond, ce)

	deadline := time.Now().Add(50 * time.Millisecond)
	for i := 0; i < 20 && time.Now().Before(deadline); i++ {
		g.Log(levels.Info, []byte("x"))
	}

	if got := ce.count(); got != 1 {
		t.Fatalf("expected exactly 1 admitted call, got %d", got)
	}
}

func TestGateAdmitsAgainAfterInterval(t *testing.T) {
	ce := &countingEmitter{}
	g := ratelimit.NewGate(20*time.Millisecond, ce)

	g.Log(levels.Info, []byte("first"))
	time.Sleep(30 * time.Millisecond)
	g.Log(levels.Info, []byte("second"))

	if got := ce.count(); got != 2 {
		t.Fatalf("expected 2 admitted calls across the interval, got %d", got)
	}
}
