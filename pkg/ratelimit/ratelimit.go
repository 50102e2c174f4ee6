// Package ratelimit implements the per-site minimum-interval gate in front
// of the producer facade (spec §4.7). It is deliberately racy by design —
// multiple callers sharing one Gate get best-effort, not exact, rate
// limiting, matching gourdianlogger's use of golang.org/x/time/rate for
// this exact wrapper shape.
package ratelimit

import (
	"time"

	"golang.org/x/time/rate"

	"github.com/hoastyle/logger/pkg/levels"
)

// Emitter is the narrow slice of Pipeline a Gate forwards to. Keeping the
// dependency this small lets Gate wrap a Pipeline, a sub-test double, or
// any other Emit-shaped call site.
type Emitter interface {
	Emit(level levels.Level, payload []byte)
}

// Gate rate-limits calls to an Emitter to at most one admitted record per
// interval, using a token-bucket limiter with burst 1 — a continuously
// refilling single slot is equivalent to the spec's last-emit/interval
// comparison, and is the pattern gourdianlogger uses for its own
// MaxLogRate wrapper.
type Gate struct {
	limiter *rate.Limiter
	next    Emitter
}

// NewGate constructs a Gate admitting at most one call per interval to
// next.
func NewGate(interval time.Duration, next Emitter) *Gate {
	return &Gate{limiter: rate.NewLimiter(rate.Every(interval), 1), next: next}
}

// Log forwards to the wrapped Emitter only if the gate currently has a
// token available; otherwise it returns immediately without emitting,
// exactly as spec §4.7 describes ("else returns without emitting").
func (g *Gate) Log(level levels.Level, payload []byte) {
	if !g.limiter.Allow() {
		return
	}
	g.next.Emit(level, payload)
}
