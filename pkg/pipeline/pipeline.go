// Package pipeline implements the producer facade (spec §4.5) that every
// Emit/Emitf call goes through: the level mask check, the fatal bypass,
// the priority-aware back-pressure drop policy, pool acquisition, and
// enqueue. It is the one place policy about what to keep and what to drop
// under load lives; the queue and worker pool downstream are both
// policy-free.
//
// Grounded on original_source's OptimizedGlogLogger::shouldDropMessage and
// ::enqueueLogMessage, translated line-for-line into the Go primitives
// pkg/pool and pkg/queue already provide.
package pipeline

import (
	"fmt"
	"os"

	"github.com/hoastyle/logger/pkg/levels"
	"github.com/hoastyle/logger/pkg/metrics"
	"github.com/hoastyle/logger/pkg/pool"
	"github.com/hoastyle/logger/pkg/queue"
	"github.com/hoastyle/logger/pkg/sink"
)

// overflowFactor is the second, looser threshold spec §4.5 calls "1.2x
// capacity" — records below Error are dropped there too, past a point
// where even a policy-respecting producer is falling behind.
const overflowFactor = 1.2

// Pipeline is the Emit entry point wired together by pkg/manager. It owns
// none of its dependencies' lifetimes.
type Pipeline struct {
	mask  levels.Level // threshold below which nothing is even considered; NoLog disables
	q     *queue.Queue // nil selects the synchronous passthrough mode (no worker pool behind it)
	slots *pool.Pool
	fatal sink.Sink // written synchronously, bypassing pool/queue entirely
	debug bool      // DebugEnabled: gates whether Dispatch writes Debug records to the sink
	sk    sink.Sink // the sink the dispatcher forwards to once drained
	m     *metrics.Counters
}

// New constructs a Pipeline. fatalSink and drainSink are typically the same
// underlying sink; they are accepted separately because the fatal path
// writes synchronously and must never touch the queue. Passing q == nil
// selects synchronous passthrough: every non-Fatal Emit calls Dispatch
// directly on the caller's goroutine instead of going through a pool and
// queue with nothing behind it to drain them (the SinkStdout/SinkFile
// configurations, which never start a worker pool).
func New(mask levels.Level, q *queue.Queue, slots *pool.Pool, fatalSink, drainSink sink.Sink, debugEnabled bool, m *metrics.Counters) *Pipeline {
	return &Pipeline{
		mask:  mask,
		q:     q,
		slots: slots,
		fatal: fatalSink,
		debug: debugEnabled,
		sk:    drainSink,
		m:     m,
	}
}

// Emit is the hot path every producer call funnels through. In async mode
// it never blocks on I/O and never allocates on the pool-hit path; in
// synchronous passthrough mode (q == nil) it dispatches to the sink
// directly on the caller's goroutine.
func (p *Pipeline) Emit(level levels.Level, payload []byte) {
	if !p.mask.Admits(level) {
		return
	}

	if level == levels.Fatal {
		p.emitFatal(payload)
		return
	}

	if p.q == nil {
		if err := p.Dispatch(level, payload); err != nil {
			p.m.IncDropped()
		} else {
			p.m.IncEnqueued()
			p.m.IncProcessed()
		}
		return
	}

	qlen := p.q.Len()
	capacity := p.q.Capacity()
	if dropped := shouldDrop(level, qlen, capacity); dropped {
		p.m.IncDropped()
		return
	}

	slot, ok := p.slots.Acquire(int(level), payload)
	if !ok {
		p.m.IncOverflow()
		return
	}

	p.q.Enqueue(slot)
	p.m.IncEnqueued()
}

// emitFatal writes directly to the sink, synchronously, then terminates
// the process. It never touches the pool, the queue, or a worker — spec
// §4.5's bypass exists so a crash is never lost behind records still
// sitting in the queue.
func (p *Pipeline) emitFatal(payload []byte) {
	if err := p.fatal.Write(levels.Fatal, payload); err != nil {
		fmt.Fprintf(os.Stderr, "logger: fatal record write failed: %v\n", err)
	}
	_ = p.fatal.Flush()
	osExit(1)
}

// osExit is a var so tests can swap it out rather than actually terminate
// the test binary.
var osExit = os.Exit

// shouldDrop implements the two-threshold priority-aware policy from spec
// §4.5: Debug/Verbose are dropped as soon as the queue reaches capacity;
// everything below Warn is dropped at capacity too; everything below Error
// is dropped once the queue passes 1.2x capacity. Fatal never reaches this
// function.
func shouldDrop(level levels.Level, qlen, capacity int) bool {
	if capacity <= 0 {
		return false
	}
	atCapacity := qlen >= capacity
	pastOverflow := float64(qlen) >= float64(capacity)*overflowFactor

	if atCapacity && level <= levels.Debug {
		return true
	}
	if atCapacity && level < levels.Warn {
		return true
	}
	if pastOverflow && level < levels.Error {
		return true
	}
	return false
}

// Dispatch implements workerpool.Dispatcher: it applies the debug-enabled
// gate (spec §4.5 step 5 — a Debug record that made it through the drop
// policy is still silently discarded unless debug logging was turned on at
// setup) and otherwise forwards to the drain sink.
func (p *Pipeline) Dispatch(level levels.Level, payload []byte) error {
	if level == levels.Debug && !p.debug {
		return nil
	}
	return p.sk.Write(level, payload)
}
