// Package workerpool implements the dedicated goroutines that drain the
// bounded queue in batches and dispatch each record to a sink, returning
// slots to the pool as they finish. The drain/dispatch loop is grounded on
// original_source's OptimizedGlogLogger::workerThread/processLogBatch and on
// asynczap's background.run — lock, drain everything available, unlock,
// dispatch, check shutdown, go back to sleep.
package workerpool

import (
	"context"
	"sync"

	"github.com/hoastyle/logger/pkg/levels"
	"github.com/hoastyle/logger/pkg/metrics"
	"github.com/hoastyle/logger/pkg/pool"
	"github.com/hoastyle/logger/pkg/queue"
)

// Dispatcher routes a drained record to whichever sink(s) should receive
// it; the worker pool returns the slot to the pool once Dispatch returns. It is supplied
// by the pipeline layer so the worker pool stays ignorant of level-mask and
// debug-gating policy.
type Dispatcher interface {
	Dispatch(level levels.Level, payload []byte) error
}

// Pool runs numWorkers goroutines that drain q in batches of up to
// batchSize and hand each drained slot to dispatcher, returning it to slots
// afterward. Pool owns none of q, slots, or dispatcher's lifetime.
type Pool struct {
	q          *queue.Queue
	slots      *pool.Pool
	dispatcher Dispatcher
	batchSize  int
	numWorkers int

	wg        sync.WaitGroup
	processed counter
	sinkErr   func(error)
	m         *metrics.Counters
}

type counter struct {
	mu sync.Mutex
	n  uint64
}

func (c *counter) add(n uint64) {
	c.mu.Lock()
	c.n += n
	c.mu.Unlock()
}

func (c *counter) load() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n
}

// New constructs a worker pool. onSinkError, if non-nil, is called for
// every error a Dispatch call returns; the worker never retries. m, if
// non-nil, receives an IncProcessed for every slot this pool drains and
// dispatches — the same counters the pipeline's synchronous passthrough
// mode updates directly, so Stats().Processed reconciles in both modes.
func New(q *queue.Queue, slots *pool.Pool, dispatcher Dispatcher, batchSize, numWorkers int, onSinkError func(error), m *metrics.Counters) *Pool {
	if batchSize < 1 {
		batchSize = 1
	}
	if numWorkers < 1 {
		numWorkers = 1
	}
	return &Pool{
		q:          q,
		slots:      slots,
		dispatcher: dispatcher,
		batchSize:  batchSize,
		numWorkers: numWorkers,
		sinkErr:    onSinkError,
		m:          m,
	}
}

// Start launches the worker goroutines. ctx is observed cooperatively
// between batches, the same way the shutdown flag is: it never force-kills
// a worker mid-batch, and it cannot interrupt a worker that is blocked
// waiting for work — only Queue.Shutdown's broadcast does that. Callers
// that need a hard deadline must still call Shutdown on the queue.
func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.run(ctx)
	}
}

func (p *Pool) run(ctx context.Context) {
	defer p.wg.Done()
	for {
		shutdown := p.q.Wait(p.batchSize)
		ctxDone := ctx.Err() != nil

		batch := p.q.DrainBatch(p.batchSize)
		p.processBatch(batch)

		if (shutdown || ctxDone) && p.q.Len() == 0 {
			return
		}
	}
}

func (p *Pool) processBatch(batch []*pool.Slot) {
	for _, slot := range batch {
		if err := p.dispatcher.Dispatch(levels.Level(slot.Level), slot.Buffer[:slot.Length]); err != nil && p.sinkErr != nil {
			p.sinkErr(err)
		}
		p.slots.Release(slot)
		p.processed.add(1)
		if p.m != nil {
			p.m.IncProcessed()
		}
	}
}

// Wait blocks until every worker goroutine has exited (after Shutdown was
// called on the queue). It does not drain the queue itself — that is the
// caller's job via FinalDrain, matching spec §4.4's teardown sequencing.
func (p *Pool) Wait() {
	p.wg.Wait()
}

// FinalDrain runs one unbounded drain+dispatch pass on the calling
// goroutine (normally the teardown goroutine), flushing any records left
// in the queue after every worker has exited. It must only be called after
// Wait returns.
func (p *Pool) FinalDrain() {
	for {
		batch := p.q.DrainBatch(0)
		if len(batch) == 0 {
			return
		}
		p.processBatch(batch)
	}
}

// Processed returns the number of slots this pool has dispatched and
// released, across all workers and the final drain.
func (p *Pool) Processed() uint64 {
	return p.processed.load()
}
