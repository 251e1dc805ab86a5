package logger

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

const (
	defaultAsyncBufferSize   = 1024
	defaultAsyncFlushTimeout = 5 * time.Second
)

// AsyncOptions configures the queue in front of the remote log sink.
type AsyncOptions struct {
	BufferSize   int           // Queued records before new ones are dropped
	FlushTimeout time.Duration // Shutdown wait when ctx has no deadline
}

type pending struct {
	ctx    context.Context
	record slog.Record
	sink   slog.Handler
}

// sinkQueue is shared by an AsyncHandler and every handler derived from it.
type sinkQueue struct {
	mu      sync.RWMutex // guards closed against sends on a closed channel
	closed  bool
	records chan pending
	done    chan struct{}
	dropped atomic.Uint64
	flush   time.Duration
}

func startSinkQueue(opts AsyncOptions) *sinkQueue {
	q := &sinkQueue{
		records: make(chan pending, orDefault(opts.BufferSize, defaultAsyncBufferSize)),
		done:    make(chan struct{}),
		flush:   orDefault(opts.FlushTimeout, defaultAsyncFlushTimeout),
	}
	go func() {
		defer close(q.done)
		for p := range q.records {
			// a failing remote sink must not affect the request that logged
			_ = p.sink.Handle(p.ctx, p.record)
		}
	}()
	return q
}

func orDefault[T int | time.Duration](v, def T) T {
	if v > 0 {
		return v
	}
	return def
}

func (q *sinkQueue) push(p pending) {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return
	}
	select {
	case q.records <- p:
	default:
		q.dropped.Add(1)
	}
}

func (q *sinkQueue) close(ctx context.Context) error {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.records)
	}
	q.mu.Unlock()

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, q.flush)
		defer cancel()
	}
	select {
	case <-q.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// AsyncHandler hands records to a single background goroutine so the
// Better Stack HTTP sink never delays a webhook reply. On a full queue the
// record is dropped and counted instead of blocking.
type AsyncHandler struct {
	queue *sinkQueue
	sink  slog.Handler
}

func NewAsyncHandler(sink slog.Handler, opts AsyncOptions) *AsyncHandler {
	return &AsyncHandler{queue: startSinkQueue(opts), sink: sink}
}

func (h *AsyncHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.sink.Enabled(ctx, level)
}

// Handle detaches ctx from request cancellation; the sink runs after the
// request has finished.
func (h *AsyncHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.sink.Enabled(ctx, r.Level) {
		h.queue.push(pending{ctx: context.WithoutCancel(ctx), record: r.Clone(), sink: h.sink})
	}
	return nil
}

func (h *AsyncHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &AsyncHandler{queue: h.queue, sink: h.sink.WithAttrs(attrs)}
}

func (h *AsyncHandler) WithGroup(name string) slog.Handler {
	return &AsyncHandler{queue: h.queue, sink: h.sink.WithGroup(name)}
}

// Shutdown stops accepting records and waits for queued ones to be sent,
// bounded by ctx or the flush timeout. Calling it again only waits.
func (h *AsyncHandler) Shutdown(ctx context.Context) error {
	if h == nil || h.queue == nil {
		return nil
	}
	return h.queue.close(ctx)
}

// Dropped returns the number of records discarded on a full queue.
func (h *AsyncHandler) Dropped() uint64 {
	if h == nil || h.queue == nil {
		return 0
	}
	return h.queue.dropped.Load()
}
