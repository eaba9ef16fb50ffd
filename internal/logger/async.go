package logger

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
)

// Flusher stops the log pipeline returned by New and reports how many
// records it had to discard.
type Flusher interface {
	Close()
	Dropped() int64
}

// syncFlusher is the Flusher of a synchronous logger: nothing to flush,
// nothing dropped.
type syncFlusher struct{}

func (syncFlusher) Close()         {}
func (syncFlusher) Dropped() int64 { return 0 }

// asyncQueue is the buffer and worker set shared by an AsyncHandler and
// every handler derived from it with WithAttrs or WithGroup.
type asyncQueue struct {
	records chan asyncRecord
	workers sync.WaitGroup
	dropped atomic.Int64

	mu     sync.RWMutex // guards closed against sends on a closed channel
	closed bool
}

type asyncRecord struct {
	handler slog.Handler
	rec     slog.Record
}

// AsyncHandler hands records to background workers so request goroutines
// never block on stdout. When the buffer is full the record is dropped and
// counted.
type AsyncHandler struct {
	inner slog.Handler
	q     *asyncQueue
}

// NewAsyncHandler starts workers goroutines draining a buffer of size records.
func NewAsyncHandler(inner slog.Handler, size, workers int) *AsyncHandler {
	q := &asyncQueue{records: make(chan asyncRecord, size)}
	for range workers {
		q.workers.Add(1)
		go q.drain()
	}
	return &AsyncHandler{inner: inner, q: q}
}

func (q *asyncQueue) drain() {
	defer q.workers.Done()
	for r := range q.records {
		_ = r.handler.Handle(context.Background(), r.rec)
	}
}

func (h *AsyncHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle queues rec for the workers. Request and tenant ids have already been
// copied onto rec by the context handler, so the context is not carried over.
func (h *AsyncHandler) Handle(_ context.Context, rec slog.Record) error { //nolint:gocritic // slog.Handler interface requires value receiver
	h.q.mu.RLock()
	defer h.q.mu.RUnlock()
	if h.q.closed {
		h.q.dropped.Add(1)
		return nil
	}
	select {
	case h.q.records <- asyncRecord{handler: h.inner, rec: rec.Clone()}:
	default:
		h.q.dropped.Add(1)
	}
	return nil
}

func (h *AsyncHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &AsyncHandler{inner: h.inner.WithAttrs(attrs), q: h.q}
}

func (h *AsyncHandler) WithGroup(name string) slog.Handler {
	return &AsyncHandler{inner: h.inner.WithGroup(name), q: h.q}
}

// Dropped returns the number of records discarded because the buffer was
// full or the handler was closed.
func (h *AsyncHandler) Dropped() int64 {
	return h.q.dropped.Load()
}

// Close flushes queued records and stops the workers. It may be called more
// than once; records logged after Close are dropped and counted.
func (h *AsyncHandler) Close() {
	h.q.mu.Lock()
	if !h.q.closed {
		h.q.closed = true
		close(h.q.records)
	}
	h.q.mu.Unlock()
	h.q.workers.Wait()
}
