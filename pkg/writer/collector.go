package writer

import (
	"bytes"
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/atomic"
	"golang.org/x/time/rate"

	"github.com/influxwire/influxwire/pkg/query"
)

// Collector accumulates write queries and flushes them to an HTTPWriter in
// batches from a background goroutine. Each flush is still an independent
// fire-and-await request; batching only amortizes the round trips.
type Collector struct {
	w         *HTTPWriter
	batchSize int
	useGzip   bool
	limiter   *rate.Limiter
	onError   func(error)
	onSend    func(batchPoints int, lat time.Duration)

	src  chan record
	done chan struct{}
	buf  *bytes.Buffer

	sent   atomic.Uint64
	failed atomic.Uint64
}

// CollectorOption configures a Collector.
type CollectorOption func(*Collector)

// WithBatchSize sets how many points are accumulated before a flush.
func WithBatchSize(n int) CollectorOption {
	return func(c *Collector) { c.batchSize = n }
}

// WithGzip gzips batch bodies before sending.
func WithGzip() CollectorOption {
	return func(c *Collector) { c.useGzip = true }
}

// WithRateLimit caps the sustained number of points written per second.
// Batches larger than burst are paced in burst-sized chunks.
func WithRateLimit(pointsPerSec float64, burst int) CollectorOption {
	return func(c *Collector) { c.limiter = rate.NewLimiter(rate.Limit(pointsPerSec), burst) }
}

// WithErrorHandler sets the callback invoked on failed batch sends. Without
// one, failures are only counted.
func WithErrorHandler(fn func(error)) CollectorOption {
	return func(c *Collector) { c.onError = fn }
}

// WithSendObserver sets a callback invoked after every flushed batch with
// its size and request latency.
func WithSendObserver(fn func(batchPoints int, lat time.Duration)) CollectorOption {
	return func(c *Collector) { c.onSend = fn }
}

const defaultBatchSize = 100

// NewCollector returns a running Collector feeding the given writer. Callers
// must Close it to flush the tail of the stream.
func NewCollector(w *HTTPWriter, opts ...CollectorOption) *Collector {
	c := &Collector{
		w:         w,
		batchSize: defaultBatchSize,
		src:       make(chan record, 100),
		done:      make(chan struct{}),
		buf:       new(bytes.Buffer),
	}
	for _, opt := range opts {
		opt(c)
	}
	go c.run()
	return c
}

// record is one queued unit of work: a point to render, or a line already
// in wire form.
type record struct {
	q    *query.WriteQuery
	line []byte
}

// Record queues a point for writing. It blocks only when the collector's
// channel buffer is full. Record must not be called after Close.
//
// The write URL's precision modifier was frozen when the writer was built;
// a point whose Precision() disagrees with it would ship a timestamp the
// server misreads, so such points are dropped and counted as failed.
func (c *Collector) Record(q *query.WriteQuery) {
	c.src <- record{q: q}
}

// RecordLine queues an already-rendered line of line protocol. The caller
// is responsible for the line's timestamp matching the writer's precision.
// The collector takes ownership of the slice.
func (c *Collector) RecordLine(line []byte) {
	c.src <- record{line: line}
}

// Sent returns the number of points successfully written so far.
func (c *Collector) Sent() uint64 { return c.sent.Load() }

// Failed returns the number of points dropped: unbuildable points plus
// points in batches whose send failed.
func (c *Collector) Failed() uint64 { return c.failed.Load() }

// Close flushes any buffered points and stops the background goroutine.
func (c *Collector) Close() {
	close(c.src)
	<-c.done
}

func (c *Collector) run() {
	pending := 0
	for r := range c.src {
		if r.q != nil {
			if p := r.q.Precision(); p != c.w.Precision() {
				c.dropPoint(errors.Errorf(
					"point precision %q does not match writer precision %q", p, c.w.Precision()))
				continue
			}
			line, err := r.q.Build()
			if err != nil {
				c.dropPoint(err)
				continue
			}
			c.buf.WriteString(line)
			c.buf.WriteByte('\n')
		} else {
			c.buf.Write(r.line)
			if n := len(r.line); n == 0 || r.line[n-1] != '\n' {
				c.buf.WriteByte('\n')
			}
		}
		pending++

		if pending >= c.batchSize {
			c.flush(pending)
			pending = 0
		}
	}
	if pending > 0 {
		c.flush(pending)
	}
	close(c.done)
}

func (c *Collector) dropPoint(err error) {
	c.failed.Inc()
	if c.onError != nil {
		c.onError(err)
	}
}

func (c *Collector) flush(points int) {
	defer c.buf.Reset()

	if c.limiter != nil {
		// Paces point throughput, not request count. WaitN cannot take
		// more than the burst at once, so large batches wait in
		// burst-sized chunks.
		for n := points; n > 0; {
			chunk := n
			if b := c.limiter.Burst(); chunk > b {
				chunk = b
			}
			if err := c.limiter.WaitN(context.Background(), chunk); err != nil {
				break
			}
			n -= chunk
		}
	}

	body := c.buf.Bytes()
	if c.useGzip {
		zipped, err := Gzip(body)
		if err != nil {
			c.fail(points, err)
			return
		}
		body = zipped
	}

	lat, err := c.w.WriteLineProtocol(body, c.useGzip)
	if err != nil {
		c.fail(points, err)
		return
	}
	c.sent.Add(uint64(points))
	if c.onSend != nil {
		c.onSend(points, lat)
	}
}

func (c *Collector) fail(points int, err error) {
	c.failed.Add(uint64(points))
	if c.onError != nil {
		c.onError(err)
	}
}
