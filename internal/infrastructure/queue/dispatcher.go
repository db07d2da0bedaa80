package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/freelanceos/backend/internal/api/metrics"
	"github.com/freelanceos/backend/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	sendTimeout    = 30 * time.Second
)

// Sender delivers one email synchronously.
type Sender interface {
	Send(ctx context.Context, msg ports.EmailMessage) error
}

// Dispatcher routes outbound emails to a fixed set of workers using
// consistent hashing on the recipient, so mail to one address goes out in
// the order it was enqueued.
type Dispatcher struct {
	workers []chan ports.EmailMessage
	sender  Sender
	log     zerolog.Logger
	wg      sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

var _ ports.EmailQueue = (*Dispatcher)(nil)

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, sender Sender, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.EmailMessage, numWorkers),
		sender:  sender,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.EmailMessage, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Cancelling ctx does not stop them;
// only Shutdown does, after the queued mail has been delivered.
func (d *Dispatcher) Start(ctx context.Context) {
	base := context.WithoutCancel(ctx)
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(base, i, ch)
	}
}

// Shutdown stops accepting mail and waits for the workers to drain their
// queues. It returns ctx.Err() if ctx expires first.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		for _, ch := range d.workers {
			close(ch)
		}
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Enqueue sends a message to the worker responsible for its recipient.
// It blocks only while that worker's buffer is full. Messages enqueued
// after Shutdown are dropped and logged.
func (d *Dispatcher) Enqueue(msg ports.EmailMessage) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		metrics.EmailsSentTotal.WithLabelValues(msg.Kind, "dropped").Inc()
		d.log.Warn().Str("kind", msg.Kind).Str("to", msg.To).Msg("email dropped: dispatcher shut down")
		return
	}
	idx := d.shardIndex(msg.To)
	metrics.EmailQueueDepth.WithLabelValues(strconv.Itoa(idx)).Inc()
	d.workers[idx] <- msg
}

// shardIndex maps a recipient deterministically to a worker index.
func (d *Dispatcher) shardIndex(recipient string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strings.ToLower(recipient)))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.EmailMessage) {
	defer d.wg.Done()
	depth := metrics.EmailQueueDepth.WithLabelValues(strconv.Itoa(id))
	for msg := range ch {
		depth.Dec()
		d.deliver(ctx, id, msg)
	}
}

func (d *Dispatcher) deliver(ctx context.Context, workerID int, msg ports.EmailMessage) {
	sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	start := time.Now()
	err := d.sender.Send(sendCtx, msg)
	metrics.EmailDeliveryDuration.WithLabelValues(msg.Kind).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.EmailsSentTotal.WithLabelValues(msg.Kind, "failed").Inc()
		d.log.Error().Err(err).
			Str("kind", msg.Kind).
			Str("to", msg.To).
			Int("worker_id", workerID).
			Msg("email delivery failed")
		return
	}
	metrics.EmailsSentTotal.WithLabelValues(msg.Kind, "sent").Inc()
	d.log.Info().
		Str("kind", msg.Kind).
		Str("to", msg.To).
		Int("worker_id", workerID).
		Msg("email sent")
}
