package service

import (
	"log"
	"sync"
	"time"

	"tuberelay/internal/core/domain"
)

// drainInterval bounds how often the display sink is invoked. The producer
// may push hundreds of events per second for small files; the display must
// never be called faster than this.
const drainInterval = 500 * time.Millisecond

// Relay bridges a frequent, worker-context progress producer to a
// rate-limited display sink editing a single status message. Push never
// blocks on display I/O; superseded events are dropped (latest wins) but the
// last event pushed before Close is always delivered.
type Relay struct {
	onDisplay func(domain.ProgressEvent) error
	logger    *log.Logger
	interval  time.Duration

	mu      sync.Mutex
	latest  domain.ProgressEvent
	pending bool

	closeOnce sync.Once
	closed    chan struct{}
	done      chan struct{}
}

// NewRelay attaches a display sink and starts the draining loop.
func NewRelay(onDisplay func(domain.ProgressEvent) error, logger *log.Logger) *Relay {
	return newRelay(onDisplay, logger, drainInterval)
}

func newRelay(onDisplay func(domain.ProgressEvent) error, logger *log.Logger, interval time.Duration) *Relay {
	r := &Relay{
		onDisplay: onDisplay,
		logger:    logger,
		interval:  interval,
		closed:    make(chan struct{}),
		done:      make(chan struct{}),
	}
	go r.drain()
	return r
}

// Push records a progress event. Safe to call from the worker context at any
// time, including concurrently with draining.
func (r *Relay) Push(ev domain.ProgressEvent) {
	r.mu.Lock()
	r.latest = ev
	r.pending = true
	r.mu.Unlock()
}

// Close signals that no further events will arrive and blocks until the
// draining loop has flushed any pending event and exited. Idempotent.
func (r *Relay) Close() {
	r.closeOnce.Do(func() { close(r.closed) })
	<-r.done
}

func (r *Relay) drain() {
	defer close(r.done)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.flush()
		case <-r.closed:
			// Final flush so the last pushed event is never lost.
			r.flush()
			return
		}
	}
}

func (r *Relay) flush() {
	r.mu.Lock()
	if !r.pending {
		r.mu.Unlock()
		return
	}
	ev := r.latest
	r.pending = false
	r.mu.Unlock()

	if err := r.onDisplay(ev); err != nil {
		r.logger.Printf("Error updating progress: %v", err)
	}
}
