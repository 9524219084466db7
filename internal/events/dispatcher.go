package events

import (
	"context"
	"errors"
	"sync"

	"storefront-be/internal/logger"
	"storefront-be/internal/metrics"
	"storefront-be/internal/order"

	"go.uber.org/zap"
)

const DefaultQueueSize = 256

var (
	ErrQueueFull        = errors.New("notification queue full")
	ErrDispatcherClosed = errors.New("notification dispatcher closed")
)

// EventPublisher delivers one status change.
type EventPublisher interface {
	Publish(ctx context.Context, change order.StatusChange, requestID string) error
}

type job struct {
	change    order.StatusChange
	requestID string
}

// Dispatcher implements order.Notifier. Notify never blocks: changes are
// queued for a single background worker and dropped when the queue is full.
type Dispatcher struct {
	pub   EventPublisher
	queue chan job
	stats metrics.Delivery

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

func NewDispatcher(pub EventPublisher, size int) *Dispatcher {
	if size <= 0 {
		size = DefaultQueueSize
	}
	d := &Dispatcher{
		pub:   pub,
		queue: make(chan job, size),
		done:  make(chan struct{}),
	}
	go d.run()
	return d
}

func (d *Dispatcher) Notify(ctx context.Context, change order.StatusChange) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return ErrDispatcherClosed
	}

	select {
	case d.queue <- job{change: change, requestID: logger.RequestIDFrom(ctx)}:
		d.stats.Queued.Inc()
		return nil
	default:
		d.stats.Dropped.Inc()
		return ErrQueueFull
	}
}

func (d *Dispatcher) run() {
	defer close(d.done)

	for j := range d.queue {
		timer := metrics.StartTimer()
		if err := d.pub.Publish(context.Background(), j.change, j.requestID); err != nil {
			d.stats.Failed.Inc()
			logger.L().Warn("publish status change failed",
				zap.String("request_id", j.requestID),
				zap.Uint("order_id", j.change.OrderID),
				zap.String("routing_key", RoutingKey(j.change)),
				zap.Duration("duration", timer.Duration()),
				zap.Error(err),
			)
			continue
		}
		d.stats.Published.Inc()
	}
}

// Stats reports queued, published, failed and dropped notifications.
func (d *Dispatcher) Stats() metrics.DeliverySnapshot {
	return d.stats.Snapshot()
}

// Close stops accepting changes and waits until queued ones are published
// or ctx is done.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
