package metrics

import (
	"sync/atomic"
	"time"
)

type Counter struct {
	value uint64
}

func (c *Counter) Inc() {
	atomic.AddUint64(&c.value, 1)
}

func (c *Counter) Add(n uint64) {
	atomic.AddUint64(&c.value, n)
}

func (c *Counter) Load() uint64 {
	return atomic.LoadUint64(&c.value)
}

// Timer measures elapsed time from StartTimer.
type Timer struct {
	start time.Time
}

func StartTimer() *Timer {
	return &Timer{start: time.Now()}
}

func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}

// Delivery counts the outcome of asynchronous notifications.
type Delivery struct {
	Queued    Counter
	Published Counter
	Failed    Counter
	Dropped   Counter
}

// DeliverySnapshot is a point-in-time copy of Delivery for reporting.
type DeliverySnapshot struct {
	Queued    uint64 `json:"queued"`
	Published uint64 `json:"published"`
	Failed    uint64 `json:"failed"`
	Dropped   uint64 `json:"dropped"`
}

func (d *Delivery) Snapshot() DeliverySnapshot {
	return DeliverySnapshot{
		Queued:    d.Queued.Load(),
		Published: d.Published.Load(),
		Failed:    d.Failed.Load(),
		Dropped:   d.Dropped.Load(),
	}
}
