package order

import "context"

// Notifier receives committed status changes. Delivery is best effort: an
// error is logged by the caller and never undoes the change.
type Notifier interface {
	Notify(ctx context.Context, change StatusChange) error
}

// NopNotifier discards every change.
type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, StatusChange) error { return nil }
