package order

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCanceled   Status = "canceled"
)

// transitions lists the allowed next states. Delivered and canceled are
// terminal.
var transitions = map[Status][]Status{
	StatusPending:    {StatusProcessing, StatusCanceled},
	StatusProcessing: {StatusShipped, StatusCanceled},
	StatusShipped:    {StatusDelivered},
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCanceled:
		return true
	}
	return false
}

func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type Order struct {
	ID            uint            `json:"id"`
	UserID        uint            `json:"userId"`
	Status        Status          `json:"status"`
	InvoiceNumber *string         `json:"invoiceNumber,omitempty"`
	CouponCode    *string         `json:"couponCode,omitempty"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Discount      decimal.Decimal `json:"discount"`
	Tax           decimal.Decimal `json:"tax"`
	Total         decimal.Decimal `json:"total"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
	CanceledAt    *time.Time      `json:"canceledAt,omitempty"`
	DeliveredAt   *time.Time      `json:"deliveredAt,omitempty"`
	Items         []*OrderItem    `json:"items"`
}

// OrderItem is the cart line as it was at checkout. It is never updated.
type OrderItem struct {
	ID          uint            `json:"id"`
	OrderID     uint            `json:"orderId"`
	ProductID   uint            `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// Transition is one guarded status change as the repository applies it.
type Transition struct {
	OrderID       uint
	From          Status
	To            Status
	ChangedBy     uint
	At            time.Time
	InvoiceNumber string
}

// apply mirrors on o what ApplyTransition wrote to storage.
func (o *Order) apply(t Transition) {
	o.Status = t.To
	o.UpdatedAt = t.At
	switch t.To {
	case StatusCanceled:
		at := t.At
		o.CanceledAt = &at
	case StatusDelivered:
		at := t.At
		o.DeliveredAt = &at
	case StatusProcessing:
		if t.InvoiceNumber != "" {
			inv := t.InvoiceNumber
			o.InvoiceNumber = &inv
		}
	}
}

// StatusChange is handed to the Notifier after a transition commits. From
// is empty for a newly placed order.
type StatusChange struct {
	OrderID   uint      `json:"orderId"`
	UserID    uint      `json:"userId"`
	From      Status    `json:"from,omitempty"`
	To        Status    `json:"to"`
	ChangedBy uint      `json:"changedBy"`
	Total     string    `json:"total"`
	At        time.Time `json:"at"`
}

type TransitionInput struct {
	Status Status `json:"status"`
}

func (in TransitionInput) Validate() error {
	if !in.Status.IsValid() {
		return ErrInvalidStatus
	}
	return nil
}

// ListFilter narrows the admin order listing. An empty Status lists all.
type ListFilter struct {
	Status Status
	Limit  int
	Page   int
}
