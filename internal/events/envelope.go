package events

import (
	"time"

	"storefront-be/internal/order"

	"github.com/google/uuid"
)

const (
	Exchange             = "storefront.events"
	OrderStatusEventType = "OrderStatusChanged"
	envelopeVersion      = 1
)

// Envelope is the JSON body of every published message.
type Envelope struct {
	EventID    string             `json:"eventId"`
	EventType  string             `json:"eventType"`
	Version    int                `json:"version"`
	OccurredAt time.Time          `json:"occurredAt"`
	RequestID  string             `json:"requestId,omitempty"`
	Payload    order.StatusChange `json:"payload"`
}

func newEnvelope(change order.StatusChange, requestID string) Envelope {
	return Envelope{
		EventID:    uuid.NewString(),
		EventType:  OrderStatusEventType,
		Version:    envelopeVersion,
		OccurredAt: change.At.UTC(),
		RequestID:  requestID,
		Payload:    change,
	}
}

// RoutingKey is order.status.<to>, e.g. order.status.shipped.
func RoutingKey(change order.StatusChange) string {
	return "order.status." + string(change.To)
}
