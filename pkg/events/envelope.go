// Package events publishes order lifecycle notifications to Kafka.
package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	EventOrderCreated       = "order.created"
	EventOrderPaid          = "order.paid"
	EventOrderStatusChanged = "order.status_changed"

	envelopeVersion = 1
)

type Envelope struct {
	EventID      string          `json:"event_id"`
	EventType    string          `json:"event_type"`
	EventVersion int             `json:"event_version"`
	OccurredAt   time.Time       `json:"occurred_at"`
	Producer     string          `json:"producer"`
	Payload      json.RawMessage `json:"payload"`
}

// NewEnvelope wraps payload with a fresh event id.
func NewEnvelope(eventType, producer string, payload any) (Envelope, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("marshal %s payload: %w", eventType, err)
	}
	return Envelope{
		EventID:      uuid.NewString(),
		EventType:    eventType,
		EventVersion: envelopeVersion,
		OccurredAt:   time.Now().UTC(),
		Producer:     producer,
		Payload:      raw,
	}, nil
}

type OrderItemPayload struct {
	ProductID uint  `json:"product_id"`
	Amount    int   `json:"amount"`
	Price     int64 `json:"price"`
}

// OrderPayload is shared by every order event.
type OrderPayload struct {
	OrderID        uint               `json:"order_id"`
	Code           string             `json:"code"`
	StoreID        uint               `json:"store_id"`
	CustomerID     uint               `json:"customer_id"`
	Status         string             `json:"status"`
	PreviousStatus string             `json:"previous_status,omitempty"`
	TotalPrice     int64              `json:"total_price"`
	Items          []OrderItemPayload `json:"items,omitempty"`
}
