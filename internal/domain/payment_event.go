package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentEventType classifies entries of the payment audit log.
type PaymentEventType string

const (
	EventOrderCreated           PaymentEventType = "order_created"
	EventOrderFailed            PaymentEventType = "order_failed"
	EventCaptureSucceeded       PaymentEventType = "capture_succeeded"
	EventCaptureFailed          PaymentEventType = "capture_failed"
	EventCaptureDuplicate       PaymentEventType = "capture_duplicate"
	EventPaymentCancelled       PaymentEventType = "payment_cancelled"
	EventPaymentFailed          PaymentEventType = "payment_failed"
	EventWebhookReceived        PaymentEventType = "webhook_received"
	EventReconciliationRequired PaymentEventType = "reconciliation_required"
	EventNotificationFailed     PaymentEventType = "notification_failed"
	EventReservationsReleased   PaymentEventType = "reservations_released"
)

// PaymentEvent is one append-only audit entry for an intake's payment lifecycle.
// ProviderEventID is unique when set and makes webhook delivery idempotent.
type PaymentEvent struct {
	ID              int64
	IntakeID        *int64
	EventType       PaymentEventType
	Provider        string
	ProviderEventID *string
	Amount          *decimal.Decimal
	Reference       *string
	Details         string
	CreatedAt       time.Time
}
