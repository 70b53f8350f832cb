package stripepay

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/webhook"
)

const (
	eventSessionCompleted      = "checkout.session.completed"
	eventAsyncPaymentSucceeded = "checkout.session.async_payment_succeeded"
	eventAsyncPaymentFailed    = "checkout.session.async_payment_failed"
	eventSessionExpired        = "checkout.session.expired"
)

// ParseWebhook проверяет подпись и разбирает событие Checkout Session
// Неподдерживаемые типы возвращаются с Supported=false
func (c *Client) ParseWebhook(payload []byte, signature string) (*WebhookEvent, error) {
	if strings.TrimSpace(c.cfg.WebhookSecret) == "" {
		return nil, ErrNotConfigured
	}

	evt, err := webhook.ConstructEventWithOptions(payload, signature, c.cfg.WebhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	result := &WebhookEvent{
		ID:         evt.ID,
		Type:       string(evt.Type),
		OccurredAt: time.Unix(evt.Created, 0).UTC(),
	}

	var status CaptureStatus
	switch result.Type {
	case eventSessionCompleted:
		status = CapturePending
	case eventAsyncPaymentSucceeded:
		status = CaptureCompleted
	case eventAsyncPaymentFailed, eventSessionExpired:
		status = CaptureFailed
	default:
		return result, nil
	}

	if evt.Data == nil {
		return nil, fmt.Errorf("%w: missing data", ErrInvalidPayload)
	}

	var sess stripe.CheckoutSession
	if err := json.Unmarshal(evt.Data.Raw, &sess); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	// checkout.session.completed приходит и для отложенных способов оплаты
	if result.Type == eventSessionCompleted && sess.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid {
		status = CaptureCompleted
	}

	intakeID, err := intakeIDOf(&sess)
	if err != nil {
		return nil, err
	}

	result.Supported = true
	result.OrderID = sess.ID
	result.IntakeID = intakeID
	result.Status = status
	result.Reference = reference(&sess)
	return result, nil
}

func intakeIDOf(sess *stripe.CheckoutSession) (int64, error) {
	raw := strings.TrimSpace(sess.Metadata["intake_id"])
	if raw == "" {
		raw = strings.TrimSpace(sess.ClientReferenceID)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: session %s has no intake_id", ErrInvalidPayload, sess.ID)
	}
	return id, nil
}
