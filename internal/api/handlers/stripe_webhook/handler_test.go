package stripe_webhook

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	paymentEventRepo "github.com/m04kA/SMC-ConsultationService/internal/infra/storage/payment_event"
	"github.com/m04kA/SMC-ConsultationService/internal/integrations/stripepay"
	capturePayment "github.com/m04kA/SMC-ConsultationService/internal/usecase/capture_payment"
	"github.com/m04kA/SMC-ConsultationService/pkg/logger"
)

type fakeParser struct {
	event *stripepay.WebhookEvent
	err   error
	sig   string
}

func (f *fakeParser) ParseWebhook(_ []byte, signature string) (*stripepay.WebhookEvent, error) {
	f.sig = signature
	return f.event, f.err
}

type fakeEvents struct {
	seen      map[string]bool
	items     []*domain.PaymentEvent
	appendErr error
}

func (f *fakeEvents) HasProviderEvent(_ context.Context, _, id string) (bool, error) {
	return f.seen[id], nil
}

func (f *fakeEvents) Append(_ context.Context, e *domain.PaymentEvent) (*domain.PaymentEvent, error) {
	if f.appendErr != nil {
		return nil, f.appendErr
	}
	f.items = append(f.items, e)
	return e, nil
}

type fakeUseCase struct {
	got *capturePayment.Request
	err error
}

func (f *fakeUseCase) Execute(_ context.Context, req *capturePayment.Request) (*capturePayment.Response, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &capturePayment.Response{IntakeID: req.IntakeID, PaymentStatus: domain.PaymentCompleted}, nil
}

func completedEvent() *stripepay.WebhookEvent {
	return &stripepay.WebhookEvent{
		ID:        "evt_1",
		Type:      "checkout.session.completed",
		Supported: true,
		OrderID:   "cs_7",
		IntakeID:  7,
		Status:    stripepay.CaptureCompleted,
	}
}

func serve(parser *fakeParser, events *fakeEvents, uc *fakeUseCase) *httptest.ResponseRecorder {
	h := NewHandler(parser, events, uc, logger.NewNop())

	r := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/stripe", strings.NewReader(`{}`))
	r.Header.Set("Stripe-Signature", "t=1,v1=abc")
	w := httptest.NewRecorder()
	h.Handle(w, r)
	return w
}

func TestHandler_Handle_Completed(t *testing.T) {
	parser := &fakeParser{event: completedEvent()}
	events := &fakeEvents{}
	uc := &fakeUseCase{}

	w := serve(parser, events, uc)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "t=1,v1=abc", parser.sig)
	require.NotNil(t, uc.got)
	assert.Equal(t, int64(7), uc.got.IntakeID)
	assert.Equal(t, "cs_7", uc.got.OrderID)
	assert.Equal(t, capturePayment.SourceWebhook, uc.got.Source)

	require.Len(t, events.items, 1)
	assert.Equal(t, domain.EventWebhookReceived, events.items[0].EventType)
	assert.Equal(t, "evt_1", *events.items[0].ProviderEventID)
}

func TestHandler_Handle_DuplicateDelivery(t *testing.T) {
	events := &fakeEvents{seen: map[string]bool{"evt_1": true}}
	uc := &fakeUseCase{}

	w := serve(&fakeParser{event: completedEvent()}, events, uc)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, uc.got)
	assert.Empty(t, events.items)

	var resp WebhookResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Duplicate)
}

func TestHandler_Handle_ConcurrentDeliveryIsAccepted(t *testing.T) {
	events := &fakeEvents{appendErr: paymentEventRepo.ErrDuplicateEvent}

	w := serve(&fakeParser{event: completedEvent()}, events, &fakeUseCase{})

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHandler_Handle_FailedPayment(t *testing.T) {
	evt := completedEvent()
	evt.Type = "checkout.session.async_payment_failed"
	evt.Status = stripepay.CaptureFailed
	events := &fakeEvents{}
	uc := &fakeUseCase{}

	w := serve(&fakeParser{event: evt}, events, uc)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, uc.got)
	require.Len(t, events.items, 1)
	assert.Equal(t, domain.EventPaymentFailed, events.items[0].EventType)
}

func TestHandler_Handle_Unsupported(t *testing.T) {
	events := &fakeEvents{}

	w := serve(&fakeParser{event: &stripepay.WebhookEvent{ID: "evt_2", Type: "customer.created"}}, events, &fakeUseCase{})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, events.items)
}

func TestHandler_Handle_Errors(t *testing.T) {
	tests := []struct {
		name     string
		parseErr error
		ucErr    error
		want     int
		recorded bool
	}{
		{name: "bad signature", parseErr: stripepay.ErrInvalidSignature, want: http.StatusBadRequest},
		{name: "bad payload", parseErr: stripepay.ErrInvalidPayload, want: http.StatusBadRequest},
		{name: "not configured", parseErr: stripepay.ErrNotConfigured, want: http.StatusInternalServerError},
		{name: "processor down is retried", ucErr: capturePayment.ErrPaymentProcessor, want: http.StatusInternalServerError},
		{name: "reconciliation is retried", ucErr: capturePayment.ErrReconciliationRequired, want: http.StatusInternalServerError},
		{name: "mismatch is recorded", ucErr: capturePayment.ErrOrderMismatch, want: http.StatusOK, recorded: true},
		{name: "not captured is recorded", ucErr: capturePayment.ErrPaymentNotCaptured, want: http.StatusOK, recorded: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser := &fakeParser{event: completedEvent(), err: tt.parseErr}
			if tt.parseErr != nil {
				parser.event = nil
			}
			events := &fakeEvents{}

			w := serve(parser, events, &fakeUseCase{err: tt.ucErr})

			assert.Equal(t, tt.want, w.Code)
			assert.Equal(t, tt.recorded, len(events.items) == 1)
		})
	}

	t.Run("journal unavailable", func(t *testing.T) {
		events := &fakeEvents{appendErr: errors.New("connection refused")}

		w := serve(&fakeParser{event: completedEvent()}, events, &fakeUseCase{})

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
