package stripe_webhook

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/m04kA/SMC-ConsultationService/internal/api/handlers"
	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	paymentEventRepo "github.com/m04kA/SMC-ConsultationService/internal/infra/storage/payment_event"
	"github.com/m04kA/SMC-ConsultationService/internal/integrations/stripepay"
	capturePayment "github.com/m04kA/SMC-ConsultationService/internal/usecase/capture_payment"
	"github.com/m04kA/SMC-ConsultationService/pkg/ptr"
)

const (
	msgInvalidPayload   = "некорректное тело вебхука"
	msgInvalidSignature = "некорректная подпись вебхука"

	signatureHeader = "Stripe-Signature"

	// maxPayloadBytes ограничение Stripe на размер события
	maxPayloadBytes = 64 << 10
)

// WebhookResponse HTTP response model
type WebhookResponse struct {
	Received  bool `json:"received"`
	Duplicate bool `json:"duplicate,omitempty"`
}

type Handler struct {
	parser    WebhookParser
	eventRepo PaymentEventRepository
	useCase   CapturePaymentUseCase
	logger    Logger
}

func NewHandler(parser WebhookParser, eventRepo PaymentEventRepository, useCase CapturePaymentUseCase, logger Logger) *Handler {
	return &Handler{
		parser:    parser,
		eventRepo: eventRepo,
		useCase:   useCase,
		logger:    logger,
	}
}

// Handle POST /api/v1/webhooks/stripe
// Ответ не 2xx заставляет Stripe повторить доставку, поэтому
// ID события записывается в журнал только после успешной обработки
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxPayloadBytes))
	if err != nil {
		h.logger.Warn("POST /webhooks/stripe - Failed to read body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPayload)
		return
	}

	// 1. Проверяем подпись
	evt, err := h.parser.ParseWebhook(payload, r.Header.Get(signatureHeader))
	if err != nil {
		switch {
		case errors.Is(err, stripepay.ErrInvalidSignature):
			h.logger.Warn("POST /webhooks/stripe - Invalid signature: %v", err)
			handlers.RespondBadRequest(w, msgInvalidSignature)
		case errors.Is(err, stripepay.ErrInvalidPayload):
			h.logger.Warn("POST /webhooks/stripe - Invalid payload: %v", err)
			handlers.RespondBadRequest(w, msgInvalidPayload)
		default:
			h.logger.Error("POST /webhooks/stripe - Failed to parse event: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	if !evt.Supported {
		h.logger.Info("POST /webhooks/stripe - Ignoring event type %s: event_id=%s", evt.Type, evt.ID)
		handlers.RespondJSON(w, http.StatusOK, WebhookResponse{Received: true})
		return
	}

	// 2. Повторная доставка уже обработанного события
	seen, err := h.eventRepo.HasProviderEvent(r.Context(), stripepay.Provider, evt.ID)
	if err != nil {
		h.logger.Error("POST /webhooks/stripe - Failed to check event_id=%s: %v", evt.ID, err)
		handlers.RespondInternalError(w)
		return
	}
	if seen {
		h.logger.Info("POST /webhooks/stripe - Duplicate delivery: event_id=%s", evt.ID)
		handlers.RespondJSON(w, http.StatusOK, WebhookResponse{Received: true, Duplicate: true})
		return
	}

	h.logger.Info("POST /webhooks/stripe - Event %s: event_id=%s, intake_id=%d, status=%s",
		evt.Type, evt.ID, evt.IntakeID, evt.Status)

	// 3. Обрабатываем событие
	eventType := domain.EventWebhookReceived
	details := fmt.Sprintf("%s: %s", evt.Type, evt.Status)

	switch evt.Status {
	case stripepay.CaptureCompleted:
		_, err := h.useCase.Execute(r.Context(), &capturePayment.Request{
			IntakeID: evt.IntakeID,
			OrderID:  evt.OrderID,
			Source:   capturePayment.SourceWebhook,
		})
		if err != nil {
			if retryable(err) {
				h.logger.Error("POST /webhooks/stripe - Capture failed, delivery will be retried: event_id=%s, error=%v", evt.ID, err)
				handlers.RespondInternalError(w)
				return
			}
			h.logger.Warn("POST /webhooks/stripe - Capture rejected: event_id=%s, error=%v", evt.ID, err)
			details = fmt.Sprintf("%s: capture rejected: %v", evt.Type, err)
		}
	case stripepay.CaptureFailed:
		eventType = domain.EventPaymentFailed
	}

	// 4. Фиксируем ID события, параллельная доставка получит ErrDuplicateEvent
	_, err = h.eventRepo.Append(r.Context(), &domain.PaymentEvent{
		IntakeID:        ptr.Ptr(evt.IntakeID),
		EventType:       eventType,
		Provider:        stripepay.Provider,
		ProviderEventID: ptr.Ptr(evt.ID),
		Reference:       ptr.Ptr(evt.OrderID),
		Details:         details,
	})
	if err != nil && !errors.Is(err, paymentEventRepo.ErrDuplicateEvent) {
		h.logger.Error("POST /webhooks/stripe - Failed to record event_id=%s: %v", evt.ID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, WebhookResponse{Received: true})
}

// retryable ошибки, при которых Stripe должен повторить доставку
func retryable(err error) bool {
	return errors.Is(err, capturePayment.ErrPaymentProcessor) ||
		errors.Is(err, capturePayment.ErrReconciliationRequired) ||
		errors.Is(err, capturePayment.ErrInternal)
}
