package capture_payment

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ConsultationService/internal/api/handlers"
	capturePayment "github.com/m04kA/SMC-ConsultationService/internal/usecase/capture_payment"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgInvalidIntakeID     = "некорректный ID записи"
	msgOrderRequired       = "не указан ID заказа"
	msgIntakeNotFound      = "запись не найдена"
	msgOrderMismatch       = "заказ не относится к этой записи"
	msgPaymentNotCaptured  = "оплата не завершена"
	msgReconciliationError = "оплата получена, но не сохранена; мы свяжемся с вами"
)

type Handler struct {
	useCase CapturePaymentUseCase
	logger  Logger
}

func NewHandler(useCase CapturePaymentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/{intakeId}/capture
// Вызывается после возврата клиента со страницы оплаты, повторный вызов безопасен
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	intakeID, err := handlers.PathInt64(r, "intakeId")
	if err != nil {
		h.logger.Warn("POST /bookings/{id}/capture - Invalid intake ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidIntakeID)
		return
	}

	var req CaptureRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings/{id}/capture - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &capturePayment.Request{
		IntakeID: intakeID,
		OrderID:  req.OrderID,
		Source:   capturePayment.SourceClient,
	})
	if err != nil {
		switch {
		case errors.Is(err, capturePayment.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgOrderRequired)
		case errors.Is(err, capturePayment.ErrIntakeNotFound):
			handlers.RespondNotFound(w, msgIntakeNotFound)
		case errors.Is(err, capturePayment.ErrOrderMismatch):
			h.logger.Warn("POST /bookings/{id}/capture - Order mismatch: intake_id=%d, order_id=%s", intakeID, req.OrderID)
			handlers.RespondConflict(w, msgOrderMismatch)
		case errors.Is(err, capturePayment.ErrPaymentNotCaptured):
			handlers.RespondError(w, http.StatusPaymentRequired, msgPaymentNotCaptured)
		case errors.Is(err, capturePayment.ErrPaymentProcessor):
			h.logger.Error("POST /bookings/{id}/capture - Processor error: intake_id=%d, error=%v", intakeID, err)
			handlers.RespondBadGateway(w)
		case errors.Is(err, capturePayment.ErrReconciliationRequired):
			h.logger.Error("POST /bookings/{id}/capture - Reconciliation required: intake_id=%d, error=%v", intakeID, err)
			handlers.RespondError(w, http.StatusInternalServerError, msgReconciliationError)
		default:
			h.logger.Error("POST /bookings/{id}/capture - Failed to capture payment: intake_id=%d, error=%v", intakeID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/{id}/capture - Payment captured: intake_id=%d, already_captured=%t",
		intakeID, result.AlreadyCaptured)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
