package retry_payment

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ConsultationService/internal/api/handlers"
	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	retryPayment "github.com/m04kA/SMC-ConsultationService/internal/usecase/retry_payment"
)

const (
	msgInvalidIntakeID = "некорректный ID записи"
	msgIntakeNotFound  = "запись не найдена"
	msgAlreadyPaid     = "запись уже оплачена"
	msgNotRetryable    = "слоты записи освобождены, выберите время заново"
)

// RetryResponse HTTP response model
type RetryResponse struct {
	IntakeID    int64  `json:"intakeId"`
	OrderID     string `json:"orderId"`
	CheckoutURL string `json:"checkoutUrl"`
	Amount      string `json:"amount"`
}

type Handler struct {
	useCase RetryPaymentUseCase
	logger  Logger
}

func NewHandler(useCase RetryPaymentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/{intakeId}/retry-payment
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	intakeID, err := handlers.PathInt64(r, "intakeId")
	if err != nil {
		h.logger.Warn("POST /bookings/{id}/retry-payment - Invalid intake ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidIntakeID)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &retryPayment.Request{IntakeID: intakeID})
	if err != nil {
		switch {
		case errors.Is(err, retryPayment.ErrIntakeNotFound):
			handlers.RespondNotFound(w, msgIntakeNotFound)
		case errors.Is(err, retryPayment.ErrAlreadyPaid):
			handlers.RespondConflict(w, msgAlreadyPaid)
		case errors.Is(err, retryPayment.ErrNotRetryable):
			handlers.RespondConflict(w, msgNotRetryable)
		case errors.Is(err, retryPayment.ErrPaymentProcessor):
			h.logger.Error("POST /bookings/{id}/retry-payment - Processor error: intake_id=%d, error=%v", intakeID, err)
			handlers.RespondBadGateway(w)
		default:
			h.logger.Error("POST /bookings/{id}/retry-payment - Failed to retry payment: intake_id=%d, error=%v", intakeID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/{id}/retry-payment - New order created: intake_id=%d, order_id=%s", intakeID, result.OrderID)
	handlers.RespondJSON(w, http.StatusOK, RetryResponse{
		IntakeID:    result.IntakeID,
		OrderID:     result.OrderID,
		CheckoutURL: result.CheckoutURL,
		Amount:      result.Amount.StringFixed(domain.CurrencyPrecision),
	})
}
