package cancel_payment

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ConsultationService/internal/api/handlers"
	cancelPayment "github.com/m04kA/SMC-ConsultationService/internal/usecase/cancel_payment"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidIntakeID    = "некорректный ID записи"
	msgInvalidReason      = "причина должна быть cancelled или failed"
	msgIntakeNotFound     = "запись не найдена"
)

// CancelRequest HTTP request model
type CancelRequest struct {
	Reason string `json:"reason"`
}

// CancelResponse HTTP response model
type CancelResponse struct {
	IntakeID      int64  `json:"intakeId"`
	PaymentStatus string `json:"paymentStatus"`
	Recorded      bool   `json:"recorded"`
}

type Handler struct {
	useCase CancelPaymentUseCase
	logger  Logger
}

func NewHandler(useCase CancelPaymentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/{intakeId}/cancel
// Слоты остаются удержанными, оплату можно повторить
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	intakeID, err := handlers.PathInt64(r, "intakeId")
	if err != nil {
		h.logger.Warn("POST /bookings/{id}/cancel - Invalid intake ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidIntakeID)
		return
	}

	var req CancelRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings/{id}/cancel - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &cancelPayment.Request{
		IntakeID: intakeID,
		Reason:   cancelPayment.Reason(req.Reason),
	})
	if err != nil {
		switch {
		case errors.Is(err, cancelPayment.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidReason)
		case errors.Is(err, cancelPayment.ErrIntakeNotFound):
			handlers.RespondNotFound(w, msgIntakeNotFound)
		default:
			h.logger.Error("POST /bookings/{id}/cancel - Failed to record cancellation: intake_id=%d, error=%v", intakeID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/{id}/cancel - Cancellation recorded: intake_id=%d, reason=%s", intakeID, req.Reason)
	handlers.RespondJSON(w, http.StatusOK, CancelResponse{
		IntakeID:      result.IntakeID,
		PaymentStatus: string(result.PaymentStatus),
		Recorded:      result.Recorded,
	})
}
