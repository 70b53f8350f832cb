package get_payment_events

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ConsultationService/internal/api/handlers"
	"github.com/m04kA/SMC-ConsultationService/internal/service/consultations"
)

const (
	msgInvalidIntakeID = "некорректный ID записи"
	msgNotFound        = "запись не найдена"
)

type Handler struct {
	service ConsultationService
	logger  Logger
}

func NewHandler(service ConsultationService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/admin/consultations/{intakeId}/payment-events
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	intakeID, err := handlers.PathInt64(r, "intakeId")
	if err != nil {
		h.logger.Warn("GET /admin/consultations/{id}/payment-events - Invalid intake ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidIntakeID)
		return
	}

	result, err := h.service.PaymentEvents(r.Context(), intakeID)
	if err != nil {
		if errors.Is(err, consultations.ErrConsultationNotFound) {
			h.logger.Warn("GET /admin/consultations/{id}/payment-events - Consultation not found: intake_id=%d", intakeID)
			handlers.RespondNotFound(w, msgNotFound)
			return
		}

		h.logger.Error("GET /admin/consultations/{id}/payment-events - Failed to get events: intake_id=%d, error=%v", intakeID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
