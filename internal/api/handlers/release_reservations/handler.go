package release_reservations

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ConsultationService/internal/api/handlers"
	"github.com/m04kA/SMC-ConsultationService/internal/service/consultations"
)

const (
	msgInvalidIntakeID = "некорректный ID записи"
	msgNotFound        = "запись не найдена"
	msgAlreadyPaid     = "запись оплачена, слоты нельзя освободить"
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

// Handle POST /api/v1/admin/consultations/{intakeId}/release
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	intakeID, err := handlers.PathInt64(r, "intakeId")
	if err != nil {
		h.logger.Warn("POST /admin/consultations/{id}/release - Invalid intake ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidIntakeID)
		return
	}

	result, err := h.service.ReleaseReservations(r.Context(), intakeID)
	if err != nil {
		switch {
		case errors.Is(err, consultations.ErrConsultationNotFound):
			h.logger.Warn("POST /admin/consultations/{id}/release - Consultation not found: intake_id=%d", intakeID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, consultations.ErrAlreadyPaid):
			h.logger.Warn("POST /admin/consultations/{id}/release - Consultation already paid: intake_id=%d", intakeID)
			handlers.RespondConflict(w, msgAlreadyPaid)

		default:
			h.logger.Error("POST /admin/consultations/{id}/release - Failed to release reservations: intake_id=%d, error=%v", intakeID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /admin/consultations/{id}/release - Reservations released: intake_id=%d, released=%d",
		intakeID, result.Released)
	handlers.RespondJSON(w, http.StatusOK, result)
}
