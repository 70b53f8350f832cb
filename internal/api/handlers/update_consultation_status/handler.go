package update_consultation_status

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ConsultationService/internal/api/handlers"
	"github.com/m04kA/SMC-ConsultationService/internal/service/consultations"
	"github.com/m04kA/SMC-ConsultationService/internal/service/consultations/models"
)

const (
	msgInvalidIntakeID    = "некорректный ID записи"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidStatus      = "статус должен быть pending, scheduled или completed"
	msgNotFound           = "запись не найдена"
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

// Handle PATCH /api/v1/admin/consultations/{intakeId}/status
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	intakeID, err := handlers.PathInt64(r, "intakeId")
	if err != nil {
		h.logger.Warn("PATCH /admin/consultations/{id}/status - Invalid intake ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidIntakeID)
		return
	}

	var req models.UpdateStatusRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /admin/consultations/{id}/status - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.UpdateStatus(r.Context(), intakeID, &req)
	if err != nil {
		switch {
		case errors.Is(err, consultations.ErrInvalidInput):
			h.logger.Warn("PATCH /admin/consultations/{id}/status - Invalid status: intake_id=%d, status=%q", intakeID, req.Status)
			handlers.RespondBadRequest(w, msgInvalidStatus)

		case errors.Is(err, consultations.ErrConsultationNotFound):
			h.logger.Warn("PATCH /admin/consultations/{id}/status - Consultation not found: intake_id=%d", intakeID)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("PATCH /admin/consultations/{id}/status - Failed to update status: intake_id=%d, error=%v", intakeID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /admin/consultations/{id}/status - Status updated: intake_id=%d, status=%s", intakeID, result.Status)
	handlers.RespondJSON(w, http.StatusOK, result)
}
