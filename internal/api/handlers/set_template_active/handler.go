package set_template_active

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ConsultationService/internal/api/handlers"
	"github.com/m04kA/SMC-ConsultationService/internal/service/templates"
	"github.com/m04kA/SMC-ConsultationService/internal/service/templates/models"
)

const (
	msgInvalidTemplateID  = "некорректный ID шаблона"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgActiveRequired     = "не указан флаг isActive"
	msgTemplateNotFound   = "шаблон не найден"
)

type Handler struct {
	service TemplateService
	logger  Logger
}

func NewHandler(service TemplateService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/admin/templates/{templateId}/active
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	templateID, err := handlers.PathInt64(r, "templateId")
	if err != nil {
		h.logger.Warn("PATCH /admin/templates/{id}/active - Invalid template ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTemplateID)
		return
	}

	var req models.SetActiveRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /admin/templates/{id}/active - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if req.IsActive == nil {
		h.logger.Warn("PATCH /admin/templates/{id}/active - isActive is missing: template_id=%d", templateID)
		handlers.RespondBadRequest(w, msgActiveRequired)
		return
	}

	result, err := h.service.SetActive(r.Context(), templateID, *req.IsActive)
	if err != nil {
		if errors.Is(err, templates.ErrTemplateNotFound) {
			h.logger.Warn("PATCH /admin/templates/{id}/active - Template not found: template_id=%d", templateID)
			handlers.RespondNotFound(w, msgTemplateNotFound)
			return
		}

		h.logger.Error("PATCH /admin/templates/{id}/active - Failed to toggle template: template_id=%d, error=%v", templateID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("PATCH /admin/templates/{id}/active - Template toggled: template_id=%d, active=%t", templateID, result.IsActive)
	handlers.RespondJSON(w, http.StatusOK, result)
}
