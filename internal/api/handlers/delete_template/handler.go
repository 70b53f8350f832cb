package delete_template

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ConsultationService/internal/api/handlers"
	"github.com/m04kA/SMC-ConsultationService/internal/service/templates"
)

const (
	msgInvalidTemplateID = "некорректный ID шаблона"
	msgTemplateNotFound  = "шаблон не найден"
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

// Handle DELETE /api/v1/admin/templates/{templateId}
// Существующие резервации шаблона не затрагиваются
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	templateID, err := handlers.PathInt64(r, "templateId")
	if err != nil {
		h.logger.Warn("DELETE /admin/templates/{id} - Invalid template ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTemplateID)
		return
	}

	if err := h.service.Delete(r.Context(), templateID); err != nil {
		if errors.Is(err, templates.ErrTemplateNotFound) {
			h.logger.Warn("DELETE /admin/templates/{id} - Template not found: template_id=%d", templateID)
			handlers.RespondNotFound(w, msgTemplateNotFound)
			return
		}

		h.logger.Error("DELETE /admin/templates/{id} - Failed to delete template: template_id=%d, error=%v", templateID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("DELETE /admin/templates/{id} - Template deleted: template_id=%d", templateID)
	w.WriteHeader(http.StatusNoContent)
}
