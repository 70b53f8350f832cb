package create_template

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ConsultationService/internal/api/handlers"
	"github.com/m04kA/SMC-ConsultationService/internal/service/templates"
	"github.com/m04kA/SMC-ConsultationService/internal/service/templates/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidData        = "некорректные данные шаблона"
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

// Handle POST /api/v1/admin/templates
// Пропущенные поля заполняются значениями по умолчанию
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req models.CreateTemplateRequest
	if err := handlers.DecodeJSON(r, &req); err != nil && !errors.Is(err, handlers.ErrEmptyBody) {
		h.logger.Warn("POST /admin/templates - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Create(r.Context(), &req)
	if err != nil {
		if errors.Is(err, templates.ErrInvalidInput) {
			h.logger.Warn("POST /admin/templates - Invalid data: %v", err)
			handlers.RespondBadRequest(w, msgInvalidData)
			return
		}

		h.logger.Error("POST /admin/templates - Failed to create template: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /admin/templates - Template created: template_id=%d, day=%d, %s-%s",
		result.ID, result.DayOfWeek, result.StartTime, result.EndTime)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
