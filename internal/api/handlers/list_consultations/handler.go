package list_consultations

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-ConsultationService/internal/api/handlers"
	"github.com/m04kA/SMC-ConsultationService/internal/service/consultations"
	"github.com/m04kA/SMC-ConsultationService/internal/service/consultations/models"
)

const (
	msgInvalidStatus = "некорректный статус"
	msgInvalidLimit  = "некорректный limit"
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

// Handle GET /api/v1/admin/consultations?status=...&search=...&limit=...
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	req := &models.ListRequest{Search: query.Get("search")}
	if status := query.Get("status"); status != "" && status != "all" {
		req.Status = &status
	}
	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			h.logger.Warn("GET /admin/consultations - Invalid limit: %v", err)
			handlers.RespondBadRequest(w, msgInvalidLimit)
			return
		}
		req.Limit = limit
	}

	result, err := h.service.List(r.Context(), req)
	if err != nil {
		if errors.Is(err, consultations.ErrInvalidInput) {
			h.logger.Warn("GET /admin/consultations - Invalid filter: %v", err)
			handlers.RespondBadRequest(w, msgInvalidStatus)
			return
		}

		h.logger.Error("GET /admin/consultations - Failed to list consultations: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /admin/consultations - Consultations retrieved: count=%d", len(result.Consultations))
	handlers.RespondJSON(w, http.StatusOK, result)
}
