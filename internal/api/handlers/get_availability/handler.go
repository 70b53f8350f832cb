package get_availability

import (
	"net/http"
	"time"

	"github.com/m04kA/SMC-ConsultationService/internal/api/handlers"
	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	resolveInstances "github.com/m04kA/SMC-ConsultationService/internal/usecase/resolve_instances"
)

const (
	msgInvalidDate = "некорректный формат даты, ожидается YYYY-MM-DD"
)

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	Date      string                      `json:"date"`
	Instances []handlers.InstanceResponse `json:"instances"`
}

type Handler struct {
	useCase ResolveInstancesUseCase
	logger  Logger
}

func NewHandler(useCase ResolveInstancesUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/availability?date=YYYY-MM-DD
// Публичный endpoint - без авторизации
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	dateStr := r.URL.Query().Get("date")
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		h.logger.Warn("GET /availability - Invalid date %q: %v", dateStr, err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &resolveInstances.Request{Date: date})
	if err != nil {
		h.logger.Error("GET /availability - Failed to resolve instances: date=%s, error=%v", dateStr, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, AvailabilityResponse{
		Date:      result.Date.Format(domain.DateFormat),
		Instances: handlers.FromDomainInstances(result.Instances),
	})
}
