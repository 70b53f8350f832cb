package quote_selection

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ConsultationService/internal/api/handlers"
	quoteSelection "github.com/m04kA/SMC-ConsultationService/internal/usecase/quote_selection"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidSelection   = "некорректный выбор слотов"
)

type Handler struct {
	useCase QuoteSelectionUseCase
	logger  Logger
}

func NewHandler(useCase QuoteSelectionUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/selections/quote
// Расчёт итогов выбора без сохранения
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req QuoteRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /selections/quote - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /selections/quote - Invalid date %q: %v", req.Date, err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		if errors.Is(err, quoteSelection.ErrInvalidInput) {
			h.logger.Warn("POST /selections/quote - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidSelection)
			return
		}
		h.logger.Error("POST /selections/quote - Failed to quote selection: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
