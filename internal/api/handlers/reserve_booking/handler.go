package reserve_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ConsultationService/internal/api/handlers"
	reserveBooking "github.com/m04kA/SMC-ConsultationService/internal/usecase/reserve_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgDateRequired       = "выберите дату консультации"
	msgDateInPast         = "дата консультации уже прошла"
	msgEmptySelection     = "выберите хотя бы один слот"
	msgInvalidSelection   = "некорректный выбор слотов"
	msgInvalidProfile     = "анкета заполнена не полностью или содержит ошибки"
)

type Handler struct {
	useCase ReserveBookingUseCase
	logger  Logger
}

func NewHandler(useCase ReserveBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
// 201 - слоты удержаны, 409 - слоты заняты, в ответе актуальные свободные слоты
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req ReserveRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /bookings - Invalid date %q: %v", req.Date, err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, reserveBooking.ErrDateRequired):
			handlers.RespondBadRequest(w, msgDateRequired)
		case errors.Is(err, reserveBooking.ErrDateInPast):
			handlers.RespondBadRequest(w, msgDateInPast)
		case errors.Is(err, reserveBooking.ErrEmptySelection):
			handlers.RespondBadRequest(w, msgEmptySelection)
		case errors.Is(err, reserveBooking.ErrInvalidProfile):
			h.logger.Warn("POST /bookings - Invalid profile: %v", err)
			handlers.RespondBadRequest(w, msgInvalidProfile)
		case errors.Is(err, reserveBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidSelection)
		default:
			h.logger.Error("POST /bookings - Failed to reserve booking: date=%s, email=%s, error=%v",
				req.Date, req.Profile.Email, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	if result.Outcome == reserveBooking.OutcomeConflict {
		h.logger.Warn("POST /bookings - Slots conflict: date=%s, conflicts=%d",
			req.Date, len(result.Conflict.Conflicts))
		handlers.RespondJSON(w, http.StatusConflict, FromConflict(result.Conflict))
		return
	}

	h.logger.Info("POST /bookings - Slots reserved: intake_id=%d, retryable=%t",
		result.Reserved.IntakeID, result.Reserved.Retryable)
	handlers.RespondJSON(w, http.StatusCreated, FromReserved(result.Reserved))
}
