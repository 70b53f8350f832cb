package mailer

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-ConsultationService/pkg/types"
)

// Slot временной интервал в письме
type Slot struct {
	StartTime types.TimeString
	EndTime   types.TimeString
}

// Confirmation данные письма о подтверждении записи
type Confirmation struct {
	Email         string
	FirstName     string
	LastName      string
	BookingDate   time.Time
	Slots         []Slot
	TotalDuration decimal.Decimal // В часах
	TotalPrice    decimal.Decimal
	PaymentID     string
}

// sendRequest тело запроса к API провайдера (Resend-совместимый формат)
type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
	Text    string   `json:"text"`
}

// sendResponse ответ провайдера на отправку письма
type sendResponse struct {
	ID string `json:"id"`
}

// ErrorResponse модель ошибки провайдера
type ErrorResponse struct {
	StatusCode int    `json:"statusCode"`
	Name       string `json:"name"`
	Message    string `json:"message"`
}
