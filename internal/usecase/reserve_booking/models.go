package reserve_booking

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	"github.com/m04kA/SMC-ConsultationService/pkg/types"
)

// Outcome итог попытки резервации
type Outcome string

const (
	OutcomeReserved Outcome = "reserved"
	OutcomeConflict Outcome = "conflict"
)

// Request модель запроса на резервацию слотов
type Request struct {
	Date        time.Time            // Дата консультации
	TemplateIDs []int64              // Выбранные шаблоны
	Profile     domain.ClientProfile // Анкета клиента
}

// Response результат резервации: Reserved или Conflict в зависимости от Outcome
type Response struct {
	Outcome  Outcome
	Reserved *Reserved
	Conflict *Conflict
}

// Reserved слоты удержаны за записью, ожидается оплата
type Reserved struct {
	IntakeID      int64
	Date          time.Time
	Items         []domain.BookingInstance
	TotalDuration decimal.Decimal
	TotalPrice    decimal.Decimal // Снимок суммы, сохранённый в записи
	PaymentStatus domain.PaymentStatus
	Checkout      *Checkout // nil, если заказ у провайдера не создан
	Retryable     bool      // Можно повторить создание заказа через retry-payment
}

// Checkout данные для перехода к оплате
type Checkout struct {
	OrderID string
	URL     string
}

// ConflictSlot занятый или недоступный слот
// Для шаблона, которого нет среди свободных слотов, время не заполнено
type ConflictSlot struct {
	TemplateID int64
	StartTime  types.TimeString
	EndTime    types.TimeString
}

// Conflict выбор не может быть удержан; клиент выбирает заново из Available
type Conflict struct {
	IntakeID  *int64 // Запись, помеченная failed; nil, если запись не создавалась
	Date      time.Time
	Conflicts []ConflictSlot
	Available []domain.BookingInstance
}
