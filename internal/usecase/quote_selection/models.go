package quote_selection

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
)

// Request модель запроса расчёта выбора
type Request struct {
	Date        time.Time // Дата
	TemplateIDs []int64   // Выбранные шаблоны
}

// Response модель ответа с расчётом выбора
type Response struct {
	Date          time.Time                // Дата
	Items         []domain.BookingInstance // Выбранные слоты по времени начала
	Unavailable   []int64                  // Шаблоны, которых нет среди свободных слотов
	TotalDuration decimal.Decimal          // Суммарная длительность в часах
	TotalPrice    decimal.Decimal          // Итоговая цена
}
