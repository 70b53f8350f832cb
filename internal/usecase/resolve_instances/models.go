package resolve_instances

import (
	"time"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
)

// Request модель запроса доступных слотов
type Request struct {
	Date time.Time // Дата (без времени)
}

// Response модель ответа со слотами на дату
type Response struct {
	Date      time.Time                // Дата
	Instances []domain.BookingInstance // Свободные слоты по возрастанию времени начала
}
