package quote_selection

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
)

// InstanceResolver интерфейс получения свободных слотов на дату
type InstanceResolver interface {
	Instances(ctx context.Context, date time.Time) ([]domain.BookingInstance, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
