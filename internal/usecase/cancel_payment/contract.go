package cancel_payment

import (
	"context"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
)

// IntakeRepository интерфейс репозитория записей на консультацию
type IntakeRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.IntakeRecord, error)
}

// PaymentEventRepository интерфейс журнала платёжных событий
type PaymentEventRepository interface {
	Append(ctx context.Context, event *domain.PaymentEvent) (*domain.PaymentEvent, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
