package retry_payment

import (
	"context"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	"github.com/m04kA/SMC-ConsultationService/internal/integrations/stripepay"
)

// IntakeRepository интерфейс репозитория записей на консультацию
type IntakeRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.IntakeRecord, error)
	SetPaymentOrder(ctx context.Context, id int64, orderID string) error
}

// ReservationRepository интерфейс репозитория резерваций
type ReservationRepository interface {
	GetByIntakeID(ctx context.Context, intakeID int64) ([]*domain.Reservation, error)
}

// PaymentEventRepository интерфейс журнала платёжных событий
type PaymentEventRepository interface {
	Append(ctx context.Context, event *domain.PaymentEvent) (*domain.PaymentEvent, error)
}

// PaymentProcessor интерфейс платёжного провайдера
type PaymentProcessor interface {
	CreateOrder(ctx context.Context, req stripepay.OrderRequest) (*stripepay.Order, error)
	ExpireOrder(ctx context.Context, orderID string) error
}

// KeyGenerator генерирует ключи идемпотентности для провайдера
type KeyGenerator func() string

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
