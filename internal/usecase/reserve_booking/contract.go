package reserve_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	"github.com/m04kA/SMC-ConsultationService/internal/integrations/stripepay"
)

// InstanceResolver интерфейс получения свободных слотов на дату
type InstanceResolver interface {
	Instances(ctx context.Context, date time.Time) ([]domain.BookingInstance, error)
}

// IntakeRepository интерфейс репозитория записей на консультацию
type IntakeRepository interface {
	Create(ctx context.Context, rec *domain.IntakeRecord) (*domain.IntakeRecord, error)
	MarkPaymentFailed(ctx context.Context, id int64) error
	SetPaymentOrder(ctx context.Context, id int64, orderID string) error
}

// ReservationRepository интерфейс репозитория резерваций
type ReservationRepository interface {
	GetByDate(ctx context.Context, date time.Time) ([]*domain.Reservation, error)
	Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error)
}

// PaymentEventRepository интерфейс журнала платёжных событий
type PaymentEventRepository interface {
	Append(ctx context.Context, event *domain.PaymentEvent) (*domain.PaymentEvent, error)
}

// PaymentProcessor интерфейс платёжного провайдера
type PaymentProcessor interface {
	CreateOrder(ctx context.Context, req stripepay.OrderRequest) (*stripepay.Order, error)
}

// EventPublisher интерфейс публикации событий
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, intakeID int64, payload interface{}) error
}

// Metrics интерфейс бизнес-метрик
type Metrics interface {
	ObserveReservation(outcome string)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
