package capture_payment

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	"github.com/m04kA/SMC-ConsultationService/internal/integrations/mailer"
	"github.com/m04kA/SMC-ConsultationService/internal/integrations/stripepay"
)

// IntakeRepository интерфейс репозитория записей на консультацию
type IntakeRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.IntakeRecord, error)
	MarkPaid(ctx context.Context, id int64, reference string, paidAt time.Time) (bool, error)
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
	Capture(ctx context.Context, orderID string) (*stripepay.Capture, error)
}

// Notifier интерфейс отправки письма о подтверждении
type Notifier interface {
	SendBookingConfirmation(ctx context.Context, confirmation mailer.Confirmation) (string, error)
}

// EventPublisher интерфейс публикации событий
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, intakeID int64, payload interface{}) error
}

// Metrics интерфейс бизнес-метрик
type Metrics interface {
	ObserveCapture(outcome string)
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
