package consultations

import (
	"context"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
)

// IntakeRepository интерфейс репозитория записей на консультацию
type IntakeRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.IntakeRecord, error)
	List(ctx context.Context, filter domain.IntakeFilter) ([]*domain.IntakeRecord, error)
	Recent(ctx context.Context, limit uint64) ([]*domain.IntakeRecord, error)
	CountByStatus(ctx context.Context) (map[domain.WorkflowStatus]int, error)
	UpdateStatus(ctx context.Context, id int64, status domain.WorkflowStatus) error
	MarkPaymentFailed(ctx context.Context, id int64) error
}

// ReservationRepository интерфейс репозитория резерваций
type ReservationRepository interface {
	GetByIntakeID(ctx context.Context, intakeID int64) ([]*domain.Reservation, error)
	DeleteByIntakeID(ctx context.Context, intakeID int64) (int64, error)
}

// PaymentEventRepository интерфейс журнала платёжных событий
type PaymentEventRepository interface {
	Append(ctx context.Context, event *domain.PaymentEvent) (*domain.PaymentEvent, error)
	ListByIntake(ctx context.Context, intakeID int64) ([]*domain.PaymentEvent, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
