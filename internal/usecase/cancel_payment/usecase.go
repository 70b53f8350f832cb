package cancel_payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	intakeRepo "github.com/m04kA/SMC-ConsultationService/internal/infra/storage/intake"
	"github.com/m04kA/SMC-ConsultationService/pkg/ptr"
)

// UseCase use case для отмены или неудачи оплаты
// Статус оплаты остаётся pending, резервации не освобождаются
type UseCase struct {
	intakeRepo IntakeRepository
	eventRepo  PaymentEventRepository
	logger     Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(intakeRepo IntakeRepository, eventRepo PaymentEventRepository, logger Logger) *UseCase {
	return &UseCase{
		intakeRepo: intakeRepo,
		eventRepo:  eventRepo,
		logger:     logger,
	}
}

// Execute записывает событие отмены оплаты
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if req == nil || req.IntakeID <= 0 {
		return nil, fmt.Errorf("%w: intake id is required", ErrInvalidInput)
	}
	eventType, ok := eventFor(req.Reason)
	if !ok {
		uc.logger.Warn("CancelPayment: unknown reason %q", req.Reason)
		return nil, fmt.Errorf("%w: reason must be cancelled or failed", ErrInvalidInput)
	}

	uc.logger.Info("CancelPayment: intake=%d, reason=%s", req.IntakeID, req.Reason)

	// 2. Получаем запись
	intake, err := uc.intakeRepo.GetByID(ctx, req.IntakeID)
	if err != nil {
		if errors.Is(err, intakeRepo.ErrIntakeNotFound) {
			return nil, ErrIntakeNotFound
		}
		uc.logger.Error("CancelPayment: failed to get intake id=%d: %v", req.IntakeID, err)
		return nil, fmt.Errorf("%w: failed to get intake: %v", ErrInternal, err)
	}

	// 3. Оплаченную запись не трогаем
	if intake.IsPaid() {
		uc.logger.Info("CancelPayment: intake id=%d already paid, ignoring %s", intake.ID, req.Reason)
		return &Response{IntakeID: intake.ID, PaymentStatus: intake.PaymentStatus}, nil
	}

	// 4. Фиксируем событие, статус не меняется
	if _, err := uc.eventRepo.Append(ctx, &domain.PaymentEvent{
		IntakeID:  ptr.Ptr(intake.ID),
		EventType: eventType,
		Reference: intake.PaymentOrderID,
		Amount:    intake.PaymentAmount,
		Details:   fmt.Sprintf("client reported %s", req.Reason),
	}); err != nil {
		uc.logger.Error("CancelPayment: failed to record event for intake id=%d: %v", intake.ID, err)
		return nil, fmt.Errorf("%w: failed to record event: %v", ErrInternal, err)
	}

	return &Response{IntakeID: intake.ID, PaymentStatus: intake.PaymentStatus, Recorded: true}, nil
}

func eventFor(reason Reason) (domain.PaymentEventType, bool) {
	switch reason {
	case ReasonCancelled:
		return domain.EventPaymentCancelled, true
	case ReasonFailed:
		return domain.EventPaymentFailed, true
	default:
		return "", false
	}
}
