package retry_payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	intakeRepo "github.com/m04kA/SMC-ConsultationService/internal/infra/storage/intake"
	"github.com/m04kA/SMC-ConsultationService/internal/integrations/stripepay"
	"github.com/m04kA/SMC-ConsultationService/pkg/ptr"
)

// UseCase use case для повторной передачи заказа в оплату
type UseCase struct {
	intakeRepo      IntakeRepository
	reservationRepo ReservationRepository
	eventRepo       PaymentEventRepository
	payments        PaymentProcessor
	newKey          KeyGenerator
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	intakeRepo IntakeRepository,
	reservationRepo ReservationRepository,
	eventRepo PaymentEventRepository,
	payments PaymentProcessor,
	logger Logger,
) *UseCase {
	return &UseCase{
		intakeRepo:      intakeRepo,
		reservationRepo: reservationRepo,
		eventRepo:       eventRepo,
		payments:        payments,
		newKey:          uuid.NewString,
		logger:          logger,
	}
}

// WithKeyGenerator подменяет генератор ключей идемпотентности
func (uc *UseCase) WithKeyGenerator(gen KeyGenerator) *UseCase {
	uc.newKey = gen
	return uc
}

// Execute создаёт новый заказ на сумму снимка для тех же резерваций
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if req == nil || req.IntakeID <= 0 {
		return nil, fmt.Errorf("%w: intake id is required", ErrInvalidInput)
	}

	uc.logger.Info("RetryPayment: intake=%d", req.IntakeID)

	// 2. Получаем запись
	intake, err := uc.intakeRepo.GetByID(ctx, req.IntakeID)
	if err != nil {
		if errors.Is(err, intakeRepo.ErrIntakeNotFound) {
			return nil, ErrIntakeNotFound
		}
		uc.logger.Error("RetryPayment: failed to get intake id=%d: %v", req.IntakeID, err)
		return nil, fmt.Errorf("%w: failed to get intake: %v", ErrInternal, err)
	}

	if intake.IsPaid() {
		return nil, ErrAlreadyPaid
	}
	if !intake.AwaitsPayment() || intake.PaymentAmount == nil {
		uc.logger.Warn("RetryPayment: intake id=%d has payment status %s", intake.ID, intake.PaymentStatus)
		return nil, ErrNotRetryable
	}

	// 3. Слоты должны оставаться за записью
	reservations, err := uc.reservationRepo.GetByIntakeID(ctx, intake.ID)
	if err != nil {
		uc.logger.Error("RetryPayment: failed to get reservations for intake id=%d: %v", intake.ID, err)
		return nil, fmt.Errorf("%w: failed to get reservations: %v", ErrInternal, err)
	}
	if len(reservations) == 0 {
		uc.logger.Warn("RetryPayment: intake id=%d holds no reservations", intake.ID)
		return nil, ErrNotRetryable
	}

	// 4. Новый заказ на сумму снимка, сумма не пересчитывается
	amount := *intake.PaymentAmount
	order, err := uc.payments.CreateOrder(ctx, stripepay.OrderRequest{
		IntakeID:       intake.ID,
		Amount:         amount,
		Currency:       domain.DefaultCurrency,
		Description:    domain.OrderDescription(intake.Profile, reservations[0].BookingDate),
		IdempotencyKey: fmt.Sprintf("consultation-%d-%s", intake.ID, uc.newKey()),
	})
	if err != nil {
		uc.logger.Error("RetryPayment: processor order failed for intake id=%d: %v", intake.ID, err)
		uc.appendEvent(ctx, &domain.PaymentEvent{
			IntakeID:  ptr.Ptr(intake.ID),
			EventType: domain.EventOrderFailed,
			Provider:  stripepay.Provider,
			Amount:    ptr.Ptr(amount),
			Details:   err.Error(),
		})
		return nil, fmt.Errorf("%w: %v", ErrPaymentProcessor, err)
	}

	// 5. Сохраняем ID нового заказа
	previous := ptr.Deref(intake.PaymentOrderID)
	if err := uc.intakeRepo.SetPaymentOrder(ctx, intake.ID, order.OrderID); err != nil {
		uc.logger.Error("RetryPayment: failed to store order %s for intake id=%d: %v", order.OrderID, intake.ID, err)
		return nil, fmt.Errorf("%w: failed to store payment order: %v", ErrInternal, err)
	}

	uc.appendEvent(ctx, &domain.PaymentEvent{
		IntakeID:  ptr.Ptr(intake.ID),
		EventType: domain.EventOrderCreated,
		Provider:  stripepay.Provider,
		Amount:    ptr.Ptr(amount),
		Reference: ptr.Ptr(order.OrderID),
		Details:   "retry",
	})

	// 6. Закрываем прежнюю сессию, ошибка не влияет на результат
	if previous != "" && previous != order.OrderID {
		if err := uc.payments.ExpireOrder(ctx, previous); err != nil {
			uc.logger.Warn("RetryPayment: failed to expire superseded order %s for intake id=%d: %v", previous, intake.ID, err)
		}
	}

	uc.logger.Info("RetryPayment: intake id=%d got order %s", intake.ID, order.OrderID)

	return &Response{
		IntakeID:    intake.ID,
		OrderID:     order.OrderID,
		CheckoutURL: order.CheckoutURL,
		Amount:      amount,
	}, nil
}

func (uc *UseCase) appendEvent(ctx context.Context, event *domain.PaymentEvent) {
	if _, err := uc.eventRepo.Append(ctx, event); err != nil {
		uc.logger.Error("RetryPayment: failed to record %s event: %v", event.EventType, err)
	}
}
