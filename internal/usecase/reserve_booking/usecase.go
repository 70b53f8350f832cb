package reserve_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	reservationRepo "github.com/m04kA/SMC-ConsultationService/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-ConsultationService/internal/integrations/events"
	"github.com/m04kA/SMC-ConsultationService/internal/integrations/stripepay"
	"github.com/m04kA/SMC-ConsultationService/pkg/ptr"
)

// UseCase use case для резервации выбранных слотов и передачи заказа в оплату
type UseCase struct {
	resolver        InstanceResolver
	intakeRepo      IntakeRepository
	reservationRepo ReservationRepository
	eventRepo       PaymentEventRepository
	payments        PaymentProcessor
	publisher       EventPublisher
	metrics         Metrics
	txManager       TransactionManager
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	resolver InstanceResolver,
	intakeRepo IntakeRepository,
	reservationRepo ReservationRepository,
	eventRepo PaymentEventRepository,
	payments PaymentProcessor,
	publisher EventPublisher,
	metrics Metrics,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		resolver:        resolver,
		intakeRepo:      intakeRepo,
		reservationRepo: reservationRepo,
		eventRepo:       eventRepo,
		payments:        payments,
		publisher:       publisher,
		metrics:         metrics,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет переход Drafting -> Reserved
// Конфликт слотов возвращается как Outcome=conflict, а не как ошибка
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req, uc.timeProvider.Now()); err != nil {
		uc.logger.Warn("ReserveBooking: validation failed: %v", err)
		return nil, err
	}

	date := domain.DateOnly(req.Date)
	uc.logger.Info("ReserveBooking: date=%s, templates=%v, email=%s",
		date.Format(domain.DateFormat), req.TemplateIDs, req.Profile.Email)

	// 2. Получаем свободные слоты и собираем выбор
	instances, err := uc.resolver.Instances(ctx, date)
	if err != nil {
		uc.logger.Error("ReserveBooking: failed to resolve instances: %v", err)
		uc.metrics.ObserveReservation("error")
		return nil, fmt.Errorf("%w: failed to resolve instances: %v", ErrInternal, err)
	}

	selection, missing := buildSelection(date, req.TemplateIDs, instances)

	// 3. Слот уже занят или снят с расписания: запись не создаём
	if len(missing) > 0 {
		uc.logger.Warn("ReserveBooking: templates %v are not available on %s", missing, date.Format(domain.DateFormat))
		return uc.conflict(ctx, nil, date, missingSlots(missing))
	}

	items := selection.Items()
	amount := selection.TotalPrice()

	// 4. Создаём запись со снимком суммы
	intake, err := uc.intakeRepo.Create(ctx, &domain.IntakeRecord{
		Profile:       req.Profile,
		Status:        domain.WorkflowPending,
		PaymentStatus: domain.PaymentPending,
		PaymentAmount: ptr.Ptr(amount),
	})
	if err != nil {
		uc.logger.Error("ReserveBooking: failed to create intake: %v", err)
		uc.metrics.ObserveReservation("error")
		return nil, fmt.Errorf("%w: failed to create intake: %v", ErrInternal, err)
	}

	// 5. Удерживаем слоты пакетом в сериализуемой транзакции
	var conflicts []ConflictSlot
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		conflicts = nil

		// 5.1. Получаем резервации на дату с блокировкой (FOR UPDATE)
		existing, err := uc.reservationRepo.GetByDate(txCtx, date)
		if err != nil {
			return fmt.Errorf("%w: failed to get reservations: %w", ErrInternal, err)
		}

		// 5.2. Проверяем занятость и дубли внутри пакета
		taken := make(map[domain.SlotKey]struct{}, len(existing)+len(items))
		for _, r := range existing {
			taken[r.Key()] = struct{}{}
		}
		for _, inst := range items {
			if _, ok := taken[inst.Key()]; ok {
				conflicts = append(conflicts, conflictSlot(inst))
				continue
			}
			taken[inst.Key()] = struct{}{}
		}
		if len(conflicts) > 0 {
			return errBatchConflict
		}

		// 5.3. Сохраняем резервации; нарушение индекса откатывает весь пакет
		for _, inst := range items {
			if _, err := uc.reservationRepo.Create(txCtx, domain.NewReservation(intake.ID, inst)); err != nil {
				if errors.Is(err, reservationRepo.ErrSlotTaken) {
					conflicts = append(conflicts, conflictSlot(inst))
					return errBatchConflict
				}
				return fmt.Errorf("%w: failed to create reservation: %w", ErrInternal, err)
			}
		}

		return nil
	})

	if errors.Is(err, errBatchConflict) {
		uc.logger.Warn("ReserveBooking: intake id=%d lost slots %v", intake.ID, conflicts)
		uc.markFailed(ctx, intake.ID)
		return uc.conflict(ctx, ptr.Ptr(intake.ID), date, conflicts)
	}
	if err != nil {
		uc.logger.Error("ReserveBooking: failed to reserve slots for intake id=%d: %v", intake.ID, err)
		uc.markFailed(ctx, intake.ID)
		uc.metrics.ObserveReservation("error")
		if errors.Is(err, ErrInternal) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: failed to reserve slots: %v", ErrInternal, err)
	}

	uc.logger.Info("ReserveBooking: intake id=%d reserved %d slots, amount=%s",
		intake.ID, len(items), amount.StringFixed(domain.CurrencyPrecision))
	uc.metrics.ObserveReservation(string(OutcomeReserved))
	uc.publish(ctx, events.TypeReservationCreated, intake.ID, events.ReservationCreated{
		Date:   date.Format(domain.DateFormat),
		Slots:  slotLabels(items),
		Amount: amount.StringFixed(domain.CurrencyPrecision),
	})

	reserved := &Reserved{
		IntakeID:      intake.ID,
		Date:          date,
		Items:         items,
		TotalDuration: selection.TotalDuration(),
		TotalPrice:    amount,
		PaymentStatus: domain.PaymentPending,
	}

	// 6. Передаём заказ платёжному провайдеру; при ошибке слоты остаются удержанными
	checkout, err := uc.handoff(ctx, intake, date)
	if err != nil {
		uc.logger.Warn("ReserveBooking: payment handoff failed for intake id=%d, retry is possible: %v", intake.ID, err)
		reserved.Retryable = true
	} else {
		reserved.Checkout = checkout
	}

	return &Response{Outcome: OutcomeReserved, Reserved: reserved}, nil
}

// handoff создаёт заказ на сумму снимка и сохраняет его ID в записи
func (uc *UseCase) handoff(ctx context.Context, intake *domain.IntakeRecord, date time.Time) (*Checkout, error) {
	amount := ptr.Deref(intake.PaymentAmount)

	order, err := uc.payments.CreateOrder(ctx, stripepay.OrderRequest{
		IntakeID:       intake.ID,
		Amount:         amount,
		Currency:       domain.DefaultCurrency,
		Description:    domain.OrderDescription(intake.Profile, date),
		IdempotencyKey: fmt.Sprintf("consultation-%d-initial", intake.ID),
	})
	if err != nil {
		uc.appendEvent(ctx, &domain.PaymentEvent{
			IntakeID:  ptr.Ptr(intake.ID),
			EventType: domain.EventOrderFailed,
			Provider:  stripepay.Provider,
			Amount:    ptr.Ptr(amount),
			Details:   err.Error(),
		})
		return nil, err
	}

	if err := uc.intakeRepo.SetPaymentOrder(ctx, intake.ID, order.OrderID); err != nil {
		uc.logger.Error("ReserveBooking: failed to store order %s for intake id=%d: %v", order.OrderID, intake.ID, err)
		return nil, fmt.Errorf("%w: failed to store payment order: %v", ErrInternal, err)
	}

	uc.appendEvent(ctx, &domain.PaymentEvent{
		IntakeID:  ptr.Ptr(intake.ID),
		EventType: domain.EventOrderCreated,
		Provider:  stripepay.Provider,
		Amount:    ptr.Ptr(amount),
		Reference: ptr.Ptr(order.OrderID),
	})

	return &Checkout{OrderID: order.OrderID, URL: order.CheckoutURL}, nil
}

// conflict собирает результат Conflict со слотами, доступными сейчас
func (uc *UseCase) conflict(ctx context.Context, intakeID *int64, date time.Time, conflicts []ConflictSlot) (*Response, error) {
	uc.metrics.ObserveReservation(string(OutcomeConflict))

	available, err := uc.resolver.Instances(ctx, date)
	if err != nil {
		uc.logger.Error("ReserveBooking: failed to re-resolve instances: %v", err)
		available = []domain.BookingInstance{}
	}

	if intakeID != nil {
		labels := make([]string, 0, len(conflicts))
		for _, c := range conflicts {
			labels = append(labels, fmt.Sprintf("%s-%s", c.StartTime, c.EndTime))
		}
		uc.publish(ctx, events.TypeReservationConflict, *intakeID, events.ReservationConflict{
			Date:      date.Format(domain.DateFormat),
			Conflicts: labels,
		})
	}

	return &Response{
		Outcome: OutcomeConflict,
		Conflict: &Conflict{
			IntakeID:  intakeID,
			Date:      date,
			Conflicts: conflicts,
			Available: available,
		},
	}, nil
}

func (uc *UseCase) markFailed(ctx context.Context, intakeID int64) {
	if err := uc.intakeRepo.MarkPaymentFailed(ctx, intakeID); err != nil {
		uc.logger.Error("ReserveBooking: failed to mark intake id=%d as failed: %v", intakeID, err)
	}
}

func (uc *UseCase) appendEvent(ctx context.Context, event *domain.PaymentEvent) {
	if _, err := uc.eventRepo.Append(ctx, event); err != nil {
		uc.logger.Error("ReserveBooking: failed to record %s event: %v", event.EventType, err)
	}
}

func (uc *UseCase) publish(ctx context.Context, eventType string, intakeID int64, payload interface{}) {
	if err := uc.publisher.Publish(ctx, eventType, intakeID, payload); err != nil {
		uc.logger.Warn("ReserveBooking: failed to publish %s for intake id=%d: %v", eventType, intakeID, err)
	}
}
