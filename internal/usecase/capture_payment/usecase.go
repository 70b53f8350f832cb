package capture_payment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	intakeRepo "github.com/m04kA/SMC-ConsultationService/internal/infra/storage/intake"
	"github.com/m04kA/SMC-ConsultationService/internal/integrations/events"
	"github.com/m04kA/SMC-ConsultationService/internal/integrations/mailer"
	"github.com/m04kA/SMC-ConsultationService/internal/integrations/stripepay"
	"github.com/m04kA/SMC-ConsultationService/pkg/ptr"
)

// UseCase use case для перехода Reserved -> Paid
type UseCase struct {
	intakeRepo      IntakeRepository
	reservationRepo ReservationRepository
	eventRepo       PaymentEventRepository
	payments        PaymentProcessor
	notifier        Notifier
	publisher       EventPublisher
	metrics         Metrics
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	intakeRepo IntakeRepository,
	reservationRepo ReservationRepository,
	eventRepo PaymentEventRepository,
	payments PaymentProcessor,
	notifier Notifier,
	publisher EventPublisher,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		intakeRepo:      intakeRepo,
		reservationRepo: reservationRepo,
		eventRepo:       eventRepo,
		payments:        payments,
		notifier:        notifier,
		publisher:       publisher,
		metrics:         metrics,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute фиксирует оплату записи
// Повторный вызов для оплаченной записи возвращает AlreadyCaptured без побочных эффектов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if req == nil || req.IntakeID <= 0 || strings.TrimSpace(req.OrderID) == "" {
		uc.logger.Warn("CapturePayment: intake id and order id are required")
		return nil, fmt.Errorf("%w: intake id and order id are required", ErrInvalidInput)
	}

	uc.logger.Info("CapturePayment: intake=%d, order=%s, source=%s", req.IntakeID, req.OrderID, req.Source)

	// 2. Получаем запись
	intake, err := uc.intakeRepo.GetByID(ctx, req.IntakeID)
	if err != nil {
		if errors.Is(err, intakeRepo.ErrIntakeNotFound) {
			uc.logger.Warn("CapturePayment: intake id=%d not found", req.IntakeID)
			return nil, ErrIntakeNotFound
		}
		uc.logger.Error("CapturePayment: failed to get intake id=%d: %v", req.IntakeID, err)
		return nil, fmt.Errorf("%w: failed to get intake: %v", ErrInternal, err)
	}

	// 3. Уже оплачено: ничего не меняем
	if intake.IsPaid() {
		uc.logger.Info("CapturePayment: intake id=%d already captured", intake.ID)
		uc.metrics.ObserveCapture("duplicate")
		return alreadyCaptured(intake), nil
	}

	// 4. Заказ может быть заменён повторной оплатой, но по старой сессии уже могли заплатить
	superseded := intake.PaymentOrderID == nil || *intake.PaymentOrderID != req.OrderID

	// 5. Проверяем оплату у провайдера
	capture, err := uc.payments.Capture(ctx, req.OrderID)
	if err != nil {
		if superseded && errors.Is(err, stripepay.ErrOrderNotFound) {
			uc.logger.Warn("CapturePayment: order %s does not match intake id=%d", req.OrderID, intake.ID)
			return nil, fmt.Errorf("%w: order %s", ErrOrderMismatch, req.OrderID)
		}
		uc.logger.Error("CapturePayment: processor capture failed for order %s: %v", req.OrderID, err)
		uc.metrics.ObserveCapture("error")
		return nil, fmt.Errorf("%w: %v", ErrPaymentProcessor, err)
	}

	details := fmt.Sprintf("source %s", req.Source)
	if superseded {
		// Принимаем только оплаченный заказ этой же записи
		if capture.IntakeID != intake.ID || capture.Status != stripepay.CaptureCompleted {
			uc.logger.Warn("CapturePayment: order %s does not match intake id=%d (order intake=%d, status=%s)",
				req.OrderID, intake.ID, capture.IntakeID, capture.Status)
			return nil, fmt.Errorf("%w: order %s", ErrOrderMismatch, req.OrderID)
		}
		uc.logger.Warn("CapturePayment: intake id=%d paid through superseded order %s", intake.ID, req.OrderID)
		details = fmt.Sprintf("source %s, superseded order %s", req.Source, req.OrderID)
	}

	if capture.Status != stripepay.CaptureCompleted {
		uc.logger.Warn("CapturePayment: order %s for intake id=%d is %s", req.OrderID, intake.ID, capture.Status)
		uc.metrics.ObserveCapture("not_captured")
		uc.appendEvent(ctx, &domain.PaymentEvent{
			IntakeID:  ptr.Ptr(intake.ID),
			EventType: domain.EventCaptureFailed,
			Provider:  stripepay.Provider,
			Reference: ptr.Ptr(req.OrderID),
			Details:   fmt.Sprintf("processor status %s, source %s", capture.Status, req.Source),
		})
		return nil, fmt.Errorf("%w: processor status %s", ErrPaymentNotCaptured, capture.Status)
	}

	// 6. Единственное условное обновление записи
	paidAt := uc.timeProvider.Now()
	applied, err := uc.intakeRepo.MarkPaid(ctx, intake.ID, capture.ReferenceID, paidAt)
	if err != nil {
		uc.logger.Error("CapturePayment: RECONCILIATION REQUIRED intake id=%d, reference=%s: %v",
			intake.ID, capture.ReferenceID, err)
		uc.metrics.ObserveCapture("reconciliation_required")
		uc.appendEvent(ctx, &domain.PaymentEvent{
			IntakeID:  ptr.Ptr(intake.ID),
			EventType: domain.EventReconciliationRequired,
			Provider:  stripepay.Provider,
			Amount:    intake.PaymentAmount,
			Reference: ptr.Ptr(capture.ReferenceID),
			Details:   err.Error(),
		})
		return nil, fmt.Errorf("%w: reference %s", ErrReconciliationRequired, capture.ReferenceID)
	}

	// 7. Другой обработчик успел раньше: уведомление уже отправлено им
	if !applied {
		uc.logger.Info("CapturePayment: intake id=%d captured concurrently, reference=%s", intake.ID, capture.ReferenceID)
		uc.metrics.ObserveCapture("duplicate")
		uc.appendEvent(ctx, &domain.PaymentEvent{
			IntakeID:  ptr.Ptr(intake.ID),
			EventType: domain.EventCaptureDuplicate,
			Provider:  stripepay.Provider,
			Reference: ptr.Ptr(capture.ReferenceID),
			Details:   details,
		})
		return &Response{
			IntakeID:        intake.ID,
			PaymentStatus:   domain.PaymentCompleted,
			Reference:       capture.ReferenceID,
			AlreadyCaptured: true,
		}, nil
	}

	uc.logger.Info("CapturePayment: intake id=%d paid, reference=%s", intake.ID, capture.ReferenceID)
	uc.metrics.ObserveCapture("completed")
	uc.appendEvent(ctx, &domain.PaymentEvent{
		IntakeID:  ptr.Ptr(intake.ID),
		EventType: domain.EventCaptureSucceeded,
		Provider:  stripepay.Provider,
		Amount:    intake.PaymentAmount,
		Reference: ptr.Ptr(capture.ReferenceID),
		Details:   details,
	})

	// 8. Уведомление и событие не влияют на результат
	uc.notify(ctx, intake, capture.ReferenceID)
	if err := uc.publisher.Publish(ctx, events.TypePaymentCompleted, intake.ID, events.PaymentCompleted{
		Reference: capture.ReferenceID,
		Amount:    intake.FormattedAmount(),
	}); err != nil {
		uc.logger.Warn("CapturePayment: failed to publish payment event for intake id=%d: %v", intake.ID, err)
	}

	return &Response{
		IntakeID:      intake.ID,
		PaymentStatus: domain.PaymentCompleted,
		Reference:     capture.ReferenceID,
		PaidAt:        &paidAt,
	}, nil
}

// notify отправляет письмо о подтверждении, ошибки только логируются
func (uc *UseCase) notify(ctx context.Context, intake *domain.IntakeRecord, reference string) {
	reservations, err := uc.reservationRepo.GetByIntakeID(ctx, intake.ID)
	if err != nil {
		uc.logger.Error("CapturePayment: failed to load reservations for notification, intake id=%d: %v", intake.ID, err)
		uc.notificationFailed(ctx, intake.ID, err)
		return
	}

	hours, price := domain.ReservationTotals(reservations)
	// В письме сумма списания из снимка
	if intake.PaymentAmount != nil {
		price = *intake.PaymentAmount
	}
	confirmation := mailer.Confirmation{
		Email:         intake.Profile.Email,
		FirstName:     intake.Profile.FirstName,
		LastName:      intake.Profile.LastName,
		TotalDuration: hours,
		TotalPrice:    price,
		PaymentID:     reference,
	}
	for _, r := range reservations {
		confirmation.Slots = append(confirmation.Slots, mailer.Slot{StartTime: r.StartTime, EndTime: r.EndTime})
	}
	if len(reservations) > 0 {
		confirmation.BookingDate = reservations[0].BookingDate
	}

	if _, err := uc.notifier.SendBookingConfirmation(ctx, confirmation); err != nil {
		uc.logger.Error("CapturePayment: failed to send confirmation for intake id=%d: %v", intake.ID, err)
		uc.notificationFailed(ctx, intake.ID, err)
	}
}

func (uc *UseCase) notificationFailed(ctx context.Context, intakeID int64, cause error) {
	uc.appendEvent(ctx, &domain.PaymentEvent{
		IntakeID:  ptr.Ptr(intakeID),
		EventType: domain.EventNotificationFailed,
		Details:   cause.Error(),
	})
}

func (uc *UseCase) appendEvent(ctx context.Context, event *domain.PaymentEvent) {
	if _, err := uc.eventRepo.Append(ctx, event); err != nil {
		uc.logger.Error("CapturePayment: failed to record %s event: %v", event.EventType, err)
	}
}

func alreadyCaptured(intake *domain.IntakeRecord) *Response {
	var paidAt *time.Time
	if intake.PaymentDate != nil {
		paidAt = ptr.Ptr(*intake.PaymentDate)
	}
	return &Response{
		IntakeID:        intake.ID,
		PaymentStatus:   intake.PaymentStatus,
		Reference:       ptr.Deref(intake.PaymentReference),
		PaidAt:          paidAt,
		AlreadyCaptured: true,
	}
}
