package reconcile

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	"github.com/m04kA/SMC-ConsultationService/internal/integrations/stripepay"
	capturePayment "github.com/m04kA/SMC-ConsultationService/internal/usecase/capture_payment"
	"github.com/m04kA/SMC-ConsultationService/pkg/ptr"
)

const defaultBatchSize = 50

// Config параметры сверки
type Config struct {
	Interval  time.Duration
	MinAge    time.Duration // моложе этого возраста запись ещё может быть оплачена клиентом
	BatchSize int
}

// Result итог одного прохода
type Result struct {
	Checked  int
	Captured int
	Pending  int
	Failed   int
}

// Reconciler периодически сверяет неоплаченные записи с платёжным провайдером
// Записи, оплаченные у провайдера, проводятся через capture_payment
type Reconciler struct {
	intakeRepo   IntakeRepository
	payments     PaymentProcessor
	capture      CapturePaymentUseCase
	cfg          Config
	timeProvider TimeProvider
	logger       Logger
}

func NewReconciler(
	intakeRepo IntakeRepository,
	payments PaymentProcessor,
	capture CapturePaymentUseCase,
	cfg Config,
	logger Logger,
) *Reconciler {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultBatchSize
	}
	if cfg.Interval <= 0 {
		cfg.Interval = 5 * time.Minute
	}
	return &Reconciler{
		intakeRepo:   intakeRepo,
		payments:     payments,
		capture:      capture,
		cfg:          cfg,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени
func (r *Reconciler) WithTimeProvider(tp TimeProvider) *Reconciler {
	r.timeProvider = tp
	return r
}

// Run выполняет сверку по таймеру до отмены контекста
func (r *Reconciler) Run(ctx context.Context) {
	r.logger.Info("Reconciler: started, interval=%s, min_age=%s", r.cfg.Interval, r.cfg.MinAge)

	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()

	for {
		if _, err := r.RunOnce(ctx); err != nil {
			r.logger.Error("Reconciler: pass failed: %v", err)
		}

		select {
		case <-ctx.Done():
			r.logger.Info("Reconciler: stopped")
			return
		case <-ticker.C:
		}
	}
}

// RunOnce один проход по пачке неоплаченных записей
func (r *Reconciler) RunOnce(ctx context.Context) (*Result, error) {
	// 1. Записи с заказом, которые клиент так и не подтвердил
	intakes, err := r.intakeRepo.ListPendingPayments(ctx, domain.PendingPaymentFilter{
		CreatedBefore: r.timeProvider.Now().Add(-r.cfg.MinAge),
		Limit:         uint64(r.cfg.BatchSize),
	})
	if err != nil {
		return nil, fmt.Errorf("list pending payments: %w", err)
	}

	result := &Result{}
	for _, intake := range intakes {
		if ctx.Err() != nil {
			break
		}
		result.Checked++
		r.reconcile(ctx, intake, result)
	}

	if result.Checked > 0 {
		r.logger.Info("Reconciler: checked=%d, captured=%d, pending=%d, failed=%d",
			result.Checked, result.Captured, result.Pending, result.Failed)
	}
	return result, nil
}

func (r *Reconciler) reconcile(ctx context.Context, intake *domain.IntakeRecord, result *Result) {
	orderID := ptr.Deref(intake.PaymentOrderID)

	// 2. Спрашиваем статус у провайдера
	status, err := r.payments.Capture(ctx, orderID)
	if err != nil {
		r.logger.Warn("Reconciler: failed to check order %s for intake id=%d: %v", orderID, intake.ID, err)
		result.Failed++
		return
	}
	if status.Status != stripepay.CaptureCompleted {
		result.Pending++
		return
	}

	// 3. Оплата прошла, но не была зафиксирована у нас
	_, err = r.capture.Execute(ctx, &capturePayment.Request{
		IntakeID: intake.ID,
		OrderID:  orderID,
		Source:   capturePayment.SourceReconciler,
	})
	if err != nil {
		r.logger.Error("Reconciler: capture failed for intake id=%d, order %s: %v", intake.ID, orderID, err)
		result.Failed++
		return
	}

	r.logger.Info("Reconciler: intake id=%d captured, reference=%s", intake.ID, status.ReferenceID)
	result.Captured++
}
