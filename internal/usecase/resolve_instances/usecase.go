package resolve_instances

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
)

// UseCase use case для получения свободных слотов на дату
type UseCase struct {
	templateRepo    TemplateRepository
	reservationRepo ReservationRepository
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	templateRepo TemplateRepository,
	reservationRepo ReservationRepository,
	logger Logger,
) *UseCase {
	return &UseCase{
		templateRepo:    templateRepo,
		reservationRepo: reservationRepo,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case получения свободных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if req == nil || req.Date.IsZero() {
		uc.logger.Warn("ResolveInstances: date is required")
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	uc.logger.Info("ResolveInstances: date=%s", req.Date.Format(domain.DateFormat))

	instances, err := uc.Instances(ctx, req.Date)
	if err != nil {
		return nil, err
	}

	uc.logger.Info("ResolveInstances: found %d free instances on %s", len(instances), req.Date.Format(domain.DateFormat))

	return &Response{
		Date:      domain.DateOnly(req.Date),
		Instances: instances,
	}, nil
}

// Instances возвращает свободные слоты на дату
// Для прошедших дат возвращается пустой список
func (uc *UseCase) Instances(ctx context.Context, date time.Time) ([]domain.BookingInstance, error) {
	date = domain.DateOnly(date)

	// 1. Прошедшие даты недоступны для бронирования
	if IsPastDate(date, uc.timeProvider.Now()) {
		return []domain.BookingInstance{}, nil
	}

	// 2. Получаем активные шаблоны дня недели
	templates, err := uc.templateRepo.ListActiveByDay(ctx, int(date.Weekday()))
	if err != nil {
		uc.logger.Error("ResolveInstances: failed to list templates for day=%d: %v", date.Weekday(), err)
		return nil, fmt.Errorf("%w: failed to list templates: %v", ErrInternal, err)
	}

	// 3. Получаем существующие резервации на дату
	reservations, err := uc.reservationRepo.GetByDate(ctx, date)
	if err != nil {
		uc.logger.Error("ResolveInstances: failed to get reservations for %s: %v", date.Format(domain.DateFormat), err)
		return nil, fmt.Errorf("%w: failed to get reservations: %v", ErrInternal, err)
	}

	// 4. Проецируем шаблоны на дату
	return Resolve(date, templates, reservations), nil
}

// IsPastDate сравнивает календарные даты, без учёта часового пояса
func IsPastDate(date, now time.Time) bool {
	return date.Format(domain.DateFormat) < now.Format(domain.DateFormat)
}
