package quote_selection

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
)

// UseCase use case для расчёта стоимости выбранных слотов
type UseCase struct {
	resolver InstanceResolver
	logger   Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(resolver InstanceResolver, logger Logger) *UseCase {
	return &UseCase{
		resolver: resolver,
		logger:   logger,
	}
}

// Execute выполняет use case расчёта выбора
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if req == nil || req.Date.IsZero() {
		uc.logger.Warn("QuoteSelection: date is required")
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	uc.logger.Info("QuoteSelection: date=%s, templates=%v", req.Date.Format(domain.DateFormat), req.TemplateIDs)

	// 2. Получаем свободные слоты на дату
	instances, err := uc.resolver.Instances(ctx, req.Date)
	if err != nil {
		uc.logger.Error("QuoteSelection: failed to resolve instances: %v", err)
		return nil, fmt.Errorf("%w: failed to resolve instances: %v", ErrInternal, err)
	}

	// 3. Собираем выбор, повторный ID снимает слот
	selection, unavailable := Build(req.Date, req.TemplateIDs, instances)

	return &Response{
		Date:          selection.Date(),
		Items:         selection.Items(),
		Unavailable:   unavailable,
		TotalDuration: selection.TotalDuration(),
		TotalPrice:    selection.TotalPrice(),
	}, nil
}

// Build переключает запрошенные шаблоны в новом выборе на дату
// Возвращает выбор и ID шаблонов, которых нет среди instances
func Build(date time.Time, templateIDs []int64, instances []domain.BookingInstance) (*domain.Selection, []int64) {
	byTemplate := make(map[int64]domain.BookingInstance, len(instances))
	for _, inst := range instances {
		byTemplate[inst.TemplateID] = inst
	}

	selection := domain.NewSelection(date)
	unavailable := make([]int64, 0)
	for _, id := range templateIDs {
		inst, ok := byTemplate[id]
		if !ok {
			unavailable = append(unavailable, id)
			continue
		}
		selection.Toggle(inst)
	}

	return selection, unavailable
}
