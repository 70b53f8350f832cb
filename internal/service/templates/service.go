package templates

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	templateRepo "github.com/m04kA/SMC-ConsultationService/internal/infra/storage/template"
	"github.com/m04kA/SMC-ConsultationService/internal/service/templates/models"
	"github.com/m04kA/SMC-ConsultationService/pkg/types"
)

// Service сервис для управления шаблонами доступности
type Service struct {
	templateRepo TemplateRepository
	logger       Logger
}

// NewService создает новый экземпляр сервиса шаблонов
func NewService(templateRepo TemplateRepository, logger Logger) *Service {
	return &Service{
		templateRepo: templateRepo,
		logger:       logger,
	}
}

// List возвращает все шаблоны, упорядоченные по дню недели и времени начала
func (s *Service) List(ctx context.Context) (*models.TemplateListResponse, error) {
	s.logger.Info("List: fetching templates")

	items, err := s.templateRepo.List(ctx)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainTemplateList(items), nil
}

// Get получает шаблон по ID
func (s *Service) Get(ctx context.Context, id int64) (*models.TemplateResponse, error) {
	s.logger.Info("Get: fetching template id=%d", id)

	t, err := s.get(ctx, "Get", id)
	if err != nil {
		return nil, err
	}
	return models.FromDomainTemplate(t), nil
}

// Defaults возвращает значения, с которых оператор начинает новый шаблон
func (s *Service) Defaults() *models.TemplateResponse {
	t := domain.DefaultTemplate()
	return models.FromDomainTemplate(&t)
}

// Create создает новый шаблон
// Пересекающиеся диапазоны в один день допускаются
func (s *Service) Create(ctx context.Context, req *models.CreateTemplateRequest) (*models.TemplateResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: empty request", ErrInvalidInput)
	}

	// 1. Собираем шаблон и валидируем
	t := req.ToDomainTemplate()
	if err := normalize(t); err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, err
	}

	s.logger.Info("Create: creating template day=%d, %s-%s", t.DayOfWeek, t.StartTime, t.EndTime)

	// 2. Сохраняем
	created, err := s.templateRepo.Create(ctx, t)
	if err != nil {
		s.logger.Error("Create: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: successfully created template id=%d", created.ID)
	return models.FromDomainTemplate(created), nil
}

// Update частично обновляет шаблон
// Уже созданные резервации не меняются
func (s *Service) Update(ctx context.Context, id int64, req *models.UpdateTemplateRequest) (*models.TemplateResponse, error) {
	s.logger.Info("Update: updating template id=%d", id)

	if req == nil {
		return nil, fmt.Errorf("%w: empty request", ErrInvalidInput)
	}

	// 1. Получаем текущий шаблон
	t, err := s.get(ctx, "Update", id)
	if err != nil {
		return nil, err
	}

	// 2. Применяем изменения и валидируем результат
	req.ApplyTo(t)
	if err := normalize(t); err != nil {
		s.logger.Warn("Update: validation failed for template id=%d: %v", id, err)
		return nil, err
	}

	// 3. Сохраняем
	updated, err := s.templateRepo.Update(ctx, t)
	if err != nil {
		if errors.Is(err, templateRepo.ErrTemplateNotFound) {
			return nil, ErrTemplateNotFound
		}
		s.logger.Error("Update: repository error for template id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Update: successfully updated template id=%d", id)
	return models.FromDomainTemplate(updated), nil
}

// SetActive включает или выключает шаблон
func (s *Service) SetActive(ctx context.Context, id int64, active bool) (*models.TemplateResponse, error) {
	s.logger.Info("SetActive: template id=%d, active=%t", id, active)

	if err := s.templateRepo.SetActive(ctx, id, active); err != nil {
		if errors.Is(err, templateRepo.ErrTemplateNotFound) {
			s.logger.Warn("SetActive: template id=%d not found", id)
			return nil, ErrTemplateNotFound
		}
		s.logger.Error("SetActive: repository error for template id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: SetActive - repository error: %v", ErrInternal, err)
	}

	return s.Get(ctx, id)
}

// Delete удаляет шаблон
func (s *Service) Delete(ctx context.Context, id int64) error {
	s.logger.Info("Delete: deleting template id=%d", id)

	if err := s.templateRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, templateRepo.ErrTemplateNotFound) {
			s.logger.Warn("Delete: template id=%d not found", id)
			return ErrTemplateNotFound
		}
		s.logger.Error("Delete: repository error for template id=%d: %v", id, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Delete: successfully deleted template id=%d", id)
	return nil
}

func (s *Service) get(ctx context.Context, op string, id int64) (*domain.AvailabilityTemplate, error) {
	t, err := s.templateRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, templateRepo.ErrTemplateNotFound) {
			s.logger.Warn("%s: template id=%d not found", op, id)
			return nil, ErrTemplateNotFound
		}
		s.logger.Error("%s: repository error for template id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return t, nil
}

// normalize приводит время к HH:MM и проверяет инварианты шаблона
func normalize(t *domain.AvailabilityTemplate) error {
	start, err := types.NewTimeStringFromString(t.StartTime.String())
	if err != nil {
		return fmt.Errorf("%w: start time: %v", ErrInvalidInput, err)
	}
	end, err := types.NewTimeStringFromString(t.EndTime.String())
	if err != nil {
		return fmt.Errorf("%w: end time: %v", ErrInvalidInput, err)
	}
	t.StartTime, t.EndTime = start, end

	if err := t.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}
