package consultations

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	intakeRepo "github.com/m04kA/SMC-ConsultationService/internal/infra/storage/intake"
	"github.com/m04kA/SMC-ConsultationService/internal/service/consultations/models"
	"github.com/m04kA/SMC-ConsultationService/pkg/ptr"
)

// Service сервис операторских представлений записей на консультацию
type Service struct {
	intakeRepo      IntakeRepository
	reservationRepo ReservationRepository
	eventRepo       PaymentEventRepository
	txManager       TransactionManager
	logger          Logger
}

// NewService создает новый экземпляр сервиса
func NewService(
	intakeRepo IntakeRepository,
	reservationRepo ReservationRepository,
	eventRepo PaymentEventRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		intakeRepo:      intakeRepo,
		reservationRepo: reservationRepo,
		eventRepo:       eventRepo,
		txManager:       txManager,
		logger:          logger,
	}
}

// Stats возвращает количество записей по рабочему статусу
func (s *Service) Stats(ctx context.Context) (*models.StatsResponse, error) {
	s.logger.Info("Stats: counting consultations")

	counts, err := s.intakeRepo.CountByStatus(ctx)
	if err != nil {
		s.logger.Error("Stats: repository error: %v", err)
		return nil, fmt.Errorf("%w: Stats - repository error: %v", ErrInternal, err)
	}

	stats := models.FromDomainStats(domain.StatsFromCounts(counts))
	return &stats, nil
}

// Recent возвращает последние записи, по умолчанию пять
func (s *Service) Recent(ctx context.Context, limit uint64) ([]models.ConsultationSummary, error) {
	if limit == 0 {
		limit = domain.DefaultRecentLimit
	}
	if limit > domain.MaxListLimit {
		limit = domain.MaxListLimit
	}

	s.logger.Info("Recent: fetching %d consultations", limit)

	records, err := s.intakeRepo.Recent(ctx, limit)
	if err != nil {
		s.logger.Error("Recent: repository error: %v", err)
		return nil, fmt.Errorf("%w: Recent - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainSummaryList(records), nil
}

// Dashboard возвращает статистику и последние записи
func (s *Service) Dashboard(ctx context.Context) (*models.DashboardResponse, error) {
	stats, err := s.Stats(ctx)
	if err != nil {
		return nil, err
	}

	recent, err := s.Recent(ctx, domain.DefaultRecentLimit)
	if err != nil {
		return nil, err
	}

	return &models.DashboardResponse{Stats: *stats, Recent: recent}, nil
}

// List возвращает записи по фильтру, новые первыми
func (s *Service) List(ctx context.Context, req *models.ListRequest) (*models.ConsultationListResponse, error) {
	filter := domain.IntakeFilter{Limit: domain.MaxListLimit}
	if req != nil {
		filter.Search = strings.TrimSpace(req.Search)
		if req.Limit > 0 && req.Limit < domain.MaxListLimit {
			filter.Limit = req.Limit
		}
		if req.Status != nil && *req.Status != "" {
			status := domain.WorkflowStatus(*req.Status)
			if !status.IsValid() {
				s.logger.Warn("List: invalid status filter %q", *req.Status)
				return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, *req.Status)
			}
			filter.Status = &status
		}
	}

	s.logger.Info("List: status=%v, search=%q", ptr.Deref(filter.Status), filter.Search)

	records, err := s.intakeRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	return &models.ConsultationListResponse{Consultations: models.FromDomainSummaryList(records)}, nil
}

// Get возвращает запись с резервациями и итогами по ним
func (s *Service) Get(ctx context.Context, id int64) (*models.ConsultationResponse, error) {
	s.logger.Info("Get: fetching consultation id=%d", id)

	record, err := s.getIntake(ctx, "Get", id)
	if err != nil {
		return nil, err
	}

	reservations, err := s.reservationRepo.GetByIntakeID(ctx, id)
	if err != nil {
		s.logger.Error("Get: failed to get reservations for id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Get - reservations: %v", ErrInternal, err)
	}

	return models.FromDomainConsultation(record, reservations), nil
}

// UpdateStatus меняет рабочий статус записи
// Статус оплаты не затрагивается
func (s *Service) UpdateStatus(ctx context.Context, id int64, req *models.UpdateStatusRequest) (*models.ConsultationResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: empty request", ErrInvalidInput)
	}

	s.logger.Info("UpdateStatus: consultation id=%d, status=%s", id, req.Status)

	status := domain.WorkflowStatus(req.Status)
	if !status.IsValid() {
		s.logger.Warn("UpdateStatus: invalid status %q", req.Status)
		return nil, fmt.Errorf("%w: status must be pending, scheduled or completed", ErrInvalidInput)
	}

	if err := s.intakeRepo.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, intakeRepo.ErrIntakeNotFound) {
			s.logger.Warn("UpdateStatus: consultation id=%d not found", id)
			return nil, ErrConsultationNotFound
		}
		s.logger.Error("UpdateStatus: repository error for id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	return s.Get(ctx, id)
}

// PaymentEvents возвращает платёжный журнал записи
func (s *Service) PaymentEvents(ctx context.Context, id int64) (*models.PaymentEventListResponse, error) {
	s.logger.Info("PaymentEvents: consultation id=%d", id)

	if _, err := s.getIntake(ctx, "PaymentEvents", id); err != nil {
		return nil, err
	}

	events, err := s.eventRepo.ListByIntake(ctx, id)
	if err != nil {
		s.logger.Error("PaymentEvents: repository error for id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: PaymentEvents - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainPaymentEvents(events), nil
}

// ReleaseReservations вручную освобождает слоты неоплаченной записи
// Оплата переводится в failed, событие пишется в журнал в той же транзакции
func (s *Service) ReleaseReservations(ctx context.Context, id int64) (*models.ReleaseResponse, error) {
	s.logger.Info("ReleaseReservations: consultation id=%d", id)

	// 1. Оплаченную запись не трогаем
	record, err := s.getIntake(ctx, "ReleaseReservations", id)
	if err != nil {
		return nil, err
	}
	if record.IsPaid() {
		s.logger.Warn("ReleaseReservations: consultation id=%d already paid", id)
		return nil, ErrAlreadyPaid
	}

	// 2. Удаляем резервации и отмечаем оплату в одной транзакции
	var released int64
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		// 2.1. Условное обновление: параллельная оплата откатит удаление
		if err := s.intakeRepo.MarkPaymentFailed(txCtx, id); err != nil {
			if errors.Is(err, intakeRepo.ErrIntakeNotFound) {
				return ErrAlreadyPaid
			}
			return err
		}

		n, err := s.reservationRepo.DeleteByIntakeID(txCtx, id)
		if err != nil {
			return err
		}
		released = n

		_, err = s.eventRepo.Append(txCtx, &domain.PaymentEvent{
			IntakeID:  ptr.Ptr(id),
			EventType: domain.EventReservationsReleased,
			Amount:    record.PaymentAmount,
			Reference: record.PaymentOrderID,
			Details:   fmt.Sprintf("operator released %d reservations", n),
		})
		return err
	})
	if err != nil {
		if errors.Is(err, ErrAlreadyPaid) {
			s.logger.Warn("ReleaseReservations: consultation id=%d was paid concurrently", id)
			return nil, ErrAlreadyPaid
		}
		s.logger.Error("ReleaseReservations: failed for id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: ReleaseReservations - transaction: %v", ErrInternal, err)
	}

	s.logger.Info("ReleaseReservations: consultation id=%d released %d reservations", id, released)
	return &models.ReleaseResponse{
		ID:            id,
		Released:      released,
		PaymentStatus: string(domain.PaymentFailed),
	}, nil
}

func (s *Service) getIntake(ctx context.Context, op string, id int64) (*domain.IntakeRecord, error) {
	record, err := s.intakeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, intakeRepo.ErrIntakeNotFound) {
			s.logger.Warn("%s: consultation id=%d not found", op, id)
			return nil, ErrConsultationNotFound
		}
		s.logger.Error("%s: repository error for id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return record, nil
}
