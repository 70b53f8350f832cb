package reservation

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	"github.com/m04kA/SMC-ConsultationService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ConsultationService/pkg/psqlbuilder"
)

const table = "reservations"

var columns = []string{
	"id",
	"intake_id",
	"template_id",
	"booking_date",
	"start_time",
	"end_time",
	"duration_hours",
	"price",
	"created_at",
}

// Repository репозиторий резерваций слотов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория резерваций
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет резервацию
// Нарушение уникальности (booking_date, start_time, end_time) возвращается как ErrSlotTaken
func (r *Repository) Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns("intake_id", "template_id", "booking_date", "start_time", "end_time", "duration_hours", "price").
		Values(res.IntakeID, res.TemplateID, res.BookingDate, res.StartTime, res.EndTime, res.DurationHours, res.Price).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %w", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&res.ID, &createdAt); err != nil {
		if isSlotViolation(err) {
			return nil, fmt.Errorf("%w: %s %s-%s", ErrSlotTaken,
				res.BookingDate.Format(domain.DateFormat), res.StartTime, res.EndTime)
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	res.CreatedAt = createdAt.Time
	return res, nil
}

// GetByDate возвращает все резервации на дату
// Внутри транзакции строки блокируются (FOR UPDATE) до завершения записи пакета
func (r *Repository) GetByDate(ctx context.Context, date time.Time) ([]*domain.Reservation, error) {
	builder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"booking_date": domain.DateOnly(date)}).
		OrderBy("start_time ASC", "end_time ASC")

	if dbmetrics.IsInTransaction(ctx) {
		builder = builder.Suffix("FOR UPDATE")
	}

	return r.list(ctx, "GetByDate", builder)
}

// GetByIntakeID возвращает резервации записи, упорядоченные по дате и времени
func (r *Repository) GetByIntakeID(ctx context.Context, intakeID int64) ([]*domain.Reservation, error) {
	return r.list(ctx, "GetByIntakeID", psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"intake_id": intakeID}).
		OrderBy("booking_date ASC", "start_time ASC"))
}

// DeleteByIntakeID освобождает все слоты записи, возвращает количество удалённых строк
func (r *Repository) DeleteByIntakeID(ctx context.Context, intakeID int64) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(table).
		Where(squirrel.Eq{"intake_id": intakeID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteByIntakeID - build delete query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteByIntakeID - execute delete: %w", ErrExecQuery, err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteByIntakeID - get rows affected: %w", ErrExecQuery, err)
	}
	return deleted, nil
}

func (r *Repository) list(ctx context.Context, op string, builder squirrel.SelectBuilder) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %w", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %w", ErrExecQuery, op, err)
	}
	defer rows.Close()

	reservations := make([]*domain.Reservation, 0)
	for rows.Next() {
		var res domain.Reservation
		var templateID sql.NullInt64
		var createdAt sql.NullTime

		if err := rows.Scan(
			&res.ID,
			&res.IntakeID,
			&templateID,
			&res.BookingDate,
			&res.StartTime,
			&res.EndTime,
			&res.DurationHours,
			&res.Price,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %w", ErrScanRow, op, err)
		}

		if templateID.Valid {
			id := templateID.Int64
			res.TemplateID = &id
		}
		res.CreatedAt = createdAt.Time
		reservations = append(reservations, &res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %w", ErrScanRow, op, err)
	}

	return reservations, nil
}
