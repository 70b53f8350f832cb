package payment_event

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	"github.com/m04kA/SMC-ConsultationService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ConsultationService/pkg/psqlbuilder"
)

const table = "payment_events"

var columns = []string{
	"id",
	"intake_id",
	"event_type",
	"provider",
	"provider_event_id",
	"amount",
	"reference",
	"details",
	"created_at",
}

// Repository журнал платёжных событий (только добавление)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория платёжных событий
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Append добавляет событие в журнал
// Повторная запись события провайдера с тем же ProviderEventID возвращает ErrDuplicateEvent
func (r *Repository) Append(ctx context.Context, event *domain.PaymentEvent) (*domain.PaymentEvent, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns("intake_id", "event_type", "provider", "provider_event_id", "amount", "reference", "details").
		Values(event.IntakeID, event.EventType, event.Provider, event.ProviderEventID, event.Amount, event.Reference, event.Details).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Append - build insert query: %w", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&event.ID, &createdAt); err != nil {
		if event.ProviderEventID != nil && isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %s/%s", ErrDuplicateEvent, event.Provider, *event.ProviderEventID)
		}
		return nil, fmt.Errorf("%w: Append - execute insert: %w", ErrExecQuery, err)
	}

	event.CreatedAt = createdAt.Time
	return event, nil
}

// HasProviderEvent проверяет, обработано ли событие провайдера
func (r *Repository) HasProviderEvent(ctx context.Context, provider, providerEventID string) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		From(table).
		Where(squirrel.Eq{"provider": provider, "provider_event_id": providerEventID}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: HasProviderEvent - build select query: %w", ErrBuildQuery, err)
	}

	var one int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: HasProviderEvent - execute query: %w", ErrExecQuery, err)
	}
	return true, nil
}

// ListByIntake возвращает события записи в хронологическом порядке
func (r *Repository) ListByIntake(ctx context.Context, intakeID int64) ([]*domain.PaymentEvent, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"intake_id": intakeID}).
		OrderBy("created_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByIntake - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByIntake - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	events := make([]*domain.PaymentEvent, 0)
	for rows.Next() {
		var (
			event                      domain.PaymentEvent
			intake                     sql.NullInt64
			providerEventID, reference sql.NullString
			amount                     decimal.NullDecimal
			createdAt                  sql.NullTime
		)

		if err := rows.Scan(
			&event.ID,
			&intake,
			&event.EventType,
			&event.Provider,
			&providerEventID,
			&amount,
			&reference,
			&event.Details,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("%w: ListByIntake - scan row: %w", ErrScanRow, err)
		}

		if intake.Valid {
			id := intake.Int64
			event.IntakeID = &id
		}
		if providerEventID.Valid {
			event.ProviderEventID = &providerEventID.String
		}
		if amount.Valid {
			event.Amount = &amount.Decimal
		}
		if reference.Valid {
			event.Reference = &reference.String
		}
		event.CreatedAt = createdAt.Time
		events = append(events, &event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByIntake - rows error: %w", ErrScanRow, err)
	}

	return events, nil
}
