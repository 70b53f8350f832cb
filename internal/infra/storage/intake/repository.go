package intake

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	"github.com/m04kA/SMC-ConsultationService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ConsultationService/pkg/psqlbuilder"
)

const table = "intakes"

// fullNameExpr выражение для поиска по имени
const fullNameExpr = "first_name || ' ' || last_name"

var columns = []string{
	"id",
	"first_name",
	"last_name",
	"email",
	"phone_number",
	"age",
	"occupation",
	"goals",
	"readiness_score",
	"sleep_hours",
	"stress_level",
	"movement",
	"skin_concerns",
	"diet_description",
	"energy_crashes",
	"takes_supplements",
	"health_issues",
	"biggest_challenge",
	"success_vision",
	"status",
	"payment_status",
	"payment_amount",
	"payment_reference",
	"payment_order_id",
	"payment_date",
	"created_at",
	"updated_at",
}

// Repository репозиторий записей на консультацию
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет запись со статусом оплаты pending и снимком суммы
func (r *Repository) Create(ctx context.Context, rec *domain.IntakeRecord) (*domain.IntakeRecord, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)
	p := rec.Profile

	query, args, err := psqlbuilder.Insert(table).
		Columns(
			"first_name",
			"last_name",
			"email",
			"phone_number",
			"age",
			"occupation",
			"goals",
			"readiness_score",
			"sleep_hours",
			"stress_level",
			"movement",
			"skin_concerns",
			"diet_description",
			"energy_crashes",
			"takes_supplements",
			"health_issues",
			"biggest_challenge",
			"success_vision",
			"status",
			"payment_status",
			"payment_amount",
		).
		Values(
			p.FirstName,
			p.LastName,
			p.Email,
			p.PhoneNumber,
			p.Age,
			p.Occupation,
			pq.Array(nonNil(p.Goals)),
			p.ReadinessScore,
			p.SleepHours,
			p.StressLevel,
			pq.Array(nonNil(p.Movement)),
			pq.Array(nonNil(p.SkinConcerns)),
			p.DietDescription,
			p.EnergyCrashes,
			p.TakesSupplements,
			p.HealthIssues,
			p.BiggestChallenge,
			p.SuccessVision,
			rec.Status,
			rec.PaymentStatus,
			rec.PaymentAmount,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %w", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&rec.ID, &createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	rec.CreatedAt = createdAt.Time
	rec.UpdatedAt = updatedAt.Time
	return rec, nil
}

// GetByID получает запись по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.IntakeRecord, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %w", ErrBuildQuery, err)
	}

	rec, err := scanIntake(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrIntakeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan intake: %w", ErrScanRow, err)
	}
	return rec, nil
}

// MarkPaid переводит оплату в completed и сохраняет ссылку на транзакцию
// Обновление условное: уже оплаченная запись не меняется, тогда возвращается false
func (r *Repository) MarkPaid(ctx context.Context, id int64, reference string, paidAt time.Time) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("payment_status", domain.PaymentCompleted).
		Set("payment_reference", reference).
		Set("payment_date", paidAt).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.NotEq{"payment_status": domain.PaymentCompleted}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: MarkPaid - build update query: %w", ErrBuildQuery, err)
	}

	affected, err := r.exec(ctx, executor, "MarkPaid", query, args)
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// MarkPaymentFailed переводит неоплаченную запись в failed
// Оплаченные записи не затрагиваются
func (r *Repository) MarkPaymentFailed(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("payment_status", domain.PaymentFailed).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.NotEq{"payment_status": domain.PaymentCompleted}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: MarkPaymentFailed - build update query: %w", ErrBuildQuery, err)
	}

	affected, err := r.exec(ctx, executor, "MarkPaymentFailed", query, args)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrIntakeNotFound
	}
	return nil
}

// SetPaymentOrder сохраняет идентификатор заказа платёжной системы
func (r *Repository) SetPaymentOrder(ctx context.Context, id int64, orderID string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("payment_order_id", orderID).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: SetPaymentOrder - build update query: %w", ErrBuildQuery, err)
	}

	affected, err := r.exec(ctx, executor, "SetPaymentOrder", query, args)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrIntakeNotFound
	}
	return nil
}

// UpdateStatus меняет рабочий статус записи (действие оператора)
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.WorkflowStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %w", ErrBuildQuery, err)
	}

	affected, err := r.exec(ctx, executor, "UpdateStatus", query, args)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrIntakeNotFound
	}
	return nil
}

// List возвращает записи по фильтру, новые первыми
func (r *Repository) List(ctx context.Context, filter domain.IntakeFilter) ([]*domain.IntakeRecord, error) {
	builder := psqlbuilder.Select(columns...).From(table)

	if filter.Status != nil {
		builder = builder.Where(squirrel.Eq{"status": *filter.Status})
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		builder = builder.Where(squirrel.ILike{fullNameExpr: "%" + escapeLike(search) + "%"})
	}

	builder = builder.OrderBy("created_at DESC", "id DESC")
	if filter.Limit > 0 {
		builder = builder.Limit(filter.Limit)
	}

	return r.list(ctx, "List", builder)
}

// Recent возвращает limit последних записей по времени создания
func (r *Repository) Recent(ctx context.Context, limit uint64) ([]*domain.IntakeRecord, error) {
	return r.list(ctx, "Recent", psqlbuilder.Select(columns...).
		From(table).
		OrderBy("created_at DESC", "id DESC").
		Limit(limit))
}

// ListPendingPayments возвращает неоплаченные записи с созданным заказом, старше CreatedBefore
func (r *Repository) ListPendingPayments(ctx context.Context, filter domain.PendingPaymentFilter) ([]*domain.IntakeRecord, error) {
	builder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"payment_status": domain.PaymentPending}).
		Where(squirrel.NotEq{"payment_order_id": nil}).
		Where(squirrel.Lt{"created_at": filter.CreatedBefore}).
		OrderBy("created_at ASC")
	if filter.Limit > 0 {
		builder = builder.Limit(filter.Limit)
	}

	return r.list(ctx, "ListPendingPayments", builder)
}

// CountByStatus считает записи по рабочему статусу
func (r *Repository) CountByStatus(ctx context.Context) (map[domain.WorkflowStatus]int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("status", "COUNT(*)").
		From(table).
		GroupBy("status").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CountByStatus - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: CountByStatus - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	counts := make(map[domain.WorkflowStatus]int)
	for rows.Next() {
		var status domain.WorkflowStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("%w: CountByStatus - scan row: %w", ErrScanRow, err)
		}
		counts[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: CountByStatus - rows error: %w", ErrScanRow, err)
	}

	return counts, nil
}

func (r *Repository) list(ctx context.Context, op string, builder squirrel.SelectBuilder) ([]*domain.IntakeRecord, error) {
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

	records := make([]*domain.IntakeRecord, 0)
	for rows.Next() {
		rec, err := scanIntake(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %w", ErrScanRow, op, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %w", ErrScanRow, op, err)
	}

	return records, nil
}

func (r *Repository) exec(ctx context.Context, executor DBExecutor, op, query string, args []interface{}) (int64, error) {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: %s - execute update: %w", ErrExecQuery, op, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: %s - get rows affected: %w", ErrExecQuery, op, err)
	}
	return affected, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanIntake(row rowScanner) (*domain.IntakeRecord, error) {
	var rec domain.IntakeRecord
	p := &rec.Profile

	var (
		amount               decimal.NullDecimal
		reference, orderID   sql.NullString
		paymentDate          sql.NullTime
		createdAt, updatedAt sql.NullTime
	)

	if err := row.Scan(
		&rec.ID,
		&p.FirstName,
		&p.LastName,
		&p.Email,
		&p.PhoneNumber,
		&p.Age,
		&p.Occupation,
		pq.Array(&p.Goals),
		&p.ReadinessScore,
		&p.SleepHours,
		&p.StressLevel,
		pq.Array(&p.Movement),
		pq.Array(&p.SkinConcerns),
		&p.DietDescription,
		&p.EnergyCrashes,
		&p.TakesSupplements,
		&p.HealthIssues,
		&p.BiggestChallenge,
		&p.SuccessVision,
		&rec.Status,
		&rec.PaymentStatus,
		&amount,
		&reference,
		&orderID,
		&paymentDate,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}

	if amount.Valid {
		rec.PaymentAmount = &amount.Decimal
	}
	if reference.Valid {
		rec.PaymentReference = &reference.String
	}
	if orderID.Valid {
		rec.PaymentOrderID = &orderID.String
	}
	if paymentDate.Valid {
		rec.PaymentDate = &paymentDate.Time
	}
	rec.CreatedAt = createdAt.Time
	rec.UpdatedAt = updatedAt.Time

	return &rec, nil
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

// escapeLike экранирует спецсимволы шаблона LIKE
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
