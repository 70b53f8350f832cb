package intake

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
)

func newMock(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(db), mock
}

func intakeRow(rows *sqlmock.Rows, id int64, orderID interface{}, paymentStatus string) *sqlmock.Rows {
	created := time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)
	return rows.AddRow(
		id, "Ann", "Lee", "ann@example.com", "+100", 30, "designer",
		"{Energy,Sleep}", 8, "7-8", "Moderate", "{Walking}", "{}",
		"balanced", false, true, false, "time", "calm",
		"pending", paymentStatus, "800.00", nil, orderID, nil, created, created,
	)
}

func TestRepository_Create(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Now()
	amount := decimal.NewFromInt(800)

	mock.ExpectQuery("INSERT INTO intakes (.+) RETURNING id, created_at, updated_at").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(7, now, now))

	rec, err := repo.Create(context.Background(), &domain.IntakeRecord{
		Profile:       domain.ClientProfile{FirstName: "Ann", LastName: "Lee", Goals: []string{"Energy"}},
		Status:        domain.WorkflowPending,
		PaymentStatus: domain.PaymentPending,
		PaymentAmount: &amount,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(7), rec.ID)
	assert.Equal(t, now, rec.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		repo, mock := newMock(t)

		mock.ExpectQuery("SELECT (.+) FROM intakes WHERE id = \\$1").
			WithArgs(int64(7)).
			WillReturnRows(intakeRow(sqlmock.NewRows(columns), 7, "cs_test_1", "pending"))

		rec, err := repo.GetByID(context.Background(), 7)

		require.NoError(t, err)
		assert.Equal(t, "Ann Lee", rec.Profile.FullName())
		assert.Equal(t, []string{"Energy", "Sleep"}, rec.Profile.Goals)
		assert.Empty(t, rec.Profile.SkinConcerns)
		assert.Equal(t, "800.00", rec.FormattedAmount())
		require.NotNil(t, rec.PaymentOrderID)
		assert.Equal(t, "cs_test_1", *rec.PaymentOrderID)
		assert.Nil(t, rec.PaymentReference)
		assert.Nil(t, rec.PaymentDate)
		assert.True(t, rec.AwaitsPayment())
	})

	t.Run("not found", func(t *testing.T) {
		repo, mock := newMock(t)

		mock.ExpectQuery("SELECT (.+) FROM intakes").
			WillReturnRows(sqlmock.NewRows(columns))

		_, err := repo.GetByID(context.Background(), 99)

		assert.ErrorIs(t, err, ErrIntakeNotFound)
	})
}

func TestRepository_MarkPaid(t *testing.T) {
	paidAt := time.Date(2025, 10, 13, 10, 0, 0, 0, time.UTC)

	t.Run("first capture applies", func(t *testing.T) {
		repo, mock := newMock(t)

		mock.ExpectExec("UPDATE intakes SET (.+) WHERE id = \\$4 AND payment_status <> \\$5").
			WithArgs(domain.PaymentCompleted, "pi_123", paidAt, int64(7), domain.PaymentCompleted).
			WillReturnResult(sqlmock.NewResult(0, 1))

		applied, err := repo.MarkPaid(context.Background(), 7, "pi_123", paidAt)

		require.NoError(t, err)
		assert.True(t, applied)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("already completed is not applied", func(t *testing.T) {
		repo, mock := newMock(t)

		mock.ExpectExec("UPDATE intakes").
			WillReturnResult(sqlmock.NewResult(0, 0))

		applied, err := repo.MarkPaid(context.Background(), 7, "pi_123", paidAt)

		require.NoError(t, err)
		assert.False(t, applied)
	})

	t.Run("exec error", func(t *testing.T) {
		repo, mock := newMock(t)

		mock.ExpectExec("UPDATE intakes").WillReturnError(assert.AnError)

		_, err := repo.MarkPaid(context.Background(), 7, "pi_123", paidAt)

		assert.ErrorIs(t, err, ErrExecQuery)
	})
}

func TestRepository_UpdateStatus(t *testing.T) {
	t.Run("updated", func(t *testing.T) {
		repo, mock := newMock(t)

		mock.ExpectExec("UPDATE intakes SET status = \\$1, updated_at = NOW\\(\\) WHERE id = \\$2").
			WithArgs(domain.WorkflowScheduled, int64(7)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.UpdateStatus(context.Background(), 7, domain.WorkflowScheduled))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing record", func(t *testing.T) {
		repo, mock := newMock(t)

		mock.ExpectExec("UPDATE intakes").WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdateStatus(context.Background(), 7, domain.WorkflowScheduled)

		assert.ErrorIs(t, err, ErrIntakeNotFound)
	})
}

func TestRepository_List(t *testing.T) {
	repo, mock := newMock(t)
	status := domain.WorkflowPending

	mock.ExpectQuery("SELECT (.+) FROM intakes WHERE status = \\$1 AND first_name \\|\\| ' ' \\|\\| last_name ILIKE \\$2 ORDER BY created_at DESC, id DESC LIMIT 20").
		WithArgs(domain.WorkflowPending, `%ann\_l%`).
		WillReturnRows(intakeRow(sqlmock.NewRows(columns), 7, nil, "pending"))

	records, err := repo.List(context.Background(), domain.IntakeFilter{
		Status: &status,
		Search: " ann_l ",
		Limit:  20,
	})

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Nil(t, records[0].PaymentOrderID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_CountByStatus(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery("SELECT status, COUNT\\(\\*\\) FROM intakes GROUP BY status").
		WillReturnRows(sqlmock.NewRows([]string{"status", "count"}).
			AddRow("pending", 3).
			AddRow("completed", 1))

	counts, err := repo.CountByStatus(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 3, counts[domain.WorkflowPending])
	assert.Equal(t, 1, counts[domain.WorkflowCompleted])
	assert.Zero(t, counts[domain.WorkflowScheduled])
}

func TestRepository_ListPendingPayments(t *testing.T) {
	repo, mock := newMock(t)
	before := time.Date(2025, 10, 13, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT (.+) FROM intakes WHERE payment_status = \\$1 AND payment_order_id IS NOT NULL AND created_at < \\$2 ORDER BY created_at ASC LIMIT 50").
		WithArgs(domain.PaymentPending, before).
		WillReturnRows(intakeRow(sqlmock.NewRows(columns), 7, "cs_test_1", "pending"))

	records, err := repo.ListPendingPayments(context.Background(), domain.PendingPaymentFilter{
		CreatedBefore: before,
		Limit:         50,
	})

	require.NoError(t, err)
	assert.Len(t, records, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}
