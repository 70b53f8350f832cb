package template

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

func templateRows() *sqlmock.Rows {
	return sqlmock.NewRows(columns)
}

func TestRepository_Create(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Now()

	mock.ExpectQuery("INSERT INTO availability_templates").
		WithArgs(1, "09:00", "17:00", "100", true).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(7, now, now))

	created, err := repo.Create(context.Background(), &domain.AvailabilityTemplate{
		DayOfWeek:    1,
		StartTime:    "09:00",
		EndTime:      "17:00",
		PricePerHour: decimal.NewFromInt(100),
		IsActive:     true,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(7), created.ID)
	assert.Equal(t, now, created.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		repo, mock := newMock(t)
		now := time.Now()

		mock.ExpectQuery("SELECT (.+) FROM availability_templates WHERE id = \\$1").
			WithArgs(int64(3)).
			WillReturnRows(templateRows().AddRow(3, 1, "09:30:00", "17:00:00", "80.50", true, now, now))

		tmpl, err := repo.GetByID(context.Background(), 3)

		require.NoError(t, err)
		assert.Equal(t, "09:30", tmpl.StartTime.String())
		assert.Equal(t, "17:00", tmpl.EndTime.String())
		assert.Equal(t, "80.5", tmpl.PricePerHour.String())
		assert.True(t, tmpl.IsActive)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		repo, mock := newMock(t)

		mock.ExpectQuery("SELECT (.+) FROM availability_templates").
			WithArgs(int64(404)).
			WillReturnRows(templateRows())

		_, err := repo.GetByID(context.Background(), 404)

		assert.ErrorIs(t, err, ErrTemplateNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_ListActiveByDay(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Now()

	mock.ExpectQuery("SELECT (.+) FROM availability_templates WHERE day_of_week = \\$1 AND is_active = \\$2 ORDER BY day_of_week ASC, start_time ASC, id ASC").
		WithArgs(1, true).
		WillReturnRows(templateRows().
			AddRow(1, 1, "09:00", "11:00", "50", true, now, now).
			AddRow(2, 1, "13:00", "16:00", "40", true, now, now))

	templates, err := repo.ListActiveByDay(context.Background(), 1)

	require.NoError(t, err)
	require.Len(t, templates, 2)
	assert.Equal(t, int64(2), templates[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_SetActive(t *testing.T) {
	t.Run("updated", func(t *testing.T) {
		repo, mock := newMock(t)

		mock.ExpectExec("UPDATE availability_templates SET is_active = \\$1, updated_at = NOW\\(\\) WHERE id = \\$2").
			WithArgs(false, int64(5)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.SetActive(context.Background(), 5, false))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing", func(t *testing.T) {
		repo, mock := newMock(t)

		mock.ExpectExec("UPDATE availability_templates").
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.SetActive(context.Background(), 5, true), ErrTemplateNotFound)
	})
}

func TestRepository_Delete(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectExec("DELETE FROM availability_templates WHERE id = \\$1").
		WithArgs(int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), 9))
	assert.NoError(t, mock.ExpectationsWereMet())
}
