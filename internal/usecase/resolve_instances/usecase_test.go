package resolve_instances

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	"github.com/m04kA/SMC-ConsultationService/pkg/logger"
	"github.com/m04kA/SMC-ConsultationService/pkg/types"
)

var monday = time.Date(2025, 10, 13, 0, 0, 0, 0, time.UTC)

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type fakeTemplates struct {
	items   []*domain.AvailabilityTemplate
	gotDay  int
	listErr error
}

func (f *fakeTemplates) ListActiveByDay(_ context.Context, day int) ([]*domain.AvailabilityTemplate, error) {
	f.gotDay = day
	if f.listErr != nil {
		return nil, f.listErr
	}
	// Репозиторий фильтрует по дню и активности, Resolve повторяет фильтр сам
	return f.items, nil
}

type fakeReservations struct {
	items []*domain.Reservation
}

func (f *fakeReservations) GetByDate(_ context.Context, _ time.Time) ([]*domain.Reservation, error) {
	return f.items, nil
}

func tpl(id int64, day time.Weekday, start, end types.TimeString, price int64, active bool) *domain.AvailabilityTemplate {
	return &domain.AvailabilityTemplate{
		ID:           id,
		DayOfWeek:    int(day),
		StartTime:    start,
		EndTime:      end,
		PricePerHour: decimal.NewFromInt(price),
		IsActive:     active,
	}
}

func TestResolve(t *testing.T) {
	t.Run("scenario A: full Monday template", func(t *testing.T) {
		instances := Resolve(monday, []*domain.AvailabilityTemplate{
			tpl(1, time.Monday, "09:00", "17:00", 100, true),
		}, nil)

		require.Len(t, instances, 1)
		assert.Equal(t, int64(1), instances[0].TemplateID)
		assert.Equal(t, "8", instances[0].DurationHours.String())
		assert.Equal(t, "800", instances[0].Price.String())
		assert.True(t, instances[0].Date.Equal(monday))
	})

	t.Run("filters weekday and active flag", func(t *testing.T) {
		instances := Resolve(monday, []*domain.AvailabilityTemplate{
			tpl(1, time.Monday, "09:00", "10:00", 100, false),
			tpl(2, time.Tuesday, "09:00", "10:00", 100, true),
			tpl(3, time.Sunday, "09:00", "10:00", 100, true),
			tpl(4, time.Monday, "11:00", "12:00", 100, true),
		}, nil)

		require.Len(t, instances, 1)
		assert.Equal(t, int64(4), instances[0].TemplateID)
	})

	t.Run("excludes reserved slots", func(t *testing.T) {
		reserved := []*domain.Reservation{
			{BookingDate: monday, StartTime: "09:00", EndTime: "11:00"},
			// Совпадает только начало, слот остаётся свободным
			{BookingDate: monday, StartTime: "13:00", EndTime: "14:00"},
		}

		instances := Resolve(monday, []*domain.AvailabilityTemplate{
			tpl(1, time.Monday, "09:00", "11:00", 50, true),
			tpl(2, time.Monday, "13:00", "16:00", 40, true),
		}, reserved)

		require.Len(t, instances, 1)
		assert.Equal(t, int64(2), instances[0].TemplateID)
		assert.Equal(t, "120", instances[0].Price.String())
	})

	t.Run("orders by start time then template id", func(t *testing.T) {
		instances := Resolve(monday, []*domain.AvailabilityTemplate{
			tpl(5, time.Monday, "14:00", "15:00", 100, true),
			tpl(3, time.Monday, "09:00", "10:00", 100, true),
			tpl(2, time.Monday, "09:00", "10:00", 100, true),
		}, nil)

		require.Len(t, instances, 3)
		assert.Equal(t, []int64{2, 3, 5}, []int64{
			instances[0].TemplateID, instances[1].TemplateID, instances[2].TemplateID,
		})
	})

	t.Run("no templates yields empty list", func(t *testing.T) {
		instances := Resolve(monday, nil, nil)

		assert.NotNil(t, instances)
		assert.Empty(t, instances)
	})

	t.Run("fractional price rounds to cents", func(t *testing.T) {
		instances := Resolve(monday, []*domain.AvailabilityTemplate{
			tpl(1, time.Monday, "09:00", "09:10", 100, true),
		}, nil)

		require.Len(t, instances, 1)
		assert.Equal(t, "16.67", instances[0].Price.String())
		assert.Equal(t, "0.17", instances[0].DurationHours.String())
	})
}

func TestUseCase_Execute(t *testing.T) {
	newUseCase := func(templates *fakeTemplates, reservations *fakeReservations) *UseCase {
		return NewUseCase(templates, reservations, logger.NewNop()).
			WithTimeProvider(fixedTime{now: time.Date(2025, 10, 1, 15, 0, 0, 0, time.UTC)})
	}

	t.Run("resolves requested date", func(t *testing.T) {
		templates := &fakeTemplates{items: []*domain.AvailabilityTemplate{
			tpl(1, time.Monday, "09:00", "17:00", 100, true),
		}}
		uc := newUseCase(templates, &fakeReservations{})

		resp, err := uc.Execute(context.Background(), &Request{Date: monday})

		require.NoError(t, err)
		assert.Equal(t, int(time.Monday), templates.gotDay)
		assert.Len(t, resp.Instances, 1)
	})

	t.Run("past date yields empty list", func(t *testing.T) {
		templates := &fakeTemplates{items: []*domain.AvailabilityTemplate{
			tpl(1, time.Monday, "09:00", "17:00", 100, true),
		}}
		uc := newUseCase(templates, &fakeReservations{})

		resp, err := uc.Execute(context.Background(), &Request{Date: time.Date(2025, 9, 29, 0, 0, 0, 0, time.UTC)})

		require.NoError(t, err)
		assert.Empty(t, resp.Instances)
	})

	t.Run("missing date", func(t *testing.T) {
		uc := newUseCase(&fakeTemplates{}, &fakeReservations{})

		_, err := uc.Execute(context.Background(), &Request{})

		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("repository failure", func(t *testing.T) {
		uc := newUseCase(&fakeTemplates{listErr: assert.AnError}, &fakeReservations{})

		_, err := uc.Execute(context.Background(), &Request{Date: monday})

		assert.ErrorIs(t, err, ErrInternal)
	})
}
