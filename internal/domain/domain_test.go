package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ConsultationService/pkg/types"
)

// 2025-10-13 is a Monday
var monday = time.Date(2025, 10, 13, 0, 0, 0, 0, time.UTC)

func template(id int64, day time.Weekday, start, end string, price int64) *AvailabilityTemplate {
	return &AvailabilityTemplate{
		ID:           id,
		DayOfWeek:    int(day),
		StartTime:    types.TimeString(start),
		EndTime:      types.TimeString(end),
		PricePerHour: decimal.NewFromInt(price),
		IsActive:     true,
	}
}

func TestAvailabilityTemplate_Validate(t *testing.T) {
	tests := []struct {
		name    string
		tmpl    *AvailabilityTemplate
		wantErr error
	}{
		{"valid", template(1, time.Monday, "09:00", "17:00", 100), nil},
		{"zero length", template(1, time.Monday, "09:00", "09:00", 100), ErrInvalidTimeRange},
		{"reversed", template(1, time.Monday, "17:00", "09:00", 100), ErrInvalidTimeRange},
		{"bad day", template(1, time.Weekday(7), "09:00", "10:00", 100), ErrInvalidDayOfWeek},
		{"negative price", template(1, time.Monday, "09:00", "10:00", -1), ErrNonPositivePrice},
		{"free slot", template(1, time.Monday, "09:00", "10:00", 0), ErrNonPositivePrice},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.tmpl.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("malformed time", func(t *testing.T) {
		err := template(1, time.Monday, "9am", "17:00", 100).Validate()
		assert.ErrorIs(t, err, types.ErrInvalidTimeString)
	})
}

func TestNewBookingInstance(t *testing.T) {
	t.Run("full working day", func(t *testing.T) {
		inst := NewBookingInstance(template(1, time.Monday, "09:00", "17:00", 100), monday)

		assert.Equal(t, 480, inst.DurationMinutes)
		assert.Equal(t, "8", inst.DurationHours.String())
		assert.Equal(t, "800.00", inst.Price.StringFixed(2))
	})

	t.Run("fractional hours", func(t *testing.T) {
		inst := NewBookingInstance(template(2, time.Monday, "09:30", "17:00", 100), monday)

		assert.Equal(t, "7.5", inst.DurationHours.String())
		assert.Equal(t, "750.00", inst.Price.StringFixed(2))
	})

	t.Run("price rounds to cents", func(t *testing.T) {
		inst := NewBookingInstance(template(3, time.Monday, "10:00", "10:20", 50), monday)

		assert.Equal(t, "16.67", inst.Price.StringFixed(2))
	})

	t.Run("date is truncated", func(t *testing.T) {
		inst := NewBookingInstance(template(1, time.Monday, "09:00", "10:00", 10), monday.Add(15*time.Hour))

		assert.True(t, inst.Date.Equal(monday))
		assert.Equal(t, SlotKey{Date: "2025-10-13", StartTime: "09:00", EndTime: "10:00"}, inst.Key())
	})
}

func TestSelection(t *testing.T) {
	first := NewBookingInstance(template(1, time.Monday, "09:00", "11:00", 50), monday)
	second := NewBookingInstance(template(2, time.Monday, "13:00", "16:00", 40), monday)

	t.Run("totals two instances", func(t *testing.T) {
		sel := NewSelection(monday)
		require.True(t, sel.Toggle(second))
		require.True(t, sel.Toggle(first))

		assert.Equal(t, 2, sel.Len())
		assert.Equal(t, "5", sel.TotalDuration().String())
		assert.Equal(t, "220.00", sel.TotalPrice().StringFixed(2))

		items := sel.Items()
		assert.Equal(t, int64(1), items[0].TemplateID)
		assert.Equal(t, int64(2), items[1].TemplateID)
	})

	t.Run("cent fractions are rounded once", func(t *testing.T) {
		sel := NewSelection(monday)
		sel.Toggle(NewBookingInstance(template(1, time.Monday, "09:00", "09:20", 1), monday))
		sel.Toggle(NewBookingInstance(template(2, time.Monday, "10:00", "10:20", 1), monday))
		sel.Toggle(NewBookingInstance(template(3, time.Monday, "11:00", "11:20", 1), monday))

		assert.Equal(t, "1.00", sel.TotalPrice().StringFixed(2))
		assert.Equal(t, "1", sel.TotalDuration().String())
	})

	t.Run("toggle removes", func(t *testing.T) {
		sel := NewSelection(monday)
		sel.Toggle(first)
		sel.Toggle(first)

		assert.True(t, sel.IsEmpty())
		assert.True(t, sel.TotalPrice().IsZero())
	})

	t.Run("changing date clears", func(t *testing.T) {
		sel := NewSelection(monday)
		sel.Toggle(first)

		sel.SetDate(monday)
		assert.True(t, sel.Contains(1))

		sel.SetDate(monday.AddDate(0, 0, 7))
		assert.True(t, sel.IsEmpty())
		assert.False(t, sel.Toggle(first))
	})
}

func TestReservationTotals(t *testing.T) {
	r1 := NewReservation(10, NewBookingInstance(template(1, time.Monday, "09:00", "11:00", 50), monday))
	r2 := NewReservation(10, NewBookingInstance(template(2, time.Monday, "13:00", "16:00", 40), monday))

	hours, price := ReservationTotals([]*Reservation{r1, r2})
	assert.Equal(t, "5", hours.String())
	assert.Equal(t, "220.00", price.StringFixed(2))
	assert.Equal(t, int64(1), *r1.TemplateID)
}

func TestStatsFromCounts(t *testing.T) {
	stats := StatsFromCounts(map[WorkflowStatus]int{
		WorkflowPending:   3,
		WorkflowScheduled: 2,
		WorkflowCompleted: 1,
	})

	assert.Equal(t, ConsultationStats{Total: 6, Pending: 3, Scheduled: 2, Completed: 1}, stats)
}

func TestWorkflowStatus_IsValid(t *testing.T) {
	assert.True(t, WorkflowScheduled.IsValid())
	assert.False(t, WorkflowStatus("cancelled").IsValid())
}
