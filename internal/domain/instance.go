package domain

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-ConsultationService/pkg/types"
)

var minutesPerHour = decimal.NewFromInt(60)

// BookingInstance is a concrete, date-specific occurrence of a template.
// It is computed on demand and never persisted.
type BookingInstance struct {
	TemplateID      int64
	Date            time.Time
	StartTime       types.TimeString
	EndTime         types.TimeString
	DurationMinutes int
	DurationHours   decimal.Decimal
	Price           decimal.Decimal
	PricePerHour    decimal.Decimal
}

// NewBookingInstance projects a template onto date.
// Price is rounded to currency precision.
func NewBookingInstance(t *AvailabilityTemplate, date time.Time) BookingInstance {
	minutes := t.DurationMinutes()
	minutesDec := decimal.NewFromInt(int64(minutes))

	return BookingInstance{
		TemplateID:      t.ID,
		Date:            DateOnly(date),
		StartTime:       t.StartTime,
		EndTime:         t.EndTime,
		DurationMinutes: minutes,
		DurationHours:   minutesDec.Div(minutesPerHour).Round(HoursPrecision),
		Price:           t.PricePerHour.Mul(minutesDec).Div(minutesPerHour).Round(CurrencyPrecision),
		PricePerHour:    t.PricePerHour,
	}
}

// Key returns the slot identity used by the anti-double-booking constraint.
func (i BookingInstance) Key() SlotKey {
	return SlotKey{Date: i.Date.Format(DateFormat), StartTime: i.StartTime, EndTime: i.EndTime}
}

// SlotKey is the (date, start, end) triple that must be unique across reservations.
type SlotKey struct {
	Date      string
	StartTime types.TimeString
	EndTime   types.TimeString
}

// DateOnly truncates t to midnight in its own location.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
