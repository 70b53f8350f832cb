package domain

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-ConsultationService/pkg/types"
)

// Reservation is a persisted claim on one instance, owned by one intake record.
// Reservations are immutable once written.
type Reservation struct {
	ID            int64
	IntakeID      int64
	TemplateID    *int64
	BookingDate   time.Time
	StartTime     types.TimeString
	EndTime       types.TimeString
	DurationHours decimal.Decimal
	Price         decimal.Decimal
	CreatedAt     time.Time
}

// NewReservation builds the reservation row for an instance.
func NewReservation(intakeID int64, inst BookingInstance) *Reservation {
	templateID := inst.TemplateID
	return &Reservation{
		IntakeID:      intakeID,
		TemplateID:    &templateID,
		BookingDate:   inst.Date,
		StartTime:     inst.StartTime,
		EndTime:       inst.EndTime,
		DurationHours: inst.DurationHours,
		Price:         inst.Price,
	}
}

// Key returns the slot identity of the reservation.
func (r *Reservation) Key() SlotKey {
	return SlotKey{Date: r.BookingDate.Format(DateFormat), StartTime: r.StartTime, EndTime: r.EndTime}
}

// ReservationTotals sums duration and price over reservations.
// Hours come from the stored time ranges. Price is the sum of the stored per-slot prices.
func ReservationTotals(reservations []*Reservation) (hours decimal.Decimal, price decimal.Decimal) {
	minutes := decimal.Zero
	price = decimal.Zero
	for _, r := range reservations {
		minutes = minutes.Add(decimal.NewFromInt(int64(r.StartTime.MinutesUntil(r.EndTime))))
		price = price.Add(r.Price)
	}
	return minutes.Div(minutesPerHour).Round(HoursPrecision), price
}
