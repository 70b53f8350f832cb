package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-ConsultationService/pkg/types"
)

var (
	// ErrInvalidDayOfWeek is returned when dayOfWeek is outside 0..6.
	ErrInvalidDayOfWeek = errors.New("day of week must be between 0 (Sunday) and 6 (Saturday)")

	// ErrInvalidTimeRange is returned when the end time does not exceed the start time.
	ErrInvalidTimeRange = errors.New("end time must be after start time")

	// ErrNonPositivePrice is returned for a zero or negative price.
	// A free slot could never be handed to the payment processor.
	ErrNonPositivePrice = errors.New("price per hour must be positive")
)

// AvailabilityTemplate is a recurring weekly availability rule.
// DayOfWeek follows time.Weekday: 0 is Sunday.
type AvailabilityTemplate struct {
	ID           int64
	DayOfWeek    int
	StartTime    types.TimeString
	EndTime      types.TimeString
	PricePerHour decimal.Decimal
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Validate enforces the template invariants. Duplicate ranges on the same day are allowed.
func (t *AvailabilityTemplate) Validate() error {
	if t.DayOfWeek < 0 || t.DayOfWeek > 6 {
		return ErrInvalidDayOfWeek
	}
	if err := t.StartTime.Validate(); err != nil {
		return fmt.Errorf("start time: %w", err)
	}
	if err := t.EndTime.Validate(); err != nil {
		return fmt.Errorf("end time: %w", err)
	}
	if !t.StartTime.IsBefore(t.EndTime) {
		return ErrInvalidTimeRange
	}
	if !t.PricePerHour.IsPositive() {
		return ErrNonPositivePrice
	}
	return nil
}

// Weekday returns the template day as time.Weekday.
func (t *AvailabilityTemplate) Weekday() time.Weekday {
	return time.Weekday(t.DayOfWeek)
}

// DurationMinutes returns the length of the template range.
func (t *AvailabilityTemplate) DurationMinutes() int {
	return t.StartTime.MinutesUntil(t.EndTime)
}

// MatchesDate reports whether the template is active and falls on the weekday of date.
func (t *AvailabilityTemplate) MatchesDate(date time.Time) bool {
	return t.IsActive && t.Weekday() == date.Weekday()
}

// DefaultTemplate returns the values an operator starts from when adding a template.
func DefaultTemplate() AvailabilityTemplate {
	return AvailabilityTemplate{
		DayOfWeek:    int(time.Monday),
		StartTime:    DefaultTemplateStart,
		EndTime:      DefaultTemplateEnd,
		PricePerHour: decimal.NewFromInt(DefaultPricePerHour),
		IsActive:     true,
	}
}
