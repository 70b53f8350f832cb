package domain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Selection accumulates chosen instances for one calendar date, keyed by template id.
// Totals are derived on every call.
type Selection struct {
	date  time.Time
	items map[int64]BookingInstance
}

// NewSelection creates an empty selection for date.
func NewSelection(date time.Time) *Selection {
	return &Selection{date: DateOnly(date), items: make(map[int64]BookingInstance)}
}

// Date returns the target date.
func (s *Selection) Date() time.Time {
	return s.date
}

// SetDate changes the target date. A different date clears the selection.
func (s *Selection) SetDate(date time.Time) {
	date = DateOnly(date)
	if date.Equal(s.date) {
		return
	}
	s.date = date
	s.items = make(map[int64]BookingInstance)
}

// Toggle adds the instance if it is absent and removes it otherwise.
// Instances for another date are ignored and false is returned.
func (s *Selection) Toggle(inst BookingInstance) bool {
	if !DateOnly(inst.Date).Equal(s.date) {
		return false
	}
	if _, ok := s.items[inst.TemplateID]; ok {
		delete(s.items, inst.TemplateID)
		return true
	}
	s.items[inst.TemplateID] = inst
	return true
}

// Contains reports whether the template is selected.
func (s *Selection) Contains(templateID int64) bool {
	_, ok := s.items[templateID]
	return ok
}

// Len returns the number of selected instances.
func (s *Selection) Len() int {
	return len(s.items)
}

// IsEmpty reports whether nothing is selected.
func (s *Selection) IsEmpty() bool {
	return len(s.items) == 0
}

// Items returns the selected instances ordered by start time.
func (s *Selection) Items() []BookingInstance {
	items := make([]BookingInstance, 0, len(s.items))
	for _, inst := range s.items {
		items = append(items, inst)
	}
	SortInstances(items)
	return items
}

// TotalDuration returns the selected time in hours, rounded once to HoursPrecision.
func (s *Selection) TotalDuration() decimal.Decimal {
	minutes := decimal.Zero
	for _, inst := range s.items {
		minutes = minutes.Add(decimal.NewFromInt(int64(inst.DurationMinutes)))
	}
	return minutes.Div(minutesPerHour).Round(HoursPrecision)
}

// TotalPrice returns the sum of pricePerHour x duration over the selection.
// The exact sum is rounded once, so per-slot cent rounding never accumulates.
func (s *Selection) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, inst := range s.items {
		total = total.Add(inst.PricePerHour.Mul(decimal.NewFromInt(int64(inst.DurationMinutes))))
	}
	return total.Div(minutesPerHour).Round(CurrencyPrecision)
}

// SortInstances orders instances by start time, then end time, then template id.
func SortInstances(items []BookingInstance) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.StartTime != b.StartTime {
			return a.StartTime.IsBefore(b.StartTime)
		}
		if a.EndTime != b.EndTime {
			return a.EndTime.IsBefore(b.EndTime)
		}
		return a.TemplateID < b.TemplateID
	})
}
