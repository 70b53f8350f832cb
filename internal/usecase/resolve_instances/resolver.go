package resolve_instances

import (
	"time"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
)

// Resolve проецирует недельные шаблоны на дату и исключает занятые слоты
// Шаблоны другого дня недели и неактивные пропускаются
// Результат отсортирован по времени начала, при равенстве по ID шаблона
func Resolve(date time.Time, templates []*domain.AvailabilityTemplate, reserved []*domain.Reservation) []domain.BookingInstance {
	date = domain.DateOnly(date)

	taken := make(map[domain.SlotKey]struct{}, len(reserved))
	for _, r := range reserved {
		taken[r.Key()] = struct{}{}
	}

	instances := make([]domain.BookingInstance, 0, len(templates))
	for _, t := range templates {
		if !t.MatchesDate(date) || t.DurationMinutes() <= 0 {
			continue
		}

		inst := domain.NewBookingInstance(t, date)
		if _, ok := taken[inst.Key()]; ok {
			continue
		}
		instances = append(instances, inst)
	}

	domain.SortInstances(instances)
	return instances
}
