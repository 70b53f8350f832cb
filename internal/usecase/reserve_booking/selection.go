package reserve_booking

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
)

// buildSelection собирает выбор из свободных слотов
// Возвращает ID шаблонов, которых нет среди instances
func buildSelection(date time.Time, templateIDs []int64, instances []domain.BookingInstance) (*domain.Selection, []int64) {
	byTemplate := make(map[int64]domain.BookingInstance, len(instances))
	for _, inst := range instances {
		byTemplate[inst.TemplateID] = inst
	}

	selection := domain.NewSelection(date)
	var missing []int64
	for _, id := range templateIDs {
		inst, ok := byTemplate[id]
		if !ok {
			missing = append(missing, id)
			continue
		}
		if !selection.Contains(id) {
			selection.Toggle(inst)
		}
	}

	return selection, missing
}

func conflictSlot(inst domain.BookingInstance) ConflictSlot {
	return ConflictSlot{TemplateID: inst.TemplateID, StartTime: inst.StartTime, EndTime: inst.EndTime}
}

func missingSlots(ids []int64) []ConflictSlot {
	slots := make([]ConflictSlot, 0, len(ids))
	for _, id := range ids {
		slots = append(slots, ConflictSlot{TemplateID: id})
	}
	return slots
}

func slotLabels(items []domain.BookingInstance) []string {
	labels := make([]string, 0, len(items))
	for _, inst := range items {
		labels = append(labels, fmt.Sprintf("%s-%s", inst.StartTime, inst.EndTime))
	}
	return labels
}
