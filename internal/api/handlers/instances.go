package handlers

import (
	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	"github.com/m04kA/SMC-ConsultationService/pkg/types"
)

// InstanceResponse свободный слот на дату
type InstanceResponse struct {
	TemplateID      int64            `json:"templateId"`
	Date            string           `json:"date"`
	StartTime       types.TimeString `json:"startTime"`
	EndTime         types.TimeString `json:"endTime"`
	DurationMinutes int              `json:"durationMinutes"`
	DurationHours   string           `json:"durationHours"`
	Price           string           `json:"price"`
}

// FromDomainInstances конвертирует слоты в DTO, пустой список не nil
func FromDomainInstances(items []domain.BookingInstance) []InstanceResponse {
	out := make([]InstanceResponse, 0, len(items))
	for _, inst := range items {
		out = append(out, InstanceResponse{
			TemplateID:      inst.TemplateID,
			Date:            inst.Date.Format(domain.DateFormat),
			StartTime:       inst.StartTime,
			EndTime:         inst.EndTime,
			DurationMinutes: inst.DurationMinutes,
			DurationHours:   inst.DurationHours.StringFixed(domain.HoursPrecision),
			Price:           inst.Price.StringFixed(domain.CurrencyPrecision),
		})
	}
	return out
}
