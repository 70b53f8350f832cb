package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	"github.com/m04kA/SMC-ConsultationService/pkg/types"
)

// Request модели

// CreateTemplateRequest запрос на создание шаблона
// Незаполненные поля берутся из значений по умолчанию консоли оператора
type CreateTemplateRequest struct {
	DayOfWeek    *int              `json:"dayOfWeek,omitempty"` // 0 = воскресенье
	StartTime    *types.TimeString `json:"startTime,omitempty"`
	EndTime      *types.TimeString `json:"endTime,omitempty"`
	PricePerHour *decimal.Decimal  `json:"pricePerHour,omitempty"`
	IsActive     *bool             `json:"isActive,omitempty"`
}

// UpdateTemplateRequest запрос на обновление шаблона
// Все поля опциональны - обновляются только переданные значения
type UpdateTemplateRequest struct {
	DayOfWeek    *int              `json:"dayOfWeek,omitempty"`
	StartTime    *types.TimeString `json:"startTime,omitempty"`
	EndTime      *types.TimeString `json:"endTime,omitempty"`
	PricePerHour *decimal.Decimal  `json:"pricePerHour,omitempty"`
	IsActive     *bool             `json:"isActive,omitempty"`
}

// SetActiveRequest запрос на включение или выключение шаблона
type SetActiveRequest struct {
	IsActive *bool `json:"isActive"`
}

// Response модели

// TemplateResponse ответ с данными шаблона
type TemplateResponse struct {
	ID              int64            `json:"id,omitempty"`
	DayOfWeek       int              `json:"dayOfWeek"`
	DayName         string           `json:"dayName"`
	StartTime       types.TimeString `json:"startTime"`
	EndTime         types.TimeString `json:"endTime"`
	DurationMinutes int              `json:"durationMinutes"`
	PricePerHour    string           `json:"pricePerHour"`
	IsActive        bool             `json:"isActive"`
	CreatedAt       *time.Time       `json:"createdAt,omitempty"`
	UpdatedAt       *time.Time       `json:"updatedAt,omitempty"`
}

// TemplateListResponse ответ со списком шаблонов
type TemplateListResponse struct {
	Templates []TemplateResponse `json:"templates"`
}

// Методы конвертации

// FromDomainTemplate конвертирует domain модель в DTO
func FromDomainTemplate(t *domain.AvailabilityTemplate) *TemplateResponse {
	if t == nil {
		return nil
	}

	resp := &TemplateResponse{
		ID:              t.ID,
		DayOfWeek:       t.DayOfWeek,
		DayName:         t.Weekday().String(),
		StartTime:       t.StartTime,
		EndTime:         t.EndTime,
		DurationMinutes: t.DurationMinutes(),
		PricePerHour:    t.PricePerHour.StringFixed(domain.CurrencyPrecision),
		IsActive:        t.IsActive,
	}
	if !t.CreatedAt.IsZero() {
		createdAt, updatedAt := t.CreatedAt, t.UpdatedAt
		resp.CreatedAt = &createdAt
		resp.UpdatedAt = &updatedAt
	}
	return resp
}

// FromDomainTemplateList конвертирует список domain моделей в DTO
func FromDomainTemplateList(templates []*domain.AvailabilityTemplate) *TemplateListResponse {
	resp := &TemplateListResponse{
		Templates: make([]TemplateResponse, 0, len(templates)),
	}

	for _, t := range templates {
		if item := FromDomainTemplate(t); item != nil {
			resp.Templates = append(resp.Templates, *item)
		}
	}

	return resp
}

// ToDomainTemplate конвертирует CreateTemplateRequest в domain модель
func (r *CreateTemplateRequest) ToDomainTemplate() *domain.AvailabilityTemplate {
	t := domain.DefaultTemplate()
	applyFields(&t, r.DayOfWeek, r.StartTime, r.EndTime, r.PricePerHour, r.IsActive)
	return &t
}

// ApplyTo применяет переданные поля к существующему шаблону
func (r *UpdateTemplateRequest) ApplyTo(t *domain.AvailabilityTemplate) {
	applyFields(t, r.DayOfWeek, r.StartTime, r.EndTime, r.PricePerHour, r.IsActive)
}

func applyFields(
	t *domain.AvailabilityTemplate,
	day *int,
	start, end *types.TimeString,
	price *decimal.Decimal,
	active *bool,
) {
	if day != nil {
		t.DayOfWeek = *day
	}
	if start != nil {
		t.StartTime = *start
	}
	if end != nil {
		t.EndTime = *end
	}
	if price != nil {
		t.PricePerHour = *price
	}
	if active != nil {
		t.IsActive = *active
	}
}
