package models

import (
	"time"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	"github.com/m04kA/SMC-ConsultationService/pkg/ptr"
	"github.com/m04kA/SMC-ConsultationService/pkg/types"
)

// Request модели

// ListRequest фильтр списка записей
type ListRequest struct {
	Status *string // nil = все статусы
	Search string  // поиск по "имя фамилия" без учёта регистра
	Limit  uint64
}

// UpdateStatusRequest запрос на смену рабочего статуса
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// Response модели

// StatsResponse количество записей по рабочему статусу
type StatsResponse struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Scheduled int `json:"scheduled"`
	Completed int `json:"completed"`
}

// ConsultationSummary строка списка записей
type ConsultationSummary struct {
	ID            int64     `json:"id"`
	FirstName     string    `json:"firstName"`
	LastName      string    `json:"lastName"`
	Email         string    `json:"email"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"paymentStatus"`
	PaymentAmount string    `json:"paymentAmount,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ConsultationListResponse ответ со списком записей
type ConsultationListResponse struct {
	Consultations []ConsultationSummary `json:"consultations"`
}

// DashboardResponse сводка для главной страницы оператора
type DashboardResponse struct {
	Stats  StatsResponse         `json:"stats"`
	Recent []ConsultationSummary `json:"recent"`
}

// ProfileResponse анкета клиента
type ProfileResponse struct {
	PhoneNumber      string   `json:"phoneNumber"`
	Age              int      `json:"age"`
	Occupation       string   `json:"occupation"`
	Goals            []string `json:"goals"`
	ReadinessScore   int      `json:"readinessScore"`
	SleepHours       string   `json:"sleepHours"`
	StressLevel      string   `json:"stressLevel"`
	Movement         []string `json:"movement"`
	SkinConcerns     []string `json:"skinConcerns"`
	DietDescription  string   `json:"dietDescription"`
	EnergyCrashes    bool     `json:"energyCrashes"`
	TakesSupplements bool     `json:"takesSupplements"`
	HealthIssues     bool     `json:"healthIssues"`
	BiggestChallenge string   `json:"biggestChallenge"`
	SuccessVision    string   `json:"successVision"`
}

// ReservationResponse удерживаемый слот
type ReservationResponse struct {
	ID            int64            `json:"id"`
	TemplateID    *int64           `json:"templateId,omitempty"`
	Date          string           `json:"date"`
	StartTime     types.TimeString `json:"startTime"`
	EndTime       types.TimeString `json:"endTime"`
	DurationHours string           `json:"durationHours"`
	Price         string           `json:"price"`
}

// ConsultationResponse карточка записи с резервациями и итогами
type ConsultationResponse struct {
	ConsultationSummary
	Profile          ProfileResponse       `json:"profile"`
	PaymentReference *string               `json:"paymentReference,omitempty"`
	PaymentOrderID   *string               `json:"paymentOrderId,omitempty"`
	PaymentDate      *time.Time            `json:"paymentDate,omitempty"`
	UpdatedAt        time.Time             `json:"updatedAt"`
	Reservations     []ReservationResponse `json:"reservations"`
	TotalDuration    string                `json:"totalDuration"`
	TotalPrice       string                `json:"totalPrice"`
}

// PaymentEventResponse запись платёжного журнала
type PaymentEventResponse struct {
	ID              int64     `json:"id"`
	EventType       string    `json:"eventType"`
	Provider        string    `json:"provider,omitempty"`
	ProviderEventID *string   `json:"providerEventId,omitempty"`
	Amount          *string   `json:"amount,omitempty"`
	Reference       *string   `json:"reference,omitempty"`
	Details         string    `json:"details,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

// PaymentEventListResponse журнал одной записи
type PaymentEventListResponse struct {
	Events []PaymentEventResponse `json:"events"`
}

// ReleaseResponse результат ручного освобождения слотов
type ReleaseResponse struct {
	ID            int64  `json:"id"`
	Released      int64  `json:"released"`
	PaymentStatus string `json:"paymentStatus"`
}

// Методы конвертации

// FromDomainStats конвертирует статистику
func FromDomainStats(s domain.ConsultationStats) StatsResponse {
	return StatsResponse{
		Total:     s.Total,
		Pending:   s.Pending,
		Scheduled: s.Scheduled,
		Completed: s.Completed,
	}
}

// FromDomainSummary конвертирует запись в строку списка
func FromDomainSummary(r *domain.IntakeRecord) ConsultationSummary {
	return ConsultationSummary{
		ID:            r.ID,
		FirstName:     r.Profile.FirstName,
		LastName:      r.Profile.LastName,
		Email:         r.Profile.Email,
		Status:        string(r.Status),
		PaymentStatus: string(r.PaymentStatus),
		PaymentAmount: r.FormattedAmount(),
		CreatedAt:     r.CreatedAt,
	}
}

// FromDomainSummaryList конвертирует список записей
func FromDomainSummaryList(records []*domain.IntakeRecord) []ConsultationSummary {
	out := make([]ConsultationSummary, 0, len(records))
	for _, r := range records {
		out = append(out, FromDomainSummary(r))
	}
	return out
}

// FromDomainConsultation собирает карточку записи
// Итоги всегда считаются по резервациям
func FromDomainConsultation(r *domain.IntakeRecord, reservations []*domain.Reservation) *ConsultationResponse {
	hours, price := domain.ReservationTotals(reservations)

	resp := &ConsultationResponse{
		ConsultationSummary: FromDomainSummary(r),
		Profile:             fromDomainProfile(r.Profile),
		PaymentReference:    r.PaymentReference,
		PaymentOrderID:      r.PaymentOrderID,
		PaymentDate:         r.PaymentDate,
		UpdatedAt:           r.UpdatedAt,
		Reservations:        make([]ReservationResponse, 0, len(reservations)),
		TotalDuration:       hours.StringFixed(domain.HoursPrecision),
		TotalPrice:          price.StringFixed(domain.CurrencyPrecision),
	}
	for _, res := range reservations {
		resp.Reservations = append(resp.Reservations, ReservationResponse{
			ID:            res.ID,
			TemplateID:    res.TemplateID,
			Date:          res.BookingDate.Format(domain.DateFormat),
			StartTime:     res.StartTime,
			EndTime:       res.EndTime,
			DurationHours: res.DurationHours.StringFixed(domain.HoursPrecision),
			Price:         res.Price.StringFixed(domain.CurrencyPrecision),
		})
	}
	return resp
}

// FromDomainPaymentEvents конвертирует журнал
func FromDomainPaymentEvents(events []*domain.PaymentEvent) *PaymentEventListResponse {
	resp := &PaymentEventListResponse{Events: make([]PaymentEventResponse, 0, len(events))}
	for _, e := range events {
		item := PaymentEventResponse{
			ID:              e.ID,
			EventType:       string(e.EventType),
			Provider:        e.Provider,
			ProviderEventID: e.ProviderEventID,
			Reference:       e.Reference,
			Details:         e.Details,
			CreatedAt:       e.CreatedAt,
		}
		if e.Amount != nil {
			item.Amount = ptr.Ptr(e.Amount.StringFixed(domain.CurrencyPrecision))
		}
		resp.Events = append(resp.Events, item)
	}
	return resp
}

func fromDomainProfile(p domain.ClientProfile) ProfileResponse {
	return ProfileResponse{
		PhoneNumber:      p.PhoneNumber,
		Age:              p.Age,
		Occupation:       p.Occupation,
		Goals:            nonNil(p.Goals),
		ReadinessScore:   p.ReadinessScore,
		SleepHours:       p.SleepHours,
		StressLevel:      p.StressLevel,
		Movement:         nonNil(p.Movement),
		SkinConcerns:     nonNil(p.SkinConcerns),
		DietDescription:  p.DietDescription,
		EnergyCrashes:    p.EnergyCrashes,
		TakesSupplements: p.TakesSupplements,
		HealthIssues:     p.HealthIssues,
		BiggestChallenge: p.BiggestChallenge,
		SuccessVision:    p.SuccessVision,
	}
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
