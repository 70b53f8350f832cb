package reserve_booking

import (
	"time"

	"github.com/m04kA/SMC-ConsultationService/internal/api/handlers"
	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	reserveBooking "github.com/m04kA/SMC-ConsultationService/internal/usecase/reserve_booking"
	"github.com/m04kA/SMC-ConsultationService/pkg/types"
)

// ReserveRequest HTTP request model
type ReserveRequest struct {
	Date        string         `json:"date"` // "2025-10-13"
	TemplateIDs []int64        `json:"templateIds"`
	Profile     ProfileRequest `json:"profile"`
}

// ProfileRequest анкета клиента
type ProfileRequest struct {
	FirstName        string   `json:"firstName"`
	LastName         string   `json:"lastName"`
	Email            string   `json:"email"`
	PhoneNumber      string   `json:"phoneNumber"`
	Age              int      `json:"age"`
	Occupation       string   `json:"occupation"`
	Goals            []string `json:"goals"`
	ReadinessScore   int      `json:"readinessScore"`
	SleepHours       string   `json:"sleepHours"`
	StressLevel      string   `json:"stressLevel"`
	Movement         []string `json:"movement,omitempty"`
	SkinConcerns     []string `json:"skinConcerns,omitempty"`
	DietDescription  string   `json:"dietDescription,omitempty"`
	EnergyCrashes    bool     `json:"energyCrashes"`
	TakesSupplements bool     `json:"takesSupplements"`
	HealthIssues     bool     `json:"healthIssues"`
	BiggestChallenge string   `json:"biggestChallenge,omitempty"`
	SuccessVision    string   `json:"successVision,omitempty"`
}

// CheckoutResponse данные для перехода к оплате
type CheckoutResponse struct {
	OrderID string `json:"orderId"`
	URL     string `json:"url"`
}

// ReservedResponse HTTP response model для 201
type ReservedResponse struct {
	Outcome       string                      `json:"outcome"`
	IntakeID      int64                       `json:"intakeId"`
	Date          string                      `json:"date"`
	Items         []handlers.InstanceResponse `json:"items"`
	TotalDuration string                      `json:"totalDuration"`
	TotalPrice    string                      `json:"totalPrice"`
	PaymentStatus string                      `json:"paymentStatus"`
	Checkout      *CheckoutResponse           `json:"checkout,omitempty"`
	Retryable     bool                        `json:"retryable"`
}

// ConflictSlotResponse занятый слот
type ConflictSlotResponse struct {
	TemplateID int64            `json:"templateId"`
	StartTime  types.TimeString `json:"startTime,omitempty"`
	EndTime    types.TimeString `json:"endTime,omitempty"`
}

// ConflictResponse HTTP response model для 409
type ConflictResponse struct {
	Outcome   string                      `json:"outcome"`
	IntakeID  *int64                      `json:"intakeId,omitempty"`
	Date      string                      `json:"date"`
	Conflicts []ConflictSlotResponse      `json:"conflicts"`
	Available []handlers.InstanceResponse `json:"available"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
// Пустая дата передаётся как нулевое время и отклоняется валидацией use case
func (r *ReserveRequest) ToUseCaseRequest() (*reserveBooking.Request, error) {
	var date time.Time
	if r.Date != "" {
		parsed, err := time.Parse(domain.DateFormat, r.Date)
		if err != nil {
			return nil, err
		}
		date = parsed
	}

	p := r.Profile
	return &reserveBooking.Request{
		Date:        date,
		TemplateIDs: r.TemplateIDs,
		Profile: domain.ClientProfile{
			FirstName:        p.FirstName,
			LastName:         p.LastName,
			Email:            p.Email,
			PhoneNumber:      p.PhoneNumber,
			Age:              p.Age,
			Occupation:       p.Occupation,
			Goals:            p.Goals,
			ReadinessScore:   p.ReadinessScore,
			SleepHours:       p.SleepHours,
			StressLevel:      p.StressLevel,
			Movement:         p.Movement,
			SkinConcerns:     p.SkinConcerns,
			DietDescription:  p.DietDescription,
			EnergyCrashes:    p.EnergyCrashes,
			TakesSupplements: p.TakesSupplements,
			HealthIssues:     p.HealthIssues,
			BiggestChallenge: p.BiggestChallenge,
			SuccessVision:    p.SuccessVision,
		},
	}, nil
}

// FromReserved конвертирует результат Reserved
func FromReserved(res *reserveBooking.Reserved) *ReservedResponse {
	resp := &ReservedResponse{
		Outcome:       string(reserveBooking.OutcomeReserved),
		IntakeID:      res.IntakeID,
		Date:          res.Date.Format(domain.DateFormat),
		Items:         handlers.FromDomainInstances(res.Items),
		TotalDuration: res.TotalDuration.StringFixed(domain.HoursPrecision),
		TotalPrice:    res.TotalPrice.StringFixed(domain.CurrencyPrecision),
		PaymentStatus: string(res.PaymentStatus),
		Retryable:     res.Retryable,
	}
	if res.Checkout != nil {
		resp.Checkout = &CheckoutResponse{OrderID: res.Checkout.OrderID, URL: res.Checkout.URL}
	}
	return resp
}

// FromConflict конвертирует результат Conflict
func FromConflict(c *reserveBooking.Conflict) *ConflictResponse {
	resp := &ConflictResponse{
		Outcome:   string(reserveBooking.OutcomeConflict),
		IntakeID:  c.IntakeID,
		Date:      c.Date.Format(domain.DateFormat),
		Conflicts: make([]ConflictSlotResponse, 0, len(c.Conflicts)),
		Available: handlers.FromDomainInstances(c.Available),
	}
	for _, slot := range c.Conflicts {
		resp.Conflicts = append(resp.Conflicts, ConflictSlotResponse{
			TemplateID: slot.TemplateID,
			StartTime:  slot.StartTime,
			EndTime:    slot.EndTime,
		})
	}
	return resp
}
