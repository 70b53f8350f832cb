package quote_selection

import (
	"time"

	"github.com/m04kA/SMC-ConsultationService/internal/api/handlers"
	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	quoteSelection "github.com/m04kA/SMC-ConsultationService/internal/usecase/quote_selection"
)

// QuoteRequest HTTP request model
type QuoteRequest struct {
	Date        string  `json:"date"` // "2025-10-13"
	TemplateIDs []int64 `json:"templateIds"`
}

// QuoteResponse HTTP response model
type QuoteResponse struct {
	Date          string                      `json:"date"`
	Items         []handlers.InstanceResponse `json:"items"`
	Unavailable   []int64                     `json:"unavailable"`
	TotalDuration string                      `json:"totalDuration"`
	TotalPrice    string                      `json:"totalPrice"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *QuoteRequest) ToUseCaseRequest() (*quoteSelection.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}
	return &quoteSelection.Request{Date: date, TemplateIDs: r.TemplateIDs}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *quoteSelection.Response) *QuoteResponse {
	unavailable := resp.Unavailable
	if unavailable == nil {
		unavailable = []int64{}
	}
	return &QuoteResponse{
		Date:          resp.Date.Format(domain.DateFormat),
		Items:         handlers.FromDomainInstances(resp.Items),
		Unavailable:   unavailable,
		TotalDuration: resp.TotalDuration.StringFixed(domain.HoursPrecision),
		TotalPrice:    resp.TotalPrice.StringFixed(domain.CurrencyPrecision),
	}
}
