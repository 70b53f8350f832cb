package capture_payment

import (
	"time"

	capturePayment "github.com/m04kA/SMC-ConsultationService/internal/usecase/capture_payment"
)

// CaptureRequest HTTP request model
type CaptureRequest struct {
	OrderID string `json:"orderId"`
}

// CaptureResponse HTTP response model
type CaptureResponse struct {
	IntakeID        int64      `json:"intakeId"`
	PaymentStatus   string     `json:"paymentStatus"`
	Reference       string     `json:"reference"`
	PaidAt          *time.Time `json:"paidAt,omitempty"`
	AlreadyCaptured bool       `json:"alreadyCaptured"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *capturePayment.Response) *CaptureResponse {
	return &CaptureResponse{
		IntakeID:        resp.IntakeID,
		PaymentStatus:   string(resp.PaymentStatus),
		Reference:       resp.Reference,
		PaidAt:          resp.PaidAt,
		AlreadyCaptured: resp.AlreadyCaptured,
	}
}
