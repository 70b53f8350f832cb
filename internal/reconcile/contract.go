package reconcile

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	"github.com/m04kA/SMC-ConsultationService/internal/integrations/stripepay"
	capturePayment "github.com/m04kA/SMC-ConsultationService/internal/usecase/capture_payment"
)

type IntakeRepository interface {
	ListPendingPayments(ctx context.Context, filter domain.PendingPaymentFilter) ([]*domain.IntakeRecord, error)
}

// PaymentProcessor только чтение статуса, подтверждение выполняет use case
type PaymentProcessor interface {
	Capture(ctx context.Context, orderID string) (*stripepay.Capture, error)
}

type CapturePaymentUseCase interface {
	Execute(ctx context.Context, req *capturePayment.Request) (*capturePayment.Response, error)
}

type TimeProvider interface {
	Now() time.Time
}

type RealTimeProvider struct{}

func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
