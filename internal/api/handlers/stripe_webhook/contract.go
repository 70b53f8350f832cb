package stripe_webhook

import (
	"context"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	"github.com/m04kA/SMC-ConsultationService/internal/integrations/stripepay"
	capturePayment "github.com/m04kA/SMC-ConsultationService/internal/usecase/capture_payment"
)

// WebhookParser проверяет подпись и разбирает событие провайдера
type WebhookParser interface {
	ParseWebhook(payload []byte, signature string) (*stripepay.WebhookEvent, error)
}

// PaymentEventRepository журнал платёжных событий, используется для защиты от повторов
type PaymentEventRepository interface {
	HasProviderEvent(ctx context.Context, provider, providerEventID string) (bool, error)
	Append(ctx context.Context, event *domain.PaymentEvent) (*domain.PaymentEvent, error)
}

type CapturePaymentUseCase interface {
	Execute(ctx context.Context, req *capturePayment.Request) (*capturePayment.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
