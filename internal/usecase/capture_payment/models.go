package capture_payment

import (
	"time"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
)

// Source источник подтверждения оплаты
type Source string

const (
	SourceClient     Source = "client"
	SourceWebhook    Source = "webhook"
	SourceReconciler Source = "reconciler"
)

// Request модель запроса подтверждения оплаты
type Request struct {
	IntakeID int64  // ID записи
	OrderID  string // ID заказа у провайдера
	Source   Source // Кто инициировал подтверждение
}

// Response модель ответа подтверждения оплаты
type Response struct {
	IntakeID        int64
	PaymentStatus   domain.PaymentStatus
	Reference       string
	PaidAt          *time.Time
	AlreadyCaptured bool // Оплата уже была зафиксирована ранее, побочных эффектов нет
}
