package cancel_payment

import "github.com/m04kA/SMC-ConsultationService/internal/domain"

// Reason причина, по которой клиент не завершил оплату
type Reason string

const (
	// ReasonCancelled клиент закрыл страницу оплаты
	ReasonCancelled Reason = "cancelled"
	// ReasonFailed провайдер отклонил оплату
	ReasonFailed Reason = "failed"
)

// Request входные данные
type Request struct {
	IntakeID int64
	Reason   Reason
}

// Response результат
type Response struct {
	IntakeID      int64
	PaymentStatus domain.PaymentStatus
	// Recorded false, если запись уже оплачена и событие не записано
	Recorded bool
}
