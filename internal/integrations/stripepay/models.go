package stripepay

import (
	"time"

	"github.com/shopspring/decimal"
)

// Provider имя платёжного провайдера в журнале событий
const Provider = "stripe"

// IntakePlaceholder подставляется в success/cancel URL вместо ID записи
const IntakePlaceholder = "{INTAKE_ID}"

// CaptureStatus состояние оплаты по данным провайдера
type CaptureStatus string

const (
	CaptureCompleted CaptureStatus = "completed"
	CapturePending   CaptureStatus = "pending"
	CaptureFailed    CaptureStatus = "failed"
)

// Config настройки клиента Stripe
type Config struct {
	SecretKey     string
	WebhookSecret string
	SuccessURL    string
	CancelURL     string
	// APIURL переопределяет адрес API (для тестов и stripe-mock)
	APIURL  string
	Timeout time.Duration
}

// OrderRequest параметры создания заказа
type OrderRequest struct {
	IntakeID       int64
	Amount         decimal.Decimal
	Currency       string
	Description    string
	IdempotencyKey string
}

// Order созданный заказ (Checkout Session)
type Order struct {
	OrderID     string
	CheckoutURL string
}

// Capture результат проверки оплаты заказа
type Capture struct {
	OrderID string
	// IntakeID из метаданных сессии, 0 если метаданных нет
	IntakeID    int64
	ReferenceID string
	Status      CaptureStatus
	Amount      decimal.Decimal
}

// WebhookEvent разобранное событие вебхука
type WebhookEvent struct {
	ID         string
	Type       string
	Supported  bool
	OrderID    string
	IntakeID   int64
	Status     CaptureStatus
	Reference  string
	OccurredAt time.Time
}
