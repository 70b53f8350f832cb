package events

import "time"

// DefaultTopic топик событий консультаций по умолчанию
const DefaultTopic = "consultation.events"

// Типы событий
const (
	TypeReservationCreated  = "reservation.created"
	TypeReservationConflict = "reservation.conflict"
	TypePaymentCompleted    = "payment.completed"
)

// Event конверт события
type Event struct {
	EventID    string      `json:"eventId"`
	Type       string      `json:"type"`
	IntakeID   int64       `json:"intakeId"`
	OccurredAt time.Time   `json:"occurredAt"`
	Payload    interface{} `json:"payload"`
}

// ReservationCreated данные события о созданной резервации
type ReservationCreated struct {
	Date   string   `json:"date"`
	Slots  []string `json:"slots"`
	Amount string   `json:"amount"`
}

// ReservationConflict данные события о конфликте при резервации
type ReservationConflict struct {
	Date      string   `json:"date"`
	Conflicts []string `json:"conflicts"`
}

// PaymentCompleted данные события об оплате
type PaymentCompleted struct {
	Reference string `json:"reference"`
	Amount    string `json:"amount"`
}
