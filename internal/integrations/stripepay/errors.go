package stripepay

import "errors"

var (
	// ErrNotConfigured возвращается, когда не задан секретный ключ Stripe
	ErrNotConfigured = errors.New("stripepay: stripe is not configured")

	// ErrInvalidAmount возвращается для нулевой или отрицательной суммы заказа
	ErrInvalidAmount = errors.New("stripepay: amount must be positive")

	// ErrProcessor возвращается при ошибке API Stripe
	ErrProcessor = errors.New("stripepay: payment processor error")

	// ErrOrderNotFound возвращается, когда Stripe не знает сессию
	ErrOrderNotFound = errors.New("stripepay: checkout session not found")

	// ErrInvalidSignature возвращается при неверной подписи вебхука
	ErrInvalidSignature = errors.New("stripepay: invalid webhook signature")

	// ErrInvalidPayload возвращается при некорректном содержимом вебхука
	ErrInvalidPayload = errors.New("stripepay: invalid webhook payload")
)
