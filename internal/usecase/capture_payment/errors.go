package capture_payment

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("capture_payment: invalid input data")

	// ErrIntakeNotFound возвращается, когда запись не найдена
	ErrIntakeNotFound = errors.New("capture_payment: intake not found")

	// ErrOrderMismatch возвращается, когда заказ не принадлежит записи
	ErrOrderMismatch = errors.New("capture_payment: order does not belong to intake")

	// ErrPaymentNotCaptured возвращается, когда провайдер не подтвердил оплату
	ErrPaymentNotCaptured = errors.New("capture_payment: payment not captured")

	// ErrPaymentProcessor возвращается при недоступности платёжного провайдера
	ErrPaymentProcessor = errors.New("capture_payment: payment processor error")

	// ErrReconciliationRequired возвращается, когда оплата прошла, но запись не обновлена
	ErrReconciliationRequired = errors.New("capture_payment: payment captured but record not updated")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("capture_payment: internal error")
)
