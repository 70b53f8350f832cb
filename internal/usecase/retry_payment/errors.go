package retry_payment

import "errors"

var (
	// ErrInvalidInput некорректные входные данные
	ErrInvalidInput = errors.New("retry_payment: invalid input")
	// ErrIntakeNotFound запись не найдена
	ErrIntakeNotFound = errors.New("retry_payment: intake not found")
	// ErrAlreadyPaid запись уже оплачена
	ErrAlreadyPaid = errors.New("retry_payment: intake already paid")
	// ErrNotRetryable запись не ожидает оплаты или не удерживает слоты
	ErrNotRetryable = errors.New("retry_payment: intake holds no reservations awaiting payment")
	// ErrPaymentProcessor ошибка платёжного провайдера
	ErrPaymentProcessor = errors.New("retry_payment: payment processor error")
	// ErrInternal внутренняя ошибка
	ErrInternal = errors.New("retry_payment: internal error")
)
