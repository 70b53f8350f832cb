package cancel_payment

import "errors"

var (
	// ErrInvalidInput некорректные входные данные
	ErrInvalidInput = errors.New("cancel_payment: invalid input")
	// ErrIntakeNotFound запись не найдена
	ErrIntakeNotFound = errors.New("cancel_payment: intake not found")
	// ErrInternal внутренняя ошибка
	ErrInternal = errors.New("cancel_payment: internal error")
)
