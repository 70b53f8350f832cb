package consultations

import "errors"

var (
	// ErrConsultationNotFound возвращается, когда запись не найдена
	ErrConsultationNotFound = errors.New("consultation not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrAlreadyPaid возвращается при попытке освободить слоты оплаченной записи
	ErrAlreadyPaid = errors.New("consultation already paid")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
