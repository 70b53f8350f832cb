package reserve_booking

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("reserve_booking: invalid input data")

	// ErrDateRequired возвращается, когда дата не выбрана
	ErrDateRequired = errors.New("reserve_booking: booking date is required")

	// ErrDateInPast возвращается для прошедшей даты
	ErrDateInPast = errors.New("reserve_booking: booking date is in the past")

	// ErrEmptySelection возвращается, когда не выбран ни один слот
	ErrEmptySelection = errors.New("reserve_booking: no slots selected")

	// ErrInvalidProfile возвращается при незаполненной или некорректной анкете
	ErrInvalidProfile = errors.New("reserve_booking: invalid intake profile")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("reserve_booking: internal error")

	// errBatchConflict прерывает транзакцию при занятом слоте
	errBatchConflict = errors.New("reserve_booking: batch conflict")
)
