package payment_event

import (
	"errors"

	"github.com/lib/pq"
)

const uniqueViolation = "23505"

var (
	// ErrDuplicateEvent возвращается, когда событие провайдера уже записано
	ErrDuplicateEvent = errors.New("payment_event.repository: provider event already recorded")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("payment_event.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("payment_event.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("payment_event.repository: failed to scan row")
)

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation
}
