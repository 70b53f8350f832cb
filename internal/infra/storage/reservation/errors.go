package reservation

import (
	"errors"

	"github.com/lib/pq"
)

// uniqueViolation код ошибки PostgreSQL при нарушении уникального индекса
const uniqueViolation = "23505"

// slotConstraint уникальный индекс (booking_date, start_time, end_time)
const slotConstraint = "reservations_slot_uniq"

var (
	// ErrSlotTaken возвращается, когда слот на эту дату уже зарезервирован
	ErrSlotTaken = errors.New("reservation.repository: slot already reserved")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("reservation.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("reservation.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("reservation.repository: failed to scan row")
)

// isSlotViolation проверяет, что err вызвана уникальным индексом слота
func isSlotViolation(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return string(pqErr.Code) == uniqueViolation &&
		(pqErr.Constraint == "" || pqErr.Constraint == slotConstraint)
}
