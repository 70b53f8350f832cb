package intake

import "errors"

var (
	// ErrIntakeNotFound возвращается, когда запись на консультацию не найдена
	ErrIntakeNotFound = errors.New("intake.repository: intake not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("intake.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("intake.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("intake.repository: failed to scan row")
)
