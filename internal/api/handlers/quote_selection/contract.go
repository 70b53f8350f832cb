package quote_selection

import (
	"context"

	quoteSelection "github.com/m04kA/SMC-ConsultationService/internal/usecase/quote_selection"
)

type QuoteSelectionUseCase interface {
	Execute(ctx context.Context, req *quoteSelection.Request) (*quoteSelection.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
