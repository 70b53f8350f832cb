package get_availability

import (
	"context"

	resolveInstances "github.com/m04kA/SMC-ConsultationService/internal/usecase/resolve_instances"
)

type ResolveInstancesUseCase interface {
	Execute(ctx context.Context, req *resolveInstances.Request) (*resolveInstances.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
