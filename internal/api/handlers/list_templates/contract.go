package list_templates

import (
	"context"

	"github.com/m04kA/SMC-ConsultationService/internal/service/templates/models"
)

type TemplateService interface {
	List(ctx context.Context) (*models.TemplateListResponse, error)
	Defaults() *models.TemplateResponse
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
