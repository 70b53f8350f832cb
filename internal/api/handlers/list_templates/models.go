package list_templates

import (
	"github.com/m04kA/SMC-ConsultationService/internal/service/templates/models"
)

// ListTemplatesResponse HTTP response model
// Defaults используются формой создания шаблона
type ListTemplatesResponse struct {
	Templates []models.TemplateResponse `json:"templates"`
	Defaults  *models.TemplateResponse  `json:"defaults"`
}
