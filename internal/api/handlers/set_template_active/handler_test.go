package set_template_active

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ConsultationService/internal/service/templates"
	"github.com/m04kA/SMC-ConsultationService/internal/service/templates/models"
	"github.com/m04kA/SMC-ConsultationService/pkg/logger"
)

type fakeService struct {
	called bool
	active bool
	err    error
}

func (f *fakeService) SetActive(_ context.Context, id int64, active bool) (*models.TemplateResponse, error) {
	f.called, f.active = true, active
	if f.err != nil {
		return nil, f.err
	}
	return &models.TemplateResponse{ID: id, IsActive: active}, nil
}

func serve(svc *fakeService, body string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/api/v1/admin/templates/{templateId}/active", NewHandler(svc, logger.NewNop()).Handle)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPatch, "/api/v1/admin/templates/4/active", strings.NewReader(body)))
	return w
}

func TestHandler_Handle(t *testing.T) {
	t.Run("deactivate", func(t *testing.T) {
		svc := &fakeService{}

		w := serve(svc, `{"isActive":false}`)

		require.Equal(t, http.StatusOK, w.Code)
		assert.True(t, svc.called)
		assert.False(t, svc.active)
	})

	t.Run("flag is required", func(t *testing.T) {
		svc := &fakeService{}

		w := serve(svc, `{}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.False(t, svc.called)
	})

	t.Run("not found", func(t *testing.T) {
		w := serve(&fakeService{err: templates.ErrTemplateNotFound}, `{"isActive":true}`)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
