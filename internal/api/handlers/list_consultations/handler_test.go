package list_consultations

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ConsultationService/internal/service/consultations"
	"github.com/m04kA/SMC-ConsultationService/internal/service/consultations/models"
	"github.com/m04kA/SMC-ConsultationService/pkg/logger"
)

type fakeService struct {
	got *models.ListRequest
	err error
}

func (f *fakeService) List(_ context.Context, req *models.ListRequest) (*models.ConsultationListResponse, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.ConsultationListResponse{Consultations: []models.ConsultationSummary{}}, nil
}

func serve(svc *fakeService, query string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	NewHandler(svc, logger.NewNop()).Handle(w, httptest.NewRequest(http.MethodGet, "/api/v1/admin/consultations"+query, nil))
	return w
}

func TestHandler_Handle(t *testing.T) {
	t.Run("filters are passed through", func(t *testing.T) {
		svc := &fakeService{}

		w := serve(svc, "?status=scheduled&search=ann+lee&limit=20")

		require.Equal(t, http.StatusOK, w.Code)
		require.NotNil(t, svc.got.Status)
		assert.Equal(t, "scheduled", *svc.got.Status)
		assert.Equal(t, "ann lee", svc.got.Search)
		assert.Equal(t, uint64(20), svc.got.Limit)
	})

	t.Run("all means no status filter", func(t *testing.T) {
		svc := &fakeService{}

		w := serve(svc, "?status=all")

		require.Equal(t, http.StatusOK, w.Code)
		assert.Nil(t, svc.got.Status)
	})

	t.Run("invalid status", func(t *testing.T) {
		w := serve(&fakeService{err: consultations.ErrInvalidInput}, "?status=archived")

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("invalid limit", func(t *testing.T) {
		svc := &fakeService{}

		w := serve(svc, "?limit=-1")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Nil(t, svc.got)
	})
}
