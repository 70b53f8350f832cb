package capture_payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	capturePayment "github.com/m04kA/SMC-ConsultationService/internal/usecase/capture_payment"
	"github.com/m04kA/SMC-ConsultationService/pkg/logger"
)

type fakeUseCase struct {
	got *capturePayment.Request
	err error
}

func (f *fakeUseCase) Execute(_ context.Context, req *capturePayment.Request) (*capturePayment.Response, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &capturePayment.Response{
		IntakeID:      req.IntakeID,
		PaymentStatus: domain.PaymentCompleted,
		Reference:     "PAY-123",
	}, nil
}

func serve(uc *fakeUseCase, intakeID, payload string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/api/v1/bookings/{intakeId}/capture", NewHandler(uc, logger.NewNop()).Handle)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost,
		"/api/v1/bookings/"+intakeID+"/capture", strings.NewReader(payload)))
	return w
}

func TestHandler_Handle(t *testing.T) {
	t.Run("captured", func(t *testing.T) {
		uc := &fakeUseCase{}

		w := serve(uc, "7", `{"orderId":"cs_7"}`)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, int64(7), uc.got.IntakeID)
		assert.Equal(t, capturePayment.SourceClient, uc.got.Source)

		var resp CaptureResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "completed", resp.PaymentStatus)
		assert.Equal(t, "PAY-123", resp.Reference)
	})

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", capturePayment.ErrIntakeNotFound, http.StatusNotFound},
		{"mismatch", capturePayment.ErrOrderMismatch, http.StatusConflict},
		{"not captured", capturePayment.ErrPaymentNotCaptured, http.StatusPaymentRequired},
		{"processor", capturePayment.ErrPaymentProcessor, http.StatusBadGateway},
		{"reconciliation", capturePayment.ErrReconciliationRequired, http.StatusInternalServerError},
		{"invalid", capturePayment.ErrInvalidInput, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(&fakeUseCase{err: tt.err}, "7", `{"orderId":"cs_7"}`)

			assert.Equal(t, tt.want, w.Code)
		})
	}

	t.Run("invalid intake id", func(t *testing.T) {
		uc := &fakeUseCase{}

		w := serve(uc, "abc", `{"orderId":"cs_7"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Nil(t, uc.got)
	})
}
