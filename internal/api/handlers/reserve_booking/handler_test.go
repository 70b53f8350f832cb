package reserve_booking

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	reserveBooking "github.com/m04kA/SMC-ConsultationService/internal/usecase/reserve_booking"
	"github.com/m04kA/SMC-ConsultationService/pkg/logger"
	"github.com/m04kA/SMC-ConsultationService/pkg/ptr"
)

var monday = time.Date(2025, 10, 13, 0, 0, 0, 0, time.UTC)

type fakeUseCase struct {
	got  *reserveBooking.Request
	resp *reserveBooking.Response
	err  error
}

func (f *fakeUseCase) Execute(_ context.Context, req *reserveBooking.Request) (*reserveBooking.Response, error) {
	f.got = req
	return f.resp, f.err
}

const body = `{
	"date": "2025-10-13",
	"templateIds": [2, 1],
	"profile": {"firstName": "Ann", "lastName": "Lee", "email": "ann@example.com", "age": 34, "goals": ["Energy"]}
}`

func serve(uc *fakeUseCase, payload string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	NewHandler(uc, logger.NewNop()).Handle(w, httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(payload)))
	return w
}

func TestHandler_Reserved(t *testing.T) {
	uc := &fakeUseCase{resp: &reserveBooking.Response{
		Outcome: reserveBooking.OutcomeReserved,
		Reserved: &reserveBooking.Reserved{
			IntakeID:      7,
			Date:          monday,
			TotalDuration: decimal.NewFromInt(5),
			TotalPrice:    decimal.NewFromInt(220),
			PaymentStatus: domain.PaymentPending,
			Checkout:      &reserveBooking.Checkout{OrderID: "cs_7", URL: "https://checkout.test/cs_7"},
		},
	}}

	w := serve(uc, body)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, []int64{2, 1}, uc.got.TemplateIDs)
	assert.Equal(t, "Ann", uc.got.Profile.FirstName)
	assert.True(t, uc.got.Date.Equal(monday))

	var resp ReservedResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "reserved", resp.Outcome)
	assert.Equal(t, "220.00", resp.TotalPrice)
	assert.Equal(t, "5.00", resp.TotalDuration)
	require.NotNil(t, resp.Checkout)
	assert.Equal(t, "cs_7", resp.Checkout.OrderID)
	assert.False(t, resp.Retryable)
}

func TestHandler_Conflict(t *testing.T) {
	uc := &fakeUseCase{resp: &reserveBooking.Response{
		Outcome: reserveBooking.OutcomeConflict,
		Conflict: &reserveBooking.Conflict{
			IntakeID:  ptr.Ptr(int64(8)),
			Date:      monday,
			Conflicts: []reserveBooking.ConflictSlot{{TemplateID: 1, StartTime: "09:00", EndTime: "11:00"}},
			Available: []domain.BookingInstance{{TemplateID: 2, Date: monday, StartTime: "13:00", EndTime: "16:00"}},
		},
	}}

	w := serve(uc, body)

	require.Equal(t, http.StatusConflict, w.Code)
	var resp ConflictResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "conflict", resp.Outcome)
	assert.Equal(t, int64(8), *resp.IntakeID)
	require.Len(t, resp.Conflicts, 1)
	assert.Equal(t, "09:00", resp.Conflicts[0].StartTime.String())
	require.Len(t, resp.Available, 1)
	assert.Equal(t, int64(2), resp.Available[0].TemplateID)
}

func TestHandler_Errors(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		err     error
		want    int
	}{
		{"malformed json", `{"date":`, nil, http.StatusBadRequest},
		{"bad date", `{"date":"13/10/2025","templateIds":[1]}`, nil, http.StatusBadRequest},
		{"date required", `{"templateIds":[1]}`, reserveBooking.ErrDateRequired, http.StatusBadRequest},
		{"empty selection", body, reserveBooking.ErrEmptySelection, http.StatusBadRequest},
		{"invalid profile", body, fmt.Errorf("%w: email", reserveBooking.ErrInvalidProfile), http.StatusBadRequest},
		{"internal", body, reserveBooking.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(&fakeUseCase{err: tt.err}, tt.payload)

			assert.Equal(t, tt.want, w.Code)
		})
	}
}
