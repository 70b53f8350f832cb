package retry_payment

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	intakeRepo "github.com/m04kA/SMC-ConsultationService/internal/infra/storage/intake"
	"github.com/m04kA/SMC-ConsultationService/internal/integrations/stripepay"
	"github.com/m04kA/SMC-ConsultationService/pkg/logger"
	"github.com/m04kA/SMC-ConsultationService/pkg/ptr"
)

var monday = time.Date(2025, 10, 13, 0, 0, 0, 0, time.UTC)

type fakeIntakes struct {
	records map[int64]*domain.IntakeRecord
}

func (f *fakeIntakes) GetByID(_ context.Context, id int64) (*domain.IntakeRecord, error) {
	rec, ok := f.records[id]
	if !ok {
		return nil, intakeRepo.ErrIntakeNotFound
	}
	return rec, nil
}

func (f *fakeIntakes) SetPaymentOrder(_ context.Context, id int64, orderID string) error {
	f.records[id].PaymentOrderID = &orderID
	return nil
}

type fakeReservations struct{ items []*domain.Reservation }

func (f *fakeReservations) GetByIntakeID(context.Context, int64) ([]*domain.Reservation, error) {
	return f.items, nil
}

type fakeEvents struct{ items []*domain.PaymentEvent }

func (f *fakeEvents) Append(_ context.Context, e *domain.PaymentEvent) (*domain.PaymentEvent, error) {
	f.items = append(f.items, e)
	return e, nil
}

type fakeProcessor struct {
	got       []stripepay.OrderRequest
	err       error
	expired   []string
	expireErr error
}

func (f *fakeProcessor) ExpireOrder(_ context.Context, orderID string) error {
	f.expired = append(f.expired, orderID)
	return f.expireErr
}

func (f *fakeProcessor) CreateOrder(_ context.Context, req stripepay.OrderRequest) (*stripepay.Order, error) {
	f.got = append(f.got, req)
	if f.err != nil {
		return nil, f.err
	}
	return &stripepay.Order{OrderID: "cs_retry", CheckoutURL: "https://checkout.test/cs_retry"}, nil
}

type fixture struct {
	intakes      *fakeIntakes
	reservations *fakeReservations
	events       *fakeEvents
	processor    *fakeProcessor
	uc           *UseCase
}

func newFixture(status domain.PaymentStatus) *fixture {
	amount := decimal.RequireFromString("220.00")
	f := &fixture{
		intakes: &fakeIntakes{records: map[int64]*domain.IntakeRecord{
			5: {
				ID:            5,
				Profile:       domain.ClientProfile{FirstName: "Ann", LastName: "Lee"},
				PaymentStatus: status,
				PaymentAmount: &amount,
			},
		}},
		reservations: &fakeReservations{items: []*domain.Reservation{
			// Цена резервации отличается от снимка: повтор использует снимок
			{IntakeID: 5, BookingDate: monday, StartTime: "09:00", EndTime: "11:00",
				DurationHours: decimal.NewFromInt(2), Price: decimal.NewFromInt(300)},
		}},
		events:    &fakeEvents{},
		processor: &fakeProcessor{},
	}
	f.uc = NewUseCase(f.intakes, f.reservations, f.events, f.processor, logger.NewNop()).
		WithKeyGenerator(func() string { return "k1" })
	return f
}

func TestUseCase_Execute_UsesSnapshotAmount(t *testing.T) {
	f := newFixture(domain.PaymentPending)

	resp, err := f.uc.Execute(context.Background(), &Request{IntakeID: 5})

	require.NoError(t, err)
	assert.Equal(t, "cs_retry", resp.OrderID)
	assert.Equal(t, "220.00", resp.Amount.StringFixed(2))

	require.Len(t, f.processor.got, 1)
	order := f.processor.got[0]
	assert.Equal(t, "220", order.Amount.String())
	assert.Equal(t, domain.DefaultCurrency, order.Currency)
	assert.Equal(t, "Consultation: Ann Lee, 2025-10-13", order.Description)
	assert.Equal(t, "consultation-5-k1", order.IdempotencyKey)

	assert.Equal(t, "cs_retry", *f.intakes.records[5].PaymentOrderID)
	require.Len(t, f.events.items, 1)
	assert.Equal(t, domain.EventOrderCreated, f.events.items[0].EventType)
}

func TestUseCase_Execute_ExpiresSupersededOrder(t *testing.T) {
	t.Run("previous session is closed", func(t *testing.T) {
		f := newFixture(domain.PaymentPending)
		f.intakes.records[5].PaymentOrderID = ptr.Ptr("cs_first")

		_, err := f.uc.Execute(context.Background(), &Request{IntakeID: 5})

		require.NoError(t, err)
		assert.Equal(t, []string{"cs_first"}, f.processor.expired)
		assert.Equal(t, "cs_retry", *f.intakes.records[5].PaymentOrderID)
	})

	t.Run("expire failure does not fail the retry", func(t *testing.T) {
		f := newFixture(domain.PaymentPending)
		f.intakes.records[5].PaymentOrderID = ptr.Ptr("cs_first")
		f.processor.expireErr = stripepay.ErrProcessor

		resp, err := f.uc.Execute(context.Background(), &Request{IntakeID: 5})

		require.NoError(t, err)
		assert.Equal(t, "cs_retry", resp.OrderID)
	})

	t.Run("no previous order", func(t *testing.T) {
		f := newFixture(domain.PaymentPending)

		_, err := f.uc.Execute(context.Background(), &Request{IntakeID: 5})

		require.NoError(t, err)
		assert.Empty(t, f.processor.expired)
	})
}

func TestUseCase_Execute_Rejects(t *testing.T) {
	t.Run("paid intake", func(t *testing.T) {
		f := newFixture(domain.PaymentCompleted)

		_, err := f.uc.Execute(context.Background(), &Request{IntakeID: 5})

		assert.ErrorIs(t, err, ErrAlreadyPaid)
		assert.Empty(t, f.processor.got)
	})

	t.Run("failed intake", func(t *testing.T) {
		f := newFixture(domain.PaymentFailed)

		_, err := f.uc.Execute(context.Background(), &Request{IntakeID: 5})

		assert.ErrorIs(t, err, ErrNotRetryable)
	})

	t.Run("released reservations", func(t *testing.T) {
		f := newFixture(domain.PaymentPending)
		f.reservations.items = nil

		_, err := f.uc.Execute(context.Background(), &Request{IntakeID: 5})

		assert.ErrorIs(t, err, ErrNotRetryable)
		assert.Empty(t, f.processor.got)
	})

	t.Run("unknown intake", func(t *testing.T) {
		f := newFixture(domain.PaymentPending)

		_, err := f.uc.Execute(context.Background(), &Request{IntakeID: 6})

		assert.ErrorIs(t, err, ErrIntakeNotFound)
	})

	t.Run("processor failure", func(t *testing.T) {
		f := newFixture(domain.PaymentPending)
		f.processor.err = stripepay.ErrProcessor

		_, err := f.uc.Execute(context.Background(), &Request{IntakeID: 5})

		assert.ErrorIs(t, err, ErrPaymentProcessor)
		assert.Nil(t, f.intakes.records[5].PaymentOrderID)
		require.Len(t, f.events.items, 1)
		assert.Equal(t, domain.EventOrderFailed, f.events.items[0].EventType)
	})
}
