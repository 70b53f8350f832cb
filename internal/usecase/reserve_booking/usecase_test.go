package reserve_booking

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	reservationRepo "github.com/m04kA/SMC-ConsultationService/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-ConsultationService/internal/integrations/stripepay"
	"github.com/m04kA/SMC-ConsultationService/internal/usecase/resolve_instances"
	"github.com/m04kA/SMC-ConsultationService/pkg/logger"
	"github.com/m04kA/SMC-ConsultationService/pkg/txmanager"
	"github.com/m04kA/SMC-ConsultationService/pkg/types"
)

var (
	monday = time.Date(2025, 10, 13, 0, 0, 0, 0, time.UTC)
	now    = time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)
)

type fixedTime struct{}

func (fixedTime) Now() time.Time { return now }

// store общее хранилище для нескольких сессий
type store struct {
	templates    []*domain.AvailabilityTemplate
	intakes      map[int64]*domain.IntakeRecord
	reservations []*domain.Reservation
	events       []*domain.PaymentEvent
	nextID       int64

	// failCreateAfter заставляет Create вернуть ErrSlotTaken на N-й вставке
	failCreateAfter int
	creates         int

	// serializationWinner вставляется конкурентной сессией: текущая вставка получает 40001
	serializationWinner *domain.Reservation
	committedElsewhere  []*domain.Reservation
	attempts            int
}

func newStore(templates ...*domain.AvailabilityTemplate) *store {
	return &store{templates: templates, intakes: make(map[int64]*domain.IntakeRecord)}
}

func (s *store) ListActiveByDay(_ context.Context, day int) ([]*domain.AvailabilityTemplate, error) {
	var out []*domain.AvailabilityTemplate
	for _, t := range s.templates {
		if t.DayOfWeek == day && t.IsActive {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *store) GetByDate(_ context.Context, date time.Time) ([]*domain.Reservation, error) {
	var out []*domain.Reservation
	for _, r := range s.reservations {
		if r.BookingDate.Equal(date) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *store) Create(_ context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	s.creates++
	if s.serializationWinner != nil {
		s.committedElsewhere = append(s.committedElsewhere, s.serializationWinner)
		s.serializationWinner = nil
		return nil, fmt.Errorf("%w: Create - execute insert: %w", reservationRepo.ErrExecQuery, &pq.Error{Code: "40001"})
	}
	if s.failCreateAfter > 0 && s.creates == s.failCreateAfter {
		return nil, fmt.Errorf("%w: concurrent insert", reservationRepo.ErrSlotTaken)
	}
	for _, r := range s.reservations {
		if r.Key() == res.Key() {
			return nil, fmt.Errorf("%w: %v", reservationRepo.ErrSlotTaken, res.Key())
		}
	}
	s.nextID++
	res.ID = s.nextID
	s.reservations = append(s.reservations, res)
	return res, nil
}

type intakeStore struct{ *store }

func (s intakeStore) Create(_ context.Context, rec *domain.IntakeRecord) (*domain.IntakeRecord, error) {
	s.nextID++
	rec.ID = s.nextID
	s.intakes[rec.ID] = rec
	return rec, nil
}

func (s intakeStore) MarkPaymentFailed(_ context.Context, id int64) error {
	s.intakes[id].PaymentStatus = domain.PaymentFailed
	return nil
}

func (s intakeStore) SetPaymentOrder(_ context.Context, id int64, orderID string) error {
	s.intakes[id].PaymentOrderID = &orderID
	return nil
}

type eventStore struct{ *store }

func (s eventStore) Append(_ context.Context, e *domain.PaymentEvent) (*domain.PaymentEvent, error) {
	s.events = append(s.events, e)
	return e, nil
}

// txManager откатывает резервации при ошибке и повторяет попытку при 40001
type txManager struct{ s *store }

func (m txManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	var err error
	for attempt := 0; attempt <= txmanager.DefaultMaxRetries; attempt++ {
		m.s.attempts++
		snapshot := append([]*domain.Reservation(nil), m.s.reservations...)
		if err = fn(ctx); err == nil {
			return nil
		}
		m.s.reservations = append(snapshot, m.s.committedElsewhere...)
		m.s.committedElsewhere = nil
		if !txmanager.IsSerializationFailure(err) {
			return err
		}
	}
	return err
}

type fakePayments struct {
	requests []stripepay.OrderRequest
	err      error
}

func (f *fakePayments) CreateOrder(_ context.Context, req stripepay.OrderRequest) (*stripepay.Order, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	id := fmt.Sprintf("cs_%d", req.IntakeID)
	return &stripepay.Order{OrderID: id, CheckoutURL: "https://checkout.example/" + id}, nil
}

type fakePublisher struct{ types []string }

func (f *fakePublisher) Publish(_ context.Context, eventType string, _ int64, _ interface{}) error {
	f.types = append(f.types, eventType)
	return nil
}

type fakeMetrics struct{ outcomes []string }

func (f *fakeMetrics) ObserveReservation(outcome string) { f.outcomes = append(f.outcomes, outcome) }

type fixture struct {
	store     *store
	payments  *fakePayments
	publisher *fakePublisher
	metrics   *fakeMetrics
	uc        *UseCase
}

func newFixture(s *store) *fixture {
	f := &fixture{store: s, payments: &fakePayments{}, publisher: &fakePublisher{}, metrics: &fakeMetrics{}}
	log := logger.NewNop()
	resolver := resolve_instances.NewUseCase(s, s, log).WithTimeProvider(fixedTime{})
	f.uc = NewUseCase(resolver, intakeStore{s}, s, eventStore{s}, f.payments, f.publisher, f.metrics, txManager{s}, log).
		WithTimeProvider(fixedTime{})
	return f
}

func tpl(id int64, start, end string, price int64) *domain.AvailabilityTemplate {
	return &domain.AvailabilityTemplate{
		ID:           id,
		DayOfWeek:    int(time.Monday),
		StartTime:    types.TimeString(start),
		EndTime:      types.TimeString(end),
		PricePerHour: decimal.NewFromInt(price),
		IsActive:     true,
	}
}

func profile() domain.ClientProfile {
	return domain.ClientProfile{
		FirstName:      "Ann",
		LastName:       "Lee",
		Email:          "ann@example.com",
		PhoneNumber:    "+1 555 0100",
		Age:            34,
		Occupation:     "Designer",
		ReadinessScore: 8,
		Goals:          []string{"Energy"},
		SleepHours:     "6-7",
		StressLevel:    "Moderate",
	}
}

func request(ids ...int64) *Request {
	return &Request{Date: monday, TemplateIDs: ids, Profile: profile()}
}

func TestUseCase_Execute_ScenarioC(t *testing.T) {
	f := newFixture(newStore(tpl(1, "09:00", "11:00", 50), tpl(2, "13:00", "16:00", 40)))

	resp, err := f.uc.Execute(context.Background(), request(2, 1))

	require.NoError(t, err)
	require.Equal(t, OutcomeReserved, resp.Outcome)
	reserved := resp.Reserved
	assert.Equal(t, "5", reserved.TotalDuration.String())
	assert.Equal(t, "220.00", reserved.TotalPrice.StringFixed(domain.CurrencyPrecision))
	require.NotNil(t, reserved.Checkout)
	assert.False(t, reserved.Retryable)

	intake := f.store.intakes[reserved.IntakeID]
	assert.Equal(t, domain.PaymentPending, intake.PaymentStatus)
	assert.Equal(t, "220.00", intake.FormattedAmount())
	assert.Equal(t, reserved.Checkout.OrderID, *intake.PaymentOrderID)
	assert.Len(t, f.store.reservations, 2)

	require.Len(t, f.payments.requests, 1)
	order := f.payments.requests[0]
	assert.Equal(t, "220.00", order.Amount.StringFixed(2))
	assert.Equal(t, "usd", order.Currency)
	assert.Equal(t, "Consultation: Ann Lee, 2025-10-13", order.Description)

	assert.Equal(t, []string{"reserved"}, f.metrics.outcomes)
	assert.Equal(t, domain.EventOrderCreated, f.store.events[0].EventType)
}

// staleResolver отдаёт первый результат из кэша сессии, дальше читает хранилище
type staleResolver struct {
	first []domain.BookingInstance
	next  InstanceResolver
	calls int
}

func (r *staleResolver) Instances(ctx context.Context, date time.Time) ([]domain.BookingInstance, error) {
	r.calls++
	if r.calls == 1 {
		return r.first, nil
	}
	return r.next.Instances(ctx, date)
}

func TestUseCase_Execute_ScenarioB(t *testing.T) {
	s := newStore(tpl(1, "09:00", "17:00", 100))
	session1 := newFixture(s)
	session2 := newFixture(s)

	// Обе сессии видят один и тот же свободный слот
	seen1, err := session1.uc.resolver.Instances(context.Background(), monday)
	require.NoError(t, err)
	seen2, err := session2.uc.resolver.Instances(context.Background(), monday)
	require.NoError(t, err)
	require.Equal(t, seen1, seen2)
	require.Len(t, seen2, 1)

	session2.uc.resolver = &staleResolver{first: seen2, next: session2.uc.resolver}

	first, err := session1.uc.Execute(context.Background(), request(1))
	require.NoError(t, err)
	require.Equal(t, OutcomeReserved, first.Outcome)

	second, err := session2.uc.Execute(context.Background(), request(1))
	require.NoError(t, err)
	require.Equal(t, OutcomeConflict, second.Outcome)
	assert.Nil(t, second.Reserved)
	assert.Equal(t, []ConflictSlot{{TemplateID: 1, StartTime: "09:00", EndTime: "17:00"}}, second.Conflict.Conflicts)
	assert.Empty(t, second.Conflict.Available)
	require.NotNil(t, second.Conflict.IntakeID)
	assert.Equal(t, domain.PaymentFailed, s.intakes[*second.Conflict.IntakeID].PaymentStatus)
	assert.Len(t, s.reservations, 1)
	assert.Equal(t, first.Reserved.IntakeID, s.reservations[0].IntakeID)
}

func TestUseCase_Execute_SerializationFailureEndsInConflict(t *testing.T) {
	s := newStore(tpl(1, "09:00", "17:00", 100))
	s.serializationWinner = &domain.Reservation{IntakeID: 99, BookingDate: monday, StartTime: "09:00", EndTime: "17:00"}
	f := newFixture(s)

	resp, err := f.uc.Execute(context.Background(), request(1))

	require.NoError(t, err)
	assert.Equal(t, 2, s.attempts, "serialization failure must be retried")
	require.Equal(t, OutcomeConflict, resp.Outcome)
	assert.Equal(t, []ConflictSlot{{TemplateID: 1, StartTime: "09:00", EndTime: "17:00"}}, resp.Conflict.Conflicts)
	assert.Empty(t, resp.Conflict.Available)
	require.NotNil(t, resp.Conflict.IntakeID)
	assert.Equal(t, domain.PaymentFailed, s.intakes[*resp.Conflict.IntakeID].PaymentStatus)
	require.Len(t, s.reservations, 1)
	assert.Equal(t, int64(99), s.reservations[0].IntakeID)
	assert.Empty(t, f.payments.requests)
}

func TestUseCase_Execute_SlotAlreadyGoneBeforeWrite(t *testing.T) {
	s := newStore(tpl(1, "09:00", "17:00", 100))
	s.reservations = []*domain.Reservation{{IntakeID: 99, BookingDate: monday, StartTime: "09:00", EndTime: "17:00"}}
	f := newFixture(s)

	resp, err := f.uc.Execute(context.Background(), request(1))

	require.NoError(t, err)
	require.Equal(t, OutcomeConflict, resp.Outcome)
	assert.Nil(t, resp.Conflict.IntakeID)
	assert.Equal(t, []ConflictSlot{{TemplateID: 1}}, resp.Conflict.Conflicts)
	assert.Empty(t, s.intakes)
	assert.Equal(t, []string{"conflict"}, f.metrics.outcomes)
}

func TestUseCase_Execute_ConcurrentInsertRollsBackBatch(t *testing.T) {
	s := newStore(tpl(1, "09:00", "11:00", 50), tpl(2, "13:00", "16:00", 40))
	s.failCreateAfter = 2
	f := newFixture(s)

	resp, err := f.uc.Execute(context.Background(), request(1, 2))

	require.NoError(t, err)
	require.Equal(t, OutcomeConflict, resp.Outcome)
	assert.Empty(t, s.reservations, "no reservation of the batch may stay committed")
	require.NotNil(t, resp.Conflict.IntakeID)
	assert.Equal(t, domain.PaymentFailed, s.intakes[*resp.Conflict.IntakeID].PaymentStatus)
	assert.Equal(t, types.TimeString("13:00"), resp.Conflict.Conflicts[0].StartTime)
	assert.Len(t, resp.Conflict.Available, 2)
	assert.Empty(t, f.payments.requests)
	assert.Contains(t, f.publisher.types, "reservation.conflict")
}

func TestUseCase_Execute_DuplicateRangeInBatch(t *testing.T) {
	// Два шаблона с одинаковым интервалом дают один и тот же слот
	s := newStore(tpl(1, "09:00", "11:00", 50), tpl(2, "09:00", "11:00", 60))
	f := newFixture(s)

	resp, err := f.uc.Execute(context.Background(), request(1, 2))

	require.NoError(t, err)
	assert.Equal(t, OutcomeConflict, resp.Outcome)
	assert.Empty(t, s.reservations)
}

func TestUseCase_Execute_PaymentHandoffFails(t *testing.T) {
	s := newStore(tpl(1, "09:00", "11:00", 50))
	f := newFixture(s)
	f.payments.err = fmt.Errorf("%w: timeout", stripepay.ErrProcessor)

	resp, err := f.uc.Execute(context.Background(), request(1))

	require.NoError(t, err)
	require.Equal(t, OutcomeReserved, resp.Outcome)
	assert.Nil(t, resp.Reserved.Checkout)
	assert.True(t, resp.Reserved.Retryable)
	assert.Len(t, s.reservations, 1, "slots stay held for a retry")
	assert.Equal(t, domain.PaymentPending, s.intakes[resp.Reserved.IntakeID].PaymentStatus)
	assert.Equal(t, domain.EventOrderFailed, s.events[0].EventType)
}

func TestUseCase_Execute_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *Request)
		err    error
	}{
		{"no date", func(r *Request) { r.Date = time.Time{} }, ErrDateRequired},
		{"past date", func(r *Request) { r.Date = now.AddDate(0, 0, -1) }, ErrDateInPast},
		{"empty selection", func(r *Request) { r.TemplateIDs = nil }, ErrEmptySelection},
		{"duplicate id", func(r *Request) { r.TemplateIDs = []int64{1, 1} }, ErrInvalidInput},
		{"missing name", func(r *Request) { r.Profile.FirstName = " " }, ErrInvalidProfile},
		{"bad email", func(r *Request) { r.Profile.Email = "not-an-email" }, ErrInvalidProfile},
		{"age out of range", func(r *Request) { r.Profile.Age = 0 }, ErrInvalidProfile},
		{"readiness out of range", func(r *Request) { r.Profile.ReadinessScore = 11 }, ErrInvalidProfile},
		{"too many goals", func(r *Request) { r.Profile.Goals = []string{"a", "b", "c", "d"} }, ErrInvalidProfile},
		{"unknown stress level", func(r *Request) { r.Profile.StressLevel = "Extreme" }, ErrInvalidProfile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStore(tpl(1, "09:00", "11:00", 50))
			f := newFixture(s)
			req := request(1)
			tt.mutate(req)

			_, err := f.uc.Execute(context.Background(), req)

			assert.ErrorIs(t, err, tt.err)
			assert.Empty(t, s.intakes, "validation runs before any write")
		})
	}
}
