package capture_payment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marllouie99/DioceseIligan-BookingService/internal/domain"
	"github.com/marllouie99/DioceseIligan-BookingService/internal/events"
	apptRepo "github.com/marllouie99/DioceseIligan-BookingService/internal/infra/storage/appointment"
	"github.com/marllouie99/DioceseIligan-BookingService/internal/integrations/servicecatalog"
	"github.com/marllouie99/DioceseIligan-BookingService/pkg/ptr"
)

type fakeRepo struct {
	getByID       func(ctx context.Context, id int64) (*domain.Appointment, error)
	recordPayment func(ctx context.Context, id int64, amount float64, method, transactionID string) (time.Time, error)

	recordPaymentCalls int
}

func (f *fakeRepo) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	return f.getByID(ctx, id)
}

func (f *fakeRepo) RecordPayment(ctx context.Context, id int64, amount float64, method, transactionID string) (time.Time, error) {
	f.recordPaymentCalls++
	return f.recordPayment(ctx, id, amount, method, transactionID)
}

type fakeResolver struct {
	resolve func(ctx context.Context, churchID int64, date time.Time, winnerID int64) ([]*domain.Appointment, error)
	calls   int
}

func (f *fakeResolver) Resolve(ctx context.Context, churchID int64, date time.Time, winnerID int64) ([]*domain.Appointment, error) {
	f.calls++
	if f.resolve == nil {
		return nil, nil
	}
	return f.resolve(ctx, churchID, date, winnerID)
}

type fakeCatalog struct {
	service *servicecatalog.Service
	err     error
}

func (f *fakeCatalog) GetService(ctx context.Context, churchID, serviceID int64) (*servicecatalog.Service, error) {
	return f.service, f.err
}

type fakeTxManager struct {
	calls int
}

func (f *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

type fakeNotifier struct {
	published []string
	err       error
}

func (f *fakeNotifier) Publish(ctx context.Context, routingKey string, payload interface{}) error {
	f.published = append(f.published, routingKey)
	return f.err
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func pendingAppointment() *domain.Appointment {
	return &domain.Appointment{
		ID:            42,
		Code:          ptr.Ptr("APPT-0042"),
		ChurchID:      7,
		ServiceID:     3,
		RequesterID:   100,
		BookingDate:   time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC),
		StartTime:     "10:00",
		EndTime:       "11:00",
		Status:        domain.StatusRequested,
		PaymentStatus: domain.PaymentPending,
	}
}

func paidService() *servicecatalog.Service {
	return &servicecatalog.Service{
		ID:       3,
		ChurchID: 7,
		Name:     "Wedding",
		Price:    ptr.Ptr(1500.0),
		Currency: "PHP",
	}
}

func validRequest() *Request {
	return &Request{
		BookingID:     42,
		Amount:        1500.0,
		Currency:      "PHP",
		Method:        "gcash",
		TransactionID: "tx-abc",
	}
}

func TestExecute_Success(t *testing.T) {
	capturedAt := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	repo := &fakeRepo{
		getByID: func(ctx context.Context, id int64) (*domain.Appointment, error) {
			return pendingAppointment(), nil
		},
		recordPayment: func(ctx context.Context, id int64, amount float64, method, transactionID string) (time.Time, error) {
			assert.Equal(t, int64(42), id)
			assert.Equal(t, 1500.0, amount)
			assert.Equal(t, "gcash", method)
			assert.Equal(t, "tx-abc", transactionID)
			return capturedAt, nil
		},
	}
	resolver := &fakeResolver{}
	notifier := &fakeNotifier{}
	txMgr := &fakeTxManager{}

	uc := NewUseCase(repo, resolver, &fakeCatalog{service: paidService()}, txMgr, notifier, nopLogger{})

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, int64(42), resp.BookingID)
	assert.Equal(t, string(domain.PaymentPaid), resp.PaymentStatus)
	assert.Equal(t, 1500.0, resp.PaymentAmount)
	assert.Equal(t, capturedAt, resp.PaymentCapturedAt)
	assert.Equal(t, 0, resp.CancelledSiblings)
	assert.Equal(t, 1, txMgr.calls)
	assert.Equal(t, 1, resolver.calls)
	assert.Equal(t, []string{events.RKPaymentReceived}, notifier.published)
}

func TestExecute_CancelsCompetingAppointments(t *testing.T) {
	loser := pendingAppointment()
	loser.ID = 43
	loser.RequesterID = 200
	loser.Status = domain.StatusCancelled
	loser.CancelReason = ptr.Ptr(domain.CancelReasonConflict)

	repo := &fakeRepo{
		getByID: func(ctx context.Context, id int64) (*domain.Appointment, error) {
			return pendingAppointment(), nil
		},
		recordPayment: func(ctx context.Context, id int64, amount float64, method, transactionID string) (time.Time, error) {
			return time.Now(), nil
		},
	}
	resolver := &fakeResolver{
		resolve: func(ctx context.Context, churchID int64, date time.Time, winnerID int64) ([]*domain.Appointment, error) {
			assert.Equal(t, int64(7), churchID)
			assert.Equal(t, int64(42), winnerID)
			return []*domain.Appointment{loser}, nil
		},
	}
	notifier := &fakeNotifier{}

	uc := NewUseCase(repo, resolver, &fakeCatalog{service: paidService()}, &fakeTxManager{}, notifier, nopLogger{})

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, 1, resp.CancelledSiblings)
	assert.Equal(t, []string{events.RKPaymentReceived, events.RKSiblingCanceled}, notifier.published)
}

func TestExecute_AmountMismatchRejectsPayment(t *testing.T) {
	repo := &fakeRepo{
		getByID: func(ctx context.Context, id int64) (*domain.Appointment, error) {
			return pendingAppointment(), nil
		},
	}
	resolver := &fakeResolver{}
	notifier := &fakeNotifier{}

	uc := NewUseCase(repo, resolver, &fakeCatalog{service: paidService()}, &fakeTxManager{}, notifier, nopLogger{})

	req := validRequest()
	req.Amount = 1.0 // tampered callback

	_, err := uc.Execute(context.Background(), req)
	require.ErrorIs(t, err, ErrAmountMismatch)

	// Запись не тронута, конфликты не разрешались, события не публиковались
	assert.Equal(t, 0, repo.recordPaymentCalls)
	assert.Equal(t, 0, resolver.calls)
	assert.Empty(t, notifier.published)
}

func TestExecute_CurrencyMismatchRejectsPayment(t *testing.T) {
	repo := &fakeRepo{
		getByID: func(ctx context.Context, id int64) (*domain.Appointment, error) {
			return pendingAppointment(), nil
		},
	}

	uc := NewUseCase(repo, &fakeResolver{}, &fakeCatalog{service: paidService()}, &fakeTxManager{}, &fakeNotifier{}, nopLogger{})

	req := validRequest()
	req.Currency = "USD"

	_, err := uc.Execute(context.Background(), req)
	require.ErrorIs(t, err, ErrAmountMismatch)
}

func TestExecute_AlreadyPaidIsIdempotentConflict(t *testing.T) {
	paid := pendingAppointment()
	paid.PaymentStatus = domain.PaymentPaid

	repo := &fakeRepo{
		getByID: func(ctx context.Context, id int64) (*domain.Appointment, error) {
			return paid, nil
		},
	}
	txMgr := &fakeTxManager{}

	uc := NewUseCase(repo, &fakeResolver{}, &fakeCatalog{service: paidService()}, txMgr, &fakeNotifier{}, nopLogger{})

	_, err := uc.Execute(context.Background(), validRequest())
	require.ErrorIs(t, err, ErrAlreadyPaid)
	assert.Equal(t, 0, txMgr.calls)
}

func TestExecute_PaidConcurrentlyInsideTransaction(t *testing.T) {
	calls := 0
	repo := &fakeRepo{
		getByID: func(ctx context.Context, id int64) (*domain.Appointment, error) {
			calls++
			appt := pendingAppointment()
			if calls > 1 {
				// Второй GetByID — перечитывание под блокировкой в транзакции
				appt.PaymentStatus = domain.PaymentPaid
			}
			return appt, nil
		},
	}
	resolver := &fakeResolver{}

	uc := NewUseCase(repo, resolver, &fakeCatalog{service: paidService()}, &fakeTxManager{}, &fakeNotifier{}, nopLogger{})

	_, err := uc.Execute(context.Background(), validRequest())
	require.ErrorIs(t, err, ErrAlreadyPaid)
	assert.Equal(t, 0, repo.recordPaymentCalls)
	assert.Equal(t, 0, resolver.calls)
}

func TestExecute_FreeServiceNotPayable(t *testing.T) {
	repo := &fakeRepo{
		getByID: func(ctx context.Context, id int64) (*domain.Appointment, error) {
			return pendingAppointment(), nil
		},
	}
	free := &servicecatalog.Service{ID: 3, ChurchID: 7, Name: "Blessing", IsFree: true}

	uc := NewUseCase(repo, &fakeResolver{}, &fakeCatalog{service: free}, &fakeTxManager{}, &fakeNotifier{}, nopLogger{})

	_, err := uc.Execute(context.Background(), validRequest())
	require.ErrorIs(t, err, ErrFreeServiceNotPayable)
}

func TestExecute_PriceUnset(t *testing.T) {
	repo := &fakeRepo{
		getByID: func(ctx context.Context, id int64) (*domain.Appointment, error) {
			return pendingAppointment(), nil
		},
	}
	unpriced := &servicecatalog.Service{ID: 3, ChurchID: 7, Name: "Baptism"}

	uc := NewUseCase(repo, &fakeResolver{}, &fakeCatalog{service: unpriced}, &fakeTxManager{}, &fakeNotifier{}, nopLogger{})

	_, err := uc.Execute(context.Background(), validRequest())
	require.ErrorIs(t, err, ErrPriceUnset)
}

func TestExecute_BookingNotFound(t *testing.T) {
	repo := &fakeRepo{
		getByID: func(ctx context.Context, id int64) (*domain.Appointment, error) {
			return nil, apptRepo.ErrAppointmentNotFound
		},
	}

	uc := NewUseCase(repo, &fakeResolver{}, &fakeCatalog{service: paidService()}, &fakeTxManager{}, &fakeNotifier{}, nopLogger{})

	_, err := uc.Execute(context.Background(), validRequest())
	require.ErrorIs(t, err, ErrBookingNotFound)
}

func TestExecute_ResolveFailureRollsBackPayment(t *testing.T) {
	repo := &fakeRepo{
		getByID: func(ctx context.Context, id int64) (*domain.Appointment, error) {
			return pendingAppointment(), nil
		},
		recordPayment: func(ctx context.Context, id int64, amount float64, method, transactionID string) (time.Time, error) {
			return time.Now(), nil
		},
	}
	resolver := &fakeResolver{
		resolve: func(ctx context.Context, churchID int64, date time.Time, winnerID int64) ([]*domain.Appointment, error) {
			return nil, errors.New("lock timeout")
		},
	}
	notifier := &fakeNotifier{}

	uc := NewUseCase(repo, resolver, &fakeCatalog{service: paidService()}, &fakeTxManager{}, notifier, nopLogger{})

	_, err := uc.Execute(context.Background(), validRequest())
	require.ErrorIs(t, err, ErrInternal)
	assert.Empty(t, notifier.published)
}

func TestExecute_NotifyFailureDoesNotFailCapture(t *testing.T) {
	repo := &fakeRepo{
		getByID: func(ctx context.Context, id int64) (*domain.Appointment, error) {
			return pendingAppointment(), nil
		},
		recordPayment: func(ctx context.Context, id int64, amount float64, method, transactionID string) (time.Time, error) {
			return time.Now(), nil
		},
	}
	notifier := &fakeNotifier{err: errors.New("broker unavailable")}

	uc := NewUseCase(repo, &fakeResolver{}, &fakeCatalog{service: paidService()}, &fakeTxManager{}, notifier, nopLogger{})

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, string(domain.PaymentPaid), resp.PaymentStatus)
}

func TestExecute_ValidationErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(req *Request)
	}{
		{"zero booking id", func(req *Request) { req.BookingID = 0 }},
		{"negative amount", func(req *Request) { req.Amount = -10 }},
		{"bad currency", func(req *Request) { req.Currency = "PESO" }},
		{"empty method", func(req *Request) { req.Method = "" }},
		{"empty transaction id", func(req *Request) { req.TransactionID = "" }},
	}

	uc := NewUseCase(&fakeRepo{}, &fakeResolver{}, &fakeCatalog{}, &fakeTxManager{}, &fakeNotifier{}, nopLogger{})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)

			_, err := uc.Execute(context.Background(), req)
			require.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
