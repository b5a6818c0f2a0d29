package create_booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marllouie99/DioceseIligan-BookingService/internal/domain"
	"github.com/marllouie99/DioceseIligan-BookingService/internal/integrations/availability"
	"github.com/marllouie99/DioceseIligan-BookingService/internal/integrations/servicecatalog"
	"github.com/marllouie99/DioceseIligan-BookingService/pkg/ptr"
)

type fakeRepo struct {
	create     func(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error)
	assignCode func(ctx context.Context, id int64) (string, error)

	createCalls     int
	assignCodeCalls int
}

func (f *fakeRepo) Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	f.createCalls++
	return f.create(ctx, appt)
}

func (f *fakeRepo) AssignCode(ctx context.Context, id int64) (string, error) {
	f.assignCodeCalls++
	return f.assignCode(ctx, id)
}

type fakeCatalog struct {
	service *servicecatalog.Service
	err     error
}

func (f *fakeCatalog) GetService(ctx context.Context, churchID, serviceID int64) (*servicecatalog.Service, error) {
	return f.service, f.err
}

type fakeAvailability struct {
	schedule *availability.DaySchedule
	err      error
}

func (f *fakeAvailability) GetDaySchedule(ctx context.Context, churchID int64, date time.Time) (*availability.DaySchedule, error) {
	return f.schedule, f.err
}

type fakeTxManager struct {
	calls int
}

func (f *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

type fixedTimeProvider struct {
	now time.Time
}

func (p *fixedTimeProvider) Now() time.Time {
	return p.now
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

var testNow = time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

func validRequest() *Request {
	return &Request{
		ChurchID:    7,
		ServiceID:   3,
		RequesterID: 100,
		Date:        time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC),
		StartTime:   "10:00",
		EndTime:     "11:00",
	}
}

func openSchedule() *availability.DaySchedule {
	return &availability.DaySchedule{ChurchID: 7, Date: "2026-09-14"}
}

func catalogService() *servicecatalog.Service {
	return &servicecatalog.Service{
		ID:       3,
		ChurchID: 7,
		Name:     "Wedding",
		Price:    ptr.Ptr(1500.0),
		Currency: "PHP",
	}
}

func newTestUseCase(repo *fakeRepo, catalog *fakeCatalog, avail *fakeAvailability, txMgr *fakeTxManager) *UseCase {
	uc := NewUseCase(repo, catalog, avail, txMgr, nopLogger{})
	uc.timeProvider = &fixedTimeProvider{now: testNow}
	return uc
}

func TestExecute_Success(t *testing.T) {
	repo := &fakeRepo{
		create: func(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
			assert.Equal(t, domain.StatusRequested, appt.Status)
			assert.Equal(t, domain.PaymentPending, appt.PaymentStatus)
			assert.Equal(t, 1500.0, appt.PaymentAmount)
			assert.Equal(t, "Wedding", appt.ServiceName)
			assert.Nil(t, appt.Code)

			created := *appt
			created.ID = 42
			created.CreatedAt = testNow
			created.UpdatedAt = testNow
			return &created, nil
		},
		assignCode: func(ctx context.Context, id int64) (string, error) {
			assert.Equal(t, int64(42), id)
			return "APPT-0042", nil
		},
	}
	txMgr := &fakeTxManager{}

	uc := newTestUseCase(repo, &fakeCatalog{service: catalogService()}, &fakeAvailability{schedule: openSchedule()}, txMgr)

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, int64(42), resp.ID)
	assert.Equal(t, "APPT-0042", resp.Code)
	assert.Equal(t, string(domain.StatusRequested), resp.Status)
	assert.Equal(t, string(domain.PaymentPending), resp.PaymentStatus)
	assert.Equal(t, 1500.0, resp.PaymentAmount)

	// Создание и присвоение кода — ровно по одному разу, в одной транзакции
	assert.Equal(t, 1, txMgr.calls)
	assert.Equal(t, 1, repo.createCalls)
	assert.Equal(t, 1, repo.assignCodeCalls)
}

func TestExecute_FreeServiceZeroAmount(t *testing.T) {
	repo := &fakeRepo{
		create: func(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
			assert.Equal(t, 0.0, appt.PaymentAmount)
			created := *appt
			created.ID = 43
			return &created, nil
		},
		assignCode: func(ctx context.Context, id int64) (string, error) {
			return "APPT-0043", nil
		},
	}
	free := &servicecatalog.Service{ID: 3, ChurchID: 7, Name: "Blessing", IsFree: true}

	uc := newTestUseCase(repo, &fakeCatalog{service: free}, &fakeAvailability{schedule: openSchedule()}, &fakeTxManager{})

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, 0.0, resp.PaymentAmount)
}

func TestExecute_ClosedDayRejected(t *testing.T) {
	repo := &fakeRepo{}
	closed := &availability.DaySchedule{ChurchID: 7, Date: "2026-09-14", Closed: true}

	uc := newTestUseCase(repo, &fakeCatalog{service: catalogService()}, &fakeAvailability{schedule: closed}, &fakeTxManager{})

	_, err := uc.Execute(context.Background(), validRequest())
	require.ErrorIs(t, err, ErrChurchUnavailable)
	assert.Equal(t, 0, repo.createCalls)
}

func TestExecute_OutsideSpecialHoursRejected(t *testing.T) {
	schedule := &availability.DaySchedule{
		ChurchID: 7,
		Date:     "2026-09-14",
		SpecialHours: &availability.HoursWindow{
			Open:  "13:00",
			Close: "17:00",
		},
	}

	uc := newTestUseCase(&fakeRepo{}, &fakeCatalog{service: catalogService()}, &fakeAvailability{schedule: schedule}, &fakeTxManager{})

	_, err := uc.Execute(context.Background(), validRequest())
	require.ErrorIs(t, err, ErrChurchUnavailable)
}

func TestExecute_ChurchNotFound(t *testing.T) {
	uc := newTestUseCase(&fakeRepo{}, &fakeCatalog{service: catalogService()},
		&fakeAvailability{err: availability.ErrChurchNotFound}, &fakeTxManager{})

	_, err := uc.Execute(context.Background(), validRequest())
	require.ErrorIs(t, err, ErrChurchNotFound)
}

func TestExecute_ServiceNotFound(t *testing.T) {
	uc := newTestUseCase(&fakeRepo{}, &fakeCatalog{err: servicecatalog.ErrServiceNotFound},
		&fakeAvailability{schedule: openSchedule()}, &fakeTxManager{})

	_, err := uc.Execute(context.Background(), validRequest())
	require.ErrorIs(t, err, ErrServiceNotFound)
}

func TestExecute_PastDateRejected(t *testing.T) {
	uc := newTestUseCase(&fakeRepo{}, &fakeCatalog{service: catalogService()},
		&fakeAvailability{schedule: openSchedule()}, &fakeTxManager{})

	req := validRequest()
	req.Date = testNow.AddDate(0, 0, -1)

	_, err := uc.Execute(context.Background(), req)
	require.ErrorIs(t, err, ErrInvalidDate)
}

func TestExecute_TodayIsAllowed(t *testing.T) {
	repo := &fakeRepo{
		create: func(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
			created := *appt
			created.ID = 44
			return &created, nil
		},
		assignCode: func(ctx context.Context, id int64) (string, error) {
			return "APPT-0044", nil
		},
	}

	uc := newTestUseCase(repo, &fakeCatalog{service: catalogService()}, &fakeAvailability{schedule: openSchedule()}, &fakeTxManager{})

	req := validRequest()
	req.Date = testNow

	_, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
}

func TestExecute_ValidationErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(req *Request)
	}{
		{"zero church id", func(req *Request) { req.ChurchID = 0 }},
		{"zero service id", func(req *Request) { req.ServiceID = 0 }},
		{"zero requester id", func(req *Request) { req.RequesterID = 0 }},
		{"zero date", func(req *Request) { req.Date = time.Time{} }},
		{"missing start time", func(req *Request) { req.StartTime = "" }},
		{"malformed start time", func(req *Request) { req.StartTime = "25:00" }},
		{"start after end", func(req *Request) { req.StartTime = "12:00"; req.EndTime = "11:00" }},
		{"start equals end", func(req *Request) { req.StartTime = "11:00"; req.EndTime = "11:00" }},
	}

	uc := newTestUseCase(&fakeRepo{}, &fakeCatalog{service: catalogService()},
		&fakeAvailability{schedule: openSchedule()}, &fakeTxManager{})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)

			_, err := uc.Execute(context.Background(), req)
			require.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
