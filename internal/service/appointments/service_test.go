package appointments

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
	"github.com/marllouie99/DioceseIligan-BookingService/internal/service/appointments/models"
	"github.com/marllouie99/DioceseIligan-BookingService/pkg/ptr"
)

type fakeRepo struct {
	appointments map[int64]*domain.Appointment

	updatedStatus  map[int64]domain.AppointmentStatus
	declineReasons map[int64]string
	cancelReasons  map[int64]string
}

func newFakeRepo(appts ...*domain.Appointment) *fakeRepo {
	repo := &fakeRepo{
		appointments:   make(map[int64]*domain.Appointment),
		updatedStatus:  make(map[int64]domain.AppointmentStatus),
		declineReasons: make(map[int64]string),
		cancelReasons:  make(map[int64]string),
	}
	for _, appt := range appts {
		repo.appointments[appt.ID] = appt
	}
	return repo
}

func (f *fakeRepo) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	appt, ok := f.appointments[id]
	if !ok {
		return nil, apptRepo.ErrAppointmentNotFound
	}
	return appt, nil
}

func (f *fakeRepo) GetByRequesterID(ctx context.Context, requesterID int64, status *domain.AppointmentStatus) ([]*domain.Appointment, error) {
	var result []*domain.Appointment
	for _, appt := range f.appointments {
		if appt.RequesterID != requesterID {
			continue
		}
		if status != nil && appt.Status != *status {
			continue
		}
		result = append(result, appt)
	}
	return result, nil
}

func (f *fakeRepo) GetByChurchWithFilter(ctx context.Context, filter domain.ChurchAppointmentsFilter) ([]*domain.Appointment, error) {
	var result []*domain.Appointment
	for _, appt := range f.appointments {
		if appt.ChurchID != filter.ChurchID {
			continue
		}
		if !filter.IncludeInactive && appt.IsTerminal() {
			continue
		}
		if filter.Status != nil && appt.Status != *filter.Status {
			continue
		}
		result = append(result, appt)
	}
	return result, nil
}

func (f *fakeRepo) UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) error {
	if _, ok := f.appointments[id]; !ok {
		return apptRepo.ErrAppointmentNotFound
	}
	f.updatedStatus[id] = status
	return nil
}

func (f *fakeRepo) Decline(ctx context.Context, id int64, reason string) error {
	if _, ok := f.appointments[id]; !ok {
		return apptRepo.ErrAppointmentNotFound
	}
	f.declineReasons[id] = reason
	return nil
}

func (f *fakeRepo) Cancel(ctx context.Context, id int64, reason string) error {
	if _, ok := f.appointments[id]; !ok {
		return apptRepo.ErrAppointmentNotFound
	}
	f.cancelReasons[id] = reason
	return nil
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

func appointment(id int64, status domain.AppointmentStatus) *domain.Appointment {
	return &domain.Appointment{
		ID:            id,
		Code:          ptr.Ptr("APPT-0042"),
		ChurchID:      7,
		ServiceID:     3,
		RequesterID:   100,
		BookingDate:   time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC),
		StartTime:     "10:00",
		EndTime:       "11:00",
		Status:        status,
		PaymentStatus: domain.PaymentPending,
		ServiceName:   "Wedding",
		CreatedAt:     time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
		UpdatedAt:     time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
	}
}

func transitionReq(actorID int64, role, action string, reason *string) *models.TransitionRequest {
	return &models.TransitionRequest{
		ActorID:   actorID,
		ActorRole: role,
		Action:    action,
		Reason:    reason,
	}
}

func TestGetByID(t *testing.T) {
	svc := NewService(newFakeRepo(appointment(42, domain.StatusRequested)), &fakeNotifier{}, nopLogger{})

	t.Run("owner sees own appointment", func(t *testing.T) {
		resp, err := svc.GetByID(context.Background(), 42, 100, models.RoleRequester)
		require.NoError(t, err)
		assert.Equal(t, int64(42), resp.ID)
		assert.Equal(t, "2026-09-14", resp.BookingDate)
	})

	t.Run("church sees any appointment", func(t *testing.T) {
		_, err := svc.GetByID(context.Background(), 42, 999, models.RoleChurch)
		require.NoError(t, err)
	})

	t.Run("stranger denied", func(t *testing.T) {
		_, err := svc.GetByID(context.Background(), 42, 999, models.RoleRequester)
		require.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("missing appointment", func(t *testing.T) {
		_, err := svc.GetByID(context.Background(), 777, 100, models.RoleRequester)
		require.ErrorIs(t, err, ErrAppointmentNotFound)
	})
}

func TestGetRequesterAppointments(t *testing.T) {
	requested := appointment(1, domain.StatusRequested)
	cancelled := appointment(2, domain.StatusCancelled)
	svc := NewService(newFakeRepo(requested, cancelled), &fakeNotifier{}, nopLogger{})

	t.Run("full history includes terminal", func(t *testing.T) {
		resp, err := svc.GetRequesterAppointments(context.Background(), &models.GetRequesterAppointmentsRequest{
			RequesterID: 100,
		})
		require.NoError(t, err)
		assert.Equal(t, 2, resp.Total)
	})

	t.Run("status filter", func(t *testing.T) {
		resp, err := svc.GetRequesterAppointments(context.Background(), &models.GetRequesterAppointmentsRequest{
			RequesterID: 100,
			Status:      ptr.Ptr("cancelled"),
		})
		require.NoError(t, err)
		assert.Equal(t, 1, resp.Total)
	})

	t.Run("invalid status", func(t *testing.T) {
		_, err := svc.GetRequesterAppointments(context.Background(), &models.GetRequesterAppointmentsRequest{
			RequesterID: 100,
			Status:      ptr.Ptr("archived"),
		})
		require.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestGetChurchAppointments(t *testing.T) {
	active := appointment(1, domain.StatusApproved)
	declined := appointment(2, domain.StatusDeclined)
	svc := NewService(newFakeRepo(active, declined), &fakeNotifier{}, nopLogger{})

	t.Run("active only by default", func(t *testing.T) {
		resp, err := svc.GetChurchAppointments(context.Background(), &models.GetChurchAppointmentsRequest{
			ChurchID: 7,
		})
		require.NoError(t, err)
		assert.Equal(t, 1, resp.Total)
	})

	t.Run("include inactive", func(t *testing.T) {
		resp, err := svc.GetChurchAppointments(context.Background(), &models.GetChurchAppointmentsRequest{
			ChurchID:        7,
			IncludeInactive: true,
		})
		require.NoError(t, err)
		assert.Equal(t, 2, resp.Total)
	})
}

func TestTransition_StateMachine(t *testing.T) {
	tests := []struct {
		name       string
		from       domain.AppointmentStatus
		action     string
		wantStatus string
		wantErr    error
	}{
		{"review from requested", domain.StatusRequested, "review", "reviewed", nil},
		{"approve from reviewed", domain.StatusReviewed, "approve", "approved", nil},
		{"complete from approved", domain.StatusApproved, "complete", "completed", nil},
		{"cancel from requested", domain.StatusRequested, "cancel", "cancelled", nil},
		{"cancel from approved", domain.StatusApproved, "cancel", "cancelled", nil},
		{"approve from requested skips review", domain.StatusRequested, "approve", "", ErrInvalidTransition},
		{"review from approved", domain.StatusApproved, "review", "", ErrInvalidTransition},
		{"complete from reviewed", domain.StatusReviewed, "complete", "", ErrInvalidTransition},
		{"cancel from completed", domain.StatusCompleted, "cancel", "", ErrInvalidTransition},
		{"approve from cancelled", domain.StatusCancelled, "approve", "", ErrInvalidTransition},
		{"decline from declined", domain.StatusDeclined, "decline", "", ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(newFakeRepo(appointment(42, tt.from)), &fakeNotifier{}, nopLogger{})

			reason := "busy"
			resp, err := svc.Transition(context.Background(), 42,
				transitionReq(1, models.RoleChurch, tt.action, &reason))

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.NewStatus)
		})
	}
}

func TestTransition_PaidAppointmentStillNeedsReview(t *testing.T) {
	// Оплата не продвигает запись по графу: approve из requested
	// недопустим даже для оплаченной записи
	paid := appointment(42, domain.StatusRequested)
	paid.PaymentStatus = domain.PaymentPaid
	svc := NewService(newFakeRepo(paid), &fakeNotifier{}, nopLogger{})

	_, err := svc.Transition(context.Background(), 42, transitionReq(1, models.RoleChurch, "approve", nil))
	require.ErrorIs(t, err, ErrInvalidTransition)

	resp, err := svc.Transition(context.Background(), 42, transitionReq(1, models.RoleChurch, "review", nil))
	require.NoError(t, err)
	assert.Equal(t, "reviewed", resp.NewStatus)
}

func TestTransition_DeclineRequiresReason(t *testing.T) {
	svc := NewService(newFakeRepo(appointment(42, domain.StatusRequested)), &fakeNotifier{}, nopLogger{})

	_, err := svc.Transition(context.Background(), 42, transitionReq(1, models.RoleChurch, "decline", nil))
	require.ErrorIs(t, err, ErrReasonRequired)

	empty := ""
	_, err = svc.Transition(context.Background(), 42, transitionReq(1, models.RoleChurch, "decline", &empty))
	require.ErrorIs(t, err, ErrReasonRequired)
}

func TestTransition_DeclineStoresReason(t *testing.T) {
	repo := newFakeRepo(appointment(42, domain.StatusReviewed))
	svc := NewService(repo, &fakeNotifier{}, nopLogger{})

	reason := "schedule conflict"
	resp, err := svc.Transition(context.Background(), 42, transitionReq(1, models.RoleChurch, "decline", &reason))
	require.NoError(t, err)
	assert.Equal(t, "declined", resp.NewStatus)
	assert.Equal(t, reason, repo.declineReasons[42])
}

func TestTransition_RequesterPermissions(t *testing.T) {
	t.Run("requester may cancel own appointment", func(t *testing.T) {
		repo := newFakeRepo(appointment(42, domain.StatusApproved))
		svc := NewService(repo, &fakeNotifier{}, nopLogger{})

		resp, err := svc.Transition(context.Background(), 42, transitionReq(100, models.RoleRequester, "cancel", nil))
		require.NoError(t, err)
		assert.Equal(t, "cancelled", resp.NewStatus)
		assert.Equal(t, "Cancelled by the requester", repo.cancelReasons[42])
	})

	t.Run("requester may not cancel someone else's", func(t *testing.T) {
		svc := NewService(newFakeRepo(appointment(42, domain.StatusApproved)), &fakeNotifier{}, nopLogger{})

		_, err := svc.Transition(context.Background(), 42, transitionReq(999, models.RoleRequester, "cancel", nil))
		require.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("requester may not approve", func(t *testing.T) {
		svc := NewService(newFakeRepo(appointment(42, domain.StatusReviewed)), &fakeNotifier{}, nopLogger{})

		_, err := svc.Transition(context.Background(), 42, transitionReq(100, models.RoleRequester, "approve", nil))
		require.ErrorIs(t, err, ErrAccessDenied)
	})
}

func TestTransition_ChurchCancelDefaultReason(t *testing.T) {
	repo := newFakeRepo(appointment(42, domain.StatusRequested))
	svc := NewService(repo, &fakeNotifier{}, nopLogger{})

	_, err := svc.Transition(context.Background(), 42, transitionReq(1, models.RoleChurch, "cancel", nil))
	require.NoError(t, err)
	assert.Equal(t, "Cancelled by the church", repo.cancelReasons[42])
}

func TestTransition_PublishesEvent(t *testing.T) {
	notifier := &fakeNotifier{}
	svc := NewService(newFakeRepo(appointment(42, domain.StatusReviewed)), notifier, nopLogger{})

	_, err := svc.Transition(context.Background(), 42, transitionReq(1, models.RoleChurch, "approve", nil))
	require.NoError(t, err)
	assert.Equal(t, []string{events.RKApproved}, notifier.published)
}

func TestTransition_PublishFailureSwallowed(t *testing.T) {
	notifier := &fakeNotifier{err: errors.New("broker down")}
	svc := NewService(newFakeRepo(appointment(42, domain.StatusRequested)), notifier, nopLogger{})

	resp, err := svc.Transition(context.Background(), 42, transitionReq(1, models.RoleChurch, "review", nil))
	require.NoError(t, err)
	assert.Equal(t, "reviewed", resp.NewStatus)
}

func TestTransition_InvalidInput(t *testing.T) {
	svc := NewService(newFakeRepo(appointment(42, domain.StatusRequested)), &fakeNotifier{}, nopLogger{})

	_, err := svc.Transition(context.Background(), 42, transitionReq(1, "admin", "review", nil))
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Transition(context.Background(), 42, transitionReq(1, models.RoleChurch, "archive", nil))
	require.ErrorIs(t, err, ErrInvalidInput)
}
