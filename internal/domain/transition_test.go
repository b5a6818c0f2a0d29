package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	allStatuses := []AppointmentStatus{
		StatusRequested, StatusReviewed, StatusApproved,
		StatusDeclined, StatusCancelled, StatusCompleted,
	}

	allowed := map[TransitionAction][]AppointmentStatus{
		ActionReview:   {StatusRequested},
		ActionApprove:  {StatusReviewed},
		ActionDecline:  {StatusRequested, StatusReviewed},
		ActionComplete: {StatusApproved},
		ActionCancel:   {StatusRequested, StatusReviewed, StatusApproved},
	}

	for action, sources := range allowed {
		allowedSet := make(map[AppointmentStatus]bool)
		for _, src := range sources {
			allowedSet[src] = true
		}

		for _, from := range allStatuses {
			got := CanTransition(from, action)
			assert.Equal(t, allowedSet[from], got, "%s from %s", action, from)
		}
	}
}

func TestTerminalStatusesHaveNoExits(t *testing.T) {
	actions := []TransitionAction{ActionReview, ActionApprove, ActionDecline, ActionComplete, ActionCancel}

	for _, from := range []AppointmentStatus{StatusDeclined, StatusCancelled, StatusCompleted} {
		for _, action := range actions {
			assert.False(t, CanTransition(from, action), "%s from terminal %s", action, from)
		}
	}
}

func TestTargetStatus(t *testing.T) {
	tests := []struct {
		action TransitionAction
		target AppointmentStatus
	}{
		{ActionReview, StatusReviewed},
		{ActionApprove, StatusApproved},
		{ActionDecline, StatusDeclined},
		{ActionComplete, StatusCompleted},
		{ActionCancel, StatusCancelled},
	}

	for _, tt := range tests {
		target, ok := TargetStatus(tt.action)
		assert.True(t, ok)
		assert.Equal(t, tt.target, target)
	}

	_, ok := TargetStatus("archive")
	assert.False(t, ok)
}

func TestIsValidAction(t *testing.T) {
	assert.True(t, IsValidAction(ActionReview))
	assert.True(t, IsValidAction(ActionCancel))
	assert.False(t, IsValidAction("archive"))
	assert.False(t, IsValidAction(""))
}

func TestAppointmentPredicates(t *testing.T) {
	t.Run("terminal", func(t *testing.T) {
		assert.False(t, (&Appointment{Status: StatusRequested}).IsTerminal())
		assert.False(t, (&Appointment{Status: StatusApproved}).IsTerminal())
		assert.True(t, (&Appointment{Status: StatusDeclined}).IsTerminal())
		assert.True(t, (&Appointment{Status: StatusCancelled}).IsTerminal())
		assert.True(t, (&Appointment{Status: StatusCompleted}).IsTerminal())
	})

	t.Run("paid", func(t *testing.T) {
		assert.False(t, (&Appointment{PaymentStatus: PaymentPending}).IsPaid())
		assert.False(t, (&Appointment{PaymentStatus: PaymentFailed}).IsPaid())
		assert.True(t, (&Appointment{PaymentStatus: PaymentPaid}).IsPaid())
	})

	t.Run("cancellable by requester", func(t *testing.T) {
		assert.True(t, (&Appointment{Status: StatusRequested}).CanBeCancelledByRequester())
		assert.True(t, (&Appointment{Status: StatusApproved}).CanBeCancelledByRequester())
		assert.False(t, (&Appointment{Status: StatusCompleted}).CanBeCancelledByRequester())
		assert.False(t, (&Appointment{Status: StatusDeclined}).CanBeCancelledByRequester())
	})
}
