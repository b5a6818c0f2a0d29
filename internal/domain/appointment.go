package domain

import (
	"time"

	"github.com/marllouie99/DioceseIligan-BookingService/pkg/types"
)

// AppointmentStatus represents the review status of an appointment request
type AppointmentStatus string

const (
	StatusRequested AppointmentStatus = "requested"
	StatusReviewed  AppointmentStatus = "reviewed"
	StatusApproved  AppointmentStatus = "approved"
	StatusDeclined  AppointmentStatus = "declined"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusCompleted AppointmentStatus = "completed"
)

// PaymentStatus represents the payment state of an appointment.
// It evolves independently of AppointmentStatus: a paid appointment
// still has to go through church review.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

// Appointment represents one appointment request linking a requester,
// a church and a service for a specific date and time window.
type Appointment struct {
	ID   int64
	Code *string // human-readable identifier "APPT-XXXX", assigned once after first insert

	ChurchID    int64
	ServiceID   int64
	RequesterID int64

	BookingDate time.Time
	StartTime   types.TimeString
	EndTime     types.TimeString

	Status        AppointmentStatus
	PaymentStatus PaymentStatus

	// Payment fields, written only by the payment capture flow.
	// PaymentAmount is pre-populated at creation from the catalog price as an
	// informational default; capture re-validates against the catalog.
	PaymentAmount     float64
	PaymentMethod     *string
	TransactionID     *string
	PaymentCapturedAt *time.Time

	DeclineReason *string
	CancelReason  *string
	CancelledAt   *time.Time

	// Denormalized data for history
	ServiceName string
	Notes       *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsTerminal returns true if no further status transitions are permitted
func (a *Appointment) IsTerminal() bool {
	return a.Status == StatusDeclined ||
		a.Status == StatusCancelled ||
		a.Status == StatusCompleted
}

// IsActive returns true if the appointment still occupies its slot
func (a *Appointment) IsActive() bool {
	return !a.IsTerminal()
}

// IsPaid returns true if payment has been captured for the appointment
func (a *Appointment) IsPaid() bool {
	return a.PaymentStatus == PaymentPaid
}

// CanBeCancelledByRequester returns true if the requester may still cancel
func (a *Appointment) CanBeCancelledByRequester() bool {
	return a.Status == StatusRequested ||
		a.Status == StatusReviewed ||
		a.Status == StatusApproved
}

// ChurchAppointmentsFilter фильтр для получения записей церкви
type ChurchAppointmentsFilter struct {
	ChurchID        int64              // Обязательный параметр
	StartDate       *time.Time         // Начало периода (опционально)
	EndDate         *time.Time         // Конец периода (опционально)
	Status          *AppointmentStatus // Фильтр по статусу (опционально)
	IncludeInactive bool               // Включать ли терминальные записи
}
