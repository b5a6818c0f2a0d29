package domain

// Appointment code format: "APPT-" followed by a zero-padded sequence number
const (
	CodePrefix = "APPT-"
	CodeDigits = 4
)

// CancelReasonConflict is recorded on sibling appointments cancelled by the
// conflict resolution engine when a competing appointment is paid first.
const CancelReasonConflict = "Another booking for this date was confirmed and paid"

// Business validation constants
const (
	MaxNotesLength         = 500
	MaxReasonLength        = 500
	MaxPaymentMethodLength = 50
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// TerminalStatuses список терминальных статусов записи.
// Из этих статусов переходы запрещены; используется при фильтрации
// кандидатов на системную отмену.
var TerminalStatuses = []AppointmentStatus{
	StatusDeclined,
	StatusCancelled,
	StatusCompleted,
}

// ActiveStatuses список статусов, при которых запись занимает слот
var ActiveStatuses = []AppointmentStatus{
	StatusRequested,
	StatusReviewed,
	StatusApproved,
}
