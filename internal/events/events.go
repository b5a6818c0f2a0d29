package events

// Routing keys для событий записи. Доставкой занимается внешний диспетчер,
// сервис только публикует их в topic exchange.
const (
	RKPaymentReceived = "booking.payment_received"
	RKSiblingCanceled = "booking.sibling_canceled"
	RKReviewed        = "booking.reviewed"
	RKApproved        = "booking.approved"
	RKDeclined        = "booking.declined"
	RKCompleted       = "booking.completed"
	RKCancelled       = "booking.cancelled"
)

// BookingEvent полезная нагрузка всех событий записи
type BookingEvent struct {
	BookingID   int64   `json:"booking_id"`
	Code        *string `json:"code,omitempty"`
	ChurchID    int64   `json:"church_id"`
	RequesterID int64   `json:"requester_id"`
	Reason      *string `json:"reason,omitempty"`
}
