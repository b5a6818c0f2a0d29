package models

import (
	"errors"
	"time"

	"github.com/marllouie99/DioceseIligan-BookingService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid appointment status")

	// ErrInvalidAction возвращается при неизвестном действии перехода
	ErrInvalidAction = errors.New("invalid transition action")

	// ErrInvalidRole возвращается при неизвестной роли инициатора
	ErrInvalidRole = errors.New("invalid actor role")
)

// Роли инициаторов переходов
const (
	RoleRequester = "requester"
	RoleChurch    = "church"
)

// Request модели

// TransitionRequest запрос на переход статуса записи
type TransitionRequest struct {
	ActorID   int64   `json:"actorId"`
	ActorRole string  `json:"actorRole"`
	Action    string  `json:"action"`
	Reason    *string `json:"reason,omitempty"`
}

// GetRequesterAppointmentsRequest запрос на получение записей пользователя
type GetRequesterAppointmentsRequest struct {
	RequesterID int64   `json:"requesterId"`
	Status      *string `json:"status,omitempty"`
}

// GetChurchAppointmentsRequest запрос на получение записей церкви
type GetChurchAppointmentsRequest struct {
	ChurchID        int64      `json:"churchId"`
	StartDate       *time.Time `json:"startDate,omitempty"`
	EndDate         *time.Time `json:"endDate,omitempty"`
	Status          *string    `json:"status,omitempty"`
	IncludeInactive bool       `json:"includeInactive"`
}

// ToDomainFilter конвертирует запрос в доменный фильтр
func (r *GetChurchAppointmentsRequest) ToDomainFilter() (domain.ChurchAppointmentsFilter, error) {
	filter := domain.ChurchAppointmentsFilter{
		ChurchID:        r.ChurchID,
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		IncludeInactive: r.IncludeInactive,
	}

	if r.Status != nil {
		status, err := ToDomainStatus(*r.Status)
		if err != nil {
			return domain.ChurchAppointmentsFilter{}, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// AppointmentResponse представление записи для вызывающей стороны
type AppointmentResponse struct {
	ID                int64    `json:"id"`
	Code              *string  `json:"code,omitempty"`
	ChurchID          int64    `json:"churchId"`
	ServiceID         int64    `json:"serviceId"`
	RequesterID       int64    `json:"requesterId"`
	BookingDate       string   `json:"bookingDate"`
	StartTime         string   `json:"startTime"`
	EndTime           string   `json:"endTime"`
	Status            string   `json:"status"`
	PaymentStatus     string   `json:"paymentStatus"`
	PaymentAmount     float64  `json:"paymentAmount"`
	PaymentMethod     *string  `json:"paymentMethod,omitempty"`
	TransactionID     *string  `json:"transactionId,omitempty"`
	PaymentCapturedAt *string  `json:"paymentCapturedAt,omitempty"`
	DeclineReason     *string  `json:"declineReason,omitempty"`
	CancelReason      *string  `json:"cancelReason,omitempty"`
	ServiceName       string   `json:"serviceName"`
	Notes             *string  `json:"notes,omitempty"`
	CreatedAt         string   `json:"createdAt"`
	UpdatedAt         string   `json:"updatedAt"`
}

// AppointmentListResponse список записей
type AppointmentListResponse struct {
	Appointments []*AppointmentResponse `json:"appointments"`
	Total        int                    `json:"total"`
}

// TransitionResponse результат перехода статуса
type TransitionResponse struct {
	ID        int64  `json:"id"`
	NewStatus string `json:"newStatus"`
}

// FromDomainAppointment конвертирует доменную модель в response
func FromDomainAppointment(appt *domain.Appointment) *AppointmentResponse {
	resp := &AppointmentResponse{
		ID:            appt.ID,
		Code:          appt.Code,
		ChurchID:      appt.ChurchID,
		ServiceID:     appt.ServiceID,
		RequesterID:   appt.RequesterID,
		BookingDate:   appt.BookingDate.Format(domain.DateFormat),
		StartTime:     appt.StartTime.String(),
		EndTime:       appt.EndTime.String(),
		Status:        string(appt.Status),
		PaymentStatus: string(appt.PaymentStatus),
		PaymentAmount: appt.PaymentAmount,
		PaymentMethod: appt.PaymentMethod,
		TransactionID: appt.TransactionID,
		DeclineReason: appt.DeclineReason,
		CancelReason:  appt.CancelReason,
		ServiceName:   appt.ServiceName,
		Notes:         appt.Notes,
		CreatedAt:     appt.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     appt.UpdatedAt.Format(time.RFC3339),
	}

	if appt.PaymentCapturedAt != nil {
		capturedAt := appt.PaymentCapturedAt.Format(time.RFC3339)
		resp.PaymentCapturedAt = &capturedAt
	}

	return resp
}

// FromDomainAppointmentList конвертирует список доменных моделей в response
func FromDomainAppointmentList(appointments []*domain.Appointment) *AppointmentListResponse {
	items := make([]*AppointmentResponse, 0, len(appointments))
	for _, appt := range appointments {
		items = append(items, FromDomainAppointment(appt))
	}
	return &AppointmentListResponse{
		Appointments: items,
		Total:        len(items),
	}
}

// ToDomainStatus конвертирует строку в доменный статус
func ToDomainStatus(s string) (domain.AppointmentStatus, error) {
	status := domain.AppointmentStatus(s)
	switch status {
	case domain.StatusRequested, domain.StatusReviewed, domain.StatusApproved,
		domain.StatusDeclined, domain.StatusCancelled, domain.StatusCompleted:
		return status, nil
	default:
		return "", ErrInvalidStatus
	}
}

// ToDomainAction конвертирует строку в доменное действие перехода
func ToDomainAction(s string) (domain.TransitionAction, error) {
	action := domain.TransitionAction(s)
	if !domain.IsValidAction(action) {
		return "", ErrInvalidAction
	}
	return action, nil
}

// ValidateRole проверяет роль инициатора
func ValidateRole(role string) error {
	if role != RoleRequester && role != RoleChurch {
		return ErrInvalidRole
	}
	return nil
}
