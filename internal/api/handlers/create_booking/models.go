package create_booking

import (
	"time"

	"github.com/marllouie99/DioceseIligan-BookingService/internal/domain"
	createBooking "github.com/marllouie99/DioceseIligan-BookingService/internal/usecase/create_booking"
	"github.com/marllouie99/DioceseIligan-BookingService/pkg/types"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	ChurchID    int64   `json:"churchId"`
	ServiceID   int64   `json:"serviceId"`
	BookingDate string  `json:"bookingDate"` // "2025-10-15"
	StartTime   string  `json:"startTime"`   // "10:00"
	EndTime     string  `json:"endTime"`     // "11:00"
	Notes       *string `json:"notes,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID            int64   `json:"id"`
	Code          string  `json:"code"`
	ChurchID      int64   `json:"churchId"`
	ServiceID     int64   `json:"serviceId"`
	RequesterID   int64   `json:"requesterId"`
	BookingDate   string  `json:"bookingDate"`
	StartTime     string  `json:"startTime"`
	EndTime       string  `json:"endTime"`
	Status        string  `json:"status"`
	PaymentStatus string  `json:"paymentStatus"`
	PaymentAmount float64 `json:"paymentAmount"`
	ServiceName   string  `json:"serviceName"`
	Notes         *string `json:"notes,omitempty"`
	CreatedAt     string  `json:"createdAt"`
	UpdatedAt     string  `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(requesterID int64) (*createBooking.Request, error) {
	bookingDate, err := time.Parse(domain.DateFormat, r.BookingDate)
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	endTime, err := types.NewTimeStringFromString(r.EndTime)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		ChurchID:    r.ChurchID,
		ServiceID:   r.ServiceID,
		RequesterID: requesterID,
		Date:        bookingDate,
		StartTime:   startTime,
		EndTime:     endTime,
		Notes:       r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:            resp.ID,
		Code:          resp.Code,
		ChurchID:      resp.ChurchID,
		ServiceID:     resp.ServiceID,
		RequesterID:   resp.RequesterID,
		BookingDate:   resp.BookingDate.Format(domain.DateFormat),
		StartTime:     resp.StartTime.String(),
		EndTime:       resp.EndTime.String(),
		Status:        resp.Status,
		PaymentStatus: resp.PaymentStatus,
		PaymentAmount: resp.PaymentAmount,
		ServiceName:   resp.ServiceName,
		Notes:         resp.Notes,
		CreatedAt:     resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     resp.UpdatedAt.Format(time.RFC3339),
	}
}
