package create_booking

import (
	"fmt"
	"time"

	"github.com/marllouie99/DioceseIligan-BookingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ChurchID <= 0 {
		return fmt.Errorf("%w: churchID must be positive", ErrInvalidInput)
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if req.RequesterID <= 0 {
		return fmt.Errorf("%w: requesterID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}
	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}

	if req.EndTime.IsZero() {
		return fmt.Errorf("%w: endTime is required", ErrInvalidInput)
	}
	if err := req.EndTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid endTime format: %v", ErrInvalidInput, err)
	}

	if !req.StartTime.IsBefore(req.EndTime) {
		return fmt.Errorf("%w: startTime must be before endTime", ErrInvalidInput)
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

// validateDate проверяет, что дата записи не в прошлом
func validateDate(bookingDate time.Time, now time.Time) error {
	dateOnly := time.Date(bookingDate.Year(), bookingDate.Month(), bookingDate.Day(), 0, 0, 0, 0, bookingDate.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	if dateOnly.Before(nowOnly) {
		return ErrInvalidDate
	}

	return nil
}
