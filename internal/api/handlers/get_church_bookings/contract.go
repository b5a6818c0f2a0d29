package get_church_bookings

import (
	"context"

	"github.com/marllouie99/DioceseIligan-BookingService/internal/service/appointments/models"
)

type AppointmentService interface {
	GetChurchAppointments(ctx context.Context, req *models.GetChurchAppointmentsRequest) (*models.AppointmentListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
