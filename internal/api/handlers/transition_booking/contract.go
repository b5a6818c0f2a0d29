package transition_booking

import (
	"context"

	"github.com/marllouie99/DioceseIligan-BookingService/internal/service/appointments/models"
)

type AppointmentService interface {
	Transition(ctx context.Context, appointmentID int64, req *models.TransitionRequest) (*models.TransitionResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
