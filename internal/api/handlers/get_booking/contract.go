package get_booking

import (
	"context"

	"github.com/marllouie99/DioceseIligan-BookingService/internal/service/appointments/models"
)

type AppointmentService interface {
	GetByID(ctx context.Context, id int64, actorID int64, actorRole string) (*models.AppointmentResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
