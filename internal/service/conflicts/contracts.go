package conflicts

import (
	"context"
	"time"

	"github.com/marllouie99/DioceseIligan-BookingService/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetSiblingsForUpdate(ctx context.Context, churchID int64, date time.Time, winnerID int64) ([]*domain.Appointment, error)
	Cancel(ctx context.Context, id int64, reason string) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
