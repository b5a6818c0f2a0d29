package appointments

import (
	"context"

	"github.com/marllouie99/DioceseIligan-BookingService/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	GetByRequesterID(ctx context.Context, requesterID int64, status *domain.AppointmentStatus) ([]*domain.Appointment, error)
	GetByChurchWithFilter(ctx context.Context, filter domain.ChurchAppointmentsFilter) ([]*domain.Appointment, error)
	UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) error
	Decline(ctx context.Context, id int64, reason string) error
	Cancel(ctx context.Context, id int64, reason string) error
}

// Notifier интерфейс публикации событий записи (fire-and-forget)
type Notifier interface {
	Publish(ctx context.Context, routingKey string, payload interface{}) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
