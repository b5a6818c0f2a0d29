package create_booking

import (
	"context"
	"time"

	"github.com/marllouie99/DioceseIligan-BookingService/internal/domain"
	"github.com/marllouie99/DioceseIligan-BookingService/internal/integrations/availability"
	"github.com/marllouie99/DioceseIligan-BookingService/internal/integrations/servicecatalog"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error)
	AssignCode(ctx context.Context, id int64) (string, error)
}

// CatalogClient интерфейс клиента каталога услуг
type CatalogClient interface {
	GetService(ctx context.Context, churchID, serviceID int64) (*servicecatalog.Service, error)
}

// AvailabilityClient интерфейс клиента календаря доступности
type AvailabilityClient interface {
	GetDaySchedule(ctx context.Context, churchID int64, date time.Time) (*availability.DaySchedule, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
