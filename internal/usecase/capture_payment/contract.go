package capture_payment

import (
	"context"
	"time"

	"github.com/marllouie99/DioceseIligan-BookingService/internal/domain"
	"github.com/marllouie99/DioceseIligan-BookingService/internal/integrations/servicecatalog"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	RecordPayment(ctx context.Context, id int64, amount float64, method, transactionID string) (time.Time, error)
}

// ConflictResolver интерфейс движка разрешения конфликтов.
// Вызывается строго внутри транзакции записи платежа.
type ConflictResolver interface {
	Resolve(ctx context.Context, churchID int64, date time.Time, winnerID int64) ([]*domain.Appointment, error)
}

// CatalogClient интерфейс клиента каталога услуг
type CatalogClient interface {
	GetService(ctx context.Context, churchID, serviceID int64) (*servicecatalog.Service, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
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
