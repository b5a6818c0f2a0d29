package create_booking

import (
	"time"

	"github.com/marllouie99/DioceseIligan-BookingService/pkg/types"
)

// Request модель запроса на создание записи
type Request struct {
	ChurchID    int64            // ID церкви
	ServiceID   int64            // ID услуги
	RequesterID int64            // ID пользователя
	Date        time.Time        // Дата записи (без времени)
	StartTime   types.TimeString // Начало запрошенного окна (например, "10:00")
	EndTime     types.TimeString // Конец запрошенного окна
	Notes       *string          // Дополнительные заметки (опционально)
}

// Response модель ответа с созданной записью
type Response struct {
	ID            int64            // ID созданной записи
	Code          string           // Человекочитаемый код (APPT-XXXX)
	ChurchID      int64            // ID церкви
	ServiceID     int64            // ID услуги
	RequesterID   int64            // ID пользователя
	BookingDate   time.Time        // Дата записи
	StartTime     types.TimeString // Начало окна
	EndTime       types.TimeString // Конец окна
	Status        string           // Статус записи (requested)
	PaymentStatus string           // Статус оплаты (pending)
	PaymentAmount float64          // Информационная цена из каталога на момент создания

	// Денормализованные данные
	ServiceName string  // Название услуги
	Notes       *string // Заметки

	CreatedAt time.Time // Время создания
	UpdatedAt time.Time // Время обновления
}
