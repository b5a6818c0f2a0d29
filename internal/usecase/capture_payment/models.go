package capture_payment

import "time"

// Request модель callback платёжного шлюза.
// Подтверждение оплаты шлюзом считается доверенным внешним входом;
// сумма при этом перепроверяется по каталогу услуг.
type Request struct {
	BookingID     int64   // ID записи
	Amount        float64 // Заявленная сумма платежа
	Currency      string  // Валюта платежа (ISO 4217)
	Method        string  // Способ оплаты (gcash, paymaya, card, ...)
	TransactionID string  // Внешний идентификатор транзакции шлюза
}

// Response модель результата обработки платежа
type Response struct {
	BookingID         int64     // ID записи
	Code              *string   // Человекочитаемый код записи
	PaymentStatus     string    // Статус оплаты (paid)
	PaymentAmount     float64   // Записанная сумма
	PaymentCapturedAt time.Time // Время фиксации платежа
	CancelledSiblings int       // Сколько конкурирующих записей отменено
}
