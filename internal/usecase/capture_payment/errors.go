package capture_payment

import "errors"

var (
	// ErrBookingNotFound возвращается, когда запись не найдена
	ErrBookingNotFound = errors.New("capture_payment: booking not found")

	// ErrAlreadyPaid возвращается при повторном callback шлюза по уже
	// оплаченной записи. Защита идемпотентности: дубликат не создаёт
	// второй платёжной записи.
	ErrAlreadyPaid = errors.New("capture_payment: booking is already paid")

	// ErrFreeServiceNotPayable возвращается при попытке оплатить бесплатную услугу
	ErrFreeServiceNotPayable = errors.New("capture_payment: free service is not payable")

	// ErrPriceUnset возвращается, когда у услуги не настроена цена
	ErrPriceUnset = errors.New("capture_payment: service has no price configured")

	// ErrAmountMismatch возвращается, когда заявленная сумма не совпадает
	// с канонической ценой услуги из каталога. Защита от подмены суммы
	// на клиенте: несовпадение отклоняется, а не исправляется молча.
	ErrAmountMismatch = errors.New("capture_payment: reported amount does not match service price")

	// ErrServiceNotFound возвращается, когда услуга записи не найдена в каталоге
	ErrServiceNotFound = errors.New("capture_payment: service not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("capture_payment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("capture_payment: internal error")
)
