package appointments

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("appointment not found")

	// ErrInvalidTransition возвращается при недопустимом переходе статуса.
	// Это всегда ошибка вызывающей стороны; переход никогда не приводится
	// к "ближайшему допустимому" состоянию.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrReasonRequired возвращается, когда для перехода не указана обязательная причина
	ErrReasonRequired = errors.New("reason is required for this transition")

	// ErrAccessDenied возвращается, когда у пользователя нет прав на действие
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
