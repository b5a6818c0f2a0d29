package availability

import "errors"

var (
	// ErrChurchNotFound возвращается, когда церковь не найдена в календаре
	ErrChurchNotFound = errors.New("church not found in availability calendar")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("availability client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от календаря
	ErrInvalidResponse = errors.New("availability client: invalid response")
)
