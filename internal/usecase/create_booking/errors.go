package create_booking

import "errors"

var (
	// ErrChurchNotFound возвращается, когда церковь не найдена в календаре
	ErrChurchNotFound = errors.New("create_booking: church not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена в каталоге
	ErrServiceNotFound = errors.New("create_booking: service not found")

	// ErrChurchUnavailable возвращается, когда церковь закрыта в выбранную дату
	// или запрошенное окно не попадает в особые часы приёма.
	// Проверка выполняется до сохранения записи.
	ErrChurchUnavailable = errors.New("create_booking: church is unavailable on this date")

	// ErrInvalidDate возвращается при некорректной дате записи
	ErrInvalidDate = errors.New("create_booking: invalid booking date")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
