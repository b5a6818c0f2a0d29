package conflicts

import "errors"

var (
	// ErrNotInTransaction возвращается при вызове разрешения конфликтов вне транзакции
	ErrNotInTransaction = errors.New("conflicts: resolve must run inside a transaction")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("conflicts: internal error")
)
