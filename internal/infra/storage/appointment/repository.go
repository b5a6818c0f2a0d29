package appointment

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/marllouie99/DioceseIligan-BookingService/internal/domain"
	"github.com/marllouie99/DioceseIligan-BookingService/pkg/dbmetrics"
	"github.com/marllouie99/DioceseIligan-BookingService/pkg/psqlbuilder"
)

// appointmentColumns полный набор колонок таблицы appointments
var appointmentColumns = []string{
	"id",
	"code",
	"church_id",
	"service_id",
	"requester_id",
	"booking_date",
	"start_time",
	"end_time",
	"status",
	"payment_status",
	"payment_amount",
	"payment_method",
	"transaction_id",
	"payment_captured_at",
	"decline_reason",
	"cancel_reason",
	"cancelled_at",
	"service_name",
	"notes",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с записями на приём
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новую запись.
// Код (APPT-XXXX) здесь НЕ присваивается: присвоение кода — отдельная
// операция AssignCode, чтобы backfill поля не повторял весь цикл создания.
func (r *Repository) Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("appointments").
		Columns(
			"church_id",
			"service_id",
			"requester_id",
			"booking_date",
			"start_time",
			"end_time",
			"status",
			"payment_status",
			"payment_amount",
			"service_name",
			"notes",
		).
		Values(
			appt.ChurchID,
			appt.ServiceID,
			appt.RequesterID,
			appt.BookingDate,
			appt.StartTime,
			appt.EndTime,
			appt.Status,
			appt.PaymentStatus,
			appt.PaymentAmount,
			appt.ServiceName,
			appt.Notes,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&appt.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	appt.CreatedAt = createdAt.Time
	appt.UpdatedAt = updatedAt.Time

	return appt, nil
}

// AssignCode присваивает записи человекочитаемый код из выделенной
// последовательности. Точечный UPDATE с условием code IS NULL гарантирует,
// что код присваивается ровно один раз и никогда не переиспользуется.
func (r *Repository) AssignCode(ctx context.Context, id int64) (string, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	codeExpr := fmt.Sprintf("'%s' || LPAD(NEXTVAL('appointment_code_seq')::TEXT, %d, '0')",
		domain.CodePrefix, domain.CodeDigits)

	query, args, err := psqlbuilder.Update("appointments").
		Set("code", squirrel.Expr(codeExpr)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"code": nil}).
		Suffix("RETURNING code").
		ToSql()

	if err != nil {
		return "", fmt.Errorf("%w: AssignCode - build update query: %v", ErrBuildQuery, err)
	}

	var code string
	err = executor.QueryRowContext(ctx, query, args...).Scan(&code)
	if err == sql.ErrNoRows {
		// Либо записи нет, либо код уже присвоен — различаем по отдельному запросу
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return "", ErrAppointmentNotFound
		}
		return "", ErrCodeAlreadyAssigned
	}
	if err != nil {
		return "", fmt.Errorf("%w: AssignCode - execute update: %v", ErrExecQuery, err)
	}

	return code, nil
}

// GetByID получает запись по ID.
// Внутри активной транзакции строка дополнительно блокируется (FOR UPDATE) —
// это точка сериализации конкурирующих обработок платежа одной записи.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	appt, err := r.scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan appointment: %v", ErrScanRow, err)
	}

	return appt, nil
}

// GetByRequesterID получает список записей пользователя
// Опционально фильтрует по статусу
func (r *Repository) GetByRequesterID(ctx context.Context, requesterID int64, status *domain.AppointmentStatus) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"requester_id": requesterID}).
		OrderBy("booking_date DESC, start_time DESC")

	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByRequesterID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByRequesterID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanAppointments(rows)
}

// GetByChurchWithFilter получает записи церкви с гибкой фильтрацией
// по периоду, статусу и включению терминальных записей
func (r *Repository) GetByChurchWithFilter(ctx context.Context, filter domain.ChurchAppointmentsFilter) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"church_id": filter.ChurchID})

	if filter.StartDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"booking_date": *filter.StartDate})
	}
	if filter.EndDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"booking_date": *filter.EndDate})
	}

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	} else if !filter.IncludeInactive {
		terminalStatusStrings := make([]string, len(domain.TerminalStatuses))
		for i, s := range domain.TerminalStatuses {
			terminalStatusStrings[i] = string(s)
		}
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": terminalStatusStrings})
	}

	if filter.StartDate != nil && filter.EndDate != nil && filter.StartDate.Equal(*filter.EndDate) {
		selectBuilder = selectBuilder.OrderBy("start_time ASC")
	} else {
		selectBuilder = selectBuilder.OrderBy("booking_date DESC, start_time DESC")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByChurchWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByChurchWithFilter - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanAppointments(rows)
}

// GetSiblingsForUpdate получает конкурирующие записи по ключу конфликта
// (church_id, booking_date): неоплаченные, нетерминальные, кроме победителя.
// Вызывается только внутри транзакции; строки блокируются FOR UPDATE, чтобы
// конкурирующая обработка платежа видела живое состояние, а не снимок.
func (r *Repository) GetSiblingsForUpdate(ctx context.Context, churchID int64, date time.Time, winnerID int64) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	terminalStatusStrings := make([]string, len(domain.TerminalStatuses))
	for i, s := range domain.TerminalStatuses {
		terminalStatusStrings[i] = string(s)
	}

	query, args, err := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"church_id": churchID}).
		Where(squirrel.Eq{"booking_date": date.Format(domain.DateFormat)}).
		Where(squirrel.NotEq{"id": winnerID}).
		Where(squirrel.NotEq{"payment_status": string(domain.PaymentPaid)}).
		Where(squirrel.NotEq{"status": terminalStatusStrings}).
		OrderBy("id ASC").
		Suffix("FOR UPDATE").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetSiblingsForUpdate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetSiblingsForUpdate - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanAppointments(rows)
}

// RecordPayment записывает поля платежа и переводит payment_status в paid.
// Статус записи (status) здесь намеренно не изменяется: оплата не заменяет
// обязательную проверку со стороны церкви.
func (r *Repository) RecordPayment(ctx context.Context, id int64, amount float64, method, transactionID string) (time.Time, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("payment_status", domain.PaymentPaid).
		Set("payment_amount", amount).
		Set("payment_method", method).
		Set("transaction_id", transactionID).
		Set("payment_captured_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING payment_captured_at").
		ToSql()

	if err != nil {
		return time.Time{}, fmt.Errorf("%w: RecordPayment - build update query: %v", ErrBuildQuery, err)
	}

	var capturedAt time.Time
	err = executor.QueryRowContext(ctx, query, args...).Scan(&capturedAt)
	if err == sql.ErrNoRows {
		return time.Time{}, ErrAppointmentNotFound
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: RecordPayment - execute update: %v", ErrExecQuery, err)
	}

	return capturedAt, nil
}

// UpdateStatus обновляет статус записи
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	return r.execExpectingRow(ctx, executor, query, args, "UpdateStatus")
}

// Decline переводит запись в declined с указанием причины
func (r *Repository) Decline(ctx context.Context, id int64, reason string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("status", domain.StatusDeclined).
		Set("decline_reason", reason).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Decline - build update query: %v", ErrBuildQuery, err)
	}

	return r.execExpectingRow(ctx, executor, query, args, "Decline")
}

// Cancel переводит запись в cancelled с указанием причины.
// Физическое удаление не используется: отмена — терминальный статус, история сохраняется.
func (r *Repository) Cancel(ctx context.Context, id int64, reason string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("status", domain.StatusCancelled).
		Set("cancel_reason", reason).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	return r.execExpectingRow(ctx, executor, query, args, "Cancel")
}

// execExpectingRow выполняет UPDATE и проверяет, что строка существовала
func (r *Repository) execExpectingRow(ctx context.Context, executor DBExecutor, query string, args []interface{}, op string) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}

	if rowsAffected == 0 {
		return ErrAppointmentNotFound
	}

	return nil
}

// rowScanner общий интерфейс *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanAppointment сканирует одну строку в доменную модель
func (r *Repository) scanAppointment(row rowScanner) (*domain.Appointment, error) {
	var appt domain.Appointment
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&appt.ID,
		&appt.Code,
		&appt.ChurchID,
		&appt.ServiceID,
		&appt.RequesterID,
		&appt.BookingDate,
		&appt.StartTime,
		&appt.EndTime,
		&appt.Status,
		&appt.PaymentStatus,
		&appt.PaymentAmount,
		&appt.PaymentMethod,
		&appt.TransactionID,
		&appt.PaymentCapturedAt,
		&appt.DeclineReason,
		&appt.CancelReason,
		&appt.CancelledAt,
		&appt.ServiceName,
		&appt.Notes,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	appt.CreatedAt = createdAt.Time
	appt.UpdatedAt = updatedAt.Time

	return &appt, nil
}

// scanAppointments сканирует результаты запроса в слайс записей
func (r *Repository) scanAppointments(rows *sql.Rows) ([]*domain.Appointment, error) {
	appointments := make([]*domain.Appointment, 0)

	for rows.Next() {
		appt, err := r.scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanAppointments - scan row: %v", ErrScanRow, err)
		}
		appointments = append(appointments, appt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanAppointments - rows error: %v", ErrScanRow, err)
	}

	return appointments, nil
}
