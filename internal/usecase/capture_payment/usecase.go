package capture_payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/marllouie99/DioceseIligan-BookingService/internal/domain"
	"github.com/marllouie99/DioceseIligan-BookingService/internal/events"
	apptRepo "github.com/marllouie99/DioceseIligan-BookingService/internal/infra/storage/appointment"
	catalogClient "github.com/marllouie99/DioceseIligan-BookingService/internal/integrations/servicecatalog"
)

// UseCase use case обработки платежа по записи.
//
// Побочные эффекты строго упорядочены явными вызовами (а не хуками):
// запись платежа → разрешение конфликтов → уведомления. Первые два шага
// выполняются в одной сериализуемой транзакции: ошибка разрешения
// конфликтов откатывает и платёж. Уведомления публикуются после коммита
// и их сбой ничего не откатывает.
type UseCase struct {
	appointmentRepo AppointmentRepository
	conflicts       ConflictResolver
	catalogClient   CatalogClient
	txManager       TransactionManager
	notifier        Notifier
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	conflicts ConflictResolver,
	catalogClient CatalogClient,
	txManager TransactionManager,
	notifier Notifier,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		conflicts:       conflicts,
		catalogClient:   catalogClient,
		txManager:       txManager,
		notifier:        notifier,
		logger:          logger,
	}
}

// Execute обрабатывает callback платёжного шлюза.
//
// Статус записи (status) здесь не изменяется: оплата не продвигает запись
// по графу состояний, проверка церковью остаётся обязательной.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CapturePayment: booking=%d amount=%.2f %s method=%s tx=%s",
		req.BookingID, req.Amount, req.Currency, req.Method, req.TransactionID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CapturePayment: validation failed: %v", err)
		return nil, err
	}

	// 2. Загружаем запись
	appt, err := uc.appointmentRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
			uc.logger.Warn("CapturePayment: booking id=%d not found", req.BookingID)
			return nil, ErrBookingNotFound
		}
		uc.logger.Error("CapturePayment: failed to get booking id=%d: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
	}

	// 3. Быстрая проверка идемпотентности (повторяется под блокировкой в транзакции)
	if appt.IsPaid() {
		uc.logger.Warn("CapturePayment: booking id=%d is already paid (tx=%s)", req.BookingID, req.TransactionID)
		return nil, ErrAlreadyPaid
	}

	// 4. Получаем каноническую цену из каталога.
	// Информационной цене, сохранённой при создании, не доверяем.
	service, err := uc.catalogClient.GetService(ctx, appt.ChurchID, appt.ServiceID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrServiceNotFound) {
			uc.logger.Warn("CapturePayment: service id=%d not found for booking id=%d", appt.ServiceID, req.BookingID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CapturePayment: failed to get service id=%d: %v", appt.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	// 5. Сверяем платёж с каталогом (free → price unset → amount mismatch)
	if err := validateAgainstCatalog(req, service); err != nil {
		uc.logger.Warn("CapturePayment: catalog validation failed for booking id=%d: %v", req.BookingID, err)
		return nil, err
	}

	var capturedAt time.Time
	var cancelled []*domain.Appointment

	// 6-7. Запись платежа и разрешение конфликтов в одной транзакции.
	// Победителя определяет первый успешный коммит: конкурирующая
	// обработка, пришедшая второй, увидит запись уже оплаченной либо
	// свою запись уже отменённой.
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// Перечитываем запись под блокировкой строки
		locked, err := uc.appointmentRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: failed to lock booking: %v", ErrInternal, err)
		}

		if locked.IsPaid() {
			return ErrAlreadyPaid
		}

		capturedAt, err = uc.appointmentRepo.RecordPayment(txCtx, locked.ID, *service.Price, req.Method, req.TransactionID)
		if err != nil {
			return fmt.Errorf("%w: failed to record payment: %v", ErrInternal, err)
		}

		cancelled, err = uc.conflicts.Resolve(txCtx, locked.ChurchID, locked.BookingDate, locked.ID)
		if err != nil {
			return fmt.Errorf("%w: failed to resolve conflicts: %v", ErrInternal, err)
		}

		return nil
	})

	if err != nil {
		if errors.Is(err, ErrAlreadyPaid) {
			uc.logger.Warn("CapturePayment: booking id=%d was paid concurrently (tx=%s)", req.BookingID, req.TransactionID)
			return nil, ErrAlreadyPaid
		}
		if errors.Is(err, ErrBookingNotFound) {
			return nil, ErrBookingNotFound
		}
		uc.logger.Error("CapturePayment: transaction failed for booking id=%d: %v", req.BookingID, err)
		return nil, err
	}

	uc.logger.Info("CapturePayment: booking id=%d paid, %d competing appointments cancelled",
		req.BookingID, len(cancelled))

	// 8. Уведомления — после коммита, fire-and-forget
	uc.emitPaymentReceived(ctx, appt)
	for _, sibling := range cancelled {
		uc.emitSiblingCancelled(ctx, sibling)
	}

	return &Response{
		BookingID:         appt.ID,
		Code:              appt.Code,
		PaymentStatus:     string(domain.PaymentPaid),
		PaymentAmount:     *service.Price,
		PaymentCapturedAt: capturedAt,
		CancelledSiblings: len(cancelled),
	}, nil
}

// emitPaymentReceived публикует событие об оплате для церкви.
// Ошибка публикации логируется и глотается: сбой уведомления никогда
// не откатывает платёж.
func (uc *UseCase) emitPaymentReceived(ctx context.Context, appt *domain.Appointment) {
	event := events.BookingEvent{
		BookingID:   appt.ID,
		Code:        appt.Code,
		ChurchID:    appt.ChurchID,
		RequesterID: appt.RequesterID,
	}

	if err := uc.notifier.Publish(ctx, events.RKPaymentReceived, event); err != nil {
		uc.logger.Error("CapturePayment: failed to publish payment_received for booking id=%d: %v", appt.ID, err)
	}
}

// emitSiblingCancelled публикует уведомление пользователю отменённой записи
func (uc *UseCase) emitSiblingCancelled(ctx context.Context, sibling *domain.Appointment) {
	event := events.BookingEvent{
		BookingID:   sibling.ID,
		Code:        sibling.Code,
		ChurchID:    sibling.ChurchID,
		RequesterID: sibling.RequesterID,
		Reason:      sibling.CancelReason,
	}

	if err := uc.notifier.Publish(ctx, events.RKSiblingCanceled, event); err != nil {
		uc.logger.Error("CapturePayment: failed to publish sibling_canceled for booking id=%d: %v", sibling.ID, err)
	}
}
