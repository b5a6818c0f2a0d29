package conflicts

import (
	"context"
	"fmt"
	"time"

	"github.com/marllouie99/DioceseIligan-BookingService/internal/domain"
	"github.com/marllouie99/DioceseIligan-BookingService/pkg/dbmetrics"
)

// Service разрешает конфликты конкурирующих записей по ключу (church_id, booking_date).
//
// Политика tie-break целиком сводится к "первый успешно закоммиченный платёж
// выигрывает": сервис вызывается из транзакции обработки платежа и перечитывает
// живое состояние соперников с блокировкой строк, никогда не полагаясь на
// снимок в памяти. Прикладных мьютексов нет — корректность обеспечивает
// изоляция транзакций БД.
type Service struct {
	appointmentRepo AppointmentRepository
	logger          Logger
}

// NewService создает новый экземпляр сервиса разрешения конфликтов
func NewService(appointmentRepo AppointmentRepository, logger Logger) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		logger:          logger,
	}
}

// Resolve отменяет все конкурирующие записи победившей записи.
// Должен вызываться внутри транзакции, в которой записан платёж победителя:
// ошибка отмены любого соперника откатывает и сам платёж.
// Возвращает отменённые записи — уведомления по ним отправляет вызывающая
// сторона уже после коммита.
func (s *Service) Resolve(ctx context.Context, churchID int64, date time.Time, winnerID int64) ([]*domain.Appointment, error) {
	if !dbmetrics.IsInTransaction(ctx) {
		return nil, ErrNotInTransaction
	}

	siblings, err := s.appointmentRepo.GetSiblingsForUpdate(ctx, churchID, date, winnerID)
	if err != nil {
		s.logger.Error("Resolve: failed to get siblings for church=%d date=%s winner=%d: %v",
			churchID, date.Format(domain.DateFormat), winnerID, err)
		return nil, fmt.Errorf("%w: Resolve - get siblings: %v", ErrInternal, err)
	}

	if len(siblings) == 0 {
		s.logger.Info("Resolve: no competing appointments for church=%d date=%s winner=%d",
			churchID, date.Format(domain.DateFormat), winnerID)
		return nil, nil
	}

	cancelled := make([]*domain.Appointment, 0, len(siblings))
	for _, sibling := range siblings {
		if err := s.appointmentRepo.Cancel(ctx, sibling.ID, domain.CancelReasonConflict); err != nil {
			s.logger.Error("Resolve: failed to cancel sibling id=%d: %v", sibling.ID, err)
			return nil, fmt.Errorf("%w: Resolve - cancel sibling id=%d: %v", ErrInternal, sibling.ID, err)
		}

		sibling.Status = domain.StatusCancelled
		reason := domain.CancelReasonConflict
		sibling.CancelReason = &reason
		cancelled = append(cancelled, sibling)

		s.logger.Info("Resolve: cancelled sibling id=%d (requester=%d) for church=%d date=%s, winner=%d",
			sibling.ID, sibling.RequesterID, churchID, date.Format(domain.DateFormat), winnerID)
	}

	return cancelled, nil
}
