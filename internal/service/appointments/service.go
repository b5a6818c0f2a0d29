package appointments

import (
	"context"
	"errors"
	"fmt"

	"github.com/marllouie99/DioceseIligan-BookingService/internal/domain"
	"github.com/marllouie99/DioceseIligan-BookingService/internal/events"
	apptRepo "github.com/marllouie99/DioceseIligan-BookingService/internal/infra/storage/appointment"
	"github.com/marllouie99/DioceseIligan-BookingService/internal/service/appointments/models"
)

// Service сервис переходов статусов и чтения записей.
//
// Переходы (review/approve/decline/complete/cancel) — простые охраняемые
// изменения статуса: они не чувствительны к гонкам и не требуют
// разрешения конфликтов. Системная отмена соперников выполняется только
// движком conflicts из транзакции обработки платежа.
type Service struct {
	appointmentRepo AppointmentRepository
	notifier        Notifier
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	notifier Notifier,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		notifier:        notifier,
		logger:          logger,
	}
}

// actionRoutingKeys события, публикуемые после успешного перехода
var actionRoutingKeys = map[domain.TransitionAction]string{
	domain.ActionReview:   events.RKReviewed,
	domain.ActionApprove:  events.RKApproved,
	domain.ActionDecline:  events.RKDeclined,
	domain.ActionComplete: events.RKCompleted,
	domain.ActionCancel:   events.RKCancelled,
}

// GetByID получает запись по ID.
// Пользователь видит только свою запись; роль church видит любую запись
// (аутентификация сотрудников выполняется выше по стеку).
func (s *Service) GetByID(ctx context.Context, id int64, actorID int64, actorRole string) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%d for actor=%d role=%s", id, actorID, actorRole)

	appt, err := s.getAppointment(ctx, id, "GetByID")
	if err != nil {
		return nil, err
	}

	if actorRole != models.RoleChurch && appt.RequesterID != actorID {
		s.logger.Warn("GetByID: access denied for actor=%d to appointment id=%d", actorID, id)
		return nil, ErrAccessDenied
	}

	return models.FromDomainAppointment(appt), nil
}

// GetRequesterAppointments получает историю записей пользователя
// Опционально фильтрует по статусу
func (s *Service) GetRequesterAppointments(ctx context.Context, req *models.GetRequesterAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetRequesterAppointments: fetching appointments for requester=%d, status=%v", req.RequesterID, req.Status)

	var domainStatus *domain.AppointmentStatus
	if req.Status != nil {
		status, err := models.ToDomainStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetRequesterAppointments: invalid status=%s for requester=%d", *req.Status, req.RequesterID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	appointments, err := s.appointmentRepo.GetByRequesterID(ctx, req.RequesterID, domainStatus)
	if err != nil {
		s.logger.Error("GetRequesterAppointments: repository error for requester=%d: %v", req.RequesterID, err)
		return nil, fmt.Errorf("%w: GetRequesterAppointments - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetRequesterAppointments: successfully fetched %d appointments for requester=%d",
		len(appointments), req.RequesterID)
	return models.FromDomainAppointmentList(appointments), nil
}

// GetChurchAppointments получает записи церкви с гибкой фильтрацией
// по периоду, статусу и включению терминальных записей
func (s *Service) GetChurchAppointments(ctx context.Context, req *models.GetChurchAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetChurchAppointments: fetching appointments for church=%d", req.ChurchID)

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetChurchAppointments: invalid filter for church=%d: %v", req.ChurchID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	appointments, err := s.appointmentRepo.GetByChurchWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetChurchAppointments: repository error for church=%d: %v", req.ChurchID, err)
		return nil, fmt.Errorf("%w: GetChurchAppointments - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetChurchAppointments: successfully fetched %d appointments for church=%d",
		len(appointments), req.ChurchID)
	return models.FromDomainAppointmentList(appointments), nil
}

// Transition выполняет переход статуса записи.
// Допустимость перехода проверяется по графу состояний; из терминальных
// статусов (declined/cancelled/completed) переходы запрещены. Оплата
// записи не влияет на допустимость переходов: проверка церковью обязательна.
func (s *Service) Transition(ctx context.Context, appointmentID int64, req *models.TransitionRequest) (*models.TransitionResponse, error) {
	s.logger.Info("Transition: appointment id=%d action=%s actor=%d role=%s",
		appointmentID, req.Action, req.ActorID, req.ActorRole)

	if err := models.ValidateRole(req.ActorRole); err != nil {
		s.logger.Warn("Transition: invalid role=%s for appointment id=%d", req.ActorRole, appointmentID)
		return nil, fmt.Errorf("%w: invalid actor role", ErrInvalidInput)
	}

	action, err := models.ToDomainAction(req.Action)
	if err != nil {
		s.logger.Warn("Transition: invalid action=%s for appointment id=%d", req.Action, appointmentID)
		return nil, fmt.Errorf("%w: invalid action", ErrInvalidInput)
	}

	appt, err := s.getAppointment(ctx, appointmentID, "Transition")
	if err != nil {
		return nil, err
	}

	// Пользователь может только отменить собственную запись;
	// остальные действия — за церковью
	if req.ActorRole == models.RoleRequester {
		if action != domain.ActionCancel {
			s.logger.Warn("Transition: requester=%d attempted action=%s on appointment id=%d",
				req.ActorID, action, appointmentID)
			return nil, ErrAccessDenied
		}
		if appt.RequesterID != req.ActorID {
			s.logger.Warn("Transition: requester=%d does not own appointment id=%d", req.ActorID, appointmentID)
			return nil, ErrAccessDenied
		}
	}

	if !domain.CanTransition(appt.Status, action) {
		s.logger.Warn("Transition: invalid transition %s from status=%s for appointment id=%d",
			action, appt.Status, appointmentID)
		return nil, fmt.Errorf("%w: cannot %s appointment in status %s", ErrInvalidTransition, action, appt.Status)
	}

	if action == domain.ActionDecline && (req.Reason == nil || *req.Reason == "") {
		s.logger.Warn("Transition: decline without reason for appointment id=%d", appointmentID)
		return nil, ErrReasonRequired
	}

	newStatus, err := s.applyTransition(ctx, appt, action, req)
	if err != nil {
		return nil, err
	}

	s.emitTransitionEvent(ctx, appt, action, req.Reason)

	s.logger.Info("Transition: appointment id=%d moved to status=%s", appointmentID, newStatus)
	return &models.TransitionResponse{
		ID:        appointmentID,
		NewStatus: string(newStatus),
	}, nil
}

// applyTransition выполняет запись нового статуса в хранилище
func (s *Service) applyTransition(ctx context.Context, appt *domain.Appointment, action domain.TransitionAction, req *models.TransitionRequest) (domain.AppointmentStatus, error) {
	target, _ := domain.TargetStatus(action)

	var err error
	switch action {
	case domain.ActionDecline:
		err = s.appointmentRepo.Decline(ctx, appt.ID, *req.Reason)
	case domain.ActionCancel:
		err = s.appointmentRepo.Cancel(ctx, appt.ID, cancelReason(req))
	default:
		err = s.appointmentRepo.UpdateStatus(ctx, appt.ID, target)
	}

	if err != nil {
		if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
			s.logger.Warn("Transition: appointment id=%d not found during update", appt.ID)
			return "", ErrAppointmentNotFound
		}
		s.logger.Error("Transition: repository error for appointment id=%d: %v", appt.ID, err)
		return "", fmt.Errorf("%w: Transition - repository error: %v", ErrInternal, err)
	}

	return target, nil
}

// emitTransitionEvent публикует событие перехода.
// Ошибки публикации логируются и глотаются: сбой уведомления никогда
// не влияет на корректность записи.
func (s *Service) emitTransitionEvent(ctx context.Context, appt *domain.Appointment, action domain.TransitionAction, reason *string) {
	routingKey, ok := actionRoutingKeys[action]
	if !ok {
		return
	}

	event := events.BookingEvent{
		BookingID:   appt.ID,
		Code:        appt.Code,
		ChurchID:    appt.ChurchID,
		RequesterID: appt.RequesterID,
		Reason:      reason,
	}

	if err := s.notifier.Publish(ctx, routingKey, event); err != nil {
		s.logger.Error("Transition: failed to publish %s for appointment id=%d: %v", routingKey, appt.ID, err)
	}
}

// getAppointment загружает запись с маппингом ошибки "не найдено"
func (s *Service) getAppointment(ctx context.Context, id int64, op string) (*domain.Appointment, error) {
	appt, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
			s.logger.Warn("%s: appointment id=%d not found", op, id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("%s: repository error for appointment id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return appt, nil
}

// cancelReason возвращает причину отмены с дефолтом по роли инициатора
func cancelReason(req *models.TransitionRequest) string {
	if req.Reason != nil && *req.Reason != "" {
		return *req.Reason
	}
	if req.ActorRole == models.RoleChurch {
		return "Cancelled by the church"
	}
	return "Cancelled by the requester"
}
