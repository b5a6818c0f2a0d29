package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/marllouie99/DioceseIligan-BookingService/internal/domain"
	availabilityClient "github.com/marllouie99/DioceseIligan-BookingService/internal/integrations/availability"
	catalogClient "github.com/marllouie99/DioceseIligan-BookingService/internal/integrations/servicecatalog"
)

// UseCase use case для создания записи на приём
type UseCase struct {
	appointmentRepo    AppointmentRepository
	catalogClient      CatalogClient
	availabilityClient AvailabilityClient
	txManager          TransactionManager
	timeProvider       TimeProvider
	logger             Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	catalogClient CatalogClient,
	availabilityClient AvailabilityClient,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo:    appointmentRepo,
		catalogClient:      catalogClient,
		availabilityClient: availabilityClient,
		txManager:          txManager,
		timeProvider:       &RealTimeProvider{},
		logger:             logger,
	}
}

// Execute выполняет use case создания записи.
//
// Создание и присвоение кода — две явные операции в одной транзакции:
// backfill кода выполняется точечным UPDATE и не повторяет цикл создания
// (и его побочные эффекты) второй раз.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: requester=%d, church=%d, service=%d, date=%s, window=%s-%s",
		req.RequesterID, req.ChurchID, req.ServiceID, req.Date.Format(domain.DateFormat), req.StartTime, req.EndTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Валидация даты
	now := uc.timeProvider.Now()
	if err := validateDate(req.Date, now); err != nil {
		uc.logger.Warn("CreateBooking: date validation failed: %v", err)
		return nil, err
	}

	// 3. Проверяем доступность церкви на дату (до сохранения).
	// Проверка только на момент создания: закрытие календаря после
	// создания записи остаётся на стороне церкви.
	schedule, err := uc.availabilityClient.GetDaySchedule(ctx, req.ChurchID, req.Date)
	if err != nil {
		if errors.Is(err, availabilityClient.ErrChurchNotFound) {
			uc.logger.Warn("CreateBooking: church id=%d not found in calendar", req.ChurchID)
			return nil, ErrChurchNotFound
		}
		uc.logger.Error("CreateBooking: failed to get day schedule for church id=%d: %v", req.ChurchID, err)
		return nil, fmt.Errorf("%w: failed to get day schedule: %v", ErrInternal, err)
	}

	if !schedule.Admits(req.StartTime, req.EndTime) {
		uc.logger.Warn("CreateBooking: church id=%d unavailable on %s (closed=%t)",
			req.ChurchID, req.Date.Format(domain.DateFormat), schedule.Closed)
		return nil, ErrChurchUnavailable
	}

	// 4. Получаем услугу из каталога
	service, err := uc.catalogClient.GetService(ctx, req.ChurchID, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrServiceNotFound) {
			uc.logger.Warn("CreateBooking: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateBooking: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	var result *domain.Appointment
	var code string

	// 5. Создаем запись и присваиваем код в одной транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		appt := &domain.Appointment{
			ChurchID:      req.ChurchID,
			ServiceID:     req.ServiceID,
			RequesterID:   req.RequesterID,
			BookingDate:   req.Date,
			StartTime:     req.StartTime,
			EndTime:       req.EndTime,
			Status:        domain.StatusRequested,
			PaymentStatus: domain.PaymentPending,
			// Информационная цена из каталога; при оплате она
			// перепроверяется независимо и не считается доверенной
			PaymentAmount: defaultAmount(service),
			ServiceName:   service.Name,
			Notes:         req.Notes,
		}

		created, err := uc.appointmentRepo.Create(txCtx, appt)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create appointment: %v", err)
			return fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
		}

		assigned, err := uc.appointmentRepo.AssignCode(txCtx, created.ID)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to assign code to appointment id=%d: %v", created.ID, err)
			return fmt.Errorf("%w: failed to assign code: %v", ErrInternal, err)
		}

		result = created
		code = assigned
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created appointment id=%d code=%s", result.ID, code)

	return &Response{
		ID:            result.ID,
		Code:          code,
		ChurchID:      result.ChurchID,
		ServiceID:     result.ServiceID,
		RequesterID:   result.RequesterID,
		BookingDate:   result.BookingDate,
		StartTime:     result.StartTime,
		EndTime:       result.EndTime,
		Status:        string(result.Status),
		PaymentStatus: string(result.PaymentStatus),
		PaymentAmount: result.PaymentAmount,
		ServiceName:   result.ServiceName,
		Notes:         result.Notes,
		CreatedAt:     result.CreatedAt,
		UpdatedAt:     result.UpdatedAt,
	}, nil
}

// defaultAmount извлекает информационную цену из услуги.
// Для бесплатных услуг и услуг без цены возвращает 0.0
func defaultAmount(service *catalogClient.Service) float64 {
	if service.IsFree || service.Price == nil {
		return 0.0
	}
	return *service.Price
}
