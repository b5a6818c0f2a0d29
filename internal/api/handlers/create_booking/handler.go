package create_booking

import (
	"errors"
	"net/http"

	"github.com/marllouie99/DioceseIligan-BookingService/internal/api/handlers"
	"github.com/marllouie99/DioceseIligan-BookingService/internal/api/middleware"
	createBooking "github.com/marllouie99/DioceseIligan-BookingService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDateTime    = "некорректный формат даты или времени, ожидается YYYY-MM-DD и HH:MM"
	msgChurchNotFound     = "церковь не найдена"
	msgServiceNotFound    = "услуга не найдена"
	msgChurchUnavailable  = "церковь недоступна в выбранную дату"
	msgInvalidBookingDate = "некорректная дата записи"
	msgInvalidInput       = "некорректные входные данные"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	requesterID, ok := middleware.UserID(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, "пользователь не аутентифицирован")
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(requesterID)
	if err != nil {
		h.logger.Warn("POST /appointments - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrChurchUnavailable):
			h.logger.Warn("POST /appointments - Church unavailable: church_id=%d, date=%s", req.ChurchID, req.BookingDate)
			handlers.RespondConflict(w, msgChurchUnavailable)

		case errors.Is(err, createBooking.ErrChurchNotFound):
			h.logger.Warn("POST /appointments - Church not found: church_id=%d", req.ChurchID)
			handlers.RespondNotFound(w, msgChurchNotFound)

		case errors.Is(err, createBooking.ErrServiceNotFound):
			h.logger.Warn("POST /appointments - Service not found: service_id=%d", req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createBooking.ErrInvalidDate):
			h.logger.Warn("POST /appointments - Invalid booking date: church_id=%d, date=%s", req.ChurchID, req.BookingDate)
			handlers.RespondBadRequest(w, msgInvalidBookingDate)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /appointments - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /appointments - Failed to create booking: requester_id=%d, church_id=%d, error=%v",
				requesterID, req.ChurchID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /appointments - Booking created successfully: booking_id=%d, code=%s, requester_id=%d",
		result.ID, result.Code, requesterID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
