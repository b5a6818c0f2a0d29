package transition_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/marllouie99/DioceseIligan-BookingService/internal/api/handlers"
	"github.com/marllouie99/DioceseIligan-BookingService/internal/api/middleware"
	"github.com/marllouie99/DioceseIligan-BookingService/internal/service/appointments"
)

const (
	msgInvalidBookingID   = "некорректный ID записи"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgNotFound           = "запись не найдена"
	msgForbidden          = "доступ запрещен"
	msgInvalidTransition  = "недопустимый переход статуса"
	msgReasonRequired     = "для этого действия требуется причина"
	msgInvalidInput       = "некорректные входные данные"
)

type Handler struct {
	service AppointmentService
	logger  Logger
}

func NewHandler(service AppointmentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/appointments/{bookingId}/transition
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bookingID, err := strconv.ParseInt(vars["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /appointments/{id}/transition - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	actorID, ok := middleware.UserID(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, "пользователь не аутентифицирован")
		return
	}
	actorRole := middleware.UserRole(r.Context())

	var req TransitionBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /appointments/{id}/transition - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Transition(r.Context(), bookingID, req.ToServiceRequest(actorID, actorRole))
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrAppointmentNotFound):
			h.logger.Warn("PATCH /appointments/{id}/transition - Not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, appointments.ErrAccessDenied):
			h.logger.Warn("PATCH /appointments/{id}/transition - Access denied: booking_id=%d, actor_id=%d",
				bookingID, actorID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, appointments.ErrInvalidTransition):
			h.logger.Warn("PATCH /appointments/{id}/transition - Invalid transition: booking_id=%d, action=%s",
				bookingID, req.Action)
			handlers.RespondConflict(w, msgInvalidTransition)

		case errors.Is(err, appointments.ErrReasonRequired):
			h.logger.Warn("PATCH /appointments/{id}/transition - Reason required: booking_id=%d, action=%s",
				bookingID, req.Action)
			handlers.RespondBadRequest(w, msgReasonRequired)

		case errors.Is(err, appointments.ErrInvalidInput):
			h.logger.Warn("PATCH /appointments/{id}/transition - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("PATCH /appointments/{id}/transition - Failed: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /appointments/{id}/transition - Success: booking_id=%d, action=%s, new_status=%s",
		bookingID, req.Action, result.NewStatus)
	handlers.RespondJSON(w, http.StatusOK, FromServiceResponse(result))
}
