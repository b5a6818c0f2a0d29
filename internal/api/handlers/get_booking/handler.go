package get_booking

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
	msgInvalidBookingID = "некорректный ID записи"
	msgNotFound         = "запись не найдена"
	msgForbidden        = "доступ запрещен"
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

// Handle GET /api/v1/appointments/{bookingId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bookingID, err := strconv.ParseInt(vars["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /appointments/{id} - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	actorID, ok := middleware.UserID(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, "пользователь не аутентифицирован")
		return
	}
	actorRole := middleware.UserRole(r.Context())

	result, err := h.service.GetByID(r.Context(), bookingID, actorID, actorRole)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrAppointmentNotFound):
			h.logger.Warn("GET /appointments/{id} - Not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, appointments.ErrAccessDenied):
			h.logger.Warn("GET /appointments/{id} - Access denied: booking_id=%d, actor_id=%d", bookingID, actorID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /appointments/{id} - Failed: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /appointments/{id} - Success: booking_id=%d", bookingID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
