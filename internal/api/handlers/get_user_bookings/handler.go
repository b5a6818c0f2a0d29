package get_user_bookings

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/marllouie99/DioceseIligan-BookingService/internal/api/handlers"
	"github.com/marllouie99/DioceseIligan-BookingService/internal/api/middleware"
	"github.com/marllouie99/DioceseIligan-BookingService/internal/service/appointments"
	"github.com/marllouie99/DioceseIligan-BookingService/internal/service/appointments/models"
)

const (
	msgInvalidUserID = "некорректный ID пользователя"
	msgInvalidStatus = "некорректный статус"
	msgForbidden     = "доступ запрещен"
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

// Handle GET /api/v1/users/{userId}/appointments?status=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	userID, err := strconv.ParseInt(vars["userId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /users/{id}/appointments - Invalid user ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidUserID)
		return
	}

	actorID, ok := middleware.UserID(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, "пользователь не аутентифицирован")
		return
	}

	// Пользователь видит только собственную историю
	if middleware.UserRole(r.Context()) != models.RoleChurch && actorID != userID {
		h.logger.Warn("GET /users/{id}/appointments - Access denied: user_id=%d, actor_id=%d", userID, actorID)
		handlers.RespondForbidden(w, msgForbidden)
		return
	}

	req := &models.GetRequesterAppointmentsRequest{
		RequesterID: userID,
	}
	if status := r.URL.Query().Get("status"); status != "" {
		req.Status = &status
	}

	result, err := h.service.GetRequesterAppointments(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrInvalidInput):
			h.logger.Warn("GET /users/{id}/appointments - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidStatus)

		default:
			h.logger.Error("GET /users/{id}/appointments - Failed: user_id=%d, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /users/{id}/appointments - Success: user_id=%d, total=%d", userID, result.Total)
	handlers.RespondJSON(w, http.StatusOK, result)
}
