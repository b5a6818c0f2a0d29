package get_church_bookings

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/marllouie99/DioceseIligan-BookingService/internal/api/handlers"
	"github.com/marllouie99/DioceseIligan-BookingService/internal/api/middleware"
	"github.com/marllouie99/DioceseIligan-BookingService/internal/domain"
	"github.com/marllouie99/DioceseIligan-BookingService/internal/service/appointments"
	"github.com/marllouie99/DioceseIligan-BookingService/internal/service/appointments/models"
)

const (
	msgInvalidChurchID = "некорректный ID церкви"
	msgInvalidFilter   = "некорректные параметры фильтра"
	msgForbidden       = "доступ запрещен"
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

// Handle GET /api/v1/churches/{churchId}/appointments?startDate=&endDate=&status=&includeInactive=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	churchID, err := strconv.ParseInt(vars["churchId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /churches/{id}/appointments - Invalid church ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidChurchID)
		return
	}

	// Просмотр всех записей церкви доступен только сотрудникам
	if middleware.UserRole(r.Context()) != models.RoleChurch {
		h.logger.Warn("GET /churches/{id}/appointments - Access denied: church_id=%d", churchID)
		handlers.RespondForbidden(w, msgForbidden)
		return
	}

	req, err := parseFilter(r, churchID)
	if err != nil {
		h.logger.Warn("GET /churches/{id}/appointments - Invalid filter: %v", err)
		handlers.RespondBadRequest(w, msgInvalidFilter)
		return
	}

	result, err := h.service.GetChurchAppointments(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrInvalidInput):
			h.logger.Warn("GET /churches/{id}/appointments - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidFilter)

		default:
			h.logger.Error("GET /churches/{id}/appointments - Failed: church_id=%d, error=%v", churchID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /churches/{id}/appointments - Success: church_id=%d, total=%d", churchID, result.Total)
	handlers.RespondJSON(w, http.StatusOK, result)
}

// parseFilter собирает фильтр из query-параметров
func parseFilter(r *http.Request, churchID int64) (*models.GetChurchAppointmentsRequest, error) {
	q := r.URL.Query()
	req := &models.GetChurchAppointmentsRequest{
		ChurchID: churchID,
	}

	if raw := q.Get("startDate"); raw != "" {
		startDate, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			return nil, err
		}
		req.StartDate = &startDate
	}

	if raw := q.Get("endDate"); raw != "" {
		endDate, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			return nil, err
		}
		req.EndDate = &endDate
	}

	if status := q.Get("status"); status != "" {
		req.Status = &status
	}

	if raw := q.Get("includeInactive"); raw != "" {
		includeInactive, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, err
		}
		req.IncludeInactive = includeInactive
	}

	return req, nil
}
