package transition_booking

import "github.com/marllouie99/DioceseIligan-BookingService/internal/service/appointments/models"

// TransitionBookingRequest HTTP request model
type TransitionBookingRequest struct {
	Action string  `json:"action"` // review | approve | decline | complete | cancel
	Reason *string `json:"reason,omitempty"`
}

// TransitionBookingResponse HTTP response model
type TransitionBookingResponse struct {
	ID        int64  `json:"id"`
	NewStatus string `json:"newStatus"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *TransitionBookingRequest) ToServiceRequest(actorID int64, actorRole string) *models.TransitionRequest {
	return &models.TransitionRequest{
		ActorID:   actorID,
		ActorRole: actorRole,
		Action:    r.Action,
		Reason:    r.Reason,
	}
}

// FromServiceResponse конвертирует ответ сервиса в HTTP response
func FromServiceResponse(resp *models.TransitionResponse) *TransitionBookingResponse {
	return &TransitionBookingResponse{
		ID:        resp.ID,
		NewStatus: resp.NewStatus,
	}
}
