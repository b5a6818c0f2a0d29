package capture_payment

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/marllouie99/DioceseIligan-BookingService/internal/api/handlers"
	capturePayment "github.com/marllouie99/DioceseIligan-BookingService/internal/usecase/capture_payment"
)

// Сообщения различимы намеренно: клиент должен отличать "уже оплачено"
// от "сумма не совпала с ценой услуги"
const (
	msgInvalidBookingID   = "некорректный ID записи"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgNotFound           = "запись не найдена"
	msgAlreadyPaid        = "запись уже оплачена"
	msgFreeService        = "услуга бесплатная и не подлежит оплате"
	msgPriceUnset         = "у услуги не настроена цена"
	msgAmountMismatch     = "сумма платежа не совпадает с ценой услуги"
	msgServiceNotFound    = "услуга не найдена"
	msgInvalidInput       = "некорректные входные данные"
)

type Handler struct {
	useCase CapturePaymentUseCase
	logger  Logger
}

func NewHandler(useCase CapturePaymentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments/{bookingId}/payment
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bookingID, err := strconv.ParseInt(vars["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /appointments/{id}/payment - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var req CapturePaymentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments/{id}/payment - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(bookingID))
	if err != nil {
		switch {
		case errors.Is(err, capturePayment.ErrBookingNotFound):
			h.logger.Warn("POST /appointments/{id}/payment - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, capturePayment.ErrAlreadyPaid):
			h.logger.Warn("POST /appointments/{id}/payment - Already paid: booking_id=%d, tx=%s",
				bookingID, req.TransactionID)
			handlers.RespondConflict(w, msgAlreadyPaid)

		case errors.Is(err, capturePayment.ErrFreeServiceNotPayable):
			h.logger.Warn("POST /appointments/{id}/payment - Free service: booking_id=%d", bookingID)
			handlers.RespondUnprocessable(w, msgFreeService)

		case errors.Is(err, capturePayment.ErrPriceUnset):
			h.logger.Warn("POST /appointments/{id}/payment - Price unset: booking_id=%d", bookingID)
			handlers.RespondUnprocessable(w, msgPriceUnset)

		case errors.Is(err, capturePayment.ErrAmountMismatch):
			h.logger.Warn("POST /appointments/{id}/payment - Amount mismatch: booking_id=%d, reported=%.2f",
				bookingID, req.Amount)
			handlers.RespondUnprocessable(w, msgAmountMismatch)

		case errors.Is(err, capturePayment.ErrServiceNotFound):
			h.logger.Warn("POST /appointments/{id}/payment - Service not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, capturePayment.ErrInvalidInput):
			h.logger.Warn("POST /appointments/{id}/payment - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /appointments/{id}/payment - Failed to capture payment: booking_id=%d, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /appointments/{id}/payment - Payment captured: booking_id=%d, cancelled_siblings=%d",
		bookingID, result.CancelledSiblings)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
