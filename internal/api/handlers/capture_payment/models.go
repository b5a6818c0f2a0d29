package capture_payment

import (
	"time"

	capturePayment "github.com/marllouie99/DioceseIligan-BookingService/internal/usecase/capture_payment"
)

// CapturePaymentRequest HTTP request model (callback платёжного шлюза)
type CapturePaymentRequest struct {
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
	Method        string  `json:"method"`
	TransactionID string  `json:"transactionId"`
}

// CapturePaymentResponse HTTP response model
type CapturePaymentResponse struct {
	BookingID         int64   `json:"bookingId"`
	Code              *string `json:"code,omitempty"`
	PaymentStatus     string  `json:"paymentStatus"`
	PaymentAmount     float64 `json:"paymentAmount"`
	PaymentCapturedAt string  `json:"paymentCapturedAt"`
	CancelledSiblings int     `json:"cancelledSiblings"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CapturePaymentRequest) ToUseCaseRequest(bookingID int64) *capturePayment.Request {
	return &capturePayment.Request{
		BookingID:     bookingID,
		Amount:        r.Amount,
		Currency:      r.Currency,
		Method:        r.Method,
		TransactionID: r.TransactionID,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *capturePayment.Response) *CapturePaymentResponse {
	return &CapturePaymentResponse{
		BookingID:         resp.BookingID,
		Code:              resp.Code,
		PaymentStatus:     resp.PaymentStatus,
		PaymentAmount:     resp.PaymentAmount,
		PaymentCapturedAt: resp.PaymentCapturedAt.Format(time.RFC3339),
		CancelledSiblings: resp.CancelledSiblings,
	}
}
