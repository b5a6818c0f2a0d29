package capture_payment

import (
	"fmt"

	"github.com/marllouie99/DioceseIligan-BookingService/internal/domain"
	"github.com/marllouie99/DioceseIligan-BookingService/internal/integrations/servicecatalog"
)

// validateRequest валидирует входные данные callback шлюза
func validateRequest(req *Request) error {
	if req.BookingID <= 0 {
		return fmt.Errorf("%w: bookingID must be positive", ErrInvalidInput)
	}

	if req.Amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}

	if len(req.Currency) != 3 {
		return fmt.Errorf("%w: currency must be a 3-letter ISO code", ErrInvalidInput)
	}

	if req.Method == "" {
		return fmt.Errorf("%w: method is required", ErrInvalidInput)
	}
	if len(req.Method) > domain.MaxPaymentMethodLength {
		return fmt.Errorf("%w: method exceeds %d characters", ErrInvalidInput, domain.MaxPaymentMethodLength)
	}

	if req.TransactionID == "" {
		return fmt.Errorf("%w: transactionID is required", ErrInvalidInput)
	}

	return nil
}

// validateAgainstCatalog сверяет платёж с канонической ценой услуги.
// Порядок проверок фиксирован: бесплатность → наличие цены → совпадение
// суммы и валюты. Несовпадение — отклонение, а не тихая коррекция.
func validateAgainstCatalog(req *Request, service *servicecatalog.Service) error {
	if service.IsFree {
		return ErrFreeServiceNotPayable
	}

	if !service.HasPrice() {
		return ErrPriceUnset
	}

	if req.Amount != *service.Price {
		return fmt.Errorf("%w: reported=%.2f expected=%.2f", ErrAmountMismatch, req.Amount, *service.Price)
	}

	if service.Currency != "" && req.Currency != service.Currency {
		return fmt.Errorf("%w: currency %s, expected %s", ErrAmountMismatch, req.Currency, service.Currency)
	}

	return nil
}
