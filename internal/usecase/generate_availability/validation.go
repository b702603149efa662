package generate_availability

import (
	"fmt"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.DateFrom.IsZero() {
		return fmt.Errorf("%w: dateFrom is required", ErrInvalidInput)
	}

	if req.DateTo.IsZero() {
		return fmt.Errorf("%w: dateTo is required", ErrInvalidInput)
	}

	if req.DateTo.Before(req.DateFrom) {
		return fmt.Errorf("%w: dateTo is before dateFrom", ErrInvalidRange)
	}

	return nil
}
