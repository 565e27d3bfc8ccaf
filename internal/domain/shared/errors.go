package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target carries the same error code
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound                = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists           = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput            = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict     = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrConflict                = NewDomainError("CONFLICT", "Operation conflicts with current resource state")
	ErrInvalidAdjustment       = NewDomainError("INVALID_ADJUSTMENT", "Adjustment would drive quantity below zero")
	ErrOverReservation         = NewDomainError("OVER_RESERVATION", "Reservation would exceed on-hand quantity")
	ErrInsufficientReservation = NewDomainError("INSUFFICIENT_RESERVATION", "Operation exceeds currently reserved quantity")
	ErrStoreTimeout            = NewDomainError("STORE_TIMEOUT", "Store transaction timed out, safe to retry")
)
