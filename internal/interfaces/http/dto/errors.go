package dto

import "net/http"

// Transport error codes, ERR_<CATEGORY>_<DESCRIPTION>. Handlers emit these;
// domain codes are translated through NormalizeErrorCode first.
const (
	ErrCodeUnknown  = "ERR_UNKNOWN"
	ErrCodeInternal = "ERR_INTERNAL"

	ErrCodeValidation         = "ERR_VALIDATION"
	ErrCodeValidationRequired = "ERR_VALIDATION_REQUIRED"
	ErrCodeValidationFormat   = "ERR_VALIDATION_FORMAT"
	ErrCodeValidationRange    = "ERR_VALIDATION_RANGE"

	ErrCodeNotFound            = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists       = "ERR_ALREADY_EXISTS"
	ErrCodeConflict            = "ERR_CONFLICT"
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"

	// Ledger and reservation failures. InvalidLocation covers transfers
	// naming the same source and destination; StoreTimeout marks a store
	// transaction that timed out and is safe to retry.
	ErrCodeInvalidAdjustment       = "ERR_INVALID_ADJUSTMENT"
	ErrCodeInvalidQuantity         = "ERR_INVALID_QUANTITY"
	ErrCodeInvalidLocation         = "ERR_INVALID_LOCATION"
	ErrCodeOverReservation         = "ERR_OVER_RESERVATION"
	ErrCodeInsufficientReservation = "ERR_INSUFFICIENT_RESERVATION"
	ErrCodeStoreTimeout            = "ERR_STORE_TIMEOUT"

	ErrCodeBadRequest      = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput    = "ERR_INVALID_INPUT"
	ErrCodeInvalidJSON     = "ERR_INVALID_JSON"
	ErrCodeRequestTooLarge = "ERR_REQUEST_TOO_LARGE"

	ErrCodeRateLimited     = "ERR_RATE_LIMITED"
	ErrCodeTooManyRequests = "ERR_TOO_MANY_REQUESTS"
)

// ErrorCodeHTTPStatus maps each transport code to the status it renders as.
// Codes absent from the map render as 500.
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeValidation:         http.StatusBadRequest,
	ErrCodeValidationRequired: http.StatusBadRequest,
	ErrCodeValidationFormat:   http.StatusBadRequest,
	ErrCodeValidationRange:    http.StatusBadRequest,

	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	ErrCodeInvalidAdjustment:       http.StatusBadRequest,
	ErrCodeInvalidQuantity:         http.StatusBadRequest,
	ErrCodeInvalidLocation:         http.StatusConflict,
	ErrCodeOverReservation:         http.StatusConflict,
	ErrCodeInsufficientReservation: http.StatusConflict,
	ErrCodeStoreTimeout:            http.StatusServiceUnavailable,

	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeInvalidInput:    http.StatusBadRequest,
	ErrCodeInvalidJSON:     http.StatusBadRequest,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,

	ErrCodeRateLimited:     http.StatusTooManyRequests,
	ErrCodeTooManyRequests: http.StatusTooManyRequests,
}

// GetHTTPStatus resolves a transport code to its HTTP status, defaulting to
// 500 for codes the table does not know.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping translates domain error codes to transport codes.
var DomainErrorCodeMapping = map[string]string{
	"NOT_FOUND":                ErrCodeNotFound,
	"ALREADY_EXISTS":           ErrCodeAlreadyExists,
	"CONFLICT":                 ErrCodeConflict,
	"CONCURRENCY_CONFLICT":     ErrCodeConcurrencyConflict,
	"INVALID_INPUT":            ErrCodeInvalidInput,
	"INVALID_ADJUSTMENT":       ErrCodeInvalidAdjustment,
	"INVALID_QUANTITY":         ErrCodeInvalidQuantity,
	"INVALID_VARIANT":          ErrCodeInvalidInput,
	"INVALID_REASON":           ErrCodeInvalidInput,
	"INVALID_NAME":             ErrCodeInvalidInput,
	"INVALID_LOCATION_TYPE":    ErrCodeInvalidInput,
	"INVALID_LOCATION":         ErrCodeInvalidLocation,
	"OVER_RESERVATION":         ErrCodeOverReservation,
	"INSUFFICIENT_RESERVATION": ErrCodeInsufficientReservation,
	"STORE_TIMEOUT":            ErrCodeStoreTimeout,
	"VALIDATION_ERROR":         ErrCodeValidation,
	"BAD_REQUEST":              ErrCodeBadRequest,
	"INTERNAL_ERROR":           ErrCodeInternal,
}

// NormalizeErrorCode converts a domain code to its transport form. Codes
// already in transport form, or unknown ones, pass through unchanged.
func NormalizeErrorCode(code string) string {
	if mapped, ok := DomainErrorCodeMapping[code]; ok {
		return mapped
	}
	return code
}
