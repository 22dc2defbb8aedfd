package dto

import (
	"net/http"
	"strings"
)

// Transport-level error codes (domain errors keep their own codes)
const (
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "INTERNAL_ERROR"
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "BAD_REQUEST"
	// ErrCodeValidation is used when request validation fails
	ErrCodeValidation = "VALIDATION_ERROR"
	// ErrCodeUnauthorized is used when authentication is required but missing/invalid
	ErrCodeUnauthorized = "UNAUTHORIZED"
	// ErrCodeForbidden is used when the actor lacks the required role
	ErrCodeForbidden = "FORBIDDEN"
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "NOT_FOUND"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:     http.StatusInternalServerError,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,

	// Resource lookups -> 404 Not Found
	ErrCodeNotFound:      http.StatusNotFound,
	"CUSTOMER_NOT_FOUND": http.StatusNotFound,

	// Conflicts -> 409 Conflict
	"ALREADY_EXISTS":               http.StatusConflict,
	"DUPLICATE_ACTIVE_APPLICATION": http.StatusConflict,
	"DUPLICATE_LOAN":               http.StatusConflict,
	"DUPLICATE_CODE":               http.StatusConflict,
	"CONCURRENT_MODIFICATION":      http.StatusConflict,

	// Business rule violations -> 422 Unprocessable Entity
	"INVALID_STATE":     http.StatusUnprocessableEntity,
	"CALCULATION_ERROR": http.StatusUnprocessableEntity,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// INVALID_* codes not listed above are field validation failures and
// map to 400; anything else unknown maps to 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	if strings.HasPrefix(code, "INVALID_") {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
