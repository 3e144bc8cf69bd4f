package dto

import (
	"net/http"

	"github.com/catalogue/backend/internal/domain/shared"
)

// Domain error codes, passed through unchanged
const (
	ErrCodeNotFound          = shared.CodeNotFound
	ErrCodeConflict          = shared.CodeConflict
	ErrCodeInvalidArgument   = shared.CodeInvalidArgument
	ErrCodeLimitExceeded     = shared.CodeLimitExceeded
	ErrCodeDependencyFailure = shared.CodeDependencyFailure
	ErrCodeInconsistency     = shared.CodeInconsistency
	ErrCodeUnauthorized      = shared.CodeUnauthorized
	ErrCodeForbidden         = shared.CodeForbidden
)

// Transport error codes
const (
	ErrCodeInternal        = "INTERNAL_ERROR"
	ErrCodeBadRequest      = "BAD_REQUEST"
	ErrCodeValidation      = "VALIDATION_ERROR"
	ErrCodeTokenExpired    = "TOKEN_EXPIRED"
	ErrCodeTokenInvalid    = "INVALID_TOKEN"
	ErrCodeTokenRevoked    = "TOKEN_REVOKED"
	ErrCodePayloadTooLarge = "PAYLOAD_TOO_LARGE"
	ErrCodeUnavailable     = "SERVICE_UNAVAILABLE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeNotFound:          http.StatusNotFound,
	ErrCodeConflict:          http.StatusConflict,
	ErrCodeInvalidArgument:   http.StatusBadRequest,
	ErrCodeLimitExceeded:     http.StatusUnprocessableEntity,
	ErrCodeDependencyFailure: http.StatusBadGateway,
	ErrCodeInconsistency:     http.StatusMultiStatus,
	ErrCodeUnauthorized:      http.StatusUnauthorized,
	ErrCodeForbidden:         http.StatusForbidden,

	ErrCodeInternal:        http.StatusInternalServerError,
	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeValidation:      http.StatusBadRequest,
	ErrCodeTokenExpired:    http.StatusUnauthorized,
	ErrCodeTokenInvalid:    http.StatusUnauthorized,
	ErrCodeTokenRevoked:    http.StatusUnauthorized,
	ErrCodePayloadTooLarge: http.StatusRequestEntityTooLarge,
	ErrCodeUnavailable:     http.StatusServiceUnavailable,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
