package handler

import "github.com/catalogue/backend/internal/interfaces/http/dto"

// Envelope types below only describe response shapes for the API docs; the
// handlers write dto.Response.

// APIResponse is a successful response carrying T.
// @Description Success envelope; list endpoints add pagination meta
type APIResponse[T any] struct {
	Success bool           `json:"success" example:"true"`
	Data    T              `json:"data,omitempty"`
	Error   *dto.ErrorInfo `json:"error,omitempty"`
	Meta    *dto.Meta      `json:"meta,omitempty"`
}

// PartialResponse is a 207: data was persisted, a follow-up step failed.
// @Description Partial success envelope with both data and error set
type PartialResponse[T any] struct {
	Success bool          `json:"success" example:"false"`
	Data    T             `json:"data"`
	Error   dto.ErrorInfo `json:"error"`
}

// ErrorResponse is a failed request.
// @Description Error envelope with a stable code and request id
type ErrorResponse struct {
	Success bool           `json:"success" example:"false"`
	Error   *dto.ErrorInfo `json:"error,omitempty"`
}
