package dto

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeConflict, http.StatusConflict},
		{ErrCodeInvalidArgument, http.StatusBadRequest},
		{ErrCodeLimitExceeded, http.StatusUnprocessableEntity},
		{ErrCodeDependencyFailure, http.StatusBadGateway},
		{ErrCodeInconsistency, http.StatusMultiStatus},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeForbidden, http.StatusForbidden},
		{ErrCodeTokenExpired, http.StatusUnauthorized},
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodePayloadTooLarge, http.StatusRequestEntityTooLarge},
		{ErrCodeUnavailable, http.StatusServiceUnavailable},
		{"SOMETHING_ELSE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestNewSuccessResponseWithMeta(t *testing.T) {
	resp := NewSuccessResponseWithMeta([]int{1, 2}, 45, 2, 20)

	assert.True(t, resp.Success)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, 3, resp.Meta.TotalPages)

	unpaged := NewSuccessResponseWithMeta([]int{}, 0, 1, 0)
	assert.Equal(t, 1, unpaged.Meta.TotalPages)
}

func TestNewErrorResponse_JSONShape(t *testing.T) {
	body, err := json.Marshal(NewErrorResponse(ErrCodeNotFound, "Product not found", "req-1"))
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"success": false,
		"error": {"code": "NOT_FOUND", "message": "Product not found", "request_id": "req-1"}
	}`, string(body))
}

func TestNewPartialResponse_CarriesDataAndError(t *testing.T) {
	resp := NewPartialResponse(map[string]string{"id": "e1"}, ErrCodeInconsistency, "cart not cleared", "req-2",
		map[string]any{"enquiry_id": "e1"})

	body, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"success": false,
		"data": {"id": "e1"},
		"error": {
			"code": "INCONSISTENCY",
			"message": "cart not cleared",
			"request_id": "req-2",
			"details": {"enquiry_id": "e1"}
		}
	}`, string(body))
}

func TestNewValidationErrorResponse(t *testing.T) {
	resp := NewValidationErrorResponse("Request validation failed", "", []ValidationDetail{{Field: "name", Message: "name is required"}})

	assert.Equal(t, ErrCodeValidation, resp.Error.Code)
	assert.Len(t, resp.Error.Fields, 1)
}
