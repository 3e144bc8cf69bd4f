package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"slices"
	"strings"

	"github.com/catalogue/backend/internal/domain/catalog"
	"github.com/catalogue/backend/internal/domain/enquiry"
	"github.com/catalogue/backend/internal/infrastructure/logger"
	"github.com/catalogue/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// enumTags are validation tags accepting one of a fixed set of strings
var enumTags = map[string][]string{
	"product_status": {
		string(catalog.ProductStatusAvailable),
		string(catalog.ProductStatusOutOfStock),
	},
	"enquiry_status": statusNames(enquiry.AllStatuses),
}

func statusNames(statuses []enquiry.Status) []string {
	names := make([]string, len(statuses))
	for i, s := range statuses {
		names[i] = string(s)
	}
	return names
}

// SetupValidator configures gin's validator. Field names in errors follow
// the json tag, falling back to the form tag, and enumTags are registered.
func SetupValidator() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("unexpected binding validator engine")
	}
	v.RegisterTagNameFunc(fieldName)

	for tag, allowed := range enumTags {
		err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return slices.Contains(allowed, fl.Field().String())
		})
		if err != nil {
			return fmt.Errorf("register %s: %w", tag, err)
		}
	}
	return nil
}

func fieldName(fld reflect.StructField) string {
	for _, key := range []string{"json", "form"} {
		name, _, _ := strings.Cut(fld.Tag.Get(key), ",")
		switch name {
		case "-":
			return ""
		case "":
			continue
		}
		return name
	}
	return ""
}

// FormatValidationErrors builds the 400 body for err, with one entry per
// failed field when err comes from the validator
func FormatValidationErrors(err error, requestID string) dto.Response {
	var details []dto.ValidationDetail
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			details = append(details, dto.ValidationDetail{Field: fe.Field(), Message: describe(fe)})
		}
	}
	return dto.NewValidationErrorResponse("Request validation failed", requestID, details)
}

// HandleValidationError writes a 400 validation error response. Errors that
// are not validator errors (malformed JSON, bad multipart) are reported
// without field details.
func HandleValidationError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, FormatValidationErrors(err, c.GetString(logger.GinRequestIDKey)))
}

// describe renders fe for API clients
func describe(fe validator.FieldError) string {
	if allowed, ok := enumTags[fe.Tag()]; ok {
		return "Must be one of: " + strings.Join(allowed, ", ")
	}

	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "min":
		return bound("at least", fe)
	case "max":
		return bound("at most", fe)
	case "uuid":
		return "Invalid UUID format"
	case "url":
		return "Invalid URL format"
	case "oneof":
		return "Must be one of: " + strings.Join(strings.Fields(fe.Param()), ", ")
	}
	return "Invalid value"
}

// bound phrases a min/max failure in the unit of the field's kind
func bound(limit string, fe validator.FieldError) string {
	switch fe.Kind() {
	case reflect.String:
		return fmt.Sprintf("Must be %s %s characters", limit, fe.Param())
	case reflect.Slice, reflect.Array, reflect.Map:
		return fmt.Sprintf("Must contain %s %s items", limit, fe.Param())
	}
	return fmt.Sprintf("Must be %s %s", limit, fe.Param())
}
