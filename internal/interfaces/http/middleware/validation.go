package middleware

import (
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/sami999khan999/multi-vendor-ecommerce-sub001/internal/interfaces/http/dto"
)

// SetupValidator makes validation errors report JSON field names instead of
// Go struct field names.
func SetupValidator() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			name, _, _ = strings.Cut(field.Tag.Get("form"), ",")
		}
		return name
	})
}

// HandleValidationError writes a 400 with per-field details for binding
// failures.
func HandleValidationError(c *gin.Context, err error) {
	var details []dto.ValidationDetail
	if fieldErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range fieldErrors {
			details = append(details, dto.ValidationDetail{
				Field:   fe.Field(),
				Message: describeFieldError(fe),
			})
		}
	}
	c.JSON(http.StatusBadRequest,
		dto.NewValidationErrorResponse("request validation failed", c.GetString("request_id"), details))
}

var validationMessages = map[string]string{
	"required": "this field is required",
	"uuid":     "must be a valid UUID",
	"email":    "must be a valid email address",
	"url":      "must be a valid URL",
	"numeric":  "must be numeric",
	"alphanum": "must be alphanumeric",
}

func describeFieldError(fe validator.FieldError) string {
	if msg, ok := validationMessages[fe.Tag()]; ok {
		return msg
	}
	switch fe.Tag() {
	case "min", "gte":
		return "must be at least " + fe.Param()
	case "max", "lte":
		return "must be at most " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "lt":
		return "must be less than " + fe.Param()
	case "len":
		return "must have length " + fe.Param()
	case "oneof":
		return "must be one of " + fe.Param()
	default:
		return "invalid value"
	}
}
