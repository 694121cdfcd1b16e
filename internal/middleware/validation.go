package middleware

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/yigit/ratemyteacher/internal/app/models/dto"
)

var registerTagNames sync.Once

// useJSONFieldNames makes validation errors name fields as clients send them
func useJSONFieldNames() {
	registerTagNames.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
	})
}

// BindJSON binds and validates the request body into obj. On failure the
// 400 response is already written and false is returned.
func BindJSON(c *gin.Context, obj interface{}) bool {
	useJSONFieldNames()

	if err := c.ShouldBindJSON(obj); err != nil {
		HandleBindError(c, err)
		return false
	}
	return true
}

// HandleBindError responds to a body that could not be decoded or validated
func HandleBindError(c *gin.Context, err error) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		details := make([]dto.FieldError, 0, len(validationErrors))
		for _, fe := range validationErrors {
			details = append(details, dto.FieldError{Field: fe.Field(), Message: formatValidationError(fe)})
		}
		c.AbortWithStatusJSON(http.StatusBadRequest,
			dto.NewErrorResponse(dto.ErrorCodeValidationFailed, details[0].Message).WithDetails(details))
		return
	}

	message := "invalid request body"
	if errors.Is(err, io.EOF) {
		message = "request body is required"
	}
	RespondWithError(c, http.StatusBadRequest, dto.ErrorCodeValidationFailed, message)
}

// formatValidationError creates a human-readable validation error message
func formatValidationError(e validator.FieldError) string {
	unit := ""
	if e.Kind() == reflect.String {
		unit = " characters"
	}

	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s%s", e.Field(), e.Param(), unit)
	case "max":
		return fmt.Sprintf("%s must be at most %s%s", e.Field(), e.Param(), unit)
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	default:
		return e.Field() + " validation failed: " + e.Tag()
	}
}
