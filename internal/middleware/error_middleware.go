package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/ratemyteacher/internal/app/models/dto"
	"github.com/yigit/ratemyteacher/internal/pkg/apperrors"
	"github.com/yigit/ratemyteacher/internal/pkg/logger"
)

// errorMapping binds a sentinel to its response status and code
type errorMapping struct {
	target error
	status int
	code   dto.ErrorCode
	// message replaces err.Error() when set
	message string
}

// apiErrors is checked in order; more specific sentinels come first
var apiErrors = []errorMapping{
	{apperrors.ErrTokenExpired, http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "token expired"},
	{apperrors.ErrTokenInvalid, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "invalid token"},
	{apperrors.ErrInvalidCredentials, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, ""},
	{apperrors.ErrUnauthenticated, http.StatusUnauthorized, dto.ErrorCodeUnauthorized, ""},
	{apperrors.ErrNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, ""},
	{apperrors.ErrConflict, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, ""},
	{apperrors.ErrInvalidImage, http.StatusBadRequest, dto.ErrorCodeInvalidImage, ""},
	{apperrors.ErrAlreadySetUp, http.StatusBadRequest, dto.ErrorCodeAlreadySetUp, ""},
	{apperrors.ErrSetupRequired, http.StatusBadRequest, dto.ErrorCodeSetupRequired, ""},
	{apperrors.ErrValidationFailed, http.StatusBadRequest, dto.ErrorCodeValidationFailed, ""},
}

// HandleAPIError writes the response for an error returned by a service and
// aborts the chain. Unknown errors become a 500 whose cause is only logged.
func HandleAPIError(c *gin.Context, err error) {
	for _, m := range apiErrors {
		if errors.Is(err, m.target) {
			message := m.message
			if message == "" {
				message = err.Error()
			}
			RespondWithError(c, m.status, m.code, message)
			return
		}
	}

	logger.Error().Err(err).
		Str("method", c.Request.Method).
		Str("path", c.FullPath()).
		Msg("Unhandled error while serving request")
	_ = c.Error(err)
	RespondWithError(c, http.StatusInternalServerError, dto.ErrorCodeInternalServer, "internal server error")
}

// RespondWithError aborts the request with the standard error body
func RespondWithError(c *gin.Context, status int, code dto.ErrorCode, message string) {
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(code, message))
}
