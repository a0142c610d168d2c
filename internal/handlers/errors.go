package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/SscSPs/lingua_app/internal/apperrors"
	"github.com/SscSPs/lingua_app/internal/dto"
	"github.com/SscSPs/lingua_app/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse = dto.MessageResponse

var registerValidatorOnce sync.Once

// registerValidator makes validation errors report JSON field names instead of Go ones.
func registerValidator() {
	registerValidatorOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return field.Name
			}
			return name
		})
	})
}

// bindErrorMessage turns a binding failure into a client-safe message.
func bindErrorMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "Invalid request body"
	}
	var missing, invalid []string
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			missing = append(missing, fe.Field())
		} else {
			invalid = append(invalid, fe.Field())
		}
	}
	if len(missing) > 0 {
		return "Missing required fields: " + strings.Join(missing, ", ")
	}
	return "Invalid fields: " + strings.Join(invalid, ", ")
}

func respondWithBindError(c *gin.Context, err error) {
	middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Invalid request payload", slog.String("error", err.Error()))
	c.JSON(http.StatusBadRequest, ErrorResponse{OK: false, Message: bindErrorMessage(err)})
}

// errorStatus maps a service error to an HTTP status and a client-safe message.
func errorStatus(err error) (int, string) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Code != 0 {
		if appErr.Code >= http.StatusInternalServerError {
			return appErr.Code, "Internal server error"
		}
		return appErr.Code, appErr.Message
	}

	switch {
	case errors.Is(err, apperrors.ErrDuplicateUsername):
		return http.StatusBadRequest, "Username already in use"
	case errors.Is(err, apperrors.ErrDuplicateEmail):
		return http.StatusBadRequest, "Email already in use"
	case errors.Is(err, apperrors.ErrDuplicate):
		return http.StatusBadRequest, "Resource already exists"
	case errors.Is(err, apperrors.ErrPasswordReuse):
		return http.StatusBadRequest, "Please do not reuse your old password"
	case errors.Is(err, apperrors.ErrMissingCode):
		return http.StatusBadRequest, "No authorization code provided"
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest, "Invalid request"
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid username or password"
	case errors.Is(err, apperrors.ErrInvalidOrExpiredToken):
		return http.StatusUnauthorized, "Invalid or expired token"
	case errors.Is(err, apperrors.ErrTokenExpired):
		return http.StatusUnauthorized, "Token expired"
	case errors.Is(err, apperrors.ErrTokenInvalid), errors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized, "Invalid token"
	case errors.Is(err, apperrors.ErrForbidden):
		return http.StatusForbidden, "Forbidden"
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound, "Not found"
	}
	return http.StatusInternalServerError, "Internal server error"
}

// respondWithError writes the error response. Server-side failures are logged with
// their cause; the client only ever sees the generic message.
func respondWithError(c *gin.Context, err error, action string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	status, message := errorStatus(err)
	if status >= http.StatusInternalServerError {
		logger.Error("Failed to "+action, slog.String("error", err.Error()))
	} else {
		logger.Warn("Rejected request to "+action, slog.Int("status", status), slog.String("error", err.Error()))
	}
	c.JSON(status, ErrorResponse{OK: false, Message: message})
}
