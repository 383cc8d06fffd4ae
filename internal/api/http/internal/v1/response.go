package v1

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/braz-finance/backend/internal/service"
	"github.com/braz-finance/backend/internal/verification"
	"github.com/braz-finance/backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

type messageResponse struct {
	Message string `json:"message"`
} // @name MessageResponse

// errorResponse maps workflow errors to HTTP statuses. Anything unmapped
// is a dependency or programming failure and answers 500 without leaking
// detail.
func errorResponse(c *gin.Context, err error) {
	var rateErr *verification.RateLimitError
	if errors.As(err, &rateErr) {
		c.AbortWithStatusJSON(http.StatusTooManyRequests, messageResponse{rateErr.Message})
		return
	}

	status := http.StatusInternalServerError
	message := "internal server error"

	switch {
	case errors.Is(err, service.ErrUserAlreadyExists),
		errors.Is(err, service.ErrEmailInUse):
		status = http.StatusConflict
		message = err.Error()
	case errors.Is(err, service.ErrInvalidOrExpiredCode),
		errors.Is(err, service.ErrEmailAlreadyVerified):
		status = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrSessionExpired),
		errors.Is(err, service.ErrWrongPassword):
		status = http.StatusUnauthorized
		message = err.Error()
	case errors.Is(err, service.ErrUserNotVerified):
		status = http.StatusForbidden
		message = err.Error()
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrCategoryNotFound),
		errors.Is(err, service.ErrTransactionNotFound):
		status = http.StatusNotFound
		message = err.Error()
	case errors.Is(err, service.ErrEmailDeliveryFailed):
		message = service.ErrEmailDeliveryFailed.Error()
	default:
		logger.Error("request failed", zap.Error(err))
	}

	c.AbortWithStatusJSON(status, messageResponse{message})
}

func validationErrorResponse(c *gin.Context, err error) {
	var verr validator.ValidationErrors
	if errors.As(err, &verr) {
		out := make([]ValidationError, len(verr))
		for i, ferr := range verr {
			out[i] = ValidationError{ferr.Field(), msgForTag(ferr.Tag(), ferr.Param())}
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, ValidationErrorStruct{
			Message: "validation error",
			Errors:  out,
		})
		return
	}

	c.AbortWithStatusJSON(http.StatusBadRequest, messageResponse{"invalid request body"})
}

type ValidationErrorStruct struct {
	Message string            `json:"message"`
	Errors  []ValidationError `json:"validation_errors"`
} // @name ValidationErrorStruct

type ValidationError struct {
	FieldKey     string `json:"field_key"`
	ErrorMessage string `json:"error_message"`
}

func msgForTag(tag string, value string) string {
	switch tag {
	case "required":
		return "this field is required"
	case "email":
		return "invalid email format"
	case "min":
		return fmt.Sprintf("minimum length is %v", value)
	case "max":
		return fmt.Sprintf("maximum length is %v", value)
	case "len":
		return fmt.Sprintf("length must be exactly %v", value)
	case "numeric":
		return "field must be numeric"
	case "oneof":
		return fmt.Sprintf("must be one of: %v", value)
	}
	return tag
}
