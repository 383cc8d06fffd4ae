package v1

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/braz-finance/backend/internal/service"
	"github.com/braz-finance/backend/internal/verification"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func recordErrorResponse(err error) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)

	errorResponse(c, err)

	return w
}

func TestErrorResponse_StatusMapping(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
	}{
		{"duplicate user", service.ErrUserAlreadyExists, http.StatusConflict, service.ErrUserAlreadyExists.Error()},
		{"email in use", service.ErrEmailInUse, http.StatusConflict, service.ErrEmailInUse.Error()},
		{"bad code", service.ErrInvalidOrExpiredCode, http.StatusBadRequest, service.ErrInvalidOrExpiredCode.Error()},
		{"wrong password", service.ErrWrongPassword, http.StatusUnauthorized, service.ErrWrongPassword.Error()},
		{"unverified user", service.ErrUserNotVerified, http.StatusForbidden, service.ErrUserNotVerified.Error()},
		{"missing transaction", service.ErrTransactionNotFound, http.StatusNotFound, service.ErrTransactionNotFound.Error()},
		{"unexpected failure", errors.New("boom"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := recordErrorResponse(tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.JSONEq(t, fmt.Sprintf(`{"message": %q}`, tt.wantMessage), w.Body.String())
		})
	}
}

func TestErrorResponse_MailDeliveryFailureIs500(t *testing.T) {
	err := fmt.Errorf("%w: dial tcp 127.0.0.1:587: connection refused", service.ErrEmailDeliveryFailed)

	w := recordErrorResponse(err)

	// A dead mail relay is a dependency failure, but the caller still gets
	// a distinguishable message instead of the generic one.
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, fmt.Sprintf(`{"message": %q}`, service.ErrEmailDeliveryFailed.Error()), w.Body.String())
}

func TestErrorResponse_RateLimited(t *testing.T) {
	err := &verification.RateLimitError{Message: "too many attempts, try again in 3 minute(s)"}

	w := recordErrorResponse(err)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"message": "too many attempts, try again in 3 minute(s)"}`, w.Body.String())
}
