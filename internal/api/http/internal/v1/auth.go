package v1

import (
	"net/http"
	"strings"

	"github.com/braz-finance/backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func (h *Handler) initAuthRoutes(api *gin.RouterGroup) {
	auth := api.Group("/auth")

	auth.POST("/register", h.register)
	auth.POST("/verify-email", h.verifyEmail)
	auth.POST("/resend-code", h.resendCode)
	auth.POST("/login", h.login)
	auth.POST("/refresh", h.refresh)
	auth.POST("/password/recovery", h.passwordRecovery)
	auth.POST("/password/reset", h.passwordReset)
}

// Emails are case-insensitive identities, normalized once at the edge.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

// @Summary Register
// @Tags Auth
// @Description Creates an account and emails a verification code
// @Accept json
// @Produce json
// @Param input body registerRequest true "registration data"
// @Success 201 {object} MessageResponse
// @Failure 400 {object} ValidationErrorStruct
// @Failure 409 {object} MessageResponse
// @Router /auth/register [post]
func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationErrorResponse(c, err)
		return
	}

	err := h.services.Users.Register(c.Request.Context(), service.RegisterInput{
		Email:    normalizeEmail(req.Email),
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		errorResponse(c, err)
		return
	}

	c.JSON(http.StatusCreated, messageResponse{"verification code sent"})
}

type verifyEmailRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required,len=6,numeric"`
}

// @Summary Verify email
// @Tags Auth
// @Description Consumes the emailed verification code
// @Accept json
// @Produce json
// @Param input body verifyEmailRequest true "email and code"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} MessageResponse
// @Failure 429 {object} MessageResponse
// @Router /auth/verify-email [post]
func (h *Handler) verifyEmail(c *gin.Context) {
	var req verifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationErrorResponse(c, err)
		return
	}

	if err := h.services.Users.VerifyEmail(c.Request.Context(), normalizeEmail(req.Email), req.Code); err != nil {
		errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, messageResponse{"email verified"})
}

type resendCodeRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// @Summary Resend verification code
// @Tags Auth
// @Accept json
// @Produce json
// @Param input body resendCodeRequest true "email"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} MessageResponse
// @Router /auth/resend-code [post]
func (h *Handler) resendCode(c *gin.Context) {
	var req resendCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationErrorResponse(c, err)
		return
	}

	if err := h.services.Users.ResendVerificationCode(c.Request.Context(), normalizeEmail(req.Email)); err != nil {
		errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, messageResponse{"verification code sent"})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type tokenResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken uuid.UUID `json:"refresh_token"`
	ExpiresIn    int64     `json:"expires_in"`
} // @name TokenResponse

// @Summary Login
// @Tags Auth
// @Accept json
// @Produce json
// @Param input body loginRequest true "credentials"
// @Success 200 {object} TokenResponse
// @Failure 401 {object} MessageResponse
// @Failure 403 {object} MessageResponse
// @Router /auth/login [post]
func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationErrorResponse(c, err)
		return
	}

	tokens, err := h.services.Users.Login(c.Request.Context(), service.LoginInput{
		Email:     normalizeEmail(req.Email),
		Password:  req.Password,
		UserAgent: c.Request.UserAgent(),
		UserIP:    c.ClientIP(),
	})
	if err != nil {
		errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, tokenResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		ExpiresIn:    int64(tokens.AccessTTL.Seconds()),
	})
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// @Summary Refresh tokens
// @Tags Auth
// @Description Exchanges a refresh token for a new pair; the old token is revoked
// @Accept json
// @Produce json
// @Param input body refreshRequest true "refresh token"
// @Success 200 {object} TokenResponse
// @Failure 401 {object} MessageResponse
// @Router /auth/refresh [post]
func (h *Handler) refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationErrorResponse(c, err)
		return
	}

	tokens, err := h.services.Users.Refresh(c.Request.Context(), req.RefreshToken, c.Request.UserAgent(), c.ClientIP())
	if err != nil {
		errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, tokenResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		ExpiresIn:    int64(tokens.AccessTTL.Seconds()),
	})
}

type passwordRecoveryRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// @Summary Request password recovery
// @Tags Auth
// @Description Always answers 200, whether or not the email is registered
// @Accept json
// @Produce json
// @Param input body passwordRecoveryRequest true "email"
// @Success 200 {object} MessageResponse
// @Router /auth/password/recovery [post]
func (h *Handler) passwordRecovery(c *gin.Context) {
	var req passwordRecoveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationErrorResponse(c, err)
		return
	}

	if err := h.services.Users.RequestPasswordRecovery(c.Request.Context(), normalizeEmail(req.Email)); err != nil {
		errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, messageResponse{"if the email is registered, a code was sent"})
}

type passwordResetRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Code        string `json:"code" binding:"required,len=6,numeric"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=72"`
}

// @Summary Reset password
// @Tags Auth
// @Accept json
// @Produce json
// @Param input body passwordResetRequest true "email, code and new password"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} MessageResponse
// @Failure 429 {object} MessageResponse
// @Router /auth/password/reset [post]
func (h *Handler) passwordReset(c *gin.Context) {
	var req passwordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationErrorResponse(c, err)
		return
	}

	err := h.services.Users.ResetPassword(c.Request.Context(), normalizeEmail(req.Email), req.Code, req.NewPassword)
	if err != nil {
		errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, messageResponse{"password updated"})
}
