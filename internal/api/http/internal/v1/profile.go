package v1

import (
	"net/http"
	"time"

	"github.com/braz-finance/backend/internal/domain"
	"github.com/braz-finance/backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func (h *Handler) initProfileRoutes(api *gin.RouterGroup) {
	user := api.Group("/user", h.userIdentityMiddleware)

	user.GET("/profile", h.getProfile)
	user.PATCH("/profile", h.updateProfile)
	user.POST("/profile/email/request", h.requestEmailChange)
	user.PATCH("/profile/email/confirm", h.confirmEmailChange)
	user.POST("/profile/delete/request", h.requestAccountDeletion)
	user.DELETE("/profile/delete/confirm", h.confirmAccountDeletion)
}

type profileResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"created_at"`
} // @name ProfileResponse

func newProfileResponse(user *domain.User) profileResponse {
	return profileResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Verified:  user.Verified,
		CreatedAt: user.CreatedAt,
	}
}

// @Summary Get profile
// @Tags Profile
// @Produce json
// @Success 200 {object} ProfileResponse
// @Failure 401
// @Security UserAuth
// @Router /user/profile [get]
func (h *Handler) getProfile(c *gin.Context) {
	userID, err := h.getUserUUID(c)
	if err != nil {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	user, err := h.services.Profile.GetProfile(c.Request.Context(), userID)
	if err != nil {
		errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, newProfileResponse(user))
}

type updateProfileRequest struct {
	Name            string `json:"name" binding:"omitempty,min=2,max=100"`
	CurrentPassword string `json:"current_password" binding:"required_with=NewPassword"`
	NewPassword     string `json:"new_password" binding:"omitempty,min=8,max=72"`
}

// @Summary Update profile
// @Tags Profile
// @Description Updates the name and, with the current password, the password
// @Accept json
// @Produce json
// @Param input body updateProfileRequest true "fields to update"
// @Success 200 {object} ProfileResponse
// @Failure 401 {object} MessageResponse
// @Security UserAuth
// @Router /user/profile [patch]
func (h *Handler) updateProfile(c *gin.Context) {
	userID, err := h.getUserUUID(c)
	if err != nil {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationErrorResponse(c, err)
		return
	}

	user, err := h.services.Profile.UpdateProfile(c.Request.Context(), service.UpdateProfileInput{
		UserID:          userID,
		Name:            req.Name,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, newProfileResponse(user))
}

type emailChangeRequest struct {
	NewEmail string `json:"new_email" binding:"required,email"`
}

// @Summary Request email change
// @Tags Profile
// @Description Sends a confirmation code to the new address
// @Accept json
// @Produce json
// @Param input body emailChangeRequest true "new email"
// @Success 200 {object} MessageResponse
// @Failure 409 {object} MessageResponse
// @Security UserAuth
// @Router /user/profile/email/request [post]
func (h *Handler) requestEmailChange(c *gin.Context) {
	userID, err := h.getUserUUID(c)
	if err != nil {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	var req emailChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationErrorResponse(c, err)
		return
	}

	if err := h.services.Profile.RequestEmailChange(c.Request.Context(), userID, normalizeEmail(req.NewEmail)); err != nil {
		errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, messageResponse{"confirmation code sent"})
}

type emailConfirmRequest struct {
	NewEmail string `json:"new_email" binding:"required,email"`
	Code     string `json:"code" binding:"required,len=6,numeric"`
}

// @Summary Confirm email change
// @Tags Profile
// @Accept json
// @Produce json
// @Param input body emailConfirmRequest true "new email and code"
// @Success 200 {object} ProfileResponse
// @Failure 400 {object} MessageResponse
// @Failure 429 {object} MessageResponse
// @Security UserAuth
// @Router /user/profile/email/confirm [patch]
func (h *Handler) confirmEmailChange(c *gin.Context) {
	userID, err := h.getUserUUID(c)
	if err != nil {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	var req emailConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationErrorResponse(c, err)
		return
	}

	user, err := h.services.Profile.ConfirmEmailChange(c.Request.Context(), userID, normalizeEmail(req.NewEmail), req.Code)
	if err != nil {
		errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, newProfileResponse(user))
}

type deleteAccountRequest struct {
	Password string `json:"password" binding:"required"`
}

// @Summary Request account deletion
// @Tags Profile
// @Description Re-authenticates with the password and emails a confirmation code
// @Accept json
// @Produce json
// @Param input body deleteAccountRequest true "current password"
// @Success 200 {object} MessageResponse
// @Failure 401 {object} MessageResponse
// @Security UserAuth
// @Router /user/profile/delete/request [post]
func (h *Handler) requestAccountDeletion(c *gin.Context) {
	userID, err := h.getUserUUID(c)
	if err != nil {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	var req deleteAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationErrorResponse(c, err)
		return
	}

	if err := h.services.Profile.RequestAccountDeletion(c.Request.Context(), userID, req.Password); err != nil {
		errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, messageResponse{"confirmation code sent"})
}

type deleteConfirmRequest struct {
	Code string `json:"code" binding:"required,len=6,numeric"`
}

// @Summary Confirm account deletion
// @Tags Profile
// @Accept json
// @Produce json
// @Param input body deleteConfirmRequest true "confirmation code"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} MessageResponse
// @Failure 429 {object} MessageResponse
// @Security UserAuth
// @Router /user/profile/delete/confirm [delete]
func (h *Handler) confirmAccountDeletion(c *gin.Context) {
	userID, err := h.getUserUUID(c)
	if err != nil {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	var req deleteConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationErrorResponse(c, err)
		return
	}

	if err := h.services.Profile.ConfirmAccountDeletion(c.Request.Context(), userID, req.Code); err != nil {
		errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, messageResponse{"account deleted"})
}
