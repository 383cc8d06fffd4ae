package v1

import (
	"github.com/braz-finance/backend/internal/config"
	"github.com/braz-finance/backend/internal/service"
	"github.com/braz-finance/backend/pkg/auth"

	"github.com/gin-gonic/gin"
)

// @title Braz Finance API
// @version 1.0
// @description Personal finance backend API

// @BasePath /api/v1

// @securityDefinitions.apikey UserAuth
// @in header
// @name Authorization

type Handler struct {
	services     *service.Services
	tokenManager auth.TokenManager
	config       *config.Config
}

func NewHandler(
	services *service.Services,
	tokenManager auth.TokenManager,
	config *config.Config,
) *Handler {
	return &Handler{
		services:     services,
		tokenManager: tokenManager,
		config:       config,
	}
}

func (h *Handler) Init(api *gin.RouterGroup) {
	v1 := api.Group("v1")

	h.initAuthRoutes(v1)
	h.initProfileRoutes(v1)
	h.initTransactionRoutes(v1)
	h.initCategoryRoutes(v1)
	h.initAIRoutes(v1)
}
