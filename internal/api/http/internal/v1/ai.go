package v1

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func (h *Handler) initAIRoutes(api *gin.RouterGroup) {
	ai := api.Group("/ai", h.userIdentityMiddleware)

	ai.POST("/chat", h.aiChat)
	ai.POST("/report", h.aiReport)
	ai.POST("/analyze-category", h.aiAnalyzeCategory)
	ai.GET("/history", h.aiHistory)
}

type aiChatRequest struct {
	Question string `json:"question" binding:"required,min=3,max=1000"`
}

type aiAnswerResponse struct {
	Answer string `json:"answer"`
} // @name AIAnswerResponse

// @Summary Financial chat
// @Tags AI
// @Description Answers a finance question grounded in the user's recent activity
// @Accept json
// @Produce json
// @Param input body aiChatRequest true "question"
// @Success 200 {object} AIAnswerResponse
// @Security UserAuth
// @Router /ai/chat [post]
func (h *Handler) aiChat(c *gin.Context) {
	userID, err := h.getUserUUID(c)
	if err != nil {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	var req aiChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationErrorResponse(c, err)
		return
	}

	answer, err := h.services.AI.Chat(c.Request.Context(), userID, req.Question)
	if err != nil {
		errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, aiAnswerResponse{Answer: answer})
}

type aiReportRequest struct {
	Month int `json:"month" binding:"required,min=1,max=12"`
	Year  int `json:"year" binding:"required,min=2000,max=2100"`
}

// @Summary Monthly report
// @Tags AI
// @Accept json
// @Produce json
// @Param input body aiReportRequest true "month and year"
// @Success 200 {object} AIAnswerResponse
// @Security UserAuth
// @Router /ai/report [post]
func (h *Handler) aiReport(c *gin.Context) {
	userID, err := h.getUserUUID(c)
	if err != nil {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	var req aiReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationErrorResponse(c, err)
		return
	}

	report, err := h.services.AI.MonthlyReport(c.Request.Context(), userID, req.Month, req.Year)
	if err != nil {
		errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, aiAnswerResponse{Answer: report})
}

type aiAnalyzeCategoryRequest struct {
	CategoryID uuid.UUID `json:"category_id" binding:"required"`
	Month      int       `json:"month" binding:"required,min=1,max=12"`
	Year       int       `json:"year" binding:"required,min=2000,max=2100"`
}

// @Summary Analyze category spending
// @Tags AI
// @Accept json
// @Produce json
// @Param input body aiAnalyzeCategoryRequest true "category, month and year"
// @Success 200 {object} AIAnswerResponse
// @Failure 404 {object} MessageResponse
// @Security UserAuth
// @Router /ai/analyze-category [post]
func (h *Handler) aiAnalyzeCategory(c *gin.Context) {
	userID, err := h.getUserUUID(c)
	if err != nil {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	var req aiAnalyzeCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationErrorResponse(c, err)
		return
	}

	analysis, err := h.services.AI.AnalyzeCategory(c.Request.Context(), userID, req.CategoryID, req.Month, req.Year)
	if err != nil {
		errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, aiAnswerResponse{Answer: analysis})
}

// @Summary Conversation history
// @Tags AI
// @Produce json
// @Param limit query int false "max entries, default 20"
// @Success 200 {array} domain.Conversation
// @Security UserAuth
// @Router /ai/history [get]
func (h *Handler) aiHistory(c *gin.Context) {
	userID, err := h.getUserUUID(c)
	if err != nil {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	history, err := h.services.AI.History(c.Request.Context(), userID, limit)
	if err != nil {
		errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, history)
}
