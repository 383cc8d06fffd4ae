package v1

import (
	"net/http"
	"strconv"
	"time"

	"github.com/braz-finance/backend/internal/domain"
	"github.com/braz-finance/backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func (h *Handler) initTransactionRoutes(api *gin.RouterGroup) {
	transactions := api.Group("/transactions", h.userIdentityMiddleware)

	transactions.POST("", h.createTransaction)
	transactions.GET("", h.listTransactions)
	transactions.GET("/month/:year/:month", h.monthlyTransactions)
	transactions.GET("/balance/:year/:month", h.monthlyBalance)
	transactions.GET("/statement/:year/:month", h.monthlyStatement)
	transactions.GET("/category/:categoryId", h.transactionsByCategory)
	transactions.GET("/:id", h.getTransaction)
	transactions.PATCH("/:id", h.updateTransaction)
	transactions.DELETE("/:id", h.deleteTransaction)
}

type createTransactionRequest struct {
	CategoryID  uuid.UUID `json:"category_id" binding:"required"`
	AmountCents int64     `json:"amount_cents" binding:"required"`
	Description string    `json:"description" binding:"required,max=255"`
	Date        time.Time `json:"date" binding:"required"`
	Status      string    `json:"status" binding:"omitempty,oneof=pending completed cancelled"`
	Notes       string    `json:"notes" binding:"omitempty,max=1000"`
}

type transactionListResponse struct {
	Items []domain.Transaction `json:"items"`
	Total int64                `json:"total"`
	Page  int                  `json:"page"`
	Limit int                  `json:"limit"`
} // @name TransactionListResponse

// @Summary Create transaction
// @Tags Transactions
// @Accept json
// @Produce json
// @Param input body createTransactionRequest true "transaction data"
// @Success 201 {object} domain.Transaction
// @Failure 404 {object} MessageResponse
// @Security UserAuth
// @Router /transactions [post]
func (h *Handler) createTransaction(c *gin.Context) {
	userID, err := h.getUserUUID(c)
	if err != nil {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	var req createTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationErrorResponse(c, err)
		return
	}

	transaction, err := h.services.Transactions.Create(c.Request.Context(), service.CreateTransactionInput{
		UserID:      userID,
		CategoryID:  req.CategoryID,
		AmountCents: req.AmountCents,
		Description: req.Description,
		Date:        req.Date,
		Status:      domain.TransactionStatus(req.Status),
		Notes:       req.Notes,
	})
	if err != nil {
		errorResponse(c, err)
		return
	}

	c.JSON(http.StatusCreated, transaction)
}

// @Summary List transactions
// @Tags Transactions
// @Produce json
// @Param page query int false "page, starting at 1"
// @Param limit query int false "page size, max 100"
// @Success 200 {object} TransactionListResponse
// @Security UserAuth
// @Router /transactions [get]
func (h *Handler) listTransactions(c *gin.Context) {
	userID, err := h.getUserUUID(c)
	if err != nil {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	items, total, err := h.services.Transactions.List(c.Request.Context(), userID, page, limit)
	if err != nil {
		errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, transactionListResponse{
		Items: items,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// @Summary Monthly transactions
// @Tags Transactions
// @Produce json
// @Param year path int true "year"
// @Param month path int true "month, 1-12"
// @Success 200 {array} domain.Transaction
// @Security UserAuth
// @Router /transactions/month/{year}/{month} [get]
func (h *Handler) monthlyTransactions(c *gin.Context) {
	userID, err := h.getUserUUID(c)
	if err != nil {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	year, month, ok := yearMonthParams(c)
	if !ok {
		return
	}

	transactions, err := h.services.Transactions.GetMonthly(c.Request.Context(), userID, year, month)
	if err != nil {
		errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, transactions)
}

// @Summary Monthly balance
// @Tags Transactions
// @Produce json
// @Param year path int true "year"
// @Param month path int true "month, 1-12"
// @Success 200 {object} service.MonthlyBalance
// @Security UserAuth
// @Router /transactions/balance/{year}/{month} [get]
func (h *Handler) monthlyBalance(c *gin.Context) {
	userID, err := h.getUserUUID(c)
	if err != nil {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	year, month, ok := yearMonthParams(c)
	if !ok {
		return
	}

	balance, err := h.services.Transactions.GetBalance(c.Request.Context(), userID, year, month)
	if err != nil {
		errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, balance)
}

// @Summary Monthly statement PDF
// @Tags Transactions
// @Produce application/pdf
// @Param year path int true "year"
// @Param month path int true "month, 1-12"
// @Success 200 {file} binary
// @Security UserAuth
// @Router /transactions/statement/{year}/{month} [get]
func (h *Handler) monthlyStatement(c *gin.Context) {
	userID, err := h.getUserUUID(c)
	if err != nil {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	year, month, ok := yearMonthParams(c)
	if !ok {
		return
	}

	document, err := h.services.Transactions.MonthlyStatement(c.Request.Context(), userID, year, month)
	if err != nil {
		errorResponse(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="statement.pdf"`)
	c.Data(http.StatusOK, "application/pdf", document)
}

// @Summary Transactions by category
// @Tags Transactions
// @Produce json
// @Param categoryId path string true "category id"
// @Success 200 {array} domain.Transaction
// @Failure 404 {object} MessageResponse
// @Security UserAuth
// @Router /transactions/category/{categoryId} [get]
func (h *Handler) transactionsByCategory(c *gin.Context) {
	userID, err := h.getUserUUID(c)
	if err != nil {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	categoryID, err := uuid.Parse(c.Param("categoryId"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, messageResponse{"invalid category id"})
		return
	}

	transactions, err := h.services.Transactions.GetByCategory(c.Request.Context(), userID, categoryID)
	if err != nil {
		errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, transactions)
}

// @Summary Get transaction
// @Tags Transactions
// @Produce json
// @Param id path string true "transaction id"
// @Success 200 {object} domain.Transaction
// @Failure 404 {object} MessageResponse
// @Security UserAuth
// @Router /transactions/{id} [get]
func (h *Handler) getTransaction(c *gin.Context) {
	userID, err := h.getUserUUID(c)
	if err != nil {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, messageResponse{"invalid transaction id"})
		return
	}

	transaction, err := h.services.Transactions.GetOneByID(c.Request.Context(), userID, id)
	if err != nil {
		errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, transaction)
}

type updateTransactionRequest struct {
	CategoryID  *uuid.UUID `json:"category_id"`
	AmountCents *int64     `json:"amount_cents"`
	Description *string    `json:"description" binding:"omitempty,max=255"`
	Date        *time.Time `json:"date"`
	Status      *string    `json:"status" binding:"omitempty,oneof=pending completed cancelled"`
	Notes       *string    `json:"notes" binding:"omitempty,max=1000"`
}

// @Summary Update transaction
// @Tags Transactions
// @Accept json
// @Produce json
// @Param id path string true "transaction id"
// @Param input body updateTransactionRequest true "fields to update"
// @Success 200 {object} domain.Transaction
// @Failure 404 {object} MessageResponse
// @Security UserAuth
// @Router /transactions/{id} [patch]
func (h *Handler) updateTransaction(c *gin.Context) {
	userID, err := h.getUserUUID(c)
	if err != nil {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, messageResponse{"invalid transaction id"})
		return
	}

	var req updateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationErrorResponse(c, err)
		return
	}

	input := service.UpdateTransactionInput{
		UserID:      userID,
		ID:          id,
		CategoryID:  req.CategoryID,
		AmountCents: req.AmountCents,
		Description: req.Description,
		Date:        req.Date,
		Notes:       req.Notes,
	}
	if req.Status != nil {
		status := domain.TransactionStatus(*req.Status)
		input.Status = &status
	}

	transaction, err := h.services.Transactions.Update(c.Request.Context(), input)
	if err != nil {
		errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, transaction)
}

// @Summary Delete transaction
// @Tags Transactions
// @Produce json
// @Param id path string true "transaction id"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} MessageResponse
// @Security UserAuth
// @Router /transactions/{id} [delete]
func (h *Handler) deleteTransaction(c *gin.Context) {
	userID, err := h.getUserUUID(c)
	if err != nil {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, messageResponse{"invalid transaction id"})
		return
	}

	if err := h.services.Transactions.Delete(c.Request.Context(), userID, id); err != nil {
		errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, messageResponse{"transaction deleted"})
}

func yearMonthParams(c *gin.Context) (int, int, bool) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil || year < 2000 || year > 2100 {
		c.AbortWithStatusJSON(http.StatusBadRequest, messageResponse{"invalid year"})
		return 0, 0, false
	}

	month, err := strconv.Atoi(c.Param("month"))
	if err != nil || month < 1 || month > 12 {
		c.AbortWithStatusJSON(http.StatusBadRequest, messageResponse{"invalid month"})
		return 0, 0, false
	}

	return year, month, true
}
