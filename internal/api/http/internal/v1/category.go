package v1

import (
	"net/http"

	"github.com/braz-finance/backend/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func (h *Handler) initCategoryRoutes(api *gin.RouterGroup) {
	categories := api.Group("/categories")

	categories.GET("", h.listCategories)
	categories.GET("/type/:type", h.categoriesByType)
	categories.GET("/slug/:slug", h.categoryBySlug)
	categories.GET("/:id", h.getCategory)
}

// @Summary List categories
// @Tags Categories
// @Produce json
// @Success 200 {array} domain.Category
// @Router /categories [get]
func (h *Handler) listCategories(c *gin.Context) {
	categories, err := h.services.Categories.GetAll(c.Request.Context())
	if err != nil {
		errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, categories)
}

// @Summary Categories by type
// @Tags Categories
// @Produce json
// @Param type path string true "income or expense"
// @Success 200 {array} domain.Category
// @Router /categories/type/{type} [get]
func (h *Handler) categoriesByType(c *gin.Context) {
	categoryType := domain.CategoryType(c.Param("type"))
	if categoryType != domain.CategoryTypeIncome && categoryType != domain.CategoryTypeExpense {
		c.AbortWithStatusJSON(http.StatusBadRequest, messageResponse{"invalid category type"})
		return
	}

	categories, err := h.services.Categories.GetByType(c.Request.Context(), categoryType)
	if err != nil {
		errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, categories)
}

// @Summary Category by slug
// @Tags Categories
// @Produce json
// @Param slug path string true "category slug"
// @Success 200 {object} domain.Category
// @Failure 404 {object} MessageResponse
// @Router /categories/slug/{slug} [get]
func (h *Handler) categoryBySlug(c *gin.Context) {
	category, err := h.services.Categories.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, category)
}

// @Summary Get category
// @Tags Categories
// @Produce json
// @Param id path string true "category id"
// @Success 200 {object} domain.Category
// @Failure 404 {object} MessageResponse
// @Router /categories/{id} [get]
func (h *Handler) getCategory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, messageResponse{"invalid category id"})
		return
	}

	category, err := h.services.Categories.GetOneByID(c.Request.Context(), id)
	if err != nil {
		errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, category)
}
