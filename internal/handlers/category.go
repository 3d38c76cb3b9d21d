// internal/handlers/category.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/atelierprints/catalog-backend/internal/services"
	"github.com/atelierprints/catalog-backend/internal/utils"
)

type CategoryHandler struct {
	categoryService    *services.CategoryService
	subcategoryService *services.SubcategoryService
}

func NewCategoryHandler(categoryService *services.CategoryService, subcategoryService *services.SubcategoryService) *CategoryHandler {
	return &CategoryHandler{
		categoryService:    categoryService,
		subcategoryService: subcategoryService,
	}
}

// GET /categories
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	categories, err := h.categoryService.ListCategories()
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, categories)
}

// POST /categories
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}

	var req services.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	category, err := h.categoryService.CreateCategory(userID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, category)
}

// GET /categories/:id
func (h *CategoryHandler) GetCategory(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	category, err := h.categoryService.GetCategory(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, category)
}

// PUT /categories/:id
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	category, err := h.categoryService.UpdateCategory(id, userID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, category)
}

// DELETE /categories/:id
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.categoryService.DeleteCategory(id, userID); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"deleted": true})
}

// GET /categories/:id/subcategories
func (h *CategoryHandler) ListSubcategories(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	subcategories, err := h.subcategoryService.ListSubcategories(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, subcategories)
}

// POST /categories/:id/subcategories
func (h *CategoryHandler) CreateSubcategory(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.CreateSubcategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	subcategory, err := h.subcategoryService.CreateSubcategory(id, userID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, subcategory)
}
