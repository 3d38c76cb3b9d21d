// internal/handlers/subcategory.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/atelierprints/catalog-backend/internal/services"
	"github.com/atelierprints/catalog-backend/internal/utils"
)

type SubcategoryHandler struct {
	subcategoryService *services.SubcategoryService
}

func NewSubcategoryHandler(subcategoryService *services.SubcategoryService) *SubcategoryHandler {
	return &SubcategoryHandler{subcategoryService: subcategoryService}
}

// GET /subcategories/:id
func (h *SubcategoryHandler) GetSubcategory(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	subcategory, err := h.subcategoryService.GetSubcategory(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, subcategory)
}

// PUT /subcategories/:id
func (h *SubcategoryHandler) UpdateSubcategory(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateSubcategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	subcategory, err := h.subcategoryService.UpdateSubcategory(id, userID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, subcategory)
}

// DELETE /subcategories/:id
func (h *SubcategoryHandler) DeleteSubcategory(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.subcategoryService.DeleteSubcategory(id, userID); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"deleted": true})
}
