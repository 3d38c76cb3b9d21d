// internal/handlers/variant.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/atelierprints/catalog-backend/internal/services"
	"github.com/atelierprints/catalog-backend/internal/utils"
)

type VariantHandler struct {
	variantService *services.VariantService
	storageService *services.StorageService
}

func NewVariantHandler(variantService *services.VariantService, storageService *services.StorageService) *VariantHandler {
	return &VariantHandler{
		variantService: variantService,
		storageService: storageService,
	}
}

// GET /products/:id/variants
func (h *VariantHandler) ListVariants(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	variants, err := h.variantService.ListVariants(productID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, variants)
}

// POST /products/:id/variants
func (h *VariantHandler) CreateVariant(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}

	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.CreateVariantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	variant, err := h.variantService.CreateVariant(productID, userID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, variant)
}

// GET /variants/:id
func (h *VariantHandler) GetVariant(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	variant, err := h.variantService.GetVariant(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, variant)
}

// PUT /variants/:id
func (h *VariantHandler) UpdateVariant(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateVariantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	variant, err := h.variantService.UpdateVariant(id, userID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, variant)
}

// POST /variants/:id/stock
func (h *VariantHandler) AdjustStock(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	variant, err := h.variantService.AdjustStock(id, userID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, variant)
}

// POST /variants/:id/discontinue
func (h *VariantHandler) DiscontinueVariant(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	variant, err := h.variantService.DiscontinueVariant(id, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, variant)
}

// DELETE /variants/:id
func (h *VariantHandler) DeleteVariant(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	storageKeys, err := h.variantService.DeleteVariant(id, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.storageService.DeleteFiles(storageKeys)

	utils.SuccessResponse(c, gin.H{"deleted": true})
}
