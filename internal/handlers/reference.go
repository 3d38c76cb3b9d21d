// internal/handlers/reference.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/atelierprints/catalog-backend/internal/services"
	"github.com/atelierprints/catalog-backend/internal/utils"
)

// ReferenceHandler serves the flat lookup vocabularies: tags, print
// formats and materials.
type ReferenceHandler struct {
	referenceService *services.ReferenceService
}

func NewReferenceHandler(referenceService *services.ReferenceService) *ReferenceHandler {
	return &ReferenceHandler{referenceService: referenceService}
}

// GET /tags
func (h *ReferenceHandler) ListTags(c *gin.Context) {
	tags, err := h.referenceService.ListTags()
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, tags)
}

// POST /tags
func (h *ReferenceHandler) CreateTag(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}

	var req services.CreateTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	tag, err := h.referenceService.CreateTag(userID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, tag)
}

// DELETE /tags/:id
func (h *ReferenceHandler) DeleteTag(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.referenceService.DeleteTag(id, userID); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"deleted": true})
}

// GET /formats
func (h *ReferenceHandler) ListFormats(c *gin.Context) {
	formats, err := h.referenceService.ListFormats()
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, formats)
}

// POST /formats
func (h *ReferenceHandler) CreateFormat(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}

	var req services.CreateFormatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	format, err := h.referenceService.CreateFormat(userID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, format)
}

// DELETE /formats/:id
func (h *ReferenceHandler) DeleteFormat(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.referenceService.DeleteFormat(id, userID); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"deleted": true})
}

// GET /materials
func (h *ReferenceHandler) ListMaterials(c *gin.Context) {
	materials, err := h.referenceService.ListMaterials()
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, materials)
}

// POST /materials
func (h *ReferenceHandler) CreateMaterial(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}

	var req services.CreateMaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	material, err := h.referenceService.CreateMaterial(userID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, material)
}

// DELETE /materials/:id
func (h *ReferenceHandler) DeleteMaterial(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.referenceService.DeleteMaterial(id, userID); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"deleted": true})
}
