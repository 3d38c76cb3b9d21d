// internal/handlers/image.go
package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/atelierprints/catalog-backend/internal/services"
	"github.com/atelierprints/catalog-backend/internal/utils"
)

type ImageHandler struct {
	imageService   *services.ImageService
	storageService *services.StorageService
}

func NewImageHandler(imageService *services.ImageService, storageService *services.StorageService) *ImageHandler {
	return &ImageHandler{
		imageService:   imageService,
		storageService: storageService,
	}
}

// attachForm reads the multipart metadata fields that accompany an
// image upload.
func attachForm(c *gin.Context, result *services.UploadResult) *services.AttachImageRequest {
	req := &services.AttachImageRequest{
		URL:        result.URL,
		StorageKey: result.Key,
		AltText:    c.PostForm("alt_text"),
	}
	if positionStr := c.PostForm("position"); positionStr != "" {
		if position, err := strconv.Atoi(positionStr); err == nil {
			req.Position = position
		}
	}
	if primaryStr := c.PostForm("is_primary"); primaryStr != "" {
		if primary, err := strconv.ParseBool(primaryStr); err == nil {
			req.IsPrimary = primary
		}
	}
	return req
}

func (h *ImageHandler) uploadImage(c *gin.Context, folder string) (*services.UploadResult, bool) {
	file, header, err := c.Request.FormFile("image")
	if err != nil {
		utils.BadRequestResponse(c, "Image file is required", err.Error())
		return nil, false
	}
	defer file.Close()

	if err := h.storageService.ValidateImage(file); err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return nil, false
	}

	result, err := h.storageService.UploadFile(file, header, h.storageService.ImageUploadOptions(folder))
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return nil, false
	}
	return result, true
}

// POST /products/:id/images
func (h *ImageHandler) AttachProductImage(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}

	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	result, ok := h.uploadImage(c, "products/"+productID.String())
	if !ok {
		return
	}

	image, err := h.imageService.AttachProductImage(productID, userID, attachForm(c, result))
	if err != nil {
		// The row never landed, so the uploaded binary is an orphan.
		h.storageService.DeleteFiles([]string{result.Key})
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, image)
}

// GET /products/:id/images
func (h *ImageHandler) ListProductImages(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	images, err := h.imageService.ListProductImages(productID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, images)
}

// PUT /product-images/:id
func (h *ImageHandler) UpdateProductImage(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	image, err := h.imageService.UpdateProductImage(id, userID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, image)
}

// POST /product-images/:id/primary
func (h *ImageHandler) SetProductImagePrimary(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	image, err := h.imageService.SetProductImagePrimary(id, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, image)
}

// downloadURLTTL bounds how long a signed image link stays fetchable.
const downloadURLTTL = 15 * time.Minute

// GET /product-images/:id/download
func (h *ImageHandler) ProductImageDownloadURL(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	image, err := h.imageService.GetProductImage(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	url, err := h.storageService.DownloadURL(image.StorageKey, image.URL, downloadURLTTL)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"url": url})
}

// DELETE /product-images/:id
func (h *ImageHandler) DeleteProductImage(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	storageKey, err := h.imageService.DeleteProductImage(id, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if storageKey != "" {
		h.storageService.DeleteFiles([]string{storageKey})
	}

	utils.SuccessResponse(c, gin.H{"deleted": true})
}

// POST /variants/:id/images
func (h *ImageHandler) AttachVariantImage(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}

	variantID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	result, ok := h.uploadImage(c, "variants/"+variantID.String())
	if !ok {
		return
	}

	image, err := h.imageService.AttachVariantImage(variantID, userID, attachForm(c, result))
	if err != nil {
		h.storageService.DeleteFiles([]string{result.Key})
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, image)
}

// GET /variants/:id/images
func (h *ImageHandler) ListVariantImages(c *gin.Context) {
	variantID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	images, err := h.imageService.ListVariantImages(variantID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, images)
}

// PUT /variant-images/:id
func (h *ImageHandler) UpdateVariantImage(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	image, err := h.imageService.UpdateVariantImage(id, userID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, image)
}

// POST /variant-images/:id/primary
func (h *ImageHandler) SetVariantImagePrimary(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	image, err := h.imageService.SetVariantImagePrimary(id, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, image)
}

// GET /variant-images/:id/download
func (h *ImageHandler) VariantImageDownloadURL(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	image, err := h.imageService.GetVariantImage(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	url, err := h.storageService.DownloadURL(image.StorageKey, image.URL, downloadURLTTL)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"url": url})
}

// DELETE /variant-images/:id
func (h *ImageHandler) DeleteVariantImage(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	storageKey, err := h.imageService.DeleteVariantImage(id, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if storageKey != "" {
		h.storageService.DeleteFiles([]string{storageKey})
	}

	utils.SuccessResponse(c, gin.H{"deleted": true})
}
