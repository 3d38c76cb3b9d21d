// internal/services/image_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/atelierprints/catalog-backend/internal/models"
	"github.com/atelierprints/catalog-backend/internal/utils"
)

// ImageService manages product and variant image attachments and owns the
// singleton-primary invariant: for a given parent at most one sibling image
// carries is_primary. Every write path that raises the flag goes through
// the clear-then-set sequence below; nothing else may set it.
//
// The clear and the final flag write run in one transaction that first
// locks the parent row, so two concurrent promotions on the same parent
// serialize instead of both observing zero primaries and each raising its
// own flag. The partial unique indexes created at migration time backstop
// the invariant at the storage layer.
type ImageService struct {
	db    *gorm.DB
	audit *AuditService
}

type AttachImageRequest struct {
	URL        string `json:"url" validate:"required,url"`
	StorageKey string `json:"storage_key" validate:"required,max=255"`
	AltText    string `json:"alt_text,omitempty" validate:"omitempty,max=255"`
	Position   int    `json:"position" validate:"min=0"`
	IsPrimary  bool   `json:"is_primary"`
}

type UpdateImageRequest struct {
	AltText   *string            `json:"alt_text,omitempty" validate:"omitempty,max=255"`
	Position  *int               `json:"position,omitempty" validate:"omitempty,min=0"`
	Status    models.ImageStatus `json:"status,omitempty" validate:"omitempty,oneof=active inactive"`
	IsPrimary *bool              `json:"is_primary,omitempty"`
}

func NewImageService(db *gorm.DB, audit *AuditService) *ImageService {
	return &ImageService{db: db, audit: audit}
}

// --- Product images ---

func (s *ImageService) AttachProductImage(productID uuid.UUID, actorID uuid.UUID, req *AttachImageRequest) (*models.ProductImage, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	image := &models.ProductImage{
		ProductID:  productID,
		URL:        req.URL,
		StorageKey: req.StorageKey,
		AltText:    req.AltText,
		Position:   req.Position,
		IsPrimary:  req.IsPrimary,
		Status:     models.ImageStatusActive,
		CreatedBy:  actorID,
	}
	previousCleared := false

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := lockForUpdate(tx).First(&product, "id = ?", productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{EntityKind: "product", ID: productID}
			}
			return fmt.Errorf("database error: %w", err)
		}

		if req.IsPrimary {
			res := tx.Model(&models.ProductImage{}).
				Where("product_id = ? AND is_primary = ?", productID, true).
				Update("is_primary", false)
			if res.Error != nil {
				return fmt.Errorf("failed to clear sibling primaries: %w", res.Error)
			}
			previousCleared = res.RowsAffected > 0
		}

		if err := tx.Create(image).Error; err != nil {
			return fmt.Errorf("failed to attach image: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(actorID, "product_image.attached", "product_image", image.ID, models.JSONB{
		"product_id":               productID.String(),
		"is_primary":               image.IsPrimary,
		"previous_primary_cleared": previousCleared,
	})

	return image, nil
}

func (s *ImageService) GetProductImage(imageID uuid.UUID) (*models.ProductImage, error) {
	var image models.ProductImage
	if err := s.db.First(&image, "id = ?", imageID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{EntityKind: "product_image", ID: imageID}
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &image, nil
}

func (s *ImageService) ListProductImages(productID uuid.UUID) ([]models.ProductImage, error) {
	var images []models.ProductImage
	if err := s.db.Where("product_id = ?", productID).
		Order("is_primary DESC, position ASC").
		Find(&images).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch images: %w", err)
	}
	return images, nil
}

// SetProductImagePrimary promotes an image to the representative image of
// its product. Promoting the current primary is a no-op with no sibling
// writes.
func (s *ImageService) SetProductImagePrimary(imageID uuid.UUID, actorID uuid.UUID) (*models.ProductImage, error) {
	var image models.ProductImage
	previousCleared := false
	promoted := false

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&image, "id = ?", imageID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{EntityKind: "product_image", ID: imageID}
			}
			return fmt.Errorf("database error: %w", err)
		}

		// Serialize with other promotions and primary attachments on the
		// same product, then re-read the flag under the lock.
		var product models.Product
		if err := lockForUpdate(tx).First(&product, "id = ?", image.ProductID).Error; err != nil {
			return fmt.Errorf("database error: %w", err)
		}
		if err := tx.First(&image, "id = ?", imageID).Error; err != nil {
			return fmt.Errorf("database error: %w", err)
		}
		if image.IsPrimary {
			return nil
		}

		res := tx.Model(&models.ProductImage{}).
			Where("product_id = ? AND is_primary = ? AND id <> ?", image.ProductID, true, image.ID).
			Update("is_primary", false)
		if res.Error != nil {
			return fmt.Errorf("failed to clear sibling primaries: %w", res.Error)
		}
		previousCleared = res.RowsAffected > 0
		promoted = true

		return tx.Model(&image).Updates(map[string]interface{}{
			"is_primary":  true,
			"modified_by": actorID,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	if promoted {
		s.audit.Record(actorID, "product_image.promoted", "product_image", image.ID, models.JSONB{
			"product_id":               image.ProductID.String(),
			"previous_primary_cleared": previousCleared,
		})
	}

	return &image, nil
}

func (s *ImageService) UpdateProductImage(imageID uuid.UUID, actorID uuid.UUID, req *UpdateImageRequest) (*models.ProductImage, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	// An update carrying is_primary: true is a promotion and must go
	// through the enforcer path, not a plain field write.
	if req.IsPrimary != nil && *req.IsPrimary {
		if _, err := s.SetProductImagePrimary(imageID, actorID); err != nil {
			return nil, err
		}
	}

	var image models.ProductImage
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&image, "id = ?", imageID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{EntityKind: "product_image", ID: imageID}
			}
			return fmt.Errorf("database error: %w", err)
		}

		updates := map[string]interface{}{"modified_by": actorID}
		if req.AltText != nil {
			updates["alt_text"] = *req.AltText
		}
		if req.Position != nil {
			updates["position"] = *req.Position
		}
		if req.Status != "" {
			updates["status"] = req.Status
		}
		if req.IsPrimary != nil && !*req.IsPrimary {
			// Demotion leaves the parent with no primary, which the
			// invariant allows.
			updates["is_primary"] = false
		}

		return tx.Model(&image).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(actorID, "product_image.updated", "product_image", image.ID, models.JSONB{
		"product_id": image.ProductID.String(),
	})

	return &image, nil
}

// DeleteProductImage removes the image row and returns its storage key so
// the caller can delete the binary after commit.
func (s *ImageService) DeleteProductImage(imageID uuid.UUID, actorID uuid.UUID) (string, error) {
	var image models.ProductImage

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&image, "id = ?", imageID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{EntityKind: "product_image", ID: imageID}
			}
			return fmt.Errorf("database error: %w", err)
		}
		return tx.Delete(&image).Error
	})
	if err != nil {
		return "", err
	}

	s.audit.Record(actorID, "product_image.deleted", "product_image", imageID, models.JSONB{
		"product_id":  image.ProductID.String(),
		"was_primary": image.IsPrimary,
	})

	return image.StorageKey, nil
}

// --- Variant images ---

func (s *ImageService) AttachVariantImage(variantID uuid.UUID, actorID uuid.UUID, req *AttachImageRequest) (*models.ProductVariantImage, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	image := &models.ProductVariantImage{
		VariantID:  variantID,
		URL:        req.URL,
		StorageKey: req.StorageKey,
		AltText:    req.AltText,
		Position:   req.Position,
		IsPrimary:  req.IsPrimary,
		Status:     models.ImageStatusActive,
		CreatedBy:  actorID,
	}
	previousCleared := false

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var variant models.ProductVariant
		if err := lockForUpdate(tx).First(&variant, "id = ?", variantID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{EntityKind: "variant", ID: variantID}
			}
			return fmt.Errorf("database error: %w", err)
		}

		if req.IsPrimary {
			res := tx.Model(&models.ProductVariantImage{}).
				Where("variant_id = ? AND is_primary = ?", variantID, true).
				Update("is_primary", false)
			if res.Error != nil {
				return fmt.Errorf("failed to clear sibling primaries: %w", res.Error)
			}
			previousCleared = res.RowsAffected > 0
		}

		if err := tx.Create(image).Error; err != nil {
			return fmt.Errorf("failed to attach image: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(actorID, "variant_image.attached", "variant_image", image.ID, models.JSONB{
		"variant_id":               variantID.String(),
		"is_primary":               image.IsPrimary,
		"previous_primary_cleared": previousCleared,
	})

	return image, nil
}

func (s *ImageService) GetVariantImage(imageID uuid.UUID) (*models.ProductVariantImage, error) {
	var image models.ProductVariantImage
	if err := s.db.First(&image, "id = ?", imageID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{EntityKind: "variant_image", ID: imageID}
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &image, nil
}

func (s *ImageService) ListVariantImages(variantID uuid.UUID) ([]models.ProductVariantImage, error) {
	var images []models.ProductVariantImage
	if err := s.db.Where("variant_id = ?", variantID).
		Order("is_primary DESC, position ASC").
		Find(&images).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch images: %w", err)
	}
	return images, nil
}

func (s *ImageService) SetVariantImagePrimary(imageID uuid.UUID, actorID uuid.UUID) (*models.ProductVariantImage, error) {
	var image models.ProductVariantImage
	previousCleared := false
	promoted := false

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&image, "id = ?", imageID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{EntityKind: "variant_image", ID: imageID}
			}
			return fmt.Errorf("database error: %w", err)
		}

		var variant models.ProductVariant
		if err := lockForUpdate(tx).First(&variant, "id = ?", image.VariantID).Error; err != nil {
			return fmt.Errorf("database error: %w", err)
		}
		if err := tx.First(&image, "id = ?", imageID).Error; err != nil {
			return fmt.Errorf("database error: %w", err)
		}
		if image.IsPrimary {
			return nil
		}

		res := tx.Model(&models.ProductVariantImage{}).
			Where("variant_id = ? AND is_primary = ? AND id <> ?", image.VariantID, true, image.ID).
			Update("is_primary", false)
		if res.Error != nil {
			return fmt.Errorf("failed to clear sibling primaries: %w", res.Error)
		}
		previousCleared = res.RowsAffected > 0
		promoted = true

		return tx.Model(&image).Updates(map[string]interface{}{
			"is_primary":  true,
			"modified_by": actorID,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	if promoted {
		s.audit.Record(actorID, "variant_image.promoted", "variant_image", image.ID, models.JSONB{
			"variant_id":               image.VariantID.String(),
			"previous_primary_cleared": previousCleared,
		})
	}

	return &image, nil
}

func (s *ImageService) UpdateVariantImage(imageID uuid.UUID, actorID uuid.UUID, req *UpdateImageRequest) (*models.ProductVariantImage, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if req.IsPrimary != nil && *req.IsPrimary {
		if _, err := s.SetVariantImagePrimary(imageID, actorID); err != nil {
			return nil, err
		}
	}

	var image models.ProductVariantImage
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&image, "id = ?", imageID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{EntityKind: "variant_image", ID: imageID}
			}
			return fmt.Errorf("database error: %w", err)
		}

		updates := map[string]interface{}{"modified_by": actorID}
		if req.AltText != nil {
			updates["alt_text"] = *req.AltText
		}
		if req.Position != nil {
			updates["position"] = *req.Position
		}
		if req.Status != "" {
			updates["status"] = req.Status
		}
		if req.IsPrimary != nil && !*req.IsPrimary {
			updates["is_primary"] = false
		}

		return tx.Model(&image).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(actorID, "variant_image.updated", "variant_image", image.ID, models.JSONB{
		"variant_id": image.VariantID.String(),
	})

	return &image, nil
}

func (s *ImageService) DeleteVariantImage(imageID uuid.UUID, actorID uuid.UUID) (string, error) {
	var image models.ProductVariantImage

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&image, "id = ?", imageID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{EntityKind: "variant_image", ID: imageID}
			}
			return fmt.Errorf("database error: %w", err)
		}
		return tx.Delete(&image).Error
	})
	if err != nil {
		return "", err
	}

	s.audit.Record(actorID, "variant_image.deleted", "variant_image", imageID, models.JSONB{
		"variant_id":  image.VariantID.String(),
		"was_primary": image.IsPrimary,
	})

	return image.StorageKey, nil
}
