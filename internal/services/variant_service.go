// internal/services/variant_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/atelierprints/catalog-backend/internal/models"
	"github.com/atelierprints/catalog-backend/internal/utils"
)

type VariantService struct {
	db    *gorm.DB
	audit *AuditService
}

type CreateVariantRequest struct {
	FormatID   uuid.UUID `json:"format_id" validate:"required"`
	MaterialID uuid.UUID `json:"material_id" validate:"required"`
	SKU        string    `json:"sku,omitempty" validate:"omitempty,max=64"`
	Price      float64   `json:"price" validate:"required,min=0.01"`
	StockQty   int       `json:"stock_qty" validate:"min=0"`
}

type UpdateVariantRequest struct {
	FormatID   *uuid.UUID `json:"format_id,omitempty"`
	MaterialID *uuid.UUID `json:"material_id,omitempty"`
	SKU        *string    `json:"sku,omitempty" validate:"omitempty,max=64"`
	Price      *float64   `json:"price,omitempty" validate:"omitempty,min=0.01"`
}

// Delta is a pointer so an omitted field is rejected while an explicit
// zero, a legal no-op adjustment, passes validation.
type AdjustStockRequest struct {
	Delta  *int   `json:"delta" validate:"required"`
	Reason string `json:"reason,omitempty" validate:"omitempty,max=255"`
}

func NewVariantService(db *gorm.DB, audit *AuditService) *VariantService {
	return &VariantService{db: db, audit: audit}
}

// CreateVariant adds a sellable format × material combination to a product.
// The combination is unique within the product; the initial status derives
// from the opening stock.
func (s *VariantService) CreateVariant(productID uuid.UUID, actorID uuid.UUID, req *CreateVariantRequest) (*models.ProductVariant, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	variant := &models.ProductVariant{
		ProductID:  productID,
		FormatID:   req.FormatID,
		MaterialID: req.MaterialID,
		SKU:        req.SKU,
		Price:      req.Price,
		StockQty:   req.StockQty,
		Status:     initialVariantStatus(req.StockQty),
		CreatedBy:  actorID,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.First(&product, "id = ?", productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{EntityKind: "product", ID: productID}
			}
			return fmt.Errorf("database error: %w", err)
		}
		var format models.Format
		if err := tx.First(&format, "id = ?", req.FormatID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{EntityKind: "format", ID: req.FormatID}
			}
			return fmt.Errorf("database error: %w", err)
		}
		var material models.Material
		if err := tx.First(&material, "id = ?", req.MaterialID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{EntityKind: "material", ID: req.MaterialID}
			}
			return fmt.Errorf("database error: %w", err)
		}

		if err := s.checkCombination(tx, productID, req.FormatID, req.MaterialID, uuid.Nil); err != nil {
			return err
		}

		if err := tx.Create(variant).Error; err != nil {
			return translateDuplicate(s.db, err, &models.ProductVariant{}, "variant", uuid.Nil,
				uniqueCandidate{"format/material", combinationLabel(req.FormatID, req.MaterialID), nil})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(actorID, "variant.created", "variant", variant.ID, models.JSONB{
		"product_id": productID.String(),
		"status":     string(variant.Status),
		"stock_qty":  variant.StockQty,
	})

	return variant, nil
}

func (s *VariantService) GetVariant(id uuid.UUID) (*models.ProductVariant, error) {
	var variant models.ProductVariant
	if err := s.db.
		Preload("Format").
		Preload("Material").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("is_primary DESC, position ASC")
		}).
		First(&variant, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{EntityKind: "variant", ID: id}
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &variant, nil
}

func (s *VariantService) ListVariants(productID uuid.UUID) ([]models.ProductVariant, error) {
	var variants []models.ProductVariant
	if err := s.db.Where("product_id = ?", productID).
		Preload("Format").
		Preload("Material").
		Order("created_at ASC").
		Find(&variants).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch variants: %w", err)
	}
	return variants, nil
}

func (s *VariantService) UpdateVariant(id uuid.UUID, actorID uuid.UUID, req *UpdateVariantRequest) (*models.ProductVariant, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var variant models.ProductVariant

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&variant, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{EntityKind: "variant", ID: id}
			}
			return fmt.Errorf("database error: %w", err)
		}

		updates := map[string]interface{}{"modified_by": actorID}

		// Changing either side of the combination shifts what the
		// composite key must be unique against.
		formatID := variant.FormatID
		materialID := variant.MaterialID
		if req.FormatID != nil {
			var format models.Format
			if err := tx.First(&format, "id = ?", *req.FormatID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return &NotFoundError{EntityKind: "format", ID: *req.FormatID}
				}
				return fmt.Errorf("database error: %w", err)
			}
			formatID = *req.FormatID
		}
		if req.MaterialID != nil {
			var material models.Material
			if err := tx.First(&material, "id = ?", *req.MaterialID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return &NotFoundError{EntityKind: "material", ID: *req.MaterialID}
				}
				return fmt.Errorf("database error: %w", err)
			}
			materialID = *req.MaterialID
		}
		if formatID != variant.FormatID || materialID != variant.MaterialID {
			if err := s.checkCombination(tx, variant.ProductID, formatID, materialID, variant.ID); err != nil {
				return err
			}
			updates["format_id"] = formatID
			updates["material_id"] = materialID
		}

		if req.SKU != nil {
			updates["sku"] = *req.SKU
		}
		if req.Price != nil {
			updates["price"] = *req.Price
		}

		if err := tx.Model(&variant).Updates(updates).Error; err != nil {
			return translateDuplicate(s.db, err, &models.ProductVariant{}, "variant", variant.ID,
				uniqueCandidate{"format/material", combinationLabel(formatID, materialID), nil})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(actorID, "variant.updated", "variant", variant.ID, models.JSONB{
		"product_id": variant.ProductID.String(),
	})

	return &variant, nil
}

// AdjustStock applies a stock delta inside one transaction: the variant row
// is re-read under a row lock, the state machine decides the outcome, and
// quantity plus status persist together or not at all.
func (s *VariantService) AdjustStock(id uuid.UUID, actorID uuid.UUID, req *AdjustStockRequest) (*models.ProductVariant, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var variant models.ProductVariant
	var oldQty int
	var oldStatus models.VariantStatus

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).First(&variant, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{EntityKind: "variant", ID: id}
			}
			return fmt.Errorf("database error: %w", err)
		}
		oldQty = variant.StockQty
		oldStatus = variant.Status

		newQty, newStatus, err := ApplyStockDelta(variant.StockQty, variant.Status, *req.Delta)
		if err != nil {
			return err
		}

		return tx.Model(&variant).Updates(map[string]interface{}{
			"stock_qty":   newQty,
			"status":      newStatus,
			"modified_by": actorID,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(actorID, "variant.stock_adjusted", "variant", variant.ID, models.JSONB{
		"delta":      *req.Delta,
		"reason":     req.Reason,
		"old_qty":    oldQty,
		"new_qty":    variant.StockQty,
		"old_status": string(oldStatus),
		"new_status": string(variant.Status),
	})

	return &variant, nil
}

// DiscontinueVariant retires a variant. The status is terminal for the
// stock state machine: later stock movements update the quantity only.
func (s *VariantService) DiscontinueVariant(id uuid.UUID, actorID uuid.UUID) (*models.ProductVariant, error) {
	var variant models.ProductVariant
	var oldStatus models.VariantStatus

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&variant, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{EntityKind: "variant", ID: id}
			}
			return fmt.Errorf("database error: %w", err)
		}
		oldStatus = variant.Status
		if variant.Status == models.VariantStatusDiscontinued {
			return nil
		}

		return tx.Model(&variant).Updates(map[string]interface{}{
			"status":      models.VariantStatusDiscontinued,
			"modified_by": actorID,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	if oldStatus != models.VariantStatusDiscontinued {
		s.audit.Record(actorID, "variant.discontinued", "variant", variant.ID, models.JSONB{
			"old_status": string(oldStatus),
			"new_status": string(models.VariantStatusDiscontinued),
		})
	}

	return &variant, nil
}

// DeleteVariant hard-deletes a variant and its images. Deletion requires a
// prior explicit discontinuation. Returns the removed images' storage keys
// for binary cleanup after commit.
func (s *VariantService) DeleteVariant(id uuid.UUID, actorID uuid.UUID) ([]string, error) {
	var variant models.ProductVariant
	var storageKeys []string

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&variant, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{EntityKind: "variant", ID: id}
			}
			return fmt.Errorf("database error: %w", err)
		}

		if variant.Status != models.VariantStatusDiscontinued {
			return &InvalidStateTransitionError{
				EntityKind: "variant",
				From:       string(variant.Status),
				To:         "deleted",
			}
		}

		if err := tx.Model(&models.ProductVariantImage{}).
			Where("variant_id = ?", id).
			Pluck("storage_key", &storageKeys).Error; err != nil {
			return fmt.Errorf("failed to list variant images: %w", err)
		}
		if err := tx.Where("variant_id = ?", id).Delete(&models.ProductVariantImage{}).Error; err != nil {
			return fmt.Errorf("failed to delete variant images: %w", err)
		}
		return tx.Delete(&variant).Error
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(actorID, "variant.deleted", "variant", id, models.JSONB{
		"product_id": variant.ProductID.String(),
	})

	return storageKeys, nil
}

func (s *VariantService) checkCombination(tx *gorm.DB, productID, formatID, materialID, excludeID uuid.UUID) error {
	query := tx.Model(&models.ProductVariant{}).
		Where("product_id = ? AND format_id = ? AND material_id = ?", productID, formatID, materialID)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return fmt.Errorf("uniqueness check failed: %w", err)
	}
	if count > 0 {
		return &DuplicateValueError{
			EntityKind: "variant",
			Field:      "format/material",
			Value:      combinationLabel(formatID, materialID),
		}
	}
	return nil
}

func combinationLabel(formatID, materialID uuid.UUID) string {
	return fmt.Sprintf("%s × %s", formatID, materialID)
}
