// internal/services/product_service.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/atelierprints/catalog-backend/internal/models"
	"github.com/atelierprints/catalog-backend/internal/utils"
)

type ProductService struct {
	db    *gorm.DB
	audit *AuditService
}

type CreateProductRequest struct {
	Name           string               `json:"name" validate:"required,min=2,max=255"`
	Slug           string               `json:"slug,omitempty" validate:"omitempty,slug"`
	Description    string               `json:"description,omitempty"`
	Status         models.ProductStatus `json:"status,omitempty" validate:"omitempty,oneof=draft published archived"`
	Featured       bool                 `json:"featured"`
	SearchKeywords []string             `json:"search_keywords,omitempty"`
	SubcategoryID  *uuid.UUID           `json:"subcategory_id,omitempty"`
	TagIDs         []uuid.UUID          `json:"tag_ids,omitempty"`
}

type UpdateProductRequest struct {
	Name           string               `json:"name,omitempty" validate:"omitempty,min=2,max=255"`
	Slug           string               `json:"slug,omitempty" validate:"omitempty,slug"`
	Description    *string              `json:"description,omitempty"`
	Status         models.ProductStatus `json:"status,omitempty" validate:"omitempty,oneof=draft published archived"`
	Featured       *bool                `json:"featured,omitempty"`
	SearchKeywords []string             `json:"search_keywords,omitempty"`
	SubcategoryID  *uuid.UUID           `json:"subcategory_id,omitempty"`
	TagIDs         []uuid.UUID          `json:"tag_ids,omitempty"`
}

type ProductSearchParams struct {
	utils.PaginationParams
	Status        *models.ProductStatus `json:"status,omitempty"`
	Featured      *bool                 `json:"featured,omitempty"`
	SubcategoryID *uuid.UUID            `json:"subcategory_id,omitempty"`
	TagID         *uuid.UUID            `json:"tag_id,omitempty"`
}

func NewProductService(db *gorm.DB, audit *AuditService) *ProductService {
	return &ProductService{db: db, audit: audit}
}

func (s *ProductService) CreateProduct(actorID uuid.UUID, req *CreateProductRequest) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	slug := req.Slug
	if slug == "" {
		slug = utils.GenerateSlug(req.Name)
	}
	if slug == "" {
		return nil, ErrEmptySlug
	}

	status := req.Status
	if status == "" {
		status = models.ProductStatusDraft
	}

	product := &models.Product{
		Name:           req.Name,
		Slug:           slug,
		Description:    req.Description,
		Status:         status,
		Featured:       req.Featured,
		SearchKeywords: pq.StringArray(req.SearchKeywords),
		SubcategoryID:  req.SubcategoryID,
		CreatedBy:      actorID,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if req.SubcategoryID != nil {
			var subcategory models.Subcategory
			if err := tx.First(&subcategory, "id = ?", *req.SubcategoryID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return &NotFoundError{EntityKind: "subcategory", ID: *req.SubcategoryID}
				}
				return fmt.Errorf("database error: %w", err)
			}
		}

		if err := checkUnique(tx, &models.Product{}, "product", "name", req.Name, nil, uuid.Nil); err != nil {
			return err
		}
		if err := checkUnique(tx, &models.Product{}, "product", "slug", slug, nil, uuid.Nil); err != nil {
			return err
		}

		if err := tx.Create(product).Error; err != nil {
			return translateDuplicate(s.db, err, &models.Product{}, "product", uuid.Nil,
				uniqueCandidate{"name", req.Name, nil},
				uniqueCandidate{"slug", slug, nil})
		}

		if len(req.TagIDs) > 0 {
			tags, err := loadTags(tx, req.TagIDs)
			if err != nil {
				return err
			}
			if err := tx.Model(product).Association("Tags").Replace(tags); err != nil {
				return fmt.Errorf("failed to assign tags: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(actorID, "product.created", "product", product.ID, models.JSONB{
		"name":   product.Name,
		"slug":   product.Slug,
		"status": string(product.Status),
	})

	return product, nil
}

func (s *ProductService) GetProduct(id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := s.db.
		Preload("Subcategory").
		Preload("Tags").
		Preload("Variants", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Variants.Format").
		Preload("Variants.Material").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("is_primary DESC, position ASC")
		}).
		First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{EntityKind: "product", ID: id}
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &product, nil
}

func (s *ProductService) SearchProducts(params ProductSearchParams) ([]models.Product, int64, error) {
	query := s.db.Model(&models.Product{}).
		Preload("Subcategory").
		Preload("Tags")

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.Featured != nil {
		query = query.Where("featured = ?", *params.Featured)
	}
	if params.SubcategoryID != nil {
		query = query.Where("subcategory_id = ?", *params.SubcategoryID)
	}
	if params.TagID != nil {
		query = query.Joins("JOIN product_tags ON product_tags.product_id = products.id").
			Where("product_tags.tag_id = ?", *params.TagID)
	}
	if params.Search != "" {
		searchTerm := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", searchTerm, searchTerm)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	allowedSortFields := []string{"created_at", "updated_at", "name", "status", "position"}
	query = utils.ApplySort(query, params.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, params.PaginationParams)

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch products: %w", err)
	}

	return products, total, nil
}

func (s *ProductService) UpdateProduct(id uuid.UUID, actorID uuid.UUID, req *UpdateProductRequest) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var product models.Product
	var oldValues models.JSONB

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&product, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{EntityKind: "product", ID: id}
			}
			return fmt.Errorf("database error: %w", err)
		}
		oldValues = models.JSONB{
			"name":   product.Name,
			"slug":   product.Slug,
			"status": string(product.Status),
		}

		updates := map[string]interface{}{"modified_by": actorID}
		var written []uniqueCandidate

		if req.Name != "" && req.Name != product.Name {
			if err := checkUnique(tx, &models.Product{}, "product", "name", req.Name, nil, product.ID); err != nil {
				return err
			}
			updates["name"] = req.Name
			written = append(written, uniqueCandidate{"name", req.Name, nil})
		}

		slug := req.Slug
		if slug == "" && req.Name != "" && req.Name != product.Name {
			slug = utils.GenerateSlug(req.Name)
			if slug == "" {
				return ErrEmptySlug
			}
		}
		if slug != "" && slug != product.Slug {
			if err := checkUnique(tx, &models.Product{}, "product", "slug", slug, nil, product.ID); err != nil {
				return err
			}
			updates["slug"] = slug
			written = append(written, uniqueCandidate{"slug", slug, nil})
		}

		if req.Description != nil {
			updates["description"] = *req.Description
		}
		if req.Status != "" {
			updates["status"] = req.Status
		}
		if req.Featured != nil {
			updates["featured"] = *req.Featured
		}
		if req.SearchKeywords != nil {
			updates["search_keywords"] = pq.StringArray(req.SearchKeywords)
		}
		if req.SubcategoryID != nil {
			var subcategory models.Subcategory
			if err := tx.First(&subcategory, "id = ?", *req.SubcategoryID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return &NotFoundError{EntityKind: "subcategory", ID: *req.SubcategoryID}
				}
				return fmt.Errorf("database error: %w", err)
			}
			updates["subcategory_id"] = *req.SubcategoryID
		}

		if err := tx.Model(&product).Updates(updates).Error; err != nil {
			return translateDuplicate(s.db, err, &models.Product{}, "product", product.ID, written...)
		}

		if req.TagIDs != nil {
			tags, err := loadTags(tx, req.TagIDs)
			if err != nil {
				return err
			}
			if err := tx.Model(&product).Association("Tags").Replace(tags); err != nil {
				return fmt.Errorf("failed to assign tags: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(actorID, "product.updated", "product", product.ID, models.JSONB{
		"old": oldValues,
		"new": models.JSONB{
			"name":   product.Name,
			"slug":   product.Slug,
			"status": string(product.Status),
		},
	})

	return &product, nil
}

// DeleteProduct hard-deletes a product with its variants and images in one
// transaction and returns the storage keys of the removed images so the
// caller can clean up the binaries after commit.
func (s *ProductService) DeleteProduct(id uuid.UUID, actorID uuid.UUID) ([]string, error) {
	var product models.Product
	var storageKeys []string

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&product, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{EntityKind: "product", ID: id}
			}
			return fmt.Errorf("database error: %w", err)
		}

		var variantIDs []uuid.UUID
		if err := tx.Model(&models.ProductVariant{}).
			Where("product_id = ?", id).
			Pluck("id", &variantIDs).Error; err != nil {
			return fmt.Errorf("failed to list variants: %w", err)
		}

		if err := tx.Model(&models.ProductImage{}).
			Where("product_id = ?", id).
			Pluck("storage_key", &storageKeys).Error; err != nil {
			return fmt.Errorf("failed to list product images: %w", err)
		}
		if len(variantIDs) > 0 {
			var variantKeys []string
			if err := tx.Model(&models.ProductVariantImage{}).
				Where("variant_id IN ?", variantIDs).
				Pluck("storage_key", &variantKeys).Error; err != nil {
				return fmt.Errorf("failed to list variant images: %w", err)
			}
			storageKeys = append(storageKeys, variantKeys...)

			if err := tx.Where("variant_id IN ?", variantIDs).Delete(&models.ProductVariantImage{}).Error; err != nil {
				return fmt.Errorf("failed to delete variant images: %w", err)
			}
		}

		if err := tx.Where("product_id = ?", id).Delete(&models.ProductImage{}).Error; err != nil {
			return fmt.Errorf("failed to delete product images: %w", err)
		}
		if err := tx.Where("product_id = ?", id).Delete(&models.ProductVariant{}).Error; err != nil {
			return fmt.Errorf("failed to delete variants: %w", err)
		}
		if err := tx.Model(&product).Association("Tags").Clear(); err != nil {
			return fmt.Errorf("failed to clear tags: %w", err)
		}
		if err := tx.Delete(&product).Error; err != nil {
			return fmt.Errorf("failed to delete product: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(actorID, "product.deleted", "product", id, models.JSONB{
		"name": product.Name,
	})

	return storageKeys, nil
}

func loadTags(tx *gorm.DB, tagIDs []uuid.UUID) ([]models.Tag, error) {
	var tags []models.Tag
	if err := tx.Where("id IN ?", tagIDs).Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("failed to load tags: %w", err)
	}
	if len(tags) != len(tagIDs) {
		missing := missingTagID(tagIDs, tags)
		return nil, &NotFoundError{EntityKind: "tag", ID: missing}
	}
	return tags, nil
}

func missingTagID(requested []uuid.UUID, found []models.Tag) uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(found))
	for _, t := range found {
		seen[t.ID] = true
	}
	for _, id := range requested {
		if !seen[id] {
			return id
		}
	}
	return uuid.Nil
}
