// internal/services/category_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/atelierprints/catalog-backend/internal/models"
	"github.com/atelierprints/catalog-backend/internal/utils"
)

type CategoryService struct {
	db    *gorm.DB
	audit *AuditService
}

type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Slug        string `json:"slug,omitempty" validate:"omitempty,slug"`
	Description string `json:"description,omitempty"`
	Position    int    `json:"position" validate:"min=0"`
}

type UpdateCategoryRequest struct {
	Name        string  `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Slug        string  `json:"slug,omitempty" validate:"omitempty,slug"`
	Description *string `json:"description,omitempty"`
	Position    *int    `json:"position,omitempty" validate:"omitempty,min=0"`
}

func NewCategoryService(db *gorm.DB, audit *AuditService) *CategoryService {
	return &CategoryService{db: db, audit: audit}
}

func (s *CategoryService) CreateCategory(actorID uuid.UUID, req *CreateCategoryRequest) (*models.Category, error) {
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

	category := &models.Category{
		Name:        req.Name,
		Slug:        slug,
		Description: req.Description,
		Position:    req.Position,
		CreatedBy:   actorID,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := checkUnique(tx, &models.Category{}, "category", "name", req.Name, nil, uuid.Nil); err != nil {
			return err
		}
		if err := checkUnique(tx, &models.Category{}, "category", "slug", slug, nil, uuid.Nil); err != nil {
			return err
		}

		if err := tx.Create(category).Error; err != nil {
			return translateDuplicate(s.db, err, &models.Category{}, "category", uuid.Nil,
				uniqueCandidate{"name", req.Name, nil},
				uniqueCandidate{"slug", slug, nil})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(actorID, "category.created", "category", category.ID, models.JSONB{
		"name": category.Name,
		"slug": category.Slug,
	})

	return category, nil
}

func (s *CategoryService) GetCategory(id uuid.UUID) (*models.Category, error) {
	var category models.Category
	if err := s.db.Preload("Subcategories", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC, name ASC")
	}).First(&category, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{EntityKind: "category", ID: id}
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &category, nil
}

func (s *CategoryService) ListCategories() ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.Preload("Subcategories", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC, name ASC")
	}).Order("position ASC, name ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}
	return categories, nil
}

func (s *CategoryService) UpdateCategory(id uuid.UUID, actorID uuid.UUID, req *UpdateCategoryRequest) (*models.Category, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var category models.Category
	var oldValues models.JSONB

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&category, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{EntityKind: "category", ID: id}
			}
			return fmt.Errorf("database error: %w", err)
		}
		oldValues = models.JSONB{"name": category.Name, "slug": category.Slug}

		updates := map[string]interface{}{"modified_by": actorID}
		var written []uniqueCandidate

		// Uniqueness is re-checked only for values that actually change;
		// a no-op rename must never conflict with the row itself.
		if req.Name != "" && req.Name != category.Name {
			if err := checkUnique(tx, &models.Category{}, "category", "name", req.Name, nil, category.ID); err != nil {
				return err
			}
			updates["name"] = req.Name
			written = append(written, uniqueCandidate{"name", req.Name, nil})
		}

		slug := req.Slug
		if slug == "" && req.Name != "" && req.Name != category.Name {
			slug = utils.GenerateSlug(req.Name)
			if slug == "" {
				return ErrEmptySlug
			}
		}
		if slug != "" && slug != category.Slug {
			if err := checkUnique(tx, &models.Category{}, "category", "slug", slug, nil, category.ID); err != nil {
				return err
			}
			updates["slug"] = slug
			written = append(written, uniqueCandidate{"slug", slug, nil})
		}

		if req.Description != nil {
			updates["description"] = *req.Description
		}
		if req.Position != nil {
			updates["position"] = *req.Position
		}

		if err := tx.Model(&category).Updates(updates).Error; err != nil {
			return translateDuplicate(s.db, err, &models.Category{}, "category", category.ID, written...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(actorID, "category.updated", "category", category.ID, models.JSONB{
		"old": oldValues,
		"new": models.JSONB{"name": category.Name, "slug": category.Slug},
	})

	return &category, nil
}

// DeleteCategory hard-deletes a category and all of its subcategories in
// one transaction.
func (s *CategoryService) DeleteCategory(id uuid.UUID, actorID uuid.UUID) error {
	var category models.Category

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&category, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{EntityKind: "category", ID: id}
			}
			return fmt.Errorf("database error: %w", err)
		}

		// Products keep existing without a subcategory.
		if err := tx.Model(&models.Product{}).
			Where("subcategory_id IN (?)", tx.Model(&models.Subcategory{}).Select("id").Where("category_id = ?", id)).
			Update("subcategory_id", nil).Error; err != nil {
			return fmt.Errorf("failed to detach products: %w", err)
		}
		if err := tx.Where("category_id = ?", id).Delete(&models.Subcategory{}).Error; err != nil {
			return fmt.Errorf("failed to delete subcategories: %w", err)
		}
		if err := tx.Delete(&category).Error; err != nil {
			return fmt.Errorf("failed to delete category: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.audit.Record(actorID, "category.deleted", "category", id, models.JSONB{
		"name": category.Name,
	})

	return nil
}
