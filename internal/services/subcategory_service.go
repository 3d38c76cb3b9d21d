// internal/services/subcategory_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/atelierprints/catalog-backend/internal/models"
	"github.com/atelierprints/catalog-backend/internal/utils"
)

type SubcategoryService struct {
	db    *gorm.DB
	audit *AuditService
}

type CreateSubcategoryRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Slug     string `json:"slug,omitempty" validate:"omitempty,slug"`
	Position int    `json:"position" validate:"min=0"`
}

type UpdateSubcategoryRequest struct {
	Name       string     `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Slug       string     `json:"slug,omitempty" validate:"omitempty,slug"`
	Position   *int       `json:"position,omitempty" validate:"omitempty,min=0"`
	CategoryID *uuid.UUID `json:"category_id,omitempty"`
}

func NewSubcategoryService(db *gorm.DB, audit *AuditService) *SubcategoryService {
	return &SubcategoryService{db: db, audit: audit}
}

// CreateSubcategory creates a subcategory under a category. Names are
// unique only among siblings of the same category; slugs are unique across
// all subcategories.
func (s *SubcategoryService) CreateSubcategory(categoryID uuid.UUID, actorID uuid.UUID, req *CreateSubcategoryRequest) (*models.Subcategory, error) {
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

	subcategory := &models.Subcategory{
		CategoryID: categoryID,
		Name:       req.Name,
		Slug:       slug,
		Position:   req.Position,
		CreatedBy:  actorID,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var parent models.Category
		if err := tx.First(&parent, "id = ?", categoryID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{EntityKind: "category", ID: categoryID}
			}
			return fmt.Errorf("database error: %w", err)
		}

		if err := checkUnique(tx, &models.Subcategory{}, "subcategory", "name", req.Name, scopedTo("category_id", categoryID), uuid.Nil); err != nil {
			return err
		}
		if err := checkUnique(tx, &models.Subcategory{}, "subcategory", "slug", slug, nil, uuid.Nil); err != nil {
			return err
		}

		if err := tx.Create(subcategory).Error; err != nil {
			return translateDuplicate(s.db, err, &models.Subcategory{}, "subcategory", uuid.Nil,
				uniqueCandidate{"name", req.Name, scopedTo("category_id", categoryID)},
				uniqueCandidate{"slug", slug, nil})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(actorID, "subcategory.created", "subcategory", subcategory.ID, models.JSONB{
		"name":        subcategory.Name,
		"slug":        subcategory.Slug,
		"category_id": categoryID.String(),
	})

	return subcategory, nil
}

func (s *SubcategoryService) GetSubcategory(id uuid.UUID) (*models.Subcategory, error) {
	var subcategory models.Subcategory
	if err := s.db.Preload("Category").First(&subcategory, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{EntityKind: "subcategory", ID: id}
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &subcategory, nil
}

func (s *SubcategoryService) ListSubcategories(categoryID uuid.UUID) ([]models.Subcategory, error) {
	var subcategories []models.Subcategory
	if err := s.db.Where("category_id = ?", categoryID).
		Order("position ASC, name ASC").
		Find(&subcategories).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch subcategories: %w", err)
	}
	return subcategories, nil
}

func (s *SubcategoryService) UpdateSubcategory(id uuid.UUID, actorID uuid.UUID, req *UpdateSubcategoryRequest) (*models.Subcategory, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var subcategory models.Subcategory
	var oldValues models.JSONB

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&subcategory, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{EntityKind: "subcategory", ID: id}
			}
			return fmt.Errorf("database error: %w", err)
		}
		oldValues = models.JSONB{
			"name":        subcategory.Name,
			"slug":        subcategory.Slug,
			"category_id": subcategory.CategoryID.String(),
		}

		updates := map[string]interface{}{"modified_by": actorID}
		var written []uniqueCandidate

		// Moving to another category shifts the scope the name is unique
		// within, so the name check re-runs whenever either side changes.
		targetCategory := subcategory.CategoryID
		if req.CategoryID != nil && *req.CategoryID != subcategory.CategoryID {
			var parent models.Category
			if err := tx.First(&parent, "id = ?", *req.CategoryID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return &NotFoundError{EntityKind: "category", ID: *req.CategoryID}
				}
				return fmt.Errorf("database error: %w", err)
			}
			targetCategory = *req.CategoryID
			updates["category_id"] = targetCategory
		}

		name := subcategory.Name
		if req.Name != "" {
			name = req.Name
		}
		if name != subcategory.Name || targetCategory != subcategory.CategoryID {
			if err := checkUnique(tx, &models.Subcategory{}, "subcategory", "name", name, scopedTo("category_id", targetCategory), subcategory.ID); err != nil {
				return err
			}
			if name != subcategory.Name {
				updates["name"] = name
			}
			written = append(written, uniqueCandidate{"name", name, scopedTo("category_id", targetCategory)})
		}

		slug := req.Slug
		if slug == "" && req.Name != "" && req.Name != subcategory.Name {
			slug = utils.GenerateSlug(req.Name)
			if slug == "" {
				return ErrEmptySlug
			}
		}
		if slug != "" && slug != subcategory.Slug {
			if err := checkUnique(tx, &models.Subcategory{}, "subcategory", "slug", slug, nil, subcategory.ID); err != nil {
				return err
			}
			updates["slug"] = slug
			written = append(written, uniqueCandidate{"slug", slug, nil})
		}

		if req.Position != nil {
			updates["position"] = *req.Position
		}

		if err := tx.Model(&subcategory).Updates(updates).Error; err != nil {
			return translateDuplicate(s.db, err, &models.Subcategory{}, "subcategory", subcategory.ID, written...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(actorID, "subcategory.updated", "subcategory", subcategory.ID, models.JSONB{
		"old": oldValues,
		"new": models.JSONB{
			"name":        subcategory.Name,
			"slug":        subcategory.Slug,
			"category_id": subcategory.CategoryID.String(),
		},
	})

	return &subcategory, nil
}

func (s *SubcategoryService) DeleteSubcategory(id uuid.UUID, actorID uuid.UUID) error {
	var subcategory models.Subcategory

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&subcategory, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{EntityKind: "subcategory", ID: id}
			}
			return fmt.Errorf("database error: %w", err)
		}

		// Products keep existing without a subcategory.
		if err := tx.Model(&models.Product{}).
			Where("subcategory_id = ?", id).
			Update("subcategory_id", nil).Error; err != nil {
			return fmt.Errorf("failed to detach products: %w", err)
		}
		return tx.Delete(&subcategory).Error
	})
	if err != nil {
		return err
	}

	s.audit.Record(actorID, "subcategory.deleted", "subcategory", id, models.JSONB{
		"name": subcategory.Name,
	})

	return nil
}
