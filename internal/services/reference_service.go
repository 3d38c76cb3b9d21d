// internal/services/reference_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/atelierprints/catalog-backend/internal/models"
	"github.com/atelierprints/catalog-backend/internal/utils"
)

// ReferenceService covers the flat reference entities: tags, formats and
// materials. All three carry globally unique names; tags carry a slug too.
type ReferenceService struct {
	db    *gorm.DB
	audit *AuditService
}

type CreateTagRequest struct {
	Name string `json:"name" validate:"required,min=2,max=100"`
	Slug string `json:"slug,omitempty" validate:"omitempty,slug"`
}

type CreateFormatRequest struct {
	Name       string `json:"name" validate:"required,min=1,max=100"`
	Dimensions string `json:"dimensions,omitempty" validate:"omitempty,max=100"`
}

type CreateMaterialRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Description string `json:"description,omitempty"`
}

func NewReferenceService(db *gorm.DB, audit *AuditService) *ReferenceService {
	return &ReferenceService{db: db, audit: audit}
}

func (s *ReferenceService) CreateTag(actorID uuid.UUID, req *CreateTagRequest) (*models.Tag, error) {
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

	tag := &models.Tag{Name: req.Name, Slug: slug, CreatedBy: actorID}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := checkUnique(tx, &models.Tag{}, "tag", "name", req.Name, nil, uuid.Nil); err != nil {
			return err
		}
		if err := checkUnique(tx, &models.Tag{}, "tag", "slug", slug, nil, uuid.Nil); err != nil {
			return err
		}
		if err := tx.Create(tag).Error; err != nil {
			return translateDuplicate(s.db, err, &models.Tag{}, "tag", uuid.Nil,
				uniqueCandidate{"name", req.Name, nil},
				uniqueCandidate{"slug", slug, nil})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(actorID, "tag.created", "tag", tag.ID, models.JSONB{"name": tag.Name})
	return tag, nil
}

func (s *ReferenceService) ListTags() ([]models.Tag, error) {
	var tags []models.Tag
	if err := s.db.Order("name ASC").Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch tags: %w", err)
	}
	return tags, nil
}

func (s *ReferenceService) DeleteTag(id uuid.UUID, actorID uuid.UUID) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var tag models.Tag
		if err := tx.First(&tag, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{EntityKind: "tag", ID: id}
			}
			return fmt.Errorf("database error: %w", err)
		}
		if err := tx.Exec("DELETE FROM product_tags WHERE tag_id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to detach tag: %w", err)
		}
		return tx.Delete(&tag).Error
	})
	if err != nil {
		return err
	}

	s.audit.Record(actorID, "tag.deleted", "tag", id, nil)
	return nil
}

func (s *ReferenceService) CreateFormat(actorID uuid.UUID, req *CreateFormatRequest) (*models.Format, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	format := &models.Format{Name: req.Name, Dimensions: req.Dimensions, CreatedBy: actorID}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := checkUnique(tx, &models.Format{}, "format", "name", req.Name, nil, uuid.Nil); err != nil {
			return err
		}
		if err := tx.Create(format).Error; err != nil {
			return translateDuplicate(s.db, err, &models.Format{}, "format", uuid.Nil,
				uniqueCandidate{"name", req.Name, nil})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(actorID, "format.created", "format", format.ID, models.JSONB{"name": format.Name})
	return format, nil
}

func (s *ReferenceService) ListFormats() ([]models.Format, error) {
	var formats []models.Format
	if err := s.db.Order("name ASC").Find(&formats).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch formats: %w", err)
	}
	return formats, nil
}

func (s *ReferenceService) DeleteFormat(id uuid.UUID, actorID uuid.UUID) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var format models.Format
		if err := tx.First(&format, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{EntityKind: "format", ID: id}
			}
			return fmt.Errorf("database error: %w", err)
		}

		var inUse int64
		if err := tx.Model(&models.ProductVariant{}).Where("format_id = ?", id).Count(&inUse).Error; err != nil {
			return fmt.Errorf("database error: %w", err)
		}
		if inUse > 0 {
			return &InvalidStateTransitionError{EntityKind: "format", From: "referenced", To: "deleted"}
		}
		return tx.Delete(&format).Error
	})
	if err != nil {
		return err
	}

	s.audit.Record(actorID, "format.deleted", "format", id, nil)
	return nil
}

func (s *ReferenceService) CreateMaterial(actorID uuid.UUID, req *CreateMaterialRequest) (*models.Material, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	material := &models.Material{Name: req.Name, Description: req.Description, CreatedBy: actorID}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := checkUnique(tx, &models.Material{}, "material", "name", req.Name, nil, uuid.Nil); err != nil {
			return err
		}
		if err := tx.Create(material).Error; err != nil {
			return translateDuplicate(s.db, err, &models.Material{}, "material", uuid.Nil,
				uniqueCandidate{"name", req.Name, nil})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(actorID, "material.created", "material", material.ID, models.JSONB{"name": material.Name})
	return material, nil
}

func (s *ReferenceService) ListMaterials() ([]models.Material, error) {
	var materials []models.Material
	if err := s.db.Order("name ASC").Find(&materials).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch materials: %w", err)
	}
	return materials, nil
}

func (s *ReferenceService) DeleteMaterial(id uuid.UUID, actorID uuid.UUID) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var material models.Material
		if err := tx.First(&material, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{EntityKind: "material", ID: id}
			}
			return fmt.Errorf("database error: %w", err)
		}

		var inUse int64
		if err := tx.Model(&models.ProductVariant{}).Where("material_id = ?", id).Count(&inUse).Error; err != nil {
			return fmt.Errorf("database error: %w", err)
		}
		if inUse > 0 {
			return &InvalidStateTransitionError{EntityKind: "material", From: "referenced", To: "deleted"}
		}
		return tx.Delete(&material).Error
	})
	if err != nil {
		return err
	}

	s.audit.Record(actorID, "material.deleted", "material", id, nil)
	return nil
}
