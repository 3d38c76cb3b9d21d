// internal/models/category.go
package models

import (
	"github.com/google/uuid"
)

type Category struct {
	BaseModel
	Name        string     `json:"name" gorm:"size:100;not null;uniqueIndex"`
	Slug        string     `json:"slug" gorm:"size:120;not null;uniqueIndex"`
	Description string     `json:"description" gorm:"type:text"`
	Position    int        `json:"position" gorm:"not null;default:0;index"`
	CreatedBy   uuid.UUID  `json:"created_by" gorm:"type:uuid;not null"`
	ModifiedBy  *uuid.UUID `json:"modified_by" gorm:"type:uuid"`

	// Relationships
	Subcategories []Subcategory `json:"subcategories,omitempty" gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE"`
}

type Subcategory struct {
	BaseModel
	CategoryID uuid.UUID  `json:"category_id" gorm:"type:uuid;not null;index;uniqueIndex:idx_subcategories_category_name,priority:1"`
	Name       string     `json:"name" gorm:"size:100;not null;uniqueIndex:idx_subcategories_category_name,priority:2"`
	Slug       string     `json:"slug" gorm:"size:120;not null;uniqueIndex"`
	Position   int        `json:"position" gorm:"not null;default:0;index"`
	CreatedBy  uuid.UUID  `json:"created_by" gorm:"type:uuid;not null"`
	ModifiedBy *uuid.UUID `json:"modified_by" gorm:"type:uuid"`

	// Relationships
	Category Category `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
}
