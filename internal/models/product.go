// internal/models/product.go
package models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Product struct {
	BaseModel
	Name           string         `json:"name" gorm:"size:255;not null;uniqueIndex"`
	Slug           string         `json:"slug" gorm:"size:280;not null;uniqueIndex"`
	Description    string         `json:"description" gorm:"type:text"`
	Status         ProductStatus  `json:"status" gorm:"type:varchar(20);not null;default:'draft';index"`
	Featured       bool           `json:"featured" gorm:"not null;default:false;index"`
	SearchKeywords pq.StringArray `json:"search_keywords" gorm:"type:text[]"`
	SubcategoryID  *uuid.UUID     `json:"subcategory_id" gorm:"type:uuid;index"`
	CreatedBy      uuid.UUID      `json:"created_by" gorm:"type:uuid;not null"`
	ModifiedBy     *uuid.UUID     `json:"modified_by" gorm:"type:uuid"`

	// Relationships
	Subcategory *Subcategory     `json:"subcategory,omitempty" gorm:"foreignKey:SubcategoryID"`
	Variants    []ProductVariant `json:"variants,omitempty" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Images      []ProductImage   `json:"images,omitempty" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Tags        []Tag            `json:"tags,omitempty" gorm:"many2many:product_tags;"`
}

type Tag struct {
	BaseModel
	Name       string     `json:"name" gorm:"size:100;not null;uniqueIndex"`
	Slug       string     `json:"slug" gorm:"size:120;not null;uniqueIndex"`
	CreatedBy  uuid.UUID  `json:"created_by" gorm:"type:uuid;not null"`
	ModifiedBy *uuid.UUID `json:"modified_by" gorm:"type:uuid"`
}

type Format struct {
	BaseModel
	Name       string     `json:"name" gorm:"size:100;not null;uniqueIndex"`
	Dimensions string     `json:"dimensions" gorm:"size:100"`
	CreatedBy  uuid.UUID  `json:"created_by" gorm:"type:uuid;not null"`
	ModifiedBy *uuid.UUID `json:"modified_by" gorm:"type:uuid"`
}

type Material struct {
	BaseModel
	Name        string     `json:"name" gorm:"size:100;not null;uniqueIndex"`
	Description string     `json:"description" gorm:"type:text"`
	CreatedBy   uuid.UUID  `json:"created_by" gorm:"type:uuid;not null"`
	ModifiedBy  *uuid.UUID `json:"modified_by" gorm:"type:uuid"`
}
