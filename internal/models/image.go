// internal/models/image.go
package models

import (
	"github.com/google/uuid"
)

// ProductImage and ProductVariantImage carry the opaque storage key and
// public URL handed back by the storage service after upload. At most one
// sibling per parent may have IsPrimary set; the image service enforces
// this and a partial unique index in PostgreSQL backstops it.
type ProductImage struct {
	BaseModel
	ProductID  uuid.UUID   `json:"product_id" gorm:"type:uuid;not null;index"`
	URL        string      `json:"url" gorm:"size:512;not null"`
	StorageKey string      `json:"storage_key" gorm:"size:255;not null"`
	AltText    string      `json:"alt_text" gorm:"size:255"`
	Position   int         `json:"position" gorm:"not null;default:0"`
	IsPrimary  bool        `json:"is_primary" gorm:"not null;default:false"`
	Status     ImageStatus `json:"status" gorm:"type:varchar(20);not null;default:'active';index"`
	CreatedBy  uuid.UUID   `json:"created_by" gorm:"type:uuid;not null"`
	ModifiedBy *uuid.UUID  `json:"modified_by" gorm:"type:uuid"`
}

type ProductVariantImage struct {
	BaseModel
	VariantID  uuid.UUID   `json:"variant_id" gorm:"type:uuid;not null;index"`
	URL        string      `json:"url" gorm:"size:512;not null"`
	StorageKey string      `json:"storage_key" gorm:"size:255;not null"`
	AltText    string      `json:"alt_text" gorm:"size:255"`
	Position   int         `json:"position" gorm:"not null;default:0"`
	IsPrimary  bool        `json:"is_primary" gorm:"not null;default:false"`
	Status     ImageStatus `json:"status" gorm:"type:varchar(20);not null;default:'active';index"`
	CreatedBy  uuid.UUID   `json:"created_by" gorm:"type:uuid;not null"`
	ModifiedBy *uuid.UUID  `json:"modified_by" gorm:"type:uuid"`
}
