// internal/models/variant.go
package models

import (
	"github.com/google/uuid"
)

// ProductVariant is a sellable format × material combination under a
// product. The (product_id, format_id, material_id) triple is unique.
type ProductVariant struct {
	BaseModel
	ProductID  uuid.UUID     `json:"product_id" gorm:"type:uuid;not null;index;uniqueIndex:idx_variants_product_format_material,priority:1"`
	FormatID   uuid.UUID     `json:"format_id" gorm:"type:uuid;not null;uniqueIndex:idx_variants_product_format_material,priority:2"`
	MaterialID uuid.UUID     `json:"material_id" gorm:"type:uuid;not null;uniqueIndex:idx_variants_product_format_material,priority:3"`
	SKU        string        `json:"sku" gorm:"size:64;index"`
	Price      float64       `json:"price" gorm:"type:decimal(10,2);not null"`
	StockQty   int           `json:"stock_qty" gorm:"not null;default:0"`
	Status     VariantStatus `json:"status" gorm:"type:varchar(20);not null;default:'available';index"`
	CreatedBy  uuid.UUID     `json:"created_by" gorm:"type:uuid;not null"`
	ModifiedBy *uuid.UUID    `json:"modified_by" gorm:"type:uuid"`

	// Relationships
	Product  Product               `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Format   Format                `json:"format,omitempty" gorm:"foreignKey:FormatID"`
	Material Material              `json:"material,omitempty" gorm:"foreignKey:MaterialID"`
	Images   []ProductVariantImage `json:"images,omitempty" gorm:"foreignKey:VariantID;constraint:OnDelete:CASCADE"`
}
