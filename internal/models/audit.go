// internal/models/audit.go
package models

import (
	"github.com/google/uuid"
)

// AuditLog rows are append-only. ActorID is kept as a bare uuid with no
// foreign key so entries survive account removal.
type AuditLog struct {
	BaseModel
	ActorID    *uuid.UUID `json:"actor_id" gorm:"type:uuid;index"`
	Action     string     `json:"action" gorm:"size:100;not null;index"`
	EntityType string     `json:"entity_type" gorm:"size:50;not null;index"`
	EntityID   *uuid.UUID `json:"entity_id" gorm:"type:uuid;index"`
	Metadata   JSONB      `json:"metadata" gorm:"type:jsonb"`
}
