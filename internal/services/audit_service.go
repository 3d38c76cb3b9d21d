// internal/services/audit_service.go
package services

import (
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/atelierprints/catalog-backend/internal/models"
)

// AuditService records catalog mutations after they have committed. Writes
// are asynchronous and best effort: a failed audit insert is logged, never
// allowed to roll back or mask the mutation it describes.
type AuditService struct {
	db *gorm.DB
}

func NewAuditService(db *gorm.DB) *AuditService {
	return &AuditService{db: db}
}

func (s *AuditService) Record(actorID uuid.UUID, action, entityType string, entityID uuid.UUID, metadata models.JSONB) {
	entry := &models.AuditLog{
		Action:     action,
		EntityType: entityType,
		Metadata:   metadata,
	}
	if actorID != uuid.Nil {
		entry.ActorID = &actorID
	}
	if entityID != uuid.Nil {
		entry.EntityID = &entityID
	}

	go func() {
		if err := s.db.Create(entry).Error; err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"action":      action,
				"entity_type": entityType,
				"entity_id":   entityID,
			}).Error("Failed to record audit event")
		}
	}()
}
