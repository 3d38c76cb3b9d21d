// internal/services/uniqueness_test.go
package services

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/atelierprints/catalog-backend/internal/models"
)

// A raw insert bypasses the application-level pre-check, so the unique
// index itself rejects the collision and the driver reports it as
// gorm.ErrDuplicatedKey.
func TestUniqueIndexBackstopRaisesDuplicatedKey(t *testing.T) {
	env := newTestEnv(t)
	env.createCategory(t, "Posters")

	dup := &models.Category{Name: "Other", Slug: "posters", CreatedBy: env.actor}
	err := env.db.Create(dup).Error
	require.Error(t, err)
	require.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	translated := translateDuplicate(env.db, err, &models.Category{}, "category", uuid.Nil,
		uniqueCandidate{"name", "Other", nil},
		uniqueCandidate{"slug", "posters", nil})

	var dupErr *DuplicateValueError
	require.ErrorAs(t, translated, &dupErr)
	assert.Equal(t, "category", dupErr.EntityKind)
	assert.Equal(t, "slug", dupErr.Field)
	assert.Equal(t, "posters", dupErr.Value)
}

// When several unique values were written, the re-probe names the one that
// actually collides instead of defaulting to the first label.
func TestTranslateDuplicateAttributesCollidingField(t *testing.T) {
	env := newTestEnv(t)
	existing := env.createCategory(t, "Posters")

	translated := translateDuplicate(env.db, gorm.ErrDuplicatedKey, &models.Category{}, "category", uuid.Nil,
		uniqueCandidate{"name", "Prints", nil},
		uniqueCandidate{"slug", existing.Slug, nil})

	var dupErr *DuplicateValueError
	require.ErrorAs(t, translated, &dupErr)
	assert.Equal(t, "slug", dupErr.Field)
	assert.Equal(t, existing.Slug, dupErr.Value)

	// With no matching probe the first candidate labels the conflict.
	translated = translateDuplicate(env.db, gorm.ErrDuplicatedKey, &models.Category{}, "category", uuid.Nil,
		uniqueCandidate{"name", "Prints", nil},
		uniqueCandidate{"slug", "prints", nil})
	require.ErrorAs(t, translated, &dupErr)
	assert.Equal(t, "name", dupErr.Field)
}

func TestTranslateDuplicatePassesOtherErrorsThrough(t *testing.T) {
	env := newTestEnv(t)
	boom := errors.New("connection reset")

	err := translateDuplicate(env.db, boom, &models.Category{}, "category", uuid.Nil,
		uniqueCandidate{"name", "Posters", nil})
	assert.Equal(t, boom, err)
}
