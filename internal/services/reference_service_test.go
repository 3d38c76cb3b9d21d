// internal/services/reference_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/google/uuid"

	"github.com/atelierprints/catalog-backend/internal/models"
)

func TestTagNamesAreUnique(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.references.CreateTag(env.actor, &CreateTagRequest{Name: "nature"})
	require.NoError(t, err)

	_, err = env.references.CreateTag(env.actor, &CreateTagRequest{Name: "nature"})
	require.Error(t, err)
	assert.True(t, IsDuplicateValue(err))
}

func TestDeleteTagDetachesFromProducts(t *testing.T) {
	env := newTestEnv(t)
	tag, err := env.references.CreateTag(env.actor, &CreateTagRequest{Name: "nature"})
	require.NoError(t, err)

	product, err := env.products.CreateProduct(env.actor, &CreateProductRequest{
		Name:   "Mountain Poster",
		TagIDs: []uuid.UUID{tag.ID},
	})
	require.NoError(t, err)

	require.NoError(t, env.references.DeleteTag(tag.ID, env.actor))

	loaded, err := env.products.GetProduct(product.ID)
	require.NoError(t, err)
	assert.Empty(t, loaded.Tags)
}

func TestDeleteFormatInUseIsRejected(t *testing.T) {
	env := newTestEnv(t)
	product := env.createProduct(t, "Mountain Poster")
	a3 := env.createFormat(t, "A3")
	matte := env.createMaterial(t, "Matte")
	env.createVariant(t, product.ID, a3.ID, matte.ID, 5)

	err := env.references.DeleteFormat(a3.ID, env.actor)
	require.Error(t, err)
	assert.True(t, IsInvalidStateTransition(err))

	err = env.references.DeleteMaterial(matte.ID, env.actor)
	require.Error(t, err)
	assert.True(t, IsInvalidStateTransition(err))
}

func TestDeleteUnusedFormat(t *testing.T) {
	env := newTestEnv(t)
	a3 := env.createFormat(t, "A3")

	require.NoError(t, env.references.DeleteFormat(a3.ID, env.actor))

	var count int64
	require.NoError(t, env.db.Model(&models.Format{}).
		Where("id = ?", a3.ID).Count(&count).Error)
	assert.Zero(t, count)
}
