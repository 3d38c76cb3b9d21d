// internal/services/image_service_test.go
package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atelierprints/catalog-backend/internal/models"
)

func TestAttachPrimaryImageDemotesPrevious(t *testing.T) {
	env := newTestEnv(t)
	product := env.createProduct(t, "Mountain Poster")

	first := env.attachProductImage(t, product.ID, true)
	second := env.attachProductImage(t, product.ID, true)

	assert.EqualValues(t, 1, env.primaryCount(t, &models.ProductImage{}, "product_id", product.ID))

	var reloaded models.ProductImage
	require.NoError(t, env.db.First(&reloaded, "id = ?", first.ID).Error)
	assert.False(t, reloaded.IsPrimary)

	reloaded = models.ProductImage{}
	require.NoError(t, env.db.First(&reloaded, "id = ?", second.ID).Error)
	assert.True(t, reloaded.IsPrimary)
}

func TestFirstNonPrimaryAttachLeavesNoPrimary(t *testing.T) {
	env := newTestEnv(t)
	product := env.createProduct(t, "Mountain Poster")

	env.attachProductImage(t, product.ID, false)

	// A parent without any primary image is a legal state.
	assert.EqualValues(t, 0, env.primaryCount(t, &models.ProductImage{}, "product_id", product.ID))
}

func TestSetPrimaryIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	product := env.createProduct(t, "Mountain Poster")

	image := env.attachProductImage(t, product.ID, false)
	other := env.attachProductImage(t, product.ID, false)

	promoted, err := env.images.SetProductImagePrimary(image.ID, env.actor)
	require.NoError(t, err)
	assert.True(t, promoted.IsPrimary)

	// Promoting the current primary again changes nothing.
	promoted, err = env.images.SetProductImagePrimary(image.ID, env.actor)
	require.NoError(t, err)
	assert.True(t, promoted.IsPrimary)
	assert.EqualValues(t, 1, env.primaryCount(t, &models.ProductImage{}, "product_id", product.ID))

	// Promoting a sibling moves the flag, never duplicates it.
	promoted, err = env.images.SetProductImagePrimary(other.ID, env.actor)
	require.NoError(t, err)
	assert.True(t, promoted.IsPrimary)
	assert.EqualValues(t, 1, env.primaryCount(t, &models.ProductImage{}, "product_id", product.ID))

	var old models.ProductImage
	require.NoError(t, env.db.First(&old, "id = ?", image.ID).Error)
	assert.False(t, old.IsPrimary)
}

func TestPromotionDoesNotCrossParents(t *testing.T) {
	env := newTestEnv(t)
	mountain := env.createProduct(t, "Mountain Poster")
	ocean := env.createProduct(t, "Ocean Poster")

	env.attachProductImage(t, mountain.ID, true)
	candidate := env.attachProductImage(t, mountain.ID, false)
	oceanPrimary := env.attachProductImage(t, ocean.ID, true)

	_, err := env.images.SetProductImagePrimary(candidate.ID, env.actor)
	require.NoError(t, err)

	// The other product's primary is untouched.
	var reloaded models.ProductImage
	require.NoError(t, env.db.First(&reloaded, "id = ?", oceanPrimary.ID).Error)
	assert.True(t, reloaded.IsPrimary)
	assert.EqualValues(t, 1, env.primaryCount(t, &models.ProductImage{}, "product_id", ocean.ID))
}

func TestUpdateImagePrimaryFlagRoutesThroughPromotion(t *testing.T) {
	env := newTestEnv(t)
	product := env.createProduct(t, "Mountain Poster")

	current := env.attachProductImage(t, product.ID, true)
	candidate := env.attachProductImage(t, product.ID, false)

	makePrimary := true
	updated, err := env.images.UpdateProductImage(candidate.ID, env.actor, &UpdateImageRequest{
		IsPrimary: &makePrimary,
	})
	require.NoError(t, err)
	assert.True(t, updated.IsPrimary)
	assert.EqualValues(t, 1, env.primaryCount(t, &models.ProductImage{}, "product_id", product.ID))

	var old models.ProductImage
	require.NoError(t, env.db.First(&old, "id = ?", current.ID).Error)
	assert.False(t, old.IsPrimary)
}

func TestUpdateImageAllowsDemotion(t *testing.T) {
	env := newTestEnv(t)
	product := env.createProduct(t, "Mountain Poster")
	image := env.attachProductImage(t, product.ID, true)

	demote := false
	updated, err := env.images.UpdateProductImage(image.ID, env.actor, &UpdateImageRequest{
		IsPrimary: &demote,
	})
	require.NoError(t, err)
	assert.False(t, updated.IsPrimary)
	assert.EqualValues(t, 0, env.primaryCount(t, &models.ProductImage{}, "product_id", product.ID))
}

func TestDeleteProductImageReturnsStorageKey(t *testing.T) {
	env := newTestEnv(t)
	product := env.createProduct(t, "Mountain Poster")
	image := env.attachProductImage(t, product.ID, true)

	storageKey, err := env.images.DeleteProductImage(image.ID, env.actor)
	require.NoError(t, err)
	assert.Equal(t, image.StorageKey, storageKey)

	var count int64
	require.NoError(t, env.db.Model(&models.ProductImage{}).
		Where("id = ?", image.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestVariantImagePrimaryMirrorsProductBehavior(t *testing.T) {
	env := newTestEnv(t)
	product := env.createProduct(t, "Mountain Poster")
	a3 := env.createFormat(t, "A3")
	matte := env.createMaterial(t, "Matte")
	variant := env.createVariant(t, product.ID, a3.ID, matte.ID, 5)

	first := env.attachVariantImage(t, variant.ID, true)
	second := env.attachVariantImage(t, variant.ID, false)

	_, err := env.images.SetVariantImagePrimary(second.ID, env.actor)
	require.NoError(t, err)
	assert.EqualValues(t, 1, env.primaryCount(t, &models.ProductVariantImage{}, "variant_id", variant.ID))

	var reloaded models.ProductVariantImage
	require.NoError(t, env.db.First(&reloaded, "id = ?", first.ID).Error)
	assert.False(t, reloaded.IsPrimary)
}

func TestVariantPrimaryIndependentOfProductPrimary(t *testing.T) {
	env := newTestEnv(t)
	product := env.createProduct(t, "Mountain Poster")
	a3 := env.createFormat(t, "A3")
	matte := env.createMaterial(t, "Matte")
	variant := env.createVariant(t, product.ID, a3.ID, matte.ID, 5)

	productImage := env.attachProductImage(t, product.ID, true)
	env.attachVariantImage(t, variant.ID, true)

	// Both galleries hold their own primary at the same time.
	assert.EqualValues(t, 1, env.primaryCount(t, &models.ProductImage{}, "product_id", product.ID))
	assert.EqualValues(t, 1, env.primaryCount(t, &models.ProductVariantImage{}, "variant_id", variant.ID))

	var reloaded models.ProductImage
	require.NoError(t, env.db.First(&reloaded, "id = ?", productImage.ID).Error)
	assert.True(t, reloaded.IsPrimary)
}

func TestGetImageByID(t *testing.T) {
	env := newTestEnv(t)
	product := env.createProduct(t, "Mountain Poster")
	a3 := env.createFormat(t, "A3")
	matte := env.createMaterial(t, "Matte")
	variant := env.createVariant(t, product.ID, a3.ID, matte.ID, 5)

	productImage := env.attachProductImage(t, product.ID, true)
	variantImage := env.attachVariantImage(t, variant.ID, false)

	got, err := env.images.GetProductImage(productImage.ID)
	require.NoError(t, err)
	assert.Equal(t, productImage.StorageKey, got.StorageKey)

	gotVariant, err := env.images.GetVariantImage(variantImage.ID)
	require.NoError(t, err)
	assert.Equal(t, variantImage.StorageKey, gotVariant.StorageKey)

	_, err = env.images.GetProductImage(uuid.New())
	assert.True(t, IsNotFound(err))

	_, err = env.images.GetVariantImage(uuid.New())
	assert.True(t, IsNotFound(err))
}
