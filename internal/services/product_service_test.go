// internal/services/product_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/google/uuid"

	"github.com/atelierprints/catalog-backend/internal/models"
	"github.com/atelierprints/catalog-backend/internal/utils"
)

func TestCreateProductDefaultsAndSlug(t *testing.T) {
	env := newTestEnv(t)

	product, err := env.products.CreateProduct(env.actor, &CreateProductRequest{
		Name: "Affiche Montagne Enneigée",
	})
	require.NoError(t, err)
	assert.Equal(t, "affiche-montagne-enneigee", product.Slug)
	assert.Equal(t, models.ProductStatusDraft, product.Status)
}

func TestCreateProductDuplicateName(t *testing.T) {
	env := newTestEnv(t)
	env.createProduct(t, "Mountain Poster")

	_, err := env.products.CreateProduct(env.actor, &CreateProductRequest{
		Name: "Mountain Poster",
		Slug: "mountain-poster-2",
	})
	require.Error(t, err)
	assert.True(t, IsDuplicateValue(err))
}

func TestCreateProductUnknownSubcategory(t *testing.T) {
	env := newTestEnv(t)
	missing := uuid.New()

	_, err := env.products.CreateProduct(env.actor, &CreateProductRequest{
		Name:          "Mountain Poster",
		SubcategoryID: &missing,
	})
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestCreateProductWithTags(t *testing.T) {
	env := newTestEnv(t)
	tag, err := env.references.CreateTag(env.actor, &CreateTagRequest{Name: "nature"})
	require.NoError(t, err)

	product, err := env.products.CreateProduct(env.actor, &CreateProductRequest{
		Name:   "Mountain Poster",
		TagIDs: []uuid.UUID{tag.ID},
	})
	require.NoError(t, err)

	loaded, err := env.products.GetProduct(product.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Tags, 1)
	assert.Equal(t, "nature", loaded.Tags[0].Name)
}

func TestCreateProductUnknownTag(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.products.CreateProduct(env.actor, &CreateProductRequest{
		Name:   "Mountain Poster",
		TagIDs: []uuid.UUID{uuid.New()},
	})
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestUpdateProductNoopRename(t *testing.T) {
	env := newTestEnv(t)
	product := env.createProduct(t, "Mountain Poster")

	updated, err := env.products.UpdateProduct(product.ID, env.actor, &UpdateProductRequest{
		Name: "Mountain Poster",
	})
	require.NoError(t, err)
	assert.Equal(t, "Mountain Poster", updated.Name)
	assert.Equal(t, "mountain-poster", updated.Slug)
}

func TestUpdateProductRenameToTakenName(t *testing.T) {
	env := newTestEnv(t)
	env.createProduct(t, "Mountain Poster")
	other := env.createProduct(t, "Ocean Poster")

	_, err := env.products.UpdateProduct(other.ID, env.actor, &UpdateProductRequest{
		Name: "Mountain Poster",
	})
	require.Error(t, err)
	assert.True(t, IsDuplicateValue(err))
}

func TestUpdateProductReplacesTags(t *testing.T) {
	env := newTestEnv(t)
	nature, err := env.references.CreateTag(env.actor, &CreateTagRequest{Name: "nature"})
	require.NoError(t, err)
	city, err := env.references.CreateTag(env.actor, &CreateTagRequest{Name: "city"})
	require.NoError(t, err)

	product, err := env.products.CreateProduct(env.actor, &CreateProductRequest{
		Name:   "Mountain Poster",
		TagIDs: []uuid.UUID{nature.ID},
	})
	require.NoError(t, err)

	_, err = env.products.UpdateProduct(product.ID, env.actor, &UpdateProductRequest{
		TagIDs: []uuid.UUID{city.ID},
	})
	require.NoError(t, err)

	loaded, err := env.products.GetProduct(product.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Tags, 1)
	assert.Equal(t, "city", loaded.Tags[0].Name)
}

func TestSearchProductsFilters(t *testing.T) {
	env := newTestEnv(t)
	category := env.createCategory(t, "Posters")
	subcategory := env.createSubcategory(t, category.ID, "Nature")

	_, err := env.products.CreateProduct(env.actor, &CreateProductRequest{
		Name:          "Mountain Poster",
		Status:        models.ProductStatusPublished,
		SubcategoryID: &subcategory.ID,
	})
	require.NoError(t, err)
	env.createProduct(t, "Ocean Poster")

	published := models.ProductStatusPublished
	results, total, err := env.products.SearchProducts(ProductSearchParams{
		PaginationParams: utils.PaginationParams{Page: 1, Limit: 10},
		Status:           &published,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, results, 1)
	assert.Equal(t, "Mountain Poster", results[0].Name)

	results, total, err = env.products.SearchProducts(ProductSearchParams{
		PaginationParams: utils.PaginationParams{Page: 1, Limit: 10, Search: "ocean"},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, results, 1)
	assert.Equal(t, "Ocean Poster", results[0].Name)
}

func TestDeleteProductCascadesAndReturnsStorageKeys(t *testing.T) {
	env := newTestEnv(t)
	product := env.createProduct(t, "Mountain Poster")
	a3 := env.createFormat(t, "A3")
	matte := env.createMaterial(t, "Matte")
	variant := env.createVariant(t, product.ID, a3.ID, matte.ID, 5)

	productImage := env.attachProductImage(t, product.ID, true)
	variantImage := env.attachVariantImage(t, variant.ID, true)

	storageKeys, err := env.products.DeleteProduct(product.ID, env.actor)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{productImage.StorageKey, variantImage.StorageKey}, storageKeys)

	_, err = env.products.GetProduct(product.ID)
	assert.True(t, IsNotFound(err))

	var count int64
	require.NoError(t, env.db.Model(&models.ProductVariant{}).
		Where("product_id = ?", product.ID).Count(&count).Error)
	assert.Zero(t, count)

	require.NoError(t, env.db.Model(&models.ProductVariantImage{}).
		Where("variant_id = ?", variant.ID).Count(&count).Error)
	assert.Zero(t, count)
}
