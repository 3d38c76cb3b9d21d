// internal/services/testdb_test.go
package services

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/atelierprints/catalog-backend/internal/models"
)

// newTestDB opens a private in-memory sqlite database and migrates the
// full schema into it. Each test gets its own database; the uuid in the
// DSN keeps shared-cache connections from bleeding between tests.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Subcategory{},
		&models.Tag{},
		&models.Format{},
		&models.Material{},
		&models.Product{},
		&models.ProductVariant{},
		&models.ProductImage{},
		&models.ProductVariantImage{},
		&models.AuditLog{},
	))

	return db
}

// testEnv bundles the service layer over one test database.
type testEnv struct {
	db            *gorm.DB
	categories    *CategoryService
	subcategories *SubcategoryService
	products      *ProductService
	variants      *VariantService
	images        *ImageService
	references    *ReferenceService
	actor         uuid.UUID
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := newTestDB(t)
	audit := NewAuditService(db)

	return &testEnv{
		db:            db,
		categories:    NewCategoryService(db, audit),
		subcategories: NewSubcategoryService(db, audit),
		products:      NewProductService(db, audit),
		variants:      NewVariantService(db, audit),
		images:        NewImageService(db, audit),
		references:    NewReferenceService(db, audit),
		actor:         uuid.New(),
	}
}

func (e *testEnv) createCategory(t *testing.T, name string) *models.Category {
	t.Helper()
	category, err := e.categories.CreateCategory(e.actor, &CreateCategoryRequest{Name: name})
	require.NoError(t, err)
	return category
}

func (e *testEnv) createSubcategory(t *testing.T, categoryID uuid.UUID, name string) *models.Subcategory {
	t.Helper()
	subcategory, err := e.subcategories.CreateSubcategory(categoryID, e.actor, &CreateSubcategoryRequest{Name: name})
	require.NoError(t, err)
	return subcategory
}

func (e *testEnv) createProduct(t *testing.T, name string) *models.Product {
	t.Helper()
	product, err := e.products.CreateProduct(e.actor, &CreateProductRequest{Name: name})
	require.NoError(t, err)
	return product
}

func (e *testEnv) createFormat(t *testing.T, name string) *models.Format {
	t.Helper()
	format, err := e.references.CreateFormat(e.actor, &CreateFormatRequest{Name: name})
	require.NoError(t, err)
	return format
}

func (e *testEnv) createMaterial(t *testing.T, name string) *models.Material {
	t.Helper()
	material, err := e.references.CreateMaterial(e.actor, &CreateMaterialRequest{Name: name})
	require.NoError(t, err)
	return material
}

func (e *testEnv) createVariant(t *testing.T, productID, formatID, materialID uuid.UUID, stock int) *models.ProductVariant {
	t.Helper()
	variant, err := e.variants.CreateVariant(productID, e.actor, &CreateVariantRequest{
		FormatID:   formatID,
		MaterialID: materialID,
		Price:      29.90,
		StockQty:   stock,
	})
	require.NoError(t, err)
	return variant
}

func (e *testEnv) attachProductImage(t *testing.T, productID uuid.UUID, primary bool) *models.ProductImage {
	t.Helper()
	image, err := e.images.AttachProductImage(productID, e.actor, &AttachImageRequest{
		URL:        fmt.Sprintf("https://cdn.example.com/%s.jpg", uuid.NewString()),
		StorageKey: fmt.Sprintf("products/%s.jpg", uuid.NewString()),
		IsPrimary:  primary,
	})
	require.NoError(t, err)
	return image
}

func (e *testEnv) attachVariantImage(t *testing.T, variantID uuid.UUID, primary bool) *models.ProductVariantImage {
	t.Helper()
	image, err := e.images.AttachVariantImage(variantID, e.actor, &AttachImageRequest{
		URL:        fmt.Sprintf("https://cdn.example.com/%s.jpg", uuid.NewString()),
		StorageKey: fmt.Sprintf("variants/%s.jpg", uuid.NewString()),
		IsPrimary:  primary,
	})
	require.NoError(t, err)
	return image
}

func intPtr(n int) *int { return &n }

// primaryCount reports how many images of the given parent carry the
// primary flag, straight from the database.
func (e *testEnv) primaryCount(t *testing.T, model interface{}, parentColumn string, parentID uuid.UUID) int64 {
	t.Helper()
	var count int64
	err := e.db.Model(model).
		Where(parentColumn+" = ? AND is_primary = ?", parentID, true).
		Count(&count).Error
	require.NoError(t, err)
	return count
}
