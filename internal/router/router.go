// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/atelierprints/catalog-backend/internal/config"
	"github.com/atelierprints/catalog-backend/internal/handlers"
	"github.com/atelierprints/catalog-backend/internal/middleware"
	"github.com/atelierprints/catalog-backend/internal/services"
	"github.com/atelierprints/catalog-backend/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// Initialize services
	auditService := services.NewAuditService(db)
	storageService, _ := services.NewStorageService(cfg)

	authService := services.NewAuthService(db, cfg)
	categoryService := services.NewCategoryService(db, auditService)
	subcategoryService := services.NewSubcategoryService(db, auditService)
	productService := services.NewProductService(db, auditService)
	variantService := services.NewVariantService(db, auditService)
	imageService := services.NewImageService(db, auditService)
	referenceService := services.NewReferenceService(db, auditService)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	categoryHandler := handlers.NewCategoryHandler(categoryService, subcategoryService)
	subcategoryHandler := handlers.NewSubcategoryHandler(subcategoryService)
	productHandler := handlers.NewProductHandler(productService, storageService)
	variantHandler := handlers.NewVariantHandler(variantService, storageService)
	imageHandler := handlers.NewImageHandler(imageService, storageService)
	referenceHandler := handlers.NewReferenceHandler(referenceService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	limits := middleware.NewRateLimiterSet(cfg.RateLimit)
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(limits.General())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Authentication routes
		auth := v1.Group("/auth")
		auth.Use(limits.Auth())
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)
		}

		// Everything below is the admin surface
		admin := v1.Group("")
		admin.Use(middleware.AuthRequired())
		{
			admin.GET("/auth/me", authHandler.Profile)

			// Categories
			categories := admin.Group("/categories")
			{
				categories.GET("", categoryHandler.ListCategories)
				categories.POST("", categoryHandler.CreateCategory)
				categories.GET("/:id", categoryHandler.GetCategory)
				categories.PUT("/:id", categoryHandler.UpdateCategory)
				categories.DELETE("/:id", middleware.AdminRequired(), categoryHandler.DeleteCategory)
				categories.GET("/:id/subcategories", categoryHandler.ListSubcategories)
				categories.POST("/:id/subcategories", categoryHandler.CreateSubcategory)
			}

			// Subcategories
			subcategories := admin.Group("/subcategories")
			{
				subcategories.GET("/:id", subcategoryHandler.GetSubcategory)
				subcategories.PUT("/:id", subcategoryHandler.UpdateSubcategory)
				subcategories.DELETE("/:id", middleware.AdminRequired(), subcategoryHandler.DeleteSubcategory)
			}

			// Products
			products := admin.Group("/products")
			{
				products.GET("", productHandler.ListProducts)
				products.POST("", productHandler.CreateProduct)
				products.GET("/:id", productHandler.GetProduct)
				products.PUT("/:id", productHandler.UpdateProduct)
				products.DELETE("/:id", middleware.AdminRequired(), productHandler.DeleteProduct)

				products.GET("/:id/variants", variantHandler.ListVariants)
				products.POST("/:id/variants", variantHandler.CreateVariant)

				products.GET("/:id/images", imageHandler.ListProductImages)
				products.POST("/:id/images", limits.Upload(), imageHandler.AttachProductImage)
			}

			// Variants
			variants := admin.Group("/variants")
			{
				variants.GET("/:id", variantHandler.GetVariant)
				variants.PUT("/:id", variantHandler.UpdateVariant)
				variants.POST("/:id/stock", variantHandler.AdjustStock)
				variants.POST("/:id/discontinue", variantHandler.DiscontinueVariant)
				variants.DELETE("/:id", middleware.AdminRequired(), variantHandler.DeleteVariant)

				variants.GET("/:id/images", imageHandler.ListVariantImages)
				variants.POST("/:id/images", limits.Upload(), imageHandler.AttachVariantImage)
			}

			// Image management
			productImages := admin.Group("/product-images")
			{
				productImages.PUT("/:id", imageHandler.UpdateProductImage)
				productImages.POST("/:id/primary", imageHandler.SetProductImagePrimary)
				productImages.GET("/:id/download", imageHandler.ProductImageDownloadURL)
				productImages.DELETE("/:id", imageHandler.DeleteProductImage)
			}

			variantImages := admin.Group("/variant-images")
			{
				variantImages.PUT("/:id", imageHandler.UpdateVariantImage)
				variantImages.POST("/:id/primary", imageHandler.SetVariantImagePrimary)
				variantImages.GET("/:id/download", imageHandler.VariantImageDownloadURL)
				variantImages.DELETE("/:id", imageHandler.DeleteVariantImage)
			}

			// Reference vocabularies
			admin.GET("/tags", referenceHandler.ListTags)
			admin.POST("/tags", referenceHandler.CreateTag)
			admin.DELETE("/tags/:id", middleware.AdminRequired(), referenceHandler.DeleteTag)

			admin.GET("/formats", referenceHandler.ListFormats)
			admin.POST("/formats", referenceHandler.CreateFormat)
			admin.DELETE("/formats/:id", middleware.AdminRequired(), referenceHandler.DeleteFormat)

			admin.GET("/materials", referenceHandler.ListMaterials)
			admin.POST("/materials", referenceHandler.CreateMaterial)
			admin.DELETE("/materials/:id", middleware.AdminRequired(), referenceHandler.DeleteMaterial)
		}
	}

	return r
}
