package api

import (
	"github.com/gin-gonic/gin"

	"github.com/marvinkos/pawstore/internal/api/handler"
	"github.com/marvinkos/pawstore/internal/api/middleware"
	"github.com/marvinkos/pawstore/internal/config"
	"github.com/marvinkos/pawstore/internal/logger"
	"github.com/marvinkos/pawstore/internal/repository"
	"github.com/marvinkos/pawstore/internal/service"
)

// SetupRouter configures the Gin router with all routes.
func SetupRouter(
	jobs *repository.JobRepository,
	products *repository.ProductRepository,
	provision *service.ProvisionService,
	enqueuer handler.JobEnqueuer,
	cfg *config.Config,
	log *logger.Logger,
) *gin.Engine {
	switch cfg.Server.Mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.LoggerMiddleware(log))
	r.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins:  cfg.Server.CORS.AllowedOrigins,
		AllowAllOrigins: cfg.Server.CORS.AllowAllOrigins,
	}))

	healthHandler := handler.NewHealthHandler()
	enhancementHandler := handler.NewEnhancementHandler(jobs, enqueuer)
	catalogHandler := handler.NewCatalogHandler()
	storeHandler := handler.NewStoreHandler(products, provision)

	r.GET("/health", healthHandler.Health)

	v1 := r.Group("/api/v1")
	{
		// Enhancement jobs
		v1.POST("/enhancements", enhancementHandler.CreateJob)
		v1.GET("/enhancements/:id", enhancementHandler.GetJob)

		// Catalog
		v1.GET("/catalog/categories", catalogHandler.ListCategories)
		v1.GET("/catalog/categories/:slug", catalogHandler.GetCategory)

		// Stores
		v1.POST("/stores/:id/subdomain", storeHandler.ProvisionSubdomain)
		v1.GET("/stores/:id/products/:productID", storeHandler.GetProduct)
	}

	return r
}
