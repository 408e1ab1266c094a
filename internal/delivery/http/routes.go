package http

import (
	"github.com/aggarwalComputronix/website/config"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// maxUploadMemory bounds the in-memory part of a multipart import
const maxUploadMemory = 16 << 20

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler, logger *zap.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()
	router.MaxMultipartMemory = maxUploadMemory

	// Global middleware
	router.Use(RecoveryMiddleware(logger))
	router.Use(LoggerMiddleware(logger))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))
	router.Use(RateLimitMiddleware(cfg.RateLimit.PerIP))

	router.GET("/health", handler.HealthCheck)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/products", handler.SearchProducts)
		v1.GET("/products/:id", handler.GetProduct)
		v1.GET("/categories", handler.Categories)
		v1.POST("/contact", handler.SubmitContact)
		v1.POST("/navigate", handler.Navigate)

		auth := v1.Group("/auth")
		{
			auth.POST("/register", handler.Register)
			auth.POST("/login", handler.Login)
			auth.POST("/logout", handler.Logout)
			auth.GET("/me", handler.AuthMiddleware(), handler.Me)
		}

		admin := v1.Group("/admin", handler.AuthMiddleware(), RequireAdmin())
		{
			admin.POST("/products/import", handler.ImportProducts)
			admin.GET("/products", handler.AdminSearch)
			admin.PUT("/products/:id", handler.UpdateProduct)
			admin.DELETE("/products/:id", handler.DeleteProduct)
			admin.GET("/collections", handler.Collections)
			admin.GET("/messages", handler.ListMessages)
		}
	}

	return router
}
