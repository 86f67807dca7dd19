package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/empresa-normalizer/app/controllers"
	"github.com/empresa-normalizer/internal/backend"
)

// SetupAPIRoutes registra as rotas da API
func SetupAPIRoutes(router *gin.Engine, recordsController *controllers.RecordsController, adminController *controllers.AdminController) {
	// API v1 group
	v1 := router.Group("/v1")
	{
		// uma rota por nome lógico, canônico ou legado; todos dobram para o
		// mesmo transformador, então caminho novo e velho respondem igual
		for _, nome := range backend.Nomes() {
			v1.GET("/"+nome, recordsController.Listar(nome))
		}

		// Documentos por chave
		documentos := v1.Group("/documentos")
		{
			documentos.GET("/:documento", recordsController.GetDocumento)
		}

		// Emissão de certificado
		certificados := v1.Group("/certificados")
		{
			certificados.POST("/emitir", recordsController.EmitirCertificado)
		}

		// Admin routes
		admin := v1.Group("/admin")
		{
			admin.GET("/stats", adminController.GetStats)
			admin.POST("/cache/invalidate", adminController.InvalidateCache)
			admin.POST("/cache/clear", adminController.ClearCache)
			admin.POST("/indexes/build", adminController.BuildIndexes)
			admin.GET("/vinculos/pendentes", adminController.VinculosPendentes)
			admin.POST("/vocabulario/check", adminController.CheckVocabulario)
		}

		// Health check route
		v1.GET("/health", recordsController.HealthCheck)
	}
}

// SetupHealthRoutes registra as rotas de health check
func SetupHealthRoutes(router *gin.Engine, recordsController *controllers.RecordsController) {
	// Root health check
	router.GET("/health", recordsController.HealthCheck)

	// Readiness check
	router.GET("/ready", recordsController.HealthCheck)

	// Liveness check
	router.GET("/live", recordsController.HealthCheck)
}

// SetupAllRoutes registra todas as rotas
func SetupAllRoutes(router *gin.Engine, recordsController *controllers.RecordsController, adminController *controllers.AdminController) {
	setupMiddleware(router)

	SetupHealthRoutes(router, recordsController)
	SetupAPIRoutes(router, recordsController, adminController)

	// 404 handler
	router.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{
			"error":  "Route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})
}

// setupMiddleware middleware do router
func setupMiddleware(router *gin.Engine) {
	// Recovery middleware
	router.Use(gin.Recovery())

	// Logger middleware
	router.Use(gin.Logger())
}
