package host

import (
	"time"

	"github.com/gin-gonic/gin"

	"plugsetup/internal/core"
)

// NewRouter builds the HTTP surface over the dispatcher.
func NewRouter(dispatcher *core.Dispatcher, logger core.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))

	handlers := NewHandlers(dispatcher, logger)

	v1 := router.Group("/v1/setup")
	{
		v1.POST("/sessions", handlers.begin)
		v1.GET("/sessions/:id", handlers.getSession)
		v1.POST("/ask", handlers.ask)
		v1.POST("/validate-key", handlers.validateKey)
		v1.POST("/install", handlers.installDependency)
		v1.POST("/test-connection", handlers.testConnection)
		v1.POST("/save", handlers.saveConfig)
		v1.POST("/complete", handlers.complete)
		v1.POST("/rollback", handlers.rollback)
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return router
}

// requestLogger logs each request through the structured logger instead of
// gin's default writer.
func requestLogger(logger core.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).String(),
		)
	}
}
