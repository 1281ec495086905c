package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/gatewatch/auth-service/internal/handler/http/middleware"
	"github.com/gatewatch/auth-service/internal/service"
)

// SetupRouter builds the HTTP routing table.
func SetupRouter(authService *service.AuthService, tokenTTL time.Duration, logger *zap.Logger) *gin.Engine {
	router := gin.New()

	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.CorsMiddleware())
	router.Use(middleware.MetricsMiddleware())

	authHandler := NewAuthHandler(logger, authService, tokenTTL)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.POST("/signup", authHandler.Signup)
	router.POST("/login", authHandler.Login)
	router.POST("/verify-2fa", authHandler.VerifyTwoFA)
	router.POST("/logout", authHandler.Logout)
	router.POST("/verify-token", authHandler.VerifyToken)
	router.POST("/refresh-token", authHandler.RefreshToken)

	return router
}
