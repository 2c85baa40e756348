package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"opticsmarket-backend/internal/shared/middleware"
	"opticsmarket-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(),
	)

	auth := middleware.AuthMiddleware(c.JWTManager)
	seller := middleware.SellerMiddleware()
	admin := middleware.AdminMiddleware()

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		c.UserHandler.RegisterRoutes(v1, auth)
		c.ProductHandler.RegisterRoutes(v1, auth, seller)
		c.CartHandler.RegisterRoutes(v1, auth)
		c.AddressHandler.RegisterRoutes(v1, auth)
		c.WalletHandler.RegisterRoutes(v1, auth)
		c.PointsHandler.RegisterRoutes(v1, auth, admin)
		c.CouponHandler.RegisterRoutes(v1, auth, admin)
		c.EscrowHandler.RegisterRoutes(v1, auth, seller)
		c.OrderHandler.RegisterRoutes(v1, auth, seller)
	}

	return router
}

func healthCheckHandler(c *container.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		checkCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		dbStatus := "ok"
		if err := c.DB.HealthCheck(checkCtx); err != nil {
			status = http.StatusServiceUnavailable
			dbStatus = err.Error()
		}

		cacheStatus := "ok"
		if err := c.Cache.Ping(checkCtx); err != nil {
			// Cache is optional; report but stay healthy.
			cacheStatus = err.Error()
		}

		ctx.JSON(status, gin.H{
			"name":     c.Config.App.Name,
			"version":  c.Config.App.Version,
			"database": dbStatus,
			"cache":    cacheStatus,
		})
	}
}
