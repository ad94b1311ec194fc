package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"readinghub-backend/internal/shared/middleware"
	"readinghub-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
	)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupBookRoutes(v1, c)
		setupAuthorRoutes(v1, c)
		setupGenreRoutes(v1, c)
		setupCountryRoutes(v1, c)
		setupBookClubRoutes(v1, c)
	}

	return router
}

func setupBookRoutes(v1 *gin.RouterGroup, c *container.Container) {
	books := v1.Group("/books")
	{
		books.GET("", c.BookHandler.List)
		books.GET("/:id", c.BookHandler.GetByID)
	}

	authed := v1.Group("/books")
	authed.Use(middleware.AuthMiddleware(c.JWTManager))
	{
		authed.POST("", c.BookHandler.Create)
		authed.PUT("/:id", c.BookHandler.Update)
		authed.DELETE("/:id", c.BookHandler.Delete)
	}

	// Moderation decisions are moderator-only.
	moderation := v1.Group("/books")
	moderation.Use(middleware.AuthMiddleware(c.JWTManager), middleware.ModeratorMiddleware())
	{
		moderation.POST("/:id/accept", c.BookHandler.Accept)
		moderation.POST("/:id/decline", c.BookHandler.Decline)
	}
}

func setupAuthorRoutes(v1 *gin.RouterGroup, c *container.Container) {
	authors := v1.Group("/authors")
	{
		authors.GET("", c.AuthorHandler.List)
		authors.GET("/:id", c.AuthorHandler.GetByID)
	}

	authed := v1.Group("/authors")
	authed.Use(middleware.AuthMiddleware(c.JWTManager))
	{
		authed.POST("", c.AuthorHandler.Create)
		authed.PUT("/:id", c.AuthorHandler.Update)
		authed.DELETE("/:id", c.AuthorHandler.Delete)
	}

	moderation := v1.Group("/authors")
	moderation.Use(middleware.AuthMiddleware(c.JWTManager), middleware.ModeratorMiddleware())
	{
		moderation.POST("/:id/accept", c.AuthorHandler.Accept)
		moderation.POST("/:id/decline", c.AuthorHandler.Decline)
	}
}

func setupGenreRoutes(v1 *gin.RouterGroup, c *container.Container) {
	genres := v1.Group("/genres")
	{
		genres.GET("", c.GenreHandler.List)
		genres.GET("/:id", c.GenreHandler.GetByID)
	}

	authed := v1.Group("/genres")
	authed.Use(middleware.AuthMiddleware(c.JWTManager), middleware.ModeratorMiddleware())
	{
		authed.POST("", c.GenreHandler.Create)
		authed.PUT("/:id", c.GenreHandler.Update)
		authed.DELETE("/:id", c.GenreHandler.Delete)
	}
}

func setupCountryRoutes(v1 *gin.RouterGroup, c *container.Container) {
	countries := v1.Group("/countries")
	{
		countries.GET("", c.CountryHandler.List)
		countries.GET("/:id", c.CountryHandler.GetByID)
	}

	authed := v1.Group("/countries")
	authed.Use(middleware.AuthMiddleware(c.JWTManager), middleware.ModeratorMiddleware())
	{
		authed.POST("", c.CountryHandler.Create)
		authed.PUT("/:id", c.CountryHandler.Update)
		authed.DELETE("/:id", c.CountryHandler.Delete)
	}
}

func setupBookClubRoutes(v1 *gin.RouterGroup, c *container.Container) {
	clubs := v1.Group("/bookclubs")
	{
		clubs.GET("", c.BookClubHandler.List)
		clubs.GET("/:id", c.BookClubHandler.GetByID)
	}

	authed := v1.Group("/bookclubs")
	authed.Use(middleware.AuthMiddleware(c.JWTManager))
	{
		authed.POST("", c.BookClubHandler.Create)
		authed.PUT("/:id", c.BookClubHandler.Update)
		authed.DELETE("/:id", c.BookClubHandler.Delete)
	}
}

func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		health := gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   appCtx.Config.App.Version,
		}

		dbStatus := "ok"
		if appCtx.DB == nil || appCtx.DB.Pool == nil {
			dbStatus = "disconnected"
			health["status"] = "degraded"
		} else {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := appCtx.DB.HealthCheck(ctx); err != nil {
				dbStatus = fmt.Sprintf("error: %v", err)
				health["status"] = "degraded"
			}
		}

		redisStatus := "ok"
		if appCtx.Cache == nil {
			redisStatus = "disconnected"
		} else {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := appCtx.Cache.Ping(ctx); err != nil {
				redisStatus = fmt.Sprintf("error: %v", err)
			}
		}

		health["services"] = gin.H{
			"database": dbStatus,
			"redis":    redisStatus,
		}

		statusCode := http.StatusOK
		if dbStatus != "ok" {
			statusCode = http.StatusServiceUnavailable
		}
		c.JSON(statusCode, health)
	}
}
