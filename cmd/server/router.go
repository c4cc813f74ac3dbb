package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"github.com/thereayou/gallery-lite/internal/handlers"
	"github.com/thereayou/gallery-lite/internal/middleware"
	"github.com/thereayou/gallery-lite/pkg/auth"
)

func APIEndpoints(r *gin.Engine, authH *handlers.AuthHandler, imageH *handlers.ImageHandler, jwtMgr *auth.JWTManager, rdb *redis.Client, uploadDir string) {
	protected := middleware.AuthMiddleware(jwtMgr, rdb)

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Welcome to Image Gallery API"})
	})

	// Uploaded binaries, read-only
	r.Static("/uploads", uploadDir)

	// Auth endpoints
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", authH.Register)
		authGroup.POST("/login", authH.Login)
		authGroup.GET("/profile", protected, authH.GetProfile)
		if rdb != nil {
			authGroup.POST("/logout", protected, authH.Logout)
		}
	}

	// Image endpoints
	images := r.Group("/images")
	{
		images.POST("", protected, imageH.Upload)
		images.GET("/user", protected, imageH.ListOwned)
		images.GET("", imageH.ListAll)
		images.GET("/:id", imageH.GetOne)
		images.DELETE("/:id", protected, imageH.Delete)
	}
}
