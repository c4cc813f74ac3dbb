package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"github.com/thereayou/gallery-lite/pkg/auth"
)

const UserIDKey = "userID"

// AuthMiddleware verifies the bearer token and stores the bound user id in
// the request context. redisClient may be nil, in which case the blacklist
// check is skipped.
func AuthMiddleware(jwtManager *auth.JWTManager, redisClient *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := auth.ExtractTokenFromHeader(c.Request)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "no token provided"})
			c.Abort()
			return
		}

		if redisClient != nil {
			exists, err := redisClient.Exists(context.Background(), "blacklist:"+token).Result()
			if err != nil || exists > 0 {
				c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "token is no longer valid"})
				c.Abort()
				return
			}
		}

		userID, err := jwtManager.Verify(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "invalid or expired token"})
			c.Abort()
			return
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}
