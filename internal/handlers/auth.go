package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"golang.org/x/crypto/bcrypt"

	"github.com/thereayou/gallery-lite/internal/common"
	"github.com/thereayou/gallery-lite/internal/gateway"
	"github.com/thereayou/gallery-lite/internal/handlers/dto"
	"github.com/thereayou/gallery-lite/internal/middleware"
	"github.com/thereayou/gallery-lite/internal/models"
	"github.com/thereayou/gallery-lite/pkg/auth"
)

type AuthHandler struct {
	gw         *gateway.Gateway
	jwtManager *auth.JWTManager
	redis      *redis.Client
}

func NewAuthHandler(gw *gateway.Gateway, jwtMgr *auth.JWTManager, rdb *redis.Client) *AuthHandler {
	return &AuthHandler{gw: gw, jwtManager: jwtMgr, redis: rdb}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "all fields are required: username, email, password",
		})
		return
	}

	if _, err := h.gw.FindUserByEmail(req.Email); err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "email already in use"})
		return
	} else if !errors.Is(err, common.ErrNotFound) {
		serverError(c, err)
		return
	}

	if _, err := h.gw.FindUserByUsername(req.Username); err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "username already taken"})
		return
	} else if !errors.Is(err, common.ErrNotFound) {
		serverError(c, err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		serverError(c, err)
		return
	}

	user := &models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: string(hash),
	}

	out, err := h.gw.CreateUser(user)
	if err != nil {
		serverError(c, err)
		return
	}

	token, err := h.jwtManager.Generate(out.Value.ID)
	if err != nil {
		serverError(c, err)
		return
	}

	c.JSON(http.StatusCreated, respond(out, gin.H{
		"success": true,
		"user":    out.Value,
		"token":   token,
	}))
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "email and password are required"})
		return
	}

	out, err := h.gw.FindUserByEmail(req.Email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			invalidCredentials(c)
			return
		}
		serverError(c, err)
		return
	}

	// Identical message for unknown email and wrong password, so the response
	// does not reveal which one failed.
	if bcrypt.CompareHashAndPassword([]byte(out.Value.Password), []byte(req.Password)) != nil {
		invalidCredentials(c)
		return
	}

	token, err := h.jwtManager.Generate(out.Value.ID)
	if err != nil {
		serverError(c, err)
		return
	}

	c.JSON(http.StatusOK, respond(out, gin.H{
		"success": true,
		"user":    out.Value,
		"token":   token,
	}))
}

func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uint)

	out, err := h.gw.GetUserByID(userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "user not found"})
			return
		}
		serverError(c, err)
		return
	}

	c.JSON(http.StatusOK, respond(out, gin.H{
		"success": true,
		"user":    out.Value,
	}))
}

// Logout blacklists the presented token in redis until it expires. The route
// is only registered when redis is configured.
func (h *AuthHandler) Logout(c *gin.Context) {
	rawToken, err := auth.ExtractTokenFromHeader(c.Request)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	exp, err := h.jwtManager.Expiry(rawToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "invalid token"})
		return
	}

	h.redis.Set(context.Background(), "blacklist:"+rawToken, 1, time.Until(exp))

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "logged out"})
}

func invalidCredentials(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "invalid email or password"})
}

func serverError(c *gin.Context, err error) {
	c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "server error: " + err.Error()})
}

// respond attaches the degraded-mode notice to a success body when the
// operation was served from the mirror.
func respond[T any](out gateway.Outcome[T], body gin.H) gin.H {
	if out.Degraded {
		body["notice"] = out.Notice
	}
	return body
}
