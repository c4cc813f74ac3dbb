package main

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/thereayou/gallery-lite/internal/database"
	"github.com/thereayou/gallery-lite/internal/filestore"
	"github.com/thereayou/gallery-lite/internal/gateway"
	"github.com/thereayou/gallery-lite/internal/handlers"
	"github.com/thereayou/gallery-lite/internal/mirror"
	"github.com/thereayou/gallery-lite/pkg/auth"
)

type Server struct {
	Router     *gin.Engine
	DB         *database.Database
	Redis      *redis.Client
	JWTManager *auth.JWTManager
	Gateway    *gateway.Gateway
	Log        zerolog.Logger
}

func NewServer() *Server {
	// .env.local wins over .env; absent files fall through to process env
	if err := godotenv.Load(".env.local"); err != nil {
		_ = godotenv.Load()
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	dbConn := &database.Database{}
	if err := dbConn.Connect(); err != nil {
		logger.Warn().Err(err).Msg("starting without database connection, serving from local snapshots")
	} else {
		logger.Info().Msg("database connection established")
	}

	dataDir := envOr("DATA_DIR", ".")
	userStore, err := mirror.NewUserStore(filepath.Join(dataDir, "mirror-users.json"), logger)
	if err != nil {
		logger.Warn().Err(err).Msg("could not load user snapshot, starting empty")
	}
	imageStore, err := mirror.NewImageStore(filepath.Join(dataDir, "mirror-images.json"), logger)
	if err != nil {
		logger.Warn().Err(err).Msg("could not load image snapshot, starting empty")
	}

	files, err := filestore.New(envOr("UPLOAD_DIR", "uploads"))
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot create upload directory")
	}

	var rdb *redis.Client
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		redisOpts, err := redis.ParseURL(redisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("invalid REDIS_URL")
		}
		rdb = redis.NewClient(redisOpts)
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			logger.Fatal().Err(err).Msg("redis connect failed")
		}
	}

	jwtMgr := auth.NewJWTManager(os.Getenv("JWT_SECRET"), tokenTTL())

	gw := gateway.New(dbConn, userStore, imageStore, logger)
	authH := handlers.NewAuthHandler(gw, jwtMgr, rdb)
	imageH := handlers.NewImageHandler(gw, files, maxFileSize())

	router := gin.Default()
	router.Use(cors.New(corsConfig()))
	APIEndpoints(router, authH, imageH, jwtMgr, rdb, files.Dir())

	return &Server{
		Router:     router,
		DB:         dbConn,
		Redis:      rdb,
		JWTManager: jwtMgr,
		Gateway:    gw,
		Log:        logger,
	}
}

func (s *Server) Run() {
	port := envOr("PORT", "8080")
	s.Log.Info().Str("port", port).Msg("server starting")
	if err := s.Router.Run(":" + port); err != nil {
		s.Log.Fatal().Err(err).Msg("server run error")
	}
}

func corsConfig() cors.Config {
	cfg := cors.DefaultConfig()
	origins := envOr("CORS_ORIGINS", "http://localhost:5173,http://127.0.0.1:5173")
	cfg.AllowOrigins = strings.Split(origins, ",")
	cfg.AllowMethods = []string{"GET", "POST", "PUT", "DELETE"}
	cfg.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	cfg.AllowCredentials = true
	return cfg
}

func tokenTTL() time.Duration {
	if raw := os.Getenv("JWT_TTL"); raw != "" {
		if ttl, err := time.ParseDuration(raw); err == nil {
			return ttl
		}
	}
	return 24 * time.Hour
}

func maxFileSize() int64 {
	if raw := os.Getenv("MAX_FILE_SIZE"); raw != "" {
		if size, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return size
		}
	}
	return 5 * 1024 * 1024
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
