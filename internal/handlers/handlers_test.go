package handlers

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/thereayou/gallery-lite/internal/database"
	"github.com/thereayou/gallery-lite/internal/filestore"
	"github.com/thereayou/gallery-lite/internal/gateway"
	"github.com/thereayou/gallery-lite/internal/middleware"
	"github.com/thereayou/gallery-lite/internal/mirror"
	"github.com/thereayou/gallery-lite/internal/models"
	"github.com/thereayou/gallery-lite/pkg/auth"
)

type envConfig struct {
	dataDir     string
	uploadDir   string
	maxFileSize int64
}

type testEnv struct {
	router    *gin.Engine
	sqlDB     *sql.DB
	dataDir   string
	uploadDir string
	files     *filestore.Store
}

// buildEnv wires the full handler stack the way cmd/server does, on sqlite.
// Closing env.sqlDB simulates a database outage; reusing dataDir across two
// envs simulates a process restart.
func buildEnv(t *testing.T, cfg envConfig) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "gallery.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(&models.User{}, &models.Image{}))
	sqlDB, err := gdb.DB()
	require.NoError(t, err)

	users, err := mirror.NewUserStore(filepath.Join(cfg.dataDir, "mirror-users.json"), zerolog.Nop())
	require.NoError(t, err)
	images, err := mirror.NewImageStore(filepath.Join(cfg.dataDir, "mirror-images.json"), zerolog.Nop())
	require.NoError(t, err)

	files, err := filestore.New(cfg.uploadDir)
	require.NoError(t, err)

	if cfg.maxFileSize == 0 {
		cfg.maxFileSize = 5 * 1024 * 1024
	}

	jwtMgr := auth.NewJWTManager("test-secret", time.Hour)
	gw := gateway.New(database.NewDatabase(gdb), users, images, zerolog.Nop())
	authH := NewAuthHandler(gw, jwtMgr, nil)
	imageH := NewImageHandler(gw, files, cfg.maxFileSize)

	protected := middleware.AuthMiddleware(jwtMgr, nil)

	r := gin.New()
	authGroup := r.Group("/auth")
	authGroup.POST("/register", authH.Register)
	authGroup.POST("/login", authH.Login)
	authGroup.GET("/profile", protected, authH.GetProfile)

	imageGroup := r.Group("/images")
	imageGroup.POST("", protected, imageH.Upload)
	imageGroup.GET("/user", protected, imageH.ListOwned)
	imageGroup.GET("", imageH.ListAll)
	imageGroup.GET("/:id", imageH.GetOne)
	imageGroup.DELETE("/:id", protected, imageH.Delete)

	return &testEnv{
		router:    r,
		sqlDB:     sqlDB,
		dataDir:   cfg.dataDir,
		uploadDir: cfg.uploadDir,
		files:     files,
	}
}

func newEnv(t *testing.T) *testEnv {
	return buildEnv(t, envConfig{dataDir: t.TempDir(), uploadDir: t.TempDir()})
}

func (e *testEnv) doJSON(t *testing.T, method, path string, payload any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var body *bytes.Buffer
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewBuffer(data)
	} else {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) doMultipart(t *testing.T, body *bytes.Buffer, contentType, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/images", body)
	req.Header.Set("Content-Type", contentType)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func parseBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func (e *testEnv) register(t *testing.T, username, email, password string) (token string, userID uint) {
	t.Helper()
	w := e.doJSON(t, http.MethodPost, "/auth/register", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := parseBody(t, w)
	user := body["user"].(map[string]any)
	return body["token"].(string), uint(user["id"].(float64))
}

// imageUpload builds a multipart body with an image part and optional fields.
func imageUpload(t *testing.T, filename, contentType string, data []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	if filename != "" {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename=%q`, filename))
		h.Set("Content-Type", contentType)
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}
