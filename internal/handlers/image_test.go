package handlers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uploadTestImage(t *testing.T, env *testEnv, token, title string) map[string]any {
	t.Helper()
	body, contentType := imageUpload(t, "photo.jpg", "image/jpeg", []byte("jpeg-bytes"), map[string]string{
		"title":       title,
		"description": "a test image",
	})
	w := env.doMultipart(t, body, contentType, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return parseBody(t, w)
}

func TestUploadListGetDelete(t *testing.T) {
	env := newEnv(t)
	token, _ := env.register(t, "alice", "a@x.com", "pw123456")

	body := uploadTestImage(t, env, token, "sunset")
	image := body["image"].(map[string]any)
	storedName := image["file_path"].(string)
	assert.NotEmpty(t, storedName)
	assert.NotEqual(t, "photo.jpg", storedName)
	assert.FileExists(t, filepath.Join(env.uploadDir, storedName))

	// owner listing
	owned := env.doJSON(t, http.MethodGet, "/images/user", nil, token)
	require.Equal(t, http.StatusOK, owned.Code)
	images := parseBody(t, owned)["images"].([]any)
	require.Len(t, images, 1)
	assert.Equal(t, "sunset", images[0].(map[string]any)["title"])

	// public listing carries the owner's username
	public := env.doJSON(t, http.MethodGet, "/images", nil, "")
	require.Equal(t, http.StatusOK, public.Code)
	publicImages := parseBody(t, public)["images"].([]any)
	require.Len(t, publicImages, 1)
	assert.Equal(t, "alice", publicImages[0].(map[string]any)["username"])

	// single fetch, public
	id := int(image["id"].(float64))
	one := env.doJSON(t, http.MethodGet, fmt.Sprintf("/images/%d", id), nil, "")
	require.Equal(t, http.StatusOK, one.Code)
	assert.Equal(t, "alice", parseBody(t, one)["image"].(map[string]any)["username"])

	// delete removes metadata first, then the binary
	del := env.doJSON(t, http.MethodDelete, fmt.Sprintf("/images/%d", id), nil, token)
	require.Equal(t, http.StatusOK, del.Code, del.Body.String())
	assert.NoFileExists(t, filepath.Join(env.uploadDir, storedName))

	gone := env.doJSON(t, http.MethodGet, fmt.Sprintf("/images/%d", id), nil, "")
	assert.Equal(t, http.StatusNotFound, gone.Code)
}

func TestUploadValidation(t *testing.T) {
	env := newEnv(t)
	token, _ := env.register(t, "alice", "a@x.com", "pw123456")

	// no file
	body, contentType := imageUpload(t, "", "", nil, map[string]string{"title": "sunset"})
	w := env.doMultipart(t, body, contentType, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "no file uploaded", parseBody(t, w)["message"])

	// no title
	body, contentType = imageUpload(t, "photo.jpg", "image/jpeg", []byte("x"), nil)
	w = env.doMultipart(t, body, contentType, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "image title is required", parseBody(t, w)["message"])

	// not an image
	body, contentType = imageUpload(t, "notes.txt", "text/plain", []byte("hello"), map[string]string{"title": "notes"})
	w = env.doMultipart(t, body, contentType, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// no token
	body, contentType = imageUpload(t, "photo.jpg", "image/jpeg", []byte("x"), map[string]string{"title": "sunset"})
	w = env.doMultipart(t, body, contentType, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUploadRejectsOversizedFile(t *testing.T) {
	env := buildEnv(t, envConfig{dataDir: t.TempDir(), uploadDir: t.TempDir(), maxFileSize: 8})
	token, _ := env.register(t, "alice", "a@x.com", "pw123456")

	body, contentType := imageUpload(t, "big.jpg", "image/jpeg", []byte("more-than-eight-bytes"), map[string]string{"title": "big"})
	w := env.doMultipart(t, body, contentType, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteByNonOwnerLooksLikeNotFound(t *testing.T) {
	env := newEnv(t)
	aliceToken, _ := env.register(t, "alice", "a@x.com", "pw123456")
	bobToken, _ := env.register(t, "bob", "b@x.com", "pw123456")

	body := uploadTestImage(t, env, aliceToken, "private")
	id := int(body["image"].(map[string]any)["id"].(float64))

	w := env.doJSON(t, http.MethodDelete, fmt.Sprintf("/images/%d", id), nil, bobToken)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "image not found", parseBody(t, w)["message"])

	// still there for the owner
	one := env.doJSON(t, http.MethodGet, fmt.Sprintf("/images/%d", id), nil, "")
	assert.Equal(t, http.StatusOK, one.Code)
}

func TestGetUnknownImage(t *testing.T) {
	env := newEnv(t)

	assert.Equal(t, http.StatusNotFound, env.doJSON(t, http.MethodGet, "/images/99", nil, "").Code)
	assert.Equal(t, http.StatusNotFound, env.doJSON(t, http.MethodGet, "/images/abc", nil, "").Code)
}

// Upload, list, and delete stay self-consistent when every call runs against
// the mirror.
func TestImageLifecycleDuringOutage(t *testing.T) {
	env := newEnv(t)
	token, userID := env.register(t, "alice", "a@x.com", "pw123456")
	require.NoError(t, env.sqlDB.Close())

	body := uploadTestImage(t, env, token, "offline")
	assert.NotEmpty(t, body["notice"])
	image := body["image"].(map[string]any)
	storedName := image["file_path"].(string)
	assert.Equal(t, float64(userID), image["user_id"])
	assert.FileExists(t, filepath.Join(env.uploadDir, storedName))

	owned := env.doJSON(t, http.MethodGet, "/images/user", nil, token)
	require.Equal(t, http.StatusOK, owned.Code)
	ownedBody := parseBody(t, owned)
	assert.NotEmpty(t, ownedBody["notice"])
	images := ownedBody["images"].([]any)
	require.Len(t, images, 1)

	id := int(image["id"].(float64))
	del := env.doJSON(t, http.MethodDelete, fmt.Sprintf("/images/%d", id), nil, token)
	require.Equal(t, http.StatusOK, del.Code, del.Body.String())
	assert.NotEmpty(t, parseBody(t, del)["notice"])
	assert.NoFileExists(t, filepath.Join(env.uploadDir, storedName))

	owned = env.doJSON(t, http.MethodGet, "/images/user", nil, token)
	assert.Empty(t, parseBody(t, owned)["images"])

	// image snapshot reflects the delete
	data, err := os.ReadFile(filepath.Join(env.dataDir, "mirror-images.json"))
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(data))
}

func TestPublicListDuringOutageAnnotatesUsernames(t *testing.T) {
	env := newEnv(t)
	token, _ := env.register(t, "alice", "a@x.com", "pw123456")
	require.NoError(t, env.sqlDB.Close())

	// alice exists only in the primary store, the mirror cannot resolve her
	uploadTestImage(t, env, token, "offline")

	public := env.doJSON(t, http.MethodGet, "/images", nil, "")
	require.Equal(t, http.StatusOK, public.Code)
	body := parseBody(t, public)
	assert.NotEmpty(t, body["notice"])
	images := body["images"].([]any)
	require.Len(t, images, 1)
	assert.Equal(t, "unknown", images[0].(map[string]any)["username"])
}
