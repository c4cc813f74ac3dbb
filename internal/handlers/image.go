package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/thereayou/gallery-lite/internal/common"
	"github.com/thereayou/gallery-lite/internal/filestore"
	"github.com/thereayou/gallery-lite/internal/gateway"
	"github.com/thereayou/gallery-lite/internal/handlers/dto"
	"github.com/thereayou/gallery-lite/internal/middleware"
	"github.com/thereayou/gallery-lite/internal/models"
)

type ImageHandler struct {
	gw          *gateway.Gateway
	files       *filestore.Store
	maxFileSize int64
}

func NewImageHandler(gw *gateway.Gateway, files *filestore.Store, maxFileSize int64) *ImageHandler {
	return &ImageHandler{gw: gw, files: files, maxFileSize: maxFileSize}
}

// Upload stores the binary before the metadata write so a metadata record can
// never point at a missing file. The inverse (an orphaned binary when the
// metadata write fails) is tolerated.
func (h *ImageHandler) Upload(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uint)

	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "no file uploaded"})
		return
	}

	var form dto.UploadForm
	if err := c.ShouldBind(&form); err != nil || form.Title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "image title is required"})
		return
	}

	fileType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(fileType, "image/") {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "only images can be uploaded"})
		return
	}

	if h.maxFileSize > 0 && file.Size > h.maxFileSize {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": fmt.Sprintf("file is too large, maximum size is %dMB", h.maxFileSize/(1024*1024)),
		})
		return
	}

	name, err := h.files.Save(file)
	if err != nil {
		serverError(c, err)
		return
	}

	image := &models.Image{
		UserID:      userID,
		Title:       form.Title,
		Description: form.Description,
		FilePath:    name,
		FileType:    fileType,
		FileSize:    file.Size,
	}

	out, err := h.gw.CreateImage(image)
	if err != nil {
		serverError(c, err)
		return
	}

	c.JSON(http.StatusCreated, respond(out, gin.H{
		"success": true,
		"message": "image uploaded successfully",
		"image":   out.Value,
	}))
}

func (h *ImageHandler) ListOwned(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uint)

	out, err := h.gw.ImagesByOwner(userID)
	if err != nil {
		serverError(c, err)
		return
	}

	c.JSON(http.StatusOK, respond(out, gin.H{
		"success": true,
		"images":  emptyIfNil(out.Value),
	}))
}

func (h *ImageHandler) ListAll(c *gin.Context) {
	out, err := h.gw.AllImages()
	if err != nil {
		serverError(c, err)
		return
	}

	c.JSON(http.StatusOK, respond(out, gin.H{
		"success": true,
		"images":  emptyIfNil(out.Value),
	}))
}

func (h *ImageHandler) GetOne(c *gin.Context) {
	id, ok := imageID(c)
	if !ok {
		return
	}

	out, err := h.gw.ImageByID(id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "image not found"})
			return
		}
		serverError(c, err)
		return
	}

	c.JSON(http.StatusOK, respond(out, gin.H{
		"success": true,
		"image":   out.Value,
	}))
}

// Delete removes the metadata record first, then the binary. A binary already
// missing from disk is not an error.
func (h *ImageHandler) Delete(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uint)

	id, ok := imageID(c)
	if !ok {
		return
	}

	out, err := h.gw.DeleteImage(userID, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "image not found"})
			return
		}
		serverError(c, err)
		return
	}

	if err := h.files.Remove(out.Value.FilePath); err != nil {
		serverError(c, err)
		return
	}

	c.JSON(http.StatusOK, respond(out, gin.H{
		"success": true,
		"message": "image deleted successfully",
	}))
}

func imageID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "image not found"})
		return 0, false
	}
	return uint(id), true
}

func emptyIfNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
