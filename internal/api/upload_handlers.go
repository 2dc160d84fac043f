package api

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"agroland-backend/config"
	"agroland-backend/internal/models"
	"agroland-backend/internal/services"
	"agroland-backend/internal/utils"
)

// UploadHandlers stores listing images and avatars on local disk
type UploadHandlers struct {
	uploadPath  string
	maxFileSize int64
	userService *services.UserService
}

// NewUploadHandlers creates new upload handlers
func NewUploadHandlers(cfg *config.Config, userService *services.UserService) *UploadHandlers {
	return &UploadHandlers{
		uploadPath:  cfg.UploadPath,
		maxFileSize: cfg.MaxFileSize,
		userService: userService,
	}
}

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

type storedImage struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
}

// saveImage validates and writes the uploaded file, responding with an
// error itself on failure. A nil return means the response is already sent.
func (h *UploadHandlers) saveImage(c *gin.Context, field, subdir, prefix string) *storedImage {
	file, header, err := c.Request.FormFile(field)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "No " + field + " file provided",
		})
		return nil
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if _, ok := imageExtensions[contentType]; !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid file type. Only JPEG, PNG and WebP images are allowed",
		})
		return nil
	}

	if header.Size > h.maxFileSize {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   fmt.Sprintf("Image too large. Maximum size is %dMB", h.maxFileSize/(1024*1024)),
		})
		return nil
	}

	uploadDir := filepath.Join(h.uploadPath, subdir)
	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to create upload directory",
		})
		return nil
	}

	ext := filepath.Ext(header.Filename)
	if ext == "" {
		ext = imageExtensions[contentType]
	}

	// Keep a slug of the original name in the stored filename so the
	// uploads directory stays browsable
	base := utils.Slugify(strings.TrimSuffix(filepath.Base(header.Filename), ext))
	if base == "" {
		base = prefix
	}
	filename := fmt.Sprintf("%s_%s_%d%s", base, uuid.New().String(), time.Now().Unix(), ext)
	filePath := filepath.Join(uploadDir, filename)

	dst, err := os.Create(filePath)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to create file",
		})
		return nil
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to save image",
		})
		return nil
	}

	return &storedImage{
		URL:      fmt.Sprintf("/uploads/%s/%s", subdir, filename),
		Filename: filename,
		Size:     header.Size,
	}
}

// UploadImage stores a listing image
func (h *UploadHandlers) UploadImage(c *gin.Context) {
	stored := h.saveImage(c, "image", "lands", "land")
	if stored == nil {
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Image uploaded successfully",
		"data":    stored,
	})
}

// UploadAvatar stores a profile picture and records it on the user
func (h *UploadHandlers) UploadAvatar(c *gin.Context) {
	stored := h.saveImage(c, "avatar", "avatars", "avatar")
	if stored == nil {
		return
	}

	userID := c.GetString("userID")
	user, err := h.userService.UpdateUser(userID, &models.UserProfileUpdate{
		Avatar: &stored.URL,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to update avatar",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Avatar updated successfully",
		"data": gin.H{
			"url":      stored.URL,
			"filename": stored.Filename,
			"size":     stored.Size,
			"user":     user,
		},
	})
}
