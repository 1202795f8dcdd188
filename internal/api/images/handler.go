package images

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"events-app/config"
	"events-app/database"
	"events-app/internal/app/http/middleware"
	domevents "events-app/internal/domain/events"
	"events-app/internal/domain/media"
)

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// snapshotLoader is the slice of the persistence surface this handler needs.
type snapshotLoader interface {
	LoadSnapshot(eventID uint) (domevents.Snapshot, error)
}

type Handler struct {
	store snapshotLoader
}

func NewHandler(store snapshotLoader) *Handler {
	return &Handler{store: store}
}

// UploadHeadImage POST /events/:id/image
func (h *Handler) UploadHeadImage(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event id"})
		return
	}

	identity := middleware.CurrentIdentity(c)
	snap, err := h.store.LoadSnapshot(uint(id))
	if err != nil {
		if errors.Is(err, domevents.ErrEventNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load event"})
		}
		return
	}
	perms := domevents.ComputePermissions(identity, snap)
	if !perms.Can.View {
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		return
	}
	if !perms.Can.EditDetails {
		c.JSON(http.StatusForbidden, gin.H{"error": "You may not edit this event"})
		return
	}

	file, err := c.FormFile("head_image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "head_image file is required"})
		return
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedExtensions[ext] {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Unsupported image type " + ext})
		return
	}

	if err := os.MkdirAll(config.UPLOAD_DIR, 0o755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to prepare upload directory"})
		return
	}

	filename := fmt.Sprintf("event-%d-head%s", snap.EventID, ext)
	dest := filepath.Join(config.UPLOAD_DIR, filename)
	if err := c.SaveUploadedFile(file, dest); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store image"})
		return
	}

	img := media.Image{OriginalPath: dest, UploadedBy: identity.ID}
	if err := database.DB.Create(&img).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store image record"})
		return
	}
	if err := database.DB.Model(&domevents.Event{}).Where("id = ?", snap.EventID).
		Update("head_image_id", img.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to attach image"})
		return
	}

	c.JSON(http.StatusCreated, img)
}
