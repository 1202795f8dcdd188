package lifecycles

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"events-app/database"
	"events-app/internal/domain/lifecycle"
)

// ListLifecycles GET /lifecycles
func ListLifecycles(c *gin.Context) {
	var rows []lifecycle.Lifecycle
	if err := database.DB.Order("event_type ASC").Find(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load lifecycles"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"lifecycles": rows})
}

// GetLifecycle GET /lifecycles/:eventType
func GetLifecycle(c *gin.Context) {
	var lc lifecycle.Lifecycle
	err := database.DB.Where("event_type = ?", c.Param("eventType")).First(&lc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Lifecycle not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load lifecycle"})
		}
		return
	}
	c.JSON(http.StatusOK, lc)
}

// CreateLifecycle POST /lifecycles (superadmin)
func CreateLifecycle(c *gin.Context) {
	var lc lifecycle.Lifecycle
	if err := c.ShouldBindJSON(&lc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	lc.ID = 0

	if errs := lifecycle.Validate(lc); len(errs) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": errs})
		return
	}

	if err := database.DB.Create(&lc).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store lifecycle"})
		return
	}
	c.JSON(http.StatusCreated, lc)
}

// UpdateLifecycle PUT /lifecycles/:id (superadmin)
func UpdateLifecycle(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid lifecycle id"})
		return
	}

	var existing lifecycle.Lifecycle
	if err := database.DB.First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Lifecycle not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load lifecycle"})
		}
		return
	}

	var lc lifecycle.Lifecycle
	if err := c.ShouldBindJSON(&lc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	lc.ID = existing.ID
	lc.EventType = existing.EventType

	if errs := lifecycle.Validate(lc); len(errs) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": errs})
		return
	}

	if err := database.DB.Save(&lc).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update lifecycle"})
		return
	}
	c.JSON(http.StatusOK, lc)
}

// DeleteLifecycle DELETE /lifecycles/:id (superadmin)
func DeleteLifecycle(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid lifecycle id"})
		return
	}

	if err := database.DB.Delete(&lifecycle.Lifecycle{}, id).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete lifecycle"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
