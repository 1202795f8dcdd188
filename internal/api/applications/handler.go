package applications

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"events-app/database"
	"events-app/internal/app/http/middleware"
	domapps "events-app/internal/domain/applications"
	domevents "events-app/internal/domain/events"
	"events-app/internal/storage"
)

type Handler struct {
	store *storage.Store
}

func NewHandler(store *storage.Store) *Handler {
	return &Handler{store: store}
}

type ApplyRequest struct {
	BodyID     uint   `json:"body_id" binding:"required"`
	Motivation string `json:"motivation"`
}

type StatusRequest struct {
	Status domapps.Status `json:"status" binding:"required"`
}

type FlagRequest struct {
	Value *bool `json:"value" binding:"required"`
}

func (h *Handler) loadEvent(c *gin.Context) (domevents.Snapshot, domevents.Permissions, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event id"})
		return domevents.Snapshot{}, domevents.Permissions{}, false
	}

	snap, err := h.store.LoadSnapshot(uint(id))
	if err != nil {
		if errors.Is(err, domevents.ErrEventNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load event"})
		}
		return domevents.Snapshot{}, domevents.Permissions{}, false
	}

	identity := middleware.CurrentIdentity(c)
	perms := domevents.ComputePermissions(identity, snap)
	if !perms.Can.View {
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		return domevents.Snapshot{}, domevents.Permissions{}, false
	}
	return snap, perms, true
}

func (h *Handler) loadApplication(c *gin.Context, snap domevents.Snapshot) (domapps.Application, bool) {
	appID, err := strconv.ParseUint(c.Param("appID"), 10, 32)
	if err != nil || appID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid application id"})
		return domapps.Application{}, false
	}

	var app domapps.Application
	if err := database.DB.Where("id = ? AND event_id = ?", appID, snap.EventID).First(&app).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Application not found"})
		return domapps.Application{}, false
	}
	return app, true
}

// POST /events/:id/applications
func (h *Handler) Apply(c *gin.Context) {
	var req ApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	snap, perms, ok := h.loadEvent(c)
	if !ok {
		return
	}
	if !perms.Can.Apply {
		c.JSON(http.StatusForbidden, gin.H{"error": "You may not apply to this event"})
		return
	}

	identity := middleware.CurrentIdentity(c)
	if !identity.MemberOf(req.BodyID) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "You can only apply through a body you belong to"})
		return
	}

	app := domapps.Application{
		EventID:    snap.EventID,
		UserID:     identity.ID,
		BodyID:     req.BodyID,
		Status:     domapps.StatusRequesting,
		Motivation: req.Motivation,
	}
	if err := database.DB.Create(&app).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store application"})
		return
	}
	c.JSON(http.StatusCreated, app)
}

// GET /events/:id/applications
func (h *Handler) List(c *gin.Context) {
	snap, perms, ok := h.loadEvent(c)
	if !ok {
		return
	}
	if !perms.Can.ViewApplications {
		c.JSON(http.StatusForbidden, gin.H{"error": "You may not see the applications"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"applications": snap.Applications})
}

// GET /events/:id/applications/mine
func (h *Handler) Mine(c *gin.Context) {
	snap, _, ok := h.loadEvent(c)
	if !ok {
		return
	}
	identity := middleware.CurrentIdentity(c)
	app, found := snap.Context().ApplicationFor(identity.ID)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "You have not applied"})
		return
	}
	c.JSON(http.StatusOK, app)
}

// PUT /events/:id/applications/:appID/status
func (h *Handler) SetStatus(c *gin.Context) {
	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	snap, perms, ok := h.loadEvent(c)
	if !ok {
		return
	}
	if !perms.Can.ApproveParticipants {
		c.JSON(http.StatusForbidden, gin.H{"error": "You may not approve participants"})
		return
	}
	app, ok := h.loadApplication(c, snap)
	if !ok {
		return
	}

	if err := domapps.CanSetStatus(app, req.Status, snap.ApplicationOpen); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	if err := database.DB.Model(&app).Update("status", req.Status).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update application"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": true})
}

// PUT /events/:id/applications/:appID/confirmed
func (h *Handler) SetConfirmed(c *gin.Context) {
	h.setFlag(c, "confirmed")
}

// PUT /events/:id/applications/:appID/attended
func (h *Handler) SetAttended(c *gin.Context) {
	h.setFlag(c, "attended")
}

func (h *Handler) setFlag(c *gin.Context, flag string) {
	var req FlagRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Value == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Body must carry a boolean value"})
		return
	}

	snap, perms, ok := h.loadEvent(c)
	if !ok {
		return
	}
	if !perms.Can.ApproveParticipants {
		c.JSON(http.StatusForbidden, gin.H{"error": "You may not manage participants"})
		return
	}
	app, ok := h.loadApplication(c, snap)
	if !ok {
		return
	}

	var guardErr error
	if flag == "confirmed" {
		guardErr = domapps.CanSetConfirmed(app, *req.Value)
	} else {
		guardErr = domapps.CanSetAttended(app, *req.Value)
	}
	if guardErr != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": guardErr.Error()})
		return
	}

	if err := database.DB.Model(&app).Update(flag, *req.Value).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update application"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": true})
}
