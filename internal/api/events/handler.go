package events

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"events-app/database"
	"events-app/internal/app/http/middleware"
	"events-app/internal/domain/access"
	domevents "events-app/internal/domain/events"
	"events-app/internal/infra/metrics"
	"events-app/internal/scheduler"
	"events-app/internal/storage"
)

type Handler struct {
	store     *storage.Store
	service   *domevents.Service
	scheduler *scheduler.DeadlineScheduler
}

func NewHandler(store *storage.Store, service *domevents.Service, sched *scheduler.DeadlineScheduler) *Handler {
	return &Handler{store: store, service: service, scheduler: sched}
}

func eventID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event id"})
		return 0, false
	}
	return uint(id), true
}

// loadVisible fetches the snapshot and permissions, hiding events the caller
// may not see behind a 404.
func (h *Handler) loadVisible(c *gin.Context, identity access.Identity) (domevents.Snapshot, domevents.Permissions, bool) {
	id, ok := eventID(c)
	if !ok {
		return domevents.Snapshot{}, domevents.Permissions{}, false
	}

	snap, err := h.store.LoadSnapshot(id)
	if err != nil {
		if errors.Is(err, domevents.ErrEventNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load event"})
		}
		return domevents.Snapshot{}, domevents.Permissions{}, false
	}

	perms := domevents.ComputePermissions(identity, snap)
	if !perms.Can.View {
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		return domevents.Snapshot{}, domevents.Permissions{}, false
	}
	return snap, perms, true
}

// GET /events
func (h *Handler) List(c *gin.Context) {
	identity := middleware.CurrentIdentity(c)

	query := database.DB.Order("created_at DESC")
	if eventType := c.Query("type"); eventType != "" {
		query = query.Where("event_type = ?", eventType)
	}

	var rows []domevents.Event
	if err := query.Find(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load events"})
		return
	}

	out := make([]EventResponse, 0, len(rows))
	for _, ev := range rows {
		snap, err := h.store.LoadSnapshot(ev.ID)
		if err != nil {
			continue
		}
		perms := domevents.ComputePermissions(identity, snap)
		if !perms.Can.View {
			continue
		}
		out = append(out, EventResponse{Event: ev})
	}
	c.JSON(http.StatusOK, gin.H{"events": out})
}

// POST /events
func (h *Handler) Create(c *gin.Context) {
	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	identity := middleware.CurrentIdentity(c)

	lc, err := h.store.LoadLifecycle(req.EventType)
	if err != nil {
		if errors.Is(err, domevents.ErrLifecycleNotFound) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "No lifecycle for event type " + req.EventType})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load lifecycle"})
		}
		return
	}

	creation, ok := lc.CreationTransition()
	if !ok {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Lifecycle has no creation transition"})
		return
	}
	if !access.Matches(identity, creation.AllowedFor, nil) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You may not create events of this type"})
		return
	}

	ev := domevents.Event{
		Name:             req.Name,
		Description:      req.Description,
		EventType:        req.EventType,
		Status:           lc.InitialStatus,
		StartsAt:         req.StartsAt,
		EndsAt:           req.EndsAt,
		MaxParticipants:  req.MaxParticipants,
		Organizers:       domevents.UintList{identity.ID},
		OrganizingBodies: domevents.UintList(req.OrganizingBodies),
	}
	if err := database.DB.Create(&ev).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create event"})
		return
	}
	c.JSON(http.StatusCreated, EventResponse{Event: ev})
}

// GET /events/:id
func (h *Handler) Get(c *gin.Context) {
	identity := middleware.CurrentIdentity(c)
	snap, perms, ok := h.loadVisible(c, identity)
	if !ok {
		return
	}

	var ev domevents.Event
	if err := database.DB.Preload("HeadImage").First(&ev, snap.EventID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load event"})
		return
	}
	c.JSON(http.StatusOK, EventResponse{Event: ev, Rights: &perms})
}

// PUT /events/:id
func (h *Handler) Update(c *gin.Context) {
	var req UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	identity := middleware.CurrentIdentity(c)
	snap, perms, ok := h.loadVisible(c, identity)
	if !ok {
		return
	}
	if !perms.Can.EditDetails {
		c.JSON(http.StatusForbidden, gin.H{"error": "You may not edit this event"})
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.StartsAt != nil {
		updates["starts_at"] = *req.StartsAt
	}
	if req.EndsAt != nil {
		updates["ends_at"] = *req.EndsAt
	}
	if req.MaxParticipants != nil {
		updates["max_participants"] = *req.MaxParticipants
	}
	if len(updates) == 0 {
		c.JSON(http.StatusOK, gin.H{"updated": false})
		return
	}

	if err := database.DB.Model(&domevents.Event{}).Where("id = ?", snap.EventID).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update event"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": true})
}

// PUT /events/:id/organizers
func (h *Handler) UpdateOrganizers(c *gin.Context) {
	var req UpdateOrganizersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.Organizers) == 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "An event needs at least one organizer"})
		return
	}

	identity := middleware.CurrentIdentity(c)
	snap, perms, ok := h.loadVisible(c, identity)
	if !ok {
		return
	}
	if !perms.Can.EditOrganizers {
		c.JSON(http.StatusForbidden, gin.H{"error": "You may not edit the organizers"})
		return
	}

	updates := map[string]interface{}{"organizers": domevents.UintList(req.Organizers)}
	if req.OrganizingBodies != nil {
		updates["organizing_bodies"] = domevents.UintList(req.OrganizingBodies)
	}
	if err := database.DB.Model(&domevents.Event{}).Where("id = ?", snap.EventID).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update organizers"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": true})
}

// DELETE /events/:id
func (h *Handler) Delete(c *gin.Context) {
	identity := middleware.CurrentIdentity(c)
	snap, perms, ok := h.loadVisible(c, identity)
	if !ok {
		return
	}
	if !perms.Can.Delete {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only undeployed events may be deleted"})
		return
	}

	if err := database.DB.Delete(&domevents.Event{}, snap.EventID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete event"})
		return
	}
	h.scheduler.Disarm(snap.EventID)
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// PUT /events/:id/status
func (h *Handler) Transition(c *gin.Context) {
	var req TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	identity := middleware.CurrentIdentity(c)
	snap, _, ok := h.loadVisible(c, identity)
	if !ok {
		return
	}

	next, err := h.service.ExecuteTransition(identity, snap.EventID, req.Status)
	switch {
	case err == nil:
		metrics.TransitionsTotal.WithLabelValues(req.Status, "ok").Inc()
		c.JSON(http.StatusOK, gin.H{"status": next.Status})
	case errors.Is(err, domevents.ErrTransitionNotAllowed):
		metrics.TransitionsTotal.WithLabelValues(req.Status, "denied").Inc()
		c.JSON(http.StatusForbidden, gin.H{"error": "You may not perform this transition"})
	case errors.Is(err, domevents.ErrTransitionUndefined):
		metrics.TransitionsTotal.WithLabelValues(req.Status, "undefined").Inc()
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "No such transition from the current status"})
	case errors.Is(err, domevents.ErrEventNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to change status"})
	}
}

// PUT /events/:id/deadline
func (h *Handler) SetDeadline(c *gin.Context) {
	var req DeadlineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	identity := middleware.CurrentIdentity(c)
	snap, perms, ok := h.loadVisible(c, identity)
	if !ok {
		return
	}
	if !perms.Can.EditApplicationStatus {
		c.JSON(http.StatusForbidden, gin.H{"error": "You may not manage the application period"})
		return
	}

	// Closing via the open flag goes through the service so requesting
	// applications move to pending, same as the explicit close endpoint.
	if err := h.service.SetApplicationPeriod(snap.EventID, req.Deadline, req.Open); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update application period"})
		return
	}

	if req.Open && req.Deadline != nil {
		h.scheduler.Arm(snap.EventID, *req.Deadline)
	} else {
		h.scheduler.Disarm(snap.EventID)
	}
	c.JSON(http.StatusOK, gin.H{"updated": true})
}

// POST /events/:id/close-applications
func (h *Handler) CloseApplications(c *gin.Context) {
	identity := middleware.CurrentIdentity(c)
	snap, perms, ok := h.loadVisible(c, identity)
	if !ok {
		return
	}
	if !perms.Can.EditApplicationStatus {
		c.JSON(http.StatusForbidden, gin.H{"error": "You may not manage the application period"})
		return
	}

	err := h.service.CloseApplications(snap.EventID)
	switch {
	case err == nil:
		h.scheduler.Disarm(snap.EventID)
		c.JSON(http.StatusOK, gin.H{"closed": true})
	case errors.Is(err, domevents.ErrApplicationsAlreadyClosed):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Applications are already closed"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to close applications"})
	}
}
