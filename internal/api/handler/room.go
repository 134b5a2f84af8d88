package handler

import (
	"errors"
	"log"
	"net/http"

	"doubtroom/backend/internal/config"
	"doubtroom/backend/internal/models"
	"doubtroom/backend/internal/storage"

	"github.com/gin-gonic/gin"
)

type createRoomRequest struct {
	Title       string `json:"title" binding:"required"`
	Topic       string `json:"topic"`
	Description string `json:"description"`
	IsPublic    *bool  `json:"isPublic"`
}

// GetRooms lists active rooms, optionally filtered by topic.
func (h *Handler) GetRooms(c *gin.Context) {
	rooms, err := h.Storage.GetActiveRooms(c.Query("topic"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list rooms"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(rooms), "rooms": rooms})
}

// GetRoom returns a single room by ID.
func (h *Handler) GetRoom(c *gin.Context) {
	room, err := h.Storage.GetRoomByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, storage.ErrRoomNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get room"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"room": room})
}

// CreateRoom opens a new room. Mentors and admins only.
func (h *Handler) CreateRoom(c *gin.Context) {
	user := currentUser(c)
	if user.Role != models.RoleMentor && user.Role != models.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only mentors and admins can create rooms"})
		return
	}

	var req createRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.Title) > config.TitleMaxLen || len(req.Description) > config.DescMaxLen {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title or description too long"})
		return
	}
	if req.Topic == "" {
		req.Topic = "Other"
	}
	if !config.IsKnownTopic(req.Topic) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown topic"})
		return
	}

	room := &models.Room{
		Title:       req.Title,
		Topic:       req.Topic,
		Description: req.Description,
		IsPublic:    req.IsPublic == nil || *req.IsPublic,
		CreatedBy:   user.ID,
		IsActive:    true,
	}
	if err := h.Storage.SaveRoom(room); err != nil {
		log.Printf("ERROR: Failed to create room %q: %v", req.Title, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create room"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"room": room})
}

// DeleteRoom soft-deletes a room. Creator or admin only.
func (h *Handler) DeleteRoom(c *gin.Context) {
	user := currentUser(c)

	room, err := h.Storage.GetRoomByID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
		return
	}
	if room.CreatedBy != user.ID && user.Role != models.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not authorized to delete this room"})
		return
	}

	if err := h.Storage.CloseRoom(room.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete room"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Room closed"})
}

// GetRoomStats reports question and presence counters for a room.
func (h *Handler) GetRoomStats(c *gin.Context) {
	room, err := h.Storage.GetRoomByID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stats": gin.H{
			"totalQuestions":    room.TotalQuestions,
			"resolvedQuestions": room.ResolvedQuestions,
			"pendingQuestions":  room.TotalQuestions - room.ResolvedQuestions,
			"activeUsers":       room.ActiveCount,
		},
	})
}
