package handler

import (
	"log"
	"net/http"
	"time"

	"doubtroom/backend/internal/config"
	"doubtroom/backend/internal/models"

	"github.com/gin-gonic/gin"
)

type createQuestionRequest struct {
	Text     string `json:"text" binding:"required"`
	Priority string `json:"priority"`
}

// CreateQuestion posts a new doubt into a room and notifies its members.
func (h *Handler) CreateQuestion(c *gin.Context) {
	user := currentUser(c)
	roomID := c.Param("id")

	if _, err := h.Storage.GetActiveRoom(roomID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Room not found or inactive"})
		return
	}

	var req createQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.Text) < config.QuestionMinLen || len(req.Text) > config.QuestionMaxLen {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Question must be between 5 and 1000 characters"})
		return
	}

	question := &models.Question{
		RoomID:   roomID,
		UserID:   user.ID,
		Text:     req.Text,
		Priority: req.Priority,
	}
	if err := h.Storage.SaveQuestion(question); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to post question"})
		return
	}

	h.Hub.Notify(roomID, models.Event{
		Event: models.EventQuestionPosted,
		Data: models.QuestionPayload{
			QuestionID: question.ID,
			RoomID:     roomID,
			Text:       question.Text,
			Priority:   question.Priority,
			UserName:   user.Name,
			UserRole:   user.Role,
		},
	})

	c.JSON(http.StatusCreated, gin.H{"question": question})
}

// GetQuestions lists a room's questions, pinned and unresolved first.
func (h *Handler) GetQuestions(c *gin.Context) {
	questions, err := h.Storage.GetQuestionsByRoom(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list questions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(questions), "questions": questions})
}

// ResolveQuestion marks a question as resolved. Allowed for the asker, mentors
// and admins.
func (h *Handler) ResolveQuestion(c *gin.Context) {
	user := currentUser(c)

	question, err := h.Storage.GetQuestionByID(c.Param("id"))
	if err != nil || question == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Question not found"})
		return
	}
	if question.UserID != user.ID && user.Role != models.RoleMentor && user.Role != models.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not authorized to resolve this question"})
		return
	}
	if question.IsResolved {
		c.JSON(http.StatusOK, gin.H{"question": question})
		return
	}

	now := time.Now()
	question.IsResolved = true
	question.ResolvedBy = &user.ID
	question.ResolvedAt = &now
	if err := h.Storage.SaveQuestion(question); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve question"})
		return
	}
	if err := h.Storage.IncrementRoomResolved(question.RoomID, 1); err != nil {
		log.Printf("WARNING: Failed to bump resolved counter for room %s: %v", question.RoomID, err)
	}

	h.Hub.Notify(question.RoomID, models.Event{
		Event: models.EventQuestionResolved,
		Data: models.ResolvePayload{
			QuestionID: question.ID,
			ResolvedBy: user.Name,
		},
	})

	c.JSON(http.StatusOK, gin.H{"question": question})
}

// PinQuestion toggles a question's pinned state. Mentors and admins only.
func (h *Handler) PinQuestion(c *gin.Context) {
	user := currentUser(c)
	if user.Role != models.RoleMentor && user.Role != models.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only mentors and admins can pin questions"})
		return
	}

	question, err := h.Storage.GetQuestionByID(c.Param("id"))
	if err != nil || question == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Question not found"})
		return
	}

	question.IsPinned = !question.IsPinned
	if err := h.Storage.SaveQuestion(question); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to pin question"})
		return
	}

	h.Hub.Notify(question.RoomID, models.Event{
		Event: models.EventQuestionPinned,
		Data: models.PinPayload{
			QuestionID: question.ID,
			IsPinned:   question.IsPinned,
		},
	})

	c.JSON(http.StatusOK, gin.H{"question": question})
}
