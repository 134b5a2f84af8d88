package handler

import (
	"net/http"

	"doubtroom/backend/internal/config"
	"doubtroom/backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
)

type createAnswerRequest struct {
	Text string `json:"text" binding:"required"`
}

// CreateAnswer posts an answer to a question and notifies the room.
func (h *Handler) CreateAnswer(c *gin.Context) {
	user := currentUser(c)

	question, err := h.Storage.GetQuestionByID(c.Param("id"))
	if err != nil || question == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Question not found"})
		return
	}

	var req createAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.Text) < config.AnswerMinLen || len(req.Text) > config.AnswerMaxLen {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Answer must be between 5 and 2000 characters"})
		return
	}

	answer := &models.Answer{
		QuestionID: question.ID,
		UserID:     user.ID,
		Text:       req.Text,
		IsByMentor: user.Role == models.RoleMentor,
	}
	if err := h.Storage.SaveAnswer(answer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to post answer"})
		return
	}

	h.Hub.Notify(question.RoomID, models.Event{
		Event: models.EventAnswerPosted,
		Data: models.AnswerPayload{
			AnswerID:   answer.ID,
			QuestionID: question.ID,
			Text:       answer.Text,
			UserName:   user.Name,
			UserRole:   user.Role,
		},
	})

	c.JSON(http.StatusCreated, gin.H{"answer": answer})
}

// GetAnswers lists a question's answers, most voted first.
func (h *Handler) GetAnswers(c *gin.Context) {
	answers, err := h.Storage.GetAnswersByQuestion(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list answers"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(answers), "answers": answers})
}

// UpvoteAnswer toggles the caller's vote on an answer. A second vote from the
// same user retracts the first.
func (h *Handler) UpvoteAnswer(c *gin.Context) {
	user := currentUser(c)

	answer, err := h.Storage.GetAnswerByID(c.Param("id"))
	if err != nil || answer == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Answer not found"})
		return
	}

	delta := 1
	if answer.HasVoted(user.ID) {
		delta = -1
		voters := make(pq.StringArray, 0, len(answer.VotedBy))
		for _, id := range answer.VotedBy {
			if id != user.ID {
				voters = append(voters, id)
			}
		}
		answer.VotedBy = voters
	} else {
		answer.VotedBy = append(answer.VotedBy, user.ID)
	}
	answer.Votes += delta

	if err := h.Storage.SaveAnswer(answer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to vote"})
		return
	}

	question, err := h.Storage.GetQuestionByID(answer.QuestionID)
	if err == nil && question != nil {
		h.Hub.Notify(question.RoomID, models.Event{
			Event: models.EventAnswerVoted,
			Data: models.VotePayload{
				AnswerID:   answer.ID,
				QuestionID: answer.QuestionID,
				Votes:      answer.Votes,
				Delta:      delta,
			},
		})
	}

	c.JSON(http.StatusOK, gin.H{"answer": answer})
}

// AcceptAnswer marks an answer as accepted. Only the question's author may
// accept.
func (h *Handler) AcceptAnswer(c *gin.Context) {
	user := currentUser(c)

	answer, err := h.Storage.GetAnswerByID(c.Param("id"))
	if err != nil || answer == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Answer not found"})
		return
	}

	question, err := h.Storage.GetQuestionByID(answer.QuestionID)
	if err != nil || question == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Question not found"})
		return
	}
	if question.UserID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the asker can accept an answer"})
		return
	}

	answer.IsAccepted = true
	if err := h.Storage.SaveAnswer(answer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to accept answer"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"answer": answer})
}
