package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Answer is a reply to a question. VotedBy records who upvoted so a second
// vote from the same user toggles the vote off instead of double counting.
type Answer struct {
	ID         string `gorm:"primaryKey" json:"id"`
	QuestionID string `gorm:"type:text;not null;index:idx_question_answer" json:"questionId"`
	UserID     string `gorm:"type:text;not null;index" json:"userId"`
	Text       string `gorm:"type:text;not null" json:"text"`

	Votes   int            `gorm:"default:0;index:idx_question_answer" json:"votes"`
	VotedBy pq.StringArray `gorm:"type:text[]" json:"votedBy"`

	IsAccepted bool `gorm:"default:false" json:"isAccepted"`
	IsByMentor bool `gorm:"default:false" json:"isByMentor"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (a *Answer) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return
}

// HasVoted reports whether the given user already upvoted this answer.
func (a *Answer) HasVoted(userID string) bool {
	for _, id := range a.VotedBy {
		if id == userID {
			return true
		}
	}
	return false
}
