package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Question priorities.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Question is a doubt posted into a room.
type Question struct {
	ID     string `gorm:"primaryKey" json:"id"`
	RoomID string `gorm:"type:text;not null;index:idx_room_question" json:"roomId"`
	UserID string `gorm:"type:text;not null;index" json:"userId"`
	Text   string `gorm:"type:text;not null" json:"text"`

	IsResolved bool       `gorm:"default:false;index:idx_room_question" json:"isResolved"`
	ResolvedBy *string    `gorm:"type:text" json:"resolvedBy,omitempty"`
	ResolvedAt *time.Time `json:"resolvedAt,omitempty"`

	AnswerCount int    `gorm:"default:0" json:"answerCount"`
	IsPinned    bool   `gorm:"default:false" json:"isPinned"`
	Priority    string `gorm:"type:text;default:medium" json:"priority"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (q *Question) BeforeCreate(tx *gorm.DB) (err error) {
	if q.ID == "" {
		q.ID = uuid.New().String()
	}
	if q.Priority == "" {
		q.Priority = PriorityMedium
	}
	return
}
