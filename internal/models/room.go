package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Room represents a topic-based doubt room. ActiveUsers and ActiveCount are a
// persisted mirror of the live presence roster; the in-memory roster owned by
// the hub is the source of truth while the process is running.
type Room struct {
	// ID is the unique identifier for the room (UUID).
	ID string `gorm:"primaryKey" json:"id"`
	// Title is the human-readable room name.
	Title string `gorm:"type:text;not null" json:"title"`
	// Topic is the subject tag, e.g. "DSA", "React", "System Design".
	Topic string `gorm:"type:text;default:Other" json:"topic"`
	// Description is an optional longer blurb.
	Description string `gorm:"type:text" json:"description"`
	// IsPublic controls whether the room shows up in open listings.
	IsPublic bool `gorm:"default:true" json:"isPublic"`
	// CreatedBy is the ID of the user who opened the room.
	CreatedBy string `gorm:"type:text;not null;index" json:"createdBy"`

	// ActiveUsers holds the IDs of users currently present in the room.
	ActiveUsers pq.StringArray `gorm:"type:text[]" json:"activeUsers"`
	// ActiveCount is the number of live connections in the room.
	ActiveCount int `gorm:"default:0" json:"activeCount"`

	TotalQuestions    int `gorm:"default:0" json:"totalQuestions"`
	ResolvedQuestions int `gorm:"default:0" json:"resolvedQuestions"`

	// IsActive is false once the room has been closed (soft delete).
	IsActive bool `gorm:"default:true;index" json:"isActive"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (r *Room) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return
}
