package storage

import (
	"context"
	"errors"
	"log"

	"doubtroom/backend/internal/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// ErrRoomNotFound is returned when a room does not exist or has been closed.
var ErrRoomNotFound = errors.New("room not found or inactive")

// Storage is the persistence contract consumed by the API handlers and the hub.
type Storage interface {
	// Users
	SaveUser(user *models.User) error
	GetUserByID(userID string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)

	// Rooms
	SaveRoom(room *models.Room) error
	GetRoomByID(roomID string) (*models.Room, error)
	GetActiveRoom(roomID string) (*models.Room, error)
	GetActiveRooms(topic string) ([]models.Room, error)
	CloseRoom(roomID string) error
	IncrementRoomResolved(roomID string, delta int) error

	// Presence mirror (best-effort, see hub)
	ApplyActiveUserDelta(roomID, userID string, delta, newCount int) error
	GetActiveUserIDs(roomID string) ([]string, error)

	// Questions
	SaveQuestion(q *models.Question) error
	GetQuestionByID(questionID string) (*models.Question, error)
	GetQuestionsByRoom(roomID string) ([]models.Question, error)

	// Answers
	SaveAnswer(a *models.Answer) error
	GetAnswerByID(answerID string) (*models.Answer, error)
	GetAnswersByQuestion(questionID string) ([]models.Answer, error)

	// Rate limiting
	CountRequest(key string) (int64, error)
}

type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
	Ctx   context.Context
}

// NewStorageService Constructor
func NewStorageService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{
		DB:    db,
		Redis: rdb,
		Ctx:   context.Background(),
	}
}

// SaveRoom persists a room in PostgreSQL.
func (s *Service) SaveRoom(room *models.Room) error {
	return s.DB.Save(room).Error
}

// GetRoomByID returns a room regardless of its active flag.
func (s *Service) GetRoomByID(roomID string) (*models.Room, error) {
	var room models.Room
	err := s.DB.Where("id = ?", roomID).First(&room).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		log.Printf("ERROR: Failed to get room %s: %v", roomID, err)
		return nil, err
	}
	return &room, nil
}

// GetActiveRoom returns the room only when it exists and is still active.
// This is the lookup the hub runs before admitting a join.
func (s *Service) GetActiveRoom(roomID string) (*models.Room, error) {
	room, err := s.GetRoomByID(roomID)
	if err != nil {
		return nil, err
	}
	if !room.IsActive {
		return nil, ErrRoomNotFound
	}
	return room, nil
}

// GetActiveRooms lists open rooms, busiest first. An empty topic means all topics.
func (s *Service) GetActiveRooms(topic string) ([]models.Room, error) {
	var rooms []models.Room
	query := s.DB.Where("is_active = ?", true)
	if topic != "" {
		query = query.Where("topic = ?", topic)
	}
	err := query.Order("active_count DESC, created_at DESC").Limit(50).Find(&rooms).Error
	if err != nil {
		log.Printf("ERROR: Failed to list active rooms: %v", err)
		return nil, err
	}
	return rooms, nil
}

// CloseRoom soft-deletes a room by flipping IsActive off.
func (s *Service) CloseRoom(roomID string) error {
	return s.DB.Model(&models.Room{}).
		Where("id = ?", roomID).
		Update("is_active", false).Error
}

// IncrementRoomResolved adjusts a room's resolved-questions counter.
func (s *Service) IncrementRoomResolved(roomID string, delta int) error {
	return s.DB.Model(&models.Room{}).
		Where("id = ?", roomID).
		Update("resolved_questions", gorm.Expr("resolved_questions + ?", delta)).Error
}

// ApplyActiveUserDelta writes the new presence count to PostgreSQL and keeps
// the per-room active set in sync, both in the rooms row (set semantics via
// array_remove/array_append) and in the Redis mirror set. Callers treat a
// failure here as non-fatal; the in-memory roster stays authoritative.
func (s *Service) ApplyActiveUserDelta(roomID, userID string, delta, newCount int) error {
	var err error
	if delta > 0 {
		err = s.DB.Exec(
			`UPDATE rooms SET active_count = ?, active_users = array_append(array_remove(active_users, ?), ?) WHERE id = ?`,
			newCount, userID, userID, roomID).Error
	} else {
		err = s.DB.Exec(
			`UPDATE rooms SET active_count = ?, active_users = array_remove(active_users, ?) WHERE id = ?`,
			newCount, userID, userID, roomID).Error
	}
	if err != nil {
		return err
	}

	key := "room:" + roomID + ":active"
	if delta > 0 {
		err = s.Redis.SAdd(s.Ctx, key, userID).Err()
	} else {
		err = s.Redis.SRem(s.Ctx, key, userID).Err()
	}
	return err
}

// GetActiveUserIDs returns the Redis mirror of a room's active user set.
func (s *Service) GetActiveUserIDs(roomID string) ([]string, error) {
	return s.Redis.SMembers(s.Ctx, "room:"+roomID+":active").Result()
}

// CountRequest bumps a rate-limit counter and returns the running total for
// the current window. The key carries the caller identity (e.g. client IP).
func (s *Service) CountRequest(key string) (int64, error) {
	count, err := s.Redis.Incr(s.Ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		s.Redis.Expire(s.Ctx, key, requestWindow)
	}
	return count, nil
}
