package handler_test

import (
	"doubtroom/backend/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockStorage is a comprehensive mock implementation of the storage.Storage
// interface. It uses testify/mock to allow flexible expectation setting.
type MockStorage struct {
	mock.Mock
}

// User operations
func (m *MockStorage) SaveUser(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockStorage) GetUserByID(userID string) (*models.User, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStorage) GetUserByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// Room operations
func (m *MockStorage) SaveRoom(room *models.Room) error {
	args := m.Called(room)
	return args.Error(0)
}

func (m *MockStorage) GetRoomByID(roomID string) (*models.Room, error) {
	args := m.Called(roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Room), args.Error(1)
}

func (m *MockStorage) GetActiveRoom(roomID string) (*models.Room, error) {
	args := m.Called(roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Room), args.Error(1)
}

func (m *MockStorage) GetActiveRooms(topic string) ([]models.Room, error) {
	args := m.Called(topic)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Room), args.Error(1)
}

func (m *MockStorage) CloseRoom(roomID string) error {
	args := m.Called(roomID)
	return args.Error(0)
}

func (m *MockStorage) IncrementRoomResolved(roomID string, delta int) error {
	args := m.Called(roomID, delta)
	return args.Error(0)
}

// Presence mirror
func (m *MockStorage) ApplyActiveUserDelta(roomID, userID string, delta, newCount int) error {
	args := m.Called(roomID, userID, delta, newCount)
	return args.Error(0)
}

func (m *MockStorage) GetActiveUserIDs(roomID string) ([]string, error) {
	args := m.Called(roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// Question operations
func (m *MockStorage) SaveQuestion(q *models.Question) error {
	args := m.Called(q)
	return args.Error(0)
}

func (m *MockStorage) GetQuestionByID(questionID string) (*models.Question, error) {
	args := m.Called(questionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Question), args.Error(1)
}

func (m *MockStorage) GetQuestionsByRoom(roomID string) ([]models.Question, error) {
	args := m.Called(roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Question), args.Error(1)
}

// Answer operations
func (m *MockStorage) SaveAnswer(a *models.Answer) error {
	args := m.Called(a)
	return args.Error(0)
}

func (m *MockStorage) GetAnswerByID(answerID string) (*models.Answer, error) {
	args := m.Called(answerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Answer), args.Error(1)
}

func (m *MockStorage) GetAnswersByQuestion(questionID string) ([]models.Answer, error) {
	args := m.Called(questionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Answer), args.Error(1)
}

// Rate limiting
func (m *MockStorage) CountRequest(key string) (int64, error) {
	args := m.Called(key)
	return args.Get(0).(int64), args.Error(1)
}
