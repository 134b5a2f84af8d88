package doubthub_test

import (
	"doubtroom/backend/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockStorage is a test double for the hub's Storage contract.
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) GetActiveRoom(roomID string) (*models.Room, error) {
	args := m.Called(roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Room), args.Error(1)
}

func (m *MockStorage) ApplyActiveUserDelta(roomID, userID string, delta, newCount int) error {
	args := m.Called(roomID, userID, delta, newCount)
	return args.Error(0)
}
