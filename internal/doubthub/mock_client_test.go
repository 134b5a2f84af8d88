package doubthub_test

import "doubtroom/backend/internal/models"

// MockClient is a test double for the doubthub.Client interface. Events the
// hub sends to it pile up in RecvChannel for assertions.
type MockClient struct {
	connID      string
	userID      string
	name        string
	role        string
	RecvChannel chan models.Event
}

func newMockClient(connID, userID, name, role string) *MockClient {
	return &MockClient{
		connID:      connID,
		userID:      userID,
		name:        name,
		role:        role,
		RecvChannel: make(chan models.Event, 32), // Buffered to prevent blocking in tests
	}
}

func (c *MockClient) GetConnID() string                   { return c.connID }
func (c *MockClient) GetUserID() string                   { return c.userID }
func (c *MockClient) GetName() string                     { return c.name }
func (c *MockClient) GetRole() string                     { return c.role }
func (c *MockClient) GetSendChannel() chan<- models.Event { return c.RecvChannel }

func (c *MockClient) Run() {
	// Not needed for testing
}

func (c *MockClient) Close() {
	// Not needed for testing
}

// DrainEvents empties the receive channel and returns everything collected.
func (c *MockClient) DrainEvents() []models.Event {
	var events []models.Event
	for {
		select {
		case ev := <-c.RecvChannel:
			events = append(events, ev)
		default:
			return events
		}
	}
}

// CountEvents returns how many of the drained events carry the given name.
func CountEvents(events []models.Event, name string) int {
	n := 0
	for _, ev := range events {
		if ev.Event == name {
			n++
		}
	}
	return n
}
