package doubthub_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"doubtroom/backend/internal/doubthub"
	"doubtroom/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func activeRoom(id string) *models.Room {
	return &models.Room{ID: id, Title: "Room " + id, IsActive: true}
}

func command(event, data string) models.Command {
	return models.Command{Event: event, Data: json.RawMessage(data)}
}

func startHub(storageMock *MockStorage) *doubthub.Hub {
	hub := doubthub.NewHub(storageMock)
	go hub.Run()
	return hub
}

func settle() {
	time.Sleep(100 * time.Millisecond)
}

func TestHub_FirstJoinBroadcastsArrival(t *testing.T) {
	storageMock := new(MockStorage)
	storageMock.On("GetActiveRoom", "r1").Return(activeRoom("r1"), nil)
	storageMock.On("ApplyActiveUserDelta", "r1", "user_A", 1, 1).Return(nil)

	hub := startHub(storageMock)
	clientA := newMockClient("conn_A", "user_A", "Alice", models.RoleStudent)

	hub.RegisterCh <- clientA
	hub.CommandCh <- doubthub.InboundCommand{Client: clientA, Command: command(models.CmdJoinRoom, `{"roomId":"r1"}`)}
	settle()

	events := clientA.DrainEvents()
	assert.Len(t, events, 1)
	assert.Equal(t, models.EventArrival, events[0].Event)

	payload := events[0].Data.(models.ArrivalPayload)
	assert.Equal(t, "user_A", payload.UserID)
	assert.Equal(t, 1, payload.ActiveCount)
	assert.Len(t, payload.ActiveUsers, 1)

	storageMock.AssertCalled(t, "ApplyActiveUserDelta", "r1", "user_A", 1, 1)
}

func TestHub_SecondJoinNotifiesEveryone(t *testing.T) {
	storageMock := new(MockStorage)
	storageMock.On("GetActiveRoom", "r1").Return(activeRoom("r1"), nil)
	storageMock.On("ApplyActiveUserDelta", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	hub := startHub(storageMock)
	clientA := newMockClient("conn_A", "user_A", "Alice", models.RoleStudent)
	clientB := newMockClient("conn_B", "user_B", "Bob", models.RoleMentor)

	hub.RegisterCh <- clientA
	hub.RegisterCh <- clientB
	hub.CommandCh <- doubthub.InboundCommand{Client: clientA, Command: command(models.CmdJoinRoom, `{"roomId":"r1"}`)}
	hub.CommandCh <- doubthub.InboundCommand{Client: clientB, Command: command(models.CmdJoinRoom, `{"roomId":"r1"}`)}
	settle()

	eventsA := clientA.DrainEvents()
	assert.Len(t, eventsA, 2) // own arrival, then B's

	payload := eventsA[1].Data.(models.ArrivalPayload)
	assert.Equal(t, "user_B", payload.UserID)
	assert.Equal(t, 2, payload.ActiveCount)
	assert.Len(t, payload.ActiveUsers, 2)

	eventsB := clientB.DrainEvents()
	assert.Equal(t, 1, CountEvents(eventsB, models.EventArrival))
}

func TestHub_DisconnectBroadcastsDeparture(t *testing.T) {
	storageMock := new(MockStorage)
	storageMock.On("GetActiveRoom", "r1").Return(activeRoom("r1"), nil)
	storageMock.On("ApplyActiveUserDelta", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	hub := startHub(storageMock)
	clientA := newMockClient("conn_A", "user_A", "Alice", models.RoleStudent)
	clientB := newMockClient("conn_B", "user_B", "Bob", models.RoleStudent)

	hub.RegisterCh <- clientA
	hub.RegisterCh <- clientB
	hub.CommandCh <- doubthub.InboundCommand{Client: clientA, Command: command(models.CmdJoinRoom, `{"roomId":"r1"}`)}
	hub.CommandCh <- doubthub.InboundCommand{Client: clientB, Command: command(models.CmdJoinRoom, `{"roomId":"r1"}`)}
	settle()
	clientA.DrainEvents()
	clientB.DrainEvents()

	// A drops without an explicit leave.
	hub.UnregisterCh <- clientA
	settle()

	events := clientB.DrainEvents()
	assert.Len(t, events, 1)
	assert.Equal(t, models.EventDeparture, events[0].Event)

	payload := events[0].Data.(models.DeparturePayload)
	assert.Equal(t, "user_A", payload.UserID)
	assert.Equal(t, 1, payload.ActiveCount)
	assert.Len(t, payload.ActiveUsers, 1)

	_, ok := hub.Roster.Lookup("conn_A")
	assert.False(t, ok)
	assert.NotContains(t, hub.Clients, "conn_A")

	storageMock.AssertCalled(t, "ApplyActiveUserDelta", "r1", "user_A", -1, 1)
}

func TestHub_DoubleLeaveEmitsOneDeparture(t *testing.T) {
	storageMock := new(MockStorage)
	storageMock.On("GetActiveRoom", "r1").Return(activeRoom("r1"), nil)
	storageMock.On("ApplyActiveUserDelta", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	hub := startHub(storageMock)
	clientA := newMockClient("conn_A", "user_A", "Alice", models.RoleStudent)
	clientB := newMockClient("conn_B", "user_B", "Bob", models.RoleStudent)

	hub.RegisterCh <- clientA
	hub.RegisterCh <- clientB
	hub.CommandCh <- doubthub.InboundCommand{Client: clientA, Command: command(models.CmdJoinRoom, `{"roomId":"r1"}`)}
	hub.CommandCh <- doubthub.InboundCommand{Client: clientB, Command: command(models.CmdJoinRoom, `{"roomId":"r1"}`)}
	settle()
	clientA.DrainEvents()

	hub.CommandCh <- doubthub.InboundCommand{Client: clientB, Command: command(models.CmdLeaveRoom, `{"roomId":"r1"}`)}
	hub.CommandCh <- doubthub.InboundCommand{Client: clientB, Command: command(models.CmdLeaveRoom, `{"roomId":"r1"}`)}
	settle()

	events := clientA.DrainEvents()
	assert.Equal(t, 1, CountEvents(events, models.EventDeparture))

	// Exactly one decrement reached the persistence mirror.
	storageMock.AssertNumberOfCalls(t, "ApplyActiveUserDelta", 3) // two joins + one leave
}

func TestHub_JoinUnknownRoomSendsErrorOnly(t *testing.T) {
	storageMock := new(MockStorage)
	storageMock.On("GetActiveRoom", "r1").Return(activeRoom("r1"), nil)
	storageMock.On("GetActiveRoom", "ghost").Return(nil, errors.New("room not found or inactive"))
	storageMock.On("ApplyActiveUserDelta", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	hub := startHub(storageMock)
	clientA := newMockClient("conn_A", "user_A", "Alice", models.RoleStudent)
	clientB := newMockClient("conn_B", "user_B", "Bob", models.RoleStudent)

	hub.RegisterCh <- clientA
	hub.RegisterCh <- clientB
	hub.CommandCh <- doubthub.InboundCommand{Client: clientA, Command: command(models.CmdJoinRoom, `{"roomId":"r1"}`)}
	settle()
	clientA.DrainEvents()

	hub.CommandCh <- doubthub.InboundCommand{Client: clientB, Command: command(models.CmdJoinRoom, `{"roomId":"ghost"}`)}
	settle()

	events := clientB.DrainEvents()
	assert.Len(t, events, 1)
	assert.Equal(t, models.EventError, events[0].Event)
	assert.Equal(t, "Room not found or inactive", events[0].Data.(models.ErrorPayload).Message)

	// Nobody else heard anything and the roster is untouched.
	assert.Empty(t, clientA.DrainEvents())
	assert.Equal(t, 0, hub.Roster.Size("ghost"))
	_, ok := hub.Roster.Lookup("conn_B")
	assert.False(t, ok)
}

func TestHub_TypingExcludesSender(t *testing.T) {
	storageMock := new(MockStorage)
	storageMock.On("GetActiveRoom", "r1").Return(activeRoom("r1"), nil)
	storageMock.On("ApplyActiveUserDelta", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	hub := startHub(storageMock)
	clientA := newMockClient("conn_A", "user_A", "Alice", models.RoleStudent)
	clientB := newMockClient("conn_B", "user_B", "Bob", models.RoleStudent)

	hub.RegisterCh <- clientA
	hub.RegisterCh <- clientB
	hub.CommandCh <- doubthub.InboundCommand{Client: clientA, Command: command(models.CmdJoinRoom, `{"roomId":"r1"}`)}
	hub.CommandCh <- doubthub.InboundCommand{Client: clientB, Command: command(models.CmdJoinRoom, `{"roomId":"r1"}`)}
	settle()
	clientA.DrainEvents()
	clientB.DrainEvents()

	hub.CommandCh <- doubthub.InboundCommand{Client: clientA, Command: command(models.CmdTyping, `{"questionId":"q1","isTyping":true}`)}
	settle()

	events := clientB.DrainEvents()
	assert.Len(t, events, 1)
	assert.Equal(t, models.EventTyping, events[0].Event)

	payload := events[0].Data.(models.TypingPayload)
	assert.Equal(t, "q1", payload.QuestionID)
	assert.Equal(t, "user_A", payload.UserID)
	assert.Equal(t, "Alice", payload.UserName)
	assert.True(t, payload.IsTyping)

	assert.Empty(t, clientA.DrainEvents(), "sender must not receive its own typing signal")
}

func TestHub_CrossRoomIsolation(t *testing.T) {
	storageMock := new(MockStorage)
	storageMock.On("GetActiveRoom", mock.Anything).Return(activeRoom("any"), nil)
	storageMock.On("ApplyActiveUserDelta", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	hub := startHub(storageMock)
	clientA := newMockClient("conn_A", "user_A", "Alice", models.RoleStudent)
	clientB := newMockClient("conn_B", "user_B", "Bob", models.RoleStudent)

	hub.RegisterCh <- clientA
	hub.RegisterCh <- clientB
	hub.CommandCh <- doubthub.InboundCommand{Client: clientA, Command: command(models.CmdJoinRoom, `{"roomId":"r1"}`)}
	hub.CommandCh <- doubthub.InboundCommand{Client: clientB, Command: command(models.CmdJoinRoom, `{"roomId":"r2"}`)}
	settle()
	clientA.DrainEvents()
	clientB.DrainEvents()

	hub.CommandCh <- doubthub.InboundCommand{Client: clientA, Command: command(models.CmdTyping, `{"questionId":"q1","isTyping":true}`)}
	settle()

	assert.Empty(t, clientB.DrainEvents(), "typing in r1 must not leak into r2")
}

func TestHub_RoomSwitchRunsLeaveFirst(t *testing.T) {
	storageMock := new(MockStorage)
	storageMock.On("GetActiveRoom", mock.Anything).Return(activeRoom("any"), nil)
	storageMock.On("ApplyActiveUserDelta", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	hub := startHub(storageMock)
	clientA := newMockClient("conn_A", "user_A", "Alice", models.RoleStudent)
	clientB := newMockClient("conn_B", "user_B", "Bob", models.RoleStudent)

	hub.RegisterCh <- clientA
	hub.RegisterCh <- clientB
	hub.CommandCh <- doubthub.InboundCommand{Client: clientA, Command: command(models.CmdJoinRoom, `{"roomId":"r1"}`)}
	hub.CommandCh <- doubthub.InboundCommand{Client: clientB, Command: command(models.CmdJoinRoom, `{"roomId":"r1"}`)}
	settle()
	clientA.DrainEvents()
	clientB.DrainEvents()

	hub.CommandCh <- doubthub.InboundCommand{Client: clientA, Command: command(models.CmdJoinRoom, `{"roomId":"r2"}`)}
	settle()

	// B saw A leave r1.
	events := clientB.DrainEvents()
	assert.Equal(t, 1, CountEvents(events, models.EventDeparture))

	roomID, ok := hub.Roster.Lookup("conn_A")
	assert.True(t, ok)
	assert.Equal(t, "r2", roomID)
	assert.NotContains(t, hub.Roster.Members("r1"), "conn_A")

	storageMock.AssertCalled(t, "ApplyActiveUserDelta", "r1", "user_A", -1, 1)
	storageMock.AssertCalled(t, "ApplyActiveUserDelta", "r2", "user_A", 1, 1)
}

func TestHub_NotifyDeliversDomainEvent(t *testing.T) {
	storageMock := new(MockStorage)
	storageMock.On("GetActiveRoom", "r1").Return(activeRoom("r1"), nil)
	storageMock.On("ApplyActiveUserDelta", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	hub := startHub(storageMock)
	clientA := newMockClient("conn_A", "user_A", "Alice", models.RoleStudent)

	hub.RegisterCh <- clientA
	hub.CommandCh <- doubthub.InboundCommand{Client: clientA, Command: command(models.CmdJoinRoom, `{"roomId":"r1"}`)}
	settle()
	clientA.DrainEvents()

	hub.Notify("r1", models.Event{
		Event: models.EventQuestionPosted,
		Data:  models.QuestionPayload{QuestionID: "q1", Text: "What is a goroutine?", UserName: "Bob", UserRole: models.RoleStudent},
	})
	settle()

	events := clientA.DrainEvents()
	assert.Len(t, events, 1)
	assert.Equal(t, models.EventQuestionPosted, events[0].Event)
	assert.Equal(t, "q1", events[0].Data.(models.QuestionPayload).QuestionID)
}

func TestHub_RelayWithoutRoomIsIgnored(t *testing.T) {
	storageMock := new(MockStorage)

	hub := startHub(storageMock)
	clientA := newMockClient("conn_A", "user_A", "Alice", models.RoleStudent)

	hub.RegisterCh <- clientA
	hub.CommandCh <- doubthub.InboundCommand{Client: clientA, Command: command(models.CmdAskQuestion, `{"questionId":"q1","text":"hello?"}`)}
	settle()

	assert.Empty(t, clientA.DrainEvents())
}

func TestHub_PersistenceFailureDoesNotBlockJoin(t *testing.T) {
	storageMock := new(MockStorage)
	storageMock.On("GetActiveRoom", "r1").Return(activeRoom("r1"), nil)
	storageMock.On("ApplyActiveUserDelta", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("connection refused"))

	hub := startHub(storageMock)
	clientA := newMockClient("conn_A", "user_A", "Alice", models.RoleStudent)

	hub.RegisterCh <- clientA
	hub.CommandCh <- doubthub.InboundCommand{Client: clientA, Command: command(models.CmdJoinRoom, `{"roomId":"r1"}`)}
	settle()

	// The in-memory join succeeded and the arrival went out regardless.
	events := clientA.DrainEvents()
	assert.Equal(t, 1, CountEvents(events, models.EventArrival))

	roomID, ok := hub.Roster.Lookup("conn_A")
	assert.True(t, ok)
	assert.Equal(t, "r1", roomID)
}
