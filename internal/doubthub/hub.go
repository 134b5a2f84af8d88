package doubthub

import (
	"encoding/json"
	"log"

	"doubtroom/backend/internal/models"
)

// Storage is the narrow persistence contract the hub needs: a room lookup to
// validate joins and the best-effort presence mirror write.
type Storage interface {
	GetActiveRoom(roomID string) (*models.Room, error)
	ApplyActiveUserDelta(roomID, userID string, delta, newCount int) error
}

// InboundCommand pairs a decoded wire command with the connection it came from.
type InboundCommand struct {
	Client  Client
	Command models.Command
}

// Notification is a domain event handed to the hub from outside the socket
// path (REST handlers after a successful write).
type Notification struct {
	RoomID        string
	Event         models.Event
	ExcludeConnID string
}

// Hub owns all live connections and the membership roster. Everything that
// mutates presence state runs on the single Run goroutine, so join/leave/
// disconnect handlers never interleave and per-room event order follows the
// order commands were accepted.
type Hub struct {
	Clients map[string]Client

	RegisterCh   chan Client
	UnregisterCh chan Client
	CommandCh    chan InboundCommand
	NotifyCh     chan Notification

	Roster  *Roster
	Storage Storage
}

func NewHub(s Storage) *Hub {
	return &Hub{
		Clients:      make(map[string]Client),
		RegisterCh:   make(chan Client),
		UnregisterCh: make(chan Client),
		CommandCh:    make(chan InboundCommand),
		NotifyCh:     make(chan Notification, 64),
		Roster:       NewRoster(),
		Storage:      s,
	}
}

// Run is the hub's main dispatcher goroutine.
func (h *Hub) Run() {
	log.Println("DoubtRoom hub started.")

	for {
		select {
		case client := <-h.RegisterCh:
			h.Clients[client.GetConnID()] = client
			log.Printf("INFO: User connected: %s (%s)", client.GetName(), client.GetUserID())

		case client := <-h.UnregisterCh:
			h.handleDisconnect(client)

		case in := <-h.CommandCh:
			h.dispatch(in.Client, in.Command)

		case n := <-h.NotifyCh:
			h.broadcastToRoom(n.RoomID, n.Event, n.ExcludeConnID)
		}
	}
}

// Notify asks the hub to fan a domain event out to a room. It routes through
// the run loop so ordering matches the presence events for the same room.
func (h *Hub) Notify(roomID string, event models.Event) {
	h.NotifyCh <- Notification{RoomID: roomID, Event: event}
}

// dispatch validates an inbound command and routes it to its handler. Payloads
// are decoded into their typed shapes here, at the boundary; nothing downstream
// touches raw JSON.
func (h *Hub) dispatch(c Client, cmd models.Command) {
	switch cmd.Event {
	case models.CmdJoinRoom:
		var p models.JoinPayload
		if err := json.Unmarshal(cmd.Data, &p); err != nil || p.RoomID == "" {
			h.sendError(c, "Invalid joinRoom payload")
			return
		}
		h.handleJoin(c, p.RoomID)

	case models.CmdLeaveRoom:
		var p models.LeavePayload
		if err := json.Unmarshal(cmd.Data, &p); err != nil || p.RoomID == "" {
			h.sendError(c, "Invalid leaveRoom payload")
			return
		}
		h.handleLeave(c, p.RoomID)

	case models.CmdAskQuestion:
		var p models.QuestionPayload
		if err := json.Unmarshal(cmd.Data, &p); err != nil {
			h.sendError(c, "Invalid askQuestion payload")
			return
		}
		p.UserName = c.GetName()
		p.UserRole = c.GetRole()
		h.relay(c, models.EventQuestionPosted, p, false)

	case models.CmdAnswerQuestion:
		var p models.AnswerPayload
		if err := json.Unmarshal(cmd.Data, &p); err != nil {
			h.sendError(c, "Invalid answerQuestion payload")
			return
		}
		p.UserName = c.GetName()
		p.UserRole = c.GetRole()
		h.relay(c, models.EventAnswerPosted, p, false)

	case models.CmdUpvoteAnswer:
		var p models.VotePayload
		if err := json.Unmarshal(cmd.Data, &p); err != nil {
			h.sendError(c, "Invalid upvoteAnswer payload")
			return
		}
		h.relay(c, models.EventAnswerVoted, p, false)

	case models.CmdMarkResolved:
		var p models.ResolvePayload
		if err := json.Unmarshal(cmd.Data, &p); err != nil {
			h.sendError(c, "Invalid markResolved payload")
			return
		}
		p.ResolvedBy = c.GetName()
		h.relay(c, models.EventQuestionResolved, p, false)

	case models.CmdPinQuestion:
		var p models.PinPayload
		if err := json.Unmarshal(cmd.Data, &p); err != nil {
			h.sendError(c, "Invalid pinQuestion payload")
			return
		}
		h.relay(c, models.EventQuestionPinned, p, false)

	case models.CmdTyping:
		var p models.TypingPayload
		if err := json.Unmarshal(cmd.Data, &p); err != nil {
			return
		}
		p.UserID = c.GetUserID()
		p.UserName = c.GetName()
		h.relay(c, models.EventTyping, p, true)

	default:
		h.sendError(c, "Unknown event: "+cmd.Event)
	}
}

// handleJoin admits a connection into a room. Order matters: validate the room
// first, run the leave sequence for any previous room, mutate the roster, then
// broadcast from the fresh in-memory snapshot. The persisted mirror is synced
// last and asynchronously; a failure there never rolls back the join.
func (h *Hub) handleJoin(c Client, roomID string) {
	if _, err := h.Storage.GetActiveRoom(roomID); err != nil {
		h.sendError(c, "Room not found or inactive")
		return
	}

	// A connection is never a member of two rooms, even transiently.
	if prev, ok := h.Roster.Lookup(c.GetConnID()); ok {
		h.handleLeave(c, prev)
	}

	user := models.RoomUser{UserID: c.GetUserID(), Name: c.GetName(), Role: c.GetRole()}
	h.Roster.RecordJoin(c.GetConnID(), roomID, user)

	roster := h.Roster.Snapshot(roomID)
	h.broadcastToRoom(roomID, models.Event{
		Event: models.EventArrival,
		Data: models.ArrivalPayload{
			UserID:      user.UserID,
			Name:        user.Name,
			Role:        user.Role,
			ActiveUsers: roster,
			ActiveCount: len(roster),
		},
	}, "")

	go h.syncActiveUsers(roomID, user.UserID, +1, len(roster))

	log.Printf("INFO: %s joined room %s", c.GetName(), roomID)
}

// handleLeave removes a connection from a room. Idempotent: an explicit leave
// and the terminal disconnect can race for the same pair, and only the first
// one broadcasts and decrements.
func (h *Hub) handleLeave(c Client, roomID string) {
	remaining, removed := h.Roster.RecordLeave(roomID, c.GetConnID())
	if !removed {
		return
	}

	roster := h.Roster.Snapshot(roomID)
	h.broadcastToRoom(roomID, models.Event{
		Event: models.EventDeparture,
		Data: models.DeparturePayload{
			UserID:      c.GetUserID(),
			Name:        c.GetName(),
			ActiveUsers: roster,
			ActiveCount: remaining,
		},
	}, "")

	go h.syncActiveUsers(roomID, c.GetUserID(), -1, remaining)

	log.Printf("INFO: %s left room %s", c.GetName(), roomID)
}

// handleDisconnect tears down all per-connection state. Safe to call for a
// connection that never joined a room.
func (h *Hub) handleDisconnect(c Client) {
	if roomID, ok := h.Roster.Lookup(c.GetConnID()); ok {
		h.handleLeave(c, roomID)
	}

	if _, ok := h.Clients[c.GetConnID()]; ok {
		delete(h.Clients, c.GetConnID())
		c.Close()
		log.Printf("INFO: User disconnected: %s (%s)", c.GetName(), c.GetUserID())
	}
}

// relay fans a domain event out to the sender's current room. A sender that is
// not in any room is silently skipped, matching the join-gated client flow.
func (h *Hub) relay(c Client, event string, payload any, excludeSender bool) {
	roomID, ok := h.Roster.Lookup(c.GetConnID())
	if !ok {
		return
	}
	exclude := ""
	if excludeSender {
		exclude = c.GetConnID()
	}
	h.broadcastToRoom(roomID, models.Event{Event: event, Data: payload}, exclude)
}

// syncActiveUsers pushes the new presence count to the persistent mirror.
// Best-effort: errors are logged and swallowed, the roster stays authoritative.
func (h *Hub) syncActiveUsers(roomID, userID string, delta, newCount int) {
	if err := h.Storage.ApplyActiveUserDelta(roomID, userID, delta, newCount); err != nil {
		log.Printf("ERROR: Failed to sync active users for room %s: %v", roomID, err)
	}
}
