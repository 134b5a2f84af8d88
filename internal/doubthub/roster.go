package doubthub

import (
	"sync"

	"doubtroom/backend/internal/models"
)

// membership is the per-connection record: who is on the connection and which
// room it currently sits in.
type membership struct {
	user   models.RoomUser
	roomID string
}

// Roster is the in-memory membership store. It maintains two views that must
// never diverge: connection -> membership and room -> set of connections.
// Every mutation updates both under one lock, so no reader can observe a torn
// state. Operations on unknown rooms or connections are deliberate no-ops:
// disconnect races are expected, not exceptional.
type Roster struct {
	mu     sync.Mutex
	byConn map[string]*membership
	byRoom map[string]map[string]struct{}
}

func NewRoster() *Roster {
	return &Roster{
		byConn: make(map[string]*membership),
		byRoom: make(map[string]map[string]struct{}),
	}
}

// RecordJoin registers the connection under the room. If the connection was
// still registered under another room (the hub normally runs the leave
// sequence first), the stale membership is dropped so a connection never
// appears in two rooms.
func (r *Roster) RecordJoin(connID, roomID string, user models.RoomUser) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.byConn[connID]; ok && prev.roomID != roomID {
		r.removeLocked(prev.roomID, connID)
	}

	if _, ok := r.byRoom[roomID]; !ok {
		r.byRoom[roomID] = make(map[string]struct{})
	}
	r.byRoom[roomID][connID] = struct{}{}
	r.byConn[connID] = &membership{user: user, roomID: roomID}
}

// RecordLeave removes the connection from the room's set and clears its
// current room. It returns the remaining membership size and whether the
// connection was actually a member; a second leave for the same pair reports
// removed=false so callers can skip the duplicate broadcast and decrement.
func (r *Roster) RecordLeave(roomID, connID string) (remaining int, removed bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.byConn[connID]
	if !ok || m.roomID != roomID {
		return len(r.byRoom[roomID]), false
	}

	r.removeLocked(roomID, connID)
	delete(r.byConn, connID)
	return len(r.byRoom[roomID]), true
}

// Snapshot returns the current roster of a room for broadcast. An unknown or
// already-pruned room yields an empty list.
func (r *Roster) Snapshot(roomID string) []models.RoomUser {
	r.mu.Lock()
	defer r.mu.Unlock()

	conns := r.byRoom[roomID]
	users := make([]models.RoomUser, 0, len(conns))
	for connID := range conns {
		if m, ok := r.byConn[connID]; ok {
			users = append(users, m.user)
		}
	}
	return users
}

// Members returns the connection IDs currently joined to the room. The
// broadcaster calls this fresh on every fan-out, never from a cached list.
func (r *Roster) Members(roomID string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	conns := r.byRoom[roomID]
	ids := make([]string, 0, len(conns))
	for connID := range conns {
		ids = append(ids, connID)
	}
	return ids
}

// Lookup returns the room the connection is currently joined to, if any.
func (r *Roster) Lookup(connID string) (roomID string, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.byConn[connID]
	if !ok {
		return "", false
	}
	return m.roomID, true
}

// Size returns the number of connections in the room.
func (r *Roster) Size(roomID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byRoom[roomID])
}

// removeLocked drops the connection from the room set and prunes the set when
// it becomes empty. Caller must hold r.mu.
func (r *Roster) removeLocked(roomID, connID string) {
	if conns, ok := r.byRoom[roomID]; ok {
		delete(conns, connID)
		if len(conns) == 0 {
			delete(r.byRoom, roomID)
		}
	}
}
