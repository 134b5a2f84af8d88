package doubthub

import (
	"log"

	"doubtroom/backend/internal/models"
)

// broadcastToRoom delivers an event to every connection currently in the room,
// optionally excluding one (the sender of an ephemeral signal). Membership is
// read fresh from the roster at call time. Delivery is fire-and-forget: a
// client whose send buffer is full gets the event dropped rather than blocking
// the hub loop.
func (h *Hub) broadcastToRoom(roomID string, event models.Event, excludeConnID string) {
	for _, connID := range h.Roster.Members(roomID) {
		if connID == excludeConnID {
			continue
		}
		client, ok := h.Clients[connID]
		if !ok {
			// Mid-disconnect: roster entry outlived the client map entry.
			continue
		}
		select {
		case client.GetSendChannel() <- event:
		default:
			log.Printf("WARNING: Dropping %s event for slow client %s", event.Event, connID)
		}
	}
}

// sendToClient delivers an event to a single connection, same drop policy as
// the room fan-out.
func (h *Hub) sendToClient(c Client, event models.Event) {
	select {
	case c.GetSendChannel() <- event:
	default:
		log.Printf("WARNING: Dropping %s event for slow client %s", event.Event, c.GetConnID())
	}
}

// sendError reports a failure to the requesting connection only. No broadcast,
// no state change.
func (h *Hub) sendError(c Client, message string) {
	h.sendToClient(c, models.Event{
		Event: models.EventError,
		Data:  models.ErrorPayload{Message: message},
	})
}
