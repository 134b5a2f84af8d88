package doubthub

import "doubtroom/backend/internal/models"

// Client is the interface for one live authenticated connection. It abstracts
// the underlying transport so the hub can manage connections uniformly and
// tests can substitute doubles.
type Client interface {
	// GetConnID returns the server-assigned identifier for this connection.
	// A user opening two tabs yields two distinct connection IDs.
	GetConnID() string
	// GetUserID returns the authenticated user's ID.
	GetUserID() string
	// GetName returns the authenticated user's display name.
	GetName() string
	// GetRole returns the authenticated user's role (student/mentor/admin).
	GetRole() string

	// GetSendChannel returns the channel the hub writes outbound events to.
	// It is a send-only channel.
	GetSendChannel() chan<- models.Event

	// Run starts the client's read and write pumps.
	Run()
	// Close shuts down the client's send channel, stopping its write pump.
	Close()
}
