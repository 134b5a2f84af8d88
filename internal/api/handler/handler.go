package handler

import (
	"doubtroom/backend/internal/doubthub"
	"doubtroom/backend/internal/storage"
)

// Handler holds the hub, the storage service and the JWT signing secret.
type Handler struct {
	Hub       *doubthub.Hub
	Storage   storage.Storage
	jwtSecret []byte
}

func NewHandler(hub *doubthub.Hub, s storage.Storage, jwtSecret []byte) *Handler {
	return &Handler{Hub: hub, Storage: s, jwtSecret: jwtSecret}
}
