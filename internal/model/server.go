package model

import "time"

// ServerStatus is the operational state of a server.
type ServerStatus string

const (
	ServerOnline      ServerStatus = "online"
	ServerOffline     ServerStatus = "offline"
	ServerMaintenance ServerStatus = "maintenance"
)

// Server is a managed machine that access requests may reference.
type Server struct {
	ID          int          `json:"id"`
	Name        string       `json:"name"`
	IPAddress   string       `json:"ipAddress"`
	Status      ServerStatus `json:"status"`
	Type        string       `json:"type"`
	Description string       `json:"description"`
	CreatedAt   time.Time    `json:"createdAt"`
}

// ServerRequest is the payload for creating or replacing a server.
type ServerRequest struct {
	Name        string       `json:"name" binding:"required,max=100"`
	IPAddress   string       `json:"ipAddress" binding:"required,ip"`
	Status      ServerStatus `json:"status" binding:"required,oneof=online offline maintenance"`
	Type        string       `json:"type" binding:"required,max=50"`
	Description string       `json:"description" binding:"max=1000"`
}
