package websocket

import "github.com/stemsi/command-center/internal/model"

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionPing Action = "ping"
)

// RequestEnvelope is used to peek at the action of a client frame.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventReady          Event = "ready"
	EventRequestUpdated Event = "request_updated"
	EventError          Event = "error"
	EventPong           Event = "pong"
)

// ReadyResponse is sent once the subscription is live.
type ReadyResponse struct {
	Event Event `json:"event"`
}

// RequestUpdatedResponse carries a single lifecycle change.
type RequestUpdatedResponse struct {
	Event   Event              `json:"event"`
	Request model.RequestEvent `json:"request"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
