package websocket

import "encoding/json"

// Message types of the journal stream.
const (
	TypeStartSession  = "start_session"
	TypeEndSession    = "end_session"
	TypeScan          = "scan"
	TypeLootScan      = "loot_scan"
	TypeHealthBinding = "health_binding"

	TypeAck = "ack"
)

// Envelope wraps all messages sent over the WebSocket.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// AckMessage is the server's acknowledgement response.
type AckMessage struct {
	Type string `json:"type"`
	For  string `json:"for"`
}

// EndSessionPayload closes the session opened by start_session.
type EndSessionPayload struct {
	SessionID string `json:"sessionId"`
}
