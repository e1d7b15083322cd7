// Package websocket provides WebSocket hub and client management.
package websocket

import "encoding/json"

// WSMessage represents a WebSocket message.
type WSMessage struct {
	Type    string          `json:"type"`
	Session string          `json:"session,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	Command string          `json:"command,omitempty"`
	Code    string          `json:"code,omitempty"`
	Message string          `json:"message,omitempty"`
}

// BroadcastMessage wraps a message with its target session.
type BroadcastMessage struct {
	Session string
	Data    []byte
}

// Message types.
const (
	TypeSubscribe   = "subscribe"
	TypeUnsubscribe = "unsubscribe"
	TypePing        = "ping"
	TypePong        = "pong"
	TypeError       = "error"

	// Server to client broadcasts.
	TypeState  = "state"
	TypeTask   = "task"
	TypeAudio  = "audio"
	TypeMedia  = "media"
	TypeConfig = "config"

	// Client to server session control.
	TypeCommand = "command"
)

// Commands accepted over the command message type.
const (
	CommandPause        = "pause"
	CommandResume       = "resume"
	CommandStop         = "stop"
	CommandTaskComplete = "task_complete"
	CommandTaskSkip     = "task_skip"
)
