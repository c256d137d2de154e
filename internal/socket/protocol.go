// Package socket implements the real-time generation channel over
// WebSockets: a server handler and a client session handle.
package socket

import (
	"encoding/json"
	"fmt"
)

// Client to server events.
const (
	EventGenerate = "generate-component"
	EventUpdate   = "update-component"
	EventPing     = "ping"
)

// Server to client events.
const (
	EventProgress  = "generation-progress"
	EventGenerated = "component-generated"
	EventUpdated   = "component-updated"
	EventError     = "generation-error"
	EventPong      = "pong"
)

// EventConnection is raised locally by Client on connect and disconnect.
const EventConnection = "connection"

// Connection statuses carried by EventConnection.
const (
	StatusConnected    = "connected"
	StatusDisconnected = "disconnected"
)

// maxMessageSize bounds a single frame; generated components can exceed the
// library default of 32KiB.
const maxMessageSize = 1 << 20

// Envelope is the wire format for every message in both directions. ID is
// optional and echoed on replies so concurrent requests can be correlated.
type Envelope struct {
	Event string          `json:"event"`
	ID    string          `json:"id,omitempty"`
	Data  json.RawMessage `json:"data,omitempty"`
}

func encode(event, id string, data any) ([]byte, error) {
	env := Envelope{Event: event, ID: id}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("marshal %s payload: %w", event, err)
		}
		env.Data = raw
	}
	return json.Marshal(env)
}

func decode(msg []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(msg, &env); err != nil {
		return Envelope{}, fmt.Errorf("decode envelope: %w", err)
	}
	if env.Event == "" {
		return Envelope{}, fmt.Errorf("decode envelope: missing event")
	}
	return env, nil
}
