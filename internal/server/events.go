// Package server defines the wire contract shared by clients and the hub:
// event names, the JSON envelope, and the fixed-shape payloads carried by
// each event.
package server

import (
	"encoding/json"
	"time"
)

// Event names exchanged over the WebSocket connection. The names are the
// wire contract; clients dispatch on them.
const (
	EventEnterRoom        = "enterRoom"
	EventMessage          = "message"
	EventActivity         = "activity"
	EventPreviousMessages = "previousMessages"
	EventUserList         = "userList"
	EventRoomList         = "roomList"
	EventAllUserIDs       = "allUserIds"
)

// AdminName is the sender name used for system notices such as join and
// leave announcements.
const AdminName = "Admin"

// Envelope is the framing for every event in both directions: the event
// name plus its JSON payload.
type Envelope struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// EnterRoomRequest is the payload of an inbound enterRoom event.
type EnterRoomRequest struct {
	Name string `json:"name"`
	Room string `json:"room"`
}

// MessageRequest is the payload of an inbound message event. The timestamp
// is assigned server-side at receipt, never by the client.
type MessageRequest struct {
	Name string `json:"name"`
	Text string `json:"text"`
}

// ChatMessage is a single chat message as delivered to clients, either live
// or replayed via previousMessages.
type ChatMessage struct {
	Name string `json:"name"`
	Text string `json:"text"`
	Time string `json:"time"`
}

// UserList is the roster of a single room, broadcast to that room whenever
// its membership changes.
type UserList struct {
	Users []Connection `json:"users"`
}

// RoomList is the global set of active room names, broadcast to everyone
// whenever any room's membership set changes.
type RoomList struct {
	Rooms []string `json:"rooms"`
}

// UserIDList is the global list of connected ids, broadcast on join and
// disconnect.
type UserIDList struct {
	Users []string `json:"users"`
}

// NewChatMessage builds a chat message stamped with the server-side receipt
// time.
func NewChatMessage(name, text string, at time.Time) ChatMessage {
	return ChatMessage{
		Name: name,
		Text: text,
		Time: at.Format("15:04:05"),
	}
}

// marshalEvent encodes an event name and payload into a single wire frame.
func marshalEvent(event string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Event: event, Payload: raw})
}
