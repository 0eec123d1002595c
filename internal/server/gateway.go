// Package server fans events out to connections through the Gateway type,
// which owns the id-to-client session table.
package server

import (
	"log"
)

// Broadcaster is the fanout surface the presence coordinator emits through.
// All sends are fire and forget: no acknowledgment, no retry.
type Broadcaster interface {
	SendTo(id, event string, payload any)
	SendToRoom(room, event string, payload any)
	SendToRoomExcept(room, excludeID, event string, payload any)
	SendToAll(event string, payload any)
}

// Gateway delivers events to live WebSocket clients. Room targeting is
// resolved through the room index at dispatch time; each recipient send is
// independent, so one dead connection never aborts delivery to the rest.
type Gateway struct {
	index   *RoomIndex
	clients *sessionTable
}

// NewGateway creates a gateway that resolves room membership through index.
func NewGateway(index *RoomIndex) *Gateway {
	return &Gateway{
		index:   index,
		clients: newSessionTable(),
	}
}

func (g *Gateway) attach(client *Client) {
	g.clients.put(client)
}

func (g *Gateway) detach(id string) (*Client, bool) {
	return g.clients.remove(id)
}

func (g *Gateway) clientCount() int {
	return g.clients.size()
}

// SendTo delivers one event to a single connection. Unknown ids are ignored.
func (g *Gateway) SendTo(id, event string, payload any) {
	frame, ok := g.encode(event, payload)
	if !ok {
		return
	}
	if client, found := g.clients.get(id); found {
		client.trySend(frame)
	}
}

// SendToRoom delivers one event to every connection currently in room,
// including the sender if the sender is a member.
func (g *Gateway) SendToRoom(room, event string, payload any) {
	g.sendToRoomFiltered(room, "", event, payload)
}

// SendToRoomExcept delivers one event to every connection in room except
// excludeID.
func (g *Gateway) SendToRoomExcept(room, excludeID, event string, payload any) {
	g.sendToRoomFiltered(room, excludeID, event, payload)
}

// SendToAll delivers one event to every connected client.
func (g *Gateway) SendToAll(event string, payload any) {
	frame, ok := g.encode(event, payload)
	if !ok {
		return
	}
	for _, client := range g.clients.snapshot() {
		client.trySend(frame)
	}
}

func (g *Gateway) sendToRoomFiltered(room, excludeID, event string, payload any) {
	frame, ok := g.encode(event, payload)
	if !ok {
		return
	}
	for _, member := range g.index.MembersOf(room) {
		if member.ID == excludeID {
			continue
		}
		if client, found := g.clients.get(member.ID); found {
			client.trySend(frame)
		}
	}
}

func (g *Gateway) encode(event string, payload any) ([]byte, bool) {
	frame, err := marshalEvent(event, payload)
	if err != nil {
		log.Printf("Error encoding %s event: %v", event, err)
		return nil, false
	}
	return frame, true
}
