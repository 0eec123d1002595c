// Package server orchestrates join, room switch, and disconnect transitions
// through the Coordinator type, which owns all roster and broadcast side
// effects.
package server

import (
	"fmt"
	"time"
)

// Coordinator is the presence state machine. Every inbound client event is
// applied here, one at a time, against the registry and history store; the
// resulting notices, rosters, and history replays are emitted through the
// broadcaster.
//
// Per connection the states are simply "absent from the registry" and
// "joined to a room"; a connection switches rooms directly without passing
// through a disconnected state.
type Coordinator struct {
	registry *Registry
	index    *RoomIndex
	history  *HistoryStore
	out      Broadcaster
	now      func() time.Time
}

// NewCoordinator wires the presence state machine to its collaborators.
func NewCoordinator(registry *Registry, index *RoomIndex, history *HistoryStore, out Broadcaster) *Coordinator {
	return &Coordinator{
		registry: registry,
		index:    index,
		history:  history,
		out:      out,
		now:      time.Now,
	}
}

// Connected greets a freshly attached connection. The welcome notice goes
// out before any join, matching what chat clients expect on connect.
func (c *Coordinator) Connected(id string) {
	c.out.SendTo(id, EventMessage, c.notice("Welcome to the Chat App!"))
}

// EnterRoom joins the connection to room under the given display name,
// replacing any previous membership. Events with an empty name or room are
// silently ignored.
func (c *Coordinator) EnterRoom(id, name, room string) {
	if name == "" || room == "" {
		return
	}

	prev, hadPrev := c.registry.Get(id)
	conn := c.registry.Upsert(id, name, room)

	// The upsert already removed the connection from its previous room, so
	// the departure roster no longer includes it.
	if hadPrev && prev.Room != "" {
		c.out.SendToRoom(prev.Room, EventMessage, c.notice(fmt.Sprintf("%s has left the room", name)))
		c.out.SendToRoom(prev.Room, EventUserList, UserList{Users: c.index.MembersOf(prev.Room)})
	}

	c.out.SendTo(id, EventMessage, c.notice(fmt.Sprintf("You have joined the %s chat room", conn.Room)))
	c.out.SendToRoomExcept(conn.Room, id, EventMessage, c.notice(fmt.Sprintf("%s has joined the room", conn.Name)))

	c.out.SendToRoom(conn.Room, EventUserList, UserList{Users: c.index.MembersOf(conn.Room)})
	c.out.SendToAll(EventRoomList, RoomList{Rooms: c.index.ActiveRooms()})

	c.out.SendTo(id, EventPreviousMessages, c.history.Get(conn.Room))

	c.out.SendToAll(EventAllUserIDs, UserIDList{Users: c.registry.IDs()})
}

// Message appends a timestamped chat message to the sender's current room
// and echoes it to the whole room, sender included; clients reconcile their
// own messages by name. Messages from a connection that has not joined a
// room, or with missing fields, are dropped.
func (c *Coordinator) Message(id, name, text string) {
	if name == "" || text == "" {
		return
	}

	conn, ok := c.registry.Get(id)
	if !ok || conn.Room == "" {
		return
	}

	msg := NewChatMessage(name, text, c.now())
	c.history.Append(conn.Room, msg)
	c.out.SendToRoom(conn.Room, EventMessage, msg)
}

// Activity relays a typing indicator to everyone else in the sender's room.
// Indicators from unjoined connections are dropped, and the sender never
// receives its own indicator back.
func (c *Coordinator) Activity(id, name string) {
	conn, ok := c.registry.Get(id)
	if !ok || conn.Room == "" {
		return
	}

	c.out.SendToRoomExcept(conn.Room, id, EventActivity, name)
}

// Disconnect removes the connection and, if it had joined a room, notifies
// the room and refreshes the global room and id lists. Disconnecting an
// unknown id is a no-op, so the transport may call this unconditionally.
func (c *Coordinator) Disconnect(id string) {
	conn, ok := c.registry.Get(id)
	c.registry.Remove(id)

	if !ok || conn.Room == "" {
		return
	}

	c.out.SendToRoom(conn.Room, EventMessage, c.notice(fmt.Sprintf("%s has left the room", conn.Name)))
	c.out.SendToRoom(conn.Room, EventUserList, UserList{Users: c.index.MembersOf(conn.Room)})
	c.out.SendToAll(EventRoomList, RoomList{Rooms: c.index.ActiveRooms()})
	c.out.SendToAll(EventAllUserIDs, UserIDList{Users: c.registry.IDs()})
}

func (c *Coordinator) notice(text string) ChatMessage {
	return NewChatMessage(AdminName, text, c.now())
}
