package server

// RoomIndex answers room membership queries by deriving them from the
// registry at call time. Rooms are never stored: a room exists exactly
// while at least one connection references it, so there is no second
// source of truth to keep in sync.
type RoomIndex struct {
	registry *Registry
}

// NewRoomIndex creates a room index over the given registry.
func NewRoomIndex(registry *Registry) *RoomIndex {
	return &RoomIndex{registry: registry}
}

// MembersOf returns the connections currently joined to room.
func (x *RoomIndex) MembersOf(room string) []Connection {
	return x.registry.InRoom(room)
}

// ActiveRooms returns the names of all currently populated rooms.
func (x *RoomIndex) ActiveRooms() []string {
	return x.registry.RoomNames()
}
