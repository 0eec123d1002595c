// Package server tracks which connection belongs to which room via the
// Registry type, the single source of truth for presence state.
package server

import (
	"sort"
	"sync"
)

// Connection is one live client session: an opaque id assigned by the
// transport layer, the user-chosen display name, and the room the
// connection currently occupies. Room is empty until the first enterRoom.
type Connection struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Room string `json:"room"`
}

// Registry maps connection ids to their presence records. It is owned by
// the server instance that created it and guarded by a mutex so fanout
// reads can run alongside the hub's event loop.
type Registry struct {
	mu    sync.RWMutex
	conns map[string]Connection
}

// NewRegistry creates an empty connection registry.
func NewRegistry() *Registry {
	return &Registry{conns: make(map[string]Connection)}
}

// Upsert inserts or fully replaces the record for id. Replacing is the room
// switch path: the previous record is discarded, not merged.
func (r *Registry) Upsert(id, name, room string) Connection {
	conn := Connection{ID: id, Name: name, Room: room}

	r.mu.Lock()
	r.conns[id] = conn
	r.mu.Unlock()

	return conn
}

// Remove deletes the record for id. Removing an absent id is a no-op.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	delete(r.conns, id)
	r.mu.Unlock()
}

// Get returns the current record for id, or false if the connection is not
// registered.
func (r *Registry) Get(id string) (Connection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conn, ok := r.conns[id]
	return conn, ok
}

// InRoom returns every connection currently joined to room. Order is not
// significant.
func (r *Registry) InRoom(room string) []Connection {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members := make([]Connection, 0)
	for _, conn := range r.conns {
		if conn.Room == room {
			members = append(members, conn)
		}
	}
	return members
}

// RoomNames returns the distinct room names referenced by at least one
// connection, sorted for stable output.
func (r *Registry) RoomNames() []string {
	r.mu.RLock()
	seen := make(map[string]struct{})
	for _, conn := range r.conns {
		if conn.Room != "" {
			seen[conn.Room] = struct{}{}
		}
	}
	r.mu.RUnlock()

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IDs returns the ids of every registered connection, sorted for stable
// output.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	ids := make([]string, 0, len(r.conns))
	for id := range r.conns {
		ids = append(ids, id)
	}
	r.mu.RUnlock()

	sort.Strings(ids)
	return ids
}
