package server

import "sync"

// HistoryStore keeps the append-only message log of every room that has
// ever received a message. Logs are created lazily on first append and are
// never evicted: history survives a room emptying and is replayed to
// whoever next joins that room name.
type HistoryStore struct {
	mu    sync.RWMutex
	rooms map[string][]ChatMessage
}

// NewHistoryStore creates an empty history store.
func NewHistoryStore() *HistoryStore {
	return &HistoryStore{rooms: make(map[string][]ChatMessage)}
}

// Append adds msg to the end of room's log.
func (s *HistoryStore) Append(room string, msg ChatMessage) {
	s.mu.Lock()
	s.rooms[room] = append(s.rooms[room], msg)
	s.mu.Unlock()
}

// Get returns room's full log in insertion order. A room with no history
// yields an empty slice, not an error.
func (s *HistoryStore) Get(room string) []ChatMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()

	log := s.rooms[room]
	out := make([]ChatMessage, len(log))
	copy(out, log)
	return out
}
