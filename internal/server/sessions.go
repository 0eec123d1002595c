package server

import "sync"

// sessionTable maps connection ids to their live clients. It is the only
// structure the gateway consults when turning an id into a deliverable
// connection.
type sessionTable struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

func newSessionTable() *sessionTable {
	return &sessionTable{clients: make(map[string]*Client)}
}

func (t *sessionTable) put(client *Client) {
	t.mu.Lock()
	t.clients[client.id] = client
	t.mu.Unlock()
}

// remove deletes the client for id and reports whether it was present, so
// the caller can avoid double-closing a send channel.
func (t *sessionTable) remove(id string) (*Client, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	client, ok := t.clients[id]
	if ok {
		delete(t.clients, id)
	}
	return client, ok
}

func (t *sessionTable) get(id string) (*Client, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	client, ok := t.clients[id]
	return client, ok
}

func (t *sessionTable) snapshot() []*Client {
	t.mu.RLock()
	defer t.mu.RUnlock()

	clients := make([]*Client, 0, len(t.clients))
	for _, client := range t.clients {
		clients = append(clients, client)
	}
	return clients
}

func (t *sessionTable) size() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.clients)
}
