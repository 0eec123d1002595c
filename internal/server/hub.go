// Package server coordinates client registration, event dispatch, and
// connection cleanup for the chat relay via the Hub type.
package server

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"
)

// Hub owns the single event-processing stream of the server. Registration,
// unregistration, and every inbound client event funnel through its run
// loop, so no two handlers ever observe a torn state of the registry or
// history store. Fanout itself happens over buffered per-client channels
// and never blocks the loop.
//
// A Hub is constructed per server instance and passed by handle into the
// HTTP layer; there is no package-global state to reset between tests.
type Hub struct {
	registry    *Registry
	index       *RoomIndex
	history     *HistoryStore
	gateway     *Gateway
	coordinator *Coordinator

	register   chan *Client
	unregister chan *Client
	events     chan inboundEvent

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// NewHub creates a hub with a fresh registry, room index, history store,
// and gateway. The returned hub is ready to run.
func NewHub() *Hub {
	registry := NewRegistry()
	index := NewRoomIndex(registry)
	history := NewHistoryStore()
	gateway := NewGateway(index)

	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		registry:    registry,
		index:       index,
		history:     history,
		gateway:     gateway,
		coordinator: NewCoordinator(registry, index, history, gateway),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		events:      make(chan inboundEvent),
		ctx:         ctx,
		cancel:      cancel,
		done:        make(chan struct{}),
	}
}

// Registry returns the hub's connection registry.
func (h *Hub) Registry() *Registry {
	return h.registry
}

// History returns the hub's room history store.
func (h *Hub) History() *HistoryStore {
	return h.history
}

// Start launches the hub's run loop in its own goroutine.
func (h *Hub) Start() {
	go h.Run()
	log.Println("Hub started and ready to manage WebSocket connections")
}

// Run executes the hub's event loop, handling client registration,
// unregistration, and inbound event dispatch until shutdown. It should be
// called in a separate goroutine as it runs until the hub is cancelled.
func (h *Hub) Run() {
	defer close(h.done)

	for {
		select {
		case <-h.ctx.Done():
			h.shutdownClients()
			return

		case client := <-h.register:
			if client == nil {
				log.Printf("Received nil client registration; skipping")
				continue
			}
			h.handleRegister(client)

		case client := <-h.unregister:
			h.handleUnregister(client)

		case ev := <-h.events:
			h.dispatch(ev)
		}
	}
}

// handleRegister attaches the client to the gateway, starts its pumps, and
// greets it. The connection is not in any room until it sends enterRoom.
func (h *Hub) handleRegister(client *Client) {
	client.closed = false
	h.gateway.attach(client)
	log.Printf("Client %s registered from %s. Total clients: %d", client.id, client.addr, h.gateway.clientCount())

	h.wg.Add(2)
	go func() {
		defer h.wg.Done()
		client.writePump()
	}()
	go func() {
		defer h.wg.Done()
		client.readPump()
	}()

	h.coordinator.Connected(client.id)
}

// handleUnregister detaches the client and applies the disconnect
// transition. A client that was already detached is ignored, which makes
// disconnect idempotent from the transport's point of view.
func (h *Hub) handleUnregister(client *Client) {
	if _, ok := h.gateway.detach(client.id); !ok {
		return
	}

	client.closed = true
	close(client.send)
	h.coordinator.Disconnect(client.id)
	log.Printf("Client %s unregistered from %s. Total clients: %d", client.id, client.addr, h.gateway.clientCount())
}

// dispatch routes one inbound event to the presence coordinator. Payloads
// that fail to decode are logged and dropped.
func (h *Hub) dispatch(ev inboundEvent) {
	switch ev.envelope.Event {
	case EventEnterRoom:
		var req EnterRoomRequest
		if err := json.Unmarshal(ev.envelope.Payload, &req); err != nil {
			log.Printf("Invalid enterRoom payload from %s: %v", ev.client.addr, err)
			return
		}
		h.coordinator.EnterRoom(ev.client.id, req.Name, req.Room)

	case EventMessage:
		var req MessageRequest
		if err := json.Unmarshal(ev.envelope.Payload, &req); err != nil {
			log.Printf("Invalid message payload from %s: %v", ev.client.addr, err)
			return
		}
		h.coordinator.Message(ev.client.id, req.Name, req.Text)

	case EventActivity:
		var name string
		if err := json.Unmarshal(ev.envelope.Payload, &name); err != nil {
			log.Printf("Invalid activity payload from %s: %v", ev.client.addr, err)
			return
		}
		h.coordinator.Activity(ev.client.id, name)

	default:
		log.Printf("Unknown event %q from %s; discarding", ev.envelope.Event, ev.client.addr)
	}
}

// shutdownClients closes all active client connections.
func (h *Hub) shutdownClients() {
	log.Println("Shutting down all client connections...")

	clients := h.gateway.clients.snapshot()
	for _, client := range clients {
		if client.conn != nil {
			if err := client.conn.Close(); err != nil {
				if !isExpectedCloseError(err) {
					log.Printf("Error closing client connection from %s: %v", client.addr, err)
				}
			}
		}
	}

	log.Printf("Closed %d client connections", len(clients))
}

// Shutdown initiates graceful shutdown of the hub and waits for all pump
// goroutines to finish, or for the timeout to expire.
func (h *Hub) Shutdown(timeout time.Duration) error {
	log.Println("Initiating hub shutdown...")

	h.cancel()
	<-h.done

	finished := make(chan struct{})
	go func() {
		h.wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
		log.Println("Hub shutdown completed successfully")
		return nil
	case <-time.After(timeout):
		log.Println("Hub shutdown timeout reached, some goroutines may still be running")
		return context.DeadlineExceeded
	}
}
