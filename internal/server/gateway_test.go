package server

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGateway() (*Gateway, *Registry) {
	registry := NewRegistry()
	return NewGateway(NewRoomIndex(registry)), registry
}

func attachTestClient(t *testing.T, gw *Gateway, registry *Registry, name, room string) *Client {
	t.Helper()

	client := NewClient(nil, NewHub(), "test-addr")
	gw.attach(client)
	registry.Upsert(client.id, name, room)
	return client
}

// nextFrame pops one queued frame from the client, failing the test if none
// is pending.
func nextFrame(t *testing.T, client *Client) Envelope {
	t.Helper()

	select {
	case frame := <-client.send:
		var env Envelope
		require.NoError(t, json.Unmarshal(frame, &env))
		return env
	default:
		t.Fatal("expected a queued frame, found none")
		return Envelope{}
	}
}

func assertNoFrame(t *testing.T, client *Client) {
	t.Helper()

	select {
	case frame := <-client.send:
		t.Fatalf("expected no queued frame, found %s", frame)
	default:
	}
}

func TestSendToTargetsSingleClient(t *testing.T) {
	gw, registry := newTestGateway()
	alice := attachTestClient(t, gw, registry, "Alice", "lobby")
	bob := attachTestClient(t, gw, registry, "Bob", "lobby")

	gw.SendTo(alice.id, EventMessage, ChatMessage{Name: "Admin", Text: "hello"})

	env := nextFrame(t, alice)
	assert.Equal(t, EventMessage, env.Event)

	var msg ChatMessage
	require.NoError(t, json.Unmarshal(env.Payload, &msg))
	assert.Equal(t, "hello", msg.Text)

	assertNoFrame(t, bob)
}

func TestSendToUnknownIDIsNoOp(t *testing.T) {
	gw, _ := newTestGateway()

	gw.SendTo("nobody", EventMessage, ChatMessage{Text: "void"})
}

func TestSendToRoomIncludesSender(t *testing.T) {
	gw, registry := newTestGateway()
	alice := attachTestClient(t, gw, registry, "Alice", "lobby")
	bob := attachTestClient(t, gw, registry, "Bob", "lobby")
	carol := attachTestClient(t, gw, registry, "Carol", "random")

	gw.SendToRoom("lobby", EventMessage, ChatMessage{Name: "Alice", Text: "hi"})

	assert.Equal(t, EventMessage, nextFrame(t, alice).Event)
	assert.Equal(t, EventMessage, nextFrame(t, bob).Event)
	assertNoFrame(t, carol)
}

func TestSendToRoomExceptSkipsOneClient(t *testing.T) {
	gw, registry := newTestGateway()
	alice := attachTestClient(t, gw, registry, "Alice", "x")
	bob := attachTestClient(t, gw, registry, "Bob", "x")

	gw.SendToRoomExcept("x", alice.id, EventActivity, "Alice")

	env := nextFrame(t, bob)
	assert.Equal(t, EventActivity, env.Event)

	var name string
	require.NoError(t, json.Unmarshal(env.Payload, &name))
	assert.Equal(t, "Alice", name)

	assertNoFrame(t, alice)
}

func TestSendToAllIgnoresRooms(t *testing.T) {
	gw, registry := newTestGateway()
	alice := attachTestClient(t, gw, registry, "Alice", "lobby")
	carol := attachTestClient(t, gw, registry, "Carol", "random")

	// A freshly connected client that has not joined any room yet.
	drifter := NewClient(nil, NewHub(), "test-addr")
	gw.attach(drifter)

	gw.SendToAll(EventRoomList, RoomList{Rooms: []string{"lobby", "random"}})

	assert.Equal(t, EventRoomList, nextFrame(t, alice).Event)
	assert.Equal(t, EventRoomList, nextFrame(t, carol).Event)
	assert.Equal(t, EventRoomList, nextFrame(t, drifter).Event)
}

func TestDeliveryFailureDoesNotAbortBatch(t *testing.T) {
	gw, registry := newTestGateway()
	alice := attachTestClient(t, gw, registry, "Alice", "lobby")
	bob := attachTestClient(t, gw, registry, "Bob", "lobby")

	// Saturate Bob's buffer so his delivery drops.
	for i := 0; i < cap(bob.send); i++ {
		bob.send <- []byte("filler")
	}

	gw.SendToRoom("lobby", EventMessage, ChatMessage{Name: "Alice", Text: "hi"})

	assert.Equal(t, EventMessage, nextFrame(t, alice).Event)
}

func TestDetachStopsDelivery(t *testing.T) {
	gw, registry := newTestGateway()
	alice := attachTestClient(t, gw, registry, "Alice", "lobby")

	_, ok := gw.detach(alice.id)
	require.True(t, ok)
	_, ok = gw.detach(alice.id)
	assert.False(t, ok)

	gw.SendTo(alice.id, EventMessage, ChatMessage{Text: "gone"})
	assertNoFrame(t, alice)
}
