// Package server exposes HTTP handlers, including WebSocket upgrades,
// health checks, and the built-in test page.
package server

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     checkOrigin,
}

// NewWebSocketHandler returns the handler for WebSocket upgrade requests.
// It upgrades the HTTP connection, creates a Client with a fresh connection
// id, and registers it with the hub; the hub launches the pump goroutines.
func NewWebSocketHandler(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("WebSocket upgrade failed: %v", err)
			return
		}

		client := NewClient(conn, hub, r.RemoteAddr)

		select {
		case hub.register <- client:
		case <-hub.ctx.Done():
			_ = conn.Close()
		}
	}
}

// HealthHandler provides a simple health check endpoint that returns server status.
func HealthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	_, _ = fmt.Fprintf(w, "Chat relay server is running!")
}

// TestPageHandler serves an HTML page for exercising the chat protocol by
// hand: joining rooms, sending messages, and watching rosters update.
func TestPageHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	if _, err := fmt.Fprint(w, testPageHTML); err != nil {
		log.Printf("Error writing HTML response: %v", err)
	}
}

const testPageHTML = `<!DOCTYPE html>
<html>
<head>
    <title>Chat Relay Test</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 20px; max-width: 700px; }
        #messages {
            border: 1px solid #ccc;
            height: 300px;
            padding: 10px;
            overflow-y: scroll;
            margin: 10px 0;
            background-color: #f9f9f9;
        }
        input[type="text"] { padding: 5px; margin-right: 5px; }
        button { padding: 5px 15px; cursor: pointer; }
        .admin { color: gray; font-style: italic; }
        .meta { color: #555; font-size: 0.9em; margin: 4px 0; }
        #activity { color: #999; font-style: italic; min-height: 1.2em; }
    </style>
</head>
<body>
    <h1>Chat Relay Test</h1>

    <div>
        <input type="text" id="nameInput" placeholder="Your name" maxlength="20">
        <input type="text" id="roomInput" placeholder="Room" maxlength="20">
        <button onclick="joinRoom()">Join</button>
    </div>

    <div id="messages"></div>
    <div id="activity"></div>

    <div>
        <input type="text" id="messageInput" placeholder="Type a message..." size="50">
        <button onclick="sendMessage()">Send</button>
    </div>

    <p class="meta">Users here: <span id="userList"></span></p>
    <p class="meta">Active rooms: <span id="roomList"></span></p>

    <script>
        const ws = new WebSocket('ws://' + location.host + '/ws');
        const messagesDiv = document.getElementById('messages');
        const activityDiv = document.getElementById('activity');
        let myName = '';
        let activityTimer = null;

        function emit(event, payload) {
            ws.send(JSON.stringify({ event: event, payload: payload }));
        }

        function addMessage(msg) {
            const el = document.createElement('div');
            if (msg.name === 'Admin') {
                el.className = 'admin';
                el.textContent = msg.text;
            } else {
                el.textContent = '[' + msg.time + '] ' + msg.name + ': ' + msg.text;
            }
            messagesDiv.appendChild(el);
            messagesDiv.scrollTop = messagesDiv.scrollHeight;
        }

        ws.onmessage = function(e) {
            const env = JSON.parse(e.data);
            switch (env.event) {
            case 'message':
                activityDiv.textContent = '';
                addMessage(env.payload);
                break;
            case 'previousMessages':
                env.payload.forEach(addMessage);
                break;
            case 'activity':
                activityDiv.textContent = env.payload + ' is typing...';
                clearTimeout(activityTimer);
                activityTimer = setTimeout(() => activityDiv.textContent = '', 2000);
                break;
            case 'userList':
                document.getElementById('userList').textContent =
                    env.payload.users.map(u => u.name).join(', ');
                break;
            case 'roomList':
                document.getElementById('roomList').textContent =
                    env.payload.rooms.join(', ');
                break;
            }
        };

        function joinRoom() {
            myName = document.getElementById('nameInput').value.trim();
            const room = document.getElementById('roomInput').value.trim();
            if (myName && room) {
                messagesDiv.innerHTML = '';
                emit('enterRoom', { name: myName, room: room });
            }
        }

        function sendMessage() {
            const input = document.getElementById('messageInput');
            const text = input.value.trim();
            if (text && myName) {
                emit('message', { name: myName, text: text });
                input.value = '';
            }
        }

        document.getElementById('messageInput').addEventListener('keypress', function(e) {
            if (e.key === 'Enter') {
                sendMessage();
            } else if (myName) {
                emit('activity', myName);
            }
        });
    </script>
</body>
</html>`
