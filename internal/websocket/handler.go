package websocket

import (
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// ServeWs attaches the socket to the session's watchers and blocks until
// the peer disconnects. A stopped hub refuses the socket.
func ServeWs(hub *Hub, c *websocket.Conn, sessionID uuid.UUID) {
	client := &Client{Hub: hub, Conn: c, SessionID: sessionID, Send: make(chan []byte, sendBuffer)}
	if !hub.join(client) {
		return
	}

	go client.writePump()
	client.readPump()
}
