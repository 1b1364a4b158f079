package websocket

import (
	"github.com/gofiber/websocket/v2"
)

// ServeWs registers the connection with the hub and blocks until it closes.
func ServeWs(hub *Hub, conn *websocket.Conn, sessionID string, handle MessageHandler) {
	client := newClient(hub, conn, sessionID)
	hub.register <- client

	go client.writePump()
	client.readPump(handle)
}
