package ws

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins; rely on JWT auth.
		return true
	},
}

// TelemetryHandler upgrades an authenticated operator connection and joins
// it to the hub.
func TelemetryHandler(hub *TelemetryHub) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := c.Get("operator"); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "unauthorized"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		client := newTelemetryClient(hub, conn)
		hub.register <- client

		go client.writePump()
		client.readPump()
	}
}
