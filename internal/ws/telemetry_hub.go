package ws

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gorilla/websocket"

	"github.com/campuscard/card_backend/internal/models"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	sendBufferSize = 256
)

// TelemetryEvent is pushed to operator dashboards: every saved system log,
// and every anomaly the detector raised.
type TelemetryEvent struct {
	Kind    string            `json:"kind"` // "log" | "anomaly"
	Log     *models.SystemLog `json:"log,omitempty"`
	Anomaly *models.Anomaly   `json:"anomaly,omitempty"`
}

// TelemetryHub fans saved telemetry out to connected websocket clients.
type TelemetryHub struct {
	register   chan *telemetryClient
	unregister chan *telemetryClient
	broadcast  chan []byte
	clients    map[*telemetryClient]struct{}
}

func NewTelemetryHub() *TelemetryHub {
	return &TelemetryHub{
		register:   make(chan *telemetryClient),
		unregister: make(chan *telemetryClient),
		broadcast:  make(chan []byte, 256),
		clients:    make(map[*telemetryClient]struct{}),
	}
}

func (h *TelemetryHub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = struct{}{}
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				client.conn.Close()
			}
		case msg := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- msg:
				default:
					delete(h.clients, client)
					close(client.send)
					client.conn.Close()
				}
			}
		}
	}
}

// Broadcast pushes the event to all connected clients. Safe on a nil hub so
// callers need no wiring checks.
func (h *TelemetryHub) Broadcast(event TelemetryEvent) {
	if h == nil {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("ws: failed to marshal event: %v", err)
		return
	}
	h.broadcast <- data
}

type telemetryClient struct {
	hub  *TelemetryHub
	conn *websocket.Conn
	send chan []byte
}

func newTelemetryClient(hub *TelemetryHub, conn *websocket.Conn) *telemetryClient {
	return &telemetryClient{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, sendBufferSize),
	}
}

func (c *telemetryClient) readPump() {
	defer func() {
		c.hub.unregister <- c
	}()
	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (c *telemetryClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			if _, err := w.Write(msg); err != nil {
				return
			}
			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
