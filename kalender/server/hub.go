package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vintervake/kodekalender/kalender/content"
	"github.com/vintervake/kodekalender/kalender/engine"
)

// Event is the JSON envelope for every real-time message pushed to the
// browser.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

type sessionMessage struct {
	sessionID string
	data      []byte
}

type client struct {
	hub       *Hub
	conn      *websocket.Conn
	sessionID string
	send      chan []byte
}

// Hub fans events out to the websocket connections of a session. A session
// may have several tabs open; every tab gets every event for its session.
type Hub struct {
	clients    map[*client]bool
	broadcast  chan sessionMessage
	register   chan *client
	unregister chan *client
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*client]bool),
		broadcast:  make(chan sessionMessage, 64),
		register:   make(chan *client),
		unregister: make(chan *client),
	}
}

// Run is the hub's event loop; call it once in a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.clients[c] = true
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
		case msg := <-h.broadcast:
			for c := range h.clients {
				if c.sessionID != msg.sessionID {
					continue
				}
				select {
				case c.send <- msg.data:
				default:
					// Slow or dead tab; drop it rather than block the loop.
					close(c.send)
					delete(h.clients, c)
				}
			}
		}
	}
}

// Publish sends an event to every connection of the session.
func (h *Hub) Publish(sessionID string, event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		slog.Error("Failed to encode event", "type", event.Type, "error", err)
		return
	}
	h.broadcast <- sessionMessage{sessionID: sessionID, data: data}
}

// BadgeObserver adapts the hub to the badge subscription interface so
// awards show up in the browser the moment they happen.
func (h *Hub) BadgeObserver(sessionID string, badge content.Badge, earned engine.EarnedBadge) {
	h.Publish(sessionID, Event{
		Type: "badge_earned",
		Payload: map[string]string{
			"badgeId":  badge.BadgeID,
			"title":    badge.Title,
			"earnedAt": earned.AwardedAt.Format(time.RFC3339),
		},
	})
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ServeWs upgrades the request and attaches the connection to the hub.
func ServeWs(hub *Hub, sessionID string, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("Websocket upgrade failed", "error", err)
		return
	}

	c := &client{hub: hub, conn: conn, sessionID: sessionID, send: make(chan []byte, 256)}
	c.hub.register <- c

	go c.writePump()
	go c.readPump()
}

// readPump drains the connection until it closes; inbound messages are
// ignored, the protocol is server-push only.
func (c *client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Debug("Websocket closed unexpectedly", "error", err)
			}
			return
		}
	}
}

func (c *client) writePump() {
	defer c.conn.Close()
	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
}
