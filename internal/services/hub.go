package services

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Event types pushed to draft dashboards.
const (
	EventSheetUpdated = "sheet_updated"
	EventDraftPick    = "draft_pick"
	EventDraftReset   = "draft_reset"
)

// Event is one WebSocket message. Session is the draft session public ID
// for session-scoped events and empty for league-wide ones.
type Event struct {
	Type      string      `json:"type"`
	Session   string      `json:"session,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

// Client represents one dashboard connection. A client subscribed to a
// draft session receives that session's pick events on top of league-wide
// broadcasts.
type Client struct {
	ID        string
	SessionID string
	Conn      *websocket.Conn
	Send      chan []byte
	Hub       *WebSocketHub
}

// WebSocketHub fans events out to connected dashboards.
type WebSocketHub struct {
	// Registered clients
	clients map[*Client]bool

	// Register requests from clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Broadcast messages to all clients
	broadcast chan []byte

	// Session-scoped client lists keyed by session public ID
	sessions map[string][]*Client

	mu sync.RWMutex

	logger *logrus.Logger
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Dashboards are served from arbitrary dev hosts; CORS guards the
		// REST surface.
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// NewWebSocketHub creates a new hub.
func NewWebSocketHub(logger *logrus.Logger) *WebSocketHub {
	if logger == nil {
		logger = logrus.New()
	}
	return &WebSocketHub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte),
		sessions:   make(map[string][]*Client),
		logger:     logger,
	}
}

// Run starts the hub and handles client registration/unregistration.
func (h *WebSocketHub) Run() {
	h.logger.Info("Starting WebSocket hub")

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			if client.SessionID != "" {
				h.sessions[client.SessionID] = append(h.sessions[client.SessionID], client)
			}
			h.mu.Unlock()

			h.logger.WithFields(logrus.Fields{
				"client_id": client.ID,
				"session":   client.SessionID,
			}).Info("Client registered")

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)

				if client.SessionID != "" {
					if clients, exists := h.sessions[client.SessionID]; exists {
						for i, c := range clients {
							if c == client {
								h.sessions[client.SessionID] = append(clients[:i], clients[i+1:]...)
								break
							}
						}
						if len(h.sessions[client.SessionID]) == 0 {
							delete(h.sessions, client.SessionID)
						}
					}
				}
			}
			h.mu.Unlock()

			h.logger.WithFields(logrus.Fields{
				"client_id": client.ID,
				"session":   client.SessionID,
			}).Info("Client unregistered")

		case message := <-h.broadcast:
			// Write lock: slow clients are dropped from the map here.
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.Send <- message:
				default:
					close(client.Send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// HandleConnection upgrades a dashboard request. An optional ?session=
// query subscribes the connection to one draft session's events.
func (h *WebSocketHub) HandleConnection(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.WithError(err).Error("Failed to upgrade WebSocket connection")
		return
	}

	client := &Client{
		ID:        uuid.NewString(),
		SessionID: c.Query("session"),
		Conn:      conn,
		Send:      make(chan []byte, 256),
		Hub:       h,
	}

	h.register <- client

	go client.writePump()
	go client.readPump()
}

// BroadcastToSession sends an event to every client watching one draft
// session.
func (h *WebSocketHub) BroadcastToSession(sessionID, eventType string, data interface{}) {
	payload, err := json.Marshal(Event{
		Type:      eventType,
		Session:   sessionID,
		Data:      data,
		Timestamp: time.Now().Unix(),
	})
	if err != nil {
		h.logger.WithError(err).Error("Failed to marshal session event")
		return
	}

	h.mu.RLock()
	clients := h.sessions[sessionID]
	h.mu.RUnlock()

	if len(clients) == 0 {
		h.logger.WithField("session", sessionID).Debug("No active connections for session")
		return
	}

	for _, client := range clients {
		select {
		case client.Send <- payload:
		default:
			h.logger.WithField("session", sessionID).Warn("Failed to send event to client")
		}
	}
}

// BroadcastAll sends an event to every connected client.
func (h *WebSocketHub) BroadcastAll(eventType string, data interface{}) {
	payload, err := json.Marshal(Event{
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now().Unix(),
	})
	if err != nil {
		h.logger.WithError(err).Error("Failed to marshal broadcast event")
		return
	}

	h.broadcast <- payload
}

// ClientCount reports how many dashboards are connected.
func (h *WebSocketHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// readPump drains the connection so pings and close frames are processed.
func (c *Client) readPump() {
	defer func() {
		c.Hub.unregister <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, _, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Hub.logger.WithError(err).Error("WebSocket error")
			}
			break
		}
	}
}

// writePump flushes queued events and keeps the connection alive.
func (c *Client) writePump() {
	ticker := time.NewTicker(54 * time.Second)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Fold queued events into the same frame.
			n := len(c.Send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.Send)
			}

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
