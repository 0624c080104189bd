// Package viewer relays published analysis events to browser clients over
// WebSocket.
package viewer

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"speech-analyzer-service/internal/models"
)

// Event is the subset of a transcript or analysis event the viewer shows.
type Event struct {
	EventType     string                `json:"eventType"`
	InteractionID string                `json:"interactionId"`
	RunID         string                `json:"runId"`
	Timestamp     int64                 `json:"timestamp"`
	Source        string                `json:"source,omitempty"`
	Provider      string                `json:"provider,omitempty"`
	Text          string                `json:"text,omitempty"`
	Transcript    string                `json:"transcript,omitempty"`
	Sentiment     *models.Sentiment     `json:"sentiment,omitempty"`
	Intent        models.Intent         `json:"intent,omitempty"`
	Entities      []models.Entity       `json:"entities,omitempty"`
	Response      *models.SalesResponse `json:"response,omitempty"`
	DurationMs    int64                 `json:"durationMs,omitempty"`
}

// Decode parses a Kafka message value into an Event.
func Decode(value []byte) (Event, error) {
	var ev Event
	err := json.Unmarshal(value, &ev)
	return ev, err
}

// Hub fans events out to connected WebSocket clients.
type Hub struct {
	clients    map[*websocket.Conn]bool
	broadcast  chan Event
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	done       chan struct{}
	mu         sync.RWMutex
	upgrader   websocket.Upgrader
}

// NewHub creates a hub. Call Run to start dispatching.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*websocket.Conn]bool),
		broadcast:  make(chan Event, 100),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		done:       make(chan struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Publish queues an event for every connected client.
func (h *Hub) Publish(ev Event) {
	select {
	case h.broadcast <- ev:
	case <-h.done:
	}
}

// Stop ends Run and closes all client connections.
func (h *Hub) Stop() {
	close(h.done)
}

// Run dispatches registrations and broadcasts until Stop is called.
func (h *Hub) Run() {
	for {
		select {
		case <-h.done:
			h.mu.Lock()
			for conn := range h.clients {
				conn.Close()
				delete(h.clients, conn)
			}
			h.mu.Unlock()
			return

		case conn := <-h.register:
			h.mu.Lock()
			h.clients[conn] = true
			n := len(h.clients)
			h.mu.Unlock()
			log.Info().Int("clients", n).Msg("Viewer client connected")

		case conn := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				conn.Close()
			}
			n := len(h.clients)
			h.mu.Unlock()
			log.Info().Int("clients", n).Msg("Viewer client disconnected")

		case ev := <-h.broadcast:
			h.mu.Lock()
			for conn := range h.clients {
				if err := conn.WriteJSON(ev); err != nil {
					log.Warn().Err(err).Msg("WebSocket write failed")
					conn.Close()
					delete(h.clients, conn)
				}
			}
			h.mu.Unlock()
		}
	}
}

// ServeHTTP upgrades the request to a WebSocket and registers the client.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	select {
	case h.register <- conn:
	case <-h.done:
		conn.Close()
		return
	}

	go func() {
		defer func() {
			select {
			case h.unregister <- conn:
			case <-h.done:
			}
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
