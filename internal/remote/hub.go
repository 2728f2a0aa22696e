package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"revealtimer/internal/core/countdown"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// HubConfig contains websocket timing and sizing.
type HubConfig struct {
	WriteTimeout    time.Duration
	ReadTimeout     time.Duration
	PingInterval    time.Duration
	MaxMessageSize  int64
	SendBuffer      int
	ReadBufferSize  int
	WriteBufferSize int
}

// DefaultHubConfig returns the settings used by the remote server.
func DefaultHubConfig() HubConfig {
	return HubConfig{
		WriteTimeout:    10 * time.Second,
		ReadTimeout:     60 * time.Second,
		PingInterval:    30 * time.Second,
		MaxMessageSize:  1024,
		SendBuffer:      64,
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}
}

// Hub fans countdown events out to websocket clients and applies the
// control messages they send.
type Hub struct {
	mu          sync.RWMutex
	connections map[*Connection]bool
	upgrader    websocket.Upgrader
	config      HubConfig
	controller  Controller
}

// Connection is one websocket client.
type Connection struct {
	ID          uuid.UUID
	Conn        *websocket.Conn
	Send        chan []byte
	hub         *Hub
	ConnectedAt time.Time
}

// clientMessage is what clients send over the socket.
type clientMessage struct {
	Action  string `json:"action"`
	Minutes int    `json:"minutes,omitempty"`
}

// NewHub creates a hub applying client actions to controller.
func NewHub(config HubConfig, controller Controller) *Hub {
	if config.SendBuffer <= 0 {
		config.SendBuffer = DefaultHubConfig().SendBuffer
	}
	return &Hub{
		connections: make(map[*Connection]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		config:     config,
		controller: controller,
	}
}

// Run broadcasts events until ctx ends or events closes.
func (hub *Hub) Run(ctx context.Context, events <-chan countdown.Event) {
	for {
		select {
		case <-ctx.Done():
			hub.closeAll()
			return
		case event, ok := <-events:
			if !ok {
				hub.closeAll()
				return
			}
			hub.Broadcast(event)
		}
	}
}

// Broadcast sends event to every client. Clients that cannot keep up are
// dropped.
func (hub *Hub) Broadcast(event countdown.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal event for broadcast")
		return
	}

	// Sends happen under the read lock so unregister cannot close a
	// channel mid-send.
	var slow []*Connection
	hub.mu.RLock()
	for connection := range hub.connections {
		select {
		case connection.Send <- data:
		default:
			slow = append(slow, connection)
		}
	}
	hub.mu.RUnlock()

	for _, connection := range slow {
		log.Warn().Str("connection_id", connection.ID.String()).Msg("send buffer full, closing connection")
		hub.unregister(connection)
		connection.Conn.Close()
	}
}

// Count returns the number of connected clients.
func (hub *Hub) Count() int {
	hub.mu.RLock()
	defer hub.mu.RUnlock()
	return len(hub.connections)
}

// Upgrade turns the request into a websocket client. The client first
// receives the current snapshot.
func (hub *Hub) Upgrade(w http.ResponseWriter, r *http.Request) error {
	conn, err := hub.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return fmt.Errorf("upgrade connection: %w", err)
	}

	connection := &Connection{
		ID:          uuid.New(),
		Conn:        conn,
		Send:        make(chan []byte, hub.config.SendBuffer),
		hub:         hub,
		ConnectedAt: time.Now(),
	}

	greeting, err := json.Marshal(countdown.Event{
		Type:     countdown.EventConfigured,
		Snapshot: hub.controller.Snapshot(),
		At:       time.Now(),
	})
	if err == nil {
		connection.Send <- greeting
	}

	hub.register(connection)
	go connection.writePump()
	go connection.readPump()

	log.Info().Str("connection_id", connection.ID.String()).Msg("remote client connected")
	return nil
}

func (hub *Hub) register(connection *Connection) {
	hub.mu.Lock()
	defer hub.mu.Unlock()
	hub.connections[connection] = true
}

func (hub *Hub) unregister(connection *Connection) {
	hub.mu.Lock()
	defer hub.mu.Unlock()
	if _, ok := hub.connections[connection]; ok {
		delete(hub.connections, connection)
		close(connection.Send)
		log.Info().Str("connection_id", connection.ID.String()).Msg("remote client disconnected")
	}
}

func (hub *Hub) closeAll() {
	hub.mu.RLock()
	targets := make([]*Connection, 0, len(hub.connections))
	for connection := range hub.connections {
		targets = append(targets, connection)
	}
	hub.mu.RUnlock()
	for _, connection := range targets {
		hub.unregister(connection)
	}
}

func (connection *Connection) writePump() {
	ticker := time.NewTicker(connection.hub.config.PingInterval)
	defer func() {
		ticker.Stop()
		connection.Conn.Close()
		connection.hub.unregister(connection)
	}()

	for {
		select {
		case message, ok := <-connection.Send:
			_ = connection.Conn.SetWriteDeadline(time.Now().Add(connection.hub.config.WriteTimeout))
			if !ok {
				_ = connection.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := connection.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Debug().Err(err).Str("connection_id", connection.ID.String()).Msg("write failed")
				return
			}
		case <-ticker.C:
			_ = connection.Conn.SetWriteDeadline(time.Now().Add(connection.hub.config.WriteTimeout))
			if err := connection.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (connection *Connection) readPump() {
	defer func() {
		connection.hub.unregister(connection)
		connection.Conn.Close()
	}()

	connection.Conn.SetReadLimit(connection.hub.config.MaxMessageSize)
	_ = connection.Conn.SetReadDeadline(time.Now().Add(connection.hub.config.ReadTimeout))
	connection.Conn.SetPongHandler(func(string) error {
		return connection.Conn.SetReadDeadline(time.Now().Add(connection.hub.config.ReadTimeout))
	})

	for {
		_, data, err := connection.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debug().Err(err).Str("connection_id", connection.ID.String()).Msg("unexpected close")
			}
			return
		}
		_ = connection.Conn.SetReadDeadline(time.Now().Add(connection.hub.config.ReadTimeout))

		var message clientMessage
		if err := json.Unmarshal(data, &message); err != nil {
			log.Debug().Err(err).Str("connection_id", connection.ID.String()).Msg("ignoring malformed client message")
			continue
		}
		if message.Action == "configure" {
			connection.hub.controller.Configure(message.Minutes)
			continue
		}
		if err := apply(connection.hub.controller, message.Action); err != nil {
			log.Debug().Err(err).Str("connection_id", connection.ID.String()).Msg("ignoring client action")
		}
	}
}
