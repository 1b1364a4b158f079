package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"study-assistant-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const clusterChannel = "study_cluster_events"

// Hub tracks the live connections of every study session. With redis it
// also relays frames to connections held by other instances.
type Hub struct {
	// session id -> connections (several tabs may share a session)
	clients map[string][]*Client

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	rdb      *redis.Client
	instance string

	logger logger.ILogger
}

type clusterMessage struct {
	Origin    string          `json:"origin"`
	SessionID string          `json:"session_id"`
	Message   json.RawMessage `json:"message"`
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[string][]*Client),
		rdb:        rdb,
		instance:   uuid.NewString(),
		logger:     log,
	}
}

func (h *Hub) Run() {
	if h.rdb != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.SessionID] = append(h.clients[client.SessionID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"session_id": client.SessionID})

		case client := <-h.unregister:
			h.mu.Lock()
			clients := h.clients[client.SessionID]
			for i, c := range clients {
				if c == client {
					h.clients[client.SessionID] = append(clients[:i], clients[i+1:]...)
					break
				}
			}
			if len(h.clients[client.SessionID]) == 0 {
				delete(h.clients, client.SessionID)
				h.logger.Info("Hub", "Session has no more connections", map[string]interface{}{"session_id": client.SessionID})
			}
			h.mu.Unlock()
		}
	}
}

// SendToSession delivers payload to every connection of the session, here and
// on other instances.
func (h *Hub) SendToSession(sessionID string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("Hub", "Failed to encode frame", map[string]interface{}{"error": err.Error()})
		return
	}

	h.deliverLocal(sessionID, data)

	if h.rdb != nil {
		msg, _ := json.Marshal(clusterMessage{Origin: h.instance, SessionID: sessionID, Message: data})
		if err := h.rdb.Publish(context.Background(), clusterChannel, msg).Err(); err != nil {
			h.logger.Warn("Hub", "Failed to relay frame to cluster", map[string]interface{}{"error": err.Error()})
		}
	}
}

// Connections reports how many local connections a session has.
func (h *Hub) Connections(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[sessionID])
}

func (h *Hub) deliverLocal(sessionID string, data []byte) {
	h.mu.RLock()
	clients := append([]*Client(nil), h.clients[sessionID]...)
	h.mu.RUnlock()

	for _, client := range clients {
		if !client.enqueue(data) {
			h.logger.Warn("Hub", "Client send buffer full, dropping frame", map[string]interface{}{"session_id": sessionID})
		}
	}
}

func (h *Hub) subscribeToRedis() {
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, clusterChannel)
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		var payload clusterMessage
		if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
			h.logger.Warn("Hub", "Cluster message parse error", map[string]interface{}{"error": err.Error()})
			continue
		}
		if payload.Origin == h.instance {
			continue
		}
		h.deliverLocal(payload.SessionID, payload.Message)
	}
}
