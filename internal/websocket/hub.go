package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"mindforge-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	clusterChannel = "cluster_events"

	// frames waiting to go out to Redis; more are dropped
	clusterBuffer       = 1024
	redisPublishTimeout = 2 * time.Second
)

// Frame is what a watcher receives for every event of a live turn.
type Frame struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

type clusterMessage struct {
	Origin          string          `json:"origin"`
	TargetSessionID string          `json:"target_session_id"`
	Message         json.RawMessage `json:"message"`
}

// Hub fans live turn events out to the sockets watching each session, on
// this instance and, through Redis, on every other one.
type Hub struct {
	id string

	// session id -> watchers
	clients map[uuid.UUID]map[*Client]struct{}

	register   chan *Client
	unregister chan *Client

	// closed when Run returns
	done chan struct{}

	// encoded cluster messages for the Redis forwarder
	outbound chan []byte

	mu sync.RWMutex

	// nil means local-only fan-out
	rdb *redis.Client

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		id:         uuid.NewString(),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		outbound:   make(chan []byte, clusterBuffer),
		clients:    make(map[uuid.UUID]map[*Client]struct{}),
		rdb:        rdb,
		logger:     log,
	}
}

// Run serves registrations until ctx is done. It must be called once.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	if h.rdb != nil {
		go h.subscribeToRedis(ctx)
		go h.forwardToRedis(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.SessionID] == nil {
				h.clients[client.SessionID] = make(map[*Client]struct{})
			}
			h.clients[client.SessionID][client] = struct{}{}
			h.mu.Unlock()
			h.logger.Info("Hub", "Watcher registered", map[string]interface{}{"session_id": client.SessionID})

		case client := <-h.unregister:
			h.remove(client)
		}
	}
}

// join registers the client. It reports false once the hub has stopped.
func (h *Hub) join(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// leave unregisters the client; after shutdown there is nothing to leave.
func (h *Hub) leave(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// remove closes the client's Send channel once, however often it is called.
func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	watchers, ok := h.clients[client.SessionID]
	if !ok {
		return
	}
	if _, ok := watchers[client]; !ok {
		return
	}
	delete(watchers, client)
	close(client.Send)
	if len(watchers) == 0 {
		delete(h.clients, client.SessionID)
		h.logger.Info("Hub", "Session has no watchers left", map[string]interface{}{"session_id": client.SessionID})
	}
}

// Watchers reports how many local sockets watch the session.
func (h *Hub) Watchers(sessionID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[sessionID])
}

// Publish sends one event to every watcher of the session. It never waits
// on Redis: cluster frames are queued for the forwarder and dropped when the
// queue is full.
func (h *Hub) Publish(sessionID uuid.UUID, event string, data interface{}) {
	msg, err := json.Marshal(Frame{Event: event, Data: data})
	if err != nil {
		h.logger.Error("Hub", "Failed to encode frame", map[string]interface{}{"event": event, "error": err.Error()})
		return
	}

	h.deliverLocal(sessionID, msg)

	if h.rdb != nil {
		payload, _ := json.Marshal(clusterMessage{
			Origin:          h.id,
			TargetSessionID: sessionID.String(),
			Message:         msg,
		})
		select {
		case h.outbound <- payload:
		default:
			h.logger.Warn("Hub", "Redis queue full, frame not forwarded", map[string]interface{}{"session_id": sessionID, "event": event})
		}
	}
}

func (h *Hub) forwardToRedis(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case payload := <-h.outbound:
			pubCtx, cancel := context.WithTimeout(ctx, redisPublishTimeout)
			err := h.rdb.Publish(pubCtx, clusterChannel, payload).Err()
			cancel()
			if err != nil {
				h.logger.Warn("Hub", "Redis publish failed", map[string]interface{}{"error": err.Error()})
			}
		}
	}
}

func (h *Hub) deliverLocal(sessionID uuid.UUID, msg []byte) {
	var slow []*Client

	h.mu.RLock()
	for client := range h.clients[sessionID] {
		select {
		case client.Send <- msg:
		default:
			slow = append(slow, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range slow {
		h.logger.Warn("Hub", "Watcher buffer full, dropping it", map[string]interface{}{"session_id": sessionID})
		h.remove(client)
	}
}

func (h *Hub) subscribeToRedis(ctx context.Context) {
	pubsub := h.rdb.Subscribe(ctx, clusterChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			h.handleClusterMessage([]byte(msg.Payload))
		}
	}
}

func (h *Hub) handleClusterMessage(raw []byte) {
	var payload clusterMessage
	if err := json.Unmarshal(raw, &payload); err != nil {
		h.logger.Warn("Hub", "Redis message parse error", map[string]interface{}{"error": err.Error()})
		return
	}
	if payload.Origin == h.id {
		return
	}
	sessionID, err := uuid.Parse(payload.TargetSessionID)
	if err != nil {
		return
	}
	h.deliverLocal(sessionID, payload.Message)
}
