// Package websocket is the /ws gateway: clients subscribe to storage keys and
// receive the new value of a key every time the cache changes it.
package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"github.com/shifa-s11/board-task/internal/cache"
	"github.com/shifa-s11/board-task/internal/common/logger"
	ws "github.com/shifa-s11/board-task/pkg/websocket"
)

// Hub manages all WebSocket client connections
type Hub struct {
	clients map[*Client]bool

	// Clients per subscribed storage key, and the single cache subscription
	// the hub holds for each key that has at least one client.
	keySubscribers map[string]map[*Client]bool
	cacheSubs      map[string]*cache.Subscription
	cache          *cache.Cache

	broadcast chan *ws.Message

	dispatcher *ws.Dispatcher

	mu     sync.RWMutex
	logger *logger.Logger
}

// NewHub creates a hub that serves subscriptions from c.
func NewHub(c *cache.Cache, dispatcher *ws.Dispatcher, log *logger.Logger) *Hub {
	return &Hub{
		clients:        make(map[*Client]bool),
		keySubscribers: make(map[string]map[*Client]bool),
		cacheSubs:      make(map[string]*cache.Subscription),
		cache:          c,
		broadcast:      make(chan *ws.Message, 256),
		dispatcher:     dispatcher,
		logger:         log.WithFields(zap.String("component", "ws_hub")),
	}
}

// Run starts the hub's main processing loop
func (h *Hub) Run(ctx context.Context) {
	h.logger.Info("WebSocket hub started")
	defer h.logger.Info("WebSocket hub stopped")

	for {
		select {
		case <-ctx.Done():
			h.closeAllClients()
			return

		case msg := <-h.broadcast:
			h.broadcastMessage(msg)
		}
	}
}

func (h *Hub) closeAllClients() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		close(client.send)
		delete(h.clients, client)
	}
	for key, sub := range h.cacheSubs {
		sub.Unsubscribe()
		delete(h.cacheSubs, key)
	}
	h.keySubscribers = make(map[string]map[*Client]bool)
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	close(client.send)
	for key := range client.subscriptions {
		h.dropKeyLocked(client, key)
	}
	h.logger.Debug("Client unregistered", zap.String("client_id", client.ID))
}

// dropKeyLocked removes client from key and releases the cache subscription
// once nobody listens. h.mu must be held.
func (h *Hub) dropKeyLocked(client *Client, key string) {
	delete(client.subscriptions, key)
	clients, ok := h.keySubscribers[key]
	if !ok {
		return
	}
	delete(clients, client)
	if len(clients) > 0 {
		return
	}
	delete(h.keySubscribers, key)
	if sub, ok := h.cacheSubs[key]; ok {
		sub.Unsubscribe()
		delete(h.cacheSubs, key)
	}
}

func (h *Hub) broadcastMessage(msg *ws.Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("Failed to marshal broadcast message", zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients {
		select {
		case client.send <- data:
		default:
			h.logger.Warn("Client send buffer full, dropping message", zap.String("client_id", client.ID))
		}
	}
}

// Register adds a client to the hub. Call it before starting the client's
// pumps.
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	h.mu.Unlock()
	h.logger.Debug("Client registered", zap.String("client_id", client.ID))
}

// Unregister removes a client from the hub. It is safe after Run has
// returned and for clients that were already removed.
func (h *Hub) Unregister(client *Client) {
	h.removeClient(client)
}

// Broadcast queues a notification for every connected client. It never
// blocks: callers run inside store mutations.
func (h *Hub) Broadcast(msg *ws.Message) {
	select {
	case h.broadcast <- msg:
	default:
		h.logger.Warn("Broadcast queue full, dropping message", zap.String("action", msg.Action))
	}
}

// BroadcastToKey sends msg to the clients subscribed to key.
func (h *Hub) BroadcastToKey(key string, msg *ws.Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("Failed to marshal message", zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.keySubscribers[key] {
		select {
		case client.send <- data:
		default:
			h.logger.Warn("Client send buffer full, dropping update",
				zap.String("client_id", client.ID),
				zap.String("key", key))
		}
	}
}

// SubscribeKeys subscribes client to keys and queues the reply to req with
// their current values. The reply is queued before h.mu is released, and
// onCacheUpdate needs h.mu to fan out, so no cache.updated push for these
// keys can reach the client ahead of it. A client that already left gets
// nothing.
func (h *Hub) SubscribeKeys(ctx context.Context, client *Client, req *ws.Message, keys []string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.clients[client] {
		return nil
	}
	values := make(map[string]interface{}, len(keys))
	for _, key := range keys {
		if _, ok := h.keySubscribers[key]; !ok {
			h.keySubscribers[key] = make(map[*Client]bool)
		}
		h.keySubscribers[key][client] = true
		client.subscriptions[key] = true

		if _, ok := h.cacheSubs[key]; !ok {
			_, sub := h.cache.Subscribe(ctx, key, h.onCacheUpdate)
			h.cacheSubs[key] = sub
		}
		values[key] = h.cache.Get(ctx, key)
	}

	resp, err := ws.NewResponse(req.ID, req.Action, ws.CacheValues{Values: values})
	if err != nil {
		return err
	}
	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	h.queueLocked(client, data)

	h.logger.Debug("Client subscribed to keys",
		zap.String("client_id", client.ID),
		zap.Strings("keys", keys))
	return nil
}

// UnsubscribeKeys removes client from keys.
func (h *Hub) UnsubscribeKeys(client *Client, keys []string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, key := range keys {
		h.dropKeyLocked(client, key)
	}
}

// onCacheUpdate runs synchronously inside the cache mutation and only
// enqueues.
func (h *Hub) onCacheUpdate(key string, value any) {
	msg, err := ws.NewNotification(ws.ActionCacheUpdated, ws.CacheUpdate{Key: key, Value: value})
	if err != nil {
		h.logger.Error("failed to build cache notification", zap.String("key", key), zap.Error(err))
		return
	}
	h.BroadcastToKey(key, msg)
}

// send queues data for client unless the client is already gone.
func (h *Hub) send(client *Client, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if !h.clients[client] {
		return
	}
	h.queueLocked(client, data)
}

// queueLocked never blocks. h.mu must be held.
func (h *Hub) queueLocked(client *Client, data []byte) {
	select {
	case client.send <- data:
	default:
		h.logger.Warn("Client send buffer full", zap.String("client_id", client.ID))
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// KeySubscriberCount returns the number of clients subscribed to key.
func (h *Hub) KeySubscriberCount(key string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.keySubscribers[key])
}
