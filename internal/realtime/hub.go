// Package realtime pushes state changes to connected websocket clients.
package realtime

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/besufkad2328-dev/SEED/pkg/utils"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const pingInterval = 25 * time.Second

// Event names published by the services.
const (
	EventMealLogged      = "meal.logged"
	EventHydrationLogged = "hydration.logged"
	EventProfileUpdated  = "profile.updated"
	EventPlanUpdated     = "plan.updated"
	EventShoppingUpdated = "shopping.updated"
	EventStateReset      = "state.reset"
)

type Message struct {
	Event string    `json:"event"`
	Data  any       `json:"data,omitempty"`
	At    time.Time `json:"at"`
}

type client struct {
	key  string
	conn *websocket.Conn
	mu   sync.Mutex
	once sync.Once
}

func (c *client) write(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return c.conn.WriteMessage(messageType, data)
}

// Hub fans events out to every connection registered under a state key.
type Hub struct {
	mu       sync.RWMutex
	clients  map[string]map[*client]struct{}
	upgrader websocket.Upgrader
	now      func() time.Time
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]map[*client]struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		now: time.Now,
	}
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	if h.clients[c.key] == nil {
		h.clients[c.key] = make(map[*client]struct{})
	}
	h.clients[c.key][c] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) unregister(c *client) {
	c.once.Do(func() {
		h.mu.Lock()
		if set := h.clients[c.key]; set != nil {
			delete(set, c)
			if len(set) == 0 {
				delete(h.clients, c.key)
			}
		}
		h.mu.Unlock()
		_ = c.conn.Close()
	})
}

// Clients returns the number of open connections for key.
func (h *Hub) Clients(key string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[key])
}

// Publish sends an event to every client of key. Failed writes drop the client.
func (h *Hub) Publish(key, event string, payload any) {
	msg, err := json.Marshal(Message{Event: event, Data: payload, At: h.now()})
	if err != nil {
		utils.Log.Warn("realtime: marshal event", zap.String("event", event), zap.Error(err))
		return
	}

	h.mu.RLock()
	targets := make([]*client, 0, len(h.clients[key]))
	for c := range h.clients[key] {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	for _, c := range targets {
		if err := c.write(websocket.TextMessage, msg); err != nil {
			h.unregister(c)
		}
	}
}

// Serve upgrades the request and blocks until the client goes away.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, key string) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		utils.Log.Debug("realtime: upgrade failed", zap.Error(err))
		return
	}
	c := &client{key: key, conn: conn}
	h.register(c)

	done := make(chan struct{})
	defer close(done)
	go func() {
		t := time.NewTicker(pingInterval)
		defer t.Stop()
		for {
			select {
			case <-done:
				return
			case <-t.C:
				if err := c.write(websocket.PingMessage, nil); err != nil {
					h.unregister(c)
					return
				}
			}
		}
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.unregister(c)
			return
		}
	}
}
