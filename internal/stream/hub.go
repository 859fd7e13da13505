// Package stream fans out live updates to SSE and WebSocket subscribers.
package stream

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/markjakearzadon/nammakodai-gobackend/internal/models"
)

// AdminTopic receives dashboard snapshots from the Poller.
const AdminTopic = "admin"

// Event names sent on the wire.
const (
	EventUser         = "user"
	EventInitial      = "initial"
	EventUsers        = "users"
	EventTransactions = "transactions"
	EventPing         = "ping"
)

// UserTopic is the topic carrying updates for one user document.
func UserTopic(userID string) string {
	return "user:" + userID
}

type Message struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

// Client is one live subscription. Send is closed by Unsubscribe.
type Client struct {
	Topic string
	Send  chan Message

	dropped int
}

// Hub is a topic-keyed broadcaster. Publish never blocks: a subscriber whose
// buffer is full misses the message.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{}
	buffer  int
}

func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = 16
	}
	return &Hub{clients: make(map[string]map[*Client]struct{}), buffer: buffer}
}

func (h *Hub) Subscribe(topic string) *Client {
	c := &Client{Topic: topic, Send: make(chan Message, h.buffer)}
	h.mu.Lock()
	if h.clients[topic] == nil {
		h.clients[topic] = make(map[*Client]struct{})
	}
	h.clients[topic][c] = struct{}{}
	h.mu.Unlock()
	return c
}

// Unsubscribe removes c and closes its channel. Safe to call twice.
func (h *Hub) Unsubscribe(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	clients, ok := h.clients[c.Topic]
	if !ok {
		return
	}
	if _, ok := clients[c]; !ok {
		return
	}
	delete(clients, c)
	close(c.Send)
	if len(clients) == 0 {
		delete(h.clients, c.Topic)
	}
}

// Publish delivers a message to every subscriber of topic and returns how
// many received it.
func (h *Hub) Publish(topic, msgType string, data interface{}) int {
	msg := Message{Type: msgType, Data: data, Timestamp: time.Now()}

	h.mu.Lock()
	defer h.mu.Unlock()
	delivered := 0
	for c := range h.clients[topic] {
		select {
		case c.Send <- msg:
			delivered++
		default:
			c.dropped++
			log.Warn().Str("topic", topic).Str("type", msgType).Int("dropped", c.dropped).Msg("subscriber buffer full")
		}
	}
	return delivered
}

func (h *Hub) Subscribers(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[topic])
}

// NotifyUser publishes the user's client view to its topic.
func (h *Hub) NotifyUser(u *models.User) {
	if u == nil {
		return
	}
	h.Publish(UserTopic(u.ID.Hex()), EventUser, u.View())
}
