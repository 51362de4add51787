package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/ikkim/hotel-admin-backend/pkg/logger"
)

const (
	// maximum inbound messages per client per second
	maxMessagesPerSecond = 10

	sendBufferSize = 64
)

// Event is the JSON document pushed to clients
type Event struct {
	Type    string      `json:"type"` // hotel_status_changed, hotel_submitted, pong
	Payload interface{} `json:"payload,omitempty"`
	SentAt  time.Time   `json:"sentAt"`
}

// ClientMessage is what a client may send; only ping is understood
type ClientMessage struct {
	Type string `json:"type"`
}

// Client is one websocket session of a user
type Client struct {
	Hub    *Hub
	Conn   *Conn
	UserID uint
	Role   string
	Send   chan []byte

	rateMu        sync.Mutex
	messageCount  int
	lastResetTime time.Time
}

// NewClient builds a session ready to be registered
func NewClient(hub *Hub, conn *Conn, userID uint, role string) *Client {
	return &Client{
		Hub:    hub,
		Conn:   conn,
		UserID: userID,
		Role:   role,
		Send:   make(chan []byte, sendBufferSize),
	}
}

type delivery struct {
	userID  uint   // 0 when addressed by role
	role    string // "" when addressed by user
	message []byte
}

// Hub tracks sessions per user (multi-device) and fans events out
type Hub struct {
	clients map[uint][]*Client

	register   chan *Client
	unregister chan *Client
	deliver    chan delivery

	mu sync.RWMutex

	// OnSessionsChanged, when set, receives the session count after each change
	OnSessionsChanged func(total int)
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[uint][]*Client),
		register:   make(chan *Client, 256),
		unregister: make(chan *Client, 256),
		deliver:    make(chan delivery, 1024),
	}
}

// Run processes registrations and deliveries until ctx is done
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.UserID] = append(h.clients[client.UserID], client)
			sessions := len(h.clients[client.UserID])
			h.mu.Unlock()
			h.sessionsChanged()
			logger.Info("WebSocket client registered", map[string]interface{}{
				"user_id":        client.UserID,
				"role":           client.Role,
				"total_sessions": sessions,
			})

		case client := <-h.unregister:
			h.remove(client)

		case d := <-h.deliver:
			h.fanOut(d)
		}
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	list, ok := h.clients[client.UserID]
	if !ok {
		h.mu.Unlock()
		return
	}
	kept := make([]*Client, 0, len(list))
	found := false
	for _, c := range list {
		if c == client {
			found = true
			continue
		}
		kept = append(kept, c)
	}
	if len(kept) == 0 {
		delete(h.clients, client.UserID)
	} else {
		h.clients[client.UserID] = kept
	}
	if found {
		close(client.Send)
	}
	remaining := len(kept)
	h.mu.Unlock()

	if found {
		h.sessionsChanged()
		logger.Info("WebSocket client unregistered", map[string]interface{}{
			"user_id":            client.UserID,
			"remaining_sessions": remaining,
		})
	}
}

func (h *Hub) fanOut(d delivery) {
	var targets []*Client
	h.mu.RLock()
	if d.userID != 0 {
		targets = append(targets, h.clients[d.userID]...)
	} else {
		for _, list := range h.clients {
			for _, c := range list {
				if c.Role == d.role {
					targets = append(targets, c)
				}
			}
		}
	}
	h.mu.RUnlock()

	for _, client := range targets {
		select {
		case client.Send <- d.message:
		default:
			// slow consumer
			go h.Unregister(client)
			logger.Warn("Client send buffer full, disconnecting", map[string]interface{}{
				"user_id": client.UserID,
			})
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	for userID, list := range h.clients {
		for _, c := range list {
			close(c.Send)
		}
		delete(h.clients, userID)
	}
	h.mu.Unlock()
	h.sessionsChanged()
}

func (h *Hub) sessionsChanged() {
	if h.OnSessionsChanged != nil {
		h.OnSessionsChanged(h.SessionCount())
	}
}

func encode(eventType string, payload interface{}) ([]byte, error) {
	return json.Marshal(Event{Type: eventType, Payload: payload, SentAt: time.Now().UTC()})
}

func (h *Hub) enqueue(d delivery) {
	select {
	case h.deliver <- d:
	default:
		logger.Warn("Delivery channel full, event dropped", map[string]interface{}{
			"user_id": d.userID,
			"role":    d.role,
		})
	}
}

// SendToUser pushes an event to every session of userID. Delivery is best
// effort; an offline user simply misses it.
func (h *Hub) SendToUser(userID uint, eventType string, payload interface{}) error {
	data, err := encode(eventType, payload)
	if err != nil {
		logger.Error("Failed to marshal event", err)
		return err
	}
	h.enqueue(delivery{userID: userID, message: data})
	return nil
}

// SendToRole pushes an event to every session whose user has role
func (h *Hub) SendToRole(role, eventType string, payload interface{}) error {
	data, err := encode(eventType, payload)
	if err != nil {
		logger.Error("Failed to marshal event", err)
		return err
	}
	h.enqueue(delivery{role: role, message: data})
	return nil
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// IsUserOnline reports whether userID has at least one session
func (h *Hub) IsUserOnline(userID uint) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[userID]
	return ok
}

// SessionCount returns the number of open sessions
func (h *Hub) SessionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, list := range h.clients {
		n += len(list)
	}
	return n
}

// HandleClientMessage answers pings and drops everything else
func (h *Hub) HandleClientMessage(client *Client, message []byte) {
	client.rateMu.Lock()
	now := time.Now()
	if now.Sub(client.lastResetTime) >= time.Second {
		client.messageCount = 0
		client.lastResetTime = now
	}
	client.messageCount++
	count := client.messageCount
	client.rateMu.Unlock()

	if count > maxMessagesPerSecond {
		logger.Warn("Rate limit exceeded", map[string]interface{}{
			"user_id": client.UserID,
			"count":   count,
		})
		return
	}

	var msg ClientMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		logger.Warn("Failed to parse client message", map[string]interface{}{
			"user_id": client.UserID,
			"error":   err.Error(),
		})
		return
	}

	if msg.Type == "ping" {
		data, err := encode("pong", nil)
		if err != nil {
			return
		}
		select {
		case client.Send <- data:
		default:
		}
	}
}
