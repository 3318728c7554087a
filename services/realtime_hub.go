package services

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	EventMealLogged    = "meal.logged"
	EventMealDeleted   = "meal.deleted"
	EventAdviceWarning = "advice.warning"

	writeWait = 5 * time.Second
)

// Event is what gets pushed to a user's websocket connections.
type Event struct {
	Type string    `json:"type"`
	At   time.Time `json:"at"`
	Data any       `json:"data,omitempty"`
}

// Publisher delivers events to a user. A nil Publisher is never passed
// around; use NopPublisher instead.
type Publisher interface {
	Publish(userID uint, ev Event)
}

type NopPublisher struct{}

func (NopPublisher) Publish(uint, Event) {}

// wsConn is the part of *websocket.Conn the hub writes through.
type wsConn interface {
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

type WSClient struct {
	UserID uint
	Conn   wsConn

	mu sync.Mutex
}

func (c *WSClient) write(msg []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.Conn.WriteMessage(websocket.TextMessage, msg)
}

type RealtimeHub struct {
	mu      sync.RWMutex
	clients map[uint]map[*WSClient]struct{}
	log     logrus.FieldLogger
}

func NewRealtimeHub(log logrus.FieldLogger) *RealtimeHub {
	return &RealtimeHub{clients: make(map[uint]map[*WSClient]struct{}), log: log}
}

func (h *RealtimeHub) Register(c *WSClient) {
	h.mu.Lock()
	if h.clients[c.UserID] == nil {
		h.clients[c.UserID] = make(map[*WSClient]struct{})
	}
	h.clients[c.UserID][c] = struct{}{}
	h.mu.Unlock()
	RealtimeClients.Inc()
}

func (h *RealtimeHub) Unregister(c *WSClient) {
	h.mu.Lock()
	set := h.clients[c.UserID]
	_, known := set[c]
	if known {
		delete(set, c)
		if len(set) == 0 {
			delete(h.clients, c.UserID)
		}
	}
	h.mu.Unlock()
	if known {
		RealtimeClients.Dec()
	}
	_ = c.Conn.Close()
}

// Clients returns how many connections userID has open.
func (h *RealtimeHub) Clients(userID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// Publish writes ev to every connection of userID. Connections that fail
// to accept the write are dropped.
func (h *RealtimeHub) Publish(userID uint, ev Event) {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	msg, err := json.Marshal(ev)
	if err != nil {
		h.log.WithError(err).WithField("event", ev.Type).Error("marshal realtime event")
		return
	}

	h.mu.RLock()
	targets := make([]*WSClient, 0, len(h.clients[userID]))
	for c := range h.clients[userID] {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	for _, c := range targets {
		if err := c.write(msg); err != nil {
			h.log.WithError(err).WithField("user_id", userID).Debug("drop websocket client")
			h.Unregister(c)
		}
	}
}
