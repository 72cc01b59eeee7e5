// Package hub pushes live league snapshots to websocket subscribers.
package hub

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/esoccer-insights/stats-api/internal/models"
)

var (
	liveClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "esoccer_live_clients",
		Help: "Currently connected live subscribers",
	})

	liveDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "esoccer_live_messages_dropped_total",
		Help: "Snapshots not delivered because a buffer was full",
	})
)

// Message types exchanged over the live socket
const (
	MessageTypeSnapshot    = "snapshot"
	MessageTypeSubscribe   = "subscribe"
	MessageTypeUnsubscribe = "unsubscribe"
	MessageTypeHeartbeat   = "heartbeat"
	MessageTypeError       = "error"
)

// Message is sent from the server to a client
type Message struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// ClientMessage is sent from a client to the server
type ClientMessage struct {
	Type    string   `json:"type"`
	Leagues []string `json:"leagues,omitempty"`
}

// ErrorMessage is the payload of an error message
type ErrorMessage struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Hub maintains the set of live clients and fans snapshots out to them
type Hub struct {
	clients   map[*Client]bool
	clientsMu sync.RWMutex

	broadcast  chan models.LeagueSnapshot
	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	logger *zap.SugaredLogger
}

func New(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan models.LeagueSnapshot, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger.Sugar(),
	}
}

// Run serves register, unregister and broadcast requests until ctx is done
func (h *Hub) Run(ctx context.Context) {
	h.logger.Info("Live hub started")
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return
		case c := <-h.register:
			h.registerClient(c)
		case c := <-h.unregister:
			h.unregisterClient(c)
		case snap := <-h.broadcast:
			h.broadcastSnapshot(snap)
		}
	}
}

// Register adds a client. It returns false once the hub has stopped.
func (h *Hub) Register(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes a client and closes its send channel
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Publish queues a snapshot for delivery. A full buffer drops it.
func (h *Hub) Publish(snapshot models.LeagueSnapshot) {
	select {
	case h.broadcast <- snapshot:
	default:
		liveDropped.Inc()
		h.logger.Warnw("Live broadcast buffer full, dropping snapshot", "league", snapshot.League, "cycle", snapshot.CycleID)
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients)
}

func (h *Hub) registerClient(c *Client) {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	h.clients[c] = true
	liveClients.Set(float64(len(h.clients)))
	h.logger.Infow("Live client connected", "client", c.ID, "total", len(h.clients))
}

func (h *Hub) unregisterClient(c *Client) {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		c.closeSend()
		liveClients.Set(float64(len(h.clients)))
		h.logger.Infow("Live client disconnected", "client", c.ID, "total", len(h.clients))
	}
}

func (h *Hub) broadcastSnapshot(snap models.LeagueSnapshot) {
	h.clientsMu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.clientsMu.RUnlock()

	msg := Message{
		Type:      MessageTypeSnapshot,
		Payload:   snap,
		Timestamp: time.Now().UTC(),
	}

	for _, c := range clients {
		if !c.Wants(snap.League) {
			continue
		}
		if !c.TrySend(msg) {
			// slow consumer
			liveDropped.Inc()
			h.logger.Warnw("Live client buffer full, disconnecting", "client", c.ID)
			h.unregisterClient(c)
		}
	}
}

func (h *Hub) shutdown() {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	h.logger.Infow("Shutting down live hub", "clients", len(h.clients))
	for c := range h.clients {
		c.closeSend()
		delete(h.clients, c)
	}
	liveClients.Set(0)
}
