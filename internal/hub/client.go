package hub

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBufferSize = 64
)

// Client is one websocket subscriber. With no leagues subscribed it receives
// every snapshot.
type Client struct {
	ID   string
	Send chan Message

	conn *websocket.Conn
	hub  *Hub

	leagues   map[string]struct{}
	leaguesMu sync.RWMutex

	// guards Send against a send after the hub closed it
	sendMu sync.Mutex
	closed bool
}

func NewClient(id string, conn *websocket.Conn, hub *Hub) *Client {
	return &Client{
		ID:      id,
		Send:    make(chan Message, sendBufferSize),
		conn:    conn,
		hub:     hub,
		leagues: make(map[string]struct{}),
	}
}

// ReadPump reads subscription requests until the connection fails
func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if ctx.Err() != nil {
			return
		}
		var msg ClientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Warnw("Live client closed unexpectedly", "client", c.ID, "error", err)
			}
			return
		}
		c.handle(msg)
	}
}

// WritePump writes queued messages and keeps the connection alive with pings
func (c *Client) WritePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case msg, ok := <-c.Send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				c.hub.logger.Debugw("Live client write failed", "client", c.ID, "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// TrySend queues msg without blocking and reports whether it fit.
// It returns false once the hub has closed the client.
func (c *Client) TrySend(msg Message) bool {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.Send <- msg:
		return true
	default:
		return false
	}
}

// closeSend closes Send once; WritePump then ends the connection
func (c *Client) closeSend() {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.Send)
	}
}

// Subscribe replaces the league filter. An empty list means all leagues.
func (c *Client) Subscribe(leagues []string) {
	set := make(map[string]struct{}, len(leagues))
	for _, l := range leagues {
		set[l] = struct{}{}
	}
	c.leaguesMu.Lock()
	c.leagues = set
	c.leaguesMu.Unlock()
}

// Wants reports whether snapshots of league should reach this client
func (c *Client) Wants(league string) bool {
	c.leaguesMu.RLock()
	defer c.leaguesMu.RUnlock()
	if len(c.leagues) == 0 {
		return true
	}
	_, ok := c.leagues[league]
	return ok
}

func (c *Client) handle(msg ClientMessage) {
	switch msg.Type {
	case MessageTypeSubscribe:
		c.Subscribe(msg.Leagues)
		c.hub.logger.Debugw("Live client subscribed", "client", c.ID, "leagues", msg.Leagues)
	case MessageTypeUnsubscribe:
		c.Subscribe(nil)
	case MessageTypeHeartbeat:
		c.TrySend(Message{Type: MessageTypeHeartbeat, Timestamp: time.Now().UTC()})
	default:
		c.TrySend(Message{
			Type:      MessageTypeError,
			Payload:   ErrorMessage{Code: "unknown_message_type", Message: fmt.Sprintf("unknown message type: %s", msg.Type)},
			Timestamp: time.Now().UTC(),
		})
	}
}
