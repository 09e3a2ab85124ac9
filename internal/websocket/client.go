// internal/websocket/client.go
package websocket

import (
	"context"
	"strings"
	"sync"
	"time"

	wstypes "activity-booking-service/internal/domain/websocket"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
)

// ClientAuth holds authentication information
type ClientAuth struct {
	Subject string
	TokenID string
	Roles   []string
}

type Client struct {
	hub     *Hub
	conn    *websocket.Conn
	send    chan []byte
	subject string
	tokenID string
	roles   []string

	// Subscriptions - what channels this client is listening to
	subscriptions map[wstypes.ChannelType]bool
	subMutex      sync.RWMutex

	// Context for graceful shutdown
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
}

// NewClient subscribes the client to bookings and system messages.
func NewClient(hub *Hub, conn *websocket.Conn, auth *ClientAuth) *Client {
	ctx, cancel := context.WithCancel(context.Background())

	return &Client{
		hub:     hub,
		conn:    conn,
		send:    make(chan []byte, 256),
		subject: auth.Subject,
		tokenID: auth.TokenID,
		roles:   auth.Roles,
		subscriptions: map[wstypes.ChannelType]bool{
			wstypes.ChannelBookings: true,
			wstypes.ChannelSystem:   true,
		},
		ctx:    ctx,
		cancel: cancel,
	}
}

// Subscribe to a channel. Only the fixed channels and activity channels
// are accepted.
func (c *Client) Subscribe(channel wstypes.ChannelType) bool {
	switch {
	case channel == wstypes.ChannelBookings, channel == wstypes.ChannelSystem:
	case strings.HasPrefix(string(channel), "activity:") && len(channel) > len("activity:"):
	default:
		return false
	}

	c.subMutex.Lock()
	defer c.subMutex.Unlock()
	c.subscriptions[channel] = true
	return true
}

// Unsubscribe from a channel
func (c *Client) Unsubscribe(channel wstypes.ChannelType) {
	c.subMutex.Lock()
	defer c.subMutex.Unlock()
	delete(c.subscriptions, channel)
}

// IsSubscribed checks if client is subscribed to a channel
func (c *Client) IsSubscribed(channel wstypes.ChannelType) bool {
	c.subMutex.RLock()
	defer c.subMutex.RUnlock()
	return c.subscriptions[channel]
}

func (c *Client) Subject() string {
	return c.subject
}

// ReadPump handles incoming messages from client
func (c *Client) ReadPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Warn("websocket read error", zap.String("subject", c.subject), zap.Error(err))
			}
			return
		}
		c.handleMessage(message)
	}
}

// WritePump handles outgoing messages to client
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.ctx.Done():
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage processes incoming messages from client
func (c *Client) handleMessage(data []byte) {
	msg, err := wstypes.ParseMessage(data)
	if err != nil {
		c.SendError("invalid_message", "Failed to parse message", err.Error())
		return
	}

	// Try to handle with registered handlers first
	if err := c.hub.HandleClientMessage(c.ctx, c, msg); err != nil {
		c.SendError("handler_error", "Failed to process message", err.Error())
		return
	}

	// Built-in message handling
	switch msg.Type {
	case wstypes.EventTypePing:
		c.SendMessage(wstypes.NewMessage(wstypes.EventTypePong, nil))

	case wstypes.EventTypeSubscribe:
		var req wstypes.SubscribeRequest
		if err := MapToStruct(msg.Data, &req); err != nil {
			c.SendError("invalid_subscribe", "Invalid subscribe request", err.Error())
			return
		}
		accepted := make([]wstypes.ChannelType, 0, len(req.Channels))
		for _, channel := range req.Channels {
			if c.Subscribe(channel) {
				accepted = append(accepted, channel)
			}
		}
		c.SendMessage(wstypes.NewMessage(wstypes.EventTypeSubscribe, map[string]interface{}{
			"channels": accepted,
			"status":   "subscribed",
		}))

	case wstypes.EventTypeUnsubscribe:
		var req wstypes.UnsubscribeRequest
		if err := MapToStruct(msg.Data, &req); err != nil {
			c.SendError("invalid_unsubscribe", "Invalid unsubscribe request", err.Error())
			return
		}
		for _, channel := range req.Channels {
			c.Unsubscribe(channel)
		}
		c.SendMessage(wstypes.NewMessage(wstypes.EventTypeUnsubscribe, map[string]interface{}{
			"channels": req.Channels,
			"status":   "unsubscribed",
		}))
	}
}

// SendMessage queues a message. A client that cannot keep up is dropped.
func (c *Client) SendMessage(msg *wstypes.WSMessage) {
	data, err := msg.ToJSON()
	if err != nil {
		c.hub.logger.Error("failed to marshal websocket message", zap.Error(err))
		return
	}

	select {
	case c.send <- data:
	case <-c.ctx.Done():
	default:
		c.Close()
	}
}

// SendError sends an error message to the client
func (c *Client) SendError(code, message, details string) {
	c.SendMessage(wstypes.NewMessage(wstypes.EventTypeError, wstypes.ErrorData{
		Code:    code,
		Message: message,
		Details: details,
	}))
}

// Close stops the write pump. Safe to call more than once.
func (c *Client) Close() {
	c.closeOnce.Do(c.cancel)
}
