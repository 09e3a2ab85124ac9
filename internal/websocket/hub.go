// internal/websocket/hub.go
package websocket

import (
	"context"
	"sync"

	wstypes "activity-booking-service/internal/domain/websocket"
	"activity-booking-service/internal/events"
	"activity-booking-service/internal/pkg/jwt"

	"go.uber.org/zap"
)

// TokenValidator authenticates the token presented on upgrade.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*jwt.Claims, error)
}

// Hub fans booking events out to connected clients. It implements
// events.Publisher.
type Hub struct {
	clients map[*Client]bool
	mu      sync.RWMutex

	// Registration/unregistration
	Register   chan *Client
	unregister chan *Client

	// Broadcasting
	broadcast chan *BroadcastMessage

	// Handler registry for modular message handling
	handlerRegistry *HandlerRegistry

	validator TokenValidator
	logger    *zap.Logger
}

// BroadcastMessage reaches every client subscribed to any of Channels.
type BroadcastMessage struct {
	Channels []wstypes.ChannelType
	Message  *wstypes.WSMessage
}

// NewHub builds a hub. A nil validator accepts anonymous connections.
func NewHub(validator TokenValidator, logger *zap.Logger) *Hub {
	return &Hub{
		clients:         make(map[*Client]bool),
		Register:        make(chan *Client),
		unregister:      make(chan *Client),
		broadcast:       make(chan *BroadcastMessage, 256),
		handlerRegistry: NewHandlerRegistry(),
		validator:       validator,
		logger:          logger,
	}
}

// AuthenticateClient validates the JWT token and creates an authenticated client
func (h *Hub) AuthenticateClient(ctx context.Context, token string) (*ClientAuth, error) {
	if h.validator == nil {
		return &ClientAuth{Subject: "anonymous"}, nil
	}
	if token == "" {
		return nil, ErrUnauthorized
	}

	claims, err := h.validator.ValidateToken(ctx, token)
	if err != nil {
		return nil, err
	}

	return &ClientAuth{
		Subject: claims.Subject,
		TokenID: claims.ID,
		Roles:   claims.Roles,
	}, nil
}

// RegisterHandler registers a message handler
func (h *Hub) RegisterHandler(handler MessageHandler) {
	h.handlerRegistry.Register(handler)
}

// HandleClientMessage processes a message from a client using registered handlers
func (h *Hub) HandleClientMessage(ctx context.Context, client *Client, msg *wstypes.WSMessage) error {
	handler, exists := h.handlerRegistry.GetHandler(msg.Type)
	if !exists {
		return nil // Will be handled by client's default handler
	}
	return handler.HandleMessage(ctx, client, msg)
}

func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return

		case client := <-h.Register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case msg := <-h.broadcast:
			h.BroadcastMessage(msg)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	total := len(h.clients)
	h.mu.Unlock()

	h.logger.Info("websocket client connected",
		zap.String("subject", client.subject),
		zap.Int("total", total),
	)

	client.SendMessage(wstypes.NewMessage(wstypes.EventTypeConnected, map[string]interface{}{
		"subject":  client.subject,
		"roles":    client.roles,
		"channels": []wstypes.ChannelType{wstypes.ChannelBookings, wstypes.ChannelSystem},
	}))
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		client.Close()

		h.logger.Info("websocket client disconnected",
			zap.String("subject", client.subject),
			zap.Int("total", len(h.clients)),
		)
	}
}

func (h *Hub) BroadcastMessage(msg *BroadcastMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients {
		for _, ch := range msg.Channels {
			if client.IsSubscribed(ch) {
				client.SendMessage(msg.Message)
				break
			}
		}
	}
}

func (h *Hub) TotalClients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Publish queues a booking event for clients following bookings or the
// event's activity. It never blocks; a full queue drops the event.
func (h *Hub) Publish(_ context.Context, event events.BookingEvent) error {
	msg := &BroadcastMessage{
		Channels: []wstypes.ChannelType{
			wstypes.ChannelBookings,
			wstypes.ActivityChannel(event.ActivityID),
		},
		Message: wstypes.NewMessage(wstypes.EventType(event.Type), event),
	}

	select {
	case h.broadcast <- msg:
		return nil
	default:
		return ErrHubFull
	}
}

func (h *Hub) shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		client.Close()
	}
	h.clients = make(map[*Client]bool)
}
