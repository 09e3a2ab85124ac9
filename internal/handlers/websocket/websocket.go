// internal/handlers/websocket/websocket.go
package handlers

import (
	"net/http"
	"strings"
	"time"

	"activity-booking-service/internal/pkg/response"
	ws "activity-booking-service/internal/websocket"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type WebSocketHandler struct {
	hub      *ws.Hub
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

// NewWebSocketHandler builds the upgrade endpoint. Origins follow the CORS
// list; "*" or an empty list accepts any origin.
func NewWebSocketHandler(hub *ws.Hub, origins []string, logger *zap.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(origins),
		},
		logger: logger,
	}
}

func originChecker(origins []string) func(r *http.Request) bool {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		allowed[strings.TrimSpace(o)] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return len(allowed) == 0 || origin == "" || allowed[origin]
	}
}

// HandleConnection handles WebSocket connection with authentication
func (h *WebSocketHandler) HandleConnection(c *gin.Context) {
	auth, err := h.hub.AuthenticateClient(c.Request.Context(), extractToken(c))
	if err != nil {
		h.logger.Warn("websocket authentication failed",
			zap.Error(err),
			zap.String("ip", c.ClientIP()),
		)
		response.Unauthorized(c, "authentication failed")
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed",
			zap.Error(err),
			zap.String("ip", c.ClientIP()),
		)
		return
	}

	client := ws.NewClient(h.hub, conn, auth)
	h.hub.Register <- client

	go client.WritePump()
	go client.ReadPump()
}

// extractToken extracts token from query param or Authorization header
func extractToken(c *gin.Context) string {
	if token := c.Query("token"); token != "" {
		return token
	}

	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return parts[1]
		}
	}

	return ""
}

// GetStats returns WebSocket connection statistics (admin only)
func (h *WebSocketHandler) GetStats(c *gin.Context) {
	stats := map[string]interface{}{
		"total_connections": h.hub.TotalClients(),
		"timestamp":         time.Now(),
	}

	response.Success(c, http.StatusOK, "websocket stats", stats)
}
