// internal/handlers/health/health.go
package health

import (
	"net/http"
	"time"

	"activity-booking-service/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// Version is reported by the health endpoint.
const Version = "1.0.0"

// Connections reports live websocket clients.
type Connections interface {
	TotalClients() int
}

type HealthHandler struct {
	store   string
	clients Connections
	started time.Time
}

func NewHealthHandler(store string, clients Connections) *HealthHandler {
	return &HealthHandler{store: store, clients: clients, started: time.Now()}
}

func (h *HealthHandler) Health(c *gin.Context) {
	data := gin.H{
		"status":  "ok",
		"version": Version,
		"store":   h.store,
		"uptime":  time.Since(h.started).Round(time.Second).String(),
	}
	if h.clients != nil {
		data["websocket_clients"] = h.clients.TotalClients()
	}
	response.Success(c, http.StatusOK, "service healthy", data)
}
