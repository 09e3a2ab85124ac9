// internal/websocket/handler/availability.go
package handlers

import (
	"context"
	"fmt"

	"activity-booking-service/internal/domain/availability"
	wstypes "activity-booking-service/internal/domain/websocket"
	xerrors "activity-booking-service/internal/pkg/errors"
	ws "activity-booking-service/internal/websocket"
)

// AvailabilityReader is the part of the availability service the socket uses.
type AvailabilityReader interface {
	ForDate(ctx context.Context, activityID, date string, participants *int) (*availability.DateAvailability, error)
}

type AvailabilityHandler struct {
	availability AvailabilityReader
}

func NewAvailabilityHandler(reader AvailabilityReader) *AvailabilityHandler {
	return &AvailabilityHandler{availability: reader}
}

// SupportedEvents returns events this handler supports
func (h *AvailabilityHandler) SupportedEvents() []wstypes.EventType {
	return []wstypes.EventType{wstypes.EventTypeAvailabilityGet}
}

// HandleMessage answers availability lookups on the socket. Lookup failures
// are reported to the client as error messages, not returned.
func (h *AvailabilityHandler) HandleMessage(ctx context.Context, client *ws.Client, msg *wstypes.WSMessage) error {
	if msg.Type != wstypes.EventTypeAvailabilityGet {
		return fmt.Errorf("unsupported event type: %s", msg.Type)
	}

	var req wstypes.AvailabilityRequest
	if err := ws.MapToStruct(msg.Data, &req); err != nil {
		client.SendError("invalid_request", "Invalid availability request", err.Error())
		return nil
	}
	if req.ActivityID == "" || req.Date == "" {
		client.SendError("invalid_request", "activity_id and date are required", "")
		return nil
	}

	result, err := h.availability.ForDate(ctx, req.ActivityID, req.Date, req.Participants)
	if err != nil {
		client.SendError("availability_failed", "Failed to load availability", xerrors.PublicMessage(err))
		return nil
	}

	client.SendMessage(wstypes.NewMessage(wstypes.EventTypeAvailabilityGet, result))
	return nil
}
