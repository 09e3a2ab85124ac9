// internal/domain/websocket/types.go
package websocket

import (
	"encoding/json"
	"time"

	"activity-booking-service/internal/pkg/ids"
)

// EventType represents different real-time event types. Booking events
// reuse the events.Type names.
type EventType string

const (
	// Connection events
	EventTypePing         EventType = "ping"
	EventTypePong         EventType = "pong"
	EventTypeConnected    EventType = "connected"
	EventTypeDisconnected EventType = "disconnected"
	EventTypeError        EventType = "error"

	// Availability request/response
	EventTypeAvailabilityGet EventType = "availability:get"

	// Subscription events
	EventTypeSubscribe   EventType = "subscribe"
	EventTypeUnsubscribe EventType = "unsubscribe"
)

// WSMessage is the universal message format
type WSMessage struct {
	Type      EventType   `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	ID        string      `json:"id,omitempty"`
}

// ChannelType names a subscription. Besides the fixed channels, a client
// may follow one activity through ActivityChannel.
type ChannelType string

const (
	ChannelBookings ChannelType = "bookings"
	ChannelSystem   ChannelType = "system"

	activityChannelPrefix = "activity:"
)

// ActivityChannel carries the booking events of one activity.
func ActivityChannel(activityID string) ChannelType {
	return ChannelType(activityChannelPrefix + activityID)
}

type SubscribeRequest struct {
	Channels []ChannelType `json:"channels"`
}

type UnsubscribeRequest struct {
	Channels []ChannelType `json:"channels"`
}

// AvailabilityRequest asks for the slots of one activity on one date.
type AvailabilityRequest struct {
	ActivityID   string `json:"activity_id"`
	Date         string `json:"date"`
	Participants *int   `json:"participants,omitempty"`
}

// ErrorData for error events
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// Helper to create messages
func NewMessage(eventType EventType, data interface{}) *WSMessage {
	return &WSMessage{
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now().UTC(),
		ID:        ids.New(),
	}
}

func (m *WSMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ParseMessage(data []byte) (*WSMessage, error) {
	var msg WSMessage
	err := json.Unmarshal(data, &msg)
	return &msg, err
}
